package ga

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"flexPlan/internal/catalog"
	"flexPlan/internal/fpp"
)

func TestCrossover_KeepsPrecedence(t *testing.T) {
	inst := catalog.MustBuiltin("example1")
	rng := rand.New(rand.NewSource(3))
	eval, err := fpp.NewEvaluator(inst)
	require.NoError(t, err)
	b := fpp.NewBuilder(inst.Catalog)
	xo := newCrossover(inst.Catalog)

	child := make(fpp.Sequence, inst.Required())
	for i := 0; i < 200; i++ {
		p1, err := b.Build(rng)
		require.NoError(t, err)
		p2, err := b.Build(rng)
		require.NoError(t, err)

		require.NoError(t, xo.apply(p1, p2, child, rng))
		require.NoError(t, fpp.ValidateSequence(child, inst))
		require.True(t, eval.Feasible(child))
		// каждый шаг потомка взят из одного из родителей или построен заново
		for _, st := range child {
			op, ok := inst.Catalog.Lookup(st.Op)
			require.True(t, ok)
			require.Contains(t, op.Machine, st.Machine)
		}
	}
}

func TestCrossover_IdenticalParents(t *testing.T) {
	inst := catalog.MustBuiltin("example1")
	rng := rand.New(rand.NewSource(4))
	p, err := fpp.BuildRandom(inst, rng)
	require.NoError(t, err)

	child := make(fpp.Sequence, len(p))
	require.NoError(t, newCrossover(inst.Catalog).apply(p, p, child, rng))
	require.Equal(t, p, child)
}

func TestTournamentSelect(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	scores := []float64{5, 1, 9}
	// турнир размером намного больше популяции почти наверняка находит минимум
	require.Equal(t, 1, tournamentSelect(scores, 64, rng))
}

func TestSolve_Example1(t *testing.T) {
	inst := catalog.MustBuiltin("example1")
	cfg := DefaultConfig()
	cfg.Population = 21
	cfg.Generations = 40
	s, err := New(cfg, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)
	require.NoError(t, fpp.ValidateSequence(res.Sequence, inst))
	require.Less(t, res.Score, fpp.InfeasiblePenalty)
	require.Len(t, res.History, 40)
	require.Equal(t, 21+40*(21-cfg.Elite), res.Evaluations)
	for i := 1; i < len(res.History); i++ {
		require.LessOrEqual(t, res.History[i], res.History[i-1])
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	cfg := DefaultConfig()
	cfg.Elite = cfg.Population
	require.Error(t, cfg.Validate())
}
