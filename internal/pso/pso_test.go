package pso

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"flexPlan/internal/catalog"
	"flexPlan/internal/fpp"
)

func TestPickIndex(t *testing.T) {
	require.Equal(t, 0, pickIndex(0, 3))
	require.Equal(t, 1, pickIndex(0.5, 3))
	require.Equal(t, 2, pickIndex(0.99, 3))
	require.Equal(t, 2, pickIndex(1, 3))
	require.Equal(t, 0, pickIndex(-0.2, 3))
	require.Equal(t, 2, pickIndex(7, 3))
}

func TestDecode_LowestKeyAmongQualified(t *testing.T) {
	inst := catalog.MustBuiltin("example1")
	cat := inst.Catalog
	n := cat.Len()
	keys := make([]float64, keyGroups*n)
	// приоритеты по порядку каталога: o1b требует o2*, o13*, поэтому выбирается o1a
	for j := 0; j < n; j++ {
		keys[j] = float64(j) / float64(n)
	}
	out := make(fpp.Sequence, inst.Required())
	require.NoError(t, newDecoder(cat).decode(keys, out))
	require.Equal(t, "o1a", out[0].Op)
	require.Equal(t, "o2a", out[1].Op)
	require.NoError(t, fpp.ValidateSequence(out, inst))

	eval, err := fpp.NewEvaluator(inst)
	require.NoError(t, err)
	require.True(t, eval.Feasible(out))
}

func TestSolve_Example1(t *testing.T) {
	inst := catalog.MustBuiltin("example1")
	cfg := DefaultConfig()
	cfg.Iterations = 40
	cfg.Particles = 15
	s, err := New(cfg, rand.New(rand.NewSource(6)))
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)
	require.NoError(t, fpp.ValidateSequence(res.Sequence, inst))
	require.Less(t, res.Score, fpp.InfeasiblePenalty)
	require.Equal(t, 15+40*15, res.Evaluations)
	require.Len(t, res.History, 40)
}
