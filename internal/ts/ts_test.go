package ts

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"flexPlan/internal/catalog"
	"flexPlan/internal/fpp"
)

func TestTabuList(t *testing.T) {
	tl := newTabuList(8)
	k := moveKey(0, 1, 2)
	require.NotZero(t, k)
	require.False(t, tl.IsTabu(k, 0))

	tl.Add(k, 5)
	require.True(t, tl.IsTabu(k, 4))
	require.False(t, tl.IsTabu(k, 5))

	// вытеснение из кольца
	for i := 0; i < 8; i++ {
		tl.Add(moveKey(i+1, 0, 1), 100)
	}
	require.False(t, tl.IsTabu(k, 0))
	require.NotEqual(t, moveKey(1, 2, 3), moveKey(1, 3, 2))
}

func TestSolve_Example1(t *testing.T) {
	inst := catalog.MustBuiltin("example1")
	for _, nb := range []Neighborhood{NeighborhoodInsert, NeighborhoodSwap} {
		t.Run(string(nb), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Iterations = 300
			cfg.Neighborhood = nb
			s, err := New(cfg, rand.New(rand.NewSource(2)))
			require.NoError(t, err)

			res, err := s.Solve(context.Background(), inst)
			require.NoError(t, err)
			require.NoError(t, fpp.ValidateSequence(res.Sequence, inst))
			require.Less(t, res.Score, fpp.InfeasiblePenalty)
			require.Len(t, res.History, 300)
			require.Equal(t, 1+300*cfg.NeighborsPerIter, res.Evaluations)
			for i := 1; i < len(res.History); i++ {
				require.LessOrEqual(t, res.History[i], res.History[i-1])
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	cfg := DefaultConfig()
	cfg.ResourceRate = 1.5
	require.Error(t, cfg.Validate())
	cfg = DefaultConfig()
	cfg.TabuTenure = 0
	require.Error(t, cfg.Validate())
}
