package aco

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"flexPlan/internal/catalog"
	"flexPlan/internal/fpp"
)

func TestSolve_Example1(t *testing.T) {
	inst := catalog.MustBuiltin("example1")
	for _, k := range []int{0, 3} {
		cfg := DefaultConfig()
		cfg.Iterations = 30
		cfg.Ants = 10
		cfg.CandidateK = k
		s, err := New(cfg, rand.New(rand.NewSource(1)))
		require.NoError(t, err)

		res, err := s.Solve(context.Background(), inst)
		require.NoError(t, err)
		require.NoError(t, fpp.ValidateSequence(res.Sequence, inst))
		require.Less(t, res.Score, fpp.InfeasiblePenalty)
		require.Equal(t, 300, res.Evaluations)
		require.Len(t, res.History, 30)
		require.Positive(t, res.ConvergenceIteration)
	}
}

func TestResources(t *testing.T) {
	inst := catalog.MustBuiltin("example1")
	c := &constructor{inst: inst}
	rng := rand.New(rand.NewSource(1))

	o6, _ := inst.Catalog.Lookup("o6")
	// без предыдущего шага: самый дешёвый станок m3 (10)
	st := c.resources(o6, nil, rng)
	require.Equal(t, "m3", st.Machine)
	require.Equal(t, "t10", st.Tool)

	// предыдущий станок допустим и сохраняется
	st = c.resources(o6, &fpp.Step{Machine: "m5", Tool: "t1", Direction: "-z"}, rng)
	require.Equal(t, "m5", st.Machine)
	require.Equal(t, "t10", st.Tool)
	require.Equal(t, "-z", st.Direction)
}

func TestCheapest(t *testing.T) {
	cost := map[string]float64{"a": 3, "b": 1, "c": 1}
	require.Equal(t, "b", cheapestID([]string{"a", "b", "c"}, cost))
	require.Equal(t, 1.0, cheapest([]string{"c", "a"}, cost))
}

func TestDepositAmount_ZeroCost(t *testing.T) {
	require.Equal(t, 2.0, depositAmount(1000, 500))
	got := depositAmount(1000, 0)
	require.False(t, math.IsInf(got, 0))
	require.False(t, math.IsNaN(got))
	require.Positive(t, got)
}
