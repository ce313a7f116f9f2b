package hs

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"flexPlan/internal/catalog"
	"flexPlan/internal/fpp"
)

// threeOps: три логические операции без альтернатив и prior,
// у всех один и тот же станок, инструмент и направление.
func threeOps(t *testing.T) *fpp.Instance {
	t.Helper()
	op := func(id string) fpp.Operation {
		return fpp.Operation{ID: id, Machine: []string{"m1"}, Tool: []string{"t1"}, Direction: []string{"+z"}}
	}
	inst, err := fpp.NewInstance("three",
		[]fpp.Operation{op("A"), op("B"), op("C")},
		map[string]float64{"m1": 5},
		map[string]float64{"t1": 2},
		fpp.Changeover{Machine: 150, Tool: 20, Setup: 90},
	)
	require.NoError(t, err)
	return inst
}

type countingMetrics struct {
	mu           sync.Mutex
	evaluations  int
	infeasible   int
	replacements int
	runs         int
	best         []float64
}

func (c *countingMetrics) RecordEvaluation(_ string, feasible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evaluations++
	if !feasible {
		c.infeasible++
	}
}

func (c *countingMetrics) RecordReplacement(_ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replacements++
}

func (c *countingMetrics) RecordBest(_ string, score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.best = append(c.best, score)
}

func (c *countingMetrics) RecordRun(_ string, _ float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs++
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.Error(t, Config{MemorySize: 0, Iterations: 10}.Validate())
	require.Error(t, Config{MemorySize: 10, Iterations: 0}.Validate())

	_, err := New(DefaultConfig(), nil)
	require.Error(t, err)
}

func TestRun_ThreeOpsExactScore(t *testing.T) {
	inst := threeOps(t)
	for _, ni := range []int{1, 5, 100} {
		res, err := Run(context.Background(), inst, 4, ni, rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		require.Equal(t, 21.0, res.Score)
		require.Len(t, res.History, ni)
		require.Len(t, res.Sequence, 3)
		require.ElementsMatch(t, []string{"A", "B", "C"}, res.Sequence.Ops())
	}
}

func TestSolve_Example1(t *testing.T) {
	inst := catalog.MustBuiltin("example1")
	const ni = 800

	s, err := New(Config{MemorySize: 10, Iterations: ni}, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)

	require.Len(t, res.History, ni)
	for i := 1; i < len(res.History); i++ {
		require.LessOrEqual(t, res.History[i], res.History[i-1], "history must be non-increasing at %d", i)
	}
	require.Equal(t, res.Score, res.History[ni-1])

	// сходимость — итерация (с единицы) последнего строгого улучшения
	last := 0
	for i := 1; i < len(res.History); i++ {
		if res.History[i] < res.History[i-1] {
			last = i + 1
		}
	}
	if last > 0 {
		require.Equal(t, last, res.ConvergenceIteration)
	} else {
		require.LessOrEqual(t, res.ConvergenceIteration, 1)
	}
	require.Equal(t, 10+ni, res.Evaluations)

	require.NoError(t, fpp.ValidateSequence(res.Sequence, inst))
	eval, err := fpp.NewEvaluator(inst)
	require.NoError(t, err)
	require.True(t, eval.Feasible(res.Sequence))
	require.Equal(t, res.Score, eval.MustScore(res.Sequence))
	require.Less(t, res.Score, fpp.InfeasiblePenalty)
}

func TestSolve_Deterministic(t *testing.T) {
	inst := catalog.MustBuiltin("example1")
	run := func() (float64, fpp.Sequence, []float64) {
		res, err := Run(context.Background(), inst, 6, 300, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		return res.Score, res.Sequence, res.History
	}
	s1, q1, h1 := run()
	s2, q2, h2 := run()
	require.Equal(t, s1, s2)
	require.Equal(t, q1, q2)
	require.Equal(t, h1, h2)
}

func TestSolve_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, catalog.MustBuiltin("example1"), 5, 100, rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, "context", res.Meta["stopped"])
	require.Equal(t, 0, res.Iterations)
	require.Empty(t, res.History)
	require.Len(t, res.Sequence, 13)
}

func TestSolve_StarvationOnCycle(t *testing.T) {
	inst, err := fpp.NewInstance("cycle",
		[]fpp.Operation{
			{ID: "A", Prior: []string{"B"}, Machine: []string{"m1"}, Tool: []string{"t1"}, Direction: []string{"+z"}},
			{ID: "B", Prior: []string{"A"}, Machine: []string{"m1"}, Tool: []string{"t1"}, Direction: []string{"+z"}},
		},
		map[string]float64{"m1": 1}, map[string]float64{"t1": 1}, fpp.Changeover{},
	)
	require.NoError(t, err)

	_, err = Run(context.Background(), inst, 3, 10, rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, fpp.ErrStarvation)
}

func TestSolve_Options(t *testing.T) {
	m := &countingMetrics{}
	const hms, ni = 5, 200
	res, err := Run(context.Background(), catalog.MustBuiltin("example1"), hms, ni,
		rand.New(rand.NewSource(3)), WithMetrics(m), WithLogger(nil))
	require.NoError(t, err)

	require.Equal(t, hms+ni, m.evaluations)
	require.Equal(t, 1, m.runs)
	require.Equal(t, res.Meta["replacements"], m.replacements)
	require.NotEmpty(t, m.best)
	require.Equal(t, res.Score, m.best[len(m.best)-1])
	// каждая импровизация размещает 13 шагов: из памяти или случайно
	require.Equal(t, ni*13, res.Meta["memoryHits"].(int)+res.Meta["randomFills"].(int))
}
