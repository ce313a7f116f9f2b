package opt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"flexPlan/internal/fpp"
)

func seqOf(machine string) fpp.Sequence {
	return fpp.Sequence{{Op: "A", Machine: machine, Tool: "t1", Direction: "+z"}}
}

func TestProgress_OfferStrictImprovement(t *testing.T) {
	p := NewProgress(5)

	require.True(t, p.Offer(seqOf("m1"), 100, 0))
	require.Equal(t, 1, p.ConvIter)

	// равная оценка не считается улучшением
	require.False(t, p.Offer(seqOf("m2"), 100, 3))
	require.Equal(t, 1, p.ConvIter)
	require.Equal(t, "m1", p.Best[0].Machine)

	require.False(t, p.Offer(seqOf("m3"), 120, 4))
	require.True(t, p.Offer(seqOf("m4"), 90, 6))
	require.Equal(t, 7, p.ConvIter)
	require.Equal(t, 90.0, p.BestScore)
}

func TestProgress_StoresIndependentCopy(t *testing.T) {
	p := NewProgress(1)
	seq := seqOf("m1")
	require.True(t, p.Offer(seq, 10, 0))

	seq[0].Machine = "changed"
	require.Equal(t, "m1", p.Best[0].Machine)

	res := p.Result(1, 1, time.Now(), nil)
	res.Sequence[0].Machine = "changed"
	require.Equal(t, "m1", p.Best[0].Machine)
}

func TestProgress_SeedKeepsConvergence(t *testing.T) {
	p := NewProgress(3)
	p.Seed(seqOf("m1"), 50)
	require.Zero(t, p.ConvIter)
	require.Equal(t, 50.0, p.BestScore)

	// Seed хуже текущего не заменяет
	p.Seed(seqOf("m2"), 60)
	require.Equal(t, "m1", p.Best[0].Machine)

	require.False(t, p.Offer(seqOf("m3"), 50, 0))
	p.Record()
	require.True(t, p.Offer(seqOf("m4"), 40, 1))
	p.Record()
	p.Record()

	res := p.Result(5, 3, time.Now(), map[string]any{"k": 1})
	require.Equal(t, []float64{50, 40, 40}, res.History)
	require.Equal(t, 2, res.ConvergenceIteration)
	require.Equal(t, 40.0, res.Score)
	require.Equal(t, 5, res.Evaluations)
	require.Equal(t, 3, res.Iterations)
}
