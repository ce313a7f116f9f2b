package bench

import (
	"context"
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"flexPlan/internal/catalog"
	"flexPlan/internal/fpp"
	"flexPlan/internal/hs"
	"flexPlan/internal/opt"
)

func hsAlgo(iters int) Algorithm {
	return Algorithm{
		Name: "HS",
		Factory: func(seed int64) opt.Optimizer {
			s, _ := hs.New(hs.Config{MemorySize: 5, Iterations: iters}, rand.New(rand.NewSource(seed)))
			return s
		},
	}
}

func TestRunCase_Builtin(t *testing.T) {
	r := Runner{Runs: 6, BaseSeed: 100, Workers: 3}
	rec, err := r.RunCase(context.Background(), Case{Instance: catalog.MustBuiltin("example1")}, hsAlgo(200))
	require.NoError(t, err)

	require.Equal(t, "HS", rec.Algo)
	require.Equal(t, "example1", rec.Instance)
	require.Equal(t, 13, rec.Ops)
	require.Equal(t, 17, rec.Variants)
	require.Equal(t, 6, rec.Runs)
	require.LessOrEqual(t, rec.ScoreBest, rec.ScoreMean)
	require.Zero(t, rec.Infeasible)
	require.Equal(t, rec.ScoreBest, rec.BestHistory[len(rec.BestHistory)-1])
	require.Len(t, rec.BestSequence, 13)
	require.Positive(t, rec.ConvergenceMean)
}

func TestRunCase_DeterministicAcrossWorkers(t *testing.T) {
	c := Case{Ops: 8, Machines: 3, InstanceSeed: 9}
	a, err := Runner{Runs: 4, BaseSeed: 1, Workers: 1}.RunCase(context.Background(), c, hsAlgo(100))
	require.NoError(t, err)
	b, err := Runner{Runs: 4, BaseSeed: 1, Workers: 4}.RunCase(context.Background(), c, hsAlgo(100))
	require.NoError(t, err)

	require.Equal(t, a.ScoreBest, b.ScoreBest)
	require.Equal(t, a.ScoreMean, b.ScoreMean)
	require.Equal(t, a.BestSequence, b.BestSequence)
	require.Equal(t, 8, a.Ops)
	require.Equal(t, "random-8x3", a.Instance)
}

type brokenOptimizer struct{}

func (brokenOptimizer) Solve(context.Context, *fpp.Instance) (opt.Result, error) {
	return opt.Result{Sequence: fpp.Sequence{{Op: "o1a"}}}, nil
}

func TestRunCase_RejectsInvalidSequence(t *testing.T) {
	algo := Algorithm{Name: "broken", Factory: func(int64) opt.Optimizer { return brokenOptimizer{} }}
	_, err := Runner{Runs: 2}.RunCase(context.Background(), Case{Instance: catalog.MustBuiltin("example1")}, algo)
	require.ErrorIs(t, err, fpp.ErrInvalidSequence)

	_, err = Runner{Runs: 0}.RunCase(context.Background(), Case{Instance: catalog.MustBuiltin("example1")}, algo)
	require.Error(t, err)
}

func TestRunCase_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Runner{Runs: 2}.RunCase(ctx, Case{Instance: catalog.MustBuiltin("example1")}, hsAlgo(100))
	require.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	in := []float64{3, 1, 2}
	f := Summarize(in)
	require.Equal(t, 1.0, f.Best)
	require.Equal(t, 3.0, f.Worst)
	require.Equal(t, 2.0, f.Median)
	require.Equal(t, 2.0, f.Mean)
	require.InDelta(t, 1.0, f.Std, 1e-12)
	require.Equal(t, []float64{3, 1, 2}, in)

	even := Summarize([]int{4, 10, 2, 8})
	require.Equal(t, 6.0, even.Median)
	require.Equal(t, 2.0, even.Best)

	one := Summarize([]int{4})
	require.Equal(t, 4.0, one.Best)
	require.Zero(t, one.Std)

	require.Zero(t, Summarize[float64](nil).N)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.csv")
	require.NoError(t, WriteCSV(path, []Record{{Algo: "HS", Instance: "example1", Ops: 13, Runs: 2, ScoreBest: 1234.5}}))

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 16)
	require.Equal(t, "algo", rows[0][0])
	require.Equal(t, "HS", rows[1][0])
	require.Equal(t, "1234.500000", rows[1][8])
}

func TestWriteHistoryCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, WriteHistoryCSV(path, []float64{30, 20, 20}))

	rows := readCSV(t, path)
	require.Equal(t, [][]string{
		{"iteration", "best"},
		{"1", "30.000000"},
		{"2", "20.000000"},
		{"3", "20.000000"},
	}, rows)
}
