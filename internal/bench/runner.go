package bench

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"

	"flexPlan/internal/fpp"
	"flexPlan/internal/opt"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

// Case — экземпляр для прогона. Если Instance == nil, экземпляр
// генерируется из Ops, Machines и InstanceSeed (инструментов втрое больше станков).
type Case struct {
	Instance *fpp.Instance

	Ops          int
	Machines     int
	InstanceSeed int64
}

func (c Case) resolve() *fpp.Instance {
	if c.Instance != nil {
		return c.Instance
	}
	return fpp.RandomInstance(c.Ops, c.Machines, 3*c.Machines, rand.New(rand.NewSource(c.InstanceSeed)))
}

type Record struct {
	Algo     string
	Instance string
	Ops      int
	Variants int
	Runs     int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	ScoreBest   float64
	ScoreWorst  float64
	ScoreMedian float64
	ScoreMean   float64
	ScoreStd    float64

	// Infeasible — число запусков, лучшее решение которых нарушает предшествование.
	Infeasible int

	ConvergenceMean float64
	ConvergenceStd  float64

	// Лучший запуск: последовательность и кривая сходимости
	BestSequence fpp.Sequence
	BestHistory  []float64
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
	// Workers — число параллельных запусков; 0 = GOMAXPROCS.
	Workers int
}

type runResult struct {
	res opt.Result
	dur time.Duration
}

func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	if r.Runs <= 0 {
		return Record{}, fmt.Errorf("количество запусков должно быть > 0 (получено %d)", r.Runs)
	}
	inst := c.resolve()
	if err := inst.Validate(); err != nil {
		return Record{}, err
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Результаты раскладываются по номеру запуска, порядок не зависит от планировщика
	results := make([]runResult, r.Runs)
	errs := make([]error, r.Runs)

	p := pool.New().WithMaxGoroutines(workers)
	for i := 0; i < r.Runs; i++ {
		i := i
		p.Go(func() {
			results[i], errs[i] = r.runOnce(ctx, inst, algo, i)
		})
	}
	p.Wait()

	if err := errors.Join(errs...); err != nil {
		return Record{}, err
	}

	scores := make([]float64, r.Runs)
	timesMs := make([]float64, r.Runs)
	convs := make([]int, r.Runs)
	best := 0
	infeasible := 0
	for i, rr := range results {
		scores[i] = rr.res.Score
		timesMs[i] = float64(rr.dur.Microseconds()) / 1000.0
		convs[i] = rr.res.ConvergenceIteration
		if rr.res.Score >= fpp.InfeasiblePenalty {
			infeasible++
		}
		if rr.res.Score < results[best].res.Score {
			best = i
		}
	}

	sStats := Summarize(scores)
	tStats := Summarize(timesMs)
	cStats := Summarize(convs)

	return Record{
		Algo:     algo.Name,
		Instance: inst.Name,
		Ops:      inst.Required(),
		Variants: inst.Catalog.Len(),
		Runs:     r.Runs,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		ScoreBest:   sStats.Best,
		ScoreWorst:  sStats.Worst,
		ScoreMedian: sStats.Median,
		ScoreMean:   sStats.Mean,
		ScoreStd:    sStats.Std,

		Infeasible: infeasible,

		ConvergenceMean: cStats.Mean,
		ConvergenceStd:  cStats.Std,

		BestSequence: results[best].res.Sequence,
		BestHistory:  results[best].res.History,
	}, nil
}

func (r Runner) runOnce(ctx context.Context, inst *fpp.Instance, algo Algorithm, i int) (runResult, error) {
	runSeed := r.BaseSeed + int64(i)
	op := algo.Factory(runSeed)
	if op == nil {
		return runResult{}, fmt.Errorf("run %d: %s: factory returned nil optimizer", i, algo.Name)
	}

	runCtx := ctx
	cancel := func() {}
	if r.PerRunTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
	}
	defer cancel()

	start := time.Now()
	res, err := op.Solve(runCtx, inst)
	dur := time.Since(start)

	if err != nil && runCtx.Err() != nil {
		return runResult{}, fmt.Errorf("run %d: cancelled/timeout: %w", i, err)
	}
	if err != nil {
		return runResult{}, fmt.Errorf("run %d: solve error: %w", i, err)
	}
	if err := fpp.ValidateSequence(res.Sequence, inst); err != nil {
		return runResult{}, fmt.Errorf("run %d: %s: %w", i, algo.Name, err)
	}
	return runResult{res: res, dur: dur}, nil
}
