// Package hs реализует гармонический поиск с обучением последовательности (SLHS)
// для гибкого планирования техпроцесса.
package hs

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"flexPlan/internal/fpp"
	"flexPlan/internal/logging"
	"flexPlan/internal/metrics"
	"flexPlan/internal/opt"
)

const algoName = "hs"

// Solver — SLHS-солвер.
type Solver struct {
	Cfg Config
	Rng *rand.Rand

	log     logging.Logger
	metrics metrics.Collector
}

var _ opt.Optimizer = (*Solver)(nil)

// New возвращает солвер с проверенной конфигурацией.
func New(cfg Config, rng *rand.Rand, opts ...Option) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	s := &Solver{
		Cfg:     cfg,
		Rng:     rng,
		log:     logging.NewNop(),
		metrics: metrics.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Run — однократный запуск SLHS с памятью hms и ni импровизациями.
func Run(ctx context.Context, inst *fpp.Instance, hms, ni int, rng *rand.Rand, opts ...Option) (opt.Result, error) {
	s, err := New(Config{MemorySize: hms, Iterations: ni}, rng, opts...)
	if err != nil {
		return opt.Result{}, err
	}
	return s.Solve(ctx, inst)
}

func (s *Solver) Solve(ctx context.Context, inst *fpp.Instance) (opt.Result, error) {
	start := time.Now()

	if inst == nil {
		return opt.Result{}, fmt.Errorf("nil instance: %w", fpp.ErrInvalidInstance)
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	// Solver, собранный литералом, получает Nop-зависимости
	if s.log == nil {
		s.log = logging.NewNop()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewNop()
	}

	eval, err := fpp.NewEvaluator(inst)
	if err != nil {
		return opt.Result{}, err
	}

	evaluations := 0
	score := func(seq fpp.Sequence) float64 {
		v := eval.MustScore(seq)
		evaluations++
		s.metrics.RecordEvaluation(algoName, v < fpp.InfeasiblePenalty)
		return v
	}

	builder := fpp.NewBuilder(inst.Catalog)
	mem, err := newMemory(s.Cfg.MemorySize, func() (fpp.Sequence, error) {
		return builder.Build(s.Rng)
	}, score)
	if err != nil {
		return opt.Result{}, err
	}

	progress := opt.NewProgress(s.Cfg.Iterations)
	progress.Seed(mem.Best())
	s.metrics.RecordBest(algoName, progress.BestScore)
	s.log.Debug("harmony memory initialized",
		"instance", inst.Name,
		"hms", s.Cfg.MemorySize,
		"best", progress.BestScore,
	)

	imp := newImproviser(inst.Catalog, mem, s.Rng)
	replacements := 0

	meta := func() map[string]any {
		return map[string]any{
			"hms":          s.Cfg.MemorySize,
			"iterations":   s.Cfg.Iterations,
			"replacements": replacements,
			"memoryHits":   imp.memoryHits,
			"randomFills":  imp.randomFills,
		}
	}

	for t := 0; t < s.Cfg.Iterations; t++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			m := meta()
			m["stopped"] = "context"
			return progress.Result(evaluations, t, start, m), err
		}

		cand, err := imp.improvise()
		if err != nil {
			if errors.Is(err, fpp.ErrStarvation) {
				s.log.Error("improvisation starved", "iteration", t+1, "error", err)
			}
			return opt.Result{}, fmt.Errorf("iteration %d: %w", t+1, err)
		}
		v := score(cand)

		if mem.ReplaceWorst(cand, v) {
			replacements++
			s.metrics.RecordReplacement(algoName)
		}
		if progress.Offer(cand, v, t) {
			s.metrics.RecordBest(algoName, v)
			s.log.Debug("best improved", "iteration", t+1, "score", v)
		}
		progress.Record()
	}

	res := progress.Result(evaluations, s.Cfg.Iterations, start, meta())
	s.metrics.RecordRun(algoName, res.Duration.Seconds())
	s.log.Info("harmony search finished",
		"instance", inst.Name,
		"score", res.Score,
		"convergence", res.ConvergenceIteration,
		"evaluations", res.Evaluations,
		"duration", res.Duration,
	)
	return res, nil
}
