package cli

import (
	"math/rand"
	"sort"
	"strings"

	"flexPlan/internal/aco"
	"flexPlan/internal/bench"
	"flexPlan/internal/ga"
	"flexPlan/internal/hs"
	"flexPlan/internal/logging"
	"flexPlan/internal/metrics"
	"flexPlan/internal/opt"
	"flexPlan/internal/pso"
	"flexPlan/internal/sa"
	"flexPlan/internal/ts"
)

// Фабрики. Конфигурации проверены заранее (config.Validate), поэтому ошибки New не ожидаются.

// Каждый запуск HS пишет в лог свой сид.
func newHSFactory(cfg hs.Config, log logging.Logger, m metrics.Collector) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := hs.New(cfg, rand.New(rand.NewSource(seed)),
			hs.WithLogger(log.With("algo", "hs", "seed", seed)),
			hs.WithMetrics(m),
		)
		return solver
	}
}

func newGAFactory(cfg ga.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := ga.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newSAFactory(cfg sa.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := sa.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newTSFactory(cfg ts.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := ts.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newACOFactory(cfg aco.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := aco.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newPSOFactory(cfg pso.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := pso.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

// algorithms возвращает доступные алгоритмы по имени в верхнем регистре.
func (a *app) algorithms() map[string]bench.Algorithm {
	c := a.cfg
	return map[string]bench.Algorithm{
		"HS":  {Name: "HS", Factory: newHSFactory(c.HS, a.log, a.metrics)},
		"GA":  {Name: "GA", Factory: newGAFactory(c.GA)},
		"SA":  {Name: "SA", Factory: newSAFactory(c.SA)},
		"TS":  {Name: "TS", Factory: newTSFactory(c.TS)},
		"ACO": {Name: "ACO", Factory: newACOFactory(c.ACO)},
		"PSO": {Name: "PSO", Factory: newPSOFactory(c.PSO)},
	}
}

func (a *app) algorithm(name string) (bench.Algorithm, bool) {
	al, ok := a.algorithms()[strings.ToUpper(strings.TrimSpace(name))]
	return al, ok
}

func keys(m map[string]bench.Algorithm) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
