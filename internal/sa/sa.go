package sa

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"flexPlan/internal/fpp"
	"flexPlan/internal/opt"
)

// Solver - структура реализации алгоритма имитации отжига
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// Solve — реализация эвристики.
func (s *Solver) Solve(ctx context.Context, inst *fpp.Instance) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	eval, err := fpp.NewEvaluator(inst)
	if err != nil {
		return opt.Result{}, err
	}

	n := inst.Required()

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerOp * n
	}

	// Инициализация текущего решения
	curr, err := fpp.BuildRandom(inst, s.Rng)
	if err != nil {
		return opt.Result{}, err
	}
	cand := make(fpp.Sequence, n)

	currCost := eval.MustScore(curr)
	progress := opt.NewProgress(maxIter)
	progress.Seed(curr, currCost)

	evals := 1
	T := s.Cfg.InitialTemp

	iter := 0
	for ; iter < maxIter && T > s.Cfg.FinalTemp; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return progress.Result(evals, iter, start, map[string]any{
				"stopped": "context",
				"T":       T,
			}), err
		}

		copy(cand, curr)
		s.neighbor(cand, inst.Catalog)

		candCost := eval.MustScore(cand)
		evals++

		delta := candCost - currCost
		accept := false
		if delta <= 0 {
			// Улучшающее решение принимаем всегда
			accept = true
		} else {
			// Критерий Метрополиса:
			// допускает принятие ухудшающих решений
			p := math.Exp(-delta / T)
			if s.Rng.Float64() < p {
				accept = true
			}
		}

		if accept {
			// Обмен ролей текущего и кандидатного решений
			curr, cand = cand, curr
			currCost = candCost
			progress.Offer(curr, currCost, iter)
		}
		progress.Record()

		// Охлаждение температуры
		T *= s.Cfg.Alpha
	}

	return progress.Result(evals, iter, start, map[string]any{
		"initial_temp": s.Cfg.InitialTemp,
		"final_temp":   s.Cfg.FinalTemp,
		"alpha":        s.Cfg.Alpha,
		"neighborhood": string(s.Cfg.Neighborhood),
	}), nil
}

// neighbor формирует соседнее решение на месте.
func (s *Solver) neighbor(seq fpp.Sequence, cat *fpp.Catalog) {
	kind := s.Cfg.Neighborhood
	if kind == NeighborhoodMixed {
		kind = []Neighborhood{NeighborhoodSwap, NeighborhoodInsert, NeighborhoodResource}[s.Rng.Intn(3)]
	}
	switch kind {
	case NeighborhoodInsert:
		// Извлечение шага и вставка в другую позицию
		i, j := fpp.TwoPositions(len(seq), s.Rng)
		seq.Insert(i, j)
	case NeighborhoodResource:
		// Смена станка, инструмента и направления одного шага
		fpp.Redraw(seq, s.Rng.Intn(len(seq)), cat, s.Rng)
	default:
		// Обмен двух случайных позиций
		i, j := fpp.TwoPositions(len(seq), s.Rng)
		seq.Swap(i, j)
	}
}
