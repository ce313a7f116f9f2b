package ts

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"flexPlan/internal/fpp"
	"flexPlan/internal/opt"
)

// Solver - структура реализации поиска с запретами.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый TS-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// move — оценённый соседний кандидат.
type move struct {
	seq  fpp.Sequence
	cost float64
	op   int
	from int
	to   int
}

// Solve — основной цикл алгоритма
func (s *Solver) Solve(ctx context.Context, inst *fpp.Instance) (opt.Result, error) {
	start := time.Now()

	// Валидация входных данных
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
	cat := inst.Catalog
	n := inst.Required()

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerOp * n
	}

	curr, err := fpp.BuildRandom(inst, s.Rng)
	if err != nil {
		return opt.Result{}, err
	}
	currCost := eval.MustScore(curr)
	evals := 1

	progress := opt.NewProgress(maxIter)
	progress.Seed(curr, currCost)

	// Табу-список - кольцевой буфер с мапой
	// Ёмкость выбирается с запасом относительно длины табу
	tabu := newTabuList(max(32, (s.Cfg.TabuTenure+s.Cfg.TabuTenureRand)*4))

	// Буферы лучшего допустимого и запасного (без учёта табу) ходов
	best := move{seq: make(fpp.Sequence, n)}
	fallback := move{seq: make(fpp.Sequence, n)}
	cand := make(fpp.Sequence, n)

	iter := 0
	for ; iter < maxIter && n > 1; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return progress.Result(evals, iter, start, map[string]any{
				"stopped": "context",
			}), err
		}

		best.cost, best.from = math.Inf(1), -1
		fallback.cost, fallback.from = math.Inf(1), -1

		// Итерация по случайно сгенерированным соседям
		for k := 0; k < s.Cfg.NeighborsPerIter; k++ {
			from, to := fpp.TwoPositions(n, s.Rng)
			op, _ := cat.Index(curr[from].Op)
			key := moveKey(op, from, to)

			// Формирование соседнего решения
			copy(cand, curr)
			switch s.Cfg.Neighborhood {
			case NeighborhoodSwap:
				cand.Swap(from, to)
			default:
				cand.Insert(from, to)
			}
			if s.Rng.Float64() < s.Cfg.ResourceRate {
				fpp.Redraw(cand, to, cat, s.Rng)
			}

			cost := eval.MustScore(cand)
			evals++

			if cost < fallback.cost {
				fallback.take(cand, cost, op, from, to)
			}

			isTabu := tabu.IsTabu(key, iter)
			aspiration := cost < progress.BestScore // критерий аспирации

			// Табуированный ход пропускается,
			// если не выполняется критерий аспирации
			if isTabu && !aspiration {
				continue
			}
			if cost < best.cost {
				best.take(cand, cost, op, from, to)
			}
		}

		// Выбор хода: сначала допустимый лучший, затем запасной
		chosen := &best
		if chosen.from < 0 {
			chosen = &fallback
		}
		if chosen.from < 0 {
			progress.Record()
			continue
		}

		copy(curr, chosen.seq)
		currCost = chosen.cost

		// Добавление обратного хода в табу-список
		tenure := s.Cfg.TabuTenure
		if s.Cfg.TabuTenureRand > 0 {
			tenure += s.Rng.Intn(s.Cfg.TabuTenureRand + 1)
		}
		tabu.Add(moveKey(chosen.op, chosen.to, chosen.from), iter+tenure)

		progress.Offer(curr, currCost, iter)
		progress.Record()
	}

	return progress.Result(evals, iter, start, map[string]any{
		"tabu_tenure":        s.Cfg.TabuTenure,
		"tabu_tenure_rand":   s.Cfg.TabuTenureRand,
		"neighbors_per_iter": s.Cfg.NeighborsPerIter,
		"neighborhood":       string(s.Cfg.Neighborhood),
	}), nil
}

func (m *move) take(seq fpp.Sequence, cost float64, op, from, to int) {
	copy(m.seq, seq)
	m.cost = cost
	m.op = op
	m.from, m.to = from, to
}
