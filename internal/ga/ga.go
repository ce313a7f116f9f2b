package ga

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"flexPlan/internal/fpp"
	"flexPlan/internal/opt"
)

// Solver — реализация генетического алгоритма для гибкого планирования техпроцесса.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый GA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

	// Проверка корректности входных данных и конфигурации
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
	popSize := s.Cfg.Population

	// Вспомогательная анонимная функция для создания популяции с общим буфером
	makePop := func() []fpp.Sequence {
		backing := make([]fpp.Step, popSize*n)
		pop := make([]fpp.Sequence, popSize)
		for i := range pop {
			pop[i] = backing[i*n : (i+1)*n]
		}
		return pop
	}

	// Две популяции: текущая (A) и следующая (B)
	popA := makePop()
	popB := makePop()
	scoresA := make([]float64, popSize)
	scoresB := make([]float64, popSize)

	// Инициализация начальной популяции
	builder := fpp.NewBuilder(cat)
	progress := opt.NewProgress(s.Cfg.Generations)
	for i := 0; i < popSize; i++ {
		seq, err := builder.Build(s.Rng)
		if err != nil {
			return opt.Result{}, err
		}
		copy(popA[i], seq)
		scoresA[i] = eval.MustScore(popA[i])
		progress.Seed(popA[i], scoresA[i])
	}
	evaluations := popSize

	xo := newCrossover(cat)

	// Временный буфер для второго потомка,
	// если в популяции остаётся нечётное число мест
	scratchChild := make(fpp.Sequence, n)

	// Индексы для сортировки популяции по приспособленности
	idxs := make([]int, popSize)
	for i := range idxs {
		idxs[i] = i
	}

	for gen := 0; gen < s.Cfg.Generations; gen++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return progress.Result(evaluations, gen, start, map[string]any{"stopped": "context"}), err
		}

		// Сортировка индексов по возрастанию значения целевой функции
		sort.SliceStable(idxs, func(i, j int) bool {
			return scoresA[idxs[i]] < scoresA[idxs[j]]
		})

		write := 0

		// Элитизм (переносим лучших особей без изменений)
		for e := 0; e < s.Cfg.Elite; e++ {
			src := idxs[e]
			copy(popB[write], popA[src])
			scoresB[write] = scoresA[src]
			write++
		}

		// Генерация остальных особей нового поколения
		for write < popSize {
			// Турнирный отбор
			p1 := tournamentSelect(scoresA, s.Cfg.TournamentSize, s.Rng)
			p2 := tournamentSelect(scoresA, s.Cfg.TournamentSize, s.Rng)
			for p2 == p1 {
				p2 = tournamentSelect(scoresA, s.Cfg.TournamentSize, s.Rng)
			}

			child1 := popB[write]
			hasSecond := write+1 < popSize
			child2 := scratchChild
			if hasSecond {
				child2 = popB[write+1]
			}

			// Кроссовер
			if s.Rng.Float64() < s.Cfg.CrossoverRate {
				if err := xo.apply(popA[p1], popA[p2], child1, s.Rng); err != nil {
					return opt.Result{}, err
				}
				if hasSecond {
					if err := xo.apply(popA[p2], popA[p1], child2, s.Rng); err != nil {
						return opt.Result{}, err
					}
				}
			} else {
				copy(child1, popA[p1])
				if hasSecond {
					copy(child2, popA[p2])
				}
			}

			// Мутация
			if s.Rng.Float64() < s.Cfg.MutationRate {
				mutate(child1, cat, s.Rng)
			}
			if hasSecond && s.Rng.Float64() < s.Cfg.MutationRate {
				mutate(child2, cat, s.Rng)
			}

			// Оценка первого потомка
			scoresB[write] = eval.MustScore(child1)
			evaluations++
			progress.Offer(child1, scoresB[write], gen)
			write++

			// Оценка второго потомка
			if hasSecond {
				scoresB[write] = eval.MustScore(child2)
				evaluations++
				progress.Offer(child2, scoresB[write], gen)
				write++
			}
		}

		// Смена поколений
		popA, popB = popB, popA
		scoresA, scoresB = scoresB, scoresA
		progress.Record()
	}

	return progress.Result(evaluations, s.Cfg.Generations, start, map[string]any{
		"population":  s.Cfg.Population,
		"generations": s.Cfg.Generations,
		"elite":       s.Cfg.Elite,
	}), nil
}
