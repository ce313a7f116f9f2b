package pso

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"flexPlan/internal/fpp"
	"flexPlan/internal/opt"
)

// Solver - структура реализации алгоритма роя частиц
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый PSO-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// particle описывает одну частицу роя.
type particle struct {
	// pos — позиция частицы
	pos []float64
	// vel — скорость частицы
	vel []float64

	// pBestPos — лучшая позиция частицы за всё время
	pBestPos []float64
	// pBestCost — значение целевой функции в pBestPos
	pBestCost float64

	// Вспомогательный буфер декодирования
	seqScratch fpp.Sequence
}

// Solve — реализация эвристики.
func (s *Solver) Solve(ctx context.Context, inst *fpp.Instance) (opt.Result, error) {
	start := time.Now()

	// Валидация конфигурации
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

	dim := keyGroups * inst.Catalog.Len()
	req := inst.Required()

	iters := s.Cfg.Iterations
	if iters <= 0 {
		iters = s.Cfg.IterationsPerOp * req
	}

	dec := newDecoder(inst.Catalog)
	progress := opt.NewProgress(iters)

	posMin, posMax := s.Cfg.PosMin, s.Cfg.PosMax
	doPosClamp := posMin < posMax

	// Инициализация частиц
	ps := make([]particle, s.Cfg.Particles)
	gBestPos := make([]float64, dim)
	gBestCost := math.Inf(1)
	for i := range ps {
		p := &ps[i]
		*p = particle{
			pos:        make([]float64, dim),
			vel:        make([]float64, dim),
			pBestPos:   make([]float64, dim),
			seqScratch: make(fpp.Sequence, req),
		}
		for d := 0; d < dim; d++ {
			// Инициализация позиции
			if doPosClamp {
				p.pos[d] = posMin + s.Rng.Float64()*(posMax-posMin)
			} else {
				p.pos[d] = s.Rng.Float64()
			}
			// Инициализация скорости
			if s.Cfg.VMax > 0 {
				p.vel[d] = (s.Rng.Float64()*2 - 1) * s.Cfg.VMax
			} else {
				p.vel[d] = (s.Rng.Float64()*2 - 1) * 0.1
			}
		}

		// Оценка начального положения частицы
		if err := dec.decode(p.pos, p.seqScratch); err != nil {
			return opt.Result{}, err
		}
		p.pBestCost = eval.MustScore(p.seqScratch)
		copy(p.pBestPos, p.pos)
		progress.Seed(p.seqScratch, p.pBestCost)

		// Вычисление глобально лучшего решения
		if p.pBestCost < gBestCost {
			gBestCost = p.pBestCost
			copy(gBestPos, p.pos)
		}
	}

	evals := s.Cfg.Particles

	w, c1, c2 := s.Cfg.W, s.Cfg.C1, s.Cfg.C2
	vMax := s.Cfg.VMax

	// Основной цикл
	for iter := 0; iter < iters; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return progress.Result(evals, iter, start, map[string]any{
				"stopped": "context",
			}), err
		}

		for i := range ps {
			p := &ps[i]

			// Обновление скорости и позиции частицы
			for d := 0; d < dim; d++ {
				r1 := s.Rng.Float64()
				r2 := s.Rng.Float64()

				v := w*p.vel[d] +
					c1*r1*(p.pBestPos[d]-p.pos[d]) +
					c2*r2*(gBestPos[d]-p.pos[d])

				// Ограничение скорости
				if vMax > 0 {
					if v > vMax {
						v = vMax
					} else if v < -vMax {
						v = -vMax
					}
				}
				p.vel[d] = v

				// Обновление позиции
				x := p.pos[d] + v
				if doPosClamp {
					if x < posMin {
						x = posMin
						p.vel[d] = 0
					} else if x > posMax {
						x = posMax
						p.vel[d] = 0
					}
				}
				p.pos[d] = x
			}

			// Оценка нового положения частицы
			if err := dec.decode(p.pos, p.seqScratch); err != nil {
				return opt.Result{}, err
			}
			cost := eval.MustScore(p.seqScratch)
			evals++

			// Обновление личного лучшего решения
			if cost < p.pBestCost {
				p.pBestCost = cost
				copy(p.pBestPos, p.pos)
			}

			// Обновление глобального лучшего решения
			if cost < gBestCost {
				gBestCost = cost
				copy(gBestPos, p.pos)
			}
			progress.Offer(p.seqScratch, cost, iter)
		}
		progress.Record()
	}

	return progress.Result(evals, iters, start, map[string]any{
		"particles": s.Cfg.Particles,
		"w":         w,
		"c1":        c1,
		"c2":        c2,
		"vmax":      vMax,
		"pos_min":   posMin,
		"pos_max":   posMax,
	}), nil
}
