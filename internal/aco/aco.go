package aco

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"time"

	"flexPlan/internal/fpp"
	"flexPlan/internal/opt"
)

// Solver - структура реализации муравьиного алгоритма.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый ACO-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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
	startTime := time.Now()

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
	n := cat.Len()

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerOp * inst.Required()
	}

	ants := s.Cfg.Ants
	if ants < 1 {
		ants = 1
	}

	// чем дешевле вариант на лучших ресурсах — тем лучше
	eta := make([]float64, n)
	for j := 0; j < n; j++ {
		op := cat.Op(j)
		eta[j] = 1.0 / (cheapest(op.Machine, inst.MachineCost) + cheapest(op.Tool, inst.ToolCost) + 1)
	}

	// Матрица феромонов: строка n — фиктивный старт
	tau := make([]float64, (n+1)*n)
	for i := range tau {
		tau[i] = s.Cfg.Tau0
	}

	c := &constructor{
		inst:    inst,
		tau:     tau,
		eta:     eta,
		alpha:   s.Cfg.Alpha,
		beta:    s.Cfg.Beta,
		k:       s.Cfg.CandidateK,
		tr:      fpp.NewTracker(cat),
		weights: make([]float64, n),
	}

	progress := opt.NewProgress(maxIter)
	seq := make(fpp.Sequence, inst.Required())
	iterBest := make(fpp.Sequence, inst.Required())
	evals := 0

	for iter := 0; iter < maxIter; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return progress.Result(evals, iter, startTime, map[string]any{
				"stopped": "context",
			}), err
		}

		// Лучшее решение текущей итерации
		iterBestCost := math.Inf(1)

		// Муравьи пошли
		for a := 0; a < ants; a++ {
			if err := c.construct(seq, s.Rng); err != nil {
				return opt.Result{}, err
			}

			cost := eval.MustScore(seq)
			evals++

			if cost < iterBestCost {
				iterBestCost = cost
				copy(iterBest, seq)
			}
			progress.Offer(seq, cost, iter)
		}

		// Испарение феромона
		ev := 1.0 - s.Cfg.Rho
		for i := range tau {
			tau[i] *= ev
			if tau[i] < 1e-12 {
				tau[i] = 1e-12
			}
		}

		// Добавление феромона только по лучшему пути итерации
		c.deposit(iterBest, depositAmount(s.Cfg.Q, iterBestCost))
		progress.Record()
	}

	return progress.Result(evals, maxIter, startTime, map[string]any{
		"ants":        ants,
		"alpha":       s.Cfg.Alpha,
		"beta":        s.Cfg.Beta,
		"rho":         s.Cfg.Rho,
		"Q":           s.Cfg.Q,
		"tau0":        s.Cfg.Tau0,
		"candidate_k": s.Cfg.CandidateK,
	}), nil
}

// constructor строит последовательности муравьёв через трекер квалификации.
type constructor struct {
	inst        *fpp.Instance
	tau, eta    []float64
	alpha, beta float64
	k           int

	tr      *fpp.Tracker
	avail   []int
	weights []float64
}

func tauIdx(n, from, to int) int {
	return from*n + to
}

// construct заполняет seq: вариант выбирается вероятностно по формуле ACO
// среди квалифицированных, ресурсы — жадно.
func (c *constructor) construct(seq fpp.Sequence, rng *rand.Rand) error {
	cat := c.inst.Catalog
	n := cat.Len()
	c.tr.Reset()
	prev := n // prev — предыдущая вершина

	for pos := range seq {
		c.avail = c.tr.Qualified(c.avail)
		rem := len(c.avail)
		if rem == 0 {
			return fmt.Errorf("ant position %d: %w", pos, fpp.ErrStarvation)
		}

		// Ограничение списка кандидатов
		k := rem
		if c.k > 0 && c.k < rem {
			k = c.k
			for t := 0; t < k; t++ {
				r := t + rng.Intn(rem-t)
				c.avail[t], c.avail[r] = c.avail[r], c.avail[t]
			}
		}

		// Подсчёт весов вероятностей выбора
		sumW := 0.0
		for i := 0; i < k; i++ {
			j := c.avail[i]
			w := fastPow(c.tau[tauIdx(n, prev, j)], c.alpha) * fastPow(c.eta[j], c.beta)
			c.weights[i] = w
			sumW += w
		}

		// Стохастический выбор следующего варианта
		chosenIdx := k - 1
		if sumW <= 0 {
			chosenIdx = rng.Intn(k)
		} else {
			r := rng.Float64() * sumW
			acc := 0.0
			for i := 0; i < k; i++ {
				acc += c.weights[i]
				if r <= acc {
					chosenIdx = i
					break
				}
			}
		}

		j := c.avail[chosenIdx]
		var prevStep *fpp.Step
		if pos > 0 {
			prevStep = &seq[pos-1]
		}
		seq[pos] = c.resources(cat.Op(j), prevStep, rng)
		c.tr.Place(j)
		prev = j
	}
	return nil
}

// resources сохраняет ресурсы предыдущего шага, если они допустимы,
// иначе берёт самые дешёвые станок и инструмент и случайное направление.
func (c *constructor) resources(op *fpp.Operation, prev *fpp.Step, rng *rand.Rand) fpp.Step {
	st := fpp.Step{
		Op:        op.ID,
		Machine:   cheapestID(op.Machine, c.inst.MachineCost),
		Tool:      cheapestID(op.Tool, c.inst.ToolCost),
		Direction: op.Direction[rng.Intn(len(op.Direction))],
	}
	if prev == nil {
		return st
	}
	if slices.Contains(op.Machine, prev.Machine) {
		st.Machine = prev.Machine
	}
	if slices.Contains(op.Tool, prev.Tool) {
		st.Tool = prev.Tool
	}
	if slices.Contains(op.Direction, prev.Direction) {
		st.Direction = prev.Direction
	}
	return st
}

// deposit усиливает феромон вдоль пути от фиктивного старта.
func (c *constructor) deposit(seq fpp.Sequence, delta float64) {
	cat := c.inst.Catalog
	n := cat.Len()
	prev := n
	for _, st := range seq {
		j, ok := cat.Index(st.Op)
		if !ok {
			return
		}
		c.tau[tauIdx(n, prev, j)] += delta
		prev = j
	}
}

// depositAmount — Q/cost с ограничением стоимости снизу 1e-12.
func depositAmount(q, cost float64) float64 {
	return q / max(cost, 1e-12)
}

// cheapestID возвращает ресурс с минимальной стоимостью; при равенстве — первый.
func cheapestID(ids []string, cost map[string]float64) string {
	best := ids[0]
	for _, id := range ids[1:] {
		if cost[id] < cost[best] {
			best = id
		}
	}
	return best
}

func cheapest(ids []string, cost map[string]float64) float64 {
	return cost[cheapestID(ids, cost)]
}

// fastPow — оптимизация для частых степеней.
// Таким образом избегаем вызова math.Pow в простых случаях.
func fastPow(x, p float64) float64 {
	if p == 0 {
		return 1.0
	}
	if p == 1 {
		return x
	}
	if p == 2 {
		return x * x
	}
	return math.Pow(x, p)
}
