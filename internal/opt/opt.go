package opt

import (
	"context"
	"slices"
	"time"

	"flexPlan/internal/fpp"
)

type Optimizer interface {
	Solve(ctx context.Context, inst *fpp.Instance) (Result, error)
}

type Result struct {
	Sequence    fpp.Sequence
	Score       float64
	Evaluations int
	Iterations  int
	// ConvergenceIteration — итерация (с единицы) последнего улучшения лучшего решения.
	ConvergenceIteration int
	// History — лучшее значение после каждой итерации.
	History  []float64
	Duration time.Duration
	Meta     map[string]any
}

// Progress накапливает лучшее решение и кривую сходимости.
// Используется всеми солверами одинаково.
type Progress struct {
	Best      fpp.Sequence
	BestScore float64
	ConvIter  int
	History   []float64
}

func NewProgress(iterations int) *Progress {
	return &Progress{History: make([]float64, 0, iterations)}
}

// Offer принимает кандидата; при строгом улучшении копирует его и
// запоминает итерацию iter+1. Возвращает true при улучшении.
func (p *Progress) Offer(seq fpp.Sequence, score float64, iter int) bool {
	if p.Best != nil && score >= p.BestScore {
		return false
	}
	p.Best = seq.Clone()
	p.BestScore = score
	p.ConvIter = iter + 1
	return true
}

// Seed задаёт начальное лучшее решение без изменения итерации сходимости.
func (p *Progress) Seed(seq fpp.Sequence, score float64) {
	if p.Best == nil || score < p.BestScore {
		p.Best = seq.Clone()
		p.BestScore = score
	}
}

// Record дописывает текущее лучшее значение в историю.
func (p *Progress) Record() { p.History = append(p.History, p.BestScore) }

// Result формирует результат с независимыми копиями данных.
func (p *Progress) Result(evals, iters int, start time.Time, meta map[string]any) Result {
	return Result{
		Sequence:             p.Best.Clone(),
		Score:                p.BestScore,
		Evaluations:          evals,
		Iterations:           iters,
		ConvergenceIteration: p.ConvIter,
		History:              slices.Clone(p.History),
		Duration:             time.Since(start),
		Meta:                 meta,
	}
}
