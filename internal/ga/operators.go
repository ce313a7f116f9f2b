package ga

import (
	"fmt"
	"math/rand"

	"flexPlan/internal/fpp"
)

// tournamentSelect реализует турнирный отбор.
// возвращается индекс особи с наилучшим значением fitness (минимальное значение целевой функции).
func tournamentSelect(scores []float64, tournamentSize int, rng *rand.Rand) int {
	best := rng.Intn(len(scores))
	bestScore := scores[best]
	for i := 1; i < tournamentSize; i++ {
		cand := rng.Intn(len(scores))
		if scores[cand] < bestScore {
			best = cand
			bestScore = scores[cand]
		}
	}
	return best
}

// crossover — кроссовер, сохраняющий предшествование.
// Позиция потомка заполняется первым ещё квалифицированным шагом
// случайно выбранного родителя; шаг копируется вместе с ресурсами.
type crossover struct {
	cat *fpp.Catalog
	tr  *fpp.Tracker
	// cand — буфер для случайного выбора, если ни один родитель не подошёл
	cand []int
}

func newCrossover(cat *fpp.Catalog) *crossover {
	return &crossover{
		cat:  cat,
		tr:   fpp.NewTracker(cat),
		cand: make([]int, 0, cat.Len()),
	}
}

func (c *crossover) apply(p1, p2, child fpp.Sequence, rng *rand.Rand) error {
	c.tr.Reset()
	for k := range child {
		first, second := p1, p2
		if rng.Intn(2) == 1 {
			first, second = p2, p1
		}
		step, ok := c.pick(first)
		if !ok {
			step, ok = c.pick(second)
		}
		if !ok {
			c.cand = c.tr.Qualified(c.cand)
			if len(c.cand) == 0 {
				return fmt.Errorf("crossover position %d: %w", k, fpp.ErrStarvation)
			}
			step = fpp.RandomStep(c.cat.Op(c.cand[rng.Intn(len(c.cand))]), rng)
		}
		child[k] = step
		j, _ := c.cat.Index(step.Op)
		c.tr.Place(j)
	}
	return nil
}

// pick возвращает первый шаг родителя, операция которого сейчас квалифицирована.
func (c *crossover) pick(parent fpp.Sequence) (fpp.Step, bool) {
	for _, st := range parent {
		if j, ok := c.cat.Index(st.Op); ok && c.tr.IsQualified(j) {
			return st, true
		}
	}
	return fpp.Step{}, false
}

// mutate выполняет одну из мутаций: смену ресурсов случайного шага
// или обмен соседних шагов.
func mutate(seq fpp.Sequence, cat *fpp.Catalog, rng *rand.Rand) {
	if len(seq) < 2 || rng.Intn(2) == 0 {
		fpp.Redraw(seq, rng.Intn(len(seq)), cat, rng)
		return
	}
	i := rng.Intn(len(seq) - 1)
	seq.Swap(i, i+1)
}
