package hs

import (
	"fmt"
	"math/rand"
	"slices"

	"flexPlan/internal/fpp"
)

// improviser строит одну новую гармонию за итерацию:
// обучение последовательности по памяти, рандомизация и подстройка тона.
type improviser struct {
	cat *fpp.Catalog
	mem *memory
	rng *rand.Rand

	tr   *fpp.Tracker
	cand []int
	pool []int

	// счётчики для Meta
	memoryHits  int
	randomFills int
}

func newImproviser(cat *fpp.Catalog, mem *memory, rng *rand.Rand) *improviser {
	pool := make([]int, mem.Len())
	for i := range pool {
		pool[i] = i
	}
	return &improviser{
		cat:  cat,
		mem:  mem,
		rng:  rng,
		tr:   fpp.NewTracker(cat),
		cand: make([]int, 0, cat.Len()),
		pool: pool,
	}
}

// considerationRate — HMCR итерации: N(n/(n+1), 1/(n+1)).
// Значение не ограничивается отрезком [0,1]: >1 всегда использует память, <0 никогда.
func (im *improviser) considerationRate() float64 {
	n := float64(im.cat.Required())
	return n/(n+1) + im.rng.NormFloat64()/(n+1)
}

func (im *improviser) improvise() (fpp.Sequence, error) {
	n := im.cat.Required()
	hmcr := im.considerationRate()
	im.tr.Reset()

	seq := make(fpp.Sequence, 0, n)
	co := "" // предыдущая размещённая операция
	for k := 0; k < n; k++ {
		im.cand = im.tr.Qualified(im.cand)
		if len(im.cand) == 0 {
			return nil, fmt.Errorf("improvise position %d of %d: %w", k, n, fpp.ErrStarvation)
		}

		var (
			step    fpp.Step
			learned bool
		)
		if im.rng.Float64() < hmcr {
			step, learned = im.consider(k, co)
		}
		if learned {
			im.memoryHits++
		} else {
			j := im.cand[im.rng.Intn(len(im.cand))]
			step = fpp.RandomStep(im.cat.Op(j), im.rng)
			im.randomFills++
		}

		j, ok := im.cat.Index(step.Op)
		if !ok {
			return nil, fmt.Errorf("improvise position %d: %q: %w", k, step.Op, fpp.ErrUnknownOperation)
		}
		seq = append(seq, step)
		im.tr.Place(j)
		co = step.Op
	}

	pitchAdjust(seq, im.cat)
	return seq, nil
}

// consider — обучение последовательности. На первой позиции копируется
// первый шаг случайного члена памяти. Далее члены памяти перебираются
// в случайном порядке; берётся шаг, следующий в члене за co,
// если его операция сейчас квалифицирована.
func (im *improviser) consider(k int, co string) (fpp.Step, bool) {
	if k == 0 {
		return im.mem.At(im.rng.Intn(im.mem.Len()))[0], true
	}
	im.rng.Shuffle(len(im.pool), func(a, b int) {
		im.pool[a], im.pool[b] = im.pool[b], im.pool[a]
	})
	for _, idx := range im.pool {
		member := im.mem.At(idx)
		for r := 0; r+1 < len(member); r++ {
			if member[r].Op != co {
				continue
			}
			if next, ok := im.cat.Index(member[r+1].Op); ok && im.tr.IsQualified(next) {
				return member[r+1], true
			}
		}
	}
	return fpp.Step{}, false
}

// pitchAdjust переносит станок, инструмент и направление предыдущего шага
// на текущий, если они допустимы для текущей операции.
func pitchAdjust(seq fpp.Sequence, cat *fpp.Catalog) {
	for k := 1; k < len(seq); k++ {
		op, ok := cat.Lookup(seq[k].Op)
		if !ok {
			continue
		}
		prev := seq[k-1]
		if slices.Contains(op.Machine, prev.Machine) {
			seq[k].Machine = prev.Machine
		}
		if slices.Contains(op.Tool, prev.Tool) {
			seq[k].Tool = prev.Tool
		}
		if slices.Contains(op.Direction, prev.Direction) {
			seq[k].Direction = prev.Direction
		}
	}
}
