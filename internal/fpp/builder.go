package fpp

import (
	"fmt"
	"math/rand"
)

// RandomStep выбирает равновероятно станок, инструмент и направление для op.
func RandomStep(op *Operation, rng *rand.Rand) Step {
	return Step{
		Op:        op.ID,
		Machine:   op.Machine[rng.Intn(len(op.Machine))],
		Tool:      op.Tool[rng.Intn(len(op.Tool))],
		Direction: op.Direction[rng.Intn(len(op.Direction))],
	}
}

// Builder строит случайные допустимые последовательности.
// Буферы переиспользуются, поэтому Builder не потокобезопасен.
type Builder struct {
	cat  *Catalog
	tr   *Tracker
	cand []int
}

func NewBuilder(cat *Catalog) *Builder {
	return &Builder{
		cat:  cat,
		tr:   NewTracker(cat),
		cand: make([]int, 0, cat.Len()),
	}
}

// Build собирает одну полную последовательность: на каждом шаге
// равновероятно выбирается квалифицированный вариант и его ресурсы.
func (b *Builder) Build(rng *rand.Rand) (Sequence, error) {
	n := b.cat.Required()
	seq := make(Sequence, 0, n)
	b.tr.Reset()
	for k := 0; k < n; k++ {
		b.cand = b.tr.Qualified(b.cand)
		if len(b.cand) == 0 {
			return nil, fmt.Errorf("build position %d of %d: %w", k, n, ErrStarvation)
		}
		j := b.cand[rng.Intn(len(b.cand))]
		seq = append(seq, RandomStep(b.cat.Op(j), rng))
		b.tr.Place(j)
	}
	return seq, nil
}

// BuildRandom — разовое построение последовательности для экземпляра.
func BuildRandom(inst *Instance, rng *rand.Rand) (Sequence, error) {
	return NewBuilder(inst.Catalog).Build(rng)
}
