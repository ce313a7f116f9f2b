package pso

import (
	"fmt"

	"flexPlan/internal/fpp"
)

// Позиция частицы — 4·N случайных ключей, N — число вариантов в каталоге:
// [0,N) приоритеты, далее ключи станка, инструмента и направления.
const keyGroups = 4

// decoder переводит random-keys в последовательность через трекер квалификации:
// на каждом шаге берётся квалифицированный вариант с наименьшим приоритетом.
type decoder struct {
	cat  *fpp.Catalog
	tr   *fpp.Tracker
	cand []int
}

func newDecoder(cat *fpp.Catalog) *decoder {
	return &decoder{
		cat:  cat,
		tr:   fpp.NewTracker(cat),
		cand: make([]int, 0, cat.Len()),
	}
}

func (d *decoder) decode(keys []float64, out fpp.Sequence) error {
	n := d.cat.Len()
	d.tr.Reset()
	for pos := range out {
		d.cand = d.tr.Qualified(d.cand)
		if len(d.cand) == 0 {
			return fmt.Errorf("decode position %d: %w", pos, fpp.ErrStarvation)
		}
		// Qualified возвращает индексы по возрастанию, поэтому при равных ключах берётся меньший индекс
		j := d.cand[0]
		for _, c := range d.cand[1:] {
			if keys[c] < keys[j] {
				j = c
			}
		}
		op := d.cat.Op(j)
		out[pos] = fpp.Step{
			Op:        op.ID,
			Machine:   op.Machine[pickIndex(keys[n+j], len(op.Machine))],
			Tool:      op.Tool[pickIndex(keys[2*n+j], len(op.Tool))],
			Direction: op.Direction[pickIndex(keys[3*n+j], len(op.Direction))],
		}
		d.tr.Place(j)
	}
	return nil
}

// pickIndex отображает ключ из [0,1) в индекс [0,size).
// Ключи вне интервала прижимаются к краям.
func pickIndex(key float64, size int) int {
	i := int(key * float64(size))
	if i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}
