package fpp

import "math/rand"

// Swap меняет местами шаги i и j.
func (s Sequence) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Insert извлекает шаг из позиции from и вставляет его в позицию to.
func (s Sequence) Insert(from, to int) {
	if from == to {
		return
	}
	val := s[from]
	if from < to {
		// Сдвиг элементов влево
		copy(s[from:to], s[from+1:to+1])
		s[to] = val
		return
	}
	// Сдвиг элементов вправо
	copy(s[to+1:from+1], s[to:from])
	s[to] = val
}

// TwoPositions возвращает две различные случайные позиции в [0, n).
// При n < 2 возвращает (0, 0).
func TwoPositions(n int, rng *rand.Rand) (int, int) {
	if n < 2 {
		return 0, 0
	}
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}

// Redraw заново выбирает ресурсы шага k из допустимых множеств его операции.
// Шаг с неизвестной операцией не изменяется.
func Redraw(s Sequence, k int, cat *Catalog, rng *rand.Rand) {
	op, ok := cat.Lookup(s[k].Op)
	if !ok {
		return
	}
	s[k] = RandomStep(op, rng)
}
