package hs

import (
	"fmt"

	"flexPlan/internal/fpp"
)

// memory — гармоническая память: HMS пар (последовательность, оценка).
// Хранимые последовательности не изменяются на месте, только заменяются целиком.
type memory struct {
	seqs   []fpp.Sequence
	scores []float64
	best   int
	worst  int
}

// newMemory заполняет память size случайными последовательностями.
func newMemory(size int, build func() (fpp.Sequence, error), score func(fpp.Sequence) float64) (*memory, error) {
	m := &memory{
		seqs:   make([]fpp.Sequence, size),
		scores: make([]float64, size),
	}
	for i := 0; i < size; i++ {
		seq, err := build()
		if err != nil {
			return nil, fmt.Errorf("init harmony %d: %w", i, err)
		}
		m.seqs[i] = seq
		m.scores[i] = score(seq)
	}
	m.rescan()
	return m, nil
}

func (m *memory) Len() int { return len(m.seqs) }

// At возвращает i-го члена памяти. Только для чтения.
func (m *memory) At(i int) fpp.Sequence { return m.seqs[i] }

func (m *memory) Best() (fpp.Sequence, float64) { return m.seqs[m.best], m.scores[m.best] }

func (m *memory) Worst() (fpp.Sequence, float64) { return m.seqs[m.worst], m.scores[m.worst] }

// ReplaceWorst заменяет худшую пару, только если score строго меньше.
// Память становится владельцем seq.
func (m *memory) ReplaceWorst(seq fpp.Sequence, score float64) bool {
	if score >= m.scores[m.worst] {
		return false
	}
	m.seqs[m.worst] = seq
	m.scores[m.worst] = score
	m.rescan()
	return true
}

// rescan находит первые индексы минимума и максимума.
func (m *memory) rescan() {
	m.best, m.worst = 0, 0
	for i, s := range m.scores {
		if s < m.scores[m.best] {
			m.best = i
		}
		if s > m.scores[m.worst] {
			m.worst = i
		}
	}
}
