package fpp

import (
	"fmt"
	"slices"
	"strings"
)

// Step — одна позиция последовательности: операция и выбранные ресурсы.
type Step struct {
	Op        string `json:"op" yaml:"op"`
	Machine   string `json:"machine" yaml:"machine"`
	Tool      string `json:"tool" yaml:"tool"`
	Direction string `json:"direction" yaml:"direction"`
}

// Sequence — упорядоченный список шагов, по одному на логическую операцию.
type Sequence []Step

// Clone возвращает независимую копию.
func (s Sequence) Clone() Sequence { return slices.Clone(s) }

// Ops возвращает идентификаторы операций в порядке следования.
func (s Sequence) Ops() []string {
	out := make([]string, len(s))
	for i, st := range s {
		out[i] = st.Op
	}
	return out
}

func (s Sequence) String() string {
	var b strings.Builder
	for i, st := range s {
		if i > 0 {
			b.WriteString(" -> ")
		}
		fmt.Fprintf(&b, "%s(%s,%s,%s)", st.Op, st.Machine, st.Tool, st.Direction)
	}
	return b.String()
}

// ValidateSequence проверяет структуру последовательности: длину,
// известность операций, допустимость ресурсов и то, что каждая логическая
// операция размещена не более одного раза. Предшествование не проверяется,
// за него отвечает Evaluator.Feasible.
func ValidateSequence(seq Sequence, inst *Instance) error {
	n := inst.Required()
	if len(seq) != n {
		return fmt.Errorf("%w: length must be %d (got %d)", ErrInvalidSequence, n, len(seq))
	}
	cat := inst.Catalog
	used := make([]bool, cat.Len())
	for p, st := range seq {
		i, ok := cat.Index(st.Op)
		if !ok {
			return fmt.Errorf("%w: step %d: %q: %w", ErrInvalidSequence, p, st.Op, ErrUnknownOperation)
		}
		if used[i] {
			return fmt.Errorf("%w: step %d: operation %q placed twice (or its alternative)", ErrInvalidSequence, p, st.Op)
		}
		used[i] = true
		for _, alt := range cat.Alternatives(i) {
			used[alt] = true
		}
		op := cat.Op(i)
		if !slices.Contains(op.Machine, st.Machine) {
			return fmt.Errorf("%w: step %d: machine %q not admissible for %q", ErrInvalidSequence, p, st.Machine, st.Op)
		}
		if !slices.Contains(op.Tool, st.Tool) {
			return fmt.Errorf("%w: step %d: tool %q not admissible for %q", ErrInvalidSequence, p, st.Tool, st.Op)
		}
		if !slices.Contains(op.Direction, st.Direction) {
			return fmt.Errorf("%w: step %d: direction %q not admissible for %q", ErrInvalidSequence, p, st.Direction, st.Op)
		}
	}
	return nil
}
