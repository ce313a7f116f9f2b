package fpp

import "fmt"

// InfeasiblePenalty — оценка последовательности, нарушающей предшествование.
const InfeasiblePenalty = 1e6

// Breakdown — составляющие целевой функции.
type Breakdown struct {
	Feasible          bool    `json:"feasible"`
	MachineUsage      float64 `json:"machineUsage"`
	ToolUsage         float64 `json:"toolUsage"`
	MachineChangeover float64 `json:"machineChangeover"`
	ToolChangeover    float64 `json:"toolChangeover"`
	SetupChangeover   float64 `json:"setupChangeover"`
	Total             float64 `json:"total"`
}

// Evaluator вычисляет целевую функцию. Хранит рабочий буфер,
// поэтому один Evaluator нельзя использовать из нескольких горутин.
type Evaluator struct {
	inst *Instance
	pos  []int
}

func NewEvaluator(inst *Instance) (*Evaluator, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{inst: inst, pos: make([]int, inst.Catalog.Len())}, nil
}

// Feasible проверяет предшествование: для каждой операции key
// все её prior, присутствующие в последовательности, стоят раньше.
// Неизвестные операции игнорируются.
func (e *Evaluator) Feasible(seq Sequence) bool {
	cat := e.inst.Catalog
	for i := range e.pos {
		e.pos[i] = -1
	}
	for p, st := range seq {
		if i, ok := cat.Index(st.Op); ok && e.pos[i] < 0 {
			e.pos[i] = p
		}
	}
	for key, at := range e.pos {
		if at < 0 {
			continue
		}
		for _, item := range cat.Priors(key) {
			if e.pos[item] >= 0 && at < e.pos[item] {
				return false
			}
		}
	}
	return true
}

// Evaluate возвращает разложение стоимости. Для недопустимой
// последовательности Total равен InfeasiblePenalty, остальные поля нулевые.
func (e *Evaluator) Evaluate(seq Sequence) (Breakdown, error) {
	if e == nil || e.inst == nil {
		return Breakdown{}, fmt.Errorf("nil evaluator")
	}
	if !e.Feasible(seq) {
		return Breakdown{Total: InfeasiblePenalty}, nil
	}
	b := Breakdown{Feasible: true}
	ch := e.inst.Changeover
	for i, st := range seq {
		mc, ok := e.inst.MachineCost[st.Machine]
		if !ok {
			return Breakdown{}, fmt.Errorf("step %d: no usage cost for machine %q", i, st.Machine)
		}
		tc, ok := e.inst.ToolCost[st.Tool]
		if !ok {
			return Breakdown{}, fmt.Errorf("step %d: no usage cost for tool %q", i, st.Tool)
		}
		b.MachineUsage += mc
		b.ToolUsage += tc
		if i == 0 {
			continue
		}
		prev := seq[i-1]
		machineChanged := prev.Machine != st.Machine
		if machineChanged {
			b.MachineChangeover += ch.Machine
		}
		// Смена станка всегда влечёт смену инструмента и установки
		if machineChanged || prev.Tool != st.Tool {
			b.ToolChangeover += ch.Tool
		}
		if machineChanged || prev.Direction != st.Direction {
			b.SetupChangeover += ch.Setup
		}
	}
	b.Total = b.MachineUsage + b.ToolUsage + b.MachineChangeover + b.ToolChangeover + b.SetupChangeover
	return b, nil
}

// Score возвращает значение целевой функции.
func (e *Evaluator) Score(seq Sequence) (float64, error) {
	b, err := e.Evaluate(seq)
	if err != nil {
		return 0, err
	}
	return b.Total, nil
}

func (e *Evaluator) MustScore(seq Sequence) float64 {
	s, err := e.Score(seq)
	if err != nil {
		panic(err)
	}
	return s
}
