package fpp

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strconv"

	"github.com/samber/lo"
)

// Operation — вариант операции из каталога.
// Machine, Tool и Direction — допустимые значения ресурсов, все непустые.
type Operation struct {
	ID          string   `json:"id" yaml:"id" toml:"id"`
	Alternative []string `json:"alternative,omitempty" yaml:"alternative,omitempty" toml:"alternative,omitempty"`
	Prior       []string `json:"prior,omitempty" yaml:"prior,omitempty" toml:"prior,omitempty"`
	Machine     []string `json:"machine" yaml:"machine" toml:"machine"`
	Tool        []string `json:"tool" yaml:"tool" toml:"tool"`
	Direction   []string `json:"direction" yaml:"direction" toml:"direction"`
}

// Changeover — фиксированные стоимости переналадки.
type Changeover struct {
	Machine float64 `json:"machine" yaml:"machine" toml:"machine"`
	Tool    float64 `json:"tool" yaml:"tool" toml:"tool"`
	Setup   float64 `json:"setup" yaml:"setup" toml:"setup"`
}

// Catalog — упорядоченный набор вариантов операций.
// Порядок задаёт индексы матрицы предшествования.
type Catalog struct {
	ops    []Operation
	index  map[string]int
	alts   [][]int
	priors [][]int
	prec   *Precedence
	groups int
}

// NewCatalog строит каталог и проверяет ссылки между операциями.
func NewCatalog(ops []Operation) (*Catalog, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrInvalidInstance)
	}
	c := &Catalog{
		ops:    slices.Clone(ops),
		index:  make(map[string]int, len(ops)),
		alts:   make([][]int, len(ops)),
		priors: make([][]int, len(ops)),
	}
	for i, op := range c.ops {
		if op.ID == "" {
			return nil, fmt.Errorf("%w: operation #%d has empty id", ErrInvalidInstance, i)
		}
		if _, dup := c.index[op.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate operation id %q", ErrInvalidInstance, op.ID)
		}
		c.index[op.ID] = i
	}

	resolve := func(owner string, ids []string, field string) ([]int, error) {
		out := make([]int, 0, len(ids))
		for _, id := range lo.Uniq(ids) {
			j, ok := c.index[id]
			if !ok {
				return nil, fmt.Errorf("%w: %s of %q references %q: %w", ErrInvalidInstance, field, owner, id, ErrUnknownOperation)
			}
			out = append(out, j)
		}
		return out, nil
	}
	for i, op := range c.ops {
		var err error
		if c.alts[i], err = resolve(op.ID, op.Alternative, "alternative"); err != nil {
			return nil, err
		}
		if c.priors[i], err = resolve(op.ID, op.Prior, "prior"); err != nil {
			return nil, err
		}
	}

	c.prec = newPrecedence(c)
	c.groups = countGroups(c)
	return c, nil
}

// Len возвращает число вариантов операций в каталоге.
func (c *Catalog) Len() int { return len(c.ops) }

// Op возвращает вариант по индексу. Результат только для чтения.
func (c *Catalog) Op(i int) *Operation { return &c.ops[i] }

// Index возвращает индекс операции по идентификатору.
func (c *Catalog) Index(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// Lookup возвращает операцию по идентификатору.
func (c *Catalog) Lookup(id string) (*Operation, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return &c.ops[i], true
}

// Operations возвращает копию списка операций в порядке каталога.
func (c *Catalog) Operations() []Operation { return slices.Clone(c.ops) }

// Alternatives возвращает индексы альтернатив варианта i.
func (c *Catalog) Alternatives(i int) []int { return c.alts[i] }

// Priors возвращает индексы предшественников варианта i.
func (c *Catalog) Priors(i int) []int { return c.priors[i] }

// Precedence возвращает исходную матрицу предшествования P.
func (c *Catalog) Precedence() *Precedence { return c.prec }

// Required — число логических операций, т.е. длина любой полной последовательности.
// Вариант вместе со своими альтернативами считается одной логической операцией.
func (c *Catalog) Required() int { return c.groups }

// countGroups считает компоненты связности отношения alternative.
func countGroups(c *Catalog) int {
	parent := make([]int, len(c.ops))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	groups := len(c.ops)
	for i, alts := range c.alts {
		for _, j := range alts {
			a, b := find(i), find(j)
			if a != b {
				parent[a] = b
				groups--
			}
		}
	}
	return groups
}

// Instance — экземпляр задачи: каталог, стоимости использования ресурсов
// и стоимости переналадки.
type Instance struct {
	Name        string
	Catalog     *Catalog
	MachineCost map[string]float64
	ToolCost    map[string]float64
	Changeover  Changeover
}

func NewInstance(name string, ops []Operation, machineCost, toolCost map[string]float64, ch Changeover) (*Instance, error) {
	cat, err := NewCatalog(ops)
	if err != nil {
		return nil, err
	}
	inst := &Instance{
		Name:        name,
		Catalog:     cat,
		MachineCost: machineCost,
		ToolCost:    toolCost,
		Changeover:  ch,
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// Required — длина полной последовательности.
func (inst *Instance) Required() int { return inst.Catalog.Required() }

// Validate проверяет экземпляр. Ацикличность prior не проверяется.
func (inst *Instance) Validate() error {
	if inst == nil {
		return errors.New("instance is nil")
	}
	if inst.Catalog == nil || inst.Catalog.Len() == 0 {
		return fmt.Errorf("%w: catalog is empty", ErrInvalidInstance)
	}
	ch := inst.Changeover
	if ch.Machine < 0 || ch.Tool < 0 || ch.Setup < 0 {
		return fmt.Errorf("%w: changeover costs must be >= 0 (got %v)", ErrInvalidInstance, ch)
	}
	for id, v := range inst.MachineCost {
		if v < 0 {
			return fmt.Errorf("%w: machine %q cost must be >= 0 (got %v)", ErrInvalidInstance, id, v)
		}
	}
	for id, v := range inst.ToolCost {
		if v < 0 {
			return fmt.Errorf("%w: tool %q cost must be >= 0 (got %v)", ErrInvalidInstance, id, v)
		}
	}

	cat := inst.Catalog
	for i := 0; i < cat.Len(); i++ {
		op := cat.Op(i)
		if len(op.Machine) == 0 || len(op.Tool) == 0 || len(op.Direction) == 0 {
			return fmt.Errorf("%w: operation %q must have non-empty machine, tool and direction sets", ErrInvalidInstance, op.ID)
		}
		for _, m := range op.Machine {
			if _, ok := inst.MachineCost[m]; !ok {
				return fmt.Errorf("%w: operation %q uses machine %q without usage cost", ErrInvalidInstance, op.ID, m)
			}
		}
		for _, t := range op.Tool {
			if _, ok := inst.ToolCost[t]; !ok {
				return fmt.Errorf("%w: operation %q uses tool %q without usage cost", ErrInvalidInstance, op.ID, t)
			}
		}
		// Альтернативы должны образовывать замкнутую группу,
		// иначе выбор варианта не исключает всех его соседей.
		for _, j := range cat.Alternatives(i) {
			if j == i {
				return fmt.Errorf("%w: operation %q lists itself as alternative", ErrInvalidInstance, op.ID)
			}
			want := lo.Without(append(slices.Clone(cat.Alternatives(i)), i), j)
			if missing, _ := lo.Difference(want, cat.Alternatives(j)); len(missing) > 0 {
				return fmt.Errorf("%w: alternatives of %q and %q do not form a closed group", ErrInvalidInstance, op.ID, cat.Op(j).ID)
			}
		}
	}
	return nil
}

// RandomInstance генерирует случайный ацикличный экземпляр:
// ops логических операций, часть из них с двумя вариантами,
// prior ссылается только на более ранние логические операции.
func RandomInstance(ops, machines, tools int, rng *rand.Rand) *Instance {
	if rng == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	if ops <= 0 || machines <= 0 || tools <= 0 {
		panic("invalid instance dimensions")
	}

	machineIDs := make([]string, machines)
	machineCost := make(map[string]float64, machines)
	for i := range machineIDs {
		machineIDs[i] = "m" + strconv.Itoa(i+1)
		machineCost[machineIDs[i]] = float64(1 + rng.Intn(99))
	}
	toolIDs := make([]string, tools)
	toolCost := make(map[string]float64, tools)
	for i := range toolIDs {
		toolIDs[i] = "t" + strconv.Itoa(i+1)
		toolCost[toolIDs[i]] = float64(1 + rng.Intn(20))
	}
	directions := []string{"+x", "-x", "+y", "-y", "+z", "-z"}

	subset := func(from []string, maxSize int) []string {
		size := 1 + rng.Intn(min(maxSize, len(from)))
		perm := rng.Perm(len(from))[:size]
		slices.Sort(perm)
		out := make([]string, size)
		for i, p := range perm {
			out[i] = from[p]
		}
		return out
	}

	// Варианты каждой логической операции
	variants := make([][]string, ops)
	for k := range variants {
		base := "o" + strconv.Itoa(k+1)
		if rng.Float64() < 0.3 {
			variants[k] = []string{base + "a", base + "b"}
		} else {
			variants[k] = []string{base}
		}
	}

	var list []Operation
	for k, vs := range variants {
		var prior []string
		if k > 0 && rng.Float64() < 0.4 {
			for _, p := range rng.Perm(k)[:min(k, 1+rng.Intn(2))] {
				prior = append(prior, variants[p]...)
			}
		}
		for _, id := range vs {
			list = append(list, Operation{
				ID:          id,
				Alternative: lo.Without(vs, id),
				Prior:       slices.Clone(prior),
				Machine:     subset(machineIDs, 3),
				Tool:        subset(toolIDs, 3),
				Direction:   subset(directions, 2),
			})
		}
	}

	inst, err := NewInstance(
		fmt.Sprintf("random-%dx%d", ops, machines),
		list, machineCost, toolCost,
		Changeover{Machine: 150, Tool: 20, Setup: 90},
	)
	if err != nil {
		panic(err)
	}
	return inst
}
