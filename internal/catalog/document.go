// Package catalog читает экземпляры задачи из JSON, YAML и TOML
// и хранит встроенные экземпляры.
package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"flexPlan/internal/fpp"
)

// Document — файловое представление экземпляра.
type Document struct {
	Name       string             `json:"name" yaml:"name" toml:"name"`
	Changeover fpp.Changeover     `json:"changeover" yaml:"changeover" toml:"changeover"`
	Machines   map[string]float64 `json:"machines" yaml:"machines" toml:"machines"`
	Tools      map[string]float64 `json:"tools" yaml:"tools" toml:"tools"`
	Operations []OperationDoc     `json:"operations" yaml:"operations" toml:"operations"`
}

// OperationDoc — операция в документе. Списки допускают запись одной строкой.
type OperationDoc struct {
	ID          string     `json:"id" yaml:"id" toml:"id"`
	Alternative StringList `json:"alternative,omitempty" yaml:"alternative,omitempty" toml:"alternative,omitempty"`
	Prior       StringList `json:"prior,omitempty" yaml:"prior,omitempty" toml:"prior,omitempty"`
	Machine     StringList `json:"machine" yaml:"machine" toml:"machine"`
	Tool        StringList `json:"tool" yaml:"tool" toml:"tool"`
	Direction   StringList `json:"direction" yaml:"direction" toml:"direction"`
}

// StringList — список строк; скаляр читается как список из одного элемента.
type StringList []string

func (l *StringList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = StringList{n.Value}
		return nil
	case yaml.SequenceNode:
		var out []string
		if err := n.Decode(&out); err != nil {
			return err
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", n.Line)
	}
}

func (l *StringList) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		*l = StringList{x}
	case []any:
		out := make(StringList, 0, len(x))
		for i, item := range x {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("item %d: expected string, got %T", i, item)
			}
			out = append(out, s)
		}
		*l = out
	default:
		return fmt.Errorf("expected string or array of strings, got %T", v)
	}
	return nil
}

// Instance собирает и проверяет экземпляр задачи.
func (d Document) Instance() (*fpp.Instance, error) {
	ops := make([]fpp.Operation, len(d.Operations))
	for i, o := range d.Operations {
		ops[i] = fpp.Operation{
			ID:          o.ID,
			Alternative: o.Alternative,
			Prior:       o.Prior,
			Machine:     o.Machine,
			Tool:        o.Tool,
			Direction:   o.Direction,
		}
	}
	return fpp.NewInstance(d.Name, ops, d.Machines, d.Tools, d.Changeover)
}

// FromInstance строит документ из экземпляра; используется Save.
func FromInstance(inst *fpp.Instance) Document {
	ops := inst.Catalog.Operations()
	d := Document{
		Name:       inst.Name,
		Changeover: inst.Changeover,
		Machines:   inst.MachineCost,
		Tools:      inst.ToolCost,
		Operations: make([]OperationDoc, len(ops)),
	}
	for i, op := range ops {
		d.Operations[i] = OperationDoc{
			ID:          op.ID,
			Alternative: op.Alternative,
			Prior:       op.Prior,
			Machine:     op.Machine,
			Tool:        op.Tool,
			Direction:   op.Direction,
		}
	}
	return d
}
