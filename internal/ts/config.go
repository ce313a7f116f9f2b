package ts

import "fmt"

// Neighborhood определяет тип окрестности.
type Neighborhood string

const (
	NeighborhoodInsert Neighborhood = "insert"
	NeighborhoodSwap   Neighborhood = "swap"
)

type Config struct {
	Iterations      int `yaml:"iterations"`
	IterationsPerOp int `yaml:"iterations_per_op"`

	TabuTenure int `yaml:"tabu_tenure"`

	TabuTenureRand int `yaml:"tabu_tenure_rand"`

	NeighborsPerIter int `yaml:"neighbors_per_iter"`

	// ResourceRate — вероятность заново выбрать ресурсы перемещаемого шага.
	ResourceRate float64 `yaml:"resource_rate"`

	Neighborhood Neighborhood `yaml:"neighborhood"`
}

func DefaultConfig() Config {
	return Config{
		Iterations:      0,
		IterationsPerOp: 100,

		TabuTenure:     7,
		TabuTenureRand: 3,

		NeighborsPerIter: 40,
		ResourceRate:     0.3,
		Neighborhood:     NeighborhoodInsert,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerOp <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerOp > 0",
		)
	}
	if c.TabuTenure <= 0 {
		return fmt.Errorf(
			"TabuTenure должно быть > 0 (получено %d)",
			c.TabuTenure,
		)
	}
	if c.TabuTenureRand < 0 {
		return fmt.Errorf(
			"TabuTenureRand должно быть >= 0 (получено %d)",
			c.TabuTenureRand,
		)
	}
	if c.NeighborsPerIter <= 0 {
		return fmt.Errorf(
			"NeighborsPerIter должно быть > 0 (получено %d)",
			c.NeighborsPerIter,
		)
	}
	if c.ResourceRate < 0 || c.ResourceRate > 1 {
		return fmt.Errorf(
			"ResourceRate должно быть в диапазоне [0,1] (получено %f)",
			c.ResourceRate,
		)
	}
	switch c.Neighborhood {
	case NeighborhoodInsert, NeighborhoodSwap:
		// ok
	default:
		return fmt.Errorf(
			"неизвестный тип окрестности %q",
			c.Neighborhood,
		)
	}
	return nil
}
