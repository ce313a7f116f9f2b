package sa

import "fmt"

// Тип окрестности
type Neighborhood string

const (
	NeighborhoodSwap     Neighborhood = "swap"
	NeighborhoodInsert   Neighborhood = "insert"
	NeighborhoodResource Neighborhood = "resource"
	// NeighborhoodMixed выбирает одну из трёх окрестностей случайно на каждой итерации.
	NeighborhoodMixed Neighborhood = "mixed"
)

type Config struct {
	Iterations      int `yaml:"iterations"`
	IterationsPerOp int `yaml:"iterations_per_op"`

	InitialTemp float64 `yaml:"initial_temp"`
	FinalTemp   float64 `yaml:"final_temp"`
	Alpha       float64 `yaml:"alpha"`

	Neighborhood Neighborhood `yaml:"neighborhood"`
}

func DefaultConfig() Config {
	return Config{
		Iterations:      0,
		IterationsPerOp: 1000,

		InitialTemp: 500.0,
		FinalTemp:   0.5,
		Alpha:       0.9995,

		Neighborhood: NeighborhoodMixed,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerOp <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerOp > 0",
		)
	}
	if c.InitialTemp <= 0 {
		return fmt.Errorf(
			"InitialTemp должно быть > 0 (получено %f)",
			c.InitialTemp,
		)
	}
	if c.FinalTemp <= 0 {
		return fmt.Errorf(
			"FinalTemp должно быть > 0 (получено %f)",
			c.FinalTemp,
		)
	}
	if c.FinalTemp >= c.InitialTemp {
		return fmt.Errorf(
			"FinalTemp должно быть < InitialTemp (получено %f >= %f)",
			c.FinalTemp,
			c.InitialTemp,
		)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf(
			"alpha должно лежать в интервале (0,1) (получено %f)",
			c.Alpha,
		)
	}
	switch c.Neighborhood {
	case NeighborhoodSwap, NeighborhoodInsert, NeighborhoodResource, NeighborhoodMixed:
		// ok
	default:
		return fmt.Errorf(
			"неизвестный тип окрестности %q",
			c.Neighborhood,
		)
	}
	return nil
}
