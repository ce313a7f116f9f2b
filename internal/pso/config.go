package pso

import "fmt"

type Config struct {
	Iterations      int `yaml:"iterations"`
	IterationsPerOp int `yaml:"iterations_per_op"`

	Particles int `yaml:"particles"`

	W  float64 `yaml:"w"`
	C1 float64 `yaml:"c1"`
	C2 float64 `yaml:"c2"`

	VMax float64 `yaml:"vmax"`

	PosMin float64 `yaml:"pos_min"`
	PosMax float64 `yaml:"pos_max"`
}

func DefaultConfig() Config {
	return Config{
		Iterations:      0,
		IterationsPerOp: 30,

		Particles: 40,

		W:  0.729,
		C1: 1.49445,
		C2: 1.49445,

		VMax:   0.25,
		PosMin: 0.0,
		PosMax: 1.0,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerOp <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerOp > 0",
		)
	}
	if c.Particles <= 0 {
		return fmt.Errorf(
			"Particles должно быть > 0 (получено %d)",
			c.Particles,
		)
	}
	if c.W < 0 {
		return fmt.Errorf(
			"W должно быть >= 0 (получено %f)",
			c.W,
		)
	}
	if c.C1 < 0 || c.C2 < 0 {
		return fmt.Errorf(
			"C1 и C2 должны быть >= 0 (получено %f, %f)",
			c.C1,
			c.C2,
		)
	}
	if c.PosMin >= c.PosMax {
		if !(c.PosMin == 0 && c.PosMax == 0) {
			return fmt.Errorf(
				"для ограничения PosMin должно быть < PosMax (получено %f >= %f)",
				c.PosMin,
				c.PosMax,
			)
		}
	}
	return nil
}
