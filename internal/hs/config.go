package hs

import "fmt"

type Config struct {
	// MemorySize — размер гармонической памяти (HMS).
	MemorySize int `yaml:"memory_size" json:"memorySize"`
	// Iterations — число импровизаций (NI).
	Iterations int `yaml:"iterations" json:"iterations"`
}

func (c Config) Validate() error {
	if c.MemorySize <= 0 {
		return fmt.Errorf(
			"размер гармонической памяти должен быть > 0 (получено %d)",
			c.MemorySize,
		)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf(
			"количество импровизаций должно быть > 0 (получено %d)",
			c.Iterations,
		)
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		MemorySize: 10,
		Iterations: 10000,
	}
}
