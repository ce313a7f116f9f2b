// Package config описывает файл настроек запуска (YAML).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"flexPlan/internal/aco"
	"flexPlan/internal/ga"
	"flexPlan/internal/hs"
	"flexPlan/internal/pso"
	"flexPlan/internal/sa"
	"flexPlan/internal/ts"
)

type Config struct {
	HS  hs.Config  `yaml:"hs"`
	GA  ga.Config  `yaml:"ga"`
	SA  sa.Config  `yaml:"sa"`
	TS  ts.Config  `yaml:"ts"`
	ACO aco.Config `yaml:"aco"`
	PSO pso.Config `yaml:"pso"`

	Bench BenchConfig `yaml:"bench"`
	Log   LogConfig   `yaml:"log"`
}

type BenchConfig struct {
	Runs          int           `yaml:"runs"`
	BaseSeed      int64         `yaml:"seed"`
	InstanceSeed  int64         `yaml:"instance_seed"`
	PerRunTimeout time.Duration `yaml:"per_run_timeout"`
	Workers       int           `yaml:"workers"`
}

type LogConfig struct {
	// Level: debug | info | warn | error
	Level string `yaml:"level"`
	// Format: text | json
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		HS:  hs.DefaultConfig(),
		GA:  ga.DefaultConfig(),
		SA:  sa.DefaultConfig(),
		TS:  ts.DefaultConfig(),
		ACO: aco.DefaultConfig(),
		PSO: pso.DefaultConfig(),
		Bench: BenchConfig{
			Runs:         30,
			BaseSeed:     1000,
			InstanceSeed: 777,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load читает YAML поверх значений по умолчанию: отсутствующие ключи
// сохраняют значения из Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	checks := []struct {
		name string
		err  error
	}{
		{"hs", c.HS.Validate()},
		{"ga", c.GA.Validate()},
		{"sa", c.SA.Validate()},
		{"ts", c.TS.Validate()},
		{"aco", c.ACO.Validate()},
		{"pso", c.PSO.Validate()},
	}
	for _, ch := range checks {
		if ch.err != nil {
			return fmt.Errorf("%s: %w", ch.name, ch.err)
		}
	}
	if c.Bench.Runs <= 0 {
		return fmt.Errorf("bench: количество запусков должно быть > 0 (получено %d)", c.Bench.Runs)
	}
	if c.Bench.Workers < 0 {
		return fmt.Errorf("bench: workers должно быть >= 0 (получено %d)", c.Bench.Workers)
	}
	if c.Bench.PerRunTimeout < 0 {
		return fmt.Errorf("bench: per_run_timeout должно быть >= 0 (получено %s)", c.Bench.PerRunTimeout)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: неизвестный уровень %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log: неизвестный формат %q", c.Log.Format)
	}
	return nil
}
