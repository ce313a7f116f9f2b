// Package service — разбор запроса на решение и формирование ответа.
// Используется обработчиком Lambda.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"flexPlan/internal/catalog"
	"flexPlan/internal/fpp"
	"flexPlan/internal/hs"
)

// Ограничения запроса
const (
	DefaultBuiltin = "example1"
	MaxMemorySize  = 1000
	MaxIterations  = 200000
)

// ErrBadRequest оборачивает ошибки входных данных запроса.
var ErrBadRequest = errors.New("bad request")

type Request struct {
	// Instance — документ экземпляра в JSON; если пуст, используется Builtin.
	Instance   json.RawMessage `json:"instance,omitempty"`
	Builtin    string          `json:"builtin,omitempty"`
	HMS        int             `json:"hms,omitempty"`
	Iterations int             `json:"iterations,omitempty"`
	// Seed: 0 — случайный.
	Seed int64 `json:"seed,omitempty"`
}

type Response struct {
	RunID                string        `json:"runId"`
	Instance             string        `json:"instance"`
	Seed                 int64         `json:"seed"`
	Score                float64       `json:"score"`
	Breakdown            fpp.Breakdown `json:"breakdown"`
	ConvergenceIteration int           `json:"convergenceIteration"`
	Sequence             fpp.Sequence  `json:"sequence"`
	History              []float64     `json:"history"`
	TimeMs               int64         `json:"timeMs"`
}

// Solve выполняет один запуск SLHS по запросу.
func Solve(ctx context.Context, req Request, opts ...hs.Option) (Response, error) {
	inst, err := resolveInstance(req)
	if err != nil {
		return Response{}, err
	}

	cfg := hs.DefaultConfig()
	if req.HMS != 0 {
		cfg.MemorySize = req.HMS
	}
	if req.Iterations != 0 {
		cfg.Iterations = req.Iterations
	}
	if err := cfg.Validate(); err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if cfg.MemorySize > MaxMemorySize || cfg.Iterations > MaxIterations {
		return Response{}, fmt.Errorf("%w: hms must be <= %d and iterations <= %d", ErrBadRequest, MaxMemorySize, MaxIterations)
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	start := time.Now()
	s, err := hs.New(cfg, rand.New(rand.NewSource(seed)), opts...)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	res, err := s.Solve(ctx, inst)
	if err != nil {
		if errors.Is(err, fpp.ErrStarvation) {
			return Response{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		return Response{}, err
	}

	eval, err := fpp.NewEvaluator(inst)
	if err != nil {
		return Response{}, err
	}
	breakdown, err := eval.Evaluate(res.Sequence)
	if err != nil {
		return Response{}, err
	}

	return Response{
		RunID:                uuid.NewString(),
		Instance:             inst.Name,
		Seed:                 seed,
		Score:                res.Score,
		Breakdown:            breakdown,
		ConvergenceIteration: res.ConvergenceIteration,
		Sequence:             res.Sequence,
		History:              res.History,
		TimeMs:               time.Since(start).Milliseconds(),
	}, nil
}

func resolveInstance(req Request) (*fpp.Instance, error) {
	if len(req.Instance) > 0 {
		doc, err := catalog.Parse(req.Instance, catalog.FormatJSON)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		if doc.Name == "" {
			doc.Name = "request"
		}
		inst, err := doc.Instance()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		return inst, nil
	}

	name := req.Builtin
	if name == "" {
		name = DefaultBuiltin
	}
	inst, err := catalog.Builtin(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return inst, nil
}
