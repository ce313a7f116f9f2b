package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"flexPlan/internal/catalog"
	"flexPlan/internal/fpp"
)

func TestSolve_Builtin(t *testing.T) {
	resp, err := Solve(context.Background(), Request{Iterations: 300, Seed: 5})
	require.NoError(t, err)

	_, err = uuid.Parse(resp.RunID)
	require.NoError(t, err)
	require.Equal(t, "example1", resp.Instance)
	require.Equal(t, int64(5), resp.Seed)
	require.Len(t, resp.History, 300)
	require.Len(t, resp.Sequence, 13)
	require.True(t, resp.Breakdown.Feasible)
	require.Equal(t, resp.Score, resp.Breakdown.Total)
	require.NoError(t, fpp.ValidateSequence(resp.Sequence, catalog.MustBuiltin("example1")))

	again, err := Solve(context.Background(), Request{Iterations: 300, Seed: 5})
	require.NoError(t, err)
	require.Equal(t, resp.Score, again.Score)
	require.NotEqual(t, resp.RunID, again.RunID)
}

func TestSolve_InlineInstance(t *testing.T) {
	body := []byte(`{
	  "instance": {
	    "changeover": {"machine": 150, "tool": 20, "setup": 90},
	    "machines": {"m1": 5},
	    "tools": {"t1": 2},
	    "operations": [
	      {"id": "A", "machine": "m1", "tool": "t1", "direction": "+z"},
	      {"id": "B", "machine": "m1", "tool": "t1", "direction": "+z"},
	      {"id": "C", "machine": "m1", "tool": "t1", "direction": "+z"}
	    ]
	  },
	  "hms": 3,
	  "iterations": 10,
	  "seed": 1
	}`)
	var req Request
	require.NoError(t, json.Unmarshal(body, &req))

	resp, err := Solve(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "request", resp.Instance)
	require.Equal(t, 21.0, resp.Score)
	require.Zero(t, resp.Breakdown.ToolChangeover)
}

func TestSolve_BadRequests(t *testing.T) {
	cases := map[string]Request{
		"unknown builtin": {Builtin: "nope"},
		"malformed":       {Instance: json.RawMessage(`[1,2]`)},
		"negative hms":    {HMS: -1},
		"too many":        {Iterations: MaxIterations + 1},
		"cycle": {Instance: json.RawMessage(`{"machines": {"m1": 1}, "tools": {"t1": 1}, "operations": [
			{"id": "A", "prior": "B", "machine": "m1", "tool": "t1", "direction": "+z"},
			{"id": "B", "prior": "A", "machine": "m1", "tool": "t1", "direction": "+z"}]}`), Iterations: 5},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Solve(context.Background(), req)
			require.ErrorIs(t, err, ErrBadRequest)
		})
	}
}
