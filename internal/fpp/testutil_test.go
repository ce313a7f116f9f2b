package fpp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func simpleOp(id string, prior ...string) Operation {
	return Operation{
		ID:        id,
		Prior:     prior,
		Machine:   []string{"m1"},
		Tool:      []string{"t1"},
		Direction: []string{"+z"},
	}
}

func mustInstance(t *testing.T, ops []Operation) *Instance {
	t.Helper()
	inst, err := NewInstance("test", ops,
		map[string]float64{"m1": 10, "m2": 20, "m3": 30},
		map[string]float64{"t1": 1, "t2": 2, "t3": 3},
		Changeover{Machine: 150, Tool: 20, Setup: 90},
	)
	require.NoError(t, err)
	return inst
}

// altOps: Xa|Xb — альтернативы, Y требует Xa или Xb, Z независима.
func altOps() []Operation {
	xa := simpleOp("Xa")
	xa.Alternative = []string{"Xb"}
	xb := simpleOp("Xb")
	xb.Alternative = []string{"Xa"}
	xb.Machine = []string{"m2", "m3"}
	return []Operation{xa, xb, simpleOp("Y", "Xa", "Xb"), simpleOp("Z")}
}
