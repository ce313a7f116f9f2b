package fpp

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilder_PrecedenceHolds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 30; i++ {
		inst := RandomInstance(10, 3, 6, rng)
		eval, err := NewEvaluator(inst)
		require.NoError(t, err)
		b := NewBuilder(inst.Catalog)
		for k := 0; k < 20; k++ {
			seq, err := b.Build(rng)
			require.NoError(t, err)
			require.NoError(t, ValidateSequence(seq, inst))
			require.True(t, eval.Feasible(seq), "sequence %s", seq)
		}
	}
}

func TestBuilder_Alternatives(t *testing.T) {
	inst := mustInstance(t, altOps())
	rng := rand.New(rand.NewSource(1))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seq, err := BuildRandom(inst, rng)
		require.NoError(t, err)
		require.Len(t, seq, 3)
		ops := seq.Ops()
		require.Contains(t, ops, "Y")
		require.Contains(t, ops, "Z")
		for _, id := range ops {
			seen[id] = true
		}
	}
	require.True(t, seen["Xa"])
	require.True(t, seen["Xb"])
}

func TestBuilder_StarvationOnCycle(t *testing.T) {
	inst := mustInstance(t, []Operation{simpleOp("A", "B"), simpleOp("B", "A")})
	_, err := BuildRandom(inst, rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, ErrStarvation)
}

func TestRandomStep_Admissible(t *testing.T) {
	op := &Operation{ID: "o", Machine: []string{"m1", "m2"}, Tool: []string{"t3"}, Direction: []string{"+x", "-x"}}
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		st := RandomStep(op, rng)
		require.Equal(t, "o", st.Op)
		require.Contains(t, op.Machine, st.Machine)
		require.Equal(t, "t3", st.Tool)
		require.Contains(t, op.Direction, st.Direction)
	}
}
