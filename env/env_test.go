package env

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Scenario 5 (spec.md §8): Reset determinism — two episodes reset with the
// same seed and stepped with zero actions produce bit-identical reward
// sequences.
func TestEnv_ResetIsDeterministicGivenSeed(t *testing.T) {
	e1, err := NewEnv(1.0, 60, 3, 30)
	require.NoError(t, err)
	s1 := e1.Reset(1831)

	e2, err := NewEnv(1.0, 60, 3, 30)
	require.NoError(t, err)
	s2 := e2.Reset(1831)

	require.Equal(t, s1, s2)

	zero := make([]float64, ActionLen)
	for i := 0; i < 3; i++ {
		_, r1, _ := e1.Step(zero)
		_, r2, _ := e2.Step(zero)
		require.Equal(t, r1, r2)
	}
}

// Scenario 6 (spec.md §8): applying the all-ones action repeatedly clamps
// every config field at its maximum without overflow. The per-unit
// increments are small fixed constants (splitStep=0.05, rampStep=25/3600;
// see env/action.go: maxIncrement), so enough steps are taken to drive
// every field — including the widest-gap ramp rates — past its maximum.
const clampIterations = 60

func TestEnv_StepClampsConfigAtMaximum(t *testing.T) {
	e, err := NewEnv(1.0, 5, clampIterations, 0)
	require.NoError(t, err)
	e.Reset(5)

	ones := make([]float64, ActionLen)
	for i := range ones {
		ones[i] = 1
	}
	_, maxs := e.Constraints()

	for i := 0; i < clampIterations; i++ {
		e.Step(ones)
	}
	got := Vectorize(e.Config)
	for i := 0; i < ActionLen; i++ {
		require.InDelta(t, maxs[i], got[i], 1e-6, "slot %d should be clamped at its maximum", i)
	}
}

// Zero action leaves config unchanged (spec.md §8 round-trip property).
func TestEnv_ZeroActionLeavesConfigUnchanged(t *testing.T) {
	e, err := NewEnv(1.0, 30, 2, 0)
	require.NoError(t, err)
	e.Reset(9)

	before := Vectorize(e.Config)
	zero := make([]float64, ActionLen)
	e.Step(zero)
	after := Vectorize(e.Config)
	for i := 0; i < ActionLen; i++ {
		require.InDelta(t, before[i], after[i], 1e-9, "slot %d", i)
	}
}

func TestEnv_DoneTrueOnlyAfterAllIntervals(t *testing.T) {
	e, err := NewEnv(1.0, 10, 2, 0)
	require.NoError(t, err)
	e.Reset(3)

	_, _, done := e.Step(nil)
	require.False(t, done)
	_, _, done = e.Step(nil)
	require.True(t, done)
}

func TestEnv_StateVectorLayout(t *testing.T) {
	e, err := NewEnv(1.0, 30, 1, 0)
	require.NoError(t, err)
	s := e.Reset(2)
	require.Len(t, s, StateLen)
	require.Equal(t, 0.0, s[0])
}
