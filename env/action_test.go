package env

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trafficlab/corridordnl/corridor"
)

// dictify(vectorize(a)) == a for every action record (spec.md §8
// round-trip property).
func TestVectorizeDictify_RoundTrips(t *testing.T) {
	cfg := corridor.DefaultConfig(1.0)
	got := Dictify(Vectorize(cfg))
	require.Equal(t, cfg, got)
}

func TestApplyAction_ClampsToBounds(t *testing.T) {
	cfg := corridor.DefaultConfig(1.0)
	mins, maxs := (&corridor.Corridor{}).Constraints(1.0)

	var huge [ActionLen]float64
	for i := range huge {
		huge[i] = 1000
	}
	next := applyAction(cfg, huge, mins, maxs)
	nextVec := Vectorize(next)
	maxVec := Vectorize(maxs)
	for i := 0; i < ActionLen; i++ {
		require.LessOrEqual(t, nextVec[i], maxVec[i]+1e-9)
	}
}
