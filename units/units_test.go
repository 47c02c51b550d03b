package units

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCeilDivInt_RoundsUpAndFloorsAtOne(t *testing.T) {
	require.Equal(t, 1, CeilDivInt(0.5, 1))
	require.Equal(t, 2, CeilDivInt(1.5, 1))
	require.Equal(t, 1, CeilDivInt(1, 1))
	require.Equal(t, 1, CeilDivInt(0, 1), "a zero-length link still takes at least one timestep")
}

func TestCeilDivInt_NonPositiveDenominatorIsZero(t *testing.T) {
	require.Equal(t, 0, CeilDivInt(10, 0))
	require.Equal(t, 0, CeilDivInt(10, -1))
}

func TestMPHToFPS_MatchesHandComputedConversion(t *testing.T) {
	// 60 mph == 88 ft/s.
	require.InDelta(t, 88.0, 60*MPHToFPS, 1e-9)
}
