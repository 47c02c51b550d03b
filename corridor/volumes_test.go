package corridor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVolumes_EveryEntryNamesAKnownDirection(t *testing.T) {
	vols := Volumes()
	require.NotEmpty(t, vols)
	for _, v := range vols {
		require.GreaterOrEqual(t, v.Origin, 0)
		require.Less(t, v.Origin, NumNodes)
		require.GreaterOrEqual(t, v.Destination, 0)
		require.Less(t, v.Destination, NumNodes)
		require.Greater(t, v.HourlyVeh, 0.0)
		require.NotEmpty(t, v.Label)
	}
}

// Volumes' order feeds directly into env.Env.Reset's RNG consumption
// order (one Poisson draw sequence per OD, in Volumes' returned order),
// so two calls must return OD pairs in the same order for reset(seed) to
// be reproducible (spec.md §8).
func TestVolumes_OrderIsStableAcrossCalls(t *testing.T) {
	first := Volumes()
	for i := 0; i < 5; i++ {
		again := Volumes()
		require.Equal(t, first, again)
	}
}

// Node indices per OD pair, transcribed from
// original_source/dta/networkModel.py's setDemand (e.g. `e2w =
// StochasticOD(3,11,...)` is xsWBstart->xsWBend, not xsEBstart->xsWBend):
// every non-freeway direction uses a different node for its origin role
// than its destination role.
func TestVolumes_NodesMatchOriginalSetDemand(t *testing.T) {
	vols := Volumes()
	byLabel := make(map[string]ODVolume, len(vols))
	for _, v := range vols {
		byLabel[v.Label] = v
	}

	cases := []struct {
		label  string
		origin int
		dest   int
	}{
		{"nFwy", NFwyStart, NFwyEnd},
		{"sFwy", SFwyStart, SFwyEnd},
		{"e2w", XsWbStart, XsWbEnd},
		{"w2e", XsEbStart, XsEbEnd},
		{"n2e", NFwyStart, XsEbEnd},
		{"n2w", NFwyStart, XsWbEnd},
		{"ne2e", EcSbStart, XsEbEnd},
		{"ne2nw", EcSbStart, WcNbEnd},
		{"nw2ne", WcSbStart, EcNbEnd},
		{"se2ne", EcNbStart, EcNbEnd},
		{"sw2se", WcNbStart, EcSbEnd},
	}
	for _, c := range cases {
		v, ok := byLabel[c.label]
		require.True(t, ok, "expected a %q entry", c.label)
		require.Equal(t, c.origin, v.Origin, "%s origin node", c.label)
		require.Equal(t, c.dest, v.Destination, "%s destination node", c.label)
	}
}

func TestVolumes_SameDirectionLabeledFwy(t *testing.T) {
	vols := Volumes()
	found := false
	for _, v := range vols {
		if v.Label == "nFwy" {
			found = true
			require.Equal(t, NFwyStart, v.Origin)
			require.Equal(t, NFwyEnd, v.Destination)
		}
	}
	require.True(t, found, "expected an nFwy entry")
}
