package corridor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuild_ProducesFullyWiredCorridor(t *testing.T) {
	c, err := Build(1.0, DefaultConfig(1.0))
	require.NoError(t, err)
	require.Len(t, c.Links, 30)
	require.Len(t, c.Nodes, NumNodes)
	require.Len(t, c.Origins, 8)
	require.Len(t, c.Destinations, 8)

	for idx, n := range c.Nodes {
		require.NotNil(t, n, "node %d (%s) must be populated", idx, nodeName[idx])
	}
}

func TestBuild_LinkLookupKnownIDs(t *testing.T) {
	c, err := Build(1.0, DefaultConfig(1.0))
	require.NoError(t, err)

	l := c.Link("FWY NB U")
	require.Equal(t, NFwyStart, l.Tail())
	require.Equal(t, NbDiv, l.Head())

	l = c.Link("FWY NB C")
	require.Equal(t, NbDiv, l.Tail())
	require.Equal(t, NbMerge, l.Head())
}

func TestBuild_ValidatesReachability(t *testing.T) {
	c, err := Build(1.0, DefaultConfig(1.0))
	require.NoError(t, err)
	require.NoError(t, c.Validate())
}

func TestBuild_UpdateOrderExcludesCentroids(t *testing.T) {
	c, err := Build(1.0, DefaultConfig(1.0))
	require.NoError(t, err)
	// 26 nodes total, 16 of which are origin/destination centroids.
	require.Len(t, c.UpdateOrder, NumNodes-16)
}

func TestApplyConfig_RoundTripsThroughIntersections(t *testing.T) {
	c, err := Build(1.0, DefaultConfig(1.0))
	require.NoError(t, err)

	cfg := DefaultConfig(1.0)
	cfg.Wx.Split00 = 0.9
	cfg.NBRamp = 0.25
	c.ApplyConfig(cfg)

	require.Equal(t, 0.9, c.Wx.Split(0, 0))
	require.Equal(t, 0.25, c.RampNB.VPTS())
}

func TestConstraints_MinsNeverExceedMaxs(t *testing.T) {
	c, err := Build(1.0, DefaultConfig(1.0))
	require.NoError(t, err)

	mins, maxs := c.Constraints(1.0)
	require.LessOrEqual(t, mins.NBRamp, maxs.NBRamp)
	require.LessOrEqual(t, mins.Wx.Split00, maxs.Wx.Split00)
	require.LessOrEqual(t, mins.Wx.Barrier0, maxs.Wx.Barrier0)
}
