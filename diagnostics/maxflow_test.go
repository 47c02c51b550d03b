package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trafficlab/corridordnl/corridor"
)

func TestStaticMaxThroughput_PositiveForConnectedCorridor(t *testing.T) {
	c, err := corridor.Build(1.0, corridor.DefaultConfig(1.0))
	require.NoError(t, err)

	mf, err := StaticMaxThroughput(c)
	require.NoError(t, err)
	require.Greater(t, mf, 0.0)
}

func TestStaticMaxThroughput_BoundedByTotalOriginCapacity(t *testing.T) {
	c, err := corridor.Build(1.0, corridor.DefaultConfig(1.0))
	require.NoError(t, err)

	mf, err := StaticMaxThroughput(c)
	require.NoError(t, err)

	var originCapacity float64
	for _, o := range c.Origins {
		for _, l := range c.Nodes[o].DownstreamLinks() {
			originCapacity += l.Capacity()
		}
	}
	require.LessOrEqual(t, mf, originCapacity+1e-6)
}

func TestFreeFlowHorizon_MatchesAssignmentPackage(t *testing.T) {
	c, err := corridor.Build(1.0, corridor.DefaultConfig(1.0))
	require.NoError(t, err)
	require.Greater(t, FreeFlowHorizon(c), 0)
}
