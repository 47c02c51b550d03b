package assignment

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trafficlab/corridordnl/corridor"
	"github.com/trafficlab/corridordnl/network"
)

func buildSingleODNetwork(t *testing.T, horizon int) *network.Network {
	t.Helper()
	c, err := corridor.Build(1.0, corridor.DefaultConfig(1.0))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	od := network.NewStochasticOD("nFwy", corridor.NFwyStart, corridor.NFwyEnd, 1000, 1.0, horizon, rng)
	od.Paths = EnumerateSimplePaths(c, od.Origin, od.Destination, 12)

	net := network.New(c, []network.OD{od})
	net.RegisterPaths(od.Paths)
	return net
}

func TestInitializePathFlows_PlacesAllDemandOnOnePath(t *testing.T) {
	horizon := 100
	net := buildSingleODNetwork(t, horizon)
	InitializePathFlows(net, horizon)

	var totalAssigned float64
	for _, flows := range net.PathFlows {
		for _, f := range flows {
			totalAssigned += f
		}
	}
	var totalDemand float64
	for _, d := range net.ODs[0].DemandRates {
		totalDemand += d
	}
	require.InDelta(t, totalDemand, totalAssigned, 1e-6)
}

func TestDTA_RunConverges(t *testing.T) {
	horizon := 150
	net := buildSingleODNetwork(t, horizon)
	InitializePathFlows(net, horizon)

	dta := NewDTA(net, horizon, 5, 0.0)
	aec, iterations := dta.Run()
	require.GreaterOrEqual(t, iterations, 1)
	require.LessOrEqual(t, iterations, 5)
	require.GreaterOrEqual(t, aec, -1e-6)
}

func TestFreeFlowHorizon_PositiveForConnectedCorridor(t *testing.T) {
	c, err := corridor.Build(1.0, corridor.DefaultConfig(1.0))
	require.NoError(t, err)
	h := FreeFlowHorizon(c)
	require.Greater(t, h, 0)
}
