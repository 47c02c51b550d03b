package network

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trafficlab/corridordnl/corridor"
	"github.com/trafficlab/corridordnl/linkmodel"
)

func buildTestNetwork(t *testing.T) *Network {
	t.Helper()
	c, err := corridor.Build(1.0, corridor.DefaultConfig(1.0))
	require.NoError(t, err)
	return New(c, nil)
}

// Invariant 3 (spec.md §8): total vehicles on the network after
// termination equals total demand minus vehicles absorbed at
// destinations.
func TestLoadNetwork_MassConservation(t *testing.T) {
	net := buildTestNetwork(t)

	path := Path{Links: []string{"FWY NB U", "FWY NB C", "FWY NB D"}}
	net.RegisterPaths([]Path{path})
	horizon := 200
	flows := make([]float64, horizon)
	for t := 0; t < 100; t++ {
		flows[t] = 1.0
	}
	net.PathFlows[path.ID()] = flows

	net.Reset()
	timeRange := make([]int, horizon)
	for i := range timeRange {
		timeRange[i] = i
	}
	net.LoadNetwork(timeRange)

	var onLink float64
	for _, l := range net.Corridor.Links {
		onLink += l.VehiclesOnLink(horizon - 1)
	}
	var destinationAbsorbed float64
	for _, idx := range net.Corridor.Destinations {
		for _, l := range net.Corridor.Nodes[idx].UpstreamLinks() {
			destinationAbsorbed += l.DownstreamCount(horizon - 1)
		}
	}
	require.InDelta(t, 100.0, onLink+destinationAbsorbed, 1e-6)
}

func TestNetwork_PathContainsLinkAnswersRegisteredPaths(t *testing.T) {
	net := buildTestNetwork(t)
	path := Path{Links: []string{"FWY NB U", "FWY NB C"}}
	net.RegisterPaths([]Path{path})

	require.True(t, net.pathContainsLink(path.ID(), "FWY NB C"))
	require.False(t, net.pathContainsLink(path.ID(), "FWY NB D"))
	require.False(t, net.pathContainsLink(linkmodel.PathID("bogus"), "FWY NB C"))
}

func TestNetwork_ResetClearsLinkCountsAndRampHistory(t *testing.T) {
	net := buildTestNetwork(t)
	net.Corridor.RampNB.SetParams(0.2)

	l := net.Corridor.Link("FWY NB U")
	l.FlowIn(map[linkmodel.PathID]float64{"p": 5})
	require.Greater(t, l.UpstreamCount(1), 0.0)

	net.Corridor.RampNB.CalculateTransitionFlows(
		map[string]float64{"FWY NB NRU": 1}, map[string]float64{"FWY NB NRD": 1}, nil, 0)
	require.NotEmpty(t, net.Corridor.RampNB.Flows())

	net.Reset()
	require.Equal(t, 0.0, l.UpstreamCount(1))
	require.Empty(t, net.Corridor.RampNB.Flows())
}
