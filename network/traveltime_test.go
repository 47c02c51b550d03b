package network

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trafficlab/corridordnl/corridor"
)

func TestCalculateLinkTravelTimes_FreeFlowMatchesFreeFlowTime(t *testing.T) {
	c, err := corridor.Build(1.0, corridor.DefaultConfig(1.0))
	require.NoError(t, err)
	net := New(c, nil)

	path := Path{Links: []string{"FWY NB U"}}
	net.RegisterPaths([]Path{path})
	horizon := 50
	net.PathFlows[path.ID()] = make([]float64, horizon)
	net.PathFlows[path.ID()][0] = 1

	timeRange := make([]int, horizon)
	for i := range timeRange {
		timeRange[i] = i
	}
	net.LoadNetwork(timeRange)
	net.CalculateLinkTravelTimes(timeRange, horizon, 1e-5)

	l := net.Corridor.Link("FWY NB U")
	require.GreaterOrEqual(t, l.TravelTime(0), l.FreeFlowTime())
}

func TestPathTravelTime_ChainsLinkTravelTimes(t *testing.T) {
	c, err := corridor.Build(1.0, corridor.DefaultConfig(1.0))
	require.NoError(t, err)
	net := New(c, nil)

	path := Path{Links: []string{"FWY NB U", "FWY NB C"}}
	want := net.Corridor.Link("FWY NB U").FreeFlowTime() + net.Corridor.Link("FWY NB C").FreeFlowTime()
	require.Equal(t, want, net.PathTravelTime(path, 0, 1000))
}

func TestPathFreeFlowTime_SumsConstituentLinks(t *testing.T) {
	c, err := corridor.Build(1.0, corridor.DefaultConfig(1.0))
	require.NoError(t, err)
	net := New(c, nil)

	path := Path{Links: []string{"FWY NB U", "FWY NB C", "FWY NB D"}}
	fft := net.PathFreeFlowTime(path)
	require.Equal(t,
		net.Corridor.Link("FWY NB U").FreeFlowTime()+
			net.Corridor.Link("FWY NB C").FreeFlowTime()+
			net.Corridor.Link("FWY NB D").FreeFlowTime(),
		fft)
}

func TestTSTT_ZeroWhenNetworkEmpty(t *testing.T) {
	c, err := corridor.Build(1.0, corridor.DefaultConfig(1.0))
	require.NoError(t, err)
	net := New(c, nil)
	timeRange := []int{0, 1, 2, 3, 4}
	net.LoadNetwork(timeRange)
	require.Equal(t, 0.0, net.TSTT(timeRange))
}

func TestTFFT_AccountsOnlyRegisteredPathFlow(t *testing.T) {
	c, err := corridor.Build(1.0, corridor.DefaultConfig(1.0))
	require.NoError(t, err)
	net := New(c, nil)

	path := Path{Links: []string{"FWY NB U"}}
	net.RegisterPaths([]Path{path})
	net.PathFlows[path.ID()] = []float64{2, 0, 0}

	timeRange := []int{0, 1, 2}
	fft := net.TFFT(timeRange)
	want := 2.0 * float64(net.Corridor.Link("FWY NB U").FreeFlowTime()) * net.Corridor.Timestep
	require.InDelta(t, want, fft, 1e-9)
}
