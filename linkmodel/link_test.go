package linkmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPQLink_SendingReceivingFlow(t *testing.T) {
	l := NewPQLink(1.0, 60, 35, 200, 5280, 3200, 0, "L1")
	require.Equal(t, 3200.0/3600.0, l.ReceivingFlow(0))

	// Inject 10 vehicles at t=0; they should arrive at the downstream end
	// once freeFlowTime elapses.
	l.FlowIn(map[PathID]float64{"p1": 10})
	for step := 0; step < l.FreeFlowTime(); step++ {
		require.Equal(t, 0.0, l.SendingFlow(step), "no sending flow before free-flow time elapses, step %d", step)
	}
	require.Greater(t, l.SendingFlow(l.FreeFlowTime()-1+1), 0.0)
}

func TestSQLink_ReceivingFlowBoundedByStorage(t *testing.T) {
	l := NewSQLink(1.0, 30, 20, 200, 100, 3200, 0, "S1")
	// Fill the link beyond max vehicles via direct injection.
	l.FlowIn(map[PathID]float64{"p1": l.MaxVehicles() + 5})
	r := l.ReceivingFlow(0)
	require.GreaterOrEqual(t, r, 0.0)
	require.LessOrEqual(t, r, l.upstreamCapacity)
}

func TestLink_UpstreamCountMonotone(t *testing.T) {
	l := NewLTMLink(1.0, 45, 30, 200, 2000, 1600, "LT1")
	l.FlowIn(map[PathID]float64{"p1": 3})
	l.FlowIn(map[PathID]float64{"p1": 2})
	require.Equal(t, 5.0, l.UpstreamCount(2))
	require.Equal(t, 3.0, l.UpstreamCount(1))
	require.Equal(t, 0.0, l.UpstreamCount(0))
	require.Equal(t, 0.0, l.UpstreamCount(-1))
}

// Invariant 1 (spec.md §8): downstreamCount(t) <= upstreamCount(t) always
// holds because flowOut only ever removes vehicles the node model computed
// from S(t), which is itself bounded by vehiclesOnLink.
func TestLink_DownstreamNeverExceedsUpstream(t *testing.T) {
	l := NewCTMLink(1.0, 45, 30, 200, 2000, 1600, "C1")
	for step := 0; step < 50; step++ {
		l.FlowIn(map[PathID]float64{"p1": 1})
		s, _ := l.LinkUpdate(step)
		out := s
		if out > l.VehiclesOnLink(step) {
			out = l.VehiclesOnLink(step)
		}
		l.FlowOut(map[PathID]float64{"p1": out})
		require.LessOrEqual(t, l.DownstreamCount(step+1), l.UpstreamCount(step+1))
	}
}

func TestLink_GetFlowCompositionAndEntryTime(t *testing.T) {
	l := NewLTMLink(1.0, 45, 30, 200, 2000, 1600, "LT2")
	l.FlowIn(map[PathID]float64{"p1": 5})
	l.FlowIn(map[PathID]float64{"p1": 5, "p2": 2})
	l.FlowIn(map[PathID]float64{"p2": 3})

	comp := l.GetFlowComposition(0, 1)
	require.Equal(t, 5.0, comp["p1"])

	et := l.GetEntryTime(5, false, 1e-5)
	require.GreaterOrEqual(t, et, 0)
	require.LessOrEqual(t, et, 3)
}
