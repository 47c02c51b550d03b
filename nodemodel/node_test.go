package nodemodel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trafficlab/corridordnl/linkmodel"
)

func newTestLink(id string, capVehPerHour float64) *linkmodel.LTMLink {
	return linkmodel.NewLTMLink(1.0, 30, 20, 200, 1000, capVehPerHour, id)
}

// Invariant 4 (spec.md §8): for a Series node, transition = min(S, R)
// exactly.
func TestSeriesNode_TransitionIsMinSR(t *testing.T) {
	in := newTestLink("in", 1600)
	out := newTestLink("out", 800)
	in.FlowIn(map[linkmodel.PathID]float64{"p": 1000})

	node := NewSeriesNode("series1", in, out)
	at := in.FreeFlowTime()
	S := map[string]float64{"in": in.SendingFlow(at)}
	R := map[string]float64{"out": out.ReceivingFlow(at)}
	require.Greater(t, S["in"], 0.0)
	transition := node.CalculateTransitionFlows(S, R, nil, at)

	want := S["in"]
	if R["out"] < want {
		want = R["out"]
	}
	require.Equal(t, want, transition[LinkPair{In: "in", Out: "out"}])
}

// Invariant 5 (spec.md §8): for a Merge node, sum of transitions into the
// shared out-link never exceeds R[out], and each in-link's transition
// never exceeds its own S.
func TestMergeNode_RespectsCapacities(t *testing.T) {
	a := newTestLink("a", 3200)
	b := newTestLink("b", 3200)
	out := newTestLink("out", 800)
	a.FlowIn(map[linkmodel.PathID]float64{"p": 2000})
	b.FlowIn(map[linkmodel.PathID]float64{"p": 2000})

	node := NewMergeNode("merge1", []linkmodel.Model{a, b}, out, map[string]float64{"a": 1, "b": 3})
	at := a.FreeFlowTime()
	S := map[string]float64{"a": a.SendingFlow(at), "b": b.SendingFlow(at)}
	R := map[string]float64{"out": out.ReceivingFlow(at)}
	require.Greater(t, S["a"]+S["b"], 0.0)
	transition := node.CalculateTransitionFlows(S, R, nil, at)

	var total float64
	for in, capS := range S {
		flow := transition[LinkPair{In: in, Out: "out"}]
		require.LessOrEqual(t, flow, capS+1e-9)
		total += flow
	}
	require.LessOrEqual(t, total, R["out"]+1e-9)
}

func TestRampMeterNode_DefaultsToPassThrough(t *testing.T) {
	in := newTestLink("rin", 3200)
	out := newTestLink("rout", 3200)
	node := NewRampMeterNode("meter1", in, out)
	require.True(t, node.VPTS() > 1e9, "vpts should default to +Inf before SetParams")

	node.SetParams(0.1)
	in.FlowIn(map[linkmodel.PathID]float64{"p": 1000})
	at := in.FreeFlowTime()
	S := map[string]float64{"rin": in.SendingFlow(at)}
	R := map[string]float64{"rout": out.ReceivingFlow(at)}
	transition := node.CalculateTransitionFlows(S, R, nil, at)
	require.LessOrEqual(t, transition[LinkPair{In: "rin", Out: "rout"}], 0.1+1e-9)
	require.Equal(t, transition[LinkPair{In: "rin", Out: "rout"}], node.Flows()[at])
}

func TestFullyProtectedIntersectionNode_BarrierCyclesAndSplitsRespected(t *testing.T) {
	inA := newTestLink("inA", 3200)
	inB := newTestLink("inB", 3200)
	outA := newTestLink("outA", 3200)
	outB := newTestLink("outB", 3200)

	barriers := [2]Barrier{
		{
			Rings: [2]Ring{
				{Phase0: Phase{In: "inA", Out: "outA"}, Phase1: Phase{In: "inA", Out: "outB"}, Split: 0.5},
				{Phase0: Phase{In: "inB", Out: "outB"}, Phase1: Phase{In: "inB", Out: "outA"}, Split: 0.5},
			},
			Length: 60,
		},
		{
			Rings: [2]Ring{
				{Phase0: Phase{In: "inA", Out: "outA"}, Phase1: Phase{In: "inA", Out: "outA"}, Split: 1.0},
				{Phase0: Phase{In: "inB", Out: "outB"}, Phase1: Phase{In: "inB", Out: "outB"}, Split: 1.0},
			},
			Length: 60,
		},
	}
	node := NewFullyProtectedIntersectionNode("ix1", []linkmodel.Model{inA, inB}, []linkmodel.Model{outA, outB}, barriers, nil)

	inA.FlowIn(map[linkmodel.PathID]float64{"p": 10000})
	inB.FlowIn(map[linkmodel.PathID]float64{"p": 10000})

	// Drive 150 timesteps: exercises a full cycle through barrier0 (60),
	// barrier1 (60) and back into barrier0 again.
	for step := 0; step < 150; step++ {
		S := map[string]float64{"inA": inA.SendingFlow(step), "inB": inB.SendingFlow(step)}
		R := map[string]float64{"outA": outA.ReceivingFlow(step), "outB": outB.ReceivingFlow(step)}
		transition := node.CalculateTransitionFlows(S, R, nil, step)
		for _, flow := range transition {
			require.GreaterOrEqual(t, flow, -1e-9)
		}
	}
	// A barrier is left once t-start exceeds its length: barrier0 runs from
	// step 0, barrier1 from step 61, and barrier0 again from step 122.
	require.True(t, node.started)
	require.Equal(t, 0, node.currentIdx)
	require.Equal(t, 122, node.currentStart)

	// Split 0.5 of a 60-timestep barrier: phase0 through offset 30,
	// phase1 from offset 31.
	ring := barriers[0].Rings[0]
	require.Equal(t, ring.Phase0, ring.ActivePhase(30, 0, 60))
	require.Equal(t, ring.Phase1, ring.ActivePhase(31, 0, 60))
}
