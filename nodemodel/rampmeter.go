package nodemodel

import (
	"math"

	"github.com/trafficlab/corridordnl/linkmodel"
)

// RampMeterNode is a series node whose transition flow is additionally
// capped by a commanded vehicle-rate-per-timestep parameter, vpts. It
// records a per-timestep flow history used by the ramp-travel-time
// diagnostic (network.Network.RampTravelTime).
//
// vpts defaults to +Inf (pass-through, i.e. no metering) until SetParams is
// called, resolving spec.md §9's open question on pre-configuration
// behavior.
//
// Grounded on original_source/dta/nodeModel.py: RampMeterNode.
type RampMeterNode struct {
	Node
	vpts  float64
	flows []float64
}

// NewRampMeterNode builds a ramp-metering series node with vpts
// initialized to +Inf.
func NewRampMeterNode(id string, in, out linkmodel.Model) *RampMeterNode {
	return &RampMeterNode{
		Node: NewNode(id, []linkmodel.Model{in}, []linkmodel.Model{out}),
		vpts: math.Inf(1),
	}
}

// SetParams updates the commanded rate, in vehicles per timestep.
func (r *RampMeterNode) SetParams(vpts float64) {
	r.vpts = vpts
}

// VPTS returns the currently commanded rate.
func (r *RampMeterNode) VPTS() float64 { return r.vpts }

// Flows returns the recorded per-timestep transition-flow history.
func (r *RampMeterNode) Flows() []float64 { return r.flows }

// ResetFlows clears the recorded flow history for a fresh episode.
func (r *RampMeterNode) ResetFlows() {
	r.flows = nil
}

// CalculateTransitionFlows implements TransitionCalculator.
func (r *RampMeterNode) CalculateTransitionFlows(S, R map[string]float64, proportions map[string]map[string]float64, t int) map[LinkPair]float64 {
	in := r.UpstreamLinks()[0].ID()
	out := r.DownstreamLinks()[0].ID()
	flow := r.vpts
	if S[in] < flow {
		flow = S[in]
	}
	if R[out] < flow {
		flow = R[out]
	}
	if flow < 0 {
		flow = 0
	}
	for len(r.flows) <= t {
		r.flows = append(r.flows, 0)
	}
	r.flows[t] = flow
	return map[LinkPair]float64{{In: in, Out: out}: flow}
}

// UpdateNode runs the node's four-step update for time t.
func (r *RampMeterNode) UpdateNode(t int, pathContainsLink func(linkmodel.PathID, string) bool) {
	r.Node.UpdateNode(t, r, pathContainsLink)
}
