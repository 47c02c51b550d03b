package nodemodel

import "github.com/trafficlab/corridordnl/linkmodel"

// DivergeNode has one upstream link and one or more downstream links; flow
// is scaled by proportion and limited by the tightest
// receiving-flow/proportion ratio across all downstream links.
//
// Grounded on original_source/dta/nodeModel.py: DivergeNode.
type DivergeNode struct {
	Node
}

// NewDivergeNode builds a diverge node from a single upstream link and its
// downstream alternatives.
func NewDivergeNode(id string, in linkmodel.Model, out []linkmodel.Model) *DivergeNode {
	return &DivergeNode{Node: NewNode(id, []linkmodel.Model{in}, out)}
}

// CalculateTransitionFlows implements TransitionCalculator.
func (d *DivergeNode) CalculateTransitionFlows(S, R map[string]float64, proportions map[string]map[string]float64, t int) map[LinkPair]float64 {
	in := d.UpstreamLinks()[0].ID()
	sIn := S[in]
	props := proportions[in]

	f := 1.0
	if sIn > 0 {
		for _, out := range d.DownstreamLinks() {
			p := props[out.ID()]
			denom := sIn * p
			if denom <= 0 {
				continue
			}
			ratio := R[out.ID()] / denom
			if ratio < f {
				f = ratio
			}
		}
	}
	if f > 1 {
		f = 1
	}
	if f < 0 {
		f = 0
	}

	result := make(map[LinkPair]float64, len(d.DownstreamLinks()))
	for _, out := range d.DownstreamLinks() {
		p := props[out.ID()]
		result[LinkPair{In: in, Out: out.ID()}] = f * p * sIn
	}
	return result
}

// UpdateNode runs the node's four-step update for time t.
func (d *DivergeNode) UpdateNode(t int, pathContainsLink func(linkmodel.PathID, string) bool) {
	d.Node.UpdateNode(t, d, pathContainsLink)
}
