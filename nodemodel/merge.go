package nodemodel

import "github.com/trafficlab/corridordnl/linkmodel"

// mergeEpsilon bounds the iterative fair-allocation loop against floating
// point residue that would otherwise never quite reach zero.
const mergeEpsilon = 1e-9

// MergeNode has one or more upstream links and a single downstream link;
// the transition flow is decided by an iterative priority-weighted
// allocation rather than a single proportional split, so that links
// exhausting their sending flow early free up their share of R for the
// remaining links.
//
// Grounded on original_source/dta/nodeModel.py: MergeNode.
type MergeNode struct {
	Node
	priority map[string]float64 // in-link ID -> priority weight, strictly positive
}

// NewMergeNode builds a merge node. priority must assign a strictly
// positive weight to every link in `in`.
func NewMergeNode(id string, in []linkmodel.Model, out linkmodel.Model, priority map[string]float64) *MergeNode {
	return &MergeNode{
		Node:     NewNode(id, in, []linkmodel.Model{out}),
		priority: priority,
	}
}

// CalculateTransitionFlows implements TransitionCalculator.
func (m *MergeNode) CalculateTransitionFlows(S, R map[string]float64, proportions map[string]map[string]float64, t int) map[LinkPair]float64 {
	out := m.DownstreamLinks()[0].ID()
	result := make(map[LinkPair]float64, len(m.UpstreamLinks()))

	remainingS := make(map[string]float64, len(m.UpstreamLinks()))
	active := make([]string, 0, len(m.UpstreamLinks()))
	for _, in := range m.UpstreamLinks() {
		remainingS[in.ID()] = S[in.ID()]
		result[LinkPair{In: in.ID(), Out: out}] = 0
		if S[in.ID()] > mergeEpsilon {
			active = append(active, in.ID())
		}
	}
	remainingR := R[out]

	for len(active) > 0 && remainingR > mergeEpsilon {
		var totalPriority float64
		for _, id := range active {
			totalPriority += m.priority[id]
		}
		if totalPriority <= 0 {
			break
		}

		adds := make(map[string]float64, len(active))
		var iterSum float64
		for _, id := range active {
			share := m.priority[id] / totalPriority * remainingR
			add := remainingS[id]
			if share < add {
				add = share
			}
			adds[id] = add
			iterSum += add
		}
		if iterSum <= mergeEpsilon {
			break
		}

		next := active[:0:0]
		for _, id := range active {
			add := adds[id]
			result[LinkPair{In: id, Out: out}] += add
			remainingS[id] -= add
			if remainingS[id] > mergeEpsilon {
				next = append(next, id)
			}
		}
		active = next
		remainingR -= iterSum
	}
	return result
}

// UpdateNode runs the node's four-step update for time t.
func (m *MergeNode) UpdateNode(t int, pathContainsLink func(linkmodel.PathID, string) bool) {
	m.Node.UpdateNode(t, m, pathContainsLink)
}
