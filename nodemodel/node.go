// Package nodemodel implements the per-timestep transition-flow and
// FIFO-preserving flow-movement logic shared by every node variant
// (series, diverge, merge, ramp meter, signalized intersection) plus the
// origin/destination centroid markers.
//
// Grounded on original_source/node.py (base Node.updateNode/moveFlow/
// calculateDisaggregateSendingFlows/calculateProportions) and
// original_source/dta/nodeModel.py (the per-variant transition rules).
package nodemodel

import (
	"sort"

	"github.com/trafficlab/corridordnl/linkmodel"
)

// sortedPathIDs returns m's keys in a fixed, deterministic order. Go
// randomizes map iteration order on every range, and floating-point
// addition is not associative; accumulating path maps in map order would
// make otherwise-identical DNL runs diverge in their last bits (spec.md
// §8's reset-determinism property).
func sortedPathIDs(m map[linkmodel.PathID]float64) []linkmodel.PathID {
	ids := make([]linkmodel.PathID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// sumPathFlows totals a per-path map in sortedPathIDs order.
func sumPathFlows(m map[linkmodel.PathID]float64) float64 {
	var total float64
	for _, id := range sortedPathIDs(m) {
		total += m[id]
	}
	return total
}

// NodeInfo is the read-only identity every node variant, including the
// origin/destination centroids, exposes.
type NodeInfo interface {
	ID() string
	IsCentroid() bool
	UpstreamLinks() []linkmodel.Model
	DownstreamLinks() []linkmodel.Model
}

// Updatable is a non-centroid node capable of running its own per-timestep
// transition-flow update.
type Updatable interface {
	NodeInfo
	UpdateNode(t int, pathContainsLink func(linkmodel.PathID, string) bool)
}

// LinkPair identifies a permitted (inLink -> outLink) movement through a
// node, used as the key into a transition-flow map.
type LinkPair struct {
	In  string
	Out string
}

// TransitionCalculator computes, given current sending/receiving flows and
// proportions, the transition flow for every permitted (in, out) movement.
// Each node variant implements this; Node.UpdateNode drives it.
type TransitionCalculator interface {
	CalculateTransitionFlows(S, R map[string]float64, proportions map[string]map[string]float64, t int) map[LinkPair]float64
}

// Node holds the attributes and default flow-movement machinery shared by
// every variant: identifier, incident links, and centroid flag.
type Node struct {
	id         string
	upstream   []linkmodel.Model
	downstream []linkmodel.Model
	centroid   bool
}

// NewNode builds a node with the given upstream and downstream links.
func NewNode(id string, upstream, downstream []linkmodel.Model) Node {
	return Node{id: id, upstream: upstream, downstream: downstream}
}

func (n *Node) ID() string                         { return n.id }
func (n *Node) UpstreamLinks() []linkmodel.Model    { return n.upstream }
func (n *Node) DownstreamLinks() []linkmodel.Model  { return n.downstream }
func (n *Node) IsCentroid() bool                    { return n.centroid }
func (n *Node) SetCentroid(c bool)                  { n.centroid = c }

func (n *Node) sendingFlows(t int) map[string]float64 {
	s := make(map[string]float64, len(n.upstream))
	for _, l := range n.upstream {
		s[l.ID()] = l.SendingFlow(t)
	}
	return s
}

func (n *Node) receivingFlows(t int) map[string]float64 {
	r := make(map[string]float64, len(n.downstream))
	for _, l := range n.downstream {
		r[l.ID()] = l.ReceivingFlow(t)
	}
	return r
}

// disaggregateSendingFlows computes, per upstream link, the per-path
// breakdown of that link's sending flow at time t, rescaled to sum exactly
// to S(t) (original_source/node.py: calculateDisaggregateSendingFlows).
func (n *Node) disaggregateSendingFlows(t int) map[string]map[linkmodel.PathID]float64 {
	result := make(map[string]map[linkmodel.PathID]float64, len(n.upstream))
	for _, l := range n.upstream {
		s := l.SendingFlow(t)
		if s <= 0 {
			result[l.ID()] = map[linkmodel.PathID]float64{}
			continue
		}
		downstream := l.DownstreamCount(t)
		startT := l.GetEntryTime(downstream, false, 1e-5)
		endT := l.GetEntryTime(downstream+s, true, 1e-5)
		comp := l.GetFlowComposition(startT, endT)

		total := sumPathFlows(comp)
		if total > 0 {
			scale := s / total
			for p, v := range comp {
				comp[p] = v * scale
			}
		}
		result[l.ID()] = comp
	}
	return result
}

// proportions normalizes the disaggregated sending flows by downstream
// link membership: proportion[in][out] = (sum over paths through in that
// contain out) / S(in). Falls back to 1/|downstreamLinks| when the
// in-link's total is zero (original_source/node.py: calculateProportions).
func (n *Node) proportions(disagg map[string]map[linkmodel.PathID]float64, pathContainsLink func(linkmodel.PathID, string) bool) map[string]map[string]float64 {
	result := make(map[string]map[string]float64, len(n.upstream))
	numOut := len(n.downstream)
	for _, in := range n.upstream {
		flows := disagg[in.ID()]
		total := sumPathFlows(flows)
		props := make(map[string]float64, numOut)
		if total <= 0 {
			if numOut > 0 {
				share := 1.0 / float64(numOut)
				for _, out := range n.downstream {
					props[out.ID()] = share
				}
			}
			result[in.ID()] = props
			continue
		}
		orderedPaths := sortedPathIDs(flows)
		for _, out := range n.downstream {
			var sum float64
			for _, p := range orderedPaths {
				if pathContainsLink(p, out.ID()) {
					sum += flows[p]
				}
			}
			props[out.ID()] = sum / total
		}
		result[in.ID()] = props
	}
	return result
}

// moveFlow applies a computed transition-flow map by moving disaggregated,
// per-path flow from each in-link to each out-link it is permitted to
// reach, preserving path identity so FIFO holds across multi-link paths
// (original_source/node.py: Node.moveFlow).
func (n *Node) moveFlow(transition map[LinkPair]float64, disagg map[string]map[linkmodel.PathID]float64, proportions map[string]map[string]float64, S map[string]float64, pathContainsLink func(linkmodel.PathID, string) bool) {
	inflow := make(map[string]map[linkmodel.PathID]float64, len(n.downstream))
	for _, out := range n.downstream {
		inflow[out.ID()] = map[linkmodel.PathID]float64{}
	}

	for _, in := range n.upstream {
		outflow := map[linkmodel.PathID]float64{}
		sIn := S[in.ID()]
		for _, out := range n.downstream {
			pair := LinkPair{In: in.ID(), Out: out.ID()}
			flow, ok := transition[pair]
			if !ok || flow <= 0 {
				continue
			}
			prop := proportions[in.ID()][out.ID()]
			if sIn <= 0 || prop <= 0 {
				continue
			}
			for p, sf := range disagg[in.ID()] {
				if !pathContainsLink(p, out.ID()) {
					continue
				}
				moved := sf * flow / (sIn * prop)
				outflow[p] += moved
				inflow[out.ID()][p] += moved
			}
		}
		in.FlowOut(outflow)
	}
	for _, out := range n.downstream {
		out.FlowIn(inflow[out.ID()])
	}
}

// UpdateNode runs the four-step update every non-centroid node performs at
// time t: query S/R, compute proportions, compute transition flows via
// calc, then move flow (original_source/node.py: Node.updateNode).
func (n *Node) UpdateNode(t int, calc TransitionCalculator, pathContainsLink func(linkmodel.PathID, string) bool) {
	S := n.sendingFlows(t)
	R := n.receivingFlows(t)
	disagg := n.disaggregateSendingFlows(t)
	props := n.proportions(disagg, pathContainsLink)
	transition := calc.CalculateTransitionFlows(S, R, props, t)
	n.moveFlow(transition, disagg, props, S, pathContainsLink)
}
