package nodemodel

import "github.com/trafficlab/corridordnl/linkmodel"

// DestinationNode has no downstream links; it is a centroid that absorbs
// trips (network.Network.terminateTrips disaggregates each upstream
// link's sending flow and calls FlowOut directly, bypassing UpdateNode).
//
// Grounded on original_source/dta/nodeModel.py: DestinationNode.
type DestinationNode struct {
	Node
}

// NewDestinationNode builds a destination node flagged as a centroid.
func NewDestinationNode(id string, in []linkmodel.Model) *DestinationNode {
	n := &DestinationNode{Node: NewNode(id, in, nil)}
	n.SetCentroid(true)
	return n
}

// DisaggregateSendingFlows exposes the base disaggregation step so the
// network package's terminateTrips can pull per-path sending flows
// directly off each incoming link without going through UpdateNode (a
// destination node performs no transition-flow computation of its own).
func (d *DestinationNode) DisaggregateSendingFlows(t int) map[string]map[linkmodel.PathID]float64 {
	return d.disaggregateSendingFlows(t)
}
