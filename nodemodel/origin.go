package nodemodel

import "github.com/trafficlab/corridordnl/linkmodel"

// OriginNode has no upstream links; it is a centroid that receives trips
// from the path generator (network.Network.loadTrips injects directly into
// its downstream links' FlowIn, bypassing UpdateNode).
//
// Grounded on original_source/dta/nodeModel.py: OriginNode.
type OriginNode struct {
	Node
}

// NewOriginNode builds an origin node flagged as a centroid.
func NewOriginNode(id string, out []linkmodel.Model) *OriginNode {
	n := &OriginNode{Node: NewNode(id, nil, out)}
	n.SetCentroid(true)
	return n
}
