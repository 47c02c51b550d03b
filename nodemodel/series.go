package nodemodel

import "github.com/trafficlab/corridordnl/linkmodel"

// SeriesNode has exactly one upstream and one downstream link; its
// transition flow is simply min(S, R).
//
// Grounded on original_source/dta/nodeModel.py: SeriesNode.
type SeriesNode struct {
	Node
}

// NewSeriesNode builds a series node from its single upstream link and
// its single downstream link.
func NewSeriesNode(id string, in, out linkmodel.Model) *SeriesNode {
	return &SeriesNode{Node: NewNode(id, []linkmodel.Model{in}, []linkmodel.Model{out})}
}

// CalculateTransitionFlows implements TransitionCalculator.
func (s *SeriesNode) CalculateTransitionFlows(S, R map[string]float64, proportions map[string]map[string]float64, t int) map[LinkPair]float64 {
	in := s.UpstreamLinks()[0].ID()
	out := s.DownstreamLinks()[0].ID()
	flow := S[in]
	if R[out] < flow {
		flow = R[out]
	}
	return map[LinkPair]float64{{In: in, Out: out}: flow}
}

// UpdateNode runs the node's four-step update for time t.
func (s *SeriesNode) UpdateNode(t int, pathContainsLink func(linkmodel.PathID, string) bool) {
	s.Node.UpdateNode(t, s, pathContainsLink)
}
