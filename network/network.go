package network

import (
	"github.com/trafficlab/corridordnl/corridor"
	"github.com/trafficlab/corridordnl/linkmodel"
	"github.com/trafficlab/corridordnl/nodemodel"
)

// Network wraps a built corridor.Corridor with the OD demand table and the
// path-flow assignment the DNL loop consumes and produces.
//
// Grounded on original_source/dta/network.py: Network.
type Network struct {
	Corridor *corridor.Corridor
	ODs      []OD

	// PathFlows maps a path's interned ID to its per-timestep departure
	// flow; assignment.DTA owns writing to this table, LoadNetwork only
	// reads it.
	PathFlows map[linkmodel.PathID][]float64

	pathByID map[linkmodel.PathID]Path
}

// New builds a Network over an already-constructed corridor and OD table,
// with no paths registered yet (callers add them via RegisterPaths).
func New(c *corridor.Corridor, ods []OD) *Network {
	return &Network{
		Corridor:  c,
		ODs:       ods,
		PathFlows: make(map[linkmodel.PathID][]float64),
		pathByID:  make(map[linkmodel.PathID]Path),
	}
}

// RegisterPaths makes paths known to the network so pathContainsLink,
// loadTrips and TFFT can resolve them by ID. Safe to call repeatedly
// as assignment discovers more paths.
func (n *Network) RegisterPaths(paths []Path) {
	for _, p := range paths {
		n.pathByID[p.ID()] = p
	}
}

// pathContainsLink answers nodemodel's membership query against the
// network's registered path table, used instead of a raw substring test
// on the "|"-joined ID so that link IDs cannot collide across paths.
func (n *Network) pathContainsLink(p linkmodel.PathID, linkID string) bool {
	path, ok := n.pathByID[p]
	if !ok {
		return false
	}
	return path.Contains(linkID)
}

// Reset clears every link's accumulated vehicle counts and every ramp
// meter's flow history, returning the network to an empty-at-t=0 state
// (spec.md §6: Env.reset's underlying DNL reset).
func (n *Network) Reset() {
	for _, l := range n.Corridor.Links {
		l.ResetCounts()
	}
	n.Corridor.RampNB.ResetFlows()
	n.Corridor.RampSB.ResetFlows()
}

// LoadNetwork runs the DNL loop over every timestep in timeRange, in
// order: link state update, fixed-order node update, trip loading at
// origins, trip termination at destinations.
//
// Grounded on original_source/dta/network.py: Network.loadNetwork.
func (n *Network) LoadNetwork(timeRange []int) {
	for _, t := range timeRange {
		// 1) every link computes its sending/receiving flow for t.
		for _, l := range n.Corridor.Links {
			l.LinkUpdate(t)
		}
		// 2) every non-centroid node, in fixed index order, resolves its
		// transition flows and moves disaggregated path flow across itself.
		for _, node := range n.Corridor.UpdateOrder {
			node.UpdateNode(t, n.pathContainsLink)
		}
		// 3) origins inject scheduled departures onto their first links.
		n.loadTrips(t)
		// 4) destinations absorb whatever reached them.
		n.terminateTrips(t)
	}
}

// loadTrips injects each registered path's scheduled departure flow at
// time t onto that path's first link, which must leave an origin
// centroid (paths from assignment.EnumerateSimplePaths and
// assignment.TDSP always do; RegisterPaths does not check it).
//
// Every OD's paths begin with the same single link out of its origin
// (corridor.Build gives each origin node exactly one downstream link), so
// several distinct paths routinely share a first link. Link.FlowIn
// appends exactly one new timestep snapshot per call, so the per-path
// departures destined for the same link must be batched into a single
// call — calling FlowIn once per path would append several snapshots for
// the same t and desynchronize every later UpstreamCount(t) lookup from
// the actual timestep index. For the same reason every origin link gets
// its FlowIn call at every t, with an empty map when nothing departs.
func (n *Network) loadTrips(t int) {
	perLink := make(map[string]map[linkmodel.PathID]float64)
	for _, idx := range n.Corridor.Origins {
		for _, l := range n.Corridor.Nodes[idx].DownstreamLinks() {
			perLink[l.ID()] = make(map[linkmodel.PathID]float64)
		}
	}
	for id, path := range n.pathByID {
		flows := n.PathFlows[id]
		if t >= len(flows) || flows[t] <= 0 {
			continue
		}
		firstLinkID := path.Links[0]
		if perLink[firstLinkID] == nil {
			perLink[firstLinkID] = make(map[linkmodel.PathID]float64)
		}
		perLink[firstLinkID][id] = flows[t]
	}
	for linkID, pathFlows := range perLink {
		n.Corridor.Link(linkID).FlowIn(pathFlows)
	}
}

// terminateTrips disaggregates every destination's upstream sending flow
// and removes it from the network via FlowOut, completing each trip
// without routing it onward.
func (n *Network) terminateTrips(t int) {
	for _, idx := range n.Corridor.Destinations {
		dest, ok := n.Corridor.Nodes[idx].(*nodemodel.DestinationNode)
		if !ok {
			continue
		}
		disagg := dest.DisaggregateSendingFlows(t)
		for _, l := range dest.UpstreamLinks() {
			l.FlowOut(disagg[l.ID()])
		}
	}
}
