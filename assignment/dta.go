package assignment

import (
	"github.com/trafficlab/corridordnl/linkmodel"
	"github.com/trafficlab/corridordnl/network"
)

func makeRange(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}

// findAllShortestPaths runs TDSP for every OD/departure-time pair with
// positive demand, returning the target path-flow table that demand
// would occupy if everyone used their current shortest path, plus SPTT
// (the sum of demand times shortest-path cost) for the AEC calculation.
// A departure for which TDSP finds no path is skipped: its demand is not
// placed on any path, adds nothing to SPTT, and no error is returned.
//
// Grounded on spec.md §4.D: findAllShortestPaths.
func findAllShortestPaths(net *network.Network, horizon int) (map[linkmodel.PathID][]float64, float64) {
	target := make(map[linkmodel.PathID][]float64)
	var sptt float64

	for _, od := range net.ODs {
		for t, demand := range od.DemandRates {
			if demand <= 0 {
				continue
			}
			path, cost, err := TDSP(net.Corridor, od.Origin, od.Destination, t)
			if err != nil {
				continue
			}
			net.RegisterPaths([]network.Path{path})
			id := path.ID()
			if target[id] == nil {
				target[id] = make([]float64, horizon)
			}
			target[id][t] += demand
			sptt += demand * float64(cost)
		}
	}
	return target, sptt
}

// updatePathFlows blends every known path's flow vector toward target by
// factor alpha: flow[p][t] = alpha*target[p][t] + (1-alpha)*flow[p][t],
// treating a path missing from target as contributing zero.
//
// Grounded on spec.md §4.D: updatePathFlows.
func updatePathFlows(net *network.Network, target map[linkmodel.PathID][]float64, alpha float64, horizon int) {
	ids := make(map[linkmodel.PathID]bool, len(net.PathFlows)+len(target))
	for id := range net.PathFlows {
		ids[id] = true
	}
	for id := range target {
		ids[id] = true
	}

	for id := range ids {
		old := net.PathFlows[id]
		tgt := target[id]
		updated := make([]float64, horizon)
		for t := 0; t < horizon; t++ {
			var tv, ov float64
			if tgt != nil && t < len(tgt) {
				tv = tgt[t]
			}
			if old != nil && t < len(old) {
				ov = old[t]
			}
			updated[t] = alpha*tv + (1-alpha)*ov
		}
		net.PathFlows[id] = updated
	}
}

// InitializePathFlows performs the all-or-nothing initial assignment:
// every OD's demand is placed entirely on its current shortest path.
// Before routing, every link's travel-time record is extended with
// free-flow entries to cover horizon plus FreeFlowHorizon timesteps, so
// links with no recorded travel times are routed at free flow and trips
// departing late in the horizon can still reach their destination.
//
// Grounded on spec.md §4.D: initializePathFlows.
func InitializePathFlows(net *network.Network, horizon int) {
	span := horizon + FreeFlowHorizon(net.Corridor)
	for _, l := range net.Corridor.Links {
		l.GrowTravelTime(span)
	}
	target, _ := findAllShortestPaths(net, horizon)
	updatePathFlows(net, target, 1.0, horizon)
}

// DTA runs the convex-combination (method-of-successive-averages) DTA
// loop: load the network, recompute travel times, find the current
// shortest-path assignment, compute the average excess cost, and either
// stop (AEC below target) or blend path flows toward the new shortest
// paths with a diminishing step size 1/(k+2).
//
// Grounded on spec.md §4.D: DTA(maxIters, targetAEC).
type DTA struct {
	Net       *network.Network
	Horizon   int
	MaxIters  int
	TargetAEC float64
}

// NewDTA builds a DTA driver over net, assigning flow over [0, horizon).
func NewDTA(net *network.Network, horizon, maxIters int, targetAEC float64) *DTA {
	return &DTA{Net: net, Horizon: horizon, MaxIters: maxIters, TargetAEC: targetAEC}
}

// Run executes the fixed-point loop and returns the final average excess
// cost and the number of iterations actually performed.
func (d *DTA) Run() (float64, int) {
	timeRange := makeRange(d.Horizon)

	var aec float64
	var iterations int

	for k := 0; k < d.MaxIters; k++ {
		// 1) load the network under the current path-flow assignment.
		d.Net.Reset()
		d.Net.LoadNetwork(timeRange)
		d.Net.CalculateLinkTravelTimes(timeRange, d.Horizon, 1e-5)

		// 2) find the shortest-path assignment under those travel times.
		target, sptt := findAllShortestPaths(d.Net, d.Horizon)
		tstt := d.Net.TSTT(timeRange)

		// 3) check convergence via average excess cost.
		var totalDemand float64
		for _, od := range d.Net.ODs {
			for _, demand := range od.DemandRates {
				totalDemand += demand
			}
		}

		if totalDemand > 0 {
			aec = (tstt - sptt) / totalDemand
		} else {
			aec = 0
		}
		iterations = k + 1
		if aec < d.TargetAEC {
			break
		}
		// 4) blend path flows toward the new shortest-path assignment with
		// a diminishing step size (method of successive averages).
		updatePathFlows(d.Net, target, 1.0/float64(k+2), d.Horizon)
	}

	return aec, iterations
}
