package network

import (
	"sort"

	"github.com/trafficlab/corridordnl/linkmodel"
)

// CalculateLinkTravelTimes inverts each link's upstream/downstream
// cumulative-count curves over timeRange to recover, for every entry time
// t, how long the vehicle that entered then took to exit (spec.md §2
// component F: "inverts cumulative counts to produce link travel
// times"). Results are written back onto the link via SetTravelTime so
// later TravelTime(t) queries are O(1).
//
// horizonEnd bounds the forward scan: a vehicle that has not exited by
// horizonEnd is given horizonEnd as its exit time, so its recorded travel
// time is horizonEnd-t (never less than the link's free-flow time).
func (n *Network) CalculateLinkTravelTimes(timeRange []int, horizonEnd int, tolerance float64) {
	for _, l := range n.Corridor.Links {
		for _, t := range timeRange {
			entered := l.UpstreamCount(t)
			exitTime := horizonEnd
			for t2 := t; t2 <= horizonEnd; t2++ {
				if l.DownstreamCount(t2) >= entered-tolerance {
					exitTime = t2
					break
				}
			}
			tt := exitTime - t
			if tt < l.FreeFlowTime() {
				tt = l.FreeFlowTime()
			}
			l.SetTravelTime(t, tt)
		}
	}
}

// PathTravelTime chains each link's recorded travel time starting from
// departureTime, saturating the running arrival time at horizonEnd-1
// after every hop, and returns the total time to traverse the path.
//
// Grounded on original_source/dta/network.py: calculatePathTravelTimes,
// which does `pathArrivalTime[t] = min(pathArrivalTime[t], rnge[-1] - 1)`
// after adding each link's travel time (spec.md §7). Without the
// saturation, an arrival time that runs past the recorded horizon would
// fall through to Link.TravelTime's free-flow fallback for every
// remaining link, underestimating travel time in exactly the congested
// case this engine exists to capture.
func (n *Network) PathTravelTime(p Path, departureTime int, horizonEnd int) int {
	t := departureTime
	total := 0
	for _, id := range p.Links {
		tt := n.Corridor.Link(id).TravelTime(t)
		total += tt
		t += tt
		if t > horizonEnd-1 {
			t = horizonEnd - 1
		}
	}
	return total
}

// PathFreeFlowTime sums each link's free-flow time along the path, in
// timesteps.
func (n *Network) PathFreeFlowTime(p Path) int {
	var total int
	for _, id := range p.Links {
		total += n.Corridor.Link(id).FreeFlowTime()
	}
	return total
}

// TSTT is the total system travel time over timeRange: the timestep
// duration times the sum, across every link and timestep, of vehicles
// physically on that link (spec.md §6: Env reward component).
func (n *Network) TSTT(timeRange []int) float64 {
	var total float64
	for _, l := range n.Corridor.Links {
		for _, t := range timeRange {
			total += l.VehiclesOnLink(t)
		}
	}
	return total * n.Corridor.Timestep
}

// TFFT is the total free-flow travel time: for every registered path, its
// free-flow traversal time times the vehicles that departed on it during
// timeRange, summed over every path (spec.md §6: Env reward component).
//
// Paths are visited in a fixed sorted order rather than the pathByID map's
// randomized range order: floating-point addition is not associative, so
// summing in map order would make the returned reward nondeterministic
// across otherwise-identical runs (spec.md §8's reset-determinism
// property).
func (n *Network) TFFT(timeRange []int) float64 {
	ids := make([]linkmodel.PathID, 0, len(n.pathByID))
	for id := range n.pathByID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var total float64
	for _, id := range ids {
		fft := float64(n.PathFreeFlowTime(n.pathByID[id])) * n.Corridor.Timestep
		flows := n.PathFlows[id]
		for _, t := range timeRange {
			if t < len(flows) {
				total += flows[t] * fft
			}
		}
	}
	return total
}

// RampTravelTime estimates the average metering delay experienced by
// demand od over timeRange, as a vertical-queue difference between
// cumulative demand and cumulative meter throughput, averaged per
// vehicle. This is a supplemented diagnostic, not verified against the
// original implementation line-for-line; it is re-derived from the
// ramp-meter's documented purpose (see DESIGN.md, "Ramp travel time").
func (n *Network) RampTravelTime(flows []float64, od OD, timeRange []int) float64 {
	var cumDemand, cumFlow, totalDelay, totalVeh float64
	for _, t := range timeRange {
		if t < len(od.DemandRates) {
			cumDemand += od.DemandRates[t]
			totalVeh += od.DemandRates[t]
		}
		if t < len(flows) {
			cumFlow += flows[t]
		}
		delay := cumDemand - cumFlow
		if delay < 0 {
			delay = 0
		}
		totalDelay += delay
	}
	if totalVeh == 0 {
		return 0
	}
	return totalDelay / totalVeh * n.Corridor.Timestep
}

// RampDemand sums od's scheduled demand over timeRange, in vehicles.
func (n *Network) RampDemand(od OD, timeRange []int) float64 {
	var total float64
	for _, t := range timeRange {
		if t < len(od.DemandRates) {
			total += od.DemandRates[t]
		}
	}
	return total
}
