package linkmodel

import "github.com/trafficlab/corridordnl/units"

// PQLink is a Point Queue link: it tracks upstream/downstream cumulative
// counts only, with no internal spatial state, and allows independent
// upstream and downstream capacities (e.g. a short ramp segment whose exit
// capacity is metered separately from its entry capacity).
//
// Grounded on original_source/dta/linkModel.py: PointQueueLink.
type PQLink struct {
	Link
	downstreamCapacity float64 // veh/timestep
	upstreamCapacity   float64 // veh/timestep
}

// NewPQLink builds a point-queue link. If upstreamCapacityVehPerHour is <= 0
// the upstream capacity defaults to the downstream capacity, matching
// PointQueueLink.__init__'s DEFAULT sentinel handling.
func NewPQLink(timestep, freeFlowSpeedMph, backwardWaveSpeedMph, jamDensityVehPerMile, lengthFeet, downstreamCapacityVehPerHour, upstreamCapacityVehPerHour float64, id string) *PQLink {
	if upstreamCapacityVehPerHour <= 0 {
		upstreamCapacityVehPerHour = downstreamCapacityVehPerHour
	}
	return &PQLink{
		Link:               newBase(timestep, freeFlowSpeedMph, backwardWaveSpeedMph, jamDensityVehPerMile, lengthFeet, downstreamCapacityVehPerHour, id),
		downstreamCapacity: downstreamCapacityVehPerHour / units.Hours * timestep,
		upstreamCapacity:   upstreamCapacityVehPerHour / units.Hours * timestep,
	}
}

// SendingFlow returns the vehicles that have finished their free-flow
// travel time but have not yet exited, capped by downstream capacity.
func (l *PQLink) SendingFlow(t int) float64 {
	available := l.UpstreamCount(t+1-l.FreeFlowTime()) - l.DownstreamCount(t)
	if available < 0 {
		available = 0
	}
	if available > l.downstreamCapacity {
		return l.downstreamCapacity
	}
	return available
}

// ReceivingFlow returns the upstream entry capacity; a point queue has no
// spatial storage limit.
func (l *PQLink) ReceivingFlow(t int) float64 {
	return l.upstreamCapacity
}

// LinkUpdate performs no internal bookkeeping for a point queue; the
// transition flow computed by the node model is applied directly via
// FlowIn/FlowOut.
func (l *PQLink) LinkUpdate(t int) (float64, float64) {
	return l.SendingFlow(t), l.ReceivingFlow(t)
}
