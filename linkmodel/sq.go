package linkmodel

import "github.com/trafficlab/corridordnl/units"

// SQLink is a Spatial Queue link: like PQLink but its receiving flow is
// additionally bounded by remaining physical storage (maxVehicles minus
// vehicles currently on the link), so it can spill back when full.
//
// Grounded on original_source/dta/linkModel.py: SpatialQueueLink.
type SQLink struct {
	Link
	downstreamCapacity float64
	upstreamCapacity   float64
}

// NewSQLink builds a spatial-queue link, with the same upstream-capacity
// default-to-downstream behavior as NewPQLink.
func NewSQLink(timestep, freeFlowSpeedMph, backwardWaveSpeedMph, jamDensityVehPerMile, lengthFeet, downstreamCapacityVehPerHour, upstreamCapacityVehPerHour float64, id string) *SQLink {
	if upstreamCapacityVehPerHour <= 0 {
		upstreamCapacityVehPerHour = downstreamCapacityVehPerHour
	}
	return &SQLink{
		Link:               newBase(timestep, freeFlowSpeedMph, backwardWaveSpeedMph, jamDensityVehPerMile, lengthFeet, downstreamCapacityVehPerHour, id),
		downstreamCapacity: downstreamCapacityVehPerHour / units.Hours * timestep,
		upstreamCapacity:   upstreamCapacityVehPerHour / units.Hours * timestep,
	}
}

// SendingFlow is identical to PQLink's.
func (l *SQLink) SendingFlow(t int) float64 {
	available := l.UpstreamCount(t+1-l.FreeFlowTime()) - l.DownstreamCount(t)
	if available < 0 {
		available = 0
	}
	if available > l.downstreamCapacity {
		return l.downstreamCapacity
	}
	return available
}

// ReceivingFlow bounds the upstream capacity by remaining storage space.
func (l *SQLink) ReceivingFlow(t int) float64 {
	space := l.MaxVehicles() - l.VehiclesOnLink(t)
	if space < 0 {
		space = 0
	}
	if space > l.upstreamCapacity {
		return l.upstreamCapacity
	}
	return space
}

// LinkUpdate performs no internal bookkeeping; transition flow is applied
// directly via FlowIn/FlowOut.
func (l *SQLink) LinkUpdate(t int) (float64, float64) {
	return l.SendingFlow(t), l.ReceivingFlow(t)
}
