package linkmodel

// LTMLink is a Link Transmission Model link: sending and receiving flow are
// derived directly from the shifted cumulative upstream/downstream count
// curves, with no intermediate spatial cells.
//
// Grounded on original_source/dta/linkModel.py: LinkTransmissionModelLink.
type LTMLink struct {
	Link
}

// NewLTMLink builds a link-transmission-model link.
func NewLTMLink(timestep, freeFlowSpeedMph, backwardWaveSpeedMph, jamDensityVehPerMile, lengthFeet, capacityVehPerHour float64, id string) *LTMLink {
	return &LTMLink{Link: newBase(timestep, freeFlowSpeedMph, backwardWaveSpeedMph, jamDensityVehPerMile, lengthFeet, capacityVehPerHour, id)}
}

// SendingFlow is the vehicle count that has completed free-flow travel but
// not yet exited, capped by capacity.
func (l *LTMLink) SendingFlow(t int) float64 {
	available := l.UpstreamCount(t+1-l.FreeFlowTime()) - l.DownstreamCount(t)
	if available < 0 {
		available = 0
	}
	if available > l.Capacity() {
		return l.Capacity()
	}
	return available
}

// ReceivingFlow derives remaining storage from the backward-wave-shifted
// downstream curve, capped by capacity.
func (l *LTMLink) ReceivingFlow(t int) float64 {
	space := l.DownstreamCount(t+1-l.BackwardWaveTime()) + l.MaxVehicles() - l.UpstreamCount(t)
	if space < 0 {
		space = 0
	}
	if space > l.Capacity() {
		return l.Capacity()
	}
	return space
}

// LinkUpdate performs no internal bookkeeping; transition flow is applied
// directly via FlowIn/FlowOut.
func (l *LTMLink) LinkUpdate(t int) (float64, float64) {
	return l.SendingFlow(t), l.ReceivingFlow(t)
}
