package linkmodel

// Cell is one spatial segment of a CTMLink, holding its own vehicle
// occupancy, capacity, storage limit, and backward/forward wave-speed
// ratio (delta).
//
// Grounded on original_source/dta/linkModel.py: Cell.
type Cell struct {
	vehicles    float64
	capacity    float64
	maxVehicles float64
	delta       float64 // backwardWaveSpeed / freeFlowSpeed
}

// SendingFlow is the vehicles the cell can push downstream this timestep.
func (c *Cell) SendingFlow() float64 {
	s := c.vehicles
	if s > c.capacity {
		s = c.capacity
	}
	if s < 0 {
		s = 0
	}
	return s
}

// ReceivingFlow is the vehicles the cell can accept from upstream this
// timestep, scaled by the backward-wave ratio against remaining storage.
func (c *Cell) ReceivingFlow() float64 {
	r := c.delta * (c.maxVehicles - c.vehicles)
	if r > c.capacity {
		r = c.capacity
	}
	if r < 0 {
		r = 0
	}
	return r
}

func (c *Cell) addVehicles(n float64)    { c.vehicles += n }
func (c *Cell) removeVehicles(n float64) { c.vehicles -= n }

// CTMLink is a Cell Transmission Model link: the link is divided into one
// cell per freeFlowTime timestep, and LinkUpdate moves a transition flow
// between adjacent cells each step (the Daganzo CTM recurrence), in
// addition to the upstream/downstream count bookkeeping every link needs
// for path-level FIFO accounting.
//
// Grounded on original_source/dta/linkModel.py: CellTransmissionModelLink.
type CTMLink struct {
	Link
	cells []*Cell
}

// NewCTMLink builds a cell-transmission-model link with FreeFlowTime()
// cells, each sized to an equal share of the link's jam capacity.
func NewCTMLink(timestep, freeFlowSpeedMph, backwardWaveSpeedMph, jamDensityVehPerMile, lengthFeet, capacityVehPerHour float64, id string) *CTMLink {
	base := newBase(timestep, freeFlowSpeedMph, backwardWaveSpeedMph, jamDensityVehPerMile, lengthFeet, capacityVehPerHour, id)
	numCells := base.FreeFlowTime()
	delta := base.backwardWaveSpeed / base.freeFlowSpeed
	cellMax := base.MaxVehicles() / float64(numCells)
	cells := make([]*Cell, numCells)
	for i := range cells {
		cells[i] = &Cell{capacity: base.Capacity(), maxVehicles: cellMax, delta: delta}
	}
	return &CTMLink{Link: base, cells: cells}
}

// SendingFlow is the last cell's sending flow: what the link can push to
// its downstream node this timestep.
func (l *CTMLink) SendingFlow(t int) float64 {
	return l.cells[len(l.cells)-1].SendingFlow()
}

// ReceivingFlow is the first cell's receiving flow: what the link can
// accept from its upstream node this timestep.
func (l *CTMLink) ReceivingFlow(t int) float64 {
	return l.cells[0].ReceivingFlow()
}

// LinkUpdate computes the sending/receiving flow the node model will use,
// then moves the inter-cell transition flows atomically (every transition
// is computed from the pre-update occupancy before any cell is mutated),
// matching CellTransmissionModelLink.linkUpdate.
func (l *CTMLink) LinkUpdate(t int) (float64, float64) {
	sendingFlow := l.SendingFlow(t)
	receivingFlow := l.ReceivingFlow(t)

	n := len(l.cells)
	transitions := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		s := l.cells[i].SendingFlow()
		r := l.cells[i+1].ReceivingFlow()
		if s < r {
			transitions[i] = s
		} else {
			transitions[i] = r
		}
	}
	for i := 0; i < n-1; i++ {
		l.cells[i].removeVehicles(transitions[i])
		l.cells[i+1].addVehicles(transitions[i])
	}
	return sendingFlow, receivingFlow
}

// FlowIn records the upstream path counts and adds the total to the first
// cell's occupancy.
func (l *CTMLink) FlowIn(pathFlows map[PathID]float64) {
	l.Link.FlowIn(pathFlows)
	l.cells[0].addVehicles(sumPaths(pathFlows))
}

// FlowOut records the downstream path counts and removes the total from
// the last cell's occupancy.
func (l *CTMLink) FlowOut(pathFlows map[PathID]float64) {
	l.Link.FlowOut(pathFlows)
	l.cells[len(l.cells)-1].removeVehicles(sumPaths(pathFlows))
}

// Density sums cell occupancy directly rather than using the upstream-
// minus-downstream count curve, matching
// CellTransmissionModelLink.density.
func (l *CTMLink) Density(t int) float64 {
	if l.Length() <= 0 {
		return 0
	}
	var total float64
	for _, c := range l.cells {
		total += c.vehicles
	}
	return total / l.Length()
}

// ResetCounts clears the base link's count arrays and empties every cell.
func (l *CTMLink) ResetCounts() {
	l.Link.ResetCounts()
	for _, c := range l.cells {
		c.vehicles = 0
	}
}

// NumCells exposes the cell count for diagnostics and tests.
func (l *CTMLink) NumCells() int { return len(l.cells) }

// CellVehicles exposes a single cell's occupancy for diagnostics and tests.
func (l *CTMLink) CellVehicles(i int) float64 { return l.cells[i].vehicles }
