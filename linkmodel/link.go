// Package linkmodel implements the per-timestep sending/receiving flow
// contracts for the four kinematic-wave link models used by the corridor:
// Point Queue (PQ), Spatial Queue (SQ), Cell Transmission (CTM), and Link
// Transmission (LTM). Each variant embeds Link, which owns the unit
// conversion, the cumulative per-path count arrays, and the FIFO flow
// bookkeeping (flowIn/flowOut/getFlowComposition/getEntryTime) shared by
// all four.
//
// Grounded on original_source/dta/link.py and original_source/dta/linkModel.py.
package linkmodel

import (
	"sort"

	"github.com/trafficlab/corridordnl/units"
)

// PathID identifies an interned path (an ordered sequence of link IDs,
// joined by network.Path.ID) so it can be used directly as a Go map
// key — Go's comparable strings already give path values shared identity,
// which is all spec.md §3's "interned" requirement asks for.
type PathID string

// Model is the uniform per-timestep contract every link variant satisfies.
// Node code (package nodemodel) and the DNL loop (package network) only
// ever interact with links through this interface.
type Model interface {
	ID() string
	Tail() int
	Head() int
	FreeFlowTime() int
	BackwardWaveTime() int
	MaxVehicles() float64
	Capacity() float64

	UpstreamCount(t int) float64
	DownstreamCount(t int) float64
	VehiclesOnLink(t int) float64

	SendingFlow(t int) float64
	ReceivingFlow(t int) float64
	// LinkUpdate performs any internal bookkeeping a variant needs (CTM
	// moves flow between cells) and returns (sendingFlow, receivingFlow).
	LinkUpdate(t int) (float64, float64)

	FlowIn(pathFlows map[PathID]float64)
	FlowOut(pathFlows map[PathID]float64)
	GetFlowComposition(tStart, tEnd int) map[PathID]float64
	GetEntryTime(vehicleIndex float64, roundUp bool, tolerance float64) int

	Density(t int) float64

	// TravelTime returns the travel time recorded for vehicles entering at
	// t (see network.Network.CalculateLinkTravelTimes), or freeFlowTime if t is out
	// of the recorded range (spec.md §7: "treated as use free-flow time").
	TravelTime(t int) int
	SetTravelTime(t int, tt int)
	GrowTravelTime(n int)
	// TravelTimeLen reports how many entries TravelTime has actually
	// recorded, so a caller that must distinguish "recorded" from
	// "out-of-range" (TDSP's relaxation step, spec.md §5) can do so without
	// going through TravelTime's free-flow fallback.
	TravelTimeLen() int

	// ResetCounts clears all accumulated vehicle state, returning the link
	// to its empty-at-t=0 condition for a fresh episode.
	ResetCounts()
}

// Link holds the attributes and cumulative-count bookkeeping common to all
// four link variants. It is embedded (not wrapped) by each variant so the
// shared methods below are promoted automatically.
type Link struct {
	id   string
	tail int
	head int

	freeFlowSpeed     float64 // ft/s
	backwardWaveSpeed float64 // ft/s
	jamDensity        float64 // veh/ft
	length            float64 // ft
	maxVehicles       float64 // veh
	capacity          float64 // veh/timestep

	freeFlowTime     int // timesteps
	backwardWaveTime int // timesteps

	upstreamPathCount   []map[PathID]float64
	downstreamPathCount []map[PathID]float64

	travelTime []int
}

// newBase fills in the common attributes, converting inputs (mph, veh/mi,
// veh/hr, ft, s) into the internal ft/s, veh/ft, veh/timestep system, per
// spec.md §3's unit convention.
func newBase(timestep, freeFlowSpeedMph, backwardWaveSpeedMph, jamDensityVehPerMile, lengthFeet, capacityVehPerHour float64, id string) Link {
	l := Link{
		id:                id,
		freeFlowSpeed:     freeFlowSpeedMph * units.MPHToFPS,
		backwardWaveSpeed: backwardWaveSpeedMph * units.MPHToFPS,
		jamDensity:        jamDensityVehPerMile * units.VehPerMileToVehPerFoot,
		length:            lengthFeet,
		capacity:          capacityVehPerHour / units.Hours * timestep,
	}
	l.maxVehicles = l.length * l.jamDensity
	l.freeFlowTime = units.CeilDivInt(l.length/l.freeFlowSpeed, timestep)
	l.backwardWaveTime = units.CeilDivInt(l.length/l.backwardWaveSpeed, timestep)
	l.upstreamPathCount = []map[PathID]float64{{}}
	l.downstreamPathCount = []map[PathID]float64{{}}
	return l
}

func (l *Link) ID() string               { return l.id }
func (l *Link) Tail() int                { return l.tail }
func (l *Link) Head() int                { return l.head }
func (l *Link) FreeFlowTime() int        { return l.freeFlowTime }
func (l *Link) BackwardWaveTime() int    { return l.backwardWaveTime }
func (l *Link) MaxVehicles() float64     { return l.maxVehicles }
func (l *Link) Capacity() float64        { return l.capacity }
func (l *Link) Length() float64          { return l.length }
func (l *Link) FreeFlowSpeed() float64   { return l.freeFlowSpeed }

// SetEndpoints wires the link to its tail/head node indices; called once by
// corridor.Build per spec.md §6's frozen wiring table.
func (l *Link) SetEndpoints(tail, head int) {
	l.tail = tail
	l.head = head
}

// ResetCounts clears the cumulative count arrays, used by
// network.Network.Reset at the start of each episode. Recorded travel
// times are left as they are.
func (l *Link) ResetCounts() {
	l.upstreamPathCount = []map[PathID]float64{{}}
	l.downstreamPathCount = []map[PathID]float64{{}}
}

// sumPaths totals a per-path map in a fixed key order. Go intentionally
// randomizes map iteration order on every range, and floating-point
// addition is not associative, so summing in map order would make
// Reset(seed) nondeterministic across otherwise-identical runs (spec.md
// §8: "reset(seed) twice with the same seed produces byte-identical state
// vectors"). Sorting path IDs first makes the accumulation order fixed.
func sumPaths(m map[PathID]float64) float64 {
	if len(m) == 0 {
		return 0
	}
	ids := make([]PathID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var total float64
	for _, id := range ids {
		total += m[id]
	}
	return total
}

// clampIndex keeps a snapshot index within the recorded range, matching
// spec.md §7's "index-out-of-range ... not escalated" philosophy for count
// lookups (the DNL loop only ever queries within the already-loaded range).
func clampIndex(t, length int) int {
	if t < 0 {
		return -1 // sentinel: caller returns 0
	}
	if t >= length {
		return length - 1
	}
	return t
}

// UpstreamCount returns the cumulative vehicles that have entered the link
// by time t, across all paths; 0 for t<0.
func (l *Link) UpstreamCount(t int) float64 {
	idx := clampIndex(t, len(l.upstreamPathCount))
	if idx < 0 {
		return 0
	}
	return sumPaths(l.upstreamPathCount[idx])
}

// DownstreamCount returns the cumulative vehicles that have exited the link
// by time t, across all paths; 0 for t<0.
func (l *Link) DownstreamCount(t int) float64 {
	idx := clampIndex(t, len(l.downstreamPathCount))
	if idx < 0 {
		return 0
	}
	return sumPaths(l.downstreamPathCount[idx])
}

// VehiclesOnLink returns the number of vehicles physically on the link at
// time t.
func (l *Link) VehiclesOnLink(t int) float64 {
	return l.UpstreamCount(t) - l.DownstreamCount(t)
}

func appendSnapshot(arr []map[PathID]float64, pathFlows map[PathID]float64) []map[PathID]float64 {
	prev := arr[len(arr)-1]
	next := make(map[PathID]float64, len(prev)+len(pathFlows))
	for k, v := range prev {
		next[k] = v
	}
	for k, v := range pathFlows {
		next[k] += v
	}
	return append(arr, next)
}

// FlowIn appends a new upstream snapshot equal to the previous one plus
// pathFlows, disaggregated by path.
func (l *Link) FlowIn(pathFlows map[PathID]float64) {
	l.upstreamPathCount = appendSnapshot(l.upstreamPathCount, pathFlows)
}

// FlowOut appends a new downstream snapshot equal to the previous one plus
// pathFlows, disaggregated by path.
func (l *Link) FlowOut(pathFlows map[PathID]float64) {
	l.downstreamPathCount = appendSnapshot(l.downstreamPathCount, pathFlows)
}

// GetFlowComposition returns, per path, the vehicles that entered the link
// between tStart and tEnd (tEnd clamped to tStart+1 per spec.md §4.A).
func (l *Link) GetFlowComposition(tStart, tEnd int) map[PathID]float64 {
	if tEnd > tStart+1 {
		tEnd = tStart + 1
	}
	n := len(l.upstreamPathCount)
	si := clampIndex(tStart, n)
	ei := clampIndex(tEnd, n)
	if si < 0 {
		si = 0
	}
	if ei < 0 {
		ei = 0
	}

	result := make(map[PathID]float64)
	startMap := l.upstreamPathCount[si]
	endMap := l.upstreamPathCount[ei]
	for path := range startMap {
		result[path] = endMap[path] - startMap[path]
	}
	for path := range endMap {
		if _, seen := result[path]; !seen {
			result[path] = endMap[path] - startMap[path]
		}
	}
	return result
}

// GetEntryTime returns the timestep at which the vehicleIndex-th cumulative
// upstream vehicle entered the link. roundUp=false scans downward from the
// end of the recorded range (used for startTime in GetFlowComposition);
// roundUp=true scans upward from 0 (used for endTime).
func (l *Link) GetEntryTime(vehicleIndex float64, roundUp bool, tolerance float64) int {
	n := len(l.upstreamPathCount)
	if roundUp {
		t := 0
		for l.UpstreamCount(t) <= vehicleIndex-tolerance {
			t++
			if t == n {
				return n
			}
		}
		return t
	}
	t := n - 1
	for l.UpstreamCount(t) >= vehicleIndex+tolerance {
		t--
		if t == 0 {
			return 0
		}
	}
	return t
}

// Density returns vehicles-on-link per foot at time t. CTM overrides this
// to sum cell occupancy directly instead (linkModel.py's
// CellTransmissionModelLink.density).
func (l *Link) Density(t int) float64 {
	if l.length <= 0 {
		return 0
	}
	return l.VehiclesOnLink(t) / l.length
}

// TravelTime returns the recorded travel time for a vehicle entering at t,
// or freeFlowTime if t is outside the recorded range.
func (l *Link) TravelTime(t int) int {
	if t < 0 || t >= len(l.travelTime) {
		return l.freeFlowTime
	}
	return l.travelTime[t]
}

// SetTravelTime records the travel time for entry time t, growing the
// slice if necessary.
func (l *Link) SetTravelTime(t int, tt int) {
	l.GrowTravelTime(t + 1)
	l.travelTime[t] = tt
}

// GrowTravelTime ensures the travel time slice has at least n entries,
// initializing new entries to freeFlowTime (networkModel.py's
// `finalizeLinks` initializes the whole range to free-flow travel time).
func (l *Link) GrowTravelTime(n int) {
	for len(l.travelTime) < n {
		l.travelTime = append(l.travelTime, l.freeFlowTime)
	}
}

// TravelTimeLen reports how many entries have actually been recorded.
func (l *Link) TravelTimeLen() int { return len(l.travelTime) }

// EnteredDuring sums vehicles entering the link during timeRange (supplemented
// from original_source/dta/link.py: enteredDuring).
func (l *Link) EnteredDuring(timeRange []int) float64 {
	var total float64
	for _, t := range timeRange {
		total += l.UpstreamCount(t) - l.UpstreamCount(t-1)
	}
	return total
}

// ExitedDuring sums vehicles exiting the link during timeRange (supplemented
// from original_source/dta/link.py: exitedDuring).
func (l *Link) ExitedDuring(timeRange []int) float64 {
	var total float64
	for _, t := range timeRange {
		total += l.DownstreamCount(t) - l.DownstreamCount(t-1)
	}
	return total
}

// AverageSpeed averages the link's occupied-flow speed over timeRange,
// falling back to free-flow speed when the link is empty (supplemented
// from original_source/dta/link.py: averageSpeed).
func (l *Link) AverageSpeed(timeRange []int) float64 {
	if len(timeRange) == 0 {
		return l.freeFlowSpeed
	}
	var cumulative float64
	for _, t := range timeRange {
		density := l.Density(t)
		if density == 0 {
			cumulative += l.freeFlowSpeed
			continue
		}
		flowRate := 0.5*(l.UpstreamCount(t)-l.UpstreamCount(t-1)) + 0.5*(l.DownstreamCount(t)-l.DownstreamCount(t-1))
		cumulative += flowRate / density
	}
	return cumulative / float64(len(timeRange))
}
