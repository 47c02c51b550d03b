package nodemodel

import "github.com/trafficlab/corridordnl/linkmodel"

// Phase is a single permitted (inLink -> outLink) movement.
//
// Grounded on original_source/dta/nodeModel.py: the tuple entries inside
// each ring's phase list.
type Phase struct {
	In  string
	Out string
}

// Ring is an ordered pair of protected phases with a split fraction in
// [0,1] deciding how long phase0 runs before the ring switches to phase1
// within its barrier's duration.
//
// Per spec.md §9's resolution of the Barrier/Ring back-reference question,
// a Ring carries no pointer back to its Barrier; ActivePhase takes the
// barrier's start time and length as explicit arguments instead.
type Ring struct {
	Phase0 Phase
	Phase1 Phase
	Split  float64
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// ActivePhase returns phase0 or phase1 depending on how far t has advanced
// into the barrier's duration.
//
// Grounded on original_source/dta/nodeModel.py: Ring.getActivePhase.
func (r Ring) ActivePhase(t, barrierStartTime, barrierLength int) Phase {
	transition := float64(barrierLength) * clamp01(r.Split)
	if transition < float64(t-barrierStartTime) {
		return r.Phase1
	}
	return r.Phase0
}

// Barrier holds the two rings that run concurrently for Length timesteps
// before the intersection cycles to the next barrier.
//
// Grounded on original_source/dta/nodeModel.py: Barrier.
type Barrier struct {
	Rings  [2]Ring
	Length int // timesteps
}

// FullyProtectedIntersectionNode is a dual-ring NEMA-phased signalized
// intersection: two barriers, each with two rings of protected phases,
// plus a list of permissive phases that always compete for residual
// receiving capacity after protected phases have been resolved.
//
// Grounded on original_source/dta/nodeModel.py:
// FullyProtectedIntersectionNode.
type FullyProtectedIntersectionNode struct {
	Node
	barriers   [2]Barrier
	permissive []Phase

	started      bool
	currentIdx   int
	currentStart int
}

// NewFullyProtectedIntersectionNode builds a signalized intersection.
func NewFullyProtectedIntersectionNode(id string, in, out []linkmodel.Model, barriers [2]Barrier, permissive []Phase) *FullyProtectedIntersectionNode {
	return &FullyProtectedIntersectionNode{
		Node:       NewNode(id, in, out),
		barriers:   barriers,
		permissive: permissive,
	}
}

// SetSplit updates one ring's split fraction. barrierIdx and ringIdx are
// each 0 or 1, matching the config keys "split 00"/"split 01"/"split
// 10"/"split 11".
func (f *FullyProtectedIntersectionNode) SetSplit(barrierIdx, ringIdx int, split float64) {
	f.barriers[barrierIdx].Rings[ringIdx].Split = split
}

// SetBarrierLength updates a barrier's duration in timesteps, matching
// config keys "barrier 0"/"barrier 1".
func (f *FullyProtectedIntersectionNode) SetBarrierLength(barrierIdx int, length int) {
	f.barriers[barrierIdx].Length = length
}

// Split returns one ring's current split fraction.
func (f *FullyProtectedIntersectionNode) Split(barrierIdx, ringIdx int) float64 {
	return f.barriers[barrierIdx].Rings[ringIdx].Split
}

// BarrierLength returns a barrier's current duration in timesteps.
func (f *FullyProtectedIntersectionNode) BarrierLength(barrierIdx int) int {
	return f.barriers[barrierIdx].Length
}

// getCurrentBarrier lazily starts the first barrier on the first call and
// advances to the next barrier (cyclically) once its duration elapses.
//
// Grounded on original_source/dta/nodeModel.py: getCurrentBarrier.
func (f *FullyProtectedIntersectionNode) getCurrentBarrier(t int) (Barrier, int) {
	if !f.started {
		f.started = true
		f.currentIdx = 0
		f.currentStart = t
	} else if t-f.currentStart > f.barriers[f.currentIdx].Length {
		f.currentIdx = (f.currentIdx + 1) % len(f.barriers)
		f.currentStart = t
	}
	return f.barriers[f.currentIdx], f.currentStart
}

// CalculateTransitionFlows implements TransitionCalculator: protected
// phases from the active barrier's two rings are resolved first (in ring
// order), each consuming from a local, mutable copy of R; permissive
// phases are then resolved against the remaining R, additively combining
// with any protected phase that targets the same (in, out) pair.
//
// Grounded on original_source/dta/nodeModel.py:
// FullyProtectedIntersectionNode.calculateTransitionFlows.
func (f *FullyProtectedIntersectionNode) CalculateTransitionFlows(S, R map[string]float64, proportions map[string]map[string]float64, t int) map[LinkPair]float64 {
	barrier, startTime := f.getCurrentBarrier(t)
	remainingR := make(map[string]float64, len(R))
	for k, v := range R {
		remainingR[k] = v
	}
	result := make(map[LinkPair]float64)

	allocate := func(p Phase) {
		flow := S[p.In]
		if remainingR[p.Out] < flow {
			flow = remainingR[p.Out]
		}
		if flow < 0 {
			flow = 0
		}
		result[LinkPair{In: p.In, Out: p.Out}] += flow
		remainingR[p.Out] -= flow
	}

	for _, ring := range barrier.Rings {
		allocate(ring.ActivePhase(t, startTime, barrier.Length))
	}
	for _, p := range f.permissive {
		allocate(p)
	}
	return result
}

// UpdateNode runs the node's four-step update for time t.
func (f *FullyProtectedIntersectionNode) UpdateNode(t int, pathContainsLink func(linkmodel.PathID, string) bool) {
	f.Node.UpdateNode(t, f, pathContainsLink)
}

func subPhase(r Ring, idx int) Phase {
	if idx == 0 {
		return r.Phase0
	}
	return r.Phase1
}

// ValidatePhaseTable checks the well-formedness invariant that, within one
// barrier, the two rings' phase0 pair never shares an in-link or out-link,
// and likewise for the phase1 pair (spec.md §8, testable property 6).
func ValidatePhaseTable(barriers [2]Barrier) error {
	for _, b := range barriers {
		for idx := 0; idx < 2; idx++ {
			p0 := subPhase(b.Rings[0], idx)
			p1 := subPhase(b.Rings[1], idx)
			if p0.In == p1.In || p0.Out == p1.Out {
				return ErrDuplicatePhaseLink
			}
		}
	}
	return nil
}
