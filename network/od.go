// Package network drives the dynamic network loading loop over a built
// corridor.Corridor: link updates, node updates in fixed order, trip
// loading at origins, trip termination at destinations, and the travel
// time / TSTT/TFFT accounting used by both the assignment and env
// packages.
//
// Grounded on original_source/dta/network.py.
package network

import (
	"math"
	"math/rand"
	"strings"

	"github.com/trafficlab/corridordnl/linkmodel"
)

// Path is an ordered sequence of link identifiers, interned via its ID
// method so equal sequences compare equal as map keys (spec.md §3: Path).
type Path struct {
	Links []string
}

// ID returns the interned identity of the path.
func (p Path) ID() linkmodel.PathID {
	return linkmodel.PathID(strings.Join(p.Links, "|"))
}

// Contains reports whether linkID appears anywhere in the path.
func (p Path) Contains(linkID string) bool {
	for _, l := range p.Links {
		if l == linkID {
			return true
		}
	}
	return false
}

// OD is an origin/destination demand pair: a per-timestep demand-rate
// sequence and the set of simple paths connecting them.
//
// Grounded on original_source/dta/network.py: OD / StochasticOD.
type OD struct {
	Label       string
	Origin      int
	Destination int
	DemandRates []float64 // veh/timestep, indexed by departure timestep
	Paths       []Path
}

// poisson draws a single sample from Poisson(lambda) via Knuth's
// algorithm, adequate for the small per-timestep rates this module deals
// with. rng must be a caller-owned, seeded generator (never the package
// global), matching tsp/rng.go's determinism discipline.
func poisson(rng *rand.Rand, lambda float64) float64 {
	if lambda <= 0 {
		return 0
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		k++
		p *= rng.Float64()
		if p <= l {
			break
		}
	}
	return float64(k - 1)
}

// NewStochasticOD builds an OD pair whose demand-rate sequence is drawn by
// independent Poisson samples with rate hourlyVeh·timestep/3600 at every
// timestep in [0, horizon).
//
// Grounded on original_source/dta/network.py: StochasticOD.
func NewStochasticOD(label string, origin, destination int, hourlyVeh, timestep float64, horizon int, rng *rand.Rand) OD {
	rate := hourlyVeh * timestep / 3600
	rates := make([]float64, horizon)
	for t := range rates {
		rates[t] = poisson(rng, rate)
	}
	return OD{Label: label, Origin: origin, Destination: destination, DemandRates: rates}
}
