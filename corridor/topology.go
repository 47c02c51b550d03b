// Package corridor instantiates the fixed 26-node/30-link freeway corridor
// (one freeway with two on/off ramps, two signalized diamond interchanges,
// and four signalized cross-street/collector intersections) that the rest
// of this module operates on. The topology itself is never parsed from a
// file or mutated at runtime (spec.md §3 Non-goals: "general network
// topology parsing"); it is built once per episode by Build.
//
// Grounded on original_source/networkModel.py: buildLinks/buildNodes/
// attachLinks/setConfig. The sequential constructor-application pattern is
// adapted from builder/api.go's Constructor/BuildGraph orchestration.
package corridor

import (
	"errors"

	"github.com/trafficlab/corridordnl/linkmodel"
	"github.com/trafficlab/corridordnl/nodemodel"
)

// ErrTopology is the sentinel wrapped by Validate (and so returned by
// Build) when a node is unreachable from every origin or cannot reach any
// destination. Phase tables are not checked here.
var ErrTopology = errors.New("corridor: topology error")

// Node index constants, matching original_source/networkModel.py's
// attachLinks wiring (0-based, verbatim).
const (
	NFwyStart = iota
	SFwyStart
	XsEbStart
	XsWbStart
	EcNbStart
	EcSbStart
	WcNbStart
	WcSbStart
	NFwyEnd
	SFwyEnd
	XsEbEnd
	XsWbEnd
	EcNbEnd
	EcSbEnd
	WcNbEnd
	WcSbEnd
	NbMerge
	SbMerge
	NbDiv
	SbDiv
	MeterNB
	MeterSB
	Ex
	Wx
	Erx
	Wrx

	NumNodes
)

// Corridor is the fully wired, ready-to-run topology: link registry,
// node registry, the fixed per-timestep node update order, and typed
// handles to the configurable nodes (ramp meters and signalized
// intersections) that ApplyConfig writes to.
type Corridor struct {
	Timestep float64

	Links    []linkmodel.Model
	LinkByID map[string]linkmodel.Model

	// Nodes is indexed by the node index constants above; every one of
	// NumNodes entries is populated.
	Nodes []nodemodel.NodeInfo

	// UpdateOrder lists the non-centroid nodes in the fixed index order
	// the DNL loop drives them in (original_source/dta/network.py:
	// loadNetwork iterates nodes in declaration order, skipping
	// centroids).
	UpdateOrder []nodemodel.Updatable

	Origins      []int
	Destinations []int

	RampNB *nodemodel.RampMeterNode
	RampSB *nodemodel.RampMeterNode
	Wx     *nodemodel.FullyProtectedIntersectionNode
	Ex     *nodemodel.FullyProtectedIntersectionNode
	Wrx    *nodemodel.FullyProtectedIntersectionNode
	Erx    *nodemodel.FullyProtectedIntersectionNode
}

// Link looks up a link by its human-readable ID (e.g. "FWY NB U"),
// panicking only if Build itself produced an inconsistent registry (a
// programmer error, not a runtime data error).
func (c *Corridor) Link(id string) linkmodel.Model {
	l, ok := c.LinkByID[id]
	if !ok {
		panic("corridor: unknown link id " + id)
	}
	return l
}

// nodeName maps a node's numeric index back to its symbolic name,
// used for error messages.
var nodeName = [NumNodes]string{
	"fwyNBstart", "fwySBstart", "xsEBstart", "xsWBstart",
	"ecNBstart", "ecSBstart", "wcNBstart", "wcSBstart",
	"fwyNBend", "fwySBend", "xsEBend", "xsWBend",
	"ecNBend", "ecSBend", "wcNBend", "wcSBend",
	"nbMerge", "sbMerge", "nbDiv", "sbDiv",
	"meterNB", "meterSB", "ex", "wx", "erx", "wrx",
}
