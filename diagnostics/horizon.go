package diagnostics

import (
	"github.com/trafficlab/corridordnl/assignment"
	"github.com/trafficlab/corridordnl/corridor"
)

// FreeFlowHorizon re-exports assignment.FreeFlowHorizon: the all-pairs
// free-flow travel-time bound is computed once, in assignment (where
// InitializePathFlows also uses it), and reused here rather than
// duplicated.
func FreeFlowHorizon(c *corridor.Corridor) int {
	return assignment.FreeFlowHorizon(c)
}
