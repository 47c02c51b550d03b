// Package assignment implements time-dependent shortest-path routing and
// the convex-combination dynamic traffic assignment loop over a
// network.Network: path enumeration, TDSP, the free-flow horizon bound,
// and the DTA fixed-point iteration that drives path flows toward
// equilibrium.
package assignment

import "errors"

// ErrUnreachable is returned by TDSP when no path connects origin to
// destination within the corridor's wiring and the links' recorded
// travel-time range.
var ErrUnreachable = errors.New("assignment: destination unreachable from origin")
