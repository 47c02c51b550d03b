package assignment

import (
	"math"

	"github.com/trafficlab/corridordnl/corridor"
)

// FreeFlowHorizon computes, via the standard O(V^3) all-pairs
// shortest-path relaxation, the longest free-flow travel time between
// any reachable origin/destination pair in the corridor. DTA callers use
// this as a lower bound on how many timesteps a simulation horizon must
// span for every dispatched trip to have a chance of completing.
//
// Grounded on matrix/ops/floyd_warshal.go's triple-nested relaxation,
// adapted from an in-place distance matrix to a direct node-index map
// (the corridor's 26 nodes are a fixed, dense index range, so a plain
// 2-D slice serves the role matrix.Matrix plays there).
func FreeFlowHorizon(c *corridor.Corridor) int {
	n := corridor.NumNodes
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			if i == j {
				dist[i][j] = 0
			} else {
				dist[i][j] = math.Inf(1)
			}
		}
	}
	for _, l := range c.Links {
		tt := float64(l.FreeFlowTime())
		if tt < dist[l.Tail()][l.Head()] {
			dist[l.Tail()][l.Head()] = tt
		}
	}

	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if math.IsInf(dist[i][k], 1) {
				continue
			}
			for j := 0; j < n; j++ {
				via := dist[i][k] + dist[k][j]
				if via < dist[i][j] {
					dist[i][j] = via
				}
			}
		}
	}

	var longest float64
	for _, origin := range c.Origins {
		for _, dest := range c.Destinations {
			d := dist[origin][dest]
			if !math.IsInf(d, 1) && d > longest {
				longest = d
			}
		}
	}
	return int(math.Ceil(longest))
}
