package diagnostics

import (
	"math"

	"github.com/trafficlab/corridordnl/corridor"
)

const epsilon = 1e-9

// superSource and superSink are virtual node indices appended past the
// corridor's fixed NumNodes range, connected to every real origin and
// every real destination respectively by infinite-capacity edges, so a
// single max-flow computation captures the corridor's aggregate
// throughput bound rather than one origin/destination pair at a time.
const (
	superSourceOffset = 0
	superSinkOffset   = 1
)

// StaticMaxThroughput computes the maximum flow (in vehicles per
// timestep) the corridor's link capacities alone could sustain from
// every origin to every destination simultaneously, ignoring all
// signal-timing, FIFO, and queueing dynamics. It is a static upper bound
// a well-functioning signal plan should approach but can never exceed.
//
// Grounded on flow/edmonds_karp.go's BFS-augmenting-path loop, keeping
// its epsilon-tolerance and negative-capacity (EdgeError) conventions,
// adapted from core.Graph's adjacency lists to a direct capacity map
// over the corridor's fixed node-index range plus two virtual nodes.
func StaticMaxThroughput(c *corridor.Corridor) (float64, error) {
	superSource := corridor.NumNodes + superSourceOffset
	superSink := corridor.NumNodes + superSinkOffset
	n := corridor.NumNodes + 2

	cap := make([][]float64, n)
	for i := range cap {
		cap[i] = make([]float64, n)
	}

	for _, l := range c.Links {
		u, v := l.Tail(), l.Head()
		if l.Capacity() < 0 {
			return 0, EdgeError{From: u, To: v, Cap: l.Capacity()}
		}
		cap[u][v] += l.Capacity()
	}
	for _, o := range c.Origins {
		cap[superSource][o] = math.Inf(1)
	}
	for _, d := range c.Destinations {
		cap[d][superSink] = math.Inf(1)
	}

	var maxFlow float64
	for {
		parent, bottleneck := bfsAugmentingPath(cap, n, superSource, superSink)
		if parent == nil || bottleneck <= epsilon {
			break
		}
		maxFlow += bottleneck
		for v := superSink; v != superSource; {
			u := parent[v]
			cap[u][v] -= bottleneck
			cap[v][u] += bottleneck
			v = u
		}
	}
	return maxFlow, nil
}

// bfsAugmentingPath finds the fewest-hop positive-capacity path from
// source to sink in cap, returning its predecessor map and bottleneck
// capacity, or (nil, 0) if none exists.
func bfsAugmentingPath(cap [][]float64, n, source, sink int) ([]int, float64) {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}
	bottle := make([]float64, n)
	bottle[source] = math.Inf(1)
	visited := make([]bool, n)
	visited[source] = true

	queue := []int{source}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for v := 0; v < n; v++ {
			if visited[v] || cap[u][v] <= epsilon {
				continue
			}
			visited[v] = true
			parent[v] = u
			if cap[u][v] < bottle[u] {
				bottle[v] = cap[u][v]
			} else {
				bottle[v] = bottle[u]
			}
			if v == sink {
				return parent, bottle[sink]
			}
			queue = append(queue, v)
		}
	}
	return nil, 0
}
