package assignment

import (
	"github.com/trafficlab/corridordnl/corridor"
	"github.com/trafficlab/corridordnl/linkmodel"
	"github.com/trafficlab/corridordnl/network"
)

// buildAdjacency groups every link by its tail node index, the
// traversal order EnumerateSimplePaths walks.
func buildAdjacency(c *corridor.Corridor) map[int][]linkmodel.Model {
	adj := make(map[int][]linkmodel.Model, corridor.NumNodes)
	for _, l := range c.Links {
		adj[l.Tail()] = append(adj[l.Tail()], l)
	}
	return adj
}

// EnumerateSimplePaths depth-first-searches every simple (no repeated
// node) route from origin to destination, bounded by maxHops. It tracks
// membership by node, not by a single global visited flag reused across
// calls, so concurrent enumerations over independent OD pairs cannot
// interfere.
//
// Grounded on dfs/dfs.go's recursive traversal shape, adapted to collect
// every root-to-destination path instead of a single visitation order.
func EnumerateSimplePaths(c *corridor.Corridor, origin, destination, maxHops int) []network.Path {
	adj := buildAdjacency(c)
	visited := map[int]bool{origin: true}
	var out []network.Path
	enumerate(adj, origin, destination, visited, nil, maxHops, &out)
	return out
}

func enumerate(adj map[int][]linkmodel.Model, current, destination int, visited map[int]bool, path []string, maxHops int, out *[]network.Path) {
	if current == destination {
		cp := append([]string(nil), path...)
		*out = append(*out, network.Path{Links: cp})
		return
	}
	if len(path) >= maxHops {
		return
	}
	for _, l := range adj[current] {
		next := l.Head()
		if visited[next] {
			continue
		}
		visited[next] = true
		path = append(path, l.ID())
		enumerate(adj, next, destination, visited, path, maxHops, out)
		path = path[:len(path)-1]
		visited[next] = false
	}
}
