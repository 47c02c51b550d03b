package assignment

import (
	"fmt"
	"math"

	"github.com/trafficlab/corridordnl/corridor"
	"github.com/trafficlab/corridordnl/network"
)

// TDSP computes the time-dependent shortest path from origin to
// destination for a vehicle departing at departureTime, using each
// link's current recorded TravelTime (network.Network.
// CalculateLinkTravelTimes or InitializePathFlows must have filled these
// in first: a link is only relaxed from a label that falls inside its
// recorded range, so a link with no recorded entries is never traversed).
//
// This is a label-setting algorithm, not Dijkstra's heap-based
// implementation: at each step the next vertex to finalize is found by a
// linear scan of the open label set, matching spec.md §5's explicit
// "naive linear-scan tie-break" requirement — ties are broken by
// whichever open node the scan reaches first, not by insertion order in
// a heap. The FIFO property of every link's travel-time function (later
// departures never arrive earlier) is what makes a single forward sweep
// correct here, the same guarantee Dijkstra's relaxation leans on for
// non-negative weights.
//
// Grounded on dijkstra/dijkstra.go's runner shape (dist/prev/visited
// maps, an init then a process loop, edge relaxation), with the
// heap replaced by the required linear scan.
func TDSP(c *corridor.Corridor, origin, destination, departureTime int) (network.Path, int, error) {
	adj := buildAdjacency(c)

	dist := map[int]int{origin: departureTime}
	prevLink := map[int]string{}
	visited := map[int]bool{}

	for {
		u, found := nextOpenMin(dist, visited)
		if !found {
			break
		}
		visited[u] = true
		if u == destination {
			break
		}
		for _, l := range adj[u] {
			// spec.md §5: a lookup past the recorded travel-time horizon is
			// +Inf, not free-flow time — matching
			// original_source/dta/network.py's TDSP, which catches the
			// IndexError and sets Lj = INFINITY rather than falling back.
			// Link.TravelTime itself still falls back to free-flow time for
			// every other caller (spec.md §7), so the bounds check has to
			// happen here rather than inside TravelTime.
			if dist[u] < 0 || dist[u] >= l.TravelTimeLen() {
				continue
			}
			v := l.Head()
			tt := l.TravelTime(dist[u])
			candidate := dist[u] + tt
			if cur, ok := dist[v]; !ok || candidate < cur {
				dist[v] = candidate
				prevLink[v] = l.ID()
			}
		}
	}

	if !visited[destination] {
		return network.Path{}, 0, fmt.Errorf("%w: node %d to node %d", ErrUnreachable, origin, destination)
	}

	links, err := reconstructPath(c, prevLink, origin, destination)
	if err != nil {
		return network.Path{}, 0, err
	}
	return network.Path{Links: links}, dist[destination] - departureTime, nil
}

// nextOpenMin linear-scans dist for the unvisited entry with the smallest
// label, the naive tie-break spec.md §5 calls for in place of a heap:
// "tie-breaks in TDSP use first-found node index". The scan walks node
// indices in ascending order rather than ranging over the dist map
// directly — Go deliberately randomizes map iteration order, which would
// make a tie-break nondeterministic across otherwise identical runs.
func nextOpenMin(dist map[int]int, visited map[int]bool) (int, bool) {
	best := math.MaxInt
	u := -1
	for node := 0; node < corridor.NumNodes; node++ {
		d, ok := dist[node]
		if !ok || visited[node] {
			continue
		}
		if d < best {
			best = d
			u = node
		}
	}
	return u, u != -1
}

func reconstructPath(c *corridor.Corridor, prevLink map[int]string, origin, destination int) ([]string, error) {
	var links []string
	cur := destination
	for cur != origin {
		id, ok := prevLink[cur]
		if !ok {
			return nil, fmt.Errorf("%w: broken predecessor chain at node %d", ErrUnreachable, cur)
		}
		links = append([]string{id}, links...)
		cur = c.Link(id).Tail()
	}
	return links, nil
}
