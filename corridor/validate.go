package corridor

import "fmt"

// Validate checks that every node is reachable from some origin and can
// reach some destination, returning ErrTopology otherwise. The traversal
// itself is a pair of small closures rather than a reusable generic BFS
// result object: Build only ever needs a yes/no reachability predicate
// evaluated twice, at construction time, over a fixed small graph.
//
// Grounded on bfs/bfs.go's traversal shape, adapted per SPEC_FULL.md §11.
func (c *Corridor) Validate() error {
	forwardAdj := make(map[int][]int, NumNodes)
	backwardAdj := make(map[int][]int, NumNodes)
	for _, l := range c.Links {
		forwardAdj[l.Tail()] = append(forwardAdj[l.Tail()], l.Head())
		backwardAdj[l.Head()] = append(backwardAdj[l.Head()], l.Tail())
	}

	reachableFrom := func(starts []int, adj map[int][]int) map[int]bool {
		seen := make(map[int]bool, NumNodes)
		queue := append([]int(nil), starts...)
		for _, s := range starts {
			seen[s] = true
		}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range adj[cur] {
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
		return seen
	}

	fromOrigins := reachableFrom(c.Origins, forwardAdj)
	toDestinations := reachableFrom(c.Destinations, backwardAdj)

	for idx := 0; idx < NumNodes; idx++ {
		if !fromOrigins[idx] {
			return fmt.Errorf("%w: node %q is not reachable from any origin", ErrTopology, nodeName[idx])
		}
		if !toDestinations[idx] {
			return fmt.Errorf("%w: node %q cannot reach any destination", ErrTopology, nodeName[idx])
		}
	}
	return nil
}
