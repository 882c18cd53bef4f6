package cyclefind

import "errors"

// ErrEdgeNotFound indicates DeleteEdge was asked to remove an edge that was
// never added (or was added and already removed).
var ErrEdgeNotFound = errors.New("cyclefind: edge not found")

// CycleFinder is a DAG over a fixed set of vertices 0..N-1, built up one
// edge at a time. It never needs to be told the vertex set up front beyond
// its size; vertices start in an arbitrary (here: index) order and migrate
// as edges constrain them.
//
// Confusingly, when used from package simplify, the "vertices" here are
// hyperedges in the join hypergraph, not its relations — edges in this
// graph are happens-before relations between hyperedge widening steps.
type CycleFinder struct {
	// order lists vertices in topological order (i2n in the paper).
	order []int
	// positionOfNode[v] is the index into order where v currently sits
	// (n2i in the paper).
	positionOfNode []int
	// visited is scratch space reused across DepthFirstSearch calls.
	visited []bool
	// edges maps a vertex to every vertex it has an edge to.
	edges map[int][]int
}

// New returns a CycleFinder over numVertices vertices, initially ordered by
// index with no edges.
func New(numVertices int) *CycleFinder {
	f := &CycleFinder{
		order:          make([]int, numVertices),
		positionOfNode: make([]int, numVertices),
		visited:        make([]bool, numVertices),
		edges:          make(map[int][]int),
	}
	for i := range f.order {
		f.order[i] = i
		f.positionOfNode[i] = i
	}
	return f
}

// Order returns the current topological order. The slice is owned by
// CycleFinder and is only valid until the next AddEdge/EdgeWouldCreateCycle
// call; copy it if you need to keep it.
func (f *CycleFinder) Order() []int { return f.order }

// EdgeWouldCreateCycle reports whether adding edge a->b (a must come before
// b) would close a cycle, without actually adding the edge. If it would not,
// as a side effect it still moves b (and every vertex reachable from b that
// sits between b's and a's positions) to just after a in the stored order —
// exactly the work AddEdge needs, which is why AddEdge delegates to this.
func (f *CycleFinder) EdgeWouldCreateCycle(a, b int) bool {
	if a == b {
		return true
	}
	posOfA := f.positionOfNode[a]
	posOfB := f.positionOfNode[b]
	if posOfA < posOfB {
		// Already in the order we want; nothing to do.
		return false
	}

	// B currently comes before A, the opposite of what a->b demands. See
	// whether B can move to just after A, via a depth-first search bounded
	// to the region between B and A: it marks everything that must follow
	// B transitively, and detects a cycle if that search reaches A.
	for i := range f.visited {
		f.visited[i] = false
	}
	if f.depthFirstSearch(b, posOfA+1, a) {
		return true
	}
	f.moveAllMarked(posOfB, posOfA+1)
	return false
}

// AddEdge adds edge a->b (a must come before b) and reports whether doing so
// would create a cycle. If it would, the edge is not added.
func (f *CycleFinder) AddEdge(a, b int) bool {
	if f.EdgeWouldCreateCycle(a, b) {
		return true
	}
	f.edges[a] = append(f.edges[a], b)
	return false
}

// DeleteEdge removes edge a->b, previously added with AddEdge. Returns
// ErrEdgeNotFound if no such edge exists.
func (f *CycleFinder) DeleteEdge(a, b int) error {
	dsts := f.edges[a]
	for i, d := range dsts {
		if d == b {
			f.edges[a] = append(dsts[:i], dsts[i+1:]...)
			return nil
		}
	}
	return ErrEdgeNotFound
}

// depthFirstSearch explores forward from nodeIdx, staying within positions
// below upperBound, marking everything it finds as visited. It returns true
// the moment it reaches nodeIdxToAvoid, which means that node can already
// reach nodeIdxToAvoid — i.e. adding nodeIdxToAvoid -> (search root) would
// close a cycle.
func (f *CycleFinder) depthFirstSearch(nodeIdx, upperBound, nodeIdxToAvoid int) bool {
	if nodeIdx == nodeIdxToAvoid {
		return true
	}
	if f.visited[nodeIdx] {
		return false
	}
	if f.positionOfNode[nodeIdx] >= upperBound {
		// Already past the region we care about; moving things around
		// within [start, upperBound) can't affect it.
		return false
	}

	f.visited[nodeIdx] = true
	for _, dest := range f.edges[nodeIdx] {
		if f.depthFirstSearch(dest, upperBound, nodeIdxToAvoid) {
			return true
		}
	}
	return false
}

// moveAllMarked shifts every visited vertex currently in order[startPos,
// newPos) to just before newPos, preserving relative order among both the
// shifted and the non-shifted vertices.
func (f *CycleFinder) moveAllMarked(startPos, newPos int) {
	toShift := make([]int, 0, newPos-startPos)
	writeAt := startPos

	for i := startPos; i < newPos; i++ {
		nodeIdx := f.order[i]
		if f.visited[nodeIdx] {
			toShift = append(toShift, nodeIdx)
			continue
		}
		f.allocate(nodeIdx, writeAt)
		writeAt++
	}
	for _, nodeIdx := range toShift {
		f.allocate(nodeIdx, writeAt)
		writeAt++
	}
}

func (f *CycleFinder) allocate(nodeIdx, indexInOrder int) {
	f.order[indexInOrder] = nodeIdx
	f.positionOfNode[nodeIdx] = indexInOrder
}
