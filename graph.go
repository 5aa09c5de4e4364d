/*
 *  graph.go
 *  popins
 */

package popins

import (
	"fmt"
	"sort"

	"github.com/awalterschulze/gographviz"
)

// ComponentGraph is the directed acyclic sequence graph a component is
// merged into. Vertices are dense ids into an append-only label slice;
// splits never invalidate ids and vertices are never removed (graphs
// are discarded per component). The concatenation of labels along any
// source-to-sink path is a candidate supercontig.
type ComponentGraph struct {
	Labels  [][]byte
	Out     [][]int
	Sources []int
}

// NewComponentGraph creates a graph holding seq in a single source vertex.
func NewComponentGraph(seq []byte) *ComponentGraph {
	g := &ComponentGraph{}
	v := g.AddVertex(seq)
	g.Sources = append(g.Sources, v)
	return g
}

// AddVertex appends a new vertex carrying a copy of seq. No edges are added.
func (g *ComponentGraph) AddVertex(seq []byte) int {
	label := make([]byte, len(seq))
	copy(label, seq)
	g.Labels = append(g.Labels, label)
	g.Out = append(g.Out, nil)
	return len(g.Labels) - 1
}

// AddEdge adds the directed edge u -> v.
func (g *ComponentGraph) AddEdge(u, v int) {
	g.Out[u] = append(g.Out[u], v)
}

// NumVertices returns the vertex count.
func (g *ComponentGraph) NumVertices() int {
	return len(g.Labels)
}

// SplitVertex cuts u, whose label must equal prefix++suffix, into
// u -> v: the new vertex v takes the suffix and all outgoing edges of
// u, u keeps the prefix and a single edge to v. Returns v.
func (g *ComponentGraph) SplitVertex(u int, prefix, suffix []byte) int {
	v := g.AddVertex(suffix)
	g.Out[v] = g.Out[u]
	label := make([]byte, len(prefix))
	copy(label, prefix)
	g.Labels[u] = label
	g.Out[u] = []int{v}
	return v
}

// GraphPath is one source-to-sink walk: the concatenated label sequence
// plus the position map translating cumulative end offsets back to
// vertices.
type GraphPath struct {
	Seq   []byte
	ends  []int // cumulative length after each vertex, strictly increasing
	verts []int
}

// PositionMap exposes the (end offset, vertex) pairs of the walk.
func (p *GraphPath) PositionMap() ([]int, []int) {
	return p.ends, p.verts
}

// vertexCoveringEnd returns the first recorded vertex end >= pos and
// its vertex: the vertex covering an alignment end at pos.
func (p *GraphPath) vertexCoveringEnd(pos int) (int, int) {
	k := sort.SearchInts(p.ends, pos)
	return p.ends[k], p.verts[k]
}

// vertexCoveringBegin returns the first recorded vertex end > pos and
// its vertex: the vertex covering an alignment begin at pos.
func (p *GraphPath) vertexCoveringBegin(pos int) (int, int) {
	k := sort.SearchInts(p.ends, pos+1)
	return p.ends[k], p.verts[k]
}

func (p *GraphPath) clone() *GraphPath {
	q := &GraphPath{
		Seq:   make([]byte, len(p.Seq), len(p.Seq)+64),
		ends:  make([]int, len(p.ends), len(p.ends)+4),
		verts: make([]int, len(p.verts), len(p.verts)+4),
	}
	copy(q.Seq, p.Seq)
	copy(q.ends, p.ends)
	copy(q.verts, p.verts)
	return q
}

// EnumeratePaths walks depth-first from every source and returns one
// GraphPath per source-to-sink walk. A positive limit stops the
// enumeration once more than limit paths exist, so callers can detect
// a blow-up without paying for it.
func (g *ComponentGraph) EnumeratePaths(limit int) []*GraphPath {
	var paths []*GraphPath
	for _, s := range g.Sources {
		paths = g.dfs(paths, &GraphPath{}, s, limit)
		if limit > 0 && len(paths) > limit {
			break
		}
	}
	return paths
}

func (g *ComponentGraph) dfs(paths []*GraphPath, prev *GraphPath, v int, limit int) []*GraphPath {
	if limit > 0 && len(paths) > limit {
		return paths
	}
	prev.Seq = append(prev.Seq, g.Labels[v]...)
	prev.ends = append(prev.ends, len(prev.Seq))
	prev.verts = append(prev.verts, v)

	if len(g.Out[v]) == 0 {
		return append(paths, prev)
	}
	for i, u := range g.Out[v] {
		next := prev
		if i < len(g.Out[v])-1 {
			next = prev.clone()
		}
		paths = g.dfs(paths, next, u, limit)
		if limit > 0 && len(paths) > limit {
			break
		}
	}
	return paths
}

// DotString renders the graph in DOT format, one node per vertex
// annotated with its label length.
func (g *ComponentGraph) DotString() string {
	viz := gographviz.NewGraph()
	_ = viz.SetName("G")
	_ = viz.SetDir(true)
	for v := range g.Labels {
		attrs := map[string]string{
			"label": fmt.Sprintf("\"%d (%dbp)\"", v, len(g.Labels[v])),
			"shape": "box",
		}
		_ = viz.AddNode("G", fmt.Sprintf("v%d", v), attrs)
	}
	for u, targets := range g.Out {
		for _, v := range targets {
			_ = viz.AddEdge(fmt.Sprintf("v%d", u), fmt.Sprintf("v%d", v), true, nil)
		}
	}
	return viz.String()
}
