/*
 *  graph_test.go
 *  popins
 */

package popins_test

import (
	"bytes"
	"testing"

	"github.com/starling13/popins"
)

func TestSingleVertexGraphHasOnePath(t *testing.T) {
	g := popins.NewComponentGraph([]byte("ACGT"))
	paths := g.EnumeratePaths(0)
	if len(paths) != 1 {
		t.Fatalf("got %d paths; want 1", len(paths))
	}
	if !bytes.Equal(paths[0].Seq, []byte("ACGT")) {
		t.Errorf("path seq = %q; want ACGT", paths[0].Seq)
	}
	ends, verts := paths[0].PositionMap()
	if len(ends) != 1 || ends[0] != 4 || verts[0] != 0 {
		t.Errorf("position map = %v %v; want [4] [0]", ends, verts)
	}
}

func TestSplitVertexPreservesPaths(t *testing.T) {
	g := popins.NewComponentGraph([]byte("AAAACCCC"))
	w := g.AddVertex([]byte("GGGG"))
	g.AddEdge(0, w)

	before := g.EnumeratePaths(0)[0].Seq

	v := g.SplitVertex(0, []byte("AAAA"), []byte("CCCC"))
	if !bytes.Equal(g.Labels[0], []byte("AAAA")) || !bytes.Equal(g.Labels[v], []byte("CCCC")) {
		t.Errorf("labels after split = %q %q; want AAAA CCCC", g.Labels[0], g.Labels[v])
	}
	if len(g.Out[0]) != 1 || g.Out[0][0] != v {
		t.Errorf("u keeps out edges %v; want single edge to %d", g.Out[0], v)
	}
	if len(g.Out[v]) != 1 || g.Out[v][0] != w {
		t.Errorf("v out edges = %v; want the moved edge to %d", g.Out[v], w)
	}

	paths := g.EnumeratePaths(0)
	if len(paths) != 1 {
		t.Fatalf("got %d paths after split; want 1", len(paths))
	}
	if !bytes.Equal(paths[0].Seq, before) {
		t.Errorf("path seq changed by split: %q -> %q", before, paths[0].Seq)
	}
}

func TestPositionMapMonotonic(t *testing.T) {
	g := popins.NewComponentGraph([]byte("AAAACCCC"))
	g.SplitVertex(0, []byte("AAAA"), []byte("CCCC"))
	branch := g.AddVertex([]byte("TTTT"))
	g.AddEdge(1, branch)

	for _, p := range g.EnumeratePaths(0) {
		ends, _ := p.PositionMap()
		for i := 1; i < len(ends); i++ {
			if ends[i] <= ends[i-1] {
				t.Fatalf("position map not strictly increasing: %v", ends)
			}
		}
		if ends[len(ends)-1] != len(p.Seq) {
			t.Errorf("last position %d != path length %d", ends[len(ends)-1], len(p.Seq))
		}
	}
}

func TestEnumeratePathsBranching(t *testing.T) {
	// two branches off the root give two source-to-sink paths
	g := popins.NewComponentGraph([]byte("ACGT"))
	a := g.AddVertex([]byte("AA"))
	b := g.AddVertex([]byte("CC"))
	g.AddEdge(0, a)
	g.AddEdge(0, b)

	paths := g.EnumeratePaths(0)
	if len(paths) != 2 {
		t.Fatalf("got %d paths; want 2", len(paths))
	}
	if !bytes.Equal(paths[0].Seq, []byte("ACGTAA")) || !bytes.Equal(paths[1].Seq, []byte("ACGTCC")) {
		t.Errorf("paths = %q %q; want ACGTAA ACGTCC", paths[0].Seq, paths[1].Seq)
	}
}

func TestEnumeratePathsLimit(t *testing.T) {
	g := popins.NewComponentGraph([]byte("ACGT"))
	for i := 0; i < 31; i++ {
		leaf := g.AddVertex([]byte("TT"))
		g.AddEdge(0, leaf)
	}

	full := g.EnumeratePaths(0)
	if len(full) != 31 {
		t.Fatalf("got %d paths; want 31", len(full))
	}
	capped := g.EnumeratePaths(popins.MaxPathsPerComponent)
	if len(capped) <= popins.MaxPathsPerComponent {
		t.Errorf("capped enumeration returned %d paths; want more than %d to signal the cap",
			len(capped), popins.MaxPathsPerComponent)
	}
}

func TestDotString(t *testing.T) {
	g := popins.NewComponentGraph([]byte("ACGT"))
	leaf := g.AddVertex([]byte("TT"))
	g.AddEdge(0, leaf)
	dot := g.DotString()
	if !bytes.Contains([]byte(dot), []byte("v0")) || !bytes.Contains([]byte(dot), []byte("->")) {
		t.Errorf("DOT output missing nodes or edges:\n%s", dot)
	}
}
