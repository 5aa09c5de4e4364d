/*
 *  unionfind_test.go
 *  popins
 */

package popins_test

import (
	"testing"

	"github.com/starling13/popins"
)

func TestUnionFindSingletons(t *testing.T) {
	uf := popins.NewUnionFind(8)
	for i := 0; i < 8; i++ {
		if uf.Find(i) != i {
			t.Errorf("Find(%d)=%d on fresh forest; want %d", i, uf.Find(i), i)
		}
		if uf.Size(i) != 1 {
			t.Errorf("Size(%d)=%d on fresh forest; want 1", i, uf.Size(i))
		}
	}
}

func TestUnionFindJoins(t *testing.T) {
	uf := popins.NewUnionFind(10)
	uf.Union(1, 2)
	uf.Union(3, 4)
	if uf.Find(1) != uf.Find(2) {
		t.Error("1 and 2 not joined")
	}
	if uf.Find(1) == uf.Find(3) {
		t.Error("1 and 3 joined without a union")
	}
	uf.Union(2, 3)
	if uf.Find(1) != uf.Find(4) {
		t.Error("transitive union broken")
	}
	if uf.Size(4) != 4 {
		t.Errorf("Size after unions = %d; want 4", uf.Size(4))
	}
}

func TestUnionFindSizeGrowth(t *testing.T) {
	uf := popins.NewUnionFind(200)
	for i := 1; i < 150; i++ {
		uf.Union(0, i)
	}
	if uf.Size(0) != 150 {
		t.Errorf("Size = %d; want 150", uf.Size(0))
	}
	if uf.Size(0) <= popins.SaturatedSetSize {
		t.Error("set of 150 should count as saturated")
	}
	if uf.Size(199) != 1 {
		t.Errorf("untouched element has size %d; want 1", uf.Size(199))
	}
}
