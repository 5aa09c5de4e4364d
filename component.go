/*
 *  component.go
 *  popins
 */

package popins

import "sort"

// Pair is an ordered pair of logical contig indices.
type Pair struct {
	A, B int
}

// ContigComponent is a connected group of contigs judged to overlap.
// AlignedPairs holds both orientations of every verified pair plus
// their reverse-complement twins, sorted.
type ContigComponent struct {
	AlignedPairs []Pair
	Order        []int
	Contigs      [][]byte
	IDs          []ContigID
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
}

// dedupPairs compacts a sorted pair slice in place.
func dedupPairs(pairs []Pair) []Pair {
	out := pairs[:0]
	for i, p := range pairs {
		if i == 0 || p != pairs[i-1] {
			out = append(out, p)
		}
	}
	return out
}

// SortByAlignOrder fills Order, Contigs and IDs by breadth-first
// traversal of the aligned-pair graph, starting from the smaller index
// of the first pair. The traversal order decides the merging order and
// with it the graph topology, so it must be reproducible within a run.
// A component without pairs orders to just its key contig.
func (c *ContigComponent) SortByAlignOrder(key int, batch *ContigBatch) {
	c.Order = c.Order[:0]
	if len(c.AlignedPairs) == 0 {
		c.Order = append(c.Order, key)
	} else {
		neighbors := make(map[int][]int)
		for _, p := range c.AlignedPairs { // sorted, so neighbor lists are sorted
			neighbors[p.A] = append(neighbors[p.A], p.B)
		}

		ordered := map[int]bool{c.AlignedPairs[0].A: true}
		c.Order = append(c.Order, c.AlignedPairs[0].A)
		for i := 0; i < len(c.Order); i++ {
			for _, b := range neighbors[c.Order[i]] {
				if !ordered[b] {
					c.Order = append(c.Order, b)
					ordered[b] = true
				}
			}
		}
	}

	c.Contigs = c.Contigs[:0]
	c.IDs = c.IDs[:0]
	for _, x := range c.Order {
		c.Contigs = append(c.Contigs, batch.Seq(x))
		c.IDs = append(c.IDs, batch.ID(x))
	}
}
