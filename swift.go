/*
 *  swift.go
 *  popins
 */

package popins

import "sort"

// SwiftHit is a diagonal band on one indexed sequence that accumulated
// enough q-gram hits to justify verification by banded alignment.
type SwiftHit struct {
	Target    int // position in the index's sequence list
	LowerDiag int
	UpperDiag int
}

// SwiftCandidates runs a SWIFT-style filter of the query against every
// indexed sequence. A q-gram match of query position i and target
// position o lies on diagonal i-o. Diagonals of one target are
// clustered with drift tolerance derived from the error rate; a cluster
// passes when it holds at least tau hits, with
//
//	e   = floor(errorRate * minLength)
//	tau = max(1, minLength + 1 - q*(e+1))
//
// the q-gram lemma threshold for a match of length minLength with e
// errors.
func SwiftCandidates(idx *QGramIndex, query []byte, errorRate float64, minLength int) []SwiftHit {
	q := idx.Q
	e := int(errorRate * float64(minLength))
	tau := max(1, minLength+1-q*(e+1))
	drift := e + 1

	// Collect hit diagonals per target.
	diags := make(map[int][]int)
	forEachWindow(query, q, func(i int, window []byte) {
		for _, occ := range idx.Lookup(window) {
			t := int(occ.Seq)
			diags[t] = append(diags[t], i-int(occ.Pos))
		}
	})

	targets := make([]int, 0, len(diags))
	for t := range diags {
		targets = append(targets, t)
	}
	sort.Ints(targets)

	var hits []SwiftHit
	for _, t := range targets {
		ds := diags[t]
		sort.Ints(ds)
		// Group diagonals whose neighbors are within the drift bound.
		lo := 0
		for lo < len(ds) {
			hi := lo
			for hi+1 < len(ds) && ds[hi+1]-ds[hi] <= drift {
				hi++
			}
			if hi-lo+1 >= tau {
				hits = append(hits, SwiftHit{
					Target:    t,
					LowerDiag: ds[lo],
					UpperDiag: ds[hi],
				})
			}
			lo = hi + 1
		}
	}
	return hits
}
