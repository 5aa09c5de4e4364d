/*
 *  qgram.go
 *  popins
 */

package popins

import (
	"github.com/cespare/xxhash"
)

// QGramOcc is one occurrence of a q-gram in an indexed sequence.
type QGramOcc struct {
	Seq int32 // position in the index's sequence list
	Pos int32 // offset of the q-gram within that sequence
}

type qgramEntry struct {
	hash uint64
	occs []QGramOcc
}

// QGramIndex stores all q-gram occurrences of a set of sequences in an
// open-addressing hash table keyed by the xxhash of the q-gram bytes.
// Hash collisions are tolerated: a false occurrence only costs one
// extra alignment in the verification step.
type QGramIndex struct {
	Q       int
	Seqs    [][]byte
	buckets []int32 // entry index + 1, 0 marks an empty slot
	entries []qgramEntry
	mask    uint64
}

// NewQGramIndex builds the index over the given sequences. Windows
// containing a base outside ACGT are not indexed.
func NewQGramIndex(seqs [][]byte, q int) *QGramIndex {
	idx := &QGramIndex{Q: q, Seqs: seqs}

	total := 0
	for _, s := range seqs {
		if len(s) >= q {
			total += len(s) - q + 1
		}
	}
	size := 64
	for size < 2*total {
		size *= 2
	}
	idx.buckets = make([]int32, size)
	idx.mask = uint64(size - 1)

	for si, s := range seqs {
		forEachWindow(s, q, func(pos int, window []byte) {
			idx.insert(xxhash.Sum64(window), QGramOcc{Seq: int32(si), Pos: int32(pos)})
		})
	}
	return idx
}

// forEachWindow calls fn for every length-q window of s made of ACGT only.
func forEachWindow(s []byte, q int, fn func(pos int, window []byte)) {
	if q <= 0 || len(s) < q {
		return
	}
	// invalid counts the non-ACGT bases in the current window
	invalid := 0
	for i := 0; i < q; i++ {
		if baseCode[s[i]] < 0 {
			invalid++
		}
	}
	for i := 0; ; i++ {
		if invalid == 0 {
			fn(i, s[i:i+q])
		}
		if i+q >= len(s) {
			return
		}
		if baseCode[s[i]] < 0 {
			invalid--
		}
		if baseCode[s[i+q]] < 0 {
			invalid++
		}
	}
}

func (idx *QGramIndex) insert(hash uint64, occ QGramOcc) {
	slot := hash & idx.mask
	for idx.buckets[slot] != 0 {
		e := &idx.entries[idx.buckets[slot]-1]
		if e.hash == hash {
			e.occs = append(e.occs, occ)
			return
		}
		slot = (slot + 1) & idx.mask
	}
	idx.entries = append(idx.entries, qgramEntry{hash: hash, occs: []QGramOcc{occ}})
	idx.buckets[slot] = int32(len(idx.entries))
}

// Lookup returns all occurrences of the q-gram window.
func (idx *QGramIndex) Lookup(window []byte) []QGramOcc {
	hash := xxhash.Sum64(window)
	slot := hash & idx.mask
	for idx.buckets[slot] != 0 {
		e := &idx.entries[idx.buckets[slot]-1]
		if e.hash == hash {
			return e.occs
		}
		slot = (slot + 1) & idx.mask
	}
	return nil
}
