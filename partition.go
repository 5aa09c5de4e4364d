/*
 *  partition.go
 *  popins
 */

package popins

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/shenwei356/xopen"
	"github.com/willf/bitset"
)

// Partitioner streams contigs against a q-gram index of the whole
// batch and groups overlapping contigs into components via union-find.
type Partitioner struct {
	ContigFiles []string
	Outfile     string
	Opts        Options
}

// Run is the main function body of partition
func (r *Partitioner) Run() error {
	batch, err := LoadContigs(r.ContigFiles)
	if err != nil {
		return err
	}
	FilterByEntropy(batch, r.Opts)

	uf := NewUnionFind(batch.TotalIndices())
	pairs := PartitionContigs(uf, batch, r.Opts)

	if err := WriteAlignedPairs(r.Outfile, pairs); err != nil {
		return err
	}
	log.Noticef("Wrote %d aligned pairs to `%s`", len(pairs), r.Outfile)
	return nil
}

// PartitionContigs runs the filter-and-verify pipeline over the batch.
// Every forward contig is queried against the index; SWIFT candidate
// bands are verified by banded local alignment, and accepted pairs are
// joined in the union-find together with their reverse-complement
// twins. Returns the aligned pairs in acceptance order.
func PartitionContigs(uf *UnionFind, batch *ContigBatch, opts Options) []Pair {
	log.Notice("Partitioning contigs")
	log.Notice("- Indexing batch of contigs")

	// The index maps subset positions to global indices so that dropped
	// contigs keep their slots in the global numbering.
	var seqs [][]byte
	var indices []int
	for g := 0; g < batch.Size(); g++ {
		if !batch.Present(g) {
			continue
		}
		seqs = append(seqs, batch.Seq(g))
		indices = append(indices, g)
	}
	idx := NewQGramIndex(seqs, opts.QGramLength)

	diagExtension := opts.MinScore / 10
	numComparisons := 0
	var pairs []Pair

	log.Notice("- Streaming over all contigs")
	for a := 0; a < batch.Size(); a++ {
		if !batch.Present(a) {
			continue
		}
		query := batch.Seq(a)

		for _, hit := range SwiftCandidates(idx, query, opts.ErrorRate, opts.MinimalLength) {
			b := indices[hit.Target]
			if b == a {
				continue
			}

			// align contigs only of different individuals
			if batch.Sample(a) == batch.Sample(b) {
				continue
			}
			// align contigs only if not in the same component already
			if uf.Find(a) == uf.Find(b) {
				continue
			}

			lower := hit.LowerDiag - diagExtension
			upper := hit.UpperDiag + diagExtension

			// verify by banded Smith-Waterman alignment
			numComparisons++
			aln := BandedLocalAlignment(query, batch.Seq(b), opts.MatchScore, opts.ErrorPenalty, lower, upper)
			if aln.Score <= opts.MinScore {
				continue
			}
			pairs = append(pairs, Pair{a, b})

			// join the two contigs and their reverse complements
			uf.Union(a, b)
			uf.Union(batch.RCIndex(a), batch.RCIndex(b))

			// stop aligning this contig once its component saturates
			if uf.Size(a) > SaturatedSetSize {
				break
			}
		}
	}

	log.Noticef("Number of pairwise comparisons: %d", numComparisons)
	log.Noticef("Number of valid alignments:     %d", len(pairs))
	return pairs
}

// WriteAlignedPairs persists pairs as lines of two decimal indices.
func WriteAlignedPairs(filename string, pairs []Pair) error {
	w, err := xopen.Wopen(filename)
	if err != nil {
		return fmt.Errorf("create pairs file `%s`: %v", filename, err)
	}
	defer w.Close()
	for _, p := range pairs {
		fmt.Fprintf(w, "%d %d\n", p.A, p.B)
	}
	return nil
}

// ReadAlignedPairs reads one pairs file into the union-find and appends
// the new pairs. Pairs whose endpoints are already in the same set are
// skipped, which also deduplicates across input files. n is the forward
// contig count used for reverse-complement index arithmetic.
func ReadAlignedPairs(uf *UnionFind, pairs []Pair, filename string, n int) ([]Pair, error) {
	// an empty regular file holds no pairs; xopen refuses to open it
	if fi, err := os.Stat(filename); err == nil && fi.Mode().IsRegular() && fi.Size() == 0 {
		log.Noticef("Loaded `%s`: %d pairs", filename, 0)
		return pairs, nil
	}

	fh, err := xopen.Ropen(filename)
	if err != nil {
		return pairs, fmt.Errorf("open components file `%s`: %v", filename, err)
	}
	defer fh.Close()

	numPairs := 0
	for {
		var a, b int
		_, err := fmt.Fscan(fh, &a, &b)
		if err == io.EOF {
			break
		}
		if err != nil {
			return pairs, fmt.Errorf("parse components file `%s`: %v", filename, err)
		}

		if uf.Find(a) == uf.Find(b) {
			continue
		}
		pairs = append(pairs, Pair{a, b})
		numPairs++

		uf.Union(a, b)
		uf.Union(rcIndex(a, n), rcIndex(b, n))
	}

	log.Noticef("Loaded `%s`: %d pairs", filename, numPairs)
	return pairs, nil
}

func rcIndex(x, n int) int {
	if x < n {
		return x + n
	}
	return x - n
}

// UnionFindToComponents maps every aligned pair to the component keyed
// by the representative min(find(a), find(rc(a))), inserting the pair,
// its swap, and the reverse-complement twins. The returned bitset over
// all 2N indices is the set excluded from singleton placement; this
// function marks no index in it.
func UnionFindToComponents(uf *UnionFind, pairs []Pair, batch *ContigBatch) (map[int]*ContigComponent, *bitset.BitSet) {
	skipped := bitset.New(uint(batch.TotalIndices()))
	components := make(map[int]*ContigComponent)

	for _, p := range pairs {
		rev1 := batch.RCIndex(p.A)
		rev2 := batch.RCIndex(p.B)
		set := min(uf.Find(p.A), uf.Find(rev1))

		c := components[set]
		if c == nil {
			c = &ContigComponent{}
			components[set] = c
		}
		c.AlignedPairs = append(c.AlignedPairs,
			Pair{p.A, p.B}, Pair{p.B, p.A}, Pair{rev1, rev2}, Pair{rev2, rev1})
	}

	for _, c := range components {
		sortPairs(c.AlignedPairs)
		c.AlignedPairs = dedupPairs(c.AlignedPairs)
	}

	log.Noticef("There are %d components", len(components))
	return components, skipped
}

// AddSingletons creates an empty component for every forward contig
// that aligned to nothing: still present, not skipped, not placed, and
// its own representative.
func AddSingletons(components map[int]*ContigComponent, skipped *bitset.BitSet, uf *UnionFind, batch *ContigBatch) {
	numSingletons := 0
	for i := 0; i < batch.Size(); i++ {
		if batch.Present(i) && !skipped.Test(uint(i)) && components[i] == nil && uf.Find(i) == i {
			components[i] = &ContigComponent{}
			numSingletons++
		}
	}
	log.Noticef("Added %d singletons to components", numSingletons)
}

// ReadAndMergeComponents loads all aligned-pair files into a fresh
// union-find and converts the result to components. When the work is
// split into totalBatches batches, only every totalBatches'th component
// (by key order, offset batchNumber) is kept.
func ReadAndMergeComponents(componentFiles []string, batch *ContigBatch, batchNumber, totalBatches int) (map[int]*ContigComponent, error) {
	log.Notice("Reading and merging components files")

	uf := NewUnionFind(batch.TotalIndices())
	var pairs []Pair
	var err error
	for _, file := range componentFiles {
		if pairs, err = ReadAlignedPairs(uf, pairs, file, batch.Size()); err != nil {
			return nil, err
		}
	}

	components, skipped := UnionFindToComponents(uf, pairs, batch)
	AddSingletons(components, skipped, uf, batch)

	if totalBatches > 1 {
		keys := sortedKeys(components)
		for p, key := range keys {
			if p%totalBatches != batchNumber {
				delete(components, key)
			}
		}
	}
	return components, nil
}

func sortedKeys(components map[int]*ContigComponent) []int {
	keys := make([]int, 0, len(components))
	for key := range components {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}
