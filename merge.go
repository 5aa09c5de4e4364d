/*
 *  merge.go
 *  popins
 */

package popins

import (
	"fmt"
	"io"
	"math"

	"github.com/exascience/pargo/parallel"
	"github.com/shenwei356/xopen"
)

// Merger builds one or a few supercontigs per component by iteratively
// aligning the component's contigs against the paths of a growing
// sequence graph.
type Merger struct {
	ComponentFiles []string
	ContigFiles    []string
	Outfile        string
	BatchNumber    int
	TotalBatches   int
	Opts           Options
}

// Run is the main function body of merge
func (r *Merger) Run() error {
	batch, err := LoadContigs(r.ContigFiles)
	if err != nil {
		return err
	}
	// Reapply the entropy filter so contigs dropped by the partition step
	// are not emitted as singletons.
	FilterByEntropy(batch, r.Opts)

	components, err := ReadAndMergeComponents(r.ComponentFiles, batch, r.BatchNumber, r.TotalBatches)
	if err != nil {
		return err
	}
	return ConstructSupercontigs(components, batch, r.Opts, r.Outfile, r.BatchNumber)
}

// MergeSeqWithGraph splices seq into the graph along its best path
// alignment. The aligned middle is taken verbatim from the path; only
// the unaligned flanks are grafted. A flank at the path boundary
// extends the boundary vertex in place; an inner flank longer than
// minBranchLen becomes a branch vertex, splitting the covering vertex
// when the alignment ends inside it; shorter inner flanks are dropped.
func MergeSeqWithGraph(g *ComponentGraph, path *GraphPath, seq []byte, aln Alignment, minBranchLen int) {
	// --- right end of the alignment
	alignEndSeq := aln.End2
	alignEndPath := aln.End1

	if alignEndSeq < len(seq) {
		vEnd, v := path.vertexCoveringEnd(alignEndPath)

		if alignEndPath == len(path.Seq) {
			// alignment ends at a sink: extend the sink vertex
			g.Labels[v] = append(g.Labels[v], seq[alignEndSeq:]...)
		} else if len(seq)-alignEndSeq > minBranchLen {
			if vEnd > alignEndPath {
				// split so the alignment ends exactly at the vertex boundary
				splitPos := len(g.Labels[v]) - (vEnd - alignEndPath)
				g.SplitVertex(v, g.Labels[v][:splitPos], g.Labels[v][splitPos:])
			}
			vBranch := g.AddVertex(seq[alignEndSeq:])
			g.AddEdge(v, vBranch)
		}
	}

	// --- left end of the alignment
	alignBeginSeq := aln.Begin2
	alignBeginPath := aln.Begin1

	if alignBeginSeq > 0 {
		uEnd, u := path.vertexCoveringBegin(alignBeginPath)

		if alignBeginPath == 0 {
			// alignment starts at a source: prepend to the source vertex
			label := make([]byte, 0, alignBeginSeq+len(g.Labels[u]))
			label = append(label, seq[:alignBeginSeq]...)
			label = append(label, g.Labels[u]...)
			g.Labels[u] = label
		} else if alignBeginSeq > minBranchLen {
			uSplit := u
			if uEnd-len(g.Labels[u]) < alignBeginPath {
				// alignment starts strictly inside u
				splitPos := len(g.Labels[u]) - (uEnd - alignBeginPath)
				uSplit = g.SplitVertex(u, g.Labels[u][:splitPos], g.Labels[u][splitPos:])
			}
			uBranch := g.AddVertex(seq[:alignBeginSeq])
			g.Sources = append(g.Sources, uBranch)
			g.AddEdge(uBranch, uSplit)
		}
	}
}

// addSequencesToGraph merges seqs[1:] into the graph one by one. Each
// iteration aligns the next contig against every source-to-sink path,
// banded around the best q-gram diagonal, and splices it into the
// highest-scoring one. Returns false when the path enumeration exceeds
// MaxPathsPerComponent.
func addSequencesToGraph(g *ComponentGraph, seqs [][]byte, opts Options) bool {
	for i := 1; i < len(seqs); i++ {
		paths := g.EnumeratePaths(MaxPathsPerComponent + 1)
		if len(paths) > MaxPathsPerComponent {
			return false
		}

		maxScore := math.MinInt
		var bestPath *GraphPath
		var bestAln Alignment

		for _, p := range paths {
			diag := BestDiagonal(seqs[i], p.Seq, opts.QGramLength)

			var aln Alignment
			if diag == NoDiagonal {
				aln = LocalAlignment(p.Seq, seqs[i], opts.MatchScore, opts.ErrorPenalty)
			} else {
				aln = BandedLocalAlignment(p.Seq, seqs[i], opts.MatchScore, opts.ErrorPenalty,
					diag-MergeBandWidth, diag+MergeBandWidth)
			}

			if aln.Score > maxScore {
				maxScore = aln.Score
				bestPath = p
				bestAln = aln
			}
		}

		// Low-scoring alignments are spliced anyway: the component's
		// union-find grouping already vouched for the overlap.
		MergeSeqWithGraph(g, bestPath, seqs[i], bestAln, opts.MinTipScore)
	}
	return true
}

// MergeSequences merges a component's ordered contigs into supercontig
// sequences, one per source-to-sink path of the final graph. The second
// return value is false when the component was given up on.
func MergeSequences(seqs [][]byte, opts Options) ([][]byte, bool) {
	g := NewComponentGraph(seqs[0])
	if !addSequencesToGraph(g, seqs, opts) {
		return nil, false
	}

	finalPaths := g.EnumeratePaths(0)

	if opts.Verbose && g.NumVertices() > 1 {
		log.Debugf("Component graph:\n%s", g.DotString())
		for v := 0; v < g.NumVertices(); v++ {
			log.Debugf("Vertex: %d, Length: %d", v, len(g.Labels[v]))
		}
	}

	merged := make([][]byte, len(finalPaths))
	for i, p := range finalPaths {
		merged[i] = p.Seq
	}
	return merged, true
}

// WriteSupercontigs emits one FASTA record per merged sequence with
// headers COMPONENT_<batch>.<pos>_<tag>_length_<L>_size_<C>. Tags are
// single letters a, b, ... for up to 25 sequences, otherwise two
// letters aa, ab, ...
func WriteSupercontigs(w io.Writer, merged [][]byte, numContigs, batchIndex, pos int) {
	for i, seq := range merged {
		var tag string
		if len(merged) <= 25 {
			tag = string(rune('a' + i))
		} else {
			tag = string([]rune{rune('a' + i/26), rune('a' + i%26)})
		}
		fmt.Fprintf(w, ">COMPONENT_%d.%d_%s_length_%d_size_%d\n%s\n",
			batchIndex, pos, tag, len(seq), numContigs, seq)
	}
}

type mergeResult struct {
	merged [][]byte
	ok     bool
}

// ConstructSupercontigs orders, merges and emits all components.
// Components are merged on parallel workers (each merge only touches
// its own graph); emission follows component key order. Singletons are
// emitted verbatim under their original id, components larger than
// ComponentSizeFactor times the sample count are skipped, and
// components whose path enumeration explodes are given up on.
func ConstructSupercontigs(components map[int]*ContigComponent, batch *ContigBatch, opts Options, outfile string, batchIndex int) error {
	log.Notice("Constructing supercontigs")

	keys := sortedKeys(components)
	maxSize := ComponentSizeFactor * len(batch.Files)

	for _, key := range keys {
		components[key].SortByAlignOrder(key, batch)
	}

	results := make([]mergeResult, len(keys))
	parallel.Range(0, len(keys), 0, func(low, high int) {
		for k := low; k < high; k++ {
			c := components[keys[k]]
			if len(c.Contigs) <= 1 || len(c.Contigs) > maxSize {
				continue
			}
			merged, ok := MergeSequences(c.Contigs, opts)
			results[k] = mergeResult{merged, ok}
		}
	})

	out, err := xopen.Wopen(outfile)
	if err != nil {
		return fmt.Errorf("create output file `%s`: %v", outfile, err)
	}
	defer out.Close()

	numSingleton := 0
	numBranching := 0
	numVeryBranching := 0
	numTooLarge := 0

	pos := 0
	for k := range keys {
		c := components[keys[k]]

		if len(c.Contigs) > maxSize {
			if opts.Verbose {
				log.Debugf("COMPONENT_%d size:%d skipped", pos, len(c.Contigs))
			}
			numTooLarge++
			continue
		}

		if len(c.Contigs) == 1 {
			fmt.Fprintf(out, ">%s\n%s\n", c.IDs[0], c.Contigs[0])
			numSingleton++
			continue
		}

		if !results[k].ok {
			if opts.Verbose {
				log.Debugf("COMPONENT_%d.%d size:%d given up", batchIndex, pos, len(c.Contigs))
			}
			numVeryBranching++
			numBranching++
			pos++
			continue
		}

		if len(results[k].merged) > 1 {
			numBranching++
		}
		WriteSupercontigs(out, results[k].merged, len(c.Contigs), batchIndex, pos)
		pos++
	}

	log.Noticef("%d components are merged from several contigs", len(components)-numSingleton)
	log.Noticef("%d contigs did not align with any other contig", numSingleton)
	log.Noticef("%d components are branching, given up on %d of them", numBranching, numVeryBranching)
	log.Noticef("%d components exceeded the maximum number of contigs for merging", numTooLarge)
	return nil
}
