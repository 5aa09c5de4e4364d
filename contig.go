/*
 *  contig.go
 *  popins
 */

package popins

import (
	"fmt"
	"io"
	"strings"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/willf/bitset"
)

// ContigID identifies a contig by sample, name and strand.
type ContigID struct {
	Sample  string
	Name    string
	Forward bool
}

func (r ContigID) String() string {
	return r.Sample + "_" + r.Name
}

// Contig is one assembled sequence from a single sample.
type Contig struct {
	ID  ContigID
	Seq []byte
}

// ContigBatch holds the contigs of all sample files. A physical contig
// occupies two logical indices: g for the forward sequence and g+N for
// its reverse complement, N being the forward contig count.
type ContigBatch struct {
	Files   []string
	contigs []*Contig
	offsets []int // first global index per file
	present *bitset.BitSet
	rc      map[int][]byte // lazily computed reverse complements
}

// NewContigBatch wraps already loaded contigs, e.g. in tests.
func NewContigBatch(contigs []*Contig, files []string) *ContigBatch {
	b := &ContigBatch{Files: files, contigs: contigs}
	b.present = bitset.New(uint(len(contigs)))
	for i := range contigs {
		b.present.Set(uint(i))
	}
	b.rc = make(map[int][]byte)
	return b
}

// LoadContigs reads all sample FASTA files into a batch.
func LoadContigs(files []string) (*ContigBatch, error) {
	b := &ContigBatch{Files: files, rc: make(map[int][]byte)}
	seq.ValidateSeq = false // This flag makes parsing FASTA much faster

	for _, file := range files {
		sample := SampleName(file)
		b.offsets = append(b.offsets, len(b.contigs))

		reader, err := fastx.NewDefaultReader(file)
		if err != nil {
			return nil, fmt.Errorf("open contig file `%s`: %v", file, err)
		}
		n := 0
		for {
			rec, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("read contig file `%s`: %v", file, err)
			}
			name := strings.Fields(string(rec.Name))[0]
			s := make([]byte, len(rec.Seq.Seq))
			copy(s, rec.Seq.Seq)
			b.contigs = append(b.contigs, &Contig{
				ID:  ContigID{Sample: sample, Name: name, Forward: true},
				Seq: s,
			})
			n++
		}
		log.Noticef("Loaded %d contigs from `%s`", n, file)
	}

	b.present = bitset.New(uint(len(b.contigs)))
	for i := range b.contigs {
		b.present.Set(uint(i))
	}
	return b, nil
}

// Size is the number of physical (forward) contigs.
func (b *ContigBatch) Size() int {
	return len(b.contigs)
}

// TotalIndices is the logical index space size, forward plus reverse.
func (b *ContigBatch) TotalIndices() int {
	return 2 * len(b.contigs)
}

// RCIndex maps a logical index to the index of its reverse complement.
func (b *ContigBatch) RCIndex(x int) int {
	if x < len(b.contigs) {
		return x + len(b.contigs)
	}
	return x - len(b.contigs)
}

// Present reports whether the forward contig at index g survived filtering.
func (b *ContigBatch) Present(g int) bool {
	if g >= len(b.contigs) {
		g -= len(b.contigs)
	}
	return b.present.Test(uint(g))
}

// Drop removes a forward contig from the working set. Its indices stay
// allocated so that global indexing is unaffected.
func (b *ContigBatch) Drop(g int) {
	b.present.Clear(uint(g))
}

// Contig returns the physical contig behind a logical index.
func (b *ContigBatch) Contig(x int) *Contig {
	if x >= len(b.contigs) {
		x -= len(b.contigs)
	}
	return b.contigs[x]
}

// Seq returns the sequence at a logical index, reverse complemented for
// indices in the upper half.
func (b *ContigBatch) Seq(x int) []byte {
	n := len(b.contigs)
	if x < n {
		return b.contigs[x].Seq
	}
	if rc, ok := b.rc[x]; ok {
		return rc
	}
	rc := ReverseComplement(b.contigs[x-n].Seq)
	b.rc[x] = rc
	return rc
}

// ID returns the identifier at a logical index with the strand set.
func (b *ContigBatch) ID(x int) ContigID {
	id := b.Contig(x).ID
	id.Forward = x < len(b.contigs)
	return id
}

// Sample returns the sample tag of the contig at a logical index.
func (b *ContigBatch) Sample(x int) string {
	return b.Contig(x).ID.Sample
}
