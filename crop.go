/*
 *  crop.go
 *  popins
 */

package popins

import (
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/shenwei356/xopen"
)

// Cropper extracts the reads of a sample that did not place on the
// reference: unmapped reads plus reads mapped with low quality. The
// surviving reads are quality-trimmed and written as FASTA, the input
// for per-sample contig assembly. This step is a collaborator of the
// merger core; partition and merge accept contigs from any source.
type Cropper struct {
	Bamfile    string
	Outfile    string
	QualThresh int
}

var asTag = sam.Tag{'A', 'S'}

// Run is the main function body of crop
func (r *Cropper) Run() error {
	mustExist(r.Bamfile)
	fh, err := os.Open(r.Bamfile)
	if err != nil {
		return fmt.Errorf("open bamfile `%s`: %v", r.Bamfile, err)
	}
	defer fh.Close()

	log.Noticef("Parse bamfile `%s`", r.Bamfile)
	br, err := bam.NewReader(fh, 0)
	if err != nil {
		return fmt.Errorf("read bamfile `%s`: %v", r.Bamfile, err)
	}
	defer br.Close()

	out, err := xopen.Wopen(r.Outfile)
	if err != nil {
		return fmt.Errorf("create output file `%s`: %v", r.Outfile, err)
	}
	defer out.Close()

	total, kept := 0, 0
	for {
		rec, err := br.Read()
		if err != nil {
			if err != io.EOF {
				return fmt.Errorf("read bamfile `%s`: %v", r.Bamfile, err)
			}
			break
		}
		total++

		if rec.Flags&sam.Unmapped == 0 && !hasLowMappingQuality(rec) {
			continue
		}

		seq := QualityTrim(rec.Seq.Expand(), rec.Qual, r.QualThresh)
		if len(seq) < MinCroppedReadLen {
			continue
		}
		fmt.Fprintf(out, ">%s\n%s\n", rec.Name, seq)
		kept++
	}

	log.Noticef("Cropped %s reads to `%s`", Percentage(kept, total), r.Outfile)
	return nil
}

// hasLowMappingQuality reports whether a mapped read should be treated
// as unplaced. A mapping is accepted outright when the mate maps within
// 1000 bp in the opposite orientation. Otherwise it is low quality when
// the cigar has fewer than 50 aligned bases, when both ends are
// soft-clipped by more than 24 bases, or when the aligner's AS score is
// below half the read length.
func hasLowMappingQuality(rec *sam.Record) bool {
	if rec.Ref == rec.MateRef && abs(rec.Pos-rec.MatePos) < 1000 &&
		(rec.Flags&sam.Reverse == 0) != (rec.Flags&sam.MateReverse == 0) {
		return false
	}

	matches := 0
	for _, op := range rec.Cigar {
		if op.Type() == sam.CigarMatch {
			matches += op.Len()
		}
	}
	if matches < 50 {
		return true
	}

	if n := len(rec.Cigar); n > 1 &&
		rec.Cigar[0].Type() == sam.CigarSoftClipped && rec.Cigar[0].Len() > 24 &&
		rec.Cigar[n-1].Type() == sam.CigarSoftClipped && rec.Cigar[n-1].Len() > 24 {
		return true
	}

	if aux := rec.AuxFields.Get(asTag); aux != nil {
		if score, ok := auxInt(aux); ok && score < rec.Seq.Length/2 {
			return true
		}
	}
	return false
}

func auxInt(aux sam.Aux) (int, bool) {
	switch v := aux.Value().(type) {
	case int8:
		return int(v), true
	case uint8:
		return int(v), true
	case int16:
		return int(v), true
	case uint16:
		return int(v), true
	case int32:
		return int(v), true
	case uint32:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// QualityTrim cuts low-quality ends off a read. A sliding window of
// size max(5, len/10) scans from each end; the read is cut where the
// window mean first reaches thresh, then advanced past any leading
// bases still below thresh. Returns nil when no window qualifies.
// Qualities are raw phred scores as stored in BAM.
func QualityTrim(seq, qual []byte, thresh int) []byte {
	if len(seq) != len(qual) || len(seq) == 0 {
		return seq
	}
	window := max(5, len(qual)/10)
	if window > len(qual) {
		window = len(qual)
	}
	windowThresh := thresh * window

	// from the left
	sum := 0
	for i := 0; i < window; i++ {
		sum += int(qual[i])
	}
	begin := -1
	for i := 0; ; i++ {
		if sum >= windowThresh {
			begin = i
			for begin < len(qual) && int(qual[begin]) < thresh {
				begin++
			}
			break
		}
		if i+window >= len(qual) {
			return nil
		}
		sum += int(qual[i+window]) - int(qual[i])
	}

	// from the right
	sum = 0
	for i := len(qual) - window; i < len(qual); i++ {
		sum += int(qual[i])
	}
	end := -1
	for i := len(qual); ; i-- {
		if sum >= windowThresh {
			end = i
			for end > begin && int(qual[end-1]) < thresh {
				end--
			}
			break
		}
		if i-window <= 0 {
			return nil
		}
		sum += int(qual[i-window-1]) - int(qual[i-1])
	}

	if begin >= end {
		return nil
	}
	return seq[begin:end]
}
