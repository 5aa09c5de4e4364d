/*
 *  align.go
 *  popins
 */

package popins

import "math"

// NoDiagonal means no q-gram seed was found; alignment runs unbanded.
const NoDiagonal = math.MaxInt32

// Alignment is the result of a local alignment. Begin/End are source
// positions of the aligned region, half-open, in the first and second
// sequence. The merger only consumes the endpoints: the aligned middle
// is taken verbatim from the chosen path.
type Alignment struct {
	Score  int
	Begin1 int
	End1   int
	Begin2 int
	End2   int
}

// LocalAlignment computes an unbanded Smith-Waterman local alignment.
// Gap open and gap extension both cost penalty (linear gaps).
func LocalAlignment(s1, s2 []byte, match, penalty int) Alignment {
	return BandedLocalAlignment(s1, s2, match, penalty, -len(s2), len(s1))
}

// BandedLocalAlignment computes a Smith-Waterman local alignment
// restricted to diagonals lower <= i-j <= upper, where i indexes s1 and
// j indexes s2. Cells outside the band are unreachable; moves from them
// are not taken. Ties prefer the diagonal move, then the vertical one,
// so equal-scoring alignments resolve consistently within a run.
func BandedLocalAlignment(s1, s2 []byte, match, penalty int, lower, upper int) Alignment {
	len1, len2 := len(s1), len(s2)
	if len1 == 0 || len2 == 0 || lower > upper {
		return Alignment{}
	}
	if lower > len1 || upper < -len2 {
		return Alignment{}
	}

	cols := len2 + 1
	score := make([]int32, (len1+1)*cols)
	orig1 := make([]int32, (len1+1)*cols)
	orig2 := make([]int32, (len1+1)*cols)

	var best Alignment
	for i := 1; i <= len1; i++ {
		jlo := max(1, i-upper)
		jhi := min(len2, i-lower)
		for j := jlo; j <= jhi; j++ {
			idx := i*cols + j
			diag := (i-1)*cols + (j - 1) // diagonal predecessor

			sub := int32(penalty)
			if s1[i-1] == s2[j-1] {
				sub = int32(match)
			}

			v := score[diag] + sub
			o1, o2 := orig1[diag], orig2[diag]
			if score[diag] == 0 {
				o1, o2 = int32(i-1), int32(j-1)
			}

			// vertical: consume s1[i-1], predecessor on diagonal i-1-j
			if i-1-j >= lower {
				up := i*cols + j - cols
				if w := score[up] + int32(penalty); w > v {
					v = w
					o1, o2 = orig1[up], orig2[up]
				}
			}
			// horizontal: consume s2[j-1], predecessor on diagonal i-j+1
			if i-j+1 <= upper {
				left := idx - 1
				if w := score[left] + int32(penalty); w > v {
					v = w
					o1, o2 = orig1[left], orig2[left]
				}
			}

			if v <= 0 {
				continue
			}
			score[idx] = v
			orig1[idx] = o1
			orig2[idx] = o2
			if int(v) > best.Score {
				best = Alignment{
					Score:  int(v),
					Begin1: int(o1),
					End1:   i,
					Begin2: int(o2),
					End2:   j,
				}
			}
		}
	}
	return best
}

// BestDiagonal returns the diagonal with the most shared q-grams
// between s1 and s2, counting a hit of s2 position i against s1
// position o on diagonal i-o. When q exceeds a sequence length or no
// diagonal has a hit, it retries with q' = 2q/3; below a seed length of
// 3 it gives up and returns NoDiagonal.
func BestDiagonal(s1, s2 []byte, q int) int {
	for q >= MinSeedLength {
		if q > len(s1) || q > len(s2) {
			q = q * 2 / 3
			continue
		}

		idx := NewQGramIndex([][]byte{s1}, q)
		counters := make([]int, len(s1)+len(s2))
		forEachWindow(s2, q, func(i int, window []byte) {
			for _, occ := range idx.Lookup(window) {
				counters[len(s1)+i-int(occ.Pos)]++
			}
		})

		diag := NoDiagonal
		maxCount := 0
		for i, c := range counters {
			if c > maxCount {
				maxCount = c
				diag = i - len(s1)
			}
		}
		if diag != NoDiagonal {
			return diag
		}
		q = q * 2 / 3
	}
	return NoDiagonal
}
