/*
 *  base.go
 *  popins
 */

package popins

import (
	"fmt"
	"os"
	"path"
	"strings"

	logging "github.com/op/go-logging"
)

const (
	// Version is the current version of POPINS
	Version = "0.2.1"
	// MaxPathsPerComponent caps path enumeration; components above it are given up
	MaxPathsPerComponent = 30
	// SaturatedSetSize: a query stops adding edges once its component grows beyond this size
	SaturatedSetSize = 100
	// MergeBandWidth is the half-width of the alignment band around the best diagonal
	MergeBandWidth = 25
	// ComponentSizeFactor times the number of sample files bounds mergeable components
	ComponentSizeFactor = 10
	// MinSeedLength is the smallest q-gram length bestDiagonal retries with
	MinSeedLength = 3
	// MinCroppedReadLen is the shortest trimmed read the crop step keeps
	MinCroppedReadLen = 60
)

var log = logging.MustGetLogger("popins")
var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05} %{shortfunc} ▶ %{level:.4s} %{color:reset} %{message}`,
)

// Backend is the default stderr output
var Backend = logging.NewLogBackend(os.Stderr, "", 0)

// BackendFormatter contains the fancy debug formatter
var BackendFormatter = logging.NewBackendFormatter(Backend, format)

// Options holds the scoring and filtering parameters shared by the
// partition and merge steps.
type Options struct {
	QGramLength   int     // seed length q
	MatchScore    int     // match reward
	ErrorPenalty  int     // mismatch and gap cost (negative)
	MinScore      int     // verification threshold
	MinimalLength int     // SWIFT minimum match length
	ErrorRate     float64 // SWIFT error tolerance
	MinTipScore   int     // minimum flank length for grafting a branch
	MinEntropy    float64 // dinucleotide entropy cutoff
	Verbose       bool
}

// DefaultOptions returns the parameter set used when no flags are given.
func DefaultOptions() Options {
	return Options{
		QGramLength:   47,
		MatchScore:    1,
		ErrorPenalty:  -5,
		MinScore:      90,
		MinimalLength: 100,
		ErrorRate:     0.05,
		MinTipScore:   30,
		MinEntropy:    0.75,
	}
}

// RemoveExt returns the substring minus the extension
func RemoveExt(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename))
}

// SampleName derives the sample identifier from a contig file path.
func SampleName(filename string) string {
	return RemoveExt(path.Base(filename))
}

// abs gets the absolute value of an int
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// min gets the minimum for two ints
func min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

// max gets the maximum for two ints
func max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

// Percentage prints a human readable message of the percentage
func Percentage(a, b int) string {
	return fmt.Sprintf("%d of %d (%.1f %%)", a, b, float64(a)*100./float64(b))
}

var complement [256]byte

func init() {
	for i := range complement {
		complement[i] = 'N'
	}
	complement['A'], complement['a'] = 'T', 'T'
	complement['C'], complement['c'] = 'G', 'G'
	complement['G'], complement['g'] = 'C', 'C'
	complement['T'], complement['t'] = 'A', 'A'
}

// ReverseComplement returns the sequence of the opposite strand.
func ReverseComplement(seq []byte) []byte {
	rc := make([]byte, len(seq))
	for i, b := range seq {
		rc[len(seq)-1-i] = complement[b]
	}
	return rc
}

// baseCode maps A,C,G,T to 0..3; anything else, N included, to -1.
var baseCode [256]int8

func init() {
	for i := range baseCode {
		baseCode[i] = -1
	}
	baseCode['A'], baseCode['a'] = 0, 0
	baseCode['C'], baseCode['c'] = 1, 1
	baseCode['G'], baseCode['g'] = 2, 2
	baseCode['T'], baseCode['t'] = 3, 3
}

// mustExist logs a fatal error if filename does not exist
func mustExist(filename string) {
	if _, err := os.Stat(filename); err != nil {
		log.Fatalf("File `%s` not found", filename)
	}
}
