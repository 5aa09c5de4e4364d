/*
 *  entropy_test.go
 *  popins
 */

package popins_test

import (
	"testing"

	"github.com/starling13/popins"
)

func TestFilterByEntropy(t *testing.T) {
	contigs := []*popins.Contig{
		{ID: popins.ContigID{Sample: "s1", Name: "poly", Forward: true},
			Seq: []byte("AAAAAAAAAAAAAAAA")},
		{ID: popins.ContigID{Sample: "s1", Name: "mixed", Forward: true},
			Seq: []byte("ACGTACGTACGTACGTA")},
	}
	batch := popins.NewContigBatch(contigs, []string{"s1.fa"})

	opts := popins.DefaultOptions()
	opts.MinEntropy = 0.4

	passed := popins.FilterByEntropy(batch, opts)
	if passed != 1 {
		t.Fatalf("passed = %d; want 1", passed)
	}
	if batch.Present(0) {
		t.Error("homopolymer not dropped")
	}
	if !batch.Present(1) {
		t.Error("mixed sequence dropped")
	}
}
