/*
 *  component_test.go
 *  popins
 */

package popins_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/starling13/popins"
)

func dummyBatch(n int, files ...string) *popins.ContigBatch {
	contigs := make([]*popins.Contig, n)
	for i := range contigs {
		sample := files[i%len(files)]
		contigs[i] = &popins.Contig{
			ID:  popins.ContigID{Sample: popins.SampleName(sample), Name: fmt.Sprintf("c%d", i), Forward: true},
			Seq: []byte("ACGT"),
		}
	}
	return popins.NewContigBatch(contigs, files)
}

func TestSortByAlignOrderBFS(t *testing.T) {
	batch := dummyBatch(10, "s1.fa", "s2.fa")
	c := &popins.ContigComponent{
		AlignedPairs: []popins.Pair{
			{3, 7}, {7, 3}, {7, 9}, {9, 7},
		},
	}
	c.SortByAlignOrder(3, batch)
	want := []int{3, 7, 9}
	if len(c.Order) != len(want) {
		t.Fatalf("order = %v; want %v", c.Order, want)
	}
	for i := range want {
		if c.Order[i] != want[i] {
			t.Fatalf("order = %v; want %v", c.Order, want)
		}
	}
	if len(c.Contigs) != 3 || len(c.IDs) != 3 {
		t.Errorf("contigs/ids not filled: %d/%d", len(c.Contigs), len(c.IDs))
	}
}

func TestSortByAlignOrderSingleton(t *testing.T) {
	batch := dummyBatch(4, "s1.fa")
	c := &popins.ContigComponent{}
	c.SortByAlignOrder(2, batch)
	if len(c.Order) != 1 || c.Order[0] != 2 {
		t.Fatalf("singleton order = %v; want [2]", c.Order)
	}
	if len(c.Contigs) != 1 || !bytes.Equal(c.Contigs[0], []byte("ACGT")) {
		t.Errorf("singleton contig not resolved")
	}
}

func TestBatchRCIndexing(t *testing.T) {
	batch := dummyBatch(3, "s1.fa")
	if batch.RCIndex(0) != 3 || batch.RCIndex(3) != 0 {
		t.Errorf("RCIndex round trip broken: %d %d", batch.RCIndex(0), batch.RCIndex(3))
	}
	if got := batch.Seq(3); !bytes.Equal(got, []byte("ACGT")) {
		t.Errorf("rc of ACGT = %q; want ACGT", got)
	}
	rc := popins.ReverseComplement([]byte("AACG"))
	if !bytes.Equal(rc, []byte("CGTT")) {
		t.Errorf("ReverseComplement(AACG) = %q; want CGTT", rc)
	}
	if !bytes.Equal(popins.ReverseComplement([]byte("ANT")), []byte("ANT")) {
		t.Errorf("N must complement to N")
	}
}
