// Copyright © 2024-2025 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package fastq

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shenwei356/bio/seq"
)

func init() {
	seq.ValidateSeq = false
}

func writeTestFastq(t *testing.T, records int) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "test.fastq")
	fh, err := os.Create(file)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < records; i++ {
		fmt.Fprintf(fh, "@read%d some description\nACGTACGT\n+\nIIIIIIII\n", i)
	}
	if err = fh.Close(); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestReadChunk(t *testing.T) {
	file := writeTestFastq(t, 10)

	r, err := NewReader(file)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	c, err := r.ReadChunk(4)
	if err != nil {
		t.Fatal(err)
	}
	if c.N() != 4 {
		t.Fatalf("first chunk: %d records", c.N())
	}
	if string(c.Names[0]) != "read0 some description" {
		t.Errorf("name = %q", c.Names[0])
	}
	if string(c.Seqs[1]) != "ACGTACGT" {
		t.Errorf("seq = %q", c.Seqs[1])
	}
	if string(c.Quals[2]) != "IIIIIIII" {
		t.Errorf("qual = %q", c.Quals[2])
	}
	RecycleChunk(c)

	var total int
	for {
		c, err = r.ReadChunk(4)
		if err != nil {
			t.Fatal(err)
		}
		if c.N() == 0 {
			RecycleChunk(c)
			break
		}
		total += c.N()
		RecycleChunk(c)
	}
	if total != 6 {
		t.Errorf("remaining records = %d, want 6", total)
	}
}

func TestWriteChunk(t *testing.T) {
	in := writeTestFastq(t, 3)
	out := filepath.Join(t.TempDir(), "out.fastq")

	r, err := NewReader(in)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	c, err := r.ReadChunk(10)
	if err != nil {
		t.Fatal(err)
	}
	if c.N() != 3 {
		t.Fatalf("%d records", c.N())
	}

	pattern, err := ParsePattern("{cell}_{read_name}", []string{"cell"})
	if err != nil {
		t.Fatal(err)
	}

	w, err := NewWriter(out, pattern)
	if err != nil {
		t.Fatal(err)
	}

	labels := [][]byte{[]byte("AA"), []byte("CC"), []byte("GG")}
	keep := []bool{true, false, true}
	err = w.WriteChunk(c, keep, func(slot, record int) []byte { return labels[record] })
	if err != nil {
		t.Fatal(err)
	}
	if err = w.Close(); err != nil {
		t.Fatal(err)
	}
	RecycleChunk(c)

	// read the filtered file back
	r2, err := NewReader(out)
	if err != nil {
		t.Fatal(err)
	}
	defer r2.Close()

	c2, err := r2.ReadChunk(10)
	if err != nil {
		t.Fatal(err)
	}
	defer RecycleChunk(c2)

	if c2.N() != 2 {
		t.Fatalf("%d records written, want 2", c2.N())
	}
	if string(c2.Names[0]) != "AA_read0 some description" {
		t.Errorf("name 0 = %q", c2.Names[0])
	}
	if string(c2.Names[1]) != "GG_read2 some description" {
		t.Errorf("name 1 = %q", c2.Names[1])
	}
	if string(c2.Seqs[0]) != "ACGTACGT" {
		t.Errorf("seq 0 = %q", c2.Seqs[0])
	}
}

func TestKeepRead(t *testing.T) {
	name := []byte("M00001:12:000000000-A1B2C:1:1101:15589:1331 1:N:0:CGAT")
	pair := []byte("M00001:12:000000000-A1B2C:1:1101:15589:1331 2:N:0:CGAT")

	if !KeepRead(name, 1) {
		t.Error("fraction 1 dropped a read")
	}
	if KeepRead(name, 0) {
		t.Error("fraction 0 kept a read")
	}

	// stable, and identical for both reads of a pair
	for _, fraction := range []float64{0.1, 0.5, 0.9} {
		a := KeepRead(name, fraction)
		for i := 0; i < 10; i++ {
			if KeepRead(name, fraction) != a {
				t.Fatalf("fraction %f not stable", fraction)
			}
		}
		if KeepRead(pair, fraction) != a {
			t.Errorf("fraction %f differs between pair mates", fraction)
		}
	}

	// roughly the requested fraction of many reads survives
	var kept int
	n := 10000
	for i := 0; i < n; i++ {
		if KeepRead([]byte(fmt.Sprintf("read%d", i)), 0.5) {
			kept++
		}
	}
	if kept < n*4/10 || kept > n*6/10 {
		t.Errorf("kept %d of %d at fraction 0.5", kept, n)
	}
}
