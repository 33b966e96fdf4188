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

package matcher

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shenwei356/BarMatch/barmatch/barcode"
)

func matchString(t *testing.T, m Matcher, s string) (uint64, uint64, uint64) {
	t.Helper()
	code, flag := barcode.Encode([]byte(s))
	idx, qual := m.Match(code, flag)
	return idx, barcode.BestDist(qual), barcode.NextDist(qual)
}

func TestListExactMatch(t *testing.T) {
	m := NewList()
	if err := m.AddSequences("ACGT", "TTTT"); err != nil {
		t.Fatal(err)
	}

	idx, best, next := matchString(t, m, "ACGT")
	if idx != 0 || best != 0 || next != 4 {
		t.Errorf("got (%d, %d, %d), want (0, 0, 4)", idx, best, next)
	}
}

func TestListNearMatch(t *testing.T) {
	m := NewList()
	if err := m.AddSequences("AAAA", "TAAA"); err != nil {
		t.Fatal(err)
	}

	idx, best, next := matchString(t, m, "AAAA")
	if idx != 0 || best != 0 || next != 1 {
		t.Errorf("AAAA: got (%d, %d, %d), want (0, 0, 1)", idx, best, next)
	}

	idx, best, next = matchString(t, m, "AAAT")
	if idx != 0 || best != 1 || next != 2 {
		t.Errorf("AAAT: got (%d, %d, %d), want (0, 1, 2)", idx, best, next)
	}
}

func TestListAmbiguousQuery(t *testing.T) {
	m := NewList()
	if err := m.AddSequences("ACGT"); err != nil {
		t.Fatal(err)
	}

	idx, best, _ := matchString(t, m, "ACGN")
	if idx != 0 || best != 1 {
		t.Errorf("got (%d, %d), want (0, 1)", idx, best)
	}
}

func TestListEmpty(t *testing.T) {
	m := NewList()
	idx, best, next := matchString(t, m, "ACGT")
	if idx != NoMatch || best != barcode.MaxDist || next != barcode.MaxDist {
		t.Errorf("got (%d, %d, %d), want sentinel", idx, best, next)
	}
}

func TestAddSequencesRejects(t *testing.T) {
	m := NewList()
	if err := m.AddSequences("ACGT"); err != nil {
		t.Fatal(err)
	}

	if err := m.AddSequences("ACG"); !errors.Is(err, ErrRefLength) {
		t.Errorf("short sequence: err = %v", err)
	}
	if err := m.AddSequences("ACGTA"); !errors.Is(err, ErrRefLength) {
		t.Errorf("long sequence: err = %v", err)
	}
	if err := m.AddSequences("ACNT"); !errors.Is(err, ErrRefAmbiguous) {
		t.Errorf("ambiguous sequence: err = %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("len = %d after rejected inserts", m.Len())
	}

	m = NewList()
	if err := m.AddSequences(""); !errors.Is(err, ErrRefLength) {
		t.Errorf("empty sequence: err = %v", err)
	}
	long := make([]byte, barcode.MaxLen+1)
	for i := range long {
		long[i] = 'A'
	}
	if err := m.AddSequences(string(long)); !errors.Is(err, ErrRefLength) {
		t.Errorf("oversized sequence: err = %v", err)
	}
}

func TestSequencesRoundTrip(t *testing.T) {
	seqs := []string{"ACGTACGT", "TTTTACGT", "GGGGGGGG"}
	m := NewList()
	if err := m.AddSequences(seqs...); err != nil {
		t.Fatal(err)
	}

	got := m.Sequences()
	if len(got) != len(seqs) {
		t.Fatalf("got %d sequences", len(got))
	}
	for i := range seqs {
		if got[i] != seqs[i] {
			t.Errorf("sequence %d: got %s, want %s", i, got[i], seqs[i])
		}
	}
	if m.K() != 8 {
		t.Errorf("k = %d", m.K())
	}
}

func TestLabels(t *testing.T) {
	m := NewList()
	if err := m.AddSequences("AAAA", "TTTT"); err != nil {
		t.Fatal(err)
	}

	if m.HasLabels() {
		t.Error("HasLabels before adding any")
	}

	m.AddLabel("wt")
	if m.HasLabels() {
		t.Error("HasLabels with one label for two references")
	}

	m.AddLabels("mut")
	if !m.HasLabels() {
		t.Error("!HasLabels with matching counts")
	}

	if m.Label(1) != "mut" {
		t.Errorf("label 1 = %s", m.Label(1))
	}
	got := m.Labels([]uint64{1, 0})
	if got[0] != "mut" || got[1] != "wt" {
		t.Errorf("labels = %v", got)
	}
}
