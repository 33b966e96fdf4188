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
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/shenwei356/BarMatch/barmatch/barcode"
	"github.com/shenwei356/BarMatch/barmatch/masks"
)

func newHash(t *testing.T, k int, maxMismatches int, chunks int, seqs ...string) *Hash {
	t.Helper()
	chunkMasks, mismatchMasks, err := masks.Plan(k, maxMismatches, chunks)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewHash(chunkMasks, mismatchMasks, maxMismatches)
	if err != nil {
		t.Fatal(err)
	}
	if err = m.AddSequences(seqs...); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewHashConfig(t *testing.T) {
	_, err := NewHash(make([]uint64, 2), make([][]uint64, 3), 1)
	if !errors.Is(err, ErrMaskConfig) {
		t.Errorf("err = %v, want ErrMaskConfig", err)
	}
}

func TestHashExactMatch(t *testing.T) {
	m := newHash(t, 4, 1, 2, "ACGT", "TTTT")

	idx, best, next := matchString(t, m, "ACGT")
	if idx != 0 || best != 0 {
		t.Errorf("got (%d, %d), want (0, 0)", idx, best)
	}
	// TTTT is 4 mismatches away, beyond the budget, so it must not
	// surface as the second best
	if next != barcode.MaxDist {
		t.Errorf("next = %d, want %d", next, barcode.MaxDist)
	}
}

func TestHashOutsideBudget(t *testing.T) {
	m := newHash(t, 4, 1, 2, "AAAA")

	idx, best, next := matchString(t, m, "TTTT")
	if idx != NoMatch || best != barcode.MaxDist || next != barcode.MaxDist {
		t.Errorf("got (%d, %d, %d), want sentinel", idx, best, next)
	}
}

func TestHashTieBreak(t *testing.T) {
	// both references 1 mismatch away from the query; the lower index
	// must win and next must equal best
	m := newHash(t, 4, 2, 2, "ATAA", "AAAT")

	idx, best, next := matchString(t, m, "AAAA")
	if idx != 0 {
		t.Errorf("idx = %d, want 0", idx)
	}
	if best != 1 || next != 1 {
		t.Errorf("(best, next) = (%d, %d), want (1, 1)", best, next)
	}
}

func all4mers(alphabet string) []string {
	var qs []string
	for _, a := range alphabet {
		for _, b := range alphabet {
			for _, c := range alphabet {
				for _, d := range alphabet {
					qs = append(qs, string([]rune{a, b, c, d}))
				}
			}
		}
	}
	return qs
}

func TestHashListParity(t *testing.T) {
	refs := []string{"AAAA", "AAAT", "AATT", "ATTT", "TTTT"}
	maxMismatches := 1

	list := NewList()
	if err := list.AddSequences(refs...); err != nil {
		t.Fatal(err)
	}
	hash := newHash(t, 4, maxMismatches, 2, refs...)

	for _, q := range all4mers("ACGT") {
		lIdx, lBest, _ := matchString(t, list, q)
		hIdx, hBest, _ := matchString(t, hash, q)

		if lBest <= uint64(maxMismatches) {
			if hIdx != lIdx || hBest != lBest {
				t.Errorf("%s: hash (%d, %d), list (%d, %d)", q, hIdx, hBest, lIdx, lBest)
			}
		} else if hIdx != NoMatch || hBest != barcode.MaxDist {
			t.Errorf("%s: hash (%d, %d), want sentinel", q, hIdx, hBest)
		}
	}
}

func TestHashListParityRandom(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	alphabet := []byte("ACGT")

	k := 12
	maxMismatches := 2

	seen := make(map[string]interface{}, 64)
	refs := make([]string, 0, 64)
	for len(refs) < 64 {
		s := make([]byte, k)
		for i := range s {
			s[i] = alphabet[r.Intn(4)]
		}
		if _, ok := seen[string(s)]; ok {
			continue
		}
		seen[string(s)] = struct{}{}
		refs = append(refs, string(s))
	}

	list := NewList()
	if err := list.AddSequences(refs...); err != nil {
		t.Fatal(err)
	}

	for chunks := 1; chunks <= 4; chunks++ {
		hash := newHash(t, k, maxMismatches, chunks, refs...)

		for trial := 0; trial < 500; trial++ {
			// mutate a reference so most queries stay within reach
			q := []byte(refs[r.Intn(len(refs))])
			for n := r.Intn(4); n > 0; n-- {
				q[r.Intn(k)] = alphabet[r.Intn(4)]
			}

			lIdx, lBest, _ := matchString(t, list, string(q))
			hIdx, hBest, _ := matchString(t, hash, string(q))

			if lBest <= uint64(maxMismatches) {
				if hIdx != lIdx || hBest != lBest {
					t.Errorf("chunks=%d %s: hash (%d, %d), list (%d, %d)",
						chunks, q, hIdx, hBest, lIdx, lBest)
				}
			} else if hIdx != NoMatch || hBest != barcode.MaxDist {
				t.Errorf("chunks=%d %s: hash (%d, %d), want sentinel", chunks, q, hIdx, hBest)
			}
		}
	}
}

func TestHashSecondBest(t *testing.T) {
	// with the budget covering both references, the second best must be
	// reported; both references share the exact-probe bucket of the
	// first chunk (positions 0 and 2)
	m := newHash(t, 4, 2, 2, "AAAA", "AAAT")

	idx, best, next := matchString(t, m, "AAAA")
	if idx != 0 || best != 0 || next != 1 {
		t.Errorf("got (%d, %d, %d), want (0, 0, 1)", idx, best, next)
	}
}

func TestHashAmbiguousQuery(t *testing.T) {
	m := newHash(t, 4, 1, 2, "ACGT")

	idx, best, _ := matchString(t, m, "ACGN")
	if idx != 0 || best != 1 {
		t.Errorf("got (%d, %d), want (0, 1)", idx, best)
	}
}

func TestHashDuplicateReferences(t *testing.T) {
	// duplicated barcode: both copies sit in every probed bucket; the
	// lower index must win and the duplicate must fill the second best
	m := newHash(t, 4, 1, 2, "ACGT", "ACGT")

	idx, best, next := matchString(t, m, "ACGT")
	if idx != 0 {
		t.Errorf("idx = %d, want 0", idx)
	}
	if best != 0 || next != 0 {
		t.Errorf("(best, next) = (%d, %d), want (0, 0)", best, next)
	}
}
