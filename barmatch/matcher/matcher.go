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

// Package matcher finds the closest reference barcode for packed DNA
// queries. Two implementations are provided: List scans all references,
// Hash probes per-chunk hash indexes under precomputed mismatch masks
// (the multi-index neighborhood search of Norouzi et al,
// https://arxiv.org/pdf/1307.2982.pdf).
//
// A matcher is built once, by a single goroutine, with AddSequences and
// AddLabels. After that, Match, MatchAll and MatchRaw only read matcher
// state and are safe to call from any number of goroutines.
package matcher

import (
	"math"

	"github.com/pkg/errors"
	"github.com/shenwei356/BarMatch/barmatch/barcode"
)

// ErrRefLength occurs when a reference barcode does not match the
// established barcode length, or is empty or longer than barcode.MaxLen.
var ErrRefLength = errors.New("matcher: reference length mismatch")

// ErrRefAmbiguous occurs when a reference barcode contains a base that
// barcode.Encode flags as ambiguous (a byte with c&3 == 2, such as N).
var ErrRefAmbiguous = errors.New("matcher: reference contains non-ACGT bases")

// ErrShape occurs when a batch operation receives a window or matrix
// of the wrong shape.
var ErrShape = errors.New("matcher: bad shape")

// ErrMaskConfig occurs when chunk masks and mismatch masks differ in count.
var ErrMaskConfig = errors.New("matcher: chunk and mismatch mask counts differ")

// NoMatch is the reported index when no reference was within reach.
// The quality word of such a result carries barcode.MaxDist in both fields.
const NoMatch = math.MaxUint64

// A Matcher reports the closest reference barcode for a packed query.
//
// Match returns the index of the best-matching reference and a quality
// word (see barcode.Qual) holding the Hamming distances to the best and
// second-best matches. With no reference in reach it returns
// (NoMatch, 63|63<<6); that is a result, not an error.
type Matcher interface {
	Match(code uint64, flag uint64) (idx uint64, qual uint64)

	// Len returns the number of reference barcodes.
	Len() int
}

// refs is the state shared by all matcher implementations: the barcode
// length k, the packed reference barcodes in insertion order, and an
// optional parallel list of labels.
type refs struct {
	k      int
	codes  []uint64
	labels []string
}

// add packs and validates new reference barcodes. The first insert fixes
// k; later inserts must match it. References containing ambiguous bases
// are rejected. index, if non-nil, is called with each accepted barcode
// and its reference index.
func (r *refs) add(seqs []string, index func(code uint64, idx uint32)) error {
	for _, s := range seqs {
		if r.k == 0 {
			if len(s) == 0 || len(s) > barcode.MaxLen {
				return errors.Wrapf(ErrRefLength, "sequence %q: length %d not in [1, %d]", s, len(s), barcode.MaxLen)
			}
			r.k = len(s)
		} else if len(s) != r.k {
			return errors.Wrapf(ErrRefLength, "sequence %q: length %d != %d", s, len(s), r.k)
		}

		code, flag := barcode.Encode([]byte(s))
		if flag != 0 {
			return errors.Wrapf(ErrRefAmbiguous, "sequence %q", s)
		}

		idx := uint32(len(r.codes))
		r.codes = append(r.codes, code)
		if index != nil {
			index(code, idx)
		}
	}
	return nil
}

// K returns the barcode length, 0 before the first insert.
func (r *refs) K() int { return r.k }

// Len returns the number of reference barcodes.
func (r *refs) Len() int { return len(r.codes) }

// Codes returns the packed reference barcodes in insertion order.
// The slice is owned by the matcher; do not modify it.
func (r *refs) Codes() []uint64 { return r.codes }

// Sequences returns the decoded reference barcodes in insertion order.
func (r *refs) Sequences() []string {
	seqs := make([]string, len(r.codes))
	for i, code := range r.codes {
		seqs[i] = string(barcode.Decode(code, 0, r.k))
	}
	return seqs
}

// AddLabel appends one label to the parallel label list.
func (r *refs) AddLabel(label string) {
	r.labels = append(r.labels, label)
}

// AddLabels appends labels to the parallel label list.
func (r *refs) AddLabels(labels ...string) {
	r.labels = append(r.labels, labels...)
}

// HasLabels reports whether every reference barcode has a label.
func (r *refs) HasLabels() bool {
	return len(r.labels) > 0 && len(r.labels) == len(r.codes)
}

// Label returns the label of reference i.
// The index must come from a successful match.
func (r *refs) Label(i uint64) string {
	return r.labels[i]
}

// Labels returns the labels of the given reference indexes.
func (r *refs) Labels(idxs []uint64) []string {
	labels := make([]string, len(idxs))
	for i, idx := range idxs {
		labels[i] = r.labels[idx]
	}
	return labels
}
