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

import "github.com/shenwei356/BarMatch/barmatch/barcode"

// List matches by scanning all references. It has no limit on the number
// of mismatches, but the cost grows linearly with the reference count;
// beyond a few dozen references Hash is the better choice.
type List struct {
	refs
}

// NewList creates an empty List matcher.
func NewList() *List {
	return &List{}
}

// AddSequences adds reference barcodes.
// All barcodes must share one length and contain no ambiguous bases.
func (m *List) AddSequences(seqs ...string) error {
	return m.add(seqs, nil)
}

// Match scans all references and returns the index of the closest one,
// plus a quality word with the distances to the best and second-best
// matches. Earlier references win ties on the best distance.
func (m *List) Match(code uint64, flag uint64) (uint64, uint64) {
	var best uint64 = NoMatch
	var bestDist uint64 = barcode.MaxDist
	var nextDist uint64 = barcode.MaxDist

	var d uint64
	for i, ref := range m.codes {
		d = barcode.Dist(code, flag, ref)
		if d < bestDist {
			best = uint64(i)
			nextDist = bestDist
			bestDist = d
		} else if d < nextDist {
			nextDist = d
		}
	}

	return best, barcode.Qual(bestDist, nextDist)
}
