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

// Package masks plans chunk layouts and probe masks for the chunk-hash
// matcher. A barcode of length k is split into n chunks of base
// positions; each chunk gets a bit mask selecting its positions and a
// set of XOR patterns enumerating all mismatch neighbors within the
// chunk's error radius. The radii are chosen so that any target within
// the total mismatch budget of a reference agrees with it, within the
// radius, on at least one chunk (the multi-index pigeonhole of Norouzi
// et al, https://arxiv.org/pdf/1307.2982.pdf).
package masks

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/shenwei356/BarMatch/barmatch/barcode"
	"github.com/twotwotwo/sorts/sortutil"
	"gonum.org/v1/gonum/stat/combin"
)

// ErrPlan occurs when a chunk layout is unsatisfiable:
// k outside [1, barcode.MaxLen], chunk count outside [1, k],
// or a negative mismatch budget.
var ErrPlan = errors.New("masks: bad chunk layout")

// Stripe distributes the base positions 0..k-1 over n chunks,
// chunk j taking positions j, j+n, j+2n, ... Striping keeps runs of
// similar bases in real barcode sets from landing in a single chunk.
// Chunks are ordered by ascending size, so the short chunks (which get
// the larger probe radii from Plan) come first.
func Stripe(k int, n int) [][]int {
	chunks := make([][]int, n)
	for j := 0; j < n; j++ {
		for p := j; p < k; p += n {
			chunks[j] = append(chunks[j], p)
		}
	}
	sort.SliceStable(chunks, func(a, b int) bool { return len(chunks[a]) < len(chunks[b]) })
	return chunks
}

// ChunkMask returns the bit mask selecting the 2-bit groups of the
// given base positions.
func ChunkMask(positions []int) uint64 {
	var mask uint64
	for _, p := range positions {
		mask |= 3 << (uint(p) << 1)
	}
	return mask
}

// MismatchMasks returns every XOR pattern changing up to radius of the
// given base positions, each changed position taking one of its three
// non-zero 2-bit values. The zero pattern (exact probe) is included.
// A negative radius yields no patterns at all: such a chunk is never
// probed, its positions only confirm candidates found through other
// chunks.
func MismatchMasks(positions []int, radius int) []uint64 {
	if radius < 0 {
		return nil
	}
	if radius > len(positions) {
		radius = len(positions)
	}

	n := 1
	for m := 1; m <= radius; m++ {
		n += combin.Binomial(len(positions), m) * pow3(m)
	}

	mms := make([]uint64, 0, n)
	mms = append(mms, 0)

	var mask uint64
	var v, x int
	for m := 1; m <= radius; m++ {
		for _, idxs := range combin.Combinations(len(positions), m) {
			for v = 0; v < pow3(m); v++ {
				mask = 0
				x = v
				for _, pi := range idxs {
					mask |= uint64(x%3+1) << (uint(positions[pi]) << 1)
					x /= 3
				}
				mms = append(mms, mask)
			}
		}
	}

	sortutil.Uint64s(mms)
	return mms
}

func pow3(m int) int {
	n := 1
	for i := 0; i < m; i++ {
		n *= 3
	}
	return n
}

// Plan returns striped chunk masks and per-chunk mismatch masks for
// barcodes of length k with up to maxMismatches errors, using n chunks.
// The budget r is split as r' = r/n with the remainder raising the
// radius of the leading (short) chunks: a target with r errors must
// leave at most r' of them in some leading chunk, or at most r'-1 in
// some trailing one, so some probe always lands in the right bucket.
func Plan(k int, maxMismatches int, n int) (chunkMasks []uint64, mismatchMasks [][]uint64, err error) {
	if k < 1 || k > barcode.MaxLen {
		return nil, nil, errors.Wrapf(ErrPlan, "barcode length %d", k)
	}
	if n < 1 || n > k {
		return nil, nil, errors.Wrapf(ErrPlan, "%d chunks for %d bases", n, k)
	}
	if maxMismatches < 0 {
		return nil, nil, errors.Wrapf(ErrPlan, "negative mismatch budget %d", maxMismatches)
	}

	rp := maxMismatches / n
	a := maxMismatches % n

	chunks := Stripe(k, n)
	chunkMasks = make([]uint64, n)
	mismatchMasks = make([][]uint64, n)
	for i, positions := range chunks {
		radius := rp
		if i > a {
			radius = rp - 1
		}
		chunkMasks[i] = ChunkMask(positions)
		mismatchMasks[i] = MismatchMasks(positions, radius)
	}
	return chunkMasks, mismatchMasks, nil
}

// OptimalChunks estimates the chunk count minimizing the per-query cost
// of matching against n references of length k with up to r mismatches,
// weighing probe counts against expected bucket sizes. The estimate
// assumes a bucket check costs about as much as a hash lookup. As a
// rule of thumb it returns 1-2 chunks for large random barcode sets
// and more for tight mismatch budgets over few references.
func OptimalChunks(n int, k int, r int) int {
	if k < 2 {
		return 1
	}

	best := planCost(n, k, 1, r)
	b := 1
	for {
		b++
		if b > k {
			return b - 1
		}
		c := planCost(n, k, b, r)
		if c >= best {
			return b - 1
		}
		best = c
	}
}

// planCost estimates the cost of one query under a b-chunk layout.
func planCost(n int, k int, b int, r int) float64 {
	rp := r / b
	a := r % b

	s := k / b // short chunk length; k-b*s chunks get one more base
	longChunks := k - b*s
	shortChunks := b - longChunks

	var cost float64
	for i := 0; i < b; i++ {
		length := s
		if i >= shortChunks {
			length = s + 1
		}
		radius := rp
		if i > a {
			radius = rp - 1
		}
		cost += chunkCost(n, length, radius)
	}
	return cost
}

// chunkCost estimates lookups plus candidate checks for one chunk of
// the given length probed with the given radius.
func chunkCost(n int, length int, radius int) float64 {
	var probes float64
	for i := 0; i <= radius && i <= length; i++ {
		probes += 3 * float64(combin.Binomial(length, i))
	}

	load := 1 + float64(n)/pow4(length)
	return load * probes
}

func pow4(length int) float64 {
	v := 1.0
	for i := 0; i < length; i++ {
		v *= 4
	}
	return v
}
