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
	"github.com/pkg/errors"
	"github.com/shenwei356/BarMatch/barmatch/barcode"
)

// Hash matches with one hash index per barcode chunk. A chunk is a
// subset of the 2k sequence bits selected by a mask; every reference is
// inserted into every chunk's index under its masked bits. A query
// probes each index under all of the chunk's mismatch masks (XOR
// patterns enumerating the neighborhood within the chunk's error
// radius), so any reference within maxMismatches of the query is
// guaranteed to share at least one probed bucket, as long as the mask
// set covers the budget (see the masks package).
type Hash struct {
	refs

	chunkMasks    []uint64
	mismatchMasks [][]uint64
	maxMismatches uint64

	// chunkIndexes[i] maps code&chunkMasks[i] to the indexes of all
	// references with those masked bits, in insertion order.
	chunkIndexes []map[uint64][]uint32
}

// NewHash creates an empty Hash matcher with the given chunk masks,
// per-chunk mismatch masks, and the maximum Hamming distance to report.
// References farther than maxMismatches from a query are never reported,
// even when a probe happens to find them.
func NewHash(chunkMasks []uint64, mismatchMasks [][]uint64, maxMismatches int) (*Hash, error) {
	if len(chunkMasks) != len(mismatchMasks) {
		return nil, errors.Wrapf(ErrMaskConfig, "%d chunk masks, %d mismatch mask sets",
			len(chunkMasks), len(mismatchMasks))
	}

	indexes := make([]map[uint64][]uint32, len(chunkMasks))
	for i := range indexes {
		indexes[i] = make(map[uint64][]uint32, 1024)
	}

	return &Hash{
		chunkMasks:    chunkMasks,
		mismatchMasks: mismatchMasks,
		maxMismatches: uint64(maxMismatches),
		chunkIndexes:  indexes,
	}, nil
}

// AddSequences adds reference barcodes and indexes them in every chunk.
// All barcodes must share one length and contain no ambiguous bases.
func (m *Hash) AddSequences(seqs ...string) error {
	return m.add(seqs, m.indexOne)
}

func (m *Hash) indexOne(code uint64, idx uint32) {
	var key uint64
	for i, mask := range m.chunkMasks {
		key = code & mask
		m.chunkIndexes[i][key] = append(m.chunkIndexes[i][key], idx)
	}
}

// Match probes every chunk index under every mismatch mask and returns
// the index of the closest reference within maxMismatches, plus a
// quality word with the distances to the best and second-best matches.
//
// The lowest reference index wins ties on the best distance, and two
// references at the same best distance report next == best. Candidates
// are not deduplicated across chunks; only the current best is skipped,
// which keeps the update rules idempotent for repeated candidates. The
// result is therefore independent of map iteration order.
func (m *Hash) Match(code uint64, flag uint64) (uint64, uint64) {
	var best uint64 = NoMatch
	var bestDist uint64 = barcode.MaxDist
	var nextDist uint64 = barcode.MaxDist

	var key, cand, d uint64
	for i, chunkMask := range m.chunkMasks {
		for _, mismatchMask := range m.mismatchMasks[i] {
			key = (code ^ mismatchMask) & chunkMask
			for _, j := range m.chunkIndexes[i][key] {
				cand = uint64(j)
				if cand == best {
					continue
				}

				d = barcode.Dist(code, flag, m.codes[j])
				if d > m.maxMismatches {
					continue
				}

				if d == bestDist {
					if cand < best {
						best = cand
					}
					nextDist = bestDist
				} else if d < bestDist {
					best = cand
					nextDist = bestDist
					bestDist = d
				} else if d < nextDist {
					nextDist = d
				}
			}
		}
	}

	return best, barcode.Qual(bestDist, nextDist)
}
