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

// Package barcode packs short DNA sequences into single 64-bit words and
// computes Hamming distances on the packed form.
//
// A sequence of k (<= 32) bases is stored as a pair (code, flag).
// Base i occupies bits [2*i, 2*i+2) of code, with A=00, C=01, G=10, T=11,
// i.e. the first base sits in the lowest bits. Bytes with c&3 == 2 ("N"
// and friends) set bit 2*i of flag; every byte packs as whatever 2-bit
// value its ASCII code yields. Bits at positions >= 2*k are zero in both
// words.
package barcode

import "math/bits"

// MaxLen is the maximum number of bases that fit in one 64-bit word.
const MaxLen = 32

// distBits is the width of one distance field in a quality word.
const distBits = 6

// MaxDist is the saturation value of a distance field,
// meaning "no neighbor found".
const MaxDist = 1<<distBits - 1

// lowBits masks the low bit of every 2-bit group.
const lowBits = 0x5555555555555555

// Encode packs up to MaxLen bases of s, the first base into the lowest bits.
// For every position whose byte has c&3 == 2 (such as 'N' or 'n'), the
// matching bit of flag is set; no other byte is flagged, and lowercase
// a/c/g/t pack like their uppercase forms. Longer sequences are silently
// truncated.
//
// The 2-bit value is computed from the ASCII byte alone:
//
//	x = (c&4)>>1; code = x + ((x^(c&2))>>1)
//
// which maps A->0, C->1, G->2, T->3, and flags any byte with c&3 == 2.
// Precomputed chunk and probe masks depend on this exact scheme.
func Encode(s []byte) (code uint64, flag uint64) {
	k := len(s)
	if k > MaxLen {
		k = MaxLen
	}

	var c, x uint64
	for i := 0; i < k; i++ {
		c = uint64(s[i])
		x = c & 4 >> 1
		code |= (x + (x^(c&2))>>1) << (i << 1)
		if c&3 == 2 {
			flag |= 1 << (i << 1)
		}
	}
	return code, flag
}

// EncodeWindow packs the window [start, end) of s.
func EncodeWindow(s []byte, start int, end int) (code uint64, flag uint64) {
	return Encode(s[start:end])
}

var decoder = [4]byte{'A', 'C', 'G', 'T'}

// Decode unpacks k bases from (code, flag).
// Positions with a set flag bit decode as 'N'.
func Decode(code uint64, flag uint64, k int) []byte {
	if k > MaxLen {
		k = MaxLen
	}

	s := make([]byte, k)
	for i := 0; i < k; i++ {
		if flag>>(i<<1)&1 == 1 {
			s[i] = 'N'
		} else {
			s[i] = decoder[code>>(i<<1)&3]
		}
	}
	return s
}

// Dist returns the Hamming distance between a packed query (code, flag)
// and a packed reference. A mismatched base sets at least one bit in its
// 2-bit group of the XOR, and every flagged (N) query position counts as
// a mismatch whatever the reference base is. Bits beyond 2*k are zero in
// both words, so they contribute nothing.
func Dist(code uint64, flag uint64, ref uint64) uint64 {
	diff := ref ^ code
	return uint64(bits.OnesCount64((diff | diff>>1 | flag) & lowBits))
}

// Qual packs the distances to the best and second-best match into one
// quality word: bits [0,6) hold best, bits [6,12) hold next.
func Qual(best uint64, next uint64) uint64 {
	return next<<distBits | best
}

// BestDist extracts the best-match distance from a quality word.
func BestDist(qual uint64) uint64 {
	return qual & MaxDist
}

// NextDist extracts the second-best-match distance from a quality word.
func NextDist(qual uint64) uint64 {
	return qual >> distBits & MaxDist
}
