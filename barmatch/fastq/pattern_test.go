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
	"testing"

	"github.com/pkg/errors"
)

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern("{cell}_{umi}_{read_name}", []string{"cell", "umi"})
	if err != nil {
		t.Fatal(err)
	}

	slots := p.Slots()
	if len(slots) != 2 || slots[0] != "cell" || slots[1] != "umi" {
		t.Errorf("slots = %v", slots)
	}

	labels := [][]byte{[]byte("AACC"), []byte("TTGG")}
	got := p.Render(nil, []byte("read1"), func(slot int) []byte { return labels[slot] })
	if string(got) != "AACC_TTGG_read1" {
		t.Errorf("rendered %q", got)
	}
}

func TestParsePatternRepeatedField(t *testing.T) {
	p, err := ParsePattern("{cell}+{cell}", []string{"cell"})
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Slots()) != 1 {
		t.Errorf("slots = %v", p.Slots())
	}
	got := p.Render(nil, nil, func(slot int) []byte { return []byte("X") })
	if string(got) != "X+X" {
		t.Errorf("rendered %q", got)
	}
}

func TestParsePatternNameAttrs(t *testing.T) {
	p, err := ParsePattern("{lane}.{tile}.{x}.{y}", nil)
	if err != nil {
		t.Fatal(err)
	}

	name := []byte("M00001:12:000000000-A1B2C:1:1101:15589:1331")
	got := p.Render(nil, name, nil)
	if string(got) != "1.1101.15589.1331" {
		t.Errorf("rendered %q", got)
	}
}

func TestParsePatternLiteralOnly(t *testing.T) {
	p, err := ParsePattern("fixed", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Render(nil, []byte("ignored"), nil); string(got) != "fixed" {
		t.Errorf("rendered %q", got)
	}
}

func TestParsePatternErrors(t *testing.T) {
	if _, err := ParsePattern("{cell", []string{"cell"}); !errors.Is(err, ErrPattern) {
		t.Errorf("unclosed brace: err = %v", err)
	}
	if _, err := ParsePattern("cell}", []string{"cell"}); !errors.Is(err, ErrPattern) {
		t.Errorf("unmatched closing brace: err = %v", err)
	}
	if _, err := ParsePattern("{nosuch}", []string{"cell"}); !errors.Is(err, ErrPattern) {
		t.Errorf("unknown field: err = %v", err)
	}
	if _, err := ParsePattern("{x}", []string{"x"}); !errors.Is(err, ErrPattern) {
		t.Errorf("reserved barcode name: err = %v", err)
	}
	if _, err := ParsePattern("{read_name}", []string{"read_name"}); !errors.Is(err, ErrPattern) {
		t.Errorf("reserved barcode name: err = %v", err)
	}
}

func TestNameFieldShortName(t *testing.T) {
	p, err := ParsePattern("{y}", nil)
	if err != nil {
		t.Fatal(err)
	}
	// a name with too few fields renders the attribute empty
	if got := p.Render(nil, []byte("only:three:fields"), nil); string(got) != "" {
		t.Errorf("rendered %q", got)
	}
}
