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

package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/shenwei356/BarMatch/barmatch/barcode"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Pack sequences into their 2-bit representation",
	Long: `Pack sequences into their 2-bit representation

Reads one sequence per line (<= 32 bp, longer ones are truncated) and
prints a TSV of the packed sequence word, the N-flag word, and the
decoded sequence. Useful for checking precomputed masks and for
preparing raw query matrices.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		file := "-"
		if len(args) > 0 {
			file = expandPath(args[0])
		}
		if len(args) > 1 {
			checkError(fmt.Errorf("no more than one input file"))
		}

		outFile := getFlagString(cmd, "out-file")

		fh, err := xopen.Ropen(file)
		checkError(errors.Wrap(err, file))

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(outFile, ".gz"), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		fmt.Fprintf(outfh, "sequence\tcode\tflag\tdecoded\n")

		scanner := bufio.NewScanner(fh)
		var line string
		for scanner.Scan() {
			line = strings.TrimRight(scanner.Text(), "\r\n")
			if line == "" || line[0] == '#' {
				continue
			}

			k := len(line)
			if k > barcode.MaxLen {
				k = barcode.MaxLen
			}
			code, flag := barcode.Encode([]byte(line))
			fmt.Fprintf(outfh, "%s\t%d\t%d\t%s\n", line, code, flag, barcode.Decode(code, flag, k))
		}
		checkError(scanner.Err())
		checkError(fh.Close())
	},
}

func init() {
	RootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports and recommends a ".gz" suffix ("-" for stdout).`))

	encodeCmd.SetUsageTemplate(usageTemplate("[-o out.tsv] [in.txt]"))
}
