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
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shenwei356/BarMatch/barmatch/barcode"
	"github.com/shenwei356/BarMatch/barmatch/masks"
)

var masksCmd = &cobra.Command{
	Use:   "masks",
	Short: "View the chunk and probe masks of the hash matcher",
	Long: `View the chunk and probe masks of the hash matcher

The hash matcher splits every k-bp barcode into chunks of striped base
positions and probes each chunk's index under all mismatch patterns
within the chunk's error radius. This command prints the planned masks
for a given barcode length, mismatch budget, and chunk count, mainly
for debugging and for precomputing custom mask sets.

Masks are printed as bit masks over the packed representation
(2 bits per base, the first base in the lowest bits).

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}

		outputLog := opt.Verbose || opt.Log2File

		timeStart := time.Now()
		defer func() {
			if outputLog {
				log.Info()
				log.Infof("elapsed time: %s", time.Since(timeStart))
				log.Info()
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		// ---------------------------------------------------------------

		k := getFlagPositiveInt(cmd, "kmer")
		if k > barcode.MaxLen {
			checkError(fmt.Errorf("the value of flag -k/--kmer should be <= %d", barcode.MaxLen))
		}
		maxMismatches := getFlagNonNegativeInt(cmd, "max-dist")
		chunks := getFlagNonNegativeInt(cmd, "chunks")
		nBarcodes := getFlagPositiveInt(cmd, "barcodes")
		showProbes := getFlagBool(cmd, "probes")
		outFile := getFlagString(cmd, "out-file")

		if chunks == 0 {
			chunks = masks.OptimalChunks(nBarcodes, k, maxMismatches)
			if outputLog {
				log.Infof("chunk count from the cost model (%d barcodes): %d", nBarcodes, chunks)
			}
		}

		chunkMasks, mismatchMasks, err := masks.Plan(k, maxMismatches, chunks)
		checkError(err)

		// ---------------------------------------------------------------

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(outFile, ".gz"), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		fmt.Fprintf(outfh, "chunk\tmask\tprobes\n")
		for i, mask := range chunkMasks {
			fmt.Fprintf(outfh, "%d\t%s\t%d\n", i+1, maskString(mask, k), len(mismatchMasks[i]))
		}

		if showProbes {
			fmt.Fprintln(outfh)
			fmt.Fprintf(outfh, "chunk\tprobe\tpattern\n")
			for i := range chunkMasks {
				for j, mm := range mismatchMasks[i] {
					fmt.Fprintf(outfh, "%d\t%d\t%s\n", i+1, j+1, maskString(mm, k))
				}
			}
		}
	},
}

// maskString formats the low 2k bits of a mask, high bits first,
// with a gap between the 2-bit groups.
func maskString(mask uint64, k int) string {
	var buf strings.Builder
	for i := k - 1; i >= 0; i-- {
		fmt.Fprintf(&buf, "%02b", mask>>(uint(i)<<1)&3)
		if i > 0 {
			buf.WriteByte(' ')
		}
	}
	return buf.String()
}

func init() {
	RootCmd.AddCommand(masksCmd)

	masksCmd.Flags().IntP("kmer", "k", 16,
		formatFlagUsage(`Barcode length. Needs to be <= 32.`))

	masksCmd.Flags().IntP("max-dist", "m", 1,
		formatFlagUsage(`Maximum Hamming distance to cover.`))

	masksCmd.Flags().IntP("chunks", "c", 0,
		formatFlagUsage(`Number of chunks (0: pick from the cost model).`))

	masksCmd.Flags().IntP("barcodes", "n", 1000000,
		formatFlagUsage(`Expected number of reference barcodes, for the cost model.`))

	masksCmd.Flags().Bool("probes", false,
		formatFlagUsage(`Also print every probe pattern.`))

	masksCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports and recommends a ".gz" suffix ("-" for stdout).`))

	masksCmd.SetUsageTemplate(usageTemplate("[-k <k>] [-m <max dist>] [-c <chunks>] [-o out.tsv]"))
}
