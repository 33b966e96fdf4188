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

	colorable "github.com/mattn/go-colorable"
	"github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"
)

// VERSION of this program
const VERSION = "0.1.0"

var log = logging.MustGetLogger("barmatch")

var logFormat = logging.MustStringFormatter(
	`%{color}[%{level:.4s}]%{color:reset} %{time:15:04:05.000} %{message}`,
)

func init() {
	backend := logging.NewBackendFormatter(
		logging.NewLogBackend(colorable.NewColorableStderr(), "", 0), logFormat)
	logging.SetBackend(backend)
}

// addLog also writes log to a file.
func addLog(file string, verbose bool) *os.File {
	fh, err := os.Create(file)
	checkError(err)

	stderr := logging.NewBackendFormatter(
		logging.NewLogBackend(colorable.NewColorableStderr(), "", 0), logFormat)
	tofile := logging.NewBackendFormatter(
		logging.NewLogBackend(fh, "", 0), logFormat)

	if verbose {
		logging.SetBackend(stderr, tofile)
	} else {
		logging.SetBackend(tofile)
	}
	return fh
}

// RootCmd is the root command.
var RootCmd = &cobra.Command{
	Use:   "barmatch",
	Short: "fast sequencing-barcode matching and demultiplexing",
	Long: fmt.Sprintf(`BarMatch: fast sequencing-barcode matching and demultiplexing

Version: v%s

Documents: https://github.com/shenwei356/BarMatch
Source code: https://github.com/shenwei356/BarMatch

BarMatch matches fixed-length DNA barcodes extracted from sequencing
reads against a reference barcode set, reporting the closest barcode
with the Hamming distances to the best and second-best hits. Barcodes
of up to 32 bp are packed into single 64-bit words (2 bits per base
plus an N mask), and large barcode sets are searched with multi-probe
chunk hashing instead of a linear scan.

`, VERSION),
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().IntP("threads", "j", 0,
		formatFlagUsage(`Number of CPU cores to use (default: all).`))

	RootCmd.PersistentFlags().Bool("quiet", false,
		formatFlagUsage(`Do not print any verbose information. You can write them to a file with --log.`))

	RootCmd.PersistentFlags().String("log", "",
		formatFlagUsage(`Log file.`))

	RootCmd.CompletionOptions.DisableDefaultCmd = true
	RootCmd.SetUsageTemplate(usageTemplate(""))
}
