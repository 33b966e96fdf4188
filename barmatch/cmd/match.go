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
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/shenwei356/BarMatch/barmatch/barcode"
	"github.com/shenwei356/BarMatch/barmatch/fastq"
	"github.com/shenwei356/BarMatch/barmatch/masks"
	"github.com/shenwei356/BarMatch/barmatch/matcher"
)

// MatchConfig is the run sheet of one demultiplexing run, either built
// from flags or read from a TOML file (--config).
type MatchConfig struct {
	Pattern string `toml:"pattern"`
	MaxDist int    `toml:"max-dist"`

	Inputs   []InputConfig   `toml:"input"`
	Barcodes []BarcodeConfig `toml:"barcode"`
}

// InputConfig names one input FASTQ file and its optional output.
type InputConfig struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
	Out  string `toml:"out"`
}

// BarcodeConfig places one barcode on one input sequence.
type BarcodeConfig struct {
	Name    string `toml:"name"`
	Input   string `toml:"input"`
	File    string `toml:"file"`
	Start   int    `toml:"start"`
	Matcher string `toml:"matcher"` // list, hash, or auto
	Chunks  int    `toml:"chunks"`  // 0 picks a chunk count from the cost model
}

// listMatcherLimit is the reference count up to which the linear-scan
// matcher is picked in auto mode.
const listMatcherLimit = 32

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match and demultiplex barcodes in FASTQ files",
	Long: `Match and demultiplex barcodes in FASTQ files

Every read of the input is matched against a reference barcode set:
the window [start, start+k) of the read sequence is compared against
all k-bp reference barcodes and the closest one is reported together
with the Hamming distances to the best and the second-best hit.
Reads whose best distance exceeds --max-dist are dropped from the
FASTQ output; all reads appear in the table output (--out-table).

Output read names are rebuilt from --pattern, e.g.

    barmatch match -b barcodes.tsv -p '{barcode}_{read_name}' \
        -o matched.fq.gz reads.fq.gz

Multi-file runs (e.g. matching an index read but writing R1/R2) are
configured with a TOML run sheet (--config):

    pattern = "{cell}_{read_name}"
    max-dist = 1

    [[input]]
    name = "I1"
    path = "I1.fastq.gz"

    [[input]]
    name = "R1"
    path = "R1.fastq.gz"
    out = "R1.matched.fastq.gz"

    [[barcode]]
    name = "cell"
    input = "I1"
    file = "barcodes.tsv"

Barcode files are TSV: sequence, and an optional label column used
for name interpolation (default: the sequence itself).

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		seq.ValidateSeq = false

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

		configFile := getFlagString(cmd, "config")
		inDir := getFlagString(cmd, "in-dir")
		outDir := getFlagString(cmd, "out-dir")
		reFileStr := getFlagString(cmd, "file-regexp")

		barcodeFile := expandPath(getFlagString(cmd, "barcodes"))
		barcodeName := getFlagString(cmd, "barcode-name")
		start := getFlagNonNegativeInt(cmd, "start")
		maxDist := getFlagNonNegativeInt(cmd, "max-dist")
		matcherKind := getFlagString(cmd, "matcher")
		chunks := getFlagNonNegativeInt(cmd, "chunks")
		pattern := getFlagString(cmd, "pattern")
		outFile := expandPath(getFlagString(cmd, "out-file"))
		outTable := expandPath(getFlagString(cmd, "out-table"))
		chunkSize := getFlagPositiveInt(cmd, "chunk-size")
		sampleFraction := getFlagFloat64(cmd, "sample-fraction")
		if sampleFraction <= 0 || sampleFraction > 1 {
			checkError(fmt.Errorf("value of flag --sample-fraction should be in (0, 1]"))
		}

		if maxDist > barcode.MaxDist {
			maxDist = barcode.MaxDist
		}

		if outputLog {
			log.Infof("BarMatch v%s", VERSION)
			log.Info("  https://github.com/shenwei356/BarMatch")
			log.Info()
		}

		switch {
		case configFile != "":
			data, err := os.ReadFile(expandPath(configFile))
			checkError(errors.Wrap(err, configFile))

			cfg := &MatchConfig{MaxDist: maxDist, Pattern: "{read_name}"}
			checkError(errors.Wrap(toml.Unmarshal(data, cfg), configFile))

			runMatch(opt, cfg, outTable, chunkSize, sampleFraction, outputLog)
		case inDir != "":
			re, err := regexp.Compile(reFileStr)
			checkError(errors.Wrap(err, "compiling --file-regexp"))

			if outputLog {
				log.Infof("scanning files in: %s", inDir)
			}
			files, err := getFileListFromDir(expandPath(inDir), re, opt.NumCPUs)
			checkError(err)
			if len(files) == 0 {
				checkError(fmt.Errorf("no files match %s in %s", reFileStr, inDir))
			}
			if outputLog {
				log.Infof("  %d file(s) found", len(files))
			}

			var pbs *mpb.Progress
			var bar *mpb.Bar
			var chDuration chan time.Duration
			var doneDuration chan int
			if opt.Verbose {
				pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
				bar = pbs.AddBar(int64(len(files)),
					mpb.PrependDecorators(
						decor.Name("processed files: ", decor.WC{W: len("processed files: "), C: decor.DindentRight}),
						decor.Name("", decor.WCSyncSpaceR),
						decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
					),
					mpb.AppendDecorators(
						decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
						decor.EwmaETA(decor.ET_STYLE_GO, 3),
						decor.OnComplete(decor.Name(""), ". done"),
					),
				)

				chDuration = make(chan time.Duration, opt.NumCPUs)
				doneDuration = make(chan int)
				go func() {
					for t := range chDuration {
						bar.EwmaIncrBy(1, t)
					}
					doneDuration <- 1
				}()
			}

			for _, file := range files {
				timeStart1 := time.Now()

				out := ""
				if outDir != "" {
					out = matchedFileName(file, expandPath(outDir))
				}
				cfg := singleFileConfig(file, out, barcodeFile, barcodeName,
					pattern, start, maxDist, matcherKind, chunks)

				runMatch(opt, cfg, "", chunkSize, sampleFraction, opt.Log2File)

				if opt.Verbose {
					chDuration <- time.Since(timeStart1)
				}
			}

			if opt.Verbose {
				close(chDuration)
				<-doneDuration
				pbs.Wait()
			}
		default:
			file := "-"
			if len(args) > 0 {
				file = expandPath(args[0])
			}
			if len(args) > 1 {
				checkError(fmt.Errorf("no more than one input file, use --config for multi-file runs"))
			}

			cfg := singleFileConfig(file, outFile, barcodeFile, barcodeName,
				pattern, start, maxDist, matcherKind, chunks)

			runMatch(opt, cfg, outTable, chunkSize, sampleFraction, outputLog)
		}
	},
}

func singleFileConfig(file string, out string, barcodeFile string, barcodeName string,
	pattern string, start int, maxDist int, matcherKind string, chunks int) *MatchConfig {
	if barcodeFile == "" {
		checkError(fmt.Errorf("flag -b/--barcodes needed"))
	}
	return &MatchConfig{
		Pattern: pattern,
		MaxDist: maxDist,
		Inputs:  []InputConfig{{Name: "R1", Path: file, Out: out}},
		Barcodes: []BarcodeConfig{{
			Name:    barcodeName,
			Input:   "R1",
			File:    barcodeFile,
			Start:   start,
			Matcher: matcherKind,
			Chunks:  chunks,
		}},
	}
}

// matchedFileName derives the output path of one input file processed
// in --in-dir mode.
func matchedFileName(file string, outDir string) string {
	base := filepath.Base(file)
	gz := strings.HasSuffix(base, ".gz")
	if gz {
		base = base[:len(base)-len(".gz")]
	}
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	base += ".matched.fastq"
	if gz {
		base += ".gz"
	}
	return filepath.Join(outDir, base)
}

// barcodeRun is the per-barcode state of one run: the matcher, its
// labels in byte form, and the match result of the current chunk.
type barcodeRun struct {
	cfg      BarcodeConfig
	inputIdx int

	m      matcher.Matcher
	k      int
	labels [][]byte

	idxs  []uint64
	quals []uint64

	matched uint64
}

func runMatch(opt *Options, cfg *MatchConfig, outTable string, chunkSize int,
	sampleFraction float64, outputLog bool) {
	if len(cfg.Inputs) == 0 {
		checkError(fmt.Errorf("no input files configured"))
	}
	if len(cfg.Barcodes) == 0 {
		checkError(fmt.Errorf("no barcodes configured"))
	}
	if cfg.Pattern == "" {
		cfg.Pattern = "{read_name}"
	}

	inputIdx := make(map[string]int, len(cfg.Inputs))
	for i, in := range cfg.Inputs {
		if in.Name == "" || in.Path == "" {
			checkError(fmt.Errorf("input %d: name and path needed", i))
		}
		if _, ok := inputIdx[in.Name]; ok {
			checkError(fmt.Errorf("duplicated input name: %s", in.Name))
		}
		inputIdx[in.Name] = i
	}

	// ---------------------------------------------------------------
	// matchers

	timeStart := time.Now()

	barcodeNames := make([]string, 0, len(cfg.Barcodes))
	runs := make([]*barcodeRun, 0, len(cfg.Barcodes))
	byName := make(map[string]*barcodeRun, len(cfg.Barcodes))
	for _, bc := range cfg.Barcodes {
		idx, ok := inputIdx[bc.Input]
		if !ok {
			checkError(fmt.Errorf("barcode %s: unknown input: %s", bc.Name, bc.Input))
		}
		if _, ok = byName[bc.Name]; ok {
			checkError(fmt.Errorf("duplicated barcode name: %s", bc.Name))
		}

		b := &barcodeRun{cfg: bc, inputIdx: idx}
		buildBarcodeMatcher(b, cfg.MaxDist, outputLog)

		barcodeNames = append(barcodeNames, bc.Name)
		runs = append(runs, b)
		byName[bc.Name] = b
	}

	pattern, err := fastq.ParsePattern(cfg.Pattern, barcodeNames)
	checkError(err)

	bySlot := make([]*barcodeRun, len(pattern.Slots()))
	for i, name := range pattern.Slots() {
		bySlot[i] = byName[name]
	}

	// ---------------------------------------------------------------
	// input and output files

	readers := make([]*fastq.Reader, len(cfg.Inputs))
	writers := make([]*fastq.Writer, len(cfg.Inputs))
	for i, in := range cfg.Inputs {
		readers[i], err = fastq.NewReader(expandPath(in.Path))
		checkError(err)

		if in.Out != "" {
			writers[i], err = fastq.NewWriter(expandPath(in.Out), pattern)
			checkError(err)
		}
	}
	defer func() {
		for _, r := range readers {
			r.Close()
		}
	}()

	var tablefh *bufio.Writer
	if outTable != "" {
		outfh, gw, w, err := outStream(outTable, strings.HasSuffix(outTable, ".gz"), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()
		tablefh = outfh

		fmt.Fprint(tablefh, "read")
		for _, b := range runs {
			fmt.Fprintf(tablefh, "\t%s\t%s_dist\t%s_dist2", b.cfg.Name, b.cfg.Name, b.cfg.Name)
		}
		fmt.Fprintln(tablefh)
	}

	// ---------------------------------------------------------------
	// streaming

	if outputLog {
		log.Infof("matching with %d barcode(s) on %d input file(s) ...",
			len(runs), len(cfg.Inputs))
	}
	timeStart1 := time.Now()

	chunks := make([]*fastq.Chunk, len(readers))
	readErrs := make([]error, len(readers))
	var keep []bool

	labelAt := func(slot, record int) []byte {
		b := bySlot[slot]
		return b.labels[b.idxs[record]]
	}

	var total, kept uint64
	var speed float64 // million reads per minute

	for {
		// one chunk per input file, read concurrently
		var wg sync.WaitGroup
		for i := range readers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				chunks[i], readErrs[i] = readers[i].ReadChunk(chunkSize)
			}(i)
		}
		wg.Wait()
		for _, err := range readErrs {
			checkError(err)
		}

		n := chunks[0].N()
		for i, c := range chunks {
			if c.N() != n {
				checkError(errors.Wrapf(fastq.ErrUnevenChunks, "%s: %d records, %s: %d records",
					cfg.Inputs[0].Path, n, cfg.Inputs[i].Path, c.N()))
			}
		}
		if n == 0 {
			for _, c := range chunks {
				fastq.RecycleChunk(c)
			}
			break
		}

		for _, b := range runs {
			c := chunks[b.inputIdx]
			b.idxs, b.quals, err = matchShards(b.m, c.Seqs, b.cfg.Start, b.cfg.Start+b.k,
				opt.NumCPUs, b.idxs, b.quals)
			checkError(err)
		}

		// reads pass when every barcode is within the distance budget
		if cap(keep) < n {
			keep = make([]bool, n)
		}
		keep = keep[:n]
		for i := 0; i < n; i++ {
			ok := true
			for _, b := range runs {
				if barcode.BestDist(b.quals[i]) <= uint64(cfg.MaxDist) {
					b.matched++
				} else {
					ok = false
				}
			}
			if ok && sampleFraction < 1 {
				ok = fastq.KeepRead(chunks[0].Names[i], sampleFraction)
			}
			if ok {
				kept++
			}
			keep[i] = ok
		}
		total += uint64(n)

		var wgOut sync.WaitGroup
		writeErrs := make([]error, len(writers))
		for i, w := range writers {
			if w == nil {
				continue
			}
			wgOut.Add(1)
			go func(i int, w *fastq.Writer) {
				defer wgOut.Done()
				writeErrs[i] = w.WriteChunk(chunks[i], keep, labelAt)
			}(i, w)
		}
		wgOut.Wait()
		for _, err := range writeErrs {
			checkError(err)
		}

		if tablefh != nil {
			writeMatchTable(tablefh, chunks[0], runs)
		}

		if outputLog {
			speed = float64(total) / 1000000 / time.Since(timeStart1).Minutes()
			fmt.Fprintf(os.Stderr, "processed reads: %d, speed: %.3f million reads per minute\r", total, speed)
		}

		for _, c := range chunks {
			fastq.RecycleChunk(c)
		}
	}

	for _, w := range writers {
		if w != nil {
			checkError(w.Close())
		}
	}

	if outputLog {
		fmt.Fprintln(os.Stderr)
		log.Infof("processed reads: %d", total)
		for _, b := range runs {
			log.Infof("  barcode %s: %.4f%% (%d/%d) within distance %d",
				b.cfg.Name, percent(b.matched, total), b.matched, total, cfg.MaxDist)
		}
		log.Infof("%.4f%% (%d/%d) reads kept", percent(kept, total), kept, total)
		log.Infof("done in %s", time.Since(timeStart))
	}
}

func percent(part uint64, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// buildBarcodeMatcher loads one barcode file and indexes it.
func buildBarcodeMatcher(b *barcodeRun, maxDist int, outputLog bool) {
	seqs, labels, err := readBarcodeFile(expandPath(b.cfg.File))
	checkError(err)
	if len(seqs) == 0 {
		checkError(fmt.Errorf("%s: no barcodes", b.cfg.File))
	}
	b.k = len(seqs[0])

	kind := b.cfg.Matcher
	if kind == "" || kind == "auto" {
		if len(seqs) <= listMatcherLimit {
			kind = "list"
		} else {
			kind = "hash"
		}
	}

	switch kind {
	case "list":
		m := matcher.NewList()
		checkError(m.AddSequences(seqs...))
		m.AddLabels(labels...)
		b.m = m
	case "hash":
		chunks := b.cfg.Chunks
		if chunks == 0 {
			chunks = masks.OptimalChunks(len(seqs), b.k, maxDist)
		}
		chunkMasks, mismatchMasks, err := masks.Plan(b.k, maxDist, chunks)
		checkError(errors.Wrapf(err, "barcode %s", b.cfg.Name))

		m, err := matcher.NewHash(chunkMasks, mismatchMasks, maxDist)
		checkError(err)
		checkError(m.AddSequences(seqs...))
		m.AddLabels(labels...)
		b.m = m

		if outputLog {
			log.Infof("barcode %s: %d sequences of %d bp, hash matcher with %d chunk(s)",
				b.cfg.Name, len(seqs), b.k, chunks)
		}
	default:
		checkError(fmt.Errorf("unknown matcher type: %s (list, hash or auto)", kind))
	}

	if outputLog && kind == "list" {
		log.Infof("barcode %s: %d sequences of %d bp, list matcher",
			b.cfg.Name, len(seqs), b.k)
	}

	b.labels = make([][]byte, len(labels))
	for i, l := range labels {
		b.labels[i] = []byte(l)
	}
}

// readBarcodeFile reads a TSV of barcode sequences with an optional
// label column. Missing labels default to the sequence itself.
func readBarcodeFile(file string) ([]string, []string, error) {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return nil, nil, errors.Wrap(err, file)
	}

	seqs := make([]string, 0, 1024)
	labels := make([]string, 0, 1024)

	scanner := bufio.NewScanner(fh)
	var line, s, label string
	for scanner.Scan() {
		line = strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || line[0] == '#' {
			continue
		}

		if i := strings.IndexByte(line, '\t'); i >= 0 {
			s, label = line[:i], line[i+1:]
			if j := strings.IndexByte(label, '\t'); j >= 0 {
				label = label[:j]
			}
		} else {
			s, label = line, line
		}
		seqs = append(seqs, s)
		labels = append(labels, label)
	}
	if err = scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, file)
	}

	return seqs, labels, fh.Close()
}

// matchShards matches one chunk of reads, fanned out over threads.
// idxs and quals are reused when big enough.
func matchShards(m matcher.Matcher, seqs [][]byte, start int, end int, threads int,
	idxs []uint64, quals []uint64) ([]uint64, []uint64, error) {
	n := len(seqs)
	if cap(idxs) < n {
		idxs = make([]uint64, n)
		quals = make([]uint64, n)
	}
	idxs = idxs[:n]
	quals = quals[:n]

	if threads < 1 {
		threads = 1
	}
	shard := (n + threads - 1) / threads

	var wg sync.WaitGroup
	errs := make([]error, 0, threads)
	var mu sync.Mutex
	for lo := 0; lo < n; lo += shard {
		hi := lo + shard
		if hi > n {
			hi = n
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			out, err := matcher.MatchAll(m, seqs[lo:hi], start, end)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			copy(idxs[lo:hi], out.Row(0))
			copy(quals[lo:hi], out.Row(1))
		}(lo, hi)
	}
	wg.Wait()

	if len(errs) > 0 {
		return nil, nil, errs[0]
	}
	return idxs, quals, nil
}

func writeMatchTable(outfh *bufio.Writer, c *fastq.Chunk, runs []*barcodeRun) {
	for i := range c.Names {
		name := c.Names[i]
		if j := bytes.IndexByte(name, ' '); j >= 0 {
			name = name[:j]
		}
		fmt.Fprintf(outfh, "%s", name)
		for _, b := range runs {
			if b.idxs[i] == matcher.NoMatch {
				fmt.Fprintf(outfh, "\t-\t%d\t%d",
					barcode.BestDist(b.quals[i]), barcode.NextDist(b.quals[i]))
			} else {
				fmt.Fprintf(outfh, "\t%s\t%d\t%d", b.labels[b.idxs[i]],
					barcode.BestDist(b.quals[i]), barcode.NextDist(b.quals[i]))
			}
		}
		fmt.Fprintln(outfh)
	}
}

func init() {
	RootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("config", "c", "",
		formatFlagUsage(`TOML run sheet for multi-file runs; overrides the single-file flags.`))

	matchCmd.Flags().StringP("barcodes", "b", "",
		formatFlagUsage(`Barcode file, TSV: sequence and an optional label column.`))

	matchCmd.Flags().String("barcode-name", "barcode",
		formatFlagUsage(`Barcode name referenced from --pattern.`))

	matchCmd.Flags().IntP("start", "s", 0,
		formatFlagUsage(`0-based position of the first barcode base in a read.`))

	matchCmd.Flags().IntP("max-dist", "m", 1,
		formatFlagUsage(`Maximum Hamming distance of a reported match.`))

	matchCmd.Flags().StringP("matcher", "M", "auto",
		formatFlagUsage(`Matcher type: list, hash, or auto (list for small barcode sets).`))

	matchCmd.Flags().Int("chunks", 0,
		formatFlagUsage(`Number of barcode chunks for the hash matcher (0: pick from a cost model).`))

	matchCmd.Flags().StringP("pattern", "p", "{read_name}",
		formatFlagUsage(`Output read name pattern, e.g. "{barcode}_{read_name}". Fields: barcode names, read_name, lane, tile, x, y.`))

	matchCmd.Flags().StringP("out-file", "o", "",
		formatFlagUsage(`Output FASTQ of matched reads, supports a ".gz" suffix (default: no FASTQ output).`))

	matchCmd.Flags().StringP("out-table", "t", "",
		formatFlagUsage(`Output TSV of per-read matches, supports a ".gz" suffix ("-" for stdout).`))

	matchCmd.Flags().Int("chunk-size", 65536,
		formatFlagUsage(`Reads per processing chunk.`))

	matchCmd.Flags().Float64("sample-fraction", 1,
		formatFlagUsage(`Keep this fraction of matched reads, chosen by a stable hash of the read name.`))

	matchCmd.Flags().String("in-dir", "",
		formatFlagUsage(`Directory of input FASTQ files, matched one by one with the same barcode set.`))

	matchCmd.Flags().String("out-dir", "",
		formatFlagUsage(`Output directory of matched FASTQ files for --in-dir.`))

	matchCmd.Flags().String("file-regexp", `\.f(ast)?q(\.gz)?$`,
		formatFlagUsage(`Regular expression of FASTQ files in --in-dir.`))

	matchCmd.SetUsageTemplate(usageTemplate("-b <barcodes.tsv> [-m <max dist>] [-o out.fq.gz] [-t matches.tsv] {<in.fq.gz> | --in-dir <dir> | -c <run sheet.toml>}"))
}
