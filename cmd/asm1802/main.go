/*
 * asm1802 - Command line entry point
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Command asm1802 drives the preprocessor and the multi-pass assembler
// core over a source file, writing one of four output binary formats and
// an optional listing.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/Mark-Clegg/asm1802-sub000/internal/asmerr"
	"github.com/Mark-Clegg/asm1802-sub000/internal/asmlog"
	"github.com/Mark-Clegg/asm1802-sub000/internal/assemble"
	"github.com/Mark-Clegg/asm1802-sub000/internal/cpuvariant"
	"github.com/Mark-Clegg/asm1802-sub000/internal/preprocess"
	"github.com/Mark-Clegg/asm1802-sub000/internal/sourcereader"
	"github.com/Mark-Clegg/asm1802-sub000/internal/writer"
)

var logger *slog.Logger

func main() {
	optOutput := getopt.StringLong("output", 'o', "", "Output file (default: input file with the format's extension)")
	optFormat := getopt.StringLong("format", 'f', "hex", "Output format: hex, idiot4, elfos, bin")
	optListing := getopt.StringLong("listing", 'L', "", "Listing file")
	optLog := getopt.StringLong("log", 'l', "", "Log file")
	optProcessor := getopt.StringLong("processor", 'p', "1802", "Starting CPU variant: 1802, 1806, 1806A")
	optDefines := getopt.StringLong("define", 'D', "", "Comma-separated NAME=value preprocessor defines")
	optSymbols := getopt.BoolLong("symbols", 's', "Dump the end-of-run symbol table to the listing")
	optDebug := getopt.BoolLong("debug", 'd', "Mirror debug-level log records to stderr")
	optNoRegisters := getopt.BoolLong("no-registers", 0, "Disable the built-in R0-RF register symbol aliases")
	optNoPorts := getopt.BoolLong("no-ports", 0, "Disable the built-in P1-P7 I/O port symbol aliases")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	args := getopt.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: asm1802 [options] source.asm")
		os.Exit(1)
	}
	sourceFile := args[0]

	var logWriter io.Writer
	if *optLog != "" {
		logFile, err := os.Create(*optLog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot create log file %q: %s\n", *optLog, err)
			os.Exit(1)
		}
		defer logFile.Close()
		logWriter = logFile
	}
	level := new(slog.LevelVar)
	level.Set(slog.LevelDebug)
	logger = slog.New(asmlog.NewHandler(logWriter, &slog.HandlerOptions{Level: level}, *optDebug))
	slog.SetDefault(logger)

	format, ok := writer.Names[strings.ToLower(*optFormat)]
	if !ok {
		logger.Error("unknown output format", "format", *optFormat)
		os.Exit(1)
	}

	startVariant, ok := cpuvariant.Parse(strings.ToUpper(*optProcessor))
	if !ok {
		logger.Error("unknown starting CPU variant", "processor", *optProcessor)
		os.Exit(1)
	}

	baseDir := filepath.Dir(sourceFile)
	readInclude := func(name string) ([]byte, error) {
		if !filepath.IsAbs(name) {
			name = filepath.Join(baseDir, name)
		}
		return os.ReadFile(name)
	}

	pp := preprocess.New(readInclude)
	for _, raw := range strings.Split(*optDefines, ",") {
		d := strings.TrimSpace(raw)
		if d == "" {
			continue
		}
		parts := strings.SplitN(d, "=", 2)
		value := "1"
		if len(parts) == 2 {
			value = parts[1]
		}
		pp.Define(parts[0], value)
	}

	flat, ppLog := pp.Run(sourceFile)
	if ppLog.HasErrors() {
		reportDiagnostics(ppLog)
		logger.Error("preprocessing failed", "errors", ppLog.ErrorCount())
		os.Exit(1)
	}
	reportDiagnostics(ppLog)

	newSrc := func() (assemble.LineSource, error) {
		return sourcereader.NewFromReader(sourceFile, strings.NewReader(flat)), nil
	}

	result, err := assemble.Run(newSrc, assemble.Options{
		StartProcessor: startVariant,
		ReadFile:       readInclude,
		DumpSymbols:    *optSymbols,
		NoRegisters:    *optNoRegisters,
		NoPorts:        *optNoPorts,
	})
	if err != nil {
		logger.Error("assembly aborted", "error", err)
		os.Exit(1)
	}

	reportDiagnostics(result.Log)
	if result.Log.HasErrors() {
		logger.Error("assembly failed", "errors", result.Log.ErrorCount())
		os.Exit(1)
	}

	outPath := *optOutput
	if outPath == "" {
		outPath = defaultOutputName(sourceFile, *optFormat)
	}
	outFile, err := os.Create(outPath)
	if err != nil {
		logger.Error("cannot create output file", "path", outPath, "error", err)
		os.Exit(1)
	}
	defer outFile.Close()

	if err := writer.Write(format, result.Code, result.EntryPoint, outFile); err != nil {
		logger.Error("writing output failed", "error", err)
		os.Exit(1)
	}

	if *optListing != "" {
		if err := writeListingFile(*optListing, result); err != nil {
			logger.Error("writing listing failed", "error", err)
			os.Exit(1)
		}
	}

	if result.Restarted {
		logger.Info("dead-code elimination pass dropped unreferenced subroutines",
			"count", len(result.DroppedSubs), "bytes", result.OptimizedBytes)
	}
	logger.Info("assembly complete", "output", outPath, "warnings", result.Log.WarningCount())
}

func defaultOutputName(source, format string) string {
	ext := map[string]string{"hex": ".hex", "idiot4": ".idiot4", "elfos": ".bin", "bin": ".bin"}[strings.ToLower(format)]
	if ext == "" {
		ext = ".out"
	}
	base := strings.TrimSuffix(source, filepath.Ext(source))
	return base + ext
}

func reportDiagnostics(log *asmerr.Log) {
	for _, d := range log.Diagnostics() {
		fmt.Fprintln(os.Stderr, d.String())
	}
}

func writeListingFile(path string, result *assemble.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, ev := range result.Listing {
		line := ev.File
		if ev.InMacro {
			line = fmt.Sprintf("%s(macro)", line)
		}
		addr := "    "
		bytes := ""
		if ev.PC != nil {
			addr = fmt.Sprintf("%04X", *ev.PC)
			bytes = hexJoin(ev.Bytes)
		}
		if _, err := fmt.Fprintf(f, "%-20s %4d  %-4s  %-24s  %s\n", line, ev.FileLine, addr, bytes, ev.Text); err != nil {
			return err
		}
	}

	if len(result.Symbols) > 0 {
		fmt.Fprintln(f, "\nSymbol table:")
		for _, s := range result.Symbols {
			value := "unset"
			if s.Value != nil {
				value = fmt.Sprintf("%04X", *s.Value)
			}
			scope := s.Scope
			if scope == "" {
				scope = "(global)"
			}
			fmt.Fprintf(f, "  %-20s %-12s %s\n", s.Name, scope, value)
		}
	}
	return nil
}

func hexJoin(data []byte) string {
	var b strings.Builder
	for i, by := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", by)
	}
	return b.String()
}
