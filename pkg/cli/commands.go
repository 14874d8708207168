package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/nexuslang/nexus/internal/bytecode"
	"github.com/nexuslang/nexus/internal/config"
)

// ANSI colors for analyze output, enabled only on a terminal.
const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorReset  = "\033[0m"
)

func stderrIsTerminal() bool {
	f, ok := stderr.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func paint(color, s string) string {
	if !stderrIsTerminal() {
		return s
	}
	return color + s + colorReset
}

func cmdRun(path string) int {
	if !isSourceFile(path) {
		return fail("%s is not a %s file", path, config.SourceFileExt)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return fail("%v", err)
	}

	rt, cleanup, err := newRuntime()
	if err != nil {
		return fail("%v", err)
	}
	defer cleanup()

	res := rt.Execute(string(source))
	fmt.Fprint(stdout, res.Output)
	if !res.Success {
		fmt.Fprintln(stderr, paint(colorRed, res.Error))
		return 1
	}
	return 0
}

func cmdBuild(args []string) int {
	var path, out string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-o":
			if i+1 >= len(args) {
				return usageError("-o requires a path")
			}
			i++
			out = args[i]
		case path == "":
			path = args[i]
		default:
			return usageError("build expects one source file")
		}
	}
	if path == "" {
		return usageError("build expects one source file")
	}
	if !isSourceFile(path) {
		return fail("%s is not a %s file", path, config.SourceFileExt)
	}
	if out == "" {
		out = strings.TrimSuffix(path, config.SourceFileExt) + config.BinaryFileExt
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fail("%v", err)
	}

	rt, cleanup, err := newRuntime()
	if err != nil {
		return fail("%v", err)
	}
	defer cleanup()

	res := rt.Compile(string(source))
	if !res.Success {
		fmt.Fprintln(stderr, paint(colorRed, res.Error))
		return 1
	}
	if err := os.WriteFile(out, res.Binary, 0o644); err != nil {
		return fail("%v", err)
	}
	fmt.Fprintf(stdout, "wrote %s (%d bytes, ratio %.2f)\n", out, len(res.Binary), res.CompressionRatio)
	return 0
}

func cmdDisasm(path string) int {
	if !isBinaryFile(path) {
		return fail("%s is not a %s file", path, config.BinaryFileExt)
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return fail("%v", err)
	}
	art, err := bytecode.Decompile(blob)
	if err != nil {
		return fail("%v", err)
	}

	h := art.Header
	fmt.Fprintf(stdout, "%s v%d.%d.%d  built %s\n", path,
		h.Version[0], h.Version[1], h.Version[2],
		time.Unix(int64(h.Timestamp), 0).UTC().Format(time.RFC3339))
	fmt.Fprintf(stdout, "code %d bytes, %d constants, %d symbols\n\n",
		len(art.Code), len(art.Constants), len(art.Symbols))

	listing, err := bytecode.DisassembleText(art)
	if err != nil {
		return fail("%v", err)
	}
	fmt.Fprint(stdout, listing)
	return 0
}

func cmdAnalyze(path string) int {
	if !isSourceFile(path) {
		return fail("%s is not a %s file", path, config.SourceFileExt)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return fail("%v", err)
	}

	rt, cleanup, err := newRuntime()
	if err != nil {
		return fail("%v", err)
	}
	defer cleanup()

	rep := rt.Analyze(string(source))
	for _, msg := range rep.Errors {
		fmt.Fprintf(stderr, "%s %s\n", paint(colorRed, "error:"), msg)
	}
	for _, msg := range rep.Warnings {
		fmt.Fprintf(stderr, "%s %s\n", paint(colorYellow, "warning:"), msg)
	}
	for _, msg := range rep.Suggestions {
		fmt.Fprintf(stderr, "%s %s\n", paint(colorCyan, "suggestion:"), msg)
	}
	if len(rep.Errors) > 0 {
		return 1
	}
	return 0
}

func cmdRepl() int {
	if err := NewRepl(stdin, stdout).Loop(); err != nil {
		return fail("%v", err)
	}
	return 0
}
