package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alecthomas/repr"
	pkgerrors "github.com/pkg/errors"

	"github.com/efu-lang/efugo/lexer"
)

type Options struct {
	Target  string
	Out     string
	Runtime string
	Run     bool
	DebugIR bool
	DumpAST bool

	Stdout io.Writer
	Stderr io.Writer
}

// errCompileFailed marks a run whose diagnostics were already printed;
// the driver only needs the non-zero exit.
var errCompileFailed = fmt.Errorf("compilation failed")

var targetExtensions = map[string]string{
	"go": ".go",
	"js": ".js",
}

// Compile runs the whole pipeline on one input file: lex, parse,
// check, emit, and optionally hand the output to the target toolchain.
func Compile(input string, opts Options) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Target == "" {
		opts.Target = "go"
	}

	ext, ok := targetExtensions[opts.Target]
	if !ok {
		fmt.Fprintf(opts.Stderr, "unknown target '%s'\n", opts.Target)
		return errCompileFailed
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return pkgerrors.Wrapf(err, "reading %s", input)
	}

	p := NewParser(lexer.New(bytes.NewReader(data), input))
	nodes, err := p.Parse()
	if err != nil {
		fmt.Fprintf(opts.Stderr, "%s\n", err)
		return errCompileFailed
	}

	if opts.DebugIR {
		for _, n := range nodes {
			fmt.Fprintln(opts.Stdout, DebugIR(n))
		}
		return nil
	}
	if opts.DumpAST {
		repr.New(opts.Stdout).Println(nodes)
		return nil
	}

	if !NewChecker(opts.Stderr).Run(nodes) {
		return errCompileFailed
	}

	var emitted string
	switch opts.Target {
	case "go":
		emitted, err = EmitGo(nodes)
	case "js":
		emitted, err = EmitJS(nodes)
	}
	if err != nil {
		fmt.Fprintf(opts.Stderr, "%s\n", err)
		return errCompileFailed
	}

	out := outputPath(input, opts.Out, ext)
	if err := os.WriteFile(out, []byte(emitted), 0o644); err != nil {
		return pkgerrors.Wrapf(err, "writing %s", out)
	}

	if opts.Run {
		return runOutput(out, opts)
	}

	return nil
}

// outputPath resolves the emission path: an explicit file wins, a
// directory (trailing slash) takes the input's basename with the
// target extension, and an empty -out places the output next to the
// input.
func outputPath(input, out, ext string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ext

	switch {
	case out == "":
		return filepath.Join(filepath.Dir(input), base)
	case strings.HasSuffix(out, "/"):
		return filepath.Join(out, base)
	}

	return out
}

// runOutput hands the emitted file to the downstream toolchain.
func runOutput(out string, opts Options) error {
	var cmd *exec.Cmd
	switch opts.Target {
	case "go":
		cmd = exec.Command("go", "run", out)
	case "js":
		runtime := opts.Runtime
		if runtime == "" {
			runtime = "node"
		}
		switch runtime {
		case "node", "bun":
			cmd = exec.Command(runtime, out)
		case "deno":
			cmd = exec.Command("deno", "run", out)
		default:
			fmt.Fprintf(opts.Stderr, "unknown runtime '%s'\n", runtime)
			return errCompileFailed
		}
	}

	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		return pkgerrors.Wrapf(err, "running %s", out)
	}

	return nil
}
