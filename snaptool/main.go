// snaptool records a compiler invocation as a BiF snapshot: it runs
// the compiler on an input file, captures exit code, stdout and
// stderr, and writes the record the snapshot harness consumes.
//
// usage: snaptool <compiler> <input-file> <output.bif> [flags...]
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	pkgerrors "github.com/pkg/errors"

	"github.com/efu-lang/efugo/bif"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintln(os.Stderr, "usage: snaptool <compiler> <input-file> <output.bif> [flags...]")
		os.Exit(1)
	}

	compiler := os.Args[1]
	input := os.Args[2]
	output := os.Args[3]
	flags := os.Args[4:]

	rec, err := record(compiler, input, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fi, err := os.Create(output)
	if err != nil {
		fmt.Fprintln(os.Stderr, pkgerrors.Wrapf(err, "creating %s", output))
		os.Exit(1)
	}
	defer fi.Close()

	if err := bif.WriteRecord(fi, rec); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func record(compiler, input string, flags []string) (bif.Record, error) {
	args := append(append([]string{}, flags...), input)
	cmd := exec.Command(compiler, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return bif.Record{}, pkgerrors.Wrapf(err, "running %s", compiler)
		}
		code = exitErr.ExitCode()
	}

	return bif.Record{
		ExitCode: code,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}, nil
}
