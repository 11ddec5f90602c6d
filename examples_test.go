package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every example program must compile cleanly for both targets.
func TestExamplesCompileForBothTargets(t *testing.T) {
	matches, err := filepath.Glob("examples/*.efu")
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	for _, input := range matches {
		for _, target := range []string{"go", "js"} {
			outDir := t.TempDir()

			var stderr bytes.Buffer
			err := Compile(input, Options{Target: target, Out: outDir + "/", Stderr: &stderr})
			require.NoError(t, err, "%s for %s: %s", input, target, stderr.String())

			base := strings.TrimSuffix(filepath.Base(input), ".efu")
			data, err := os.ReadFile(filepath.Join(outDir, base+targetExtensions[target]))
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		}
	}
}

func TestFizzbuzzEmission(t *testing.T) {
	src, err := os.ReadFile("examples/fizzbuzz.efu")
	require.NoError(t, err)

	nodes := checkedSource(t, string(src))

	jsOut, err := EmitJS(nodes)
	require.NoError(t, err)
	assert.Contains(t, jsOut, "while (true) {", "fizzbuzz self-tail-call becomes a loop")

	goOut, err := EmitGo(nodes)
	require.NoError(t, err)
	assert.Contains(t, goOut, "fizzbuzz(i + 1, end)", "the static target keeps the recursion")
}
