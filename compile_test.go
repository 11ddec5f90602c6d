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

func writeInput(t *testing.T, name, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	return path
}

func TestOutputPath(t *testing.T) {
	cases := []struct {
		input string
		out   string
		ext   string
		want  string
	}{
		{"dir/prog.efu", "", ".go", "dir/prog.go"},
		{"dir/prog.efu", "build/", ".js", "build/prog.js"},
		{"dir/prog.efu", "elsewhere/main.go", ".go", "elsewhere/main.go"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, outputPath(c.input, c.out, c.ext))
	}
}

func TestCompileWritesStaticTarget(t *testing.T) {
	input := writeInput(t, "hello.efu", "fn main() { printnf(`hello'); }")

	var stdout, stderr bytes.Buffer
	err := Compile(input, Options{Target: "go", Stdout: &stdout, Stderr: &stderr})
	require.NoError(t, err, stderr.String())

	out := strings.TrimSuffix(input, ".efu") + ".go"
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "package main")
	assert.Contains(t, string(data), `fmt.Printf("hello\n")`)
}

func TestCompileWritesDynamicTargetIntoDirectory(t *testing.T) {
	input := writeInput(t, "hello.efu", "fn main() { printnf(`hello'); }")
	outDir := t.TempDir()

	var stderr bytes.Buffer
	err := Compile(input, Options{Target: "js", Out: outDir + "/", Stderr: &stderr})
	require.NoError(t, err, stderr.String())

	data, err := os.ReadFile(filepath.Join(outDir, "hello.js"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "function* main()")
	assert.Contains(t, string(data), "exec(main);")
}

func TestCompileDebugIRSkipsEmission(t *testing.T) {
	input := writeInput(t, "prog.efu", "let x: isz = 1 + 2 * 3;")

	var stdout, stderr bytes.Buffer
	err := Compile(input, Options{DebugIR: true, Stdout: &stdout, Stderr: &stderr})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 2, "one line per toplevel node")
	assert.Equal(t, "VarDecl{x, isz, BinOp{Literal{1}, +, BinOp{Literal{2}, *, Literal{3}}}}", lines[0])
	assert.Equal(t, "EoF{}", lines[1])

	_, err = os.Stat(strings.TrimSuffix(input, ".efu") + ".go")
	assert.True(t, os.IsNotExist(err), "debug-ir skips emission")
}

func TestCompileFailsOnTypeError(t *testing.T) {
	input := writeInput(t, "bad.efu", "let x: bool = 5;")

	var stderr bytes.Buffer
	err := Compile(input, Options{Stderr: &stderr})
	require.Equal(t, errCompileFailed, err)

	assert.Contains(t, stderr.String(), "[ERROR]")
	assert.Contains(t, stderr.String(), "expected bool")

	_, statErr := os.Stat(strings.TrimSuffix(input, ".efu") + ".go")
	assert.True(t, os.IsNotExist(statErr), "no target file is produced on failure")
}

func TestCompileFailsOnParseError(t *testing.T) {
	input := writeInput(t, "broken.efu", "fn main() { let ; }")

	var stderr bytes.Buffer
	err := Compile(input, Options{Stderr: &stderr})
	assert.Equal(t, errCompileFailed, err)
	assert.NotEmpty(t, stderr.String())
}

func TestCompileRejectsUnknownTarget(t *testing.T) {
	input := writeInput(t, "prog.efu", "fn main() { }")

	var stderr bytes.Buffer
	err := Compile(input, Options{Target: "wasm", Stderr: &stderr})
	assert.Equal(t, errCompileFailed, err)
	assert.Contains(t, stderr.String(), "unknown target")
}

func TestCompileMissingInput(t *testing.T) {
	var stderr bytes.Buffer
	err := Compile(filepath.Join(t.TempDir(), "absent.efu"), Options{Stderr: &stderr})
	assert.Error(t, err)
}

func TestLoadProjectConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "efu.yaml"),
		[]byte("target: js\nruntime: bun\n"), 0o644))

	cfg, err := loadProjectConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "js", cfg.Target)
	assert.Equal(t, "bun", cfg.Runtime)

	empty, err := loadProjectConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, projectConfig{}, empty)
}
