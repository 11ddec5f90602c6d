package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emitJSSource(t *testing.T, src string) string {
	t.Helper()

	out, err := EmitJS(checkedSource(t, src))
	require.NoError(t, err)

	return out
}

func TestJSHelloWorld(t *testing.T) {
	out := emitJSSource(t, "fn main() { printnf(`hello'); }")

	assert.Contains(t, out, "function* main() {")
	assert.Contains(t, out, `(yield* printnf("hello"));`)
}

func TestJSPreludeAndDriver(t *testing.T) {
	out := emitJSSource(t, "fn main() { }")

	assert.Contains(t, out, "function* printf(format, ...args)")
	assert.Contains(t, out, "function* printnf(format, ...args)")
	assert.Contains(t, out, "function exec(fn)")
	assert.True(t, strings.HasSuffix(out, "exec(main);\n"), "the driver invocation closes the module")
	assert.Less(t, strings.Index(out, "function* printf"), strings.Index(out, "function* main"),
		"the prelude comes first")
}

func TestJSUserCallsAreDelegated(t *testing.T) {
	out := emitJSSource(t, "fn ping() { }\nfn main() { ping(); }")

	assert.Contains(t, out, "(yield* ping());")
}

func TestJSTailCallBecomesLoop(t *testing.T) {
	out := emitJSSource(t, "fn loop(i: isz, end: isz) { if (i > end) return; loop(i + 1, end); }\nfn main() { loop(0, 3); }")

	start := strings.Index(out, "function* loop")
	end := strings.Index(out, "function* main")
	require.True(t, start >= 0 && end > start)
	body := out[start:end]

	assert.Equal(t, 1, strings.Count(body, "while (true) {"))
	assert.NotContains(t, body, "yield* loop", "the self-call is never emitted")
	assert.Contains(t, body, "i = i + 1;")
	assert.Contains(t, body, "end = end;")
}

func TestJSTailCallRequiresExactArity(t *testing.T) {
	out := emitJSSource(t, "fn f(a: isz, b: isz) { f(a, 1 + b); }\nfn g(a: isz) { g(a); h(); }\nfn h() { }\nfn main() { }")

	fStart := strings.Index(out, "function* f")
	gStart := strings.Index(out, "function* g")
	require.True(t, fStart >= 0 && gStart > fStart)

	assert.Contains(t, out[fStart:gStart], "while (true) {")
	assert.NotContains(t, out[gStart:], "while (true)", "a call that is not last keeps its recursion")
	assert.Contains(t, out[gStart:], "(yield* g(a));")
}

func TestJSVarDeclarationsDropTypes(t *testing.T) {
	out := emitJSSource(t, "let a: isz = 5;\nfn main() { let b: string = `x'; }")

	assert.Contains(t, out, "let a = 5;")
	assert.Contains(t, out, `  let b = "x";`)
}

func TestJSIndentationIsTwoSpaces(t *testing.T) {
	out := emitJSSource(t, "fn main() { if 1 < 2 { printf(`a'); } }")

	assert.Contains(t, out, "  if (1 < 2) {\n")
	assert.Contains(t, out, `    (yield* printf("a"));`)
}

func TestJSPipeEmitsDesugaredCall(t *testing.T) {
	out := emitJSSource(t, "fn fizz(n: isz) -> u8 { return 0; }\nfn main() { 5 |> fizz; }")

	assert.Contains(t, out, "(yield* fizz(5));")
}

func TestJSPreludeBuffersOnNewline(t *testing.T) {
	assert.Contains(t, jsPrelude, `__buffer.indexOf("\n")`)
	assert.Contains(t, jsPrelude, "console.log(__buffer.slice(0, nl));")
	assert.Contains(t, jsPrelude, `yield* printf(format + "\n", ...args);`)
	assert.Contains(t, jsPrelude, `typeof r.value.then === "function"`, "the driver awaits yielded promises")
}
