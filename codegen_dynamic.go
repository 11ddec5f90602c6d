package main

import (
	"fmt"
	"strconv"
	"strings"

	efuerrors "github.com/efu-lang/efugo/errors"
)

// jsPrelude is the runtime shim attached to every dynamic-target
// program: buffered printf flushing on newline, printnf and fmt on top
// of it, and the exec driver that steps the top-level generator and
// awaits any yielded promise.
const jsPrelude = `let __buffer = "";

function __format(format, args) {
  let out = "";
  let argi = 0;
  for (let i = 0; i < format.length; i++) {
    if (format[i] === "%" && format[i + 1] === "v") {
      out += String(args[argi++]);
      i++;
    } else {
      out += format[i];
    }
  }
  return out;
}

function* printf(format, ...args) {
  __buffer += __format(format, args);
  let nl;
  while ((nl = __buffer.indexOf("\n")) !== -1) {
    console.log(__buffer.slice(0, nl));
    __buffer = __buffer.slice(nl + 1);
  }
}

function* printnf(format, ...args) {
  yield* printf(format + "\n", ...args);
}

function* fmt(format, ...args) {
  return __format(format, args);
}

function exec(fn) {
  const it = fn();
  let input = undefined;
  const drive = () => {
    for (;;) {
      const r = it.next(input);
      if (r.done) {
        return;
      }
      if (r.value && typeof r.value.then === "function") {
        r.value.then((v) => {
          input = v;
          drive();
        });
        return;
      }
      input = r.value;
    }
  };
  drive();
}
`

type jsBackend struct {
	sb strings.Builder
}

// EmitJS renders the checked toplevels as dynamic-target source: the
// prelude, toplevel variables, every user function as a generator, and
// finally the driver invocation on main.
func EmitJS(nodes []Node) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				panic(r)
			}
			err = rerr
		}
	}()

	j := &jsBackend{}

	j.sb.WriteString(jsPrelude)
	j.sb.WriteString("\n")

	var vars []*VarDecl
	var funcs []*FuncDecl
	for _, n := range nodes {
		switch v := n.(type) {
		case *VarDecl:
			vars = append(vars, v)
		case *FuncDecl:
			funcs = append(funcs, v)
		}
	}

	for _, v := range vars {
		j.stmt(0, v)
	}
	if len(vars) > 0 {
		j.sb.WriteString("\n")
	}

	for _, fn := range funcs {
		j.emitFunc(fn)
		j.sb.WriteString("\n")
	}

	j.sb.WriteString("exec(main);\n")

	return j.sb.String(), nil
}

// tailCall reports the function's last statement when it is a call to
// the function itself with exactly its own arity.
func tailCall(fn *FuncDecl) *FuncCall {
	if len(fn.Body) == 0 {
		return nil
	}

	call, ok := fn.Body[len(fn.Body)-1].(*FuncCall)
	if !ok {
		return nil
	}
	if call.Name != fn.Name || len(call.Args) != len(fn.Args) {
		return nil
	}

	return call
}

func (j *jsBackend) emitFunc(fn *FuncDecl) {
	var args []string
	for _, arg := range fn.Args {
		args = append(args, arg.Name)
	}

	fmt.Fprintf(&j.sb, "function* %s(%s) {\n", fn.Name, strings.Join(args, ", "))

	if call := tailCall(fn); call != nil {
		// the self-call vanishes: its arguments become the
		// reassignments driving the next loop iteration
		j.indent(1)
		j.sb.WriteString("while (true) {\n")
		for _, s := range fn.Body[:len(fn.Body)-1] {
			j.stmt(2, s)
		}
		for i, arg := range fn.Args {
			j.indent(2)
			fmt.Fprintf(&j.sb, "%s = %s;\n", arg.Name, j.expr(call.Args[i]))
		}
		j.indent(1)
		j.sb.WriteString("}\n")
	} else {
		for _, s := range fn.Body {
			j.stmt(1, s)
		}
	}

	j.sb.WriteString("}\n")
}

func (j *jsBackend) indent(level int) {
	j.sb.WriteString(strings.Repeat("  ", level))
}

func (j *jsBackend) stmt(level int, n Node) {
	switch v := n.(type) {
	case *VarDecl:
		j.indent(level)
		if v.Init == nil {
			fmt.Fprintf(&j.sb, "let %s;\n", v.Name)
			return
		}
		fmt.Fprintf(&j.sb, "let %s = %s;\n", v.Name, j.expr(v.Init))
	case *Keyword:
		j.indent(level)
		if v.Expr == nil {
			j.sb.WriteString("return;\n")
			return
		}
		fmt.Fprintf(&j.sb, "return %s;\n", j.expr(v.Expr))
	case *IfElse:
		j.indent(level)
		fmt.Fprintf(&j.sb, "if (%s) {\n", j.expr(v.Cond))
		for _, s := range v.Body {
			j.stmt(level+1, s)
		}
		if v.Else != nil {
			j.indent(level)
			j.sb.WriteString("} else {\n")
			for _, s := range v.Else {
				j.stmt(level+1, s)
			}
		}
		j.indent(level)
		j.sb.WriteString("}\n")
	case *FuncCall, *PipeOp, *Binop, *Expr, *Ident, *Literal:
		j.indent(level)
		j.sb.WriteString(j.expr(n))
		j.sb.WriteString(";\n")
	default:
		panic(efuerrors.UnhandledNode{Backend: "js", Kind: fmt.Sprintf("%T", n)})
	}
}

func (j *jsBackend) expr(n Node) string {
	switch v := n.(type) {
	case *Literal:
		switch v.Kind {
		case LiteralInt:
			return strconv.FormatInt(v.Int, 10)
		case LiteralString:
			return strconv.Quote(v.Str)
		}
	case *Ident:
		return v.Name
	case *FuncCall:
		var args []string
		for _, a := range v.Args {
			args = append(args, j.expr(a))
		}
		return fmt.Sprintf("(yield* %s(%s))", v.Name, strings.Join(args, ", "))
	case *Binop:
		return fmt.Sprintf("%s %s %s", j.expr(v.Lhs), v.Op, j.expr(v.Rhs))
	case *Expr:
		return fmt.Sprintf("(%s)", j.expr(v.Item))
	case *PipeOp:
		call, err := desugarPipe(v)
		if err != nil {
			panic(err)
		}
		if call == nil {
			return j.expr(v.Value)
		}
		return j.expr(call)
	}

	panic(efuerrors.UnhandledNode{Backend: "js", Kind: fmt.Sprintf("%T", n)})
}
