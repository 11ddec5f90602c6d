package main

import (
	"fmt"
	"strconv"
	"strings"

	efuerrors "github.com/efu-lang/efugo/errors"
)

// goPrimitives renames the surface primitive spellings to the static
// target's names; anything else passes through.
var goPrimitives = map[string]string{
	"u8":  "uint8",
	"i8":  "int8",
	"u32": "uint32",
	"i32": "int32",
	"u64": "uint64",
	"i64": "int64",
	"usz": "uint",
	"isz": "int",
}

type goBackend struct {
	sb      strings.Builder
	imports []string
}

// EmitGo renders the checked toplevels as static-target source. The
// AST is rewritten in place first: print builtins become the target's
// formatted print, primitive type names become the target's names.
func EmitGo(nodes []Node) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				panic(r)
			}
			err = rerr
		}
	}()

	g := &goBackend{}

	rewrote := false
	for _, n := range nodes {
		if rewritePrints(n) {
			rewrote = true
		}
		renamePrimitives(n)
	}
	if rewrote {
		g.imports = append(g.imports, "fmt")
	}

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

	g.sb.WriteString("package main\n\n")
	g.emitImports()

	for _, v := range vars {
		g.emitToplevelVar(v)
	}
	if len(vars) > 0 {
		g.sb.WriteString("\n")
	}

	for i, fn := range funcs {
		if i > 0 {
			g.sb.WriteString("\n")
		}
		g.emitFunc(fn)
	}

	return g.sb.String(), nil
}

// rewritePrints renames print builtins toward the target: printf maps
// straight onto fmt.Printf, printnf injects its newline. Already
// rewritten names no longer match, so a second pass is a no-op.
func rewritePrints(n Node) bool {
	rewrote := false

	switch v := n.(type) {
	case *Ident:
		switch v.Name {
		case "printf", "printnf":
			v.Name = "fmt.Printf"
			rewrote = true
		}
		if strings.HasPrefix(v.Name, "fmt.") {
			rewrote = true
		}
	case *FuncCall:
		for _, a := range v.Args {
			if rewritePrints(a) {
				rewrote = true
			}
		}
		if strings.HasPrefix(v.Name, "fmt.") {
			rewrote = true
		}

		switch v.Name {
		case "printf":
			v.Name = "fmt.Printf"
			rewrote = true
		case "printnf":
			rewrote = true
			switch {
			case len(v.Args) == 0:
				v.Name = "fmt.Printf"
				v.Args = append(v.Args, &Literal{Kind: LiteralString, Str: "\n", Position: v.Position})
			default:
				if lit, ok := v.Args[0].(*Literal); ok && lit.Kind == LiteralString {
					v.Name = "fmt.Printf"
					lit.Str += "\n"
					break
				}
				inner := &FuncCall{Name: "fmt.Sprintf", Args: v.Args, Position: v.Position}
				v.Name = "fmt.Println"
				v.Args = []Node{inner}
			}
		}
	case *FuncDecl:
		for _, s := range v.Body {
			if rewritePrints(s) {
				rewrote = true
			}
		}
	case *VarDecl:
		if v.Init != nil {
			rewrote = rewritePrints(v.Init)
		}
	case *Keyword:
		if v.Expr != nil {
			rewrote = rewritePrints(v.Expr)
		}
	case *IfElse:
		rewrote = rewritePrints(v.Cond)
		for _, s := range v.Body {
			if rewritePrints(s) {
				rewrote = true
			}
		}
		for _, s := range v.Else {
			if rewritePrints(s) {
				rewrote = true
			}
		}
	case *Binop:
		if rewritePrints(v.Lhs) {
			rewrote = true
		}
		if rewritePrints(v.Rhs) {
			rewrote = true
		}
	case *Expr:
		rewrote = rewritePrints(v.Item)
	case *PipeOp:
		for link := v; link != nil; link = link.Next {
			if rewritePrints(link.Value) {
				rewrote = true
			}
		}
	}

	return rewrote
}

// renamePrimitives rewrites written argument, return and declaration
// type names to the static target's primitive names, in place.
func renamePrimitives(n Node) {
	switch v := n.(type) {
	case *FuncDecl:
		for i := range v.Args {
			v.Args[i].Type = goTypeName(v.Args[i].Type)
		}
		v.Returns = goTypeName(v.Returns)
		for _, s := range v.Body {
			renamePrimitives(s)
		}
	case *VarDecl:
		v.Type.Name = goTypeName(v.Type.Name)
		if v.Init != nil {
			renamePrimitives(v.Init)
		}
	case *IfElse:
		for _, s := range v.Body {
			renamePrimitives(s)
		}
		for _, s := range v.Else {
			renamePrimitives(s)
		}
	}
}

func goTypeName(name string) string {
	base, suffix := name, ""
	if idx := strings.Index(name, "["); idx >= 0 {
		base, suffix = name[:idx], name[idx:]
	}
	if renamed, ok := goPrimitives[base]; ok {
		return renamed + suffix
	}
	return name
}

func (g *goBackend) emitImports() {
	switch len(g.imports) {
	case 0:
	case 1:
		fmt.Fprintf(&g.sb, "import %q\n\n", g.imports[0])
	default:
		g.sb.WriteString("import (\n")
		for _, imp := range g.imports {
			fmt.Fprintf(&g.sb, "\t%q\n", imp)
		}
		g.sb.WriteString(")\n\n")
	}
}

func (g *goBackend) emitToplevelVar(v *VarDecl) {
	name := v.Type.Name
	if name == "()" || name == "number" {
		name = goResolvedName(v.Resolved)
	}

	if v.Init == nil {
		fmt.Fprintf(&g.sb, "var %s %s\n", v.Name, name)
		return
	}

	fmt.Fprintf(&g.sb, "var %s %s = %s\n", v.Name, name, g.expr(v.Init))
}

// goResolvedName maps a checker-resolved type to a target type name,
// for declarations whose written type was inferred.
func goResolvedName(t *Type) string {
	if t == nil {
		return "interface{}"
	}

	switch t.Kind {
	case TypePrimitive:
		switch t.Base {
		case PrimSI8:
			return "int8"
		case PrimUI8:
			return "uint8"
		case PrimSI32:
			return "int32"
		case PrimUI32:
			return "uint32"
		case PrimSISZ:
			return "int"
		case PrimUISZ:
			return "uint"
		case PrimFlt32:
			return "float32"
		case PrimFlt64:
			return "float64"
		case PrimString:
			return "string"
		case PrimBool:
			return "bool"
		case PrimPtr:
			return "uintptr"
		}
	case TypeArray:
		return "[]" + goResolvedName(t.Elem)
	}

	return "interface{}"
}

func (g *goBackend) emitFunc(fn *FuncDecl) {
	var args []string
	for _, arg := range fn.Args {
		args = append(args, arg.Name+" "+arg.Type)
	}

	ret := ""
	if fn.Returns != "()" && fn.Returns != "void" {
		ret = " " + fn.Returns
	}

	fmt.Fprintf(&g.sb, "func %s(%s)%s {\n", fn.Name, strings.Join(args, ", "), ret)
	for _, s := range fn.Body {
		g.stmt(1, s)
	}
	g.sb.WriteString("}\n")
}

func (g *goBackend) indent(level int) {
	g.sb.WriteString(strings.Repeat("\t", level))
}

func (g *goBackend) stmt(level int, n Node) {
	switch v := n.(type) {
	case *VarDecl:
		g.indent(level)
		if v.Type.Name == "()" {
			fmt.Fprintf(&g.sb, "%s := %s\n", v.Name, g.expr(v.Init))
			return
		}
		if v.Init == nil {
			fmt.Fprintf(&g.sb, "var %s %s\n", v.Name, v.Type.Name)
			return
		}
		fmt.Fprintf(&g.sb, "var %s %s = %s\n", v.Name, v.Type.Name, g.expr(v.Init))
	case *Keyword:
		g.indent(level)
		if v.Expr == nil {
			g.sb.WriteString("return\n")
			return
		}
		fmt.Fprintf(&g.sb, "return %s\n", g.expr(v.Expr))
	case *IfElse:
		g.indent(level)
		fmt.Fprintf(&g.sb, "if (%s) {\n", g.expr(v.Cond))
		for _, s := range v.Body {
			g.stmt(level+1, s)
		}
		if v.Else != nil {
			g.indent(level)
			g.sb.WriteString("} else {\n")
			for _, s := range v.Else {
				g.stmt(level+1, s)
			}
		}
		g.indent(level)
		g.sb.WriteString("}\n")
	case *FuncCall, *PipeOp, *Binop, *Expr, *Ident, *Literal:
		g.indent(level)
		g.sb.WriteString(g.expr(n))
		g.sb.WriteString("\n")
	default:
		panic(efuerrors.UnhandledNode{Backend: "go", Kind: fmt.Sprintf("%T", n)})
	}
}

func (g *goBackend) expr(n Node) string {
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
			args = append(args, g.expr(a))
		}
		return fmt.Sprintf("%s(%s)", v.Name, strings.Join(args, ", "))
	case *Binop:
		return fmt.Sprintf("%s %s %s", g.expr(v.Lhs), v.Op, g.expr(v.Rhs))
	case *Expr:
		return fmt.Sprintf("(%s)", g.expr(v.Item))
	case *PipeOp:
		call, err := desugarPipe(v)
		if err != nil {
			panic(err)
		}
		if call == nil {
			return g.expr(v.Value)
		}
		return g.expr(call)
	}

	panic(efuerrors.UnhandledNode{Backend: "go", Kind: fmt.Sprintf("%T", n)})
}
