package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DebugIR renders the concise non-parseable pretty-print of a node,
// one of: EoF{}, Literal{...}, Keyword{...}, Ident{...}, FnDecl{...},
// FnCall{...}, BinOp{...}, Expr{...}, Pipe{...}, VarDecl{...},
// IfElse{...}. Lists of children are comma-joined.
func DebugIR(n Node) string {
	switch v := n.(type) {
	case *Eof:
		return "EoF{}"
	case *Literal:
		return fmt.Sprintf("Literal{%s}", debugLiteral(v))
	case *Keyword:
		if v.Expr == nil {
			return fmt.Sprintf("Keyword{%s, ()}", v.Word)
		}
		return fmt.Sprintf("Keyword{%s, (%s)}", v.Word, DebugIR(v.Expr))
	case *Ident:
		return fmt.Sprintf("Ident{%s}", v.Name)
	case *FuncDecl:
		var args []string
		for _, arg := range v.Args {
			args = append(args, fmt.Sprintf("%s: %s", arg.Name, arg.Type))
		}
		return fmt.Sprintf("FnDecl{%s, Args{%s}, Body{%s}}",
			v.Name, strings.Join(args, ", "), debugList(v.Body))
	case *FuncCall:
		return fmt.Sprintf("FnCall{%s, (%s)}", v.Name, debugList(v.Args))
	case *Binop:
		return fmt.Sprintf("BinOp{%s, %s, %s}", DebugIR(v.Lhs), v.Op, DebugIR(v.Rhs))
	case *Expr:
		return fmt.Sprintf("Expr{%s}", DebugIR(v.Item))
	case *PipeOp:
		return debugPipe(v)
	case *VarDecl:
		init := "()"
		if v.Init != nil {
			init = DebugIR(v.Init)
		}
		return fmt.Sprintf("VarDecl{%s, %s, %s}", v.Name, v.Type.Name, init)
	case *IfElse:
		if v.Else == nil {
			return fmt.Sprintf("IfElse{%s, Body{%s}}", DebugIR(v.Cond), debugList(v.Body))
		}
		return fmt.Sprintf("IfElse{%s, Body{%s}, Else{%s}}",
			DebugIR(v.Cond), debugList(v.Body), debugList(v.Else))
	}

	return fmt.Sprintf("Unknown{%T}", n)
}

func debugLiteral(v *Literal) string {
	switch v.Kind {
	case LiteralString:
		data, err := json.Marshal(v.Str)
		if err != nil {
			panic(err)
		}
		return string(data)
	case LiteralInt:
		return strconv.FormatInt(v.Int, 10)
	}
	return "?"
}

func debugList(nodes []Node) string {
	var parts []string
	for _, n := range nodes {
		parts = append(parts, DebugIR(n))
	}
	return strings.Join(parts, ", ")
}

func debugPipe(p *PipeOp) string {
	if p.Next == nil {
		return DebugIR(p.Value)
	}
	return fmt.Sprintf("Pipe{%s |> %s}", DebugIR(p.Value), debugPipe(p.Next))
}
