package main

import (
	efuerrors "github.com/efu-lang/efugo/errors"
	"github.com/efu-lang/efugo/types"
)

//go:generate go run ./tool ast.nodes ast_gen.go main

// Node is the sum type over every AST shape the parser produces. Nodes
// are created by the parser and annotated in place by later passes: the
// checker fills in inferred types, the static backend renames print
// calls and primitive type names.
type Node interface {
	isNode()
	Pos() types.Position
}

// Eof is the sentinel closing the top level.
type Eof struct {
	Position types.Position
}

type FuncDecl struct {
	Name     string
	Args     []FuncDeclArg
	Returns  string
	Body     []Node
	Position types.Position

	// Resolved is filled in by the checker.
	Resolved *Type
}

type FuncDeclArg struct {
	Name string
	Type string
}

type FuncCall struct {
	Name     string
	Args     []Node
	Position types.Position
}

// VarType is the written type of a variable declaration. Name "()"
// means no type was written and the checker must infer one;
// InferredFrom records where the inferred type came from.
type VarType struct {
	Name         string
	InferredFrom *types.Position
}

type VarDecl struct {
	Name     string
	Type     VarType
	Init     Node
	Position types.Position

	// Resolved is filled in by the checker.
	Resolved *Type
}

type Binop struct {
	Op       string
	Lhs      Node
	Rhs      Node
	Position types.Position
}

// PipeOp is one link of a pipe chain. `a |> f |> g(x)` parses to
// Pipe(a, Pipe(f, Pipe(g(x), nil))).
type PipeOp struct {
	Value    Node
	Next     *PipeOp
	Position types.Position
}

// Expr is a parenthesized grouping.
type Expr struct {
	Item     Node
	Position types.Position
}

// Keyword is a keyword statement; only `return` reaches the AST.
type Keyword struct {
	Word     types.KeywordKind
	Expr     Node
	Position types.Position
}

type IfElse struct {
	Cond     Node
	Body     []Node
	Else     []Node
	Position types.Position
}

type Ident struct {
	Name     string
	Position types.Position
}

type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralInt
)

type Literal struct {
	Kind     LiteralKind
	Str      string
	Int      int64
	Position types.Position

	// Resolved is filled in by the checker.
	Resolved *Type
}

// mathOps, comparisonOps and logicOps are the binary operator classes.
var (
	mathOps       = map[string]struct{}{"+": {}, "-": {}, "*": {}, "/": {}, "%": {}}
	comparisonOps = map[string]struct{}{">": {}, "<": {}, "==": {}, "<=": {}, ">=": {}, "!=": {}}
	logicOps      = map[string]struct{}{"&&": {}, "||": {}}
)

func isBinaryOp(sym string) bool {
	if _, ok := mathOps[sym]; ok {
		return true
	}
	if _, ok := comparisonOps[sym]; ok {
		return true
	}
	_, ok := logicOps[sym]
	return ok
}

// desugarPipe folds a pipe chain into nested calls: at each step an
// identifier becomes a call with the previous value as its only
// argument, and a call gains the previous value as an extra last
// argument. The final call is returned.
func desugarPipe(p *PipeOp) (*FuncCall, error) {
	prev := p.Value

	var call *FuncCall
	for link := p.Next; link != nil; link = link.Next {
		switch v := link.Value.(type) {
		case *Ident:
			call = &FuncCall{
				Name:     v.Name,
				Args:     []Node{prev},
				Position: v.Position,
			}
		case *FuncCall:
			args := make([]Node, 0, len(v.Args)+1)
			args = append(args, v.Args...)
			args = append(args, prev)
			call = &FuncCall{
				Name:     v.Name,
				Args:     args,
				Position: v.Position,
			}
		default:
			return nil, efuerrors.InvalidPipeTarget{Location: types.SingleCharSpan(link.Value.Pos())}
		}

		prev = call
	}

	return call, nil
}
