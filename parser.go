package main

import (
	"strconv"
	"strings"

	"github.com/ztrue/tracerr"

	efuerrors "github.com/efu-lang/efugo/errors"
	"github.com/efu-lang/efugo/lexer"
	"github.com/efu-lang/efugo/types"
)

type Parser struct {
	l *lexer.Lexer
}

func NewParser(l *lexer.Lexer) *Parser {
	return &Parser{l: l}
}

// Parse drives ParseStatement until the EOF sentinel and returns the
// flat toplevel sequence, sentinel included. Parse mishaps are
// panicked as typed errors by the productions and recovered here.
func (p *Parser) Parse() (nodes []Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	for {
		stmt := p.ParseStatement()
		nodes = append(nodes, stmt)

		if _, done := stmt.(*Eof); done {
			return nodes, nil
		}
	}
}

func (p *Parser) ParseStatement() Node {
	tok := p.l.Peek()

	switch {
	case tok.Kind == types.EOF:
		p.l.Next()
		return &Eof{Position: tok.Pos()}
	case tok.IsKeyword(types.KeywordIf):
		return p.parseIfElse()
	case tok.IsKeyword(types.KeywordLet):
		decl := p.parseVarDecl()
		p.l.ExpectSymbol(";")
		return decl
	case tok.IsKeyword(types.KeywordReturn):
		ret := p.parseReturn()
		p.l.ExpectSymbol(";")
		return ret
	case tok.IsKeyword(types.KeywordFn):
		return p.parseFuncDecl()
	}

	expr := p.parseExpr()
	p.l.ExpectSymbol(";")
	return expr
}

// parseVarDecl handles the four declaration shapes: `let x;`,
// `let x: T;`, `let x: = init;` and `let x: T = init;`. A missing type
// is recorded as "()" for the checker to infer or reject.
func (p *Parser) parseVarDecl() *VarDecl {
	kw := p.l.Next() // let

	name := p.l.Expect(types.IDENT)

	decl := &VarDecl{
		Name:     name.Text,
		Type:     VarType{Name: "()"},
		Position: kw.Pos(),
	}

	if !p.l.PeekIsSymbol(":") {
		return decl
	}
	p.l.Next()

	if p.l.PeekIs(types.IDENT) {
		decl.Type.Name = p.parseTypeName()
	}

	if p.l.PeekIsSymbol("=") {
		p.l.Next()
		decl.Init = p.parseExpr()
	}

	return decl
}

func (p *Parser) parseReturn() *Keyword {
	kw := p.l.Next() // return

	ret := &Keyword{
		Word:     types.KeywordReturn,
		Position: kw.Pos(),
	}

	if !p.l.PeekIsSymbol(";") {
		ret.Expr = p.parseExpr()
	}

	return ret
}

func (p *Parser) parseFuncDecl() *FuncDecl {
	kw := p.l.Next() // fn

	name := p.l.Expect(types.IDENT)

	decl := &FuncDecl{
		Name:     name.Text,
		Returns:  "()",
		Position: kw.Pos(),
	}

	p.l.ExpectSymbol("(")
	for !p.l.PeekIsSymbol(")") {
		arg := p.l.Expect(types.IDENT)

		typ := "()"
		if p.l.PeekIsSymbol(":") {
			p.l.Next()
			typ = p.parseTypeName()
		}

		decl.Args = append(decl.Args, FuncDeclArg{Name: arg.Text, Type: typ})

		if p.l.PeekIsSymbol(",") {
			p.l.Next()
			continue
		}
		break
	}
	p.l.ExpectSymbol(")")

	if p.l.PeekIsSymbol("->") {
		p.l.Next()
		decl.Returns = p.parseTypeName()
	}

	decl.Body = p.parseBlock()

	return decl
}

// parseTypeName reads a written type: a base identifier followed by
// zero or more `[`, `[N]` array wrappers, collected back into the
// type-name string the type system parses.
func (p *Parser) parseTypeName() string {
	base := p.l.Expect(types.IDENT)

	var sb strings.Builder
	sb.WriteString(base.Text)

	for p.l.PeekIsSymbol("[") {
		p.l.Next()
		sb.WriteString("[")
		if p.l.PeekIs(types.INT) {
			size := p.l.Next()
			sb.WriteString(strconv.FormatInt(size.Int, 10))
		}
		p.l.ExpectSymbol("]")
		sb.WriteString("]")
	}

	return sb.String()
}

func (p *Parser) parseBlock() []Node {
	open := p.l.ExpectSymbol("{")

	var stmts []Node
	for !p.l.PeekIsSymbol("}") {
		if p.l.PeekIs(types.EOF) {
			panic(efuerrors.UnexpectedToken{
				Got:      p.l.Peek(),
				While:    "block",
				Location: types.SingleCharSpan(open.Pos()),
			})
		}
		stmts = append(stmts, p.ParseStatement())
	}
	p.l.ExpectSymbol("}")

	return stmts
}

func (p *Parser) parseIfElse() *IfElse {
	kw := p.l.Next() // if

	stmt := &IfElse{
		Cond:     p.parseExpr(),
		Position: kw.Pos(),
	}

	stmt.Body = p.parseBlockOrStatement()

	// `else` is not a keyword; it arrives as an identifier.
	if next := p.l.Peek(); next.Kind == types.IDENT && next.Text == "else" {
		p.l.Next()
		stmt.Else = p.parseBlockOrStatement()
	}

	return stmt
}

func (p *Parser) parseBlockOrStatement() []Node {
	if p.l.PeekIsSymbol("{") {
		return p.parseBlock()
	}
	return []Node{p.ParseStatement()}
}

func (p *Parser) parseExpr() Node {
	expr := p.parseBinop()

	if p.l.PeekIsSymbol("|>") {
		return p.parsePipe(expr)
	}

	return expr
}

func (p *Parser) parsePipe(first Node) *PipeOp {
	head := &PipeOp{Value: first, Position: first.Pos()}

	tail := head
	for p.l.PeekIsSymbol("|>") {
		tok := p.l.Next()

		value := p.parseBinop()
		switch value.(type) {
		case *Ident, *FuncCall:
		default:
			panic(efuerrors.InvalidPipeTarget{Location: types.SingleCharSpan(value.Pos())})
		}

		link := &PipeOp{Value: value, Position: tok.Pos()}
		tail.Next = link
		tail = link
	}

	return head
}

// operator precedence classes, loosest first
var precedenceTable = map[string]int{
	"&&": 1, "||": 1,
	"%": 2,
	">": 3, "<": 3, "==": 3, "<=": 3, ">=": 3, "!=": 3,
	"+": 4, "-": 4,
	"*": 5, "/": 5,
}

func precedence(op string) int {
	return precedenceTable[op]
}

func (p *Parser) parseBinop() Node {
	lhs := p.parsePrimary()

	tok := p.l.Peek()
	if tok.Kind != types.SYMBOL || !isBinaryOp(tok.Text) {
		return lhs
	}
	p.l.Next()

	rhs := p.parseBinop()

	return rotateBinop(&Binop{
		Op:       tok.Text,
		Lhs:      lhs,
		Rhs:      rhs,
		Position: tok.Pos(),
	})
}

// rotateBinop restores precedence and left-associativity after the
// post-recursive parse. When the right child is a binop that does not
// bind tighter than the root, the root takes the right child's left
// subtree and the right child becomes the new root; the rebuilt inner
// node is rotated again so operator chains settle leftward.
func rotateBinop(b *Binop) Node {
	rhs, ok := b.Rhs.(*Binop)
	if !ok || precedence(rhs.Op) > precedence(b.Op) {
		return b
	}

	inner := &Binop{
		Op:       b.Op,
		Lhs:      b.Lhs,
		Rhs:      rhs.Lhs,
		Position: b.Position,
	}
	rhs.Lhs = rotateBinop(inner)

	return rhs
}

func (p *Parser) parsePrimary() Node {
	tok := p.l.Peek()

	switch {
	case tok.Kind == types.STRING:
		p.l.Next()
		return &Literal{Kind: LiteralString, Str: tok.Text, Position: tok.Pos()}
	case tok.Kind == types.INT:
		p.l.Next()
		return &Literal{Kind: LiteralInt, Int: tok.Int, Position: tok.Pos()}
	case tok.IsKeyword(types.KeywordFn):
		return p.parseFuncDecl()
	case tok.Kind == types.IDENT:
		p.l.Next()
		if p.l.PeekIsSymbol("(") {
			return p.parseCall(tok)
		}
		return &Ident{Name: tok.Text, Position: tok.Pos()}
	case tok.IsSymbol("("):
		p.l.Next()
		item := p.parseExpr()
		p.l.ExpectSymbol(")")
		return &Expr{Item: item, Position: tok.Pos()}
	}

	panic(efuerrors.UnexpectedToken{
		Got:      tok,
		While:    "expression",
		Location: tok.Location,
	})
}

func (p *Parser) parseCall(name types.Token) *FuncCall {
	p.l.ExpectSymbol("(")

	call := &FuncCall{
		Name:     name.Text,
		Position: name.Pos(),
	}

	for !p.l.PeekIsSymbol(")") {
		call.Args = append(call.Args, p.parseExpr())

		if p.l.PeekIsSymbol(",") {
			p.l.Next()
			continue
		}
		break
	}
	p.l.ExpectSymbol(")")

	return call
}
