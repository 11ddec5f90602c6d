package main

import (
	"fmt"
	"io"

	"github.com/efu-lang/efugo/types"
)

// Checker walks the parsed toplevels twice: pass one registers every
// declaration in the global scope (inferring unwritten function
// returns), pass two validates and annotates. It is the single source
// of semantic truth for the backends.
type Checker struct {
	out    io.Writer
	failed bool
}

func NewChecker(out io.Writer) *Checker {
	return &Checker{out: out}
}

func (c *Checker) errorf(pos types.Position, format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s: [ERROR] %s\n", pos, fmt.Sprintf(format, args...))
	c.failed = true
}

// Run checks a whole toplevel sequence. The first failed toplevel
// declaration fails the run; diagnostics inside one declaration
// accumulate before the run halts.
func (c *Checker) Run(nodes []Node) bool {
	ctx := NewGlobalContext()

	for _, n := range nodes {
		c.register(ctx, n)
	}
	if c.failed {
		return false
	}

	for _, n := range nodes {
		if !c.check(ctx, n, nil) {
			return false
		}
	}

	return !c.failed
}

// register is pass one: put every toplevel declaration in the global
// tables so bodies can refer to declarations in any order.
func (c *Checker) register(ctx *Context, n Node) {
	switch v := n.(type) {
	case *FuncDecl:
		t, ok := c.funcType(ctx, v)
		if !ok {
			return
		}
		v.Resolved = t
		if !ctx.AddGlobalVar(&Var{Name: v.Name, Decl: v.Position, Node: v, Type: t}) {
			c.errorf(v.Position, "redeclaration of '%s'", v.Name)
		}
	case *VarDecl:
		t := c.registerVarType(ctx, v)
		if t == nil {
			// no type yet; pass two reports the error with context
			return
		}
		if !ctx.AddGlobalVar(&Var{Name: v.Name, Decl: v.Position, Node: v, Type: t}) {
			c.errorf(v.Position, "redeclaration of '%s'", v.Name)
		}
	}
}

func (c *Checker) registerVarType(ctx *Context, v *VarDecl) *Type {
	if v.Type.Name != "()" && v.Type.Name != "number" {
		t, err := ParseTypeName(ctx, v.Type.Name, v.Position)
		if err != nil {
			return nil
		}
		return t
	}

	if v.Init == nil {
		return nil
	}

	t, _ := c.typeOf(ctx, v.Init)
	return t
}

// funcType builds a function's language type from its declaration.
// Written argument types are parsed (an unwritten one is rejected); an
// unwritten return type is inferred from the first concrete return
// expression in the body.
func (c *Checker) funcType(ctx *Context, fd *FuncDecl) (*Type, bool) {
	b := BuildFunc().Name(fd.Name)

	bodyCtx := ctx.Child()
	ok := true
	for _, arg := range fd.Args {
		if arg.Type == "()" {
			c.errorf(fd.Position, "cannot infer type of argument '%s' to '%s'", arg.Name, fd.Name)
			ok = false
			continue
		}

		t, err := ParseTypeName(ctx, arg.Type, fd.Position)
		if err != nil {
			c.errorf(fd.Position, "%s", err)
			ok = false
			continue
		}

		b.Arg(arg.Name, t)
		bodyCtx.AddVar(&Var{Name: arg.Name, Decl: fd.Position, Node: fd, Type: t})
	}
	if !ok {
		return nil, false
	}

	if fd.Returns != "()" {
		t, err := ParseTypeName(ctx, fd.Returns, fd.Position)
		if err != nil {
			c.errorf(fd.Position, "%s", err)
			return nil, false
		}
		b.Returns(t)
		return b.Build(), true
	}

	ret, ok := c.inferReturn(bodyCtx, fd)
	if !ok {
		return nil, false
	}
	b.Returns(ret)

	return b.Build(), true
}

// inferReturn scans the body (descending into if/else branches) for
// return expressions and takes the first whose type resolves. A
// function whose every return is a call to itself has no base case to
// infer from.
func (c *Checker) inferReturn(ctx *Context, fd *FuncDecl) (*Type, bool) {
	sawReturn := false
	sawRecursive := false

	var walk func(stmts []Node) *Type
	walk = func(stmts []Node) *Type {
		for _, s := range stmts {
			switch v := s.(type) {
			case *Keyword:
				if v.Word != types.KeywordReturn {
					continue
				}
				sawReturn = true
				if v.Expr == nil {
					return NewVoid()
				}
				if call, ok := v.Expr.(*FuncCall); ok && call.Name == fd.Name {
					sawRecursive = true
					continue
				}
				if t, ok := c.typeOf(ctx, v.Expr); ok {
					return t
				}
			case *IfElse:
				if t := walk(v.Body); t != nil {
					return t
				}
				if t := walk(v.Else); t != nil {
					return t
				}
			}
		}
		return nil
	}

	if t := walk(fd.Body); t != nil {
		return t, true
	}

	if sawReturn && sawRecursive {
		c.errorf(fd.Position, "cannot infer infinitely recursive return of '%s'", fd.Name)
		return nil, false
	}

	return NewVoid(), true
}

// typeOf computes an expression's type without emitting diagnostics;
// validation belongs to check. Integer literals are annotated sisz
// with a literal origin so call checking can monomorphise them.
func (c *Checker) typeOf(ctx *Context, n Node) (*Type, bool) {
	switch v := n.(type) {
	case *Literal:
		if v.Resolved == nil {
			switch v.Kind {
			case LiteralString:
				v.Resolved = NewPrimitive(PrimString)
			case LiteralInt:
				v.Resolved = BuildPrimitive().Base(PrimSISZ).Origin(v.Position).Build()
			}
		}
		return v.Resolved, true
	case *Ident:
		if bound := ctx.GetVar(v.Name); bound != nil {
			return bound.Type, true
		}
		return nil, false
	case *FuncCall:
		bound := ctx.GetVar(v.Name)
		if bound == nil || bound.Type.Kind != TypeFunc {
			return nil, false
		}
		return bound.Type.Returns, true
	case *Binop:
		if _, ok := comparisonOps[v.Op]; ok {
			return NewPrimitive(PrimBool), true
		}
		if _, ok := logicOps[v.Op]; ok {
			return NewPrimitive(PrimBool), true
		}
		return c.typeOf(ctx, v.Lhs)
	case *Expr:
		return c.typeOf(ctx, v.Item)
	case *PipeOp:
		call, err := desugarPipe(v)
		if err != nil || call == nil {
			return nil, false
		}
		return c.typeOf(ctx, call)
	case *FuncDecl:
		if v.Resolved != nil {
			return v.Resolved, true
		}
		return nil, false
	case *Keyword:
		return NewVoid(), true
	}

	return nil, false
}

// check is pass two. Within one toplevel declaration every statement
// is visited so diagnostics accumulate; the caller stops at the first
// toplevel that fails.
func (c *Checker) check(ctx *Context, n Node, fn *FuncDecl) bool {
	switch v := n.(type) {
	case *Eof:
		return true
	case *Literal:
		_, ok := c.typeOf(ctx, v)
		return ok
	case *Ident:
		if !ctx.VarExists(v.Name) {
			c.errorf(v.Position, "undeclared identifier '%s'", v.Name)
			return false
		}
		return true
	case *Expr:
		return c.check(ctx, v.Item, fn)
	case *Binop:
		lhs := c.check(ctx, v.Lhs, fn)
		rhs := c.check(ctx, v.Rhs, fn)
		return lhs && rhs
	case *VarDecl:
		return c.checkVarDecl(ctx, v, fn)
	case *Keyword:
		return c.checkReturn(ctx, v, fn)
	case *IfElse:
		return c.checkIfElse(ctx, v, fn)
	case *FuncCall:
		return c.checkCall(ctx, v, fn)
	case *PipeOp:
		call, err := desugarPipe(v)
		if err != nil {
			c.errorf(v.Position, "%s", err)
			return false
		}
		if call == nil {
			return c.check(ctx, v.Value, fn)
		}
		return c.checkCall(ctx, call, fn)
	case *FuncDecl:
		return c.checkFuncDecl(ctx, v, fn)
	}

	c.errorf(n.Pos(), "cannot check node of kind %T", n)
	return false
}

func (c *Checker) checkVarDecl(ctx *Context, v *VarDecl, fn *FuncDecl) bool {
	if ctx.HasVar(v.Name) && ctx.vars[v.Name].Decl != v.Position {
		c.errorf(v.Position, "redeclaration of '%s'", v.Name)
		return false
	}

	if v.Type.Name == "()" && v.Init == nil {
		c.errorf(v.Position, "'%s' needs a type or an initializer", v.Name)
		return false
	}

	var initT *Type
	if v.Init != nil {
		if !c.check(ctx, v.Init, fn) {
			return false
		}
		initT, _ = c.typeOf(ctx, v.Init)
	}

	var resolved *Type
	switch v.Type.Name {
	case "()":
		resolved = initT
		pos := v.Init.Pos()
		v.Type.InferredFrom = &pos
	case "number":
		if !IsNumber(initT) {
			got := "nothing"
			if initT != nil {
				got = initT.String()
			}
			c.errorf(v.Position, "'%s' must be initialized with a number, received %s", v.Name, got)
			return false
		}
		resolved = initT
	default:
		declared, err := ParseTypeName(ctx, v.Type.Name, v.Position)
		if err != nil {
			c.errorf(v.Position, "%s", err)
			return false
		}
		if initT != nil && !Equivalent(declared, initT) {
			c.errorf(v.Position, "incompatible initialization of '%s': expected %s, received %s",
				v.Name, declared, initT)
			return false
		}
		resolved = declared
	}

	if resolved == nil {
		c.errorf(v.Position, "cannot infer the type of '%s'", v.Name)
		return false
	}

	v.Resolved = resolved
	if !ctx.AddVar(&Var{Name: v.Name, Decl: v.Position, Node: v, Type: resolved}) {
		c.errorf(v.Position, "redeclaration of '%s'", v.Name)
		return false
	}

	return true
}

func (c *Checker) checkReturn(ctx *Context, v *Keyword, fn *FuncDecl) bool {
	if v.Word != types.KeywordReturn {
		c.errorf(v.Position, "unexpected keyword '%s'", v.Word)
		return false
	}
	if fn == nil || fn.Resolved == nil {
		c.errorf(v.Position, "return outside of a function")
		return false
	}

	got := NewVoid()
	if v.Expr != nil {
		if !c.check(ctx, v.Expr, fn) {
			return false
		}
		if t, ok := c.typeOf(ctx, v.Expr); ok {
			got = t
		}
	}

	want := fn.Resolved.Returns
	if !Equivalent(want, got) {
		c.errorf(v.Position, "return type mismatch in '%s': expected %s, received %s",
			fn.Name, want, got)
		return false
	}

	return true
}

func (c *Checker) checkIfElse(ctx *Context, v *IfElse, fn *FuncDecl) bool {
	ok := c.check(ctx, v.Cond, fn)

	if condT, resolved := c.typeOf(ctx, v.Cond); resolved {
		if !Equivalent(condT, NewPrimitive(PrimBool)) {
			c.errorf(v.Cond.Pos(), "condition must be a bool, received %s", condT)
			ok = false
		}
	}

	body := ctx.Child()
	for _, s := range v.Body {
		ok = c.check(body, s, fn) && ok
	}

	if v.Else != nil {
		alt := ctx.Child()
		for _, s := range v.Else {
			ok = c.check(alt, s, fn) && ok
		}
	}

	return ok
}

// checkCall validates a call's target, arity and argument types.
// Literal-origin numeric arguments are monomorphised toward the
// parameter's base, so `fizz(5)` satisfies an u8 parameter without a
// cast.
func (c *Checker) checkCall(ctx *Context, call *FuncCall, fn *FuncDecl) bool {
	bound := ctx.GetVar(call.Name)
	if bound == nil {
		c.errorf(call.Position, "undeclared identifier '%s'", call.Name)
		return false
	}
	if bound.Type.Kind != TypeFunc {
		c.errorf(call.Position, "'%s' is not a function, it is a %s", call.Name, bound.Type)
		return false
	}

	ft := bound.Type

	ok := true
	for _, a := range call.Args {
		ok = c.check(ctx, a, fn) && ok
	}
	if !ok {
		return false
	}

	fixed := len(ft.Args)
	if ft.Variadic != nil {
		if len(call.Args) < fixed {
			c.errorf(call.Position, "'%s' expects at least %d arguments, received %d",
				call.Name, fixed, len(call.Args))
			return false
		}
	} else if len(call.Args) != fixed {
		c.errorf(call.Position, "'%s' expects %d arguments, received %d",
			call.Name, fixed, len(call.Args))
		return false
	}

	for i, a := range call.Args {
		var want *Type
		if i < fixed {
			want = ft.Args[i].Type
		} else {
			want = ft.Variadic.Type
		}

		got, resolved := c.typeOf(ctx, a)
		if !resolved {
			continue
		}

		// a variable inferred from a literal shares that literal's type,
		// so only a literal argument itself is rewritten
		if _, literal := a.(*Literal); literal {
			c.monomorphise(got, want)
		}

		if !Equivalent(got, want) {
			c.errorf(a.Pos(), "argument %d to '%s': expected %s, received %s",
				i+1, call.Name, want, got)
			ok = false
		}
	}

	return ok
}

// monomorphise rewrites a literal-origin numeric type's base toward
// the concrete numeric parameter it meets and clears the origin. Only
// literal-origin arguments are rewritten; a variable's type is never
// mutated by a call site.
func (c *Checker) monomorphise(got, want *Type) {
	if got == nil || got.Origin == nil || !IsNumber(got) {
		return
	}
	if want == nil || want.Kind != TypePrimitive || !IsNumber(want) {
		return
	}
	if got.Kind != TypePrimitive || got.Base == want.Base {
		return
	}

	got.Base = want.Base
	got.Origin = nil
}

func (c *Checker) checkFuncDecl(ctx *Context, fd *FuncDecl, enclosing *FuncDecl) bool {
	if fd.Resolved == nil {
		t, ok := c.funcType(ctx, fd)
		if !ok {
			return false
		}
		fd.Resolved = t
	}

	// a nested declaration becomes visible in the enclosing scope
	if enclosing != nil {
		if !ctx.AddVar(&Var{Name: fd.Name, Decl: fd.Position, Node: fd, Type: fd.Resolved}) {
			c.errorf(fd.Position, "redeclaration of '%s'", fd.Name)
			return false
		}
	}

	body := ctx.Child()
	for i, arg := range fd.Args {
		body.AddVar(&Var{Name: arg.Name, Decl: fd.Position, Node: fd, Type: fd.Resolved.Args[i].Type})
	}

	ok := true
	for _, s := range fd.Body {
		ok = c.check(body, s, fd) && ok
	}

	return ok
}
