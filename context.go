package main

import (
	"github.com/efu-lang/efugo/types"
)

// Var is a resolved variable entry: where it was declared, the node
// that declared it (nil for builtins), and its type.
type Var struct {
	Name string
	Decl types.Position
	Node Node
	Type *Type
}

// globalScope backs every context chain rooted at NewGlobalContext.
// It is per-invocation rather than process-wide so parallel test
// invocations cannot observe each other; semantics are unchanged.
type globalScope struct {
	types map[string]*Type
	vars  map[string]*Var
}

// Context is one lexical scope: local tables plus a non-owning parent
// reference. Lookups walk the parent chain and fall back to globals.
type Context struct {
	parent  *Context
	globals *globalScope
	types   map[string]*Type
	vars    map[string]*Var
}

// NewGlobalContext creates the root scope with the builtin functions
// seeded into the global tables.
func NewGlobalContext() *Context {
	g := &globalScope{
		types: map[string]*Type{},
		vars:  map[string]*Var{},
	}
	seedBuiltins(g)

	return &Context{
		globals: g,
		types:   map[string]*Type{},
		vars:    map[string]*Var{},
	}
}

func (c *Context) Child() *Context {
	return &Context{
		parent:  c,
		globals: c.globals,
		types:   map[string]*Type{},
		vars:    map[string]*Var{},
	}
}

// AddVar registers a variable in this scope. Re-registering the same
// name at the identical declaration position is a no-op; any other
// collision is reported by returning false.
func (c *Context) AddVar(v *Var) bool {
	if existing, ok := c.vars[v.Name]; ok {
		return existing.Decl == v.Decl
	}

	c.vars[v.Name] = v
	return true
}

func (c *Context) AddType(name string, t *Type) {
	c.types[name] = t
}

func (c *Context) AddGlobalVar(v *Var) bool {
	if existing, ok := c.globals.vars[v.Name]; ok {
		return existing.Decl == v.Decl
	}

	c.globals.vars[v.Name] = v
	return true
}

func (c *Context) AddGlobalType(name string, t *Type) {
	c.globals.types[name] = t
}

// GetVar resolves a name through this scope, its parents, then the
// global tables. Nil when unknown.
func (c *Context) GetVar(name string) *Var {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if v, ok := ctx.vars[name]; ok {
			return v
		}
	}

	if v, ok := c.globals.vars[name]; ok {
		return v
	}
	return nil
}

func (c *Context) GetType(name string) *Type {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if t, ok := ctx.types[name]; ok {
			return t
		}
	}

	if t, ok := c.globals.types[name]; ok {
		return t
	}
	return nil
}

// HasVar reports a binding in this scope only.
func (c *Context) HasVar(name string) bool {
	_, ok := c.vars[name]
	return ok
}

func (c *Context) HasType(name string) bool {
	_, ok := c.types[name]
	return ok
}

// VarExists checks this scope, its parents and the globals.
func (c *Context) VarExists(name string) bool {
	return c.GetVar(name) != nil
}

func (c *Context) TypeExists(name string) bool {
	return c.GetType(name) != nil
}

// seedBuiltins installs the formatted-print builtins: printf and
// printnf emit, fmt formats to a string. All take a format string and
// a variadic tail of any.
func seedBuiltins(g *globalScope) {
	str := NewPrimitive(PrimString)

	printf := BuildFunc().
		Name("printf").
		Arg("format", str).
		Variadic("args", NewAny()).
		Returns(NewVoid()).
		Build()

	printnf := BuildFunc().
		Name("printnf").
		Arg("format", str).
		Variadic("args", NewAny()).
		Returns(NewVoid()).
		Build()

	format := BuildFunc().
		Name("fmt").
		Arg("format", str).
		Variadic("args", NewAny()).
		Returns(str).
		Build()

	g.vars["printf"] = &Var{Name: "printf", Type: printf}
	g.vars["printnf"] = &Var{Name: "printnf", Type: printnf}
	g.vars["fmt"] = &Var{Name: "fmt", Type: format}
}
