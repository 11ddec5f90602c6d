package main

import (
	efuerrors "github.com/efu-lang/efugo/errors"
	"github.com/efu-lang/efugo/lexer"
	"github.com/efu-lang/efugo/types"
)

type TypeKind int

const (
	TypeAny TypeKind = iota
	TypeVoid
	TypePrimitive
	TypeArray
	TypeStruct
	TypeFunc
	TypeEnum
	TypeUnion
)

func (k TypeKind) String() string {
	data := map[TypeKind]string{
		TypeAny:       "any",
		TypeVoid:      "void",
		TypePrimitive: "primitive",
		TypeArray:     "array",
		TypeStruct:    "struct",
		TypeFunc:      "func",
		TypeEnum:      "enum",
		TypeUnion:     "tagged-union",
	}
	return data[k]
}

type Primitive int

const (
	PrimSI8 Primitive = iota
	PrimUI8
	PrimSI32
	PrimUI32
	PrimSISZ
	PrimUISZ
	PrimPtr
	PrimFlt32
	PrimFlt64
	PrimString
	PrimBool
	PrimNull
)

func (p Primitive) String() string {
	data := map[Primitive]string{
		PrimSI8:    "si8",
		PrimUI8:    "ui8",
		PrimSI32:   "si32",
		PrimUI32:   "ui32",
		PrimSISZ:   "sisz",
		PrimUISZ:   "uisz",
		PrimPtr:    "ptr",
		PrimFlt32:  "flt32",
		PrimFlt64:  "flt64",
		PrimString: "string",
		PrimBool:   "bool",
		PrimNull:   "null",
	}
	return data[p]
}

type Field struct {
	Name string
	Type *Type
}

type EnumValue struct {
	Name  string
	Value int64
}

type UnionCase struct {
	Name    string
	Payload *Type
}

// Type is the language-type sum: Kind discriminates which payload
// fields are live. Every type optionally carries the position it
// originated from and tables of bound methods and named sub-types.
type Type struct {
	Kind TypeKind

	Base Primitive // primitive

	Elem *Type  // array
	Size *int64 // array, nil when unsized

	Name string

	Fields []Field // struct

	Args     []Field // func
	Returns  *Type   // func
	Variadic *Field  // func, nil unless a variadic tail was declared

	Values []EnumValue // enum

	Cases []UnionCase // tagged-union

	Origin     *types.Position
	Methods    map[string]*Type
	Properties map[string]*Type
}

func (t *Type) String() string {
	switch t.Kind {
	case TypePrimitive:
		return t.Base.String()
	case TypeArray:
		return t.Elem.String() + "[]"
	case TypeStruct, TypeFunc, TypeEnum, TypeUnion:
		if t.Name != "" {
			return t.Name
		}
	}
	return t.Kind.String()
}

func newType(kind TypeKind) *Type {
	return &Type{
		Kind:       kind,
		Methods:    map[string]*Type{},
		Properties: map[string]*Type{},
	}
}

func NewAny() *Type {
	return newType(TypeAny)
}

func NewVoid() *Type {
	return newType(TypeVoid)
}

func NewPrimitive(base Primitive) *Type {
	t := newType(TypePrimitive)
	t.Base = base
	return t
}

// Builders. Each stages its required fields and panics a typed error
// from Build when one was never set.

type PrimitiveBuilder struct {
	base   *Primitive
	origin *types.Position
}

func BuildPrimitive() *PrimitiveBuilder {
	return &PrimitiveBuilder{}
}

func (b *PrimitiveBuilder) Base(p Primitive) *PrimitiveBuilder {
	b.base = &p
	return b
}

func (b *PrimitiveBuilder) Origin(pos types.Position) *PrimitiveBuilder {
	b.origin = &pos
	return b
}

func (b *PrimitiveBuilder) Build() *Type {
	if b.base == nil {
		panic(efuerrors.IncompleteType{Builder: "primitive", Missing: "base"})
	}

	t := NewPrimitive(*b.base)
	t.Origin = b.origin
	return t
}

type ArrayBuilder struct {
	elem *Type
	size *int64
}

func BuildArray() *ArrayBuilder {
	return &ArrayBuilder{}
}

func (b *ArrayBuilder) Elem(t *Type) *ArrayBuilder {
	b.elem = t
	return b
}

func (b *ArrayBuilder) Size(n int64) *ArrayBuilder {
	b.size = &n
	return b
}

func (b *ArrayBuilder) Build() *Type {
	if b.elem == nil {
		panic(efuerrors.IncompleteType{Builder: "array", Missing: "elem"})
	}

	t := newType(TypeArray)
	t.Elem = b.elem
	t.Size = b.size
	return t
}

type StructBuilder struct {
	name   string
	fields []Field
}

func BuildStruct() *StructBuilder {
	return &StructBuilder{}
}

func (b *StructBuilder) Name(name string) *StructBuilder {
	b.name = name
	return b
}

func (b *StructBuilder) Field(name string, t *Type) *StructBuilder {
	b.fields = append(b.fields, Field{Name: name, Type: t})
	return b
}

func (b *StructBuilder) Build() *Type {
	if b.name == "" {
		panic(efuerrors.IncompleteType{Builder: "struct", Missing: "name"})
	}

	t := newType(TypeStruct)
	t.Name = b.name
	t.Fields = b.fields
	return t
}

type FuncBuilder struct {
	name     string
	args     []Field
	returns  *Type
	variadic *Field
}

func BuildFunc() *FuncBuilder {
	return &FuncBuilder{}
}

func (b *FuncBuilder) Name(name string) *FuncBuilder {
	b.name = name
	return b
}

func (b *FuncBuilder) Arg(name string, t *Type) *FuncBuilder {
	b.args = append(b.args, Field{Name: name, Type: t})
	return b
}

func (b *FuncBuilder) Returns(t *Type) *FuncBuilder {
	b.returns = t
	return b
}

// Variadic marks the trailing argument as accepting zero or more extra
// positional values. A nil element type means any.
func (b *FuncBuilder) Variadic(name string, t *Type) *FuncBuilder {
	if t == nil {
		t = NewAny()
	}
	b.variadic = &Field{Name: name, Type: t}
	return b
}

func (b *FuncBuilder) Build() *Type {
	if b.returns == nil {
		panic(efuerrors.IncompleteType{Builder: "func", Missing: "returns"})
	}

	t := newType(TypeFunc)
	t.Name = b.name
	t.Args = b.args
	t.Returns = b.returns
	t.Variadic = b.variadic
	return t
}

type EnumBuilder struct {
	name   string
	values []EnumValue
}

func BuildEnum() *EnumBuilder {
	return &EnumBuilder{}
}

func (b *EnumBuilder) Name(name string) *EnumBuilder {
	b.name = name
	return b
}

func (b *EnumBuilder) Value(name string, value int64) *EnumBuilder {
	b.values = append(b.values, EnumValue{Name: name, Value: value})
	return b
}

func (b *EnumBuilder) Build() *Type {
	if b.name == "" {
		panic(efuerrors.IncompleteType{Builder: "enum", Missing: "name"})
	}

	t := newType(TypeEnum)
	t.Name = b.name
	t.Values = b.values
	return t
}

type UnionBuilder struct {
	name  string
	cases []UnionCase
}

func BuildUnion() *UnionBuilder {
	return &UnionBuilder{}
}

func (b *UnionBuilder) Name(name string) *UnionBuilder {
	b.name = name
	return b
}

func (b *UnionBuilder) Case(name string, payload *Type) *UnionBuilder {
	b.cases = append(b.cases, UnionCase{Name: name, Payload: payload})
	return b
}

func (b *UnionBuilder) Build() *Type {
	if b.name == "" {
		panic(efuerrors.IncompleteType{Builder: "tagged-union", Missing: "name"})
	}

	t := newType(TypeUnion)
	t.Name = b.name
	t.Cases = b.cases
	return t
}

// IsIntegerPrimitive reports an integer-base primitive.
func IsIntegerPrimitive(t *Type) bool {
	if t == nil || t.Kind != TypePrimitive {
		return false
	}
	switch t.Base {
	case PrimSI8, PrimUI8, PrimSI32, PrimUI32, PrimSISZ, PrimUISZ:
		return true
	}
	return false
}

func isFloatPrimitive(t *Type) bool {
	if t == nil || t.Kind != TypePrimitive {
		return false
	}
	return t.Base == PrimFlt32 || t.Base == PrimFlt64
}

// IsInteger covers integer primitives and enums.
func IsInteger(t *Type) bool {
	if t == nil {
		return false
	}
	return IsIntegerPrimitive(t) || t.Kind == TypeEnum
}

// IsNumber covers any integer plus the float primitives.
func IsNumber(t *Type) bool {
	return IsInteger(t) || isFloatPrimitive(t)
}

// Equivalent implements implicit-cast equivalence: any matches
// everything, integer primitives are mutually interchangeable, the two
// float widths are interchangeable, and the remaining kinds compare
// structurally (structs, funcs, arrays) or by name plus shape (enums,
// unions).
func Equivalent(a, b *Type) bool {
	if a == nil || b == nil {
		return false
	}

	if a.Kind == TypeAny || b.Kind == TypeAny {
		return true
	}

	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case TypeVoid:
		return true
	case TypePrimitive:
		if a.Base == b.Base {
			return true
		}
		if IsIntegerPrimitive(a) && IsIntegerPrimitive(b) {
			return true
		}
		return isFloatPrimitive(a) && isFloatPrimitive(b)
	case TypeFunc:
		if len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equivalent(a.Args[i].Type, b.Args[i].Type) {
				return false
			}
		}
		return Equivalent(a.Returns, b.Returns)
	case TypeArray:
		if (a.Size == nil) != (b.Size == nil) {
			return false
		}
		if a.Size != nil && *a.Size != *b.Size {
			return false
		}
		return Equivalent(a.Elem, b.Elem)
	case TypeStruct:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name {
				return false
			}
			if !Equivalent(a.Fields[i].Type, b.Fields[i].Type) {
				return false
			}
		}
		return true
	case TypeEnum:
		if a.Name != b.Name || len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if a.Values[i] != b.Values[i] {
				return false
			}
		}
		return true
	case TypeUnion:
		if a.Name != b.Name || len(a.Cases) != len(b.Cases) {
			return false
		}
		for i := range a.Cases {
			if a.Cases[i].Name != b.Cases[i].Name {
				return false
			}
			if !Equivalent(a.Cases[i].Payload, b.Cases[i].Payload) {
				return false
			}
		}
		return true
	}

	return false
}

// primitivesByName maps the surface spellings to primitive bases. The
// 64-bit spellings share the size-class bases; every integer primitive
// is implicit-cast-equivalent to every other, so the distinction never
// reaches a diagnostic.
var primitivesByName = map[string]Primitive{
	"i8":     PrimSI8,
	"u8":     PrimUI8,
	"i32":    PrimSI32,
	"u32":    PrimUI32,
	"i64":    PrimSISZ,
	"u64":    PrimUISZ,
	"isz":    PrimSISZ,
	"usz":    PrimUISZ,
	"f32":    PrimFlt32,
	"f64":    PrimFlt64,
	"ptr":    PrimPtr,
	"string": PrimString,
	"bool":   PrimBool,
	"null":   PrimNull,
}

// ParseTypeName resolves a written type-name string like `Base`,
// `Base[]` or `Base[][3]` against the context. Each bracket group, left
// to right, wraps the type built so far, so the last group is the
// outermost array.
func ParseTypeName(ctx *Context, name string, at types.Position) (*Type, error) {
	l := lexer.NewFromString(name, at.Filename)

	base := l.Peek()
	if base.Kind != types.IDENT {
		return nil, efuerrors.MalformedTypeName{
			Name:     name,
			Detail:   "expected a type name",
			Location: types.SingleCharSpan(at),
		}
	}
	l.Next()

	var t *Type
	switch base.Text {
	case "any":
		t = NewAny()
	case "void":
		t = NewVoid()
	default:
		if prim, ok := primitivesByName[base.Text]; ok {
			t = NewPrimitive(prim)
			break
		}
		if named := ctx.GetType(base.Text); named != nil {
			t = named
			break
		}
		return nil, efuerrors.MalformedTypeName{
			Name:     name,
			Detail:   "unknown type name",
			Location: types.SingleCharSpan(at),
		}
	}

	for l.PeekIsSymbol("[") {
		l.Next()

		builder := BuildArray().Elem(t)
		if l.PeekIs(types.INT) {
			builder.Size(l.Next().Int)
		}

		if !l.PeekIsSymbol("]") {
			return nil, efuerrors.MalformedTypeName{
				Name:     name,
				Detail:   "unclosed array bracket",
				Location: types.SingleCharSpan(at),
			}
		}
		l.Next()

		t = builder.Build()
	}

	if !l.PeekIs(types.EOF) {
		return nil, efuerrors.MalformedTypeName{
			Name:     name,
			Detail:   "trailing characters",
			Location: types.SingleCharSpan(at),
		}
	}

	return t, nil
}
