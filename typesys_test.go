package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efu-lang/efugo/types"
)

func TestEquivalenceIsReflexiveAndSymmetric(t *testing.T) {
	sample := []*Type{
		NewAny(),
		NewVoid(),
		NewPrimitive(PrimString),
		NewPrimitive(PrimBool),
		NewPrimitive(PrimSISZ),
		NewPrimitive(PrimFlt32),
		BuildArray().Elem(NewPrimitive(PrimUI8)).Build(),
		BuildStruct().Name("pair").Field("a", NewPrimitive(PrimSISZ)).Field("b", NewPrimitive(PrimSISZ)).Build(),
		BuildFunc().Name("f").Arg("x", NewPrimitive(PrimSISZ)).Returns(NewVoid()).Build(),
		BuildEnum().Name("color").Value("red", 0).Value("green", 1).Build(),
	}

	for _, a := range sample {
		assert.True(t, Equivalent(a, a), "%s should be self-equivalent", a)
		for _, b := range sample {
			assert.Equal(t, Equivalent(a, b), Equivalent(b, a),
				"equivalence of %s and %s should be symmetric", a, b)
		}
	}
}

func TestAnyIsEquivalentToEverything(t *testing.T) {
	sample := []*Type{
		NewVoid(),
		NewPrimitive(PrimString),
		BuildArray().Elem(NewPrimitive(PrimSISZ)).Build(),
		BuildEnum().Name("e").Build(),
	}

	for _, other := range sample {
		assert.True(t, Equivalent(NewAny(), other))
		assert.True(t, Equivalent(other, NewAny()))
	}
}

func TestIntegerPrimitivesAreInterchangeable(t *testing.T) {
	ints := []Primitive{PrimSI8, PrimUI8, PrimSI32, PrimUI32, PrimSISZ, PrimUISZ}

	for _, a := range ints {
		for _, b := range ints {
			assert.True(t, Equivalent(NewPrimitive(a), NewPrimitive(b)),
				"%s and %s should be implicit-cast-equivalent", a, b)
		}
	}
}

func TestPrimitiveEquivalenceBoundaries(t *testing.T) {
	assert.True(t, Equivalent(NewPrimitive(PrimFlt32), NewPrimitive(PrimFlt64)))
	assert.False(t, Equivalent(NewPrimitive(PrimFlt32), NewPrimitive(PrimSISZ)))
	assert.False(t, Equivalent(NewPrimitive(PrimString), NewPrimitive(PrimBool)))
	assert.False(t, Equivalent(NewPrimitive(PrimNull), NewPrimitive(PrimPtr)))
	assert.False(t, Equivalent(NewPrimitive(PrimString), NewVoid()))
}

func TestFuncEquivalence(t *testing.T) {
	f1 := BuildFunc().Name("a").Arg("x", NewPrimitive(PrimSISZ)).Returns(NewVoid()).Build()
	f2 := BuildFunc().Name("b").Arg("y", NewPrimitive(PrimUI8)).Returns(NewVoid()).Build()
	f3 := BuildFunc().Name("c").Returns(NewVoid()).Build()
	f4 := BuildFunc().Name("d").Arg("x", NewPrimitive(PrimString)).Returns(NewVoid()).Build()

	assert.True(t, Equivalent(f1, f2), "integer args make equivalent functions")
	assert.False(t, Equivalent(f1, f3), "different arity")
	assert.False(t, Equivalent(f1, f4), "string arg does not match integer arg")
}

func TestArrayEquivalence(t *testing.T) {
	unsized := BuildArray().Elem(NewPrimitive(PrimSISZ)).Build()
	sized3 := BuildArray().Elem(NewPrimitive(PrimSISZ)).Size(3).Build()
	sized3b := BuildArray().Elem(NewPrimitive(PrimUI32)).Size(3).Build()
	sized4 := BuildArray().Elem(NewPrimitive(PrimSISZ)).Size(4).Build()

	assert.True(t, Equivalent(unsized, BuildArray().Elem(NewPrimitive(PrimUI8)).Build()))
	assert.True(t, Equivalent(sized3, sized3b))
	assert.False(t, Equivalent(sized3, sized4))
	assert.False(t, Equivalent(unsized, sized3))
}

func TestStructEquivalenceIsOrderedAndNamed(t *testing.T) {
	ab := BuildStruct().Name("s").Field("a", NewPrimitive(PrimSISZ)).Field("b", NewPrimitive(PrimBool)).Build()
	ab2 := BuildStruct().Name("t").Field("a", NewPrimitive(PrimUI8)).Field("b", NewPrimitive(PrimBool)).Build()
	ba := BuildStruct().Name("u").Field("b", NewPrimitive(PrimBool)).Field("a", NewPrimitive(PrimSISZ)).Build()

	assert.True(t, Equivalent(ab, ab2))
	assert.False(t, Equivalent(ab, ba))
}

func TestEnumEquivalenceIsNominal(t *testing.T) {
	c1 := BuildEnum().Name("color").Value("red", 0).Build()
	c2 := BuildEnum().Name("color").Value("red", 0).Build()
	c3 := BuildEnum().Name("shade").Value("red", 0).Build()
	c4 := BuildEnum().Name("color").Value("red", 1).Build()

	assert.True(t, Equivalent(c1, c2))
	assert.False(t, Equivalent(c1, c3))
	assert.False(t, Equivalent(c1, c4))
}

func TestUnionEquivalence(t *testing.T) {
	u1 := BuildUnion().Name("opt").Case("some", NewPrimitive(PrimSISZ)).Case("none", NewVoid()).Build()
	u2 := BuildUnion().Name("opt").Case("some", NewPrimitive(PrimUI32)).Case("none", NewVoid()).Build()
	u3 := BuildUnion().Name("opt").Case("some", NewPrimitive(PrimString)).Case("none", NewVoid()).Build()

	assert.True(t, Equivalent(u1, u2))
	assert.False(t, Equivalent(u1, u3))
}

func TestNumericClassification(t *testing.T) {
	assert.True(t, IsInteger(NewPrimitive(PrimUI8)))
	assert.True(t, IsInteger(BuildEnum().Name("e").Build()), "enums count as integers")
	assert.False(t, IsInteger(NewPrimitive(PrimFlt64)))

	assert.True(t, IsNumber(NewPrimitive(PrimFlt64)))
	assert.True(t, IsNumber(NewPrimitive(PrimSISZ)))
	assert.False(t, IsNumber(NewPrimitive(PrimString)))
	assert.False(t, IsNumber(NewVoid()))
}

func TestBuildersRequireMandatoryFields(t *testing.T) {
	assert.Panics(t, func() { BuildPrimitive().Build() })
	assert.Panics(t, func() { BuildArray().Build() })
	assert.Panics(t, func() { BuildStruct().Field("a", NewVoid()).Build() })
	assert.Panics(t, func() { BuildFunc().Name("f").Build() })
	assert.Panics(t, func() { BuildEnum().Value("a", 0).Build() })
	assert.Panics(t, func() { BuildUnion().Case("a", NewVoid()).Build() })
}

func TestParseTypeName(t *testing.T) {
	ctx := NewGlobalContext()
	at := types.Position{Line: 1, Column: 1, Filename: "test.efu"}

	isz, err := ParseTypeName(ctx, "isz", at)
	require.NoError(t, err)
	assert.Equal(t, PrimSISZ, isz.Base)

	arr, err := ParseTypeName(ctx, "u8[]", at)
	require.NoError(t, err)
	require.Equal(t, TypeArray, arr.Kind)
	assert.Nil(t, arr.Size)
	assert.Equal(t, PrimUI8, arr.Elem.Base)

	sized, err := ParseTypeName(ctx, "isz[3]", at)
	require.NoError(t, err)
	require.NotNil(t, sized.Size)
	assert.Equal(t, int64(3), *sized.Size)

	nested, err := ParseTypeName(ctx, "isz[][4]", at)
	require.NoError(t, err)
	require.Equal(t, TypeArray, nested.Kind)
	require.NotNil(t, nested.Size)
	assert.Equal(t, int64(4), *nested.Size)
	require.Equal(t, TypeArray, nested.Elem.Kind)
	assert.Nil(t, nested.Elem.Size)
}

func TestParseTypeNameResolvesNamedTypes(t *testing.T) {
	ctx := NewGlobalContext()
	at := types.Position{Line: 1, Column: 1, Filename: "test.efu"}

	color := BuildEnum().Name("color").Value("red", 0).Build()
	ctx.AddType("color", color)

	got, err := ParseTypeName(ctx, "color", at)
	require.NoError(t, err)
	assert.Equal(t, color, got)

	_, err = ParseTypeName(ctx, "nonsense", at)
	assert.Error(t, err)

	_, err = ParseTypeName(ctx, "isz[", at)
	assert.Error(t, err)
}

func TestContextLookupWalksParents(t *testing.T) {
	root := NewGlobalContext()
	child := root.Child()
	grandchild := child.Child()

	v := &Var{Name: "x", Type: NewPrimitive(PrimSISZ)}
	require.True(t, root.AddVar(v))

	assert.Equal(t, v, grandchild.GetVar("x"))
	assert.False(t, grandchild.HasVar("x"), "HasVar is scope-local")
	assert.True(t, grandchild.VarExists("x"))
}

func TestGlobalsHoldExactlyTheBuiltins(t *testing.T) {
	ctx := NewGlobalContext()

	for _, name := range []string{"printf", "printnf", "fmt"} {
		v := ctx.GetVar(name)
		require.NotNil(t, v, "builtin %s", name)
		assert.Equal(t, TypeFunc, v.Type.Kind)
		require.NotNil(t, v.Type.Variadic, "builtin %s is variadic", name)
	}

	assert.Len(t, ctx.globals.vars, 3)
}

func TestRedeclarationAtSamePositionIsIdempotent(t *testing.T) {
	ctx := NewGlobalContext()
	at := types.Position{Line: 3, Column: 1, Filename: "test.efu"}

	first := &Var{Name: "x", Decl: at, Type: NewPrimitive(PrimSISZ)}
	assert.True(t, ctx.AddVar(first))
	assert.True(t, ctx.AddVar(&Var{Name: "x", Decl: at, Type: NewPrimitive(PrimSISZ)}))
	assert.Equal(t, first, ctx.GetVar("x"), "the second registration is a no-op")

	other := types.Position{Line: 9, Column: 1, Filename: "test.efu"}
	assert.False(t, ctx.AddVar(&Var{Name: "x", Decl: other, Type: NewPrimitive(PrimSISZ)}))
}
