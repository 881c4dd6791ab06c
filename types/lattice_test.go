package types_test

import (
	"testing"

	"github.com/cottand/gradual/types"
	"github.com/stretchr/testify/assert"
)

func TestLub(t *testing.T) {
	f := newFixture(t)

	testCases := []struct {
		a, b     string
		expected string
	}{
		{"Dog", "Animal", "Animal"},
		{"Dog", "Cat", "T.any(Dog, Cat)"},
		{"Cat", "Dog", "T.any(Dog, Cat)"},
		{"1", "2", "Integer"},
		{"1", "1", "Integer(1)"},
		{"1", "Integer", "Integer"},
		{"1", ":a", "T.any(Integer(1), Symbol(:a))"},
		{"true", "false", "T::Boolean"},
		{"TrueClass", "true", "TrueClass"},
		{"nil", "Integer", "T.nilable(Integer)"},
		{"T.nilable(Integer)", "String", "T.nilable(T.any(Integer, String))"},
		{"T.any(Dog, Integer)", "Cat", "T.any(Integer, Dog, Cat)"},
		{"T.any(Dog, Integer)", "Animal", "T.any(Integer, Animal)"},
		{"Household", "Dog", "Household"},
		{"[Integer]", "[String]", "[T.any(Integer, String)]"},
		{"[Integer]", "[Integer, String]", "T.any([Integer], [Integer, String])"},
		{"{a: Integer}", "{a: String}", "{a: T.any(Integer, String)}"},
		{"{a: Integer}", "{b: Integer}", "T.any({a: Integer}, {b: Integer})"},
		{"Box[Dog]", "Box[Cat]", "Box[T.any(Dog, Cat)]"},
		{"Box[Dog]", "Box[Animal]", "Box[Animal]"},
		{"Cell[Dog]", "Cell[Cat]", "T.any(Cell[Dog], Cell[Cat])"},
		{"Sink[Dog]", "Sink[Cat]", "Sink[T.noreturn]"},
		{"IntBox", "Box[Numeric]", "Box[Numeric]"},
		{"T.all(Named, Walker)", "Named", "Named"},
		{"T.untyped", "Integer", "T.untyped"},
		{"T.anything", "Integer", "T.anything"},
		{"T.noreturn", "Integer", "Integer"},
		{"T.anything", "T.untyped", "T.untyped"},
	}
	for _, tc := range testCases {
		t.Run(tc.a+" | "+tc.b, func(t *testing.T) {
			got := types.Lub(f.ctx, f.parse(tc.a), f.parse(tc.b))
			assert.Equal(t, tc.expected, f.show(got))
			types.SanityCheck(f.ctx, got)
		})
	}
}

func TestGlb(t *testing.T) {
	f := newFixture(t)

	testCases := []struct {
		a, b     string
		expected string
	}{
		{"Dog", "Animal", "Dog"},
		{"Animal", "Dog", "Dog"},
		{"Dog", "Cat", "T.noreturn"},
		{"Integer", "String", "T.noreturn"},
		{"Integer", "Comparable", "Integer"},
		{"Named", "Walker", "T.all(Named, Walker)"},
		{"Walker", "Named", "T.all(Named, Walker)"},
		{"Animal", "Named", "T.all(Animal, Named)"},
		{"T.nilable(Integer)", "Integer", "Integer"},
		{"T.any(Dog, Integer)", "Animal", "Dog"},
		{"Household", "Cat", "Cat"},
		{"Household", "Integer", "T.noreturn"},
		{"1", "2", "T.noreturn"},
		{"1", "Integer", "Integer(1)"},
		{"1", "String", "T.noreturn"},
		{"true", "T::Boolean", "TrueClass"},
		{"[Integer]", "[Integer, String]", "T.noreturn"},
		{"[Numeric]", "[Integer]", "[Integer]"},
		{"[T.any(Integer, String)]", "[T.any(String, Symbol)]", "[String]"},
		{"[Integer]", "[String]", "T.noreturn"},
		{"{a: Numeric, b: String}", "{a: Integer, b: Object}", "{a: Integer, b: String}"},
		{"Box[Dog]", "Box[Animal]", "Box[Dog]"},
		{"Box[T.any(Dog, Integer)]", "Box[T.any(Cat, Integer)]", "Box[Integer]"},
		{"Sink[Dog]", "Sink[Cat]", "Sink[T.any(Dog, Cat)]"},
		{"Box[Integer]", "T::Array[Integer]", "T.noreturn"},
		{"T.untyped", "Integer", "Integer"},
		{"T.anything", "Integer", "Integer"},
		{"T.noreturn", "Integer", "T.noreturn"},
	}
	for _, tc := range testCases {
		t.Run(tc.a+" & "+tc.b, func(t *testing.T) {
			got := types.Glb(f.ctx, f.parse(tc.a), f.parse(tc.b))
			assert.Equal(t, tc.expected, f.show(got))
			types.SanityCheck(f.ctx, got)
		})
	}
}

func TestLatticeIdentities(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx

	for _, src := range corpus {
		a := f.parse(src)
		t.Run(src, func(t *testing.T) {
			assert.True(t, types.Identical(a, types.Lub(ctx, a, f.parse(src))), "lub(A, A) = A")
			assert.True(t, types.Identical(a, types.Glb(ctx, a, f.parse(src))), "glb(A, A) = A")
			assert.True(t, types.Identical(a, types.Lub(ctx, types.Bottom, a)), "lub(bottom, A) = A")
			assert.True(t, types.IsBottom(types.Glb(ctx, types.Bottom, a)), "glb(bottom, A) = bottom")
			if types.IsUntyped(a) {
				// untyped absorbs everything, top included
				return
			}
			assert.True(t, types.IsTop(types.Lub(ctx, types.Top, a)), "lub(top, A) = top")
			assert.True(t, types.Identical(a, types.Glb(ctx, types.Top, a)), "glb(top, A) = A")
		})
	}
}

// operands excludes T.untyped, for which union elimination does not hold
var operands = []string{
	"Integer",
	"NilClass",
	"Animal",
	"Dog",
	"Named",
	"Household",
	"1",
	":a",
	"T::Boolean",
	"T.nilable(String)",
	"T.any(Dog, Integer)",
	"T.all(Named, Walker)",
	"[Integer, String]",
	"[]",
	"{a: Integer, b: T.nilable(String)}",
	"{a: Integer}",
	"{}",
	"T::Array[Integer]",
	"T::Hash[Symbol, Dog]",
	"Box[Dog]",
	"Sink[Animal]",
	"T.anything",
	"T.noreturn",
}

func TestUnionLaws(t *testing.T) {
	f := newFixture(t)
	frozen := f.ctx.Freeze()

	for _, srcA := range operands {
		for _, srcB := range operands {
			a, b := f.parse(srcA), f.parse(srcB)
			lub := types.Lub(frozen, a, b)
			glb := types.Glb(frozen, a, b)
			pair := srcA + ", " + srcB

			assert.True(t, types.Equiv(frozen, lub, types.Lub(frozen, b, a)), "lub is commutative for %s", pair)
			assert.True(t, types.IsSubType(frozen, glb, a) && types.IsSubType(frozen, glb, b), "glb is a lower bound for %s", pair)

			for _, srcC := range corpus {
				c := f.parse(srcC)
				eliminated := types.IsSubType(frozen, a, c) && types.IsSubType(frozen, b, c)
				assert.Equal(t, eliminated, types.IsSubType(frozen, lub, c), "lub(%s) <: %s", pair, srcC)

				if types.IsSubType(frozen, c, a) || types.IsSubType(frozen, c, b) {
					assert.True(t, types.IsSubType(frozen, c, lub), "%s <: lub(%s)", srcC, pair)
				}
			}
		}
	}
}

func TestBuildOrAnd(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "T.nilable(Integer)", f.show(types.BuildOr(f.ctx, types.Integer, types.Nil)))
	assert.Equal(t, "T.all(Named, Walker)", f.show(types.BuildAnd(f.ctx, f.parse("Walker"), f.parse("Named"))))
	assert.True(t, types.IsBottom(types.LubAll(f.ctx)))
	assert.True(t, types.IsTop(types.GlbAll(f.ctx)))
	assert.Equal(t, "T.any(Integer, String, Dog)", f.show(types.LubAll(f.ctx, f.parse("Dog"), types.String, types.Integer, f.parse("1"))))
}
