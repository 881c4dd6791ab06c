package typexpr_test

import (
	"errors"
	"testing"

	"github.com/cottand/gradual/symtab"
	"github.com/cottand/gradual/types"
	"github.com/cottand/gradual/typexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	table := symtab.MustUniverse()
	ctx := types.NewFrozenCtx(table, types.Options{})

	testCases := []struct {
		src      string
		expected string
	}{
		{"Integer", "Integer"},
		{"nil", "NilClass"},
		{"T.untyped", "T.untyped"},
		{"T.anything", "T.anything"},
		{"T.noreturn", "T.noreturn"},
		{"T.nilable(String)", "T.nilable(String)"},
		{"T.any(String, Integer)", "T.any(Integer, String)"},
		{"T.any(TrueClass, FalseClass)", "T::Boolean"},
		{"T::Boolean", "T::Boolean"},
		{"T.nilable(T.any(Integer, String))", "T.nilable(T.any(Integer, String))"},
		{"T.all(Comparable, Integer)", "Integer"},
		{"T.all(Comparable, Kernel)", "T.all(Kernel, Comparable)"},
		{"T::Array[Integer]", "T::Array[Integer]"},
		{"T::Hash[Symbol, T.untyped]", "T::Hash[Symbol, T.untyped]"},
		{"Array[String]", "T::Array[String]"},
		{"[Integer, String]", "[Integer, String]"},
		{"[]", "[]"},
		{`{a: Integer, "b" => String, :c => nil}`, `{a: Integer, "b" => String, c: NilClass}`},
		{"{}", "{}"},
		{"1", "Integer(1)"},
		{"-2", "Integer(-2)"},
		{"0x10", "Integer(16)"},
		{"1.5", "Float(1.5)"},
		{"Float(2)", "Float(2)"},
		{":sym", "Symbol(:sym)"},
		{`"hi"`, `String("hi")`},
		{`String("hi")`, `String("hi")`},
		{"Symbol(:a)", "Symbol(:a)"},
		{"true", "TrueClass"},
		{"T.proc.returns(NilClass)", "T.proc.returns(NilClass)"},
		{"T.proc.params(x: Integer).returns(String)", "T.proc.params(arg0: Integer).returns(String)"},
		{"T.proc.params(x: Integer, y: T.untyped).returns(String)", "T.proc.params(arg0: Integer, arg1: T.untyped).returns(String)"},
		{"<Type: Integer>", "<Type: Integer>"},
		{"<Magic>", "<Magic>"},
		{"Numberish", "Numberish"},
	}
	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			parsed, err := typexpr.Parse(ctx, table.Scope(), tc.src)
			require.NoError(t, err)
			shown := types.Show(ctx, parsed)
			assert.Equal(t, tc.expected, shown)

			reparsed, err := typexpr.Parse(ctx, table.Scope(), shown)
			require.NoError(t, err, "printed form must parse back")
			assert.Equal(t, shown, types.Show(ctx, reparsed))
		})
	}
}

func TestParseErrors(t *testing.T) {
	table := symtab.MustUniverse()
	ctx := types.NewFrozenCtx(table, types.Options{})

	testCases := []struct {
		src    string
		errMsg string
		syntax bool
	}{
		{"T::Array[Integer, String]", "takes 1 type arguments, got 2", true},
		{"Hash[Integer]", "takes 2 type arguments, got 1", true},
		{"Integer[String]", "takes 0 type arguments, got 1", true},
		{"Numberish[Integer]", "cannot take type arguments", true},
		{"T.nope", "unknown type T.nope", true},
		{"T::Nope", "unknown type T::Nope", true},
		{"T.any(Integer)", "at least 2 types", true},
		{"{a: Integer, a: String}", "duplicate shape key :a", true},
		{"T.proc.params(a: Integer, b: Integer, c: Integer).returns(String)", "at most 2 parameters", true},
		{"[Integer", "expected ',' or ']'", true},
		{"Integer String", "unexpected", true},
		{"Integer(:a)", "cannot wrap :a", true},
		{`"unterminated`, "literal not terminated", true},
		{"", "expected a type", true},
		{"Missing", "constant Missing", false},
		{"T.type_parameter(:U)", "type parameter U", false},
	}
	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			_, err := typexpr.Parse(ctx, table.Scope(), tc.src)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.errMsg)
			var syntaxErr *typexpr.SyntaxError
			assert.Equal(t, tc.syntax, errors.As(err, &syntaxErr))
		})
	}
}

func TestParseWithinScope(t *testing.T) {
	table := symtab.MustUniverse()
	ctx := types.NewFrozenCtx(table, types.Options{})
	s := types.Symbols

	u := table.DeclareTypeParam("U", nil)
	scope := table.Scope().Within(s.Hash).WithTypeParams(map[string]types.SymbolRef{"U": u})

	parsed, err := typexpr.Parse(ctx, scope, "T::Hash[K, T.type_parameter(:U)]")
	require.NoError(t, err)
	assert.Equal(t, types.HashOf(&types.LambdaParam{Definition: s.HashKey}, &types.SelfTypeParam{Definition: u}), parsed)

	assert.Panics(t, func() { typexpr.MustParse(ctx, scope, "T.any(") })
}
