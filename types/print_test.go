package types_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/cottand/gradual/types"
	"github.com/stretchr/testify/assert"
)

func TestShow(t *testing.T) {
	f := newFixture(t)
	s := types.Symbols

	testCases := []struct {
		name     string
		typ      types.Type
		expected string
	}{
		{"top", types.Top, "T.anything"},
		{"nil only", types.Nil, "NilClass"},
		{"boolean", types.Boolean, "T::Boolean"},
		{"nilable boolean", types.Lub(f.ctx, types.Nil, types.Boolean), "T.nilable(T::Boolean)"},
		{"falsy", types.FalsyTypes, "T.nilable(FalseClass)"},
		{"string key", types.Shape([]*types.LiteralType{types.StringLiteral("a b")}, []types.Type{types.Integer}), `{"a b" => Integer}`},
		{"symbol key needing quotes", types.Shape([]*types.LiteralType{types.SymbolLiteral("a-b")}, []types.Type{types.Integer}), `{:"a-b" => Integer}`},
		{"symbol literal needing quotes", types.SymbolLiteral("a-b"), `Symbol(:"a-b")`},
		{"float literal", types.FloatLiteral(1.5), "Float(1.5)"},
		{"proc0", types.Applied(s.Proc0, types.Integer), "T.proc.returns(Integer)"},
		{"proc2", types.Applied(s.Proc2, types.Integer, types.String, types.Nil), "T.proc.params(arg0: String, arg1: NilClass).returns(Integer)"},
		{"type variable", f.ctx.NewTypeVar("U"), "T.type_parameter(:U)"},
		{"type member", &types.LambdaParam{Definition: s.HashKey}, "K"},
		{"alias", types.Alias(f.sym("Household")), "Household"},
		{"meta", types.Meta(types.ArrayOf(types.Untyped)), "<Type: T::Array[T.untyped]>"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, types.Show(f.ctx, tc.typ))
		})
	}
}

func TestShowParsesBack(t *testing.T) {
	f := newFixture(t)

	for _, src := range corpus {
		typ := f.parse(src)
		shown := f.show(typ)
		assert.True(t, types.Equiv(f.ctx, typ, f.parse(shown)), "%s printed as %s", src, shown)
	}
}

func TestDebugString(t *testing.T) {
	f := newFixture(t)

	expected := "AppliedType(Array) {\n" +
		"\ttarg0 = OrType {\n" +
		"\t\tleft = ClassType(NilClass)\n" +
		"\t\tright = ClassType(Integer)\n" +
		"\t}\n" +
		"}"
	assert.Equal(t, expected, types.DebugString(f.ctx, f.parse("T::Array[T.nilable(Integer)]"), 0))
	assert.Equal(t, "AliasType(Household)", types.DebugString(f.ctx, f.parse("Household"), 0))
}

func TestLogValue(t *testing.T) {
	f := newFixture(t)
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	logger.Info("checked", "type", types.LogValue(f.ctx, f.parse("T.nilable(Dog)")))
	assert.Contains(t, buf.String(), "T.nilable(Dog)")
}

func TestSanityCheck(t *testing.T) {
	f := newFixture(t)

	for _, src := range corpus {
		assert.NotPanics(t, func() { types.SanityCheck(f.ctx, f.parse(src)) }, src)
	}

	testCases := []struct {
		name string
		typ  types.Type
	}{
		{"duplicate shape key", types.Shape(
			[]*types.LiteralType{types.SymbolLiteral("a"), types.SymbolLiteral("a")},
			[]types.Type{types.Integer, types.String},
		)},
		{"shape size mismatch", types.Shape([]*types.LiteralType{types.SymbolLiteral("a")}, nil)},
		{"applied arity", types.Applied(f.sym("Box"))},
		{"nested in a tuple", types.Tuple(types.Integer, types.Applied(types.Symbols.Hash, types.Integer))},
		{"empty meta", types.Meta(nil)},
		{"nil child", types.Tuple(types.Integer, nil)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Panics(t, func() { types.SanityCheck(f.ctx, tc.typ) })
		})
	}

	t.Run("no effect without debug", func(t *testing.T) {
		assert.NotPanics(t, func() {
			types.SanityCheck(types.NewFrozenCtx(f.table, types.Options{}), types.Meta(nil))
		})
	})
}
