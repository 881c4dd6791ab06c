package types_test

import (
	"testing"

	"github.com/cottand/gradual/symtab"
	"github.com/cottand/gradual/types"
	"github.com/cottand/gradual/typexpr"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	table *symtab.Table
	ctx   *types.Ctx
}

// newFixture loads the builtin universe plus testdata/zoo.toml, and runs with debug checks on
func newFixture(t testing.TB) *fixture {
	table := symtab.MustUniverse()
	require.NoError(t, table.LoadFile("testdata/zoo.toml"))
	return &fixture{
		table: table,
		ctx:   types.NewCtx(table, types.Options{Debug: true}),
	}
}

func (f *fixture) parse(src string) types.Type {
	return typexpr.MustParse(f.ctx.Freeze(), f.table.Scope(), src)
}

// parseIn parses src inside class owner, so its type members can be named directly
func (f *fixture) parseIn(owner, src string) types.Type {
	return typexpr.MustParse(f.ctx.Freeze(), f.table.Scope().Within(f.sym(owner)), src)
}

func (f *fixture) sym(name string) types.SymbolRef {
	sym, ok := f.table.Lookup(name)
	if !ok {
		panic("no symbol " + name)
	}
	return sym
}

func (f *fixture) show(t types.Type) string {
	return types.Show(f.ctx, t)
}

// corpus is a spread of types covering every kind a user can write
var corpus = []string{
	"Integer",
	"T.untyped",
	"T.anything",
	"T.noreturn",
	"NilClass",
	"Animal",
	"Dog",
	"Named",
	"Household",
	"1",
	":a",
	`"s"`,
	"true",
	"T::Boolean",
	"T.nilable(String)",
	"T.any(Dog, Integer)",
	"T.all(Named, Walker)",
	"[Integer, String]",
	"[]",
	"{a: Integer, b: T.nilable(String)}",
	"{}",
	"T::Array[Integer]",
	"T::Hash[Symbol, Dog]",
	"Box[Dog]",
	"Cell[Integer]",
	"Sink[Animal]",
	"IntBox",
	"Swapped[Integer, String]",
	"T.proc.params(x: Animal).returns(Dog)",
	"<Type: Integer>",
	"<Magic>",
}
