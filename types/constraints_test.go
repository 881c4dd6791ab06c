package types_test

import (
	"testing"

	"github.com/cottand/gradual/typerr"
	"github.com/cottand/gradual/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrozenProbesRecordNothing(t *testing.T) {
	f := newFixture(t)
	tv := f.ctx.NewTypeVar("X")
	frozen := f.ctx.Freeze()

	assert.True(t, frozen.IsFrozen())
	assert.False(t, types.IsSubType(frozen, types.Integer, tv))
	assert.False(t, types.IsSubType(frozen, tv, types.Integer))
	assert.False(t, types.IsSubTypeWhenFrozen(f.ctx, tv, types.Integer))
	assert.True(t, types.IsSubType(frozen, tv, tv))
	assert.True(t, types.IsSubType(frozen, tv, types.Untyped))

	assert.Empty(t, f.ctx.Constraints().LowerBounds(tv))
	assert.Empty(t, f.ctx.Constraints().UpperBounds(tv))
}

func TestBoundsAreRecorded(t *testing.T) {
	f := newFixture(t)
	store := f.ctx.Constraints()
	tv := f.ctx.NewTypeVar("X")
	before := f.ctx.Freeze()

	require.True(t, types.IsSubType(f.ctx, types.Integer, tv))
	require.True(t, types.IsSubType(f.ctx, tv, f.parse("Numeric")))
	require.True(t, types.IsSubType(f.ctx, f.parse("T::Array[Integer]"), types.ArrayOf(tv)), "bounds are found below type arguments")

	assert.Equal(t, []types.Type{types.Integer, types.Integer}, store.LowerBounds(tv))
	assert.Equal(t, []types.Type{f.parse("Numeric")}, store.UpperBounds(tv))

	assert.Contains(t, types.DebugString(f.ctx, tv, 0), "upper0 = ClassType(Numeric)")
	assert.NotContains(t, types.DebugString(before, tv, 0), "upper0", "earlier snapshots do not see later bounds")
}

func TestSolve(t *testing.T) {
	f := newFixture(t)
	store := f.ctx.Constraints()

	lowers := f.ctx.NewTypeVar("Lowers")
	types.IsSubType(f.ctx, types.Integer, lowers)
	types.IsSubType(f.ctx, types.Float, lowers)
	types.IsSubType(f.ctx, lowers, f.parse("Numeric"))

	uppers := f.ctx.NewTypeVar("Uppers")
	types.IsSubType(f.ctx, uppers, f.parse("Comparable"))
	types.IsSubType(f.ctx, uppers, f.parse("Kernel"))

	unbounded := f.ctx.NewTypeVar("Unbounded")

	errs := store.Solve(f.ctx)
	assert.False(t, errs.HasError(), "got %v", errs.Errors())

	testCases := []struct {
		tv       *types.TypeVar
		expected string
	}{
		{lowers, "T.any(Integer, Float)"},
		{uppers, "T.all(Kernel, Comparable)"},
		{unbounded, "T.untyped"},
	}
	for _, tc := range testCases {
		t.Run(tc.tv.Name.String(), func(t *testing.T) {
			inst, ok := store.Instantiation(tc.tv)
			require.True(t, ok)
			assert.Equal(t, tc.expected, f.show(inst))
			assert.True(t, types.IsFullyDefined(f.ctx, tc.tv))
		})
	}

	t.Run("instantiated variables behave like their instantiation", func(t *testing.T) {
		assert.True(t, types.IsSubType(f.ctx, lowers, f.parse("Numeric")))
		assert.False(t, types.IsSubType(f.ctx, lowers, types.Integer))
		assert.Equal(t, "T.any(Integer, Float)", f.show(types.Lub(f.ctx, lowers, types.Integer)))
		assert.Len(t, store.UpperBounds(lowers), 1, "no bound is recorded once instantiated")
	})
	t.Run("solving again changes nothing", func(t *testing.T) {
		assert.False(t, store.Solve(f.ctx).HasError())
	})
}

func TestSolveBoundsMismatch(t *testing.T) {
	f := newFixture(t)
	tv := f.ctx.NewTypeVar("X")
	types.IsSubType(f.ctx, types.String, tv)
	types.IsSubType(f.ctx, tv, types.Integer)

	errs := f.ctx.Constraints().Solve(f.ctx)
	require.True(t, errs.HasCode(typerr.BoundsMismatch))
	assert.Equal(t, "could not find a type for `T.type_parameter(:X)`: `String` is not a subtype of its bound `Integer`",
		errs.Errors()[0].Error())
}

func TestConstraintMisuse(t *testing.T) {
	f := newFixture(t)

	t.Run("instantiating twice", func(t *testing.T) {
		tv := f.ctx.NewTypeVar("X")
		f.ctx.Constraints().Instantiate(f.ctx, tv, types.Integer)
		assert.Panics(t, func() { f.ctx.Constraints().Instantiate(f.ctx, tv, types.String) })
	})
	t.Run("variables of another episode", func(t *testing.T) {
		other := newFixture(t)
		tv := f.ctx.NewTypeVar("X")
		assert.NotEqual(t, f.ctx.Constraints().Episode(), other.ctx.Constraints().Episode())
		assert.Panics(t, func() { types.IsSubType(other.ctx, types.Integer, tv) })
	})
	t.Run("bound cycles", func(t *testing.T) {
		a, b := f.ctx.NewTypeVar("A"), f.ctx.NewTypeVar("B")
		require.True(t, types.IsSubType(f.ctx, a, b))
		assert.Panics(t, func() { types.IsSubType(f.ctx, b, types.ArrayOf(a)) })
	})
	t.Run("variables compared in an invariant position", func(t *testing.T) {
		ctx := types.NewCtx(f.table, types.Options{Debug: true})
		a, b := ctx.NewTypeVar("A"), ctx.NewTypeVar("B")
		cell := f.sym("Cell")
		assert.NotPanics(t, func() {
			assert.True(t, types.IsSubType(ctx, types.Applied(cell, a), types.Applied(cell, b)))
		})
		assert.Equal(t, []types.Type{b}, ctx.Constraints().UpperBounds(a))
		assert.Empty(t, ctx.Constraints().UpperBounds(b))
		assert.Empty(t, ctx.Constraints().LowerBounds(a))
	})
	t.Run("checks are skipped without debug", func(t *testing.T) {
		ctx := types.NewCtx(f.table, types.Options{})
		tv := ctx.NewTypeVar("X")
		ctx.Constraints().Instantiate(ctx, tv, types.Integer)
		assert.NotPanics(t, func() { ctx.Constraints().Instantiate(ctx, tv, types.String) })
		inst, _ := ctx.Constraints().Instantiation(tv)
		assert.Equal(t, types.Integer, inst, "the first instantiation stays")
	})
}

func TestEnforce(t *testing.T) {
	f := newFixture(t)

	assert.NotPanics(t, func() { types.Enforce(f.ctx, true, "fine") })
	assert.PanicsWithValue(t, "gradual: broken 42", func() { types.Enforce(f.ctx, false, "broken %d", 42) })
	assert.NotPanics(t, func() {
		types.Enforce(types.NewFrozenCtx(f.table, types.Options{}), false, "ignored")
	})
}
