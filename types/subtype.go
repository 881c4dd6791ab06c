package types

import (
	"github.com/cottand/gradual/internal/log"
)

const maxAliasDepth = 32

// dealias resolves aliases and instantiated TypeVars until neither is left at the top of t
func dealias(ctx Context, t Type) Type {
	for range maxAliasDepth {
		switch tt := t.(type) {
		case *AliasType:
			target, ok := ctx.Symbols().AliasTarget(tt.Symbol)
			if !ok {
				Enforce(ctx, false, "alias %s has no target", tt)
				return Untyped
			}
			t = target
		case *TypeVar:
			checkEpisode(ctx, tt)
			inst, ok := ctx.view().instantiation(tt)
			if !ok {
				return t
			}
			t = inst
		default:
			return t
		}
	}
	Enforce(ctx, false, "alias chain of %s is too deep or cyclic", t)
	return Untyped
}

func checkEpisode(ctx Context, tv *TypeVar) {
	Enforce(ctx, tv.episode == ctx.view().episode,
		"type variable %s of episode %d used in episode %d", tv, tv.episode, ctx.view().episode)
}

// IsSubType reports whether every value of a is also a value of b.
//
// Under a *Ctx, a comparison against an uninstantiated TypeVar succeeds and
// records the other side as one of its bounds. Under a FrozenCtx it fails instead.
func IsSubType(ctx Context, a, b Type) bool {
	if a == b || Identical(a, b) {
		return true
	}
	a, b = dealias(ctx, a), dealias(ctx, b)

	if IsUntyped(a) || IsUntyped(b) {
		return true
	}
	if IsBottom(a) || IsTop(b) {
		return true
	}

	if tv, ok := a.(*TypeVar); ok {
		return recordBound(ctx, tv, b, true)
	}
	if tv, ok := b.(*TypeVar); ok {
		return recordBound(ctx, tv, a, false)
	}

	if or, ok := a.(*OrType); ok {
		return IsSubType(ctx, or.left, b) && IsSubType(ctx, or.right, b)
	}
	if and, ok := b.(*AndType); ok {
		return IsSubType(ctx, a, and.left) && IsSubType(ctx, a, and.right)
	}
	if or, ok := b.(*OrType); ok {
		return IsSubType(ctx, a, or.left) || IsSubType(ctx, a, or.right)
	}
	if and, ok := a.(*AndType); ok {
		return IsSubType(ctx, and.left, b) || IsSubType(ctx, and.right, b)
	}
	return isSubTypeGround(ctx, a, b)
}

// IsSubTypeWhenFrozen is IsSubType under a frozen view of ctx, so it never records bounds
func IsSubTypeWhenFrozen(ctx Context, a, b Type) bool {
	return IsSubType(ctx.Freeze(), a, b)
}

// Equiv reports whether a and b are subtypes of each other, without recording bounds
func Equiv(ctx Context, a, b Type) bool {
	frozen := ctx.Freeze()
	return IsSubType(frozen, a, b) && IsSubType(frozen, b, a)
}

func recordBound(ctx Context, tv *TypeVar, bound Type, upper bool) bool {
	store := ctx.store()
	if store == nil {
		return false
	}
	if other, ok := bound.(*TypeVar); ok {
		// a variable already bounded by tv, directly or through other variables,
		// is equal to it once bounded the other way, so there is nothing to record
		if other.ID == tv.ID || boundReaches(ctx.view(), other, tv.ID, 0) {
			return true
		}
	}
	if ctx.options().Debug {
		Enforce(ctx, !boundReaches(ctx.view(), bound, tv.ID, 0), "bound %s of %s forms a cycle", bound, tv)
	}
	if upper {
		store.addUpper(tv, bound)
	} else {
		store.addLower(tv, bound)
	}
	ctx.Logger().Debug("recorded bound", "section", log.SectionInference, "var", tv, "bound", bound, "upper", upper)
	return true
}

// boundReaches reports whether t mentions the variable target, following the bounds of other TypeVars
func boundReaches(view storeView, t Type, target TypeVarID, depth int) bool {
	if depth > maxAliasDepth {
		return true
	}
	found := false
	walk(t, func(t Type) bool {
		tv, ok := t.(*TypeVar)
		if !ok || found {
			return !found
		}
		if tv.ID == target {
			found = true
			return false
		}
		st, ok := view.state(tv.ID)
		if !ok {
			return true
		}
		for _, b := range st.upper {
			found = found || boundReaches(view, b, target, depth+1)
		}
		for _, b := range st.lower {
			found = found || boundReaches(view, b, target, depth+1)
		}
		return !found
	})
	return found
}

// isSubTypeGround handles the cases where neither side is a union, an intersection or an inference variable
func isSubTypeGround(ctx Context, a, b Type) bool {
	switch aa := a.(type) {
	case *LambdaParam:
		if bb, ok := b.(*LambdaParam); ok && bb.Definition == aa.Definition {
			return true
		}
		_, upper := ctx.Symbols().ParamBounds(aa.Definition)
		return upper != nil && IsSubType(ctx, upper, b)
	case *SelfTypeParam:
		if bb, ok := b.(*SelfTypeParam); ok && bb.Definition == aa.Definition {
			return true
		}
		_, upper := ctx.Symbols().ParamBounds(aa.Definition)
		return upper != nil && IsSubType(ctx, upper, b)
	}

	switch bb := b.(type) {
	case *LiteralType:
		switch aa := a.(type) {
		case *LiteralType:
			return aa.Equal(bb)
		case *ClassType:
			// TrueClass and FalseClass have exactly one value each
			return (bb.lit == LitTrue || bb.lit == LitFalse) && aa.Symbol == bb.Underlying()
		}
		return false

	case *ShapeType:
		aa, ok := a.(*ShapeType)
		if !ok {
			return false
		}
		for i, key := range bb.Keys {
			av, found := aa.Lookup(key)
			if !found || !IsSubType(ctx, av, bb.Values[i]) {
				return false
			}
		}
		return true

	case *TupleType:
		aa, ok := a.(*TupleType)
		if !ok {
			return false
		}
		return isSubTypeTuple(ctx, aa, bb)

	case *MetaType:
		aa, ok := a.(*MetaType)
		if !ok {
			return false
		}
		return IsSubType(ctx, aa.Wrapped, bb.Wrapped) && IsSubType(ctx, bb.Wrapped, aa.Wrapped)

	case *MagicType:
		_, ok := a.(*MagicType)
		return ok

	case *LambdaParam:
		lower, _ := ctx.Symbols().ParamBounds(bb.Definition)
		return lower != nil && IsSubType(ctx, a, lower)

	case *SelfTypeParam:
		lower, _ := ctx.Symbols().ParamBounds(bb.Definition)
		return lower != nil && IsSubType(ctx, a, lower)

	case *ClassType:
		sym, _, ok := nominal(ctx, a)
		if !ok {
			return false
		}
		if bb.Symbol == Symbols.Bottom || isSpecialClass(sym) {
			return false
		}
		return ctx.Symbols().DerivesFrom(sym, bb.Symbol)

	case *AppliedType:
		sym, targs, ok := nominal(ctx, a)
		if !ok || isSpecialClass(sym) || !ctx.Symbols().DerivesFrom(sym, bb.Klass) {
			return false
		}
		return isSubTypeArgs(ctx, bb.Klass, baseTypeArgs(ctx, sym, targs, bb.Klass), bb.Targs)
	}
	return false
}

func isSubTypeTuple(ctx Context, a, b *TupleType) bool {
	limit := len(b.Elems)
	switch {
	case len(a.Elems) == len(b.Elems):
	case len(a.Elems) > len(b.Elems) && len(b.Elems) > 0 && Identical(b.Elems[len(b.Elems)-1], ArrayOfUntyped):
		// the trailing T::Array[T.untyped] slot absorbs the remaining elements
		limit--
	default:
		return false
	}
	for i := range limit {
		if !IsSubType(ctx, a.Elems[i], b.Elems[i]) {
			return false
		}
	}
	return true
}

// isSubTypeArgs compares the type arguments of two instantiations of klass according to the declared variance
func isSubTypeArgs(ctx Context, klass SymbolRef, a, b []Type) bool {
	members := ctx.Symbols().TypeMembers(klass)
	Enforce(ctx, len(a) == len(members) && len(b) == len(members),
		"applied %s expects %d type arguments, got %d and %d", ctx.Symbols().NameOf(klass), len(members), len(a), len(b))
	for i, member := range members {
		if i >= len(a) || i >= len(b) {
			return true
		}
		variance := ctx.Symbols().Variance(member)
		switch {
		case variance.IsCovariant():
			if !IsSubType(ctx, a[i], b[i]) {
				return false
			}
		case variance.IsContravariant():
			if !IsSubType(ctx, b[i], a[i]) {
				return false
			}
		default:
			if !IsSubType(ctx, a[i], b[i]) || !IsSubType(ctx, b[i], a[i]) {
				return false
			}
		}
	}
	return true
}

// nominal returns the class a ground type behaves like, and its type arguments.
// Nil targs means the class was not applied.
func nominal(ctx Context, t Type) (SymbolRef, []Type, bool) {
	switch t := t.(type) {
	case *ClassType:
		return t.Symbol, nil, true
	case *AppliedType:
		return t.Klass, t.Targs, true
	case *LiteralType:
		return t.Underlying(), nil, true
	case *TupleType:
		applied := underlying(ctx, t).(*AppliedType)
		return applied.Klass, applied.Targs, true
	case *ShapeType:
		// every shape compares as T::Hash[T.untyped, T.untyped], whatever its
		// keys, so that dropping keys never loses a nominal supertype
		return Symbols.Hash, []Type{Untyped, Untyped}, true
	case *MetaType:
		return Symbols.Object, nil, true
	case *MagicType:
		return Symbols.Magic, nil, true
	}
	return NoSymbol, nil, false
}

// underlying is the nominal type a structural type defaults to
func underlying(ctx Context, t Type) Type {
	switch t := t.(type) {
	case *LiteralType:
		return Class(t.Underlying())
	case *TupleType:
		if len(t.Elems) == 0 {
			return ArrayOfUntyped
		}
		return ArrayOf(LubAll(ctx, t.Elems...))
	case *ShapeType:
		if len(t.Keys) == 0 {
			return HashOfUntyped
		}
		keys := make([]Type, len(t.Keys))
		for i, k := range t.Keys {
			keys[i] = Class(k.Underlying())
		}
		return HashOf(LubAll(ctx, keys...), LubAll(ctx, t.Values...))
	case *MetaType:
		return Object
	case *MagicType:
		return Class(Symbols.Magic)
	}
	return t
}
