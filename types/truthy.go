package types

// CanBeFalsy reports whether a value of t may be nil or false
func CanBeFalsy(ctx Context, t Type) bool {
	t = dealias(ctx, t)
	symbols := ctx.Symbols()
	switch t := t.(type) {
	case *ClassType:
		if t.Symbol == Symbols.Bottom {
			return false
		}
		if t.Symbol == Symbols.Untyped || t.Symbol == Symbols.Top {
			return true
		}
		return symbols.DerivesFrom(Symbols.NilClass, t.Symbol) || symbols.DerivesFrom(Symbols.FalseClass, t.Symbol)
	case *AppliedType:
		return symbols.DerivesFrom(Symbols.NilClass, t.Klass) || symbols.DerivesFrom(Symbols.FalseClass, t.Klass)
	case *OrType:
		return CanBeFalsy(ctx, t.left) || CanBeFalsy(ctx, t.right)
	case *AndType:
		return CanBeFalsy(ctx, t.left) && CanBeFalsy(ctx, t.right)
	case *LiteralType:
		return t.lit == LitFalse
	case *TypeVar, *LambdaParam, *SelfTypeParam:
		// nothing is known yet
		return true
	}
	return false
}

// CanBeTruthy reports whether a value of t may be neither nil nor false
func CanBeTruthy(ctx Context, t Type) bool {
	t = dealias(ctx, t)
	if IsUntyped(t) {
		return true
	}
	return !IsSubTypeWhenFrozen(ctx, t, FalsyTypes)
}

// DropSubtypesOf removes from from every part that is known to be an instance of klass.
// Parts that cannot be removed exactly are kept.
func DropSubtypesOf(ctx Context, from Type, klass SymbolRef) Type {
	from = dealias(ctx, from)
	if IsUntyped(from) {
		return from
	}
	if or, ok := from.(*OrType); ok {
		l := DropSubtypesOf(ctx, or.left, klass)
		r := DropSubtypesOf(ctx, or.right, klass)
		if l == or.left && r == or.right {
			return from
		}
		return Lub(ctx, l, r)
	}
	if IsSubTypeWhenFrozen(ctx, from, Class(klass)) {
		return Bottom
	}
	return from
}

// ApproximateSubtract computes a supertype of the values of from that are not values of what.
// When no precise difference can be represented, from is returned unchanged.
func ApproximateSubtract(ctx Context, from, what Type) Type {
	from = dealias(ctx, from)
	if IsUntyped(what) || IsUntyped(from) {
		return from
	}
	if IsSubTypeWhenFrozen(ctx, from, what) {
		return Bottom
	}
	if or, ok := from.(*OrType); ok {
		l := ApproximateSubtract(ctx, or.left, what)
		r := ApproximateSubtract(ctx, or.right, what)
		if l == or.left && r == or.right {
			return from
		}
		return Lub(ctx, l, r)
	}
	return from
}
