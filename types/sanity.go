package types

// SanityCheck enforces the structural invariants of t and all its sub-terms.
// Like Enforce, it only has an effect with Options.Debug.
func SanityCheck(ctx Context, t Type) {
	if !ctx.options().Debug {
		return
	}
	symbols := ctx.Symbols()
	walk(t, func(t Type) bool {
		for child := range children(t) {
			if child == nil || child == Type((*LiteralType)(nil)) {
				Enforce(ctx, false, "%s node has a nil child", t.Kind())
				return false
			}
		}
		switch t := t.(type) {
		case *OrType:
			_, nested := t.left.(*OrType)
			Enforce(ctx, !nested, "union %s is not right-nested", t)
		case *AndType:
			_, nested := t.left.(*AndType)
			Enforce(ctx, !nested, "intersection %s is not right-nested", t)
			for _, c := range t.Conjuncts() {
				_, isOr := c.(*OrType)
				Enforce(ctx, !isOr, "intersection %s contains a union", t)
			}
		case *ShapeType:
			Enforce(ctx, len(t.Keys) == len(t.Values), "shape has %d keys but %d values", len(t.Keys), len(t.Values))
			for i, k := range t.Keys {
				Enforce(ctx, k != nil, "shape key %d is nil", i)
				for _, other := range t.Keys[:i] {
					Enforce(ctx, !k.Equal(other), "shape key %s appears twice", k.Value())
				}
			}
		case *AppliedType:
			want := len(symbols.TypeMembers(t.Klass))
			Enforce(ctx, len(t.Targs) == want, "%s expects %d type arguments, got %d", symbols.NameOf(t.Klass), want, len(t.Targs))
		case *MetaType:
			Enforce(ctx, t.Wrapped != nil, "meta type wraps nothing")
		case *TypeVar:
			checkEpisode(ctx, t)
		}
		return true
	})
}
