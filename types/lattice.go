package types

import (
	"slices"
	"sort"

	"github.com/cottand/gradual/internal/log"
	"github.com/xtgo/set"
)

// Lub is the least upper bound of a and b, the canonical union.
//
// The result is a right-nested chain of branches sorted by compareTypes where
// no branch is a subtype of another (checked frozen), and where branches of
// the same kind were combined when a more precise single type exists.
func Lub(ctx Context, a, b Type) Type {
	if a == b {
		return a
	}
	if IsUntyped(a) || IsUntyped(b) {
		return Untyped
	}
	if IsTop(a) || IsTop(b) {
		return Top
	}
	if IsBottom(a) {
		return b
	}
	if IsBottom(b) {
		return a
	}
	if Identical(a, b) {
		return a
	}
	branches := flattenOr(dealiasVar(ctx, a), nil)
	branches = flattenOr(dealiasVar(ctx, b), branches)
	return buildUnion(ctx, branches)
}

// Glb is the greatest lower bound of a and b, the canonical intersection.
// Unions are kept outermost: an intersection with a union distributes over its branches.
func Glb(ctx Context, a, b Type) Type {
	if a == b {
		return a
	}
	if IsUntyped(a) {
		return b
	}
	if IsUntyped(b) {
		return a
	}
	if IsBottom(a) || IsBottom(b) {
		return Bottom
	}
	if IsTop(a) {
		return b
	}
	if IsTop(b) {
		return a
	}
	if Identical(a, b) {
		return a
	}
	// aliases are expanded so that unions behind them distribute too
	a, b = dealias(ctx, a), dealias(ctx, b)
	if or, ok := a.(*OrType); ok {
		return Lub(ctx, Glb(ctx, or.left, b), Glb(ctx, or.right, b))
	}
	if or, ok := b.(*OrType); ok {
		return Lub(ctx, Glb(ctx, a, or.left), Glb(ctx, a, or.right))
	}
	conjuncts := flattenAnd(a, nil)
	conjuncts = flattenAnd(b, conjuncts)
	return buildIntersection(ctx, conjuncts)
}

// BuildOr is Lub
func BuildOr(ctx Context, a, b Type) Type { return Lub(ctx, a, b) }

// BuildAnd is Glb
func BuildAnd(ctx Context, a, b Type) Type { return Glb(ctx, a, b) }

// LubAll folds Lub over ts, the lub of no types is bottom
func LubAll(ctx Context, ts ...Type) Type {
	acc := Bottom
	for _, t := range ts {
		acc = Lub(ctx, acc, t)
	}
	return acc
}

// GlbAll folds Glb over ts, the glb of no types is top
func GlbAll(ctx Context, ts ...Type) Type {
	acc := Top
	for _, t := range ts {
		acc = Glb(ctx, acc, t)
	}
	return acc
}

// dealiasVar replaces an instantiated TypeVar by its instantiation. Aliases are kept.
func dealiasVar(ctx Context, t Type) Type {
	if tv, ok := t.(*TypeVar); ok {
		if inst, ok := ctx.view().instantiation(tv); ok {
			return dealiasVar(ctx, inst)
		}
	}
	return t
}

// widenBool replaces true and false literals by TrueClass and FalseClass, which are equivalent
func widenBool(t Type) Type {
	if lit, ok := t.(*LiteralType); ok {
		switch lit.lit {
		case LitTrue:
			return TrueClass
		case LitFalse:
			return FalseClass
		}
	}
	return t
}

func buildUnion(ctx Context, branches []Type) Type {
	probe := ctx.Freeze()
	var out []Type
	for _, branch := range branches {
		branch = widenBool(branch)
		switch {
		case IsUntyped(branch):
			return Untyped
		case IsTop(branch):
			return Top
		case IsBottom(branch):
			continue
		}
		out = insertBranch(ctx, probe, out, branch)
		if len(out) == 1 && (IsUntyped(out[0]) || IsTop(out[0])) {
			return out[0]
		}
	}
	result := chain(out, Bottom, func(l, r Type) Type { return &OrType{left: l, right: r} })
	ctx.Logger().Debug("built union", "section", log.SectionLattice, "branches", len(out), "result", result)
	return result
}

// insertBranch adds c to the branch list out, dropping whatever c makes redundant
func insertBranch(ctx Context, probe FrozenCtx, out []Type, c Type) []Type {
	for i, r := range out {
		if !IsSubType(probe, c, r) {
			continue
		}
		// c is redundant unless the two are equivalent and c sorts first
		if IsSubType(probe, r, c) && compareTypes(c, r) < 0 {
			out[i] = c
		}
		return out
	}
	out = slices.DeleteFunc(out, func(r Type) bool { return IsSubType(probe, r, c) })
	for i, r := range out {
		if merged, ok := lubGround(ctx, r, c); ok {
			rest := slices.Delete(slices.Clone(out), i, i+1)
			if IsUntyped(merged) || IsTop(merged) {
				return []Type{merged}
			}
			return insertBranch(ctx, probe, rest, merged)
		}
	}
	return append(out, c)
}

// lubGround tries to express the union of two ground types as a single type
func lubGround(ctx Context, a, b Type) (Type, bool) {
	switch aa := a.(type) {
	case *LiteralType:
		bb, ok := b.(*LiteralType)
		if ok && aa.lit == bb.lit {
			return Class(aa.Underlying()), true
		}
	case *TupleType:
		bb, ok := b.(*TupleType)
		if !ok || len(aa.Elems) != len(bb.Elems) {
			return nil, false
		}
		elems := make([]Type, len(aa.Elems))
		for i := range elems {
			elems[i] = Lub(ctx, aa.Elems[i], bb.Elems[i])
		}
		return &TupleType{Elems: elems}, true
	case *ShapeType:
		bb, ok := b.(*ShapeType)
		if !ok || !sameKeys(aa, bb) {
			return nil, false
		}
		values := make([]Type, len(aa.Values))
		for i, k := range aa.Keys {
			bv, _ := bb.Lookup(k)
			values[i] = Lub(ctx, aa.Values[i], bv)
		}
		return &ShapeType{Keys: aa.Keys, Values: values}, true
	case *AppliedType:
		bb, ok := b.(*AppliedType)
		if !ok || aa.Klass != bb.Klass {
			return nil, false
		}
		return combineApplied(ctx, aa, bb, true)
	}
	return nil, false
}

// combineApplied merges the arguments of two instantiations of the same class by variance:
// towards the lub of the covariant ones when upper is set, towards the glb otherwise
func combineApplied(ctx Context, a, b *AppliedType, upper bool) (Type, bool) {
	members := ctx.Symbols().TypeMembers(a.Klass)
	if len(members) != len(a.Targs) || len(members) != len(b.Targs) {
		return nil, false
	}
	targs := make([]Type, len(members))
	for i, member := range members {
		variance := ctx.Symbols().Variance(member)
		switch {
		case variance.IsCovariant() == upper && !variance.IsInvariant():
			targs[i] = Lub(ctx, a.Targs[i], b.Targs[i])
		case !variance.IsInvariant():
			targs[i] = Glb(ctx, a.Targs[i], b.Targs[i])
		case Equiv(ctx, a.Targs[i], b.Targs[i]):
			targs[i] = a.Targs[i]
		default:
			return nil, false
		}
	}
	return &AppliedType{Klass: a.Klass, Targs: targs}, true
}

func sameKeys(a, b *ShapeType) bool {
	if len(a.Keys) != len(b.Keys) {
		return false
	}
	for _, k := range a.Keys {
		if _, ok := b.Lookup(k); !ok {
			return false
		}
	}
	return true
}

func buildIntersection(ctx Context, conjuncts []Type) Type {
	probe := ctx.Freeze()
	var out []Type
	for _, c := range conjuncts {
		c = widenBool(c)
		switch {
		case IsUntyped(c), IsTop(c):
			continue
		case IsBottom(c):
			return Bottom
		}
		var bottom bool
		out, bottom = insertConjunct(ctx, probe, out, c)
		if bottom {
			return Bottom
		}
	}
	result := chain(out, Top, func(l, r Type) Type { return &AndType{left: l, right: r} })
	ctx.Logger().Debug("built intersection", "section", log.SectionLattice, "conjuncts", len(out), "result", result)
	return result
}

// insertConjunct adds c to the conjunct list out, reporting when the intersection is uninhabited
func insertConjunct(ctx Context, probe FrozenCtx, out []Type, c Type) ([]Type, bool) {
	for i, r := range out {
		if !IsSubType(probe, r, c) {
			continue
		}
		if IsSubType(probe, c, r) && compareTypes(c, r) < 0 {
			out[i] = c
		}
		return out, false
	}
	out = slices.DeleteFunc(out, func(r Type) bool { return IsSubType(probe, c, r) })
	for i, r := range out {
		if merged, ok := glbGround(ctx, r, c); ok {
			if IsBottom(merged) {
				return nil, true
			}
			rest := slices.Delete(slices.Clone(out), i, i+1)
			return insertConjunct(ctx, probe, rest, merged)
		}
	}
	return append(out, c), false
}

// glbGround tries to express the intersection of two ground types, neither a subtype of the other, as a single type
func glbGround(ctx Context, a, b Type) (Type, bool) {
	switch aa := a.(type) {
	case *TupleType:
		if bb, ok := b.(*TupleType); ok {
			if len(aa.Elems) != len(bb.Elems) {
				return Bottom, true
			}
			elems := make([]Type, len(aa.Elems))
			for i := range elems {
				elems[i] = Glb(ctx, aa.Elems[i], bb.Elems[i])
				if IsBottom(elems[i]) {
					return Bottom, true
				}
			}
			return &TupleType{Elems: elems}, true
		}
	case *ShapeType:
		if bb, ok := b.(*ShapeType); ok && sameKeys(aa, bb) {
			values := make([]Type, len(aa.Values))
			for i, k := range aa.Keys {
				bv, _ := bb.Lookup(k)
				values[i] = Glb(ctx, aa.Values[i], bv)
				if IsBottom(values[i]) {
					return Bottom, true
				}
			}
			return &ShapeType{Keys: aa.Keys, Values: values}, true
		}
	case *AppliedType:
		if bb, ok := b.(*AppliedType); ok && aa.Klass == bb.Klass {
			return combineApplied(ctx, aa, bb, false)
		}
	}
	if _, ok := a.(*LiteralType); ok {
		if _, ok := b.(*LiteralType); ok {
			return Bottom, true
		}
	}
	if disjointClasses(ctx, a, b) {
		return Bottom, true
	}
	return nil, false
}

// disjointClasses reports whether a and b behave like two unrelated classes.
// Modules are never disjoint from anything, a class may always include them.
func disjointClasses(ctx Context, a, b Type) bool {
	sa, _, okA := nominal(ctx, a)
	sb, _, okB := nominal(ctx, b)
	if !okA || !okB || isSpecialClass(sa) || isSpecialClass(sb) {
		return false
	}
	symbols := ctx.Symbols()
	if symbols.DerivesFrom(sa, sb) || symbols.DerivesFrom(sb, sa) {
		// a literal is disjoint from proper subclasses of its class
		_, litA := a.(*LiteralType)
		_, litB := b.(*LiteralType)
		return litA != litB && sa != sb && (litA && symbols.DerivesFrom(sb, sa) || litB && symbols.DerivesFrom(sa, sb))
	}
	if _, lit := a.(*LiteralType); lit {
		return true
	}
	if _, lit := b.(*LiteralType); lit {
		return true
	}
	return !symbols.IsModule(sa) && !symbols.IsModule(sb)
}

// chain sorts ts into canonical order, drops duplicates and nests them to the right
func chain(ts []Type, empty Type, node func(l, r Type) Type) Type {
	if len(ts) == 0 {
		return empty
	}
	sort.Sort(byTypeOrder(ts))
	ts = ts[:set.Uniq(byTypeOrder(ts))]
	acc := ts[len(ts)-1]
	for i := len(ts) - 2; i >= 0; i-- {
		acc = node(ts[i], acc)
	}
	return acc
}
