package types

import "iter"

// children yields the direct sub-terms of t
func children(t Type) iter.Seq[Type] {
	return func(yield func(Type) bool) {
		switch t := t.(type) {
		case *OrType:
			if !yield(t.left) {
				return
			}
			yield(t.right)
		case *AndType:
			if !yield(t.left) {
				return
			}
			yield(t.right)
		case *AppliedType:
			for _, targ := range t.Targs {
				if !yield(targ) {
					return
				}
			}
		case *TupleType:
			for _, elem := range t.Elems {
				if !yield(elem) {
					return
				}
			}
		case *ShapeType:
			for _, k := range t.Keys {
				if !yield(k) {
					return
				}
			}
			for _, v := range t.Values {
				if !yield(v) {
					return
				}
			}
		case *MetaType:
			yield(t.Wrapped)
		}
	}
}

// walk visits t and its sub-terms in pre-order, descending into a term's children only if f returns true
func walk(t Type, f func(Type) bool) {
	if t == nil || !f(t) {
		return
	}
	for child := range children(t) {
		walk(child, f)
	}
}

// mapChildren rebuilds t with f applied to each direct sub-term.
// Unions and intersections are rebuilt through Lub and Glb so the result stays canonical.
// t itself is returned if f changed nothing.
func mapChildren(ctx Context, t Type, f func(Type) Type) Type {
	switch t := t.(type) {
	case *OrType:
		l, r := f(t.left), f(t.right)
		if l == t.left && r == t.right {
			return t
		}
		return Lub(ctx, l, r)
	case *AndType:
		l, r := f(t.left), f(t.right)
		if l == t.left && r == t.right {
			return t
		}
		return Glb(ctx, l, r)
	case *AppliedType:
		targs, changed := mapList(t.Targs, f)
		if !changed {
			return t
		}
		return &AppliedType{Klass: t.Klass, Targs: targs}
	case *TupleType:
		elems, changed := mapList(t.Elems, f)
		if !changed {
			return t
		}
		return &TupleType{Elems: elems}
	case *ShapeType:
		values, changed := mapList(t.Values, f)
		if !changed {
			return t
		}
		return &ShapeType{Keys: t.Keys, Values: values}
	case *MetaType:
		w := f(t.Wrapped)
		if w == t.Wrapped {
			return t
		}
		return &MetaType{Wrapped: w}
	}
	return t
}

func mapList(ts []Type, f func(Type) Type) ([]Type, bool) {
	var out []Type
	for i, t := range ts {
		mapped := f(t)
		if mapped != t && out == nil {
			out = make([]Type, len(ts))
			copy(out, ts[:i])
		}
		if out != nil {
			out[i] = mapped
		}
	}
	if out == nil {
		return ts, false
	}
	return out, true
}
