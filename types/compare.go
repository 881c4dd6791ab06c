package types

import (
	"cmp"
	"strings"
)

// compareTypes is a total structural order over types. Canonical unions and
// intersections list their members in this order, and two types compare
// equal iff they are structurally identical.
func compareTypes(a, b Type) int {
	if a == b {
		return 0
	}
	if c := cmp.Compare(a.Kind(), b.Kind()); c != 0 {
		return c
	}
	switch a := a.(type) {
	case *ClassType:
		return cmp.Compare(a.Symbol, b.(*ClassType).Symbol)
	case *LiteralType:
		return compareLiterals(a, b.(*LiteralType))
	case *AppliedType:
		b := b.(*AppliedType)
		if c := cmp.Compare(a.Klass, b.Klass); c != 0 {
			return c
		}
		return compareTypeLists(a.Targs, b.Targs)
	case *TupleType:
		return compareTypeLists(a.Elems, b.(*TupleType).Elems)
	case *ShapeType:
		b := b.(*ShapeType)
		if c := cmp.Compare(len(a.Keys), len(b.Keys)); c != 0 {
			return c
		}
		for i := range a.Keys {
			if c := compareLiterals(a.Keys[i], b.Keys[i]); c != 0 {
				return c
			}
		}
		return compareTypeLists(a.Values, b.Values)
	case *MetaType:
		return compareTypes(a.Wrapped, b.(*MetaType).Wrapped)
	case *MagicType:
		return 0
	case *LambdaParam:
		return cmp.Compare(a.Definition, b.(*LambdaParam).Definition)
	case *SelfTypeParam:
		return cmp.Compare(a.Definition, b.(*SelfTypeParam).Definition)
	case *TypeVar:
		b := b.(*TypeVar)
		if c := cmp.Compare(a.episode, b.episode); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	case *AliasType:
		return cmp.Compare(a.Symbol, b.(*AliasType).Symbol)
	case *AndType:
		return compareTypeLists(a.Conjuncts(), b.(*AndType).Conjuncts())
	case *OrType:
		return compareTypeLists(a.Branches(), b.(*OrType).Branches())
	}
	panic("unknown type kind " + a.Kind().String())
}

func compareLiterals(a, b *LiteralType) int {
	if c := cmp.Compare(a.lit, b.lit); c != 0 {
		return c
	}
	switch a.lit {
	case LitInteger:
		return cmp.Compare(a.i, b.i)
	case LitFloat:
		return cmp.Compare(a.f, b.f)
	case LitSymbol, LitString:
		return strings.Compare(a.name.String(), b.name.String())
	}
	return 0
}

func compareTypeLists(a, b []Type) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	for i := range a {
		if c := compareTypes(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Identical reports structural identity, which is stricter than Equiv
func Identical(a, b Type) bool {
	return compareTypes(a, b) == 0
}

// byTypeOrder sorts with compareTypes, for use with sort.Sort and xtgo/set
type byTypeOrder []Type

func (s byTypeOrder) Len() int           { return len(s) }
func (s byTypeOrder) Less(i, j int) bool { return compareTypes(s[i], s[j]) < 0 }
func (s byTypeOrder) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
