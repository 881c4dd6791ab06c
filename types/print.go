package types

import (
	"fmt"
	"strings"
)

// Show renders t the way a programmer would write it in an annotation
func Show(ctx Context, t Type) string {
	return show(ctx.Symbols(), t)
}

func show(symbols SymbolTable, t Type) string {
	switch t := t.(type) {
	case nil:
		return "<nil>"
	case *ClassType:
		switch t.Symbol {
		case Symbols.Top:
			return "T.anything"
		case Symbols.Bottom:
			return "T.noreturn"
		case Symbols.Untyped:
			return "T.untyped"
		}
		return symbols.NameOf(t.Symbol)
	case *OrType:
		return showUnion(symbols, t.Branches())
	case *AndType:
		return "T.all(" + joinTypes(t.Conjuncts(), ", ", func(t Type) string { return show(symbols, t) }) + ")"
	case *LiteralType:
		return t.String()
	case *ShapeType:
		if len(t.Keys) == 0 {
			return "{}"
		}
		parts := make([]string, len(t.Keys))
		for i, k := range t.Keys {
			if k.lit == LitSymbol && isIdent(k.name.String()) {
				parts[i] = k.name.String() + ": " + show(symbols, t.Values[i])
			} else {
				parts[i] = k.Value() + " => " + show(symbols, t.Values[i])
			}
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *TupleType:
		return "[" + joinTypes(t.Elems, ", ", func(t Type) string { return show(symbols, t) }) + "]"
	case *AppliedType:
		return showApplied(symbols, t)
	case *MagicType:
		return "<Magic>"
	case *MetaType:
		return "<Type: " + show(symbols, t.Wrapped) + ">"
	case *LambdaParam:
		return symbols.NameOf(t.Definition)
	case *SelfTypeParam:
		return "T.type_parameter(:" + symbols.NameOf(t.Definition) + ")"
	case *TypeVar:
		return "T.type_parameter(:" + t.Name.String() + ")"
	case *AliasType:
		return symbols.NameOf(t.Symbol)
	}
	return t.String()
}

func showUnion(symbols SymbolTable, branches []Type) string {
	var nilable, hasTrue, hasFalse bool
	rest := make([]Type, 0, len(branches))
	for _, b := range branches {
		if c, ok := b.(*ClassType); ok {
			switch c.Symbol {
			case Symbols.NilClass:
				nilable = true
				continue
			case Symbols.TrueClass:
				hasTrue = true
			case Symbols.FalseClass:
				hasFalse = true
			}
		}
		rest = append(rest, b)
	}
	parts := make([]string, 0, len(rest))
	for _, b := range rest {
		if c, ok := b.(*ClassType); ok && hasTrue && hasFalse {
			if c.Symbol == Symbols.TrueClass {
				parts = append(parts, "T::Boolean")
				continue
			}
			if c.Symbol == Symbols.FalseClass {
				continue
			}
		}
		parts = append(parts, show(symbols, b))
	}
	var inner string
	switch len(parts) {
	case 0:
		return "NilClass"
	case 1:
		inner = parts[0]
	default:
		inner = "T.any(" + strings.Join(parts, ", ") + ")"
	}
	if nilable {
		return "T.nilable(" + inner + ")"
	}
	return inner
}

func showApplied(symbols SymbolTable, t *AppliedType) string {
	args := func(ts []Type) string {
		return joinTypes(ts, ", ", func(t Type) string { return show(symbols, t) })
	}
	switch t.Klass {
	case Symbols.Array:
		return "T::Array[" + args(t.Targs) + "]"
	case Symbols.Hash:
		return "T::Hash[" + args(t.Targs) + "]"
	case Symbols.Proc0, Symbols.Proc1, Symbols.Proc2:
		if len(t.Targs) == 0 {
			break
		}
		sb := strings.Builder{}
		sb.WriteString("T.proc")
		if len(t.Targs) > 1 {
			sb.WriteString(".params(")
			for i, p := range t.Targs[1:] {
				if i > 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "arg%d: %s", i, show(symbols, p))
			}
			sb.WriteString(")")
		}
		sb.WriteString(".returns(" + show(symbols, t.Targs[0]) + ")")
		return sb.String()
	}
	return symbols.NameOf(t.Klass) + "[" + args(t.Targs) + "]"
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
		if !isLetter && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// DebugString renders the full node tree of t, one node per line, indented by tabs
func DebugString(ctx Context, t Type, tabs int) string {
	sb := &strings.Builder{}
	debugString(ctx, sb, t, tabs)
	return sb.String()
}

func debugString(ctx Context, sb *strings.Builder, t Type, tabs int) {
	symbols := ctx.Symbols()
	indent := strings.Repeat("\t", tabs)
	open := func(header string, fields ...func()) {
		sb.WriteString(header + " {\n")
		for _, f := range fields {
			f()
		}
		sb.WriteString(indent + "}")
	}
	field := func(name string, child Type) func() {
		return func() {
			sb.WriteString(indent + "\t" + name + " = ")
			debugString(ctx, sb, child, tabs+1)
			sb.WriteString("\n")
		}
	}
	list := func(prefix string, ts []Type) []func() {
		fields := make([]func(), len(ts))
		for i, child := range ts {
			fields[i] = field(fmt.Sprintf("%s%d", prefix, i), child)
		}
		return fields
	}

	switch t := t.(type) {
	case *ClassType:
		sb.WriteString("ClassType(" + show(symbols, t) + ")")
	case *OrType:
		open("OrType", field("left", t.left), field("right", t.right))
	case *AndType:
		open("AndType", field("left", t.left), field("right", t.right))
	case *AppliedType:
		open("AppliedType("+symbols.NameOf(t.Klass)+")", list("targ", t.Targs)...)
	case *TupleType:
		open("TupleType", list("elem", t.Elems)...)
	case *ShapeType:
		fields := make([]func(), len(t.Keys))
		for i, k := range t.Keys {
			fields[i] = field(k.Value(), t.Values[i])
		}
		open("ShapeType", fields...)
	case *MetaType:
		open("MetaType", field("wrapped", t.Wrapped))
	case *TypeVar:
		if inst, ok := ctx.view().instantiation(t); ok {
			open(t.String(), field("instantiation", inst))
			return
		}
		st, _ := ctx.view().state(t.ID)
		var fields []func()
		if st != nil {
			fields = append(list("upper", st.upper), list("lower", st.lower)...)
		}
		open(t.String(), fields...)
	case *LambdaParam:
		sb.WriteString("LambdaParam(" + show(symbols, t) + ")")
	case *SelfTypeParam:
		sb.WriteString("SelfTypeParam(" + symbols.NameOf(t.Definition) + ")")
	case *AliasType:
		sb.WriteString("AliasType(" + symbols.NameOf(t.Symbol) + ")")
	default:
		sb.WriteString(t.String())
	}
}
