package types

import "unique"

// SymbolRef identifies a class, module, type member, method or alias in a SymbolTable
type SymbolRef uint32

const NoSymbol SymbolRef = 0

// Symbols holds the ids reserved for builtins.
// Every SymbolTable must register these symbols under exactly these ids.
var Symbols = struct {
	Top, Bottom, Untyped SymbolRef

	BasicObject, Object, Kernel, Comparable, Module, Class SymbolRef

	NilClass, TrueClass, FalseClass SymbolRef

	Numeric, Integer, Float, String, Symbol SymbolRef

	Array, Hash SymbolRef

	Proc, Proc0, Proc1, Proc2 SymbolRef

	Magic, T SymbolRef

	// type members of the generic builtins
	ArrayElem, HashKey, HashValue SymbolRef

	Proc0Return SymbolRef

	Proc1Return, Proc1Arg0 SymbolRef

	Proc2Return, Proc2Arg0, Proc2Arg1 SymbolRef
}{
	Top: 1, Bottom: 2, Untyped: 3,

	BasicObject: 4, Object: 5, Kernel: 6, Comparable: 7, Module: 8, Class: 9,
	NilClass: 10, TrueClass: 11, FalseClass: 12,
	Numeric: 13, Integer: 14, Float: 15, String: 16, Symbol: 17,
	Array: 18, Hash: 19,
	Proc: 20, Proc0: 21, Proc1: 22, Proc2: 23,
	Magic: 24, T: 25,

	ArrayElem: 26, HashKey: 27, HashValue: 28,
	Proc0Return: 29,
	Proc1Return: 30, Proc1Arg0: 31,
	Proc2Return: 32, Proc2Arg0: 33, Proc2Arg1: 34,
}

// BuiltinSymbolCount is one past the highest reserved id
const BuiltinSymbolCount = 35

func isSpecialClass(sym SymbolRef) bool {
	return sym == Symbols.Top || sym == Symbols.Bottom || sym == Symbols.Untyped
}

// NameRef is an interned method, member or field name. Two NameRefs are
// equal iff they were created from the same string.
type NameRef struct {
	h unique.Handle[string]
}

func Name(s string) NameRef {
	return NameRef{h: unique.Make(s)}
}

func (n NameRef) Exists() bool { return n != NameRef{} }

func (n NameRef) String() string {
	if !n.Exists() {
		return ""
	}
	return n.h.Value()
}

type ParamKind uint8

const (
	Required ParamKind = iota
	Optional
	Rest
)

type Param struct {
	Name NameRef
	Type Type
	Kind ParamKind
}

// MethodInfo is a looked-up method signature. Types inside it may refer to
// the owner's type members through LambdaParam and to TypeParams through SelfTypeParam.
type MethodInfo struct {
	Symbol     SymbolRef
	Owner      SymbolRef
	Name       NameRef
	TypeParams []SymbolRef
	Params     []Param
	// Result is nil when the method has no declared result type
	Result Type
	// Block is nil when the method does not take a block
	Block Type
}

// Arity returns the minimum and maximum number of positional arguments, max is -1 if unbounded
func (m *MethodInfo) Arity() (minArgs, maxArgs int) {
	for _, p := range m.Params {
		switch p.Kind {
		case Required:
			minArgs++
			maxArgs++
		case Optional:
			maxArgs++
		case Rest:
			return minArgs, -1
		}
	}
	return minArgs, maxArgs
}

// ParamFor returns the parameter the i-th positional argument binds to
func (m *MethodInfo) ParamFor(i int) (Param, bool) {
	if i < len(m.Params) && m.Params[i].Kind != Rest {
		return m.Params[i], true
	}
	for _, p := range m.Params {
		if p.Kind == Rest {
			return p, true
		}
	}
	return Param{}, false
}

// SymbolTable is the class hierarchy consulted by the lattice and dispatch code.
type SymbolTable interface {
	NameOf(sym SymbolRef) string
	IsModule(sym SymbolRef) bool
	// DerivesFrom reports whether parent is sub or one of its ancestors
	DerivesFrom(sub, parent SymbolRef) bool
	// Ancestors is the linearization of sym, starting with sym itself
	Ancestors(sym SymbolRef) []SymbolRef
	// Parents are the direct superclass and mixins of sym
	Parents(sym SymbolRef) []SymbolRef
	// ParentTypeArgs returns the type arguments sub passes to its direct parent,
	// written in terms of sub's own LambdaParams, if sub declared them
	ParentTypeArgs(sub, parent SymbolRef) ([]Type, bool)
	TypeMembers(sym SymbolRef) []SymbolRef
	Variance(member SymbolRef) Variance
	Owner(sym SymbolRef) SymbolRef
	// ParamBounds returns the declared bounds of a type member or method type parameter
	ParamBounds(param SymbolRef) (lower, upper Type)
	LookupMethod(klass SymbolRef, name NameRef) (*MethodInfo, bool)
	AliasTarget(sym SymbolRef) (Type, bool)
}
