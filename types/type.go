package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the discriminant of a Type. The declaration order is also the
// order in which kinds sort inside a canonical union or intersection.
type Kind uint8

const (
	KindClass Kind = iota
	KindLiteral
	KindApplied
	KindTuple
	KindShape
	KindMeta
	KindMagic
	KindLambdaParam
	KindSelfTypeParam
	KindTypeVar
	KindAlias
	KindAnd
	KindOr
)

var kindNames = [...]string{
	KindClass:         "class",
	KindLiteral:       "literal",
	KindApplied:       "applied",
	KindTuple:         "tuple",
	KindShape:         "shape",
	KindMeta:          "meta",
	KindMagic:         "magic",
	KindLambdaParam:   "lambda_param",
	KindSelfTypeParam: "self_type_param",
	KindTypeVar:       "type_var",
	KindAlias:         "alias",
	KindAnd:           "and",
	KindOr:            "or",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Type is an immutable node of the type graph.
// The set of implementations is closed: switch on Kind or on the concrete type.
//
// String returns a debug form that does not need a SymbolTable; see Show for
// the form a programmer would write.
type Type interface {
	fmt.Stringer
	Kind() Kind
	isType()
}

var (
	_ Type = (*ClassType)(nil)
	_ Type = (*OrType)(nil)
	_ Type = (*AndType)(nil)
	_ Type = (*LiteralType)(nil)
	_ Type = (*ShapeType)(nil)
	_ Type = (*TupleType)(nil)
	_ Type = (*AppliedType)(nil)
	_ Type = (*MagicType)(nil)
	_ Type = (*TypeVar)(nil)
	_ Type = (*MetaType)(nil)
	_ Type = (*LambdaParam)(nil)
	_ Type = (*SelfTypeParam)(nil)
	_ Type = (*AliasType)(nil)
)

// ClassType is a nominal reference to a class or module.
// Top, bottom and untyped are ClassTypes over reserved symbols.
type ClassType struct {
	Symbol SymbolRef
}

func Class(sym SymbolRef) *ClassType {
	switch sym {
	case Symbols.Top:
		return topInstance
	case Symbols.Bottom:
		return bottomInstance
	case Symbols.Untyped:
		return untypedInstance
	}
	return &ClassType{Symbol: sym}
}

func (t *ClassType) Kind() Kind { return KindClass }
func (*ClassType) isType() {}
func (t *ClassType) String() string {
	switch t.Symbol {
	case Symbols.Top:
		return "<top>"
	case Symbols.Bottom:
		return "<bottom>"
	case Symbols.Untyped:
		return "<untyped>"
	}
	return "#" + strconv.Itoa(int(t.Symbol))
}

// OrType is a union. Values are only produced by Lub and BuildOr.
type OrType struct {
	left, right Type
}

func (t *OrType) Left() Type { return t.left }
func (t *OrType) Right() Type { return t.right }
func (t *OrType) Kind() Kind { return KindOr }
func (*OrType) isType() {}
func (t *OrType) String() string {
	return "Or(" + t.left.String() + ", " + t.right.String() + ")"
}

// Branches returns the flattened members of the union
func (t *OrType) Branches() []Type {
	return flattenOr(t, nil)
}

// AndType is an intersection. Values are only produced by Glb and BuildAnd.
type AndType struct {
	left, right Type
}

func (t *AndType) Left() Type { return t.left }
func (t *AndType) Right() Type { return t.right }
func (t *AndType) Kind() Kind { return KindAnd }
func (*AndType) isType() {}
func (t *AndType) String() string {
	return "And(" + t.left.String() + ", " + t.right.String() + ")"
}

// Conjuncts returns the flattened members of the intersection
func (t *AndType) Conjuncts() []Type {
	return flattenAnd(t, nil)
}

func flattenOr(t Type, into []Type) []Type {
	if or, ok := t.(*OrType); ok {
		into = flattenOr(or.left, into)
		return flattenOr(or.right, into)
	}
	return append(into, t)
}

func flattenAnd(t Type, into []Type) []Type {
	if and, ok := t.(*AndType); ok {
		into = flattenAnd(and.left, into)
		return flattenAnd(and.right, into)
	}
	return append(into, t)
}

type LiteralKind uint8

const (
	LitInteger LiteralKind = iota
	LitFloat
	LitSymbol
	LitString
	LitTrue
	LitFalse
)

// LiteralType is the singleton type of one value
type LiteralType struct {
	lit  LiteralKind
	i    int64
	f    float64
	name NameRef
}

func IntegerLiteral(v int64) *LiteralType { return &LiteralType{lit: LitInteger, i: v} }
func FloatLiteral(v float64) *LiteralType { return &LiteralType{lit: LitFloat, f: v} }
func SymbolLiteral(v string) *LiteralType { return &LiteralType{lit: LitSymbol, name: Name(v)} }
func StringLiteral(v string) *LiteralType { return &LiteralType{lit: LitString, name: Name(v)} }
func BoolLiteral(v bool) *LiteralType {
	if v {
		return trueLiteral
	}
	return falseLiteral
}

func (t *LiteralType) Kind() Kind { return KindLiteral }
func (*LiteralType) isType() {}
func (t *LiteralType) LiteralKind() LiteralKind { return t.lit }
func (t *LiteralType) IntValue() int64 { return t.i }
func (t *LiteralType) FloatValue() float64 { return t.f }
func (t *LiteralType) NameValue() NameRef { return t.name }

// Underlying is the class every value of this literal belongs to
func (t *LiteralType) Underlying() SymbolRef {
	switch t.lit {
	case LitInteger:
		return Symbols.Integer
	case LitFloat:
		return Symbols.Float
	case LitSymbol:
		return Symbols.Symbol
	case LitString:
		return Symbols.String
	case LitTrue:
		return Symbols.TrueClass
	default:
		return Symbols.FalseClass
	}
}

// Equal compares class and value
func (t *LiteralType) Equal(other *LiteralType) bool {
	return t.lit == other.lit && t.i == other.i && t.f == other.f && t.name == other.name
}

// Value renders the literal as source, e.g. 1, :a or "x"
func (t *LiteralType) Value() string {
	switch t.lit {
	case LitInteger:
		return strconv.FormatInt(t.i, 10)
	case LitFloat:
		return strconv.FormatFloat(t.f, 'g', -1, 64)
	case LitSymbol:
		if !isIdent(t.name.String()) {
			return ":" + strconv.Quote(t.name.String())
		}
		return ":" + t.name.String()
	case LitString:
		return strconv.Quote(t.name.String())
	case LitTrue:
		return "true"
	default:
		return "false"
	}
}

func (t *LiteralType) String() string {
	switch t.lit {
	case LitInteger:
		return "Integer(" + t.Value() + ")"
	case LitFloat:
		return "Float(" + t.Value() + ")"
	case LitSymbol:
		return "Symbol(" + t.Value() + ")"
	case LitString:
		return "String(" + t.Value() + ")"
	case LitTrue:
		return "TrueClass"
	default:
		return "FalseClass"
	}
}

// ShapeType is a record keyed by literals. Keys and Values are parallel slices.
type ShapeType struct {
	Keys   []*LiteralType
	Values []Type
}

func Shape(keys []*LiteralType, values []Type) *ShapeType {
	return &ShapeType{Keys: keys, Values: values}
}

func (t *ShapeType) Kind() Kind { return KindShape }
func (*ShapeType) isType() {}
func (t *ShapeType) String() string {
	sb := strings.Builder{}
	sb.WriteString("{")
	for i, k := range t.Keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k.Value())
		sb.WriteString(" => ")
		if i < len(t.Values) {
			sb.WriteString(t.Values[i].String())
		}
	}
	sb.WriteString("}")
	return sb.String()
}

// Lookup returns the value type for key
func (t *ShapeType) Lookup(key *LiteralType) (Type, bool) {
	for i, k := range t.Keys {
		if k.Equal(key) {
			return t.Values[i], true
		}
	}
	return nil, false
}

type TupleType struct {
	Elems []Type
}

func Tuple(elems ...Type) *TupleType {
	return &TupleType{Elems: elems}
}

func (t *TupleType) Kind() Kind { return KindTuple }
func (*TupleType) isType() {}
func (t *TupleType) String() string {
	return "[" + joinTypes(t.Elems, ", ", Type.String) + "]"
}

// AppliedType is a generic class with one argument per declared type member
type AppliedType struct {
	Klass SymbolRef
	Targs []Type
}

func Applied(klass SymbolRef, targs ...Type) *AppliedType {
	return &AppliedType{Klass: klass, Targs: targs}
}

func (t *AppliedType) Kind() Kind { return KindApplied }
func (*AppliedType) isType() {}
func (t *AppliedType) String() string {
	return "#" + strconv.Itoa(int(t.Klass)) + "[" + joinTypes(t.Targs, ", ", Type.String) + "]"
}

// MagicType is the receiver of desugared pseudo-calls. It cannot be written by users.
type MagicType struct{}

func (t *MagicType) Kind() Kind { return KindMagic }
func (*MagicType) isType() {}
func (t *MagicType) String() string { return "<Magic>" }

// MetaType is the type of a type used as a value
type MetaType struct {
	Wrapped Type
}

func Meta(wrapped Type) *MetaType { return &MetaType{Wrapped: wrapped} }

func (t *MetaType) Kind() Kind { return KindMeta }
func (*MetaType) isType() {}
func (t *MetaType) String() string { return "<Type: " + t.Wrapped.String() + ">" }

// LambdaParam stands for a class type member inside signatures of that class
type LambdaParam struct {
	Definition SymbolRef
}

func (t *LambdaParam) Kind() Kind { return KindLambdaParam }
func (*LambdaParam) isType() {}
func (t *LambdaParam) String() string {
	return "LambdaParam(#" + strconv.Itoa(int(t.Definition)) + ")"
}

// SelfTypeParam stands for a method type parameter inside that method's signature
type SelfTypeParam struct {
	Definition SymbolRef
}

func (t *SelfTypeParam) Kind() Kind { return KindSelfTypeParam }
func (*SelfTypeParam) isType() {}
func (t *SelfTypeParam) String() string {
	return "SelfTypeParam(#" + strconv.Itoa(int(t.Definition)) + ")"
}

// AliasType refers to the type another symbol stands for, resolved through the SymbolTable
type AliasType struct {
	Symbol SymbolRef
}

func Alias(sym SymbolRef) *AliasType { return &AliasType{Symbol: sym} }

func (t *AliasType) Kind() Kind { return KindAlias }
func (*AliasType) isType() {}
func (t *AliasType) String() string {
	return "Alias(#" + strconv.Itoa(int(t.Symbol)) + ")"
}

type TypeVarID uint32

// TypeVar is an inference variable. Its bounds and instantiation live in the
// ConstraintStore of the episode that created it, keyed by ID.
type TypeVar struct {
	ID      TypeVarID
	Name    NameRef
	episode uint64
}

func (t *TypeVar) Kind() Kind { return KindTypeVar }
func (*TypeVar) isType() {}
func (t *TypeVar) String() string {
	return "TypeVar(" + t.Name.String() + "#" + strconv.Itoa(int(t.ID)) + ")"
}

func joinTypes(ts []Type, sep string, f func(Type) string) string {
	strs := make([]string, len(ts))
	for i, t := range ts {
		strs[i] = f(t)
	}
	return strings.Join(strs, sep)
}
