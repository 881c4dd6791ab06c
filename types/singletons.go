package types

var (
	topInstance     = &ClassType{Symbol: Symbols.Top}
	bottomInstance  = &ClassType{Symbol: Symbols.Bottom}
	untypedInstance = &ClassType{Symbol: Symbols.Untyped}

	trueLiteral  = &LiteralType{lit: LitTrue}
	falseLiteral = &LiteralType{lit: LitFalse}

	magicInstance = &MagicType{}
)

// Canonical singletons. They are shared and must be treated as immutable like every other Type.
var (
	Top     Type = topInstance
	Bottom  Type = bottomInstance
	Untyped Type = untypedInstance

	Nil        Type = &ClassType{Symbol: Symbols.NilClass}
	TrueClass  Type = &ClassType{Symbol: Symbols.TrueClass}
	FalseClass Type = &ClassType{Symbol: Symbols.FalseClass}
	Boolean    Type = &OrType{left: TrueClass, right: FalseClass}

	Integer Type = &ClassType{Symbol: Symbols.Integer}
	Float   Type = &ClassType{Symbol: Symbols.Float}
	String  Type = &ClassType{Symbol: Symbols.String}
	Symbol  Type = &ClassType{Symbol: Symbols.Symbol}
	Object  Type = &ClassType{Symbol: Symbols.Object}

	ArrayClass Type = &ClassType{Symbol: Symbols.Array}
	HashClass  Type = &ClassType{Symbol: Symbols.Hash}
	ProcClass  Type = &ClassType{Symbol: Symbols.Proc}
	ClassClass Type = &ClassType{Symbol: Symbols.Class}

	ArrayOfUntyped Type = &AppliedType{Klass: Symbols.Array, Targs: []Type{untypedInstance}}
	HashOfUntyped  Type = &AppliedType{Klass: Symbols.Hash, Targs: []Type{untypedInstance, untypedInstance}}

	// FalsyTypes is nil|false, the set of values a condition treats as false
	FalsyTypes Type = &OrType{left: Nil, right: FalseClass}

	Magic Type = magicInstance
)

func IsUntyped(t Type) bool {
	c, ok := t.(*ClassType)
	return ok && c.Symbol == Symbols.Untyped
}

func IsTop(t Type) bool {
	c, ok := t.(*ClassType)
	return ok && c.Symbol == Symbols.Top
}

func IsBottom(t Type) bool {
	c, ok := t.(*ClassType)
	return ok && c.Symbol == Symbols.Bottom
}

// ArrayOf returns T::Array[elem]
func ArrayOf(elem Type) Type {
	return &AppliedType{Klass: Symbols.Array, Targs: []Type{elem}}
}

// HashOf returns T::Hash[key, value]
func HashOf(key, value Type) Type {
	return &AppliedType{Klass: Symbols.Hash, Targs: []Type{key, value}}
}

// ProcOf returns the proc type taking params and returning result. Only arities up to 2 are supported.
func ProcOf(result Type, params ...Type) (Type, bool) {
	switch len(params) {
	case 0:
		return &AppliedType{Klass: Symbols.Proc0, Targs: []Type{result}}, true
	case 1:
		return &AppliedType{Klass: Symbols.Proc1, Targs: []Type{result, params[0]}}, true
	case 2:
		return &AppliedType{Klass: Symbols.Proc2, Targs: []Type{result, params[0], params[1]}}, true
	}
	return nil, false
}
