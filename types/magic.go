package types

import (
	"github.com/cottand/gradual/typerr"
)

// Methods the desugarer calls on the Magic receiver
const (
	MagicBuildArray        = "<build-array>"
	MagicBuildHash         = "<build-hash>"
	MagicSplat             = "<splat>"
	MagicDefined           = "<defined>"
	MagicStringInterpolate = "<string-interpolate>"
)

func dispatchMagic(ctx Context, args CallArgs) DispatchResult {
	fillBlock(args.Block, Untyped)
	switch args.Name.String() {
	case MagicBuildArray:
		elems := make([]Type, len(args.Args))
		for i, arg := range args.Args {
			elems[i] = arg.Type
		}
		return DispatchResult{Type: Tuple(elems...)}

	case MagicBuildHash:
		return DispatchResult{Type: buildHash(ctx, args.Args)}

	case MagicSplat:
		Enforce(ctx, len(args.Args) == 1, "%s takes exactly 1 argument, got %d", MagicSplat, len(args.Args))
		if len(args.Args) != 1 {
			return DispatchResult{Type: ArrayOfUntyped}
		}
		switch arg := dealias(ctx, args.Args[0].Type).(type) {
		case *TupleType:
			return DispatchResult{Type: arg}
		case *AppliedType:
			if arg.Klass == Symbols.Array {
				return DispatchResult{Type: arg}
			}
		}
		return DispatchResult{Type: ArrayOfUntyped}

	case MagicDefined:
		return DispatchResult{Type: Lub(ctx, Nil, String)}

	case MagicStringInterpolate:
		return DispatchResult{Type: String}
	}
	return failedDispatch((*typerr.Errors)(nil).With(typerr.New(typerr.NewMagicMisuse{
		At:     args.CallLoc,
		Method: args.Name.String(),
	})))
}

// buildHash types a hash literal from its alternating keys and values.
// It is a shape when every key is a literal.
func buildHash(ctx Context, kvs []TypeAndOrigins) Type {
	Enforce(ctx, len(kvs)%2 == 0, "%s takes key value pairs, got %d arguments", MagicBuildHash, len(kvs))
	if len(kvs) == 0 {
		return Shape(nil, nil)
	}
	var keys []*LiteralType
	var values []Type
	allLiteral := true
	for i := 0; i+1 < len(kvs); i += 2 {
		lit, ok := dealias(ctx, kvs[i].Type).(*LiteralType)
		if !ok {
			allLiteral = false
			break
		}
		value := kvs[i+1].Type
		replaced := false
		for j, existing := range keys {
			if existing.Equal(lit) {
				// later entries win, as in the literal itself
				values[j] = value
				replaced = true
			}
		}
		if !replaced {
			keys = append(keys, lit)
			values = append(values, value)
		}
	}
	if allLiteral {
		return Shape(keys, values)
	}
	keyType, valueType := Bottom, Bottom
	for i := 0; i+1 < len(kvs); i += 2 {
		keyType = Lub(ctx, keyType, widenLiteral(kvs[i].Type))
		valueType = Lub(ctx, valueType, kvs[i+1].Type)
	}
	return HashOf(keyType, valueType)
}

func widenLiteral(t Type) Type {
	if lit, ok := t.(*LiteralType); ok {
		return Class(lit.Underlying())
	}
	return t
}
