package types

import (
	"fmt"

	"github.com/cottand/gradual/typerr"
)

type intrinsicFunc func(ctx Context, args CallArgs) DispatchResult

type intrinsic struct {
	owner SymbolRef
	fn    intrinsicFunc
}

// intrinsics are methods whose result cannot be written as a signature.
// They are looked up by name and apply to receivers deriving from owner.
var intrinsics = map[string][]intrinsic{
	"must":    {{owner: Symbols.T, fn: tMust}},
	"unsafe":  {{owner: Symbols.T, fn: tUnsafe}},
	"let":     {{owner: Symbols.T, fn: tLetOrCast(true)}},
	"cast":    {{owner: Symbols.T, fn: tLetOrCast(false)}},
	"nilable": {{owner: Symbols.T, fn: tNilable}},
	"any":     {{owner: Symbols.T, fn: tCombine("T.any", Lub)}},
	"all":     {{owner: Symbols.T, fn: tCombine("T.all", Glb)}},
	"untyped": {{owner: Symbols.T, fn: tUntyped}},
	"itself":  {{owner: Symbols.Object, fn: selfResult}},
	"freeze":  {{owner: Symbols.Object, fn: selfResult}},
	"dup":     {{owner: Symbols.Object, fn: selfResult}},
}

func findIntrinsic(ctx Context, sym SymbolRef, name NameRef) (intrinsicFunc, bool) {
	for _, candidate := range intrinsics[name.String()] {
		if ctx.Symbols().DerivesFrom(sym, candidate.owner) {
			return candidate.fn, true
		}
	}
	return nil, false
}

func misuse(args CallArgs, format string, a ...any) DispatchResult {
	fillBlock(args.Block, Untyped)
	return DispatchResult{
		Type: Untyped,
		Errors: (*typerr.Errors)(nil).With(typerr.New(typerr.NewIntrinsicMisuse{
			At:      args.CallLoc,
			Method:  args.Name.String(),
			Problem: fmt.Sprintf(format, a...),
		})),
	}
}

func simpleResult(args CallArgs, t Type) DispatchResult {
	fillBlock(args.Block, Untyped)
	return DispatchResult{Type: t}
}

// metaArg returns the type wrapped by the i-th argument, which must be a type used as a value
func metaArg(ctx Context, args CallArgs, i int) (Type, bool) {
	if i >= len(args.Args) {
		return nil, false
	}
	meta, ok := dealias(ctx, args.Args[i].Type).(*MetaType)
	if !ok {
		return nil, false
	}
	return meta.Wrapped, true
}

func tMust(ctx Context, args CallArgs) DispatchResult {
	if len(args.Args) != 1 {
		return misuse(args, "expected 1 argument, got %d", len(args.Args))
	}
	return simpleResult(args, DropSubtypesOf(ctx, args.Args[0].Type, Symbols.NilClass))
}

func tUnsafe(ctx Context, args CallArgs) DispatchResult {
	if len(args.Args) != 1 {
		return misuse(args, "expected 1 argument, got %d", len(args.Args))
	}
	return simpleResult(args, Untyped)
}

// tLetOrCast types T.let(value, Type) and T.cast(value, Type). Only T.let checks the value.
func tLetOrCast(checked bool) intrinsicFunc {
	return func(ctx Context, args CallArgs) DispatchResult {
		if len(args.Args) != 2 {
			return misuse(args, "expected 2 arguments, got %d", len(args.Args))
		}
		target, ok := metaArg(ctx, args, 1)
		if !ok {
			return misuse(args, "the second argument must be a type, got `%s`", Show(ctx, args.Args[1].Type))
		}
		res := simpleResult(args, target)
		if value := args.Args[0]; checked && !IsSubType(ctx, value.Type, target) {
			at := value.Loc()
			if !at.Exists() {
				at = args.CallLoc
			}
			res.Errors = res.Errors.With(typerr.New(typerr.NewArgumentMismatch{
				At:       at,
				Method:   args.Name.String(),
				Index:    0,
				Expected: Show(ctx, target),
				Got:      Show(ctx, value.Type),
			}))
		}
		return res
	}
}

func tNilable(ctx Context, args CallArgs) DispatchResult {
	if len(args.Args) != 1 {
		return misuse(args, "expected 1 argument, got %d", len(args.Args))
	}
	wrapped, ok := metaArg(ctx, args, 0)
	if !ok {
		return misuse(args, "the argument must be a type, got `%s`", Show(ctx, args.Args[0].Type))
	}
	return simpleResult(args, Meta(Lub(ctx, Nil, wrapped)))
}

func tCombine(name string, combine func(Context, Type, Type) Type) intrinsicFunc {
	return func(ctx Context, args CallArgs) DispatchResult {
		if len(args.Args) < 2 {
			return misuse(args, "%s needs at least 2 types, got %d", name, len(args.Args))
		}
		var acc Type
		for i := range args.Args {
			wrapped, ok := metaArg(ctx, args, i)
			if !ok {
				return misuse(args, "argument %d must be a type, got `%s`", i, Show(ctx, args.Args[i].Type))
			}
			if acc == nil {
				acc = wrapped
				continue
			}
			acc = combine(ctx, acc, wrapped)
		}
		return simpleResult(args, Meta(acc))
	}
}

func tUntyped(ctx Context, args CallArgs) DispatchResult {
	if len(args.Args) != 0 {
		return misuse(args, "expected no arguments, got %d", len(args.Args))
	}
	return simpleResult(args, Meta(Untyped))
}

func selfResult(ctx Context, args CallArgs) DispatchResult {
	if len(args.Args) != 0 {
		return misuse(args, "expected no arguments, got %d", len(args.Args))
	}
	return simpleResult(args, args.SelfType)
}
