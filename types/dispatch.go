package types

import (
	"context"
	"fmt"

	"github.com/cottand/gradual/internal/log"
	"github.com/cottand/gradual/source"
	"github.com/cottand/gradual/typerr"
)

// CallArgs describes one call site
type CallArgs struct {
	Name    NameRef
	CallLoc source.Loc
	Args    []TypeAndOrigins
	// SelfType is the type of the receiver as written at the call site,
	// it defaults to the receiver being dispatched on
	SelfType Type
	// FullType is the whole receiver type, used in messages when dispatching on one of its parts
	FullType Type
	// Block is nil if no block is passed. Otherwise it may point to the type of
	// the passed block, which is checked against the expected one, and it is
	// overwritten with the block type the method expects.
	Block *Type
}

type DispatchResult struct {
	Type   Type
	Errors *typerr.Errors
	// Method is the signature the call resolved to, nil for intrinsics,
	// structural operations and unions
	Method *MethodInfo
	failed bool
}

// Failed reports whether no method could be found. Type is then T.untyped.
func (r DispatchResult) Failed() bool { return r.failed }

func failedDispatch(errs *typerr.Errors) DispatchResult {
	return DispatchResult{Type: Untyped, Errors: errs, failed: true}
}

// DispatchCall resolves a call of args.Name on a value of type recv
func DispatchCall(ctx Context, recv Type, args CallArgs) DispatchResult {
	if args.FullType == nil {
		args.FullType = recv
	}
	if args.SelfType == nil {
		args.SelfType = recv
	}
	ctx.options().Metrics.RecordDispatch(context.Background(), recv.Kind().String())
	res := dispatch(ctx, recv, args)
	ctx.Logger().Debug("dispatched call",
		"section", log.SectionDispatch,
		"method", args.Name.String(),
		"receiver", args.FullType,
		"result", res.Type,
		"failed", res.failed,
	)
	return res
}

func dispatch(ctx Context, recv Type, args CallArgs) DispatchResult {
	recv = dealias(ctx, recv)
	switch r := recv.(type) {
	case *ClassType:
		return dispatchClass(ctx, r.Symbol, nil, args)
	case *AppliedType:
		return dispatchClass(ctx, r.Klass, r.Targs, args)
	case *LiteralType:
		return dispatchClass(ctx, r.Underlying(), nil, args)
	case *OrType:
		return dispatchOr(ctx, r, args)
	case *AndType:
		return dispatchAnd(ctx, r, args)
	case *TupleType:
		return dispatchTuple(ctx, r, args)
	case *ShapeType:
		return dispatchShape(ctx, r, args)
	case *MagicType:
		return dispatchMagic(ctx, args)
	case *MetaType:
		if args.Name.String() == "new" {
			fillBlock(args.Block, Untyped)
			return DispatchResult{Type: r.Wrapped}
		}
		return dispatch(ctx, Object, args)
	case *TypeVar:
		return dispatchTypeVar(ctx, r, args)
	case *LambdaParam:
		return dispatchParam(ctx, r.Definition, args)
	case *SelfTypeParam:
		return dispatchParam(ctx, r.Definition, args)
	}
	Enforce(ctx, false, "cannot dispatch on %s", recv)
	return failedDispatch(nil)
}

func fillBlock(slot *Type, t Type) {
	if slot != nil {
		*slot = t
	}
}

func dispatchParam(ctx Context, def SymbolRef, args CallArgs) DispatchResult {
	_, upper := ctx.Symbols().ParamBounds(def)
	if upper == nil {
		upper = Top
	}
	return dispatch(ctx, upper, args)
}

// dispatchTypeVar defers the call until the variable is solved
func dispatchTypeVar(ctx Context, tv *TypeVar, args CallArgs) DispatchResult {
	if store := ctx.store(); store != nil {
		store.addCall(tv, PendingCall{Name: args.Name, Loc: args.CallLoc, Args: args.Args})
	}
	fillBlock(args.Block, Untyped)
	return DispatchResult{Type: Untyped}
}

func dispatchClass(ctx Context, sym SymbolRef, targs []Type, args CallArgs) DispatchResult {
	switch sym {
	case Symbols.Untyped:
		fillBlock(args.Block, Untyped)
		return DispatchResult{Type: Untyped}
	case Symbols.Bottom:
		fillBlock(args.Block, Untyped)
		return DispatchResult{Type: Bottom}
	case Symbols.Top:
		return failedDispatch((*typerr.Errors)(nil).With(typerr.New(typerr.NewNoMethodsOnTop{
			At:     args.CallLoc,
			Method: args.Name.String(),
		})))
	}
	symbols := ctx.Symbols()
	if intrinsic, ok := findIntrinsic(ctx, sym, args.Name); ok {
		return intrinsic(ctx, args)
	}
	method, ok := symbols.LookupMethod(sym, args.Name)
	if !ok {
		return failedDispatch((*typerr.Errors)(nil).With(typerr.New(typerr.NewUnknownMethod{
			At:       args.CallLoc,
			Method:   args.Name.String(),
			Receiver: Show(ctx, args.FullType),
		})))
	}
	return applyMethod(ctx, method, sym, targs, args)
}

// applyMethod checks the arguments of a call against method and computes its result
func applyMethod(ctx Context, method *MethodInfo, sym SymbolRef, targs []Type, args CallArgs) DispatchResult {
	var errs *typerr.Errors
	minArgs, maxArgs := method.Arity()
	if len(args.Args) < minArgs || maxArgs >= 0 && len(args.Args) > maxArgs {
		errs = errs.With(typerr.New(typerr.NewArgumentCount{
			At:       args.CallLoc,
			Method:   args.Name.String(),
			Expected: arityString(minArgs, maxArgs),
			Got:      len(args.Args),
		}))
	}

	// method type parameters become fresh inference variables of this episode
	vars := make([]*TypeVar, len(method.TypeParams))
	methodTargs := make([]Type, len(method.TypeParams))
	for i, tp := range method.TypeParams {
		methodTargs[i] = Untyped
		if store := ctx.store(); store != nil {
			vars[i] = store.newTypeVar(Name(ctx.Symbols().NameOf(tp)))
			methodTargs[i] = vars[i]
		}
	}
	seenFrom := func(t Type, methodTargs []Type) Type {
		t = TypeAsSeenFrom(ctx, t, method.Owner, sym, targs)
		return Instantiate(ctx, t, method.TypeParams, methodTargs)
	}

	for i, arg := range args.Args {
		param, ok := method.ParamFor(i)
		if !ok || param.Type == nil {
			continue
		}
		expected := seenFrom(param.Type, methodTargs)
		if !IsSubType(ctx, arg.Type, expected) {
			at := arg.Loc()
			if !at.Exists() {
				at = args.CallLoc
			}
			errs = errs.With(typerr.New(typerr.NewArgumentMismatch{
				At:       at,
				Method:   args.Name.String(),
				Index:    i,
				Expected: Show(ctx, expected),
				Got:      Show(ctx, arg.Type),
			}))
		}
	}
	if args.Block != nil && method.Block != nil && *args.Block != nil {
		expected := seenFrom(method.Block, methodTargs)
		if !IsSubType(ctx, *args.Block, expected) {
			errs = errs.With(typerr.New(typerr.NewArgumentMismatch{
				At:       args.CallLoc,
				Method:   args.Name.String(),
				Index:    len(args.Args),
				Expected: Show(ctx, expected),
				Got:      Show(ctx, *args.Block),
			}))
		}
	}

	if store := ctx.store(); store != nil && len(vars) > 0 {
		errs = errs.Merge(store.solveVars(ctx.(*Ctx), vars))
		for i, tv := range vars {
			methodTargs[i], _ = store.Instantiation(tv)
		}
	}

	if args.Block != nil {
		if method.Block != nil {
			*args.Block = seenFrom(method.Block, methodTargs)
		} else {
			*args.Block = Untyped
		}
	}
	result := Untyped
	if method.Result != nil {
		result = seenFrom(method.Result, methodTargs)
	}
	return DispatchResult{Type: result, Errors: errs, Method: method}
}

func arityString(minArgs, maxArgs int) string {
	switch {
	case maxArgs < 0:
		return fmt.Sprintf("%d+", minArgs)
	case minArgs == maxArgs:
		return fmt.Sprint(minArgs)
	default:
		return fmt.Sprintf("%d..%d", minArgs, maxArgs)
	}
}

// dispatchOr requires every branch of the union to support the call. Branches are
// probed frozen first, so a union missing the method records no bounds.
func dispatchOr(ctx Context, recv *OrType, args CallArgs) DispatchResult {
	branches := recv.Branches()
	probe := ctx.Freeze()
	for _, branch := range branches {
		sub := args
		sub.SelfType = branch
		sub.Block = copyBlockSlot(args.Block)
		if res := dispatch(probe, branch, sub); res.Failed() {
			return failedDispatch((*typerr.Errors)(nil).With(typerr.New(typerr.NewUnionMissingMethod{
				At:       args.CallLoc,
				Method:   args.Name.String(),
				Branch:   Show(ctx, branch),
				Receiver: Show(ctx, args.FullType),
			})))
		}
	}

	var errs *typerr.Errors
	var results, blocks []Type
	for _, branch := range branches {
		sub := args
		sub.SelfType = branch
		sub.Block = copyBlockSlot(args.Block)
		res := dispatch(ctx, branch, sub)
		errs = errs.Merge(res.Errors)
		results = append(results, res.Type)
		if sub.Block != nil {
			blocks = append(blocks, *sub.Block)
		}
	}
	if args.Block != nil {
		*args.Block = GlbAll(ctx, blocks...)
	}
	return DispatchResult{Type: LubAll(ctx, results...), Errors: errs}
}

// dispatchAnd needs only one conjunct to support the call. Conjuncts are probed
// frozen, and only the ones that succeed are dispatched again under ctx.
func dispatchAnd(ctx Context, recv *AndType, args CallArgs) DispatchResult {
	probe := ctx.Freeze()
	var winners []Type
	for _, conjunct := range recv.Conjuncts() {
		sub := args
		sub.SelfType = conjunct
		sub.Block = copyBlockSlot(args.Block)
		if res := dispatch(probe, conjunct, sub); !res.Failed() {
			winners = append(winners, conjunct)
		}
	}
	if len(winners) == 0 {
		return failedDispatch((*typerr.Errors)(nil).With(typerr.New(typerr.NewIntersectionMissingMethod{
			At:       args.CallLoc,
			Method:   args.Name.String(),
			Receiver: Show(ctx, args.FullType),
		})))
	}
	var errs *typerr.Errors
	var results, blocks []Type
	for _, conjunct := range winners {
		sub := args
		sub.SelfType = conjunct
		sub.Block = copyBlockSlot(args.Block)
		res := dispatch(ctx, conjunct, sub)
		errs = errs.Merge(res.Errors)
		results = append(results, res.Type)
		if sub.Block != nil {
			blocks = append(blocks, *sub.Block)
		}
	}
	if args.Block != nil {
		*args.Block = GlbAll(ctx, blocks...)
	}
	return DispatchResult{Type: GlbAll(ctx, results...), Errors: errs}
}

func copyBlockSlot(slot *Type) *Type {
	if slot == nil {
		return nil
	}
	v := *slot
	return &v
}

// literalArg returns the single argument of a call if it is a literal
func literalArg(ctx Context, args CallArgs) (*LiteralType, bool) {
	if len(args.Args) != 1 {
		return nil, false
	}
	lit, ok := dealias(ctx, args.Args[0].Type).(*LiteralType)
	return lit, ok
}

func dispatchTuple(ctx Context, recv *TupleType, args CallArgs) DispatchResult {
	n := len(recv.Elems)
	switch args.Name.String() {
	case "[]":
		if lit, ok := literalArg(ctx, args); ok && lit.lit == LitInteger {
			i := lit.i
			if i < 0 {
				i += int64(n)
			}
			if i < 0 || i >= int64(n) {
				return DispatchResult{Type: Nil}
			}
			return DispatchResult{Type: recv.Elems[i]}
		}
	case "first", "last":
		if len(args.Args) != 0 {
			break
		}
		if n == 0 {
			return DispatchResult{Type: Nil}
		}
		if args.Name.String() == "first" {
			return DispatchResult{Type: recv.Elems[0]}
		}
		return DispatchResult{Type: recv.Elems[n-1]}
	case "size", "length":
		if len(args.Args) == 0 {
			return DispatchResult{Type: Integer}
		}
	case "to_a":
		if len(args.Args) == 0 {
			return DispatchResult{Type: recv}
		}
	}
	return dispatch(ctx, underlying(ctx, recv), args)
}

func dispatchShape(ctx Context, recv *ShapeType, args CallArgs) DispatchResult {
	switch args.Name.String() {
	case "[]", "fetch":
		if lit, ok := literalArg(ctx, args); ok {
			if value, found := recv.Lookup(lit); found {
				return DispatchResult{Type: value}
			}
			return DispatchResult{Type: Untyped}
		}
	case "to_h":
		if len(args.Args) == 0 {
			return DispatchResult{Type: recv}
		}
	}
	return dispatch(ctx, underlying(ctx, recv), args)
}

// GetCallArgumentType returns the type expected at position argIndex of method name on recv,
// without checking a call. It is T.untyped when nothing is known.
func GetCallArgumentType(ctx Context, recv Type, name NameRef, argIndex int) Type {
	recv = dealias(ctx, recv)
	switch r := recv.(type) {
	case *OrType:
		// the argument goes to whichever branch the receiver turns out to be
		return Glb(ctx, GetCallArgumentType(ctx, r.left, name, argIndex), GetCallArgumentType(ctx, r.right, name, argIndex))
	case *AndType:
		return Lub(ctx, GetCallArgumentType(ctx, r.left, name, argIndex), GetCallArgumentType(ctx, r.right, name, argIndex))
	case *LiteralType, *TupleType, *ShapeType, *MetaType, *MagicType:
		return GetCallArgumentType(ctx, underlying(ctx, r), name, argIndex)
	case *ClassType:
		return callArgumentType(ctx, r.Symbol, nil, name, argIndex)
	case *AppliedType:
		return callArgumentType(ctx, r.Klass, r.Targs, name, argIndex)
	}
	return Untyped
}

func callArgumentType(ctx Context, sym SymbolRef, targs []Type, name NameRef, argIndex int) Type {
	if isSpecialClass(sym) {
		return Untyped
	}
	method, ok := ctx.Symbols().LookupMethod(sym, name)
	if !ok {
		return Untyped
	}
	param, ok := method.ParamFor(argIndex)
	if !ok || param.Type == nil {
		return Untyped
	}
	t := TypeAsSeenFrom(ctx, param.Type, method.Owner, sym, targs)
	return Instantiate(ctx, t, method.TypeParams, untypedArgs(len(method.TypeParams)))
}
