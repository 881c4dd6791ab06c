package types

import "slices"

// Instantiate replaces every LambdaParam and SelfTypeParam of t whose definition
// is params[i] by targs[i]. NoSymbol entries in params are skipped.
func Instantiate(ctx Context, t Type, params []SymbolRef, targs []Type) Type {
	Enforce(ctx, len(params) == len(targs), "instantiating %d parameters with %d arguments", len(params), len(targs))
	if len(params) == 0 || t == nil {
		return t
	}
	lookup := func(def SymbolRef) (Type, bool) {
		if def == NoSymbol {
			return nil, false
		}
		i := slices.Index(params, def)
		if i < 0 || i >= len(targs) {
			return nil, false
		}
		return targs[i], true
	}
	var subst func(Type) Type
	subst = func(t Type) Type {
		switch p := t.(type) {
		case *LambdaParam:
			if replacement, ok := lookup(p.Definition); ok {
				return replacement
			}
			return t
		case *SelfTypeParam:
			if replacement, ok := lookup(p.Definition); ok {
				return replacement
			}
			return t
		}
		return mapChildren(ctx, t, subst)
	}
	return subst(t)
}

// AlignBaseTypeArgs returns, for each type member of asIf, the type member of
// what that has the same name, or NoSymbol when what has none.
// This is how type arguments flow to a parent that did not declare them explicitly.
func AlignBaseTypeArgs(ctx Context, what SymbolRef, targs []Type, asIf SymbolRef) []SymbolRef {
	symbols := ctx.Symbols()
	if len(targs) == 0 {
		return nil
	}
	ownMembers := symbols.TypeMembers(what)
	if what == asIf {
		return slices.Clone(ownMembers)
	}
	asIfMembers := symbols.TypeMembers(asIf)
	out := make([]SymbolRef, len(asIfMembers))
	for i, member := range asIfMembers {
		name := symbols.NameOf(member)
		for _, own := range ownMembers {
			if symbols.NameOf(own) == name {
				out[i] = own
				break
			}
		}
	}
	return out
}

// baseTypeArgs returns the type arguments of target as seen from an instance of
// sub applied to subTargs. Nil subTargs stands for the raw class, whose arguments are untyped.
func baseTypeArgs(ctx Context, sub SymbolRef, subTargs []Type, target SymbolRef) []Type {
	symbols := ctx.Symbols()
	current := subTargs
	if current == nil {
		current = untypedArgs(len(symbols.TypeMembers(sub)))
	}
	if sub == target {
		return current
	}
	path := parentPath(symbols, sub, target)
	if path == nil {
		Enforce(ctx, false, "%s does not derive from %s", symbols.NameOf(sub), symbols.NameOf(target))
		return untypedArgs(len(symbols.TypeMembers(target)))
	}
	at := sub
	for _, parent := range path {
		members := symbols.TypeMembers(at)
		if len(current) != len(members) {
			current = untypedArgs(len(members))
		}
		var next []Type
		if declared, ok := symbols.ParentTypeArgs(at, parent); ok {
			next = make([]Type, len(declared))
			for i, arg := range declared {
				next[i] = Instantiate(ctx, arg, members, current)
			}
		} else {
			aligned := AlignBaseTypeArgs(ctx, at, current, parent)
			next = untypedArgs(len(symbols.TypeMembers(parent)))
			for i, own := range aligned {
				if j := slices.Index(members, own); own != NoSymbol && j >= 0 {
					next[i] = current[j]
				}
			}
		}
		current, at = next, parent
	}
	return current
}

// parentPath finds the shortest chain of direct parents leading from sub to target, excluding sub
func parentPath(symbols SymbolTable, sub, target SymbolRef) []SymbolRef {
	prev := map[SymbolRef]SymbolRef{sub: NoSymbol}
	queue := []SymbolRef{sub}
	for len(queue) > 0 {
		at := queue[0]
		queue = queue[1:]
		if at == target {
			var path []SymbolRef
			for s := at; s != sub; s = prev[s] {
				path = append(path, s)
			}
			slices.Reverse(path)
			return path
		}
		for _, p := range symbols.Parents(at) {
			if _, seen := prev[p]; !seen {
				prev[p] = at
				queue = append(queue, p)
			}
		}
	}
	return nil
}

func untypedArgs(n int) []Type {
	out := make([]Type, n)
	for i := range out {
		out[i] = Untyped
	}
	return out
}

// TypeAsSeenFrom is the type t, written in terms of the type members of owner,
// as seen from an instance of inWhat applied to targs
func TypeAsSeenFrom(ctx Context, t Type, owner, inWhat SymbolRef, targs []Type) Type {
	if t == nil {
		return nil
	}
	members := ctx.Symbols().TypeMembers(owner)
	if len(members) == 0 {
		return t
	}
	return Instantiate(ctx, t, members, baseTypeArgs(ctx, inWhat, targs, owner))
}

// ResultTypeAsSeenFrom is the declared result of member when called on an instance of inWhat applied to targs.
// A method with no declared result returns T.untyped.
func ResultTypeAsSeenFrom(ctx Context, member *MethodInfo, inWhat SymbolRef, targs []Type) Type {
	if member.Result == nil {
		return Untyped
	}
	return TypeAsSeenFrom(ctx, member.Result, member.Owner, inWhat, targs)
}

// IsFullyDefined reports whether t contains no uninstantiated TypeVar
func IsFullyDefined(ctx Context, t Type) bool {
	defined := true
	walk(t, func(t Type) bool {
		if !defined {
			return false
		}
		if tv, ok := t.(*TypeVar); ok {
			inst, ok := ctx.view().instantiation(tv)
			defined = ok && IsFullyDefined(ctx, inst)
			return false
		}
		if alias, ok := t.(*AliasType); ok {
			target, ok := ctx.Symbols().AliasTarget(alias.Symbol)
			defined = ok && IsFullyDefined(ctx, target)
			return false
		}
		return true
	})
	return defined
}
