package symtab

import (
	"github.com/cottand/gradual/types"
	"github.com/cottand/gradual/typexpr"
	"github.com/pkg/errors"
)

// Scope resolves names in type expressions against a Table. Inside a class,
// unqualified type member names resolve to LambdaParams of that class or its ancestors.
type Scope struct {
	table      *Table
	owner      types.SymbolRef
	typeParams map[string]types.SymbolRef
}

var _ typexpr.Scope = (*Scope)(nil)

// Scope returns the top level scope of t
func (t *Table) Scope() *Scope {
	return &Scope{table: t}
}

// Within returns a scope where the type members of owner can be written unqualified
func (s *Scope) Within(owner types.SymbolRef) *Scope {
	return &Scope{table: s.table, owner: owner, typeParams: s.typeParams}
}

// WithTypeParams returns a scope where T.type_parameter(:name) resolves to the given method type parameters
func (s *Scope) WithTypeParams(params map[string]types.SymbolRef) *Scope {
	return &Scope{table: s.table, owner: s.owner, typeParams: params}
}

func (s *Scope) ResolveConstant(name string) (types.Type, error) {
	if s.owner != types.NoSymbol {
		for _, ancestor := range s.table.Ancestors(s.owner) {
			if member, ok := s.table.byName[s.table.NameOf(ancestor)+"::"+name]; ok {
				return &types.LambdaParam{Definition: member}, nil
			}
		}
	}
	sym, ok := s.table.byName[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSymbol, "constant %s", name)
	}
	switch e := s.table.entries[sym]; e.kind {
	case kindClass, kindModule:
		return types.Class(sym), nil
	case kindAlias:
		return types.Alias(sym), nil
	case kindTypeMember:
		return &types.LambdaParam{Definition: sym}, nil
	default:
		return nil, errors.Errorf("%s is a %s, not a type", name, e.kind)
	}
}

func (s *Scope) ResolveTypeParameter(name string) (types.Type, error) {
	sym, ok := s.typeParams[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSymbol, "type parameter %s", name)
	}
	return &types.SelfTypeParam{Definition: sym}, nil
}

func (s *Scope) TypeArity(sym types.SymbolRef) int {
	return len(s.table.TypeMembers(sym))
}

// Parse parses src in this scope, building unions under a frozen context over the table
func (s *Scope) Parse(src string) (types.Type, error) {
	return typexpr.Parse(types.NewFrozenCtx(s.table, types.DefaultOptions()), s, src)
}
