package types

import (
	"slices"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/gradual/internal/log"
	"github.com/cottand/gradual/source"
	"github.com/cottand/gradual/typerr"
)

var episodeCounter atomic.Uint64

// PendingCall is a call made on a TypeVar before it was instantiated
type PendingCall struct {
	Name NameRef
	Loc  source.Loc
	Args []TypeAndOrigins
}

// varState is never mutated once stored, updates replace it
type varState struct {
	name          NameRef
	upper, lower  []Type
	instantiation Type
	calls         []PendingCall
}

type typeVarHasher struct{}

func (typeVarHasher) Hash(id TypeVarID) uint32 { return uint32(id) }
func (typeVarHasher) Equal(a, b TypeVarID) bool { return a == b }

// storeView is an immutable snapshot of a ConstraintStore
type storeView struct {
	episode uint64
	vars    *immutable.Map[TypeVarID, *varState]
}

func (v storeView) state(id TypeVarID) (*varState, bool) {
	if v.vars == nil {
		return nil, false
	}
	return v.vars.Get(id)
}

// instantiation returns the resolved type of tv, if any
func (v storeView) instantiation(tv *TypeVar) (Type, bool) {
	st, ok := v.state(tv.ID)
	if !ok || st.instantiation == nil {
		return nil, false
	}
	return st.instantiation, true
}

// ConstraintStore holds the bounds and instantiations of the TypeVars of one episode.
//
// Its state is a persistent map, so taking a frozen snapshot is O(1) and later
// writes never affect earlier snapshots.
type ConstraintStore struct {
	episode uint64
	nextID  TypeVarID
	vars    *immutable.Map[TypeVarID, *varState]
}

func newConstraintStore() *ConstraintStore {
	return &ConstraintStore{
		episode: episodeCounter.Add(1),
		nextID:  1,
		vars:    immutable.NewMap[TypeVarID, *varState](typeVarHasher{}),
	}
}

func (s *ConstraintStore) view() storeView {
	return storeView{episode: s.episode, vars: s.vars}
}

func (s *ConstraintStore) Episode() uint64 { return s.episode }

// Len is the number of TypeVars created in this store
func (s *ConstraintStore) Len() int { return s.vars.Len() }

func (s *ConstraintStore) newTypeVar(name NameRef) *TypeVar {
	id := s.nextID
	s.nextID++
	s.vars = s.vars.Set(id, &varState{name: name})
	return &TypeVar{ID: id, Name: name, episode: s.episode}
}

func (s *ConstraintStore) update(id TypeVarID, f func(st varState) varState) {
	st, ok := s.vars.Get(id)
	if !ok {
		return
	}
	updated := f(*st)
	s.vars = s.vars.Set(id, &updated)
}

func (s *ConstraintStore) addUpper(tv *TypeVar, bound Type) {
	s.update(tv.ID, func(st varState) varState {
		st.upper = append(slices.Clip(st.upper), bound)
		return st
	})
}

func (s *ConstraintStore) addLower(tv *TypeVar, bound Type) {
	s.update(tv.ID, func(st varState) varState {
		st.lower = append(slices.Clip(st.lower), bound)
		return st
	})
}

func (s *ConstraintStore) addCall(tv *TypeVar, call PendingCall) {
	s.update(tv.ID, func(st varState) varState {
		st.calls = append(slices.Clip(st.calls), call)
		return st
	})
}

func (s *ConstraintStore) get(tv *TypeVar) varState {
	st, ok := s.vars.Get(tv.ID)
	if !ok {
		return varState{}
	}
	return *st
}

func (s *ConstraintStore) UpperBounds(tv *TypeVar) []Type { return slices.Clone(s.get(tv).upper) }
func (s *ConstraintStore) LowerBounds(tv *TypeVar) []Type { return slices.Clone(s.get(tv).lower) }
func (s *ConstraintStore) PendingCalls(tv *TypeVar) []PendingCall {
	return slices.Clone(s.get(tv).calls)
}

// Instantiation returns the type tv was resolved to, if it was
func (s *ConstraintStore) Instantiation(tv *TypeVar) (Type, bool) {
	return s.view().instantiation(tv)
}

// Instantiate resolves tv to t. A TypeVar is instantiated at most once.
func (s *ConstraintStore) Instantiate(ctx *Ctx, tv *TypeVar, t Type) {
	Enforce(ctx, tv.episode == s.episode, "type variable %s belongs to episode %d, not %d", tv, tv.episode, s.episode)
	_, already := s.Instantiation(tv)
	Enforce(ctx, !already, "type variable %s instantiated twice", tv)
	if already {
		return
	}
	s.update(tv.ID, func(st varState) varState {
		st.instantiation = t
		return st
	})
}

// Solve instantiates every pending TypeVar: to the lub of its lower bounds,
// else to the glb of its upper bounds, else to T.untyped. The chosen type is
// then checked against every upper bound, and any calls recorded on the
// variable are replayed against it.
func (s *ConstraintStore) Solve(ctx *Ctx) *typerr.Errors {
	var pending []*TypeVar
	for id := TypeVarID(1); id < s.nextID; id++ {
		if st, ok := s.vars.Get(id); ok && st.instantiation == nil {
			pending = append(pending, &TypeVar{ID: id, Name: st.name, episode: s.episode})
		}
	}
	return s.solveVars(ctx, pending)
}

func (s *ConstraintStore) solveVars(ctx *Ctx, vars []*TypeVar) *typerr.Errors {
	Enforce(ctx, ctx.store() == s, "solving a store with a context of another episode")
	logger := ctx.Logger().With("section", log.SectionInference)
	var errs *typerr.Errors
	for _, tv := range vars {
		st, ok := s.vars.Get(tv.ID)
		if !ok || st.instantiation != nil {
			continue
		}
		var inst Type
		switch {
		case len(st.lower) > 0:
			inst = LubAll(ctx, st.lower...)
		case len(st.upper) > 0:
			inst = GlbAll(ctx, st.upper...)
		default:
			inst = Untyped
		}
		if self, ok := dealiasVar(ctx, inst).(*TypeVar); ok && self.ID == tv.ID {
			inst = Untyped
		}
		s.Instantiate(ctx, tv, inst)
		logger.Debug("solved type variable", "var", tv, "as", inst)

		for _, upper := range st.upper {
			if !IsSubTypeWhenFrozen(ctx, inst, upper) {
				errs = errs.With(typerr.New(typerr.NewBoundsMismatch{
					Variable:      Show(ctx, tv),
					Instantiation: Show(ctx, inst),
					Bound:         Show(ctx, upper),
				}))
			}
		}
		for _, call := range st.calls {
			res := DispatchCall(ctx.Freeze(), inst, CallArgs{Name: call.Name, CallLoc: call.Loc, Args: call.Args})
			errs = errs.Merge(res.Errors)
		}
	}
	return errs
}
