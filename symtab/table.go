// Package symtab is an in-memory class hierarchy implementing types.SymbolTable.
//
// A Table always starts with the builtin symbols registered under the ids
// reserved in types.Symbols. More classes, modules, methods and aliases are
// added either through the builder methods or by loading a TOML universe file.
package symtab

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/cottand/gradual/internal/log"
	"github.com/cottand/gradual/types"
	"github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"
)

type kind uint8

const (
	kindSpecial kind = iota
	kindClass
	kindModule
	kindTypeMember
	kindTypeParam
	kindMethod
	kindAlias
)

func (k kind) String() string {
	switch k {
	case kindClass:
		return "class"
	case kindModule:
		return "module"
	case kindTypeMember:
		return "type member"
	case kindTypeParam:
		return "type parameter"
	case kindMethod:
		return "method"
	case kindAlias:
		return "alias"
	}
	return "special"
}

type entry struct {
	name  string
	kind  kind
	owner types.SymbolRef

	// classes and modules
	superclass types.SymbolRef
	mixins     []types.SymbolRef
	parentArgs map[types.SymbolRef][]types.Type
	members    []types.SymbolRef
	methods    map[types.NameRef]*types.MethodInfo

	// type members and method type parameters
	variance     types.Variance
	lower, upper types.Type

	// aliases
	target types.Type
}

// Table is safe for concurrent reads once it is fully built
type Table struct {
	entries []*entry
	byName  map[string]types.SymbolRef
	logger  *slog.Logger

	mu        sync.Mutex
	ancestors map[types.SymbolRef][]types.SymbolRef
	derives   map[types.SymbolRef]*set.Set[types.SymbolRef]
}

var _ types.SymbolTable = (*Table)(nil)

var ErrUnknownSymbol = errors.New("unknown symbol")

// New returns a Table holding only the builtin symbols, without any methods
func New() *Table {
	t := &Table{
		byName:    map[string]types.SymbolRef{},
		logger:    log.DefaultLogger.With("section", log.SectionSymtab),
		ancestors: map[types.SymbolRef][]types.SymbolRef{},
		derives:   map[types.SymbolRef]*set.Set[types.SymbolRef]{},
	}
	t.registerBuiltins()
	return t
}

// WithLogger replaces the logger used while building the table
func (t *Table) WithLogger(logger *slog.Logger) *Table {
	t.logger = logger.With("section", log.SectionSymtab)
	return t
}

func (t *Table) add(e *entry) types.SymbolRef {
	sym := types.SymbolRef(len(t.entries))
	t.entries = append(t.entries, e)
	switch e.kind {
	case kindClass, kindModule, kindTypeMember, kindAlias:
		t.byName[t.qualified(e)] = sym
	}
	t.invalidate()
	return sym
}

func (t *Table) qualified(e *entry) string {
	if e.kind == kindTypeMember && e.owner != types.NoSymbol {
		return t.entries[e.owner].name + "::" + e.name
	}
	return e.name
}

func (t *Table) invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.ancestors)
	clear(t.derives)
}

func (t *Table) get(sym types.SymbolRef) *entry {
	if int(sym) >= len(t.entries) {
		return nil
	}
	return t.entries[sym]
}

func (t *Table) registerBuiltins() {
	s := types.Symbols
	special := func(name string) { t.add(&entry{name: name, kind: kindSpecial}) }
	class := func(name string) { t.add(&entry{name: name, kind: kindClass}) }
	module := func(name string) { t.add(&entry{name: name, kind: kindModule}) }

	special("")
	special("<top>")
	special("<bottom>")
	special("<untyped>")
	class("BasicObject")
	class("Object")
	module("Kernel")
	module("Comparable")
	class("Module")
	class("Class")
	class("NilClass")
	class("TrueClass")
	class("FalseClass")
	class("Numeric")
	class("Integer")
	class("Float")
	class("String")
	class("Symbol")
	class("Array")
	class("Hash")
	class("Proc")
	class("Proc0")
	class("Proc1")
	class("Proc2")
	class("<Magic>")
	module("T")

	member := func(owner types.SymbolRef, name string, variance types.Variance) {
		t.add(&entry{name: name, kind: kindTypeMember, owner: owner, variance: variance})
		t.entries[owner].members = append(t.entries[owner].members, types.SymbolRef(len(t.entries)-1))
	}
	member(s.Array, "Elem", types.Covariant)
	member(s.Hash, "K", types.Covariant)
	member(s.Hash, "V", types.Covariant)
	member(s.Proc0, "Return", types.Covariant)
	member(s.Proc1, "Return", types.Covariant)
	member(s.Proc1, "Arg0", types.Contravariant)
	member(s.Proc2, "Return", types.Covariant)
	member(s.Proc2, "Arg0", types.Contravariant)
	member(s.Proc2, "Arg1", types.Contravariant)

	if len(t.entries) != types.BuiltinSymbolCount {
		panic(fmt.Sprintf("symtab: registered %d builtin symbols, expected %d", len(t.entries), types.BuiltinSymbolCount))
	}

	super := func(sub, parent types.SymbolRef) { t.entries[sub].superclass = parent }
	super(s.Object, s.BasicObject)
	t.entries[s.Object].mixins = []types.SymbolRef{s.Kernel}
	for _, sub := range []types.SymbolRef{s.Module, s.NilClass, s.TrueClass, s.FalseClass, s.Numeric, s.String, s.Symbol, s.Array, s.Hash, s.Proc} {
		super(sub, s.Object)
	}
	super(s.Class, s.Module)
	super(s.Integer, s.Numeric)
	super(s.Float, s.Numeric)
	super(s.Proc0, s.Proc)
	super(s.Proc1, s.Proc)
	super(s.Proc2, s.Proc)
	super(s.Magic, s.BasicObject)
	for _, sub := range []types.SymbolRef{s.Numeric, s.String, s.Symbol} {
		t.entries[sub].mixins = []types.SymbolRef{s.Comparable}
	}
}

// Lookup finds a class, module or alias by name, or a type member by Owner::Name
func (t *Table) Lookup(name string) (types.SymbolRef, bool) {
	sym, ok := t.byName[name]
	return sym, ok
}

func (t *Table) declare(name string, k kind) (types.SymbolRef, error) {
	if existing, ok := t.byName[name]; ok {
		if e := t.entries[existing]; e.kind == k {
			return existing, nil
		} else {
			return types.NoSymbol, errors.Errorf("%s is already declared as a %s", name, e.kind)
		}
	}
	sym := t.add(&entry{name: name, kind: k})
	t.logger.Debug("declared symbol", "name", name, "kind", k.String(), "id", sym)
	return sym, nil
}

// DeclareClass declares a class, or returns the existing one with that name. Classes derive from Object unless given another superclass.
func (t *Table) DeclareClass(name string) (types.SymbolRef, error) {
	sym, err := t.declare(name, kindClass)
	if err != nil {
		return sym, err
	}
	if e := t.entries[sym]; e.superclass == types.NoSymbol && int(sym) >= types.BuiltinSymbolCount {
		e.superclass = types.Symbols.Object
	}
	return sym, nil
}

func (t *Table) DeclareModule(name string) (types.SymbolRef, error) {
	return t.declare(name, kindModule)
}

// SetSuperclass makes parent the superclass of the class sub, optionally passing it type arguments
func (t *Table) SetSuperclass(sub, parent types.SymbolRef, targs ...types.Type) error {
	e, p := t.get(sub), t.get(parent)
	if e == nil || p == nil {
		return ErrUnknownSymbol
	}
	if e.kind != kindClass {
		return errors.Errorf("only classes have a superclass, %s is a %s", e.name, e.kind)
	}
	if p.kind != kindClass {
		return errors.Errorf("%s cannot be the superclass of %s, it is a %s", p.name, e.name, p.kind)
	}
	if t.DerivesFrom(parent, sub) {
		return errors.Errorf("%s cannot inherit from its own subclass %s", e.name, p.name)
	}
	e.superclass = parent
	t.setParentArgs(e, parent, targs)
	t.invalidate()
	return nil
}

// Include mixes the module mixin into sub, optionally passing it type arguments
func (t *Table) Include(sub, mixin types.SymbolRef, targs ...types.Type) error {
	e, m := t.get(sub), t.get(mixin)
	if e == nil || m == nil {
		return ErrUnknownSymbol
	}
	if m.kind != kindModule {
		return errors.Errorf("only modules can be included, %s is a %s", m.name, m.kind)
	}
	if t.DerivesFrom(mixin, sub) {
		return errors.Errorf("%s cannot include %s, which already includes it", e.name, m.name)
	}
	if !slices.Contains(e.mixins, mixin) {
		e.mixins = append(e.mixins, mixin)
	}
	t.setParentArgs(e, mixin, targs)
	t.invalidate()
	return nil
}

func (t *Table) setParentArgs(e *entry, parent types.SymbolRef, targs []types.Type) {
	if len(targs) == 0 {
		return
	}
	if e.parentArgs == nil {
		e.parentArgs = map[types.SymbolRef][]types.Type{}
	}
	e.parentArgs[parent] = targs
}

// DeclareTypeMember adds a type member to a class or module. A nil upper bound means unbounded.
func (t *Table) DeclareTypeMember(owner types.SymbolRef, name string, variance types.Variance, upper types.Type) (types.SymbolRef, error) {
	o := t.get(owner)
	if o == nil {
		return types.NoSymbol, ErrUnknownSymbol
	}
	if o.kind != kindClass && o.kind != kindModule {
		return types.NoSymbol, errors.Errorf("type members can only be declared on classes and modules, %s is a %s", o.name, o.kind)
	}
	if existing, ok := t.byName[o.name+"::"+name]; ok {
		return existing, nil
	}
	sym := t.add(&entry{name: name, kind: kindTypeMember, owner: owner, variance: variance, upper: upper})
	o.members = append(o.members, sym)
	return sym, nil
}

// SetParamBounds replaces the bounds of a type member or method type parameter
func (t *Table) SetParamBounds(param types.SymbolRef, lower, upper types.Type) error {
	e := t.get(param)
	if e == nil || (e.kind != kindTypeMember && e.kind != kindTypeParam) {
		return ErrUnknownSymbol
	}
	e.lower, e.upper = lower, upper
	return nil
}

// DeclareTypeParam creates a method type parameter, referenced in signatures through types.SelfTypeParam
func (t *Table) DeclareTypeParam(name string, upper types.Type) types.SymbolRef {
	return t.add(&entry{name: name, kind: kindTypeParam, upper: upper})
}

// DeclareMethod adds method to owner. Symbol, Owner and Name of method are filled in.
func (t *Table) DeclareMethod(owner types.SymbolRef, name string, method types.MethodInfo) (*types.MethodInfo, error) {
	o := t.get(owner)
	if o == nil {
		return nil, ErrUnknownSymbol
	}
	if o.kind != kindClass && o.kind != kindModule {
		return nil, errors.Errorf("methods can only be declared on classes and modules, %s is a %s", o.name, o.kind)
	}
	method.Name = types.Name(name)
	method.Owner = owner
	method.Symbol = t.add(&entry{name: o.name + "#" + name, kind: kindMethod, owner: owner})
	for _, tp := range method.TypeParams {
		// aliases share type parameters with the first name declared
		if p := t.get(tp); p != nil && p.owner == types.NoSymbol {
			p.owner = method.Symbol
		}
	}
	if o.methods == nil {
		o.methods = map[types.NameRef]*types.MethodInfo{}
	}
	o.methods[method.Name] = &method
	return &method, nil
}

// DeclareAlias makes name stand for target
func (t *Table) DeclareAlias(name string, target types.Type) (types.SymbolRef, error) {
	sym, err := t.declare(name, kindAlias)
	if err != nil {
		return sym, err
	}
	t.entries[sym].target = target
	return sym, nil
}

// SetAliasTarget sets the target of an alias declared before its target could be built
func (t *Table) SetAliasTarget(alias types.SymbolRef, target types.Type) error {
	e := t.get(alias)
	if e == nil || e.kind != kindAlias {
		return ErrUnknownSymbol
	}
	e.target = target
	return nil
}

func (t *Table) NameOf(sym types.SymbolRef) string {
	e := t.get(sym)
	if e == nil {
		return fmt.Sprintf("<unknown %d>", sym)
	}
	return e.name
}

func (t *Table) IsModule(sym types.SymbolRef) bool {
	e := t.get(sym)
	return e != nil && e.kind == kindModule
}

func (t *Table) IsClass(sym types.SymbolRef) bool {
	e := t.get(sym)
	return e != nil && e.kind == kindClass
}

func (t *Table) Parents(sym types.SymbolRef) []types.SymbolRef {
	e := t.get(sym)
	if e == nil {
		return nil
	}
	var parents []types.SymbolRef
	if e.superclass != types.NoSymbol {
		parents = append(parents, e.superclass)
	}
	return append(parents, e.mixins...)
}

// Ancestors linearizes sym: sym first, then its mixins with the latest
// included first, each followed by their own ancestors, then the ancestors
// of the superclass. A symbol appears only at its first position.
func (t *Table) Ancestors(sym types.SymbolRef) []types.SymbolRef {
	t.mu.Lock()
	cached, ok := t.ancestors[sym]
	t.mu.Unlock()
	if ok {
		return cached
	}

	seen := set.New[types.SymbolRef](8)
	var out []types.SymbolRef
	stack := []types.SymbolRef{sym}
	for len(stack) > 0 {
		at := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !seen.Insert(at) {
			continue
		}
		out = append(out, at)
		e := t.get(at)
		if e == nil {
			continue
		}
		// pushed in reverse of visiting order
		if e.superclass != types.NoSymbol {
			stack = append(stack, e.superclass)
		}
		stack = append(stack, e.mixins...)
	}

	t.mu.Lock()
	t.ancestors[sym] = out
	t.mu.Unlock()
	return out
}

func (t *Table) DerivesFrom(sub, parent types.SymbolRef) bool {
	if sub == parent {
		return true
	}
	t.mu.Lock()
	ancestors, ok := t.derives[sub]
	t.mu.Unlock()
	if !ok {
		ancestors = set.From(t.Ancestors(sub))
		t.mu.Lock()
		t.derives[sub] = ancestors
		t.mu.Unlock()
	}
	return ancestors.Contains(parent)
}

func (t *Table) ParentTypeArgs(sub, parent types.SymbolRef) ([]types.Type, bool) {
	e := t.get(sub)
	if e == nil || e.parentArgs == nil {
		return nil, false
	}
	targs, ok := e.parentArgs[parent]
	return targs, ok
}

func (t *Table) TypeMembers(sym types.SymbolRef) []types.SymbolRef {
	e := t.get(sym)
	if e == nil {
		return nil
	}
	return e.members
}

func (t *Table) Variance(member types.SymbolRef) types.Variance {
	e := t.get(member)
	if e == nil {
		return types.Invariant
	}
	return e.variance
}

func (t *Table) Owner(sym types.SymbolRef) types.SymbolRef {
	e := t.get(sym)
	if e == nil {
		return types.NoSymbol
	}
	return e.owner
}

func (t *Table) ParamBounds(param types.SymbolRef) (lower, upper types.Type) {
	e := t.get(param)
	if e == nil {
		return nil, nil
	}
	return e.lower, e.upper
}

// LookupMethod searches the ancestors of klass in linearization order
func (t *Table) LookupMethod(klass types.SymbolRef, name types.NameRef) (*types.MethodInfo, bool) {
	for _, ancestor := range t.Ancestors(klass) {
		e := t.get(ancestor)
		if e == nil || e.methods == nil {
			continue
		}
		if m, ok := e.methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// Methods lists the names of the methods declared directly on sym, sorted
func (t *Table) Methods(sym types.SymbolRef) []string {
	e := t.get(sym)
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.methods))
	for name := range e.methods {
		names = append(names, name.String())
	}
	slices.Sort(names)
	return names
}

func (t *Table) AliasTarget(sym types.SymbolRef) (types.Type, bool) {
	e := t.get(sym)
	if e == nil || e.kind != kindAlias || e.target == nil {
		return nil, false
	}
	return e.target, true
}
