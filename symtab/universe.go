package symtab

import (
	"bytes"
	_ "embed"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/cottand/gradual/types"
	"github.com/pkg/errors"
)

//go:embed universe.toml
var builtinUniverse []byte

type universeFile struct {
	Class []classDecl `toml:"class"`
	Alias []aliasDecl `toml:"alias"`
}

type classDecl struct {
	Name string `toml:"name"`
	// Kind is "class" or "module", defaults to class
	Kind string `toml:"kind"`
	// Parents are type expressions, so parent type arguments can be passed: `Container[Elem]`
	Parents     []string     `toml:"parents"`
	TypeMembers []memberDecl `toml:"type_members"`
	Method      []methodDecl `toml:"method"`
}

type memberDecl struct {
	Name     string `toml:"name"`
	Variance string `toml:"variance"`
	Upper    string `toml:"upper"`
	Lower    string `toml:"lower"`
}

type methodDecl struct {
	Name    string   `toml:"name"`
	Aliases []string `toml:"aliases"`
	// TypeParams are the names usable as T.type_parameter(:name) in the signature
	TypeParams []string    `toml:"type_params"`
	Params     []paramDecl `toml:"params"`
	Rest       string      `toml:"rest"`
	// Result left empty means the result is untyped
	Result string `toml:"result"`
	Block  string `toml:"block"`
}

type paramDecl struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	Optional bool   `toml:"optional"`
}

type aliasDecl struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

// NewUniverse returns a Table with the builtin symbols and the builtin methods declared on them
func NewUniverse() (*Table, error) {
	t := New()
	if err := t.Load(bytes.NewReader(builtinUniverse)); err != nil {
		return nil, errors.Wrap(err, "loading builtin universe")
	}
	return t, nil
}

// MustUniverse is like NewUniverse but panics on error
func MustUniverse() *Table {
	t, err := NewUniverse()
	if err != nil {
		panic(err)
	}
	return t
}

// LoadFile adds the declarations of the universe file at path to t
func (t *Table) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening universe")
	}
	defer f.Close()
	return errors.Wrapf(t.Load(f), "in %s", path)
}

// Load adds the declarations of a TOML universe to t. Classes already in t,
// like the builtins, are extended rather than redeclared.
func (t *Table) Load(r io.Reader) error {
	var file universeFile
	md, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return errors.Wrap(err, "decoding universe")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.Errorf("unknown keys in universe: %v", undecoded)
	}

	syms := make([]types.SymbolRef, len(file.Class))
	for i, decl := range file.Class {
		var err error
		switch decl.Kind {
		case "", "class":
			syms[i], err = t.DeclareClass(decl.Name)
		case "module":
			syms[i], err = t.DeclareModule(decl.Name)
		default:
			err = errors.Errorf("unknown kind %q", decl.Kind)
		}
		if err != nil {
			return errors.Wrapf(err, "declaring %s", decl.Name)
		}
	}
	aliases := make([]types.SymbolRef, len(file.Alias))
	for i, decl := range file.Alias {
		sym, err := t.DeclareAlias(decl.Name, nil)
		if err != nil {
			return errors.Wrapf(err, "declaring alias %s", decl.Name)
		}
		aliases[i] = sym
	}

	// members before parents, so parent type arguments can mention them
	members := make([][]types.SymbolRef, len(file.Class))
	for i, decl := range file.Class {
		for _, m := range decl.TypeMembers {
			variance, ok := types.ParseVariance(m.Variance)
			if !ok {
				return errors.Errorf("%s::%s: unknown variance %q", decl.Name, m.Name, m.Variance)
			}
			member, err := t.DeclareTypeMember(syms[i], m.Name, variance, nil)
			if err != nil {
				return errors.Wrapf(err, "declaring %s::%s", decl.Name, m.Name)
			}
			members[i] = append(members[i], member)
		}
	}

	for i, decl := range file.Class {
		scope := t.Scope().Within(syms[i])
		for _, expr := range decl.Parents {
			if err := t.addParent(scope, syms[i], expr); err != nil {
				return errors.Wrapf(err, "parent %s of %s", expr, decl.Name)
			}
		}
	}

	for i, decl := range file.Class {
		scope := t.Scope().Within(syms[i])
		for j, m := range decl.TypeMembers {
			lower, err := parseOptional(scope, m.Lower)
			if err != nil {
				return errors.Wrapf(err, "lower bound of %s::%s", decl.Name, m.Name)
			}
			upper, err := parseOptional(scope, m.Upper)
			if err != nil {
				return errors.Wrapf(err, "upper bound of %s::%s", decl.Name, m.Name)
			}
			if err := t.SetParamBounds(members[i][j], lower, upper); err != nil {
				return err
			}
		}
	}
	for i, decl := range file.Alias {
		target, err := t.Scope().Parse(decl.Type)
		if err != nil {
			return errors.Wrapf(err, "alias %s", decl.Name)
		}
		if err := t.SetAliasTarget(aliases[i], target); err != nil {
			return err
		}
	}

	methods := 0
	for i, decl := range file.Class {
		for _, m := range decl.Method {
			if err := t.declareMethod(syms[i], m); err != nil {
				return errors.Wrapf(err, "method %s#%s", decl.Name, m.Name)
			}
			methods++
		}
	}
	t.logger.Debug("loaded universe", "classes", len(file.Class), "aliases", len(file.Alias), "methods", methods)
	return nil
}

func (t *Table) addParent(scope *Scope, sub types.SymbolRef, expr string) error {
	parent, err := scope.Parse(expr)
	if err != nil {
		return err
	}
	var sym types.SymbolRef
	var targs []types.Type
	switch p := parent.(type) {
	case *types.ClassType:
		sym = p.Symbol
	case *types.AppliedType:
		sym, targs = p.Klass, p.Targs
	default:
		return errors.Errorf("a parent must be a class or module, got %s", parent)
	}
	if t.IsModule(sym) {
		return t.Include(sub, sym, targs...)
	}
	return t.SetSuperclass(sub, sym, targs...)
}

func parseOptional(scope *Scope, src string) (types.Type, error) {
	if src == "" {
		return nil, nil
	}
	return scope.Parse(src)
}

func (t *Table) declareMethod(owner types.SymbolRef, decl methodDecl) error {
	typeParams := map[string]types.SymbolRef{}
	var paramSyms []types.SymbolRef
	for _, name := range decl.TypeParams {
		sym := t.DeclareTypeParam(name, nil)
		typeParams[name] = sym
		paramSyms = append(paramSyms, sym)
	}
	scope := t.Scope().Within(owner).WithTypeParams(typeParams)

	info := types.MethodInfo{TypeParams: paramSyms}
	for _, p := range decl.Params {
		pt, err := scope.Parse(p.Type)
		if err != nil {
			return errors.Wrapf(err, "parameter %s", p.Name)
		}
		kind := types.Required
		if p.Optional {
			kind = types.Optional
		}
		info.Params = append(info.Params, types.Param{Name: types.Name(p.Name), Type: pt, Kind: kind})
	}
	if decl.Rest != "" {
		rest, err := scope.Parse(decl.Rest)
		if err != nil {
			return errors.Wrap(err, "rest parameter")
		}
		info.Params = append(info.Params, types.Param{Name: types.Name("rest"), Type: rest, Kind: types.Rest})
	}
	var err error
	if info.Result, err = parseOptional(scope, decl.Result); err != nil {
		return errors.Wrap(err, "result")
	}
	if info.Block, err = parseOptional(scope, decl.Block); err != nil {
		return errors.Wrap(err, "block")
	}

	for _, name := range append([]string{decl.Name}, decl.Aliases...) {
		if _, err := t.DeclareMethod(owner, name, info); err != nil {
			return err
		}
	}
	return nil
}
