// Package typexpr parses the T.-style type expression language, such as
// `T.nilable(T::Array[Integer])` or `{name: String, "id" => Integer}`.
//
// It also accepts everything types.Show produces, so printed types can be read back.
package typexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cottand/gradual/types"
	"github.com/pkg/errors"
)

// Scope resolves the names a type expression refers to
type Scope interface {
	// ResolveConstant resolves a possibly namespaced constant like `Foo` or `Foo::Elem`
	ResolveConstant(name string) (types.Type, error)
	// ResolveTypeParameter resolves the name in `T.type_parameter(:name)`
	ResolveTypeParameter(name string) (types.Type, error)
	// TypeArity is the number of type arguments sym must be applied to
	TypeArity(sym types.SymbolRef) int
}

type parser struct {
	ctx   types.Context
	scope Scope
	src   string
	toks  []token
	pos   int
}

// Parse reads a single type expression. Unions and intersections are built with types.Lub and types.Glb under ctx.
func Parse(ctx types.Context, scope Scope, src string) (types.Type, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	p := &parser{ctx: ctx, scope: scope, src: src, toks: toks}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %s after type", tok)
	}
	return t, nil
}

// MustParse is like Parse but panics on error
func MustParse(ctx types.Context, scope Scope, src string) types.Type {
	t, err := Parse(ctx, scope, src)
	if err != nil {
		panic(err)
	}
	return t
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) accept(kind rune) bool {
	if p.peek().kind == kind {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(kind rune, what string) (token, error) {
	tok := p.next()
	if tok.kind != kind {
		return tok, p.errorf(tok, "expected %s, got %s", what, tok)
	}
	return tok, nil
}

func (p *parser) expectIdent(name string) error {
	tok := p.next()
	if tok.kind != tokIdent || tok.text != name {
		return p.errorf(tok, "expected %q, got %s", name, tok)
	}
	return nil
}

func (p *parser) errorf(at token, format string, args ...any) error {
	return errors.WithStack(&SyntaxError{Src: p.src, Offset: at.off, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) parseType() (types.Type, error) {
	tok := p.peek()
	switch tok.kind {
	case tokIdent:
		switch tok.text {
		case "T":
			p.next()
			return p.parseT()
		case "nil":
			p.next()
			return types.Nil, nil
		case "true", "false":
			p.next()
			return types.BoolLiteral(tok.text == "true"), nil
		case "Integer", "Float", "String", "Symbol":
			if p.toks[p.pos+1].kind == '(' {
				return p.parseLiteral()
			}
		}
		return p.parseConstant()

	case tokInt, tokFloat, tokString, '-', ':':
		return p.parseLiteral()

	case '[':
		p.next()
		elems, err := p.parseList(']')
		if err != nil {
			return nil, err
		}
		return types.Tuple(elems...), nil

	case '{':
		p.next()
		return p.parseShape()

	case '<':
		p.next()
		kw := p.next()
		switch {
		case kw.kind == tokIdent && kw.text == "Magic":
			if _, err := p.expect('>', "'>'"); err != nil {
				return nil, err
			}
			return types.Magic, nil
		case kw.kind == tokIdent && kw.text == "Type":
			if _, err := p.expect(':', "':'"); err != nil {
				return nil, err
			}
			wrapped, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect('>', "'>'"); err != nil {
				return nil, err
			}
			return types.Meta(wrapped), nil
		}
		return nil, p.errorf(kw, "expected <Type: ...> or <Magic>, got %s", kw)
	}
	return nil, p.errorf(tok, "expected a type, got %s", tok)
}

// parseList parses comma separated types up to and including the closing token
func (p *parser) parseList(closing rune) ([]types.Type, error) {
	var ts []types.Type
	if p.accept(closing) {
		return ts, nil
	}
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
		if p.accept(',') {
			continue
		}
		if _, err := p.expect(closing, fmt.Sprintf("',' or %q", closing)); err != nil {
			return nil, err
		}
		return ts, nil
	}
}

func (p *parser) parseArgs(n int, what string) ([]types.Type, error) {
	open, err := p.expect('(', "'('")
	if err != nil {
		return nil, err
	}
	args, err := p.parseList(')')
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(args) != n {
		return nil, p.errorf(open, "%s takes %d type arguments, got %d", what, n, len(args))
	}
	return args, nil
}

func (p *parser) parseT() (types.Type, error) {
	if p.accept(tokScope) {
		name, err := p.expect(tokIdent, "a name after T::")
		if err != nil {
			return nil, err
		}
		switch name.text {
		case "Boolean":
			return types.Boolean, nil
		case "Array":
			args, err := p.parseBracketArgs(1, "T::Array")
			if err != nil {
				return nil, err
			}
			return types.ArrayOf(args[0]), nil
		case "Hash":
			args, err := p.parseBracketArgs(2, "T::Hash")
			if err != nil {
				return nil, err
			}
			return types.HashOf(args[0], args[1]), nil
		}
		return nil, p.errorf(name, "unknown type T::%s", name.text)
	}

	if _, err := p.expect('.', "'.' or '::' after T"); err != nil {
		return nil, err
	}
	name, err := p.expect(tokIdent, "a name after T.")
	if err != nil {
		return nil, err
	}
	switch name.text {
	case "untyped":
		return types.Untyped, nil
	case "anything":
		return types.Top, nil
	case "noreturn":
		return types.Bottom, nil
	case "nilable":
		args, err := p.parseArgs(1, "T.nilable")
		if err != nil {
			return nil, err
		}
		return types.Lub(p.ctx, types.Nil, args[0]), nil
	case "any", "all":
		args, err := p.parseArgs(-1, "T."+name.text)
		if err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, p.errorf(name, "T.%s takes at least 2 types, got %d", name.text, len(args))
		}
		if name.text == "any" {
			return types.LubAll(p.ctx, args...), nil
		}
		return types.GlbAll(p.ctx, args...), nil
	case "type_parameter":
		if _, err := p.expect('(', "'('"); err != nil {
			return nil, err
		}
		if _, err := p.expect(':', "a symbol"); err != nil {
			return nil, err
		}
		param, err := p.expect(tokIdent, "a type parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(')', "')'"); err != nil {
			return nil, err
		}
		t, err := p.scope.ResolveTypeParameter(param.text)
		if err != nil {
			return nil, errors.Wrapf(err, "in %q", p.src)
		}
		return t, nil
	case "proc":
		return p.parseProc()
	}
	return nil, p.errorf(name, "unknown type T.%s", name.text)
}

func (p *parser) parseBracketArgs(n int, what string) ([]types.Type, error) {
	open, err := p.expect('[', "'['")
	if err != nil {
		return nil, err
	}
	args, err := p.parseList(']')
	if err != nil {
		return nil, err
	}
	if len(args) != n {
		return nil, p.errorf(open, "%s takes %d type arguments, got %d", what, n, len(args))
	}
	return args, nil
}

// parseProc parses what follows `T.proc`: optional `.params(name: Type, ...)` and then `.returns(Type)`
func (p *parser) parseProc() (types.Type, error) {
	var params []types.Type
	start := p.peek()
	if _, err := p.expect('.', "'.params' or '.returns'"); err != nil {
		return nil, err
	}
	kw, err := p.expect(tokIdent, "'params' or 'returns'")
	if err != nil {
		return nil, err
	}
	if kw.text == "params" {
		if _, err := p.expect('(', "'('"); err != nil {
			return nil, err
		}
		for !p.accept(')') {
			if len(params) > 0 {
				if _, err := p.expect(',', "',' or ')'"); err != nil {
					return nil, err
				}
			}
			if _, err := p.expect(tokIdent, "a parameter name"); err != nil {
				return nil, err
			}
			if _, err := p.expect(':', "':'"); err != nil {
				return nil, err
			}
			param, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
		}
		if _, err := p.expect('.', "'.returns'"); err != nil {
			return nil, err
		}
		if err := p.expectIdent("returns"); err != nil {
			return nil, err
		}
	} else if kw.text != "returns" {
		return nil, p.errorf(kw, "expected 'params' or 'returns', got %s", kw)
	}
	result, err := p.parseArgs(1, "returns")
	if err != nil {
		return nil, err
	}
	proc, ok := types.ProcOf(result[0], params...)
	if !ok {
		return nil, p.errorf(start, "procs take at most 2 parameters, got %d", len(params))
	}
	return proc, nil
}

func (p *parser) parseConstant() (types.Type, error) {
	first, err := p.expect(tokIdent, "a constant")
	if err != nil {
		return nil, err
	}
	parts := []string{first.text}
	for p.accept(tokScope) {
		part, err := p.expect(tokIdent, "a name after '::'")
		if err != nil {
			return nil, err
		}
		parts = append(parts, part.text)
	}
	name := strings.Join(parts, "::")
	resolved, err := p.scope.ResolveConstant(name)
	if err != nil {
		return nil, errors.Wrapf(err, "in %q", p.src)
	}
	if p.peek().kind != '[' {
		return resolved, nil
	}

	class, ok := resolved.(*types.ClassType)
	if !ok {
		return nil, p.errorf(first, "%s cannot take type arguments", name)
	}
	arity := p.scope.TypeArity(class.Symbol)
	targs, err := p.parseBracketArgs(arity, name)
	if err != nil {
		return nil, err
	}
	return types.Applied(class.Symbol, targs...), nil
}

func (p *parser) parseLiteral() (types.Type, error) {
	lit, err := p.parseLiteralValue()
	if err != nil {
		return nil, err
	}
	return lit, nil
}

// parseLiteralValue reads 1, -1.5, :sym, "str", true, false or the printed forms Integer(1), Symbol(:sym)...
func (p *parser) parseLiteralValue() (*types.LiteralType, error) {
	tok := p.next()
	switch tok.kind {
	case tokIdent:
		switch tok.text {
		case "true", "false":
			return types.BoolLiteral(tok.text == "true"), nil
		case "Integer", "Float", "String", "Symbol":
			if _, err := p.expect('(', "'('"); err != nil {
				return nil, err
			}
			inner, err := p.parseLiteralValue()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(')', "')'"); err != nil {
				return nil, err
			}
			if tok.text == "Float" && inner.LiteralKind() == types.LitInteger {
				// whole floats print without a fraction
				return types.FloatLiteral(float64(inner.IntValue())), nil
			}
			if inner.Underlying() != wrapperSymbol(tok.text) {
				return nil, p.errorf(tok, "%s(...) cannot wrap %s", tok.text, inner.Value())
			}
			return inner, nil
		}

	case '-':
		num := p.next()
		if (num.kind != tokInt && num.kind != tokFloat) || num.off != tok.off+1 {
			return nil, p.errorf(tok, "expected a number after '-'")
		}
		return p.number("-"+num.text, num)

	case tokInt, tokFloat:
		return p.number(tok.text, tok)

	case tokString:
		s, err := strconv.Unquote(tok.text)
		if err != nil {
			return nil, p.errorf(tok, "bad string literal: %v", err)
		}
		return types.StringLiteral(s), nil

	case ':':
		name := p.next()
		if name.kind == tokString {
			s, err := strconv.Unquote(name.text)
			if err != nil {
				return nil, p.errorf(name, "bad symbol literal: %v", err)
			}
			return types.SymbolLiteral(s), nil
		}
		if name.kind != tokIdent || name.off != tok.off+1 {
			return nil, p.errorf(tok, "expected a symbol name after ':'")
		}
		return types.SymbolLiteral(name.text), nil
	}
	return nil, p.errorf(tok, "expected a literal, got %s", tok)
}

func wrapperSymbol(name string) types.SymbolRef {
	switch name {
	case "Integer":
		return types.Symbols.Integer
	case "Float":
		return types.Symbols.Float
	case "String":
		return types.Symbols.String
	}
	return types.Symbols.Symbol
}

func (p *parser) number(text string, at token) (*types.LiteralType, error) {
	if at.kind == tokInt {
		i, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return nil, p.errorf(at, "bad integer literal: %v", err)
		}
		return types.IntegerLiteral(i), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf(at, "bad float literal: %v", err)
	}
	return types.FloatLiteral(f), nil
}

// parseShape parses shape entries after the opening brace. Keys are `name: T` or `literal => T`.
func (p *parser) parseShape() (types.Type, error) {
	var keys []*types.LiteralType
	var values []types.Type
	for !p.accept('}') {
		if len(keys) > 0 {
			if _, err := p.expect(',', "',' or '}'"); err != nil {
				return nil, err
			}
		}
		at := p.peek()
		var key *types.LiteralType
		if at.kind == tokIdent && p.toks[p.pos+1].kind == ':' && at.text != "true" && at.text != "false" {
			p.next()
			p.next()
			key = types.SymbolLiteral(at.text)
		} else {
			lit, err := p.parseLiteralValue()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokArrow, "'=>'"); err != nil {
				return nil, err
			}
			key = lit
		}
		for _, existing := range keys {
			if existing.Equal(key) {
				return nil, p.errorf(at, "duplicate shape key %s", key.Value())
			}
		}
		value, err := p.parseType()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		values = append(values, value)
	}
	return types.Shape(keys, values), nil
}
