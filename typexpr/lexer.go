package typexpr

import (
	"fmt"
	"strings"
	"text/scanner"
)

const (
	tokEOF    = scanner.EOF
	tokIdent  = scanner.Ident
	tokInt    = scanner.Int
	tokFloat  = scanner.Float
	tokString = scanner.String

	// multi-character punctuation, merged after scanning
	tokScope = -100 - iota
	tokArrow
)

type token struct {
	kind rune
	text string
	off  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokScope:
		return "'::'"
	case tokArrow:
		return "'=>'"
	}
	return fmt.Sprintf("%q", t.text)
}

// SyntaxError is returned for malformed type expressions
type SyntaxError struct {
	Src    string
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("type expression %q, at offset %d: %s", e.Src, e.Offset, e.Msg)
}

func tokenize(src string) ([]token, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings
	var scanErr *SyntaxError
	s.Error = func(s *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = &SyntaxError{Src: src, Offset: s.Pos().Offset, Msg: msg}
		}
	}

	var toks []token
	for {
		kind := s.Scan()
		tok := token{kind: kind, text: s.TokenText(), off: s.Position.Offset}
		if n := len(toks); n > 0 {
			prev := toks[n-1]
			adjacent := prev.off+len(prev.text) == tok.off
			switch {
			case adjacent && prev.kind == ':' && kind == ':':
				toks[n-1] = token{kind: tokScope, text: "::", off: prev.off}
				continue
			case adjacent && prev.kind == '=' && kind == '>':
				toks[n-1] = token{kind: tokArrow, text: "=>", off: prev.off}
				continue
			}
		}
		toks = append(toks, tok)
		if kind == tokEOF {
			break
		}
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return toks, nil
}
