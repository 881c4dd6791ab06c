package typerr

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/cottand/gradual/source"
)

// enableDebugErrorPrinting makes errors include the frame that created them when printed
var enableDebugErrorPrinting = false

const enableDebugFullStacktrace bool = false

// SetDebugPrinting toggles whether FormatWithCode prefixes the creation site
func SetDebugPrinting(enabled bool) { enableDebugErrorPrinting = enabled }

type ErrCode int

const (
	None ErrCode = iota
	UnknownMethod
	UnionMissingMethod
	IntersectionMissingMethod
	ArgumentCount
	ArgumentMismatch
	BoundsMismatch
	IntrinsicMisuse
	MagicMisuse
	NoMethodsOnTop
)

// Error is a type error found while checking. Type errors are values:
// producing one never stops checking.
type Error interface {
	Error() string
	Code() ErrCode
	Loc() source.Loc

	withStack([]byte) Error
	getStack() []byte
}

func FormatWithCode(e Error) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			lines := strings.Split(stack, "\n")
			if len(lines) > 6 {
				stack = strings.TrimSpace(lines[6])
			}
		}
		return fmt.Sprintf("%s:(E%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

func New[E Error](err E) Error {
	return err.withStack(debug.Stack())
}

// ErrorLine is one entry of the explanation attached to a diagnostic
type ErrorLine struct {
	Loc     source.Loc
	Message string
}

type Unclassified struct {
	From  error
	At    source.Loc
	stack []byte
}

func (e Unclassified) Error() string            { return fmt.Sprintf("unclassified error: %v", e.From) }
func (e Unclassified) Code() ErrCode            { return None }
func (e Unclassified) Loc() source.Loc          { return e.At }
func (e Unclassified) getStack() []byte         { return e.stack }
func (e Unclassified) withStack(s []byte) Error { e.stack = s; return e }

type NewUnknownMethod struct {
	At       source.Loc
	Method   string
	Receiver string
	stack    []byte
}

func (e NewUnknownMethod) Error() string {
	return fmt.Sprintf("method `%s` does not exist on `%s`", e.Method, e.Receiver)
}
func (e NewUnknownMethod) Code() ErrCode            { return UnknownMethod }
func (e NewUnknownMethod) Loc() source.Loc          { return e.At }
func (e NewUnknownMethod) getStack() []byte         { return e.stack }
func (e NewUnknownMethod) withStack(s []byte) Error { e.stack = s; return e }

type NewUnionMissingMethod struct {
	At       source.Loc
	Method   string
	Branch   string
	Receiver string
	stack    []byte
}

func (e NewUnionMissingMethod) Error() string {
	return fmt.Sprintf("method `%s` does not exist on `%s` component of `%s`", e.Method, e.Branch, e.Receiver)
}
func (e NewUnionMissingMethod) Code() ErrCode            { return UnionMissingMethod }
func (e NewUnionMissingMethod) Loc() source.Loc          { return e.At }
func (e NewUnionMissingMethod) getStack() []byte         { return e.stack }
func (e NewUnionMissingMethod) withStack(s []byte) Error { e.stack = s; return e }

type NewIntersectionMissingMethod struct {
	At       source.Loc
	Method   string
	Receiver string
	stack    []byte
}

func (e NewIntersectionMissingMethod) Error() string {
	return fmt.Sprintf("method `%s` does not exist on any component of `%s`", e.Method, e.Receiver)
}
func (e NewIntersectionMissingMethod) Code() ErrCode            { return IntersectionMissingMethod }
func (e NewIntersectionMissingMethod) Loc() source.Loc          { return e.At }
func (e NewIntersectionMissingMethod) getStack() []byte         { return e.stack }
func (e NewIntersectionMissingMethod) withStack(s []byte) Error { e.stack = s; return e }

type NewArgumentCount struct {
	At       source.Loc
	Method   string
	Expected string
	Got      int
	stack    []byte
}

func (e NewArgumentCount) Error() string {
	return fmt.Sprintf("wrong number of arguments for `%s`: expected %s, got %d", e.Method, e.Expected, e.Got)
}
func (e NewArgumentCount) Code() ErrCode            { return ArgumentCount }
func (e NewArgumentCount) Loc() source.Loc          { return e.At }
func (e NewArgumentCount) getStack() []byte         { return e.stack }
func (e NewArgumentCount) withStack(s []byte) Error { e.stack = s; return e }

type NewArgumentMismatch struct {
	At       source.Loc
	Method   string
	Index    int
	Expected string
	Got      string
	stack    []byte
}

func (e NewArgumentMismatch) Error() string {
	return fmt.Sprintf("argument %d of `%s` expected `%s` but found `%s`", e.Index, e.Method, e.Expected, e.Got)
}
func (e NewArgumentMismatch) Code() ErrCode            { return ArgumentMismatch }
func (e NewArgumentMismatch) Loc() source.Loc          { return e.At }
func (e NewArgumentMismatch) getStack() []byte         { return e.stack }
func (e NewArgumentMismatch) withStack(s []byte) Error { e.stack = s; return e }

type NewBoundsMismatch struct {
	At            source.Loc
	Variable      string
	Instantiation string
	Bound         string
	stack         []byte
}

func (e NewBoundsMismatch) Error() string {
	return fmt.Sprintf("could not find a type for `%s`: `%s` is not a subtype of its bound `%s`", e.Variable, e.Instantiation, e.Bound)
}
func (e NewBoundsMismatch) Code() ErrCode            { return BoundsMismatch }
func (e NewBoundsMismatch) Loc() source.Loc          { return e.At }
func (e NewBoundsMismatch) getStack() []byte         { return e.stack }
func (e NewBoundsMismatch) withStack(s []byte) Error { e.stack = s; return e }

type NewIntrinsicMisuse struct {
	At      source.Loc
	Method  string
	Problem string
	stack   []byte
}

func (e NewIntrinsicMisuse) Error() string {
	return fmt.Sprintf("bad call to `%s`: %s", e.Method, e.Problem)
}
func (e NewIntrinsicMisuse) Code() ErrCode            { return IntrinsicMisuse }
func (e NewIntrinsicMisuse) Loc() source.Loc          { return e.At }
func (e NewIntrinsicMisuse) getStack() []byte         { return e.stack }
func (e NewIntrinsicMisuse) withStack(s []byte) Error { e.stack = s; return e }

type NewMagicMisuse struct {
	At     source.Loc
	Method string
	stack  []byte
}

func (e NewMagicMisuse) Error() string {
	return fmt.Sprintf("`%s` is not a desugaring method", e.Method)
}
func (e NewMagicMisuse) Code() ErrCode            { return MagicMisuse }
func (e NewMagicMisuse) Loc() source.Loc          { return e.At }
func (e NewMagicMisuse) getStack() []byte         { return e.stack }
func (e NewMagicMisuse) withStack(s []byte) Error { e.stack = s; return e }

type NewNoMethodsOnTop struct {
	At     source.Loc
	Method string
	stack  []byte
}

func (e NewNoMethodsOnTop) Error() string {
	return fmt.Sprintf("cannot call `%s` on a value of type `T.anything`", e.Method)
}
func (e NewNoMethodsOnTop) Code() ErrCode            { return NoMethodsOnTop }
func (e NewNoMethodsOnTop) Loc() source.Loc          { return e.At }
func (e NewNoMethodsOnTop) getStack() []byte         { return e.stack }
func (e NewNoMethodsOnTop) withStack(s []byte) Error { e.stack = s; return e }
