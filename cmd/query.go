package cmd

import (
	"fmt"
	"strings"

	"github.com/cottand/gradual/typerr"
	"github.com/cottand/gradual/types"
	"github.com/kr/pretty"
	"github.com/pkg/errors"
)

// query is one question asked of the lattice. Subcommands build one from
// their arguments, check reads them from a file.
type query struct {
	Op     string   `toml:"op"`
	Args   []string `toml:"args"`
	Method string   `toml:"method"`
	Block  bool     `toml:"block"`
	Dump   bool     `toml:"dump"`
}

var queryArity = map[string]int{
	"subtype":  2,
	"equiv":    2,
	"subtract": 2,
	"show":     1,
	"lub":      -2,
	"glb":      -2,
	"dispatch": -1,
}

func (q query) String() string {
	parts := []string{q.Op}
	if q.Op == "dispatch" && len(q.Args) > 0 {
		parts = append(parts, q.Args[0], q.Method)
		parts = append(parts, q.Args[1:]...)
	} else {
		parts = append(parts, q.Args...)
	}
	return strings.Join(parts, " ")
}

func (q query) validate() error {
	n, ok := queryArity[q.Op]
	if !ok {
		return errors.Errorf("unknown op %q", q.Op)
	}
	if n >= 0 && len(q.Args) != n {
		return errors.Errorf("%s takes %d types, got %d", q.Op, n, len(q.Args))
	}
	if n < 0 && len(q.Args) < -n {
		return errors.Errorf("%s takes at least %d types, got %d", q.Op, -n, len(q.Args))
	}
	if q.Op == "dispatch" && q.Method == "" {
		return errors.New("dispatch needs a method")
	}
	return nil
}

// run answers q in a fresh episode and returns the answer as printed text,
// without a trailing newline
func (e *env) run(q query) (string, error) {
	if err := q.validate(); err != nil {
		return "", err
	}
	ctx := e.episode()
	ts, err := e.parseAll(ctx, q.Args)
	if err != nil {
		return "", err
	}

	switch q.Op {
	case "subtype":
		return fmt.Sprint(types.IsSubType(ctx, ts[0], ts[1])), nil
	case "equiv":
		return fmt.Sprint(types.Equiv(ctx, ts[0], ts[1])), nil
	case "lub":
		return types.Show(ctx, types.LubAll(ctx, ts...)), nil
	case "glb":
		return types.Show(ctx, types.GlbAll(ctx, ts...)), nil
	case "subtract":
		return types.Show(ctx, types.ApproximateSubtract(ctx, ts[0], ts[1])), nil
	case "show":
		out := types.Show(ctx, ts[0]) + "\n" + types.DebugString(ctx, ts[0], 0)
		if q.Dump {
			out += "\n" + pretty.Sprint(ts[0])
		}
		return out, nil
	case "dispatch":
		return e.dispatch(ctx, ts[0], q.Method, ts[1:], q.Block), nil
	}
	panic("unreachable: validated op " + q.Op)
}

func (e *env) dispatch(ctx *types.Ctx, recv types.Type, method string, args []types.Type, withBlock bool) string {
	call := types.CallArgs{Name: types.Name(method)}
	for _, arg := range args {
		call.Args = append(call.Args, types.Typed(arg))
	}
	var block types.Type
	if withBlock {
		call.Block = &block
	}

	res := types.DispatchCall(ctx, recv, call)
	lines := []string{types.Show(ctx, res.Type)}
	if withBlock && block != nil {
		lines = append(lines, "block: "+types.Show(ctx, block))
	}
	for _, err := range res.Errors.Errors() {
		lines = append(lines, typerr.FormatWithCode(err))
	}
	for _, arg := range call.Args {
		arg.Release(ctx)
	}
	return strings.Join(lines, "\n")
}
