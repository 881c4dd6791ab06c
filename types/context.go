package types

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cottand/gradual/internal/log"
	"github.com/cottand/gradual/internal/metrics"
)

// Options are the settings of a checking episode
type Options struct {
	// Debug turns caller-bug checks (see Enforce) into panics
	Debug   bool
	Logger  *slog.Logger
	Metrics *metrics.Instruments
}

// DefaultOptions reads GRADUAL_DEBUG from the environment
func DefaultOptions() Options {
	debug := os.Getenv("GRADUAL_DEBUG")
	return Options{
		Debug:   debug != "" && debug != "0" && debug != "false",
		Logger:  log.DefaultLogger,
		Metrics: metrics.Default(),
	}
}

// Context is threaded through every lattice and dispatch operation.
// It is either a *Ctx, which may record bounds into its ConstraintStore,
// or a FrozenCtx, which only reads a snapshot of it.
type Context interface {
	Symbols() SymbolTable
	Logger() *slog.Logger
	IsFrozen() bool
	// Freeze returns a read-only view of the current inference state
	Freeze() FrozenCtx

	options() *Options
	view() storeView
	// store is nil for frozen contexts
	store() *ConstraintStore
}

var (
	_ Context = (*Ctx)(nil)
	_ Context = FrozenCtx{}
)

// Ctx is the mutable context of one inference episode. It is not safe for concurrent use;
// independent episodes should each have their own Ctx.
type Ctx struct {
	symbols     SymbolTable
	opts        Options
	logger      *slog.Logger
	constraints *ConstraintStore
}

func NewCtx(symbols SymbolTable, opts Options) *Ctx {
	if opts.Logger == nil {
		opts.Logger = log.DefaultLogger
	}
	ctx := &Ctx{
		symbols:     symbols,
		opts:        opts,
		constraints: newConstraintStore(),
	}
	ctx.logger = slog.New(typeLogHandler(symbols, opts.Logger.Handler())).With("episode", ctx.constraints.episode)
	return ctx
}

func (c *Ctx) Symbols() SymbolTable          { return c.symbols }
func (c *Ctx) Logger() *slog.Logger          { return c.logger }
func (c *Ctx) IsFrozen() bool                { return false }
func (c *Ctx) options() *Options             { return &c.opts }
func (c *Ctx) view() storeView               { return c.constraints.view() }
func (c *Ctx) store() *ConstraintStore       { return c.constraints }
func (c *Ctx) Constraints() *ConstraintStore { return c.constraints }

func (c *Ctx) Freeze() FrozenCtx {
	return FrozenCtx{
		symbols: c.symbols,
		opts:    &c.opts,
		logger:  c.logger,
		snap:    c.constraints.view(),
	}
}

// NewTypeVar creates a fresh inference variable in this episode
func (c *Ctx) NewTypeVar(name string) *TypeVar {
	return c.constraints.newTypeVar(Name(name))
}

// FrozenCtx is a read-only snapshot of a Ctx. Subtype checks under it never record bounds.
type FrozenCtx struct {
	symbols SymbolTable
	opts    *Options
	logger  *slog.Logger
	snap    storeView
}

// NewFrozenCtx returns a context with no inference variables
func NewFrozenCtx(symbols SymbolTable, opts Options) FrozenCtx {
	return NewCtx(symbols, opts).Freeze()
}

func (f FrozenCtx) Symbols() SymbolTable    { return f.symbols }
func (f FrozenCtx) Logger() *slog.Logger    { return f.logger }
func (f FrozenCtx) IsFrozen() bool          { return true }
func (f FrozenCtx) Freeze() FrozenCtx       { return f }
func (f FrozenCtx) options() *Options       { return f.opts }
func (f FrozenCtx) view() storeView         { return f.snap }
func (f FrozenCtx) store() *ConstraintStore { return nil }

// Enforce panics with the formatted message if cond is false and the context
// runs with Options.Debug. Without Debug the check is skipped.
//
// Use it only for conditions a correct caller can never violate.
func Enforce(ctx Context, cond bool, format string, args ...any) {
	if cond || !ctx.options().Debug {
		return
	}
	msg := fmt.Sprintf(format, args...)
	ctx.Logger().Error("invariant violated", "msg", msg)
	panic("gradual: " + msg)
}
