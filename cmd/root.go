package cmd

import (
	"io"

	"github.com/cottand/gradual/internal/log"
	"github.com/cottand/gradual/internal/metrics"
	"github.com/cottand/gradual/symtab"
	"github.com/cottand/gradual/typerr"
	"github.com/cottand/gradual/types"
	"github.com/cottand/gradual/typexpr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	universes []string
	logLevel  string
	sections  []string
	debug     bool
}

// NewRootCmd returns the gradual command with every subcommand attached
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "gradual [subcommand]",
		Short: "Query a gradual type lattice",
		Long: `gradual answers subtyping, lattice and dispatch questions about
Sorbet-style types, over the builtin universe plus any universe files given.`,
		Example: `  gradual subtype Integer T.nilable(Numeric)
  gradual lub Integer Float
  gradual --universe zoo.toml dispatch 'Box[Dog]' get`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(flags.logLevel)
			if err != nil {
				return errors.Wrapf(err, "invalid --log-level %q", flags.logLevel)
			}
			log.SetLevel(level)
			log.EnableSections(flags.sections...)
			typerr.SetDebugPrinting(flags.debug)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringArrayVarP(&flags.universes, "universe", "u", nil, "universe file to load on top of the builtins, may be repeated")
	pf.StringVarP(&flags.logLevel, "log-level", "l", "warn", "log level: debug, info, warn or error")
	pf.StringSliceVar(&flags.sections, "log-sections", []string{log.SectionCLI}, "log sections to show below warn, or all")
	pf.BoolVar(&flags.debug, "debug", false, "panic on caller bugs instead of degrading, and print where type errors were raised")

	root.AddCommand(
		newSubtypeCmd(flags),
		newEquivCmd(flags),
		newLubCmd(flags),
		newGlbCmd(flags),
		newSubtractCmd(flags),
		newShowCmd(flags),
		newDispatchCmd(flags),
		newCheckCmd(flags),
	)
	return root
}

// Execute runs the root command against the process arguments
func Execute() error {
	return NewRootCmd().Execute()
}

// env is what every query runs against: a loaded table and the options of new episodes
type env struct {
	table *symtab.Table
	opts  types.Options
}

func (f *rootFlags) load(stderr io.Writer) (*env, error) {
	logger := log.New(stderr)
	table, err := symtab.NewUniverse()
	if err != nil {
		return nil, err
	}
	table.WithLogger(logger)
	for _, path := range f.universes {
		if err := table.LoadFile(path); err != nil {
			return nil, err
		}
	}
	logger.Debug("loaded universe", "section", log.SectionCLI, "files", f.universes)
	return &env{
		table: table,
		opts: types.Options{
			Debug:   f.debug,
			Logger:  logger,
			Metrics: metrics.Default(),
		},
	}, nil
}

// episode starts a fresh checking episode
func (e *env) episode() *types.Ctx {
	return types.NewCtx(e.table, e.opts)
}

func (e *env) parse(ctx types.Context, src string) (types.Type, error) {
	t, err := typexpr.Parse(ctx.Freeze(), e.table.Scope(), src)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %q", src)
	}
	return t, nil
}

func (e *env) parseAll(ctx types.Context, srcs []string) ([]types.Type, error) {
	out := make([]types.Type, len(srcs))
	for i, src := range srcs {
		t, err := e.parse(ctx, src)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
