package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/cottand/gradual/internal/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type queryFile struct {
	Query []query `toml:"query"`
}

func loadQueries(path string) ([]query, error) {
	var file queryFile
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	return file.Query, nil
}

func newCheckCmd(flags *rootFlags) *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "check queries.toml",
		Short: "Answer every [[query]] of a file",
		Long: `check runs each [[query]] entry of the file in its own episode, in parallel,
and prints the answers in file order. An entry has an op (subtype, equiv, lub,
glb, subtract, show or dispatch), its type args, and for dispatch a method.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, err := loadQueries(args[0])
			if err != nil {
				return err
			}
			e, err := flags.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			answers, err := e.runAll(cmd.Context(), queries, jobs)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, q := range queries {
				if _, err := fmt.Fprintf(out, "== %s\n%s\n", q, answers[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "queries answered at once")
	return cmd
}

// runAll answers queries concurrently, at most jobs at a time. The table is
// only read, and every query gets its own episode.
func (e *env) runAll(ctx context.Context, queries []query, jobs int) ([]string, error) {
	answers := make([]string, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, q := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			answer, err := e.run(q)
			if err != nil {
				return errors.Wrapf(err, "query %d (%s)", i+1, q)
			}
			answers[i] = answer
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	e.opts.Logger.Debug("checked queries", "section", log.SectionCLI, "count", len(queries), "jobs", jobs)
	return answers, nil
}
