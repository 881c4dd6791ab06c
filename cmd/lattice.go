package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// runQuery loads the universe and prints the answer to q
func runQuery(cmd *cobra.Command, flags *rootFlags, q query) error {
	e, err := flags.load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	out, err := e.run(q)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func newSubtypeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "subtype A B",
		Short: "Print whether A is a subtype of B",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, flags, query{Op: "subtype", Args: args})
		},
	}
}

func newEquivCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "equiv A B",
		Short: "Print whether A and B are subtypes of each other",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, flags, query{Op: "equiv", Args: args})
		},
	}
}

func newLubCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lub A B [C...]",
		Short: "Print the least upper bound of the given types",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, flags, query{Op: "lub", Args: args})
		},
	}
}

func newGlbCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "glb A B [C...]",
		Short: "Print the greatest lower bound of the given types",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, flags, query{Op: "glb", Args: args})
		},
	}
}

func newSubtractCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "subtract FROM WHAT",
		Short: "Print FROM without the parts of it that are WHAT",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, flags, query{Op: "subtract", Args: args})
		},
	}
}

func newShowCmd(flags *rootFlags) *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "show T",
		Short: "Print T in its user and debug forms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, flags, query{Op: "show", Args: args, Dump: dump})
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "also dump the raw type nodes")
	return cmd
}
