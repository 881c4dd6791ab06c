package cmd

import (
	"github.com/spf13/cobra"
)

func newDispatchCmd(flags *rootFlags) *cobra.Command {
	var block bool
	cmd := &cobra.Command{
		Use:   "dispatch RECV METHOD [ARG...]",
		Short: "Resolve a call of METHOD on RECV with arguments of the given types",
		Long: `dispatch prints the result type of the call, then any type errors.
With --block an empty block is passed and the block type the method expects is printed.`,
		Example: `  gradual dispatch 'T::Array[Integer]' map --block
  gradual dispatch Integer + Float`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := query{
				Op:     "dispatch",
				Args:   append([]string{args[0]}, args[2:]...),
				Method: args[1],
				Block:  block,
			}
			return runQuery(cmd, flags, q)
		},
	}
	cmd.Flags().BoolVar(&block, "block", false, "pass a block and print its expected type")
	return cmd
}
