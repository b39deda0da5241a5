// Command typegen prints generated values of catalog types, for eyeballing
// distributions and seeding fixtures.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/shipq/typegen/cli"
	"github.com/shipq/typegen/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "typegen",
		Short:         "Generate random values from type descriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSampleCmd(), newTypesCmd(), newSeedCmd())
	return root
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the catalog type names",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			p := cli.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			for _, name := range catalogNames() {
				p.Info(name)
			}
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <test name>",
		Short: "Print the default seed of a property test",
		Long: `Print the default seed of a property test, derived from its name.
Pass it as TYPEGEN_SEED to replay the test's first case.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			p := cli.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			p.Infof("%d", config.SeedFromName(args[0]))
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		cli.FatalErr("typegen", err)
	}
}
