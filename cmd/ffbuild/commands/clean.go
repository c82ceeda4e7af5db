package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/ffbuild/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [tasks...]",
		Short: "Remove the targets of tasks",
		Long: "Remove the targets of the named tasks, dependents first. Tasks without the clean flag are skipped.\n" +
			"Without arguments every task is cleaned.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			cleanDeps, _ := cmd.Flags().GetBool("clean-dep")
			return c.app.Clean(cmd.Context(), loadOptions(cmd.Flags()), args, app.CleanOptions{
				DryRun:    dryRun,
				CleanDeps: cleanDeps,
			})
		},
	}
	cmd.Flags().BoolP("dry-run", "n", false, "List the targets that would be removed")
	cmd.Flags().Bool("clean-dep", false, "Also clean the tasks the named tasks depend on")
	return cmd
}

func (c *CLI) newForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget [tasks...]",
		Short: "Drop the recorded dependency state of tasks",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Forget(cmd.Context(), loadOptions(cmd.Flags()), args)
		},
	}
}
