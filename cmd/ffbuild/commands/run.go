package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/ffbuild/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [tasks...]",
		Short: "Run tasks whose targets are out of date",
		Long: "Run the named tasks and the tasks they depend on, skipping those whose targets are up to date.\n" +
			"Without arguments every task runs.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			always, _ := cmd.Flags().GetBool("always")
			return c.app.Run(cmd.Context(), loadOptions(cmd.Flags()), args, app.RunOptions{
				Always: always,
			})
		},
	}
	cmd.Flags().BoolP("always", "a", false, "Run the selected tasks even when they are up to date")
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [tasks...]",
		Short: "Run tasks again whenever their sources change",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			always, _ := cmd.Flags().GetBool("always")
			return c.app.Watch(cmd.Context(), loadOptions(cmd.Flags()), args, app.RunOptions{
				Always: always,
			})
		},
	}
	cmd.Flags().BoolP("always", "a", false, "Run the selected tasks on every change even when they are up to date")
	return cmd
}
