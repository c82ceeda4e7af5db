package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/ffbuild/internal/app"
)

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, _ := cmd.Flags().GetBool("status")
			return c.app.List(cmd.Context(), loadOptions(cmd.Flags()), app.ListOptions{Status: status})
		},
	}
	cmd.Flags().BoolP("status", "s", false, "Show whether each task would run (R) or is up to date (U)")
	return cmd
}

func (c *CLI) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <task>",
		Short: "Show the definition and status of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Info(cmd.Context(), loadOptions(cmd.Flags()), args[0])
		},
	}
}
