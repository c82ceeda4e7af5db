// Package commands implements the CLI commands for the ffbuild task runner.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.trai.ch/ffbuild/internal/app"
	"go.trai.ch/ffbuild/internal/build"
	"go.trai.ch/ffbuild/internal/core/ports"
)

// CLI represents the command line interface for ffbuild.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts ports.LoadOptions, names []string, runOpts app.RunOptions) error
	List(ctx context.Context, opts ports.LoadOptions, listOpts app.ListOptions) error
	Info(ctx context.Context, opts ports.LoadOptions, name string) error
	Clean(ctx context.Context, opts ports.LoadOptions, names []string, cleanOpts app.CleanOptions) error
	Forget(ctx context.Context, opts ports.LoadOptions, names []string) error
	Watch(ctx context.Context, opts ports.LoadOptions, names []string, runOpts app.RunOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "ffbuild",
		Short:         "Rebuild the Fama-French 1993 factors from CRSP and Compustat",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to the project file (default: ffbuild.yaml, ffbuild.yml or ffbuild.toml)")
	flags.String("data-dir", "", "Override the data directory (env DATA_DIR)")
	flags.String("output-dir", "", "Override the output directory (env OUTPUT_DIR)")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newInfoCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newForgetCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// loadOptions reads the global flags. The project is searched in the working directory.
func loadOptions(flags *pflag.FlagSet) ports.LoadOptions {
	configFile, _ := flags.GetString("config")
	dataDir, _ := flags.GetString("data-dir")
	outputDir, _ := flags.GetString("output-dir")
	return ports.LoadOptions{
		Dir:        ".",
		ConfigFile: configFile,
		DataDir:    dataDir,
		OutputDir:  outputDir,
	}
}
