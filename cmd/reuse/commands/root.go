// Package commands implements the CLI commands for the reuse caching verifier.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/reuse/internal/adapters/render"
	"go.trai.ch/reuse/internal/app"
	"go.trai.ch/reuse/internal/build"
	"go.trai.ch/reuse/internal/core/domain"
)

// CLI represents the command line interface for reuse.
type CLI struct {
	app     *app.App
	levels  app.LevelSetter
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app. levels may be nil.
func New(a *app.App, levels app.LevelSetter) *CLI {
	rootCmd := &cobra.Command{
		Use:           "reuse",
		Short:         "Verify that an incremental pipeline reuses its cached results",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	// Registered before the version flag so -v stays with verbose.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Write reports as JSON")

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		levels:  levels,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose && c.levels != nil {
			c.levels.SetLevel(domain.LogLevelDebug)
		}
	}

	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newAnalyzeCmd())
	rootCmd.AddCommand(c.newShowCmd())
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

// appFor returns the app configured by the command's output flags.
func (c *CLI) appFor(cmd *cobra.Command) *app.App {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return c.app.WithRenderer(render.NewJSON())
	}
	return c.app
}

// SetOutput sets the writer for command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
}
