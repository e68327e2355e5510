package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/reuse/internal/app"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the configured pipeline twice and check its cache reuse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			_, err := c.appFor(cmd).Check(cmd.Context(), app.CheckOptions{
				ConfigPath: configPath,
				Out:        cmd.OutOrStdout(),
			})
			return err
		},
	}
	cmd.Flags().StringP("config", "c", ".", "Path to reuse.yaml or a directory to search from")
	return cmd
}
