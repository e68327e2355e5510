package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show PIPELINE",
		Short: "Print the last stored report of a pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.appFor(cmd).Show(cmd.Context(), args[0], cmd.OutOrStdout())
			return err
		},
	}
}
