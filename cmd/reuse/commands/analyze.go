package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/reuse/internal/app"
)

func (c *CLI) newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze FIRST SECOND",
		Short: "Check cache reuse between two recorded trace files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, _ := cmd.Flags().GetString("pipeline")
			configPath, _ := cmd.Flags().GetString("config")
			_, err := c.appFor(cmd).Analyze(cmd.Context(), app.AnalyzeOptions{
				FirstTrace:  args[0],
				SecondTrace: args[1],
				Pipeline:    pipeline,
				ConfigPath:  configPath,
				Out:         cmd.OutOrStdout(),
			})
			return err
		},
	}
	cmd.Flags().StringP("pipeline", "p", app.DefaultTracePipeline, "Name of the traced pipeline")
	cmd.Flags().StringP("config", "c", "", "Optional reuse.yaml supplying analysis settings")
	return cmd
}
