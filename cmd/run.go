package cmd

import (
	"github.com/spf13/cobra"

	"github.com/examdesk/examdesk/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive client",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	d.log.Info().Str("api_url", d.cfg.APIURL).Str("version", version).Msg("starting")
	return app.Run(ctx, d.env(ctx))
}
