package cli

import (
	"github.com/spf13/cobra"

	"LocalSketch/internal/ui"
)

func newDesktopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "desktop",
		Short: "Open the drawing board in a desktop window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg := configFromContext(cmd.Context())
			ui.RunApp(cfg.SurfaceOptions(logger), logger)
			return nil
		},
	}
}
