// Package cli implements the localsketch command line.
//
// The desktop command (the default) opens the fyne window. serve hosts the
// same drawing surface for browsers over WebSocket and advertises it with
// mDNS; discover lists servers found on the local network.
//
// All commands accept --config for a TOML settings file and --verbose for
// debug logging. The loaded config and the logger travel in the command
// context.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"LocalSketch/internal/config"
)

// Execute runs the CLI with ctx as the base context of every command.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stderr).ExecuteContext(ctx)
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	desktop := newDesktopCmd()
	root := &cobra.Command{
		Use:          "localsketch",
		Short:        "LocalSketch is a freehand drawing board for the local network",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			level := cfg.LogLevel()
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(logOut, level)
			if configPath != "" {
				logger.Debug("config loaded", "path", configPath)
			}
			ctx := withConfig(cmd.Context(), cfg)
			cmd.SetContext(withLogger(ctx, logger))
			return nil
		},
		RunE: desktop.RunE,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(desktop)
	root.AddCommand(newServeCmd())
	root.AddCommand(newDiscoverCmd())
	return root
}
