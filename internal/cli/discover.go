package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	sketchnet "LocalSketch/internal/net"
)

func newDiscoverCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List LocalSketch servers on the local network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			logger.Debug("browsing", "service", sketchnet.ServiceType, "timeout", timeout)

			seen := make(map[string]bool)
			err := sketchnet.Browse(cmd.Context(), timeout, func(p sketchnet.Peer) {
				if seen[p.Addr] {
					return
				}
				seen[p.Addr] = true
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.Instance, p.URL())
			})
			if err != nil {
				return err
			}
			if len(seen) == 0 {
				logger.Info("no servers found")
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "how long to wait for answers")
	return cmd
}
