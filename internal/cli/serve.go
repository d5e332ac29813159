package cli

import (
	"net"

	"github.com/spf13/cobra"

	"LocalSketch/internal/errors"
	sketchnet "LocalSketch/internal/net"
)

func newServeCmd() *cobra.Command {
	var (
		addr   string
		noMDNS bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the drawing board to browsers on the local network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if noMDNS {
				cfg.Server.MDNS = false
			}

			ln, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return errors.Wrap(errors.ErrCodeNetwork, err, "listen on %s", cfg.Server.Addr)
			}
			port := ln.Addr().(*net.TCPAddr).Port

			if url, err := sketchnet.ShareURL(ln.Addr().String()); err == nil {
				logger.Info("share this link", "url", url)
			}
			if cfg.Server.MDNS {
				mdns, err := sketchnet.Advertise(port)
				if err != nil {
					logger.Warn("mDNS advertise failed", "err", err)
				} else {
					defer mdns.Shutdown()
					logger.Debug("advertising", "service", sketchnet.ServiceType, "port", port)
				}
			}

			srv := sketchnet.NewServer(cfg.SurfaceOptions(logger), logger)
			return srv.Serve(ctx, ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8888", "listen address")
	cmd.Flags().BoolVar(&noMDNS, "no-mdns", false, "do not advertise the server with mDNS")
	return cmd
}
