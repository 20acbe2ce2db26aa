package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielpatrickdp/pattern-recognition/internal/logging"
	"github.com/danielpatrickdp/pattern-recognition/internal/transport"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve one session over gRPC",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			sess, cleanup, err := openSession(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := transport.NewServer(sess, logging.GetLogger(logging.ModuleTransport))
			return srv.Serve(ctx, cfg.Server.Addr)
		},
	}
	addSessionFlags(cmd.Flags())
	cmd.Flags().String("addr", "localhost:50061", "listen address")
	return cmd
}
