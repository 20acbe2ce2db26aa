package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/danielpatrickdp/pattern-recognition/internal/render"
	"github.com/danielpatrickdp/pattern-recognition/internal/session"
	"github.com/danielpatrickdp/pattern-recognition/internal/transport"
	"github.com/spf13/cobra"
)

func remoteCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "remote (show | toggle N | correct RANK | reset)",
		Short: "drive a served session",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, err := transport.NewClient(cfg.Server.Addr)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			snap, err := remoteCall(ctx, client, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if snap.Decision != "" {
				fmt.Fprintf(out, "decision: %s\n", snap.Decision)
			}
			local := session.Snapshot{
				ID:      snap.SessionID,
				Width:   snap.Width,
				Height:  snap.Height,
				Ranking: snap.Ranking,
				Query:   snap.Query,
			}
			if err := render.Grid(out, local); err != nil {
				return err
			}
			return render.Ranking(out, snap.Ranking, 5)
		},
	}
	cmd.Flags().String("addr", "localhost:50061", "server address")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "per-call timeout")
	return cmd
}

func remoteCall(ctx context.Context, client *transport.Client, args []string) (transport.RemoteSnapshot, error) {
	arg := func() (int, error) {
		if len(args) != 2 {
			return 0, fmt.Errorf("%s needs one number", args[0])
		}
		return strconv.Atoi(args[1])
	}
	switch args[0] {
	case "show":
		return client.Snapshot(ctx)
	case "reset":
		return client.Reset(ctx)
	case "toggle":
		n, err := arg()
		if err != nil {
			return transport.RemoteSnapshot{}, err
		}
		return client.Toggle(ctx, n)
	case "correct":
		n, err := arg()
		if err != nil {
			return transport.RemoteSnapshot{}, err
		}
		return client.Correct(ctx, n)
	}
	return transport.RemoteSnapshot{}, fmt.Errorf("unknown remote command %q", args[0])
}
