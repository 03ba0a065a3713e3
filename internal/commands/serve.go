package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-addressform/internal/server"
	"github.com/goliatone/go-addressform/pkg/bitmap"
)

type serveOptions struct {
	addr string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve address forms over HTTP",
		Example: `  addressform serve -c addressform.yaml
  addressform serve --addr 127.0.0.1:9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Logger.Sync() }()

			cfg := s.Config
			if opts.addr != "" {
				cfg.Server.Addr = opts.addr
			}
			if len(cfg.Images.AllowedHosts) == 0 {
				s.Logger.Warn("images.allowed_hosts is empty, thumbnails accept any host")
			}
			bitmap.SetLogger(s.Logger.Named("bitmap"))

			themes, err := newThemeSelector(cfg.Theme)
			if err != nil {
				return err
			}

			srv, err := server.New(s.Repo,
				server.WithLogger(s.Logger),
				server.WithDefaultLocale(cfg.Address.Locale),
				server.WithImageLoader(newImageLoader(cfg, s.Logger.Named("images"), nil)),
				server.WithThemeSelector(themes),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s.Logger.Info("starting addressform",
				zap.String("version", Version),
				zap.Strings("countries", s.Repo.Countries()),
			)
			return srv.Run(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout.Std(), cfg.Server.WriteTimeout.Std())
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}
