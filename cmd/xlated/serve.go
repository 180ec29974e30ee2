package main

import (
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xlate/xlate/internal/server"
)

func newServeCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.initialize(); err != nil {
				return err
			}
			defer app.detach()

			conversion, err := app.buildConversion(cmd.Context())
			if err != nil {
				return err
			}

			srv := server.New(conversion, app.logger, server.Config{
				Addr:            app.cfg.Server.Addr,
				ShutdownTimeout: app.cfg.Server.ShutdownTimeout,
				Debug:           app.logger.IsLevelEnabled(logrus.DebugLevel),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx)
		},
	}
}
