package cli

import (
	"github.com/spf13/cobra"

	"github.com/shopadmin/backoffice/internal/infrastructure/config"
	"github.com/shopadmin/backoffice/internal/server"
	"github.com/shopadmin/backoffice/pkg/logger"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the back-office API server",
		Long: `Starts the back-office API server. Configuration comes from the
environment (and a .env file in development). Usage:

	backoffice serve
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  cfg.IsDevelopment(),
				Service: "backoffice",
			})
			log := logger.Get()

			srv, err := server.New(ctx, cfg, log)
			if err != nil {
				log.Error().Err(err).Msg("failed to start server")
				return err
			}
			if err := srv.Start(ctx); err != nil {
				log.Error().Err(err).Msg("server error")
				return err
			}
			return nil
		},
	}
}
