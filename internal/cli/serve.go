package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soyeahso/advisor/internal/advisor"
	"github.com/soyeahso/advisor/internal/config"
	"github.com/soyeahso/advisor/internal/gateway"
	"github.com/soyeahso/advisor/internal/logging"
	"github.com/soyeahso/advisor/internal/provider"
	"github.com/soyeahso/advisor/internal/session"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the advisor server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			if logLevel == "" {
				log = logging.New(nil, cfg.Logging.Level)
			}

			if issues := config.Validate(&cfg); len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			client, info, err := provider.Resolve(cfg.Provider, log)
			if err != nil {
				return err
			}

			store, err := openStore(cfg.Session, log)
			if err != nil {
				return err
			}
			if closer, ok := store.(io.Closer); ok {
				defer closer.Close()
			}

			runner := advisor.NewRunner(store, client, log)
			srv := gateway.New(cfg.Server, runner, info, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")

	return cmd
}

// openStore builds the configured session store backend.
func openStore(cfg config.SessionConfig, log *logging.Logger) (session.Store, error) {
	idleTTL := time.Duration(cfg.IdleMinutes) * time.Minute

	switch cfg.Store {
	case "sqlite":
		return session.OpenSQLite(cfg.DBPath, cfg.MaxMessages, idleTTL, log)
	default:
		return session.NewMemoryStore(cfg.MaxMessages, idleTTL, log), nil
	}
}
