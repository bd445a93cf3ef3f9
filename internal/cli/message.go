package cli

import (
	"fmt"
	"strings"

	"github.com/soyeahso/advisor/internal/advisor"
	"github.com/soyeahso/advisor/internal/config"
	"github.com/soyeahso/advisor/internal/provider"
	"github.com/soyeahso/advisor/internal/render"
	"github.com/soyeahso/advisor/internal/session"
	"github.com/spf13/cobra"
)

func newMessageCmd() *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "message [text...]",
		Short: "Send a single message and print the reply",
		Long:  "Sends one message through the configured provider without starting the server. Useful for smoke-testing credentials.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if issues := config.Validate(&cfg); len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			client, _, err := provider.Resolve(cfg.Provider, log)
			if err != nil {
				return err
			}

			// One-shot session, no persistence needed.
			store := session.NewMemoryStore(cfg.Session.MaxMessages, 0, log)
			runner := advisor.NewRunner(store, client, log)

			text := strings.Join(args, " ")
			result, err := runner.Chat(cmd.Context(), "", text)
			if err != nil {
				return err
			}

			if asHTML {
				fmt.Fprintln(cmd.OutOrStdout(), render.Render(result.Reply))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), result.Reply)
			}
			log.Debug().Dur("duration", result.Duration).Str("token", result.Token).Msg("one-shot chat done")
			return nil
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "print the rendered HTML instead of raw text")

	return cmd
}
