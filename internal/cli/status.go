package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check a running advisor server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: 5 * time.Second}

			resp, err := client.Get(serverURL + "/api/health")
			if err != nil {
				return fmt.Errorf("server unreachable: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server returned status %d", resp.StatusCode)
			}

			var health struct {
				Status        string          `json:"status"`
				Timestamp     string          `json:"timestamp"`
				Provider      string          `json:"provider"`
				Configuration map[string]bool `json:"configuration"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
				return fmt.Errorf("failed to parse health response: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Status:    %s\n", health.Status)
			fmt.Fprintf(out, "Provider:  %s\n", health.Provider)
			fmt.Fprintf(out, "Timestamp: %s\n", health.Timestamp)

			keys := make([]string, 0, len(health.Configuration))
			for k := range health.Configuration {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "  %-12s %v\n", k+":", health.Configuration[k])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:3000", "advisor server URL")

	return cmd
}
