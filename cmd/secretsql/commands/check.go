package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/secretsql/internal/config"
	"github.com/systmms/secretsql/pkg/secretdriver"
)

// NewCheckCommand verifies that a secret identifier resolves to a
// credential record of the expected shape. Secret values are never
// printed.
func NewCheckCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check <secret-id>",
		Short: "Verify that a secret resolves to a usable credential record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			secretID := args[0]

			cache, err := buildSecretCache(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			secretString, err := cache.GetSecretString(cmd.Context(), secretID)
			if err != nil {
				return err
			}
			if secretString == "" {
				cfg.Logger.Error("secret %q not found", secretID)
				return fmt.Errorf("secret %q could not be resolved", secretID)
			}

			creds, err := secretdriver.ParseCredentials(secretString)
			if err != nil {
				cfg.Logger.Error("secret %q resolved but did not parse: %v", secretID, err)
				return err
			}

			cfg.Logger.Info("secret %q resolves to a valid credential record", secretID)
			cfg.Logger.Info("username: present, password: present")
			if creds.Host != "" {
				endpoint := creds.Host
				if creds.Port.String() != "" {
					endpoint += ":" + creds.Port.String()
				}
				cfg.Logger.Info("endpoint: %s database: %s", endpoint, creds.Database)
			} else {
				cfg.Logger.Warn("no host in payload; secret is usable for credentials only, not URL resolution")
			}
			return nil
		},
	}
}
