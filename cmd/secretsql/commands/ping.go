package commands

import (
	"database/sql/driver"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/secretsql/internal/config"
	sserrors "github.com/systmms/secretsql/internal/errors"
	"github.com/systmms/secretsql/pkg/secretdriver"
	"github.com/systmms/secretsql/pkg/secretdriver/dialect"
)

// NewPingCommand opens one connection through the proxy and reports
// whether the database answered.
func NewPingCommand(cfg *config.Config) *cobra.Command {
	var (
		subprefix string
		secretID  string
	)

	cmd := &cobra.Command{
		Use:   "ping <url>",
		Short: "Open a connection through the proxy and ping the database",
		Long: `Opens a single connection using the given URL. The URL may use the
jdbc-secretsmanager scheme or be a secret identifier. With --secret-id,
credentials are fetched from that secret and injected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			url := args[0]

			dialects := dialect.DefaultRegistry()
			dl, ok := dialects.Lookup(subprefix)
			if !ok {
				return sserrors.ConfigError{
					Field:      "dialect",
					Value:      subprefix,
					Message:    "unknown dialect",
					Suggestion: "Run 'secretsql dialects' to list supported backends",
				}
			}

			cache, err := buildSecretCache(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			registry := secretdriver.DefaultRegistry()
			defer registry.Shutdown()

			drv, err := secretdriver.New(dl, cache, registry,
				secretdriver.WithRealDriverName(cfg.RealDriverName(subprefix, dl.DefaultDriverName())),
				secretdriver.WithMaxRetry(cfg.MaxRetry(subprefix, secretdriver.MaxRetry)),
				secretdriver.WithLogger(cfg.Logger),
			)
			if err != nil {
				return err
			}

			props := secretdriver.Properties{}
			if secretID != "" {
				props[secretdriver.PropertyUser] = secretID
			}

			conn, err := drv.Connect(cmd.Context(), url, props)
			if err != nil {
				return err
			}
			if conn == nil {
				return fmt.Errorf("URL %q belongs to another driver", url)
			}
			defer conn.Close()

			if pinger, ok := conn.(driver.Pinger); ok {
				if err := pinger.Ping(cmd.Context()); err != nil {
					return err
				}
			}
			cfg.Logger.Info("database answered")
			return nil
		},
	}

	cmd.Flags().StringVar(&subprefix, "dialect", "mysql", "Backend dialect subprefix")
	cmd.Flags().StringVar(&secretID, "secret-id", "", "Credentials secret identifier to inject")
	return cmd
}
