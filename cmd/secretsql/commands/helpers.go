package commands

import (
	"context"
	"time"

	"github.com/systmms/secretsql/internal/config"
	sserrors "github.com/systmms/secretsql/internal/errors"
	"github.com/systmms/secretsql/pkg/secretcache"
	"github.com/systmms/secretsql/pkg/secretdriver"
)

// buildSecretCache constructs the secret cache selected by the store
// section of the configuration.
func buildSecretCache(ctx context.Context, cfg *config.Config) (secretdriver.SecretCache, error) {
	store := cfg.Store()
	ttl := time.Duration(store.TTLSeconds) * time.Second

	switch store.Type {
	case "aws":
		opts := []secretcache.AWSOption{secretcache.WithTTL(ttl)}
		if store.Region != "" {
			opts = append(opts, secretcache.WithRegion(store.Region))
		}
		if store.VPCEndpointURL != "" {
			opts = append(opts, secretcache.WithEndpoint(store.VPCEndpointURL))
			if store.VPCEndpointRegion != "" {
				opts = append(opts, secretcache.WithRegion(store.VPCEndpointRegion))
			}
		}
		return secretcache.NewAWS(ctx, opts...)
	case "gcp":
		return secretcache.NewGCP(ctx, store.ProjectID, secretcache.WithGCPTTL(ttl))
	case "azure":
		return secretcache.NewAzure(store.VaultURL, secretcache.WithAzureTTL(ttl))
	default:
		return nil, sserrors.ConfigError{
			Field:      "store.type",
			Value:      store.Type,
			Message:    "unknown secret store type",
			Suggestion: "Use one of: aws, gcp, azure",
		}
	}
}
