// Package config loads the secretsql.yaml configuration file. The
// file supplies static strings at construction time: per-backend real
// driver overrides and secret store settings. A missing file is not an
// error; every setting has a default.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	sserrors "github.com/systmms/secretsql/internal/errors"
	"github.com/systmms/secretsql/internal/logging"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "secretsql.yaml"

// Config holds the runtime configuration.
type Config struct {
	Path       string
	Logger     *logging.Logger
	Definition *Definition
}

// Definition is the secretsql.yaml structure.
type Definition struct {
	Version int                     `yaml:"version"`
	Drivers map[string]DriverConfig `yaml:"drivers,omitempty"`
	Store   StoreConfig             `yaml:"store,omitempty"`
}

// DriverConfig holds the per-backend settings, keyed by dialect
// subprefix.
type DriverConfig struct {
	// RealDriverClass overrides the registry name of the real driver
	// used for this backend.
	RealDriverClass string `yaml:"realDriverClass,omitempty"`

	// MaxRetry overrides the number of refresh-and-retry cycles.
	MaxRetry *int `yaml:"maxRetry,omitempty"`
}

// StoreConfig selects and configures the secret store backend.
type StoreConfig struct {
	// Type is one of aws, gcp, azure. Defaults to aws.
	Type string `yaml:"type,omitempty"`

	// Region pins the AWS region.
	Region string `yaml:"region,omitempty"`

	// VPCEndpointURL and VPCEndpointRegion point the AWS client at a
	// PrivateLink endpoint.
	VPCEndpointURL    string `yaml:"vpcEndpointUrl,omitempty"`
	VPCEndpointRegion string `yaml:"vpcEndpointRegion,omitempty"`

	// ProjectID selects the GCP project for gcp stores.
	ProjectID string `yaml:"projectId,omitempty"`

	// VaultURL selects the Key Vault for azure stores.
	VaultURL string `yaml:"vaultUrl,omitempty"`

	// TTLSeconds overrides how long fetched secrets are cached.
	TTLSeconds int `yaml:"ttlSeconds,omitempty"`
}

// Load reads and parses the configuration file. A missing file leaves
// an empty definition in place, since every setting has a default.
func (c *Config) Load() error {
	if c.Path == "" {
		c.Path = DefaultPath
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			c.Definition = &Definition{}
			return nil
		}
		return sserrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return sserrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters",
		}
	}
	if def.Version != 0 {
		return sserrors.ConfigError{
			Field:      "version",
			Value:      def.Version,
			Message:    "unsupported configuration version",
			Suggestion: "Set 'version: 0' at the top of your secretsql.yaml file",
		}
	}

	c.Definition = &def
	return nil
}

// RealDriverName returns the configured real driver override for a
// dialect subprefix, or fallback when none is set.
func (c *Config) RealDriverName(subprefix, fallback string) string {
	if c.Definition == nil {
		return fallback
	}
	if dc, ok := c.Definition.Drivers[subprefix]; ok && dc.RealDriverClass != "" {
		return dc.RealDriverClass
	}
	return fallback
}

// MaxRetry returns the configured retry override for a dialect
// subprefix, or fallback when none is set.
func (c *Config) MaxRetry(subprefix string, fallback int) int {
	if c.Definition == nil {
		return fallback
	}
	if dc, ok := c.Definition.Drivers[subprefix]; ok && dc.MaxRetry != nil {
		return *dc.MaxRetry
	}
	return fallback
}

// Store returns the secret store settings, defaulting the type to aws.
func (c *Config) Store() StoreConfig {
	var sc StoreConfig
	if c.Definition != nil {
		sc = c.Definition.Store
	}
	if sc.Type == "" {
		sc.Type = "aws"
	}
	return sc
}
