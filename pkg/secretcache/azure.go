package secretcache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

// AzureClientAPI is the slice of the Azure Key Vault client the cache
// uses. It exists so tests can substitute a mock.
type AzureClientAPI interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// Azure is a secret cache backed by Azure Key Vault. Secret
// identifiers are vault secret names; the latest version is fetched.
type Azure struct {
	*Cache
	client   AzureClientAPI
	vaultURL string
}

type azureOptions struct {
	credential azcore.TokenCredential
	ttl        time.Duration
	client     AzureClientAPI
}

// AzureOption configures the Azure secret cache.
type AzureOption func(*azureOptions)

// WithAzureCredential uses the given credential instead of the default
// credential chain.
func WithAzureCredential(cred azcore.TokenCredential) AzureOption {
	return func(o *azureOptions) { o.credential = cred }
}

// WithAzureTTL overrides how long fetched secrets are served from
// cache.
func WithAzureTTL(ttl time.Duration) AzureOption {
	return func(o *azureOptions) { o.ttl = ttl }
}

// WithAzureClient sets a custom Key Vault client (for testing).
func WithAzureClient(client AzureClientAPI) AzureOption {
	return func(o *azureOptions) { o.client = client }
}

// NewAzure creates a Key Vault backed cache for the given vault URL,
// e.g. https://my-vault.vault.azure.net/.
func NewAzure(vaultURL string, opts ...AzureOption) (*Azure, error) {
	if vaultURL == "" {
		return nil, fmt.Errorf("azure secret cache requires a vault URL")
	}

	var o azureOptions
	for _, opt := range opts {
		opt(&o)
	}

	client := o.client
	if client == nil {
		cred := o.credential
		if cred == nil {
			var err error
			cred, err = azidentity.NewDefaultAzureCredential(nil)
			if err != nil {
				return nil, fmt.Errorf("failed to build Azure credential: %w", err)
			}
		}
		real, err := azsecrets.NewClient(vaultURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Key Vault client: %w", err)
		}
		client = real
	}

	c := &Azure{client: client, vaultURL: vaultURL}
	c.Cache = newCache(c.fetchSecret, o.ttl)
	return c, nil
}

func (c *Azure) fetchSecret(ctx context.Context, secretID string) (string, error) {
	resp, err := c.client.GetSecret(ctx, secretID, "", nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("azure key vault error: %w", err)
	}
	if resp.Value == nil {
		return "", nil
	}
	return *resp.Value, nil
}
