package secretcache

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GCPClientAPI is the slice of the GCP Secret Manager client the cache
// uses. It exists so tests can substitute a mock.
type GCPClientAPI interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

// GCP is a secret cache backed by Google Cloud Secret Manager. Secret
// identifiers are plain secret names resolved within the configured
// project at their latest version, or full
// projects/*/secrets/*/versions/* resource names used as-is.
type GCP struct {
	*Cache
	client    GCPClientAPI
	projectID string
}

type gcpOptions struct {
	credentialsFile string
	ttl             time.Duration
	client          GCPClientAPI
}

// GCPOption configures the GCP secret cache.
type GCPOption func(*gcpOptions)

// WithGCPCredentialsFile authenticates with a service account key file
// instead of application default credentials.
func WithGCPCredentialsFile(path string) GCPOption {
	return func(o *gcpOptions) { o.credentialsFile = path }
}

// WithGCPTTL overrides how long fetched secrets are served from cache.
func WithGCPTTL(ttl time.Duration) GCPOption {
	return func(o *gcpOptions) { o.ttl = ttl }
}

// WithGCPClient sets a custom Secret Manager client (for testing).
func WithGCPClient(client GCPClientAPI) GCPOption {
	return func(o *gcpOptions) { o.client = client }
}

// NewGCP creates a Secret Manager backed cache for projectID. An empty
// projectID falls back to the GOOGLE_CLOUD_PROJECT environment
// variable.
func NewGCP(ctx context.Context, projectID string, opts ...GCPOption) (*GCP, error) {
	var o gcpOptions
	for _, opt := range opts {
		opt(&o)
	}

	if projectID == "" {
		projectID = os.Getenv("GOOGLE_CLOUD_PROJECT")
	}
	if projectID == "" {
		return nil, fmt.Errorf("gcp secret cache requires a project id; set one explicitly or via GOOGLE_CLOUD_PROJECT")
	}

	client := o.client
	if client == nil {
		var clientOpts []option.ClientOption
		if o.credentialsFile != "" {
			clientOpts = append(clientOpts, option.WithCredentialsFile(o.credentialsFile))
		}
		real, err := secretmanager.NewClient(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCP Secret Manager client: %w", err)
		}
		client = real
	}

	c := &GCP{client: client, projectID: projectID}
	c.Cache = newCache(c.fetchSecret, o.ttl)
	return c, nil
}

func (c *GCP) fetchSecret(ctx context.Context, secretID string) (string, error) {
	resp, err := c.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: c.resourceName(secretID),
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", nil
		}
		return "", fmt.Errorf("gcp secret manager error: %w", err)
	}
	if resp.GetPayload() == nil {
		return "", nil
	}
	return string(resp.GetPayload().GetData()), nil
}

func (c *GCP) resourceName(secretID string) string {
	if strings.HasPrefix(secretID, "projects/") {
		if strings.Contains(secretID, "/versions/") {
			return secretID
		}
		return secretID + "/versions/latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", c.projectID, secretID)
}
