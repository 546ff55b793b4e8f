package secretcache_test

import (
	"context"
	"testing"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/systmms/secretsql/pkg/secretcache"
)

// mockGCPClient serves canned payloads keyed by resource name.
type mockGCPClient struct {
	payloads map[string]string
	err      error

	lastName string
}

func (m *mockGCPClient) AccessSecretVersion(_ context.Context, req *secretmanagerpb.AccessSecretVersionRequest, _ ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	m.lastName = req.GetName()
	if m.err != nil {
		return nil, m.err
	}
	payload, ok := m.payloads[req.GetName()]
	if !ok {
		return nil, status.Error(codes.NotFound, "secret version not found")
	}
	return &secretmanagerpb.AccessSecretVersionResponse{
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(payload)},
	}, nil
}

func newGCPCache(t *testing.T, mock *mockGCPClient) *secretcache.GCP {
	t.Helper()
	cache, err := secretcache.NewGCP(context.Background(), "my-project", secretcache.WithGCPClient(mock))
	require.NoError(t, err)
	return cache
}

func TestGCPCacheResolvesPlainNames(t *testing.T) {
	t.Parallel()

	mock := &mockGCPClient{payloads: map[string]string{
		"projects/my-project/secrets/app-creds/versions/latest": "payload",
	}}
	cache := newGCPCache(t, mock)

	value, err := cache.GetSecretString(context.Background(), "app-creds")
	require.NoError(t, err)
	assert.Equal(t, "payload", value)
	assert.Equal(t, "projects/my-project/secrets/app-creds/versions/latest", mock.lastName)
}

func TestGCPCacheResourceNamePassthrough(t *testing.T) {
	t.Parallel()

	mock := &mockGCPClient{payloads: map[string]string{
		"projects/other/secrets/app-creds/versions/7":      "pinned",
		"projects/other/secrets/app-creds/versions/latest": "latest",
	}}
	cache := newGCPCache(t, mock)
	ctx := context.Background()

	value, err := cache.GetSecretString(ctx, "projects/other/secrets/app-creds/versions/7")
	require.NoError(t, err)
	assert.Equal(t, "pinned", value)

	// A versionless resource name gets the latest version appended.
	value, err = cache.GetSecretString(ctx, "projects/other/secrets/app-creds")
	require.NoError(t, err)
	assert.Equal(t, "latest", value)
}

func TestGCPCacheMissingSecret(t *testing.T) {
	t.Parallel()

	cache := newGCPCache(t, &mockGCPClient{})

	value, err := cache.GetSecretString(context.Background(), "no-such-secret")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestGCPCacheStoreFailure(t *testing.T) {
	t.Parallel()

	mock := &mockGCPClient{err: status.Error(codes.PermissionDenied, "denied")}
	cache := newGCPCache(t, mock)
	ctx := context.Background()

	_, err := cache.GetSecretString(ctx, "app-creds")
	require.Error(t, err)
	assert.False(t, cache.RefreshNow(ctx, "app-creds"))
}

func TestNewGCPRequiresProject(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")

	_, err := secretcache.NewGCP(context.Background(), "", secretcache.WithGCPClient(&mockGCPClient{}))
	require.Error(t, err)
}
