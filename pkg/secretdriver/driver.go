// Package secretdriver provides a credential-substituting connection
// proxy that sits between an application and a real SQL driver.
//
// Instead of embedding static username/password pairs, callers supply
// a secret identifier. The proxy resolves that identifier to live
// credentials fetched from a secret store, retries transparently when
// credentials have gone stale after a rotation, and forwards every
// other driver operation unchanged to the wrapped real driver.
//
// A URL handed to the proxy is classified three ways:
//
//   - jdbc-secretsmanager:... is intercepted: the reserved scheme is
//     swapped for "jdbc" and the result forwarded to the real driver.
//   - jdbc:... belongs to some other driver and is not handled.
//   - anything else is treated as a secret identifier whose payload
//     carries the endpoint to connect to.
//
// When the connection properties carry a non-empty "user" value, it is
// treated as the identifier of a credentials secret and the username
// and password from that secret are injected before connecting.
package secretdriver

import (
	"context"
	"database/sql/driver"
	"strings"

	"github.com/systmms/secretsql/internal/logging"
	"github.com/systmms/secretsql/pkg/secretdriver/dialect"
)

const (
	// Scheme is the reserved URL scheme this proxy intercepts.
	Scheme = "jdbc-secretsmanager"

	// realScheme replaces Scheme before the URL reaches the real driver.
	realScheme = "jdbc"

	// MaxRetry is the default number of refresh-and-retry cycles
	// attempted after an authentication failure.
	MaxRetry = 5
)

// SecretCache supplies current-or-cached secret material and can force
// a refresh. Implementations must be safe for concurrent use; see
// package secretcache for the provided backends.
type SecretCache interface {
	// GetSecretString resolves a secret identifier to its payload.
	// A missing secret yields ("", nil); errors are reserved for
	// failures talking to the store.
	GetSecretString(ctx context.Context, secretID string) (string, error)

	// RefreshNow invalidates any cached value for secretID and
	// re-fetches it, reporting whether the refresh succeeded. It must
	// be idempotent and safe to call redundantly from multiple
	// callers.
	RefreshNow(ctx context.Context, secretID string) bool
}

// Driver is the connection proxy for a single backend dialect. It is
// stateless across calls; the only shared collaborator is the
// externally owned secret cache.
type Driver struct {
	dialect    dialect.Dialect
	cache      SecretCache
	registry   *Registry
	driverName string
	maxRetry   int
	logger     *logging.Logger
	metrics    *Metrics
}

// Option configures a Driver.
type Option func(*Driver)

// WithRealDriverName overrides the dialect's default real driver name,
// mirroring the drivers.<subprefix>.realDriverClass setting.
func WithRealDriverName(name string) Option {
	return func(d *Driver) {
		if name != "" {
			d.driverName = name
		}
	}
}

// WithMaxRetry overrides the number of refresh-and-retry cycles.
func WithMaxRetry(n int) Option {
	return func(d *Driver) {
		if n >= 0 {
			d.maxRetry = n
		}
	}
}

// WithLogger sets the logger used for connection-flow diagnostics.
// Secret material is never logged.
func WithLogger(l *logging.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// WithMetrics attaches connection-flow metrics.
func WithMetrics(m *Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

// New creates a connection proxy for the given dialect, backed by the
// given secret cache and real driver registry.
func New(dl dialect.Dialect, cache SecretCache, registry *Registry, opts ...Option) (*Driver, error) {
	if dl == nil {
		return nil, &ConfigError{Message: "dialect must not be nil"}
	}
	if cache == nil {
		return nil, &ConfigError{Message: "secret cache must not be nil"}
	}
	if registry == nil {
		return nil, &ConfigError{Message: "driver registry must not be nil"}
	}

	d := &Driver{
		dialect:    dl,
		cache:      cache,
		registry:   registry,
		driverName: dl.DefaultDriverName(),
		maxRetry:   MaxRetry,
		logger:     logging.New(false, false),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dialect returns the backend dialect this proxy serves.
func (d *Driver) Dialect() dialect.Dialect { return d.dialect }

// RealDriverName returns the name the proxy resolves in the registry.
func (d *Driver) RealDriverName() string { return d.driverName }

// AcceptsURL reports whether this proxy handles url. URLs in the
// reserved scheme are checked against the wrapped real driver after
// unwrapping; plain jdbc: URLs belong to other drivers; anything else
// is accepted as a secret identifier.
func (d *Driver) AcceptsURL(url string) (bool, error) {
	if url == "" {
		return false, &ValidationError{Field: "url", Message: "url cannot be empty"}
	}

	switch {
	case strings.HasPrefix(url, Scheme):
		real, err := d.wrappedDriver()
		if err != nil {
			return false, err
		}
		unwrapped, err := d.unwrapURL(url)
		if err != nil {
			return false, err
		}
		return real.AcceptsURL(unwrapped), nil
	case strings.HasPrefix(url, realScheme+":"):
		return false, nil
	default:
		return true, nil
	}
}

// Connect establishes a connection for url. Foreign jdbc: URLs return
// (nil, nil) without contacting the real driver; the nil connection is
// the "not my URL" sentinel, distinct from a failed attempt.
func (d *Driver) Connect(ctx context.Context, url string, info Properties) (driver.Conn, error) {
	ok, err := d.AcceptsURL(url)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	unwrappedURL, err := d.resolveURL(ctx, url)
	if err != nil {
		return nil, err
	}

	if secretID := info.Get(PropertyUser); secretID != "" {
		return d.connectWithSecret(ctx, unwrappedURL, info, secretID)
	}

	// No credentials secret configured; forward unchanged. This
	// supports non-secret-based authentication schemes.
	real, err := d.wrappedDriver()
	if err != nil {
		return nil, err
	}
	d.metrics.connectAttempt(d.dialect.Subprefix())
	return real.Connect(ctx, unwrappedURL, info)
}

// resolveURL turns an accepted URL into the form the real driver
// expects: intercepted URLs are unwrapped literally, secret
// identifiers are resolved through the cache and formatted by the
// dialect.
func (d *Driver) resolveURL(ctx context.Context, url string) (string, error) {
	if strings.HasPrefix(url, Scheme) {
		return d.unwrapURL(url)
	}

	secretString, err := d.cache.GetSecretString(ctx, url)
	if err != nil {
		return "", err
	}
	if secretString == "" {
		return "", &InvalidSecretError{SecretID: url}
	}

	creds, err := ParseCredentials(secretString)
	if err != nil {
		return "", err
	}
	if creds.Host == "" {
		return "", &ParseError{Reason: "secret payload has no host to connect to"}
	}
	return d.dialect.BuildURL(creds.Host, creds.Port.String(), creds.Database), nil
}

// unwrapURL swaps the reserved scheme for the real one. The swap is a
// literal substitution of the first occurrence only.
func (d *Driver) unwrapURL(url string) (string, error) {
	if !strings.HasPrefix(url, Scheme) {
		return "", &ValidationError{
			Field:   "url",
			Message: "URL is malformed; must use scheme \"" + Scheme + "\"",
		}
	}
	return strings.Replace(url, Scheme, realScheme, 1), nil
}

// connectWithSecret runs the bounded refresh-and-retry protocol. Each
// attempt re-reads the secret from the cache rather than trusting a
// locally held value, so a rotation that lands between attempts is
// picked up without assuming any ordering between the rotating actors.
func (d *Driver) connectWithSecret(ctx context.Context, url string, info Properties, secretID string) (driver.Conn, error) {
	real, err := d.wrappedDriver()
	if err != nil {
		return nil, err
	}

	subprefix := d.dialect.Subprefix()
	for attempt := 0; ; attempt++ {
		secretString, err := d.cache.GetSecretString(ctx, secretID)
		if err != nil {
			return nil, err
		}

		creds, err := ParseCredentials(secretString)
		if err != nil {
			// Terminal: refreshing will not make the payload parse.
			return nil, err
		}

		updated := info.Clone()
		updated[PropertyUser] = creds.Username
		updated[PropertyPassword] = creds.Password

		d.metrics.connectAttempt(subprefix)
		conn, err := real.Connect(ctx, url, updated)
		if err == nil {
			return conn, nil
		}

		if !d.dialect.IsAuthenticationFailure(err) {
			return nil, err
		}
		if attempt == d.maxRetry {
			d.logger.Debug("authentication still failing after %d attempts", attempt+1)
			return nil, &RetryExhaustedError{SecretID: secretID, Attempts: attempt + 1, Err: err}
		}

		d.logger.Debug("authentication failure on attempt %d, forcing secret refresh", attempt+1)
		d.metrics.authRetry(subprefix)
		if !d.cache.RefreshNow(ctx, secretID) {
			d.metrics.refreshFailure(subprefix)
			return nil, err
		}
	}
}

// wrappedDriver resolves the real driver at call time; registration
// order across a process is not guaranteed, so the handle is never
// cached at construction.
func (d *Driver) wrappedDriver() (RealDriver, error) {
	return d.registry.Lookup(d.driverName)
}

// MajorVersion forwards to the resolved real driver when it reports a
// version, and is zero otherwise.
func (d *Driver) MajorVersion() int {
	if v, ok := d.versionReporter(); ok {
		return v.MajorVersion()
	}
	return 0
}

// MinorVersion forwards to the resolved real driver when it reports a
// version, and is zero otherwise.
func (d *Driver) MinorVersion() int {
	if v, ok := d.versionReporter(); ok {
		return v.MinorVersion()
	}
	return 0
}

// Compliant forwards the compliance flag of the resolved real driver,
// and is false when the driver is unresolvable or does not report one.
func (d *Driver) Compliant() bool {
	real, err := d.wrappedDriver()
	if err != nil {
		return false
	}
	if c, ok := real.(ComplianceReporter); ok {
		return c.Compliant()
	}
	return false
}

func (d *Driver) versionReporter() (VersionReporter, bool) {
	real, err := d.wrappedDriver()
	if err != nil {
		return nil, false
	}
	v, ok := real.(VersionReporter)
	return v, ok
}

// PropertyInfo forwards to the resolved real driver with the unwrapped
// URL.
func (d *Driver) PropertyInfo(url string, info Properties) ([]PropertyInfo, error) {
	real, err := d.wrappedDriver()
	if err != nil {
		return nil, err
	}
	unwrapped, err := d.unwrapURL(url)
	if err != nil {
		return nil, err
	}
	if p, ok := real.(PropertyDescriber); ok {
		return p.PropertyInfo(unwrapped, info), nil
	}
	return nil, nil
}
