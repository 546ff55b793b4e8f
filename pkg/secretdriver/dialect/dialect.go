// Package dialect defines the backend-specific behavior set for the
// secretsql driver proxy: how a backend's connection URL is formatted,
// which error codes indicate an authentication failure, and which real
// driver handles the backend by default.
//
// One Dialect is registered per supported backend. Dialects are
// stateless values; all methods are pure.
package dialect

import (
	"fmt"
	"sort"
	"sync"
)

// Dialect is the capability set a supported backend must implement.
type Dialect interface {
	// Subprefix returns the backend's short name, used both as the
	// registry key and as the configuration subprefix
	// (drivers.<subprefix>.realDriverClass).
	Subprefix() string

	// IsAuthenticationFailure reports whether err indicates that the
	// credentials used for the connection attempt are stale. The check
	// walks the full cause chain of err and must terminate even when
	// the chain contains a cycle.
	IsAuthenticationFailure(err error) bool

	// BuildURL constructs the backend's connection URL from an
	// endpoint, port and database name. Port and database may be
	// blank, in which case their URL segments are omitted.
	BuildURL(endpoint, port, dbname string) string

	// DefaultDriverName returns the registry name of the real driver
	// used for this backend when no override is configured.
	DefaultDriverName() string
}

// Registry maps subprefix names to Dialect instances. It is populated
// during application startup and read-only afterwards.
type Registry struct {
	mu       sync.RWMutex
	dialects map[string]Dialect
}

// NewRegistry creates an empty dialect registry.
func NewRegistry() *Registry {
	return &Registry{dialects: make(map[string]Dialect)}
}

// Register adds a dialect under its subprefix. Registering the same
// subprefix twice returns an error rather than silently replacing the
// earlier dialect.
func (r *Registry) Register(d Dialect) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := d.Subprefix()
	if _, exists := r.dialects[name]; exists {
		return fmt.Errorf("dialect %q is already registered", name)
	}
	r.dialects[name] = d
	return nil
}

// Lookup returns the dialect registered under subprefix.
func (r *Registry) Lookup(subprefix string) (Dialect, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.dialects[subprefix]
	return d, ok
}

// Subprefixes returns the registered subprefix names, sorted.
func (r *Registry) Subprefixes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.dialects))
	for name := range r.dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in dialects.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range []Dialect{
		MySQL{},
		PostgreSQL{},
		MariaDB{},
		SQLServer{},
		Oracle{},
		DB2{},
		Redshift{},
		Snowflake{},
	} {
		// Built-in subprefixes are unique; Register cannot fail here.
		_ = r.Register(d)
	}
	return r
}
