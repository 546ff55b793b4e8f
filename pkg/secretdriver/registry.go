package secretdriver

import (
	"context"
	"database/sql/driver"
	"fmt"
	"io"
	"sync"
)

// RealDriver is the capability the proxy needs from an underlying
// database driver: perform the actual network connection for a
// backend URL with the supplied properties.
type RealDriver interface {
	// AcceptsURL reports whether the driver understands url.
	AcceptsURL(url string) bool

	// Connect opens a connection to url using the given properties.
	// The user and password properties carry the injected credentials.
	Connect(ctx context.Context, url string, info Properties) (driver.Conn, error)
}

// VersionReporter is implemented by real drivers that report a
// version; the proxy forwards version metadata calls to it.
type VersionReporter interface {
	MajorVersion() int
	MinorVersion() int
}

// ComplianceReporter is implemented by real drivers that report
// standards compliance, mirroring the JDBC compliance flag.
type ComplianceReporter interface {
	Compliant() bool
}

// PropertyInfo describes one connection property a real driver
// understands, mirroring JDBC driver property info.
type PropertyInfo struct {
	Name        string
	Value       string
	Description string
	Required    bool
	Choices     []string
}

// PropertyDescriber is implemented by real drivers that can describe
// their connection properties.
type PropertyDescriber interface {
	PropertyInfo(url string, info Properties) []PropertyInfo
}

// Registry is a lookup from driver name to a live RealDriver. It is
// populated during application startup and append-only afterwards;
// Shutdown releases resources held by registered drivers.
//
// The proxy resolves names at call time rather than at construction,
// since registration order across a process is not guaranteed.
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]RealDriver
	closed  bool
}

// NewRegistry creates an empty driver registry.
func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]RealDriver)}
}

// Register adds a real driver under name. Registering a duplicate name
// or registering after Shutdown returns an error.
func (r *Registry) Register(name string, d RealDriver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("driver registry has been shut down")
	}
	if _, exists := r.drivers[name]; exists {
		return fmt.Errorf("real driver %q is already registered", name)
	}
	r.drivers[name] = d
	return nil
}

// Lookup resolves name to a registered real driver. A missing name is
// a *ConfigError: the setup is wrong, not the connection attempt.
func (r *Registry) Lookup(name string) (RealDriver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drivers[name]
	if !ok {
		return nil, &ConfigError{
			Message:    fmt.Sprintf("no real driver has been registered with name %q", name),
			Suggestion: "check the realDriverClass setting for typos and ensure the driver is registered at startup",
		}
	}
	return d, nil
}

// Names returns the registered driver names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	return names
}

// Shutdown closes every registered driver that holds resources and
// marks the registry closed. Safe to call more than once.
func (r *Registry) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var firstErr error
	for name, d := range r.drivers {
		if closer, ok := d.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("closing driver %q: %w", name, err)
			}
		}
	}
	r.drivers = make(map[string]RealDriver)
	return firstErr
}
