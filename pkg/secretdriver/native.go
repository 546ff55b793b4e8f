package secretdriver

import (
	"context"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Go database drivers take native DSNs rather than the jdbc: URL form
// the proxy produces, so registered real drivers are adapters: a
// TranslateFunc turns the unwrapped URL plus injected properties into
// the native DSN, and the adapter hands that to the wrapped
// driver.Driver.

// TranslateFunc converts an unwrapped connection URL and properties
// into the DSN a native Go driver expects.
type TranslateFunc func(url string, info Properties) (string, error)

// NativeDriver adapts a Go database/sql driver to the RealDriver
// contract.
type NativeDriver struct {
	urlPrefix string
	drv       driver.Driver
	translate TranslateFunc
}

// NewNativeDriver wraps drv, accepting URLs that start with urlPrefix
// and translating them with translate.
func NewNativeDriver(urlPrefix string, drv driver.Driver, translate TranslateFunc) *NativeDriver {
	return &NativeDriver{urlPrefix: urlPrefix, drv: drv, translate: translate}
}

// AcceptsURL implements RealDriver.
func (n *NativeDriver) AcceptsURL(url string) bool {
	return strings.HasPrefix(url, n.urlPrefix)
}

// Connect implements RealDriver.
func (n *NativeDriver) Connect(ctx context.Context, url string, info Properties) (driver.Conn, error) {
	if !n.AcceptsURL(url) {
		return nil, &ValidationError{Field: "url", Message: fmt.Sprintf("URL does not start with %q", n.urlPrefix)}
	}
	dsn, err := n.translate(url, info)
	if err != nil {
		return nil, err
	}

	if dc, ok := n.drv.(driver.DriverContext); ok {
		connector, err := dc.OpenConnector(dsn)
		if err != nil {
			return nil, err
		}
		return connector.Connect(ctx)
	}
	return n.drv.Open(dsn)
}

// Close releases resources held by the wrapped driver, if any.
func (n *NativeDriver) Close() error {
	if closer, ok := n.drv.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// DefaultRegistry returns a registry pre-populated with the MySQL and
// PostgreSQL native drivers under the names the built-in dialects
// resolve by default.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// Names are unique in a fresh registry; Register cannot fail here.
	_ = r.Register("mysql", NewNativeDriver("jdbc:mysql://", mysql.MySQLDriver{}, TranslateMySQL))
	_ = r.Register("postgres", NewNativeDriver("jdbc:postgresql://", pq.Driver{}, TranslatePostgres))
	return r
}

// TranslateMySQL converts jdbc:mysql://host[:port][/db] plus
// properties into a go-sql-driver DSN. Properties other than user and
// password are carried over as driver parameters.
func TranslateMySQL(url string, info Properties) (string, error) {
	rest, ok := strings.CutPrefix(url, "jdbc:mysql://")
	if !ok {
		return "", &ValidationError{Field: "url", Message: "not a mysql URL: " + url}
	}
	addr, dbname, _ := strings.Cut(rest, "/")
	if addr == "" {
		return "", &ValidationError{Field: "url", Message: "mysql URL has no host"}
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = addr
	cfg.DBName = dbname
	cfg.User = info.Get(PropertyUser)
	cfg.Passwd = info.Get(PropertyPassword)
	for key, value := range info {
		if key == PropertyUser || key == PropertyPassword {
			continue
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]string)
		}
		cfg.Params[key] = value
	}
	return cfg.FormatDSN(), nil
}

// TranslatePostgres converts jdbc:postgresql://host[:port]/[db] plus
// properties into a lib/pq keyword/value DSN. Properties other than
// user and password are carried over as connection parameters, so
// settings like sslmode pass through.
func TranslatePostgres(url string, info Properties) (string, error) {
	rest, ok := strings.CutPrefix(url, "jdbc:postgresql://")
	if !ok {
		return "", &ValidationError{Field: "url", Message: "not a postgresql URL: " + url}
	}
	addr, dbname, _ := strings.Cut(rest, "/")
	if addr == "" {
		return "", &ValidationError{Field: "url", Message: "postgresql URL has no host"}
	}
	host, port := addr, ""
	if h, p, found := strings.Cut(addr, ":"); found {
		host, port = h, p
	}

	var pairs []string
	appendPair := func(key, value string) {
		if value != "" {
			pairs = append(pairs, key+"="+pqQuote(value))
		}
	}
	appendPair("host", host)
	appendPair("port", port)
	appendPair("dbname", dbname)
	appendPair("user", info.Get(PropertyUser))
	appendPair("password", info.Get(PropertyPassword))
	for key, value := range info {
		if key == PropertyUser || key == PropertyPassword {
			continue
		}
		appendPair(key, value)
	}
	return strings.Join(pairs, " "), nil
}

// pqQuote single-quotes a keyword/value DSN value when it needs it.
func pqQuote(value string) string {
	if !strings.ContainsAny(value, " '\\") {
		return value
	}
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}

// compile-time interface checks
var (
	_ RealDriver           = (*NativeDriver)(nil)
	_ io.Closer            = (*NativeDriver)(nil)
	_ driver.Driver        = (*Driver)(nil)
	_ driver.DriverContext = (*Driver)(nil)
	_ driver.Connector     = (*Connector)(nil)
)
