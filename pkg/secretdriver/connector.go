package secretdriver

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net/url"
	"strings"
)

// This file integrates the proxy with database/sql. A DSN given to
// sql.Open is the connection URL, optionally followed by "?" and
// query-encoded connection properties:
//
//	jdbc-secretsmanager:mysql://db.example.com:3306/app?user=app/db-credentials
//
// The "user" property names the credentials secret, exactly as it
// does on the Connect call.

// Register makes drv available to database/sql under alias.
func Register(alias string, drv *Driver) {
	sql.Register(alias, drv)
}

// Open implements driver.Driver. A foreign jdbc: URL cannot yield a
// nil connection through database/sql, so it surfaces as an error
// here.
func (d *Driver) Open(name string) (driver.Conn, error) {
	connURL, props, err := splitDSN(name)
	if err != nil {
		return nil, err
	}
	conn, err := d.Connect(context.Background(), connURL, props)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, &ValidationError{Field: "dsn", Message: "URL belongs to another driver and is not handled by this proxy"}
	}
	return conn, nil
}

// OpenConnector implements driver.DriverContext, parsing the DSN once.
func (d *Driver) OpenConnector(name string) (driver.Connector, error) {
	connURL, props, err := splitDSN(name)
	if err != nil {
		return nil, err
	}
	return &Connector{driver: d, url: connURL, props: props}, nil
}

// Connector opens connections through the proxy for a fixed URL and
// property set. Every Connect resolves credentials afresh, so pooled
// reconnects pick up rotated secrets.
type Connector struct {
	driver *Driver
	url    string
	props  Properties
}

// NewConnector builds a connector without going through DSN parsing,
// for callers that already hold the URL and properties.
func NewConnector(d *Driver, connURL string, props Properties) *Connector {
	return &Connector{driver: d, url: connURL, props: props}
}

// Connect implements driver.Connector.
func (c *Connector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := c.driver.Connect(ctx, c.url, c.props)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, &ValidationError{Field: "dsn", Message: "URL belongs to another driver and is not handled by this proxy"}
	}
	return conn, nil
}

// Driver implements driver.Connector.
func (c *Connector) Driver() driver.Driver { return c.driver }

// splitDSN separates the connection URL from trailing query-encoded
// properties. Only the first "?" is significant.
func splitDSN(dsn string) (string, Properties, error) {
	if dsn == "" {
		return "", nil, &ValidationError{Field: "dsn", Message: "dsn cannot be empty"}
	}

	idx := strings.Index(dsn, "?")
	if idx < 0 {
		return dsn, nil, nil
	}

	values, err := url.ParseQuery(dsn[idx+1:])
	if err != nil {
		return "", nil, &ValidationError{Field: "dsn", Message: "malformed property string: " + err.Error()}
	}
	props := make(Properties, len(values))
	for key := range values {
		props[key] = values.Get(key)
	}
	return dsn[:idx], props, nil
}
