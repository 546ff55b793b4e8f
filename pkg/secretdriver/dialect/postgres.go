package dialect

import (
	"strings"

	"github.com/lib/pq"
)

// PostgreSQL authentication failure SQLSTATEs.
const (
	pgInvalidPassword      = "28P01" // invalid_password
	pgInvalidAuthorization = "28000" // invalid_authorization_specification
)

// PostgreSQL is the dialect for PostgreSQL backends.
type PostgreSQL struct{}

func (PostgreSQL) Subprefix() string { return "postgresql" }

func (PostgreSQL) DefaultDriverName() string { return "postgres" }

func (PostgreSQL) IsAuthenticationFailure(err error) bool {
	return walkCauses(err, func(e error) bool {
		switch v := e.(type) {
		case *pq.Error:
			return string(v.Code) == pgInvalidPassword || string(v.Code) == pgInvalidAuthorization
		case *Error:
			return v.State == pgInvalidPassword || v.State == pgInvalidAuthorization
		}
		return false
	})
}

// BuildURL keeps the trailing slash even without a database name; the
// PostgreSQL JDBC URL form requires the path segment.
func (PostgreSQL) BuildURL(endpoint, port, dbname string) string {
	url := "jdbc:postgresql://" + endpoint
	if strings.TrimSpace(port) != "" {
		url += ":" + port
	}
	url += "/"
	if strings.TrimSpace(dbname) != "" {
		url += dbname
	}
	return url
}
