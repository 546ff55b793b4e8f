package dialect

import (
	"strings"

	"github.com/lib/pq"
)

// Redshift is the dialect for Amazon Redshift backends. Redshift
// speaks the PostgreSQL wire protocol, so lib/pq errors are checked
// alongside the generic form.
type Redshift struct{}

func (Redshift) Subprefix() string { return "redshift" }

func (Redshift) DefaultDriverName() string { return "postgres" }

func (Redshift) IsAuthenticationFailure(err error) bool {
	return walkCauses(err, func(e error) bool {
		switch v := e.(type) {
		case *pq.Error:
			return string(v.Code) == pgInvalidPassword
		case *Error:
			return v.State == pgInvalidPassword
		}
		return false
	})
}

func (Redshift) BuildURL(endpoint, port, dbname string) string {
	url := "jdbc:redshift://" + endpoint
	if strings.TrimSpace(port) != "" {
		url += ":" + port
	}
	if strings.TrimSpace(dbname) != "" {
		url += "/" + dbname
	}
	return url
}
