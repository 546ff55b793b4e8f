package dialect

import (
	"strings"

	"github.com/go-sql-driver/mysql"
)

// mysqlAccessDenied is MySQL error 1045: access denied for user using
// password to database.
const mysqlAccessDenied = 1045

// MySQL is the dialect for MySQL backends.
type MySQL struct{}

func (MySQL) Subprefix() string { return "mysql" }

func (MySQL) DefaultDriverName() string { return "mysql" }

func (MySQL) IsAuthenticationFailure(err error) bool {
	return walkCauses(err, func(e error) bool {
		switch v := e.(type) {
		case *mysql.MySQLError:
			return v.Number == mysqlAccessDenied
		case *Error:
			return v.Code == mysqlAccessDenied
		}
		return false
	})
}

func (MySQL) BuildURL(endpoint, port, dbname string) string {
	url := "jdbc:mysql://" + endpoint
	if strings.TrimSpace(port) != "" {
		url += ":" + port
	}
	if strings.TrimSpace(dbname) != "" {
		url += "/" + dbname
	}
	return url
}
