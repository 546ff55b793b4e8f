package dialect

import (
	"strings"

	"github.com/go-sql-driver/mysql"
)

// MariaDB is the dialect for MariaDB backends. MariaDB reuses MySQL's
// wire protocol and its access-denied error code; the go-sql-driver
// serves both, so its error type is checked here as well.
type MariaDB struct{}

func (MariaDB) Subprefix() string { return "mariadb" }

func (MariaDB) DefaultDriverName() string { return "mysql" }

func (MariaDB) IsAuthenticationFailure(err error) bool {
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

func (MariaDB) BuildURL(endpoint, port, dbname string) string {
	url := "jdbc:mariadb://" + endpoint
	if strings.TrimSpace(port) != "" {
		url += ":" + port
	}
	if strings.TrimSpace(dbname) != "" {
		url += "/" + dbname
	}
	return url
}
