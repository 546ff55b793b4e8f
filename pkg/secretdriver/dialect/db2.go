package dialect

import "strings"

// db2AccessDenied is the Db2 SQL code for a failed password check.
const db2AccessDenied = -1403

// DB2 is the dialect for IBM Db2 backends.
type DB2 struct{}

func (DB2) Subprefix() string { return "db2" }

func (DB2) DefaultDriverName() string { return "db2" }

func (DB2) IsAuthenticationFailure(err error) bool {
	return hasCode(err, db2AccessDenied)
}

func (DB2) BuildURL(endpoint, port, dbname string) string {
	url := "jdbc:db2://" + endpoint
	if strings.TrimSpace(port) != "" {
		url += ":" + port
	}
	if strings.TrimSpace(dbname) != "" {
		url += "/" + dbname
	}
	return url
}
