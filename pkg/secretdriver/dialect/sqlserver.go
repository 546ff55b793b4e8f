package dialect

import "strings"

// sqlserverLoginFailed is SQL Server error 18456: login failed for user.
const sqlserverLoginFailed = 18456

// SQLServer is the dialect for Microsoft SQL Server backends.
type SQLServer struct{}

func (SQLServer) Subprefix() string { return "sqlserver" }

func (SQLServer) DefaultDriverName() string { return "sqlserver" }

func (SQLServer) IsAuthenticationFailure(err error) bool {
	return hasCode(err, sqlserverLoginFailed)
}

func (SQLServer) BuildURL(endpoint, port, dbname string) string {
	url := "jdbc:sqlserver://" + endpoint
	if strings.TrimSpace(port) != "" {
		url += ":" + port
	}
	if strings.TrimSpace(dbname) != "" {
		url += ";databaseName=" + dbname + ";"
	}
	return url
}
