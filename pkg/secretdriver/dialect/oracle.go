package dialect

import "strings"

// Oracle authentication failure error codes.
const (
	oracleCredentialsDoNotMatch = 17079 // user credentials do not match
	oracleInvalidUserPassword   = 1017  // invalid username/password
	oracleIncorrectUserPassword = 9911  // incorrect user password
)

// Oracle is the dialect for Oracle backends.
type Oracle struct{}

func (Oracle) Subprefix() string { return "oracle" }

func (Oracle) DefaultDriverName() string { return "oracle" }

func (Oracle) IsAuthenticationFailure(err error) bool {
	return hasCode(err, oracleCredentialsDoNotMatch, oracleInvalidUserPassword, oracleIncorrectUserPassword)
}

func (Oracle) BuildURL(endpoint, port, dbname string) string {
	url := "jdbc:oracle:thin:@//" + endpoint
	if strings.TrimSpace(port) != "" {
		url += ":" + port
	}
	if strings.TrimSpace(dbname) != "" {
		url += "/" + dbname
	}
	return url
}
