package dialect

import "strings"

// snowflakeIncorrectCredentials is the SQLSTATE Snowflake reports when
// an incorrect username or password was specified.
const snowflakeIncorrectCredentials = "08001"

// Snowflake is the dialect for Snowflake backends.
type Snowflake struct{}

func (Snowflake) Subprefix() string { return "snowflake" }

func (Snowflake) DefaultDriverName() string { return "snowflake" }

func (Snowflake) IsAuthenticationFailure(err error) bool {
	return hasState(err, snowflakeIncorrectCredentials)
}

func (Snowflake) BuildURL(endpoint, port, dbname string) string {
	url := "jdbc:snowflake://" + endpoint
	if strings.TrimSpace(port) != "" {
		url += ":" + port
	}
	if strings.TrimSpace(dbname) != "" {
		url += "/" + dbname
	}
	return url
}
