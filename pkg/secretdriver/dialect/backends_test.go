package dialect_test

import (
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/secretsql/pkg/secretdriver/dialect"
)

func TestBuildURLFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dialect  dialect.Dialect
		full     string
		noPort   string
		noDB     string
		bareHost string
	}{
		{
			dialect:  dialect.MySQL{},
			full:     "jdbc:mysql://db.example.com:3306/app",
			noPort:   "jdbc:mysql://db.example.com/app",
			noDB:     "jdbc:mysql://db.example.com:3306",
			bareHost: "jdbc:mysql://db.example.com",
		},
		{
			dialect:  dialect.PostgreSQL{},
			full:     "jdbc:postgresql://db.example.com:5432/app",
			noPort:   "jdbc:postgresql://db.example.com/app",
			noDB:     "jdbc:postgresql://db.example.com:5432/",
			bareHost: "jdbc:postgresql://db.example.com/",
		},
		{
			dialect:  dialect.MariaDB{},
			full:     "jdbc:mariadb://db.example.com:3306/app",
			noPort:   "jdbc:mariadb://db.example.com/app",
			noDB:     "jdbc:mariadb://db.example.com:3306",
			bareHost: "jdbc:mariadb://db.example.com",
		},
		{
			dialect:  dialect.SQLServer{},
			full:     "jdbc:sqlserver://db.example.com:1433;databaseName=app;",
			noPort:   "jdbc:sqlserver://db.example.com;databaseName=app;",
			noDB:     "jdbc:sqlserver://db.example.com:1433",
			bareHost: "jdbc:sqlserver://db.example.com",
		},
		{
			dialect:  dialect.Oracle{},
			full:     "jdbc:oracle:thin:@//db.example.com:1521/app",
			noPort:   "jdbc:oracle:thin:@//db.example.com/app",
			noDB:     "jdbc:oracle:thin:@//db.example.com:1521",
			bareHost: "jdbc:oracle:thin:@//db.example.com",
		},
		{
			dialect:  dialect.DB2{},
			full:     "jdbc:db2://db.example.com:50000/app",
			noPort:   "jdbc:db2://db.example.com/app",
			noDB:     "jdbc:db2://db.example.com:50000",
			bareHost: "jdbc:db2://db.example.com",
		},
		{
			dialect:  dialect.Redshift{},
			full:     "jdbc:redshift://db.example.com:5439/app",
			noPort:   "jdbc:redshift://db.example.com/app",
			noDB:     "jdbc:redshift://db.example.com:5439",
			bareHost: "jdbc:redshift://db.example.com",
		},
		{
			dialect:  dialect.Snowflake{},
			full:     "jdbc:snowflake://db.example.com:443/app",
			noPort:   "jdbc:snowflake://db.example.com/app",
			noDB:     "jdbc:snowflake://db.example.com:443",
			bareHost: "jdbc:snowflake://db.example.com",
		},
	}

	portFor := map[string]string{
		"mysql": "3306", "mariadb": "3306", "postgresql": "5432",
		"sqlserver": "1433", "oracle": "1521", "db2": "50000",
		"redshift": "5439", "snowflake": "443",
	}

	for _, tt := range tests {
		t.Run(tt.dialect.Subprefix(), func(t *testing.T) {
			port := portFor[tt.dialect.Subprefix()]
			assert.Equal(t, tt.full, tt.dialect.BuildURL("db.example.com", port, "app"))
			assert.Equal(t, tt.noPort, tt.dialect.BuildURL("db.example.com", "", "app"))
			assert.Equal(t, tt.noDB, tt.dialect.BuildURL("db.example.com", port, ""))
			assert.Equal(t, tt.bareHost, tt.dialect.BuildURL("db.example.com", "", ""))
		})
	}
}

func TestBuildURLTreatsBlankAsMissing(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jdbc:mysql://h", dialect.MySQL{}.BuildURL("h", "  ", " "))
}

func TestAuthenticationFailureCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dialect dialect.Dialect
		err     error
		want    bool
	}{
		{"mysql access denied", dialect.MySQL{}, &dialect.Error{Code: 1045}, true},
		{"mysql driver error", dialect.MySQL{}, &mysql.MySQLError{Number: 1045, Message: "Access denied"}, true},
		{"mysql other code", dialect.MySQL{}, &dialect.Error{Code: 1044}, false},
		{"mariadb access denied", dialect.MariaDB{}, &mysql.MySQLError{Number: 1045}, true},
		{"postgres invalid password", dialect.PostgreSQL{}, &pq.Error{Code: "28P01"}, true},
		{"postgres invalid authorization", dialect.PostgreSQL{}, &dialect.Error{State: "28000"}, true},
		{"postgres unrelated state", dialect.PostgreSQL{}, &pq.Error{Code: "42601"}, false},
		{"sqlserver login failed", dialect.SQLServer{}, &dialect.Error{Code: 18456}, true},
		{"oracle invalid credentials", dialect.Oracle{}, &dialect.Error{Code: 1017}, true},
		{"oracle credentials mismatch", dialect.Oracle{}, &dialect.Error{Code: 17079}, true},
		{"oracle incorrect password", dialect.Oracle{}, &dialect.Error{Code: 9911}, true},
		{"db2 access denied", dialect.DB2{}, &dialect.Error{Code: -1403}, true},
		{"redshift invalid password", dialect.Redshift{}, &pq.Error{Code: "28P01"}, true},
		{"snowflake bad credentials", dialect.Snowflake{}, &dialect.Error{State: "08001"}, true},
		{"plain error", dialect.MySQL{}, fmt.Errorf("connection refused"), false},
		{"nil error", dialect.MySQL{}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.IsAuthenticationFailure(tt.err))
		})
	}
}

func TestAuthenticationFailureUnwrapsCauseChain(t *testing.T) {
	t.Parallel()

	inner := &dialect.Error{Code: 1045, Message: "access denied"}
	wrapped := fmt.Errorf("opening connection: %w", fmt.Errorf("handshake: %w", inner))
	assert.True(t, dialect.MySQL{}.IsAuthenticationFailure(wrapped))
}

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	r := dialect.DefaultRegistry()

	d, ok := r.Lookup("postgresql")
	require.True(t, ok)
	assert.Equal(t, "postgres", d.DefaultDriverName())

	_, ok = r.Lookup("sybase")
	assert.False(t, ok)

	assert.Equal(t, []string{
		"db2", "mariadb", "mysql", "oracle",
		"postgresql", "redshift", "snowflake", "sqlserver",
	}, r.Subprefixes())
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()

	r := dialect.NewRegistry()
	require.NoError(t, r.Register(dialect.MySQL{}))
	assert.Error(t, r.Register(dialect.MySQL{}))
}
