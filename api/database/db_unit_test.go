package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// DATABASE_URL points at the Supabase transaction pooler in every deployed
// environment, so the DSN rewrite has to cope with both bare URLs and URLs
// that already carry query parameters.
func TestWithDisablePreparedStatements(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{
			name: "bare direct-connection URL",
			dsn:  "postgres://postgres:pw@db.abcdefgh.supabase.co:5432/postgres",
			want: "postgres://postgres:pw@db.abcdefgh.supabase.co:5432/postgres?disable_prepared_statements=true&binary_parameters=yes",
		},
		{
			name: "pooler URL with existing params",
			dsn:  "postgres://postgres.abcdefgh:pw@aws-0-ap-south-1.pooler.supabase.com:6543/postgres?sslmode=require",
			want: "postgres://postgres.abcdefgh:pw@aws-0-ap-south-1.pooler.supabase.com:6543/postgres?sslmode=require&disable_prepared_statements=true&binary_parameters=yes",
		},
		{
			name: "already disabled stays untouched",
			dsn:  "postgres://u:p@h/db?disable_prepared_statements=true&binary_parameters=yes",
			want: "postgres://u:p@h/db?disable_prepared_statements=true&binary_parameters=yes",
		},
		{
			name: "prefer_simple_protocol respected",
			dsn:  "postgres://u:p@h/db?prefer_simple_protocol=true",
			want: "postgres://u:p@h/db?prefer_simple_protocol=true",
		},
		{
			name: "binary_parameters kept as configured",
			dsn:  "postgres://u:p@h/db?binary_parameters=no",
			want: "postgres://u:p@h/db?binary_parameters=no&disable_prepared_statements=true",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withDisablePreparedStatements(tt.dsn))
		})
	}
}

func TestWithDisablePreparedStatements_NeverDuplicatesParams(t *testing.T) {
	out := withDisablePreparedStatements(withDisablePreparedStatements("postgres://u:p@h/db"))
	assert.Equal(t, 1, strings.Count(out, "disable_prepared_statements="))
	assert.Equal(t, 1, strings.Count(out, "binary_parameters="))
}
