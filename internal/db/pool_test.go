package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDBPoolParams_ConnString(t *testing.T) {
	testCases := []struct {
		name   string
		params NewDBPoolParams
		want   string
	}{
		{
			name:   "DefaultUser",
			params: NewDBPoolParams{DBHost: "localhost", DBPort: "5432", DBName: "vibefit"},
			want:   "postgres://postgres@localhost:5432/vibefit",
		},
		{
			name: "WithPassword",
			params: NewDBPoolParams{
				DBHost: "db", DBPort: "5433", DBName: "gym", DBUser: "coach", DBPassword: "p@ss",
			},
			want: "postgres://coach:p%40ss@db:5433/gym",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.params.ConnString())
		})
	}
}
