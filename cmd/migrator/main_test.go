package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/db", "pgx5://u:p@localhost:5432/db"},
		{"postgresql://u@localhost/db", "pgx5://u@localhost/db"},
		{"pgx5://localhost/db", "pgx5://localhost/db"},
		{"u:p@localhost/db", "pgx5://u:p@localhost/db"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, databaseURL(tt.in), tt.in)
	}
}
