package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructDatabaseURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		dbName   string
		expected string
	}{
		{"no database name", "postgres://u:p@host:5432", "", "postgres://u:p@host:5432"},
		{"simple", "postgres://u:p@host:5432", "bot", "postgres://u:p@host:5432/bot?sslmode=disable"},
		{"trailing slash", "postgres://u:p@host:5432/", "bot", "postgres://u:p@host:5432/bot?sslmode=disable"},
		{"existing query", "postgres://u:p@host:5432?connect_timeout=5", "bot", "postgres://u:p@host:5432/bot?connect_timeout=5&sslmode=disable"},
		{"explicit sslmode", "postgres://u:p@host:5432?sslmode=require", "bot", "postgres://u:p@host:5432/bot?sslmode=require"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConstructDatabaseURL(tt.baseURL, tt.dbName))
		})
	}
}
