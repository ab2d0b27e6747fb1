package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	files, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	b, err := fs.ReadFile(Migrations, files[0])
	require.NoError(t, err)

	sql := string(b)
	assert.True(t, strings.Contains(sql, "-- +goose Up"))
	assert.True(t, strings.Contains(sql, "UNIQUE (email)"))
	assert.True(t, strings.Contains(sql, "UNIQUE (user_id, vocabulary_id)"))
	assert.True(t, strings.Contains(sql, "ON DELETE CASCADE"))
}
