package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add depots table", "add_depots_table"},
		{"Add-Depots-Table", "add_depots_table"},
		{"ADD__DEPOTS", "add_depots"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersSequentially(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add depots", "Depot locations per branch")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_depots.up.sql"), first.UpPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_depots\n")
	assert.Contains(t, string(up), "Depot locations per branch")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	second, err := CreateMigration(dir, "Price History", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
	assert.Equal(t, "000002_price_history", second.FileBase())

	body, err := os.ReadFile(second.UpPath)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "Description")
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nested, "init", "")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{
		"000010_credit_indexes.up.sql",
		"000010_credit_indexes.down.sql",
		"000002_add_depots.up.sql",
		"000002_add_depots.down.sql",
		"000001_init_schema.up.sql",
		"README.md",
		"notes.up.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- test"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o755))

	got, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []Migration{
		{Version: 1, Name: "init_schema"},
		{Version: 2, Name: "add_depots"},
		{Version: 10, Name: "credit_indexes"},
	}, got)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	got, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListMigrations_RepositorySchema(t *testing.T) {
	got, err := ListMigrations(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, Migration{Version: 1, Name: "init_schema"}, got[0])

	for _, m := range got {
		_, err := os.Stat(filepath.Join("..", "..", "..", "migrations", m.FileBase()+downSuffix))
		assert.NoError(t, err, "missing rollback for %s", m.FileBase())
	}
}
