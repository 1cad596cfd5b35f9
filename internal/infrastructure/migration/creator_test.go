package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/erp/catalogsync/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add stores table", "add_stores_table"},
		{"Add-Stores-Table", "add_stores_table"},
		{"ADD__STORES", "add_stores"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000010_later.up.sql":     {},
		"000010_later.down.sql":   {},
		"000002_second.up.sql":    {},
		"000002_second.down.sql":  {},
		"000001_initial.up.sql":   {},
		"000001_initial.down.sql": {},
		"README.md":               {},
	}

	names, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_initial", "000002_second", "000010_later"}, names)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for i, name := range names {
		assert.Equal(t, i+1, versionOf(name), "migration %s out of sequence", name)
		_, err := migrations.FS.Open(name + ".down.sql")
		assert.NoError(t, err, "missing down migration for %s", name)
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000003_existing.up.sql"), nil, 0o644))

	mf, err := CreateMigration(dir, "Add sync runs", "Track batch runs")
	require.NoError(t, err)

	assert.Equal(t, "000004", mf.Version)
	assert.Equal(t, filepath.Join(dir, "000004_add_sync_runs.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "000004_add_sync_runs.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: Add sync runs")
	assert.Contains(t, string(up), "-- Description: Track batch runs")

	_, err = os.Stat(mf.DownPath)
	assert.NoError(t, err)
}

func TestCreateMigration_InvalidName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}
