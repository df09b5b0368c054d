package migration

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"add payables", "add_payables"},
		{"Add-Payroll  Records", "add_payroll_records"},
		{"  __drop debts!__ ", "drop_debts"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeName(tt.in))
		})
	}
}

func TestCreateMigration_NumbersSequentially(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "create branches")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_create_branches.up.sql"), first.UpPath)
	assert.FileExists(t, first.DownPath)

	second, err := CreateMigration(dir, "Add Contacts")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)

	content, err := os.ReadFile(second.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "-- add_contacts (up)")
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "???")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000010_payroll.up.sql", "000010_payroll.down.sql",
		"000002_contacts.up.sql", "000002_contacts.down.sql",
		"README.md", "notes.up.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o755))

	files, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, uint(2), files[0].Version)
	assert.Equal(t, "contacts", files[0].Name)
	assert.Equal(t, uint(10), files[1].Version)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	files, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestShippedMigrationsStoreMoneyAtFourPlaces(t *testing.T) {
	files, err := ListMigrations(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	fixed := regexp.MustCompile(`(?i)(numeric|decimal)\(\s*(\d+)\s*,\s*(\d+)\s*\)`)
	for _, f := range files {
		body, err := os.ReadFile(f.UpPath)
		require.NoError(t, err)
		for _, m := range fixed.FindAllStringSubmatch(string(body), -1) {
			assert.Equal(t, "NUMERIC(18,4)", strings.ToUpper(m[1])+"("+m[2]+","+m[3]+")", "%s", filepath.Base(f.UpPath))
		}
	}
}
