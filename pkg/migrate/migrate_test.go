package migrate

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, Validate(Embedded()))
}

func TestEmbeddedSchemaStatements(t *testing.T) {
	src := Embedded()
	checks := map[string][]string{
		"20260301090000_create_vendors_table.sql": {
			"CREATE TABLE IF NOT EXISTS vendors",
			"region text,",
		},
		"20260301090100_create_products_table.sql": {
			"CREATE TABLE IF NOT EXISTS products",
			"available_sizes text[]",
			"available_colors text[]",
			"price_kes bigint NOT NULL",
		},
		"20260301090200_create_orders_tables.sql": {
			"CREATE TYPE order_status AS ENUM",
			"'awaiting_payment'",
			"CREATE TYPE delivery_zone AS ENUM ('same_metro', 'inter_city', 'distant', 'pickup')",
			"CREATE TYPE delivery_address_t AS",
			"CREATE TABLE IF NOT EXISTS orders",
			"CREATE TABLE IF NOT EXISTS order_items",
			"quantity integer NOT NULL CHECK (quantity BETWEEN 1 AND 10)",
		},
	}

	for file, statements := range checks {
		data, err := fs.ReadFile(src.FS, path.Join(src.Dir, file))
		require.NoError(t, err, file)
		for _, stmt := range statements {
			if !strings.Contains(string(data), stmt) {
				t.Errorf("%s: missing expected statement %q", file, stmt)
			}
		}
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

	path, err := CreateSQLMigration(dir, "Add Vendor Ratings!", now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20260302103000_add_vendor_ratings.sql"), path)
	require.NoError(t, Validate(Disk(dir)))

	_, err = CreateSQLMigration(dir, "add vendor ratings", now)
	require.Error(t, err, "same version and name should collide")

	_, err = CreateSQLMigration(dir, "!!!", now)
	require.Error(t, err)
}

func TestValidateRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "add_things.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, Validate(Disk(dir)))

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_up_only.sql"), []byte("-- +goose Up\n"), 0o644))
	require.Error(t, Validate(Disk(dir)))
}

func TestRunRequiresDB(t *testing.T) {
	require.Error(t, Run(context.Background(), nil, Embedded(), "up"))
	require.Error(t, MigrateToVersion(context.Background(), nil, Embedded(), "20260301090000"))
}
