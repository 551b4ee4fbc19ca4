package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fusionwear/storefront/pkg/config"
	"github.com/fusionwear/storefront/pkg/db"
	"github.com/fusionwear/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteClient(t *testing.T) *db.Client {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		Driver:       config.DBDriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "migrate.db"),
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateEmbedded())

	data, err := Migrations.ReadFile(EmbeddedDir + "/20260301090000_create_storefront_state.sql")
	require.NoError(t, err)
	content := string(data)
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS storefront_state",
		`PRIMARY KEY (scope, "key")`,
		"DROP TABLE IF EXISTS storefront_state",
	} {
		assert.Contains(t, content, sub)
	}
}

func TestMaybeRunAppliesAndRollsBack(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)
	cfg := &config.Config{DB: config.DBConfig{AutoMigrate: true}, App: config.AppConfig{Env: "dev"}}

	require.NoError(t, MaybeRun(ctx, cfg, logger.Nop(), client))

	sqlDB, err := client.SQL()
	require.NoError(t, err)

	version, err := Version(ctx, sqlDB, client.Driver())
	require.NoError(t, err)
	assert.Equal(t, int64(20260301090500), version)

	require.NoError(t, client.DB().WithContext(ctx).Exec(`INSERT INTO storefront_state (scope, "key", value) VALUES ('local', 'ris_cart', '[]')`).Error)

	require.NoError(t, MigrateToVersion(ctx, sqlDB, client.Driver(), "", "20260301090000"))
	version, err = Version(ctx, sqlDB, client.Driver())
	require.NoError(t, err)
	assert.Equal(t, int64(20260301090000), version)

	require.NoError(t, MigrateToVersion(ctx, sqlDB, client.Driver(), "", "20260301090000"))
	assert.Error(t, MigrateToVersion(ctx, sqlDB, client.Driver(), "", "latest"))
}

func TestMaybeRunSkipsWhenDisabled(t *testing.T) {
	client := newSQLiteClient(t)
	cfg := &config.Config{DB: config.DBConfig{AutoMigrate: false}}
	require.NoError(t, MaybeRun(context.Background(), cfg, logger.Nop(), client))

	var count int64
	require.NoError(t, client.DB().WithContext(context.Background()).Raw("SELECT count(*) FROM sqlite_master WHERE name = 'storefront_state'").Scan(&count).Error)
	assert.Zero(t, count)
}

func TestDialect(t *testing.T) {
	got, err := Dialect(config.DBDriverPostgres)
	require.NoError(t, err)
	assert.Equal(t, "postgres", got)

	got, err = Dialect(config.DBDriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", got)

	_, err = Dialect("mysql")
	assert.Error(t, err)
}

func TestCreateSQLMigrationThenValidate(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	path, err := createSQLMigrationAt(dir, "Add Chat Log!", at)
	require.NoError(t, err)
	assert.Equal(t, "20260302100000_add_chat_log.sql", filepath.Base(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "-- +goose Up"))
	require.NoError(t, ValidateDir(dir))

	_, err = createSQLMigrationAt(dir, "Add Chat Log!", at)
	assert.Error(t, err, "duplicate file should be rejected")

	_, err = createSQLMigrationAt(dir, "!!!", at)
	assert.Error(t, err)
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	assert.Error(t, ValidateDir(dir))

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_init.sql"), []byte("-- +goose Up\n"), 0o644))
	assert.Error(t, ValidateDir(dir))
}
