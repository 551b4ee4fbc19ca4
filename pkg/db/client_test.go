package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/fusionwear/storefront/pkg/config"
	"github.com/fusionwear/storefront/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.StateRecord{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestPing(t *testing.T) {
	client := Wrap(newTestDB(t), "")
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if client.Driver() != config.DBDriverSQLite {
		t.Fatalf("expected empty driver to default to sqlite, got %q", client.Driver())
	}
}

func TestNewOpensSQLiteFile(t *testing.T) {
	cfg := config.DBConfig{
		Driver:       "SQLite",
		DSN:          filepath.Join(t.TempDir(), "storefront.db"),
		MaxOpenConns: 1,
	}
	client, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer client.Close()

	if client.Driver() != config.DBDriverSQLite {
		t.Fatalf("unexpected driver %q", client.Driver())
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{Driver: "oracle", DSN: "x"}, nil); err == nil {
		t.Fatal("expected unsupported driver error")
	}
	if _, err := New(context.Background(), config.DBConfig{Driver: "sqlite"}, nil); err == nil {
		t.Fatal("expected missing DSN error")
	}
}

func TestIsNotFound(t *testing.T) {
	client := Wrap(newTestDB(t), "sqlite")

	var rec models.StateRecord
	err := client.DB().Where("scope = ?", "missing").Take(&rec).Error
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if IsNotFound(errors.New("boom")) {
		t.Fatalf("plain errors must not match")
	}
}
