package database

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"shoppinglist-api/internal/validation"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewConfigFromEnv()
		assert.Equal(t, DriverPostgres, cfg.Driver)
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, "5432", cfg.Port)
		assert.Equal(t, "shoppinglist", cfg.Name)
		assert.Equal(t, 25, cfg.MaxOpenConns)
		assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
		assert.True(t, cfg.AutoMigrate)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("DB_SQLITE_PATH", "/tmp/x.db")
		t.Setenv("DB_MAX_OPEN_CONNS", "3")
		t.Setenv("DB_CONN_MAX_LIFETIME", "30s")
		t.Setenv("DB_AUTO_MIGRATE", "false")

		cfg := NewConfigFromEnv()
		assert.Equal(t, DriverSQLite, cfg.Driver)
		assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
		assert.Equal(t, 3, cfg.MaxOpenConns)
		assert.Equal(t, 30*time.Second, cfg.ConnMaxLifetime)
		assert.False(t, cfg.AutoMigrate)
	})

	t.Run("invalid numbers fall back", func(t *testing.T) {
		t.Setenv("DB_MAX_OPEN_CONNS", "many")
		assert.Equal(t, 25, NewConfigFromEnv().MaxOpenConns)
	})
}

func TestConfigURLs(t *testing.T) {
	cfg := &Config{Host: "db", Port: "5433", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=disable", cfg.DSN())
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=disable", cfg.URL())
}

func TestConnectUnsupportedDriver(t *testing.T) {
	_, err := Connect(&Config{Driver: "oracle"})
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	stmts := Schema(DriverPostgres)
	all := strings.Join(stmts, "\n")
	assert.Contains(t, all, "TIMESTAMPTZ")
	for _, c := range validation.StoreConstraints() {
		assert.Contains(t, all, c.SQL())
	}

	sqliteAll := strings.Join(Schema(DriverSQLite), "\n")
	assert.Contains(t, sqliteAll, "DATETIME")
	assert.NotContains(t, sqliteAll, "TIMESTAMPTZ")
}

func TestConnectSQLiteAndEnsureSchema(t *testing.T) {
	db, err := Connect(&Config{Driver: DriverSQLite, SQLitePath: ":memory:", ConnMaxLifetime: time.Minute})
	require.NoError(t, err)
	defer func() { _ = Close(db) }()

	require.NoError(t, EnsureSchema(db))
	// idempotent
	require.NoError(t, EnsureSchema(db))

	assert.True(t, db.Migrator().HasTable("lists"))
	assert.True(t, db.Migrator().HasTable("items"))

	err = db.Exec(`INSERT INTO items (id, list_id, name, qty, created_at, updated_at)
		VALUES ('a', 'b', 'milk', -1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chk_items_qty_non_negative")
}

func TestGormLoggerWritesThroughLogrus(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	quiet := newGormLogger(log, false)
	quiet.Info(context.Background(), "opened %s", "lists")
	assert.Empty(t, buf.String())

	quiet.Error(context.Background(), "insert failed: %s", "disk full")
	assert.Contains(t, buf.String(), "insert failed: disk full")
	assert.Contains(t, buf.String(), `"level":"info"`)

	buf.Reset()
	newGormLogger(log, true).Info(context.Background(), "opened %s", "lists")
	assert.Contains(t, buf.String(), "opened lists")
}
