// Package pgtest starts a disposable PostgreSQL for integration tests and
// migrates the dispatch schema into it.
package pgtest

import (
	"context"
	"testing"
	"time"

	"fooddispatch/internal/adapters/out/postgres"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tables lists every table Migrate creates, for truncation between tests.
const Tables = "order_status_history, order_items, orders, couriers, vendors, dispatch_outbox"

// Database is a running container with an open, migrated connection.
type Database struct {
	Container *tcpostgres.PostgresContainer
	DB        *gorm.DB
}

// Start runs postgres:15-alpine and migrates the schema.
func Start(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))

	return &Database{Container: container, DB: db}
}

// Truncate empties every table.
func (d *Database) Truncate(t *testing.T) {
	t.Helper()
	require.NoError(t, d.DB.Exec("TRUNCATE TABLE "+Tables).Error)
}

// Stop terminates the container.
func (d *Database) Stop(t *testing.T) {
	t.Helper()
	if d == nil || d.Container == nil {
		return
	}
	require.NoError(t, d.Container.Terminate(context.Background()))
}
