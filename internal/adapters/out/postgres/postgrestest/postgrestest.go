// Package postgrestest starts a disposable Postgres for integration suites and
// migrates the dispatch schema into it.
package postgrestest

import (
	"context"
	"time"

	adapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/catalogrepo"
	"dispatch/internal/adapters/out/postgres/riderrepo"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tables lists every table in truncation order.
const Tables = "payments, order_items, orders, commission_rates, riders, products, stores"

// Database is a running container with a migrated schema.
type Database struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
}

// Start runs postgres:15-alpine and migrates the schema.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, err
	}

	db, err := adapter.Open(dsn, logger.Default.LogMode(logger.Silent))
	if err != nil {
		return nil, err
	}

	if err = adapter.Migrate(db); err != nil {
		return nil, err
	}

	return &Database{Container: container, DB: db}, nil
}

// Truncate empties every table.
func (d *Database) Truncate() error {
	return d.DB.Exec("TRUNCATE TABLE " + Tables).Error
}

// Terminate stops the container.
func (d *Database) Terminate(ctx context.Context) error {
	if d == nil || d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}

// SeedStore inserts an approved, active store.
func (d *Database) SeedStore(ctx context.Context, id kernel.UUID, name string) error {
	return d.DB.WithContext(ctx).Create(&catalogrepo.StoreDTO{
		ID: id.Bytes(), Name: name, IsApproved: true, IsActive: true,
	}).Error
}

// SeedProduct inserts an available product priced at price with stock units.
func (d *Database) SeedProduct(
	ctx context.Context,
	id, storeID kernel.UUID,
	name string,
	price kernel.Money,
	stock int,
) error {
	return d.DB.WithContext(ctx).Create(&catalogrepo.ProductDTO{
		ID: id.Bytes(), StoreID: storeID.Bytes(), Name: name,
		Price: price.Decimal(), IsAvailable: true, StockQuantity: stock,
	}).Error
}

// SeedRider inserts an approved, available rider.
func (d *Database) SeedRider(ctx context.Context, id kernel.UUID, name string) error {
	return d.DB.WithContext(ctx).Create(&riderrepo.RiderDTO{
		ID: id.Bytes(), Name: name, IsApproved: true, IsAvailable: true,
	}).Error
}
