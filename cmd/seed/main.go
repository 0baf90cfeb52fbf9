// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"

	"backoffice/internal/app"
	"backoffice/internal/config"
	"backoffice/internal/domain/catalogs/client"
	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/registers/inventory"
	"backoffice/internal/infrastructure/cache"
	"backoffice/internal/infrastructure/storage/postgres"
	"backoffice/internal/infrastructure/storage/postgres/catalog_repo"
	"backoffice/internal/infrastructure/storage/postgres/register_repo"
	"backoffice/pkg/logger"
)

// pgCatalog writes demo reference data through the catalog repositories.
type pgCatalog struct {
	products *catalog_repo.ProductRepo
	clients  *catalog_repo.ClientRepo
	settings *catalog_repo.SettingsRepo
	cache    *cache.SettingsCache // nil without Redis
}

func (c pgCatalog) AddProduct(ctx context.Context, p *product.Product) error {
	return c.products.Insert(ctx, p)
}

func (c pgCatalog) AddClient(ctx context.Context, cl *client.Client) error {
	return c.clients.Insert(ctx, cl)
}

func (c pgCatalog) SetSetting(ctx context.Context, key, value string) error {
	if err := c.settings.Set(ctx, key, value); err != nil {
		return err
	}
	if c.cache != nil {
		return c.cache.Invalidate(ctx, key)
	}
	return nil
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}
	if cfg.App.Storage != config.StoragePostgres {
		log.Fatal("seed works on postgres storage only; the memory store seeds itself with SEED_DEMO_DATA=true")
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.PoolConfigFrom(cfg.Database))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txm := postgres.NewTxManager(pool, cfg.Database.StatementTimeout)
	cat := pgCatalog{
		products: catalog_repo.NewProductRepo(txm),
		clients:  catalog_repo.NewClientRepo(txm),
		settings: catalog_repo.NewSettingsRepo(txm),
	}
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalw("failed to connect to redis", "error", err)
		}
		defer rdb.Close()
		cat.cache = cache.NewSettingsCache(rdb, cat.settings, cfg.Redis.TTL)
	}
	ledger := inventory.NewService(register_repo.NewInventoryRepo(txm), txm, cfg.Business.DefaultLocation)

	if err := app.SeedDemo(ctx, cat, ledger, txm); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	log.Info("seeding completed successfully")
}
