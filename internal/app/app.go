// Package app assembles repositories and services for one storage backend.
package app

import (
	"context"
	"fmt"

	"backoffice/internal/config"
	"backoffice/internal/core/numerator"
	"backoffice/internal/core/tx"
	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/catalogs/client"
	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/catalogs/settings"
	"backoffice/internal/domain/documents/client_return"
	"backoffice/internal/domain/documents/invoice"
	"backoffice/internal/domain/documents/order"
	"backoffice/internal/domain/documents/reception"
	"backoffice/internal/domain/registers/finance"
	"backoffice/internal/domain/registers/inventory"
	"backoffice/internal/infrastructure/cache"
	pgnumerator "backoffice/internal/infrastructure/numerator"
	"backoffice/internal/infrastructure/storage/memory"
	"backoffice/internal/infrastructure/storage/postgres"
	"backoffice/internal/infrastructure/storage/postgres/catalog_repo"
	"backoffice/internal/infrastructure/storage/postgres/document_repo"
	"backoffice/internal/infrastructure/storage/postgres/register_repo"
	"backoffice/pkg/logger"
)

// Backend is the storage side of the engine.
type Backend struct {
	Products   product.Repository
	Clients    client.Repository
	Settings   settings.Repository
	Orders     order.Repository
	Invoices   invoice.Repository
	Returns    client_return.Repository
	Receptions reception.Repository
	Inventory  inventory.Repository
	Finance    finance.Repository

	Numerator numerator.Generator
	TxManager tx.Manager
	Audit     audit.Recorder

	// Pinger is nil for the in-memory backend.
	Pinger interface {
		Ping(ctx context.Context) error
	}

	closers []func()
}

// Close releases connections held by the backend.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// Services are the domain services built on a Backend.
type Services struct {
	Inventory  *inventory.Service
	Orders     *order.Service
	Invoices   *invoice.Service
	Returns    *client_return.Service
	Receptions *reception.Service
}

// NewServices wires the domain services. It fails when the restock rule does not compile.
func NewServices(b *Backend, biz config.BusinessConfig) (*Services, error) {
	var policy client_return.RestockPolicy
	if biz.ReturnRestockRule != "" {
		rule, err := client_return.NewRulePolicy(biz.ReturnRestockRule)
		if err != nil {
			return nil, fmt.Errorf("return restock rule: %w", err)
		}
		policy = rule
	}

	ledger := inventory.NewService(b.Inventory, b.TxManager, biz.DefaultLocation)
	orders := order.NewService(b.Orders, b.Products, ledger, b.TxManager, b.Audit)

	taxes := settings.NewRepositoryProvider(b.Settings, biz.DefaultTaxRate)
	invoices := invoice.NewService(invoice.Deps{
		Repo:      b.Invoices,
		Orders:    orders,
		Clients:   b.Clients,
		Products:  b.Products,
		Finance:   b.Finance,
		Numerator: b.Numerator,
		Taxes:     taxes,
		TxManager: b.TxManager,
		Audit:     b.Audit,
	}, invoice.Defaults{
		InvoiceType:           biz.DefaultInvoiceType,
		PointOfSale:           biz.DefaultPointOfSale,
		AuthorizationValidity: biz.AuthorizationValidity,
	})

	returns := client_return.NewService(client_return.Deps{
		Repo:      b.Returns,
		Clients:   b.Clients,
		Ledger:    ledger,
		Finance:   b.Finance,
		Numerator: b.Numerator,
		Policy:    policy,
		TxManager: b.TxManager,
		Audit:     b.Audit,
	})

	return &Services{
		Inventory:  ledger,
		Orders:     orders,
		Invoices:   invoices,
		Returns:    returns,
		Receptions: reception.NewService(b.Receptions, ledger, b.TxManager, b.Audit),
	}, nil
}

// NewMemoryBackend wraps store. Audit entries go to the structured log.
func NewMemoryBackend(store *memory.Store, log *logger.Logger) *Backend {
	return &Backend{
		Products:   store.Products(),
		Clients:    store.Clients(),
		Settings:   store.Settings(),
		Orders:     store.Orders(),
		Invoices:   store.Invoices(),
		Returns:    store.Returns(),
		Receptions: store.Receptions(),
		Inventory:  store.Inventory(),
		Finance:    store.Finance(),
		Numerator:  store.Sequencer(),
		TxManager:  store,
		Audit:      audit.NewLogRecorder(log),
	}
}

// NewPostgresBackend connects to PostgreSQL and, when an address is configured, Redis.
func NewPostgresBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Backend, error) {
	pool, err := postgres.NewPool(ctx, postgres.PoolConfigFrom(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	b := &Backend{Pinger: pool, closers: []func(){pool.Close}}

	txm := postgres.NewTxManager(pool, cfg.Database.StatementTimeout)
	sink, err := postgres.NewAuditSink(txm)
	if err != nil {
		b.Close()
		return nil, err
	}

	var settingsRepo settings.Repository = catalog_repo.NewSettingsRepo(txm)
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		b.closers = append(b.closers, func() { _ = rdb.Close() })
		settingsRepo = cache.NewSettingsCache(rdb, settingsRepo, cfg.Redis.TTL)
		log.Infow("settings cache enabled", "addr", cfg.Redis.Addr)
	}

	b.Products = catalog_repo.NewProductRepo(txm)
	b.Clients = catalog_repo.NewClientRepo(txm)
	b.Settings = settingsRepo
	b.Orders = document_repo.NewOrderRepo(txm)
	b.Invoices = document_repo.NewInvoiceRepo(txm)
	b.Returns = document_repo.NewClientReturnRepo(txm)
	b.Receptions = document_repo.NewReceptionRepo(txm)
	b.Inventory = register_repo.NewInventoryRepo(txm)
	b.Finance = register_repo.NewFinanceRepo(txm)
	b.Numerator = pgnumerator.New(txm)
	b.TxManager = txm
	b.Audit = sink
	return b, nil
}
