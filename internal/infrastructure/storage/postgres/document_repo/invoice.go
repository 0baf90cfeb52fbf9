package document_repo

import (
	"context"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/domain"
	"backoffice/internal/domain/documents/invoice"
	"backoffice/internal/infrastructure/storage/postgres"
)

var (
	invoiceSchema = postgres.NewSchema[invoice.Invoice]("invoices",
		postgres.WithSearch("client_name", "client_tax_id"),
		postgres.WithDefaultOrder("-created_at"))
	invoiceItemSchema = postgres.NewSchema[invoice.Item]("invoice_items", postgres.WithDefaultOrder("line_no"))
)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	tables documentTables[invoice.Invoice, invoice.Item]
}

func NewInvoiceRepo(txm *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		tables: newDocumentTables(txm, invoiceSchema, invoiceItemSchema, "invoice", "invoice_id",
			[]postgres.Order[invoice.Item]{postgres.Asc(invoiceItemSchema.MustColumn("line_no"))},
			func(invoiceID string) error { return apperror.NewNotFound("invoice", invoiceID) }),
	}
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	return r.tables.insertHeader(ctx, inv)
}

func (r *InvoiceRepo) CreateItems(ctx context.Context, items []invoice.Item) error {
	return r.tables.insertLines(ctx, items)
}

func (r *InvoiceRepo) GetByID(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	return r.tables.get(ctx, invoiceID, false)
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	return r.tables.get(ctx, invoiceID, true)
}

func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID id.ID) ([]invoice.Item, error) {
	return r.tables.linesOf(ctx, invoiceID, false)
}

func (r *InvoiceRepo) Update(ctx context.Context, inv *invoice.Invoice) error {
	return r.tables.save(ctx, inv.ID, &inv.Version, inv)
}

// MaxNumber reads the highest issued number; the unique index on
// (invoice_type, point_of_sale, invoice_number) backs it up.
func (r *InvoiceRepo) MaxNumber(ctx context.Context, invoiceType string, pointOfSale int) (int64, error) {
	return r.tables.header.MaxInt(ctx, invoiceSchema.MustColumn("invoice_number"),
		postgres.Eq(invoiceSchema.MustColumn("invoice_type"), invoiceType),
		postgres.Eq(invoiceSchema.MustColumn("point_of_sale"), pointOfSale),
	)
}

func (r *InvoiceRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[invoice.Invoice], error) {
	return r.tables.header.List(ctx, f)
}

var _ invoice.Repository = (*InvoiceRepo)(nil)
