package invoice

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/core/apperror"
	appctx "backoffice/internal/core/context"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/core/numerator"
	"backoffice/internal/core/tx"
	"backoffice/internal/core/types"
	"backoffice/internal/domain"
	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/catalogs/client"
	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/catalogs/settings"
	"backoffice/internal/domain/documents/order"
	"backoffice/internal/domain/registers/finance"
	"backoffice/pkg/logger"
)

const entityType = "invoice"

var (
	hundred       = decimal.NewFromInt(100)
	authCodeSpace = new(big.Int).Exp(big.NewInt(10), big.NewInt(14), nil)
)

// Orders is the order capability invoicing needs. Both methods run in the caller's transaction.
type Orders interface {
	LockForInvoice(ctx context.Context, orderID id.ID) (*order.Order, error)
	ApplyInvoice(ctx context.Context, o *order.Order, invoiceID id.ID, status order.PaymentStatus) error
}

// Defaults are used when Options leave a field empty.
type Defaults struct {
	InvoiceType           string
	PointOfSale           int
	AuthorizationValidity time.Duration
}

// Service issues invoices.
type Service struct {
	repo      Repository
	orders    Orders
	clients   client.Repository
	products  product.Repository
	finance   finance.Repository
	numerator numerator.Generator
	taxes     settings.Provider
	txManager tx.Manager
	audit     audit.Recorder
	defaults  Defaults
}

// Deps groups the collaborators of Service.
type Deps struct {
	Repo      Repository
	Orders    Orders
	Clients   client.Repository
	Products  product.Repository
	Finance   finance.Repository
	Numerator numerator.Generator
	Taxes     settings.Provider
	TxManager tx.Manager
	Audit     audit.Recorder
}

// NewService creates the invoicing service.
func NewService(d Deps, defaults Defaults) *Service {
	if defaults.InvoiceType == "" {
		defaults.InvoiceType = "B"
	}
	if defaults.PointOfSale <= 0 {
		defaults.PointOfSale = 1
	}
	if defaults.AuthorizationValidity <= 0 {
		defaults.AuthorizationValidity = 10 * 24 * time.Hour
	}
	return &Service{
		repo:      d.Repo,
		orders:    d.Orders,
		clients:   d.Clients,
		products:  d.Products,
		finance:   d.Finance,
		numerator: d.Numerator,
		taxes:     d.Taxes,
		txManager: d.TxManager,
		audit:     d.Audit,
		defaults:  defaults,
	}
}

// CreateFromOrder invoices what an order actually fulfilled: the picked
// quantity of each line once picking started, the ordered quantity otherwise.
func (s *Service) CreateFromOrder(ctx context.Context, orderID id.ID, opts Options) (*Invoice, error) {
	var inv *Invoice
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.LockForInvoice(ctx, orderID)
		if err != nil {
			return err
		}
		if err := checkInvoiceable(o); err != nil {
			return err
		}

		ids := make([]id.ID, 0, len(o.Items))
		for _, it := range o.Items {
			ids = append(ids, it.ProductID)
		}
		catalog, err := s.products.GetByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}

		lines := make([]ManualLine, 0, len(o.Items))
		for _, it := range o.Items {
			pid := it.ProductID
			line := ManualLine{
				ProductID:       &pid,
				Quantity:        it.FulfilledQuantity(),
				UnitPrice:       it.UnitPrice,
				DiscountPercent: types.Zero(),
			}
			if p, ok := catalog[pid]; ok {
				line.SKU = p.SKU
				line.Description = p.Name
			}
			lines = append(lines, line)
		}

		inv = &Invoice{Base: entity.NewBase(), OrderID: &o.ID, ClientName: o.CustomerName}
		if err := s.snapshotClient(ctx, inv, o.ClientID); err != nil {
			return err
		}
		if len(opts.Payments) == 0 && opts.FallbackMethod == "" {
			opts.FallbackMethod = o.PaymentMethod
		}
		if err := s.issue(ctx, inv, lines, opts); err != nil {
			return err
		}
		return s.orders.ApplyInvoice(ctx, o, inv.ID, inv.PaymentStatus)
	})
	if err != nil {
		return nil, err
	}

	s.created(ctx, inv)
	return inv, nil
}

// CreateManual issues a point-of-sale invoice from caller-priced lines.
// Lines may carry a discount percentage.
func (s *Service) CreateManual(ctx context.Context, in ManualInput) (*Invoice, error) {
	if len(in.Lines) == 0 {
		return nil, apperror.NewValidation("invoice must contain at least one line").
			WithDetail("field", "lines")
	}
	for i, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, apperror.NewInvalidQuantity(l.Quantity).WithDetail("index", i)
		}
		if l.UnitPrice.IsNegative() {
			return nil, apperror.NewValidation("unit price must not be negative").WithDetail("index", i)
		}
		if l.DiscountPercent.IsNegative() || l.DiscountPercent.GreaterThan(hundred) {
			return nil, apperror.NewValidation("discount must be between 0 and 100").
				WithDetail("index", i).
				WithDetail("discount", l.DiscountPercent.String())
		}
	}

	var inv *Invoice
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var o *order.Order
		if in.OrderID != nil {
			var err error
			o, err = s.orders.LockForInvoice(ctx, *in.OrderID)
			if err != nil {
				return err
			}
			if o.InvoiceID != nil {
				return apperror.NewOrderAlreadyInvoiced(o.ID.String(), o.InvoiceID.String())
			}
			if o.Status == order.StatusCancelled {
				return apperror.NewOrderCancelled(o.ID.String())
			}
		}

		inv = &Invoice{
			Base:          entity.NewBase(),
			OrderID:       in.OrderID,
			ClientName:    strings.TrimSpace(in.ClientName),
			ClientTaxID:   strings.TrimSpace(in.ClientTaxID),
			ClientAddress: strings.TrimSpace(in.ClientAddress),
		}
		if err := s.snapshotClient(ctx, inv, in.ClientID); err != nil {
			return err
		}
		if err := s.issue(ctx, inv, in.Lines, in.Options); err != nil {
			return err
		}
		if o != nil {
			return s.orders.ApplyInvoice(ctx, o, inv.ID, inv.PaymentStatus)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.created(ctx, inv)
	return inv, nil
}

func checkInvoiceable(o *order.Order) error {
	if o.InvoiceID != nil {
		return apperror.NewOrderAlreadyInvoiced(o.ID.String(), o.InvoiceID.String())
	}
	if o.Status == order.StatusCancelled {
		return apperror.NewOrderCancelled(o.ID.String())
	}
	if len(o.Items) == 0 {
		return apperror.NewOrderWithoutItems(o.ID.String())
	}
	return nil
}

// snapshotClient copies the client's identity into inv. An explicit tax id or address on inv wins.
func (s *Service) snapshotClient(ctx context.Context, inv *Invoice, clientID *id.ID) error {
	if clientID == nil {
		return nil
	}
	c, err := s.clients.GetByID(ctx, *clientID)
	if err != nil {
		return err
	}
	inv.ClientID = &c.ID
	inv.ClientName = c.Name
	if inv.ClientTaxID == "" {
		inv.ClientTaxID = c.TaxID
	}
	if inv.ClientAddress == "" {
		inv.ClientAddress = c.Address
	}
	return nil
}

// issue prices, numbers and persists inv with its lines and payment transactions.
// Every validation runs before the first write.
func (s *Service) issue(ctx context.Context, inv *Invoice, lines []ManualLine, opts Options) error {
	rate, err := s.taxes.TaxRate(ctx)
	if err != nil {
		return fmt.Errorf("read tax rate: %w", err)
	}

	inv.InvoiceType = strings.ToUpper(strings.TrimSpace(opts.InvoiceType))
	if inv.InvoiceType == "" {
		inv.InvoiceType = s.defaults.InvoiceType
	}
	inv.PointOfSale = opts.PointOfSale
	if inv.PointOfSale <= 0 {
		inv.PointOfSale = s.defaults.PointOfSale
	}

	inv.Items = PriceLines(inv.ID, lines, rate)
	inv.TaxRate = rate
	inv.NetAmount, inv.VatAmount, inv.TotalAmount = Totals(inv.Items, rate)

	rec, err := NormalizePayments(inv.TotalAmount, opts.Payments, opts.FallbackMethod, opts.Deferred)
	if err != nil {
		return err
	}
	inv.Status = StatusIssued
	inv.PaidAmount = rec.Paid
	inv.PaymentStatus = rec.Status
	inv.PaymentMethod = rec.Method

	observed, err := s.repo.MaxNumber(ctx, inv.InvoiceType, inv.PointOfSale)
	if err != nil {
		return fmt.Errorf("read last invoice number: %w", err)
	}
	inv.Number, err = s.numerator.Next(ctx, numerator.InvoiceScope(inv.InvoiceType, inv.PointOfSale), observed)
	if err != nil {
		return fmt.Errorf("next invoice number: %w", err)
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	if err := s.repo.CreateItems(ctx, inv.Items); err != nil {
		return fmt.Errorf("create invoice items: %w", err)
	}

	now := time.Now().UTC()
	performer := appctx.Performer(ctx)
	txs := make([]finance.Transaction, 0, len(rec.Splits))
	for _, p := range rec.Splits {
		txs = append(txs, finance.Transaction{
			ID:          id.New(),
			Type:        finance.TypeInvoicePayment,
			Amount:      p.Amount,
			Method:      p.Method,
			Description: fmt.Sprintf("Invoice %s payment (%s)", inv.DisplayNumber(), p.Method),
			ClientID:    inv.ClientID,
			InvoiceID:   &inv.ID,
			OrderID:     inv.OrderID,
			Date:        now,
			CreatedBy:   performer,
		})
	}
	if err := s.finance.Create(ctx, txs); err != nil {
		return fmt.Errorf("record payments: %w", err)
	}
	inv.Payments = txs
	return nil
}

// PriceLines turns requested lines into invoice items.
// net = round(qty * price * (1 - discount/100)), vat = round(net * rate / 100).
func PriceLines(invoiceID id.ID, lines []ManualLine, rate types.Money) []Item {
	items := make([]Item, 0, len(lines))
	for i, l := range lines {
		price := types.Round(l.UnitPrice)
		gross := price.Mul(decimal.NewFromInt(l.Quantity))
		net := types.Discounted(gross, l.DiscountPercent)
		vat := types.Percent(net, rate)
		items = append(items, Item{
			ID:              id.New(),
			InvoiceID:       invoiceID,
			LineNo:          i + 1,
			ProductID:       l.ProductID,
			SKU:             l.SKU,
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitPrice:       price,
			DiscountPercent: l.DiscountPercent,
			VatRate:         rate,
			NetAmount:       net,
			VatAmount:       vat,
			LineTotal:       types.Sum(net, vat),
		})
	}
	return items
}

// Totals returns net, vat and total of the priced items. VAT is computed once on the net sum.
func Totals(items []Item, rate types.Money) (net, vat, total types.Money) {
	net = types.Zero()
	for _, it := range items {
		net = net.Add(it.NetAmount)
	}
	net = types.Round(net)
	vat = types.Percent(net, rate)
	return net, vat, types.Sum(net, vat)
}

func (s *Service) created(ctx context.Context, inv *Invoice) {
	logger.Info(ctx, "invoice created",
		"id", inv.ID,
		"number", inv.DisplayNumber(),
		"total", inv.TotalAmount.String(),
		"payment_status", inv.PaymentStatus,
	)
	changes := map[string]any{
		"number":         inv.DisplayNumber(),
		"total_amount":   inv.TotalAmount.String(),
		"payment_status": string(inv.PaymentStatus),
	}
	if inv.OrderID != nil {
		changes["order_id"] = inv.OrderID.String()
	}
	audit.Emit(ctx, s.audit, audit.Entry{
		Action:     audit.ActionInvoiceCreated,
		EntityType: entityType,
		EntityID:   inv.ID,
		Changes:    changes,
	})
}

// Authorize attaches an authorization code and expiry. Authorizing twice returns the first result.
func (s *Service) Authorize(ctx context.Context, invoiceID id.ID) (*Invoice, error) {
	var (
		inv   *Invoice
		fresh bool
	)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.repo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.IsAuthorized() {
			return nil
		}

		code, err := authorizationCode()
		if err != nil {
			return apperror.NewInternal(err)
		}
		now := time.Now().UTC()
		expires := now.Add(s.defaults.AuthorizationValidity)
		inv.Status = StatusAuthorized
		inv.AuthorizationCode = &code
		inv.AuthorizationExpiresAt = &expires
		inv.AuthorizedAt = &now
		inv.Touch()
		fresh = true
		return s.repo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	if fresh {
		logger.Info(ctx, "invoice authorized", "id", inv.ID, "number", inv.DisplayNumber())
		audit.Emit(ctx, s.audit, audit.Entry{
			Action:     audit.ActionInvoiceAuthorized,
			EntityType: entityType,
			EntityID:   inv.ID,
			Changes:    map[string]any{"authorization_code": *inv.AuthorizationCode},
		})
	}
	return inv, nil
}

// authorizationCode returns 14 random decimal digits.
func authorizationCode() (string, error) {
	n, err := rand.Int(rand.Reader, authCodeSpace)
	if err != nil {
		return "", fmt.Errorf("generate authorization code: %w", err)
	}
	return fmt.Sprintf("%014d", n), nil
}

// Get returns an invoice with its lines and payments.
func (s *Service) Get(ctx context.Context, invoiceID id.ID) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Items, err = s.repo.GetItems(ctx, invoiceID); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	if inv.Payments, err = s.finance.ByInvoice(ctx, invoiceID); err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}
	return inv, nil
}

// List returns invoice headers.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Invoice], error) {
	return s.repo.List(ctx, filter)
}
