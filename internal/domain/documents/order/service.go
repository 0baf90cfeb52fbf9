package order

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/core/tx"
	"backoffice/internal/core/types"
	"backoffice/internal/domain"
	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/registers/inventory"
	"backoffice/pkg/logger"
)

const entityType = "order"

// DefaultPaymentMethod is stored when an order is placed without one.
const DefaultPaymentMethod = "cash"

// Ledger is the part of the inventory ledger the order engine drives.
type Ledger interface {
	Allocate(ctx context.Context, productID id.ID, quantity int64, ref inventory.Reference) ([]inventory.Allocation, error)
	ReverseAllocationsFor(ctx context.Context, orderID id.ID, fallback []inventory.FallbackLine) ([]inventory.Restocked, error)
}

// Service provides the order lifecycle.
type Service struct {
	repo      Repository
	products  product.Repository
	ledger    Ledger
	txManager tx.Manager
	audit     audit.Recorder
}

// NewService creates the order service. recorder may be nil.
func NewService(
	repo Repository,
	products product.Repository,
	ledger Ledger,
	txManager tx.Manager,
	recorder audit.Recorder,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		ledger:    ledger,
		txManager: txManager,
		audit:     recorder,
	}
}

// Create places an order. Prices come from the product catalog; a declared
// total is ignored. Stock is allocated per line and any failure rolls back
// the order together with every deduction made so far.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, apperror.NewValidation("order must contain at least one item").
			WithDetail("field", "items")
	}
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, apperror.NewInvalidQuantity(it.Quantity).WithDetail("index", i)
		}
		if id.IsNil(it.ProductID) {
			return nil, apperror.NewValidation("product is required").WithDetail("index", i)
		}
	}

	o := &Order{
		Base:          entity.NewBase(),
		ClientID:      in.ClientID,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = DefaultPaymentMethod
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ids := make([]id.ID, 0, len(in.Items))
		for _, it := range in.Items {
			ids = append(ids, it.ProductID)
		}
		catalog, err := s.products.GetByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}

		items := make([]Item, 0, len(in.Items))
		for i, it := range in.Items {
			p, ok := catalog[it.ProductID]
			if !ok {
				return apperror.NewNotFound("product", it.ProductID.String())
			}
			if !p.HasPrice() {
				return apperror.NewProductPriceMissing(it.ProductID.String())
			}
			items = append(items, Item{
				ID:        id.New(),
				OrderID:   o.ID,
				LineNo:    i + 1,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: types.Round(*p.SalePrice),
			})
		}

		total := types.Zero()
		for _, it := range items {
			total = total.Add(it.Subtotal())
		}
		o.TotalAmount = types.Round(total)

		if err := s.repo.Create(ctx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		// Allocate in product order so concurrent orders lock stock rows the same way.
		ordered := slices.Clone(items)
		slices.SortStableFunc(ordered, func(a, b Item) int {
			return id.Compare(a.ProductID, b.ProductID)
		})
		ref := inventory.Reference{Type: inventory.RefOrder, ID: o.ID}
		for _, it := range ordered {
			if _, err := s.ledger.Allocate(ctx, it.ProductID, it.Quantity, ref); err != nil {
				return err
			}
		}

		if err := s.repo.CreateItems(ctx, items); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}
		o.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	if in.DeclaredTotal != nil && !types.WithinTolerance(*in.DeclaredTotal, o.TotalAmount) {
		logger.Warn(ctx, "declared order total ignored",
			"order_id", o.ID,
			"declared", in.DeclaredTotal.String(),
			"computed", o.TotalAmount.String(),
		)
	}
	logger.Info(ctx, "order created", "id", o.ID, "total", o.TotalAmount.String(), "items", len(o.Items))
	audit.Emit(ctx, s.audit, audit.Entry{
		Action:     audit.ActionOrderCreated,
		EntityType: entityType,
		EntityID:   o.ID,
		Changes:    map[string]any{"total_amount": o.TotalAmount.String(), "items": len(o.Items)},
	})
	return o, nil
}

// Get returns an order with its items.
func (s *Service) Get(ctx context.Context, orderID id.ID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	o.Items = items
	return o, nil
}

// List returns order headers.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Order], error) {
	return s.repo.List(ctx, filter)
}

// Transition moves an order to the requested status. Aliases are accepted.
// Cancelling puts back every unit the order took from stock.
func (s *Service) Transition(ctx context.Context, orderID id.ID, requested string) (*Order, error) {
	target, ok := ParseStatus(requested)
	if !ok {
		o, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return nil, apperror.NewInvalidOrderTransition(string(o.Status), requested)
	}
	return s.transition(ctx, orderID, target, nil)
}

// Dispatch hands the order to a carrier. A pickup goes straight to delivered.
func (s *Service) Dispatch(ctx context.Context, orderID id.ID, in DispatchInput) (*Order, error) {
	method := strings.ToLower(strings.TrimSpace(in.Method))
	target := StatusDispatched
	if method == ShippingPickup {
		target = StatusDelivered
	}
	return s.transition(ctx, orderID, target, func(o *Order) {
		now := time.Now().UTC()
		o.Shipping.Method = method
		o.Shipping.Carrier = in.Carrier
		o.Shipping.TrackingNumber = in.TrackingNumber
		o.Shipping.Address = in.Address
		o.Shipping.DispatchedAt = &now
		if target == StatusDelivered {
			o.Shipping.DeliveredAt = &now
		}
	})
}

// Deliver records the hand-over to the recipient.
func (s *Service) Deliver(ctx context.Context, orderID id.ID, in DeliveryInput) (*Order, error) {
	return s.transition(ctx, orderID, StatusDelivered, func(o *Order) {
		now := time.Now().UTC()
		o.Shipping.RecipientName = in.RecipientName
		o.Shipping.RecipientDocument = in.RecipientDocument
		o.Shipping.DeliveredAt = &now
	})
}

// transition returns the order with its items. An order already in target is returned unchanged.
func (s *Service) transition(ctx context.Context, orderID id.ID, target Status, mutate func(*Order)) (*Order, error) {
	var (
		o         *Order
		from      Status
		restocked []inventory.Restocked
	)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.repo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		from = o.Status
		if o.Items, err = s.repo.GetItems(ctx, orderID); err != nil {
			return fmt.Errorf("get items: %w", err)
		}
		if from == target {
			return nil
		}
		if !CanTransition(from, target) {
			return apperror.NewInvalidOrderTransition(string(from), string(target))
		}

		if target == StatusCancelled {
			fallback := make([]inventory.FallbackLine, 0, len(o.Items))
			for _, it := range o.Items {
				fallback = append(fallback, inventory.FallbackLine{ProductID: it.ProductID, Quantity: it.Quantity})
			}
			restocked, err = s.ledger.ReverseAllocationsFor(ctx, orderID, fallback)
			if err != nil {
				return err
			}
		}

		o.Status = target
		if mutate != nil {
			mutate(o)
		}
		o.Touch()
		return s.repo.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	if from != target {
		logger.Info(ctx, "order status changed", "id", orderID, "from", from, "to", target)
		changes := map[string]any{"from": string(from), "to": string(target)}
		if len(restocked) > 0 {
			changes["restocked_buckets"] = len(restocked)
		}
		audit.Emit(ctx, s.audit, audit.Entry{
			Action:     audit.ActionOrderStatus,
			EntityType: entityType,
			EntityID:   orderID,
			Changes:    changes,
		})
	}
	return o, nil
}

// PickItem records how many units of a line were picked, clamped to [0, quantity].
// Order status is left alone.
func (s *Service) PickItem(ctx context.Context, itemID id.ID, picked int64) (*Item, error) {
	probe, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	var item *Item
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := s.repo.GetForUpdate(ctx, probe.OrderID)
		if err != nil {
			return err
		}
		if o.Status.IsClosed() {
			return apperror.NewOrderClosed(o.ID.String(), string(o.Status))
		}
		item, err = s.repo.GetItemForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		item.PickedQuantity = ClampPicked(picked, item.Quantity)
		return s.repo.UpdatePickedQuantity(ctx, itemID, item.PickedQuantity)
	})
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, "order item picked", "item_id", itemID, "picked", item.PickedQuantity)
	audit.Emit(ctx, s.audit, audit.Entry{
		Action:     audit.ActionOrderItemPicked,
		EntityType: "order_item",
		EntityID:   itemID,
		Changes:    map[string]any{"picked_quantity": item.PickedQuantity},
	})
	return item, nil
}

// ClampPicked bounds a picked quantity to [0, ordered].
func ClampPicked(picked, ordered int64) int64 {
	return max(0, min(picked, ordered))
}

// LockForInvoice locks the order and loads its items for invoicing.
// It must run inside the caller's transaction.
func (s *Service) LockForInvoice(ctx context.Context, orderID id.ID) (*Order, error) {
	o, err := s.repo.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	o.Items = items
	return o, nil
}

// ApplyInvoice links an invoice to a locked order and records its payment
// status. A fully paid order is promoted to completed when its current
// status allows it. It must run inside the caller's transaction.
func (s *Service) ApplyInvoice(ctx context.Context, o *Order, invoiceID id.ID, status PaymentStatus) error {
	o.InvoiceID = &invoiceID
	o.PaymentStatus = status
	if status == PaymentPaid && o.Status != StatusCompleted && CanTransition(o.Status, StatusCompleted) {
		logger.Info(ctx, "order completed by payment", "id", o.ID, "from", o.Status)
		o.Status = StatusCompleted
	}
	o.Touch()
	return s.repo.Update(ctx, o)
}
