package inventory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/core/apperror"
	appctx "backoffice/internal/core/context"
	"backoffice/internal/core/id"
	"backoffice/internal/core/tx"
	"backoffice/pkg/logger"
)

const (
	reasonOrderDeduction = "order deduction"
	reasonCancellation   = "cancellation restock"
)

// Service is the inventory ledger.
// Each operation joins the caller's transaction or opens its own.
type Service struct {
	repo            Repository
	txManager       tx.Manager
	strategy        AllocationStrategy
	defaultLocation string
}

// Option configures the ledger.
type Option func(*Service)

// WithStrategy replaces the bucket ordering used by Allocate.
func WithStrategy(s AllocationStrategy) Option {
	return func(svc *Service) { svc.strategy = s }
}

// NewService creates the inventory ledger.
func NewService(repo Repository, txManager tx.Manager, defaultLocation string, opts ...Option) *Service {
	s := &Service{
		repo:            repo,
		txManager:       txManager,
		strategy:        LargestFirst,
		defaultLocation: defaultLocation,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultLocation is where stock without an explicit location goes.
func (s *Service) DefaultLocation() string { return s.defaultLocation }

// Allocate deducts quantity units of a product, consuming buckets in strategy order.
// On shortage nothing is written and INSUFFICIENT_STOCK carries requested and available totals.
func (s *Service) Allocate(ctx context.Context, productID id.ID, quantity int64, ref Reference) ([]Allocation, error) {
	if quantity <= 0 {
		return nil, apperror.NewInvalidQuantity(quantity)
	}

	var plan []Allocation
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		records, err := s.repo.LockStockedRecords(ctx, productID)
		if err != nil {
			return fmt.Errorf("lock stock of %s: %w", productID, err)
		}
		s.strategy(records)

		var available int64
		var ok bool
		plan, available, ok = planAllocation(records, quantity)
		if !ok {
			return apperror.NewInsufficientStock(productID.String(), quantity, available)
		}

		byID := make(map[id.ID]int, len(records))
		for i, r := range records {
			byID[r.ID] = i
		}

		now := time.Now().UTC()
		performer := appctx.Performer(ctx)
		updated := make([]Record, 0, len(plan))
		movements := make([]Movement, 0, len(plan))
		for _, a := range plan {
			r := records[byID[a.RecordID]]
			r.Quantity -= a.Quantity
			r.UpdatedAt = now
			updated = append(updated, r)

			movements = append(movements, Movement{
				ID:            id.New(),
				Type:          MovementSale,
				ProductID:     productID,
				FromLocation:  strPtr(a.Location),
				Quantity:      a.Quantity,
				UnitCost:      decimal.Zero,
				Reason:        reasonOrderDeduction,
				ReferenceType: ref.Type,
				ReferenceID:   ref.ID,
				PerformedBy:   performer,
				CreatedAt:     now,
			})
		}

		if err := s.repo.UpdateQuantities(ctx, updated); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		if err := s.repo.AppendMovements(ctx, movements); err != nil {
			return fmt.Errorf("append movements: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, "stock allocated",
		"product_id", productID,
		"quantity", quantity,
		"buckets", len(plan),
		"reference_type", ref.Type,
		"reference_id", ref.ID,
	)
	return plan, nil
}

// Restock increases the stock of (product, location) and appends a movement to it.
func (s *Service) Restock(ctx context.Context, in RestockInput) (Record, error) {
	if in.Quantity <= 0 {
		return Record{}, apperror.NewInvalidQuantity(in.Quantity)
	}
	if !in.Type.increasesStock() {
		return Record{}, apperror.NewValidation("movement type does not increase stock").
			WithDetail("type", string(in.Type))
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		location = s.defaultLocation
	}

	var rec Record
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		rec, err = s.repo.AddQuantity(ctx, in.ProductID, location, in.Quantity)
		if err != nil {
			return fmt.Errorf("add stock: %w", err)
		}
		return s.repo.AppendMovements(ctx, []Movement{{
			ID:            id.New(),
			Type:          in.Type,
			ProductID:     in.ProductID,
			ToLocation:    strPtr(location),
			Quantity:      in.Quantity,
			UnitCost:      in.UnitCost,
			Reason:        in.Reason,
			ReferenceType: in.Ref.Type,
			ReferenceID:   in.Ref.ID,
			PerformedBy:   appctx.Performer(ctx),
			CreatedAt:     time.Now().UTC(),
		}})
	})
	return rec, err
}

// RecordDamage logs units that came back unsellable. Stock is not touched.
func (s *Service) RecordDamage(ctx context.Context, productID id.ID, quantity int64, ref Reference, reason string) error {
	if quantity <= 0 {
		return apperror.NewInvalidQuantity(quantity)
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.AppendMovements(ctx, []Movement{{
			ID:            id.New(),
			Type:          MovementDamage,
			ProductID:     productID,
			Quantity:      quantity,
			UnitCost:      decimal.Zero,
			Reason:        reason,
			ReferenceType: ref.Type,
			ReferenceID:   ref.ID,
			PerformedBy:   appctx.Performer(ctx),
			CreatedAt:     time.Now().UTC(),
		}})
	})
}

type bucketKey struct {
	productID id.ID
	location  string
}

// ReverseAllocationsFor puts back what an order took, bucket by bucket, by
// replaying its sale movements. Restocks already recorded for the order are
// subtracted, so a second call restores nothing. Orders without sale
// movements are restocked from fallback at the default location.
func (s *Service) ReverseAllocationsFor(ctx context.Context, orderID id.ID, fallback []FallbackLine) ([]Restocked, error) {
	var out []Restocked
	ref := Reference{Type: RefOrder, ID: orderID}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		moves, err := s.repo.MovementsByReference(ctx, ref)
		if err != nil {
			return fmt.Errorf("read movements of order %s: %w", orderID, err)
		}

		sold := make(map[bucketKey]int64)
		restocked := make(map[bucketKey]int64)
		var anyRestock bool
		for _, m := range moves {
			switch m.Type {
			case MovementSale:
				sold[bucketKey{m.ProductID, deref(m.FromLocation)}] += m.Quantity
			case MovementRestock:
				anyRestock = true
				restocked[bucketKey{m.ProductID, deref(m.ToLocation)}] += m.Quantity
			}
		}

		var todo []Restocked
		if len(sold) == 0 {
			if anyRestock {
				return nil
			}
			for _, line := range fallback {
				if line.Quantity > 0 {
					todo = append(todo, Restocked{ProductID: line.ProductID, Location: s.defaultLocation, Quantity: line.Quantity})
				}
			}
			if len(todo) > 0 {
				logger.Warn(ctx, "order has no sale movements, restocking from order lines",
					"order_id", orderID, "lines", len(todo))
			}
		} else {
			keys := make([]bucketKey, 0, len(sold))
			for k := range sold {
				keys = append(keys, k)
			}
			slices.SortFunc(keys, func(a, b bucketKey) int {
				if c := id.Compare(a.productID, b.productID); c != 0 {
					return c
				}
				return cmp.Compare(a.location, b.location)
			})
			for _, k := range keys {
				if remaining := sold[k] - restocked[k]; remaining > 0 {
					todo = append(todo, Restocked{ProductID: k.productID, Location: k.location, Quantity: remaining})
				}
			}
		}

		for _, r := range todo {
			if _, err := s.Restock(ctx, RestockInput{
				ProductID: r.ProductID,
				Quantity:  r.Quantity,
				Location:  r.Location,
				Type:      MovementRestock,
				Ref:       ref,
				UnitCost:  decimal.Zero,
				Reason:    reasonCancellation,
			}); err != nil {
				return err
			}
		}
		out = todo
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order allocations reversed", "order_id", orderID, "buckets", len(out))
	return out, nil
}

// Availability returns the stock of a product per location.
func (s *Service) Availability(ctx context.Context, productID id.ID) (Availability, error) {
	records, err := s.repo.RecordsByProduct(ctx, productID)
	if err != nil {
		return Availability{}, fmt.Errorf("read stock of %s: %w", productID, err)
	}
	av := Availability{ProductID: productID, Records: records}
	for _, r := range records {
		av.Total += r.Quantity
	}
	return av, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
