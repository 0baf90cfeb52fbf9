package reception

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"backoffice/internal/core/apperror"
	appctx "backoffice/internal/core/context"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/core/tx"
	"backoffice/internal/core/types"
	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/registers/inventory"
	"backoffice/pkg/logger"
)

const entityType = "reception"

// Ledger is the part of the inventory ledger receptions use.
type Ledger interface {
	Restock(ctx context.Context, in inventory.RestockInput) (inventory.Record, error)
	DefaultLocation() string
}

// Service handles supplier receptions.
type Service struct {
	repo      Repository
	ledger    Ledger
	txManager tx.Manager
	audit     audit.Recorder
}

func NewService(repo Repository, ledger Ledger, txManager tx.Manager, recorder audit.Recorder) *Service {
	return &Service{repo: repo, ledger: ledger, txManager: txManager, audit: recorder}
}

// Create registers a pending reception.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Reception, error) {
	r := &Reception{
		Base:         entity.NewBase(),
		SupplierID:   in.SupplierID,
		SupplierName: strings.TrimSpace(in.SupplierName),
		Location:     strings.TrimSpace(in.Location),
		Notes:        in.Notes,
		Status:       StatusPending,
	}
	if r.Location == "" {
		r.Location = s.ledger.DefaultLocation()
	}

	total := types.Zero()
	items := make([]Item, 0, len(in.Items))
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, apperror.NewInvalidQuantity(it.Quantity).WithDetail("index", i)
		}
		if it.UnitCost.IsNegative() {
			return nil, apperror.NewValidation("unit cost must not be negative").WithDetail("index", i)
		}
		item := Item{
			ID:          id.New(),
			ReceptionID: r.ID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitCost:    types.Round(it.UnitCost),
		}
		total = total.Add(types.LineAmount(item.Quantity, item.UnitCost))
		items = append(items, item)
	}
	r.TotalCost = types.Round(total)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, r); err != nil {
			return fmt.Errorf("create reception: %w", err)
		}
		return s.repo.CreateItems(ctx, items)
	})
	if err != nil {
		return nil, err
	}
	r.Items = items

	logger.Info(ctx, "reception created", "id", r.ID, "items", len(items))
	audit.Emit(ctx, s.audit, audit.Entry{
		Action:     audit.ActionReceptionCreated,
		EntityType: entityType,
		EntityID:   r.ID,
		Changes:    map[string]any{"total_cost": r.TotalCost.String(), "items": len(items)},
	})
	return r, nil
}

// Approve brings every line into stock at the reception's location.
func (s *Service) Approve(ctx context.Context, receptionID id.ID) (*Reception, error) {
	var r *Reception
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		r, err = s.repo.GetForUpdate(ctx, receptionID)
		if err != nil {
			return err
		}
		if r.Status == StatusApproved {
			return apperror.NewReceptionAlreadyApproved(receptionID.String())
		}
		if r.Items, err = s.repo.GetItems(ctx, receptionID); err != nil {
			return fmt.Errorf("get items: %w", err)
		}
		if len(r.Items) == 0 {
			return apperror.NewReceptionHasNoItems(receptionID.String())
		}

		ref := inventory.Reference{Type: inventory.RefReception, ID: r.ID}
		// buckets are locked in product order, as order creation does
		lines := slices.Clone(r.Items)
		slices.SortStableFunc(lines, func(a, b Item) int { return id.Compare(a.ProductID, b.ProductID) })
		for _, it := range lines {
			if _, err := s.ledger.Restock(ctx, inventory.RestockInput{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Location:  r.Location,
				Type:      inventory.MovementReception,
				Ref:       ref,
				UnitCost:  it.UnitCost,
				Reason:    "supplier reception",
			}); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		performer := appctx.Performer(ctx)
		r.Status = StatusApproved
		r.ApprovedAt = &now
		r.ApprovedBy = &performer
		r.Touch()
		return s.repo.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "reception approved", "id", receptionID, "location", r.Location)
	audit.Emit(ctx, s.audit, audit.Entry{
		Action:     audit.ActionReceptionApproved,
		EntityType: entityType,
		EntityID:   receptionID,
		Changes:    map[string]any{"location": r.Location, "items": len(r.Items)},
	})
	return r, nil
}

// Get returns a reception with its items.
func (s *Service) Get(ctx context.Context, receptionID id.ID) (*Reception, error) {
	r, err := s.repo.GetByID(ctx, receptionID)
	if err != nil {
		return nil, err
	}
	if r.Items, err = s.repo.GetItems(ctx, receptionID); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return r, nil
}
