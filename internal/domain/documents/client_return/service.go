package client_return

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
	"backoffice/internal/core/numerator"
	"backoffice/internal/core/tx"
	"backoffice/internal/core/types"
	"backoffice/internal/domain"
	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/catalogs/client"
	"backoffice/internal/domain/registers/finance"
	"backoffice/internal/domain/registers/inventory"
	"backoffice/pkg/logger"
)

const entityType = "client_return"

// Ledger is the part of the inventory ledger returns use.
type Ledger interface {
	Restock(ctx context.Context, in inventory.RestockInput) (inventory.Record, error)
	RecordDamage(ctx context.Context, productID id.ID, quantity int64, ref inventory.Reference, reason string) error
}

// Service processes client returns.
type Service struct {
	repo      Repository
	clients   client.Repository
	ledger    Ledger
	finance   finance.Repository
	numerator numerator.Generator
	policy    RestockPolicy
	txManager tx.Manager
	audit     audit.Recorder
	now       func() time.Time
}

// Deps groups the collaborators of Service.
type Deps struct {
	Repo      Repository
	Clients   client.Repository
	Ledger    Ledger
	Finance   finance.Repository
	Numerator numerator.Generator
	Policy    RestockPolicy // SellableOnly when nil
	TxManager tx.Manager
	Audit     audit.Recorder
}

// NewService creates the returns service.
func NewService(d Deps) *Service {
	policy := d.Policy
	if policy == nil {
		policy = SellableOnly{}
	}
	return &Service{
		repo:      d.Repo,
		clients:   d.Clients,
		ledger:    d.Ledger,
		finance:   d.Finance,
		numerator: d.Numerator,
		policy:    policy,
		txManager: d.TxManager,
		audit:     d.Audit,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create registers a pending return. The total is computed from the lines.
// A return without lines can be created but not approved.
func (s *Service) Create(ctx context.Context, in CreateInput) (*ClientReturn, error) {
	r := &ClientReturn{
		Base:         entity.NewBase(),
		ClientID:     in.ClientID,
		CustomerName: strings.TrimSpace(in.CustomerName),
		OrderID:      in.OrderID,
		Reason:       strings.TrimSpace(in.Reason),
		Status:       StatusPending,
	}

	total := types.Zero()
	items := make([]Item, 0, len(in.Items))
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, apperror.NewInvalidQuantity(it.Quantity).WithDetail("index", i)
		}
		if it.UnitPrice.IsNegative() {
			return nil, apperror.NewValidation("unit price must not be negative").WithDetail("index", i)
		}
		cond := it.Condition
		if cond == "" {
			cond = ConditionSellable
		}
		if cond != ConditionSellable && cond != ConditionDamaged {
			return nil, apperror.NewValidation("unknown item condition").
				WithDetail("index", i).
				WithDetail("condition", string(cond))
		}
		item := Item{
			ID:        id.New(),
			ReturnID:  r.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Condition: cond,
			UnitPrice: types.Round(it.UnitPrice),
		}
		total = total.Add(item.Subtotal())
		items = append(items, item)
	}
	r.TotalAmount = types.Round(total)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if r.ClientID != nil {
			c, err := s.clients.GetByID(ctx, *r.ClientID)
			if err != nil {
				return err
			}
			if r.CustomerName == "" {
				r.CustomerName = c.Name
			}
		}
		if err := s.repo.Create(ctx, r); err != nil {
			return fmt.Errorf("create return: %w", err)
		}
		if err := s.repo.CreateItems(ctx, items); err != nil {
			return fmt.Errorf("create return items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.Items = items

	logger.Info(ctx, "client return created", "id", r.ID, "total", r.TotalAmount.String())
	audit.Emit(ctx, s.audit, audit.Entry{
		Action:     audit.ActionReturnCreated,
		EntityType: entityType,
		EntityID:   r.ID,
		Changes:    map[string]any{"total_amount": r.TotalAmount.String(), "items": len(items)},
	})
	return r, nil
}

// Approve restocks the returned units the policy accepts, logs the rest as
// damage, issues a credit note for the return total and credits the client.
// A return is approved at most once.
func (s *Service) Approve(ctx context.Context, returnID id.ID) (*ApprovalResult, error) {
	var res *ApprovalResult
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := s.repo.GetForUpdate(ctx, returnID)
		if err != nil {
			return err
		}
		if err := checkPending(r); err != nil {
			return err
		}
		items, err := s.repo.GetItemsForUpdate(ctx, returnID)
		if err != nil {
			return fmt.Errorf("lock return items: %w", err)
		}
		if len(items) == 0 {
			return apperror.NewReturnWithoutItems(returnID.String())
		}
		if !r.TotalAmount.IsPositive() {
			return apperror.NewReturnTotalInvalid(returnID.String(), r.TotalAmount.String())
		}

		var c *client.Client
		if r.ClientID != nil {
			if c, err = s.clients.GetForUpdate(ctx, *r.ClientID); err != nil {
				return err
			}
		}

		restock := make([]bool, len(items))
		for i, it := range items {
			if restock[i], err = s.policy.Restock(it, r.Reason); err != nil {
				return apperror.NewInternal(err).WithDetail("item_id", it.ID.String())
			}
		}

		res = &ApprovalResult{ReturnID: r.ID, Amount: r.TotalAmount}
		ref := inventory.Reference{Type: inventory.RefClientReturn, ID: r.ID}
		// buckets are locked in product order, as order creation does
		for _, i := range byProduct(items) {
			it := items[i]
			if restock[i] {
				if _, err := s.ledger.Restock(ctx, inventory.RestockInput{
					ProductID: it.ProductID,
					Quantity:  it.Quantity,
					Type:      inventory.MovementReturn,
					Ref:       ref,
					UnitCost:  it.UnitPrice,
					Reason:    "client return",
				}); err != nil {
					return err
				}
				res.RestockedQty += it.Quantity
				continue
			}
			if err := s.ledger.RecordDamage(ctx, it.ProductID, it.Quantity, ref, "client return: "+string(it.Condition)); err != nil {
				return err
			}
			res.DiscardedQty += it.Quantity
		}

		now := s.now()
		cn, err := s.issueCreditNote(ctx, r, c, now)
		if err != nil {
			return err
		}
		res.CreditNoteID = cn.ID
		res.CreditNoteNumber = cn.Number

		if err := s.finance.Create(ctx, []finance.Transaction{{
			ID:          id.New(),
			Type:        finance.TypeCreditNote,
			Amount:      cn.Amount,
			Method:      "credit_note",
			Description: fmt.Sprintf("Credit note %s", cn.Number),
			ClientID:    r.ClientID,
			OrderID:     r.OrderID,
			ReturnID:    &r.ID,
			Date:        now,
			CreatedBy:   appctx.Performer(ctx),
		}}); err != nil {
			return fmt.Errorf("record credit transaction: %w", err)
		}

		if c != nil {
			if err := s.clients.AdjustBalance(ctx, c.ID, cn.Amount.Neg()); err != nil {
				return fmt.Errorf("adjust client balance: %w", err)
			}
		}

		performer := appctx.Performer(ctx)
		r.Status = StatusApproved
		r.CreditNoteID = &cn.ID
		r.ResolvedAt = &now
		r.ResolvedBy = &performer
		r.Touch()
		return s.repo.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "client return approved",
		"id", returnID,
		"credit_note", res.CreditNoteNumber,
		"restocked", res.RestockedQty,
		"discarded", res.DiscardedQty,
	)
	audit.Emit(ctx, s.audit, audit.Entry{
		Action:     audit.ActionReturnApproved,
		EntityType: entityType,
		EntityID:   returnID,
		Changes: map[string]any{
			"credit_note_number": res.CreditNoteNumber,
			"amount":             res.Amount.String(),
			"restocked_qty":      res.RestockedQty,
			"discarded_qty":      res.DiscardedQty,
		},
	})
	return res, nil
}

func (s *Service) issueCreditNote(ctx context.Context, r *ClientReturn, c *client.Client, now time.Time) (*CreditNote, error) {
	year := now.Year()
	observed, err := s.repo.MaxCreditNoteSequence(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("read last credit note: %w", err)
	}
	seq, err := s.numerator.Next(ctx, numerator.CreditNoteScope(year), observed)
	if err != nil {
		return nil, fmt.Errorf("next credit note number: %w", err)
	}

	cn := NewCreditNote(year, seq)
	cn.ReturnID = r.ID
	cn.Amount = r.TotalAmount
	cn.ClientID = r.ClientID
	cn.ClientName = r.CustomerName
	if c != nil {
		cn.ClientName = c.Name
		cn.ClientTaxID = c.TaxID
	}
	if err := s.repo.CreateCreditNote(ctx, cn); err != nil {
		return nil, fmt.Errorf("create credit note: %w", err)
	}
	return cn, nil
}

// Reject closes a pending return without touching stock or balances.
func (s *Service) Reject(ctx context.Context, returnID id.ID, reason string) (*ClientReturn, error) {
	var r *ClientReturn
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		r, err = s.repo.GetForUpdate(ctx, returnID)
		if err != nil {
			return err
		}
		if err := checkPending(r); err != nil {
			return err
		}
		now := s.now()
		performer := appctx.Performer(ctx)
		r.Status = StatusRejected
		if reason = strings.TrimSpace(reason); reason != "" {
			r.Reason = reason
		}
		r.ResolvedAt = &now
		r.ResolvedBy = &performer
		r.Touch()
		return s.repo.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "client return rejected", "id", returnID)
	audit.Emit(ctx, s.audit, audit.Entry{
		Action:     audit.ActionReturnRejected,
		EntityType: entityType,
		EntityID:   returnID,
		Changes:    map[string]any{"reason": r.Reason},
	})
	return r, nil
}

func checkPending(r *ClientReturn) error {
	switch r.Status {
	case StatusPending:
		return nil
	case StatusApproved:
		return apperror.NewReturnAlreadyApproved(r.ID.String())
	default:
		return apperror.NewReturnInvalidState(r.ID.String(), string(r.Status))
	}
}

// Get returns a return with its items.
func (s *Service) Get(ctx context.Context, returnID id.ID) (*ClientReturn, error) {
	r, err := s.repo.GetByID(ctx, returnID)
	if err != nil {
		return nil, err
	}
	if r.Items, err = s.repo.GetItems(ctx, returnID); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return r, nil
}

// CreditNote returns a credit note by id.
func (s *Service) CreditNote(ctx context.Context, creditNoteID id.ID) (*CreditNote, error) {
	return s.repo.GetCreditNote(ctx, creditNoteID)
}

// List returns return headers.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[ClientReturn], error) {
	return s.repo.List(ctx, filter)
}

// byProduct returns item indexes ordered by product id, keeping line order within a product.
func byProduct(items []Item) []int {
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return id.Compare(items[a].ProductID, items[b].ProductID)
	})
	return idx
}
