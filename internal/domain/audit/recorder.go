// Package audit defines the side-channel used to record business events.
//
// Recording is best-effort: services call Emit after their transaction has
// committed, and a failing recorder never changes the operation's result.
package audit

import (
	"context"
	"time"

	appctx "backoffice/internal/core/context"
	"backoffice/internal/core/id"
	"backoffice/pkg/logger"
)

// Action names an audited event.
type Action string

const (
	ActionOrderCreated      Action = "order.created"
	ActionOrderStatus       Action = "order.status_changed"
	ActionOrderItemPicked   Action = "order.item_picked"
	ActionInvoiceCreated    Action = "invoice.created"
	ActionInvoiceAuthorized Action = "invoice.authorized"
	ActionReturnCreated     Action = "return.created"
	ActionReturnApproved    Action = "return.approved"
	ActionReturnRejected    Action = "return.rejected"
	ActionReceptionCreated  Action = "reception.created"
	ActionReceptionApproved Action = "reception.approved"
)

// Entry is one audit record.
type Entry struct {
	Action     Action
	EntityType string
	EntityID   id.ID
	UserID     string
	Changes    map[string]any
	CreatedAt  time.Time
}

// Recorder appends audit entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Emit fills attribution and records entry, logging and discarding any failure.
func Emit(ctx context.Context, r Recorder, entry Entry) {
	if r == nil {
		return
	}
	if entry.UserID == "" {
		entry.UserID = appctx.Performer(ctx)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := r.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "audit record failed",
			"action", entry.Action,
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
			"error", err,
		)
	}
}

// LogRecorder writes entries to the structured log. Used when no audit table is available.
type LogRecorder struct {
	log *logger.Logger
}

func NewLogRecorder(log *logger.Logger) *LogRecorder {
	return &LogRecorder{log: log.WithComponent("audit")}
}

func (r *LogRecorder) Record(ctx context.Context, entry Entry) error {
	r.log.WithContext(ctx).Infow("audit",
		"action", entry.Action,
		"entity_type", entry.EntityType,
		"entity_id", entry.EntityID,
		"user_id", entry.UserID,
		"changes", entry.Changes,
	)
	return nil
}
