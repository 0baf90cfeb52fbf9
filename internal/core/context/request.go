// Package context carries the request-scoped caller and trace ids.
package context

import (
	"context"
)

// SystemPerformer attributes work done without a caller.
const SystemPerformer = "system"

// UserContext is the caller resolved by the upstream gateway.
type UserContext struct {
	UserID string
}

// TraceContext ties log lines and responses of one request together.
type TraceContext struct {
	TraceID   string
	RequestID string
}

type (
	userKey  struct{}
	traceKey struct{}
)

func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUserID returns the caller id or "".
func GetUserID(ctx context.Context) string {
	if u, ok := ctx.Value(userKey{}).(*UserContext); ok && u != nil {
		return u.UserID
	}
	return ""
}

// Performer is the value stored in performed_by and created_by columns.
func Performer(ctx context.Context) string {
	if uid := GetUserID(ctx); uid != "" {
		return uid
	}
	return SystemPerformer
}

func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceKey{}, trace)
}

// Trace returns the trace of ctx, nil outside a request.
func Trace(ctx context.Context) *TraceContext {
	t, _ := ctx.Value(traceKey{}).(*TraceContext)
	return t
}

// RequestID returns the request id or "".
func RequestID(ctx context.Context) string {
	if t := Trace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// LogFields returns the request identifiers as logger key/value pairs.
func LogFields(ctx context.Context) []any {
	var kv []any
	if t := Trace(ctx); t != nil {
		kv = append(kv, "trace_id", t.TraceID, "request_id", t.RequestID)
	}
	if uid := GetUserID(ctx); uid != "" {
		kv = append(kv, "user_id", uid)
	}
	return kv
}
