package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerformer(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, SystemPerformer, Performer(ctx))

	ctx = WithUser(ctx, &UserContext{UserID: "u-42"})
	assert.Equal(t, "u-42", Performer(ctx))
	assert.Equal(t, "u-42", GetUserID(ctx))
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.Nil(t, Trace(ctx))

	ctx = WithTrace(ctx, &TraceContext{TraceID: "t-1", RequestID: "r-1"})
	assert.Equal(t, "r-1", RequestID(ctx))
	assert.Equal(t, "t-1", Trace(ctx).TraceID)
}

func TestLogFields(t *testing.T) {
	assert.Empty(t, LogFields(context.Background()))

	ctx := WithTrace(context.Background(), &TraceContext{TraceID: "t-1", RequestID: "r-1"})
	ctx = WithUser(ctx, &UserContext{UserID: "clerk"})
	assert.Equal(t, []any{"trace_id", "t-1", "request_id", "r-1", "user_id", "clerk"}, LogFields(ctx))
}
