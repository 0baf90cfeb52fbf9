package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appctx "backoffice/internal/core/context"
)

// HeaderUserID carries the caller identity resolved by the upstream gateway.
const HeaderUserID = "X-User-ID"

// UserContext puts the X-User-ID caller into the request context.
// Domain services read it through appctx.Performer for attribution.
// Without the header the request runs as "system".
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader(HeaderUserID)); uid != "" {
			ctx := appctx.WithUser(c.Request.Context(), &appctx.UserContext{UserID: uid})
			c.Request = c.Request.WithContext(ctx)
			c.Set("user_id", uid)
		}
		c.Next()
	}
}
