package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/thesis-api/pkg/errors"
	"github.com/noah-isme/thesis-api/pkg/response"
)

// ContextAccountIDKey holds the caller's account id once resolved.
const ContextAccountIDKey = "identity.account_id"

// DefaultIdentityHeader carries the account id resolved by the upstream
// session layer.
const DefaultIdentityHeader = "X-User-ID"

// Identity reads the caller's account id from header. Requests without the
// header continue anonymously; a malformed value is rejected.
func Identity(header string) gin.HandlerFunc {
	if header == "" {
		header = DefaultIdentityHeader
	}
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(header))
		if raw == "" {
			c.Next()
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid "+header+" header"))
			c.Abort()
			return
		}
		c.Set(ContextAccountIDKey, id)
		c.Next()
	}
}

// AccountID returns the resolved caller, if any.
func AccountID(c *gin.Context) (int64, bool) {
	value, ok := c.Get(ContextAccountIDKey)
	if !ok {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}
