package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// NewRelicAttributes tags the transaction started by nrgin with the request
// ID and, once authentication has run, the caller. It is a no-op when New
// Relic is disabled.
func NewRelicAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		txn := nrgin.Transaction(c)
		if txn == nil {
			c.Next()
			return
		}

		txn.AddAttribute("request_id", GetRequestID(c))

		c.Next()

		if p, ok := CurrentPrincipal(c); ok {
			txn.AddAttribute("user_id", p.UserID)
			txn.AddAttribute("user_role", string(p.Role))
		}
		for _, err := range c.Errors {
			txn.NoticeError(err.Err)
		}
	}
}
