package utils

import (
	"github.com/gin-gonic/gin"
)

// RequestContext is what a service call needs to know about the inbound
// request. Controllers build it; services never touch *gin.Context.
type RequestContext struct {
	UserID    uint
	ClientIP  string
	RequestID string
	RawBody   []byte
}

// NewRequestContext captures the caller, client IP and request id from c.
// userID is 0 for unauthenticated endpoints such as the webhook.
func NewRequestContext(c *gin.Context, userID uint) RequestContext {
	return RequestContext{
		UserID:    userID,
		ClientIP:  c.ClientIP(),
		RequestID: c.GetString(ContextRequestIDKey),
	}
}
