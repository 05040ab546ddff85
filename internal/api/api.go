// Package api carries the handler plumbing shared by every resource
// package: status mapping for store errors, the write-protection wrapper and
// the request log middleware.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/scoutlens/scoutlens/internal/dberr"
)

// Error renders a classified store error with the matching status code.
// Anything unclassified is a 500; store errors are never swallowed.
func Error(c *gin.Context, err error) {
	switch {
	case dberr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case dberr.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case dberr.IsForeignKey(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Protect conditionally wraps a handler with the auth middleware. Read
// routes stay public; mutating routes pass through protect first.
func Protect(protect gin.HandlerFunc, h gin.HandlerFunc) gin.HandlerFunc {
	if protect == nil {
		return h
	}
	return func(c *gin.Context) {
		protect(c)
		if c.IsAborted() {
			return
		}
		h(c)
	}
}

// RequestLogger logs one line per request through zap.
func RequestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
