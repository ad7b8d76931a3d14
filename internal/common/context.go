package common

import (
	"context"
	"time"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRequestID     contextKey = "request_id"
	ContextKeyApplicationID contextKey = "application_id"
	ContextKeyLogger        contextKey = "logger"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithApplicationID adds an application ID to the context
func WithApplicationID(ctx context.Context, applicationID string) context.Context {
	return context.WithValue(ctx, ContextKeyApplicationID, applicationID)
}

// ApplicationIDFromContext extracts the application ID from context
func ApplicationIDFromContext(ctx context.Context) string {
	if applicationID, ok := ctx.Value(ContextKeyApplicationID).(string); ok {
		return applicationID
	}
	return ""
}

// WithTimeout creates a context with the specified timeout
func WithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// WithDeadline creates a context with the specified deadline
func WithDeadline(parent context.Context, deadline time.Time) (context.Context, context.CancelFunc) {
	return context.WithDeadline(parent, deadline)
}
