package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData carries the caller identity resolved by the upstream gateway.
type RequestData struct {
	UserID    uuid.UUID
	SessionID string
	// Timezone is the caller's IANA zone hint; empty when the client sent none.
	Timezone string
}

// HasUser reports whether a caller identity was resolved.
func (rd *RequestData) HasUser() bool { return rd != nil && rd.UserID != uuid.Nil }

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
