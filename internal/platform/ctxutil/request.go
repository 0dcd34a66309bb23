package ctxutil

import (
	"context"
	"time"
)

type requestDataKey struct{}

// RequestData identifies the authenticated caller.
type RequestData struct {
	Username string
	TokenID  string
	TokenExp time.Time
	RawToken string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// Owner returns the current username, or "" when nobody is signed in.
func Owner(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.Username
	}
	return ""
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
