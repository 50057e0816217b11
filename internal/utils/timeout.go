package utils

import (
	"context"
	"time"
)

const (
	DefaultDBTimeout = 5 * time.Second
	// catalog reads fall back to the database when Redis is slower than this
	DefaultCacheTimeout = 300 * time.Millisecond
)

func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultDBTimeout)
}

func WithCacheTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultCacheTimeout)
}
