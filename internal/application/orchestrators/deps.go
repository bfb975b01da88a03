package orchestrators

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TxRunner runs fn atomically. Store calls made with the ctx handed to fn
// join the transaction; returning an error rolls everything back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// newID returns gen() when set, otherwise a random UUID.
func newID(gen func() string) string {
	if gen != nil {
		return gen()
	}
	return uuid.New().String()
}

// nowFrom returns fn() when set, otherwise the wall clock.
func nowFrom(fn func() time.Time) time.Time {
	if fn != nil {
		return fn()
	}
	return time.Now()
}

// locOrUTC returns loc, defaulting to UTC.
func locOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
