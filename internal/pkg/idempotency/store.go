// Package idempotency stores the outcome of requests submitted with an
// Idempotency-Key header so retries replay the first response.
package idempotency

import (
	"context"
	"time"
)

// Record is what is kept for one key. A record without a status code is
// still in flight.
type Record struct {
	RequestHash string `json:"requestHash"`
	StatusCode  int    `json:"statusCode,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

func (r Record) Completed() bool {
	return r.StatusCode != 0
}

type Store interface {
	// Reserve claims key for a request with the given hash. When the key is
	// already known the stored record is returned and reserved is false.
	Reserve(ctx context.Context, key string, requestHash string, ttl time.Duration) (existing Record, reserved bool, err error)

	// Complete stores the final response for a reserved key.
	Complete(ctx context.Context, key string, record Record, ttl time.Duration) error

	// Release forgets a reserved key so the request can be retried.
	Release(ctx context.Context, key string) error
}
