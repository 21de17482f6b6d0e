package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds the bulk insert transaction of an import.
	DefaultTransactionTimeout = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyProcessing is stored under a key while its first request is in flight.
	IdempotencyProcessing = "processing"
)
