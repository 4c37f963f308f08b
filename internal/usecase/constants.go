package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// SystemUserID is recorded when no caller identity is available.
	SystemUserID = "system"

	// integrityPageSize bounds how many posted vouchers are verified per query.
	integrityPageSize = 500
)
