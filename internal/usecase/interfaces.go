package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/erpledger/internal/domain"
)

// AccountRepository defines read access to the chart of accounts.
type AccountRepository interface {
	GetByCode(ctx context.Context, companyID, code string) (*domain.Account, error)
	GetByID(ctx context.Context, companyID, id string) (*domain.Account, error)
	HasChildren(ctx context.Context, companyID, accountID string) (bool, error)
	List(ctx context.Context, companyID string, limit, offset int) ([]*domain.Account, error)
}

// CompanyRepository defines read access to companies.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Company, error)
}

// VoucherRepository defines data access for vouchers and their lines.
type VoucherRepository interface {
	Create(ctx context.Context, tx Transaction, voucher *domain.Voucher) error
	// Update persists the header and lines only when the stored version equals
	// expectedVersion, returning domain.ErrConcurrentModification otherwise.
	Update(ctx context.Context, tx Transaction, voucher *domain.Voucher, expectedVersion int64) error
	GetByID(ctx context.Context, companyID, id string) (*domain.Voucher, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, companyID, id string) (*domain.Voucher, error)
	List(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error)
	NextNumber(ctx context.Context, tx Transaction, companyID string, voucherType domain.VoucherType) (string, error)
	// LiveReversalID returns the ID of a reversal of voucherID that is not
	// cancelled, or "" when there is none.
	LiveReversalID(ctx context.Context, tx Transaction, companyID, voucherID string) (string, error)
}

// LedgerRepository defines data access for posted ledger lines.
type LedgerRepository interface {
	RecordForVoucher(ctx context.Context, tx Transaction, voucher *domain.Voucher) error
	DeleteForVoucher(ctx context.Context, tx Transaction, companyID, voucherID string) error
	GetTrialBalance(ctx context.Context, companyID string, asOf time.Time) ([]domain.TrialBalanceRow, error)
	GetGeneralLedger(ctx context.Context, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error)
	GetAccountBalanceBefore(ctx context.Context, companyID, accountID string, before time.Time) (debit, credit decimal.Decimal, err error)
	// SumGeneralLedgerPrefix sums the first rows lines GetGeneralLedger would
	// return for filter, ignoring its Limit and Offset.
	SumGeneralLedgerPrefix(ctx context.Context, filter domain.LedgerFilter, rows int) (debit, credit decimal.Decimal, err error)
	CheckConsistency(ctx context.Context, companyID string) (domain.LedgerBalance, error)
	GetVoucherTotals(ctx context.Context, companyID string, voucherIDs []string) (map[string]domain.VoucherLedgerTotals, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// PermissionChecker authorizes a user for a company-scoped permission.
// A non-nil error wraps domain.ErrPermissionDenied.
type PermissionChecker interface {
	Authorize(ctx context.Context, userID, companyID string, permission domain.Permission) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyPending is stored under a key while its first request is in flight.
const IdempotencyPending = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
