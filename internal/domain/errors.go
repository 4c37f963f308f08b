package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrCompanyNotFound = errors.New("company not found")

	// Posting input errors
	ErrInvalidVoucher      = errors.New("invalid voucher")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidRate         = errors.New("exchange rate must be positive")
	ErrInvalidSide         = errors.New("side must be DEBIT or CREDIT")
	ErrNonPositiveBase     = errors.New("base amount must be positive after conversion")
	ErrSameAccount         = errors.New("cannot transfer to same account")
	ErrUnknownVoucherType  = errors.New("unknown voucher type")
	ErrPayloadMismatch     = errors.New("payload does not match voucher type")
	ErrPolicyViolation     = errors.New("account policy violation")
	ErrUnbalancedVoucher   = errors.New("voucher is not balanced")
	ErrInvalidCurrencyPair = errors.New("unsupported currency conversion")

	// Lifecycle errors
	ErrVoucherNotFound        = errors.New("voucher not found")
	ErrInvalidTransition      = errors.New("invalid voucher status transition")
	ErrVoucherLocked          = errors.New("voucher is locked")
	ErrConcurrentModification = errors.New("voucher was modified concurrently")
	ErrAlreadyReversed        = errors.New("voucher has a reversal that is not cancelled")

	// Access errors
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInternal is what callers see for any infrastructure failure.
	ErrInternal = errors.New("internal error")
)

// LineError reports an input error attached to a 1-based line position.
type LineError struct {
	Index int
	Field string
	Err   error
}

func (e *LineError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Index, e.Field, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// NewLineError builds a LineError wrapping ErrInvalidVoucher with a message.
func NewLineError(index int, field, msg string) *LineError {
	return &LineError{Index: index, Field: field, Err: fmt.Errorf("%w: %s", ErrInvalidVoucher, msg)}
}

// Violation is a single failed account rule.
type Violation struct {
	AccountID   string
	AccountCode string
	Rule        string
	Reason      string
}

// PolicyViolationError aggregates every failed rule for every validated account.
type PolicyViolationError struct {
	Violations []Violation
}

func (e *PolicyViolationError) Error() string {
	reasons := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		ref := v.AccountCode
		if ref == "" {
			ref = v.AccountID
		}
		reasons = append(reasons, fmt.Sprintf("account %s: %s", ref, v.Reason))
	}
	return fmt.Sprintf("%v: %s", ErrPolicyViolation, strings.Join(reasons, "; "))
}

func (e *PolicyViolationError) Unwrap() error {
	return ErrPolicyViolation
}

// Reasons returns the failure reasons in evaluation order.
func (e *PolicyViolationError) Reasons() []string {
	out := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		out[i] = v.Reason
	}
	return out
}

// BalanceError reports debit and credit base totals that do not match.
type BalanceError struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
	Detail string
}

func (e *BalanceError) Error() string {
	msg := fmt.Sprintf("%v: debit=%s credit=%s difference=%s",
		ErrUnbalancedVoucher, e.Debit.StringFixed(MoneyPrecision), e.Credit.StringFixed(MoneyPrecision),
		e.Difference().StringFixed(MoneyPrecision))
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *BalanceError) Unwrap() error {
	return ErrUnbalancedVoucher
}

// Difference is debit minus credit.
func (e *BalanceError) Difference() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// ErrorKind classifies errors at the use-case boundary.
type ErrorKind string

const (
	KindInput      ErrorKind = "input"
	KindPolicy     ErrorKind = "policy"
	KindBalance    ErrorKind = "balance"
	KindState      ErrorKind = "state"
	KindNotFound   ErrorKind = "not_found"
	KindPermission ErrorKind = "permission"
	KindConflict   ErrorKind = "conflict"
	KindInternal   ErrorKind = "internal"
)

// KindOf classifies err. Unknown errors are KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return KindPermission
	case errors.Is(err, ErrInvalidVoucher):
		// Line-level lookups wrap ErrAccountNotFound inside ErrInvalidVoucher.
		return KindInput
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrVoucherNotFound), errors.Is(err, ErrCompanyNotFound):
		return KindNotFound
	case errors.Is(err, ErrPolicyViolation):
		return KindPolicy
	case errors.Is(err, ErrUnbalancedVoucher):
		return KindBalance
	case errors.Is(err, ErrConcurrentModification):
		return KindConflict
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrVoucherLocked), errors.Is(err, ErrAlreadyReversed):
		return KindState
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidRate),
		errors.Is(err, ErrInvalidSide),
		errors.Is(err, ErrNonPositiveBase),
		errors.Is(err, ErrSameAccount),
		errors.Is(err, ErrUnknownVoucherType),
		errors.Is(err, ErrPayloadMismatch),
		errors.Is(err, ErrInvalidCurrencyPair),
		errors.Is(err, ErrInvalidCurrency),
		errors.Is(err, ErrAmountTooLarge),
		errors.Is(err, ErrAmountTooSmall),
		errors.Is(err, ErrMetadataTooLarge),
		errors.Is(err, ErrInvalidIDFormat):
		return KindInput
	default:
		return KindInternal
	}
}

// IsDomainError reports whether err is one of the classified, caller-facing errors.
func IsDomainError(err error) bool {
	k := KindOf(err)
	return k != "" && k != KindInternal
}
