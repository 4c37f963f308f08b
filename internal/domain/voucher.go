package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType is the closed set of business documents the engine can post.
type VoucherType string

const (
	VoucherTypePayment        VoucherType = "payment"
	VoucherTypeReceipt        VoucherType = "receipt"
	VoucherTypeJournalEntry   VoucherType = "journal_entry"
	VoucherTypeOpeningBalance VoucherType = "opening_balance"
	VoucherTypeFXExchange     VoucherType = "fx_exchange"
	VoucherTypeTransfer       VoucherType = "transfer"
)

// AllVoucherTypes lists every supported voucher type.
func AllVoucherTypes() []VoucherType {
	return []VoucherType{
		VoucherTypePayment,
		VoucherTypeReceipt,
		VoucherTypeJournalEntry,
		VoucherTypeOpeningBalance,
		VoucherTypeFXExchange,
		VoucherTypeTransfer,
	}
}

// IsValid reports whether t is a supported voucher type.
func (t VoucherType) IsValid() bool {
	switch t {
	case VoucherTypePayment, VoucherTypeReceipt, VoucherTypeJournalEntry,
		VoucherTypeOpeningBalance, VoucherTypeFXExchange, VoucherTypeTransfer:
		return true
	}
	return false
}

// ParseVoucherType parses a type code, naming the valid set on failure.
func ParseVoucherType(code string) (VoucherType, error) {
	t := VoucherType(strings.ToLower(strings.TrimSpace(code)))
	if !t.IsValid() {
		return "", UnknownVoucherTypeError(code)
	}
	return t, nil
}

// UnknownVoucherTypeError builds the error returned for unsupported type codes.
func UnknownVoucherTypeError(code string) error {
	valid := make([]string, 0, len(AllVoucherTypes()))
	for _, t := range AllVoucherTypes() {
		valid = append(valid, string(t))
	}
	return fmt.Errorf("%w %q: valid types are %s", ErrUnknownVoucherType, code, strings.Join(valid, ", "))
}

// VoucherStatus is a lifecycle state.
type VoucherStatus string

const (
	VoucherStatusDraft     VoucherStatus = "draft"
	VoucherStatusPending   VoucherStatus = "pending"
	VoucherStatusApproved  VoucherStatus = "approved"
	VoucherStatusLocked    VoucherStatus = "locked"
	VoucherStatusCancelled VoucherStatus = "cancelled"
)

var voucherTransitions = map[VoucherStatus][]VoucherStatus{
	VoucherStatusDraft:    {VoucherStatusPending, VoucherStatusCancelled},
	VoucherStatusPending:  {VoucherStatusApproved, VoucherStatusCancelled},
	VoucherStatusApproved: {VoucherStatusLocked, VoucherStatusCancelled},
}

// CanTransitionTo reports whether the state machine allows s -> next.
func (s VoucherStatus) CanTransitionTo(next VoucherStatus) bool {
	for _, allowed := range voucherTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsPosted reports whether vouchers in this status are visible to reporting.
func (s VoucherStatus) IsPosted() bool {
	return s == VoucherStatusApproved || s == VoucherStatusLocked
}

// IsEditable reports whether the voucher's lines may still change.
func (s VoucherStatus) IsEditable() bool {
	return s == VoucherStatusDraft || s == VoucherStatusPending
}

// Voucher is the aggregate root of a posting.
type Voucher struct {
	ID              string
	CompanyID       string
	Number          string
	Type            VoucherType
	Date            time.Time
	Status          VoucherStatus
	Currency        string
	ExchangeRate    decimal.Decimal
	BaseCurrency    string
	Reference       string
	Description     string
	Lines           []LedgerLine
	TotalDebitBase  decimal.Decimal
	TotalCreditBase decimal.Decimal
	Payload         map[string]any
	ReversalOf      *string
	CancelReason    string
	Version         int64

	CreatedBy   string
	ApprovedBy  string
	LockedBy    string
	CancelledBy string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SubmittedAt *time.Time
	ApprovedAt  *time.Time
	LockedAt    *time.Time
	CancelledAt *time.Time
}

// SetLines replaces the voucher lines and recomputes the base totals.
func (v *Voucher) SetLines(lines []LedgerLine) {
	v.Lines = Renumber(lines)
	t := Totals(v.Lines)
	v.TotalDebitBase = t.Debit
	v.TotalCreditBase = t.Credit
}

// Totals returns the base totals of the current lines.
func (v *Voucher) Totals() LineTotals {
	return Totals(v.Lines)
}

// CheckBalanced enforces the balance invariant on the current lines.
func (v *Voucher) CheckBalanced() error {
	if len(v.Lines) == 0 {
		return fmt.Errorf("%w: voucher has no lines", ErrInvalidVoucher)
	}
	return CheckBalanced(v.Lines)
}

// AccountIDs returns the distinct accounts referenced by the lines, in line order.
func (v *Voucher) AccountIDs() []string {
	seen := make(map[string]bool, len(v.Lines))
	ids := make([]string, 0, len(v.Lines))
	for _, l := range v.Lines {
		if !seen[l.AccountID()] {
			seen[l.AccountID()] = true
			ids = append(ids, l.AccountID())
		}
	}
	return ids
}

func (v *Voucher) transition(next VoucherStatus) error {
	if v.Status == VoucherStatusLocked {
		return fmt.Errorf("%w: cannot move to %s", ErrVoucherLocked, next)
	}
	if !v.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, v.Status, next)
	}
	v.Status = next
	return nil
}

// Submit moves a draft voucher to pending.
func (v *Voucher) Submit(at time.Time) error {
	if err := v.transition(VoucherStatusPending); err != nil {
		return err
	}
	v.SubmittedAt = &at
	v.UpdatedAt = at
	return nil
}

// Approve moves a pending voucher to approved once it balances.
func (v *Voucher) Approve(by string, at time.Time) error {
	if !v.Status.CanTransitionTo(VoucherStatusApproved) {
		return v.transition(VoucherStatusApproved)
	}
	if err := v.CheckBalanced(); err != nil {
		return err
	}
	if err := v.transition(VoucherStatusApproved); err != nil {
		return err
	}
	v.ApprovedBy = by
	v.ApprovedAt = &at
	v.UpdatedAt = at
	return nil
}

// Lock freezes an approved voucher permanently.
func (v *Voucher) Lock(by string, at time.Time) error {
	if err := v.transition(VoucherStatusLocked); err != nil {
		return err
	}
	v.LockedBy = by
	v.LockedAt = &at
	v.UpdatedAt = at
	return nil
}

// Cancel moves any non-locked, non-cancelled voucher to cancelled. The
// returned flag reports whether ledger lines had been recorded for it.
func (v *Voucher) Cancel(by, reason string, at time.Time) (bool, error) {
	wasPosted := v.Status.IsPosted()
	if err := v.transition(VoucherStatusCancelled); err != nil {
		return false, err
	}
	v.CancelledBy = by
	v.CancelReason = reason
	v.CancelledAt = &at
	v.UpdatedAt = at
	return wasPosted, nil
}

// EnsureEditable rejects structural changes outside draft/pending.
func (v *Voucher) EnsureEditable() error {
	if v.Status == VoucherStatusLocked {
		return ErrVoucherLocked
	}
	if !v.Status.IsEditable() {
		return fmt.Errorf("%w: %s vouchers cannot be edited", ErrInvalidTransition, v.Status)
	}
	return nil
}

// FormatVoucherNumber renders the per-company, per-type sequence number.
func FormatVoucherNumber(t VoucherType, seq int64) string {
	return fmt.Sprintf("%s-%06d", t, seq)
}
