package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a posted ledger line as read back for reporting.
type LedgerEntry struct {
	ID             string
	CompanyID      string
	VoucherID      string
	VoucherNumber  string
	VoucherType    VoucherType
	VoucherDate    time.Time
	LineIndex      int
	AccountID      string
	AccountCode    string
	AccountName    string
	Side           Side
	Amount         decimal.Decimal
	Currency       string
	Rate           decimal.Decimal
	BaseAmount     decimal.Decimal
	Notes          string
	CostCenterID   string
	RunningBalance *decimal.Decimal
	CreatedAt      time.Time
}

// LedgerFilter narrows general ledger and journal queries.
type LedgerFilter struct {
	CompanyID    string
	AccountIDs   []string
	VoucherTypes []VoucherType
	VoucherID    string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// AccountTotals are the posted base totals of one account.
type AccountTotals struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// TrialBalanceRow is one account in a trial balance.
type TrialBalanceRow struct {
	AccountID   string
	AccountCode string
	AccountName string
	AccountType AccountType
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Net         decimal.Decimal
}

// TrialBalance aggregates posted base amounts per account as of a date.
type TrialBalance struct {
	CompanyID    string
	BaseCurrency string
	AsOf         time.Time
	Rows         []TrialBalanceRow
	TotalDebit   decimal.Decimal
	TotalCredit  decimal.Decimal
	Balanced     bool
}

// JournalVoucher groups posted lines of one voucher for the journal view.
type JournalVoucher struct {
	VoucherID     string
	VoucherNumber string
	VoucherType   VoucherType
	VoucherDate   time.Time
	Entries       []*LedgerEntry
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
}

// VoucherFilter narrows voucher listings.
type VoucherFilter struct {
	CompanyID string
	Types     []VoucherType
	Statuses  []VoucherStatus
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// IntegrityIssue describes a posted voucher whose ledger lines disagree with it.
type IntegrityIssue struct {
	VoucherID      string
	VoucherNumber  string
	Status         VoucherStatus
	ExpectedDebit  decimal.Decimal
	ExpectedCredit decimal.Decimal
	PostedDebit    decimal.Decimal
	PostedCredit   decimal.Decimal
	PostedLines    int
	ExpectedLines  int
	Problem        string
}

// LedgerBalance is the company-wide posted balance. Every voucher may carry
// up to BalanceTolerance of accepted rounding, so exact equality of the
// totals is not required.
type LedgerBalance struct {
	TotalDebit         decimal.Decimal
	TotalCredit        decimal.Decimal
	Vouchers           int
	UnbalancedVouchers int
}

// Difference returns debit minus credit.
func (b LedgerBalance) Difference() decimal.Decimal {
	return b.TotalDebit.Sub(b.TotalCredit)
}

// Consistent reports whether every posted voucher balances within tolerance
// and the totals drift by no more than the vouchers were allowed to.
func (b LedgerBalance) Consistent() bool {
	if b.UnbalancedVouchers > 0 {
		return false
	}
	allowed := BalanceTolerance.Mul(decimal.NewFromInt(int64(max(b.Vouchers, 1))))
	return b.Difference().Abs().LessThanOrEqual(allowed)
}

// VoucherLedgerTotals are the posted line totals of one voucher.
type VoucherLedgerTotals struct {
	VoucherID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Lines     int
}
