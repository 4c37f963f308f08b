package posting

import (
	"github.com/shopspring/decimal"

	"github.com/iho/erpledger/internal/domain"
)

// Header is the voucher-level currency and its rate to the company base currency.
type Header struct {
	Currency     string          `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

// Payload is the type-specific body of a voucher. The set of implementations
// is closed to this package.
type Payload interface {
	VoucherType() domain.VoucherType
	PostingHeader() Header
	isPayload()
}

// Allocation is one fan-out line of a payment or receipt.
type Allocation struct {
	AccountID    string          `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	Notes        string          `json:"notes,omitempty"`
	CostCenterID string          `json:"cost_center_id,omitempty"`
}

// PaymentPayload pays several accounts from one source account.
type PaymentPayload struct {
	Header           `json:"-"`
	PayFromAccountID string       `json:"pay_from_account_id"`
	Allocations      []Allocation `json:"allocations"`
	Notes            string       `json:"notes,omitempty"`
}

// ReceiptPayload receives from several accounts into one destination account.
type ReceiptPayload struct {
	Header             `json:"-"`
	DepositToAccountID string       `json:"deposit_to_account_id"`
	Allocations        []Allocation `json:"allocations"`
	Notes              string       `json:"notes,omitempty"`
}

// JournalLine is a free-form journal line. Currency defaults to the header
// currency; Parity is its rate against the header currency.
type JournalLine struct {
	AccountID    string          `json:"account_id"`
	Side         domain.Side     `json:"side"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency,omitempty"`
	Parity       decimal.Decimal `json:"parity"`
	Notes        string          `json:"notes,omitempty"`
	CostCenterID string          `json:"cost_center_id,omitempty"`
}

// JournalPayload is a free-form journal entry.
type JournalPayload struct {
	Header `json:"-"`
	Lines  []JournalLine `json:"lines"`
}

// OpeningBalanceLine is the opening balance of one account. Exactly one of
// DebitBalance and CreditBalance must be positive.
type OpeningBalanceLine struct {
	AccountID     string          `json:"account_id"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	Currency      string          `json:"currency,omitempty"`
	Parity        decimal.Decimal `json:"parity"`
	Notes         string          `json:"notes,omitempty"`
}

// OpeningBalancePayload seeds account balances.
type OpeningBalancePayload struct {
	Header `json:"-"`
	Lines  []OpeningBalanceLine `json:"lines"`
}

// ExchangePayload converts FromAmount in the header currency into ToAmount in
// ToCurrency. DifferenceAccountID, when set, absorbs exchange gain or loss.
type ExchangePayload struct {
	Header              `json:"-"`
	FromAccountID       string          `json:"from_account_id"`
	FromAmount          decimal.Decimal `json:"from_amount"`
	ToAccountID         string          `json:"to_account_id"`
	ToCurrency          string          `json:"to_currency,omitempty"`
	ToAmount            decimal.Decimal `json:"to_amount"`
	ToParity            decimal.Decimal `json:"to_parity"`
	DifferenceAccountID string          `json:"difference_account_id,omitempty"`
	Notes               string          `json:"notes,omitempty"`
}

// TransferPayload moves an amount between two accounts in the header currency.
type TransferPayload struct {
	Header        `json:"-"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Notes         string          `json:"notes,omitempty"`
}

func (PaymentPayload) VoucherType() domain.VoucherType        { return domain.VoucherTypePayment }
func (ReceiptPayload) VoucherType() domain.VoucherType        { return domain.VoucherTypeReceipt }
func (JournalPayload) VoucherType() domain.VoucherType        { return domain.VoucherTypeJournalEntry }
func (OpeningBalancePayload) VoucherType() domain.VoucherType { return domain.VoucherTypeOpeningBalance }
func (ExchangePayload) VoucherType() domain.VoucherType       { return domain.VoucherTypeFXExchange }
func (TransferPayload) VoucherType() domain.VoucherType       { return domain.VoucherTypeTransfer }

func (p PaymentPayload) PostingHeader() Header        { return p.Header }
func (p ReceiptPayload) PostingHeader() Header        { return p.Header }
func (p JournalPayload) PostingHeader() Header        { return p.Header }
func (p OpeningBalancePayload) PostingHeader() Header { return p.Header }
func (p ExchangePayload) PostingHeader() Header       { return p.Header }
func (p TransferPayload) PostingHeader() Header       { return p.Header }

func (PaymentPayload) isPayload()        {}
func (ReceiptPayload) isPayload()        {}
func (JournalPayload) isPayload()        {}
func (OpeningBalancePayload) isPayload() {}
func (ExchangePayload) isPayload()       {}
func (TransferPayload) isPayload()       {}
