package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/usecase"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyPrecision)
}

func date(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// VoucherLineResponse represents a generated ledger line.
type VoucherLineResponse struct {
	Index        int               `json:"index"`
	AccountID    string            `json:"account_id"`
	Side         domain.Side       `json:"side"`
	Amount       string            `json:"amount"`
	Currency     string            `json:"currency"`
	Rate         string            `json:"rate"`
	BaseAmount   string            `json:"base_amount"`
	Notes        string            `json:"notes,omitempty"`
	CostCenterID string            `json:"cost_center_id,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// VoucherResponse represents a voucher in API responses.
type VoucherResponse struct {
	ID              string                `json:"id"`
	CompanyID       string                `json:"company_id"`
	Number          string                `json:"number"`
	Type            domain.VoucherType    `json:"type"`
	Date            string                `json:"date"`
	Status          domain.VoucherStatus  `json:"status"`
	Currency        string                `json:"currency"`
	ExchangeRate    string                `json:"exchange_rate"`
	BaseCurrency    string                `json:"base_currency"`
	Reference       string                `json:"reference,omitempty"`
	Description     string                `json:"description,omitempty"`
	Lines           []VoucherLineResponse `json:"lines"`
	TotalDebitBase  string                `json:"total_debit_base"`
	TotalCreditBase string                `json:"total_credit_base"`
	Payload         map[string]any        `json:"payload,omitempty"`
	ReversalOf      *string               `json:"reversal_of,omitempty"`
	CancelReason    string                `json:"cancel_reason,omitempty"`
	Version         int64                 `json:"version"`
	CreatedBy       string                `json:"created_by"`
	ApprovedBy      string                `json:"approved_by,omitempty"`
	LockedBy        string                `json:"locked_by,omitempty"`
	CancelledBy     string                `json:"cancelled_by,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	SubmittedAt     *time.Time            `json:"submitted_at,omitempty"`
	ApprovedAt      *time.Time            `json:"approved_at,omitempty"`
	LockedAt        *time.Time            `json:"locked_at,omitempty"`
	CancelledAt     *time.Time            `json:"cancelled_at,omitempty"`
}

// VoucherFromDomain converts a domain voucher to response.
func VoucherFromDomain(v *domain.Voucher) *VoucherResponse {
	lines := make([]VoucherLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = VoucherLineResponse{
			Index:        l.Index(),
			AccountID:    l.AccountID(),
			Side:         l.Side(),
			Amount:       money(l.Amount()),
			Currency:     l.Currency(),
			Rate:         l.Rate().String(),
			BaseAmount:   money(l.BaseAmount()),
			Notes:        l.Notes(),
			CostCenterID: l.CostCenterID(),
			Metadata:     l.Metadata(),
		}
	}

	return &VoucherResponse{
		ID:              v.ID,
		CompanyID:       v.CompanyID,
		Number:          v.Number,
		Type:            v.Type,
		Date:            date(v.Date),
		Status:          v.Status,
		Currency:        v.Currency,
		ExchangeRate:    v.ExchangeRate.String(),
		BaseCurrency:    v.BaseCurrency,
		Reference:       v.Reference,
		Description:     v.Description,
		Lines:           lines,
		TotalDebitBase:  money(v.TotalDebitBase),
		TotalCreditBase: money(v.TotalCreditBase),
		Payload:         v.Payload,
		ReversalOf:      v.ReversalOf,
		CancelReason:    v.CancelReason,
		Version:         v.Version,
		CreatedBy:       v.CreatedBy,
		ApprovedBy:      v.ApprovedBy,
		LockedBy:        v.LockedBy,
		CancelledBy:     v.CancelledBy,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
		SubmittedAt:     v.SubmittedAt,
		ApprovedAt:      v.ApprovedAt,
		LockedAt:        v.LockedAt,
		CancelledAt:     v.CancelledAt,
	}
}

// ListVouchersResponse represents a page of vouchers.
type ListVouchersResponse struct {
	Vouchers []*VoucherResponse `json:"vouchers"`
	Total    int64              `json:"total"`
}

// VouchersFromDomain converts domain vouchers to responses.
func VouchersFromDomain(vouchers []*domain.Voucher) []*VoucherResponse {
	result := make([]*VoucherResponse, len(vouchers))
	for i, v := range vouchers {
		result[i] = VoucherFromDomain(v)
	}
	return result
}

// TrialBalanceRowResponse is one account of a trial balance.
type TrialBalanceRowResponse struct {
	AccountID   string             `json:"account_id"`
	AccountCode string             `json:"account_code"`
	AccountName string             `json:"account_name"`
	AccountType domain.AccountType `json:"account_type"`
	Debit       string             `json:"debit"`
	Credit      string             `json:"credit"`
	Net         string             `json:"net"`
}

// TrialBalanceResponse represents a trial balance report.
type TrialBalanceResponse struct {
	CompanyID    string                    `json:"company_id"`
	BaseCurrency string                    `json:"base_currency"`
	AsOf         string                    `json:"as_of"`
	Rows         []TrialBalanceRowResponse `json:"rows"`
	TotalDebit   string                    `json:"total_debit"`
	TotalCredit  string                    `json:"total_credit"`
	Balanced     bool                      `json:"balanced"`
}

// TrialBalanceFromDomain converts a trial balance to response.
func TrialBalanceFromDomain(tb *domain.TrialBalance) *TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			AccountType: r.AccountType,
			Debit:       money(r.Debit),
			Credit:      money(r.Credit),
			Net:         money(r.Net),
		}
	}
	return &TrialBalanceResponse{
		CompanyID:    tb.CompanyID,
		BaseCurrency: tb.BaseCurrency,
		AsOf:         date(tb.AsOf),
		Rows:         rows,
		TotalDebit:   money(tb.TotalDebit),
		TotalCredit:  money(tb.TotalCredit),
		Balanced:     tb.Balanced,
	}
}

// LedgerEntryResponse represents a posted ledger line.
type LedgerEntryResponse struct {
	ID             string             `json:"id"`
	VoucherID      string             `json:"voucher_id"`
	VoucherNumber  string             `json:"voucher_number"`
	VoucherType    domain.VoucherType `json:"voucher_type"`
	VoucherDate    string             `json:"voucher_date"`
	LineIndex      int                `json:"line_index"`
	AccountID      string             `json:"account_id"`
	AccountCode    string             `json:"account_code"`
	AccountName    string             `json:"account_name"`
	Side           domain.Side        `json:"side"`
	Amount         string             `json:"amount"`
	Currency       string             `json:"currency"`
	Rate           string             `json:"rate"`
	BaseAmount     string             `json:"base_amount"`
	Notes          string             `json:"notes,omitempty"`
	CostCenterID   string             `json:"cost_center_id,omitempty"`
	RunningBalance *string            `json:"running_balance,omitempty"`
}

// LedgerEntryFromDomain converts a ledger entry to response.
func LedgerEntryFromDomain(e *domain.LedgerEntry) *LedgerEntryResponse {
	resp := &LedgerEntryResponse{
		ID:            e.ID,
		VoucherID:     e.VoucherID,
		VoucherNumber: e.VoucherNumber,
		VoucherType:   e.VoucherType,
		VoucherDate:   date(e.VoucherDate),
		LineIndex:     e.LineIndex,
		AccountID:     e.AccountID,
		AccountCode:   e.AccountCode,
		AccountName:   e.AccountName,
		Side:          e.Side,
		Amount:        money(e.Amount),
		Currency:      e.Currency,
		Rate:          e.Rate.String(),
		BaseAmount:    money(e.BaseAmount),
		Notes:         e.Notes,
		CostCenterID:  e.CostCenterID,
	}
	if e.RunningBalance != nil {
		rb := money(*e.RunningBalance)
		resp.RunningBalance = &rb
	}
	return resp
}

// LedgerEntriesFromDomain converts ledger entries to responses.
func LedgerEntriesFromDomain(entries []*domain.LedgerEntry) []*LedgerEntryResponse {
	result := make([]*LedgerEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = LedgerEntryFromDomain(e)
	}
	return result
}

// GeneralLedgerResponse represents a page of the general ledger.
type GeneralLedgerResponse struct {
	Entries []*LedgerEntryResponse `json:"entries"`
}

// JournalVoucherResponse is one voucher of the journal.
type JournalVoucherResponse struct {
	VoucherID     string                 `json:"voucher_id"`
	VoucherNumber string                 `json:"voucher_number"`
	VoucherType   domain.VoucherType     `json:"voucher_type"`
	VoucherDate   string                 `json:"voucher_date"`
	Entries       []*LedgerEntryResponse `json:"entries"`
	TotalDebit    string                 `json:"total_debit"`
	TotalCredit   string                 `json:"total_credit"`
}

// JournalResponse represents the journal report.
type JournalResponse struct {
	Vouchers []*JournalVoucherResponse `json:"vouchers"`
}

// JournalFromDomain converts grouped journal vouchers to response.
func JournalFromDomain(journal []*domain.JournalVoucher) *JournalResponse {
	out := make([]*JournalVoucherResponse, len(journal))
	for i, jv := range journal {
		out[i] = &JournalVoucherResponse{
			VoucherID:     jv.VoucherID,
			VoucherNumber: jv.VoucherNumber,
			VoucherType:   jv.VoucherType,
			VoucherDate:   date(jv.VoucherDate),
			Entries:       LedgerEntriesFromDomain(jv.Entries),
			TotalDebit:    money(jv.TotalDebit),
			TotalCredit:   money(jv.TotalCredit),
		}
	}
	return &JournalResponse{Vouchers: out}
}

// ConsistencyResponse reports the company-wide debit/credit check.
type ConsistencyResponse struct {
	CompanyID  string `json:"company_id"`
	Consistent bool   `json:"consistent"`
	Detail     string `json:"detail,omitempty"`
}

// IntegrityIssueResponse is one posted voucher that disagrees with its ledger lines.
type IntegrityIssueResponse struct {
	VoucherID      string               `json:"voucher_id"`
	VoucherNumber  string               `json:"voucher_number"`
	Status         domain.VoucherStatus `json:"status"`
	Problem        string               `json:"problem"`
	ExpectedDebit  string               `json:"expected_debit"`
	ExpectedCredit string               `json:"expected_credit"`
	PostedDebit    string               `json:"posted_debit"`
	PostedCredit   string               `json:"posted_credit"`
	ExpectedLines  int                  `json:"expected_lines"`
	PostedLines    int                  `json:"posted_lines"`
}

// IntegrityResponse represents the integrity report.
type IntegrityResponse struct {
	CompanyID        string                   `json:"company_id"`
	OK               bool                     `json:"ok"`
	VouchersChecked  int                      `json:"vouchers_checked"`
	LedgerConsistent bool                     `json:"ledger_consistent"`
	TotalDebit       string                   `json:"total_debit"`
	TotalCredit      string                   `json:"total_credit"`
	Issues           []IntegrityIssueResponse `json:"issues"`
	CheckedAt        time.Time                `json:"checked_at"`
}

// IntegrityFromReport converts an integrity report to response.
func IntegrityFromReport(r *usecase.IntegrityReport) *IntegrityResponse {
	issues := make([]IntegrityIssueResponse, len(r.Issues))
	for i, is := range r.Issues {
		issues[i] = IntegrityIssueResponse{
			VoucherID:      is.VoucherID,
			VoucherNumber:  is.VoucherNumber,
			Status:         is.Status,
			Problem:        is.Problem,
			ExpectedDebit:  money(is.ExpectedDebit),
			ExpectedCredit: money(is.ExpectedCredit),
			PostedDebit:    money(is.PostedDebit),
			PostedCredit:   money(is.PostedCredit),
			ExpectedLines:  is.ExpectedLines,
			PostedLines:    is.PostedLines,
		}
	}
	return &IntegrityResponse{
		CompanyID:        r.CompanyID,
		OK:               r.OK(),
		VouchersChecked:  r.VouchersChecked,
		LedgerConsistent: r.LedgerConsistent,
		TotalDebit:       money(r.TotalDebit),
		TotalCredit:      money(r.TotalCredit),
		Issues:           issues,
		CheckedAt:        r.CheckedAt,
	}
}

// AccountResponse represents an account of the chart.
type AccountResponse struct {
	ID                   string                `json:"id"`
	Code                 string                `json:"code"`
	Name                 string                `json:"name"`
	Type                 domain.AccountType    `json:"type"`
	Role                 domain.AccountRole    `json:"role"`
	Status               domain.AccountStatus  `json:"status"`
	ParentID             *string               `json:"parent_id,omitempty"`
	CurrencyPolicy       domain.CurrencyPolicy `json:"currency_policy"`
	FixedCurrencyCode    string                `json:"fixed_currency_code,omitempty"`
	AllowedCurrencyCodes []string              `json:"allowed_currency_codes,omitempty"`
	ReplacedByAccountID  *string               `json:"replaced_by_account_id,omitempty"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:                   a.ID,
		Code:                 a.Code,
		Name:                 a.Name,
		Type:                 a.Type,
		Role:                 a.Role,
		Status:               a.Status,
		ParentID:             a.ParentID,
		CurrencyPolicy:       a.CurrencyPolicy,
		FixedCurrencyCode:    a.FixedCurrencyCode,
		AllowedCurrencyCodes: a.AllowedCurrencyCodes,
		ReplacedByAccountID:  a.ReplacedByAccountID,
	}
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
}

// ViolationResponse is one failed account rule.
type ViolationResponse struct {
	Rule   string `json:"rule"`
	Reason string `json:"reason"`
}

// PostabilityResponse reports whether an account accepts postings in a currency.
type PostabilityResponse struct {
	AccountID   string              `json:"account_id"`
	AccountCode string              `json:"account_code"`
	Currency    string              `json:"currency"`
	Postable    bool                `json:"postable"`
	Violations  []ViolationResponse `json:"violations"`
}

// PostabilityFromUseCase converts a postability result to response.
func PostabilityFromUseCase(p *usecase.Postability) *PostabilityResponse {
	violations := make([]ViolationResponse, len(p.Violations))
	for i, v := range p.Violations {
		violations[i] = ViolationResponse{Rule: v.Rule, Reason: v.Reason}
	}
	return &PostabilityResponse{
		AccountID:   p.Account.ID,
		AccountCode: p.Account.Code,
		Currency:    p.Currency,
		Postable:    p.Postable,
		Violations:  violations,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}
