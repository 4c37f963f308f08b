package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/iho/erpledger/internal/adapter/http/dto"
	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/usecase"
)

// LedgerService defines the report queries needed by LedgerHandler.
type LedgerService interface {
	GetTrialBalance(ctx context.Context, companyID, userID string, asOf time.Time) (*domain.TrialBalance, error)
	GetGeneralLedger(ctx context.Context, userID string, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error)
	GetJournal(ctx context.Context, userID string, filter domain.LedgerFilter) ([]*domain.JournalVoucher, error)
	CheckConsistency(ctx context.Context, companyID, userID string) (bool, error)
}

// IntegrityService verifies posted vouchers against their ledger lines.
type IntegrityService interface {
	VerifyPostedVouchers(ctx context.Context, companyID, userID string) (*usecase.IntegrityReport, error)
}

// LedgerHandler serves reports and ledger checks.
type LedgerHandler struct {
	ledgerUC    LedgerService
	integrityUC IntegrityService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService, integrityUC IntegrityService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, integrityUC: integrityUC}
}

// TrialBalance returns the trial balance as of the as_of date, today by default.
func (h *LedgerHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDateQuery(r, "as_of")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var at time.Time
	if asOf != nil {
		at = *asOf
	}

	tb, err := h.ledgerUC.GetTrialBalance(r.Context(), companyID(r), actingUserID(r), at)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromDomain(tb))
}

// GeneralLedger lists posted lines in chronological order.
func (h *LedgerHandler) GeneralLedger(w http.ResponseWriter, r *http.Request) {
	filter, err := ledgerFilter(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	entries, err := h.ledgerUC.GetGeneralLedger(r.Context(), actingUserID(r), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GeneralLedgerResponse{Entries: dto.LedgerEntriesFromDomain(entries)})
}

// Journal lists posted lines grouped by voucher.
func (h *LedgerHandler) Journal(w http.ResponseWriter, r *http.Request) {
	filter, err := ledgerFilter(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	journal, err := h.ledgerUC.GetJournal(r.Context(), actingUserID(r), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalFromDomain(journal))
}

// CheckConsistency reports whether company-wide debits equal credits.
// An inconsistent ledger is a result, not a request failure.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	consistent, err := h.ledgerUC.CheckConsistency(r.Context(), companyID(r), actingUserID(r))
	if err != nil && !errors.Is(err, usecase.ErrInconsistentLedger) {
		writeDomainError(w, err)
		return
	}

	resp := dto.ConsistencyResponse{CompanyID: companyID(r), Consistent: consistent}
	if err != nil {
		resp.Detail = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// Integrity verifies every posted voucher against its ledger lines.
func (h *LedgerHandler) Integrity(w http.ResponseWriter, r *http.Request) {
	report, err := h.integrityUC.VerifyPostedVouchers(r.Context(), companyID(r), actingUserID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.IntegrityFromReport(report))
}

func ledgerFilter(r *http.Request) (domain.LedgerFilter, error) {
	filter := domain.LedgerFilter{
		CompanyID:  companyID(r),
		AccountIDs: parseListQuery(r, "account_id"),
		VoucherID:  r.URL.Query().Get("voucher_id"),
		Limit:      parseIntQuery(r, "limit", 100),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	for _, code := range parseListQuery(r, "voucher_type") {
		t, err := domain.ParseVoucherType(code)
		if err != nil {
			return filter, err
		}
		filter.VoucherTypes = append(filter.VoucherTypes, t)
	}

	var err error
	if filter.From, err = parseDateQuery(r, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = parseDateQuery(r, "to"); err != nil {
		return filter, err
	}
	return filter, nil
}
