package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/erpledger/internal/adapter/http/dto"
	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/usecase"
)

type ledgerServiceStub struct {
	tbFn          func(ctx context.Context, companyID, userID string, asOf time.Time) (*domain.TrialBalance, error)
	glFn          func(ctx context.Context, userID string, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error)
	journalFn     func(ctx context.Context, userID string, filter domain.LedgerFilter) ([]*domain.JournalVoucher, error)
	consistencyFn func(ctx context.Context, companyID, userID string) (bool, error)
}

func (s *ledgerServiceStub) GetTrialBalance(ctx context.Context, companyID, userID string, asOf time.Time) (*domain.TrialBalance, error) {
	return s.tbFn(ctx, companyID, userID, asOf)
}

func (s *ledgerServiceStub) GetGeneralLedger(ctx context.Context, userID string, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	return s.glFn(ctx, userID, filter)
}

func (s *ledgerServiceStub) GetJournal(ctx context.Context, userID string, filter domain.LedgerFilter) ([]*domain.JournalVoucher, error) {
	return s.journalFn(ctx, userID, filter)
}

func (s *ledgerServiceStub) CheckConsistency(ctx context.Context, companyID, userID string) (bool, error) {
	return s.consistencyFn(ctx, companyID, userID)
}

type integrityServiceStub struct {
	report *usecase.IntegrityReport
	err    error
}

func (s *integrityServiceStub) VerifyPostedVouchers(ctx context.Context, companyID, userID string) (*usecase.IntegrityReport, error) {
	return s.report, s.err
}

func companyRequest(target string) *http.Request {
	return withURLParams(httptest.NewRequest(http.MethodGet, target, nil), map[string]string{"companyID": "co-1"})
}

func TestLedgerHandler_TrialBalance(t *testing.T) {
	var gotAsOf time.Time
	h := NewLedgerHandler(&ledgerServiceStub{
		tbFn: func(ctx context.Context, companyID, userID string, asOf time.Time) (*domain.TrialBalance, error) {
			gotAsOf = asOf
			return &domain.TrialBalance{
				CompanyID: companyID, BaseCurrency: "USD", AsOf: asOf,
				TotalDebit: decimal.NewFromInt(5), TotalCredit: decimal.NewFromInt(5), Balanced: true,
			}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	h.TrialBalance(rec, companyRequest("/?as_of=2024-06-30"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !gotAsOf.Equal(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected as_of %v", gotAsOf)
	}

	var resp dto.TrialBalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Balanced || resp.TotalDebit != "5.00" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestLedgerHandler_TrialBalance_BadDate(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{}, nil)

	rec := httptest.NewRecorder()
	h.TrialBalance(rec, companyRequest("/?as_of=june"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_GeneralLedgerFilter(t *testing.T) {
	var captured domain.LedgerFilter
	h := NewLedgerHandler(&ledgerServiceStub{
		glFn: func(ctx context.Context, userID string, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
			captured = filter
			balance := decimal.NewFromInt(40)
			return []*domain.LedgerEntry{{ID: "l-1", Rate: decimal.NewFromInt(1), RunningBalance: &balance}}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	h.GeneralLedger(rec, companyRequest("/?account_id=a1&voucher_type=receipt&from=2024-01-01&to=2024-01-31&offset=10"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.CompanyID != "co-1" || len(captured.AccountIDs) != 1 || captured.VoucherTypes[0] != domain.VoucherTypeReceipt {
		t.Fatalf("unexpected filter %+v", captured)
	}
	if captured.From == nil || captured.To == nil || captured.Offset != 10 || captured.Limit != 100 {
		t.Fatalf("unexpected range or paging %+v", captured)
	}

	var resp dto.GeneralLedgerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Entries) != 1 || *resp.Entries[0].RunningBalance != "40.00" {
		t.Fatalf("unexpected entries %+v", resp.Entries)
	}
}

func TestLedgerHandler_Journal(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		journalFn: func(ctx context.Context, userID string, filter domain.LedgerFilter) ([]*domain.JournalVoucher, error) {
			return []*domain.JournalVoucher{{VoucherID: "v-1"}}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	h.Journal(rec, companyRequest("/"))

	var resp dto.JournalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if rec.Code != http.StatusOK || len(resp.Vouchers) != 1 {
		t.Fatalf("unexpected journal %d %+v", rec.Code, resp)
	}
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	tests := []struct {
		name       string
		consistent bool
		err        error
		status     int
	}{
		{"consistent", true, nil, http.StatusOK},
		{"inconsistent is reported", false, fmt.Errorf("%w: debits=1 credits=2", usecase.ErrInconsistentLedger), http.StatusOK},
		{"permission denied", false, domain.ErrPermissionDenied, http.StatusForbidden},
		{"internal", false, domain.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLedgerHandler(&ledgerServiceStub{
				consistencyFn: func(ctx context.Context, companyID, userID string) (bool, error) {
					return tt.consistent, tt.err
				},
			}, nil)

			rec := httptest.NewRecorder()
			h.CheckConsistency(rec, companyRequest("/"))

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if tt.status != http.StatusOK {
				return
			}
			var resp dto.ConsistencyResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Consistent != tt.consistent {
				t.Fatalf("expected consistent=%v, got %+v", tt.consistent, resp)
			}
		})
	}
}

func TestLedgerHandler_Integrity(t *testing.T) {
	h := NewLedgerHandler(nil, &integrityServiceStub{report: &usecase.IntegrityReport{
		CompanyID:        "co-1",
		LedgerConsistent: true,
		VouchersChecked:  4,
	}})

	rec := httptest.NewRecorder()
	h.Integrity(rec, companyRequest("/"))

	var resp dto.IntegrityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if rec.Code != http.StatusOK || !resp.OK || resp.VouchersChecked != 4 {
		t.Fatalf("unexpected integrity response %d %+v", rec.Code, resp)
	}

	h = NewLedgerHandler(nil, &integrityServiceStub{err: errors.New("boom")})
	rec = httptest.NewRecorder()
	h.Integrity(rec, companyRequest("/"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
