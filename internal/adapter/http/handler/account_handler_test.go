package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/erpledger/internal/adapter/http/dto"
	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/usecase"
)

type accountServiceStub struct {
	fn     func(ctx context.Context, companyID, code, currency string) (*usecase.Postability, error)
	getFn  func(ctx context.Context, companyID, code string) (*domain.Account, error)
	listFn func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
}

func (s *accountServiceStub) GetAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	return s.getFn(ctx, companyID, code)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

func (s *accountServiceStub) CheckPostability(ctx context.Context, companyID, code, currency string) (*usecase.Postability, error) {
	return s.fn(ctx, companyID, code, currency)
}

type denyAll struct{}

func (denyAll) Authorize(ctx context.Context, userID, companyID string, permission domain.Permission) error {
	return domain.ErrPermissionDenied
}

func postabilityRequest(target string) *http.Request {
	return withURLParams(httptest.NewRequest(http.MethodGet, target, nil),
		map[string]string{"companyID": "co-1", "code": "1000"})
}

func TestAccountHandler_Postability(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		fn: func(ctx context.Context, companyID, code, currency string) (*usecase.Postability, error) {
			return &usecase.Postability{
				Account:  &domain.Account{ID: "a1", Code: code},
				Currency: "EUR",
				Postable: true,
			}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	h.Postability(rec, postabilityRequest("/?currency=eur"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.PostabilityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Postable || resp.AccountCode != "1000" || resp.Currency != "EUR" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_Postability_Errors(t *testing.T) {
	notFound := &accountServiceStub{
		fn: func(ctx context.Context, companyID, code, currency string) (*usecase.Postability, error) {
			return nil, domain.ErrAccountNotFound
		},
	}

	tests := []struct {
		name   string
		h      *AccountHandler
		target string
		status int
	}{
		{"invalid currency", NewAccountHandler(notFound, nil), "/?currency=euro", http.StatusBadRequest},
		{"missing currency", NewAccountHandler(notFound, nil), "/", http.StatusBadRequest},
		{"unknown account", NewAccountHandler(notFound, nil), "/?currency=USD", http.StatusNotFound},
		{"permission denied", NewAccountHandler(notFound, denyAll{}), "/?currency=USD", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.h.Postability(rec, postabilityRequest(tt.target))
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestAccountHandler_Get(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, companyID, code string) (*domain.Account, error) {
			if code != "1000" {
				return nil, domain.ErrAccountNotFound
			}
			return &domain.Account{ID: "a1", Code: code, Name: "Bank", Role: domain.AccountRolePosting, Status: domain.AccountStatusActive}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	h.Get(rec, postabilityRequest("/"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "a1" || resp.Name != "Bank" || resp.Role != domain.AccountRolePosting {
		t.Fatalf("unexpected response %+v", resp)
	}

	rec = httptest.NewRecorder()
	h.Get(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"companyID": "co-1", "code": "9999"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	NewAccountHandler(&accountServiceStub{}, denyAll{}).Get(rec, postabilityRequest("/"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAccountHandler_List(t *testing.T) {
	var got usecase.ListAccountsInput
	h := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			got = input
			return []*domain.Account{{ID: "a1", Code: "1000"}, {ID: "a2", Code: "2000"}}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/?limit=5&offset=10", nil), map[string]string{"companyID": "co-1"})
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.CompanyID != "co-1" || got.Limit != 5 || got.Offset != 10 {
		t.Fatalf("unexpected list input %+v", got)
	}
	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Accounts) != 2 || resp.Accounts[1].Code != "2000" {
		t.Fatalf("unexpected accounts %+v", resp.Accounts)
	}
}
