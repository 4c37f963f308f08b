package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/erpledger/internal/adapter/http/dto"
	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	GetAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	CheckPostability(ctx context.Context, companyID, code, currency string) (*usecase.Postability, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC   AccountService
	permissions usecase.PermissionChecker
}

// NewAccountHandler creates a new AccountHandler. permissions may be nil.
func NewAccountHandler(accountUC AccountService, permissions usecase.PermissionChecker) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, permissions: permissions}
}

// Get returns the account with the chart code in the URL.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	acc, err := h.accountUC.GetAccountByCode(r.Context(), companyID(r), chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(acc))
}

// List returns a page of the company's chart of accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		CompanyID: companyID(r),
		Limit:     parseIntQuery(r, "limit", 100),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := dto.ListAccountsResponse{Accounts: make([]*dto.AccountResponse, len(accounts))}
	for i, acc := range accounts {
		resp.Accounts[i] = dto.AccountFromDomain(acc)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Postability reports whether the account accepts postings in ?currency=.
func (h *AccountHandler) Postability(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	currency := r.URL.Query().Get("currency")
	if err := domain.ValidateCurrency(currency); err != nil {
		writeDomainError(w, err)
		return
	}

	if !h.authorize(w, r) {
		return
	}

	result, err := h.accountUC.CheckPostability(r.Context(), companyID(r), code, currency)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PostabilityFromUseCase(result))
}

func (h *AccountHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	if h.permissions == nil {
		return true
	}
	if err := h.permissions.Authorize(r.Context(), actingUserID(r), companyID(r), domain.PermAccountView); err != nil {
		writeDomainError(w, err)
		return false
	}
	return true
}
