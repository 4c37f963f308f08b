package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/usecase"
	"github.com/iho/erpledger/internal/usecase/mocks"
)

func strPtr(s string) *string { return &s }

func postingAccount(id, code string) *domain.Account {
	return &domain.Account{
		ID:             id,
		CompanyID:      "co-1",
		Code:           code,
		Name:           "Account " + code,
		Type:           domain.AccountTypeAsset,
		Role:           domain.AccountRolePosting,
		Status:         domain.AccountStatusActive,
		CurrencyPolicy: domain.CurrencyPolicyOpen,
	}
}

func TestAccountUseCase_ValidateAccounts(t *testing.T) {
	tests := []struct {
		name          string
		accounts      func() []*domain.Account
		refs          []usecase.AccountRef
		expectError   error
		expectReasons int
	}{
		{
			name: "all accounts postable",
			accounts: func() []*domain.Account {
				return []*domain.Account{postingAccount("a1", "1000"), postingAccount("a2", "2000")}
			},
			refs: []usecase.AccountRef{
				{LineIndex: 1, AccountID: "a1", Currency: "USD"},
				{LineIndex: 2, AccountID: "a2", Currency: "USD"},
			},
		},
		{
			name: "unknown account is a line input error",
			accounts: func() []*domain.Account {
				return []*domain.Account{postingAccount("a1", "1000")}
			},
			refs: []usecase.AccountRef{
				{LineIndex: 1, AccountID: "a1", Currency: "USD"},
				{LineIndex: 2, AccountID: "missing", Currency: "USD"},
			},
			expectError: domain.ErrInvalidVoucher,
		},
		{
			name: "violations of several accounts are aggregated",
			accounts: func() []*domain.Account {
				header := postingAccount("a1", "1000")
				header.Role = domain.AccountRoleHeader
				inactive := postingAccount("a2", "2000")
				inactive.Status = domain.AccountStatusInactive
				return []*domain.Account{header, inactive}
			},
			refs: []usecase.AccountRef{
				{LineIndex: 1, AccountID: "a1", Currency: "USD"},
				{LineIndex: 2, AccountID: "a2", Currency: "USD"},
			},
			expectError:   domain.ErrPolicyViolation,
			expectReasons: 2,
		},
		{
			name: "parent account is rejected",
			accounts: func() []*domain.Account {
				child := postingAccount("a2", "1010")
				child.ParentID = strPtr("a1")
				return []*domain.Account{postingAccount("a1", "1000"), child}
			},
			refs:          []usecase.AccountRef{{LineIndex: 1, AccountID: "a1", Currency: "USD"}},
			expectError:   domain.ErrPolicyViolation,
			expectReasons: 1,
		},
		{
			name: "inherited currency policy applies",
			accounts: func() []*domain.Account {
				parent := postingAccount("a1", "1000")
				parent.Role = domain.AccountRoleHeader
				parent.CurrencyPolicy = domain.CurrencyPolicyFixed
				parent.FixedCurrencyCode = "EUR"
				child := postingAccount("a2", "1010")
				child.ParentID = strPtr("a1")
				child.CurrencyPolicy = domain.CurrencyPolicyInherit
				return []*domain.Account{parent, child}
			},
			refs:          []usecase.AccountRef{{LineIndex: 1, AccountID: "a2", Currency: "USD"}},
			expectError:   domain.ErrPolicyViolation,
			expectReasons: 1,
		},
		{
			name: "inherit at the root is open",
			accounts: func() []*domain.Account {
				acc := postingAccount("a1", "1000")
				acc.CurrencyPolicy = domain.CurrencyPolicyInherit
				return []*domain.Account{acc}
			},
			refs: []usecase.AccountRef{{LineIndex: 1, AccountID: "a1", Currency: "JPY"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAccountRepository(tt.accounts()...)
			uc := usecase.NewAccountUseCase(repo, nil)

			err := uc.ValidateAccounts(context.Background(), "co-1", tt.refs)

			if tt.expectError == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected error %v, got %v", tt.expectError, err)
			}

			if tt.expectReasons > 0 {
				var pv *domain.PolicyViolationError
				if !errors.As(err, &pv) {
					t.Fatalf("expected PolicyViolationError, got %T", err)
				}
				if len(pv.Violations) != tt.expectReasons {
					t.Errorf("expected %d violations, got %d: %v", tt.expectReasons, len(pv.Violations), pv.Reasons())
				}
			}
		})
	}
}

func TestAccountUseCase_UnknownAccountNamesLine(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(repo, nil)

	err := uc.ValidateAccounts(context.Background(), "co-1", []usecase.AccountRef{{LineIndex: 4, AccountID: "ghost", Currency: "USD"}})

	var lineErr *domain.LineError
	if !errors.As(err, &lineErr) {
		t.Fatalf("expected LineError, got %v", err)
	}
	if lineErr.Index != 4 {
		t.Errorf("expected line 4, got %d", lineErr.Index)
	}
	if domain.KindOf(err) != domain.KindInput {
		t.Errorf("expected input kind, got %s", domain.KindOf(err))
	}
}

func TestAccountUseCase_RepositoryErrorPropagates(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	dbErr := errors.New("connection reset")
	repo.GetByIDFunc = func(ctx context.Context, companyID, id string) (*domain.Account, error) {
		return nil, dbErr
	}
	uc := usecase.NewAccountUseCase(repo, nil)

	err := uc.ValidateAccounts(context.Background(), "co-1", []usecase.AccountRef{{LineIndex: 1, AccountID: "a1"}})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestAccountUseCase_InheritCycleFails(t *testing.T) {
	a := postingAccount("a1", "1000")
	a.CurrencyPolicy = domain.CurrencyPolicyInherit
	a.ParentID = strPtr("a2")
	b := postingAccount("a2", "2000")
	b.CurrencyPolicy = domain.CurrencyPolicyInherit
	b.ParentID = strPtr("a1")

	repo := mocks.NewMockAccountRepository(a, b)
	repo.HasChildrenFunc = func(context.Context, string, string) (bool, error) { return false, nil }
	uc := usecase.NewAccountUseCase(repo, nil)

	_, err := uc.ValidateByID(context.Background(), "co-1", "a1", "USD")
	if err == nil {
		t.Fatal("expected hierarchy cycle error")
	}
}

func TestAccountUseCase_CheckPostability(t *testing.T) {
	acc := postingAccount("a1", "1000")
	acc.CurrencyPolicy = domain.CurrencyPolicyRestricted
	acc.AllowedCurrencyCodes = []string{"EUR", "GBP"}
	uc := usecase.NewAccountUseCase(mocks.NewMockAccountRepository(acc), nil)

	got, err := uc.CheckPostability(context.Background(), "co-1", "1000", "usd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Postable {
		t.Error("expected USD to be rejected")
	}
	if got.Currency != "USD" {
		t.Errorf("expected normalized currency USD, got %s", got.Currency)
	}
	if len(got.Violations) != 1 {
		t.Errorf("expected 1 violation, got %d", len(got.Violations))
	}

	got, err = uc.CheckPostability(context.Background(), "co-1", "1000", "EUR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Postable {
		t.Errorf("expected EUR to be accepted, got %v", got.Violations)
	}
}

func TestAccountUseCase_ResolveAndValidate(t *testing.T) {
	acc := postingAccount("a1", "1000")
	uc := usecase.NewAccountUseCase(mocks.NewMockAccountRepository(acc), nil)

	got, err := uc.ResolveAndValidate(context.Background(), "co-1", "1000", "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "a1" {
		t.Errorf("expected a1, got %s", got.ID)
	}

	if _, err := uc.ResolveAndValidate(context.Background(), "co-1", "9999", "USD"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountUseCase_ListAccountsClampsPagination(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	var gotLimit int
	repo.ListFunc = func(ctx context.Context, companyID string, limit, offset int) ([]*domain.Account, error) {
		gotLimit = limit
		return nil, nil
	}
	uc := usecase.NewAccountUseCase(repo, nil)

	if _, err := uc.ListAccounts(context.Background(), usecase.ListAccountsInput{CompanyID: "co-1", Limit: 100000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 1000 {
		t.Errorf("expected limit clamped to 1000, got %d", gotLimit)
	}
}

func TestRefsFromLines(t *testing.T) {
	mk := func(account string, side domain.Side) domain.LedgerLine {
		l, err := domain.NewLedgerLine(domain.LineSpec{AccountID: account, Side: side, Amount: dec("1"), Currency: "USD", Rate: dec("1")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return l
	}
	lines := domain.Renumber([]domain.LedgerLine{
		mk("a1", domain.SideDebit),
		mk("a2", domain.SideDebit),
		mk("a1", domain.SideCredit),
	})

	refs := usecase.RefsFromLines(lines)
	if len(refs) != 2 {
		t.Fatalf("expected 2 distinct refs, got %d", len(refs))
	}
	if refs[0].LineIndex != 1 || refs[1].LineIndex != 2 {
		t.Errorf("expected first-seen indexes 1,2 got %d,%d", refs[0].LineIndex, refs[1].LineIndex)
	}
}
