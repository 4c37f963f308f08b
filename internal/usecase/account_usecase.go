package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/domain/rules"
)

// maxHierarchyDepth bounds the parent walk used to resolve INHERIT policies.
const maxHierarchyDepth = 32

// uncacher is implemented by account repositories that serve reads from a cache.
type uncacher interface {
	Uncached() AccountRepository
}

// AccountUseCase handles account lookups and posting eligibility.
type AccountUseCase struct {
	// lookups may be cached; validation never is.
	lookups     AccountRepository
	accountRepo AccountRepository
	chain       *rules.Chain
}

// NewAccountUseCase creates a new AccountUseCase. A nil chain means rules.Default().
// When accountRepo is cached, only plain lookups use the cache and the rule
// chain reads the wrapped repository.
func NewAccountUseCase(accountRepo AccountRepository, chain *rules.Chain) *AccountUseCase {
	if chain == nil {
		chain = rules.Default()
	}
	validation := accountRepo
	if c, ok := accountRepo.(uncacher); ok {
		validation = c.Uncached()
	}
	return &AccountUseCase{
		lookups:     accountRepo,
		accountRepo: validation,
		chain:       chain,
	}
}

// GetAccountByCode retrieves an account by its chart code.
func (uc *AccountUseCase) GetAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	return uc.lookups.GetByCode(ctx, companyID, code)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	CompanyID string
	Limit     int
	Offset    int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.lookups.List(ctx, input.CompanyID, limit, offset)
}

// ResolveAndValidate looks an account up by code and runs the full rule
// chain for a posting in currency. Every failed rule is reported in one
// *domain.PolicyViolationError.
func (uc *AccountUseCase) ResolveAndValidate(ctx context.Context, companyID, code, currency string) (*domain.Account, error) {
	acc, err := uc.accountRepo.GetByCode(ctx, companyID, code)
	if err != nil {
		return nil, err
	}

	violations, err := uc.evaluate(ctx, companyID, acc, currency, map[string]*domain.Account{})
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		return nil, &domain.PolicyViolationError{Violations: violations}
	}
	return acc, nil
}

// ValidateByID is ResolveAndValidate for an account ID.
func (uc *AccountUseCase) ValidateByID(ctx context.Context, companyID, accountID, currency string) (*domain.Account, error) {
	acc, err := uc.accountRepo.GetByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	violations, err := uc.evaluate(ctx, companyID, acc, currency, map[string]*domain.Account{})
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		return nil, &domain.PolicyViolationError{Violations: violations}
	}
	return acc, nil
}

// Postability is the rule chain outcome for one account, without failing.
type Postability struct {
	Account    *domain.Account
	Currency   string
	Postable   bool
	Violations []domain.Violation
}

// CheckPostability reports whether the account with code can receive a posting in currency.
func (uc *AccountUseCase) CheckPostability(ctx context.Context, companyID, code, currency string) (*Postability, error) {
	acc, err := uc.accountRepo.GetByCode(ctx, companyID, code)
	if err != nil {
		return nil, err
	}

	currency = domain.NormalizeCurrency(currency)
	violations, err := uc.evaluate(ctx, companyID, acc, currency, map[string]*domain.Account{})
	if err != nil {
		return nil, err
	}

	return &Postability{
		Account:    acc,
		Currency:   currency,
		Postable:   len(violations) == 0,
		Violations: violations,
	}, nil
}

// AccountRef is one account/currency pair referenced by a voucher line.
type AccountRef struct {
	LineIndex int
	AccountID string
	Currency  string
}

// RefsFromLines returns the distinct account/currency pairs of lines, keeping
// the first line index of each.
func RefsFromLines(lines []domain.LedgerLine) []AccountRef {
	seen := make(map[AccountRef]bool, len(lines))
	refs := make([]AccountRef, 0, len(lines))
	for _, l := range lines {
		key := AccountRef{AccountID: l.AccountID(), Currency: l.Currency()}
		if seen[key] {
			continue
		}
		seen[key] = true
		key.LineIndex = l.Index()
		refs = append(refs, key)
	}
	return refs
}

// ValidateAccounts runs the rule chain for every ref and aggregates all
// violations of all accounts into one error. An unknown account is an input
// error naming the line.
func (uc *AccountUseCase) ValidateAccounts(ctx context.Context, companyID string, refs []AccountRef) error {
	loaded := make(map[string]*domain.Account, len(refs))
	var violations []domain.Violation

	for _, ref := range refs {
		acc, ok := loaded[ref.AccountID]
		if !ok {
			var err error
			acc, err = uc.accountRepo.GetByID(ctx, companyID, ref.AccountID)
			if errors.Is(err, domain.ErrAccountNotFound) {
				return &domain.LineError{
					Index: ref.LineIndex,
					Field: "account_id",
					Err:   fmt.Errorf("%w: %w %s", domain.ErrInvalidVoucher, domain.ErrAccountNotFound, ref.AccountID),
				}
			}
			if err != nil {
				return err
			}
			loaded[ref.AccountID] = acc
		}

		vs, err := uc.evaluate(ctx, companyID, acc, ref.Currency, loaded)
		if err != nil {
			return err
		}
		violations = append(violations, vs...)
	}

	if len(violations) > 0 {
		return &domain.PolicyViolationError{Violations: violations}
	}
	return nil
}

func (uc *AccountUseCase) evaluate(ctx context.Context, companyID string, acc *domain.Account, currency string, loaded map[string]*domain.Account) ([]domain.Violation, error) {
	hasChildren, err := uc.accountRepo.HasChildren(ctx, companyID, acc.ID)
	if err != nil {
		return nil, err
	}
	// Evaluate a copy so cached accounts are never mutated.
	candidate := *acc
	candidate.HasChildren = candidate.HasChildren || hasChildren

	rc := rules.Context{Account: &candidate, Currency: currency}
	if candidate.CurrencyPolicy == domain.CurrencyPolicyInherit && currency != "" {
		inherited, err := uc.inheritedRule(ctx, companyID, &candidate, loaded)
		if err != nil {
			return nil, err
		}
		rc.InheritedPolicy = inherited
	}

	return uc.chain.Evaluate(rc), nil
}

// inheritedRule walks up the hierarchy to the nearest ancestor whose policy
// is not INHERIT. It returns nil when no ancestor defines one.
func (uc *AccountUseCase) inheritedRule(ctx context.Context, companyID string, acc *domain.Account, loaded map[string]*domain.Account) (*domain.CurrencyRule, error) {
	current := acc
	visited := map[string]bool{acc.ID: true}

	for depth := 0; depth < maxHierarchyDepth; depth++ {
		if current.ParentID == nil || *current.ParentID == "" {
			return nil, nil
		}
		parentID := *current.ParentID
		if visited[parentID] {
			return nil, fmt.Errorf("account hierarchy cycle at %s", parentID)
		}
		visited[parentID] = true

		parent, ok := loaded[parentID]
		if !ok {
			var err error
			parent, err = uc.accountRepo.GetByID(ctx, companyID, parentID)
			if err != nil {
				return nil, fmt.Errorf("load parent %s of %s: %w", parentID, current.Code, err)
			}
			loaded[parentID] = parent
		}

		if parent.CurrencyPolicy != domain.CurrencyPolicyInherit {
			rule := parent.OwnCurrencyRule()
			return &rule, nil
		}
		current = parent
	}

	return nil, fmt.Errorf("account hierarchy deeper than %d levels at %s", maxHierarchyDepth, acc.Code)
}
