package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/infrastructure/postgres/generated"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// GetByID retrieves an account of the company by ID.
func (r *AccountRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, generated.GetAccountByIDParams{
		CompanyID: companyID,
		ID:        id,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByCode retrieves an account of the company by its chart code.
func (r *AccountRepository) GetByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByCode(ctx, generated.GetAccountByCodeParams{
		CompanyID: companyID,
		Code:      code,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// HasChildren reports whether any account names accountID as its parent.
func (r *AccountRepository) HasChildren(ctx context.Context, companyID, accountID string) (bool, error) {
	return r.queries.AccountHasChildren(ctx, generated.AccountHasChildrenParams{
		CompanyID: companyID,
		ParentID:  accountID,
	})
}

// List lists the company's accounts ordered by code.
func (r *AccountRepository) List(ctx context.Context, companyID string, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		CompanyID: companyID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:                   row.ID,
		CompanyID:            row.CompanyID,
		Code:                 row.Code,
		Name:                 row.Name,
		Type:                 domain.AccountType(row.Type),
		Role:                 domain.AccountRole(row.Role),
		Status:               domain.AccountStatus(row.Status),
		ParentID:             pgTextToPtr(row.ParentID),
		CurrencyPolicy:       domain.CurrencyPolicy(row.CurrencyPolicy),
		FixedCurrencyCode:    row.FixedCurrencyCode.String,
		AllowedCurrencyCodes: row.AllowedCurrencyCodes,
		ReplacedByAccountID:  pgTextToPtr(row.ReplacedByAccountID),
		CreatedAt:            row.CreatedAt.Time,
		UpdatedAt:            row.UpdatedAt.Time,
	}
}
