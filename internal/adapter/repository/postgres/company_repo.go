package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/infrastructure/postgres/generated"
)

// CompanyRepository implements usecase.CompanyRepository.
type CompanyRepository struct {
	queries *generated.Queries
}

// NewCompanyRepository creates a new CompanyRepository.
func NewCompanyRepository(db generated.DBTX) *CompanyRepository {
	return &CompanyRepository{queries: generated.New(db)}
}

// GetByID retrieves a company by ID.
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	row, err := r.queries.GetCompanyByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}

		return nil, err
	}

	return &domain.Company{
		ID:           row.ID,
		Name:         row.Name,
		BaseCurrency: row.BaseCurrency,
	}, nil
}
