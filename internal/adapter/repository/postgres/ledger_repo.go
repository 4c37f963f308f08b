package postgres

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/infrastructure/postgres/generated"
	"github.com/iho/erpledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
	idGen   usecase.IDGenerator
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX, idGen usecase.IDGenerator) *LedgerRepository {
	return &LedgerRepository{
		queries: generated.New(db),
		idGen:   idGen,
	}
}

// RecordForVoucher copies the voucher lines into ledger_lines.
func (r *LedgerRepository) RecordForVoucher(ctx context.Context, tx usecase.Transaction, v *domain.Voucher) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}
	if len(v.Lines) == 0 {
		return fmt.Errorf("%w: voucher %s has no lines to record", domain.ErrInvalidVoucher, v.ID)
	}

	now := time.Now().UTC()
	params := make([]generated.CreateLedgerLinesParams, 0, len(v.Lines))
	for _, l := range v.Lines {
		params = append(params, generated.CreateLedgerLinesParams{
			ID:           r.idGen.Generate(),
			CompanyID:    v.CompanyID,
			VoucherID:    v.ID,
			LineIndex:    int32(l.Index()),
			VoucherDate:  timeToPgDate(v.Date),
			AccountID:    l.AccountID(),
			Side:         string(l.Side()),
			Amount:       decimalToNumeric(l.Amount()),
			Currency:     l.Currency(),
			Rate:         decimalToNumeric(l.Rate()),
			BaseAmount:   decimalToNumeric(l.BaseAmount()),
			Notes:        l.Notes(),
			CostCenterID: l.CostCenterID(),
			CreatedAt:    timeToPgTimestamptz(now),
		})
	}

	n, err := queries.CreateLedgerLines(ctx, params)
	if err != nil {
		return err
	}
	if int(n) != len(params) {
		return fmt.Errorf("recorded %d of %d ledger lines for voucher %s", n, len(params), v.ID)
	}
	return nil
}

// DeleteForVoucher removes the posted lines of a voucher.
func (r *LedgerRepository) DeleteForVoucher(ctx context.Context, tx usecase.Transaction, companyID, voucherID string) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	_, err = queries.DeleteLedgerLinesForVoucher(ctx, generated.DeleteLedgerLinesForVoucherParams{
		CompanyID: companyID,
		VoucherID: voucherID,
	})
	return err
}

// GetTrialBalance sums posted base amounts per account up to asOf inclusive.
func (r *LedgerRepository) GetTrialBalance(ctx context.Context, companyID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	rows, err := r.queries.GetTrialBalance(ctx, generated.GetTrialBalanceParams{
		CompanyID: companyID,
		AsOf:      timeToPgDate(asOf),
	})
	if err != nil {
		return nil, err
	}

	result := make([]domain.TrialBalanceRow, 0, len(rows))
	for _, row := range rows {
		debit, err := numericToDecimal(row.Debit)
		if err != nil {
			return nil, err
		}
		credit, err := numericToDecimal(row.Credit)
		if err != nil {
			return nil, err
		}
		result = append(result, domain.TrialBalanceRow{
			AccountID:   row.AccountID,
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: domain.AccountType(row.AccountType),
			Debit:       debit,
			Credit:      credit,
		})
	}

	return result, nil
}

// GetGeneralLedger lists posted lines in chronological order.
func (r *LedgerRepository) GetGeneralLedger(ctx context.Context, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.GetGeneralLedger(ctx, generated.GetGeneralLedgerParams{
		CompanyID:    filter.CompanyID,
		AccountIds:   nonNil(filter.AccountIDs),
		VoucherTypes: voucherTypeStrings(filter.VoucherTypes),
		VoucherID:    filter.VoucherID,
		FromDate:     timePtrToPgDate(filter.From),
		ToDate:       timePtrToPgDate(filter.To),
		Limit:        int32(filter.Limit),
		Offset:       int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &domain.LedgerEntry{
			ID:            row.ID,
			CompanyID:     row.CompanyID,
			VoucherID:     row.VoucherID,
			VoucherNumber: row.VoucherNumber,
			VoucherType:   domain.VoucherType(row.VoucherType),
			VoucherDate:   row.VoucherDate.Time,
			LineIndex:     int(row.LineIndex),
			AccountID:     row.AccountID,
			AccountCode:   row.AccountCode,
			AccountName:   row.AccountName,
			Side:          domain.Side(row.Side),
			Amount:        mustDecimal(row.Amount),
			Currency:      row.Currency,
			Rate:          mustDecimal(row.Rate),
			BaseAmount:    mustDecimal(row.BaseAmount),
			Notes:         row.Notes,
			CostCenterID:  row.CostCenterID,
			CreatedAt:     row.CreatedAt.Time,
		})
	}

	return entries, nil
}

// GetAccountBalanceBefore sums the account's posted base amounts dated before before.
func (r *LedgerRepository) GetAccountBalanceBefore(ctx context.Context, companyID, accountID string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	row, err := r.queries.GetAccountBalanceBefore(ctx, generated.GetAccountBalanceBeforeParams{
		CompanyID: companyID,
		AccountID: accountID,
		Before:    timeToPgDate(before),
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return toDecimalPair(row.Debit, row.Credit)
}

// SumGeneralLedgerPrefix sums the first rows general ledger lines matching filter.
func (r *LedgerRepository) SumGeneralLedgerPrefix(ctx context.Context, filter domain.LedgerFilter, rows int) (decimal.Decimal, decimal.Decimal, error) {
	if rows <= 0 {
		return decimal.Zero, decimal.Zero, nil
	}

	row, err := r.queries.SumGeneralLedgerPrefix(ctx, generated.SumGeneralLedgerPrefixParams{
		CompanyID:    filter.CompanyID,
		AccountIds:   nonNil(filter.AccountIDs),
		VoucherTypes: voucherTypeStrings(filter.VoucherTypes),
		VoucherID:    filter.VoucherID,
		FromDate:     timePtrToPgDate(filter.From),
		ToDate:       timePtrToPgDate(filter.To),
		Limit:        int32(min(rows, math.MaxInt32)),
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return toDecimalPair(row.Debit, row.Credit)
}

// CheckConsistency returns the company-wide posted totals and the number of
// vouchers whose lines differ by more than domain.BalanceTolerance.
func (r *LedgerRepository) CheckConsistency(ctx context.Context, companyID string) (domain.LedgerBalance, error) {
	row, err := r.queries.CheckLedgerConsistency(ctx, generated.CheckLedgerConsistencyParams{
		CompanyID: companyID,
		Tolerance: decimalToNumeric(domain.BalanceTolerance),
	})
	if err != nil {
		return domain.LedgerBalance{}, err
	}

	debit, credit, err := toDecimalPair(row.TotalDebit, row.TotalCredit)
	if err != nil {
		return domain.LedgerBalance{}, err
	}

	return domain.LedgerBalance{
		TotalDebit:         debit,
		TotalCredit:        credit,
		Vouchers:           int(row.Vouchers),
		UnbalancedVouchers: int(row.UnbalancedVouchers),
	}, nil
}

// GetVoucherTotals returns posted totals for each voucher that has ledger lines.
func (r *LedgerRepository) GetVoucherTotals(ctx context.Context, companyID string, voucherIDs []string) (map[string]domain.VoucherLedgerTotals, error) {
	totals := make(map[string]domain.VoucherLedgerTotals, len(voucherIDs))
	if len(voucherIDs) == 0 {
		return totals, nil
	}

	rows, err := r.queries.GetVoucherLedgerTotals(ctx, generated.GetVoucherLedgerTotalsParams{
		CompanyID:  companyID,
		VoucherIds: voucherIDs,
	})
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		debit, credit, err := toDecimalPair(row.Debit, row.Credit)
		if err != nil {
			return nil, err
		}
		totals[row.VoucherID] = domain.VoucherLedgerTotals{
			VoucherID: row.VoucherID,
			Debit:     debit,
			Credit:    credit,
			Lines:     int(row.Lines),
		}
	}

	return totals, nil
}

func toDecimalPair(debit, credit pgtype.Numeric) (decimal.Decimal, decimal.Decimal, error) {
	d, err := numericToDecimal(debit)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	c, err := numericToDecimal(credit)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return d, c, nil
}

func voucherTypeStrings(types []domain.VoucherType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}
