package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/erpledger/internal/domain"
)

// Integrity problems reported for posted vouchers.
const (
	ProblemMissingLines   = "missing_ledger_lines"
	ProblemLineCount      = "line_count_mismatch"
	ProblemTotalsMismatch = "totals_mismatch"
	ProblemUnbalanced     = "unbalanced_ledger_lines"
)

// IntegrityUseCase cross-checks posted vouchers against their ledger lines.
// Discrepancies are reported, never repaired.
type IntegrityUseCase struct {
	voucherRepo VoucherRepository
	ledgerRepo  LedgerRepository
	permissions PermissionChecker
	logger      zerolog.Logger
}

// NewIntegrityUseCase creates a new integrity use case
func NewIntegrityUseCase(
	voucherRepo VoucherRepository,
	ledgerRepo LedgerRepository,
	permissions PermissionChecker,
	logger zerolog.Logger,
) *IntegrityUseCase {
	return &IntegrityUseCase{
		voucherRepo: voucherRepo,
		ledgerRepo:  ledgerRepo,
		permissions: permissions,
		logger:      logger.With().Str("component", "integrity_usecase").Logger(),
	}
}

// IntegrityReport represents the outcome of a full integrity check
type IntegrityReport struct {
	CompanyID        string
	VouchersChecked  int
	Issues           []domain.IntegrityIssue
	LedgerConsistent bool
	TotalDebit       decimal.Decimal
	TotalCredit      decimal.Decimal
	CheckedAt        time.Time
}

// OK reports whether no discrepancy was found.
func (r *IntegrityReport) OK() bool {
	return r.LedgerConsistent && len(r.Issues) == 0
}

// VerifyPostedVouchers checks every approved or locked voucher of the company.
func (uc *IntegrityUseCase) VerifyPostedVouchers(ctx context.Context, companyID, userID string) (*IntegrityReport, error) {
	if uc.permissions != nil {
		if err := uc.permissions.Authorize(ctx, userID, companyID, domain.PermReportView); err != nil {
			return nil, err
		}
	}

	report := &IntegrityReport{
		CompanyID: companyID,
		Issues:    make([]domain.IntegrityIssue, 0),
		CheckedAt: time.Now().UTC(),
	}

	for offset := 0; ; offset += integrityPageSize {
		vouchers, err := uc.voucherRepo.List(ctx, domain.VoucherFilter{
			CompanyID: companyID,
			Statuses:  []domain.VoucherStatus{domain.VoucherStatusApproved, domain.VoucherStatusLocked},
			Limit:     integrityPageSize,
			Offset:    offset,
		})
		if err != nil {
			return nil, uc.internal(companyID, fmt.Errorf("failed to list posted vouchers: %w", err))
		}
		if len(vouchers) == 0 {
			break
		}

		ids := make([]string, len(vouchers))
		for i, v := range vouchers {
			ids[i] = v.ID
		}
		totals, err := uc.ledgerRepo.GetVoucherTotals(ctx, companyID, ids)
		if err != nil {
			return nil, uc.internal(companyID, fmt.Errorf("failed to load ledger totals: %w", err))
		}

		for _, v := range vouchers {
			report.VouchersChecked++
			if issue, ok := CheckVoucherIntegrity(v, totals[v.ID]); !ok {
				report.Issues = append(report.Issues, issue)
			}
		}

		if len(vouchers) < integrityPageSize {
			break
		}
	}

	balance, err := uc.ledgerRepo.CheckConsistency(ctx, companyID)
	if err != nil {
		return nil, uc.internal(companyID, fmt.Errorf("failed to check ledger consistency: %w", err))
	}
	report.TotalDebit = balance.TotalDebit
	report.TotalCredit = balance.TotalCredit
	report.LedgerConsistent = balance.Consistent()

	if !report.OK() {
		uc.logger.Warn().
			Str("company_id", companyID).
			Int("issues", len(report.Issues)).
			Bool("ledger_consistent", report.LedgerConsistent).
			Msg("ledger integrity discrepancies found")
	}

	return report, nil
}

// CheckVoucherIntegrity compares a posted voucher with the totals of its
// recorded ledger lines.
func CheckVoucherIntegrity(v *domain.Voucher, posted domain.VoucherLedgerTotals) (domain.IntegrityIssue, bool) {
	issue := domain.IntegrityIssue{
		VoucherID:      v.ID,
		VoucherNumber:  v.Number,
		Status:         v.Status,
		ExpectedDebit:  v.TotalDebitBase,
		ExpectedCredit: v.TotalCreditBase,
		PostedDebit:    posted.Debit,
		PostedCredit:   posted.Credit,
		PostedLines:    posted.Lines,
		ExpectedLines:  len(v.Lines),
	}

	switch {
	case posted.Lines == 0:
		issue.Problem = ProblemMissingLines
	case posted.Lines != len(v.Lines):
		issue.Problem = ProblemLineCount
	case !posted.Debit.Equal(v.TotalDebitBase) || !posted.Credit.Equal(v.TotalCreditBase):
		issue.Problem = ProblemTotalsMismatch
	case !domain.WithinTolerance(posted.Debit, posted.Credit):
		issue.Problem = ProblemUnbalanced
	default:
		return issue, true
	}
	return issue, false
}

func (uc *IntegrityUseCase) internal(companyID string, err error) error {
	uc.logger.Error().Err(err).Str("company_id", companyID).Msg("integrity check failed")
	return domain.ErrInternal
}
