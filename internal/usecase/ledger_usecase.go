package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/infrastructure/metrics"
)

var (
	// ErrInconsistentLedger is returned when the ledger is not balanced.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: debits do not equal credits")
)

// sharedQueryTimeout bounds a trial balance query shared between callers.
const sharedQueryTimeout = 30 * time.Second

// LedgerUseCase serves the read models built from posted ledger lines.
// It never re-runs posting strategies.
type LedgerUseCase struct {
	ledgerRepo  LedgerRepository
	companyRepo CompanyRepository
	permissions PermissionChecker
	retrier     Retrier
	logger      zerolog.Logger
	metrics     *metrics.Metrics
	group       singleflight.Group
}

// NewLedgerUseCase creates a new LedgerUseCase. retrier and m may be nil.
func NewLedgerUseCase(
	ledgerRepo LedgerRepository,
	companyRepo CompanyRepository,
	permissions PermissionChecker,
	retrier Retrier,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo:  ledgerRepo,
		companyRepo: companyRepo,
		permissions: permissions,
		retrier:     retrier,
		logger:      logger.With().Str("component", "ledger_usecase").Logger(),
		metrics:     m,
	}
}

// GetTrialBalance aggregates posted base amounts per account as of asOf.
// Identical concurrent requests share one query. The shared query is detached
// from the cancellation of whichever caller started it and is bounded by
// sharedQueryTimeout; each caller still returns as soon as its own ctx is done.
func (uc *LedgerUseCase) GetTrialBalance(ctx context.Context, companyID, userID string, asOf time.Time) (*domain.TrialBalance, error) {
	if err := uc.authorize(ctx, userID, companyID); err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	key := fmt.Sprintf("tb:%s:%s", companyID, asOf.Format("2006-01-02"))
	flight := uc.group.DoChan(key, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedQueryTimeout)
		defer cancel()
		return uc.buildTrialBalance(shared, companyID, asOf)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-flight:
	}
	if res.Err != nil {
		return nil, uc.fail("trial_balance", companyID, res.Err)
	}

	// Callers sharing the flight must not share the row slice.
	tb := *res.Val.(*domain.TrialBalance)
	tb.Rows = append([]domain.TrialBalanceRow(nil), tb.Rows...)
	return &tb, nil
}

func (uc *LedgerUseCase) buildTrialBalance(ctx context.Context, companyID string, asOf time.Time) (*domain.TrialBalance, error) {
	defer uc.observe("trial_balance", time.Now())

	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var rows []domain.TrialBalanceRow
	err = uc.retry(ctx, func() error {
		var err error
		rows, err = uc.ledgerRepo.GetTrialBalance(ctx, companyID, asOf)
		return err
	})
	if err != nil {
		return nil, err
	}

	tb := &domain.TrialBalance{
		CompanyID:    companyID,
		BaseCurrency: company.BaseCurrency,
		AsOf:         asOf,
		Rows:         make([]domain.TrialBalanceRow, 0, len(rows)),
		TotalDebit:   decimal.Zero,
		TotalCredit:  decimal.Zero,
	}
	for _, row := range rows {
		row.Net = row.AccountType.NetBalance(row.Debit, row.Credit)
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
		tb.Rows = append(tb.Rows, row)
	}
	tb.Balanced = domain.WithinTolerance(tb.TotalDebit, tb.TotalCredit)

	if !tb.Balanced {
		uc.logger.Error().
			Str("company_id", companyID).
			Str("total_debit", tb.TotalDebit.String()).
			Str("total_credit", tb.TotalCredit.String()).
			Msg("trial balance does not balance")
	}
	return tb, nil
}

// GetGeneralLedger lists posted lines in chronological order. When the filter
// names exactly one account each entry carries the running balance, starting
// from the account's balance before filter.From.
func (uc *LedgerUseCase) GetGeneralLedger(ctx context.Context, userID string, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	if err := uc.authorize(ctx, userID, filter.CompanyID); err != nil {
		return nil, err
	}
	defer uc.observe("general_ledger", time.Now())

	entries, err := uc.entries(ctx, filter)
	if err != nil {
		return nil, uc.fail("general_ledger", filter.CompanyID, err)
	}

	if len(filter.AccountIDs) == 1 && len(entries) > 0 {
		if err := uc.applyRunningBalance(ctx, filter, entries); err != nil {
			return nil, uc.fail("general_ledger", filter.CompanyID, err)
		}
	}
	return entries, nil
}

// GetJournal returns posted lines grouped per voucher, in voucher order.
func (uc *LedgerUseCase) GetJournal(ctx context.Context, userID string, filter domain.LedgerFilter) ([]*domain.JournalVoucher, error) {
	if err := uc.authorize(ctx, userID, filter.CompanyID); err != nil {
		return nil, err
	}
	defer uc.observe("journal", time.Now())

	entries, err := uc.entries(ctx, filter)
	if err != nil {
		return nil, uc.fail("journal", filter.CompanyID, err)
	}
	return GroupJournal(entries), nil
}

// GroupJournal groups chronologically ordered entries by voucher.
func GroupJournal(entries []*domain.LedgerEntry) []*domain.JournalVoucher {
	var (
		journal []*domain.JournalVoucher
		byID    = make(map[string]*domain.JournalVoucher)
	)
	for _, e := range entries {
		jv, ok := byID[e.VoucherID]
		if !ok {
			jv = &domain.JournalVoucher{
				VoucherID:     e.VoucherID,
				VoucherNumber: e.VoucherNumber,
				VoucherType:   e.VoucherType,
				VoucherDate:   e.VoucherDate,
				TotalDebit:    decimal.Zero,
				TotalCredit:   decimal.Zero,
			}
			byID[e.VoucherID] = jv
			journal = append(journal, jv)
		}
		jv.Entries = append(jv.Entries, e)
		if e.Side == domain.SideDebit {
			jv.TotalDebit = jv.TotalDebit.Add(e.BaseAmount)
		} else {
			jv.TotalCredit = jv.TotalCredit.Add(e.BaseAmount)
		}
	}
	return journal
}

// CheckConsistency verifies that every posted voucher balances within
// tolerance, so company-wide debits equal credits up to accepted rounding.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context, companyID, userID string) (bool, error) {
	if err := uc.authorize(ctx, userID, companyID); err != nil {
		return false, err
	}

	var balance domain.LedgerBalance
	err := uc.retry(ctx, func() error {
		var err error
		balance, err = uc.ledgerRepo.CheckConsistency(ctx, companyID)
		return err
	})
	if err != nil {
		return false, uc.fail("consistency", companyID, err)
	}

	if !balance.Consistent() {
		uc.logger.Error().
			Str("company_id", companyID).
			Str("total_debit", balance.TotalDebit.String()).
			Str("total_credit", balance.TotalCredit.String()).
			Int("unbalanced_vouchers", balance.UnbalancedVouchers).
			Msg("ledger inconsistency detected")
		return false, fmt.Errorf("%w: debits=%s credits=%s difference=%s unbalanced_vouchers=%d",
			ErrInconsistentLedger, balance.TotalDebit, balance.TotalCredit, balance.Difference(), balance.UnbalancedVouchers)
	}

	return true, nil
}

func (uc *LedgerUseCase) entries(ctx context.Context, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	filter.Limit, filter.Offset, _ = domain.ValidatePagination(filter.Limit, filter.Offset)

	var entries []*domain.LedgerEntry
	err := uc.retry(ctx, func() error {
		var err error
		entries, err = uc.ledgerRepo.GetGeneralLedger(ctx, filter)
		return err
	})
	return entries, err
}

func (uc *LedgerUseCase) applyRunningBalance(ctx context.Context, filter domain.LedgerFilter, entries []*domain.LedgerEntry) error {
	accountID := filter.AccountIDs[0]

	debit, credit := decimal.Zero, decimal.Zero
	if filter.From != nil {
		err := uc.retry(ctx, func() error {
			var err error
			debit, credit, err = uc.ledgerRepo.GetAccountBalanceBefore(ctx, filter.CompanyID, accountID, *filter.From)
			return err
		})
		if err != nil {
			return err
		}
	}

	// Pages after the first carry the lines skipped by Offset.
	if filter.Offset > 0 {
		var skippedDebit, skippedCredit decimal.Decimal
		err := uc.retry(ctx, func() error {
			var err error
			skippedDebit, skippedCredit, err = uc.ledgerRepo.SumGeneralLedgerPrefix(ctx, filter, filter.Offset)
			return err
		})
		if err != nil {
			return err
		}
		debit = debit.Add(skippedDebit)
		credit = credit.Add(skippedCredit)
	}

	for _, e := range entries {
		debit, credit = accumulate(debit, credit, e)
		balance := debit.Sub(credit)
		e.RunningBalance = &balance
	}
	return nil
}

func accumulate(debit, credit decimal.Decimal, e *domain.LedgerEntry) (decimal.Decimal, decimal.Decimal) {
	if e.Side == domain.SideDebit {
		return debit.Add(e.BaseAmount), credit
	}
	return debit, credit.Add(e.BaseAmount)
}

func (uc *LedgerUseCase) authorize(ctx context.Context, userID, companyID string) error {
	if uc.permissions == nil {
		return nil
	}
	return uc.permissions.Authorize(ctx, userID, companyID, domain.PermReportView)
}

func (uc *LedgerUseCase) retry(ctx context.Context, fn func() error) error {
	if uc.retrier == nil {
		return fn()
	}
	return uc.retrier.Retry(ctx, fn)
}

func (uc *LedgerUseCase) fail(report, companyID string, err error) error {
	if domain.KindOf(err) != domain.KindInternal {
		return err
	}
	uc.logger.Error().Err(err).Str("report", report).Str("company_id", companyID).Msg("report query failed")
	return domain.ErrInternal
}

func (uc *LedgerUseCase) observe(report string, start time.Time) {
	if uc.metrics != nil {
		uc.metrics.ReportDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
	}
}
