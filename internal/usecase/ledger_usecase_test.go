package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/usecase"
	"github.com/iho/erpledger/internal/usecase/mockgen"
)

var asOf = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

func newLedgerUseCase(t *testing.T) (*usecase.LedgerUseCase, *mockgen.MockLedgerRepository, *mockgen.MockPermissionChecker) {
	t.Helper()
	ctrl := gomock.NewController(t)

	ledgerRepo := mockgen.NewMockLedgerRepository(ctrl)
	companyRepo := mockgen.NewMockCompanyRepository(ctrl)
	companyRepo.EXPECT().GetByID(gomock.Any(), "co-1").
		Return(&domain.Company{ID: "co-1", BaseCurrency: "USD"}, nil).AnyTimes()
	permissions := mockgen.NewMockPermissionChecker(ctrl)

	uc := usecase.NewLedgerUseCase(ledgerRepo, companyRepo, permissions, nil, zerolog.Nop(), nil)
	return uc, ledgerRepo, permissions
}

func TestLedgerUseCase_GetTrialBalance(t *testing.T) {
	uc, ledgerRepo, permissions := newLedgerUseCase(t)

	permissions.EXPECT().Authorize(gomock.Any(), "user-1", "co-1", domain.PermReportView).Return(nil)
	ledgerRepo.EXPECT().GetTrialBalance(gomock.Any(), "co-1", asOf).Return([]domain.TrialBalanceRow{
		{AccountID: "bank", AccountCode: "1010", AccountType: domain.AccountTypeAsset, Debit: dec("500"), Credit: dec("300")},
		{AccountID: "sup", AccountCode: "2010", AccountType: domain.AccountTypeLiability, Debit: dec("300"), Credit: dec("200")},
		{AccountID: "rev", AccountCode: "4000", AccountType: domain.AccountTypeRevenue, Debit: decimal.Zero, Credit: dec("300")},
	}, nil)

	tb, err := uc.GetTrialBalance(context.Background(), "co-1", "user-1", asOf)
	require.NoError(t, err)

	assert.Equal(t, "USD", tb.BaseCurrency)
	require.Len(t, tb.Rows, 3)
	assert.True(t, tb.Rows[0].Net.Equal(dec("200")), "asset net is debit minus credit")
	assert.True(t, tb.Rows[1].Net.Equal(dec("-100")), "liability net is credit minus debit")
	assert.True(t, tb.Rows[2].Net.Equal(dec("300")))
	assert.True(t, tb.TotalDebit.Equal(dec("800")))
	assert.True(t, tb.TotalCredit.Equal(dec("800")))
	assert.True(t, tb.Balanced)
}

func TestLedgerUseCase_GetTrialBalanceFlagsImbalance(t *testing.T) {
	uc, ledgerRepo, permissions := newLedgerUseCase(t)

	permissions.EXPECT().Authorize(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	ledgerRepo.EXPECT().GetTrialBalance(gomock.Any(), "co-1", asOf).Return([]domain.TrialBalanceRow{
		{AccountID: "bank", AccountType: domain.AccountTypeAsset, Debit: dec("100"), Credit: decimal.Zero},
		{AccountID: "rev", AccountType: domain.AccountTypeRevenue, Debit: decimal.Zero, Credit: dec("99.50")},
	}, nil)

	tb, err := uc.GetTrialBalance(context.Background(), "co-1", "user-1", asOf)
	require.NoError(t, err)
	assert.False(t, tb.Balanced)
}

func TestLedgerUseCase_GetTrialBalanceSharesConcurrentQueries(t *testing.T) {
	uc, ledgerRepo, permissions := newLedgerUseCase(t)

	permissions.EXPECT().Authorize(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	release := make(chan struct{})
	started := make(chan struct{})
	ledgerRepo.EXPECT().GetTrialBalance(gomock.Any(), "co-1", asOf).DoAndReturn(
		func(context.Context, string, time.Time) ([]domain.TrialBalanceRow, error) {
			close(started)
			<-release
			return []domain.TrialBalanceRow{{AccountID: "bank", AccountType: domain.AccountTypeAsset, Debit: dec("1"), Credit: dec("1")}}, nil
		}).Times(1)

	var wg sync.WaitGroup
	results := make([]*domain.TrialBalance, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = uc.GetTrialBalance(context.Background(), "co-1", "user-1", asOf)
	}()
	<-started
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = uc.GetTrialBalance(context.Background(), "co-1", "user-2", asOf)
	}()

	// Give the second caller time to join the in-flight query.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	results[0].Rows[0].AccountID = "changed"
	assert.Equal(t, "bank", results[1].Rows[0].AccountID, "callers must not share rows")
}

func TestLedgerUseCase_GetTrialBalanceLeaderCancelDoesNotFailFollowers(t *testing.T) {
	uc, ledgerRepo, permissions := newLedgerUseCase(t)

	permissions.EXPECT().Authorize(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	release := make(chan struct{})
	started := make(chan struct{})
	queryErr := make(chan error, 1)
	ledgerRepo.EXPECT().GetTrialBalance(gomock.Any(), "co-1", asOf).DoAndReturn(
		func(ctx context.Context, _ string, _ time.Time) ([]domain.TrialBalanceRow, error) {
			close(started)
			<-release
			queryErr <- ctx.Err()
			return []domain.TrialBalanceRow{{AccountID: "bank", AccountType: domain.AccountTypeAsset, Debit: dec("1"), Credit: dec("1")}}, nil
		}).Times(1)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderDone := make(chan error, 1)
	go func() {
		_, err := uc.GetTrialBalance(leaderCtx, "co-1", "user-1", asOf)
		leaderDone <- err
	}()
	<-started

	var follower *domain.TrialBalance
	var followerErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		follower, followerErr = uc.GetTrialBalance(context.Background(), "co-1", "user-2", asOf)
	}()
	time.Sleep(50 * time.Millisecond)

	cancelLeader()
	assert.ErrorIs(t, <-leaderDone, context.Canceled, "the leader returns once its own ctx is done")

	close(release)
	wg.Wait()

	require.NoError(t, followerErr)
	require.NotNil(t, follower)
	assert.True(t, follower.Balanced)
	assert.NoError(t, <-queryErr, "the shared query must not see the leader's cancellation")
}

func TestLedgerUseCase_PermissionDenied(t *testing.T) {
	uc, _, permissions := newLedgerUseCase(t)
	permissions.EXPECT().Authorize(gomock.Any(), "viewer", "co-1", domain.PermReportView).Return(domain.ErrPermissionDenied)

	_, err := uc.GetTrialBalance(context.Background(), "co-1", "viewer", asOf)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestLedgerUseCase_RepositoryErrorIsInternal(t *testing.T) {
	uc, ledgerRepo, permissions := newLedgerUseCase(t)
	permissions.EXPECT().Authorize(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	ledgerRepo.EXPECT().GetGeneralLedger(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

	_, err := uc.GetGeneralLedger(context.Background(), "user-1", domain.LedgerFilter{CompanyID: "co-1"})
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func entry(voucherID string, idx int, side domain.Side, amount string) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		VoucherID:     voucherID,
		VoucherNumber: "JV-" + voucherID,
		VoucherType:   domain.VoucherTypeJournalEntry,
		LineIndex:     idx,
		AccountID:     "bank",
		Side:          side,
		BaseAmount:    dec(amount),
	}
}

func TestLedgerUseCase_GetGeneralLedgerRunningBalance(t *testing.T) {
	uc, ledgerRepo, permissions := newLedgerUseCase(t)
	from := asOf.AddDate(0, -1, 0)

	permissions.EXPECT().Authorize(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	ledgerRepo.EXPECT().GetGeneralLedger(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
			assert.Equal(t, 50, filter.Limit, "default page size")
			return []*domain.LedgerEntry{
				entry("v1", 1, domain.SideDebit, "100"),
				entry("v2", 2, domain.SideCredit, "30"),
			}, nil
		})
	ledgerRepo.EXPECT().GetAccountBalanceBefore(gomock.Any(), "co-1", "bank", from).Return(dec("50"), dec("10"), nil)

	entries, err := uc.GetGeneralLedger(context.Background(), "user-1", domain.LedgerFilter{
		CompanyID:  "co-1",
		AccountIDs: []string{"bank"},
		From:       &from,
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].RunningBalance)
	assert.True(t, entries[0].RunningBalance.Equal(dec("140")), "got %s", entries[0].RunningBalance)
	assert.True(t, entries[1].RunningBalance.Equal(dec("110")), "got %s", entries[1].RunningBalance)
}

func TestLedgerUseCase_GetGeneralLedgerRunningBalanceDeepPage(t *testing.T) {
	uc, ledgerRepo, permissions := newLedgerUseCase(t)

	filter := domain.LedgerFilter{CompanyID: "co-1", AccountIDs: []string{"bank"}, Limit: 10, Offset: 1500}

	permissions.EXPECT().Authorize(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	ledgerRepo.EXPECT().GetGeneralLedger(gomock.Any(), filter).Return([]*domain.LedgerEntry{
		entry("v1501", 1, domain.SideDebit, "1"),
		entry("v1502", 1, domain.SideCredit, "0.50"),
	}, nil)
	ledgerRepo.EXPECT().SumGeneralLedgerPrefix(gomock.Any(), filter, 1500).Return(dec("1500"), decimal.Zero, nil)

	entries, err := uc.GetGeneralLedger(context.Background(), "user-1", filter)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].RunningBalance.Equal(dec("1501")), "got %s", entries[0].RunningBalance)
	assert.True(t, entries[1].RunningBalance.Equal(dec("1500.50")), "got %s", entries[1].RunningBalance)
}

func TestLedgerUseCase_GetGeneralLedgerSkipsRunningBalanceForManyAccounts(t *testing.T) {
	uc, ledgerRepo, permissions := newLedgerUseCase(t)

	permissions.EXPECT().Authorize(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	ledgerRepo.EXPECT().GetGeneralLedger(gomock.Any(), gomock.Any()).Return([]*domain.LedgerEntry{entry("v1", 1, domain.SideDebit, "1")}, nil)

	entries, err := uc.GetGeneralLedger(context.Background(), "user-1", domain.LedgerFilter{CompanyID: "co-1", AccountIDs: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Nil(t, entries[0].RunningBalance)
}

func TestLedgerUseCase_GetJournal(t *testing.T) {
	uc, ledgerRepo, permissions := newLedgerUseCase(t)

	permissions.EXPECT().Authorize(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	ledgerRepo.EXPECT().GetGeneralLedger(gomock.Any(), gomock.Any()).Return([]*domain.LedgerEntry{
		entry("v1", 1, domain.SideDebit, "100"),
		entry("v1", 2, domain.SideCredit, "100"),
		entry("v2", 1, domain.SideDebit, "25.50"),
		entry("v2", 2, domain.SideCredit, "25.50"),
	}, nil)

	journal, err := uc.GetJournal(context.Background(), "user-1", domain.LedgerFilter{CompanyID: "co-1"})
	require.NoError(t, err)
	require.Len(t, journal, 2)
	assert.Equal(t, "v1", journal[0].VoucherID)
	assert.Len(t, journal[0].Entries, 2)
	assert.True(t, journal[1].TotalDebit.Equal(dec("25.50")))
	assert.True(t, journal[1].TotalCredit.Equal(dec("25.50")))
}

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	tests := []struct {
		name        string
		balance     domain.LedgerBalance
		repoErr     error
		want        bool
		expectedErr error
	}{
		{
			name:    "balanced ledger",
			balance: domain.LedgerBalance{TotalDebit: dec("1000"), TotalCredit: dec("1000"), Vouchers: 3},
			want:    true,
		},
		{
			name:    "journal entry accepted within tolerance",
			balance: domain.LedgerBalance{TotalDebit: dec("100.00"), TotalCredit: dec("99.99"), Vouchers: 1},
			want:    true,
		},
		{
			name:    "rounding of several vouchers adds up",
			balance: domain.LedgerBalance{TotalDebit: dec("300.03"), TotalCredit: dec("300.00"), Vouchers: 3},
			want:    true,
		},
		{name: "repo error is internal", repoErr: errors.New("db down"), expectedErr: domain.ErrInternal},
		{
			name:        "voucher beyond tolerance",
			balance:     domain.LedgerBalance{TotalDebit: dec("10"), TotalCredit: dec("10"), Vouchers: 2, UnbalancedVouchers: 1},
			expectedErr: usecase.ErrInconsistentLedger,
		},
		{
			name:        "drift beyond what vouchers allow",
			balance:     domain.LedgerBalance{TotalDebit: dec("10"), TotalCredit: dec("9.98"), Vouchers: 1},
			expectedErr: usecase.ErrInconsistentLedger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, ledgerRepo, permissions := newLedgerUseCase(t)
			permissions.EXPECT().Authorize(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			ledgerRepo.EXPECT().CheckConsistency(gomock.Any(), "co-1").Return(tt.balance, tt.repoErr)

			got, err := uc.CheckConsistency(context.Background(), "co-1", "user-1")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

type countingRetrier struct{ calls int }

func (r *countingRetrier) Retry(ctx context.Context, op func() error) error {
	var err error
	for i := 0; i < 3; i++ {
		r.calls++
		if err = op(); err == nil {
			return nil
		}
	}
	return err
}

func TestLedgerUseCase_ReadsGoThroughRetrier(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledgerRepo := mockgen.NewMockLedgerRepository(ctrl)
	retrier := &countingRetrier{}
	uc := usecase.NewLedgerUseCase(ledgerRepo, mockgen.NewMockCompanyRepository(ctrl), nil, retrier, zerolog.Nop(), nil)

	gomock.InOrder(
		ledgerRepo.EXPECT().CheckConsistency(gomock.Any(), "co-1").Return(domain.LedgerBalance{}, errors.New("deadlock detected")),
		ledgerRepo.EXPECT().CheckConsistency(gomock.Any(), "co-1").Return(domain.LedgerBalance{TotalDebit: dec("5"), TotalCredit: dec("5"), Vouchers: 1}, nil),
	)

	ok, err := uc.CheckConsistency(context.Background(), "co-1", "user-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, retrier.calls)
}
