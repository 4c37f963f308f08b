package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/usecase"
	"github.com/iho/erpledger/internal/usecase/mocks"
)

func TestCheckVoucherIntegrity(t *testing.T) {
	v := &domain.Voucher{
		ID:              "v1",
		Number:          "JV-1",
		Status:          domain.VoucherStatusApproved,
		TotalDebitBase:  dec("100"),
		TotalCreditBase: dec("100"),
		Lines:           make([]domain.LedgerLine, 2),
	}

	tests := []struct {
		name    string
		posted  domain.VoucherLedgerTotals
		ok      bool
		problem string
	}{
		{name: "matching", posted: domain.VoucherLedgerTotals{Debit: dec("100"), Credit: dec("100"), Lines: 2}, ok: true},
		{name: "no lines", posted: domain.VoucherLedgerTotals{}, problem: usecase.ProblemMissingLines},
		{name: "line count", posted: domain.VoucherLedgerTotals{Debit: dec("100"), Credit: dec("100"), Lines: 3}, problem: usecase.ProblemLineCount},
		{name: "totals", posted: domain.VoucherLedgerTotals{Debit: dec("100"), Credit: dec("90"), Lines: 2}, problem: usecase.ProblemTotalsMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue, ok := usecase.CheckVoucherIntegrity(v, tt.posted)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if issue.Problem != tt.problem {
				t.Errorf("problem = %q, want %q", issue.Problem, tt.problem)
			}
		})
	}
}

func TestCheckVoucherIntegrity_PennyDrift(t *testing.T) {
	v := &domain.Voucher{
		ID:              "v2",
		Status:          domain.VoucherStatusApproved,
		TotalDebitBase:  dec("100.00"),
		TotalCreditBase: dec("99.99"),
		Lines:           make([]domain.LedgerLine, 2),
	}

	if issue, ok := usecase.CheckVoucherIntegrity(v, domain.VoucherLedgerTotals{Debit: dec("100.00"), Credit: dec("99.99"), Lines: 2}); !ok {
		t.Errorf("drift of 0.01 must be tolerated, got %q", issue.Problem)
	}

	v.TotalCreditBase = dec("99.98")
	issue, ok := usecase.CheckVoucherIntegrity(v, domain.VoucherLedgerTotals{Debit: dec("100.00"), Credit: dec("99.98"), Lines: 2})
	if ok || issue.Problem != usecase.ProblemUnbalanced {
		t.Errorf("expected %q, got ok=%v problem=%q", usecase.ProblemUnbalanced, ok, issue.Problem)
	}
}

func TestIntegrityUseCase_LedgerWithinTolerance(t *testing.T) {
	ledger := mocks.NewMockLedgerRepository()
	ledger.CheckConsistencyFunc = func(context.Context, string) (domain.LedgerBalance, error) {
		return domain.LedgerBalance{TotalDebit: dec("300.02"), TotalCredit: dec("300.00"), Vouchers: 3}, nil
	}

	uc := usecase.NewIntegrityUseCase(mocks.NewMockVoucherRepository(), ledger, nil, zerolog.Nop())
	report, err := uc.VerifyPostedVouchers(context.Background(), "co-1", "auditor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.LedgerConsistent {
		t.Error("penny drift spread over vouchers must not flag the ledger")
	}
}

func TestIntegrityUseCase_VerifyPostedVouchers(t *testing.T) {
	f := newVoucherFixture(t)
	ctx := context.Background()

	good := f.create(t, true)
	if _, err := f.uc.ApproveVoucher(ctx, f.transition(good.ID)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	broken := f.create(t, true)
	if _, err := f.uc.ApproveVoucher(ctx, f.transition(broken.ID)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	f.create(t, false)

	// Lose the ledger lines of one posted voucher behind the engine's back.
	if err := f.ledger.DeleteForVoucher(ctx, nil, "co-1", broken.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	uc := usecase.NewIntegrityUseCase(f.vouchers, f.ledger, f.permissions, zerolog.Nop())
	report, err := uc.VerifyPostedVouchers(ctx, "co-1", "auditor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.VouchersChecked != 2 {
		t.Errorf("expected 2 posted vouchers checked, got %d", report.VouchersChecked)
	}
	if len(report.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(report.Issues))
	}
	if report.Issues[0].VoucherID != broken.ID || report.Issues[0].Problem != usecase.ProblemMissingLines {
		t.Errorf("unexpected issue: %+v", report.Issues[0])
	}
	if !report.LedgerConsistent {
		t.Error("remaining lines still balance")
	}
	if report.OK() {
		t.Error("report with issues must not be OK")
	}
	if _, ok := f.ledger.Recorded(broken.ID); ok {
		t.Error("integrity check must not repair anything")
	}
}

func TestIntegrityUseCase_InconsistentLedger(t *testing.T) {
	vouchers := mocks.NewMockVoucherRepository()
	ledger := mocks.NewMockLedgerRepository()
	ledger.CheckConsistencyFunc = func(context.Context, string) (domain.LedgerBalance, error) {
		return domain.LedgerBalance{TotalDebit: dec("10"), TotalCredit: dec("9"), Vouchers: 1, UnbalancedVouchers: 1}, nil
	}

	uc := usecase.NewIntegrityUseCase(vouchers, ledger, nil, zerolog.Nop())
	report, err := uc.VerifyPostedVouchers(context.Background(), "co-1", "auditor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.LedgerConsistent || report.OK() {
		t.Error("expected inconsistent ledger to be reported")
	}
}

func TestIntegrityUseCase_RepositoryErrorIsInternal(t *testing.T) {
	vouchers := mocks.NewMockVoucherRepository()
	vouchers.ListFunc = func(context.Context, domain.VoucherFilter) ([]*domain.Voucher, error) {
		return nil, errors.New("relation vouchers does not exist")
	}

	uc := usecase.NewIntegrityUseCase(vouchers, mocks.NewMockLedgerRepository(), nil, zerolog.Nop())
	_, err := uc.VerifyPostedVouchers(context.Background(), "co-1", "auditor")
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
