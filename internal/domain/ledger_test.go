package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLedgerBalance_Consistent(t *testing.T) {
	d := decimal.RequireFromString

	tests := []struct {
		name    string
		balance LedgerBalance
		want    bool
	}{
		{"empty ledger", LedgerBalance{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}, true},
		{"exact", LedgerBalance{TotalDebit: d("250"), TotalCredit: d("250"), Vouchers: 2}, true},
		{"one accepted cent", LedgerBalance{TotalDebit: d("100.00"), TotalCredit: d("99.99"), Vouchers: 1}, true},
		{"cents of two vouchers", LedgerBalance{TotalDebit: d("200.00"), TotalCredit: d("200.02"), Vouchers: 2}, true},
		{"two cents on one voucher", LedgerBalance{TotalDebit: d("100.00"), TotalCredit: d("99.98"), Vouchers: 1}, false},
		{"unbalanced voucher hidden by totals", LedgerBalance{TotalDebit: d("50"), TotalCredit: d("50"), Vouchers: 2, UnbalancedVouchers: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.balance.Consistent(); got != tt.want {
				t.Errorf("Consistent() = %v, want %v (difference %s)", got, tt.want, tt.balance.Difference())
			}
		})
	}
}
