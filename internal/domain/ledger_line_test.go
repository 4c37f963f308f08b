package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewLedgerLine(t *testing.T) {
	tests := []struct {
		name        string
		spec        LineSpec
		wantBase    string
		expectError error
	}{
		{
			name:     "base currency line keeps amount",
			spec:     LineSpec{AccountID: "acc-1", Side: SideDebit, Amount: dec("150"), Currency: "EUR", Rate: decimal.NewFromInt(1)},
			wantBase: "150",
		},
		{
			name:     "converted amount is rounded half up",
			spec:     LineSpec{AccountID: "acc-1", Side: SideCredit, Amount: dec("10.01"), Currency: "USD", Rate: dec("0.5")},
			wantBase: "5.01",
		},
		{
			name:        "zero amount",
			spec:        LineSpec{AccountID: "acc-1", Side: SideDebit, Amount: decimal.Zero, Currency: "USD", Rate: decimal.NewFromInt(1)},
			expectError: ErrInvalidAmount,
		},
		{
			name:        "negative rate",
			spec:        LineSpec{AccountID: "acc-1", Side: SideDebit, Amount: dec("1"), Currency: "USD", Rate: dec("-1")},
			expectError: ErrInvalidRate,
		},
		{
			name:        "invalid side",
			spec:        LineSpec{AccountID: "acc-1", Side: "LEFT", Amount: dec("1"), Currency: "USD", Rate: dec("1")},
			expectError: ErrInvalidSide,
		},
		{
			name:        "missing account",
			spec:        LineSpec{Side: SideDebit, Amount: dec("1"), Currency: "USD", Rate: dec("1")},
			expectError: ErrInvalidVoucher,
		},
		{
			name:        "base rounds to zero",
			spec:        LineSpec{AccountID: "acc-1", Side: SideDebit, Amount: dec("0.01"), Currency: "JPY", Rate: dec("0.0067")},
			expectError: ErrNonPositiveBase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := NewLedgerLine(tt.spec)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected error %v, got %v", tt.expectError, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !line.BaseAmount().Equal(dec(tt.wantBase)) {
				t.Errorf("expected base %s, got %s", tt.wantBase, line.BaseAmount())
			}
		})
	}
}

func TestLedgerLine_WithBaseAmountReturnsNewLine(t *testing.T) {
	original, err := NewLedgerLine(LineSpec{AccountID: "acc-1", Side: SideCredit, Amount: dec("1999.98"), Currency: "EUR", Rate: dec("0.5")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	adjusted, err := original.WithBaseAmount(dec("1000.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !original.BaseAmount().Equal(dec("999.99")) {
		t.Errorf("original line was mutated: base %s", original.BaseAmount())
	}

	if !adjusted.BaseAmount().Equal(dec("1000")) {
		t.Errorf("expected adjusted base 1000, got %s", adjusted.BaseAmount())
	}

	if !adjusted.Rate().Equal(dec("0.500005")) {
		t.Errorf("expected effective rate 0.500005, got %s", adjusted.Rate())
	}

	if _, err := original.WithBaseAmount(decimal.Zero); !errors.Is(err, ErrNonPositiveBase) {
		t.Errorf("expected ErrNonPositiveBase, got %v", err)
	}
}

func TestLedgerLine_MetadataIsCopied(t *testing.T) {
	line, err := NewLedgerLine(LineSpec{
		AccountID: "acc-1", Side: SideDebit, Amount: dec("1"), Currency: "USD", Rate: dec("1"),
		Metadata: map[string]string{"k": "v"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	md := line.Metadata()
	md["k"] = "changed"

	if line.Metadata()["k"] != "v" {
		t.Error("expected metadata to be isolated from callers")
	}

	tagged := line.WithMetadata("penny_adjustment", "0.01")
	if _, ok := line.Metadata()["penny_adjustment"]; ok {
		t.Error("WithMetadata mutated the receiver")
	}
	if tagged.Metadata()["penny_adjustment"] != "0.01" {
		t.Error("expected tag on the new line")
	}
}

func TestLedgerLine_ReversedDropsPennyAdjustment(t *testing.T) {
	line, err := NewLedgerLine(LineSpec{
		AccountID: "acc-1", Side: SideCredit, Amount: dec("10"), Currency: "USD", Rate: dec("1"),
		Metadata: map[string]string{"note": "opening"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line = line.WithMetadata(PennyAdjustmentKey, "0.01")

	reversed := line.Reversed()

	if reversed.Side() != SideDebit {
		t.Errorf("expected DEBIT, got %s", reversed.Side())
	}
	if _, ok := reversed.Metadata()[PennyAdjustmentKey]; ok {
		t.Error("expected penny adjustment tag to be dropped on the reversed line")
	}
	if reversed.Metadata()["note"] != "opening" {
		t.Error("expected other metadata to be kept")
	}
	if line.Metadata()[PennyAdjustmentKey] != "0.01" {
		t.Error("Reversed mutated the receiver")
	}
}

func TestCheckBalanced(t *testing.T) {
	debit, _ := NewLedgerLine(LineSpec{AccountID: "a", Side: SideDebit, Amount: dec("100"), Currency: "USD", Rate: dec("1")})
	credit, _ := NewLedgerLine(LineSpec{AccountID: "b", Side: SideCredit, Amount: dec("100.01"), Currency: "USD", Rate: dec("1")})
	bigCredit, _ := NewLedgerLine(LineSpec{AccountID: "b", Side: SideCredit, Amount: dec("100.02"), Currency: "USD", Rate: dec("1")})

	if err := CheckBalanced([]LedgerLine{debit, credit}); err != nil {
		t.Errorf("expected one cent difference to pass, got %v", err)
	}

	err := CheckBalanced([]LedgerLine{debit, bigCredit})
	var balErr *BalanceError
	if !errors.As(err, &balErr) {
		t.Fatalf("expected BalanceError, got %v", err)
	}
	if !balErr.Difference().Equal(dec("-0.02")) {
		t.Errorf("expected difference -0.02, got %s", balErr.Difference())
	}
	if !errors.Is(err, ErrUnbalancedVoucher) {
		t.Error("expected BalanceError to unwrap to ErrUnbalancedVoucher")
	}
}

func TestRenumber(t *testing.T) {
	a, _ := NewLedgerLine(LineSpec{Index: 7, AccountID: "a", Side: SideDebit, Amount: dec("1"), Currency: "USD", Rate: dec("1")})
	b, _ := NewLedgerLine(LineSpec{Index: 3, AccountID: "b", Side: SideCredit, Amount: dec("1"), Currency: "USD", Rate: dec("1")})

	lines := Renumber([]LedgerLine{a, b})
	if lines[0].Index() != 1 || lines[1].Index() != 2 {
		t.Errorf("expected indexes 1,2 got %d,%d", lines[0].Index(), lines[1].Index())
	}
	if a.Index() != 7 {
		t.Error("Renumber mutated the input line")
	}
}
