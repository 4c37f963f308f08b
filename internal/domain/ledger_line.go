package domain

import (
	"fmt"
	"maps"
	"strings"

	"github.com/shopspring/decimal"
)

// Side is the debit or credit side of a ledger line.
type Side string

const (
	SideDebit  Side = "DEBIT"
	SideCredit Side = "CREDIT"
)

// IsValid reports whether s is DEBIT or CREDIT.
func (s Side) IsValid() bool {
	return s == SideDebit || s == SideCredit
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideDebit {
		return SideCredit
	}
	return SideDebit
}

// ParseSide parses a side case-insensitively.
func ParseSide(s string) (Side, error) {
	side := Side(strings.ToUpper(strings.TrimSpace(s)))
	if !side.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
	return side, nil
}

// LineSpec carries the inputs of a ledger line before conversion.
type LineSpec struct {
	Index        int
	AccountID    string
	Side         Side
	Amount       decimal.Decimal
	Currency     string
	Rate         decimal.Decimal
	Notes        string
	CostCenterID string
	Metadata     map[string]string
}

// LedgerLine is the normalized unit of posting. It is immutable: all
// "modifying" methods return a new value.
type LedgerLine struct {
	index        int
	accountID    string
	side         Side
	amount       decimal.Decimal
	currency     string
	rate         decimal.Decimal
	baseAmount   decimal.Decimal
	notes        string
	costCenterID string
	metadata     map[string]string
}

// NewLedgerLine builds a line whose base amount is Round(amount * rate).
func NewLedgerLine(spec LineSpec) (LedgerLine, error) {
	if err := validateSpec(spec); err != nil {
		return LedgerLine{}, err
	}
	return buildLine(spec, Round(spec.Amount.Mul(spec.Rate)))
}

// NewLedgerLineWithBase builds a line with an explicitly supplied base amount.
// Used where the base must equal a sum of already-rounded amounts.
func NewLedgerLineWithBase(spec LineSpec, base decimal.Decimal) (LedgerLine, error) {
	if err := validateSpec(spec); err != nil {
		return LedgerLine{}, err
	}
	return buildLine(spec, Round(base))
}

// RestoreLedgerLine rehydrates a persisted line without recomputing its base amount.
func RestoreLedgerLine(spec LineSpec, base decimal.Decimal) LedgerLine {
	return LedgerLine{
		index:        spec.Index,
		accountID:    spec.AccountID,
		side:         spec.Side,
		amount:       spec.Amount,
		currency:     spec.Currency,
		rate:         spec.Rate,
		baseAmount:   base,
		notes:        spec.Notes,
		costCenterID: spec.CostCenterID,
		metadata:     maps.Clone(spec.Metadata),
	}
}

func validateSpec(spec LineSpec) error {
	if strings.TrimSpace(spec.AccountID) == "" {
		return fmt.Errorf("%w: account is required", ErrInvalidVoucher)
	}
	if !spec.Side.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSide, spec.Side)
	}
	if !spec.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !spec.Rate.IsPositive() {
		return ErrInvalidRate
	}
	if spec.Currency == "" {
		return fmt.Errorf("%w: currency is required", ErrInvalidVoucher)
	}
	return nil
}

func buildLine(spec LineSpec, base decimal.Decimal) (LedgerLine, error) {
	if !base.IsPositive() {
		return LedgerLine{}, fmt.Errorf("%w: %s %s at rate %s gives %s",
			ErrNonPositiveBase, spec.Amount, spec.Currency, spec.Rate, base.StringFixed(MoneyPrecision))
	}
	return RestoreLedgerLine(spec, base), nil
}

func (l LedgerLine) Index() int                  { return l.index }
func (l LedgerLine) AccountID() string           { return l.accountID }
func (l LedgerLine) Side() Side                  { return l.side }
func (l LedgerLine) Amount() decimal.Decimal     { return l.amount }
func (l LedgerLine) Currency() string            { return l.currency }
func (l LedgerLine) Rate() decimal.Decimal       { return l.rate }
func (l LedgerLine) BaseAmount() decimal.Decimal { return l.baseAmount }
func (l LedgerLine) Notes() string               { return l.notes }
func (l LedgerLine) CostCenterID() string        { return l.costCenterID }

// Metadata returns a copy of the line annotations.
func (l LedgerLine) Metadata() map[string]string {
	return maps.Clone(l.metadata)
}

// Spec returns the inputs the line was built from, including its current rate.
func (l LedgerLine) Spec() LineSpec {
	return LineSpec{
		Index:        l.index,
		AccountID:    l.accountID,
		Side:         l.side,
		Amount:       l.amount,
		Currency:     l.currency,
		Rate:         l.rate,
		Notes:        l.notes,
		CostCenterID: l.costCenterID,
		Metadata:     maps.Clone(l.metadata),
	}
}

// WithIndex returns a copy of l at position index.
func (l LedgerLine) WithIndex(index int) LedgerLine {
	out := l
	out.index = index
	out.metadata = maps.Clone(l.metadata)
	return out
}

// WithBaseAmount returns a copy of l carrying base, with the effective rate
// recomputed from it.
func (l LedgerLine) WithBaseAmount(base decimal.Decimal) (LedgerLine, error) {
	base = Round(base)
	if !base.IsPositive() {
		return LedgerLine{}, fmt.Errorf("%w: adjusted base %s", ErrNonPositiveBase, base.StringFixed(MoneyPrecision))
	}
	out := l
	out.baseAmount = base
	out.rate = RoundRate(base.Div(l.amount))
	out.metadata = maps.Clone(l.metadata)
	return out, nil
}

// WithMetadata returns a copy of l with key set to value.
func (l LedgerLine) WithMetadata(key, value string) LedgerLine {
	out := l
	out.metadata = maps.Clone(l.metadata)
	if out.metadata == nil {
		out.metadata = make(map[string]string, 1)
	}
	out.metadata[key] = value
	return out
}

// PennyAdjustmentKey is the metadata key set on a line corrected by penny balancing.
const PennyAdjustmentKey = "penny_adjustment"

// Reversed returns a copy of l on the opposite side. The mirrored line is not
// itself a penny correction, so PennyAdjustmentKey is dropped.
func (l LedgerLine) Reversed() LedgerLine {
	out := l
	out.side = l.side.Opposite()
	out.metadata = maps.Clone(l.metadata)
	delete(out.metadata, PennyAdjustmentKey)
	return out
}

// LineTotals are the base-currency sums of a set of lines.
type LineTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Difference is debit minus credit.
func (t LineTotals) Difference() decimal.Decimal {
	return t.Debit.Sub(t.Credit)
}

// Balanced reports whether the totals agree within BalanceTolerance.
func (t LineTotals) Balanced() bool {
	return WithinTolerance(t.Debit, t.Credit)
}

// Totals sums base amounts per side.
func Totals(lines []LedgerLine) LineTotals {
	t := LineTotals{Debit: decimal.Zero, Credit: decimal.Zero}
	for _, l := range lines {
		if l.side == SideDebit {
			t.Debit = t.Debit.Add(l.baseAmount)
		} else {
			t.Credit = t.Credit.Add(l.baseAmount)
		}
	}
	return t
}

// CheckBalanced returns a *BalanceError when the lines do not balance.
func CheckBalanced(lines []LedgerLine) error {
	t := Totals(lines)
	if !t.Balanced() {
		return &BalanceError{Debit: t.Debit, Credit: t.Credit}
	}
	return nil
}

// Renumber returns lines with indexes 1..n in slice order.
func Renumber(lines []LedgerLine) []LedgerLine {
	out := make([]LedgerLine, len(lines))
	for i, l := range lines {
		out[i] = l.WithIndex(i + 1)
	}
	return out
}
