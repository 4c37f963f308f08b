package posting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/erpledger/internal/domain"
)

// OpeningBalanceStrategy emits one line per account balance and absorbs
// per-line rounding drift on the last line, within PennyBalanceThreshold.
type OpeningBalanceStrategy struct{}

func (OpeningBalanceStrategy) Type() domain.VoucherType { return domain.VoucherTypeOpeningBalance }

func (OpeningBalanceStrategy) GenerateLines(payload Payload, _, baseCurrency string) ([]domain.LedgerLine, error) {
	p, ok := payload.(OpeningBalancePayload)
	if !ok {
		return nil, mismatch(domain.VoucherTypeOpeningBalance, payload)
	}
	if err := p.Header.Validate(baseCurrency); err != nil {
		return nil, err
	}
	if len(p.Lines) == 0 {
		return nil, fmt.Errorf("%w: at least one balance line is required", domain.ErrInvalidVoucher)
	}

	headerTotals := domain.LineTotals{Debit: decimal.Zero, Credit: decimal.Zero}
	lines := make([]domain.LedgerLine, 0, len(p.Lines))

	for i, ob := range p.Lines {
		idx := i + 1
		if err := requireAccount(idx, "account_id", ob.AccountID); err != nil {
			return nil, err
		}
		side, amount, err := openingSide(idx, ob)
		if err != nil {
			return nil, err
		}

		currency := lineCurrency(ob.Currency, p.Header)
		if err := domain.ValidateCurrency(currency); err != nil {
			return nil, lineError(idx, "currency", err)
		}
		rate, err := ResolveRate(currency, p.Header, baseCurrency, ob.Parity)
		if err != nil {
			return nil, lineError(idx, "parity", err)
		}

		line, err := domain.NewLedgerLine(domain.LineSpec{
			Index:     idx,
			AccountID: ob.AccountID,
			Side:      side,
			Amount:    amount,
			Currency:  currency,
			Rate:      rate,
			Notes:     ob.Notes,
		})
		if err != nil {
			return nil, lineError(idx, "amount", err)
		}
		lines = append(lines, line)

		equivalent := headerEquivalent(amount, currency, ob.Parity, p.Header, baseCurrency)
		if side == domain.SideDebit {
			headerTotals.Debit = headerTotals.Debit.Add(equivalent)
		} else {
			headerTotals.Credit = headerTotals.Credit.Add(equivalent)
		}
	}

	return pennyBalance(lines, headerTotals)
}

func openingSide(idx int, ob OpeningBalanceLine) (domain.Side, decimal.Decimal, error) {
	debit, credit := ob.DebitBalance, ob.CreditBalance
	switch {
	case debit.IsNegative() || credit.IsNegative():
		return "", decimal.Zero, lineError(idx, "balance", domain.ErrInvalidAmount)
	case debit.IsPositive() && credit.IsPositive():
		return "", decimal.Zero, domain.NewLineError(idx, "balance", "only one of debit_balance and credit_balance may be set")
	case debit.IsPositive():
		return domain.SideDebit, debit, checkAmount(idx, "debit_balance", debit)
	case credit.IsPositive():
		return domain.SideCredit, credit, checkAmount(idx, "credit_balance", credit)
	default:
		return "", decimal.Zero, domain.NewLineError(idx, "balance", "one of debit_balance and credit_balance is required")
	}
}

// headerEquivalent expresses a line amount in the header currency.
func headerEquivalent(amount decimal.Decimal, currency string, parity decimal.Decimal, h Header, baseCurrency string) decimal.Decimal {
	switch {
	case currency == domain.NormalizeCurrency(h.Currency):
		return amount
	case currency == domain.NormalizeCurrency(baseCurrency):
		return amount.DivRound(h.Rate(baseCurrency), domain.MoneyPrecision)
	default:
		return domain.Round(amount.Mul(parity))
	}
}

// pennyBalance makes the base totals equal exactly by correcting the last
// line, provided the header-currency totals balance and the base drift is at
// most PennyBalanceThreshold. The corrected line is a new value tagged with
// domain.PennyAdjustmentKey.
func pennyBalance(lines []domain.LedgerLine, headerTotals domain.LineTotals) ([]domain.LedgerLine, error) {
	if !headerTotals.Balanced() {
		return nil, &domain.BalanceError{
			Debit:  headerTotals.Debit,
			Credit: headerTotals.Credit,
			Detail: "header currency totals do not balance",
		}
	}

	base := domain.Totals(lines)
	diff := base.Difference()
	if diff.IsZero() {
		return lines, nil
	}
	if diff.Abs().GreaterThan(domain.PennyBalanceThreshold) {
		return nil, &domain.BalanceError{
			Debit:  base.Debit,
			Credit: base.Credit,
			Detail: fmt.Sprintf("rounding difference exceeds %s", domain.PennyBalanceThreshold.StringFixed(domain.MoneyPrecision)),
		}
	}

	last := lines[len(lines)-1]
	adjustment := diff
	if last.Side() == domain.SideDebit {
		adjustment = diff.Neg()
	}

	corrected, err := last.WithBaseAmount(last.BaseAmount().Add(adjustment))
	if err != nil {
		return nil, err
	}
	corrected = corrected.WithMetadata(domain.PennyAdjustmentKey, adjustment.StringFixed(domain.MoneyPrecision))

	out := make([]domain.LedgerLine, len(lines))
	copy(out, lines)
	out[len(out)-1] = corrected
	return out, nil
}
