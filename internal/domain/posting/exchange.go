package posting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/erpledger/internal/domain"
)

// ExchangeStrategy credits the source account in the header currency and
// debits the target account in the target currency.
type ExchangeStrategy struct{}

func (ExchangeStrategy) Type() domain.VoucherType { return domain.VoucherTypeFXExchange }

func (ExchangeStrategy) GenerateLines(payload Payload, _, baseCurrency string) ([]domain.LedgerLine, error) {
	p, ok := payload.(ExchangePayload)
	if !ok {
		return nil, mismatch(domain.VoucherTypeFXExchange, payload)
	}
	if err := p.Header.Validate(baseCurrency); err != nil {
		return nil, err
	}
	if p.FromAccountID == "" || p.ToAccountID == "" {
		return nil, fmt.Errorf("%w: from_account_id and to_account_id are required", domain.ErrInvalidVoucher)
	}
	if err := checkAmount(1, "from_amount", p.FromAmount); err != nil {
		return nil, err
	}
	if err := checkAmount(2, "to_amount", p.ToAmount); err != nil {
		return nil, err
	}

	fromCurrency := domain.NormalizeCurrency(p.Header.Currency)
	toCurrency := lineCurrency(p.ToCurrency, p.Header)
	if err := domain.ValidateCurrency(toCurrency); err != nil {
		return nil, lineError(2, "to_currency", err)
	}
	if toCurrency == fromCurrency {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidCurrencyPair, fromCurrency, toCurrency)
	}

	toRate, err := ResolveRate(toCurrency, p.Header, baseCurrency, p.ToParity)
	if err != nil {
		return nil, lineError(2, "to_parity", err)
	}

	from, err := domain.NewLedgerLine(domain.LineSpec{
		AccountID: p.FromAccountID,
		Side:      domain.SideCredit,
		Amount:    p.FromAmount,
		Currency:  fromCurrency,
		Rate:      p.Header.Rate(baseCurrency),
		Notes:     p.Notes,
	})
	if err != nil {
		return nil, lineError(1, "from_amount", err)
	}
	to, err := domain.NewLedgerLine(domain.LineSpec{
		AccountID: p.ToAccountID,
		Side:      domain.SideDebit,
		Amount:    p.ToAmount,
		Currency:  toCurrency,
		Rate:      toRate,
		Notes:     p.Notes,
	})
	if err != nil {
		return nil, lineError(2, "to_amount", err)
	}

	lines := []domain.LedgerLine{to, from}
	totals := domain.Totals(lines)
	if totals.Balanced() {
		return domain.Renumber(lines), nil
	}
	if p.DifferenceAccountID == "" {
		return nil, &domain.BalanceError{
			Debit:  totals.Debit,
			Credit: totals.Credit,
			Detail: "exchange difference requires difference_account_id",
		}
	}

	// A positive difference is a gain booked on the credit side.
	diff := totals.Difference()
	side := domain.SideCredit
	if diff.IsNegative() {
		side = domain.SideDebit
	}
	adjust, err := domain.NewLedgerLine(domain.LineSpec{
		AccountID: p.DifferenceAccountID,
		Side:      side,
		Amount:    diff.Abs(),
		Currency:  domain.NormalizeCurrency(baseCurrency),
		Rate:      decimal.NewFromInt(1),
		Notes:     "exchange difference",
	})
	if err != nil {
		return nil, lineError(3, "difference", err)
	}

	return domain.Renumber(append(lines, adjust)), nil
}

// TransferStrategy debits the target account and credits the source account
// with the same amount.
type TransferStrategy struct{}

func (TransferStrategy) Type() domain.VoucherType { return domain.VoucherTypeTransfer }

func (TransferStrategy) GenerateLines(payload Payload, _, baseCurrency string) ([]domain.LedgerLine, error) {
	p, ok := payload.(TransferPayload)
	if !ok {
		return nil, mismatch(domain.VoucherTypeTransfer, payload)
	}
	if err := p.Header.Validate(baseCurrency); err != nil {
		return nil, err
	}
	if p.FromAccountID == "" || p.ToAccountID == "" {
		return nil, fmt.Errorf("%w: from_account_id and to_account_id are required", domain.ErrInvalidVoucher)
	}
	if p.FromAccountID == p.ToAccountID {
		return nil, domain.ErrSameAccount
	}
	if err := checkAmount(1, "amount", p.Amount); err != nil {
		return nil, err
	}

	spec := domain.LineSpec{
		Amount:   p.Amount,
		Currency: domain.NormalizeCurrency(p.Header.Currency),
		Rate:     p.Header.Rate(baseCurrency),
		Notes:    p.Notes,
	}

	debitSpec := spec
	debitSpec.AccountID = p.ToAccountID
	debitSpec.Side = domain.SideDebit
	to, err := domain.NewLedgerLine(debitSpec)
	if err != nil {
		return nil, lineError(1, "amount", err)
	}

	creditSpec := spec
	creditSpec.AccountID = p.FromAccountID
	creditSpec.Side = domain.SideCredit
	from, err := domain.NewLedgerLine(creditSpec)
	if err != nil {
		return nil, lineError(1, "amount", err)
	}

	return domain.Renumber([]domain.LedgerLine{to, from}), nil
}
