// Package posting turns voucher payloads into balanced ledger lines. Every
// strategy is a pure function of its payload and the company base currency.
package posting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/erpledger/internal/domain"
)

// Strategy generates the ledger lines of one voucher type.
type Strategy interface {
	Type() domain.VoucherType
	GenerateLines(payload Payload, companyID, baseCurrency string) ([]domain.LedgerLine, error)
}

// StrategyFor returns the strategy for t.
func StrategyFor(t domain.VoucherType) (Strategy, error) {
	switch t {
	case domain.VoucherTypePayment:
		return PaymentStrategy{}, nil
	case domain.VoucherTypeReceipt:
		return ReceiptStrategy{}, nil
	case domain.VoucherTypeJournalEntry:
		return JournalStrategy{}, nil
	case domain.VoucherTypeOpeningBalance:
		return OpeningBalanceStrategy{}, nil
	case domain.VoucherTypeFXExchange:
		return ExchangeStrategy{}, nil
	case domain.VoucherTypeTransfer:
		return TransferStrategy{}, nil
	default:
		return nil, domain.UnknownVoucherTypeError(string(t))
	}
}

// Generate looks up the strategy for the payload's type and runs it.
func Generate(payload Payload, companyID, baseCurrency string) ([]domain.LedgerLine, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: payload is required", domain.ErrInvalidVoucher)
	}
	s, err := StrategyFor(payload.VoucherType())
	if err != nil {
		return nil, err
	}
	return s.GenerateLines(payload, companyID, baseCurrency)
}

func mismatch(want domain.VoucherType, got Payload) error {
	if got == nil {
		return fmt.Errorf("%w: %s strategy got no payload", domain.ErrPayloadMismatch, want)
	}
	return fmt.Errorf("%w: %s strategy got %s payload", domain.ErrPayloadMismatch, want, got.VoucherType())
}

func lineError(index int, field string, err error) error {
	return &domain.LineError{Index: index, Field: field, Err: err}
}

func requireAccount(index int, field, accountID string) error {
	if accountID == "" {
		return domain.NewLineError(index, field, "account is required")
	}
	return nil
}

func checkAmount(index int, field string, amount decimal.Decimal) error {
	if err := domain.ValidateAmount(amount); err != nil {
		return lineError(index, field, err)
	}
	return nil
}
