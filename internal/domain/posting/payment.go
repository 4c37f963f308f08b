package posting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/erpledger/internal/domain"
)

// PaymentStrategy debits every allocation and credits the source account
// with the sum of the already rounded debit base amounts.
type PaymentStrategy struct{}

func (PaymentStrategy) Type() domain.VoucherType { return domain.VoucherTypePayment }

func (PaymentStrategy) GenerateLines(payload Payload, _, baseCurrency string) ([]domain.LedgerLine, error) {
	p, ok := payload.(PaymentPayload)
	if !ok {
		return nil, mismatch(domain.VoucherTypePayment, payload)
	}
	if p.PayFromAccountID == "" {
		return nil, fmt.Errorf("%w: pay_from_account_id is required", domain.ErrInvalidVoucher)
	}
	return fanOut(p.Header, baseCurrency, p.Allocations, p.PayFromAccountID, domain.SideDebit, p.Notes)
}

// ReceiptStrategy credits every allocation and debits the destination account
// with the sum of the already rounded credit base amounts.
type ReceiptStrategy struct{}

func (ReceiptStrategy) Type() domain.VoucherType { return domain.VoucherTypeReceipt }

func (ReceiptStrategy) GenerateLines(payload Payload, _, baseCurrency string) ([]domain.LedgerLine, error) {
	p, ok := payload.(ReceiptPayload)
	if !ok {
		return nil, mismatch(domain.VoucherTypeReceipt, payload)
	}
	if p.DepositToAccountID == "" {
		return nil, fmt.Errorf("%w: deposit_to_account_id is required", domain.ErrInvalidVoucher)
	}
	return fanOut(p.Header, baseCurrency, p.Allocations, p.DepositToAccountID, domain.SideCredit, p.Notes)
}

// fanOut builds one allocationSide line per allocation followed by a single
// counter line on counterAccountID.
func fanOut(h Header, baseCurrency string, allocations []Allocation, counterAccountID string, allocationSide domain.Side, notes string) ([]domain.LedgerLine, error) {
	if err := h.Validate(baseCurrency); err != nil {
		return nil, err
	}
	if len(allocations) == 0 {
		return nil, fmt.Errorf("%w: at least one allocation is required", domain.ErrInvalidVoucher)
	}

	currency := domain.NormalizeCurrency(h.Currency)
	rate := h.Rate(baseCurrency)

	lines := make([]domain.LedgerLine, 0, len(allocations)+1)
	totalAmount := decimal.Zero
	totalBase := decimal.Zero

	for i, a := range allocations {
		idx := i + 1
		if err := requireAccount(idx, "account_id", a.AccountID); err != nil {
			return nil, err
		}
		if err := checkAmount(idx, "amount", a.Amount); err != nil {
			return nil, err
		}

		line, err := domain.NewLedgerLine(domain.LineSpec{
			AccountID:    a.AccountID,
			Side:         allocationSide,
			Amount:       a.Amount,
			Currency:     currency,
			Rate:         rate,
			Notes:        a.Notes,
			CostCenterID: a.CostCenterID,
		})
		if err != nil {
			return nil, lineError(idx, "amount", err)
		}

		lines = append(lines, line)
		totalAmount = totalAmount.Add(a.Amount)
		totalBase = totalBase.Add(line.BaseAmount())
	}

	counter, err := domain.NewLedgerLineWithBase(domain.LineSpec{
		AccountID: counterAccountID,
		Side:      allocationSide.Opposite(),
		Amount:    totalAmount,
		Currency:  currency,
		Rate:      rate,
		Notes:     notes,
	}, totalBase)
	if err != nil {
		return nil, err
	}

	return domain.Renumber(append(lines, counter)), nil
}
