package posting

import (
	"fmt"

	"github.com/iho/erpledger/internal/domain"
)

// JournalStrategy converts free-form lines and rejects any imbalance. It
// never corrects the lines it was given.
type JournalStrategy struct{}

func (JournalStrategy) Type() domain.VoucherType { return domain.VoucherTypeJournalEntry }

func (JournalStrategy) GenerateLines(payload Payload, _, baseCurrency string) ([]domain.LedgerLine, error) {
	p, ok := payload.(JournalPayload)
	if !ok {
		return nil, mismatch(domain.VoucherTypeJournalEntry, payload)
	}
	if err := p.Header.Validate(baseCurrency); err != nil {
		return nil, err
	}
	if len(p.Lines) < 2 {
		return nil, fmt.Errorf("%w: a journal entry needs at least two lines", domain.ErrInvalidVoucher)
	}

	lines := make([]domain.LedgerLine, 0, len(p.Lines))
	for i, jl := range p.Lines {
		idx := i + 1
		if err := requireAccount(idx, "account_id", jl.AccountID); err != nil {
			return nil, err
		}
		side, err := domain.ParseSide(string(jl.Side))
		if err != nil {
			return nil, lineError(idx, "side", err)
		}
		if err := checkAmount(idx, "amount", jl.Amount); err != nil {
			return nil, err
		}

		currency := lineCurrency(jl.Currency, p.Header)
		if err := domain.ValidateCurrency(currency); err != nil {
			return nil, lineError(idx, "currency", err)
		}
		rate, err := ResolveRate(currency, p.Header, baseCurrency, jl.Parity)
		if err != nil {
			return nil, lineError(idx, "parity", err)
		}

		line, err := domain.NewLedgerLine(domain.LineSpec{
			Index:        idx,
			AccountID:    jl.AccountID,
			Side:         side,
			Amount:       jl.Amount,
			Currency:     currency,
			Rate:         rate,
			Notes:        jl.Notes,
			CostCenterID: jl.CostCenterID,
		})
		if err != nil {
			return nil, lineError(idx, "amount", err)
		}
		lines = append(lines, line)
	}

	if err := domain.CheckBalanced(lines); err != nil {
		return nil, err
	}
	return lines, nil
}
