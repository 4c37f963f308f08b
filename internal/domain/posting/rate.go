package posting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/erpledger/internal/domain"
)

// Rate returns the header rate to baseCurrency. A header already in the base
// currency always converts at exactly 1.
func (h Header) Rate(baseCurrency string) decimal.Decimal {
	if domain.NormalizeCurrency(h.Currency) == domain.NormalizeCurrency(baseCurrency) {
		return decimal.NewFromInt(1)
	}
	return h.ExchangeRate
}

// Validate checks the header against the company base currency.
func (h Header) Validate(baseCurrency string) error {
	if err := domain.ValidateCurrency(h.Currency); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	if !h.Rate(baseCurrency).IsPositive() {
		return fmt.Errorf("header: %w", domain.ErrInvalidRate)
	}
	return nil
}

// ResolveRate converts a line currency to base through the header currency:
//
//	line == base    -> 1
//	line == header  -> header rate
//	otherwise       -> header rate * parity
//
// An empty line currency means the header currency.
func ResolveRate(lineCurrency string, h Header, baseCurrency string, parity decimal.Decimal) (decimal.Decimal, error) {
	line := domain.NormalizeCurrency(lineCurrency)
	header := domain.NormalizeCurrency(h.Currency)
	base := domain.NormalizeCurrency(baseCurrency)
	if line == "" {
		line = header
	}

	switch line {
	case base:
		return decimal.NewFromInt(1), nil
	case header:
		rate := h.Rate(base)
		if !rate.IsPositive() {
			return decimal.Zero, domain.ErrInvalidRate
		}
		return rate, nil
	}

	if !parity.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s line needs a positive parity against %s", domain.ErrInvalidRate, line, header)
	}
	return domain.RoundRate(h.Rate(base).Mul(parity)), nil
}

// lineCurrency returns the normalized currency of a line, defaulting to the header.
func lineCurrency(currency string, h Header) string {
	if c := domain.NormalizeCurrency(currency); c != "" {
		return c
	}
	return domain.NormalizeCurrency(h.Currency)
}
