package posting

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/iho/erpledger/internal/domain"
)

// DecodePayload parses the JSON body of a voucher of type t and attaches h.
// Unknown fields are rejected.
func DecodePayload(t domain.VoucherType, h Header, raw []byte) (Payload, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: payload is required", domain.ErrInvalidVoucher)
	}

	switch t {
	case domain.VoucherTypePayment:
		var p PaymentPayload
		if err := decodeStrict(raw, &p); err != nil {
			return nil, err
		}
		p.Header = h
		return p, nil
	case domain.VoucherTypeReceipt:
		var p ReceiptPayload
		if err := decodeStrict(raw, &p); err != nil {
			return nil, err
		}
		p.Header = h
		return p, nil
	case domain.VoucherTypeJournalEntry:
		var p JournalPayload
		if err := decodeStrict(raw, &p); err != nil {
			return nil, err
		}
		p.Header = h
		return p, nil
	case domain.VoucherTypeOpeningBalance:
		var p OpeningBalancePayload
		if err := decodeStrict(raw, &p); err != nil {
			return nil, err
		}
		p.Header = h
		return p, nil
	case domain.VoucherTypeFXExchange:
		var p ExchangePayload
		if err := decodeStrict(raw, &p); err != nil {
			return nil, err
		}
		p.Header = h
		return p, nil
	case domain.VoucherTypeTransfer:
		var p TransferPayload
		if err := decodeStrict(raw, &p); err != nil {
			return nil, err
		}
		p.Header = h
		return p, nil
	default:
		return nil, domain.UnknownVoucherTypeError(string(t))
	}
}

// EncodePayload returns the type-specific body as a generic map for storage.
// The header is stored on the voucher itself.
func EncodePayload(p Payload) map[string]any {
	if p == nil {
		return nil
	}
	return domain.MarshalState(p)
}

func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed payload: %v", domain.ErrInvalidVoucher, err)
	}
	return nil
}
