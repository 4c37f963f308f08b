package dto

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/domain/posting"
)

func paymentBody() VoucherBody {
	return VoucherBody{
		Type:         "payment",
		Date:         "2024-03-10",
		Reference:    "INV-7",
		Currency:     "usd",
		ExchangeRate: decimal.RequireFromString("1"),
		Payload: json.RawMessage(`{
			"pay_from_account_id": "bank",
			"allocations": [{"account_id": "supplier", "amount": "100.00"}]
		}`),
	}
}

func TestCreateVoucherRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateVoucherRequest{VoucherBody: paymentBody(), Submit: true}
	require.NoError(t, Validate(req))

	input, err := req.ToUseCaseInput("co-1", "u-1")
	require.NoError(t, err)

	assert.Equal(t, "co-1", input.CompanyID)
	assert.Equal(t, "u-1", input.UserID)
	assert.True(t, input.Submit)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), input.Date)

	payload, ok := input.Payload.(posting.PaymentPayload)
	require.True(t, ok, "expected PaymentPayload, got %T", input.Payload)
	assert.Equal(t, "USD", payload.Currency)
	assert.Equal(t, "bank", payload.PayFromAccountID)
	require.Len(t, payload.Allocations, 1)
	assert.True(t, payload.Allocations[0].Amount.Equal(decimal.RequireFromString("100")))
}

func TestCreateVoucherRequest_DecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*VoucherBody)
		kind   error
	}{
		{"unknown type", func(b *VoucherBody) { b.Type = "invoice" }, domain.ErrUnknownVoucherType},
		{"bad date", func(b *VoucherBody) { b.Date = "10/03/2024" }, domain.ErrInvalidVoucher},
		{"unknown payload field", func(b *VoucherBody) { b.Payload = json.RawMessage(`{"pay_to":"x"}`) }, domain.ErrInvalidVoucher},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := paymentBody()
			tt.mutate(&body)
			req := &CreateVoucherRequest{VoucherBody: body}

			_, err := req.ToUseCaseInput("co-1", "u-1")
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	req := &CreateVoucherRequest{VoucherBody: VoucherBody{Currency: "US"}}

	err := Validate(req)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)

	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "currency")
	assert.Contains(t, fields, "exchange_rate")
	assert.Contains(t, fields, "payload")
	assert.Equal(t, "must be exactly 3 characters", fields["currency"])
}

func TestUpdateVoucherRequest_RequiresVersion(t *testing.T) {
	req := &UpdateVoucherRequest{VoucherBody: paymentBody()}
	assert.Error(t, Validate(req))

	req.Version = 3
	require.NoError(t, Validate(req))

	input, err := req.ToUseCaseInput("co-1", "u-1", "v-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), input.ExpectedVersion)
	assert.Equal(t, "v-1", input.VoucherID)
}

func TestReverseVoucherRequest_ToUseCaseInput(t *testing.T) {
	req := &ReverseVoucherRequest{Reason: "duplicate"}
	input, err := req.ToUseCaseInput("co-1", "u-1", "v-1")
	require.NoError(t, err)
	assert.True(t, input.Date.IsZero())
	assert.Equal(t, "duplicate", input.Reason)

	req.Date = "2024-02-30"
	_, err = req.ToUseCaseInput("co-1", "u-1", "v-1")
	assert.ErrorIs(t, err, domain.ErrInvalidVoucher)
}

func TestTransitionRequest_ToUseCaseInput(t *testing.T) {
	req := &TransitionRequest{Version: 2, Reason: "wrong supplier"}
	got := req.ToUseCaseInput("co-1", "u-1", "v-1")

	assert.Equal(t, int64(2), got.ExpectedVersion)
	assert.Equal(t, "wrong supplier", got.Reason)
	assert.Equal(t, "v-1", got.VoucherID)
}
