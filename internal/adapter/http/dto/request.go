package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/domain/posting"
	"github.com/iho/erpledger/internal/usecase"
)

// DateLayout is the wire format of voucher dates.
const DateLayout = "2006-01-02"

// VoucherBody is shared by create and update requests. Payload holds the
// type-specific fields and is decoded strictly once Type is known.
type VoucherBody struct {
	Type         string          `json:"type"          validate:"required"`
	Date         string          `json:"date"          validate:"omitempty,datetime=2006-01-02"`
	Reference    string          `json:"reference"     validate:"max=64"`
	Description  string          `json:"description"   validate:"max=500"`
	Currency     string          `json:"currency"      validate:"required,len=3"`
	ExchangeRate decimal.Decimal `json:"exchange_rate" validate:"positive_decimal"`
	Payload      json.RawMessage `json:"payload"       validate:"required"`
}

func (b *VoucherBody) decode() (posting.Payload, time.Time, error) {
	t, err := domain.ParseVoucherType(b.Type)
	if err != nil {
		return nil, time.Time{}, err
	}

	date, err := ParseDate(b.Date)
	if err != nil {
		return nil, time.Time{}, err
	}

	payload, err := posting.DecodePayload(t, posting.Header{
		Currency:     domain.NormalizeCurrency(b.Currency),
		ExchangeRate: b.ExchangeRate,
	}, b.Payload)
	if err != nil {
		return nil, time.Time{}, err
	}
	return payload, date, nil
}

// CreateVoucherRequest represents a request to create a voucher.
type CreateVoucherRequest struct {
	VoucherBody
	Submit bool `json:"submit"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateVoucherRequest) ToUseCaseInput(companyID, userID string) (usecase.CreateVoucherInput, error) {
	payload, date, err := r.decode()
	if err != nil {
		return usecase.CreateVoucherInput{}, err
	}
	return usecase.CreateVoucherInput{
		CompanyID:   companyID,
		UserID:      userID,
		Date:        date,
		Reference:   r.Reference,
		Description: r.Description,
		Payload:     payload,
		Submit:      r.Submit,
	}, nil
}

// UpdateVoucherRequest replaces the content of a draft or pending voucher.
type UpdateVoucherRequest struct {
	VoucherBody
	Version int64 `json:"version" validate:"gte=1"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateVoucherRequest) ToUseCaseInput(companyID, userID, voucherID string) (usecase.UpdateVoucherInput, error) {
	payload, date, err := r.decode()
	if err != nil {
		return usecase.UpdateVoucherInput{}, err
	}
	return usecase.UpdateVoucherInput{
		CompanyID:       companyID,
		UserID:          userID,
		VoucherID:       voucherID,
		ExpectedVersion: r.Version,
		Date:            date,
		Reference:       r.Reference,
		Description:     r.Description,
		Payload:         payload,
	}, nil
}

// TransitionRequest is the optional body of submit, approve, lock and cancel.
type TransitionRequest struct {
	Version int64  `json:"version" validate:"gte=0"`
	Reason  string `json:"reason"  validate:"max=500"`
}

// ToUseCaseInput converts to use case input.
func (r *TransitionRequest) ToUseCaseInput(companyID, userID, voucherID string) usecase.TransitionInput {
	return usecase.TransitionInput{
		CompanyID:       companyID,
		UserID:          userID,
		VoucherID:       voucherID,
		ExpectedVersion: r.Version,
		Reason:          r.Reason,
	}
}

// ReverseVoucherRequest represents a request to reverse a posted voucher.
type ReverseVoucherRequest struct {
	Date   string `json:"date"   validate:"omitempty,datetime=2006-01-02"`
	Reason string `json:"reason" validate:"max=500"`
}

// ToUseCaseInput converts to use case input.
func (r *ReverseVoucherRequest) ToUseCaseInput(companyID, userID, voucherID string) (usecase.ReverseVoucherInput, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return usecase.ReverseVoucherInput{}, err
	}
	return usecase.ReverseVoucherInput{
		CompanyID: companyID,
		UserID:    userID,
		VoucherID: voucherID,
		Date:      date,
		Reason:    r.Reason,
	}, nil
}

// ParseDate parses a YYYY-MM-DD date in UTC. An empty string is the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be formatted as %s", domain.ErrInvalidVoucher, s, DateLayout)
	}
	return t, nil
}
