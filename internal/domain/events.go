package domain

import "time"

// Event types
const (
	EventTypeVoucherCreated   = "voucher.created"
	EventTypeVoucherApproved  = "voucher.approved"
	EventTypeVoucherLocked    = "voucher.locked"
	EventTypeVoucherCancelled = "voucher.cancelled"
	EventTypeVoucherReversed  = "voucher.reversed"
)

// Aggregate types
const (
	AggregateTypeVoucher = "voucher"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	CompanyID     string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// VoucherEvent is the payload of every voucher lifecycle event.
type VoucherEvent struct {
	VoucherID       string `json:"voucher_id"`
	CompanyID       string `json:"company_id"`
	VoucherNumber   string `json:"voucher_number"`
	VoucherType     string `json:"voucher_type"`
	Status          string `json:"status"`
	BaseCurrency    string `json:"base_currency"`
	TotalDebitBase  string `json:"total_debit_base"`
	TotalCreditBase string `json:"total_credit_base"`
	ActorID         string `json:"actor_id"`
	ReversalOf      string `json:"reversal_of,omitempty"`
	EventAt         string `json:"event_at"`
}

// NewVoucherEvent builds the event payload for v.
func NewVoucherEvent(v *Voucher, actorID string, at time.Time) VoucherEvent {
	ev := VoucherEvent{
		VoucherID:       v.ID,
		CompanyID:       v.CompanyID,
		VoucherNumber:   v.Number,
		VoucherType:     string(v.Type),
		Status:          string(v.Status),
		BaseCurrency:    v.BaseCurrency,
		TotalDebitBase:  v.TotalDebitBase.StringFixed(MoneyPrecision),
		TotalCreditBase: v.TotalCreditBase.StringFixed(MoneyPrecision),
		ActorID:         actorID,
		EventAt:         at.UTC().Format(time.RFC3339Nano),
	}
	if v.ReversalOf != nil {
		ev.ReversalOf = *v.ReversalOf
	}
	return ev
}

// Map converts the payload to the generic outbox representation.
func (e VoucherEvent) Map() map[string]any {
	return MarshalState(e)
}
