package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for compliance and debugging
type AuditLog struct {
	ID           string
	CompanyID    string
	UserID       string // Who performed the action
	Action       string // What action (voucher.approve, voucher.cancel, etc.)
	ResourceType string // Type of resource (voucher)
	ResourceID   string // ID of the resource
	RequestID    string // Request ID for tracing
	BeforeState  JSON   // State before the action
	AfterState   JSON   // State after the action
	Status       string // success, failure
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionVoucherCreate  AuditAction = "voucher.create"
	AuditActionVoucherUpdate  AuditAction = "voucher.update"
	AuditActionVoucherSubmit  AuditAction = "voucher.submit"
	AuditActionVoucherApprove AuditAction = "voucher.approve"
	AuditActionVoucherLock    AuditAction = "voucher.lock"
	AuditActionVoucherCancel  AuditAction = "voucher.cancel"
	AuditActionVoucherReverse AuditAction = "voucher.reverse"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// VoucherState is the audit snapshot of a voucher header.
func VoucherState(v *Voucher) JSON {
	if v == nil {
		return nil
	}
	return JSON{
		"status":            string(v.Status),
		"version":           v.Version,
		"type":              string(v.Type),
		"currency":          v.Currency,
		"exchange_rate":     v.ExchangeRate.String(),
		"total_debit_base":  v.TotalDebitBase.StringFixed(MoneyPrecision),
		"total_credit_base": v.TotalCreditBase.StringFixed(MoneyPrecision),
		"lines":             len(v.Lines),
	}
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	CompanyID    string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
