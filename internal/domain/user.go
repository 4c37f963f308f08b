package domain

import (
	"errors"
	"slices"
)

// User is the authenticated caller as seen by the engine.
type User struct {
	ID         string
	Email      string
	Role       Role
	CompanyIDs []string
}

// CanAccessCompany reports whether the user is scoped to companyID. An empty
// company list means the user is not tenant-scoped.
func (u *User) CanAccessCompany(companyID string) bool {
	return len(u.CompanyIDs) == 0 || slices.Contains(u.CompanyIDs, companyID)
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin has full access to all operations
	RoleAdmin Role = "admin"

	// RoleApprover can approve, lock and cancel vouchers prepared by others
	RoleApprover Role = "approver"

	// RoleAccountant can prepare vouchers and view reports
	RoleAccountant Role = "accountant"

	// RoleViewer can only view resources, no mutations
	RoleViewer Role = "viewer"
)

// Permission is a code checked before an operation runs.
type Permission string

const (
	PermVoucherCreate  Permission = "vouchers.create"
	PermVoucherSubmit  Permission = "vouchers.submit"
	PermVoucherApprove Permission = "vouchers.approve"
	PermVoucherLock    Permission = "vouchers.lock"
	PermVoucherCancel  Permission = "vouchers.cancel"
	PermVoucherReverse Permission = "vouchers.reverse"
	PermVoucherView    Permission = "vouchers.view"
	PermReportView     Permission = "reports.view"
	PermAccountView    Permission = "accounts.view"
)

var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermVoucherCreate, PermVoucherSubmit, PermVoucherApprove, PermVoucherLock,
		PermVoucherCancel, PermVoucherReverse, PermVoucherView, PermReportView, PermAccountView,
	},
	RoleApprover: {
		PermVoucherSubmit, PermVoucherApprove, PermVoucherLock, PermVoucherCancel,
		PermVoucherReverse, PermVoucherView, PermReportView, PermAccountView,
	},
	RoleAccountant: {
		PermVoucherCreate, PermVoucherSubmit, PermVoucherCancel, PermVoucherView,
		PermReportView, PermAccountView,
	},
	RoleViewer: {
		PermVoucherView, PermReportView, PermAccountView,
	},
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Grants reports whether the role carries permission p.
func (r Role) Grants(p Permission) bool {
	return slices.Contains(rolePermissions[r], p)
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
