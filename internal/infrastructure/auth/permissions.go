package auth

import (
	"context"
	"fmt"

	"github.com/iho/erpledger/internal/domain"
)

// ClaimPermissionChecker authorizes callers from the user attached to the
// request context by the auth middleware.
type ClaimPermissionChecker struct{}

// NewClaimPermissionChecker creates a ClaimPermissionChecker.
func NewClaimPermissionChecker() *ClaimPermissionChecker {
	return &ClaimPermissionChecker{}
}

// Authorize implements usecase.PermissionChecker.
func (c *ClaimPermissionChecker) Authorize(ctx context.Context, userID, companyID string, permission domain.Permission) error {
	user, ok := domain.UserFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: no authenticated user", domain.ErrPermissionDenied)
	}
	if userID != "" && userID != user.ID {
		return fmt.Errorf("%w: acting user %s does not match token", domain.ErrPermissionDenied, userID)
	}
	if !user.CanAccessCompany(companyID) {
		return fmt.Errorf("%w: user %s has no access to company %s", domain.ErrPermissionDenied, user.ID, companyID)
	}
	if !user.Role.Grants(permission) {
		return fmt.Errorf("%w: role %s lacks %s", domain.ErrPermissionDenied, user.Role, permission)
	}
	return nil
}
