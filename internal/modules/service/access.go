package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/modules/repo"
)

// requireAccess fails with ErrNotFound when the user cannot see the obra at
// all and ErrPermissionDenied when write is asked of a viewer.
func requireAccess(ctx context.Context, obras repo.ObraRepo, obraID, userID uuid.UUID, write bool) error {
	role, ok, err := obras.MemberRole(ctx, obraID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if write && !role.CanEdit() {
		return ErrPermissionDenied
	}
	return nil
}
