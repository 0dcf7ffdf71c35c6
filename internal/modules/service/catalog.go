package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/modules/form"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"github.com/meurdo/meurdo-api/internal/modules/repo"
)

type CatalogService interface {
	Roles(ctx context.Context, userID uuid.UUID) ([]model.RoleCatalog, error)
	Machines(ctx context.Context, userID uuid.UUID) ([]model.MachineCatalog, error)
	Schedule(ctx context.Context, userID, obraID uuid.UUID) ([]model.ScheduleItem, error)
	// Load returns the prefill sources of an obra: its owner's catalogs and its schedule.
	Load(ctx context.Context, obraID uuid.UUID) (form.CatalogSet, error)
}

type catalogService struct {
	catalogs repo.CatalogRepo
	obras    repo.ObraRepo
}

func NewCatalogService(catalogs repo.CatalogRepo, obras repo.ObraRepo) CatalogService {
	return &catalogService{catalogs: catalogs, obras: obras}
}

func (s *catalogService) Roles(ctx context.Context, userID uuid.UUID) ([]model.RoleCatalog, error) {
	return s.catalogs.ListRoles(ctx, userID)
}

func (s *catalogService) Machines(ctx context.Context, userID uuid.UUID) ([]model.MachineCatalog, error) {
	return s.catalogs.ListMachines(ctx, userID)
}

func (s *catalogService) Schedule(ctx context.Context, userID, obraID uuid.UUID) ([]model.ScheduleItem, error) {
	if err := requireAccess(ctx, s.obras, obraID, userID, false); err != nil {
		return nil, err
	}
	return s.obras.ListSchedule(ctx, obraID)
}

func (s *catalogService) Load(ctx context.Context, obraID uuid.UUID) (form.CatalogSet, error) {
	var set form.CatalogSet
	o, err := s.obras.Get(ctx, obraID)
	if err != nil {
		return set, translate(err)
	}
	if set.Roles, err = s.catalogs.ListRoles(ctx, o.OwnerID); err != nil {
		return set, fmt.Errorf("list roles: %w", err)
	}
	if set.Machines, err = s.catalogs.ListMachines(ctx, o.OwnerID); err != nil {
		return set, fmt.Errorf("list machines: %w", err)
	}
	if set.Schedule, err = s.obras.ListSchedule(ctx, obraID); err != nil {
		return set, fmt.Errorf("list schedule: %w", err)
	}
	return set, nil
}
