package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"gorm.io/gorm"
)

type CatalogRepo interface {
	ListRoles(ctx context.Context, ownerID uuid.UUID) ([]model.RoleCatalog, error)
	ListMachines(ctx context.Context, ownerID uuid.UUID) ([]model.MachineCatalog, error)
}

type catalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) CatalogRepo {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) ListRoles(ctx context.Context, ownerID uuid.UUID) ([]model.RoleCatalog, error) {
	var roles []model.RoleCatalog
	return roles, r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("name ASC").Find(&roles).Error
}

func (r *catalogRepo) ListMachines(ctx context.Context, ownerID uuid.UUID) ([]model.MachineCatalog, error) {
	var machines []model.MachineCatalog
	return machines, r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("name ASC").Find(&machines).Error
}
