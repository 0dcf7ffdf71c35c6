package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"gorm.io/gorm"
)

type ObraRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Obra, error)
	// MemberRole resolves the caller's role on an obra. The owner is an admin.
	// ok is false when the user has no access at all.
	MemberRole(ctx context.Context, obraID, userID uuid.UUID) (role model.MemberRole, ok bool, err error)
	ListSchedule(ctx context.Context, obraID uuid.UUID) ([]model.ScheduleItem, error)
}

type obraRepo struct{ db *gorm.DB }

func NewObraRepo(db *gorm.DB) ObraRepo {
	return &obraRepo{db: db}
}

func (r *obraRepo) Get(ctx context.Context, id uuid.UUID) (*model.Obra, error) {
	var o model.Obra
	return &o, r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
}

func (r *obraRepo) MemberRole(ctx context.Context, obraID, userID uuid.UUID) (model.MemberRole, bool, error) {
	o, err := r.Get(ctx, obraID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if o.OwnerID == userID {
		return model.MemberAdmin, true, nil
	}

	var m model.ObraMember
	err = r.db.WithContext(ctx).Where("obra_id = ? AND user_id = ?", obraID, userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return m.Role, true, nil
}

func (r *obraRepo) ListSchedule(ctx context.Context, obraID uuid.UUID) ([]model.ScheduleItem, error) {
	var items []model.ScheduleItem
	return items, r.db.WithContext(ctx).Where("obra_id = ?", obraID).Order("position ASC").Find(&items).Error
}
