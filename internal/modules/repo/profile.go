package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"gorm.io/gorm"
)

type ProfileRepo interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
}

type profileRepo struct{ db *gorm.DB }

func NewProfileRepo(db *gorm.DB) ProfileRepo {
	return &profileRepo{db: db}
}

func (r *profileRepo) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	var p model.Profile
	return &p, r.db.WithContext(ctx).Where("id = ?", userID).First(&p).Error
}
