package db

import (
	"time"

	"github.com/meurdo/meurdo-api/internal/config"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func New(cfg *config.Config) (*gorm.DB, error) {
	d, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := d.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpen)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdle)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return d, nil
}

// Models lists every table owned by the API, in dependency order.
func Models() []any {
	return []any{
		&model.Profile{},
		&model.Obra{},
		&model.ObraMember{},
		&model.ScheduleItem{},
		&model.RoleCatalog{},
		&model.MachineCatalog{},
		&model.Rdo{},
		&model.RdoActivity{},
		&model.RdoManpower{},
		&model.RdoEquipment{},
		&model.RdoMaterial{},
		&model.RdoStatusEvent{},
	}
}

func AutoMigrate(d *gorm.DB) error {
	return d.AutoMigrate(Models()...)
}
