package database

import (
	"wiz-academy/domain"

	"gorm.io/gorm"
)

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.RolesDocument{},
		&domain.Wizard{},
		&domain.Spell{},
	)
}
