package repository

import (
	"context"

	"wiz-academy/database"
	"wiz-academy/domain"

	"gorm.io/gorm"
)

// RoleRepository stores the singleton roles document.
type RoleRepository struct {
	sqlHandler *database.SQLHandler[domain.RolesDocument, struct{}]
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{
		sqlHandler: database.NewSQLHandler[domain.RolesDocument, struct{}](db, nil),
	}
}

func (r *RoleRepository) Get(ctx context.Context) (*domain.RolesDocument, error) {
	return r.sqlHandler.FindByID(ctx, domain.RolesDocumentID)
}

// Save replaces the whole document.
func (r *RoleRepository) Save(ctx context.Context, doc *domain.RolesDocument) error {
	return r.sqlHandler.Save(ctx, doc)
}
