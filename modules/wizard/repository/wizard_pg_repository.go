package repository

import (
	"context"

	"wiz-academy/database"
	"wiz-academy/domain"

	"gorm.io/gorm"
)

type WizardRepository struct {
	sqlHandler *database.SQLHandler[domain.Wizard, domain.WizardFilter]
}

func NewWizardRepository(db *gorm.DB) *WizardRepository {
	return &WizardRepository{
		sqlHandler: database.NewSQLHandler[domain.Wizard, domain.WizardFilter](db, applyFilter),
	}
}

func applyFilter(qb *gorm.DB, filter *domain.WizardFilter) *gorm.DB {
	if filter == nil {
		return qb
	}
	if filter.Role != nil {
		qb = qb.Where("role = ?", *filter.Role)
	}
	return qb
}

func (r *WizardRepository) Create(ctx context.Context, wizard *domain.Wizard) error {
	return r.sqlHandler.Create(ctx, wizard)
}

// Save inserts or overwrites wizard. Used by the demo seeder, which picks its own ids.
func (r *WizardRepository) Save(ctx context.Context, wizard *domain.Wizard) error {
	return r.sqlHandler.Save(ctx, wizard)
}

func (r *WizardRepository) FindByID(ctx context.Context, id string) (*domain.Wizard, error) {
	return r.sqlHandler.FindByID(ctx, id)
}

func (r *WizardRepository) FindMany(ctx context.Context, filter *domain.WizardFilter, option *domain.FindManyOption) ([]*domain.Wizard, error) {
	if option == nil {
		option = &domain.FindManyOption{Sort: []string{"created_at ASC", "id ASC"}}
	}
	return r.sqlHandler.FindMany(ctx, filter, option)
}

func (r *WizardRepository) Update(ctx context.Context, wizard *domain.Wizard, expectedVersion *int64) error {
	return r.sqlHandler.Update(ctx, wizard.ID, wizard, expectedVersion, append(domain.WizardProtectedFields, "created_at"))
}

func (r *WizardRepository) Delete(ctx context.Context, id string) error {
	return r.sqlHandler.DeleteByID(ctx, id)
}

func (r *WizardRepository) Count(ctx context.Context, filter *domain.WizardFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}
