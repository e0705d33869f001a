package repository

import (
	"context"

	"wiz-academy/database"
	"wiz-academy/domain"

	"gorm.io/gorm"
)

type SpellRepository struct {
	sqlHandler *database.SQLHandler[domain.Spell, domain.SpellFilter]
}

func NewSpellRepository(db *gorm.DB) *SpellRepository {
	return &SpellRepository{
		sqlHandler: database.NewSQLHandler[domain.Spell, domain.SpellFilter](db, applyFilter),
	}
}

func applyFilter(qb *gorm.DB, filter *domain.SpellFilter) *gorm.DB {
	if filter == nil {
		return qb
	}
	if filter.CreatedBy != nil {
		qb = qb.Where("created_by = ?", *filter.CreatedBy)
	}
	return qb
}

func (r *SpellRepository) Create(ctx context.Context, spell *domain.Spell) error {
	return r.sqlHandler.Create(ctx, spell)
}

func (r *SpellRepository) CreateMany(ctx context.Context, spells []*domain.Spell) error {
	return r.sqlHandler.CreateMany(ctx, spells)
}

func (r *SpellRepository) FindByID(ctx context.Context, id string) (*domain.Spell, error) {
	return r.sqlHandler.FindByID(ctx, id)
}

func (r *SpellRepository) FindMany(ctx context.Context, filter *domain.SpellFilter, option *domain.FindManyOption) ([]*domain.Spell, error) {
	if option == nil {
		option = &domain.FindManyOption{Sort: []string{"created_at ASC", "id ASC"}}
	}
	return r.sqlHandler.FindMany(ctx, filter, option)
}

// Update writes spell over the stored row, leaving the protected columns untouched.
func (r *SpellRepository) Update(ctx context.Context, spell *domain.Spell, expectedVersion *int64) error {
	return r.sqlHandler.Update(ctx, spell.ID, spell, expectedVersion, append(domain.SpellProtectedFields, "created_at"))
}

func (r *SpellRepository) Delete(ctx context.Context, id string) error {
	return r.sqlHandler.DeleteByID(ctx, id)
}

func (r *SpellRepository) Count(ctx context.Context, filter *domain.SpellFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}
