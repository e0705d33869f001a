package database

import (
	"context"
	"errors"

	"wiz-academy/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLHandler implements the collection operations shared by every document table.
// T is the stored entity, V the filter applied by applyFilter.
type SQLHandler[T any, V any] struct {
	db          *gorm.DB
	applyFilter func(*gorm.DB, *V) *gorm.DB
}

func NewSQLHandler[T any, V any](
	db *gorm.DB,
	applyFilter func(*gorm.DB, *V) *gorm.DB,
) *SQLHandler[T, V] {
	return &SQLHandler[T, V]{applyFilter: applyFilter, db: db}
}

func (h *SQLHandler[T, V]) filtered(db *gorm.DB, filter *V) *gorm.DB {
	if filter == nil || h.applyFilter == nil {
		return db
	}
	return h.applyFilter(db, filter)
}

func (h *SQLHandler[T, V]) Create(ctx context.Context, entity *T) error {
	return h.db.WithContext(ctx).Create(entity).Error
}

func (h *SQLHandler[T, V]) CreateMany(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	return h.db.WithContext(ctx).Create(&entities).Error
}

func (h *SQLHandler[T, V]) FindByID(ctx context.Context, id any) (*T, error) {
	var entity T
	err := h.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err == nil {
		return &entity, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRecordNotFound
	}
	return nil, err
}

func (h *SQLHandler[T, V]) applyFindManyOption(db *gorm.DB, option *domain.FindManyOption) *gorm.DB {
	if option == nil {
		return db
	}

	for _, sortField := range option.Sort {
		db = db.Order(sortField)
	}

	if option.Limit != nil {
		db = db.Limit(*option.Limit)
	}

	if option.Offset != nil {
		db = db.Offset(*option.Offset)
	}
	return db
}

func (h *SQLHandler[T, V]) FindMany(ctx context.Context, filter *V, option *domain.FindManyOption) ([]*T, error) {
	execDB := h.applyFindManyOption(h.filtered(h.db, filter), option)

	var entities []*T
	err := execDB.WithContext(ctx).Find(&entities).Error
	if err != nil {
		return nil, err
	}

	return entities, nil
}

// Save writes the whole entity, inserting it when no row with its primary key exists.
func (h *SQLHandler[T, V]) Save(ctx context.Context, entity *T) error {
	return h.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(entity).Error
}

// Update writes every column of entity except omit. When version is set the write only
// happens if the stored row still carries that version. It returns domain.ErrRecordNotFound
// when no row matched.
func (h *SQLHandler[T, V]) Update(ctx context.Context, id any, entity *T, version *int64, omit []string) error {
	q := h.db.WithContext(ctx).Model(new(T)).Where("id = ?", id)
	if version != nil {
		q = q.Where("version = ?", *version)
	}
	res := q.Select("*").Omit(omit...).Updates(entity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// DeleteByID removes the row for good. Documents are not soft deleted.
func (h *SQLHandler[T, V]) DeleteByID(ctx context.Context, id any) error {
	res := h.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (h *SQLHandler[T, V]) Count(ctx context.Context, filter *V) (int64, error) {
	var count int64
	err := h.filtered(h.db, filter).WithContext(ctx).Model(new(T)).Count(&count).Error
	return count, err
}
