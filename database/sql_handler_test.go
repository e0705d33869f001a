package database

import (
	"context"
	"regexp"
	"testing"

	"wiz-academy/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func newSpellHandler(db *gorm.DB) *SQLHandler[domain.Spell, domain.SpellFilter] {
	return NewSQLHandler[domain.Spell, domain.SpellFilter](db, func(db *gorm.DB, f *domain.SpellFilter) *gorm.DB {
		if f.CreatedBy != nil {
			db = db.Where("created_by = ?", *f.CreatedBy)
		}
		return db
	})
}

func TestSQLHandler_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	h := newSpellHandler(db)

	rows := sqlmock.NewRows([]string{"id", "name", "type", "steps", "difficulty_level", "version"}).
		AddRow("s-1", "Fireball", "Fire", `["gather","release"]`, "Hard", 3)
	mock.ExpectQuery(`SELECT \* FROM "spells" WHERE id = \$1`).
		WillReturnRows(rows)

	spell, err := h.FindByID(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Fireball", spell.Name)
	assert.Equal(t, domain.StringSlice{"gather", "release"}, spell.Steps)
	assert.Equal(t, domain.DifficultyHard, spell.DifficultyLevel)
	assert.EqualValues(t, 3, spell.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLHandler_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	h := newSpellHandler(db)

	mock.ExpectQuery(`SELECT \* FROM "spells" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	spell, err := h.FindByID(context.Background(), "missing")
	assert.Nil(t, spell)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLHandler_DeleteByID(t *testing.T) {
	db, mock := newMockDB(t)
	h := newSpellHandler(db)

	mock.ExpectExec(`DELETE FROM "spells" WHERE id = \$1`).
		WithArgs("s-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, h.DeleteByID(context.Background(), "s-1"))

	mock.ExpectExec(`DELETE FROM "spells" WHERE id = \$1`).
		WithArgs("s-2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, h.DeleteByID(context.Background(), "s-2"), domain.ErrRecordNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLHandler_UpdateWithStaleVersion(t *testing.T) {
	db, mock := newMockDB(t)
	h := newSpellHandler(db)

	mock.ExpectExec(`UPDATE "spells" SET .* WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	version := int64(2)
	spell := &domain.Spell{ID: "s-1", Name: "Fireball", Version: 3}
	err := h.Update(context.Background(), spell.ID, spell, &version, domain.SpellProtectedFields)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLHandler_UpdateLastWriteWins(t *testing.T) {
	db, mock := newMockDB(t)
	h := newSpellHandler(db)

	// id, created_by, date_of_creation and created_at never reach the SET clause
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "spells" SET "name"=$1,"type"=$2,"description"=$3,"steps"=$4,` +
		`"difficulty_level"=$5,"version"=$6,"updated_at"=$7 WHERE id = $8`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	spell := &domain.Spell{
		ID:             "s-1",
		Name:           "Fireball",
		CreatedBy:      "Mallory",
		DateOfCreation: "1999-01-01",
		Version:        4,
	}
	omit := append([]string{"created_at"}, domain.SpellProtectedFields...)
	err := h.Update(context.Background(), spell.ID, spell, nil, omit)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLHandler_Count(t *testing.T) {
	db, mock := newMockDB(t)
	h := newSpellHandler(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "spells" WHERE created_by = \$1`).
		WithArgs("Thorne").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	by := "Thorne"
	n, err := h.Count(context.Background(), &domain.SpellFilter{CreatedBy: &by})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
