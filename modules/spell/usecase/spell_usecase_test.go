package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"wiz-academy/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSpellRepo struct {
	spells  map[string]*domain.Spell
	order   []string
	failErr error
}

func newFakeSpellRepo(spells ...*domain.Spell) *fakeSpellRepo {
	r := &fakeSpellRepo{spells: map[string]*domain.Spell{}}
	for _, s := range spells {
		r.spells[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r
}

func (r *fakeSpellRepo) Create(_ context.Context, spell *domain.Spell) error {
	if r.failErr != nil {
		return r.failErr
	}
	cp := *spell
	r.spells[spell.ID] = &cp
	r.order = append(r.order, spell.ID)
	return nil
}

func (r *fakeSpellRepo) CreateMany(ctx context.Context, spells []*domain.Spell) error {
	for _, s := range spells {
		if err := r.Create(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeSpellRepo) FindByID(_ context.Context, id string) (*domain.Spell, error) {
	s, ok := r.spells[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSpellRepo) FindMany(_ context.Context, _ *domain.SpellFilter, _ *domain.FindManyOption) ([]*domain.Spell, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	out := make([]*domain.Spell, 0, len(r.order))
	for _, id := range r.order {
		if s, ok := r.spells[id]; ok {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSpellRepo) Update(_ context.Context, spell *domain.Spell, expectedVersion *int64) error {
	stored, ok := r.spells[spell.ID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if expectedVersion != nil && stored.Version != *expectedVersion {
		return domain.ErrRecordNotFound
	}
	cp := *spell
	r.spells[spell.ID] = &cp
	return nil
}

func (r *fakeSpellRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.spells[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.spells, id)
	return nil
}

func (r *fakeSpellRepo) Count(_ context.Context, filter *domain.SpellFilter) (int64, error) {
	if r.failErr != nil {
		return 0, r.failErr
	}
	var n int64
	for _, s := range r.spells {
		if filter == nil || filter.CreatedBy == nil || s.CreatedBy == *filter.CreatedBy {
			n++
		}
	}
	return n, nil
}

func ptr[T any](v T) *T { return &v }

func TestSpellUsecase_Create(t *testing.T) {
	repo := newFakeSpellRepo()
	uc := NewSpellUsecase(repo)

	spell, err := uc.Create(context.Background(), &domain.SpellCreateRequest{
		Name:            "Fireball",
		Type:            "Fire",
		Steps:           []string{"gather", "release"},
		DifficultyLevel: domain.DifficultyHard,
		CreatedBy:       "Merlin",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, spell.ID)
	assert.Equal(t, domain.Today(), spell.DateOfCreation)
	assert.EqualValues(t, 1, spell.Version)
	assert.Contains(t, repo.spells, spell.ID)
}

func TestSpellUsecase_CreateRejectsBlankName(t *testing.T) {
	uc := NewSpellUsecase(newFakeSpellRepo())

	_, err := uc.Create(context.Background(), &domain.SpellCreateRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrSpellValidationFailed)

	_, err = uc.Create(context.Background(), &domain.SpellCreateRequest{Name: "Bolt", DifficultyLevel: "Trivial"})
	assert.ErrorIs(t, err, domain.ErrSpellValidationFailed)
}

func TestSpellUsecase_CreateManyAllOrNothing(t *testing.T) {
	repo := newFakeSpellRepo()
	uc := NewSpellUsecase(repo)

	_, err := uc.CreateMany(context.Background(), []*domain.SpellCreateRequest{
		{Name: "Frost"},
		{Name: ""},
	})
	assert.ErrorIs(t, err, domain.ErrSpellValidationFailed)
	assert.Empty(t, repo.spells)

	spells, err := uc.CreateMany(context.Background(), []*domain.SpellCreateRequest{
		{Name: "Frost"},
		{Name: "Gust"},
	})
	require.NoError(t, err)
	assert.Len(t, spells, 2)
	assert.NotEqual(t, spells[0].ID, spells[1].ID)

	spells, err = uc.CreateMany(context.Background(), []*domain.SpellCreateRequest{})
	require.NoError(t, err)
	assert.Empty(t, spells)
	assert.Len(t, repo.spells, 2)
}

func TestSpellUsecase_FindByID(t *testing.T) {
	uc := NewSpellUsecase(newFakeSpellRepo(&domain.Spell{ID: "s-1", Name: "Fireball"}))

	_, err := uc.FindByID(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrSpellIDRequired)

	_, err = uc.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSpellNotFound)

	spell, err := uc.FindByID(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Fireball", spell.Name)
}

func TestSpellUsecase_UpdatePreservesProtectedFields(t *testing.T) {
	repo := newFakeSpellRepo(&domain.Spell{
		ID: "s-1", Name: "Fireball", CreatedBy: "Merlin", DateOfCreation: "2020-01-01", Version: 1,
	})
	uc := NewSpellUsecase(repo)

	spell, err := uc.Update(context.Background(), &domain.SpellUpdateRequest{
		ID:             "s-1",
		Name:           ptr("Greater Fireball"),
		CreatedBy:      ptr("Mallory"),
		DateOfCreation: ptr("1999-09-09"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Greater Fireball", spell.Name)
	assert.Equal(t, "Merlin", spell.CreatedBy)
	assert.Equal(t, "2020-01-01", spell.DateOfCreation)
	assert.EqualValues(t, 2, spell.Version)
	assert.Equal(t, "Merlin", repo.spells["s-1"].CreatedBy)
}

func TestSpellUsecase_UpdateStaleVersion(t *testing.T) {
	repo := newFakeSpellRepo(&domain.Spell{ID: "s-1", Name: "Fireball", Version: 3})
	uc := NewSpellUsecase(repo)

	_, err := uc.Update(context.Background(), &domain.SpellUpdateRequest{
		ID:      "s-1",
		Name:    ptr("Changed"),
		Version: ptr(int64(2)),
	})
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.Equal(t, "Fireball", repo.spells["s-1"].Name)
}

func TestSpellUsecase_UpdateMissing(t *testing.T) {
	uc := NewSpellUsecase(newFakeSpellRepo())

	_, err := uc.Update(context.Background(), &domain.SpellUpdateRequest{ID: "s-9", Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrSpellNotFound)
}

func TestSpellUsecase_Delete(t *testing.T) {
	repo := newFakeSpellRepo(&domain.Spell{ID: "s-1", Name: "Fireball"})
	uc := NewSpellUsecase(repo)

	require.NoError(t, uc.Delete(context.Background(), "s-1"))
	assert.Empty(t, repo.spells)
	assert.ErrorIs(t, uc.Delete(context.Background(), "s-1"), domain.ErrSpellNotFound)
}

func TestSpellUsecase_Search(t *testing.T) {
	var spells []*domain.Spell
	for i := 0; i < 25; i++ {
		typ := "Fire"
		if i%2 == 1 {
			typ = "Water"
		}
		spells = append(spells, &domain.Spell{
			ID:              fmt.Sprintf("s-%02d", i),
			Name:            fmt.Sprintf("Spell %02d", i),
			Type:            typ,
			DifficultyLevel: domain.DifficultyEasy,
		})
	}
	uc := NewSpellUsecase(newFakeSpellRepo(spells...))

	items, page, err := uc.Search(context.Background(), &domain.SpellQuery{
		Types: []string{"Fire 🔥"},
		Page:  2,
	})
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.EqualValues(t, 13, page.TotalItems)

	items, _, err = uc.Search(context.Background(), &domain.SpellQuery{SearchField: "name", SearchValue: "spell 07"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "s-07", items[0].ID)

	items, page, err = uc.Search(context.Background(), &domain.SpellQuery{SearchField: "colour", SearchValue: "x"})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.Zero(t, page.TotalItems)
}

func TestSpellUsecase_StoreFailureIsInternal(t *testing.T) {
	repo := newFakeSpellRepo()
	repo.failErr = errors.New("connection reset")
	uc := NewSpellUsecase(repo)

	_, err := uc.FindAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrInternalServerError)
}

func TestSpellUsecase_Count(t *testing.T) {
	repo := newFakeSpellRepo(
		&domain.Spell{ID: "s-1", Name: "Fireball", CreatedBy: "Thorne"},
		&domain.Spell{ID: "s-2", Name: "Frost", CreatedBy: "Aldric"},
		&domain.Spell{ID: "s-3", Name: "Gust", CreatedBy: "Thorne"},
	)
	uc := NewSpellUsecase(repo)

	n, err := uc.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = uc.Count(context.Background(), &domain.SpellFilter{CreatedBy: ptr("Thorne")})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	repo.failErr = errors.New("connection reset")
	_, err = uc.Count(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInternalServerError)
}
