package usecase

import (
	"context"
	"errors"
	"strings"

	"wiz-academy/domain"
	"wiz-academy/pkg/filter"

	"github.com/google/uuid"
)

type SpellRepository interface {
	Create(ctx context.Context, spell *domain.Spell) error
	CreateMany(ctx context.Context, spells []*domain.Spell) error
	FindByID(ctx context.Context, id string) (*domain.Spell, error)
	FindMany(ctx context.Context, filter *domain.SpellFilter, option *domain.FindManyOption) ([]*domain.Spell, error)
	Update(ctx context.Context, spell *domain.Spell, expectedVersion *int64) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter *domain.SpellFilter) (int64, error)
}

type spellUsecase struct {
	repo SpellRepository
}

func NewSpellUsecase(repo SpellRepository) domain.SpellUsecase {
	return &spellUsecase{repo: repo}
}

func (u *spellUsecase) FindByID(ctx context.Context, id string) (*domain.Spell, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrSpellIDRequired
	}
	spell, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return spell, nil
}

func (u *spellUsecase) FindAll(ctx context.Context) ([]*domain.Spell, error) {
	spells, err := u.repo.FindMany(ctx, nil, nil)
	if err != nil {
		return nil, domain.ErrInternalServerError.WithTrace(err)
	}
	return spells, nil
}

func (u *spellUsecase) Search(ctx context.Context, query *domain.SpellQuery) ([]*domain.Spell, *domain.Pagination, error) {
	spells, err := u.FindAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	if query == nil {
		query = &domain.SpellQuery{}
	}
	matched := filter.Apply(spells, filter.Query{
		SearchField: query.SearchField,
		SearchValue: query.SearchValue,
		Filters:     query.Filters(),
	})
	page := filter.Paginate(matched, query.Page, query.PerPage)
	return page.Items, domain.NewPagination(page.Page, page.PerPage, page.TotalPages, int64(page.TotalItems)), nil
}

func (u *spellUsecase) newSpell(req *domain.SpellCreateRequest) (*domain.Spell, error) {
	spell := &domain.Spell{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		Type:            req.Type,
		Description:     req.Description,
		Steps:           domain.NewStringSlice(req.Steps),
		DifficultyLevel: req.DifficultyLevel,
		CreatedBy:       req.CreatedBy,
		DateOfCreation:  req.DateOfCreation,
		Version:         1,
	}
	if spell.DateOfCreation == "" {
		spell.DateOfCreation = domain.Today()
	}
	if err := spell.Validate(); err != nil {
		return nil, err
	}
	return spell, nil
}

func (u *spellUsecase) Create(ctx context.Context, req *domain.SpellCreateRequest) (*domain.Spell, error) {
	spell, err := u.newSpell(req)
	if err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, spell); err != nil {
		return nil, domain.ErrInternalServerError.WithTrace(err)
	}
	return spell, nil
}

// CreateMany inserts every spell or none of them. An empty batch inserts nothing.
func (u *spellUsecase) CreateMany(ctx context.Context, reqs []*domain.SpellCreateRequest) ([]*domain.Spell, error) {
	if len(reqs) == 0 {
		return []*domain.Spell{}, nil
	}
	spells := make([]*domain.Spell, 0, len(reqs))
	for i, req := range reqs {
		if req == nil {
			return nil, domain.ErrSpellValidationFailed.WithErrorf("spell #%d is empty", i)
		}
		spell, err := u.newSpell(req)
		if err != nil {
			return nil, err
		}
		spells = append(spells, spell)
	}
	if err := u.repo.CreateMany(ctx, spells); err != nil {
		return nil, domain.ErrInternalServerError.WithTrace(err)
	}
	return spells, nil
}

func (u *spellUsecase) Update(ctx context.Context, req *domain.SpellUpdateRequest) (*domain.Spell, error) {
	spell, err := u.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != spell.Version {
		return nil, domain.ErrVersionConflict.WithDetail("current_version", spell.Version)
	}

	spell.Apply(req)
	if err := spell.Validate(); err != nil {
		return nil, err
	}
	spell.Version++

	if err := u.repo.Update(ctx, spell, req.Version); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			if req.Version != nil {
				return nil, domain.ErrVersionConflict.WithWrap(err)
			}
			return nil, domain.ErrSpellNotFound.WithWrap(err)
		}
		return nil, domain.ErrInternalServerError.WithTrace(err)
	}
	return spell, nil
}

func (u *spellUsecase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrSpellIDRequired
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return wrapNotFound(err)
	}
	return nil
}

func (u *spellUsecase) Count(ctx context.Context, filter *domain.SpellFilter) (int64, error) {
	n, err := u.repo.Count(ctx, filter)
	if err != nil {
		return 0, domain.ErrInternalServerError.WithTrace(err)
	}
	return n, nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrSpellNotFound.WithWrap(err)
	}
	return domain.ErrInternalServerError.WithTrace(err)
}
