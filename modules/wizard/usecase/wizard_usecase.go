package usecase

import (
	"context"
	"errors"
	"strings"

	"wiz-academy/domain"
	"wiz-academy/pkg/filter"

	"github.com/google/uuid"
)

type WizardRepository interface {
	Create(ctx context.Context, wizard *domain.Wizard) error
	FindByID(ctx context.Context, id string) (*domain.Wizard, error)
	FindMany(ctx context.Context, filter *domain.WizardFilter, option *domain.FindManyOption) ([]*domain.Wizard, error)
	Update(ctx context.Context, wizard *domain.Wizard, expectedVersion *int64) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter *domain.WizardFilter) (int64, error)
}

type wizardUsecase struct {
	repo WizardRepository
}

func NewWizardUsecase(repo WizardRepository) domain.WizardUsecase {
	return &wizardUsecase{repo: repo}
}

func (u *wizardUsecase) FindByID(ctx context.Context, id string) (*domain.Wizard, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrWizardIDRequired
	}
	wizard, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return wizard, nil
}

func (u *wizardUsecase) FindAll(ctx context.Context) ([]*domain.Wizard, error) {
	wizards, err := u.repo.FindMany(ctx, nil, nil)
	if err != nil {
		return nil, domain.ErrInternalServerError.WithTrace(err)
	}
	return wizards, nil
}

func (u *wizardUsecase) Search(ctx context.Context, query *domain.WizardQuery) ([]*domain.Wizard, *domain.Pagination, error) {
	wizards, err := u.FindAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	if query == nil {
		query = &domain.WizardQuery{}
	}
	matched := filter.Apply(wizards, filter.Query{
		SearchField: query.SearchField,
		SearchValue: query.SearchValue,
		Filters:     query.Filters(),
	})
	page := filter.Paginate(matched, query.Page, query.PerPage)
	return page.Items, domain.NewPagination(page.Page, page.PerPage, page.TotalPages, int64(page.TotalItems)), nil
}

// Register creates a novice who joined today with no spells to their name.
func (u *wizardUsecase) Register(ctx context.Context, req *domain.WizardCreateRequest) (*domain.Wizard, error) {
	wizard := &domain.Wizard{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		Role:          domain.RoleNovice,
		Age:           req.Age,
		Speciality:    req.Speciality,
		Exp:           req.Exp,
		DateOfJoining: domain.Today(),
		SpellsCreated: 0,
		Version:       1,
	}
	if err := wizard.Validate(); err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, wizard); err != nil {
		return nil, domain.ErrInternalServerError.WithTrace(err)
	}
	return wizard, nil
}

func (u *wizardUsecase) Update(ctx context.Context, req *domain.WizardUpdateRequest) (*domain.Wizard, error) {
	wizard, err := u.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != wizard.Version {
		return nil, domain.ErrVersionConflict.WithDetail("current_version", wizard.Version)
	}

	wizard.Apply(req)
	if err := wizard.Validate(); err != nil {
		return nil, err
	}
	wizard.Version++

	if err := u.repo.Update(ctx, wizard, req.Version); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			if req.Version != nil {
				return nil, domain.ErrVersionConflict.WithWrap(err)
			}
			return nil, domain.ErrWizardNotFound.WithWrap(err)
		}
		return nil, domain.ErrInternalServerError.WithTrace(err)
	}
	return wizard, nil
}

func (u *wizardUsecase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrWizardIDRequired
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return wrapNotFound(err)
	}
	return nil
}

func (u *wizardUsecase) Count(ctx context.Context, filter *domain.WizardFilter) (int64, error) {
	n, err := u.repo.Count(ctx, filter)
	if err != nil {
		return 0, domain.ErrInternalServerError.WithTrace(err)
	}
	return n, nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrWizardNotFound.WithWrap(err)
	}
	return domain.ErrInternalServerError.WithTrace(err)
}
