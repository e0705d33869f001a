package usecase

import (
	"context"
	"errors"

	"wiz-academy/domain"
)

type RoleRepository interface {
	Get(ctx context.Context) (*domain.RolesDocument, error)
	Save(ctx context.Context, doc *domain.RolesDocument) error
}

type roleUsecase struct {
	repo RoleRepository
}

func NewRoleUsecase(repo RoleRepository) domain.RoleUsecase {
	return &roleUsecase{repo: repo}
}

func (u *roleUsecase) Get(ctx context.Context) (*domain.RolesDocument, error) {
	doc, err := u.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrRolesNotFound.WithWrap(err)
		}
		return nil, domain.ErrInternalServerError.WithTrace(err)
	}
	return doc, nil
}

// Replace stores doc as the new roles document. Nothing of the previous document is kept.
func (u *roleUsecase) Replace(ctx context.Context, doc *domain.RolesDocument) (*domain.RolesDocument, error) {
	if doc == nil {
		return nil, domain.ErrRolesValidationFailed.WithError("roles document is required")
	}
	replacement := *doc
	replacement.Normalize()
	if err := u.repo.Save(ctx, &replacement); err != nil {
		return nil, domain.ErrInternalServerError.WithTrace(err)
	}
	return &replacement, nil
}

// Toggle flips perm for role on the current document and stores the result.
func (u *roleUsecase) Toggle(ctx context.Context, role domain.Role, perm domain.Permission) (*domain.RolesDocument, error) {
	current, err := u.Get(ctx)
	if err != nil {
		return nil, err
	}
	doc := *current
	if err := doc.Toggle(role.Canonical(), perm); err != nil {
		return nil, err
	}
	return u.Replace(ctx, &doc)
}

// EnsureDefault seeds the default document when none exists. The bool reports whether it did.
func (u *roleUsecase) EnsureDefault(ctx context.Context) (*domain.RolesDocument, bool, error) {
	doc, err := u.Get(ctx)
	if err == nil {
		return doc, false, nil
	}
	if !errors.Is(err, domain.ErrRolesNotFound) {
		return nil, false, err
	}
	doc, err = u.Replace(ctx, domain.DefaultRolesDocument())
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}
