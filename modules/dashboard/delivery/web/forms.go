package web

import (
	"strings"

	"wiz-academy/domain"
	"wiz-academy/validator"

	"github.com/samber/lo"
)

type spellForm struct {
	Name            string `json:"name" form:"name" binding:"required,not_blank"`
	Type            string `json:"type" form:"type"`
	Description     string `json:"description" form:"description"`
	Steps           string `json:"steps" form:"steps"`
	DifficultyLevel string `json:"difficulty_level" form:"difficulty_level" binding:"omitempty,spell_difficulty"`
	CreatedBy       string `json:"created_by" form:"created_by"`
	DateOfCreation  string `json:"date_of_creation" form:"date_of_creation" binding:"omitempty,datetime=2006-01-02"`
	Version         int64  `json:"version" form:"version"`
}

func spellFormFrom(s *domain.Spell) spellForm {
	return spellForm{
		Name:            s.Name,
		Type:            s.Type,
		Description:     s.Description,
		Steps:           strings.Join(s.Steps, "\n"),
		DifficultyLevel: string(s.DifficultyLevel),
		CreatedBy:       s.CreatedBy,
		DateOfCreation:  s.DateOfCreation,
		Version:         s.Version,
	}
}

// splitSteps reads one step per line, dropping blank lines.
func splitSteps(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	return lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		return line, line != ""
	})
}

func (f *spellForm) createRequest() *domain.SpellCreateRequest {
	return &domain.SpellCreateRequest{
		Name:            f.Name,
		Type:            f.Type,
		Description:     f.Description,
		Steps:           splitSteps(f.Steps),
		DifficultyLevel: domain.Difficulty(f.DifficultyLevel),
		CreatedBy:       f.CreatedBy,
		DateOfCreation:  f.DateOfCreation,
	}
}

func (f *spellForm) updateRequest(id string) *domain.SpellUpdateRequest {
	steps := splitSteps(f.Steps)
	difficulty := domain.Difficulty(f.DifficultyLevel)
	req := &domain.SpellUpdateRequest{
		ID:              id,
		Name:            &f.Name,
		Type:            &f.Type,
		Description:     &f.Description,
		Steps:           &steps,
		DifficultyLevel: &difficulty,
	}
	if f.Version > 0 {
		req.Version = &f.Version
	}
	return req
}

type wizardForm struct {
	Name          string `json:"name" form:"name" binding:"required,not_blank"`
	Age           int    `json:"age" form:"age" binding:"gte=0"`
	Speciality    string `json:"speciality" form:"speciality"`
	Exp           int    `json:"exp" form:"exp" binding:"gte=0"`
	Role          string `json:"role" form:"role" binding:"omitempty,wizard_role"`
	DateOfJoining string `json:"date_of_joining" form:"date_of_joining" binding:"omitempty,datetime=2006-01-02"`
	SpellsCreated int    `json:"spells_created" form:"spells_created" binding:"gte=0"`
	Version       int64  `json:"version" form:"version"`
}

func wizardFormFrom(w *domain.Wizard) wizardForm {
	return wizardForm{
		Name:          w.Name,
		Age:           w.Age,
		Speciality:    w.Speciality,
		Exp:           w.Exp,
		Role:          string(w.Role),
		DateOfJoining: w.DateOfJoining,
		SpellsCreated: w.SpellsCreated,
		Version:       w.Version,
	}
}

func (f *wizardForm) createRequest() *domain.WizardCreateRequest {
	return &domain.WizardCreateRequest{
		Name:       f.Name,
		Age:        f.Age,
		Speciality: f.Speciality,
		Exp:        f.Exp,
	}
}

func (f *wizardForm) updateRequest(id string) *domain.WizardUpdateRequest {
	req := &domain.WizardUpdateRequest{
		ID:            id,
		Name:          &f.Name,
		Age:           &f.Age,
		Speciality:    &f.Speciality,
		Exp:           &f.Exp,
		SpellsCreated: &f.SpellsCreated,
	}
	if f.Role != "" {
		role := domain.Role(f.Role).Canonical()
		req.Role = &role
	}
	if f.DateOfJoining != "" {
		req.DateOfJoining = &f.DateOfJoining
	}
	if f.Version > 0 {
		req.Version = &f.Version
	}
	return req
}

// formErrors turns a binding or use case failure into messages keyed by field.
func formErrors(err error) map[string]string {
	if fields := validator.DefaultValidator().Translate(err); len(fields) > 0 {
		return fields
	}
	if dErr, ok := domain.AsDetailedError(err); ok {
		return map[string]string{"form": dErr.Error()}
	}
	return map[string]string{"form": err.Error()}
}

// rolesDocumentFromForm builds a full replacement document from the checkbox matrix.
// Unticked boxes are absent from the form and decode as false.
func rolesDocumentFromForm(postForm func(key string) string) (*domain.RolesDocument, error) {
	doc := &domain.RolesDocument{ID: domain.RolesDocumentID}
	for _, role := range domain.Roles {
		var perms domain.Permissions
		for _, perm := range domain.AllPermissions {
			if postForm(string(role)+"."+string(perm)) != "true" {
				continue
			}
			if err := perms.Set(perm, true); err != nil {
				return nil, err
			}
		}
		doc.SetPermissions(role, perms)
	}
	return doc, nil
}
