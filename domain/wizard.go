package domain

import (
	"context"
	"net/http"
	"strings"
)

/****************************
*       Wizard errors       *
****************************/
var (
	ErrWizardNotFound = &DetailedError{
		IDField:         "WIZARD_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Wizard not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrWizardValidationFailed = &DetailedError{
		IDField:         "WIZARD_VALIDATION_FAILED",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Wizard validation failed",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrWizardIDRequired = &DetailedError{
		IDField:         "WIZARD_ID_REQUIRED",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Wizard ID is required",
		StatusCodeField: http.StatusBadRequest,
	}
)

/***************************************
*      Wizard entities and types      *
***************************************/

// WizardProtectedFields are never overwritten by an update.
var WizardProtectedFields = []string{"id"}

type Wizard struct {
	ID            string `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name          string `json:"name" gorm:"type:varchar(100);not null"`
	Role          Role   `json:"role" gorm:"type:varchar(20);not null;default:'novice';index"`
	Age           int    `json:"age"`
	Speciality    string `json:"speciality" gorm:"type:varchar(50)"`
	Exp           int    `json:"exp"`
	DateOfJoining string `json:"date_of_joining" gorm:"type:varchar(10)"`
	SpellsCreated int    `json:"spells_created"`
	Version       int64  `json:"version" gorm:"not null;default:1"`
	CreatedAt     int64  `json:"-" gorm:"autoCreateTime:milli"`
	UpdatedAt     int64  `json:"-" gorm:"autoUpdateTime:milli"`
}

func (w *Wizard) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrWizardValidationFailed.WithError("name must be not empty")
	}
	if !w.Role.IsValid() {
		return ErrWizardValidationFailed.WithErrorf("role %q is invalid", w.Role)
	}
	if w.Age < 0 {
		return ErrWizardValidationFailed.WithError("age must be positive")
	}
	if w.Exp < 0 {
		return ErrWizardValidationFailed.WithError("exp must be positive")
	}
	return nil
}

// Apply merges the caller-supplied fields of req onto w. The id is never changed.
func (w *Wizard) Apply(req *WizardUpdateRequest) {
	if req.Name != nil {
		w.Name = *req.Name
	}
	if req.Role != nil {
		w.Role = req.Role.Canonical()
	}
	if req.Age != nil {
		w.Age = *req.Age
	}
	if req.Speciality != nil {
		w.Speciality = *req.Speciality
	}
	if req.Exp != nil {
		w.Exp = *req.Exp
	}
	if req.DateOfJoining != nil {
		w.DateOfJoining = *req.DateOfJoining
	}
	if req.SpellsCreated != nil {
		w.SpellsCreated = *req.SpellsCreated
	}
}

func (w *Wizard) SpecialityIcon() string {
	return SpellTypeIcon(w.Speciality)
}

func (w *Wizard) SearchValue(field string) (string, bool) {
	switch field {
	case "name":
		return w.Name, true
	case "date_of_joining":
		return w.DateOfJoining, true
	}
	return "", false
}

func (w *Wizard) MatchesFilter(category, value string) bool {
	switch category {
	case "type":
		return MatchesSpellType(w.Speciality, value)
	case "role":
		r, err := ParseRole(value)
		return err == nil && r == w.Role
	}
	return false
}

var WizardSearchFields = []string{"name", "date_of_joining"}

type WizardFilter struct {
	Role *Role `json:"role" form:"role"`
}

/**********************************************
*     Wizard usecase interfaces and types      *
**********************************************/
type WizardUsecase interface {
	FindByID(ctx context.Context, id string) (*Wizard, error)
	FindAll(ctx context.Context) ([]*Wizard, error)
	Search(ctx context.Context, query *WizardQuery) ([]*Wizard, *Pagination, error)
	Register(ctx context.Context, req *WizardCreateRequest) (*Wizard, error)
	Update(ctx context.Context, req *WizardUpdateRequest) (*Wizard, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter *WizardFilter) (int64, error)
}

// WizardCreateRequest registers a new wizard. Role, join date and spell count are
// assigned by registration and cannot be chosen by the caller.
type WizardCreateRequest struct {
	Name       string `json:"name" form:"name" binding:"required,not_blank"`
	Age        int    `json:"age" form:"age" binding:"gte=0"`
	Speciality string `json:"speciality" form:"speciality"`
	Exp        int    `json:"exp" form:"exp" binding:"gte=0"`
}

type WizardUpdateRequest struct {
	ID            string  `json:"id" form:"id" binding:"required"`
	Name          *string `json:"name" form:"name" binding:"omitempty,not_blank"`
	Role          *Role   `json:"role" form:"role" binding:"omitempty,wizard_role"`
	Age           *int    `json:"age" form:"age" binding:"omitempty,gte=0"`
	Speciality    *string `json:"speciality" form:"speciality"`
	Exp           *int    `json:"exp" form:"exp" binding:"omitempty,gte=0"`
	DateOfJoining *string `json:"date_of_joining" form:"date_of_joining" binding:"omitempty,datetime=2006-01-02"`
	SpellsCreated *int    `json:"spells_created" form:"spells_created" binding:"omitempty,gte=0"`
	Version       *int64  `json:"version" form:"version"`
}

type WizardQuery struct {
	SearchField string   `json:"field" form:"field"`
	SearchValue string   `json:"q" form:"q"`
	Types       []string `json:"type" form:"type"`
	Roles       []string `json:"role" form:"role"`
	Page        int      `json:"page" form:"page"`
	PerPage     int      `json:"per_page" form:"per_page"`
}

func (q *WizardQuery) Filters() map[string][]string {
	return map[string][]string{
		"type": q.Types,
		"role": q.Roles,
	}
}
