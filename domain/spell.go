package domain

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

/****************************
*       Spell errors        *
****************************/
var (
	ErrSpellNotFound = &DetailedError{
		IDField:         "SPELL_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Spell not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrSpellValidationFailed = &DetailedError{
		IDField:         "SPELL_VALIDATION_FAILED",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Spell validation failed",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrSpellIDRequired = &DetailedError{
		IDField:         "SPELL_ID_REQUIRED",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Spell ID is required",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrVersionConflict = &DetailedError{
		IDField:         "VERSION_CONFLICT",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "The record was changed by someone else, reload and try again",
		StatusCodeField: http.StatusConflict,
	}
)

/***************************************
*       Spell entities and types      *
***************************************/
type Difficulty string

const (
	DifficultyEasy       Difficulty = "Easy"
	DifficultyMedium     Difficulty = "Medium"
	DifficultyHard       Difficulty = "Hard"
	DifficultyVeryHard   Difficulty = "Very Hard"
	DifficultyImpossible Difficulty = "Impossible"
)

var Difficulties = []Difficulty{
	DifficultyEasy,
	DifficultyMedium,
	DifficultyHard,
	DifficultyVeryHard,
	DifficultyImpossible,
}

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyVeryHard, DifficultyImpossible:
		return true
	default:
		return false
	}
}

// SpellTypes lists the known spell types in display order.
var SpellTypes = []string{
	"Fire", "Water", "Lightning", "Ice", "Earth", "Air", "Dark", "Light",
	"Poison", "Shadow", "Nature", "Healing", "Illusion", "Portal", "Sky", "Strength",
}

var spellTypeIcons = map[string]string{
	"Fire":      "🔥",
	"Water":     "🌊",
	"Lightning": "⚡",
	"Ice":       "❄️",
	"Earth":     "🌍",
	"Air":       "🌪️",
	"Dark":      "🌑",
	"Light":     "🌟",
	"Poison":    "☠️",
	"Shadow":    "👤",
	"Nature":    "🌳",
	"Healing":   "❤️",
	"Illusion":  "👻",
	"Portal":    "🔮",
	"Sky":       "🌤️",
	"Strength":  "💪",
}

var typeCaser = cases.Title(language.English)

// CanonicalSpellType title-cases a spell type so "fire" and "FIRE" resolve to "Fire".
func CanonicalSpellType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}
	return typeCaser.String(strings.ToLower(t))
}

// SpellTypeIcon returns the icon of a spell type, or "" for unknown types.
func SpellTypeIcon(t string) string {
	return spellTypeIcons[CanonicalSpellType(t)]
}

// SpellTypeLabel renders a type the way filter options are labelled, e.g. "Fire 🔥".
func SpellTypeLabel(t string) string {
	icon := SpellTypeIcon(t)
	if icon == "" {
		return t
	}
	return CanonicalSpellType(t) + " " + icon
}

// MatchesSpellType compares a stored type against a filter value given either as the
// bare type or as its label.
func MatchesSpellType(stored, filterValue string) bool {
	if stored == "" {
		return false
	}
	filterValue = strings.TrimSpace(filterValue)
	return filterValue == SpellTypeLabel(stored) ||
		strings.EqualFold(filterValue, stored) ||
		strings.EqualFold(filterValue, CanonicalSpellType(stored))
}

// SpellProtectedFields are never overwritten by an update.
var SpellProtectedFields = []string{"id", "created_by", "date_of_creation"}

type Spell struct {
	ID              string      `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name            string      `json:"name" gorm:"type:varchar(100);not null"`
	Type            string      `json:"type" gorm:"type:varchar(50);index"`
	Description     string      `json:"description" gorm:"type:text"`
	Steps           StringSlice `json:"steps" gorm:"type:jsonb"`
	DifficultyLevel Difficulty  `json:"difficulty_level" gorm:"type:varchar(20)"`
	CreatedBy       string      `json:"created_by" gorm:"type:varchar(100)"`
	DateOfCreation  string      `json:"date_of_creation" gorm:"type:varchar(10)"`
	Version         int64       `json:"version" gorm:"not null;default:1"`
	CreatedAt       int64       `json:"-" gorm:"autoCreateTime:milli"`
	UpdatedAt       int64       `json:"-" gorm:"autoUpdateTime:milli"`
}

func (s *Spell) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrSpellValidationFailed.WithError("name must be not empty")
	}
	if s.DifficultyLevel != "" && !s.DifficultyLevel.IsValid() {
		return ErrSpellValidationFailed.WithErrorf("difficulty_level %q is invalid", s.DifficultyLevel)
	}
	return nil
}

// Apply merges the caller-supplied fields of req onto s. Protected fields are left untouched.
func (s *Spell) Apply(req *SpellUpdateRequest) {
	if req.Name != nil {
		s.Name = *req.Name
	}
	if req.Type != nil {
		s.Type = *req.Type
	}
	if req.Description != nil {
		s.Description = *req.Description
	}
	if req.Steps != nil {
		s.Steps = NewStringSlice(*req.Steps)
	}
	if req.DifficultyLevel != nil {
		s.DifficultyLevel = *req.DifficultyLevel
	}
}

func (s *Spell) TypeIcon() string {
	return SpellTypeIcon(s.Type)
}

// SearchValue returns the stringified value of a searchable field.
func (s *Spell) SearchValue(field string) (string, bool) {
	switch field {
	case "name":
		return s.Name, true
	case "created_by":
		return s.CreatedBy, true
	case "date_of_creation":
		return s.DateOfCreation, true
	}
	return "", false
}

func (s *Spell) MatchesFilter(category, value string) bool {
	switch category {
	case "type":
		return MatchesSpellType(s.Type, value)
	case "difficulty":
		return string(s.DifficultyLevel) == value
	}
	return false
}

var SpellSearchFields = []string{"name", "created_by", "date_of_creation"}

type SpellFilter struct {
	CreatedBy *string `json:"created_by" form:"created_by"`
}

/**********************************************
*      Spell usecase interfaces and types      *
**********************************************/
type SpellUsecase interface {
	FindByID(ctx context.Context, id string) (*Spell, error)
	FindAll(ctx context.Context) ([]*Spell, error)
	Search(ctx context.Context, query *SpellQuery) ([]*Spell, *Pagination, error)
	Create(ctx context.Context, req *SpellCreateRequest) (*Spell, error)
	CreateMany(ctx context.Context, reqs []*SpellCreateRequest) ([]*Spell, error)
	Update(ctx context.Context, req *SpellUpdateRequest) (*Spell, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter *SpellFilter) (int64, error)
}

type SpellCreateRequest struct {
	Name            string     `json:"name" form:"name" binding:"required,not_blank"`
	Type            string     `json:"type" form:"type"`
	Description     string     `json:"description" form:"description"`
	Steps           []string   `json:"steps" form:"steps"`
	DifficultyLevel Difficulty `json:"difficulty_level" form:"difficulty_level" binding:"omitempty,spell_difficulty"`
	CreatedBy       string     `json:"created_by" form:"created_by"`
	DateOfCreation  string     `json:"date_of_creation" form:"date_of_creation" binding:"omitempty,datetime=2006-01-02"`
}

// SpellUpdateRequest carries the fields a caller wants changed. created_by and
// date_of_creation are accepted so whole records can be sent back, but never applied.
type SpellUpdateRequest struct {
	ID              string      `json:"id" form:"id" binding:"required"`
	Name            *string     `json:"name" form:"name" binding:"required,not_blank"`
	Type            *string     `json:"type" form:"type"`
	Description     *string     `json:"description" form:"description"`
	Steps           *[]string   `json:"steps" form:"steps"`
	DifficultyLevel *Difficulty `json:"difficulty_level" form:"difficulty_level" binding:"omitempty,spell_difficulty"`
	CreatedBy       *string     `json:"created_by" form:"created_by"`
	DateOfCreation  *string     `json:"date_of_creation" form:"date_of_creation"`
	Version         *int64      `json:"version" form:"version"`
}

type DeleteRequest struct {
	ID string `json:"id" binding:"required"`
}

type SpellQuery struct {
	SearchField  string   `json:"field" form:"field"`
	SearchValue  string   `json:"q" form:"q"`
	Types        []string `json:"type" form:"type"`
	Difficulties []string `json:"difficulty" form:"difficulty"`
	Page         int      `json:"page" form:"page"`
	PerPage      int      `json:"per_page" form:"per_page"`
}

func (q *SpellQuery) Filters() map[string][]string {
	return map[string][]string{
		"type":       q.Types,
		"difficulty": q.Difficulties,
	}
}
