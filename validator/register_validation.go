package validator

import (
	"strings"

	"wiz-academy/domain"

	"github.com/go-playground/validator/v10"
)

type Registration struct {
	Tag  string
	Func validator.Func
}

var defaultRegistrations = [...]Registration{
	{
		Tag:  NotBlank,
		Func: IsNotBlank,
	},
	{
		Tag:  SpellDifficulty,
		Func: IsValidSpellDifficulty,
	},
	{
		Tag:  WizardRole,
		Func: IsValidWizardRole,
	},
}

// IsNotBlank rejects strings made only of whitespace.
func IsNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func IsValidSpellDifficulty(fl validator.FieldLevel) bool {
	return domain.Difficulty(fl.Field().String()).IsValid()
}

// IsValidWizardRole accepts role keys and display names.
func IsValidWizardRole(fl validator.FieldLevel) bool {
	_, err := domain.ParseRole(fl.Field().String())
	return err == nil
}
