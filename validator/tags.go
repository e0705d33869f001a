package validator

const (
	Required        = "required"
	Datetime        = "datetime"
	Gte             = "gte"
	NotBlank        = "not_blank"
	SpellDifficulty = "spell_difficulty"
	WizardRole      = "wizard_role"
)
