package validator

import (
	"errors"
	"log"

	enLocale "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

func (v *validatorImpl) initTranslator() {
	en := enLocale.New()
	v.uni = ut.New(en, en)

	trans, _ := v.uni.GetTranslator("en")
	v.translator = trans

	if err := en_translations.RegisterDefaultTranslations(v.validate, trans); err != nil {
		log.Printf("Failed to register English translations: %v", err)
	}
}

func (v *validatorImpl) registerCustomTranslations() {
	trans, ok := v.uni.GetTranslator("en")
	if !ok {
		panic("Translator for 'en' not found")
	}

	translations := map[string]string{
		NotBlank:        "{0} must not be blank",
		SpellDifficulty: "{0} must be one of Easy, Medium, Hard, Very Hard, Impossible",
		WizardRole:      "{0} must be one of Novice, Master, Grand Master",
	}

	for tag, message := range translations {
		tag, message := tag, message
		err := v.validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag, message, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(tag, fe.Field())
				return t
			},
		)
		if err != nil {
			log.Printf("Failed to register English translation for %s: %v", tag, err)
		}
	}
}

// Translate turns validation errors into a field -> message map. It returns nil when
// err does not come from the validator.
func (v *validatorImpl) Translate(err error) map[string]string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fe.Translate(v.translator)
	}
	return out
}
