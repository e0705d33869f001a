package validator

import (
	"errors"
	"testing"

	"wiz-academy/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct_CustomTags(t *testing.T) {
	v := New()

	err := v.ValidateStruct(&domain.SpellCreateRequest{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"name": "name must not be blank"}, v.Translate(err))

	err = v.ValidateStruct(&domain.SpellCreateRequest{Name: "Fireball", DifficultyLevel: "Trivial"})
	require.Error(t, err)
	assert.Equal(t,
		"difficulty_level must be one of Easy, Medium, Hard, Very Hard, Impossible",
		v.Translate(err)["difficulty_level"])

	assert.NoError(t, v.ValidateStruct(&domain.SpellCreateRequest{Name: "Fireball", DifficultyLevel: domain.DifficultyVeryHard}))
}

func TestValidateStruct_WizardRole(t *testing.T) {
	v := New()
	good := domain.Role("Grand Master")
	bad := domain.Role("archmage")

	assert.NoError(t, v.ValidateStruct(&domain.WizardUpdateRequest{ID: "1", Role: &good}))

	err := v.ValidateStruct(&domain.WizardUpdateRequest{ID: "1", Role: &bad})
	require.Error(t, err)
	assert.Contains(t, v.Translate(err), "role")
}

func TestValidateStruct_Slice(t *testing.T) {
	v := New()
	reqs := []*domain.SpellCreateRequest{{Name: "Fireball"}, {Name: ""}}

	err := v.ValidateStruct(reqs)
	require.Error(t, err)
	assert.Contains(t, v.Translate(err), "name")

	assert.NoError(t, v.ValidateStruct(reqs[:1]))
}

func TestTranslate_NonValidationError(t *testing.T) {
	assert.Nil(t, New().Translate(errors.New("boom")))
}
