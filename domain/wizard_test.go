package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWizard_Validate(t *testing.T) {
	assert.NoError(t, (&Wizard{Name: "Elara", Role: RoleNovice}).Validate())
	assert.ErrorIs(t, (&Wizard{Name: "", Role: RoleNovice}).Validate(), ErrWizardValidationFailed)
	assert.ErrorIs(t, (&Wizard{Name: "Elara", Role: "archmage"}).Validate(), ErrWizardValidationFailed)
	assert.ErrorIs(t, (&Wizard{Name: "Elara", Role: RoleNovice, Age: -1}).Validate(), ErrWizardValidationFailed)
	assert.ErrorIs(t, (&Wizard{Name: "Elara", Role: RoleNovice, Exp: -5}).Validate(), ErrWizardValidationFailed)
}

func TestWizard_Apply(t *testing.T) {
	w := &Wizard{ID: "12", Name: "Elara", Role: RoleNovice, Age: 17}
	role := Role("Grand Master")
	age := 18
	w.Apply(&WizardUpdateRequest{ID: "99", Role: &role, Age: &age})

	assert.Equal(t, "12", w.ID)
	assert.Equal(t, "Elara", w.Name)
	assert.Equal(t, RoleGrandmaster, w.Role)
	assert.Equal(t, 18, w.Age)
}

func TestWizard_MatchesFilter(t *testing.T) {
	w := &Wizard{Name: "Thorne", Role: RoleMaster, Speciality: "Fire"}
	assert.True(t, w.MatchesFilter("role", "Master"))
	assert.True(t, w.MatchesFilter("role", "master"))
	assert.False(t, w.MatchesFilter("role", "Grand Master"))
	assert.True(t, w.MatchesFilter("type", "Fire 🔥"))
	assert.Equal(t, "🔥", w.SpecialityIcon())
}

func TestPagination(t *testing.T) {
	p := NewPagination(2, 10, 3, 25)
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())

	last := NewPagination(3, 10, 3, 25)
	assert.False(t, last.HasNext())

	var none *Pagination
	assert.False(t, none.HasPrev())
}
