package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"novice":       RoleNovice,
		"Master":       RoleMaster,
		"Grand Master": RoleGrandmaster,
		"grandmaster":  RoleGrandmaster,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseRole("archmage")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRolesDocument_UnmarshalJSON(t *testing.T) {
	var doc RolesDocument
	err := doc.UnmarshalJSON([]byte(`{
		"novice": {"spells-view": true},
		"master": {"spells-view": true, "spells-add": true},
		"grandmaster": {"spells-view": false}
	}`))
	require.NoError(t, err)

	assert.Equal(t, RolesDocumentID, doc.ID)
	assert.Equal(t, Permissions{SpellsView: true}, doc.Novice)
	assert.Equal(t, Permissions{SpellsView: true, SpellsAdd: true}, doc.Master)
	assert.Equal(t, FullPermissions(), doc.Grandmaster)
}

func TestRolesDocument_UnmarshalJSONRejectsUnknownKeys(t *testing.T) {
	var doc RolesDocument
	err := doc.UnmarshalJSON([]byte(`{"archmage": {}}`))
	assert.ErrorIs(t, err, ErrRolesValidationFailed)

	err = doc.UnmarshalJSON([]byte(`{"novice": {"spells-burn": true}}`))
	assert.ErrorIs(t, err, ErrRolesValidationFailed)

	err = doc.UnmarshalJSON([]byte(`{"novice": {"spells-view": "yes"}}`))
	assert.ErrorIs(t, err, ErrRolesValidationFailed)
}

func TestRolesDocument_Allows(t *testing.T) {
	doc := DefaultRolesDocument()
	assert.False(t, doc.Allows(RoleNovice, PermSpellsView))
	assert.False(t, doc.Allows(RoleMaster, PermWizardsAdd))
	assert.True(t, doc.Allows(RoleGrandmaster, PermWizardsDelete))
	assert.False(t, doc.Allows(RoleGrandmaster, Permission("spells-burn")))

	require.NoError(t, doc.Toggle(RoleMaster, PermWizardsAdd))
	assert.True(t, doc.Allows(RoleMaster, PermWizardsAdd))

	require.NoError(t, doc.Toggle(RoleGrandmaster, PermWizardsAdd))
	assert.True(t, doc.Allows(RoleGrandmaster, PermWizardsAdd))

	var missing *RolesDocument
	assert.False(t, missing.Allows(RoleMaster, PermSpellsView))
	assert.True(t, missing.Allows(RoleGrandmaster, PermSpellsView))
}

func TestRolesDocument_SetPermissionsKeepsGrandmasterFull(t *testing.T) {
	doc := DefaultRolesDocument()
	doc.SetPermissions(RoleGrandmaster, Permissions{})
	assert.Equal(t, FullPermissions(), doc.Grandmaster)

	doc.Grandmaster = Permissions{}
	doc.Normalize()
	assert.Equal(t, FullPermissions(), doc.Grandmaster)
}

func TestPermissions_ScanRoundTrip(t *testing.T) {
	p := Permissions{SpellsView: true, WizardsModify: true}
	v, err := p.Value()
	require.NoError(t, err)

	var out Permissions
	require.NoError(t, out.Scan(v))
	assert.Equal(t, p, out)
	assert.Equal(t, []Permission{PermSpellsView, PermWizardsModify}, out.Granted())
}

func TestSession_Can(t *testing.T) {
	s := &Session{Role: RoleMaster, Permissions: Permissions{SpellsAdd: true}}
	assert.True(t, s.Can(PermSpellsAdd))
	assert.False(t, s.Can(PermSpellsDelete))

	gm := &Session{Role: RoleGrandmaster}
	assert.True(t, gm.Can(PermSpellsDelete))

	var none *Session
	assert.False(t, none.Can(PermSpellsView))
}
