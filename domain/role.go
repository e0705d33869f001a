package domain

import (
	"context"
	"database/sql/driver"
	"fmt"
	"net/http"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

/****************************
*        Role errors        *
****************************/
var (
	ErrRolesNotFound = &DetailedError{
		IDField:         "ROLES_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Roles document not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrRolesValidationFailed = &DetailedError{
		IDField:         "ROLES_VALIDATION_FAILED",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Roles document validation failed",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrInvalidRole = &DetailedError{
		IDField:         "INVALID_ROLE",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Invalid role",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrPermissionDenied = &DetailedError{
		IDField:         "PERMISSION_DENIED",
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "Your role does not allow this action",
		StatusCodeField: http.StatusForbidden,
	}
)

/***************************************
*       Role entities and types       *
***************************************/
type Role string

const (
	RoleNovice      Role = "novice"
	RoleMaster      Role = "master"
	RoleGrandmaster Role = "grandmaster"
)

// Roles lists every role from the lowest tier to the highest.
var Roles = []Role{RoleNovice, RoleMaster, RoleGrandmaster}

var roleDisplayNames = map[Role]string{
	RoleNovice:      "Novice",
	RoleMaster:      "Master",
	RoleGrandmaster: "Grand Master",
}

// ParseRole accepts a role key ("grandmaster") or a display name ("Grand Master").
func ParseRole(s string) (Role, error) {
	key := strings.ToLower(strings.Join(strings.Fields(s), ""))
	r := Role(key)
	if !r.IsValid() {
		return "", ErrInvalidRole.WithErrorf("invalid role %q, must be one of novice, master, grandmaster", s)
	}
	return r, nil
}

func (r Role) IsValid() bool {
	_, ok := roleDisplayNames[r]
	return ok
}

func (r Role) DisplayName() string {
	if name, ok := roleDisplayNames[r]; ok {
		return name
	}
	return string(r)
}

// Canonical returns the role key for display-name input, or r unchanged when it cannot be parsed.
func (r Role) Canonical() Role {
	if parsed, err := ParseRole(string(r)); err == nil {
		return parsed
	}
	return r
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type Permission string

const (
	PermSpellsView    Permission = "spells-view"
	PermSpellsAdd     Permission = "spells-add"
	PermSpellsDelete  Permission = "spells-delete"
	PermSpellsModify  Permission = "spells-modify"
	PermWizardsView   Permission = "wizards-view"
	PermWizardsAdd    Permission = "wizards-add"
	PermWizardsDelete Permission = "wizards-delete"
	PermWizardsModify Permission = "wizards-modify"
)

// AllPermissions is the complete key set of a permission record.
var AllPermissions = []Permission{
	PermSpellsView,
	PermSpellsAdd,
	PermSpellsDelete,
	PermSpellsModify,
	PermWizardsView,
	PermWizardsAdd,
	PermWizardsDelete,
	PermWizardsModify,
}

var permissionLabels = map[Permission]string{
	PermSpellsView:    "View spells",
	PermSpellsAdd:     "Create spells",
	PermSpellsDelete:  "Delete spells",
	PermSpellsModify:  "Modify spells",
	PermWizardsView:   "View wizards",
	PermWizardsAdd:    "Add wizards",
	PermWizardsDelete: "Delete wizards",
	PermWizardsModify: "Modify wizards",
}

func (p Permission) IsValid() bool {
	_, ok := permissionLabels[p]
	return ok
}

func (p Permission) Label() string {
	return permissionLabels[p]
}

// Permissions is the fixed-shape permission record of a single role.
type Permissions struct {
	SpellsView    bool `json:"spells-view"`
	SpellsAdd     bool `json:"spells-add"`
	SpellsDelete  bool `json:"spells-delete"`
	SpellsModify  bool `json:"spells-modify"`
	WizardsView   bool `json:"wizards-view"`
	WizardsAdd    bool `json:"wizards-add"`
	WizardsDelete bool `json:"wizards-delete"`
	WizardsModify bool `json:"wizards-modify"`
}

func FullPermissions() Permissions {
	return Permissions{
		SpellsView:    true,
		SpellsAdd:     true,
		SpellsDelete:  true,
		SpellsModify:  true,
		WizardsView:   true,
		WizardsAdd:    true,
		WizardsDelete: true,
		WizardsModify: true,
	}
}

func (p *Permissions) flag(perm Permission) *bool {
	switch perm {
	case PermSpellsView:
		return &p.SpellsView
	case PermSpellsAdd:
		return &p.SpellsAdd
	case PermSpellsDelete:
		return &p.SpellsDelete
	case PermSpellsModify:
		return &p.SpellsModify
	case PermWizardsView:
		return &p.WizardsView
	case PermWizardsAdd:
		return &p.WizardsAdd
	case PermWizardsDelete:
		return &p.WizardsDelete
	case PermWizardsModify:
		return &p.WizardsModify
	}
	return nil
}

func (p Permissions) Has(perm Permission) bool {
	if f := p.flag(perm); f != nil {
		return *f
	}
	return false
}

func (p *Permissions) Set(perm Permission, value bool) error {
	f := p.flag(perm)
	if f == nil {
		return ErrRolesValidationFailed.WithErrorf("unknown permission %q", perm)
	}
	*f = value
	return nil
}

// Granted lists the permissions set to true, in AllPermissions order.
func (p Permissions) Granted() []Permission {
	granted := make([]Permission, 0, len(AllPermissions))
	for _, perm := range AllPermissions {
		if p.Has(perm) {
			granted = append(granted, perm)
		}
	}
	return granted
}

// UnmarshalJSON rejects keys outside the permission key set. Missing keys stay false.
func (p *Permissions) UnmarshalJSON(b []byte) error {
	var raw map[string]bool
	if err := json.Unmarshal(b, &raw); err != nil {
		return ErrRolesValidationFailed.WithErrorf("permissions must be an object of booleans: %v", err)
	}
	var out Permissions
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := out.Set(Permission(k), raw[k]); err != nil {
			return err
		}
	}
	*p = out
	return nil
}

func (p Permissions) Value() (driver.Value, error) {
	type plain Permissions
	val, err := json.Marshal(plain(p))
	if err != nil {
		return nil, err
	}
	return string(val), nil
}

func (p *Permissions) Scan(input interface{}) error {
	switch v := input.(type) {
	case []byte:
		return p.UnmarshalJSON(v)
	case string:
		return p.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into Permissions", input)
	}
}

func (Permissions) GormDataType() string {
	return "jsonb"
}

// RolesDocumentID is the fixed key of the singleton roles document.
const RolesDocumentID = "rolesDocument"

// RolesDocument maps every role to its permission record.
type RolesDocument struct {
	ID          string      `json:"id" gorm:"type:varchar(36);primaryKey"`
	Novice      Permissions `json:"novice" gorm:"type:jsonb;not null"`
	Master      Permissions `json:"master" gorm:"type:jsonb;not null"`
	Grandmaster Permissions `json:"grandmaster" gorm:"type:jsonb;not null"`
	UpdatedAt   int64       `json:"updated_at" gorm:"autoUpdateTime:milli"`
}

func (RolesDocument) TableName() string {
	return "roles"
}

// DefaultRolesDocument grants nothing to novices and masters.
func DefaultRolesDocument() *RolesDocument {
	return &RolesDocument{
		ID:          RolesDocumentID,
		Grandmaster: FullPermissions(),
	}
}

// UnmarshalJSON decodes a full replacement document. Roles absent from the payload
// decode as all-false; unknown top-level keys are rejected.
func (d *RolesDocument) UnmarshalJSON(b []byte) error {
	var raw map[string]jsoniter.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return ErrRolesValidationFailed.WithErrorf("roles document must be a JSON object: %v", err)
	}
	out := RolesDocument{ID: RolesDocumentID}
	for key, value := range raw {
		switch key {
		case "id":
			var id string
			if err := json.Unmarshal(value, &id); err != nil {
				return ErrRolesValidationFailed.WithError("id must be a string")
			}
			if id != "" && id != RolesDocumentID {
				return ErrRolesValidationFailed.WithErrorf("id must be %q", RolesDocumentID)
			}
		case "updated_at":
		default:
			role := Role(key)
			if !role.IsValid() {
				return ErrRolesValidationFailed.WithErrorf("unknown role %q", key)
			}
			perms := out.PermissionsFor(role)
			if err := perms.UnmarshalJSON(value); err != nil {
				return err
			}
			out.SetPermissions(role, *perms)
		}
	}
	*d = out
	return nil
}

// PermissionsFor returns the record of role, or nil for an unknown role.
func (d *RolesDocument) PermissionsFor(role Role) *Permissions {
	switch role {
	case RoleNovice:
		return &d.Novice
	case RoleMaster:
		return &d.Master
	case RoleGrandmaster:
		return &d.Grandmaster
	}
	return nil
}

// SetPermissions replaces the record of role. The grandmaster record is never lowered.
func (d *RolesDocument) SetPermissions(role Role, perms Permissions) {
	if role == RoleGrandmaster {
		d.Grandmaster = FullPermissions()
		return
	}
	if target := d.PermissionsFor(role); target != nil {
		*target = perms
	}
}

// Toggle flips one flag of role. Toggling the grandmaster is a no-op.
func (d *RolesDocument) Toggle(role Role, perm Permission) error {
	if !role.IsValid() {
		return ErrInvalidRole.WithErrorf("invalid role %q", role)
	}
	if !perm.IsValid() {
		return ErrRolesValidationFailed.WithErrorf("unknown permission %q", perm)
	}
	if role == RoleGrandmaster {
		return nil
	}
	perms := d.PermissionsFor(role)
	return perms.Set(perm, !perms.Has(perm))
}

// Allows reports whether role holds perm. The grandmaster holds every permission.
func (d *RolesDocument) Allows(role Role, perm Permission) bool {
	if role == RoleGrandmaster {
		return perm.IsValid()
	}
	if d == nil {
		return false
	}
	perms := d.PermissionsFor(role)
	return perms != nil && perms.Has(perm)
}

// Normalize pins the id and restores the grandmaster invariant.
func (d *RolesDocument) Normalize() {
	d.ID = RolesDocumentID
	d.Grandmaster = FullPermissions()
}

/**********************************************
*       Role usecase interfaces and types      *
**********************************************/
// RoleToggleRequest flips a single permission of one role.
type RoleToggleRequest struct {
	Role       Role       `json:"role" form:"role" binding:"required"`
	Permission Permission `json:"permission" form:"permission" binding:"required"`
}

type RoleUsecase interface {
	Get(ctx context.Context) (*RolesDocument, error)
	Replace(ctx context.Context, doc *RolesDocument) (*RolesDocument, error)
	Toggle(ctx context.Context, role Role, perm Permission) (*RolesDocument, error)
	EnsureDefault(ctx context.Context) (*RolesDocument, bool, error)
}
