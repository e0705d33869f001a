package domain

import (
	"context"
	"net/http"
	"time"
)

/****************************
*      Session errors       *
****************************/
var (
	ErrSessionNotFound = &DetailedError{
		IDField:         "SESSION_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "No active session, pick a wizard first",
		StatusCodeField: http.StatusUnauthorized,
	}
	ErrSessionRequired = &DetailedError{
		IDField:         "SESSION_REQUIRED",
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "This action requires an active session",
		StatusCodeField: http.StatusUnauthorized,
	}
)

/***************************************
*      Session entities and types     *
***************************************/

// Session is the explicit client state: the wizard acting in the dashboard and the
// permissions of its role at the time the session started.
type Session struct {
	ID          string      `json:"id"`
	Wizard      Wizard      `json:"wizard"`
	Role        Role        `json:"role"`
	Permissions Permissions `json:"permissions"`
	StartedAt   time.Time   `json:"started_at"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// Can reports whether the snapshot taken at start grants perm.
func (s *Session) Can(perm Permission) bool {
	if s == nil {
		return false
	}
	if s.Role == RoleGrandmaster {
		return perm.IsValid()
	}
	return s.Permissions.Has(perm)
}

func (s *Session) IsGrandmaster() bool {
	return s != nil && s.Role == RoleGrandmaster
}

func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// TTL is the remaining lifetime of the session.
func (s *Session) TTL(now time.Time) time.Duration {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}

/**********************************************
*     Session usecase interfaces and types     *
**********************************************/
type SessionUsecase interface {
	Start(ctx context.Context, wizardID string) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	// Refresh re-reads the wizard and the roles document, keeping the expiry.
	Refresh(ctx context.Context, id string) (*Session, error)
	End(ctx context.Context, id string) error
}

type SessionStartRequest struct {
	WizardID string `json:"wizard_id" form:"wizard_id" binding:"required"`
}
