package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"wiz-academy/domain"
	"wiz-academy/pkg/cache"
	"wiz-academy/pkg/log"

	"github.com/google/uuid"
)

const DefaultSessionTTL = 24 * time.Hour

type sessionUsecase struct {
	wizards domain.WizardUsecase
	roles   domain.RoleUsecase
	cache   cache.Client
	ttl     time.Duration
	logger  log.Logger
	now     func() time.Time
}

func NewSessionUsecase(
	wizards domain.WizardUsecase,
	roles domain.RoleUsecase,
	client cache.Client,
	ttl time.Duration,
	logger log.Logger,
) domain.SessionUsecase {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &sessionUsecase{
		wizards: wizards,
		roles:   roles,
		cache:   client,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

func sessionKey(id string) string {
	return cache.Key("session", id)
}

// Start opens a session acting as wizardID, snapshotting the permissions its role
// holds right now.
func (u *sessionUsecase) Start(ctx context.Context, wizardID string) (*domain.Session, error) {
	session, err := u.build(ctx, wizardID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	session.ID = uuid.NewString()
	session.StartedAt = now
	session.ExpiresAt = now.Add(u.ttl)

	if err := u.store(ctx, session, now); err != nil {
		return nil, err
	}
	u.logger.InfoContext(ctx, "Session started",
		log.SessionID(session.ID),
		log.WizardID(session.Wizard.ID),
		log.Role(string(session.Role)),
	)
	return session, nil
}

func (u *sessionUsecase) build(ctx context.Context, wizardID string) (*domain.Session, error) {
	wizard, err := u.wizards.FindByID(ctx, wizardID)
	if err != nil {
		return nil, err
	}
	doc, err := u.roles.Get(ctx)
	if err != nil {
		return nil, err
	}
	role := wizard.Role.Canonical()
	session := &domain.Session{Wizard: *wizard, Role: role}
	if perms := doc.PermissionsFor(role); perms != nil {
		session.Permissions = *perms
	}
	return session, nil
}

func (u *sessionUsecase) store(ctx context.Context, session *domain.Session, now time.Time) error {
	ttl := session.TTL(now)
	if ttl <= 0 {
		return domain.ErrSessionNotFound
	}
	if err := cache.SetJSON(u.cache, ctx, sessionKey(session.ID), session, ttl); err != nil {
		return domain.ErrInternalServerError.WithTrace(err)
	}
	return nil
}

func (u *sessionUsecase) Get(ctx context.Context, id string) (*domain.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}
	var session domain.Session
	if err := cache.GetJSON(u.cache, ctx, sessionKey(id), &session); err != nil {
		if cache.IsNotFound(err) {
			return nil, domain.ErrSessionNotFound.WithWrap(err)
		}
		return nil, domain.ErrInternalServerError.WithTrace(err)
	}
	if session.IsExpired(u.now()) {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

// Refresh re-reads the acting wizard and its role's permissions, keeping the expiry.
// A session whose wizard no longer exists is ended.
func (u *sessionUsecase) Refresh(ctx context.Context, id string) (*domain.Session, error) {
	current, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session, err := u.build(ctx, current.Wizard.ID)
	if err != nil {
		if errors.Is(err, domain.ErrWizardNotFound) {
			if endErr := u.End(ctx, current.ID); endErr != nil {
				u.logger.WarnContext(ctx, "Failed to end orphaned session", log.SessionID(current.ID), log.Error(endErr))
			}
			return nil, domain.ErrSessionNotFound.WithWrap(err)
		}
		return nil, err
	}
	session.ID = current.ID
	session.StartedAt = current.StartedAt
	session.ExpiresAt = current.ExpiresAt

	if session.Role == current.Role &&
		session.Permissions == current.Permissions &&
		session.Wizard.Version == current.Wizard.Version {
		return session, nil
	}
	if err := u.store(ctx, session, u.now()); err != nil {
		return nil, err
	}
	if session.Role != current.Role {
		u.logger.InfoContext(ctx, "Session role changed",
			log.SessionID(session.ID),
			log.WizardID(session.Wizard.ID),
			log.String("previous_role", string(current.Role)),
			log.Role(string(session.Role)),
		)
	}
	return session, nil
}

func (u *sessionUsecase) End(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	if err := u.cache.Delete(ctx, sessionKey(id)); err != nil && !cache.IsNotFound(err) {
		return domain.ErrInternalServerError.WithTrace(err)
	}
	u.logger.InfoContext(ctx, "Session ended", log.SessionID(id))
	return nil
}
