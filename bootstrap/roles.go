package bootstrap

import (
	"context"

	"wiz-academy/domain"
	"wiz-academy/pkg/log"
)

// RolesSeeder makes sure a roles document exists before the server takes traffic.
type RolesSeeder struct {
	roles  domain.RoleUsecase
	logger log.Logger
}

func NewRolesSeeder(roles domain.RoleUsecase, logger log.Logger) *RolesSeeder {
	return &RolesSeeder{roles: roles, logger: logger}
}

func (s *RolesSeeder) Seed(ctx context.Context) error {
	s.logger.Info("Initializing roles document...")

	doc, created, err := s.roles.EnsureDefault(ctx)
	if err != nil {
		s.logger.Error("Failed to initialize roles document", log.Error(err))
		return err
	}

	if !created {
		s.logger.Info("Roles document already exists, skipping",
			log.Int("granted_to_master", len(doc.Master.Granted())),
			log.Int("granted_to_novice", len(doc.Novice.Granted())),
		)
		return nil
	}

	s.logger.Info("Created default roles document")
	return nil
}
