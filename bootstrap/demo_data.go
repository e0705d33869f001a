package bootstrap

import (
	"context"
	"time"

	"wiz-academy/common"
	"wiz-academy/domain"
	"wiz-academy/pkg/log"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// DemoWizardStore writes wizards with ids chosen by the seeder.
type DemoWizardStore interface {
	FindByID(ctx context.Context, id string) (*domain.Wizard, error)
	Save(ctx context.Context, wizard *domain.Wizard) error
}

// DemoDataConfig holds configuration for demo data
type DemoDataConfig struct {
	NoviceWizardID      string
	MasterWizardID      string
	GrandmasterWizardID string
	RandomWizards       int
	RandomSpells        int
	// Seed makes the generated data reproducible. Zero picks one from the clock.
	Seed int64
}

// DemoWizard is one of the wizards the landing page links to.
type DemoWizard struct {
	ID         string
	Name       string
	Role       domain.Role
	Age        int
	Speciality string
	Exp        int
}

func GetDemoWizards(config DemoDataConfig) []DemoWizard {
	return []DemoWizard{
		{ID: config.NoviceWizardID, Name: "Elara Moonwhisper", Role: domain.RoleNovice, Age: 17, Speciality: "Light", Exp: 1},
		{ID: config.MasterWizardID, Name: "Thorne Emberheart", Role: domain.RoleMaster, Age: 46, Speciality: "Fire", Exp: 28},
		{ID: config.GrandmasterWizardID, Name: "Aldric Stormcrown", Role: domain.RoleGrandmaster, Age: 112, Speciality: "Lightning", Exp: 90},
	}
}

// DemoDataSeeder fills an empty academy with the landing-page wizards plus random
// wizards and spells.
type DemoDataSeeder struct {
	wizards DemoWizardStore
	spells  domain.SpellUsecase
	config  DemoDataConfig
	faker   *gofakeit.Faker
	logger  log.Logger
}

func NewDemoDataSeeder(
	wizards DemoWizardStore,
	spells domain.SpellUsecase,
	config DemoDataConfig,
	logger log.Logger,
) *DemoDataSeeder {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &DemoDataSeeder{
		wizards: wizards,
		spells:  spells,
		config:  config,
		faker:   gofakeit.New(uint64(seed)),
		logger:  logger,
	}
}

func (s *DemoDataSeeder) Seed(ctx context.Context) error {
	s.logger.Info("Seeding demo data...", log.Int64("seed", s.config.Seed))

	masters, err := s.seedDemoWizards(ctx)
	if err != nil {
		return err
	}

	for i := 0; i < s.config.RandomWizards; i++ {
		wizard := s.randomWizard()
		if err := s.wizards.Save(ctx, wizard); err != nil {
			s.logger.Error("Failed to create demo wizard", log.String("name", wizard.Name), log.Error(err))
			return err
		}
		if wizard.Role != domain.RoleNovice {
			masters = append(masters, wizard.Name)
		}
	}

	if s.config.RandomSpells > 0 {
		reqs := make([]*domain.SpellCreateRequest, 0, s.config.RandomSpells)
		for i := 0; i < s.config.RandomSpells; i++ {
			reqs = append(reqs, s.randomSpell(masters))
		}
		created, err := s.spells.CreateMany(ctx, reqs)
		if err != nil {
			s.logger.Error("Failed to create demo spells", log.Error(err))
			return err
		}
		s.logger.Info("Created demo spells", log.Int("count", len(created)))
	}

	s.logger.Info("Demo data seeding completed",
		log.Int("random_wizards", s.config.RandomWizards),
		log.Int("random_spells", s.config.RandomSpells),
	)
	return nil
}

// seedDemoWizards creates the landing-page wizards that do not exist yet and returns the
// names of those allowed to author spells.
func (s *DemoDataSeeder) seedDemoWizards(ctx context.Context) ([]string, error) {
	var authors []string
	for _, demo := range GetDemoWizards(s.config) {
		if demo.Role != domain.RoleNovice {
			authors = append(authors, demo.Name)
		}

		existing, err := s.wizards.FindByID(ctx, demo.ID)
		if err != nil && !common.IsRecordNotFound(err) {
			s.logger.Error("Failed to check existing wizard", log.WizardID(demo.ID), log.Error(err))
			return nil, err
		}
		if existing != nil {
			s.logger.Warn("Demo wizard already exists, skipping",
				log.WizardID(demo.ID),
				log.Role(string(existing.Role)),
			)
			continue
		}

		wizard := &domain.Wizard{
			ID:            demo.ID,
			Name:          demo.Name,
			Role:          demo.Role,
			Age:           demo.Age,
			Speciality:    demo.Speciality,
			Exp:           demo.Exp,
			DateOfJoining: domain.Today(),
			Version:       1,
		}
		if err := s.wizards.Save(ctx, wizard); err != nil {
			s.logger.Error("Failed to create demo wizard", log.WizardID(demo.ID), log.Error(err))
			return nil, err
		}
		s.logger.Info("Created demo wizard",
			log.WizardID(demo.ID),
			log.Role(string(demo.Role)),
			log.String("name", demo.Name),
		)
	}
	return authors, nil
}

func (s *DemoDataSeeder) randomWizard() *domain.Wizard {
	joined := s.faker.DateRange(time.Now().AddDate(-20, 0, 0), time.Now())
	return &domain.Wizard{
		ID:            uuid.NewString(),
		Name:          s.faker.Name(),
		Role:          domain.Roles[s.faker.Number(0, len(domain.Roles)-2)],
		Age:           s.faker.Number(14, 300),
		Speciality:    s.faker.RandomString(domain.SpellTypes),
		Exp:           s.faker.Number(0, 100),
		DateOfJoining: joined.Format(domain.DateLayout),
		SpellsCreated: s.faker.Number(0, 40),
		Version:       1,
	}
}

func (s *DemoDataSeeder) randomSpell(authors []string) *domain.SpellCreateRequest {
	difficulties := make([]string, 0, len(domain.Difficulties))
	for _, d := range domain.Difficulties {
		difficulties = append(difficulties, string(d))
	}

	steps := make([]string, s.faker.Number(2, 5))
	for i := range steps {
		steps[i] = s.faker.Sentence(s.faker.Number(3, 7))
	}

	spellType := s.faker.RandomString(domain.SpellTypes)
	req := &domain.SpellCreateRequest{
		Name:            spellType + " " + s.faker.Noun(),
		Type:            spellType,
		Description:     s.faker.Paragraph(1, 2, 8, " "),
		Steps:           steps,
		DifficultyLevel: domain.Difficulty(s.faker.RandomString(difficulties)),
		DateOfCreation:  s.faker.DateRange(time.Now().AddDate(-5, 0, 0), time.Now()).Format(domain.DateLayout),
	}
	if len(authors) > 0 {
		req.CreatedBy = s.faker.RandomString(authors)
	}
	return req
}
