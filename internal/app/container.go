package app

import (
	"fmt"
	"log"
	"os"

	"skill-compass/internal/catalog"
	"skill-compass/internal/config"
	"skill-compass/internal/infrastructure/cache"
	"skill-compass/internal/infrastructure/llm"
	"skill-compass/internal/infrastructure/persistence/jsonfile"
	"skill-compass/internal/infrastructure/persistence/postgres"
	"skill-compass/internal/pkg/jwt"
	"skill-compass/internal/repository"
	ucadmin "skill-compass/internal/usecase/admin"
	ucassessment "skill-compass/internal/usecase/assessment"
	ucauth "skill-compass/internal/usecase/auth"
	ucfeedback "skill-compass/internal/usecase/feedback"
	ucinterview "skill-compass/internal/usecase/interview"
	ucprofile "skill-compass/internal/usecase/profile"
	ucscoring "skill-compass/internal/usecase/scoring"
)

// Container wires configuration, reference data, infrastructure and the
// usecase services together. Everything the HTTP layer needs hangs off it.
type Container struct {
	Config config.Config

	Rules        catalog.Rules
	GapCatalog   catalog.GapCatalog
	QuestionBank []catalog.Question

	Records repository.UserRecordStore
	Redis   *cache.Redis
	LLM     *llm.Client
	JWT     jwt.Service

	Auth       *ucauth.Service
	Profile    *ucprofile.Service
	Interview  *ucinterview.Service
	Assessment *ucassessment.Service
	Feedback   *ucfeedback.Service
	Admin      *ucadmin.Service
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	// The rules and the question bank are load-bearing: without them no
	// evaluation or interview can run. The gap catalog degrades internally.
	rules, err := catalog.LoadRules(cfg.Data.JobRulesPath, cfg.Data.CourseCatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	bank, err := catalog.LoadQuestionBank(cfg.Data.QuestionBankPath)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	gaps := catalog.LoadGapCatalog(cfg.Data.GapCatalogPath)

	records, err := newRecordStore(cfg)
	if err != nil {
		return nil, err
	}

	jwtSvc := jwt.NewHMACService(
		cfg.Auth.JWTSecret,
		cfg.Auth.JWTRefreshSecret,
		cfg.Auth.AccessExpiresIn,
		cfg.Auth.RefreshExpiresIn,
	)

	redisCache := cache.NewRedis(logger)
	llmClient := llm.NewClient(logger)
	var completer ucscoring.Completer
	if llmClient.Enabled() {
		completer = llmClient
	} else {
		logger.Printf("[App] LLM disabled, scoring and feedback run on fallbacks")
	}

	scoringSvc := ucscoring.NewService(completer, cache.NewMemo(), logger)

	c := &Container{
		Config:       cfg,
		Rules:        rules,
		GapCatalog:   gaps,
		QuestionBank: bank,
		Records:      records,
		Redis:        redisCache,
		LLM:          llmClient,
		JWT:          jwtSvc,
		Auth:         ucauth.NewService(jwtSvc, records),
		Profile:      ucprofile.NewService(records),
		Interview:    ucinterview.NewService(bank, scoringSvc, records, logger),
		Assessment:   ucassessment.NewService(rules, gaps, records, logger),
		Feedback:     ucfeedback.NewService(completer, rules.CourseCatalog, cache.NewMemo(), logger).WithSharedCache(redisCache),
		Admin:        ucadmin.NewService(cfg.Auth.AdminPasswordHash, records),
	}
	return c, nil
}

// newRecordStore picks Postgres when a database host is configured and the
// JSON file store otherwise.
func newRecordStore(cfg config.Config) (repository.UserRecordStore, error) {
	if cfg.Database.Enabled() {
		db, err := postgres.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store, err := postgres.NewUserRecordStore(db)
		if err != nil {
			return nil, fmt.Errorf("init user record store: %w", err)
		}
		return store, nil
	}
	return jsonfile.NewStore(cfg.Data.UsersPath), nil
}

func (c *Container) Close() error {
	if c == nil || c.Records == nil {
		return nil
	}
	return c.Records.Close()
}
