package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wiz-academy/bootstrap"
	"wiz-academy/common"
	"wiz-academy/config"
	"wiz-academy/database"
	"wiz-academy/middleware"
	dashboardWeb "wiz-academy/modules/dashboard/delivery/web"
	roleAPI "wiz-academy/modules/role/delivery/api"
	roleRepo "wiz-academy/modules/role/repository"
	roleUC "wiz-academy/modules/role/usecase"
	sessionAPI "wiz-academy/modules/session/delivery/api"
	sessionUC "wiz-academy/modules/session/usecase"
	spellAPI "wiz-academy/modules/spell/delivery/api"
	spellRepo "wiz-academy/modules/spell/repository"
	spellUC "wiz-academy/modules/spell/usecase"
	wizardAPI "wiz-academy/modules/wizard/delivery/api"
	wizardRepo "wiz-academy/modules/wizard/repository"
	wizardUC "wiz-academy/modules/wizard/usecase"
	"wiz-academy/pkg/cache"
	"wiz-academy/pkg/log"
	"wiz-academy/pkg/metrics"
	"wiz-academy/pkg/view"
	"wiz-academy/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	// Parse command line flags
	envPath := flag.String("env-file", "", "ENV config file path")
	yamlPath := flag.String("config", "./config/config.yml", "YAML config file path")
	seed := flag.Bool("seed", false, "create demo wizards and spells before serving")
	seedWizards := flag.Int("seed-wizards", 20, "number of random wizards created by -seed")
	seedSpells := flag.Int("seed-spells", 40, "number of random spells created by -seed")
	seedValue := flag.Int64("seed-value", 0, "random seed for -seed, 0 picks one from the clock")
	flag.Parse()

	if *envPath == "" {
		fmt.Printf("App is starting with config path is '%s' and no load env file\n", *yamlPath)
	} else {
		fmt.Printf("App is starting with config path is '%s' and env path is '%s'...\n", *yamlPath, *envPath)
	}

	cfg, err := config.Load(*yamlPath, *envPath)
	if err != nil {
		panic(fmt.Errorf("failed to load config: %w", err))
	}

	if err = config.Validate(cfg); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(fmt.Errorf("failed to create logger: %w", err))
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Printf("Failed to sync logger: %v\n", err)
		}
	}()

	// Set logger for common package using adapter and as default logger
	loggerAdapter := common.NewLoggerAdapter(logger)
	common.SetLogger(loggerAdapter)
	log.SetDefaultLogger(logger)
	validator.RegisterValidatorWithGin()

	logger.Info("Application starting",
		log.String("name", cfg.App().Name()),
		log.String("version", cfg.App().Version()),
		log.String("environment", cfg.App().Environment()),
		log.String("config_path", *yamlPath),
	)

	db, err := database.Connect(cfg.Database(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", log.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("Failed to close database", log.Error(err))
		}
	}()

	if err = database.MigrateDB(db); err != nil {
		logger.Fatal("Failed to migrate database", log.Error(err))
	}

	logger.Info("Database connected and migrated successfully")

	// Cache backs the roles document, sessions and rate limiting
	cacheConfig := &cache.Config{
		Host:       cfg.Redis().Host(),
		Port:       cfg.Redis().Port(),
		Password:   cfg.Redis().Password(),
		DB:         cfg.Redis().DB(),
		PoolSize:   cfg.Redis().PoolSize(),
		DefaultTTL: cfg.Cache().DefaultTTL(),
		MaxSize:    cfg.Cache().MaxSize(),
	}

	cacheFactory := cache.NewCacheFactory(loggerAdapter)
	cacheClient, err := cacheFactory.CreateCache(cache.Provider(cfg.Cache().Provider()), cacheConfig)
	if err != nil {
		logger.Fatal("Failed to create cache", log.String("provider", cfg.Cache().Provider()), log.Error(err))
	}
	defer cacheClient.Close()

	logger.Info("Cache connected successfully", log.String("provider", cfg.Cache().Provider()))

	// Initialize repositories
	spellRepository := spellRepo.NewSpellRepository(db)
	wizardRepository := wizardRepo.NewWizardRepository(db)
	roleRepository := roleRepo.NewCachedRoleRepository(
		roleRepo.NewRoleRepository(db),
		cacheClient,
		cfg.Cache().RolesTTL(),
		logger,
	)

	// Initialize usecases
	spellUsecase := spellUC.NewSpellUsecase(spellRepository)
	wizardUsecase := wizardUC.NewWizardUsecase(wizardRepository)
	roleUsecase := roleUC.NewRoleUsecase(roleRepository)
	sessionUsecase := sessionUC.NewSessionUsecase(wizardUsecase, roleUsecase, cacheClient, cfg.Session().TTL(), logger)

	ctx := context.Background()
	if err := bootstrap.NewRolesSeeder(roleUsecase, logger).Seed(ctx); err != nil {
		logger.Fatal("Failed to initialize roles document", log.Error(err))
	}

	if *seed {
		seeder := bootstrap.NewDemoDataSeeder(wizardRepository, spellUsecase, bootstrap.DemoDataConfig{
			NoviceWizardID:      cfg.Dashboard().NoviceWizardID(),
			MasterWizardID:      cfg.Dashboard().MasterWizardID(),
			GrandmasterWizardID: cfg.Dashboard().GrandmasterWizardID(),
			RandomWizards:       *seedWizards,
			RandomSpells:        *seedSpells,
			Seed:                *seedValue,
		}, logger)
		if err := seeder.Seed(ctx); err != nil {
			// Don't fail the application, just log the error
			logger.Error("Failed to seed demo data", log.Error(err))
		}
	}

	appMetrics := metrics.New()

	// Initialize dependencies for middlewares
	deps := middleware.Dependencies{
		Cache:    cacheClient,
		Logger:   logger,
		Sessions: sessionUsecase,
		Roles:    roleUsecase,
		Metrics:  appMetrics,
		APIRateLimit: middleware.RateLimitConfig{
			WindowSize:  cfg.RateLimit().Window(),
			MaxRequests: cfg.RateLimit().APIMaxRequests(),
		},
		WriteRateLimit: middleware.RateLimitConfig{
			WindowSize:  cfg.RateLimit().Window(),
			MaxRequests: cfg.RateLimit().WriteMaxRequests(),
		},
		EnforcePermissions: cfg.Permissions().Enforce(),
		SecureCookies:      cfg.Session().SecureCookie(),
	}

	// Create middlewares instance
	middlewares := middleware.NewMiddlewares(deps)

	// Initialize handlers
	spellHandler := spellAPI.NewSpellHandler(spellUsecase, middlewares)
	wizardHandler := wizardAPI.NewWizardHandler(wizardUsecase, middlewares)
	roleHandler := roleAPI.NewRoleHandler(roleUsecase, middlewares)
	sessionHandler := sessionAPI.NewSessionHandler(sessionUsecase, middlewares, cfg.Session().SecureCookie())
	dashboardHandler := dashboardWeb.NewDashboardHandler(
		spellUsecase,
		wizardUsecase,
		roleUsecase,
		sessionUsecase,
		middlewares,
		view.MustNewEngine(),
		dashboardWeb.Config{
			NoviceWizardID:      cfg.Dashboard().NoviceWizardID(),
			MasterWizardID:      cfg.Dashboard().MasterWizardID(),
			GrandmasterWizardID: cfg.Dashboard().GrandmasterWizardID(),
			SecureCookies:       cfg.Session().SecureCookie(),
		},
		logger,
	)

	// Disable Gin's default logger and recovery
	gin.DisableConsoleColor()
	if cfg.App().IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin server without default middleware
	r := gin.New()

	// Add custom middleware in order
	r.Use(middlewares.RequestIDMiddleware())
	r.Use(middlewares.LoggingMiddleware(middleware.LoggerConfig{
		SkipPaths: []string{"/health", "/metrics"},
	}))
	r.Use(gin.Recovery())
	corsConfig := middleware.DefaultCORSConfig()
	if origins := cfg.Server().AllowedOrigins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	}
	r.Use(middlewares.CORSWithLogger(corsConfig))
	r.Use(middlewares.SecurityHeaders(middleware.SecurityConfig{
		IsDevelopment:         !cfg.App().IsProduction(),
		ContentSecurityPolicy: middleware.DefaultSecurityConfig().ContentSecurityPolicy,
	}))
	r.Use(appMetrics.Middleware())

	// Register routes
	apiGroup := r.Group("/api")
	if cfg.RateLimit().Enabled() {
		apiGroup.Use(middlewares.APIRateLimits(), middlewares.WriteRateLimits())
	}
	spellHandler.RegisterRoutes(apiGroup)
	wizardHandler.RegisterRoutes(apiGroup)
	roleHandler.RegisterRoutes(apiGroup)
	sessionHandler.RegisterRoutes(apiGroup)

	dashboardHandler.RegisterRoutes(&r.RouterGroup)

	// Add health check endpoint
	r.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if err := cacheClient.Ping(c.Request.Context()); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "timestamp": time.Now().Unix()})
	})
	r.GET("/metrics", gin.WrapH(appMetrics.Handler()))
	r.NoRoute(common.RouteNotFound)

	// Graceful shutdown setup
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server().Host(), cfg.Server().Port()),
		Handler:        r,
		ReadTimeout:    cfg.Server().ReadTimeout(),
		WriteTimeout:   cfg.Server().WriteTimeout(),
		IdleTimeout:    cfg.Server().IdleTimeout(),
		MaxHeaderBytes: cfg.Server().MaxHeaderBytes(),
	}

	// Run server in goroutine
	go func() {
		logger.Info("Starting HTTP server",
			log.Int("port", cfg.Server().Port()),
			log.String("host", cfg.Server().Host()),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", log.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server().ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", log.Error(err))
	} else {
		logger.Info("Server exited gracefully")
	}
}

// newLogger builds the service logger from the logger section. Production logs are JSON
// written to stdout and the rotated log file.
func newLogger(cfg config.Config) (log.Logger, error) {
	lc := log.DevelopmentConfig()
	if cfg.App().IsProduction() {
		lc = log.ProductionConfig(cfg.App().Name(), cfg.App().Version())
	}
	lc.ServiceName = cfg.App().Name()
	lc.Version = cfg.App().Version()
	if level := cfg.Logger().LogLevel(); level != "" {
		lc.Level = level
	}
	if format := cfg.Logger().Format(); format != "" {
		lc.Format = format
	}
	if cfg.App().IsProduction() {
		lc.OutputPath = "stdout," + cfg.Logger().FilePath()
	}
	lc.FileMaxSizeInMB = cfg.Logger().MaxFileSizeMB()
	lc.FileMaxAgeInDays = cfg.Logger().MaxFileAgeDays()
	lc.FileMaxBackups = cfg.Logger().MaxBackupFiles()
	lc.CompressRotated = cfg.Logger().IsCompressEnabled()
	return log.NewZapLogger(lc)
}
