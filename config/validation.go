package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Validate validates the configuration
func Validate(cfg Config) error {
	if err := validateApp(cfg.App()); err != nil {
		return fmt.Errorf("app config validation failed: %w", err)
	}

	if err := validateServer(cfg.Server()); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := validateDatabase(cfg.Database()); err != nil {
		return fmt.Errorf("database config validation failed: %w", err)
	}

	if err := validateCache(cfg.Cache()); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}

	if cfg.Cache().Provider() == "redis" {
		if err := validateRedis(cfg.Redis()); err != nil {
			return fmt.Errorf("redis config validation failed: %w", err)
		}
	}

	if err := validateLogger(cfg.Logger()); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}

	if err := validateSession(cfg.Session()); err != nil {
		return fmt.Errorf("session config validation failed: %w", err)
	}

	if err := validateRateLimit(cfg.RateLimit()); err != nil {
		return fmt.Errorf("rate_limit config validation failed: %w", err)
	}

	if err := validateDashboard(cfg.Dashboard()); err != nil {
		return fmt.Errorf("dashboard config validation failed: %w", err)
	}
	return nil
}

func validateApp(cfg AppConfig) error {
	if cfg.Environment() == "" {
		return fmt.Errorf("environment variable is required, please set ENV env variable")
	}

	switch cfg.Environment() {
	case LocalEnv, DevelopmentEnv, ProductionEnv:
	default:
		return fmt.Errorf("ENV=%s is invalid, only accept `%s`, `%s`, `%s`", cfg.Environment(), LocalEnv, DevelopmentEnv, ProductionEnv)
	}

	if cfg.Name() == "" {
		return fmt.Errorf("app name is required")
	}
	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Host() == "" {
		return fmt.Errorf("host is required")
	}

	if cfg.Host() != "0.0.0.0" && cfg.Host() != "localhost" {
		if net.ParseIP(cfg.Host()) == nil {
			return fmt.Errorf("host must be a valid IP address or 'localhost'")
		}
	}

	if cfg.Port() <= 0 || cfg.Port() > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if cfg.ReadTimeout() <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}

	if cfg.WriteTimeout() <= 0 {
		return fmt.Errorf("write_timeout must be positive")
	}

	if cfg.ShutdownTimeout() <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}

	if cfg.Domain() != "" && !strings.HasPrefix(cfg.Domain(), "http") {
		return fmt.Errorf("domain must start with http:// or https://")
	}

	return nil
}

func validateDatabase(cfg DatabaseConfig) error {
	if cfg.Host() == "" {
		return fmt.Errorf("database host is required")
	}

	if port, err := strconv.Atoi(cfg.Port()); err != nil {
		return fmt.Errorf("database port must be numeric: %w", err)
	} else if port <= 0 || port > 65535 {
		return fmt.Errorf("database port must be between 1 and 65535")
	}

	if cfg.User() == "" {
		return fmt.Errorf("database user is required")
	}

	if cfg.Name() == "" {
		return fmt.Errorf("database name is required")
	}

	if cfg.MaxOpenConns() <= 0 {
		return fmt.Errorf("max_open_conns must be positive")
	}

	if cfg.MaxIdleConns() <= 0 {
		return fmt.Errorf("max_idle_conns must be positive")
	}

	if cfg.MaxIdleConns() > cfg.MaxOpenConns() {
		return fmt.Errorf("max_idle_conns cannot be greater than max_open_conns")
	}

	if cfg.ConnMaxLifetime() <= 0 {
		return fmt.Errorf("conn_max_lifetime must be positive")
	}

	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	if !lo.Contains(validSSLModes, cfg.SSLMode()) {
		return fmt.Errorf("ssl_mode must be one of: %s", strings.Join(validSSLModes, ", "))
	}

	if cfg.EnableLog() {
		validLogLevels := []string{"silent", "error", "warn", "info"}
		if !lo.Contains(validLogLevels, cfg.LogLevel()) {
			return fmt.Errorf("database log_level must be one of: %s", strings.Join(validLogLevels, ", "))
		}
	}

	return nil
}

func validateRedis(cfg RedisConfig) error {
	if cfg.Host() == "" {
		return fmt.Errorf("redis host is required")
	}

	if cfg.Port() <= 0 || cfg.Port() > 65535 {
		return fmt.Errorf("redis port must be between 1 and 65535")
	}

	if cfg.DB() < 0 || cfg.DB() > 15 {
		return fmt.Errorf("redis db must be between 0 and 15")
	}

	return nil
}

func validateCache(cfg CacheConfig) error {
	validProviders := []string{"redis", "memory"}
	if !lo.Contains(validProviders, cfg.Provider()) {
		return fmt.Errorf("cache provider must be one of: %s", strings.Join(validProviders, ", "))
	}

	if cfg.DefaultTTL() <= 0 {
		return fmt.Errorf("default_ttl must be positive")
	}

	if cfg.RolesTTL() <= 0 {
		return fmt.Errorf("roles_ttl must be positive")
	}

	return nil
}

func validateLogger(cfg LoggerConfig) error {
	if cfg.LogFilePath() == "" {
		return fmt.Errorf("log_file_path is required")
	}

	if cfg.LogFileName() == "" {
		return fmt.Errorf("log_file_name is required")
	}

	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	if !lo.Contains(validLevels, cfg.LogLevel()) {
		return fmt.Errorf("log_level must be one of: %s", strings.Join(validLevels, ", "))
	}

	if cfg.Format() != "json" && cfg.Format() != "console" {
		return fmt.Errorf("format must be 'json' or 'console'")
	}

	if cfg.MaxFileSizeMB() <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive")
	}

	if cfg.MaxFileAgeDays() <= 0 {
		return fmt.Errorf("max_file_age_days must be positive")
	}

	if cfg.MaxBackupFiles() <= 0 {
		return fmt.Errorf("max_backup_files must be positive")
	}

	return nil
}

func validateSession(cfg SessionConfig) error {
	if cfg.TTL() <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}

func validateRateLimit(cfg RateLimitConfig) error {
	if !cfg.Enabled() {
		return nil
	}
	if cfg.Window() <= 0 {
		return fmt.Errorf("window must be positive")
	}
	if cfg.APIMaxRequests() <= 0 || cfg.WriteMaxRequests() <= 0 {
		return fmt.Errorf("api_max_requests and write_max_requests must be positive")
	}
	return nil
}

func validateDashboard(cfg DashboardConfig) error {
	ids := []string{cfg.NoviceWizardID(), cfg.MasterWizardID(), cfg.GrandmasterWizardID()}
	if lo.Contains(ids, "") {
		return fmt.Errorf("every role card needs a demo wizard id")
	}
	if len(lo.Uniq(ids)) != len(ids) {
		return fmt.Errorf("demo wizard ids must be distinct")
	}
	return nil
}
