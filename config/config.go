package config

import (
	"fmt"
	"path/filepath"
	"time"
)

const (
	LocalEnv       = "local"
	DevelopmentEnv = "dev"
	ProductionEnv  = "prod"
)

type Config interface {
	App() AppConfig
	Server() ServerConfig
	Database() DatabaseConfig
	Redis() RedisConfig
	Cache() CacheConfig
	Logger() LoggerConfig
	Session() SessionConfig
	RateLimit() RateLimitConfig
	Permissions() PermissionsConfig
	Dashboard() DashboardConfig
}

type AppConfig interface {
	Name() string
	Version() string
	Environment() string
	IsProduction() bool
}

type ServerConfig interface {
	Host() string
	Domain() string
	Port() int
	ReadTimeout() time.Duration
	WriteTimeout() time.Duration
	IdleTimeout() time.Duration
	ShutdownTimeout() time.Duration
	MaxHeaderBytes() int
	AllowedOrigins() []string
}

type DatabaseConfig interface {
	Host() string
	Port() string
	User() string
	Password() string
	Name() string
	SSLMode() string
	MaxOpenConns() int
	MaxIdleConns() int
	ConnMaxLifetime() time.Duration
	LogLevel() string
	EnableLog() bool
}

type RedisConfig interface {
	Host() string
	Port() int
	Address() string
	Password() string
	DB() int
	PoolSize() int
}

type CacheConfig interface {
	Provider() string
	DefaultTTL() time.Duration
	MaxSize() int
	RolesTTL() time.Duration
}

type LoggerConfig interface {
	LogFilePath() string
	LogFileName() string
	FileExtension() string
	// FilePath joins path, name and extension, e.g. "logs/academy.log".
	FilePath() string
	LogLevel() string
	Format() string
	MaxFileSizeMB() int
	MaxFileAgeDays() int
	MaxBackupFiles() int
	IsCompressEnabled() bool
}

type SessionConfig interface {
	TTL() time.Duration
	SecureCookie() bool
}

type RateLimitConfig interface {
	Enabled() bool
	Window() time.Duration
	APIMaxRequests() int64
	WriteMaxRequests() int64
}

type PermissionsConfig interface {
	// Enforce rejects gated API calls made without a session.
	Enforce() bool
}

// DashboardConfig names the wizards behind the landing page role cards.
type DashboardConfig interface {
	NoviceWizardID() string
	MasterWizardID() string
	GrandmasterWizardID() string
}

// config holds the actual configuration implementation
type config struct {
	AppCfg         appConfig         `yaml:"app"`
	ServerCfg      serverConfig      `yaml:"server"`
	DatabaseCfg    databaseConfig    `yaml:"database"`
	RedisCfg       redisConfig       `yaml:"redis"`
	CacheCfg       cacheConfig       `yaml:"cache"`
	LoggerCfg      loggerConfig      `yaml:"logger"`
	SessionCfg     sessionConfig     `yaml:"session"`
	RateLimitCfg   rateLimitConfig   `yaml:"rate_limit"`
	PermissionsCfg permissionsConfig `yaml:"permissions"`
	DashboardCfg   dashboardConfig   `yaml:"dashboard"`
}

func (c *config) App() AppConfig {
	return &c.AppCfg
}

func (c *config) Server() ServerConfig {
	return &c.ServerCfg
}

func (c *config) Database() DatabaseConfig {
	return &c.DatabaseCfg
}

func (c *config) Redis() RedisConfig {
	return &c.RedisCfg
}

func (c *config) Cache() CacheConfig {
	return &c.CacheCfg
}

func (c *config) Logger() LoggerConfig {
	return &c.LoggerCfg
}

func (c *config) Session() SessionConfig {
	return &c.SessionCfg
}

func (c *config) RateLimit() RateLimitConfig {
	return &c.RateLimitCfg
}

func (c *config) Permissions() PermissionsConfig {
	return &c.PermissionsCfg
}

func (c *config) Dashboard() DashboardConfig {
	return &c.DashboardCfg
}

type appConfig struct {
	NameStr        string `yaml:"name" env-default:"wiz-academy"`
	VersionStr     string `yaml:"version" env-default:"0.1.0"`
	EnvironmentStr string `env:"ENV" env-default:"local"`
}

func (c *appConfig) Name() string {
	return c.NameStr
}

func (c *appConfig) Version() string {
	return c.VersionStr
}

func (c *appConfig) Environment() string {
	return c.EnvironmentStr
}

func (c *appConfig) IsProduction() bool {
	return c.EnvironmentStr == ProductionEnv
}

type serverConfig struct {
	HostStr            string   `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	DomainStr          string   `yaml:"domain"`
	PortInt            int      `yaml:"port" env:"SERVER_PORT" env-default:"3000"`
	ReadTimeoutStr     string   `yaml:"read_timeout" env-default:"15s"`
	WriteTimeoutStr    string   `yaml:"write_timeout" env-default:"15s"`
	IdleTimeoutStr     string   `yaml:"idle_timeout" env-default:"120s"`
	ShutdownTimeoutStr string   `yaml:"shutdown_timeout" env-default:"10s"`
	MaxHeaderBytesInt  int      `yaml:"max_header_bytes" env-default:"1048576"` // 1MB
	AllowedOriginsArr  []string `yaml:"allowed_origins"`
}

func (s *serverConfig) Host() string {
	return s.HostStr
}

func (s *serverConfig) Domain() string {
	return s.DomainStr
}

func (s *serverConfig) Port() int {
	return s.PortInt
}

func (s *serverConfig) ReadTimeout() time.Duration {
	duration, _ := time.ParseDuration(s.ReadTimeoutStr)
	return duration
}

func (s *serverConfig) WriteTimeout() time.Duration {
	duration, _ := time.ParseDuration(s.WriteTimeoutStr)
	return duration
}

func (s *serverConfig) IdleTimeout() time.Duration {
	duration, _ := time.ParseDuration(s.IdleTimeoutStr)
	return duration
}

func (s *serverConfig) ShutdownTimeout() time.Duration {
	duration, _ := time.ParseDuration(s.ShutdownTimeoutStr)
	return duration
}

func (s *serverConfig) AllowedOrigins() []string {
	return s.AllowedOriginsArr
}

func (s *serverConfig) MaxHeaderBytes() int {
	return s.MaxHeaderBytesInt
}

type databaseConfig struct {
	HostStr            string `env:"POSTGRES_HOST" env-default:"localhost"`
	PortStr            string `env:"POSTGRES_PORT" env-default:"5432"`
	UserStr            string `env:"POSTGRES_USER" env-default:"postgres"`
	PasswordStr        string `env:"POSTGRES_PASSWORD" env-default:"postgres"`
	NameStr            string `env:"POSTGRES_DBNAME" env-default:"wiz_academy"`
	SSLModeStr         string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	MaxOpenConnsInt    int    `yaml:"max_open_conns" env-default:"25"`
	MaxIdleConnsInt    int    `yaml:"max_idle_conns" env-default:"10"`
	ConnMaxLifetimeStr string `yaml:"conn_max_lifetime" env-default:"5m"`
	EnableLoggingBool  bool   `yaml:"enable_logging" env-default:"false"`
	LogLevelStr        string `yaml:"log_level" env-default:"warn"`
}

func (d *databaseConfig) Host() string {
	return d.HostStr
}

func (d *databaseConfig) Port() string {
	return d.PortStr
}

func (d *databaseConfig) User() string {
	return d.UserStr
}

func (d *databaseConfig) Password() string {
	return d.PasswordStr
}

func (d *databaseConfig) Name() string {
	return d.NameStr
}

func (d *databaseConfig) SSLMode() string {
	return d.SSLModeStr
}

func (d *databaseConfig) MaxOpenConns() int {
	return d.MaxOpenConnsInt
}

func (d *databaseConfig) MaxIdleConns() int {
	return d.MaxIdleConnsInt
}

func (d *databaseConfig) ConnMaxLifetime() time.Duration {
	duration, _ := time.ParseDuration(d.ConnMaxLifetimeStr)
	return duration
}

func (d *databaseConfig) EnableLog() bool {
	return d.EnableLoggingBool
}

func (d *databaseConfig) LogLevel() string {
	return d.LogLevelStr
}

type redisConfig struct {
	HostStr     string `env:"REDIS_HOST" env-default:"localhost"`
	PortInt     int    `env:"REDIS_PORT" env-default:"6379"`
	PasswordStr string `env:"REDIS_PASSWORD"`
	DBInt       int    `env:"REDIS_DB" env-default:"0"`
	PoolSizeInt int    `yaml:"pool_size" env-default:"10"`
}

func (r *redisConfig) Host() string {
	return r.HostStr
}

func (r *redisConfig) Port() int {
	return r.PortInt
}

func (r *redisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host(), r.Port())
}

func (r *redisConfig) Password() string {
	return r.PasswordStr
}

func (r *redisConfig) DB() int {
	return r.DBInt
}

func (r *redisConfig) PoolSize() int {
	return r.PoolSizeInt
}

type cacheConfig struct {
	ProviderStr   string `yaml:"provider" env:"CACHE_PROVIDER" env-default:"redis"`
	DefaultTTLStr string `yaml:"default_ttl" env-default:"1h"`
	MaxSizeInt    int    `yaml:"max_size" env-default:"1000"`
	RolesTTLStr   string `yaml:"roles_ttl" env-default:"5m"`
}

func (c *cacheConfig) Provider() string {
	return c.ProviderStr
}

func (c *cacheConfig) DefaultTTL() time.Duration {
	duration, _ := time.ParseDuration(c.DefaultTTLStr)
	return duration
}

func (c *cacheConfig) MaxSize() int {
	return c.MaxSizeInt
}

func (c *cacheConfig) RolesTTL() time.Duration {
	duration, _ := time.ParseDuration(c.RolesTTLStr)
	return duration
}

type loggerConfig struct {
	LogFilePathStr    string `yaml:"log_file_path" env-default:"logs"`
	LogFileNameStr    string `yaml:"log_file_name" env-default:"academy"`
	FileExtensionStr  string `yaml:"file_extension" env-default:".log"`
	LogLevelStr       string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	FormatStr         string `yaml:"format" env-default:"json"`
	MaxFileSizeMBInt  int    `yaml:"max_file_size_mb" env-default:"100"`
	MaxFileAgeDaysInt int    `yaml:"max_file_age_days" env-default:"7"`
	MaxBackupFilesInt int    `yaml:"max_backup_files" env-default:"5"`
	EnableCompressed  bool   `yaml:"enable_compressed"`
}

func (l *loggerConfig) LogFilePath() string {
	return l.LogFilePathStr
}

func (l *loggerConfig) LogFileName() string {
	return l.LogFileNameStr
}

func (l *loggerConfig) FileExtension() string {
	return l.FileExtensionStr
}

func (l *loggerConfig) FilePath() string {
	return filepath.Join(l.LogFilePathStr, l.LogFileNameStr+l.FileExtensionStr)
}

func (l *loggerConfig) LogLevel() string {
	return l.LogLevelStr
}

func (l *loggerConfig) Format() string {
	return l.FormatStr
}

func (l *loggerConfig) MaxFileSizeMB() int {
	return l.MaxFileSizeMBInt
}

func (l *loggerConfig) MaxFileAgeDays() int {
	return l.MaxFileAgeDaysInt
}

func (l *loggerConfig) MaxBackupFiles() int {
	return l.MaxBackupFilesInt
}

func (l *loggerConfig) IsCompressEnabled() bool {
	return l.EnableCompressed
}

type sessionConfig struct {
	TTLStr           string `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
	SecureCookieBool bool   `yaml:"secure_cookie" env:"SESSION_SECURE_COOKIE"`
}

func (s *sessionConfig) TTL() time.Duration {
	duration, _ := time.ParseDuration(s.TTLStr)
	return duration
}

func (s *sessionConfig) SecureCookie() bool {
	return s.SecureCookieBool
}

type rateLimitConfig struct {
	DisabledBool        bool   `yaml:"disabled" env:"RATE_LIMIT_DISABLED"`
	WindowStr           string `yaml:"window" env-default:"1m"`
	APIMaxRequestsInt   int64  `yaml:"api_max_requests" env-default:"120"`
	WriteMaxRequestsInt int64  `yaml:"write_max_requests" env-default:"30"`
}

func (r *rateLimitConfig) Enabled() bool {
	return !r.DisabledBool
}

func (r *rateLimitConfig) Window() time.Duration {
	duration, _ := time.ParseDuration(r.WindowStr)
	return duration
}

func (r *rateLimitConfig) APIMaxRequests() int64 {
	return r.APIMaxRequestsInt
}

func (r *rateLimitConfig) WriteMaxRequests() int64 {
	return r.WriteMaxRequestsInt
}

type permissionsConfig struct {
	EnforceBool bool `yaml:"enforce" env:"PERMISSIONS_ENFORCE"`
}

func (p *permissionsConfig) Enforce() bool {
	return p.EnforceBool
}

type dashboardConfig struct {
	NoviceWizardIDStr      string `yaml:"novice_wizard_id" env-default:"12"`
	MasterWizardIDStr      string `yaml:"master_wizard_id" env-default:"2"`
	GrandmasterWizardIDStr string `yaml:"grandmaster_wizard_id" env-default:"1"`
}

func (d *dashboardConfig) NoviceWizardID() string {
	return d.NoviceWizardIDStr
}

func (d *dashboardConfig) MasterWizardID() string {
	return d.MasterWizardIDStr
}

func (d *dashboardConfig) GrandmasterWizardID() string {
	return d.GrandmasterWizardIDStr
}
