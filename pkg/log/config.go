package log

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap/zapcore"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"

	EnvProduction = "production"
)

// Config is assembled by the caller from the logger config section.
type Config struct {
	Level       string
	Format      string
	Environment string
	ServiceName string
	Version     string

	// OutputPath is a comma separated list of "stdout", "stderr" or file paths.
	// Files are rotated with lumberjack.
	OutputPath string

	FileMaxSizeInMB  int
	FileMaxAgeInDays int
	FileMaxBackups   int
	CompressRotated  bool

	DisableCaller     bool
	DisableStacktrace bool
	SamplingConfig    *SamplingConfig

	InitialFields map[string]any
}

type SamplingConfig struct {
	Initial    int
	Thereafter int
	Tick       time.Duration
}

// Outputs returns the trimmed, de-duplicated output targets in their configured order.
func (c *Config) Outputs() []string {
	paths := lo.Map(strings.Split(c.OutputPath, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Uniq(lo.Compact(paths))
}

func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil || strings.EqualFold(c.Level, "dpanic") || strings.EqualFold(c.Level, "panic") {
		return fmt.Errorf("invalid log level %q, must be one of debug, info, warn, error, fatal", c.Level)
	}
	if !lo.Contains([]string{FormatJSON, FormatConsole}, strings.ToLower(c.Format)) {
		return fmt.Errorf("invalid log format %q, must be %s or %s", c.Format, FormatJSON, FormatConsole)
	}
	if len(c.Outputs()) == 0 {
		return fmt.Errorf("at least one log output is required")
	}

	switch {
	case c.FileMaxSizeInMB <= 0:
		return fmt.Errorf("file_max_size_mb must be greater than 0")
	case c.FileMaxAgeInDays <= 0:
		return fmt.Errorf("file_max_age_days must be greater than 0")
	case c.FileMaxBackups < 0:
		return fmt.Errorf("file_max_backups must not be negative")
	}

	if s := c.SamplingConfig; s != nil && (s.Initial <= 0 || s.Thereafter <= 0) {
		return fmt.Errorf("sampling initial and thereafter must be greater than 0")
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		Level:            "info",
		Format:           FormatJSON,
		Environment:      "development",
		ServiceName:      "wiz-academy",
		Version:          "dev",
		OutputPath:       "stdout",
		FileMaxSizeInMB:  100,
		FileMaxAgeInDays: 30,
		FileMaxBackups:   10,
		CompressRotated:  true,
		InitialFields:    map[string]any{},
	}
}

// DevelopmentConfig logs from debug up, console encoded, to stdout.
func DevelopmentConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	cfg.Format = FormatConsole
	return cfg
}

func ProductionConfig(serviceName, version string) Config {
	cfg := DefaultConfig()
	cfg.Environment = EnvProduction
	cfg.ServiceName = serviceName
	cfg.Version = version
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.SamplingConfig = &SamplingConfig{Initial: 100, Thereafter: 100}
	return cfg
}
