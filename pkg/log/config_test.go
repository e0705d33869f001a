package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Outputs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputPath = " stdout, logs/academy.log,,stdout "
	assert.Equal(t, []string{"stdout", "logs/academy.log"}, cfg.Outputs())
}

func TestConfig_Validate(t *testing.T) {
	dev := DevelopmentConfig()
	require.NoError(t, dev.Validate())
	prod := ProductionConfig("wiz-academy", "1.2.0")
	require.NoError(t, prod.Validate())

	cases := map[string]func(*Config){
		"level":    func(c *Config) { c.Level = "loud" },
		"panic":    func(c *Config) { c.Level = "panic" },
		"format":   func(c *Config) { c.Format = "xml" },
		"outputs":  func(c *Config) { c.OutputPath = " , " },
		"size":     func(c *Config) { c.FileMaxSizeInMB = 0 },
		"backups":  func(c *Config) { c.FileMaxBackups = -1 },
		"sampling": func(c *Config) { c.SamplingConfig = &SamplingConfig{Initial: 1} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewZapLogger_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = "xml"
	_, err := NewZapLogger(cfg)
	assert.Error(t, err)
}
