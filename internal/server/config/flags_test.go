package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-t", "30",
				"-r", "redis:6379", "-l", "debug",
				"-seed-email", "demo@medinvest.app", "-seed-password=pw",
			},
			expected: &Config{
				HTTPAddr:     "127.0.0.1:9090",
				DatabaseDSN:  "db",
				SecretKey:    "secret",
				TokenTTL:     30 * time.Minute,
				RedisAddr:    "redis:6379",
				LogLevel:     "debug",
				SeedEmail:    "demo@medinvest.app",
				SeedPassword: "pw",
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"-x", "1", "-c", "cfg.json", "-a", ":1"},
			expected: &Config{HTTPAddr: ":1"},
		},
		{name: "incorrect token ttl", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config, tt.args) })
				return
			}

			require.NotPanics(t, func() { parseFlags(config, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
