package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerBaseURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, PlatformIOS, c.Platform)
	assert.False(t, c.Ephemeral)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig(nil)

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerBaseURL)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"server_base_url":       "http://json:1",
		"online_check_interval": "7s",
	})

	cfg := LoadConfig([]string{"-c", path, "-a", "http://flag:2"})

	assert.Equal(t, "http://flag:2", cfg.ServerBaseURL)
	assert.Equal(t, 7*time.Second, cfg.OnlineCheckInterval)
}

func TestResolveCapabilities(t *testing.T) {
	tests := []struct {
		platform Platform
		sensor   string
		want     Capabilities
	}{
		{PlatformIOS, "facial", Capabilities{Platform: PlatformIOS, AppleSignIn: true, BiometricLabel: "Face ID"}},
		{PlatformIOS, "fingerprint", Capabilities{Platform: PlatformIOS, AppleSignIn: true, BiometricLabel: "Touch ID"}},
		{"IOS", "none", Capabilities{Platform: PlatformIOS, AppleSignIn: true, BiometricLabel: "Biometrics"}},
		{PlatformAndroid, "facial", Capabilities{Platform: PlatformAndroid, BiometricLabel: "Face Unlock"}},
		{PlatformAndroid, "fingerprint", Capabilities{Platform: PlatformAndroid, BiometricLabel: "Fingerprint"}},
		{"web", "fingerprint", Capabilities{Platform: PlatformAndroid, BiometricLabel: "Fingerprint"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform)+"/"+tt.sensor, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveCapabilities(tt.platform, tt.sensor))
		})
	}
}
