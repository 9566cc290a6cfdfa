package config

import "time"

// Config holds runtime settings for the MedInvest terminal client.
type Config struct {
	ServerBaseURL       string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration

	// DataDir holds the encrypted store and the device key. Ignored when
	// Ephemeral is set.
	DataDir   string
	Ephemeral bool

	Platform       Platform
	SensorType     string
	SensorEnrolled bool

	AssistantURL   string
	AssistantKey   string
	AssistantModel string

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.DataDir = ".medinvest"
	c.Platform = PlatformIOS
	c.SensorType = "facial"
	c.SensorEnrolled = true
	c.AssistantURL = "https://api.openai.com/v1/chat/completions"
	c.AssistantModel = "gpt-4o-mini"
	c.LogLevel = "warn"
}

// Capabilities resolves the platform capability flags for c.
func (c *Config) Capabilities() Capabilities {
	return ResolveCapabilities(c.Platform, c.SensorType)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
