package config

import (
	"flag"
	"time"

	"github.com/medinvest/medinvest/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend auth API
//	-t int      request timeout in seconds
//	-i int      online check interval in seconds
//	-d string   data directory
//	-m          keep everything in memory
//	-p string   platform: ios or android
//	-b string   simulated sensor: facial, fingerprint or none
//	-l string   log level
//
// The function filters args to only include the flags it knows about, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-i", "-d", "-m", "-p", "-b", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the auth API")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.BoolVar(&cfg.Ephemeral, "m", cfg.Ephemeral, "in-memory storage")
	platform := fs.String("p", string(cfg.Platform), "platform (ios, android)")
	fs.StringVar(&cfg.SensorType, "b", cfg.SensorType, "biometric sensor (facial, fingerprint, none)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.Platform = Platform(*platform)
}
