package config

import (
	"encoding/json"
	"os"

	"github.com/medinvest/medinvest/internal/flagx"
	"github.com/medinvest/medinvest/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. TokenTTL uses timex.Duration so it accepts "24h" as well as integer
// nanoseconds.
type JsonConfig struct {
	HTTPAddr       string         `json:"http_addr"`
	DatabaseDSN    string         `json:"database_dsn"`
	SecretKey      string         `json:"secret_key"`
	TokenTTL       timex.Duration `json:"token_ttl"`
	RedisAddr      string         `json:"redis_addr"`
	RedisPassword  string         `json:"redis_password"`
	RedisDB        *int           `json:"redis_db"`
	LoginRateLimit *float64       `json:"login_rate_limit"`
	LoginBurst     *int           `json:"login_burst"`
	SeedEmail      string         `json:"seed_email"`
	SeedPassword   string         `json:"seed_password"`
	SeedFullName   string         `json:"seed_full_name"`
	LogLevel       string         `json:"log_level"`
}

// parseJson loads the JSON file named by -c or -config and copies the fields
// it sets into cfg. No flag means no file. Panics if the file cannot be read
// or is not valid JSON.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigPath(args)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.HTTPAddr, jc.HTTPAddr)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.SecretKey, jc.SecretKey)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPassword, jc.RedisPassword)
	setString(&cfg.SeedEmail, jc.SeedEmail)
	setString(&cfg.SeedPassword, jc.SeedPassword)
	setString(&cfg.SeedFullName, jc.SeedFullName)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.TokenTTL.Duration > 0 {
		cfg.TokenTTL = jc.TokenTTL.Duration
	}
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	if jc.LoginRateLimit != nil {
		cfg.LoginRateLimit = *jc.LoginRateLimit
	}
	if jc.LoginBurst != nil {
		cfg.LoginBurst = *jc.LoginBurst
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
