package config

import (
	"encoding/json"
	"os"

	"github.com/medinvest/medinvest/internal/flagx"
	"github.com/medinvest/medinvest/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals use
// timex.Duration so they can be written as "3s" or integer nanoseconds.
// Pointer fields tell "absent" from "false".
type JsonConfig struct {
	ServerBaseURL       string         `json:"server_base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	DataDir             string         `json:"data_dir"`
	Ephemeral           *bool          `json:"ephemeral"`
	Platform            string         `json:"platform"`
	SensorType          string         `json:"sensor_type"`
	SensorEnrolled      *bool          `json:"sensor_enrolled"`
	AssistantURL        string         `json:"assistant_url"`
	AssistantKey        string         `json:"assistant_key"`
	AssistantModel      string         `json:"assistant_model"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays cfg with the fields present in the JSON file named by
// -c or -config. Panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigPath(args)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerBaseURL, jc.ServerBaseURL)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.SensorType, jc.SensorType)
	setString(&cfg.AssistantURL, jc.AssistantURL)
	setString(&cfg.AssistantKey, jc.AssistantKey)
	setString(&cfg.AssistantModel, jc.AssistantModel)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.Platform != "" {
		cfg.Platform = Platform(jc.Platform)
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.Ephemeral != nil {
		cfg.Ephemeral = *jc.Ephemeral
	}
	if jc.SensorEnrolled != nil {
		cfg.SensorEnrolled = *jc.SensorEnrolled
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
