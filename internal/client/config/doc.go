// Package config loads runtime configuration for the MedInvest terminal
// client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
// Intervals accept strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "data_dir": ".medinvest",
//	  "platform": "ios",
//	  "sensor_type": "facial",
//	  "sensor_enrolled": true,
//	  "assistant_url": "https://api.openai.com/v1/chat/completions",
//	  "assistant_key": "sk-...",
//	  "assistant_model": "gpt-4o-mini"
//	}
//
// The assistant key is only read from the JSON file, never from flags.
package config
