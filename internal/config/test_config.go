package config

import "time"

// TestConfig returns a config suitable for testing: a dummy credential, a short
// client timeout and a short debounce.
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.API.Key = "test-key"
	cfg.API.Timeout = 2 * time.Second
	cfg.API.UserAgent = "chronicle-test/1.0"
	cfg.Search.Debounce = 10 * time.Millisecond
	cfg.Log.Level = "off"
	cfg.Log.Path = ""
	return cfg
}
