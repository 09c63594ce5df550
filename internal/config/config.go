package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/pders01/chronicle/internal/validation"
)

// DefaultEndpoint is the Article Search API of the New York Times.
const DefaultEndpoint = "https://api.nytimes.com/svc/search/v2/articlesearch.json"

type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Search SearchConfig `mapstructure:"search"`
	UI     UIConfig     `mapstructure:"ui"`
	Keys   KeyConfig    `mapstructure:"keys"`
	Log    LogConfig    `mapstructure:"log"`
}

type APIConfig struct {
	Key       string        `mapstructure:"key"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type SearchConfig struct {
	Debounce     time.Duration `mapstructure:"debounce"`
	DefaultQuery string        `mapstructure:"default_query"`
	WindowSize   int           `mapstructure:"window_size"`
}

type UIConfig struct {
	Colors  UIColors      `mapstructure:"colors"`
	Article ArticleConfig `mapstructure:"article"`
	// Opener is the command used to open links; empty picks the platform default.
	Opener string `mapstructure:"opener"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary" toml:"primary"`
	Secondary string `mapstructure:"secondary" toml:"secondary"`
	Accent    string `mapstructure:"accent" toml:"accent"`
	Text      string `mapstructure:"text" toml:"text"`
	Muted     string `mapstructure:"muted" toml:"muted"`
	Error     string `mapstructure:"error" toml:"error"`
	Success   string `mapstructure:"success" toml:"success"`
}

type ArticleConfig struct {
	MaxSnippetLength int `mapstructure:"max_snippet_length" toml:"max_snippet_length"`
	WordWrapMaxWidth int `mapstructure:"word_wrap_max_width" toml:"word_wrap_max_width"`
	WordWrapMinWidth int `mapstructure:"word_wrap_min_width" toml:"word_wrap_min_width"`
}

type KeyConfig struct {
	Modifier string `mapstructure:"modifier" toml:"modifier"`
}

type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	Path  string `mapstructure:"path" toml:"path"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		API: APIConfig{
			BaseURL:   DefaultEndpoint,
			Timeout:   10 * time.Second,
			UserAgent: "chronicle/1.0 (https://github.com/pders01/chronicle)",
		},
		Search: SearchConfig{
			Debounce:     500 * time.Millisecond,
			DefaultQuery: "news",
			WindowSize:   5,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
			Article: ArticleConfig{
				MaxSnippetLength: 120,
				WordWrapMaxWidth: 100,
				WordWrapMinWidth: 40,
			},
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
		},
		Log: LogConfig{
			Level: "off",
			Path:  filepath.Join(homeDir, ".chronicle", "chronicle.log"),
		},
	}
}

// ConfigPath returns the default location of the config file.
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "chronicle", "config.toml")
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.key", cfg.API.Key)
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.user_agent", cfg.API.UserAgent)

	v.SetDefault("search.debounce", cfg.Search.Debounce)
	v.SetDefault("search.default_query", cfg.Search.DefaultQuery)
	v.SetDefault("search.window_size", cfg.Search.WindowSize)

	v.SetDefault("ui.colors.primary", cfg.UI.Colors.Primary)
	v.SetDefault("ui.colors.secondary", cfg.UI.Colors.Secondary)
	v.SetDefault("ui.colors.accent", cfg.UI.Colors.Accent)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", cfg.UI.Colors.Error)
	v.SetDefault("ui.colors.success", cfg.UI.Colors.Success)
	v.SetDefault("ui.article.max_snippet_length", cfg.UI.Article.MaxSnippetLength)
	v.SetDefault("ui.article.word_wrap_max_width", cfg.UI.Article.WordWrapMaxWidth)
	v.SetDefault("ui.article.word_wrap_min_width", cfg.UI.Article.WordWrapMinWidth)

	v.SetDefault("ui.opener", cfg.UI.Opener)

	v.SetDefault("keys.modifier", cfg.Keys.Modifier)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.path", cfg.Log.Path)
}

// Load reads configuration from configPath, or from the default search
// locations when configPath is empty. A missing file is not an error.
// CHRONICLE_* environment variables override file values, and NYT_API_KEY is
// accepted for the credential.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(ConfigPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CHRONICLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.key", "CHRONICLE_API_KEY", "NYT_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding api key env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	config.Log.Path = expandPath(config.Log.Path)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate reports the first setting that would make the client unusable.
// An empty API key is allowed: the archive answers with 401 and the UI shows
// the credential error.
func (c *Config) Validate() error {
	endpoint, err := validation.NewPermissiveURLValidator().ValidateEndpoint(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	c.API.BaseURL = endpoint

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", c.API.Timeout)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce must not be negative, got %v", c.Search.Debounce)
	}
	if c.Search.WindowSize < 1 {
		return fmt.Errorf("search.window_size must be at least 1, got %d", c.Search.WindowSize)
	}
	if strings.TrimSpace(c.Search.DefaultQuery) == "" {
		return fmt.Errorf("search.default_query cannot be empty")
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

// fileConfig mirrors Config with durations as strings for TOML readability.
type fileConfig struct {
	API struct {
		Key       string `toml:"key"`
		BaseURL   string `toml:"base_url"`
		Timeout   string `toml:"timeout"`
		UserAgent string `toml:"user_agent"`
	} `toml:"api"`
	Search struct {
		Debounce     string `toml:"debounce"`
		DefaultQuery string `toml:"default_query"`
		WindowSize   int    `toml:"window_size"`
	} `toml:"search"`
	UI struct {
		Colors  UIColors      `toml:"colors"`
		Article ArticleConfig `toml:"article"`
		Opener  string        `toml:"opener"`
	} `toml:"ui"`
	Keys KeyConfig `toml:"keys"`
	Log  LogConfig `toml:"log"`
}

func toFile(cfg *Config) fileConfig {
	var fc fileConfig
	fc.API.Key = cfg.API.Key
	fc.API.BaseURL = cfg.API.BaseURL
	fc.API.Timeout = cfg.API.Timeout.String()
	fc.API.UserAgent = cfg.API.UserAgent
	fc.Search.Debounce = cfg.Search.Debounce.String()
	fc.Search.DefaultQuery = cfg.Search.DefaultQuery
	fc.Search.WindowSize = cfg.Search.WindowSize
	fc.UI.Colors = cfg.UI.Colors
	fc.UI.Article = cfg.UI.Article
	fc.UI.Opener = cfg.UI.Opener
	fc.Keys = cfg.Keys
	fc.Log = cfg.Log
	return fc
}

// Save writes cfg as TOML. The file may hold the API key, so it is created
// with owner-only permissions.
func Save(cfg *Config, path string) error {
	data, err := toml.Marshal(toFile(cfg))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
