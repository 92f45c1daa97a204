package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "BLOG_ANALYTICS_CONFIG"
	backendURLEnv     = "BLOG_API_URL"
	httpAddrEnv       = "HTTP_ADDR"
	databaseDriverEnv = "DATABASE_DRIVER"
	databaseDSNEnv    = "DATABASE_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	logLevelEnv       = "LOG_LEVEL"
	logFormatEnv      = "LOG_FORMAT"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Backend       BackendConfig      `yaml:"backend"`
	Cache         CacheConfig        `yaml:"cache"`
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Analytics     AnalyticsConfig    `yaml:"analytics"`
	Notifications NotificationConfig `yaml:"notifications"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	AllowedOrigins  []string      `yaml:"allowedOrigins"`
}

// BackendConfig points at the blog REST API.
type BackendConfig struct {
	BaseURL    string        `yaml:"baseUrl"`
	Timeout    time.Duration `yaml:"timeout"`
	RetryDelay time.Duration `yaml:"retryDelay"`
}

// CacheConfig sizes the query cache.
type CacheConfig struct {
	Size       int           `yaml:"size"`
	DefaultTTL time.Duration `yaml:"defaultTTL"`
}

// DatabaseConfig selects the snapshot store. Driver is sqlite3 or pgx.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// SchedulerConfig defines when snapshots are taken.
type SchedulerConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Interval time.Duration  `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// AnalyticsConfig bounds the samples and leaderboards of the dashboards.
type AnalyticsConfig struct {
	SampleSize      int   `yaml:"sampleSize"`
	AdminSampleSize int   `yaml:"adminSampleSize"`
	HighViews       int64 `yaml:"highViews"`
	LowViews        int64 `yaml:"lowViews"`
	TopPosts        int   `yaml:"topPosts"`
	TopAuthors      int   `yaml:"topAuthors"`
	TopTags         int   `yaml:"topTags"`
	MaxVisiblePages int   `yaml:"maxVisiblePages"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	APIBase  string `yaml:"apiBase"`
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether both the token and the chat are set.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// LoggingConfig selects slog level and handler (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML file named by BLOG_ANALYTICS_CONFIG (if set) and applies environment overrides.
func Load() Config {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile reads YAML configuration from path (if not empty) and applies environment overrides.
func LoadFile(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(backendURLEnv); v != "" {
		c.Backend.BaseURL = v
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(databaseDriverEnv); v != "" {
		c.Database.Driver = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.ReadTimeout > 0 {
		base.Server.ReadTimeout = override.Server.ReadTimeout
	}
	if override.Server.WriteTimeout > 0 {
		base.Server.WriteTimeout = override.Server.WriteTimeout
	}
	if override.Server.ShutdownTimeout > 0 {
		base.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}
	if len(override.Server.AllowedOrigins) > 0 {
		base.Server.AllowedOrigins = override.Server.AllowedOrigins
	}

	if override.Backend.BaseURL != "" {
		base.Backend.BaseURL = override.Backend.BaseURL
	}
	if override.Backend.Timeout > 0 {
		base.Backend.Timeout = override.Backend.Timeout
	}
	if override.Backend.RetryDelay > 0 {
		base.Backend.RetryDelay = override.Backend.RetryDelay
	}

	if override.Cache.Size > 0 {
		base.Cache.Size = override.Cache.Size
	}
	if override.Cache.DefaultTTL > 0 {
		base.Cache.DefaultTTL = override.Cache.DefaultTTL
	}

	if override.Database.Driver != "" {
		base.Database.Driver = override.Database.Driver
	}
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}

	if override.Scheduler.Enabled {
		base.Scheduler.Enabled = true
	}
	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	a := override.Analytics
	if a.SampleSize > 0 {
		base.Analytics.SampleSize = a.SampleSize
	}
	if a.AdminSampleSize > 0 {
		base.Analytics.AdminSampleSize = a.AdminSampleSize
	}
	if a.HighViews > 0 {
		base.Analytics.HighViews = a.HighViews
	}
	if a.LowViews > 0 {
		base.Analytics.LowViews = a.LowViews
	}
	if a.TopPosts > 0 {
		base.Analytics.TopPosts = a.TopPosts
	}
	if a.TopAuthors > 0 {
		base.Analytics.TopAuthors = a.TopAuthors
	}
	if a.TopTags > 0 {
		base.Analytics.TopTags = a.TopTags
	}
	if a.MaxVisiblePages > 0 {
		base.Analytics.MaxVisiblePages = a.MaxVisiblePages
	}

	if override.Notifications.Telegram.APIBase != "" {
		base.Notifications.Telegram.APIBase = override.Notifications.Telegram.APIBase
	}
	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Server: ServerConfig{
			Addr:            ":8090",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000"},
		},
		Backend: BackendConfig{
			BaseURL:    "http://localhost:8080/api/v1",
			Timeout:    10 * time.Second,
			RetryDelay: 500 * time.Millisecond,
		},
		Cache:    CacheConfig{Size: 512, DefaultTTL: 5 * time.Minute},
		Database: DatabaseConfig{Driver: "sqlite3", DSN: "file:bloganalytics.db?_foreign_keys=on"},
		Scheduler: SchedulerConfig{
			Enabled:  true,
			Interval: 24 * time.Hour,
			Timezone: defaultTimezone,
			location: tz,
		},
		Analytics: AnalyticsConfig{
			SampleSize:      1000,
			AdminSampleSize: 100,
			HighViews:       500,
			LowViews:        100,
			TopPosts:        5,
			TopAuthors:      5,
			TopTags:         8,
			MaxVisiblePages: 5,
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{APIBase: "https://api.telegram.org", BotToken: "", ChatID: ""},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
