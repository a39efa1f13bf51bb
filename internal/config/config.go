package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "America/New_York"

	configPathEnv    = "WEEKLY_OUTLOOK_CONFIG"
	logLevelEnv      = "LOG_LEVEL"
	logFileEnv       = "LOG_FILE"
	timezoneEnv      = "OUTLOOK_TIMEZONE"
	schedulerModeEnv = "SCHEDULER_MODE"
	llmProviderEnv   = "LLM_PROVIDER"
	llmModelEnv      = "LLM_MODEL"
	openAIKeyEnv     = "OPENAI_API_KEY"
	anthropicKeyEnv  = "ANTHROPIC_API_KEY"
	webhookURLEnv    = "DISCORD_WEBHOOK_URL"
	newsAPIKeyEnv    = "NEWS_API_KEY"
	finnhubKeyEnv    = "FINNHUB_API_KEY"
	lookbackDaysEnv  = "NEWS_LOOKBACK_DAYS"
)

// Scheduler modes.
const (
	ModeOnce   = "once"
	ModeWeekly = "weekly"
)

// LLM providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ErrMissingSetting marks a required credential or endpoint that was not configured.
var ErrMissingSetting = errors.New("missing required setting")

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	LLM           LLMConfig          `yaml:"llm"`
	News          NewsConfig         `yaml:"news"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
	// File enables a rotated log file next to stdout output.
	File string `yaml:"file"`
}

// SchedulerConfig defines when and where (timezone) the job runs.
type SchedulerConfig struct {
	Mode     string         `yaml:"mode"`
	Interval time.Duration  `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LLMConfig defines how to contact the text-generation service.
type LLMConfig struct {
	Provider     string        `yaml:"provider"`
	Endpoint     string        `yaml:"endpoint"`
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"apiKey"`
	SystemPrompt string        `yaml:"systemPrompt"`
	MaxTokens    int           `yaml:"maxTokens"`
	Temperature  float64       `yaml:"temperature"`
	Timeout      time.Duration `yaml:"timeout"`
}

// NewsConfig groups settings for article sources.
type NewsConfig struct {
	// Sources lists scanner names in the order their results are merged.
	Sources      []string      `yaml:"sources"`
	LookbackDays int           `yaml:"lookbackDays"`
	Timeout      time.Duration `yaml:"timeout"`
	NewsAPI      NewsAPIConfig `yaml:"newsapi"`
	RSS          RSSConfig     `yaml:"rss"`
	Finnhub      FinnhubConfig `yaml:"finnhub"`
}

// NewsAPIConfig describes the keyworded news API.
type NewsAPIConfig struct {
	Endpoint string   `yaml:"endpoint"`
	APIKey   string   `yaml:"apiKey"`
	Outlets  []string `yaml:"outlets"`
	Language string   `yaml:"language"`
	PageSize int      `yaml:"pageSize"`
}

// RSSConfig lists feeds and per-feed limits.
type RSSConfig struct {
	Feeds            []string `yaml:"feeds"`
	MaxEntries       int      `yaml:"maxEntries"`
	DescriptionLimit int      `yaml:"descriptionLimit"`
}

// FinnhubConfig describes the optional Finnhub market-news source.
type FinnhubConfig struct {
	APIKey     string `yaml:"apiKey"`
	Category   string `yaml:"category"`
	MaxEntries int    `yaml:"maxEntries"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig wires the chat webhook.
type DiscordConfig struct {
	WebhookURL string        `yaml:"webhookUrl"`
	Username   string        `yaml:"username"`
	AvatarURL  string        `yaml:"avatarUrl"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
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

// Validate reports missing credentials and unsupported options.
func (c Config) Validate() error {
	var errs []error

	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic:
		if c.LLM.APIKey == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingSetting, apiKeyEnv(c.LLM.Provider)))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown llm provider %q", c.LLM.Provider))
	}

	if c.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("%w: %s", ErrMissingSetting, webhookURLEnv))
	}

	switch c.Scheduler.Mode {
	case ModeOnce:
	case ModeWeekly:
		if c.Scheduler.Interval <= 0 {
			errs = append(errs, fmt.Errorf("scheduler interval must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown scheduler mode %q", c.Scheduler.Mode))
	}

	if c.News.LookbackDays <= 0 {
		errs = append(errs, fmt.Errorf("news lookback days must be positive"))
	}

	return errors.Join(errs...)
}

func apiKeyEnv(provider string) string {
	if provider == ProviderAnthropic {
		return anthropicKeyEnv
	}
	return openAIKeyEnv
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(logFileEnv); v != "" {
		c.Logging.File = v
	}

	if v := os.Getenv(timezoneEnv); v != "" {
		c.Scheduler.Timezone = v
	}
	if v := os.Getenv(schedulerModeEnv); v != "" {
		c.Scheduler.Mode = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(llmProviderEnv); v != "" {
		c.LLM.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(apiKeyEnv(c.LLM.Provider)); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(webhookURLEnv); v != "" {
		c.Notifications.Discord.WebhookURL = v
	}

	if v := os.Getenv(newsAPIKeyEnv); v != "" {
		c.News.NewsAPI.APIKey = v
	}
	if v := os.Getenv(finnhubKeyEnv); v != "" {
		c.News.Finnhub.APIKey = v
	}
	if v := os.Getenv(lookbackDaysEnv); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			c.News.LookbackDays = days
		} else {
			log.Printf("config: invalid %s=%q, keeping %d", lookbackDaysEnv, v, c.News.LookbackDays)
		}
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
		tz = defaultTimezone
		loc, err = time.LoadLocation(defaultTimezone)
		if err != nil {
			loc = time.UTC
		}
	}
	c.Scheduler.Timezone = tz
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.File != "" {
		base.Logging.File = override.Logging.File
	}

	if override.Scheduler.Mode != "" {
		base.Scheduler.Mode = override.Scheduler.Mode
	}
	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.LLM.Provider != "" {
		base.LLM.Provider = override.LLM.Provider
	}
	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.SystemPrompt != "" {
		base.LLM.SystemPrompt = override.LLM.SystemPrompt
	}
	if override.LLM.MaxTokens > 0 {
		base.LLM.MaxTokens = override.LLM.MaxTokens
	}
	if override.LLM.Temperature > 0 {
		base.LLM.Temperature = override.LLM.Temperature
	}
	if override.LLM.Timeout > 0 {
		base.LLM.Timeout = override.LLM.Timeout
	}

	if len(override.News.Sources) > 0 {
		base.News.Sources = override.News.Sources
	}
	if override.News.LookbackDays > 0 {
		base.News.LookbackDays = override.News.LookbackDays
	}
	if override.News.Timeout > 0 {
		base.News.Timeout = override.News.Timeout
	}
	if override.News.NewsAPI.Endpoint != "" {
		base.News.NewsAPI.Endpoint = override.News.NewsAPI.Endpoint
	}
	if override.News.NewsAPI.APIKey != "" {
		base.News.NewsAPI.APIKey = override.News.NewsAPI.APIKey
	}
	if len(override.News.NewsAPI.Outlets) > 0 {
		base.News.NewsAPI.Outlets = override.News.NewsAPI.Outlets
	}
	if override.News.NewsAPI.Language != "" {
		base.News.NewsAPI.Language = override.News.NewsAPI.Language
	}
	if override.News.NewsAPI.PageSize > 0 {
		base.News.NewsAPI.PageSize = override.News.NewsAPI.PageSize
	}
	if len(override.News.RSS.Feeds) > 0 {
		base.News.RSS.Feeds = override.News.RSS.Feeds
	}
	if override.News.RSS.MaxEntries > 0 {
		base.News.RSS.MaxEntries = override.News.RSS.MaxEntries
	}
	if override.News.RSS.DescriptionLimit > 0 {
		base.News.RSS.DescriptionLimit = override.News.RSS.DescriptionLimit
	}
	if override.News.Finnhub.APIKey != "" {
		base.News.Finnhub.APIKey = override.News.Finnhub.APIKey
	}
	if override.News.Finnhub.Category != "" {
		base.News.Finnhub.Category = override.News.Finnhub.Category
	}
	if override.News.Finnhub.MaxEntries > 0 {
		base.News.Finnhub.MaxEntries = override.News.Finnhub.MaxEntries
	}

	if override.Notifications.Discord.WebhookURL != "" {
		base.Notifications.Discord.WebhookURL = override.Notifications.Discord.WebhookURL
	}
	if override.Notifications.Discord.Username != "" {
		base.Notifications.Discord.Username = override.Notifications.Discord.Username
	}
	if override.Notifications.Discord.AvatarURL != "" {
		base.Notifications.Discord.AvatarURL = override.Notifications.Discord.AvatarURL
	}
	if override.Notifications.Discord.Timeout > 0 {
		base.Notifications.Discord.Timeout = override.Notifications.Discord.Timeout
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{Mode: ModeOnce, Interval: 7 * 24 * time.Hour, Timezone: defaultTimezone},
		LLM: LLMConfig{
			Provider:     ProviderOpenAI,
			Model:        "gpt-4o-mini",
			SystemPrompt: "You are a senior financial analyst providing weekly market outlooks for professional traders and investors. Focus on actionable insights and key catalysts.",
			MaxTokens:    600,
			Temperature:  0.2,
			Timeout:      60 * time.Second,
		},
		News: NewsConfig{
			Sources:      []string{"newsapi", "rss", "finnhub"},
			LookbackDays: 3,
			Timeout:      20 * time.Second,
			NewsAPI: NewsAPIConfig{
				Endpoint: "https://newsapi.org/v2/everything",
				Outlets: []string{
					"reuters", "bloomberg", "cnbc", "marketwatch",
					"yahoo-finance", "the-wall-street-journal",
				},
				Language: "en",
				PageSize: 60,
			},
			RSS: RSSConfig{
				Feeds: []string{
					"https://feeds.bloomberg.com/markets/news.rss",
					"https://www.cnbc.com/id/100003114/device/rss/rss.html",
					"https://www.marketwatch.com/rss/topstories",
					"https://feeds.reuters.com/reuters/businessNews",
				},
				MaxEntries:       10,
				DescriptionLimit: 200,
			},
			Finnhub: FinnhubConfig{Category: "general", MaxEntries: 20},
		},
		Notifications: NotificationConfig{
			Discord: DiscordConfig{
				Username:  "Weekly Market Outlook",
				AvatarURL: "https://cdn-icons-png.flaticon.com/512/2784/2784403.png",
				Timeout:   30 * time.Second,
			},
		},
	}
}
