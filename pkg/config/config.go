package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DefaultAPIURL  = "https://api.stackexchange.com/2.2/search/advanced"
	DefaultSiteURL = "https://stackoverflow.com/search"

	// Discord allows at most 25 fields per embed.
	maxResultsLimit = 25
)

type Config struct {
	Discord  DiscordConfig `json:"discord"   envPrefix:"SOBOT_DISCORD_"`
	Search   SearchConfig  `json:"search"    envPrefix:"SOBOT_SEARCH_"`
	LogLevel string        `json:"log_level" env:"SOBOT_LOG_LEVEL"`
}

type DiscordConfig struct {
	Token     string   `json:"token"      env:"TOKEN"`
	Prefix    string   `json:"prefix"     env:"PREFIX"`
	GuildID   string   `json:"guild_id"   env:"GUILD_ID"`
	AllowFrom []string `json:"allow_from" env:"ALLOW_FROM"`
}

type SearchConfig struct {
	APIURL         string       `json:"api_url"         env:"API_URL"`
	SiteURL        string       `json:"site_url"        env:"SITE_URL"`
	Site           string       `json:"site"            env:"SITE"`
	MaxAttempts    int          `json:"max_attempts"    env:"MAX_ATTEMPTS"`
	MaxResults     int          `json:"max_results"     env:"MAX_RESULTS"`
	MaxTags        int          `json:"max_tags"        env:"MAX_TAGS"`
	TimeoutSeconds int          `json:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	Proxy          string       `json:"proxy"           env:"PROXY"`
	Icons          IconConfig   `json:"icons"           envPrefix:"ICON_"`
	Colors         ColorsConfig `json:"colors"          envPrefix:"COLOR_"`
}

type IconConfig struct {
	Upvote  string `json:"upvote"  env:"UPVOTE"`
	Views   string `json:"views"   env:"VIEWS"`
	Answers string `json:"answers" env:"ANSWERS"`
	Tag     string `json:"tag"     env:"TAG"`
}

type ColorsConfig struct {
	Results int `json:"results" env:"RESULTS"`
	Error   int `json:"error"   env:"ERROR"`
}

func DefaultConfig() *Config {
	return &Config{
		Discord: DiscordConfig{
			Prefix: ".",
		},
		Search: SearchConfig{
			APIURL:         DefaultAPIURL,
			SiteURL:        DefaultSiteURL,
			Site:           "stackoverflow",
			MaxAttempts:    3,
			MaxResults:     5,
			MaxTags:        3,
			TimeoutSeconds: 10,
			Icons: IconConfig{
				Upvote:  "⬆️",
				Views:   "\U0001f441️",
				Answers: "\U0001f4ac",
				Tag:     "\U0001f3f7️",
			},
			Colors: ColorsConfig{
				Results: 0xe67e22,
				Error:   0xcd6d6d,
			},
		},
		LogLevel: "info",
	}
}

// Timeout is the per-request HTTP timeout. Zero means no client timeout.
func (c SearchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoadConfig builds the effective configuration: defaults, then the JSON file
// at path (if it exists), then SOBOT_* environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs error

	if strings.TrimSpace(c.Discord.Prefix) == "" {
		errs = errors.Join(errs, errors.New("discord.prefix must not be empty"))
	}

	s := c.Search
	for name, raw := range map[string]string{"search.api_url": s.APIURL, "search.site_url": s.SiteURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			errs = errors.Join(errs, fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw))
		}
	}
	if s.Site == "" {
		errs = errors.Join(errs, errors.New("search.site must not be empty"))
	}
	if s.MaxAttempts < 1 {
		errs = errors.Join(errs, fmt.Errorf("search.max_attempts must be at least 1, got %d", s.MaxAttempts))
	}
	if s.MaxResults < 1 || s.MaxResults > maxResultsLimit {
		errs = errors.Join(errs, fmt.Errorf("search.max_results must be between 1 and %d, got %d",
			maxResultsLimit, s.MaxResults))
	}
	if s.MaxTags < 0 {
		errs = errors.Join(errs, fmt.Errorf("search.max_tags must not be negative, got %d", s.MaxTags))
	}
	if s.TimeoutSeconds < 0 {
		errs = errors.Join(errs, fmt.Errorf("search.timeout_seconds must not be negative, got %d", s.TimeoutSeconds))
	}

	if errs != nil {
		return fmt.Errorf("invalid config: %w", errs)
	}
	return nil
}

// RedactedToken returns a printable form of the bot token.
func (c DiscordConfig) RedactedToken() string {
	if c.Token == "" {
		return "(not set)"
	}
	if len(c.Token) <= 8 {
		return "****"
	}
	return c.Token[:4] + "****" + c.Token[len(c.Token)-4:]
}
