package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sipeed/sobot/pkg/commands"
	"github.com/sipeed/sobot/pkg/config"
	"github.com/sipeed/sobot/pkg/logger"
	"github.com/sipeed/sobot/pkg/stackexchange"
)

const Logo = "🔎"

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

func GetConfigPath() string {
	if path := os.Getenv("SOBOT_CONFIG"); path != "" {
		return path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".sobot", "config.json")
}

func LoadConfig() (*config.Config, error) {
	return config.LoadConfig(GetConfigPath())
}

// SetupLogging applies the configured log level; debug forces DEBUG.
func SetupLogging(cfg *config.Config, debug bool) {
	if debug {
		logger.SetLevel(logger.DEBUG)
		return
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
}

// NewSearchCommand wires the search command to a Stack Exchange client built
// from cfg. The returned command is safe to share across invocations.
func NewSearchCommand(cfg *config.Config) (*commands.SearchCommand, error) {
	s := cfg.Search

	client, err := stackexchange.NewClient(stackexchange.ClientOptions{
		APIURL:      s.APIURL,
		SiteURL:     s.SiteURL,
		Site:        s.Site,
		MaxAttempts: s.MaxAttempts,
		Timeout:     s.Timeout(),
		Proxy:       s.Proxy,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating search client: %w", err)
	}

	return commands.NewSearchCommand(client, commands.SearchOptions{
		MaxResults: s.MaxResults,
		MaxTags:    s.MaxTags,
		Icons: commands.Icons{
			Upvote:  s.Icons.Upvote,
			Views:   s.Icons.Views,
			Answers: s.Icons.Answers,
			Tag:     s.Icons.Tag,
		},
		ResultsColor: s.Colors.Results,
		ErrorColor:   s.Colors.Error,
	}), nil
}

// FormatVersion returns the version string with optional git commit
func FormatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

// FormatBuildInfo returns build time and go version info
func FormatBuildInfo() (string, string) {
	build := buildTime
	goVer := goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return build, goVer
}

// GetVersion returns the version string
func GetVersion() string {
	return version
}
