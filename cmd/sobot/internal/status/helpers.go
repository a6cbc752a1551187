package status

import (
	"fmt"
	"io"
	"os"

	"github.com/sipeed/sobot/cmd/sobot/internal"
	"github.com/sipeed/sobot/pkg/config"
)

func statusCmd() {
	configPath := internal.GetConfigPath()

	cfg, err := internal.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	printStatus(os.Stdout, configPath, cfg)
}

func printStatus(w io.Writer, configPath string, cfg *config.Config) {
	fmt.Fprintf(w, "%s sobot Status\n", internal.Logo)
	fmt.Fprintf(w, "Version: %s\n", internal.FormatVersion())
	fmt.Fprintln(w)

	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintln(w, "Config:", configPath, "✓")
	} else {
		fmt.Fprintln(w, "Config:", configPath, "✗ (using defaults)")
	}

	fmt.Fprintln(w, "\nDiscord:")
	fmt.Fprintf(w, "  Token:  %s\n", cfg.Discord.RedactedToken())
	fmt.Fprintf(w, "  Prefix: %s\n", cfg.Discord.Prefix)
	if cfg.Discord.GuildID != "" {
		fmt.Fprintf(w, "  Guild:  %s\n", cfg.Discord.GuildID)
	}
	if len(cfg.Discord.AllowFrom) > 0 {
		fmt.Fprintf(w, "  Channels: %v\n", cfg.Discord.AllowFrom)
	}

	s := cfg.Search
	fmt.Fprintln(w, "\nSearch:")
	fmt.Fprintf(w, "  API:      %s (site=%s)\n", s.APIURL, s.Site)
	fmt.Fprintf(w, "  Web:      %s\n", s.SiteURL)
	fmt.Fprintf(w, "  Attempts: %d\n", s.MaxAttempts)
	fmt.Fprintf(w, "  Results:  %d (tags per result: %d)\n", s.MaxResults, s.MaxTags)
	fmt.Fprintf(w, "  Timeout:  %s\n", s.Timeout())
	if s.Proxy != "" {
		fmt.Fprintf(w, "  Proxy:    %s\n", s.Proxy)
	}
}
