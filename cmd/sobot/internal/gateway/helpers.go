package gateway

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sipeed/sobot/cmd/sobot/internal"
	"github.com/sipeed/sobot/pkg/channels"
	"github.com/sipeed/sobot/pkg/commands"
	"github.com/sipeed/sobot/pkg/config"
	"github.com/sipeed/sobot/pkg/logger"
)

func gatewayCmd(debug bool) error {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	internal.SetupLogging(cfg, debug)

	discord, err := newDiscordChannel(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := discord.Start(ctx); err != nil {
		return fmt.Errorf("error starting discord channel: %w", err)
	}

	fmt.Printf("%s Gateway running, prefix %q. Press Ctrl+C to stop.\n", internal.Logo, cfg.Discord.Prefix)

	<-ctx.Done()

	logger.Info("Shutting down gateway")
	if err := discord.Stop(context.Background()); err != nil {
		return fmt.Errorf("error stopping discord channel: %w", err)
	}
	fmt.Println("✓ Gateway stopped")

	return nil
}

func newDiscordChannel(cfg *config.Config) (*channels.DiscordChannel, error) {
	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("discord.token is required (set it in %s or SOBOT_DISCORD_TOKEN)",
			internal.GetConfigPath())
	}

	search, err := internal.NewSearchCommand(cfg)
	if err != nil {
		return nil, err
	}

	registry := commands.NewRegistry()
	if err := registry.Register(search); err != nil {
		return nil, fmt.Errorf("error registering command: %w", err)
	}

	opts := []channels.DiscordOption{channels.WithDiscordPrefix(cfg.Discord.Prefix)}
	if cfg.Discord.GuildID != "" {
		opts = append(opts, channels.WithDiscordGuild(cfg.Discord.GuildID))
	}
	if len(cfg.Discord.AllowFrom) > 0 {
		opts = append(opts, channels.WithDiscordChannels(cfg.Discord.AllowFrom))
	}

	return channels.NewDiscordChannel(cfg.Discord.Token, registry, opts...), nil
}
