package channels

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/sipeed/sobot/pkg/commands"
	"github.com/sipeed/sobot/pkg/logger"
)

// DiscordOption configures the Discord channel.
type DiscordOption func(*DiscordChannel)

// WithDiscordGuild limits the bot to a specific guild.
func WithDiscordGuild(guildID string) DiscordOption {
	return func(d *DiscordChannel) { d.guildID = guildID }
}

// WithDiscordChannels limits the bot to specific channel IDs.
func WithDiscordChannels(ids []string) DiscordOption {
	return func(d *DiscordChannel) {
		d.channelIDs = make(map[string]bool, len(ids))
		for _, id := range ids {
			d.channelIDs[id] = true
		}
	}
}

// WithDiscordPrefix sets the command prefix.
func WithDiscordPrefix(prefix string) DiscordOption {
	return func(d *DiscordChannel) { d.prefix = prefix }
}

type messageSender interface {
	embedSender
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordChannel connects to the Discord gateway and dispatches prefixed
// commands from the registry, enforcing their cooldowns.
type DiscordChannel struct {
	token      string
	prefix     string
	guildID    string
	channelIDs map[string]bool
	registry   *commands.Registry
	cooldowns  *Cooldowns

	mu        sync.Mutex
	session   *discordgo.Session
	botUserID string
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewDiscordChannel(token string, registry *commands.Registry, opts ...DiscordOption) *DiscordChannel {
	d := &DiscordChannel{
		token:     token,
		prefix:    ".",
		registry:  registry,
		cooldowns: NewCooldowns(),
		ctx:       context.Background(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *DiscordChannel) Name() string { return "discord" }

func (d *DiscordChannel) Start(ctx context.Context) error {
	if d.token == "" {
		return fmt.Errorf("discord token is required")
	}

	dg, err := discordgo.New("Bot " + d.token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent
	dg.AddHandler(d.onMessageCreate)

	d.mu.Lock()
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.session = dg
	d.mu.Unlock()

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}

	d.mu.Lock()
	d.botUserID = dg.State.User.ID
	runCtx := d.ctx
	d.mu.Unlock()

	go d.cooldowns.Run(runCtx)

	logger.InfoCF("discord", "Discord channel started", map[string]any{
		"user_id": dg.State.User.ID,
		"prefix":  d.prefix,
	})
	return nil
}

func (d *DiscordChannel) Stop(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}
	if d.session != nil {
		err := d.session.Close()
		d.session = nil
		return err
	}
	return nil
}

func (d *DiscordChannel) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	d.dispatch(s, m.Message)
}

// dispatch runs on discordgo's per-event goroutine, so invocations proceed
// concurrently and share nothing but the search client.
func (d *DiscordChannel) dispatch(s messageSender, m *discordgo.Message) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	d.mu.Lock()
	botUserID, ctx := d.botUserID, d.ctx
	d.mu.Unlock()

	if m.Author.ID == botUserID {
		return
	}
	if d.guildID != "" && m.GuildID != d.guildID {
		return
	}
	if len(d.channelIDs) > 0 && !d.channelIDs[m.ChannelID] {
		return
	}

	name, raw, ok := ParseInvocation(d.prefix, m.Content)
	if !ok {
		return
	}

	if strings.EqualFold(name, "help") {
		d.reply(s, m.ChannelID, d.helpText())
		return
	}

	cmd, ok := d.registry.Get(name)
	if !ok {
		return
	}

	if raw == "" {
		d.reply(s, m.ChannelID, fmt.Sprintf("Missing argument. Usage: `%s%s`", d.prefix, cmd.Usage()))
		return
	}

	if allowed, retryAfter := d.cooldowns.Allow(cmd.Name(), m.Author.ID, cmd.Cooldown()); !allowed {
		d.reply(s, m.ChannelID, fmt.Sprintf("This command is on cooldown, try again in %ds.",
			max(int(retryAfter.Round(time.Second)/time.Second), 1)))
		return
	}

	invocationID := uuid.NewString()
	fields := map[string]any{
		"invocation": invocationID,
		"command":    cmd.Name(),
		"user_id":    m.Author.ID,
		"channel_id": m.ChannelID,
	}
	logger.DebugCF("discord", "Dispatching command", fields)

	cc := &commands.Context{
		Raw:       raw,
		UserID:    m.Author.ID,
		ChannelID: m.ChannelID,
		Out:       NewDiscordSink(s, m.ChannelID),
	}
	if err := cmd.Handle(commands.WithInvocationID(ctx, invocationID), cc); err != nil {
		fields["error"] = err.Error()
		logger.ErrorCF("discord", "Command failed", fields)
	}
}

func (d *DiscordChannel) reply(s messageSender, channelID, content string) {
	if _, err := s.ChannelMessageSend(channelID, content); err != nil {
		logger.WarnCF("discord", "Failed to send reply", map[string]any{
			"channel_id": channelID,
			"error":      err.Error(),
		})
	}
}

func (d *DiscordChannel) helpText() string {
	cmds := d.registry.Commands()
	lines := make([]string, 0, len(cmds)+1)
	lines = append(lines, "Available commands:")
	for _, cmd := range cmds {
		line := fmt.Sprintf("`%s%s`", d.prefix, cmd.Usage())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			sorted := append([]string(nil), aliases...)
			sort.Strings(sorted)
			line += fmt.Sprintf(" (aliases: %s)", strings.Join(sorted, ", "))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// ParseInvocation splits "<prefix><name> <rest>" into name and the trimmed
// rest. ok is false when content does not start with prefix or names nothing.
func ParseInvocation(prefix, content string) (name, rest string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", false
	}

	body := content[len(prefix):]
	i := strings.IndexFunc(body, unicode.IsSpace)
	switch {
	case i == 0 || body == "":
		return "", "", false
	case i < 0:
		return body, "", true
	}
	return body[:i], strings.TrimSpace(body[i:]), true
}
