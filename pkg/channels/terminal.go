package channels

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/sipeed/sobot/pkg/commands"
)

// TerminalSink prints embeds as plain text. It applies the same size limits
// as DiscordSink so the CLI previews what a Discord user would see.
type TerminalSink struct {
	w io.Writer
}

func NewTerminalSink(w io.Writer) *TerminalSink {
	return &TerminalSink{w: w}
}

func (s *TerminalSink) SendEmbed(_ context.Context, embed *discordgo.MessageEmbed) error {
	if err := ValidateEmbed(embed); err != nil {
		return &commands.SendError{Kind: commands.SendTooLarge, Err: err}
	}
	if _, err := io.WriteString(s.w, FormatEmbed(embed)); err != nil {
		return &commands.SendError{Kind: commands.SendOther, Err: err}
	}
	return nil
}

func FormatEmbed(embed *discordgo.MessageEmbed) string {
	var sb strings.Builder

	sb.WriteString(embed.Title)
	sb.WriteString("\n")
	if embed.URL != "" {
		fmt.Fprintf(&sb, "%s\n", embed.URL)
	}
	if embed.Description != "" {
		fmt.Fprintf(&sb, "%s\n", embed.Description)
	}
	for _, field := range embed.Fields {
		fmt.Fprintf(&sb, "\n  %s\n    %s\n", field.Name, field.Value)
	}
	if embed.Footer != nil && embed.Footer.Text != "" {
		fmt.Fprintf(&sb, "\n%s\n", embed.Footer.Text)
	}

	return sb.String()
}

var _ commands.Sink = (*TerminalSink)(nil)
