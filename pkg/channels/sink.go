package channels

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/sipeed/sobot/pkg/commands"
)

// Discord embed limits, counted in characters.
const (
	maxEmbedTitle       = 256
	maxEmbedDescription = 4096
	maxEmbedFields      = 25
	maxEmbedFieldName   = 256
	maxEmbedFieldValue  = 1024
	maxEmbedFooter      = 2048
	maxEmbedTotal       = 6000

	discordInvalidFormBody = 50035
)

var errEmbedTooLarge = errors.New("embed exceeds discord limits")

// ValidateEmbed checks embed against Discord's size limits.
func ValidateEmbed(embed *discordgo.MessageEmbed) error {
	total := 0
	check := func(what, s string, limit int) error {
		n := utf8.RuneCountInString(s)
		total += n
		if n > limit {
			return fmt.Errorf("%w: %s has %d characters (max %d)", errEmbedTooLarge, what, n, limit)
		}
		return nil
	}

	if err := check("title", embed.Title, maxEmbedTitle); err != nil {
		return err
	}
	if err := check("description", embed.Description, maxEmbedDescription); err != nil {
		return err
	}
	if len(embed.Fields) > maxEmbedFields {
		return fmt.Errorf("%w: %d fields (max %d)", errEmbedTooLarge, len(embed.Fields), maxEmbedFields)
	}
	for i, field := range embed.Fields {
		if err := check(fmt.Sprintf("field %d name", i), field.Name, maxEmbedFieldName); err != nil {
			return err
		}
		if err := check(fmt.Sprintf("field %d value", i), field.Value, maxEmbedFieldValue); err != nil {
			return err
		}
	}
	if embed.Footer != nil {
		if err := check("footer", embed.Footer.Text, maxEmbedFooter); err != nil {
			return err
		}
	}
	if total > maxEmbedTotal {
		return fmt.Errorf("%w: %d characters in total (max %d)", errEmbedTooLarge, total, maxEmbedTotal)
	}
	return nil
}

type embedSender interface {
	ChannelMessageSendEmbed(
		channelID string,
		embed *discordgo.MessageEmbed,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
}

// DiscordSink sends embeds to one Discord channel.
type DiscordSink struct {
	sender    embedSender
	channelID string
}

func NewDiscordSink(sender embedSender, channelID string) *DiscordSink {
	return &DiscordSink{sender: sender, channelID: channelID}
}

func (s *DiscordSink) SendEmbed(ctx context.Context, embed *discordgo.MessageEmbed) error {
	if err := ValidateEmbed(embed); err != nil {
		return &commands.SendError{Kind: commands.SendTooLarge, Err: err}
	}

	if _, err := s.sender.ChannelMessageSendEmbed(s.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return &commands.SendError{Kind: classifySendError(err), Err: err}
	}
	return nil
}

// classifySendError maps Discord's size rejections to SendTooLarge.
func classifySendError(err error) commands.SendErrorKind {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return commands.SendOther
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusRequestEntityTooLarge {
		return commands.SendTooLarge
	}
	if restErr.Message != nil && restErr.Message.Code == discordInvalidFormBody {
		return commands.SendTooLarge
	}
	return commands.SendOther
}

var _ commands.Sink = (*DiscordSink)(nil)
