package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Sink delivers a rendered message to the user who invoked a command.
// Implementations report failures as *SendError.
type Sink interface {
	SendEmbed(ctx context.Context, embed *discordgo.MessageEmbed) error
}

type SendErrorKind int

const (
	SendOther SendErrorKind = iota
	// SendTooLarge means the message exceeds the transport's size limits.
	SendTooLarge
)

func (k SendErrorKind) String() string {
	if k == SendTooLarge {
		return "too_large"
	}
	return "other"
}

type SendError struct {
	Kind SendErrorKind
	Err  error
}

func (e *SendError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("send failed (%s)", e.Kind)
	}
	return fmt.Sprintf("send failed (%s): %v", e.Kind, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// IsTooLarge reports whether err is a SendError of kind SendTooLarge.
func IsTooLarge(err error) bool {
	var sendErr *SendError
	return errors.As(err, &sendErr) && sendErr.Kind == SendTooLarge
}

// Cooldown is the per-user rate a command expects its host to enforce:
// at most Rate invocations every Per.
type Cooldown struct {
	Rate int
	Per  time.Duration
}

type Command interface {
	Name() string
	Aliases() []string
	Usage() string
	Cooldown() Cooldown
	Handle(ctx context.Context, c *Context) error
}

// Context describes one invocation.
type Context struct {
	// Raw is the invocation text after the command name.
	Raw       string
	UserID    string
	ChannelID string
	Out       Sink
}

type invocationKey struct{}

func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationKey{}, id)
}

func InvocationID(ctx context.Context) string {
	id, _ := ctx.Value(invocationKey{}).(string)
	return id
}
