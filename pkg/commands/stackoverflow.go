package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sipeed/sobot/pkg/logger"
	"github.com/sipeed/sobot/pkg/stackexchange"
)

var errNoSink = errors.New("no sink configured")

// Searcher is the part of *stackexchange.Client the search command needs.
type Searcher interface {
	Fetch(ctx context.Context, encodedQuery string) (stackexchange.FetchResult, error)
	WebURL(encodedQuery string) string
}

type SearchOptions struct {
	MaxResults   int
	MaxTags      int
	Icons        Icons
	ResultsColor int
	ErrorColor   int
}

// SearchCommand sends the top Stack Overflow results for a query.
type SearchCommand struct {
	searcher Searcher
	opts     SearchOptions
}

func NewSearchCommand(searcher Searcher, opts SearchOptions) *SearchCommand {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 5
	}
	if opts.MaxTags < 0 {
		opts.MaxTags = 0
	}
	return &SearchCommand{searcher: searcher, opts: opts}
}

func (c *SearchCommand) Name() string {
	return "stackoverflow"
}

func (c *SearchCommand) Aliases() []string {
	return []string{"so"}
}

func (c *SearchCommand) Usage() string {
	return "stackoverflow <query>: sends the top 5 results of a search query from Stack Overflow"
}

func (c *SearchCommand) Cooldown() Cooldown {
	return Cooldown{Rate: 1, Per: 15 * time.Second}
}

func (c *SearchCommand) Handle(ctx context.Context, cc *Context) error {
	if cc.Out == nil {
		return errNoSink
	}
	return c.Execute(ctx, cc.Raw, cc.Out)
}

// Execute runs one search and sends exactly one message to sink. Transport
// errors from the search request, and send failures other than
// SendTooLarge, are returned without sending anything further.
func (c *SearchCommand) Execute(ctx context.Context, query string, sink Sink) error {
	encoded := stackexchange.EncodeQuery(query)
	fields := map[string]any{
		"query":      query,
		"invocation": InvocationID(ctx),
	}

	result, err := c.searcher.Fetch(ctx, encoded)
	if err != nil {
		return fmt.Errorf("search request failed: %w", err)
	}

	if result.Outcome != stackexchange.OutcomeSuccess {
		fields["status"] = result.Status
		fields["attempts"] = result.Attempts
		logger.ErrorCF("stackoverflow", "Giving up on search after repeated failures", fields)
		return c.send(ctx, sink, FetchErrorEmbed(c.opts.ErrorColor))
	}

	resp, err := stackexchange.DecodeSearchResponse(result.Body)
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorCF("stackoverflow", "Search returned an unusable response", fields)
		return c.send(ctx, sink, FetchErrorEmbed(c.opts.ErrorColor))
	}

	logger.DebugCF("stackoverflow", "Search response decoded", map[string]any{
		"invocation":      InvocationID(ctx),
		"items":           len(resp.Items),
		"has_more":        resp.HasMore,
		"quota_remaining": resp.QuotaRemaining,
		"quota_max":       resp.QuotaMax,
	})

	if len(resp.Items) == 0 {
		return c.sendWithFallback(ctx, sink, NoResultsEmbed(query, c.opts.ErrorColor))
	}

	top := resp.Top(c.opts.MaxResults)
	embed := ResultsEmbed(query, c.searcher.WebURL(encoded), top, c.opts.Icons, c.opts.MaxTags, c.opts.ResultsColor)

	fields["results"] = len(top)
	logger.InfoCF("stackoverflow", "Sending search results", fields)

	return c.sendWithFallback(ctx, sink, embed)
}

// sendWithFallback replaces a message the sink rejects as too large with the
// fixed "shorten your query" message. The rejected message is not retried.
func (c *SearchCommand) sendWithFallback(ctx context.Context, sink Sink, embed *discordgo.MessageEmbed) error {
	err := sink.SendEmbed(ctx, embed)
	if err == nil {
		return nil
	}
	if !IsTooLarge(err) {
		return fmt.Errorf("failed to send search message: %w", err)
	}

	logger.WarnCF("stackoverflow", "Search message too large, sending fallback",
		map[string]any{"invocation": InvocationID(ctx), "error": err.Error()})

	return c.send(ctx, sink, QueryTooLongEmbed(c.opts.ErrorColor))
}

func (c *SearchCommand) send(ctx context.Context, sink Sink, embed *discordgo.MessageEmbed) error {
	if err := sink.SendEmbed(ctx, embed); err != nil {
		return fmt.Errorf("failed to send search message: %w", err)
	}
	return nil
}

var _ Command = (*SearchCommand)(nil)
