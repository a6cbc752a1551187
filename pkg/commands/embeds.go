package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/sipeed/sobot/pkg/stackexchange"
)

const (
	fetchErrorTitle       = "Error in fetching results from Stackoverflow"
	fetchErrorDescription = "Sorry, there was an error while trying to fetch data from the Stackoverflow website. " +
		"Please try again in some time. If this issue persists, please contact the staff."
	queryTooLongTitle = "Your search query is too long, please try shortening your search query"
	resultsFooter     = "View the original link for more results."
	untitled          = "(untitled)"
)

type Icons struct {
	Upvote  string
	Views   string
	Answers string
	Tag     string
}

// FetchErrorEmbed is built fresh on every call so invocations never share a
// mutable embed.
func FetchErrorEmbed(color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fetchErrorTitle,
		Description: fetchErrorDescription,
		Color:       color,
	}
}

func NoResultsEmbed(query string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("No search results found for %s", quoteQuery(query)),
		Color: color,
	}
}

func QueryTooLongEmbed(color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: queryTooLongTitle,
		Color: color,
	}
}

// ResultsEmbed renders one field per question, in the given order.
func ResultsEmbed(
	query, webURL string,
	questions []stackexchange.Question,
	icons Icons,
	maxTags int,
	color int,
) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Search results for %s - Stackoverflow", quoteQuery(query)),
		URL:         webURL,
		Description: fmt.Sprintf("Here are the top %d results:", len(questions)),
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: resultsFooter},
		Fields:      make([]*discordgo.MessageEmbedField, 0, len(questions)),
	}

	for _, q := range questions {
		name := q.DisplayTitle()
		if strings.TrimSpace(name) == "" {
			name = untitled
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   name,
			Value:  questionSummary(q, icons, maxTags),
			Inline: false,
		})
	}

	return embed
}

func questionSummary(q stackexchange.Question, icons Icons, maxTags int) string {
	return fmt.Sprintf("[%s %d    %s %d     %s %d   %s %s](%s)",
		icons.Upvote, q.Score,
		icons.Views, q.ViewCount,
		icons.Answers, q.AnswerCount,
		icons.Tag, strings.Join(q.TopTags(maxTags), ", "),
		q.Link,
	)
}

// quoteQuery wraps the query in single quotes, switching to double quotes
// when the query itself contains a single quote but no double quote.
func quoteQuery(query string) string {
	if strings.Contains(query, "'") && !strings.Contains(query, `"`) {
		return `"` + query + `"`
	}
	return "'" + strings.ReplaceAll(query, "'", `\'`) + "'"
}
