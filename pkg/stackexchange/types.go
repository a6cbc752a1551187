package stackexchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
)

// ErrMalformedResponse is returned when a successful response body does not
// match the search/advanced schema.
var ErrMalformedResponse = errors.New("malformed search response")

type Question struct {
	Title       string
	Score       int
	ViewCount   int
	AnswerCount int
	Tags        []string
	Link        string
}

// DisplayTitle is the title with HTML entities decoded.
func (q Question) DisplayTitle() string {
	return html.UnescapeString(q.Title)
}

// TopTags returns at most n tags, in API order.
func (q Question) TopTags(n int) []string {
	if n >= len(q.Tags) {
		return q.Tags
	}
	return q.Tags[:n]
}

type SearchResponse struct {
	Items          []Question
	HasMore        bool
	QuotaMax       int
	QuotaRemaining int
}

// Top returns the first n items, in API order.
func (r *SearchResponse) Top(n int) []Question {
	if n >= len(r.Items) {
		return r.Items
	}
	return r.Items[:n]
}

// Pointer fields distinguish a missing key from its zero value.
type wireQuestion struct {
	Title       *string   `json:"title"`
	Score       *int      `json:"score"`
	ViewCount   *int      `json:"view_count"`
	AnswerCount *int      `json:"answer_count"`
	Tags        *[]string `json:"tags"`
	Link        *string   `json:"link"`
}

type wireResponse struct {
	Items          *[]wireQuestion `json:"items"`
	HasMore        bool            `json:"has_more"`
	QuotaMax       int             `json:"quota_max"`
	QuotaRemaining int             `json:"quota_remaining"`
	ErrorID        int             `json:"error_id"`
	ErrorName      string          `json:"error_name"`
	ErrorMessage   string          `json:"error_message"`
}

// DecodeSearchResponse parses a search/advanced body and checks that every
// field needed for rendering is present.
func DecodeSearchResponse(body []byte) (*SearchResponse, error) {
	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if wire.ErrorID != 0 {
		return nil, fmt.Errorf("%w: api error %d (%s): %s",
			ErrMalformedResponse, wire.ErrorID, wire.ErrorName, wire.ErrorMessage)
	}

	if wire.Items == nil {
		return nil, fmt.Errorf("%w: missing items", ErrMalformedResponse)
	}

	resp := &SearchResponse{
		Items:          make([]Question, 0, len(*wire.Items)),
		HasMore:        wire.HasMore,
		QuotaMax:       wire.QuotaMax,
		QuotaRemaining: wire.QuotaRemaining,
	}

	for i, item := range *wire.Items {
		q, err := item.question()
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformedResponse, i, err)
		}
		resp.Items = append(resp.Items, q)
	}

	return resp, nil
}

func (w wireQuestion) question() (Question, error) {
	var missing []string
	if w.Title == nil {
		missing = append(missing, "title")
	}
	if w.Score == nil {
		missing = append(missing, "score")
	}
	if w.ViewCount == nil {
		missing = append(missing, "view_count")
	}
	if w.AnswerCount == nil {
		missing = append(missing, "answer_count")
	}
	if w.Tags == nil {
		missing = append(missing, "tags")
	}
	if w.Link == nil {
		missing = append(missing, "link")
	}
	if len(missing) > 0 {
		return Question{}, fmt.Errorf("missing fields %v", missing)
	}

	return Question{
		Title:       *w.Title,
		Score:       *w.Score,
		ViewCount:   *w.ViewCount,
		AnswerCount: *w.AnswerCount,
		Tags:        *w.Tags,
		Link:        *w.Link,
	}, nil
}
