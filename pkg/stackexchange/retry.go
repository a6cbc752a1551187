package stackexchange

import (
	"context"
	"net/http"

	"github.com/sipeed/sobot/pkg/logger"
)

type Outcome int

const (
	// OutcomeSuccess means an attempt returned 200 and Body holds its payload.
	OutcomeSuccess Outcome = iota
	// OutcomeExhausted means every attempt returned a non-200 status.
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

type FetchResult struct {
	Outcome  Outcome
	Body     []byte
	Status   int
	Attempts int
}

// AttemptFunc performs one request and reports its status code and, for 200
// responses, the body.
type AttemptFunc func(ctx context.Context) (status int, body []byte, err error)

// Retry runs attempt up to maxAttempts times with no delay, stopping at the
// first 200. An error from attempt or a done context aborts immediately.
func Retry(ctx context.Context, maxAttempts int, attempt AttemptFunc) (FetchResult, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastStatus int
	for i := 1; i <= maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return FetchResult{}, err
		}

		status, body, err := attempt(ctx)
		if err != nil {
			return FetchResult{}, err
		}

		if status == http.StatusOK {
			return FetchResult{Outcome: OutcomeSuccess, Body: body, Status: status, Attempts: i}, nil
		}

		logger.ErrorCF("stackexchange", "Search request returned non-200 status",
			map[string]any{
				"status":       status,
				"attempt":      i,
				"max_attempts": maxAttempts,
			})
		lastStatus = status
	}

	return FetchResult{Outcome: OutcomeExhausted, Status: lastStatus, Attempts: maxAttempts}, nil
}
