package discord

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/questx-lab/dashboard/pkg/api"
)

var (
	ErrRateLimit       = errors.New("rate limit")
	ErrNotFound        = errors.New("not found")
	ErrInvalidResponse = errors.New("invalid response")
	ErrNoBotToken      = errors.New("bot token is not configured")
)

// RateLimitError is returned for HTTP 429 responses or when the resource is still limited by a
// previous response.
type RateLimitError struct {
	After  time.Duration
	Global bool
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%v: retry after %s", ErrRateLimit, e.After)
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimit
}

func (e *RateLimitError) RetryAfter() time.Duration {
	return e.After
}

type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

func IsRateLimit(err error) (time.Duration, bool) {
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		return 0, false
	}

	return rl.After, true
}

// parseRateLimit reads the delay of a 429 response. Discord puts retry_after (seconds, float) in the
// body, the headers are only consulted when the body is not JSON.
func parseRateLimit(resp *api.Response) *RateLimitError {
	rl := &RateLimitError{}
	if body, ok := resp.Body.(api.JSON); ok {
		if after, err := body.GetFloat("retry_after"); err == nil {
			rl.After = secondsToDuration(after)
		}
		if global, err := body.GetBool("global"); err == nil {
			rl.Global = global
		}
	}

	if rl.After == 0 {
		for _, h := range []string{"X-RateLimit-Reset-After", "Retry-After"} {
			if after, err := strconv.ParseFloat(resp.Header.Get(h), 64); err == nil {
				rl.After = secondsToDuration(after)
				break
			}
		}
	}

	if resp.Header.Get("X-RateLimit-Global") == "true" {
		rl.Global = true
	}

	return rl
}

func secondsToDuration(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

// route converts an absolute discordgo endpoint into a path relative to the configured API URL.
func route(endpoint string) string {
	return "/" + strings.TrimPrefix(endpoint, discordgo.EndpointAPI)
}

func statusError(resp *api.Response) error {
	if resp.Code == http.StatusNotFound {
		return ErrNotFound
	}

	body := string(resp.RawBody)
	if len(body) > 200 {
		body = body[:200]
	}
	return &StatusError{Code: resp.Code, Body: body}
}
