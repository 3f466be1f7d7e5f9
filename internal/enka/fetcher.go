// Package enka adapts the public inspection API: it fetches a
// player's showcase payload with bounded retries and digs the list of
// character records out of whatever shape the payload happens to have.
package enka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/hoyolink/hoyolink/internal/models"
)

var (
	// ErrUnsupportedGame marks a programming error: the caller asked
	// for a game the fetcher has no endpoint template for.
	ErrUnsupportedGame = errors.New("unsupported game")

	// ErrUnavailable is returned after retry exhaustion. The
	// underlying transport cause is logged, not propagated, so
	// callers present one uniform message.
	ErrUnavailable = errors.New("inspection api unavailable")
)

// endpoints maps a game to its path template.
var endpoints = map[models.Game]string{
	models.Genshin:  "api/uid/%s",
	models.StarRail: "api/hsr/uid/%s",
	models.Zenless:  "api/zzz/uid/%s",
}

const (
	defaultAttempts = 3
	defaultBackoff  = 500 * time.Millisecond
	attemptTimeout  = 10 * time.Second
)

// Fetcher performs inspection-API GETs with a per-attempt timeout and
// exponential backoff between attempts.
type Fetcher struct {
	base     string
	client   *http.Client
	attempts uint64
	wait     time.Duration
	log      *zap.Logger
}

// NewFetcher returns a Fetcher against base with the default retry
// policy (3 attempts).
func NewFetcher(base string, log *zap.Logger) *Fetcher {
	return &Fetcher{
		base:     strings.TrimRight(base, "/"),
		client:   &http.Client{Timeout: attemptTimeout},
		attempts: defaultAttempts,
		wait:     defaultBackoff,
		log:      log,
	}
}

// URL builds the concrete endpoint URL for game and uid.
func (f *Fetcher) URL(game models.Game, uid string) (string, error) {
	tmpl, ok := endpoints[game]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedGame, game)
	}
	return f.base + "/" + fmt.Sprintf(tmpl, uid), nil
}

// Fetch GETs the showcase payload for uid. A non-200 status or
// malformed JSON counts as a failed attempt, not as valid empty data.
// After the retry ceiling the result is ErrUnavailable; only an
// unknown game fails immediately.
func (f *Fetcher) Fetch(ctx context.Context, game models.Game, uid string) (map[string]any, error) {
	url, err := f.URL(game, uid)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	op := func() error {
		// Recreate the request each attempt.
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = f.wait
	policy := backoff.WithMaxRetries(expo, f.attempts-1)

	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		f.log.Warn("inspection api fetch failed",
			zap.String("game", string(game)),
			zap.String("uid", uid),
			zap.Error(err),
		)
		return nil, ErrUnavailable
	}
	return payload, nil
}
