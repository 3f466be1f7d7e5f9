package gameapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultRecordBase is the game-record API root.
	DefaultRecordBase = "https://bbs-api-os.hoyolab.com/game_record/genshin/api"
	// DefaultSignBase is the daily check-in API root.
	DefaultSignBase = "https://sg-hk4e-api.hoyolab.com"

	signActID = "e202102251931481"
)

// HoyoClient is a concrete Client over the HoYoLAB HTTP endpoints.
// Each semantic operation is registered under every historical name
// it has carried, so candidate lists built against older upstream
// versions still resolve.
type HoyoClient struct {
	// HTTP performs the requests. Replaceable in tests.
	HTTP *http.Client
	// RecordBase and SignBase override the upstream roots.
	RecordBase string
	SignBase   string

	cookies AuthPayload
	uid     string
	ops     map[string]CallFunc
}

// NewHoyoClient builds a client around the given authentication
// payload. uid is the account identifier used by operations that need
// one when the call itself does not supply it; it may be empty.
func NewHoyoClient(payload AuthPayload, uid string) *HoyoClient {
	c := &HoyoClient{
		HTTP:       &http.Client{Timeout: 10 * time.Second},
		RecordBase: DefaultRecordBase,
		SignBase:   DefaultSignBase,
		cookies:    payload,
		uid:        uid,
	}
	c.ops = map[string]CallFunc{
		"get_genshin_user":    c.accountIndex,
		"get_user":            c.accountIndex,
		"get_user_data":       c.accountIndex,
		"get_characters":      c.accountIndex,
		"get_characters_list": c.accountIndex,

		"get_notes":         c.dailyNote,
		"get_genshin_notes": c.dailyNote,
		"get_daily_notes":   c.dailyNote,

		"get_spiral_abyss": c.currentAbyss,
		"get_abyss":        c.currentAbyss,
		"spiral_abyss":     c.currentAbyss,

		"get_prev_spiral_abyss":     c.previousAbyss,
		"get_previous_spiral_abyss": c.previousAbyss,
		"get_spiral_abyss_previous": c.previousAbyss,

		"claim_daily_reward": c.claimDaily,
		"do_sign_in":         c.claimDaily,
		"signin":             c.claimDaily,
	}
	return c
}

// Op returns the operation registered under name.
func (c *HoyoClient) Op(name string) (CallFunc, bool) {
	fn, ok := c.ops[name]
	return fn, ok
}

// serverForUID maps an account UID to its region server code.
func serverForUID(uid string) string {
	switch {
	case strings.HasPrefix(uid, "6"):
		return "os_usa"
	case strings.HasPrefix(uid, "7"):
		return "os_euro"
	case strings.HasPrefix(uid, "8"):
		return "os_asia"
	case strings.HasPrefix(uid, "9"):
		return "os_cht"
	default:
		return "os_asia"
	}
}

func (c *HoyoClient) cookieHeader() string {
	parts := make([]string, 0, len(c.cookies))
	for _, k := range []string{"ltuid", "ltoken", "ltuid_v2", "ltoken_v2", "cookie_token"} {
		if v, ok := c.cookies[k]; ok {
			parts = append(parts, k+"="+v)
		}
	}
	return strings.Join(parts, "; ")
}

// envelope is the common HoYoLAB response wrapper.
type envelope struct {
	Retcode int             `json:"retcode"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *HoyoClient) do(ctx context.Context, method, rawURL string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cookie", c.cookieHeader())
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("account api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("account api status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("account api decode: %w", err)
	}
	if env.Retcode != 0 {
		return nil, fmt.Errorf("account api retcode %d: %s", env.Retcode, env.Message)
	}

	var data any
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("account api decode data: %w", err)
		}
	}
	return data, nil
}

// resolveUID picks the UID for a record call: an explicit argument
// wins over the client-wide one.
func (c *HoyoClient) resolveUID(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if c.uid != "" {
		return c.uid, nil
	}
	return "", fmt.Errorf("no account uid available")
}

func (c *HoyoClient) recordURL(path, uid string, extra url.Values) string {
	q := url.Values{}
	q.Set("role_id", uid)
	q.Set("server", serverForUID(uid))
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return c.RecordBase + path + "?" + q.Encode()
}

func (c *HoyoClient) accountIndex(ctx context.Context, args ...string) (any, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("%w: accountIndex takes at most one uid", ErrBadCall)
	}
	uid, err := c.resolveUID(args)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodGet, c.recordURL("/index", uid, nil))
}

func (c *HoyoClient) dailyNote(ctx context.Context, args ...string) (any, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("%w: dailyNote takes at most one uid", ErrBadCall)
	}
	uid, err := c.resolveUID(args)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodGet, c.recordURL("/dailyNote", uid, nil))
}

func (c *HoyoClient) currentAbyss(ctx context.Context, args ...string) (any, error) {
	return c.abyss(ctx, "1", args)
}

func (c *HoyoClient) previousAbyss(ctx context.Context, args ...string) (any, error) {
	return c.abyss(ctx, "2", args)
}

func (c *HoyoClient) abyss(ctx context.Context, schedule string, args []string) (any, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("%w: abyss takes at most one uid", ErrBadCall)
	}
	uid, err := c.resolveUID(args)
	if err != nil {
		return nil, err
	}
	extra := url.Values{}
	extra.Set("schedule_type", schedule)
	return c.do(ctx, http.MethodGet, c.recordURL("/spiralAbyss", uid, extra))
}

func (c *HoyoClient) claimDaily(ctx context.Context, args ...string) (any, error) {
	if len(args) > 0 {
		return nil, fmt.Errorf("%w: claimDaily takes no arguments", ErrBadCall)
	}
	return c.do(ctx, http.MethodPost, c.SignBase+"/event/sol/sign?act_id="+signActID)
}
