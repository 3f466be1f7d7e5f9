package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hoyolink/hoyolink/internal/gameapi"
	"github.com/hoyolink/hoyolink/internal/models"
)

const (
	msgHelp = `Supported commands:

Setup:
/link <ltuid> <ltoken> — link with the legacy cookie pair
/link_v2 <ltuid_v2> <ltoken_v2> — link with the v2 cookie pair
/link_cookie <cookie_token> — link with a cookie_token
/unlink — remove the link and delete your data

Account:
/stats — account statistics
/characters — character list
/notes — resin, expeditions and more
/transactions — recent transactions

Abyss:
/abyss — current Spiral Abyss
/previous_abyss — previous Spiral Abyss (if available)

Daily:
/daily — daily reward data (if available)
/check_in — attempt the daily claim

Showcase (no login needed):
/set <game> <uid> — save a UID (game: gen | hsr | zzz)
/account — show saved UIDs
/gen /hsr /zzz — list showcase characters

/help — this message`

	msgNotLinked       = "You have not linked an account yet. Use /link or /link_cookie."
	msgUnsupported     = "This operation is unsupported by the upstream service or failed. Try again later."
	msgUnavailable     = "The service is unavailable right now. Try again later."
	msgTroubleshooting = `No characters found for this account.

Check step by step:
1) Make sure the UID is correct.
2) In game, open Profile > Showcase and add the characters you want shown.
3) In privacy settings enable "Show Character Details".
4) Restart the game or wait 5-10 minutes, then try again.`
)

// HandleCommand answers one chat command for userID. The returned
// error only reports reply-delivery failures; upstream and user
// errors are already converted to messages.
func (b *Bot) HandleCommand(ctx context.Context, userID, cmd string, args []string, r Replier) error {
	switch cmd {
	case "help", "start":
		return r.Text(ctx, msgHelp)
	case "link":
		return b.handleLink(ctx, userID, args, r)
	case "link_v2":
		return b.handleLinkV2(ctx, userID, args, r)
	case "link_cookie":
		return b.handleLinkCookie(ctx, userID, args, r)
	case "unlink":
		return b.handleUnlink(ctx, userID, r)
	case "stats":
		return b.handleStats(ctx, userID, r)
	case "characters":
		return b.handleCharacters(ctx, userID, r)
	case "notes":
		return b.handleNotes(ctx, userID, r)
	case "transactions":
		return b.handleTransactions(ctx, userID, r)
	case "abyss":
		return b.handleAbyss(ctx, userID, false, r)
	case "previous_abyss":
		return b.handleAbyss(ctx, userID, true, r)
	case "daily":
		return b.handleDaily(ctx, userID, r)
	case "check_in":
		return b.handleCheckIn(ctx, userID, r)
	case "set":
		return b.handleSet(ctx, userID, args, r)
	case "account":
		return b.handleAccount(ctx, userID, r)
	case "gen", "hsr", "zzz":
		return b.handleShowcase(ctx, userID, models.Game(cmd), args, r)
	default:
		return r.Text(ctx, "Unknown command. Use /help.")
	}
}

// updateRecord loads, mutates and stores the record for userID,
// minting an ID on first contact.
func (b *Bot) updateRecord(ctx context.Context, userID string, mutate func(*models.UserRecord)) error {
	rec, ok, err := b.store.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		rec = models.UserRecord{ID: uuid.NewString()}
	}
	mutate(&rec)
	return b.store.Put(ctx, userID, rec)
}

func (b *Bot) handleLink(ctx context.Context, userID string, args []string, r Replier) error {
	if len(args) != 2 {
		return r.Text(ctx, "Usage: /link <ltuid> <ltoken>")
	}
	err := b.updateRecord(ctx, userID, func(rec *models.UserRecord) {
		rec.LtUID, rec.LtToken = args[0], args[1]
		if b.purgeOnRelink {
			rec.LtUIDv2, rec.LtTokenV2, rec.CookieToken = "", "", ""
		}
	})
	if err != nil {
		b.log.Error("store link", zap.Error(err))
		return r.Text(ctx, msgUnavailable)
	}
	return r.Text(ctx, "Saved ltuid and ltoken.")
}

func (b *Bot) handleLinkV2(ctx context.Context, userID string, args []string, r Replier) error {
	if len(args) != 2 {
		return r.Text(ctx, "Usage: /link_v2 <ltuid_v2> <ltoken_v2>")
	}
	err := b.updateRecord(ctx, userID, func(rec *models.UserRecord) {
		rec.LtUIDv2, rec.LtTokenV2 = args[0], args[1]
		if b.purgeOnRelink {
			rec.LtUID, rec.LtToken, rec.CookieToken = "", "", ""
		}
	})
	if err != nil {
		b.log.Error("store link_v2", zap.Error(err))
		return r.Text(ctx, msgUnavailable)
	}
	return r.Text(ctx, "Saved ltuid_v2 and ltoken_v2.")
}

func (b *Bot) handleLinkCookie(ctx context.Context, userID string, args []string, r Replier) error {
	if len(args) != 1 {
		return r.Text(ctx, "Usage: /link_cookie <cookie_token>")
	}
	err := b.updateRecord(ctx, userID, func(rec *models.UserRecord) {
		rec.CookieToken = args[0]
		if b.purgeOnRelink {
			rec.LtUID, rec.LtToken, rec.LtUIDv2, rec.LtTokenV2 = "", "", "", ""
		}
	})
	if err != nil {
		b.log.Error("store link_cookie", zap.Error(err))
		return r.Text(ctx, msgUnavailable)
	}
	return r.Text(ctx, "Saved cookie_token.")
}

func (b *Bot) handleUnlink(ctx context.Context, userID string, r Replier) error {
	_, ok, err := b.store.Get(ctx, userID)
	if err != nil {
		b.log.Error("load record", zap.Error(err))
		return r.Text(ctx, msgUnavailable)
	}
	if !ok {
		return r.Text(ctx, "No linked account.")
	}
	if err := b.store.Delete(ctx, userID); err != nil {
		b.log.Error("delete record", zap.Error(err))
		return r.Text(ctx, msgUnavailable)
	}
	return r.Text(ctx, "Unlinked; your stored data was deleted.")
}

// accountClient loads the user record and builds an account-API
// client for it. A nil client with a nil error means a user-facing
// message was already sent.
func (b *Bot) accountClient(ctx context.Context, userID string, r Replier) (gameapi.Client, models.UserRecord, error) {
	rec, ok, err := b.store.Get(ctx, userID)
	if err != nil {
		b.log.Error("load record", zap.Error(err))
		return nil, rec, r.Text(ctx, msgUnavailable)
	}
	if !ok {
		return nil, rec, r.Text(ctx, msgNotLinked)
	}
	payload, err := gameapi.Resolve(rec)
	if err != nil {
		if errors.Is(err, gameapi.ErrNoCredentials) {
			return nil, rec, r.Text(ctx, msgNotLinked)
		}
		b.log.Error("resolve credentials", zap.Error(err))
		return nil, rec, r.Text(ctx, msgUnavailable)
	}
	return b.newClient(payload, rec.UID), rec, nil
}

// invoke runs the candidate list and converts a failure into the
// generic unsupported message. The specific candidate and cause stay
// in the log only: the surfaced error may be the last of several and
// would mislead the user.
func (b *Bot) invoke(ctx context.Context, c gameapi.Client, names []string, args ...string) (any, bool) {
	res, err := gameapi.Invoke(ctx, c, names, args...)
	if err != nil {
		b.log.Warn("account api invoke failed",
			zap.Strings("candidates", names),
			zap.Error(err),
		)
		return nil, false
	}
	return res, true
}

func (b *Bot) handleStats(ctx context.Context, userID string, r Replier) error {
	client, _, err := b.accountClient(ctx, userID, r)
	if client == nil {
		return err
	}
	res, ok := b.invoke(ctx, client, userCandidates)
	if !ok {
		return r.Text(ctx, msgUnsupported)
	}

	stats, _ := field(res, "stats").(map[string]any)
	if stats == nil {
		return r.Text(ctx, fmt.Sprintf("%v", res))
	}
	lines := []string{
		"Adventure Rank: " + display(first(stats, "adventure_rank", "level")),
		"World Level: " + display(first(stats, "world_level")),
		"Characters: " + display(first(stats, "character_number", "avatar_number")),
	}
	return r.Text(ctx, strings.Join(lines, "\n"))
}

func (b *Bot) handleCharacters(ctx context.Context, userID string, r Replier) error {
	client, _, err := b.accountClient(ctx, userID, r)
	if client == nil {
		return err
	}
	res, ok := b.invoke(ctx, client, charactersCandidates)
	if !ok {
		return r.Text(ctx, msgUnsupported)
	}

	chars, _ := field(res, "avatars", "characters", "data").([]any)
	if len(chars) == 0 {
		return r.Text(ctx, "Could not extract a character list from this upstream version.")
	}
	lines := make([]string, 0, len(chars))
	for i, c := range chars {
		if i == 30 {
			break
		}
		m, _ := c.(map[string]any)
		lines = append(lines, fmt.Sprintf("%s — Lv %s",
			display(first(m, "name")), display(first(m, "level"))))
	}
	return r.Text(ctx, strings.Join(lines, "\n"))
}

func (b *Bot) handleNotes(ctx context.Context, userID string, r Replier) error {
	client, _, err := b.accountClient(ctx, userID, r)
	if client == nil {
		return err
	}
	res, ok := b.invoke(ctx, client, notesCandidates)
	if !ok {
		return r.Text(ctx, msgUnsupported)
	}

	var lines []string
	if resin := field(res, "current_resin"); resin != nil {
		lines = append(lines, fmt.Sprintf("Resin: %s/%s",
			display(resin), display(field(res, "max_resin"))))
	}
	if exp, _ := field(res, "expeditions").([]any); len(exp) > 0 {
		lines = append(lines, fmt.Sprintf("Expeditions: %d active", len(exp)))
	}
	if len(lines) == 0 {
		return r.Text(ctx, fmt.Sprintf("%v", res))
	}
	return r.Text(ctx, strings.Join(lines, "\n"))
}

func (b *Bot) handleTransactions(ctx context.Context, userID string, r Replier) error {
	client, _, err := b.accountClient(ctx, userID, r)
	if client == nil {
		return err
	}
	res, ok := b.invoke(ctx, client, transactionCandidates)
	if !ok {
		return r.Text(ctx, msgUnsupported)
	}

	entries, _ := field(res, "transactions", "items", "data").([]any)
	if len(entries) == 0 {
		return r.Text(ctx, "No transaction data available.")
	}
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		if i == 10 {
			break
		}
		m, _ := e.(map[string]any)
		lines = append(lines, "- "+display(first(m, "type", "name")))
	}
	return r.Text(ctx, strings.Join(lines, "\n"))
}

func (b *Bot) handleAbyss(ctx context.Context, userID string, previous bool, r Replier) error {
	client, rec, err := b.accountClient(ctx, userID, r)
	if client == nil {
		return err
	}
	names := abyssCandidates
	if previous {
		names = prevAbyssCandidates
	}
	var args []string
	if rec.UID != "" {
		args = append(args, rec.UID)
	}
	res, ok := b.invoke(ctx, client, names, args...)
	if !ok {
		return r.Text(ctx, msgUnsupported)
	}

	var lines []string
	if stars := field(res, "total_stars", "total_star"); stars != nil {
		lines = append(lines, "Total stars: "+display(stars))
	}
	if floors, _ := field(res, "floors").([]any); len(floors) > 0 {
		for _, f := range floors {
			m, _ := f.(map[string]any)
			lines = append(lines, fmt.Sprintf("Floor %s: %s stars",
				display(first(m, "index")), display(first(m, "stars", "star"))))
		}
	}
	if len(lines) == 0 {
		return r.Text(ctx, fmt.Sprintf("%v", res))
	}
	return r.Text(ctx, strings.Join(lines, "\n"))
}

func (b *Bot) handleDaily(ctx context.Context, userID string, r Replier) error {
	client, _, err := b.accountClient(ctx, userID, r)
	if client == nil {
		return err
	}
	res, ok := b.invoke(ctx, client, dailyCandidates)
	if !ok {
		return r.Text(ctx, msgUnsupported)
	}
	return r.Text(ctx, fmt.Sprintf("%v", res))
}

func (b *Bot) handleCheckIn(ctx context.Context, userID string, r Replier) error {
	client, _, err := b.accountClient(ctx, userID, r)
	if client == nil {
		return err
	}
	res, ok := b.invoke(ctx, client, checkInCandidates)
	if !ok {
		return r.Text(ctx, msgUnsupported)
	}
	return r.Text(ctx, fmt.Sprintf("Claim result: %v", res))
}

// field returns the first of keys present in res when res is an
// object, nil otherwise.
func field(res any, keys ...string) any {
	m, ok := res.(map[string]any)
	if !ok {
		return nil
	}
	return first(m, keys...)
}

// first returns the first of keys present and non-nil in m.
func first(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// display renders a scalar for a reply, "?" when absent.
func display(v any) string {
	switch val := v.(type) {
	case nil:
		return "?"
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
