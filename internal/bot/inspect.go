package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hoyolink/hoyolink/internal/enka"
	"github.com/hoyolink/hoyolink/internal/models"
)

// callbackPrefix tags character-selection callback data:
// enk|<game>|<uid>|<index>.
const callbackPrefix = "enk"

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (b *Bot) handleSet(ctx context.Context, userID string, args []string, r Replier) error {
	if len(args) != 2 {
		return r.Text(ctx, "Usage: /set <game> <uid> — example: /set gen 700000001")
	}
	game := models.Game(strings.ToLower(args[0]))
	uid := strings.TrimSpace(args[1])
	if game != models.Genshin && game != models.StarRail && game != models.Zenless {
		return r.Text(ctx, "Unsupported game. Use: gen, hsr, zzz")
	}
	err := b.updateRecord(ctx, userID, func(rec *models.UserRecord) {
		if rec.UIDs == nil {
			rec.UIDs = map[string]string{}
		}
		rec.UIDs[string(game)] = uid
	})
	if err != nil {
		b.log.Error("store uid", zap.Error(err))
		return r.Text(ctx, msgUnavailable)
	}
	return r.Text(ctx, fmt.Sprintf("Saved UID for %s: %s", game, uid))
}

func (b *Bot) handleAccount(ctx context.Context, userID string, r Replier) error {
	rec, ok, err := b.store.Get(ctx, userID)
	if err != nil {
		b.log.Error("load record", zap.Error(err))
		return r.Text(ctx, msgUnavailable)
	}
	if !ok || len(rec.UIDs) == 0 {
		return r.Text(ctx, "No saved accounts. Use /set <game> <uid>")
	}
	games := make([]string, 0, len(rec.UIDs))
	for g := range rec.UIDs {
		games = append(games, g)
	}
	sort.Strings(games)
	lines := make([]string, 0, len(games))
	for _, g := range games {
		lines = append(lines, g+": "+rec.UIDs[g])
	}
	return r.Text(ctx, "Your saved accounts:\n"+strings.Join(lines, "\n"))
}

func (b *Bot) handleShowcase(ctx context.Context, userID string, game models.Game, args []string, r Replier) error {
	rec, _, err := b.store.Get(ctx, userID)
	if err != nil {
		b.log.Error("load record", zap.Error(err))
		return r.Text(ctx, msgUnavailable)
	}
	uid := rec.GameUID(game)

	// Allow /gen <uid> to save on the fly.
	if uid == "" && len(args) > 0 && isDigits(args[0]) {
		uid = args[0]
		args = args[1:]
		err := b.updateRecord(ctx, userID, func(rec *models.UserRecord) {
			if rec.UIDs == nil {
				rec.UIDs = map[string]string{}
			}
			rec.UIDs[string(game)] = uid
		})
		if err != nil {
			b.log.Error("store uid", zap.Error(err))
			return r.Text(ctx, msgUnavailable)
		}
		if err := r.Text(ctx, fmt.Sprintf("Saved UID %s for %s.", uid, game)); err != nil {
			return err
		}
	}
	if uid == "" {
		return r.Text(ctx, "No saved UID yet. Use /set <game> <uid> or pass the UID after the command.")
	}

	payload, err := b.inspector.Fetch(ctx, game, uid)
	if err != nil {
		if errors.Is(err, enka.ErrUnavailable) {
			return r.Text(ctx, msgUnavailable)
		}
		b.log.Error("inspection fetch", zap.Error(err))
		return r.Text(ctx, msgUnavailable)
	}

	chars := enka.ExtractCharacters(payload)
	if len(chars) == 0 {
		return r.Text(ctx, msgTroubleshooting)
	}

	// A name argument selects a character directly.
	if len(args) > 0 {
		query := strings.ToLower(strings.TrimSpace(strings.Join(args, " ")))
		for _, ch := range chars {
			if strings.ToLower(ch.Name) == query {
				return b.replyDetails(ctx, ch, r)
			}
		}
	}

	choices := make([]Choice, 0, len(chars))
	for i, ch := range chars {
		choices = append(choices, Choice{
			Label: ch.Name,
			Data:  strings.Join([]string{callbackPrefix, string(game), uid, strconv.Itoa(i)}, "|"),
		})
	}
	return r.Choices(ctx, "Pick a character:", choices)
}

// HandleCallback resolves a character-selection button press. The
// payload is re-fetched and re-indexed: the index from the rendered
// list is only meaningful against a fresh extraction, and upstream
// reordering between the press and the fetch is accepted staleness.
func (b *Bot) HandleCallback(ctx context.Context, userID, data string, r Replier) error {
	parts := strings.Split(data, "|")
	if len(parts) != 4 || parts[0] != callbackPrefix {
		return nil
	}
	game, uid := models.Game(parts[1]), parts[2]
	idx, err := strconv.Atoi(parts[3])
	if err != nil {
		return r.Text(ctx, "Bad selection data.")
	}

	payload, err := b.inspector.Fetch(ctx, game, uid)
	if err != nil {
		return r.Text(ctx, msgUnavailable)
	}
	chars := enka.ExtractCharacters(payload)
	if idx < 0 || idx >= len(chars) {
		return r.Text(ctx, "That choice is no longer valid. List the characters again.")
	}
	return b.replyDetails(ctx, chars[idx], r)
}

func (b *Bot) replyDetails(ctx context.Context, ch enka.Character, r Replier) error {
	d := enka.Describe(ch)
	if d.IconURL != "" {
		return r.Photo(ctx, d.IconURL, d.Text())
	}
	return r.Text(ctx, d.Text())
}
