// Package bot implements the chat command layer. It is transport
// agnostic: commands arrive as parsed (command, args) pairs for a
// user, replies go out through a Replier, and every upstream failure
// is converted into a user-facing message instead of propagating.
package bot

import (
	"context"

	"go.uber.org/zap"

	"github.com/hoyolink/hoyolink/internal/gameapi"
	"github.com/hoyolink/hoyolink/internal/models"
	"github.com/hoyolink/hoyolink/internal/store"
)

// Replier renders replies for one incoming message.
type Replier interface {
	// Text sends a plain text reply.
	Text(ctx context.Context, msg string) error
	// Photo sends an image by URL with a caption.
	Photo(ctx context.Context, url, caption string) error
	// Choices sends msg with a set of buttons; a pressed button
	// comes back through HandleCallback with its Data.
	Choices(ctx context.Context, msg string, choices []Choice) error
}

// Choice is one selectable button.
type Choice struct {
	Label string
	Data  string
}

// Inspector fetches an inspection-API payload for a game account.
type Inspector interface {
	Fetch(ctx context.Context, game models.Game, uid string) (map[string]any, error)
}

// ClientFactory builds an account-API client for the resolved
// credentials and optional account uid.
type ClientFactory func(payload gameapi.AuthPayload, uid string) gameapi.Client

// Bot answers chat commands using the durable record store, the
// inspection API and the account API.
type Bot struct {
	store     store.Repository
	inspector Inspector
	newClient ClientFactory
	// purgeOnRelink drops the other credential shapes when a user
	// re-links with one. Off by default, so shapes coexist and are
	// all forwarded upstream.
	purgeOnRelink bool
	log           *zap.Logger
}

// New constructs a Bot.
func New(st store.Repository, inspector Inspector, newClient ClientFactory, purgeOnRelink bool, log *zap.Logger) *Bot {
	return &Bot{
		store:         st,
		inspector:     inspector,
		newClient:     newClient,
		purgeOnRelink: purgeOnRelink,
		log:           log,
	}
}

// Candidate operation names per semantic capability, in the order
// they are tried. Each list spans the names the capability has
// carried across upstream client versions.
var (
	userCandidates        = []string{"get_genshin_user", "get_user", "get_user_data"}
	charactersCandidates  = []string{"get_characters", "get_genshin_user", "get_characters_list"}
	notesCandidates       = []string{"get_notes", "get_genshin_notes", "get_daily_notes"}
	transactionCandidates = []string{"get_transactions", "get_transaction_history", "get_wallet_records"}
	abyssCandidates       = []string{"get_spiral_abyss", "get_abyss", "spiral_abyss"}
	prevAbyssCandidates   = []string{"get_prev_spiral_abyss", "get_previous_spiral_abyss", "get_spiral_abyss_previous"}
	dailyCandidates       = []string{"get_daily_rewards", "get_signin_rewards", "get_daily_info"}
	checkInCandidates     = []string{"claim_daily_reward", "do_sign_in", "signin"}
)
