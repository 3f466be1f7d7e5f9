package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hoyolink/hoyolink/internal/bot"
)

// Handler is the command layer the poller dispatches into.
type Handler interface {
	HandleCommand(ctx context.Context, userID, cmd string, args []string, r bot.Replier) error
	HandleCallback(ctx context.Context, userID, data string, r bot.Replier) error
}

// Poller long polls for updates and dispatches each one in its own
// goroutine, so one slow upstream call delays only its own command.
type Poller struct {
	api     *API
	handler Handler
	log     *zap.Logger
}

// NewPoller returns a Poller over api dispatching to handler.
func NewPoller(api *API, handler Handler, log *zap.Logger) *Poller {
	return &Poller{api: api, handler: handler, log: log}
}

// Run polls until ctx is cancelled. Poll errors are logged and
// retried after a short pause; they never terminate the loop.
func (p *Poller) Run(ctx context.Context) {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := p.api.GetUpdates(ctx, offset, 50)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.log.Warn("get updates failed", zap.Error(err))
			time.Sleep(3 * time.Second)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			go p.dispatch(ctx, upd)
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, upd Update) {
	switch {
	case upd.Callback != nil:
		cb := upd.Callback
		if err := p.api.AnswerCallbackQuery(ctx, cb.ID); err != nil {
			p.log.Warn("answer callback failed", zap.Error(err))
		}
		if cb.Message == nil {
			return
		}
		r := &chatReplier{api: p.api, chatID: cb.Message.Chat.ID}
		userID := strconv.FormatInt(cb.From.ID, 10)
		if err := p.handler.HandleCallback(ctx, userID, cb.Data, r); err != nil {
			p.log.Warn("callback reply failed", zap.Error(err))
		}
	case upd.Message != nil && strings.HasPrefix(upd.Message.Text, "/"):
		msg := upd.Message
		cmd, args := parseCommand(msg.Text)
		r := &chatReplier{api: p.api, chatID: msg.Chat.ID}
		userID := strconv.FormatInt(msg.From.ID, 10)
		if err := p.handler.HandleCommand(ctx, userID, cmd, args, r); err != nil {
			p.log.Warn("command reply failed",
				zap.String("command", cmd),
				zap.Error(err),
			)
		}
	}
}

// parseCommand splits "/cmd@botname a b" into ("cmd", ["a","b"]).
func parseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	cmd := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return cmd, fields[1:]
}

// chatReplier renders bot replies into one Telegram chat.
type chatReplier struct {
	api    *API
	chatID int64
}

func (r *chatReplier) Text(ctx context.Context, msg string) error {
	return r.api.SendMessage(ctx, r.chatID, msg, nil)
}

func (r *chatReplier) Photo(ctx context.Context, url, caption string) error {
	return r.api.SendPhoto(ctx, r.chatID, url, caption)
}

func (r *chatReplier) Choices(ctx context.Context, msg string, choices []bot.Choice) error {
	rows := make([][]InlineKeyboardButton, 0, len(choices))
	for _, c := range choices {
		rows = append(rows, []InlineKeyboardButton{{Text: c.Label, CallbackData: c.Data}})
	}
	return r.api.SendMessage(ctx, r.chatID, msg, &InlineKeyboardMarkup{InlineKeyboard: rows})
}
