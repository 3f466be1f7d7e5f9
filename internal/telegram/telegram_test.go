package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(handler http.Handler) (*API, *httptest.Server) {
	srv := httptest.NewServer(handler)
	api := New("TOKEN")
	api.BaseURL = srv.URL
	api.HTTP = srv.Client()
	return api, srv
}

func TestGetUpdates(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	api, srv := newTestAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"ok":true,"result":[
			{"update_id":7,"message":{"text":"/notes","chat":{"id":5},"from":{"id":42}}}
		]}`))
	}))
	defer srv.Close()

	updates, err := api.GetUpdates(context.Background(), 7, 50)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, int64(7), updates[0].UpdateID)
	assert.Equal(t, "/notes", updates[0].Message.Text)
	assert.Equal(t, int64(42), updates[0].Message.From.ID)

	assert.Equal(t, "/botTOKEN/getUpdates", gotPath)
	assert.Equal(t, float64(7), gotBody["offset"])
}

func TestSendMessage_WithKeyboard(t *testing.T) {
	var gotBody map[string]any
	api, srv := newTestAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	kb := &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		{{Text: "Bennett", CallbackData: "enk|gen|1|0"}},
	}}
	err := api.SendMessage(context.Background(), 5, "Pick a character:", kb)
	require.NoError(t, err)

	assert.Equal(t, float64(5), gotBody["chat_id"])
	assert.Equal(t, "Pick a character:", gotBody["text"])
	markup, _ := json.Marshal(gotBody["reply_markup"])
	assert.Contains(t, string(markup), "enk|gen|1|0")
}

func TestCall_APIError(t *testing.T) {
	api, srv := newTestAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	err := api.SendMessage(context.Background(), 5, "x", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in       string
		wantCmd  string
		wantArgs []string
	}{
		{"/link 123 tok", "link", []string{"123", "tok"}},
		{"/notes", "notes", nil},
		{"/gen@hoyolink_bot 700000001", "gen", []string{"700000001"}},
	}
	for _, tc := range cases {
		cmd, args := parseCommand(tc.in)
		if cmd != tc.wantCmd {
			t.Errorf("parseCommand(%q) cmd = %q; want %q", tc.in, cmd, tc.wantCmd)
		}
		if strings.Join(args, " ") != strings.Join(tc.wantArgs, " ") {
			t.Errorf("parseCommand(%q) args = %v; want %v", tc.in, args, tc.wantArgs)
		}
	}
}
