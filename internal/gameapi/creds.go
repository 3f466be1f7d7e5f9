// Package gameapi adapts the cookie-authenticated account API behind
// version drift: it resolves stored credential shapes into an
// authentication payload and invokes upstream operations by candidate
// name, tolerating renamed and re-signatured calls.
package gameapi

import (
	"errors"

	"github.com/hoyolink/hoyolink/internal/models"
)

// ErrNoCredentials is returned by Resolve when the stored record
// carries no recognized credential shape.
var ErrNoCredentials = errors.New("no stored credentials for this user")

// AuthPayload is the cookie set offered to the account API. When a
// record holds several credential shapes, all of them are present and
// the upstream decides which to honor.
type AuthPayload map[string]string

// Resolve inspects rec for each known credential shape and builds the
// authentication payload from every shape found. It is a pure
// function; the account UID is intentionally not part of the payload
// and travels separately to the operations that need it.
func Resolve(rec models.UserRecord) (AuthPayload, error) {
	payload := AuthPayload{}

	if rec.LtUID != "" && rec.LtToken != "" {
		payload["ltuid"] = rec.LtUID
		payload["ltoken"] = rec.LtToken
	}
	if rec.LtUIDv2 != "" && rec.LtTokenV2 != "" {
		payload["ltuid_v2"] = rec.LtUIDv2
		payload["ltoken_v2"] = rec.LtTokenV2
	}
	if rec.CookieToken != "" {
		payload["cookie_token"] = rec.CookieToken
	}

	if len(payload) == 0 {
		return nil, ErrNoCredentials
	}
	return payload, nil
}
