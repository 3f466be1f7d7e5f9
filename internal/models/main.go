// Package models defines the core data structures for linked users
// and extracted character data.
package models

// Game identifies one of the supported inspection-API games by its
// short command name.
type Game string

const (
	// Genshin represents Genshin Impact.
	Genshin Game = "gen"
	// StarRail represents Honkai: Star Rail.
	StarRail Game = "hsr"
	// Zenless represents Zenless Zone Zero.
	Zenless Game = "zzz"
)

// UserRecord is the per-user credential record kept in the durable
// store. The three credential shapes are independent; any non-empty
// subset makes the record usable against the account API, and all
// present shapes are forwarded together.
type UserRecord struct {
	// ID is the unique identifier minted on first link.
	ID string `json:"id"`
	// LtUID and LtToken form the legacy cookie pair.
	LtUID   string `json:"ltuid,omitempty"`
	LtToken string `json:"ltoken,omitempty"`
	// LtUIDv2 and LtTokenV2 form the v2 cookie pair.
	LtUIDv2   string `json:"ltuid_v2,omitempty"`
	LtTokenV2 string `json:"ltoken_v2,omitempty"`
	// CookieToken is the standalone cookie_token shape.
	CookieToken string `json:"cookie_token,omitempty"`
	// UID is the game account identifier used by account-API calls
	// that need one. Not part of the authentication payload.
	UID string `json:"uid,omitempty"`
	// UIDs maps a Game short name to the inspection-API UID saved
	// for it.
	UIDs map[string]string `json:"uids,omitempty"`
}

// HasCredentials reports whether at least one credential shape is
// present.
func (r UserRecord) HasCredentials() bool {
	return (r.LtUID != "" && r.LtToken != "") ||
		(r.LtUIDv2 != "" && r.LtTokenV2 != "") ||
		r.CookieToken != ""
}

// GameUID returns the inspection-API UID saved for game, if any.
func (r UserRecord) GameUID(g Game) string {
	if r.UIDs == nil {
		return ""
	}
	return r.UIDs[string(g)]
}
