package gameapi

import (
	"errors"
	"testing"

	"github.com/hoyolink/hoyolink/internal/models"
)

func TestResolve_LegacyPair(t *testing.T) {
	rec := models.UserRecord{LtUID: "123", LtToken: "tok"}

	payload, err := Resolve(rec)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if payload["ltuid"] != "123" || payload["ltoken"] != "tok" {
		t.Errorf("payload = %v; want legacy pair", payload)
	}
	if len(payload) != 2 {
		t.Errorf("payload has %d entries; want 2", len(payload))
	}
}

func TestResolve_CookieToken(t *testing.T) {
	rec := models.UserRecord{CookieToken: "ck"}

	payload, err := Resolve(rec)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if payload["cookie_token"] != "ck" {
		t.Errorf("payload = %v; want cookie_token", payload)
	}
}

func TestResolve_AllShapesForwarded(t *testing.T) {
	rec := models.UserRecord{
		LtUID:       "1",
		LtToken:     "a",
		LtUIDv2:     "2",
		LtTokenV2:   "b",
		CookieToken: "c",
	}

	payload, err := Resolve(rec)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	for _, k := range []string{"ltuid", "ltoken", "ltuid_v2", "ltoken_v2", "cookie_token"} {
		if payload[k] == "" {
			t.Errorf("payload missing %q; every present shape must be forwarded", k)
		}
	}
}

func TestResolve_IncompletePairIgnored(t *testing.T) {
	// A uid without its token is not a usable shape.
	rec := models.UserRecord{LtUID: "123"}

	_, err := Resolve(rec)
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("Resolve error = %v; want ErrNoCredentials", err)
	}
}

func TestResolve_Empty(t *testing.T) {
	_, err := Resolve(models.UserRecord{UID: "700000001"})
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("Resolve error = %v; want ErrNoCredentials", err)
	}
}
