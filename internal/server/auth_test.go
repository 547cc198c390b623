package server

import (
	"errors"
	"testing"
	"time"

	"barberq/internal/roles"
	"barberq/internal/services"
)

func TestSessionRoundTrip(t *testing.T) {
	mgr := newSessionManager("0123456789abcdef", time.Hour)

	token, expires, err := mgr.issue(7, "Desk One", roles.FrontDesk)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Fatal("expiry should be in the future")
	}

	caller, err := mgr.validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if caller.UserID != 7 || caller.Role != roles.FrontDesk || caller.Name != "Desk One" {
		t.Fatalf("identity = %+v", caller)
	}
	if caller.Source != "session" {
		t.Fatalf("source = %q", caller.Source)
	}
}

func TestSessionRejectsWrongSecret(t *testing.T) {
	issuer := newSessionManager("0123456789abcdef", time.Hour)
	verifier := newSessionManager("fedcba9876543210", time.Hour)

	token, _, err := issuer.issue(1, "Olive", roles.Owner)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.validate(token); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("cross-secret validate error = %v, want ErrUnauthorized", err)
	}
}

func TestSessionRejectsExpiredToken(t *testing.T) {
	mgr := newSessionManager("0123456789abcdef", -time.Minute)

	token, _, err := mgr.issue(1, "Olive", roles.Owner)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := mgr.validate(token); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expired validate error = %v, want ErrUnauthorized", err)
	}
}

func TestSessionRejectsGarbage(t *testing.T) {
	mgr := newSessionManager("0123456789abcdef", time.Hour)

	if _, err := mgr.validate("not.a.jwt"); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("garbage validate error = %v, want ErrUnauthorized", err)
	}
}
