package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", 15*time.Minute)

	token, err := m.Generate("rsvpctl")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.Subject != "rsvpctl" {
		t.Errorf("Expected subject rsvpctl, got %s", claims.Subject)
	}
	if claims.Scope != AdminScope {
		t.Errorf("Expected scope %s, got %s", AdminScope, claims.Scope)
	}
}

func TestTokenRejected(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute)
	token, err := m.Generate("rsvpctl")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager("other-secret", time.Minute)
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenManager("test-secret", time.Minute)
		later.now = func() time.Time { return time.Now().Add(time.Hour) }
		if _, err := later.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "", wantErr: ErrMissingToken},
		{header: "Basic abc", wantErr: ErrInvalidToken},
		{header: "Bearer", wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		got, err := BearerToken(tt.header)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("BearerToken(%q) error = %v, want %v", tt.header, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
