package store

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisSessionStoreRoundTrip(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisSessionStore(redis.Addr(), "", time.Hour)

	token, err := s.NewSession(42)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	uid, ok, err := s.GetUserIDByToken(token)
	if err != nil {
		t.Fatalf("resolve token: %v", err)
	}
	if !ok || uid != 42 {
		t.Fatalf("resolve token: uid=%d ok=%v, want 42 true", uid, ok)
	}

	if err := s.DeleteSession(token); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, ok, err := s.GetUserIDByToken(token); err != nil || ok {
		t.Fatalf("deleted token should not resolve, ok=%v err=%v", ok, err)
	}
}

func TestRedisSessionStoreExpiry(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisSessionStore(redis.Addr(), "", time.Minute)

	token, err := s.NewSession(42)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	redis.FastForward(2 * time.Minute)
	if _, ok, err := s.GetUserIDByToken(token); err != nil || ok {
		t.Fatalf("expired token should not resolve, ok=%v err=%v", ok, err)
	}
}

func TestRedisSessionStoreUnknownToken(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisSessionStore(redis.Addr(), "", time.Minute)
	if _, ok, err := s.GetUserIDByToken("missing"); err != nil || ok {
		t.Fatalf("unknown token should not resolve, ok=%v err=%v", ok, err)
	}
}
