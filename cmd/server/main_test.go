package main

import (
	"testing"
	"time"

	"github.com/iho/erpledger/internal/infrastructure/config"
)

func TestNewAuth(t *testing.T) {
	jwtManager, permissions := newAuth(&config.Config{AuthEnabled: false, JWTSecret: "ignored"})
	if jwtManager != nil || permissions != nil {
		t.Fatalf("expected auth to be disabled, got %v %v", jwtManager, permissions)
	}

	jwtManager, permissions = newAuth(&config.Config{AuthEnabled: true, JWTSecret: "secret", JWTExpiration: time.Hour})
	if jwtManager == nil || permissions == nil {
		t.Fatal("expected auth to be enabled")
	}
}
