package auth

import (
	"testing"
	"time"

	"github.com/maajidpp/linkza/pkg/errors"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct-horse-battery" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPassword(hash, "correct-horse-battery") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordRejectsShort(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("HashPassword(short) error = %v, want INVALID_INPUT", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	signed, err := tokens.Issue("user-1", "sess-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := tokens.Validate(signed)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.UserID != "user-1" || claims.SessionID != "sess-1" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	signed, err := NewTokens("secret-a", time.Hour).Issue("user-1", "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewTokens("secret-b", time.Hour).Validate(signed)
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("Validate() error = %v, want UNAUTHORIZED", err)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	signed, err := NewTokens("test-secret", -time.Hour).Issue("user-1", "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewTokens("test-secret", time.Hour).Validate(signed)
	if !errors.Is(err, errors.ErrCodeSessionExpired) {
		t.Errorf("Validate() error = %v, want SESSION_EXPIRED", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	_, err := NewTokens("test-secret", time.Hour).Validate("not.a.token")
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("Validate() error = %v, want UNAUTHORIZED", err)
	}
}

func TestUserHelpers(t *testing.T) {
	admin := &User{Role: RoleAdmin, Status: StatusActive}
	if !admin.IsAdmin() || admin.IsSuspended() {
		t.Errorf("admin helpers wrong: %+v", admin)
	}
	suspended := &User{Role: RoleUser, Status: StatusSuspended}
	if suspended.IsAdmin() || !suspended.IsSuspended() {
		t.Errorf("suspended helpers wrong: %+v", suspended)
	}
}
