package auth

import (
	"testing"
	"time"

	"github.com/artisanmarket/storefront/internal/user"
)

func testUser() *user.User {
	return &user.User{
		ID:    "4f7b7ad2-0c8f-4b8e-9d3e-2f4a9c1b6e5d",
		Name:  "Maria Keller",
		Email: "maria@example.com",
		Role:  user.RoleCustomer,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	u := testUser()

	token, err := tm.GenerateToken(u)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != u.ID {
		t.Fatalf("subject = %s, want %s", claims.Subject, u.ID)
	}
	if claims.Email != u.Email || claims.Name != u.Name {
		t.Fatalf("unexpected identity claims: %+v", claims)
	}
	if claims.Role != user.RoleCustomer {
		t.Fatalf("role = %s, want %s", claims.Role, user.RoleCustomer)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := NewTokenManager("secret-b", time.Hour).ValidateToken(token); err == nil {
		t.Fatalf("expected rejection for token signed with a different secret")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := tm.ValidateToken(token); err == nil {
		t.Fatalf("expected rejection for expired token")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	if _, err := tm.ValidateToken("not.a.jwt"); err == nil {
		t.Fatalf("expected rejection for malformed token")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2-but-longer")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2-but-longer" {
		t.Fatalf("expected hash, got plaintext")
	}

	if !CheckPassword(hash, "hunter2-but-longer") {
		t.Fatalf("expected correct password to verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Fatalf("expected wrong password to fail")
	}
}
