package utils

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"porter/internal/models"
)

func TestGenerateTokenPair(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Role: models.UserRoleDriver}

	pair, err := GenerateTokenPair(user, testSecret, time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if pair.TokenType != "Bearer" {
		t.Errorf("token type = %q, want Bearer", pair.TokenType)
	}
	if pair.ExpiresIn != 3600 {
		t.Errorf("expires_in = %d, want 3600", pair.ExpiresIn)
	}

	access, err := ValidateToken(pair.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if access.TokenType != TokenTypeAccess {
		t.Errorf("access token type = %q", access.TokenType)
	}
	if access.UserID != user.ID {
		t.Errorf("access user id = %s, want %s", access.UserID.Hex(), user.ID.Hex())
	}
	if access.Role != models.UserRoleDriver {
		t.Errorf("access role = %q", access.Role)
	}

	refresh, err := ValidateToken(pair.RefreshToken, testSecret)
	if err != nil {
		t.Fatalf("validate refresh token: %v", err)
	}
	if refresh.TokenType != TokenTypeRefresh {
		t.Errorf("refresh token type = %q", refresh.TokenType)
	}

	if access.ID == refresh.ID {
		t.Error("access and refresh tokens share a jti")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Role: models.UserRoleGuest}

	pair, err := GenerateTokenPair(user, testSecret, time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := ValidateToken(pair.AccessToken, "other-secret"); err == nil {
		t.Fatal("token validated under a different secret")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Role: models.UserRoleGuest}

	pair, err := GenerateTokenPair(user, testSecret, -time.Minute, 24*time.Hour)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := ValidateToken(pair.AccessToken, testSecret); err == nil {
		t.Fatal("expired token validated")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token", testSecret); err == nil {
		t.Fatal("garbage token validated")
	}
}
