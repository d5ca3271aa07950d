package utils

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"porter/internal/models"
)

const testSecret = "test-secret"

func testUser() *models.User {
	return &models.User{
		ID:         primitive.NewObjectID(),
		Email:      "driver@example.com",
		Password:   "$2a$10$abcdefghijklmnopqrstuv",
		IsVerified: false,
	}
}

func TestActionTokenRoundTrip(t *testing.T) {
	user := testUser()
	now := time.Now()

	token := MakeActionToken(user, testSecret, now)
	if !CheckActionToken(user, token, testSecret, 24*time.Hour, now.Add(time.Minute)) {
		t.Fatal("freshly minted token did not verify")
	}
}

func TestActionTokenRejectsWrongSecret(t *testing.T) {
	user := testUser()
	now := time.Now()

	token := MakeActionToken(user, testSecret, now)
	if CheckActionToken(user, token, "other-secret", 24*time.Hour, now) {
		t.Fatal("token verified under a different secret")
	}
}

func TestActionTokenExpires(t *testing.T) {
	user := testUser()
	now := time.Now()

	token := MakeActionToken(user, testSecret, now)
	if CheckActionToken(user, token, testSecret, 24*time.Hour, now.Add(25*time.Hour)) {
		t.Fatal("token verified after its TTL elapsed")
	}
}

func TestActionTokenDiesWhenStateChanges(t *testing.T) {
	user := testUser()
	now := time.Now()
	token := MakeActionToken(user, testSecret, now)

	verified := *user
	verified.IsVerified = true
	if CheckActionToken(&verified, token, testSecret, 24*time.Hour, now) {
		t.Error("token survived verification flag flip")
	}

	rehashed := *user
	rehashed.Password = "$2a$10$completelydifferenthash"
	if CheckActionToken(&rehashed, token, testSecret, 24*time.Hour, now) {
		t.Error("token survived password change")
	}
}

func TestActionTokenRejectsMalformed(t *testing.T) {
	user := testUser()
	now := time.Now()

	for _, token := range []string{"", "no-dash-here-but-wrong", "justonepart", "--"} {
		if CheckActionToken(user, token, testSecret, 24*time.Hour, now) {
			t.Errorf("malformed token %q verified", token)
		}
	}
}

func TestActionTokenRejectsFutureTimestamp(t *testing.T) {
	user := testUser()
	now := time.Now()

	token := MakeActionToken(user, testSecret, now.Add(time.Hour))
	if CheckActionToken(user, token, testSecret, 24*time.Hour, now) {
		t.Fatal("token with future timestamp verified")
	}
}

func TestUserRefRoundTrip(t *testing.T) {
	id := primitive.NewObjectID()

	ref := EncodeUserRef(id)
	decoded, err := DecodeUserRef(ref)
	if err != nil {
		t.Fatalf("DecodeUserRef: %v", err)
	}
	if decoded != id {
		t.Fatalf("got %s, want %s", decoded.Hex(), id.Hex())
	}
}

func TestDecodeUserRefRejectsGarbage(t *testing.T) {
	for _, ref := range []string{"", "!!!", "bm90YWhleGlk"} {
		if _, err := DecodeUserRef(ref); err == nil {
			t.Errorf("DecodeUserRef(%q) succeeded", ref)
		}
	}
}
