package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"porter/internal/models"
)

// Action tokens authorize one-off account actions (email verification,
// password reset) without any server-side token storage. The MAC covers
// the mutable account state, so completing the action changes that state
// and every previously issued token stops verifying.

// MakeActionToken mints a token bound to the user's current account state.
func MakeActionToken(user *models.User, secret string, now time.Time) string {
	ts := strconv.FormatInt(now.Unix(), 36)
	return ts + "-" + signActionState(user, ts, secret)
}

// CheckActionToken reports whether token was minted for the user's current
// state within ttl of now.
func CheckActionToken(user *models.User, token, secret string, ttl time.Duration, now time.Time) bool {
	ts, mac, ok := strings.Cut(token, "-")
	if !ok || ts == "" || mac == "" {
		return false
	}

	expected := signActionState(user, ts, secret)
	if subtle.ConstantTimeCompare([]byte(mac), []byte(expected)) != 1 {
		return false
	}

	issuedAt, err := strconv.ParseInt(ts, 36, 64)
	if err != nil {
		return false
	}

	issued := time.Unix(issuedAt, 0)
	if issued.After(now) {
		return false
	}
	return now.Sub(issued) <= ttl
}

func signActionState(user *models.User, ts, secret string) string {
	state := fmt.Sprintf("%s|%s|%t|%s|%s",
		user.ID.Hex(), user.Password, user.IsVerified, user.Email, ts)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(state))
	return hex.EncodeToString(mac.Sum(nil))
}

// EncodeUserRef wraps a user ID for use in mailed links.
func EncodeUserRef(id primitive.ObjectID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id.Hex()))
}

// DecodeUserRef reverses EncodeUserRef.
func DecodeUserRef(ref string) (primitive.ObjectID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(ref)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("malformed user reference: %w", err)
	}

	id, err := primitive.ObjectIDFromHex(string(raw))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("malformed user reference: %w", err)
	}
	return id, nil
}
