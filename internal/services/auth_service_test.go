package services

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"porter/internal/config"
	"porter/internal/models"
	"porter/internal/utils"
	"porter/internal/validators"
	"porter/pkg/logger"
	"porter/pkg/oauth"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.SetOutput(io.Discard)
	return log
}

func testSecurityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret:          "test-secret",
		JWTAccessTokenTTL:  time.Hour,
		JWTRefreshTokenTTL: 24 * time.Hour,
		ActionTokenTTL:     24 * time.Hour,
		PasswordMinLength:  8,
	}
}

type authFixture struct {
	service  AuthService
	users    *fakeUserRepo
	guests   *fakeGuestRepo
	drivers  *fakeDriverRepo
	cache    *fakeCache
	email    *fakeEmail
	verifier *fakeVerifier
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:    newFakeUserRepo(),
		guests:   newFakeGuestRepo(),
		drivers:  newFakeDriverRepo(),
		cache:    newFakeCache(),
		email:    &fakeEmail{},
		verifier: &fakeVerifier{},
	}
	f.service = NewAuthService(
		f.users, f.guests, f.drivers,
		fakeTx{}, f.cache, f.email, f.verifier,
		testSecurityConfig(), "http://localhost:8080", testLogger(t),
	)
	return f
}

func registerGuest(t *testing.T, f *authFixture, email string) *AuthResponse {
	t.Helper()
	response, err := f.service.Register(context.Background(), &validators.RegisterRequest{
		FirstName: "Aisha",
		LastName:  "Toktogulova",
		Email:     email,
		Password:  "correct-horse",
		Role:      "guest",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return response
}

// mailedLink pulls the first URL out of a mail body and returns its uid and
// token query parameters.
func mailedLink(t *testing.T, body string) (string, string) {
	t.Helper()
	for _, field := range strings.Fields(body) {
		if !strings.HasPrefix(field, "http") {
			continue
		}
		parsed, err := url.Parse(field)
		if err != nil {
			t.Fatalf("parse mailed link: %v", err)
		}
		return parsed.Query().Get("uid"), parsed.Query().Get("token")
	}
	t.Fatal("no link found in mail body")
	return "", ""
}

func TestRegisterCreatesAccountAndProfile(t *testing.T) {
	f := newAuthFixture(t)
	response := registerGuest(t, f, "aisha@example.com")

	if response.Tokens == nil || response.Tokens.AccessToken == "" {
		t.Fatal("no tokens issued")
	}
	if response.User.IsVerified {
		t.Error("new local account reported verified")
	}
	if !response.User.IsActive {
		t.Error("new account not active")
	}
	if response.User.AuthType != models.AuthTypeLocal {
		t.Errorf("auth type = %q", response.User.AuthType)
	}
	if response.User.Password == "correct-horse" {
		t.Error("password stored in clear")
	}

	if _, err := f.guests.GetByUserID(context.Background(), response.User.ID); err != nil {
		t.Errorf("guest profile missing: %v", err)
	}
	if len(f.email.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(f.email.sent))
	}
}

func TestRegisterDriverGetsDefaultRating(t *testing.T) {
	f := newAuthFixture(t)

	response, err := f.service.Register(context.Background(), &validators.RegisterRequest{
		FirstName: "Bakyt",
		LastName:  "Asanov",
		Email:     "bakyt@example.com",
		Password:  "correct-horse",
		Role:      "driver",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	profile, err := f.drivers.GetByUserID(context.Background(), response.User.ID)
	if err != nil {
		t.Fatalf("driver profile missing: %v", err)
	}
	if profile.Rating != models.DefaultDriverRating {
		t.Errorf("rating = %v, want %v", profile.Rating, models.DefaultDriverRating)
	}
	if profile.TotalTrips != 0 {
		t.Errorf("total trips = %d, want 0", profile.TotalTrips)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	registerGuest(t, f, "aisha@example.com")

	_, err := f.service.Register(context.Background(), &validators.RegisterRequest{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "aisha@example.com",
		Password:  "correct-horse",
		Role:      "guest",
	})
	if !errors.Is(err, ErrAccountExists) {
		t.Fatalf("err = %v, want ErrAccountExists", err)
	}
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	registerGuest(t, f, "aisha@example.com")

	response, err := f.service.Login(context.Background(), &validators.LoginRequest{
		Email:    "aisha@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if response.Tokens.RefreshToken == "" {
		t.Error("no refresh token issued")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	registerGuest(t, f, "aisha@example.com")

	_, err := f.service.Login(context.Background(), &validators.LoginRequest{
		Email:    "aisha@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Login(context.Background(), &validators.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-pass",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	f := newAuthFixture(t)
	response := registerGuest(t, f, "aisha@example.com")

	f.users.users[response.User.ID].IsActive = false

	_, err := f.service.Login(context.Background(), &validators.LoginRequest{
		Email:    "aisha@example.com",
		Password: "correct-horse",
	})
	if !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("err = %v, want ErrAccountDisabled", err)
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	f := newAuthFixture(t)
	response := registerGuest(t, f, "aisha@example.com")

	claims, err := utils.ValidateToken(response.Tokens.AccessToken, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if err := f.service.Logout(context.Background(), claims, ""); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	revoked, err := f.cache.Exists(context.Background(), utils.CacheBlacklistPrefix+claims.ID)
	if err != nil || !revoked {
		t.Fatalf("token not blacklisted (revoked=%v, err=%v)", revoked, err)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	response := registerGuest(t, f, "aisha@example.com")

	claims, err := utils.ValidateToken(response.Tokens.AccessToken, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if err := f.service.Logout(context.Background(), claims, response.Tokens.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := f.service.RefreshToken(context.Background(), response.Tokens.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh after logout: err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	f := newAuthFixture(t)
	response := registerGuest(t, f, "aisha@example.com")

	refreshed, err := f.service.RefreshToken(context.Background(), response.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if refreshed.Tokens.RefreshToken == response.Tokens.RefreshToken {
		t.Error("refresh token not rotated")
	}

	// The consumed token is dead.
	if _, err := f.service.RefreshToken(context.Background(), response.Tokens.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("reused refresh token: err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	response := registerGuest(t, f, "aisha@example.com")

	if _, err := f.service.RefreshToken(context.Background(), response.Tokens.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestGoogleLoginCreatesVerifiedGuest(t *testing.T) {
	f := newAuthFixture(t)
	f.verifier.identity = &oauth.Identity{
		Email:         "aisha@example.com",
		FirstName:     "Aisha",
		LastName:      "Toktogulova",
		EmailVerified: true,
	}

	response, err := f.service.GoogleLogin(context.Background(), "raw-id-token")
	if err != nil {
		t.Fatalf("GoogleLogin: %v", err)
	}

	if !response.Created {
		t.Error("created flag not set on first federated login")
	}
	if !response.User.IsVerified {
		t.Error("federated account not verified")
	}
	if response.User.AuthType != models.AuthTypeGoogle {
		t.Errorf("auth type = %q", response.User.AuthType)
	}
	if response.User.Role != models.UserRoleGuest {
		t.Errorf("role = %q", response.User.Role)
	}
	if _, err := f.guests.GetByUserID(context.Background(), response.User.ID); err != nil {
		t.Errorf("guest profile missing: %v", err)
	}
}

func TestGoogleLoginReusesExistingAccount(t *testing.T) {
	f := newAuthFixture(t)
	existing := registerGuest(t, f, "aisha@example.com")

	f.verifier.identity = &oauth.Identity{Email: "aisha@example.com", EmailVerified: true}

	response, err := f.service.GoogleLogin(context.Background(), "raw-id-token")
	if err != nil {
		t.Fatalf("GoogleLogin: %v", err)
	}
	if response.User.ID != existing.User.ID {
		t.Error("a second account was created for the same email")
	}
	if response.Created {
		t.Error("created flag set for an existing account")
	}
}

func TestGoogleLoginRejectsBadToken(t *testing.T) {
	f := newAuthFixture(t)
	f.verifier.err = errors.New("signature mismatch")

	if _, err := f.service.GoogleLogin(context.Background(), "bad-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyEmailFlow(t *testing.T) {
	f := newAuthFixture(t)
	response := registerGuest(t, f, "aisha@example.com")

	uid, token := mailedLink(t, f.email.sent[0].Body)
	if err := f.service.VerifyEmail(context.Background(), uid, token); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}

	user, _ := f.users.GetByID(context.Background(), response.User.ID)
	if !user.IsVerified {
		t.Fatal("account not marked verified")
	}

	// The token was bound to the unverified state and is now dead.
	if err := f.service.VerifyEmail(context.Background(), uid, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token reuse: err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyEmailRejectsTamperedToken(t *testing.T) {
	f := newAuthFixture(t)
	registerGuest(t, f, "aisha@example.com")

	uid, _ := mailedLink(t, f.email.sent[0].Body)
	if err := f.service.VerifyEmail(context.Background(), uid, "0-deadbeef"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	registerGuest(t, f, "aisha@example.com")
	f.email.sent = nil

	if err := f.service.RequestPasswordReset(context.Background(), "aisha@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if len(f.email.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(f.email.sent))
	}

	uid, token := mailedLink(t, f.email.sent[0].Body)
	if err := f.service.ConfirmPasswordReset(context.Background(), uid, token, "new-password-1"); err != nil {
		t.Fatalf("ConfirmPasswordReset: %v", err)
	}

	if _, err := f.service.Login(context.Background(), &validators.LoginRequest{
		Email:    "aisha@example.com",
		Password: "correct-horse",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("old password still accepted")
	}

	if _, err := f.service.Login(context.Background(), &validators.LoginRequest{
		Email:    "aisha@example.com",
		Password: "new-password-1",
	}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	// Consuming the reset changed the hash, so the token cannot be replayed.
	if err := f.service.ConfirmPasswordReset(context.Background(), uid, token, "another-pass"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token reuse: err = %v, want ErrInvalidToken", err)
	}
}

func TestPasswordResetUnknownEmailStaysQuiet(t *testing.T) {
	f := newAuthFixture(t)

	if err := f.service.RequestPasswordReset(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if len(f.email.sent) != 0 {
		t.Fatal("mail sent for unknown address")
	}
}

func TestResendVerificationSkipsVerifiedAccounts(t *testing.T) {
	f := newAuthFixture(t)
	response := registerGuest(t, f, "aisha@example.com")
	f.users.users[response.User.ID].IsVerified = true
	f.email.sent = nil

	if err := f.service.SendVerificationEmail(context.Background(), "aisha@example.com"); err != nil {
		t.Fatalf("SendVerificationEmail: %v", err)
	}
	if len(f.email.sent) != 0 {
		t.Fatal("mail sent to an already verified account")
	}
}
