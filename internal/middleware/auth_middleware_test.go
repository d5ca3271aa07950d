package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"porter/internal/models"
	"porter/internal/utils"
)

const testSecret = "middleware-test-secret"

type staticBlacklist map[string]bool

func (b staticBlacklist) Exists(ctx context.Context, key string) (bool, error) {
	return b[key], nil
}

func newProtectedRouter(blacklist TokenBlacklist, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthRequired(testSecret, blacklist)}, extra...)
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/protected", handlers...)
	return r
}

func issueTokens(t *testing.T, role models.UserRole) *utils.TokenPair {
	t.Helper()
	user := &models.User{ID: primitive.NewObjectID(), Role: role}
	pair, err := utils.GenerateTokenPair(user, testSecret, time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	return pair
}

func get(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(recorder, request)
	return recorder
}

func TestAuthRequired(t *testing.T) {
	pair := issueTokens(t, models.UserRoleGuest)
	r := newProtectedRouter(staticBlacklist{})

	if code := get(r, "Bearer "+pair.AccessToken).Code; code != http.StatusOK {
		t.Errorf("valid token: status = %d", code)
	}
	if code := get(r, "").Code; code != http.StatusUnauthorized {
		t.Errorf("missing header: status = %d", code)
	}
	if code := get(r, pair.AccessToken).Code; code != http.StatusUnauthorized {
		t.Errorf("missing Bearer prefix: status = %d", code)
	}
	if code := get(r, "Bearer not-a-token").Code; code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d", code)
	}
}

func TestAuthRequiredRejectsRefreshToken(t *testing.T) {
	pair := issueTokens(t, models.UserRoleGuest)
	r := newProtectedRouter(staticBlacklist{})

	if code := get(r, "Bearer "+pair.RefreshToken).Code; code != http.StatusUnauthorized {
		t.Errorf("refresh token accepted: status = %d", code)
	}
}

func TestAuthRequiredRejectsBlacklistedToken(t *testing.T) {
	pair := issueTokens(t, models.UserRoleGuest)

	claims, err := utils.ValidateToken(pair.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	blacklist := staticBlacklist{utils.CacheBlacklistPrefix + claims.ID: true}

	r := newProtectedRouter(blacklist)
	if code := get(r, "Bearer "+pair.AccessToken).Code; code != http.StatusUnauthorized {
		t.Errorf("revoked token accepted: status = %d", code)
	}
}

func TestAuthRequiredRejectsWrongSecret(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Role: models.UserRoleGuest}
	pair, err := utils.GenerateTokenPair(user, "some-other-secret", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	r := newProtectedRouter(staticBlacklist{})
	if code := get(r, "Bearer "+pair.AccessToken).Code; code != http.StatusUnauthorized {
		t.Errorf("foreign token accepted: status = %d", code)
	}
}

func TestRoleGates(t *testing.T) {
	tests := []struct {
		name string
		gate gin.HandlerFunc
		role models.UserRole
		want int
	}{
		{"driver passes driver gate", DriverRequired(), models.UserRoleDriver, http.StatusOK},
		{"guest blocked by driver gate", DriverRequired(), models.UserRoleGuest, http.StatusForbidden},
		{"guest passes guest gate", GuestRequired(), models.UserRoleGuest, http.StatusOK},
		{"driver blocked by guest gate", GuestRequired(), models.UserRoleDriver, http.StatusForbidden},
		{"admin passes driver gate", DriverRequired(), models.UserRoleAdmin, http.StatusOK},
		{"admin passes guest gate", GuestRequired(), models.UserRoleAdmin, http.StatusOK},
		{"admin passes admin gate", AdminRequired(), models.UserRoleAdmin, http.StatusOK},
		{"driver blocked by admin gate", AdminRequired(), models.UserRoleDriver, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair := issueTokens(t, tt.role)
			r := newProtectedRouter(staticBlacklist{}, tt.gate)

			if code := get(r, "Bearer "+pair.AccessToken).Code; code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
		})
	}
}
