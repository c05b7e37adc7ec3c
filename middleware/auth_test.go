package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/callclub/models"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims(role models.UserRole) jwt.MapClaims {
	return jwt.MapClaims{
		JWTClaimUsername: "ana",
		JWTClaimRole:     string(role),
		"exp":            time.Now().Add(time.Hour).Unix(),
	}
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	var gotUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUsernameFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := Authenticate(testSecret)(next)

	expired := validClaims(models.RolePlayer)
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"valid", signed(t, testSecret, validClaims(models.RolePlayer)), http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong secret", signed(t, "other", validClaims(models.RolePlayer)), http.StatusUnauthorized},
		{"expired", signed(t, testSecret, expired), http.StatusUnauthorized},
		{"garbage", "not-a-token", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = ""
			rec := serve(h, tt.token)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusNoContent && gotUser != "ana" {
				t.Errorf("username = %q, want ana", gotUser)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := Authenticate(testSecret)(Authorize(models.RoleAdmin)(next))

	if rec := serve(h, signed(t, testSecret, validClaims(models.RoleAdmin))); rec.Code != http.StatusNoContent {
		t.Errorf("admin status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if rec := serve(h, signed(t, testSecret, validClaims(models.RolePlayer))); rec.Code != http.StatusForbidden {
		t.Errorf("player status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestGetUserRoleFromContextRejectsUnknownRole(t *testing.T) {
	ctx := WithClaims(context.Background(), jwt.MapClaims{JWTClaimRole: "organizer"})
	if _, err := GetUserRoleFromContext(ctx); err == nil {
		t.Fatal("expected an error for an unknown role")
	}
}
