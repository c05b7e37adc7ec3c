package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/callclub/services"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrMatchNotFound, http.StatusNotFound},
		{fmt.Errorf("lookup: %w", services.ErrLeagueNotFound), http.StatusNotFound},
		{services.ErrChampionshipNotFound, http.StatusNotFound},
		{services.ErrPredictionLocked, http.StatusLocked},
		{services.ErrAlreadyMember, http.StatusConflict},
		{services.ErrLeagueFull, http.StatusConflict},
		{services.ErrUsernameConflict, http.StatusConflict},
		{services.ErrNotLeagueOwner, http.StatusForbidden},
		{services.ErrOwnerCannotLeave, http.StatusForbidden},
		{services.ErrLeagueCapReached, http.StatusForbidden},
		{fmt.Errorf("%w: negative score", services.ErrInvalidInput), http.StatusBadRequest},
		{services.ErrValidationFailed, http.StatusBadRequest},
		{services.ErrUnauthorized, http.StatusUnauthorized},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestServerErrorDoesNotLeakCause(t *testing.T) {
	rec := httptest.NewRecorder()
	mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))
	if strings.Contains(rec.Body.String(), "pq:") {
		t.Errorf("body leaks internal error: %s", rec.Body.String())
	}
}

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"ana"}`, ""},
		{"empty", ``, "body must not be empty"},
		{"unknown field", `{"name":"ana","pin":"1"}`, "unknown key"},
		{"two values", `{"name":"a"}{"name":"b"}`, "single JSON value"},
		{"wrong type", `{"name":1}`, "incorrect JSON type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := readJSON(httptest.NewRecorder(), r, &dst)
			switch {
			case tt.wantErr == "" && err != nil:
				t.Fatalf("readJSON() error = %v", err)
			case tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)):
				t.Fatalf("readJSON() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
