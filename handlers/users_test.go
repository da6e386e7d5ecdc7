// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hanacho/journey-map/cliparse"
	"github.com/hanacho/journey-map/middleware"
	"github.com/hanacho/journey-map/models"
	"github.com/hanacho/journey-map/testutil"
)

// serveAs runs a protected handler the way the router does: behind the
// auth middleware, with the given bearer token on the request.
func serveAs(cfg cliparse.Config, token string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	middleware.RequireAuth(cfg.JWTSecret, h)(w, req)
	return w
}

func TestRegister(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(d, cfg)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:           "valid registration",
			requestBody:    models.RegisterRequest{Email: "dana@example.com", Password: "password123"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "email is normalized before the uniqueness check",
			requestBody:    models.RegisterRequest{Email: "  DANA@example.com ", Password: "password123"},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "password too short",
			requestBody:    models.RegisterRequest{Email: "short@example.com", Password: "short"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing email",
			requestBody:    models.RegisterRequest{Password: "password123"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "email without @",
			requestBody:    models.RegisterRequest{Email: "not-an-email", Password: "password123"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "{not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/register", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.AuthResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Token == "" {
					t.Error("Expected non-empty token")
				}
				if resp.User.Email != "dana@example.com" {
					t.Errorf("Expected normalized email, got '%s'", resp.User.Email)
				}
				if resp.User.Role != models.RoleUser {
					t.Errorf("Expected role user, got '%s'", resp.User.Role)
				}
				if resp.User.PasswordHash != "" {
					t.Error("Password hash must not appear in responses")
				}
			}
		})
	}
}

func TestLogin(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(d, cfg)

	testutil.CreateTestUser(t, d, cfg, "dana@example.com", models.RoleUser)

	tests := []struct {
		name           string
		requestBody    models.LoginRequest
		expectedStatus int
	}{
		{
			name:           "valid login",
			requestBody:    models.LoginRequest{Email: "dana@example.com", Password: "password123"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "uppercase email still matches",
			requestBody:    models.LoginRequest{Email: "Dana@Example.com", Password: "password123"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			requestBody:    models.LoginRequest{Email: "dana@example.com", Password: "wrong-password"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown email",
			requestBody:    models.LoginRequest{Email: "nobody@example.com", Password: "password123"},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/login", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestLoginDoesNotDistinguishUnknownEmail(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(d, cfg)

	testutil.CreateTestUser(t, d, cfg, "dana@example.com", models.RoleUser)

	bodies := []models.LoginRequest{
		{Email: "dana@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "password123"},
	}

	var responses []string
	for _, body := range bodies {
		req := testutil.MakeRequest("POST", "/auth/login", body, nil)
		w := httptest.NewRecorder()
		handler.Login(w, req)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
		responses = append(responses, w.Body.String())
	}

	if responses[0] != responses[1] {
		t.Errorf("Wrong password and unknown email must be indistinguishable: %q vs %q", responses[0], responses[1])
	}
}

func TestMe(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(d, cfg)

	user, token := testutil.CreateTestUser(t, d, cfg, "dana@example.com", models.RoleUser)

	req := testutil.MakeRequest("GET", "/auth/me", nil, nil)
	w := serveAs(cfg, token, handler.Me, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.User
	testutil.AssertJSON(t, w, &resp)
	if resp.ID != user.ID {
		t.Errorf("Expected user %s, got %s", user.ID, resp.ID)
	}
	if resp.Email != "dana@example.com" {
		t.Errorf("Expected email dana@example.com, got '%s'", resp.Email)
	}
}
