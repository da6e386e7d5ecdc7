// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hanacho/journey-map/auth"
	"github.com/hanacho/journey-map/cliparse"
	"github.com/hanacho/journey-map/db"
	"github.com/hanacho/journey-map/models"
)

// SetupTestDB creates a fresh SQLite database in a temp directory with the
// full schema. Hermetic: no external services needed.
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "journeymap_test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Single connection avoids SQLITE_BUSY under concurrent test requests.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db.New(conn, db.DriverSQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3000,
		DatabaseURL:  "file:journeymap_test.db",
		DatabaseType: "sqlite",
		JWTSecret:    "test-jwt-secret",
	}
}

// CreateTestUser inserts a user and returns it with a valid bearer token.
func CreateTestUser(t *testing.T, d *db.DB, cfg cliparse.Config, email, role string) (models.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.NewUserStore(d).Create(&user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Role, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return user, token
}

// SampleSteps returns a small template forest: root A with children B and
// C, plus root D.
func SampleSteps() []*models.Step {
	details := "Collect everything before the deadline"
	return []*models.Step{
		{
			ID:    "A",
			Title: "Application",
			Children: []*models.Step{
				{ID: "B", Title: "Essay", Details: &details},
				{ID: "C", Title: "References", HasFeedback: true},
			},
		},
		{ID: "D", Title: "Interview prep"},
	}
}

// CreateTestBlueprint inserts a blueprint with SampleSteps and returns it.
func CreateTestBlueprint(t *testing.T, d *db.DB, title string) *models.Blueprint {
	t.Helper()

	bp := &models.Blueprint{
		ID:             uuid.NewString(),
		Title:          title,
		Institution:    "Test University",
		TargetAudience: "Graduate applicants",
		RootSteps:      SampleSteps(),
	}
	if err := db.NewBlueprintStore(d).Create(bp); err != nil {
		t.Fatalf("Failed to create test blueprint: %v", err)
	}
	return bp
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AuthHeader builds the header map for a bearer token.
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
