// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hanacho/journey-map/models"
	"github.com/hanacho/journey-map/testutil"
)

func TestCreateBlueprint(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewBlueprintHandler(d, cfg)

	_, adminToken := testutil.CreateTestUser(t, d, cfg, "admin@example.com", models.RoleAdmin)
	_, userToken := testutil.CreateTestUser(t, d, cfg, "user@example.com", models.RoleUser)

	tests := []struct {
		name           string
		token          string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:  "valid blueprint",
			token: adminToken,
			requestBody: models.CreateBlueprintRequest{
				Title:          "Masters Application",
				Institution:    "Test University",
				TargetAudience: "Graduates",
				RootSteps:      testutil.SampleSteps(),
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:  "non-admin rejected",
			token: userToken,
			requestBody: models.CreateBlueprintRequest{
				Title:          "Masters Application",
				Institution:    "Test University",
				TargetAudience: "Graduates",
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:  "missing title",
			token: adminToken,
			requestBody: models.CreateBlueprintRequest{
				Institution:    "Test University",
				TargetAudience: "Graduates",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "step without id",
			token: adminToken,
			requestBody: models.CreateBlueprintRequest{
				Title:          "Masters Application",
				Institution:    "Test University",
				TargetAudience: "Graduates",
				RootSteps:      []*models.Step{{Title: "no id"}},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "nested step with unknown status",
			token: adminToken,
			requestBody: models.CreateBlueprintRequest{
				Title:          "Masters Application",
				Institution:    "Test University",
				TargetAudience: "Graduates",
				RootSteps: []*models.Step{
					{ID: "a", Title: "A", Children: []*models.Step{
						{ID: "a1", Title: "A1", Status: "Done"},
					}},
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			token:          adminToken,
			requestBody:    "{not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/blueprints", tt.requestBody, nil)
			w := serveAs(cfg, tt.token, handler.CreateBlueprint, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.Blueprint
				testutil.AssertJSON(t, w, &resp)
				if resp.ID == "" {
					t.Error("Expected non-empty blueprint id")
				}
				if len(resp.RootSteps) != 2 {
					t.Errorf("Expected 2 root steps, got %d", len(resp.RootSteps))
				}
			}
		})
	}
}

func TestListBlueprintsWithStartedFlag(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewBlueprintHandler(d, cfg)

	user, token := testutil.CreateTestUser(t, d, cfg, "user@example.com", models.RoleUser)
	started := testutil.CreateTestBlueprint(t, d, "Started Blueprint")
	fresh := testutil.CreateTestBlueprint(t, d, "Fresh Blueprint")

	if _, err := handler.engine.Initialize(user.ID, started.ID, started.RootSteps); err != nil {
		t.Fatalf("Failed to initialize progress: %v", err)
	}

	req := testutil.MakeRequest("GET", "/blueprints", nil, nil)
	w := serveAs(cfg, token, handler.ListBlueprints, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp []models.BlueprintSummary
	testutil.AssertJSON(t, w, &resp)
	if len(resp) != 2 {
		t.Fatalf("Expected 2 blueprints, got %d", len(resp))
	}

	flags := map[string]bool{}
	for _, bp := range resp {
		flags[bp.ID] = bp.HasStarted
	}
	if !flags[started.ID] {
		t.Error("Expected started blueprint to be flagged hasStarted")
	}
	if flags[fresh.ID] {
		t.Error("Expected fresh blueprint to not be flagged hasStarted")
	}
}

func TestGetBlueprint(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewBlueprintHandler(d, cfg)

	_, token := testutil.CreateTestUser(t, d, cfg, "user@example.com", models.RoleUser)
	bp := testutil.CreateTestBlueprint(t, d, "Masters Application")

	t.Run("unstarted blueprint returns the template", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/blueprints/"+bp.ID, nil, nil)
		req.SetPathValue("id", bp.ID)
		w := serveAs(cfg, token, handler.GetBlueprint, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.BlueprintView
		testutil.AssertJSON(t, w, &resp)
		if resp.HasStarted {
			t.Error("Expected hasStarted=false before starting")
		}
		if !resp.IsNew {
			t.Error("Expected isNew=true before starting")
		}
		if len(resp.RootSteps) != 2 {
			t.Errorf("Expected 2 template root steps, got %d", len(resp.RootSteps))
		}
	})

	t.Run("unknown blueprint", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/blueprints/ghost", nil, nil)
		req.SetPathValue("id", "ghost")
		w := serveAs(cfg, token, handler.GetBlueprint, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestStartBlueprint(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewBlueprintHandler(d, cfg)

	_, token := testutil.CreateTestUser(t, d, cfg, "user@example.com", models.RoleUser)
	bp := testutil.CreateTestBlueprint(t, d, "Masters Application")

	start := func() models.BlueprintView {
		req := testutil.MakeRequest("POST", "/blueprints/"+bp.ID+"/start", nil, nil)
		req.SetPathValue("id", bp.ID)
		w := serveAs(cfg, token, handler.StartBlueprint, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.BlueprintView
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	first := start()
	if !first.HasStarted {
		t.Error("Expected hasStarted=true after starting")
	}
	if first.IsNew {
		t.Error("Expected isNew=false after starting")
	}
	// SampleSteps: root A (children B, C) plus root D.
	if len(first.RootSteps) != 2 {
		t.Fatalf("Expected 2 root steps, got %d", len(first.RootSteps))
	}
	if first.RootSteps[0].Status != models.StatusToDo {
		t.Errorf("Expected initialized steps to be To_Do, got '%s'", first.RootSteps[0].Status)
	}
	if len(first.RootSteps[0].Children) != 2 {
		t.Errorf("Expected root A to keep its 2 children, got %d", len(first.RootSteps[0].Children))
	}

	// Starting again is a benign no-op returning the same tree.
	second := start()
	if len(second.RootSteps) != 2 {
		t.Errorf("Restart must not duplicate records: got %d root steps", len(second.RootSteps))
	}
}

func TestUpdateBlueprint(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewBlueprintHandler(d, cfg)

	_, adminToken := testutil.CreateTestUser(t, d, cfg, "admin@example.com", models.RoleAdmin)
	_, userToken := testutil.CreateTestUser(t, d, cfg, "user@example.com", models.RoleUser)
	bp := testutil.CreateTestBlueprint(t, d, "Masters Application")

	t.Run("non-admin rejected", func(t *testing.T) {
		title := "PhD Application"
		req := testutil.MakeRequest("PATCH", "/blueprints/"+bp.ID, models.UpdateBlueprintRequest{Title: &title}, nil)
		req.SetPathValue("id", bp.ID)
		w := serveAs(cfg, userToken, handler.UpdateBlueprint, req)

		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		title := "PhD Application"
		req := testutil.MakeRequest("PATCH", "/blueprints/"+bp.ID, models.UpdateBlueprintRequest{Title: &title}, nil)
		req.SetPathValue("id", bp.ID)
		w := serveAs(cfg, adminToken, handler.UpdateBlueprint, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.Blueprint
		testutil.AssertJSON(t, w, &resp)
		if resp.Title != "PhD Application" {
			t.Errorf("Expected updated title, got '%s'", resp.Title)
		}
		if resp.Institution != bp.Institution {
			t.Errorf("Expected institution untouched, got '%s'", resp.Institution)
		}
		if len(resp.RootSteps) != 2 {
			t.Errorf("Expected template steps untouched, got %d roots", len(resp.RootSteps))
		}
	})
}

func TestDeleteBlueprint(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewBlueprintHandler(d, cfg)

	_, adminToken := testutil.CreateTestUser(t, d, cfg, "admin@example.com", models.RoleAdmin)
	user, _ := testutil.CreateTestUser(t, d, cfg, "user@example.com", models.RoleUser)
	bp := testutil.CreateTestBlueprint(t, d, "Masters Application")

	// The user starts the blueprint before the admin deletes it.
	if _, err := handler.engine.Initialize(user.ID, bp.ID, bp.RootSteps); err != nil {
		t.Fatalf("Failed to initialize progress: %v", err)
	}

	req := testutil.MakeRequest("DELETE", "/blueprints/"+bp.ID, nil, nil)
	req.SetPathValue("id", bp.ID)
	w := serveAs(cfg, adminToken, handler.DeleteBlueprint, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	// Deleting again is a 404.
	req = testutil.MakeRequest("DELETE", "/blueprints/"+bp.ID, nil, nil)
	req.SetPathValue("id", bp.ID)
	w = serveAs(cfg, adminToken, handler.DeleteBlueprint, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	// The user's progress rows survive the template deletion.
	sum, err := handler.engine.Summary(user.ID, bp.ID)
	if err != nil {
		t.Fatalf("Failed to assemble progress tree: %v", err)
	}
	if !sum.HasStarted {
		t.Error("Expected user progress to survive blueprint deletion")
	}
	if sum.Total != 4 {
		t.Errorf("Expected 4 surviving records, got %d", sum.Total)
	}
}

func TestBlueprintHandlersRejectAnonymous(t *testing.T) {
	d := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewBlueprintHandler(d, cfg)

	req := testutil.MakeRequest("GET", "/blueprints", nil, nil)
	w := httptest.NewRecorder()
	handler.ListBlueprints(w, req)

	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
