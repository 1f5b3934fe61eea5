package run

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend-runhub/internal/shared/geo"

	"github.com/gofiber/fiber/v2"
)

func passthrough(c *fiber.Ctx) error { return c.Next() }

func newTestApp(recorder Recorder) (*fiber.App, *Service) {
	svc := NewService(testConfig(), nil, nil)
	app := fiber.New()
	RegisterRoutes(app.Group("/runs"), svc, recorder, passthrough)
	return app, svc
}

func TestRunHandlersLifecycle(t *testing.T) {
	recorder := &fakeRecorder{}
	app, _ := newTestApp(recorder)

	body, _ := json.Marshal(fiber.Map{"user_id": "user-1", "start": geo.Position{Lat: 37.5665, Lng: 126.978}})
	req := httptest.NewRequest(http.MethodPost, "/runs/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("start session status: %v", err)
	}
	var session Session
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	posBody, _ := json.Marshal(geo.Position{Lat: 37.5651, Lng: 126.98955})
	req = httptest.NewRequest(http.MethodPost, "/runs/sessions/"+session.ID+"/positions", bytes.NewReader(posBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("add position status: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/runs/sessions/"+session.ID+"/pause", nil)
	if resp, _ = app.Test(req); resp.StatusCode != http.StatusOK {
		t.Fatalf("pause status: %d", resp.StatusCode)
	}
	req = httptest.NewRequest(http.MethodPost, "/runs/sessions/"+session.ID+"/resume", nil)
	if resp, _ = app.Test(req); resp.StatusCode != http.StatusOK {
		t.Fatalf("resume status: %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/runs/sessions/"+session.ID, nil)
	if resp, _ = app.Test(req); resp.StatusCode != http.StatusOK {
		t.Fatalf("snapshot status: %d", resp.StatusCode)
	}
	req = httptest.NewRequest(http.MethodGet, "/runs/sessions/"+session.ID+"/region", nil)
	if resp, _ = app.Test(req); resp.StatusCode != http.StatusOK {
		t.Fatalf("region status: %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/runs/sessions/"+session.ID+"/stop", nil)
	if resp, _ = app.Test(req); resp.StatusCode != http.StatusOK {
		t.Fatalf("stop status: %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/runs/sessions/"+session.ID+"/save", nil)
	if resp, _ = app.Test(req); resp.StatusCode != http.StatusCreated {
		t.Fatalf("save status: %d", resp.StatusCode)
	}
	if len(recorder.saved) != 1 {
		t.Fatalf("expected one saved record")
	}
}

func TestRunHandlersBadRequest(t *testing.T) {
	app, _ := newTestApp(&fakeRecorder{})

	req := httptest.NewRequest(http.MethodPost, "/runs/sessions", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for missing user_id")
	}

	req = httptest.NewRequest(http.MethodPost, "/runs/sessions", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for malformed body")
	}
}

func TestRunHandlersUnknownSession(t *testing.T) {
	app, _ := newTestApp(&fakeRecorder{})

	req := httptest.NewRequest(http.MethodGet, "/runs/sessions/missing", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/runs/sessions/missing/stop", nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found, got %d", resp.StatusCode)
	}
}

func TestRunHandlersSaveBeforeStopConflicts(t *testing.T) {
	app, svc := newTestApp(&fakeRecorder{})
	session, _ := svc.StartSession("user-1", nil)

	req := httptest.NewRequest(http.MethodPost, "/runs/sessions/"+session.ID+"/save", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected conflict, got %d", resp.StatusCode)
	}
}

func TestRunHandlersDiscard(t *testing.T) {
	app, svc := newTestApp(&fakeRecorder{})
	session, _ := svc.StartSession("user-1", nil)

	req := httptest.NewRequest(http.MethodDelete, "/runs/sessions/"+session.ID, nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected no content, got %d", resp.StatusCode)
	}
}
