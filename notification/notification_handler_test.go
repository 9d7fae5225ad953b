package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestMux() (*Manager, *http.ServeMux) {
	m := NewManager(10)
	mux := http.NewServeMux()
	NewHandler(m).RegisterRoutes(mux)
	return m, mux
}

func TestHandleList(t *testing.T) {
	m, mux := newTestMux()
	m.Add(NewAlert("a", "x"))
	m.Add(NewSignal("BTC-USDT", "long", "cross"))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))
	var all []Notification
	if err := json.NewDecoder(rec.Body).Decode(&all); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("list returned %d notifications, want 2", len(all))
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notifications?type=system_alert", nil))
	var alerts []Notification
	if err := json.NewDecoder(rec.Body).Decode(&alerts); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Type != TypeSystemAlert {
		t.Errorf("filtered list = %+v, want one system alert", alerts)
	}
}

func TestHandleMarkRead(t *testing.T) {
	m, mux := newTestMux()
	m.Add(NewAlert("a", "x"))
	id := m.All()[0].ID

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/notifications/"+id+"/read", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("mark read status = %d, want 200", rec.Code)
	}
	if !m.All()[0].Read {
		t.Error("notification should be read after the call")
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/notifications/missing/read", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing ID status = %d, want 404", rec.Code)
	}
}

func TestHandleClear(t *testing.T) {
	m, mux := newTestMux()
	m.Add(NewAlert("a", "x"))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/notifications/clear", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d, want 200", rec.Code)
	}
	if len(m.All()) != 0 {
		t.Error("manager should be empty after clear")
	}
}
