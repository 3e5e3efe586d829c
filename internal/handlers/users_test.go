package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"accounts_service/internal/models"
	"accounts_service/internal/service"
)

// protectedRequest builds a request carrying a bearer token the mock accepts.
func protectedRequest(method, target string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header = authHeader("valid-token")
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestUserHandlers_List(t *testing.T) {
	users := &mockUsers{listResp: []models.PublicUser{
		{ID: 1, Username: "alice", Email: "alice@example.com", IsActive: true},
		{ID: 2, Username: "bob", Email: "bob@example.com"},
	}}
	s := &service.Service{Users: users, Authorization: &mockAuth{parseID: 1}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, protectedRequest(http.MethodGet, "/api/v1/users/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count int                 `json:"count"`
		Users []models.PublicUser `json:"users"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Users) != 2 {
		t.Fatalf("expected 2 users, got %+v", out)
	}
}

func TestUserHandlers_List_Unauthorized(t *testing.T) {
	s := &service.Service{Users: &mockUsers{}, Authorization: &mockAuth{}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestUserHandlers_Get(t *testing.T) {
	users := &mockUsers{getResp: models.PublicUser{ID: 7, Username: "alice", Email: "alice@example.com", IsActive: true}}
	s := &service.Service{Users: users, Authorization: &mockAuth{parseID: 1}}
	r := newTestRouter(s)

	// success
	w := httptest.NewRecorder()
	r.ServeHTTP(w, protectedRequest(http.MethodGet, "/api/v1/users/7", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d, body=%s", w.Code, w.Body.String())
	}
	if users.lastGetID != 7 {
		t.Fatalf("expected id 7 forwarded, got %d", users.lastGetID)
	}

	// not found
	users.getErr = service.ErrUserNotFound
	w = httptest.NewRecorder()
	r.ServeHTTP(w, protectedRequest(http.MethodGet, "/api/v1/users/99", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (body=%s)", w.Code, w.Body.String())
	}

	// bad id
	w = httptest.NewRecorder()
	r.ServeHTTP(w, protectedRequest(http.MethodGet, "/api/v1/users/abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", w.Code)
	}
}

func TestUserHandlers_Update(t *testing.T) {
	users := &mockUsers{updateResp: models.PublicUser{ID: 7, Username: "renamed", Email: "alice@example.com", IsActive: true}}
	s := &service.Service{Users: users, Authorization: &mockAuth{parseID: 1}}
	r := newTestRouter(s)

	// partial update success
	w := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"username":"renamed"}`)
	r.ServeHTTP(w, protectedRequest(http.MethodPut, "/api/v1/users/7", body))
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d, body=%s", w.Code, w.Body.String())
	}
	if users.lastUpdateID != 7 {
		t.Fatalf("expected id 7 forwarded, got %d", users.lastUpdateID)
	}
	if users.lastUpdate.Username == nil || *users.lastUpdate.Username != "renamed" {
		t.Fatalf("expected username in update input, got %+v", users.lastUpdate)
	}
	if users.lastUpdate.Email != nil || users.lastUpdate.Password != nil || users.lastUpdate.IsActive != nil {
		t.Fatalf("absent fields must stay nil, got %+v", users.lastUpdate)
	}

	// email conflict → 409
	users.updateErr = service.ErrEmailTaken
	w = httptest.NewRecorder()
	r.ServeHTTP(w, protectedRequest(http.MethodPut, "/api/v1/users/7", bytes.NewBufferString(`{"email":"taken@example.com"}`)))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}

	// missing user → 404
	users.updateErr = service.ErrUserNotFound
	w = httptest.NewRecorder()
	r.ServeHTTP(w, protectedRequest(http.MethodPut, "/api/v1/users/99", bytes.NewBufferString(`{"username":"ghost"}`)))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	// invalid partial email → 400
	users.updateErr = nil
	w = httptest.NewRecorder()
	r.ServeHTTP(w, protectedRequest(http.MethodPut, "/api/v1/users/7", bytes.NewBufferString(`{"email":"nope"}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid email, got %d", w.Code)
	}
}

func TestUserHandlers_Delete(t *testing.T) {
	users := &mockUsers{}
	s := &service.Service{Users: users, Authorization: &mockAuth{parseID: 1}}
	r := newTestRouter(s)

	// success with confirmation message
	w := httptest.NewRecorder()
	r.ServeHTTP(w, protectedRequest(http.MethodDelete, "/api/v1/users/7", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("delete status=%d, body=%s", w.Code, w.Body.String())
	}
	var out map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out["message"] != "user #7 deleted" {
		t.Fatalf("expected confirmation referencing the id, got %q", out["message"])
	}

	// already deleted → 404
	users.removeErr = service.ErrUserNotFound
	w = httptest.NewRecorder()
	r.ServeHTTP(w, protectedRequest(http.MethodDelete, "/api/v1/users/7", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on repeat delete, got %d", w.Code)
	}
}
