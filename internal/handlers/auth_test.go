package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"accounts_service/internal/models"
	"accounts_service/internal/service"
)

func TestAuthHandlers_SignUp(t *testing.T) {
	users := &mockUsers{createResp: models.PublicUser{ID: 42, Username: "Alice", Email: "alice@example.com", IsActive: true}}
	s := &service.Service{Users: users}
	r := newTestRouter(s)

	// sign-up success
	body := bytes.NewBufferString(`{"username":"Alice","email":"alice@example.com","password":"Secret123!"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-up", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("sign-up status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if int(m["id"].(float64)) != 42 {
		t.Fatalf("expected id=42, got %v", m["id"])
	}
	if m["is_active"] != true {
		t.Fatalf("expected is_active=true, got %v", m["is_active"])
	}
	if strings.Contains(strings.ToLower(w.Body.String()), "password") {
		t.Fatalf("sign-up response leaks a password field: %s", w.Body.String())
	}
	if users.lastCreate.Email != "alice@example.com" {
		t.Fatalf("expected create input forwarded, got %+v", users.lastCreate)
	}

	// sign-up conflict → 409
	users.createErr = service.ErrEmailTaken
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/sign-up",
		bytes.NewBufferString(`{"username":"Alice","email":"alice@example.com","password":"Secret123!"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for taken email, got %d (body=%s)", w.Code, w.Body.String())
	}

	// malformed email → 400 before the service is touched
	users.lastCreate = service.CreateUserInput{}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/sign-up",
		bytes.NewBufferString(`{"username":"Alice","email":"not-an-email","password":"Secret123!"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad email, got %d", w.Code)
	}
	if users.lastCreate.Email != "" {
		t.Fatalf("service should not be called on validation failure")
	}

	// short password → 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/sign-up",
		bytes.NewBufferString(`{"username":"Alice","email":"alice@example.com","password":"abc"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", w.Code)
	}
}

func TestAuthHandlers_SignIn(t *testing.T) {
	auth := &mockAuth{loginResult: service.LoginResult{
		Token: "tok123",
		User:  models.PublicUser{ID: 7, Username: "Alice", Email: "alice@example.com", IsActive: true},
	}}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	// sign-in success
	body := bytes.NewBufferString(`{"email":"alice@example.com","password":"Secret123!"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-in", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Token string            `json:"token"`
		User  models.PublicUser `json:"user"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Token != "tok123" {
		t.Fatalf("expected token tok123, got %q", out.Token)
	}
	if out.User.ID != 7 || out.User.Email != "alice@example.com" || out.User.Username != "Alice" {
		t.Fatalf("unexpected user view: %+v", out.User)
	}

	// bad credentials → 401 with the generic message
	auth.loginErr = service.ErrInvalidCredentials
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/sign-in",
		bytes.NewBufferString(`{"email":"alice@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (body=%s)", w.Code, w.Body.String())
	}
	var errBody map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &errBody)
	if errBody["error"] != errInvalidCredentials {
		t.Fatalf("expected generic credentials message, got %q", errBody["error"])
	}

	// sign-in invalid body → 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/sign-in", bytes.NewBufferString(`{"email":1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
}
