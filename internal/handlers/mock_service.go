package handlers

import (
	"context"
	"net/http"
	"time"

	"accounts_service/internal/models"
	"accounts_service/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	loginResult service.LoginResult
	loginErr    error
	parseID     int
	parseErr    error

	lastLoginEmail    string
	lastLoginPassword string
	lastParseToken    string
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (service.LoginResult, error) {
	m.lastLoginEmail = email
	m.lastLoginPassword = password
	return m.loginResult, m.loginErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockUsers struct {
	createResp models.PublicUser
	createErr  error
	getResp    models.PublicUser
	getErr     error
	listResp   []models.PublicUser
	listErr    error
	updateResp models.PublicUser
	updateErr  error
	removeErr  error

	lastCreate   service.CreateUserInput
	lastUpdateID int
	lastUpdate   service.UpdateUserInput
	lastGetID    int
	lastRemoveID int
	removeCalls  int
}

func (m *mockUsers) Create(ctx context.Context, in service.CreateUserInput) (models.PublicUser, error) {
	m.lastCreate = in
	return m.createResp, m.createErr
}

func (m *mockUsers) GetByID(ctx context.Context, id int) (models.PublicUser, error) {
	m.lastGetID = id
	return m.getResp, m.getErr
}

func (m *mockUsers) List(ctx context.Context) ([]models.PublicUser, error) {
	return m.listResp, m.listErr
}

func (m *mockUsers) Update(ctx context.Context, id int, in service.UpdateUserInput) (models.PublicUser, error) {
	m.lastUpdateID = id
	m.lastUpdate = in
	return m.updateResp, m.updateErr
}

func (m *mockUsers) Remove(ctx context.Context, id int) error {
	m.lastRemoveID = id
	m.removeCalls++
	return m.removeErr
}

type mockAuditLog struct {
	resp     []models.AuditEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockAuditLog) List(ctx context.Context, f service.LogFilter) ([]models.AuditEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

func (m *mockAuditLog) Tail(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	return m.resp, m.err
}

type mockSystem struct {
	err error
}

func (m *mockSystem) DBStatus(ctx context.Context) error {
	return m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
