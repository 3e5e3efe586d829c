package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"accounts_service/internal/models"
)

// mockAuditRepo is a lightweight in-test mock for repository.AuditEvents.
type mockAuditRepo struct {
	appended []models.AuditEvent
	listResp []models.AuditEvent
	listErr  error

	lastFrom  time.Time
	lastTo    time.Time
	lastType  string
	lastLimit int
}

func (m *mockAuditRepo) Append(ctx context.Context, e models.AuditEvent) error {
	m.appended = append(m.appended, e)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.AuditEvent, error) {
	m.lastFrom, m.lastTo, m.lastType = from, to, typ
	return m.listResp, m.listErr
}

func (m *mockAuditRepo) ListRecent(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	m.lastLimit = limit
	return m.listResp, m.listErr
}

func TestAuditLogService_List_NormalizesFilter(t *testing.T) {
	mock := &mockAuditRepo{}
	svc := NewAuditLogService(mock)

	loc := time.FixedZone("UTC+3", 3*3600)
	from := time.Date(2025, 8, 1, 3, 0, 0, 0, loc)
	to := time.Date(2025, 8, 31, 3, 0, 0, 0, loc)

	if _, err := svc.List(context.Background(), LogFilter{From: from, To: to, Type: " login_ok "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.lastFrom.Location() != time.UTC || mock.lastTo.Location() != time.UTC {
		t.Errorf("expected UTC-normalized bounds, got %v / %v", mock.lastFrom, mock.lastTo)
	}
	if mock.lastType != "LOGIN_OK" {
		t.Errorf("expected normalized type LOGIN_OK, got %q", mock.lastType)
	}
}

func TestAuditLogService_List_RejectsInvertedRange(t *testing.T) {
	svc := NewAuditLogService(&mockAuditRepo{})

	from := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.List(context.Background(), LogFilter{From: from, To: to})
	if !errors.Is(err, errInvalidTimeRange) {
		t.Fatalf("expected errInvalidTimeRange, got %v", err)
	}
}

func TestAuditLogService_Tail_DefaultsLimit(t *testing.T) {
	mock := &mockAuditRepo{}
	svc := NewAuditLogService(mock)

	if _, err := svc.Tail(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.lastLimit != defaultTailLimit {
		t.Errorf("expected default limit %d, got %d", defaultTailLimit, mock.lastLimit)
	}
}

func TestAuditLogService_Record(t *testing.T) {
	mock := &mockAuditRepo{}
	svc := NewAuditLogService(mock)

	if err := svc.Record(context.Background(), EventLoginFailed, "login rejected", map[string]any{"email": "x@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.appended) != 1 {
		t.Fatalf("expected 1 appended event, got %d", len(mock.appended))
	}
	if mock.appended[0].Type != EventLoginFailed || mock.appended[0].Description != "login rejected" {
		t.Fatalf("unexpected event: %+v", mock.appended[0])
	}
}
