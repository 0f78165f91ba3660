package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/clinicdesk/clinic-auth/internal/models"
	"github.com/clinicdesk/clinic-auth/internal/storage"
)

type failingStore struct{}

func (failingStore) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return errors.New("db unreachable")
}

func (failingStore) ListAuditLogs(ctx context.Context, clinicID uint, limit, offset int) ([]models.AuditLog, error) {
	return nil, errors.New("db unreachable")
}

func TestRecord_AppendsEntry(t *testing.T) {
	store := storage.NewInMemoryStorage()
	recorder := NewRecorder(store)

	userID := uint(3)
	entityID := uint(3)
	recorder.Record(context.Background(), 1, &userID, "login", "user", &entityID,
		nil, map[string]any{"username": "admin"}, "10.0.0.1", "test-agent")

	logs, err := recorder.ListByClinic(context.Background(), 1, 10, 0)
	if err != nil {
		t.Fatalf("ListByClinic() error = %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d audit entries, want 1", len(logs))
	}

	entry := logs[0]
	if entry.Action != "login" || entry.EntityType != "user" {
		t.Errorf("entry = %+v, want action login on entity user", entry)
	}
	if entry.UserID == nil || *entry.UserID != 3 {
		t.Errorf("entry.UserID = %v, want 3", entry.UserID)
	}
	if entry.OldValues != nil {
		t.Errorf("entry.OldValues = %v, want nil", entry.OldValues)
	}
	if entry.NewValues == nil {
		t.Fatal("entry.NewValues = nil, want snapshot")
	}
	var snapshot map[string]any
	if err := json.Unmarshal([]byte(*entry.NewValues), &snapshot); err != nil {
		t.Fatalf("NewValues is not valid JSON: %v", err)
	}
	if snapshot["username"] != "admin" {
		t.Errorf("snapshot username = %v, want admin", snapshot["username"])
	}
	if entry.IPAddress == nil || *entry.IPAddress != "10.0.0.1" {
		t.Errorf("entry.IPAddress = %v, want 10.0.0.1", entry.IPAddress)
	}
}

func TestRecord_AnonymousEntry(t *testing.T) {
	store := storage.NewInMemoryStorage()
	recorder := NewRecorder(store)

	recorder.Record(context.Background(), 1, nil, "seed", "clinic", nil, nil, nil, "", "")

	logs, err := recorder.ListByClinic(context.Background(), 1, 10, 0)
	if err != nil {
		t.Fatalf("ListByClinic() error = %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d audit entries, want 1", len(logs))
	}
	if logs[0].UserID != nil {
		t.Errorf("UserID = %v, want nil for anonymous action", logs[0].UserID)
	}
	if logs[0].IPAddress != nil || logs[0].UserAgent != nil {
		t.Error("empty ip/user-agent should be stored as NULL, not empty strings")
	}
}

// A failed audit write must be swallowed, never panic or propagate.
func TestRecord_SwallowsStorageFailure(t *testing.T) {
	recorder := NewRecorder(failingStore{})

	userID := uint(1)
	recorder.Record(context.Background(), 1, &userID, "login", "user", &userID,
		nil, map[string]any{"username": "admin"}, "", "")
}

// An abandoned request must not cancel the in-flight audit write.
func TestRecord_SurvivesCancelledContext(t *testing.T) {
	store := storage.NewInMemoryStorage()
	recorder := NewRecorder(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	recorder.Record(ctx, 1, nil, "login", "user", nil, nil, nil, "", "")

	logs, err := recorder.ListByClinic(context.Background(), 1, 10, 0)
	if err != nil {
		t.Fatalf("ListByClinic() error = %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d audit entries after cancelled context, want 1", len(logs))
	}
}
