package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vincentbai/usageanalytics/internal/models"
)

func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()

	// Create temporary directory for test database
	tmpDir, err := os.MkdirTemp("", "usageanalytics-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := NewDatabase(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Return cleanup function
	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

func TestNewDatabase(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if db == nil {
		t.Fatal("Expected non-nil database")
	}
	if db.db == nil {
		t.Fatal("Expected non-nil sql.DB")
	}
}

func TestGetItemMissing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	value, err := db.GetItem("visitorId")
	if err != nil {
		t.Fatalf("Failed to get item: %v", err)
	}
	if value != "" {
		t.Errorf("Expected empty value, got %s", value)
	}
}

func TestSetItemOverwrites(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.SetItem("visitorId", "first"); err != nil {
		t.Fatalf("Failed to set item: %v", err)
	}
	if err := db.SetItem("visitorId", "second"); err != nil {
		t.Fatalf("Failed to overwrite item: %v", err)
	}

	value, err := db.GetItem("visitorId")
	if err != nil {
		t.Fatalf("Failed to get item: %v", err)
	}
	if value != "second" {
		t.Errorf("Expected second, got %s", value)
	}

	var count int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM visitor_items").Scan(&count); err != nil {
		t.Fatalf("Failed to query count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 item, got %d", count)
	}
}

func TestValidateEvent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	tests := []struct {
		name      string
		event     models.CollectedEvent
		wantError bool
	}{
		{
			name: "valid search event",
			event: models.CollectedEvent{
				TSUTC:   1234567890,
				TSISO:   "2009-02-13T23:31:30Z",
				Type:    "search",
				VisitID: "visit-id",
				Data:    map[string]any{},
			},
			wantError: false,
		},
		{
			name: "empty type",
			event: models.CollectedEvent{
				TSUTC:   1234567890,
				TSISO:   "2009-02-13T23:31:30Z",
				Type:    "",
				VisitID: "visit-id",
				Data:    map[string]any{},
			},
			wantError: true,
		},
		{
			name: "invalid event type",
			event: models.CollectedEvent{
				TSUTC:   1234567890,
				TSISO:   "2009-02-13T23:31:30Z",
				Type:    "navigate",
				VisitID: "visit-id",
				Data:    map[string]any{},
			},
			wantError: true,
		},
		{
			name: "empty visit id",
			event: models.CollectedEvent{
				TSUTC: 1234567890,
				TSISO: "2009-02-13T23:31:30Z",
				Type:  "view",
				Data:  map[string]any{},
			},
			wantError: true,
		},
		{
			name: "zero timestamp",
			event: models.CollectedEvent{
				TSUTC:   0,
				TSISO:   "2009-02-13T23:31:30Z",
				Type:    "click",
				VisitID: "visit-id",
				Data:    map[string]any{},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := db.ValidateEvent(tt.event)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateEvent() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestInsertEvents(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	events := []models.CollectedEvent{
		{
			TSUTC:     1234567890,
			TSISO:     "2009-02-13T23:31:30Z",
			Type:      "search",
			VisitID:   "visit-id",
			VisitorID: "visitor-id",
			Data:      map[string]any{"queryText": "q", "actionCause": "interfaceLoad"},
		},
		{
			TSUTC:   1234567891,
			TSISO:   "2009-02-13T23:31:31Z",
			Type:    "custom",
			VisitID: "visit-id",
			Data:    map[string]any{"eventValue": "pagerScrolling"},
		},
	}

	err := db.InsertEvents(events)
	if err != nil {
		t.Fatalf("Failed to insert events: %v", err)
	}

	// Verify events were inserted
	var count int
	err = db.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query count: %v", err)
	}

	if count != len(events) {
		t.Errorf("Expected %d events, got %d", len(events), count)
	}
}

func TestInsertEventsInvalidEvent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	events := []models.CollectedEvent{
		{
			TSUTC:   1234567890,
			TSISO:   "2009-02-13T23:31:30Z",
			Type:    "search",
			VisitID: "visit-id",
			Data:    map[string]any{},
		},
		{
			TSUTC:   1234567890,
			TSISO:   "2009-02-13T23:31:30Z",
			Type:    "navigate", // Invalid: unknown type
			VisitID: "visit-id",
			Data:    map[string]any{},
		},
	}

	err := db.InsertEvents(events)
	if err == nil {
		t.Fatal("Expected error for invalid event, got nil")
	}

	// Verify transaction was rolled back
	var count int
	err = db.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query count: %v", err)
	}

	if count != 0 {
		t.Errorf("Expected 0 events after rollback, got %d", count)
	}
}

func TestListEvents(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	eventTypes := []string{"search", "click", "custom", "view"}
	for i, eventType := range eventTypes {
		err := db.InsertEvents([]models.CollectedEvent{
			{
				TSUTC:     int64(1234567890 + i),
				TSISO:     "2009-02-13T23:31:30Z",
				Type:      eventType,
				VisitID:   "visit-id",
				VisitorID: "visitor-id",
				Data: map[string]any{
					"nested": map[string]any{"foo": "bar"},
				},
			},
		})
		if err != nil {
			t.Fatalf("Failed to insert %s event: %v", eventType, err)
		}
	}

	all, err := db.ListEvents("", 10)
	if err != nil {
		t.Fatalf("Failed to list events: %v", err)
	}
	if len(all) != len(eventTypes) {
		t.Fatalf("Expected %d events, got %d", len(eventTypes), len(all))
	}
	if all[0].Type != "view" {
		t.Errorf("Expected most recent event first, got %s", all[0].Type)
	}
	if all[0].VisitorID != "visitor-id" {
		t.Errorf("Expected visitor-id, got %s", all[0].VisitorID)
	}
	nested, ok := all[0].Data["nested"].(map[string]any)
	if !ok || nested["foo"] != "bar" {
		t.Errorf("Expected nested data to round trip, got %v", all[0].Data)
	}

	clicks, err := db.ListEvents("click", 10)
	if err != nil {
		t.Fatalf("Failed to list click events: %v", err)
	}
	if len(clicks) != 1 {
		t.Errorf("Expected 1 click event, got %d", len(clicks))
	}
}

func TestDatabaseClose(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := db.Close()
	if err != nil {
		t.Errorf("Failed to close database: %v", err)
	}
}
