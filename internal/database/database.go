package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vincentbai/usageanalytics/internal/models"
	_ "modernc.org/sqlite" // CGO-free SQLite
)

// Database persists visitor items for the SDK and the events received by the
// local collection service.
type Database struct {
	db              *sql.DB
	validEventTypes map[string]bool
}

func NewDatabase(databasePath string) (*Database, error) {
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", databasePath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Database{
		db: db,
		validEventTypes: map[string]bool{
			models.SearchEventType: true,
			models.ClickEventType:  true,
			models.CustomEventType: true,
			models.ViewEventType:   true,
		},
	}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS visitor_items(
	  key         TEXT    PRIMARY KEY,
	  value       TEXT    NOT NULL,
	  updated_utc INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS events(
	  id         INTEGER PRIMARY KEY,
	  ts_utc     INTEGER NOT NULL,
	  ts_iso     TEXT    NOT NULL,
	  type       TEXT    NOT NULL CHECK (type IN ('search','click','custom','view')),
	  visit_id   TEXT    NOT NULL,
	  visitor_id TEXT,
	  data_json  TEXT    NOT NULL CHECK (json_valid(data_json))
	);
	CREATE INDEX IF NOT EXISTS idx_events_ts      ON events(ts_utc);
	CREATE INDEX IF NOT EXISTS idx_events_type    ON events(type);
	CREATE INDEX IF NOT EXISTS idx_events_visitor ON events(visitor_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to create database tables: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// GetItem returns "" when key has never been set.
func (d *Database) GetItem(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM visitor_items WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read item %s: %w", key, err)
	}
	return value, nil
}

func (d *Database) SetItem(key, value string) error {
	_, err := d.db.Exec(`
	INSERT INTO visitor_items(key, value, updated_utc) VALUES(?,?,?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_utc = excluded.updated_utc`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write item %s: %w", key, err)
	}
	return nil
}

func (d *Database) IsValidEventType(eventType string) bool {
	return d.validEventTypes[eventType]
}

func (d *Database) ValidateEvent(event models.CollectedEvent) error {
	if event.Type == "" {
		return fmt.Errorf("Type cannot be empty")
	}
	if !d.validEventTypes[event.Type] {
		return fmt.Errorf("invalid event type: %s", event.Type)
	}
	if event.VisitID == "" {
		return fmt.Errorf("VisitID cannot be empty")
	}
	if event.TSUTC <= 0 {
		return fmt.Errorf("timestamp must be positive")
	}
	return nil
}

func (d *Database) InsertEvents(events []models.CollectedEvent) error {
	transaction, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	statement, err := transaction.Prepare(`INSERT INTO events(ts_utc, ts_iso, type, visit_id, visitor_id, data_json) VALUES(?,?,?,?,?,json(?))`)
	if err != nil {
		_ = transaction.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer statement.Close()

	for _, event := range events {
		if err := d.ValidateEvent(event); err != nil {
			_ = transaction.Rollback()
			return fmt.Errorf("invalid event: %w", err)
		}

		jsonData, err := json.Marshal(event.Data)
		if err != nil {
			_ = transaction.Rollback()
			return fmt.Errorf("failed to marshal event data: %w", err)
		}
		if _, err := statement.Exec(event.TSUTC, event.TSISO, event.Type, event.VisitID, nullable(event.VisitorID), string(jsonData)); err != nil {
			_ = transaction.Rollback()
			return fmt.Errorf("failed to execute statement: %w", err)
		}
	}
	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListEvents returns the most recent events first. An empty eventType lists
// every type.
func (d *Database) ListEvents(eventType string, limit int) ([]models.CollectedEvent, error) {
	rows, err := d.db.Query(`
	SELECT ts_utc, ts_iso, type, visit_id, COALESCE(visitor_id, ''), data_json FROM events
	WHERE (? = '' OR type = ?)
	ORDER BY id DESC
	LIMIT ?`, eventType, eventType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.CollectedEvent
	for rows.Next() {
		var event models.CollectedEvent
		var dataJSON string
		if err := rows.Scan(&event.TSUTC, &event.TSISO, &event.Type, &event.VisitID, &event.VisitorID, &dataJSON); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if err := json.Unmarshal([]byte(dataJSON), &event.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event data: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
