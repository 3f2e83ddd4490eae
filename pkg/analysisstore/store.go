// Package analysisstore persists inference results and their input payloads
// for audit, history and manual correction.
package analysisstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/herdsense/prenhez-api/pkg/models"
)

// ErrNotFound is returned when no analysis matches the requested ID.
var ErrNotFound = errors.New("analysis not found")

// Store is a SQLite-backed analysis repository.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the analysis database and initializes its schema.
func New(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=10000&_journal_mode=WAL&_synchronous=NORMAL", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Writes are serialized by SQLite anyway, keep the pool small.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cow_analyses (
		id TEXT PRIMARY KEY,
		cow_id TEXT NOT NULL,
		prediction INTEGER NOT NULL,
		prediction_label TEXT NOT NULL,
		probability REAL NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'completed',
		notes TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_cow_analyses_cow_id ON cow_analyses(cow_id);
	CREATE INDEX IF NOT EXISTS idx_cow_analyses_status ON cow_analyses(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save persists a new analysis record. A missing ID, status or timestamp is
// filled in before the insert, and the assigned ID is returned.
func (s *Store) Save(record *models.AnalysisRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Status == "" {
		record.Status = models.AnalysisStatusCompleted
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	query, args, err := sq.Insert("cow_analyses").
		Columns("id", "cow_id", "prediction", "prediction_label", "probability",
			"payload", "status", "notes", "created_at").
		Values(record.ID, record.CowID, record.Prediction, record.PredictionLabel,
			record.Probability, string(payload), record.Status, record.Notes,
			record.CreatedAt).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return "", fmt.Errorf("failed to save analysis: %w", err)
	}
	return record.ID, nil
}

// Get retrieves one analysis by ID.
func (s *Store) Get(id string) (*models.AnalysisRecord, error) {
	query, args, err := selectColumns().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	record, err := scanRecord(s.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return record, nil
}

// List returns analyses matching the filter, newest first.
func (s *Store) List(filter models.AnalysisFilter) ([]*models.AnalysisRecord, error) {
	filter.Normalize()

	builder := selectColumns().
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))
	if filter.CowID != "" {
		builder = builder.Where(sq.Eq{"cow_id": filter.CowID})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	records := make([]*models.AnalysisRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Update applies a partial update and returns the updated record.
func (s *Store) Update(id string, update *models.AnalysisUpdate) (*models.AnalysisRecord, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	builder := sq.Update("cow_analyses").
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
	if update.CowID != nil {
		builder = builder.Set("cow_id", *update.CowID)
	}
	if update.Status != nil {
		builder = builder.Set("status", *update.Status)
	}
	if update.Notes != nil {
		builder = builder.Set("notes", *update.Notes)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update analysis: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.Get(id)
}

// Delete removes one analysis.
func (s *Store) Delete(id string) error {
	query, args, err := sq.Delete("cow_analyses").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// DeleteAll wipes every analysis, returning the number removed.
func (s *Store) DeleteAll() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM cow_analyses`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete analyses: %w", err)
	}
	return result.RowsAffected()
}

func selectColumns() sq.SelectBuilder {
	return sq.Select("id", "cow_id", "prediction", "prediction_label", "probability",
		"payload", "status", "notes", "created_at", "updated_at").
		From("cow_analyses")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	var payload string
	var notes sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(&record.ID, &record.CowID, &record.Prediction,
		&record.PredictionLabel, &record.Probability, &payload,
		&record.Status, &notes, &record.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(payload), &record.Payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if notes.Valid {
		record.Notes = notes.String
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		record.UpdatedAt = &t
	}
	return &record, nil
}
