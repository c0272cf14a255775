package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists detection and action history in a SQLite database so the
// hosting collaborator can show past matches across runs.
type Store struct {
	conn *sql.DB
	path string
}

// Detection is one recorded match event
type Detection struct {
	ID         int64
	Template   string
	X          int
	Y          int
	Confidence float64
	Dispatched bool
	DetectedAt time.Time
}

// TemplateCount aggregates detections per template
type TemplateCount struct {
	Template string
	Count    int
}

// Open opens or creates the history database at the specified path
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	// SQLite works best with a single connection
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	store := &Store{conn: conn, path: dbPath}
	if err := store.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS detections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			template TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			confidence REAL NOT NULL,
			dispatched INTEGER NOT NULL DEFAULT 0,
			detected_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_detections_template ON detections(template);
		CREATE INDEX IF NOT EXISTS idx_detections_detected_at ON detections(detected_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return nil
}

// RecordDetection inserts one match event and returns its ID
func (s *Store) RecordDetection(template string, x, y int, confidence float64, dispatched bool) (int64, error) {
	result, err := s.conn.Exec(`
		INSERT INTO detections (template, x, y, confidence, dispatched, detected_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, template, x, y, confidence, dispatched, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to record detection: %w", err)
	}

	return result.LastInsertId()
}

// RecentDetections returns up to limit detections, newest first
func (s *Store) RecentDetections(limit int) ([]Detection, error) {
	rows, err := s.conn.Query(`
		SELECT id, template, x, y, confidence, dispatched, detected_at
		FROM detections
		ORDER BY detected_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query detections: %w", err)
	}
	defer rows.Close()

	var detections []Detection
	for rows.Next() {
		var d Detection
		if err := rows.Scan(&d.ID, &d.Template, &d.X, &d.Y, &d.Confidence, &d.Dispatched, &d.DetectedAt); err != nil {
			return nil, fmt.Errorf("failed to scan detection: %w", err)
		}
		detections = append(detections, d)
	}

	return detections, rows.Err()
}

// CountByTemplate aggregates detection counts per template, most frequent first
func (s *Store) CountByTemplate() ([]TemplateCount, error) {
	rows, err := s.conn.Query(`
		SELECT template, COUNT(*) AS n
		FROM detections
		GROUP BY template
		ORDER BY n DESC, template ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count detections: %w", err)
	}
	defer rows.Close()

	var counts []TemplateCount
	for rows.Next() {
		var c TemplateCount
		if err := rows.Scan(&c.Template, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// Prune deletes detections older than the retention window
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	result, err := s.conn.Exec(`
		DELETE FROM detections WHERE detected_at < ?
	`, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to prune detections: %w", err)
	}
	return result.RowsAffected()
}
