package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Detection is a gesture reported by the live pipeline or the API.
type Detection struct {
	ID         string    `json:"id"`
	Gesture    string    `json:"gesture"`
	Confidence int       `json:"confidence"`
	Hands      int       `json:"hands"`
	Hints      []string  `json:"hints"`
	Source     string    `json:"source"`
	DetectedAt time.Time `json:"detected_at"`
}

// DetectionRepository provides access to the detection log.
type DetectionRepository struct {
	db *sql.DB
}

// Detections returns the detection repository for this store.
func (s *Store) Detections() *DetectionRepository {
	return &DetectionRepository{db: s.db}
}

// Create inserts a detection, assigning an ID and timestamp when unset.
func (r *DetectionRepository) Create(d *Detection) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.DetectedAt.IsZero() {
		d.DetectedAt = time.Now()
	}
	d.DetectedAt = d.DetectedAt.UTC()
	if d.Source == "" {
		d.Source = "camera"
	}
	if d.Hints == nil {
		d.Hints = []string{}
	}

	hints, err := json.Marshal(d.Hints)
	if err != nil {
		return fmt.Errorf("encode hints: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO detections (id, gesture, confidence, hands, hints, source, detected_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Gesture, d.Confidence, d.Hands, string(hints), d.Source, d.DetectedAt,
	)
	return err
}

// GetByID retrieves a detection by its ID.
func (r *DetectionRepository) GetByID(id string) (*Detection, error) {
	row := r.db.QueryRow(
		`SELECT id, gesture, confidence, hands, hints, source, detected_at
		 FROM detections WHERE id = ?`,
		id,
	)
	d, err := scanDetection(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return d, err
}

// Recent returns up to limit detections, newest first.
func (r *DetectionRepository) Recent(limit int) ([]*Detection, error) {
	rows, err := r.db.Query(
		`SELECT id, gesture, confidence, hands, hints, source, detected_at
		 FROM detections ORDER BY detected_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	detections := []*Detection{}
	for rows.Next() {
		d, err := scanDetection(rows)
		if err != nil {
			return nil, err
		}
		detections = append(detections, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return detections, nil
}

// CountByGesture returns how many detections each gesture has.
func (r *DetectionRepository) CountByGesture() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT gesture, COUNT(*) FROM detections GROUP BY gesture`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

// DeleteBefore removes detections older than t and returns how many were removed.
func (r *DetectionRepository) DeleteBefore(t time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM detections WHERE detected_at < ?`, t.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDetection(s scanner) (*Detection, error) {
	d := &Detection{}
	var hints string

	if err := s.Scan(&d.ID, &d.Gesture, &d.Confidence, &d.Hands, &hints, &d.Source, &d.DetectedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(hints), &d.Hints); err != nil {
		return nil, fmt.Errorf("decode hints of %s: %w", d.ID, err)
	}
	return d, nil
}
