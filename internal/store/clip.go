package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ClipMapping maps a normalized phrase to its sign-language clips.
type ClipMapping struct {
	Phrase    string    `json:"phrase"`
	Clips     []string  `json:"clips"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClipRepository provides CRUD operations for clip mappings.
type ClipRepository struct {
	db *sql.DB
}

// Clips returns the clip repository for this store.
func (s *Store) Clips() *ClipRepository {
	return &ClipRepository{db: s.db}
}

// Upsert creates or replaces the mapping for c.Phrase.
func (r *ClipRepository) Upsert(c *ClipMapping) error {
	if c.Phrase == "" {
		return errors.New("phrase is required")
	}
	clips, err := json.Marshal(c.Clips)
	if err != nil {
		return fmt.Errorf("encode clips: %w", err)
	}
	c.UpdatedAt = time.Now().UTC()

	_, err = r.db.Exec(
		`INSERT INTO clips (phrase, clips, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(phrase) DO UPDATE SET clips = excluded.clips, updated_at = excluded.updated_at`,
		c.Phrase, string(clips), c.UpdatedAt,
	)
	return err
}

// Get retrieves the mapping for a phrase.
func (r *ClipRepository) Get(phrase string) (*ClipMapping, error) {
	c := &ClipMapping{}
	var clips string

	err := r.db.QueryRow(
		`SELECT phrase, clips, updated_at FROM clips WHERE phrase = ?`,
		phrase,
	).Scan(&c.Phrase, &clips, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(clips), &c.Clips); err != nil {
		return nil, fmt.Errorf("decode clips of %q: %w", phrase, err)
	}
	return c, nil
}

// List retrieves all mappings ordered by phrase.
func (r *ClipRepository) List() ([]*ClipMapping, error) {
	rows, err := r.db.Query(`SELECT phrase, clips, updated_at FROM clips ORDER BY phrase`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mappings := []*ClipMapping{}
	for rows.Next() {
		c := &ClipMapping{}
		var clips string
		if err := rows.Scan(&c.Phrase, &clips, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(clips), &c.Clips); err != nil {
			return nil, fmt.Errorf("decode clips of %q: %w", c.Phrase, err)
		}
		mappings = append(mappings, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return mappings, nil
}

// Delete removes the mapping for a phrase.
func (r *ClipRepository) Delete(phrase string) error {
	result, err := r.db.Exec(`DELETE FROM clips WHERE phrase = ?`, phrase)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result)
}
