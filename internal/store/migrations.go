package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Detections table - one row per change of the reported gesture
		`CREATE TABLE IF NOT EXISTS detections (
			id TEXT PRIMARY KEY,
			gesture TEXT NOT NULL,
			confidence INTEGER NOT NULL CHECK(confidence BETWEEN 0 AND 100),
			hands INTEGER NOT NULL DEFAULT 0,
			hints TEXT NOT NULL DEFAULT '[]',
			source TEXT NOT NULL DEFAULT 'camera',
			detected_at DATETIME NOT NULL
		)`,

		// Clips table - phrase to sign-language clip list
		`CREATE TABLE IF NOT EXISTS clips (
			phrase TEXT PRIMARY KEY,
			clips TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_detections_detected_at ON detections(detected_at)`,
		`CREATE INDEX IF NOT EXISTS idx_detections_gesture ON detections(gesture)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
