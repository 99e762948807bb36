// Package storage provides SQLite-based persistence for finished episodes.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Episode sources.
const (
	SourcePlay    = "play"
	SourceRollout = "rollout"
	SourceReplay  = "replay"
)

// Store manages the SQLite database connection for episode persistence.
type Store struct {
	db *sql.DB
}

// Episode is one finished run of a level.
type Episode struct {
	ID            string // UUID, assigned on save when empty
	GameID        string
	Seed          uint64
	Difficulty    int
	Hazard        string
	Outcome       string // "goal", "death", "timeout"
	Cause         string
	Ticks         int
	Reward        float64
	LevelComplete bool
	Source        string
	CreatedAt     time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS episodes (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			difficulty INTEGER NOT NULL,
			hazard TEXT NOT NULL,
			outcome TEXT NOT NULL,
			cause TEXT NOT NULL DEFAULT '',
			ticks INTEGER NOT NULL,
			reward REAL NOT NULL DEFAULT 0,
			level_complete INTEGER NOT NULL DEFAULT 0,
			source TEXT NOT NULL DEFAULT 'play',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_game_id ON episodes(game_id);
		CREATE INDEX IF NOT EXISTS idx_episodes_top ON episodes(game_id, level_complete DESC, ticks ASC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveEpisode records a finished episode and returns its ID.
func (s *Store) SaveEpisode(e Episode) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Source == "" {
		e.Source = SourcePlay
	}

	_, err := s.db.Exec(
		`INSERT INTO episodes
		 (id, game_id, seed, difficulty, hazard, outcome, cause, ticks, reward, level_complete, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.GameID,
		int64(e.Seed), //#nosec G115 -- stored as raw bits
		e.Difficulty,
		e.Hazard,
		e.Outcome,
		e.Cause,
		e.Ticks,
		e.Reward,
		e.LevelComplete,
		e.Source,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save episode: %w", err)
	}
	return e.ID, nil
}

const episodeColumns = `id, game_id, seed, difficulty, hazard, outcome, cause,
		        ticks, reward, level_complete, source, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEpisode(row scanner) (Episode, error) {
	var e Episode
	var seed int64
	var createdAt any
	if err := row.Scan(
		&e.ID,
		&e.GameID,
		&seed,
		&e.Difficulty,
		&e.Hazard,
		&e.Outcome,
		&e.Cause,
		&e.Ticks,
		&e.Reward,
		&e.LevelComplete,
		&e.Source,
		&createdAt,
	); err != nil {
		return e, err
	}
	e.Seed = uint64(seed) //#nosec G115 -- stored as raw bits
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func (s *Store) queryEpisodes(query string, args ...any) ([]Episode, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var entries []Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// RecentEpisodes retrieves the most recent episodes, newest first.
// An empty gameID matches every game.
func (s *Store) RecentEpisodes(gameID string, limit int) ([]Episode, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryEpisodes(
		`SELECT `+episodeColumns+`
		 FROM episodes
		 WHERE (? = '' OR game_id = ?)
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
}

// TopEpisodes retrieves the best runs for the given game: completed
// episodes first, then fewest ticks.
func (s *Store) TopEpisodes(gameID string, limit int) ([]Episode, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryEpisodes(
		`SELECT `+episodeColumns+`
		 FROM episodes
		 WHERE game_id = ?
		 ORDER BY level_complete DESC, ticks ASC, rowid ASC
		 LIMIT ?`,
		gameID, limit,
	)
}

// EpisodeByID retrieves one episode. It returns nil if none exists.
func (s *Store) EpisodeByID(id string) (*Episode, error) {
	row := s.db.QueryRow(
		`SELECT `+episodeColumns+` FROM episodes WHERE id = ?`,
		id,
	)
	e, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episode: %w", err)
	}
	return &e, nil
}

// ClearEpisodes deletes all episodes for the given game.
func (s *Store) ClearEpisodes(gameID string) error {
	_, err := s.db.Exec("DELETE FROM episodes WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear episodes: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID      string
	Episodes    int
	Completed   int
	BestTicks   int // fewest ticks among completed episodes, 0 if none
	AvgTicks    float64
	TotalReward float64
	LastPlayed  time.Time
}

// CompletionRate is the fraction of episodes that reached the goal.
func (g GameStats) CompletionRate() float64 {
	if g.Episodes == 0 {
		return 0
	}
	return float64(g.Completed) / float64(g.Episodes)
}

const statsColumns = `game_id, COUNT(*), COALESCE(SUM(level_complete), 0),
		        COALESCE(MIN(CASE WHEN level_complete THEN ticks END), 0),
		        COALESCE(AVG(ticks), 0), COALESCE(SUM(reward), 0), MAX(created_at)`

func scanStats(row scanner) (GameStats, error) {
	var st GameStats
	var lastPlayed any
	if err := row.Scan(&st.GameID, &st.Episodes, &st.Completed, &st.BestTicks,
		&st.AvgTicks, &st.TotalReward, &lastPlayed); err != nil {
		return st, err
	}
	st.LastPlayed = parseTime(lastPlayed)
	return st, nil
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	row := s.db.QueryRow(
		`SELECT `+statsColumns+` FROM episodes WHERE game_id = ? GROUP BY game_id`,
		gameID,
	)
	st, err := scanStats(row)
	if errors.Is(err, sql.ErrNoRows) {
		return &GameStats{GameID: gameID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	return &st, nil
}

// GetAllGamesStats retrieves statistics for all games that have been played.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(`SELECT ` + statsColumns + ` FROM episodes GROUP BY game_id`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		st, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats[st.GameID] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
