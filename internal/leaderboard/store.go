// Package leaderboard persists finalized run summaries to SQLite and
// serves ranked model listings per jurisdiction.
package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const defaultLimit = 50

type Store struct {
	db *sql.DB
}

type Entry struct {
	ID           int64
	Model        string
	ScenarioID   string
	Jurisdiction string
	OverallScore float64
	HardFail     bool
	LLMMode      string
	EvalDate     time.Time
}

func NewStore(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("leaderboard: empty db path")
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("leaderboard: create db dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: open db: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("leaderboard: ping db: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("leaderboard: nil db")
	}

	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS leaderboard_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			model TEXT NOT NULL,
			scenario_id TEXT NOT NULL,
			jurisdiction TEXT NOT NULL,
			overall_score REAL NOT NULL,
			hard_fail INTEGER NOT NULL,
			llm_mode TEXT NOT NULL,
			eval_date INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboard_jurisdiction ON leaderboard_entries(jurisdiction)`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboard_model_jurisdiction ON leaderboard_entries(model, jurisdiction)`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboard_eval_date ON leaderboard_entries(eval_date)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("leaderboard: init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, entry *Entry) error {
	if s == nil || s.db == nil {
		return errors.New("leaderboard: nil store")
	}
	if ctx == nil {
		return errors.New("leaderboard: nil context")
	}
	if entry == nil {
		return errors.New("leaderboard: nil entry")
	}

	model := strings.TrimSpace(entry.Model)
	scenarioID := strings.TrimSpace(entry.ScenarioID)
	jurisdiction := strings.TrimSpace(entry.Jurisdiction)
	if model == "" || scenarioID == "" || jurisdiction == "" {
		return errors.New("leaderboard: missing model/scenario_id/jurisdiction")
	}

	evalDate := entry.EvalDate
	if evalDate.IsZero() {
		evalDate = time.Now().UTC()
	}

	hardFail := 0
	if entry.HardFail {
		hardFail = 1
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO leaderboard_entries (
			model, scenario_id, jurisdiction, overall_score, hard_fail, llm_mode, eval_date
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, model, scenarioID, jurisdiction, entry.OverallScore, hardFail, strings.TrimSpace(entry.LLMMode), evalDate.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("leaderboard: insert entry: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		entry.ID = id
	}
	entry.EvalDate = evalDate
	entry.Model = model
	entry.ScenarioID = scenarioID
	entry.Jurisdiction = jurisdiction
	return nil
}

// Top lists the best average score per model for one jurisdiction,
// highest first. Models with any hard fail sort below clean ones.
func (s *Store) Top(ctx context.Context, jurisdiction string, limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("leaderboard: nil store")
	}
	jurisdiction = strings.TrimSpace(jurisdiction)
	if jurisdiction == "" {
		return nil, errors.New("leaderboard: empty jurisdiction")
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT model, jurisdiction, AVG(overall_score) AS avg_score,
			MAX(hard_fail) AS any_hard_fail, MAX(eval_date) AS latest
		FROM leaderboard_entries
		WHERE jurisdiction = ?
		GROUP BY model
		ORDER BY any_hard_fail ASC, avg_score DESC
		LIMIT ?
	`, jurisdiction, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: query top: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var hardFail int
		var latest int64
		if err := rows.Scan(&e.Model, &e.Jurisdiction, &e.OverallScore, &hardFail, &latest); err != nil {
			return nil, fmt.Errorf("leaderboard: scan top: %w", err)
		}
		e.HardFail = hardFail != 0
		e.EvalDate = time.UnixMilli(latest).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard: iterate top: %w", err)
	}
	return out, nil
}

// ModelHistory lists all entries for one model in one jurisdiction,
// newest first.
func (s *Store) ModelHistory(ctx context.Context, model, jurisdiction string) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("leaderboard: nil store")
	}
	model = strings.TrimSpace(model)
	jurisdiction = strings.TrimSpace(jurisdiction)
	if model == "" || jurisdiction == "" {
		return nil, errors.New("leaderboard: missing model/jurisdiction")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model, scenario_id, jurisdiction, overall_score, hard_fail, llm_mode, eval_date
		FROM leaderboard_entries
		WHERE model = ? AND jurisdiction = ?
		ORDER BY eval_date DESC
	`, model, jurisdiction)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: query history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var hardFail int
		var evalDate int64
		if err := rows.Scan(&e.ID, &e.Model, &e.ScenarioID, &e.Jurisdiction, &e.OverallScore, &hardFail, &e.LLMMode, &evalDate); err != nil {
			return nil, fmt.Errorf("leaderboard: scan history: %w", err)
		}
		e.HardFail = hardFail != 0
		e.EvalDate = time.UnixMilli(evalDate).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard: iterate history: %w", err)
	}
	return out, nil
}
