// Package store persists analysis runs in SQLite for longitudinal
// comparison. Baseline workflows re-run the same corpus dozens of times;
// the store keeps every run's per-canticum outcome queryable, keyed by a
// fingerprint of the analyzed documents.
//
// Two drivers back it: modernc.org/sqlite by default, mattn/go-sqlite3
// under the cgo_sqlite build tag.
package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/strophic/responsion/core/accent"
	"github.com/strophic/responsion/core/errors"
	"github.com/strophic/responsion/core/responsion"
	"github.com/strophic/responsion/internal/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	corpus TEXT NOT NULL,
	fingerprint TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS canticum_results (
	run_id TEXT NOT NULL,
	responsion TEXT NOT NULL,
	acute_matched INTEGER NOT NULL,
	acute_universe INTEGER NOT NULL,
	grave_matched INTEGER NOT NULL,
	grave_universe INTEGER NOT NULL,
	circumflex_matched INTEGER NOT NULL,
	circumflex_universe INTEGER NOT NULL,
	barys INTEGER NOT NULL,
	oxys INTEGER NOT NULL,
	p REAL NOT NULL,
	significant INTEGER NOT NULL,
	applicable INTEGER NOT NULL,
	PRIMARY KEY (run_id, responsion),
	FOREIGN KEY (run_id) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_results_responsion ON canticum_results(responsion);
`

// Run identifies one stored analysis run.
type Run struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Corpus      string    `json:"corpus"`
	Fingerprint string    `json:"fingerprint"`
}

// Counts pairs a matched count with its universe.
type Counts struct {
	Matched  int `json:"matched"`
	Universe int `json:"universe"`
}

// Record is one canticum's persisted outcome within a run.
type Record struct {
	RunID       string  `json:"run_id"`
	Responsion  string  `json:"responsion"`
	Acute       Counts  `json:"acute"`
	Grave       Counts  `json:"grave"`
	Circumflex  Counts  `json:"circumflex"`
	Barys       int     `json:"barys"`
	Oxys        int     `json:"oxys"`
	P           float64 `json:"p"`
	Significant bool    `json:"significant"`
	Applicable  bool    `json:"applicable"`
}

// HistoryEntry is a Record joined with its run, for per-canticum history
// across runs.
type HistoryEntry struct {
	Record
	CreatedAt time.Time `json:"created_at"`
	Corpus    string    `json:"corpus"`
}

// RunSummary aggregates one run's records.
type RunSummary struct {
	Run         Run    `json:"run"`
	Cantica     int    `json:"cantica"`
	Significant int    `json:"significant"`
	Acute       Counts `json:"acute"`
	Grave       Counts `json:"grave"`
	Circumflex  Counts `json:"circumflex"`
	Barys       int    `json:"barys"`
	Oxys        int    `json:"oxys"`
}

// Fingerprint hashes the compiled documents that feed a run, in analysis
// order, so identical corpora map to identical run fingerprints.
func Fingerprint(docs ...[]byte) string {
	h := blake3.New()
	for _, d := range docs {
		h.Write(d)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Store wraps the SQLite database holding runs and their results.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.NewIO("migrate", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores one analysis run: a runs row plus one canticum_results row
// per canticum, all in one transaction. The summary supplies each canticum's
// significance outcome; res supplies the per-category counts.
func (s *Store) SaveRun(ctx context.Context, corpus, fingerprint string, res *responsion.Result, sum *report.Summary) (*Run, error) {
	run := &Run{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		Corpus:      corpus,
		Fingerprint: fingerprint,
	}

	byID := make(map[string]report.CanticumStatus, len(sum.Cantica))
	for _, cs := range sum.Cantica {
		byID[cs.Responsion] = cs
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewIO("begin", "store", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, corpus, fingerprint) VALUES (?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(time.RFC3339Nano), run.Corpus, run.Fingerprint)
	if err != nil {
		return nil, errors.NewIO("insert run", run.ID, err)
	}

	for _, cr := range res.Cantica() {
		cs := byID[cr.Responsion]
		_, err = tx.ExecContext(ctx,
			`INSERT INTO canticum_results (
				run_id, responsion,
				acute_matched, acute_universe,
				grave_matched, grave_universe,
				circumflex_matched, circumflex_universe,
				barys, oxys, p, significant, applicable
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, cr.Responsion,
			cr.MatchedEntries(accent.Acute), cr.Accents[accent.Acute],
			cr.MatchedEntries(accent.Grave), cr.Accents[accent.Grave],
			cr.MatchedEntries(accent.Circumflex), cr.Accents[accent.Circumflex],
			cr.MatchedBarys(), cr.MatchedOxys(),
			cs.Stats.P, cs.Stats.Significant, cs.Stats.Applicable)
		if err != nil {
			return nil, errors.NewIO("insert result", cr.Responsion, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewIO("commit", run.ID, err)
	}
	return run, nil
}

func parseCreated(created string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return time.Time{}, errors.NewParse("run timestamp", created, err.Error())
	}
	return t, nil
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, corpus, fingerprint FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.NewIO("query runs", "store", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &created, &r.Corpus, &r.Fingerprint); err != nil {
			return nil, errors.NewIO("scan run", "store", err)
		}
		if r.CreatedAt, err = parseCreated(created); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunResults returns one run's canticum records in responsion order.
func (s *Store) RunResults(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, responsion,
			acute_matched, acute_universe,
			grave_matched, grave_universe,
			circumflex_matched, circumflex_universe,
			barys, oxys, p, significant, applicable
		FROM canticum_results WHERE run_id = ? ORDER BY responsion`, runID)
	if err != nil {
		return nil, errors.NewIO("query results", runID, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.RunID, &rec.Responsion,
			&rec.Acute.Matched, &rec.Acute.Universe,
			&rec.Grave.Matched, &rec.Grave.Universe,
			&rec.Circumflex.Matched, &rec.Circumflex.Universe,
			&rec.Barys, &rec.Oxys, &rec.P, &rec.Significant, &rec.Applicable); err != nil {
			return nil, errors.NewIO("scan result", runID, err)
		}
		out = append(out, rec)
	}
	if len(out) == 0 && rows.Err() == nil {
		var n int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&n); err == nil && n == 0 {
			return nil, errors.NewNotFound("run", runID)
		}
	}
	return out, rows.Err()
}

// History returns one canticum's records across runs, oldest first.
func (s *Store) History(ctx context.Context, responsion string) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.run_id, c.responsion,
			c.acute_matched, c.acute_universe,
			c.grave_matched, c.grave_universe,
			c.circumflex_matched, c.circumflex_universe,
			c.barys, c.oxys, c.p, c.significant, c.applicable,
			r.created_at, r.corpus
		FROM canticum_results c
		JOIN runs r ON r.id = c.run_id
		WHERE c.responsion = ?
		ORDER BY r.created_at`, responsion)
	if err != nil {
		return nil, errors.NewIO("query history", responsion, err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var created string
		if err := rows.Scan(&e.RunID, &e.Responsion,
			&e.Acute.Matched, &e.Acute.Universe,
			&e.Grave.Matched, &e.Grave.Universe,
			&e.Circumflex.Matched, &e.Circumflex.Universe,
			&e.Barys, &e.Oxys, &e.P, &e.Significant, &e.Applicable,
			&created, &e.Corpus); err != nil {
			return nil, errors.NewIO("scan history", responsion, err)
		}
		if e.CreatedAt, err = parseCreated(created); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Summaries aggregates every run's records, newest run first.
func (s *Store) Summaries(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.created_at, r.corpus, r.fingerprint,
			COUNT(c.responsion),
			COALESCE(SUM(c.significant), 0),
			COALESCE(SUM(c.acute_matched), 0), COALESCE(SUM(c.acute_universe), 0),
			COALESCE(SUM(c.grave_matched), 0), COALESCE(SUM(c.grave_universe), 0),
			COALESCE(SUM(c.circumflex_matched), 0), COALESCE(SUM(c.circumflex_universe), 0),
			COALESCE(SUM(c.barys), 0), COALESCE(SUM(c.oxys), 0)
		FROM runs r
		LEFT JOIN canticum_results c ON c.run_id = r.id
		GROUP BY r.id, r.created_at, r.corpus, r.fingerprint
		ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, errors.NewIO("query summaries", "store", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var rs RunSummary
		var created string
		if err := rows.Scan(&rs.Run.ID, &created, &rs.Run.Corpus, &rs.Run.Fingerprint,
			&rs.Cantica, &rs.Significant,
			&rs.Acute.Matched, &rs.Acute.Universe,
			&rs.Grave.Matched, &rs.Grave.Universe,
			&rs.Circumflex.Matched, &rs.Circumflex.Universe,
			&rs.Barys, &rs.Oxys); err != nil {
			return nil, errors.NewIO("scan summary", "store", err)
		}
		if rs.Run.CreatedAt, err = parseCreated(created); err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}
