// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists generated records in a local SQLite database
// and answers id, bounding-box and text queries over them.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/paulmach/orb"

	"github.com/pdiddy/ogc-records/internal/record"
	"github.com/pdiddy/ogc-records/pkg/types"
)

const (
	dbFile            = "catalog.db"
	defaultMaxResults = 50
)

// ErrNotFound is returned by Get when no record has the requested id.
var ErrNotFound = errors.New("catalog: record not found")

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates dir/catalog.db and its schema.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			minx REAL NOT NULL,
			miny REAL NOT NULL,
			maxx REAL NOT NULL,
			maxy REAL NOT NULL,
			time_begin TEXT,
			time_end TEXT,
			href TEXT,
			record_updated TEXT,
			document TEXT NOT NULL,
			indexed_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_bbox ON records(minx, maxx, miny, maxy)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Put inserts rec, replacing any stored record with the same id.
func (s *Store) Put(ctx context.Context, rec *types.Record) error {
	bbox := rec.Properties.Extents.Spatial.BBox
	if len(bbox) != 4 {
		return fmt.Errorf("record %s: bbox must have 4 values, got %d", rec.ID, len(bbox))
	}
	var begin, end string
	if iv := rec.Properties.Extents.Temporal.Interval; len(iv) == 2 {
		begin, end = iv[0], iv[1]
	}
	var href string
	for _, l := range rec.Links {
		if l.Rel == types.RelRoot {
			href = l.Href
			break
		}
	}

	doc, err := record.Marshal(rec)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (id, title, description, minx, miny, maxx, maxy,
			time_begin, time_end, href, record_updated, document, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, description=excluded.description,
			minx=excluded.minx, miny=excluded.miny, maxx=excluded.maxx, maxy=excluded.maxy,
			time_begin=excluded.time_begin, time_end=excluded.time_end,
			href=excluded.href, record_updated=excluded.record_updated,
			document=excluded.document, indexed_at=excluded.indexed_at`,
		rec.ID, rec.Properties.Title, rec.Properties.Description,
		bbox[0], bbox[1], bbox[2], bbox[3],
		begin, end, href, rec.Properties.RecordUpdated.String(),
		string(doc), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting record %s: %w", rec.ID, err)
	}
	return nil
}

// Get returns the stored record with the given id.
func (s *Store) Get(ctx context.Context, id string) (*types.Record, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM records WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying record %s: %w", id, err)
	}

	var rec types.Record
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("decoding record %s: %w", id, err)
	}
	return &rec, nil
}

// Delete removes the record with the given id. Deleting an unknown id
// returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ListOptions filters List results. Zero values mean no filter.
type ListOptions struct {
	// BBox keeps records whose extent intersects the bound.
	BBox *orb.Bound

	// Query keeps records whose title or description contains the text,
	// ignoring case.
	Query string

	// Limit caps the number of results. Zero uses the store default.
	Limit int
}

// Summary is the catalog view of a stored record.
type Summary struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	BBox        []float64 `json:"bbox" yaml:"bbox"`
	Interval    []string  `json:"interval" yaml:"interval"`
	Href        string    `json:"href" yaml:"href"`
	Updated     string    `json:"record_updated" yaml:"record_updated"`
}

// List returns record summaries ordered by id.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Summary, error) {
	var where []string
	var args []any

	if opts.BBox != nil {
		where = append(where, `minx <= ? AND maxx >= ? AND miny <= ? AND maxy >= ?`)
		args = append(args, opts.BBox.Right(), opts.BBox.Left(), opts.BBox.Top(), opts.BBox.Bottom())
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		where = append(where, `(instr(lower(title), lower(?)) > 0 OR instr(lower(description), lower(?)) > 0)`)
		args = append(args, q, q)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	query := `SELECT id, title, description, minx, miny, maxx, maxy,
		time_begin, time_end, href, record_updated FROM records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum                    Summary
			minx, miny, maxx, maxy float64
			begin, end             string
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Description,
			&minx, &miny, &maxx, &maxy, &begin, &end, &sum.Href, &sum.Updated); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		sum.BBox = []float64{minx, miny, maxx, maxy}
		sum.Interval = []string{begin, end}
		out = append(out, sum)
	}
	return out, rows.Err()
}
