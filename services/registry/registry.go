// Package registry stores generated benchmark files and their features in a
// SQL database. SQLite serves local runs, PostgreSQL shared deployments.
package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/perclft/qbench/pkg/supermarq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("benchmark record not found")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultPageSize = 20
	maxPageSize     = 100
)

// Record is one row of the benchmarks table.
type Record struct {
	ID         string             `json:"id"`
	Benchmark  string             `json:"benchmark"`
	Level      string             `json:"level"`
	Compiler   string             `json:"compiler,omitempty"`
	Target     string             `json:"target,omitempty"` // provider or device
	NumQubits  int                `json:"num_qubits"`
	Path       string             `json:"path"`
	Features   supermarq.Features `json:"features"`
	QASM       string             `json:"qasm,omitempty"`
	FetchCount int                `json:"fetch_count"`
	CreatedAt  time.Time          `json:"created_at"`
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Benchmark string
	Level     string
	MinQubits int
	MaxQubits int
	Page      int
	PageSize  int
}

type Page struct {
	Records    []Record
	TotalCount int
	Page       int
	PageSize   int
}

// Store is safe for concurrent use.
type Store struct {
	db     *sql.DB
	driver string
}

// DetectDriver picks postgres for postgres:// URLs and sqlite otherwise.
func DetectDriver(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// Open connects to the database and creates the schema. An empty driver is
// derived from the DSN.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver == "" {
		driver = DetectDriver(dsn)
	}
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, errors.Errorf("unsupported registry driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening registry")
	}
	if driver == DriverSQLite {
		// one connection, so ":memory:" databases are shared by all queries
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "registry ping failed")
	}

	s := &Store{db: db, driver: driver}
	if err := s.initDB(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.WithField("driver", driver).Debug("registry opened")
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Driver() string { return s.driver }

// initDB creates the benchmarks table if it doesn't exist
func (s *Store) initDB(ctx context.Context) error {
	stmts := []string{`
	CREATE TABLE IF NOT EXISTS benchmarks (
		id TEXT PRIMARY KEY,
		benchmark TEXT NOT NULL,
		level TEXT NOT NULL,
		compiler TEXT NOT NULL DEFAULT '',
		target TEXT NOT NULL DEFAULT '',
		num_qubits INTEGER NOT NULL,
		path TEXT NOT NULL DEFAULT '',
		features TEXT NOT NULL,
		qasm TEXT NOT NULL DEFAULT '',
		fetch_count INTEGER NOT NULL DEFAULT 0,
		created_at BIGINT NOT NULL
	)`,
		`CREATE INDEX IF NOT EXISTS idx_benchmarks_name ON benchmarks(benchmark)`,
		`CREATE INDEX IF NOT EXISTS idx_benchmarks_level ON benchmarks(level)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "initializing registry schema")
		}
	}
	return nil
}

// Save inserts rec under a fresh id and returns the stored record.
func (s *Store) Save(ctx context.Context, rec Record) (Record, error) {
	if rec.Benchmark == "" || rec.Level == "" {
		return Record{}, errors.New("record needs a benchmark and a level")
	}
	rec.ID = uuid.New().String()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC().Truncate(time.Microsecond)
	rec.FetchCount = 0

	features, err := json.Marshal(rec.Features)
	if err != nil {
		return Record{}, errors.Wrap(err, "encoding features")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO benchmarks (id, benchmark, level, compiler, target, num_qubits, path, features, qasm, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		rec.ID,
		rec.Benchmark,
		rec.Level,
		rec.Compiler,
		rec.Target,
		rec.NumQubits,
		rec.Path,
		string(features),
		rec.QASM,
		rec.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return Record{}, errors.Wrap(err, "saving benchmark record")
	}
	return rec, nil
}

const columns = `id, benchmark, level, compiler, target, num_qubits, path, features, qasm, fetch_count, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec      Record
		features string
		created  int64
	)
	err := row.Scan(&rec.ID, &rec.Benchmark, &rec.Level, &rec.Compiler, &rec.Target,
		&rec.NumQubits, &rec.Path, &features, &rec.QASM, &rec.FetchCount, &created)
	if err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(features), &rec.Features); err != nil {
		return Record{}, errors.Wrapf(err, "record %s: corrupt features", rec.ID)
	}
	rec.CreatedAt = time.UnixMicro(created).UTC()
	return rec, nil
}

// Get loads a record by id and bumps its fetch count. The returned count
// includes this fetch.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM benchmarks WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, errors.Wrapf(ErrNotFound, "id %s", id)
	}
	if err != nil {
		return Record{}, errors.Wrap(err, "loading benchmark record")
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE benchmarks SET fetch_count = fetch_count + 1 WHERE id = $1`, id); err != nil {
		log.WithError(err).WithField("id", id).Warn("fetch count not updated")
	} else {
		rec.FetchCount++
	}
	return rec, nil
}

// List returns the records matching f, newest first. QASM bodies are left
// out; use Get for those.
func (s *Store) List(ctx context.Context, f Filter) (Page, error) {
	where := ` WHERE 1=1`
	args := []any{}
	argIdx := 1
	add := func(cond string, v any) {
		where += fmt.Sprintf(" AND "+cond, argIdx)
		args = append(args, v)
		argIdx++
	}
	if f.Benchmark != "" {
		add("benchmark = $%d", f.Benchmark)
	}
	if f.Level != "" {
		add("level = $%d", f.Level)
	}
	if f.MinQubits > 0 {
		add("num_qubits >= $%d", f.MinQubits)
	}
	if f.MaxQubits > 0 {
		add("num_qubits <= $%d", f.MaxQubits)
	}

	pageSize := f.PageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM benchmarks`+where, args...).Scan(&total); err != nil {
		return Page{}, errors.Wrap(err, "counting benchmark records")
	}

	query := `SELECT ` + strings.Replace(columns, "qasm", "''", 1) + ` FROM benchmarks` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT %d OFFSET %d", pageSize, offset)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Page{}, errors.Wrap(err, "listing benchmark records")
	}
	defer rows.Close()

	out := Page{TotalCount: total, Page: page, PageSize: pageSize}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return Page{}, err
		}
		out.Records = append(out.Records, rec)
	}
	return out, errors.Wrap(rows.Err(), "listing benchmark records")
}

// Delete removes a record. Deleting an unknown id reports ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM benchmarks WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete failed")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete failed")
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "id %s", id)
	}
	return nil
}
