package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/insurawise/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS policies (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	email             TEXT NOT NULL,
	insurer           TEXT NOT NULL,
	policy_number     TEXT NOT NULL,
	policy_start_date TEXT NOT NULL,
	policy_end_date   TEXT NOT NULL,
	date_of_policy    TEXT NOT NULL,
	expiry_date       TEXT NOT NULL,
	vehicle_type      TEXT NOT NULL,
	submitted_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	filename   TEXT NOT NULL,
	category   TEXT NOT NULL,
	status     TEXT NOT NULL,
	diagnostic TEXT NOT NULL DEFAULT '',
	pages      INTEGER NOT NULL DEFAULT 0,
	payload    TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_policies_vehicle_type ON policies(vehicle_type);
CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SavePolicy(ctx context.Context, p *model.Policy) error {
	stampPolicy(p)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO policies (id, name, email, insurer, policy_number, policy_start_date, policy_end_date, date_of_policy, expiry_date, vehicle_type, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Email, p.Insurer, p.PolicyNumber, p.PolicyStartDate, p.PolicyEndDate,
		p.DateOfPolicy, p.ExpiryDate, p.VehicleType, p.SubmittedAt,
	)
	return eris.Wrap(err, "sqlite: insert policy")
}

func (s *SQLiteStore) ListPolicies(ctx context.Context, filter PolicyFilter) ([]model.Policy, error) {
	query := `SELECT id, name, email, insurer, policy_number, policy_start_date, policy_end_date, date_of_policy, expiry_date, vehicle_type, submitted_at FROM policies`
	var args []any
	if filter.VehicleType != "" {
		query += ` WHERE vehicle_type = ?`
		args = append(args, filter.VehicleType)
	}
	query += ` ORDER BY submitted_at DESC LIMIT ? OFFSET ?`
	args = append(args, limitOf(filter.Limit), filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list policies")
	}
	defer rows.Close()

	var out []model.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan policy")
		}
		out = append(out, *p)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate policies")
}

func (s *SQLiteStore) SaveDocument(ctx context.Context, d *model.Document) error {
	stampDocument(d)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, category, status, diagnostic, pages, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Filename, string(d.Category), string(d.Status), d.Diagnostic, d.Pages, string(d.Payload), d.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert document")
}

func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, category, status, diagnostic, pages, payload, created_at FROM documents WHERE id = ?`, id)
	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: document %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get document %s", id)
	}
	return d, nil
}

func (s *SQLiteStore) ListDocuments(ctx context.Context, filter DocumentFilter) ([]model.Document, error) {
	query := `SELECT id, filename, category, status, diagnostic, pages, payload, created_at FROM documents WHERE 1=1`
	var args []any
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(filter.Category))
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limitOf(filter.Limit), filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list documents")
	}
	defer rows.Close()

	var out []model.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan document")
		}
		out = append(out, *d)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate documents")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanPolicy(row scannable) (*model.Policy, error) {
	var p model.Policy
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Insurer, &p.PolicyNumber, &p.PolicyStartDate,
		&p.PolicyEndDate, &p.DateOfPolicy, &p.ExpiryDate, &p.VehicleType, &p.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanDocument(row scannable) (*model.Document, error) {
	var (
		d        model.Document
		category string
		status   string
		payload  string
	)
	err := row.Scan(&d.ID, &d.Filename, &category, &status, &d.Diagnostic, &d.Pages, &payload, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.Category = model.Category(category)
	d.Status = model.Status(status)
	d.Payload = []byte(payload)
	return &d, nil
}

func stampPolicy(p *model.Policy) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.SubmittedAt.IsZero() {
		p.SubmittedAt = time.Now().UTC()
	}
}

func stampDocument(d *model.Document) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	if len(d.Payload) == 0 {
		d.Payload = []byte("{}")
	}
}
