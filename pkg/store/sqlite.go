package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"tableflip.dev/worklog/pkg/worklog"
)

func init() {
	Register(DefaultDriver, func(ctx context.Context, opts Options) (Repository, error) {
		path, err := opts.ResolvedPath()
		if err != nil {
			return nil, err
		}
		return OpenSQLite(ctx, path)
	})
}

const schema = `CREATE TABLE IF NOT EXISTS worklogs (
	id INTEGER PRIMARY KEY,
	date TEXT NOT NULL,
	task_name TEXT NOT NULL,
	duration TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS worklogs_date_task ON worklogs(date, task_name);`

// SQLite is the default repository, one table in an embedded database file.
type SQLite struct {
	db *sql.DB
}

var _ Repository = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, worklog.Unavailable("sqlite: create data dir", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, worklog.Unavailable("sqlite: open database", err)
	}
	// Single connection: the session is the only writer.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, worklog.Unavailable(fmt.Sprintf("sqlite: pragma %q", p), err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, worklog.Unavailable("sqlite: create schema", err)
	}
	return &SQLite{db: db}, nil
}

// placeholders returns "?,?,?" for n values and the values as driver args.
func placeholders(values []string) (string, []any) {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return strings.TrimSuffix(strings.Repeat("?,", len(values)), ","), args
}

func (s *SQLite) column(ctx context.Context, op, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, worklog.Unavailable("sqlite: "+op, err)
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, worklog.Unavailable("sqlite: scan "+op, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, worklog.Unavailable("sqlite: "+op, err)
	}
	return out, nil
}

func (s *SQLite) Years(ctx context.Context) ([]string, error) {
	return s.column(ctx, "years",
		`SELECT DISTINCT strftime('%Y', date) FROM worklogs
		WHERE strftime('%Y', date) IS NOT NULL ORDER BY 1`)
}

func (s *SQLite) Months(ctx context.Context, years []string) ([]string, error) {
	if len(years) == 0 {
		return []string{}, nil
	}
	in, args := placeholders(years)
	return s.column(ctx, "months",
		`SELECT DISTINCT strftime('%m', date) FROM worklogs
		WHERE strftime('%Y', date) IN (`+in+`) ORDER BY 1`, args...)
}

func (s *SQLite) Dates(ctx context.Context, years, months []string) ([]string, error) {
	if len(years) == 0 || len(months) == 0 {
		return []string{}, nil
	}
	yin, yargs := placeholders(years)
	mon, margs := placeholders(months)
	return s.column(ctx, "dates",
		`SELECT DISTINCT date FROM worklogs
		WHERE strftime('%Y', date) IN (`+yin+`) AND strftime('%m', date) IN (`+mon+`)
		ORDER BY date`, append(yargs, margs...)...)
}

func (s *SQLite) Tasks(ctx context.Context, dates []string) ([]string, error) {
	if len(dates) == 0 {
		return []string{}, nil
	}
	in, args := placeholders(dates)
	return s.column(ctx, "tasks",
		`SELECT DISTINCT task_name FROM worklogs WHERE date IN (`+in+`) ORDER BY task_name`, args...)
}

func (s *SQLite) Worklogs(ctx context.Context, dates, tasks []string) ([]worklog.Entity, error) {
	if len(dates) == 0 || len(tasks) == 0 {
		return []worklog.Entity{}, nil
	}
	din, dargs := placeholders(dates)
	tin, targs := placeholders(tasks)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, task_name, duration FROM worklogs
		WHERE date IN (`+din+`) AND task_name IN (`+tin+`)
		ORDER BY date, task_name, id`, append(dargs, targs...)...)
	if err != nil {
		return nil, worklog.Unavailable("sqlite: worklogs", err)
	}
	defer rows.Close()
	out := make([]worklog.Entity, 0)
	for rows.Next() {
		var (
			id int64
			e  worklog.Entity
		)
		if err := rows.Scan(&id, &e.Date, &e.Task, &e.Duration); err != nil {
			return nil, worklog.Unavailable("sqlite: scan worklogs", err)
		}
		out = append(out, e.WithID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, worklog.Unavailable("sqlite: worklogs", err)
	}
	return out, nil
}

func (s *SQLite) Save(ctx context.Context, e worklog.Entity) (worklog.Entity, error) {
	if err := e.Validate(); err != nil {
		return worklog.Entity{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO worklogs(date, task_name, duration) VALUES (?, ?, ?)`,
		e.Date, e.Task, e.Duration)
	if err != nil {
		return worklog.Entity{}, worklog.Unavailable("sqlite: insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return worklog.Entity{}, worklog.Unavailable("sqlite: insert id", err)
	}
	return e.WithID(id), nil
}

func (s *SQLite) Update(ctx context.Context, e worklog.Entity) (worklog.Entity, error) {
	if err := checkUpdate(e); err != nil {
		return worklog.Entity{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE worklogs SET date = ?, task_name = ?, duration = ? WHERE id = ?`,
		e.Date, e.Task, e.Duration, *e.ID)
	if err != nil {
		return worklog.Entity{}, worklog.Unavailable("sqlite: update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return worklog.Entity{}, worklog.Unavailable("sqlite: update", err)
	}
	if n == 0 {
		return worklog.Entity{}, worklog.NotFound(*e.ID)
	}
	return e, nil
}

func (s *SQLite) Delete(ctx context.Context, id int64) (int64, error) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM worklogs WHERE id = ?`, id); err != nil {
		return id, worklog.Unavailable("sqlite: delete", err)
	}
	return id, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
