package session

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLiteStore keeps sessions in a SQLite database as JSON documents.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the session database at path.
func OpenSQLite(ctx context.Context, path string) (store *SQLiteStore, err error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(10000)"

	var db *sql.DB
	db, err = sql.Open("sqlite", dsn)
	if err != nil {
		err = errors.Wrapf(err, "failed to open session database: %s", path)
		return store, err
	}

	// One writer at a time; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	_, err = db.ExecContext(ctx, schema)
	if err != nil {
		_ = db.Close()
		err = errors.Wrap(err, "failed to create sessions table")
		return store, err
	}

	store = &SQLiteStore{db: db}
	return store, err
}

// Get loads a session.
func (q *SQLiteStore) Get(ctx context.Context, id string) (s *Session, err error) {
	var data []byte
	err = q.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		err = errors.Wrapf(ErrNotFound, "session %s", id)
		return s, err
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to load session %s", id)
		return s, err
	}

	s, err = decode(data)
	return s, err
}

// Save inserts or replaces a session.
func (q *SQLiteStore) Save(ctx context.Context, s *Session) (err error) {
	var data []byte
	data, err = encode(s)
	if err != nil {
		return err
	}

	_, err = q.db.ExecContext(ctx,
		`INSERT INTO sessions (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		s.ID, data, s.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		err = errors.Wrapf(err, "failed to save session %s", s.ID)
		return err
	}

	return err
}

// Delete removes a session.
func (q *SQLiteStore) Delete(ctx context.Context, id string) (err error) {
	var res sql.Result
	res, err = q.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		err = errors.Wrapf(err, "failed to delete session %s", id)
		return err
	}

	var n int64
	n, err = res.RowsAffected()
	if err != nil {
		err = errors.Wrap(err, "failed to read affected rows")
		return err
	}
	if n == 0 {
		err = errors.Wrapf(ErrNotFound, "session %s", id)
		return err
	}

	return err
}

// PurgeBefore deletes sessions last updated before cutoff and returns how many were removed.
func (q *SQLiteStore) PurgeBefore(ctx context.Context, cutoff time.Time) (n int64, err error) {
	var res sql.Result
	res, err = q.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		err = errors.Wrap(err, "failed to purge sessions")
		return n, err
	}

	n, err = res.RowsAffected()
	if err != nil {
		err = errors.Wrap(err, "failed to read affected rows")
		return n, err
	}

	return n, err
}

// Close closes the database.
func (q *SQLiteStore) Close() (err error) {
	err = q.db.Close()
	if err != nil {
		err = errors.Wrap(err, "failed to close session database")
		return err
	}
	return err
}
