package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/obatqu/obatqu-backend/pkg/database"
)

// LogRetention is the maximum number of activity log entries kept.
// Older entries are pruned on every append.
const LogRetention = 200

// LogEntry is one activity log record. The "type" column tags the kind
// of event (create, update, delete, fefo, email, email-error).
type LogEntry struct {
	ID      string    `db:"id" json:"id"`
	Kind    string    `db:"type" json:"type"`
	Message string    `db:"message" json:"message"`
	Time    time.Time `db:"time" json:"time"`
}

// LogRepository handles activity log persistence
type LogRepository struct {
	db *database.DB
}

// NewLogRepository creates a new log repository
func NewLogRepository(db *database.DB) *LogRepository {
	return &LogRepository{db: db}
}

const (
	insertLogQuery = `INSERT INTO logs (id, type, message, time) VALUES ($1, $2, $3, $4)`
	pruneLogQuery  = `DELETE FROM logs WHERE id NOT IN (SELECT id FROM logs ORDER BY time DESC, id DESC LIMIT $1)`
)

// Append records an activity entry and prunes entries beyond the
// retention window in the same call.
func (r *LogRepository) Append(ctx context.Context, kind, message string) error {
	if _, err := r.db.ExecContext(ctx, insertLogQuery, uuid.New().String(), kind, message, time.Now().UTC()); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, pruneLogQuery, LogRetention)
	return err
}

// AppendTx records an activity entry within an existing transaction so
// the log line commits or rolls back together with the mutation it
// describes.
func (r *LogRepository) AppendTx(ctx context.Context, tx *sqlx.Tx, kind, message string) error {
	if _, err := tx.ExecContext(ctx, insertLogQuery, uuid.New().String(), kind, message, time.Now().UTC()); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, pruneLogQuery, LogRetention)
	return err
}

// List returns log entries newest first, up to the retention window.
func (r *LogRepository) List(ctx context.Context) ([]*LogEntry, error) {
	var entries []*LogEntry
	query := `SELECT id, type, message, time FROM logs ORDER BY time DESC, id DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &entries, query, LogRetention); err != nil {
		return nil, err
	}
	return entries, nil
}
