package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jask/setupflow/internal/database"
)

// FlowEventRepo handles recorded flow telemetry.
type FlowEventRepo struct {
	db *sql.DB
}

func NewFlowEventRepo(db *sql.DB) *FlowEventRepo { return &FlowEventRepo{db: db} }

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *FlowEventRepo) Insert(ctx context.Context, e FlowEvent) error {
	return insertEvent(ctx, r.db, e)
}

// InsertBatch writes events in a single transaction.
func (r *FlowEventRepo) InsertBatch(ctx context.Context, events []FlowEvent) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, e := range events {
			if err := insertEvent(ctx, tx, e); err != nil {
				return fmt.Errorf("insert event %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

func insertEvent(ctx context.Context, db execer, e FlowEvent) error {
	props, err := json.Marshal(e.Properties)
	if err != nil {
		return fmt.Errorf("encode properties: %w", err)
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = database.Now()
	}
	_, err = db.ExecContext(ctx, `
	INSERT INTO flow_events(id, name, activity_id, properties, created_at)
	VALUES(?, ?, ?, ?, ?);
	`, e.ID, e.Name, e.ActivityID, string(props), createdAt)
	return err
}

func (r *FlowEventRepo) ListByActivity(ctx context.Context, activityID string) ([]FlowEvent, error) {
	return r.query(ctx, `
	SELECT id, name, activity_id, properties, created_at FROM flow_events
	WHERE activity_id = ? ORDER BY created_at, rowid`, activityID)
}

// ListRecent returns up to limit events, newest first.
func (r *FlowEventRepo) ListRecent(ctx context.Context, limit int) ([]FlowEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.query(ctx, `
	SELECT id, name, activity_id, properties, created_at FROM flow_events
	ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
}

func (r *FlowEventRepo) CountByName(ctx context.Context, name string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flow_events WHERE name = ?`, name).Scan(&n)
	return n, err
}

func (r *FlowEventRepo) query(ctx context.Context, q string, args ...interface{}) ([]FlowEvent, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FlowEvent
	for rows.Next() {
		var e FlowEvent
		var props string
		if err := rows.Scan(&e.ID, &e.Name, &e.ActivityID, &props, &e.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(props), &e.Properties); err != nil {
			return nil, fmt.Errorf("decode properties of %s: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
