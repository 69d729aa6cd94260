package syncx

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// Event is one row of the append-only change log. Clients poll with the last
// Seq they saw to stay in step with questions and answers.
type Event struct {
	Seq       int64  `json:"seq" db:"seq"`
	SiteID    string `json:"-" db:"site_id"`
	Type      string `json:"type" db:"typ"`
	Key       string `json:"key" db:"key"`
	DataJSON  string `json:"data" db:"data"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

type EventRepo struct{ db *sqlx.DB }

func NewEventRepo(db *sqlx.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = "local"
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES (?,?,?,?,?)`),
		e.SiteID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

// Since returns up to limit events for key with Seq greater than after, oldest first.
func (r *EventRepo) Since(ctx context.Context, key string, after int64, limit int) ([]Event, error) {
	switch {
	case limit <= 0:
		limit = 100
	case limit > 500:
		limit = 500
	}
	out := []Event{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(
		`SELECT seq, site_id, typ, key, data, created_at FROM event_log
		 WHERE key=? AND seq>? ORDER BY seq LIMIT ?`),
		key, after, limit)
	return out, err
}
