package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	slogctx "github.com/veqryn/slog-context"
)

const (
	ActionMultipassLogin      = "MULTIPASS_LOGIN"
	ActionBuyerIdentityUpdate = "BUYER_IDENTITY_UPDATE"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type Event struct {
	SessionID  string
	Action     string
	Outcome    string
	Message    string
	OccurredAt time.Time
	Metadata   map[string]any
}

// Recorder keeps a trail of login attempts. Recording never fails the caller.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Record(ctx context.Context, e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	var s *string
	if e.Metadata != nil {
		b, _ := json.Marshal(e.Metadata)
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO login_audit (session_id, action, outcome, message, occurred_at, metadata)
VALUES ($1, $2, $3, $4, $5, CAST($6 AS jsonb))
`
	if _, err := r.db.Exec(ctx, q, e.SessionID, e.Action, e.Outcome, e.Message, e.OccurredAt, s); err != nil {
		slogctx.Warn(ctx, "Could not record audit event", "action", e.Action, "error", err)
	}
}

// LogRecorder writes audit events to the context logger when no database is configured.
type LogRecorder struct{}

func (LogRecorder) Record(ctx context.Context, e Event) {
	slogctx.Info(ctx, "audit",
		"action", e.Action,
		"outcome", e.Outcome,
		"message", e.Message,
		"session_id", e.SessionID,
	)
}
