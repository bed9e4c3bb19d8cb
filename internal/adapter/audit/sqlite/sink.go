// Package sqlite keeps a local, append-only copy of bot audit entries so an
// operator can inspect decisions without access to the game database.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"starbots/internal/domain/bot"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type Sink struct {
	conn *sqlx.DB
}

type auditRow struct {
	ID          string `db:"id"`
	TickID      string `db:"tick_id"`
	AgentID     string `db:"agent_id"`
	ActionClass string `db:"action_class"`
	Description string `db:"description"`
	Result      string `db:"result"`
	Details     string `db:"details_json"`
	OccurredAt  int64  `db:"occurred_at"`
}

// Open opens or creates the audit database at path.
func Open(path string) (*Sink, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	// one writer; workers queue on the pool instead of on SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	s := &Sink{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	return s, nil
}

func (s *Sink) Close() error {
	return s.conn.Close()
}

func (s *Sink) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_entries (
		id TEXT PRIMARY KEY,
		tick_id TEXT NOT NULL,
		agent_id TEXT NOT NULL,
		action_class TEXT NOT NULL,
		description TEXT NOT NULL,
		result TEXT NOT NULL,
		details_json TEXT NOT NULL,
		occurred_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_agent ON audit_entries(agent_id, occurred_at);
	CREATE INDEX IF NOT EXISTS idx_audit_tick ON audit_entries(tick_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *Sink) Append(ctx context.Context, entry bot.AuditEntry) error {
	details := "{}"
	if len(entry.Details) > 0 {
		b, err := sonic.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("encode audit details: %w", err)
		}
		details = string(b)
	}
	row := auditRow{
		ID:          entry.ID,
		TickID:      entry.TickID,
		AgentID:     entry.AgentID,
		ActionClass: string(entry.Class),
		Description: entry.Description,
		Result:      string(entry.Result),
		Details:     details,
		OccurredAt:  entry.OccurredAt.UnixMilli(),
	}
	_, err := s.conn.NamedExecContext(ctx, `INSERT INTO audit_entries
		(id, tick_id, agent_id, action_class, description, result, details_json, occurred_at)
		VALUES (:id, :tick_id, :agent_id, :action_class, :description, :result, :details_json, :occurred_at)`, row)
	return err
}

// ListByAgent returns the newest entries for one agent first.
func (s *Sink) ListByAgent(ctx context.Context, agentID string, limit int) ([]bot.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows := []auditRow{}
	err := s.conn.SelectContext(ctx, &rows,
		"SELECT * FROM audit_entries WHERE agent_id = ? ORDER BY occurred_at DESC, id DESC LIMIT ?", agentID, limit)
	if err != nil {
		return nil, err
	}
	return toEntries(rows), nil
}

func (s *Sink) ListByTick(ctx context.Context, tickID string) ([]bot.AuditEntry, error) {
	rows := []auditRow{}
	err := s.conn.SelectContext(ctx, &rows,
		"SELECT * FROM audit_entries WHERE tick_id = ? ORDER BY agent_id", tickID)
	if err != nil {
		return nil, err
	}
	return toEntries(rows), nil
}

func toEntries(rows []auditRow) []bot.AuditEntry {
	out := make([]bot.AuditEntry, 0, len(rows))
	for _, r := range rows {
		var details map[string]any
		if r.Details != "" && r.Details != "{}" {
			_ = sonic.UnmarshalString(r.Details, &details)
		}
		out = append(out, bot.AuditEntry{
			ID:          r.ID,
			TickID:      r.TickID,
			AgentID:     r.AgentID,
			Class:       bot.ActionClass(r.ActionClass),
			Description: r.Description,
			Result:      bot.Outcome(r.Result),
			Details:     details,
			OccurredAt:  time.UnixMilli(r.OccurredAt).UTC(),
		})
	}
	return out
}
