package httpadapter

import (
	"context"
	"errors"
	"time"

	"starbots/internal/app/ports"
	"starbots/internal/app/tick"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type tickRunner interface {
	Trigger(ctx context.Context) (tick.Summary, error)
	LastSummary() (tick.Summary, bool)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type Handler struct {
	Ticks          tickRunner
	KPI            kpiSnapshotProvider
	AllowedOrigins []string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.AllowedOrigins))
	s.GET("/healthz", h.healthz)

	ops := s.Group("/ops")
	ops.GET("/kpi", h.kpi)
	ops.GET("/ticks/last", h.lastTick)
	ops.POST("/ticks", h.triggerTick)
}

func (h Handler) healthz(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"status": "ok"})
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) lastTick(_ context.Context, ctx *app.RequestContext) {
	if h.Ticks == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "tick runner not configured")
		return
	}
	summary, ok := h.Ticks.LastSummary()
	if !ok {
		writeErrorBody(ctx, consts.StatusNotFound, "no_tick_yet", "no tick has completed yet")
		return
	}
	ctx.Response.Header.Set(headerTickID, summary.TickID)
	ctx.JSON(consts.StatusOK, toTickResponse(summary))
}

func (h Handler) triggerTick(c context.Context, ctx *app.RequestContext) {
	if h.Ticks == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "tick runner not configured")
		return
	}
	summary, err := h.Ticks.Trigger(c)
	if err != nil {
		hlog.CtxWarnf(c, "manual tick: %v", err)
		writeError(ctx, err)
		return
	}
	ctx.Response.Header.Set(headerTickID, summary.TickID)
	ctx.JSON(consts.StatusOK, toTickResponse(summary))
}

type tickResponse struct {
	TickID     string           `json:"tick_id"`
	StartedAt  time.Time        `json:"started_at"`
	DurationMS int64            `json:"duration_ms"`
	Due        int              `json:"due"`
	Selected   int              `json:"selected"`
	Applied    int              `json:"applied"`
	Skipped    int              `json:"skipped"`
	Failed     int              `json:"failed"`
	Cancelled  int              `json:"cancelled"`
	Results    []tickResultBody `json:"results"`
}

type tickResultBody struct {
	AgentID     string `json:"agent_id"`
	Class       string `json:"class"`
	Outcome     string `json:"outcome"`
	DirectiveID string `json:"directive_id,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

func toTickResponse(s tick.Summary) tickResponse {
	out := tickResponse{
		TickID:     s.TickID,
		StartedAt:  s.StartedAt,
		DurationMS: s.Duration.Milliseconds(),
		Due:        s.Due,
		Selected:   s.Selected,
		Applied:    s.Applied,
		Skipped:    s.Skipped,
		Failed:     s.Failed,
		Cancelled:  s.Cancelled,
		Results:    make([]tickResultBody, 0, len(s.Results)),
	}
	for _, r := range s.Results {
		body := tickResultBody{
			AgentID: r.AgentID,
			Class:   string(r.Class),
			Outcome: string(r.Outcome),
			Reason:  r.Reason,
		}
		if !r.Directive.IsNone() {
			body.DirectiveID = r.Directive.ID
		}
		out.Results = append(out.Results, body)
	}
	return out
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, tick.ErrTickInProgress):
		writeErrorBody(ctx, consts.StatusConflict, "tick_in_progress", err.Error())
	case errors.Is(err, ports.ErrCollaboratorUnavailable):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "collaborator_unavailable", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
