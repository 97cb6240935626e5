package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"missioncore/internal/app/audit"
	"missioncore/internal/app/crew"
	"missioncore/internal/app/habitat"
	"missioncore/internal/app/history"
	"missioncore/internal/app/orchestrator"
	"missioncore/internal/app/ports"
	"missioncore/internal/app/projection"
	"missioncore/internal/domain/anomaly"
	"missioncore/internal/domain/ecosystem"
	"missioncore/internal/domain/physiology"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// MaxAnomalySeries bounds the series accepted by the ad-hoc detect endpoint.
const MaxAnomalySeries = 10000

type Handler struct {
	CrewUC         crew.UseCase
	OrchestratorUC orchestrator.UseCase
	HabitatUC      habitat.UseCase
	ProjectionUC   projection.UseCase
	AuditUC        audit.UseCase
	HistoryUC      history.UseCase
	KPI            kpiSnapshotProvider
	// Metrics serves the prometheus exposition; nil leaves /metrics unregistered.
	Metrics http.Handler
	// AllowOrigins lists the origins answered with CORS headers; empty allows any.
	AllowOrigins []string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.AllowOrigins))

	api := s.Group("/api")
	api.POST("/crew/advance", h.crewAdvance)
	api.POST("/crew/status", h.crewStatus)
	api.POST("/ecosystem/start", h.ecosystemStart)
	api.POST("/ecosystem/tick", h.ecosystemTick)
	api.POST("/habitat/step", h.habitatStep)
	api.POST("/projection", h.project)
	api.GET("/catalog", h.catalog)
	api.POST("/anomaly/detect", h.detectAnomaly)
	api.GET("/ledger/:id/verify", h.ledgerVerify)
	api.POST("/ledger/:id/export", h.ledgerExport)
	api.GET("/history/:subject", h.history)

	s.GET("/ops/kpi", h.kpi)
	if h.Metrics != nil {
		s.GET("/metrics", adaptor.HertzHandler(h.Metrics))
	}
}

type anomalyRequest struct {
	Series []float64 `json:"series"`
	Window int       `json:"window,omitempty"`
}

func (h Handler) crewAdvance(c context.Context, ctx *app.RequestContext) {
	var body crew.AdvanceRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.CrewUC.Advance(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) crewStatus(c context.Context, ctx *app.RequestContext) {
	var body crew.StatusRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.CrewUC.Status(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) ecosystemStart(c context.Context, ctx *app.RequestContext) {
	var body orchestrator.StartRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.OrchestratorUC.Start(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) ecosystemTick(c context.Context, ctx *app.RequestContext) {
	var body orchestrator.TickRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.OrchestratorUC.Tick(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) habitatStep(c context.Context, ctx *app.RequestContext) {
	var body habitat.StepRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.HabitatUC.Step(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) project(c context.Context, ctx *app.RequestContext) {
	var body projection.Request
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.ProjectionUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) catalog(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.ProjectionUC.CatalogView())
}

func (h Handler) detectAnomaly(_ context.Context, ctx *app.RequestContext) {
	var body anomalyRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if len(body.Series) > MaxAnomalySeries || body.Window < 0 {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "series too long or negative window")
		return
	}
	series := body.Series
	if body.Window > 0 {
		series = anomaly.Window(series, body.Window)
	}
	ctx.JSON(consts.StatusOK, anomaly.Detect(series))
}

func (h Handler) ledgerVerify(c context.Context, ctx *app.RequestContext) {
	resp, err := h.AuditUC.Verify(c, audit.VerifyRequest{LedgerID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) ledgerExport(c context.Context, ctx *app.RequestContext) {
	resp, err := h.AuditUC.Export(c, audit.ExportRequest{LedgerID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) history(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)
	var types []string
	if raw := strings.TrimSpace(string(ctx.Query("types"))); raw != "" {
		types = strings.Split(raw, ",")
	}
	resp, err := h.HistoryUC.Execute(c, history.Request{
		Subject:      ctx.Param("subject"),
		Limit:        limit,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
		Types:        types,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, crew.ErrInvalidRequest),
		errors.Is(err, orchestrator.ErrInvalidRequest),
		errors.Is(err, habitat.ErrInvalidRequest),
		errors.Is(err, projection.ErrInvalidRequest),
		errors.Is(err, audit.ErrInvalidRequest),
		errors.Is(err, history.ErrInvalidRequest),
		errors.Is(err, physiology.ErrInvalidDelta):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ecosystem.ErrUnknownGenome):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "unknown_genome", err.Error())
	case errors.Is(err, audit.ErrArchiveDisabled):
		writeErrorBody(ctx, consts.StatusNotImplemented, "archive_disabled", err.Error())
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
