package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"missioncore/internal/adapter/metrics/inmemory"
	"missioncore/internal/adapter/repo/memory"
	"missioncore/internal/app/audit"
	"missioncore/internal/app/crew"
	"missioncore/internal/app/habitat"
	"missioncore/internal/app/history"
	"missioncore/internal/app/orchestrator"
	"missioncore/internal/app/ports"
	"missioncore/internal/app/projection"
	"missioncore/internal/domain/ledger"
	"missioncore/internal/domain/lifesupport"
	"missioncore/internal/domain/physiology"
	"missioncore/internal/domain/predictive"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route/param"
)

func fixedNow() time.Time { return time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC) }

func newTestHandler() (Handler, *memory.Store) {
	store := memory.NewStore()
	tx := memory.NewTxManager(store)
	evts := memory.NewEventRepo(store)
	metrics := inmemory.NewRecorder()
	return Handler{
		CrewUC: crew.UseCase{TxManager: tx, Crew: memory.NewCrewRepo(store), Events: evts, Metrics: metrics, Now: fixedNow},
		OrchestratorUC: orchestrator.UseCase{
			TxManager:  tx,
			Ecosystems: memory.NewEcosystemRepo(store),
			Ledgers:    memory.NewLedgerRepo(store),
			Events:     evts,
			Metrics:    metrics,
			Chains:     orchestrator.NewChains(),
			Now:        fixedNow,
		},
		HabitatUC: habitat.UseCase{
			TxManager: tx,
			Habitats:  memory.NewHabitatRepo(store),
			Events:    evts,
			Metrics:   metrics,
			Config:    lifesupport.DefaultConfig(),
			Now:       fixedNow,
		},
		ProjectionUC: projection.UseCase{Catalog: predictive.DefaultCatalog(), Metrics: metrics},
		AuditUC:      audit.UseCase{Ledgers: memory.NewLedgerRepo(store), Events: evts, Metrics: metrics, Now: fixedNow},
		HistoryUC:    history.UseCase{Events: evts},
		KPI:          metrics,
	}, store
}

func postJSON(body string) *app.RequestContext {
	ctx := &app.RequestContext{}
	ctx.Request.Header.SetMethod(consts.MethodPost)
	ctx.Request.SetBody([]byte(body))
	return ctx
}

func decodeBody(t *testing.T, ctx *app.RequestContext) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v body=%s", err, ctx.Response.Body())
	}
	return body
}

func errorCode(t *testing.T, ctx *app.RequestContext) string {
	t.Helper()
	var body map[string]map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	code, _ := body["error"]["code"].(string)
	return code
}

func TestCrewAdvanceThenStatus(t *testing.T) {
	h, _ := newTestHandler()
	ctx := postJSON(`{"crew_id":"c1","environment":{"gravity":0.38,"oxygen":0.85,"radiation":0.55,"water":0.75,"nutrition":0.8},"dt_days":1}`)
	h.crewAdvance(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	state := decodeBody(t, ctx)["state"].(map[string]any)
	if state["time"].(float64) != 1 {
		t.Fatalf("expected time 1, got %v", state["time"])
	}

	ctx = postJSON(`{"crew_id":"c1"}`)
	h.crewStatus(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestCrewAdvance_InvalidDelta(t *testing.T) {
	h, _ := newTestHandler()
	ctx := postJSON(`{"crew_id":"c1","dt_days":0}`)
	h.crewAdvance(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got := errorCode(t, ctx); got != "bad_request" {
		t.Fatalf("error code mismatch: got=%q", got)
	}
}

func TestInvalidJSON(t *testing.T) {
	h, _ := newTestHandler()
	ctx := postJSON(`{"crew_id":`)
	h.habitatStep(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got := errorCode(t, ctx); got != "invalid_json" {
		t.Fatalf("error code mismatch: got=%q", got)
	}
}

func TestEcosystemStartTickAndVerify(t *testing.T) {
	h, _ := newTestHandler()
	ctx := postJSON(`{"lineage_id":"eco-1","seed":"ares"}`)
	h.ecosystemStart(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusCreated; got != want {
		t.Fatalf("start status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}

	ctx = postJSON(`{"lineage_id":"eco-1","seed":"ares"}`)
	h.ecosystemStart(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusConflict; got != want {
		t.Fatalf("duplicate start status mismatch: got=%d want=%d", got, want)
	}

	for i := 0; i < 3; i++ {
		ctx = postJSON(`{"lineage_id":"eco-1"}`)
		h.ecosystemTick(context.Background(), ctx)
		if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
			t.Fatalf("tick status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
		}
	}

	ctx = &app.RequestContext{}
	ctx.Params = param.Params{{Key: "id", Value: "eco-1"}}
	h.ledgerVerify(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("verify status mismatch: got=%d want=%d", got, want)
	}
	body := decodeBody(t, ctx)
	if body["entries"].(float64) != 4 {
		t.Fatalf("expected 4 ledger entries, got %v", body["entries"])
	}
	if ok := body["result"].(map[string]any)["ok"]; ok != true {
		t.Fatalf("expected intact chain, got %v", body["result"])
	}

	ctx = &app.RequestContext{}
	ctx.Params = param.Params{{Key: "subject", Value: "eco-1"}}
	ctx.Request.SetRequestURI("/api/history/eco-1?limit=2")
	h.history(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("history status mismatch: got=%d want=%d", got, want)
	}
	if got := len(decodeBody(t, ctx)["events"].([]any)); got != 2 {
		t.Fatalf("history limit mismatch: got=%d want=2", got)
	}
}

func TestEcosystemTick_UnknownLineage(t *testing.T) {
	h, _ := newTestHandler()
	ctx := postJSON(`{"lineage_id":"ghost"}`)
	h.ecosystemTick(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestLedgerVerify_ReportsTamper(t *testing.T) {
	h, store := newTestHandler()
	l := ledger.New("eco-9", fixedNow)
	for i := 0; i < 3; i++ {
		if _, err := l.AddSnapshot(fmt.Sprintf("tick %d", i), i); err != nil {
			t.Fatalf("add snapshot: %v", err)
		}
	}
	entries := l.Entries()
	entries[1].PayloadRef = "rewritten"
	store.SeedLedger("eco-9", entries)

	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "id", Value: "eco-9"}}
	h.ledgerVerify(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("tamper is reported in the body, status mismatch: got=%d want=%d", got, want)
	}
	result := decodeBody(t, ctx)["result"].(map[string]any)
	if result["ok"] != false {
		t.Fatalf("expected tamper result, got %v", result)
	}
	tamper := result["tamper"].(map[string]any)
	if tamper["index"].(float64) != 1 {
		t.Fatalf("tamper index mismatch: %v", tamper)
	}
}

func TestLedgerExport_ArchiveDisabled(t *testing.T) {
	h, store := newTestHandler()
	l := ledger.New("eco-2", fixedNow)
	if _, err := l.AddSnapshot("tick 0", 0); err != nil {
		t.Fatalf("add snapshot: %v", err)
	}
	store.SeedLedger("eco-2", l.Entries())

	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "id", Value: "eco-2"}}
	h.ledgerExport(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotImplemented; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestHabitatStep(t *testing.T) {
	h, _ := newTestHandler()
	ctx := postJSON(`{"habitat_id":"hab-1","dt_hours":24}`)
	h.habitatStep(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	result := decodeBody(t, ctx)["result"].(map[string]any)
	flags := result["warning_flags"].([]any)
	if len(flags) != 1 || flags[0] != string(lifesupport.WarningOxygenLow) {
		t.Fatalf("unexpected warning flags: %v", flags)
	}
}

func TestProjectionAndCatalog(t *testing.T) {
	h, _ := newTestHandler()
	ctx := postJSON(`{"scenario_id":"mars-transit","plan_id":"exercise-triad","days":15}`)
	h.project(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	proj := decodeBody(t, ctx)["projection"].(map[string]any)
	if got := len(proj["trajectory"].([]any)); got != 16 {
		t.Fatalf("trajectory length mismatch: got=%d want=16", got)
	}

	ctx = postJSON(`{"scenario_id":"europa"}`)
	h.project(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}

	ctx = &app.RequestContext{}
	h.catalog(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("catalog status mismatch: got=%d want=%d", got, want)
	}
}

func TestDetectAnomaly(t *testing.T) {
	h, _ := newTestHandler()
	ctx := postJSON(`{"series":[100,101,99,100,102,98,100,180]}`)
	h.detectAnomaly(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if decodeBody(t, ctx)["is_anomaly"] != true {
		t.Fatalf("expected spike to be flagged: %s", ctx.Response.Body())
	}

	ctx = postJSON(`{"series":[1,2],"window":-1}`)
	h.detectAnomaly(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestKPI(t *testing.T) {
	h, _ := newTestHandler()
	ctx := &app.RequestContext{}
	h.kpi(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}

	h.KPI = nil
	ctx = &app.RequestContext{}
	h.kpi(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{physiology.ErrInvalidDelta, consts.StatusBadRequest, "bad_request"},
		{fmt.Errorf("wrapped: %w", history.ErrInvalidRequest), consts.StatusBadRequest, "bad_request"},
		{fmt.Errorf("scenario: %w", ports.ErrNotFound), consts.StatusNotFound, "not_found"},
		{ports.ErrConflict, consts.StatusConflict, "conflict"},
		{audit.ErrArchiveDisabled, consts.StatusNotImplemented, "archive_disabled"},
		{errors.New("db down"), consts.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		ctx := &app.RequestContext{}
		writeError(ctx, tc.err)
		if got := ctx.Response.StatusCode(); got != tc.status {
			t.Fatalf("%v: status mismatch: got=%d want=%d", tc.err, got, tc.status)
		}
		if got := errorCode(t, ctx); got != tc.code {
			t.Fatalf("%v: code mismatch: got=%q want=%q", tc.err, got, tc.code)
		}
	}
}

func TestWriteError_HidesInternalMessage(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, errors.New("password=hunter2"))
	var body map[string]map[string]any
	_ = json.Unmarshal(ctx.Response.Body(), &body)
	if body["error"]["message"] != "internal error" {
		t.Fatalf("internal error leaked: %v", body)
	}
}
