package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	testify "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/config"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/events"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/gateway"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/guard"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/normalize"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/recorder"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/registry"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/runner"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/server"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/builder"
)

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string, api.Data) error {
	return nil
}

func testRouter(t *testing.T) (*gin.Engine, *registry.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.NewDefaultConfig()
	reg := registry.New(registry.NewMemoryRepository())
	hub := events.NewHub()
	t.Cleanup(hub.Close)

	gw := gateway.New(cfg, gateway.Dependencies{
		Registry: reg,
		Runner:   runner.New(cfg, noopNotifier{}),
		Guards: guard.NewPipeline(
			guard.NewPrivacy(cfg.Privacy),
			guard.NewPolicy(cfg.Approvals),
		),
		Normalizer: normalize.New(),
		Recorder:   recorder.NewMemory(),
		Hub:        hub,
	})

	s := server.NewServer(gw, reg, hub)
	return s.SetupRoutes(), reg
}

func doJSON(
	t *testing.T, router *gin.Engine, method, path string, body any,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var res T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	testify.Equal(t, http.StatusOK, w.Code)
	testify.Contains(t, w.Body.String(), "ok")
}

func TestIngestCanonical(t *testing.T) {
	as := testify.New(t)
	router, _ := testRouter(t)

	t.Run("accepted", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/ingest", api.Event{
			Type:   "order.created",
			Source: "commerce",
			Data:   api.Data{"amount": "100"},
		})
		as.Equal(http.StatusOK, w.Code)

		res := decode[api.IngestResponse](t, w)
		as.Equal(api.StatusAccepted, res.Status)
		as.Equal("order.created", res.Event)
		as.NotEmpty(res.ID)
	})

	t.Run("missing_type", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/ingest", api.Event{
			Source: "commerce",
		})
		as.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("malformed_body", func(t *testing.T) {
		req := httptest.NewRequest(
			http.MethodPost, "/ingest", bytes.NewReader([]byte("{")),
		)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		as.Equal(http.StatusBadRequest, w.Code)
	})
}

func TestIngestSource(t *testing.T) {
	as := testify.New(t)
	router, _ := testRouter(t)

	t.Run("accepted", func(t *testing.T) {
		req := httptest.NewRequest(
			http.MethodPost, "/ingest/partner",
			bytes.NewReader([]byte(`{"partner_id":"p-7","status":"active"}`)),
		)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		as.Equal(http.StatusOK, w.Code)

		res := decode[api.IngestResponse](t, w)
		as.Equal(normalize.EventPartnerUpdate, res.Event)
	})

	t.Run("invalid_payload", func(t *testing.T) {
		req := httptest.NewRequest(
			http.MethodPost, "/ingest/partner",
			bytes.NewReader([]byte("not json")),
		)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		as.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("event_type_hint", func(t *testing.T) {
		req := httptest.NewRequest(
			http.MethodPost, "/ingest/commerce",
			bytes.NewReader([]byte(`{"order":{"id":"ord-1","amount":50}}`)),
		)
		req.Header.Set(server.EventTypeHeader, normalize.EventOrderCreated)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		as.Equal(http.StatusOK, w.Code)

		res := decode[api.IngestResponse](t, w)
		as.Equal(normalize.EventOrderCreated, res.Event)
	})
}

func TestFlowEndpoints(t *testing.T) {
	as := testify.New(t)
	router, _ := testRouter(t)

	flow := builder.NewFlow("order-flow").
		WithTrigger("t1", "order.created").
		WithAction("a1", "https://example.com/hook").
		WithEdge("t1", "a1").
		MustBuild()

	t.Run("save", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/flows", flow)
		as.Equal(http.StatusCreated, w.Code)

		res := decode[api.FlowSavedResponse](t, w)
		as.Equal(api.FlowID("order-flow"), res.ID)
	})

	t.Run("get", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/flows/order-flow", nil)
		as.Equal(http.StatusOK, w.Code)

		res := decode[api.Flow](t, w)
		as.Equal(flow.ID, res.ID)
		as.Len(res.Nodes, 2)
	})

	t.Run("get_missing", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/flows/nope", nil)
		as.Equal(http.StatusNotFound, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/flows", nil)
		as.Equal(http.StatusOK, w.Code)

		res := decode[api.FlowsListResponse](t, w)
		as.Equal(1, res.Count)
	})

	t.Run("publish", func(t *testing.T) {
		w := doJSON(
			t, router, http.MethodPost, "/flows/order-flow/publish", nil,
		)
		as.Equal(http.StatusOK, w.Code)

		res := decode[api.FlowPublishedResponse](t, w)
		as.Equal("order-flow-v1", res.SealedID)
	})

	t.Run("save_sealed_version_conflicts", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/flows", flow)
		as.Equal(http.StatusConflict, w.Code)
	})

	t.Run("publish_missing", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/flows/nope/publish", nil)
		as.Equal(http.StatusNotFound, w.Code)
	})

	t.Run("node_types", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/flows/nodes", nil)
		as.Equal(http.StatusOK, w.Code)

		res := decode[api.NodeTypesResponse](t, w)
		as.Len(res.NodeTypes, 6)
	})
}

func TestRunEndpoints(t *testing.T) {
	as := testify.New(t)
	router, reg := testRouter(t)

	flow := builder.NewFlow("order-flow").
		WithTrigger("t1", "order.created").
		WithAction("a1", "https://example.com/hook").
		WithEdge("t1", "a1").
		MustBuild()
	_, err := reg.Save(context.Background(), flow)
	require.NoError(t, err)

	event := &api.Event{
		Type:   "order.created",
		Source: "commerce",
		Data:   api.Data{"amount": "100"},
	}

	t.Run("dry_run", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/runs", api.RunRequest{
			FlowID: "order-flow",
			Event:  event,
			DryRun: true,
		})
		as.Equal(http.StatusOK, w.Code)

		rc := decode[api.RunContext](t, w)
		as.Equal(api.RunStatusDryRun, rc.Status)
		as.Len(rc.History, 2)

		t.Run("get_run", func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, "/runs/"+rc.RunID, nil)
			as.Equal(http.StatusOK, w.Code)
		})
	})

	t.Run("missing_flow", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/runs", api.RunRequest{
			FlowID: "nope",
			Event:  event,
		})
		as.Equal(http.StatusNotFound, w.Code)
	})

	t.Run("missing_event", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/runs", api.RunRequest{
			FlowID: "order-flow",
		})
		as.Equal(http.StatusBadRequest, w.Code)
	})

	t.Run("get_missing_run", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/runs/ghost", nil)
		as.Equal(http.StatusNotFound, w.Code)
	})

	t.Run("approve_missing_run", func(t *testing.T) {
		w := doJSON(
			t, router, http.MethodPost, "/runs/ghost/approve", nil,
		)
		as.Equal(http.StatusNotFound, w.Code)
	})
}

func TestApprovalEndpoints(t *testing.T) {
	as := testify.New(t)
	router, reg := testRouter(t)

	flow := builder.NewFlow("payout-flow").
		WithTrigger("t1", "payout.requested").
		WithApproval("ap1").
		WithAction("a1", "https://example.com/payout").
		WithEdge("t1", "ap1").
		WithEdge("ap1", "a1").
		MustBuild()
	_, err := reg.Save(context.Background(), flow)
	require.NoError(t, err)

	start := func(t *testing.T) api.RunContext {
		w := doJSON(t, router, http.MethodPost, "/runs", api.RunRequest{
			FlowID: "payout-flow",
			Event: &api.Event{
				Type:   "payout.requested",
				Source: "finance",
			},
		})
		require.Equal(t, http.StatusOK, w.Code)
		rc := decode[api.RunContext](t, w)
		require.Equal(t, api.RunStatusPendingApproval, rc.Status)
		return rc
	}

	t.Run("approve", func(t *testing.T) {
		rc := start(t)

		w := doJSON(
			t, router, http.MethodPost, "/runs/"+rc.RunID+"/approve", nil,
		)
		as.Equal(http.StatusOK, w.Code)

		res := decode[api.RunContext](t, w)
		as.Equal(api.RunStatusExecuted, res.Status)
	})

	t.Run("reject", func(t *testing.T) {
		rc := start(t)

		w := doJSON(
			t, router, http.MethodPost, "/runs/"+rc.RunID+"/reject", nil,
		)
		as.Equal(http.StatusOK, w.Code)

		res := decode[api.RunContext](t, w)
		as.Equal(api.RunStatusRejected, res.Status)
	})
}

func TestCORSPreflightAndHeaders(t *testing.T) {
	as := testify.New(t)
	router, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/ingest", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	as.Equal(http.StatusOK, w.Code)
	as.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
	as.Contains(
		w.Header().Get("Access-Control-Allow-Headers"), server.EventTypeHeader,
	)
}
