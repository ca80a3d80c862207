package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskmanager/internal/config"
	dom "taskmanager/internal/domain"
	"taskmanager/internal/dto"
	"taskmanager/internal/repo"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2024, time.March, 7, 12, 0, 0, 0, time.UTC)

func testConfig() config.Config {
	return config.Config{
		App:  config.AppConfig{Env: "test", Version: "1.0.0", Timezone: "UTC"},
		HTTP: config.HTTPConfig{Port: "0", CORSOrigins: []string{"*"}},
		Log:  config.LogConfig{Level: "info", Format: "text"},
	}
}

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	a, err := New(context.Background(), testConfig(), log, opts...)
	require.NoError(t, err)
	return a
}

func get(t *testing.T, a *App, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

type errProvider struct{}

func (errProvider) Load(context.Context) ([]dom.Task, error) { return nil, errors.New("unavailable") }

func TestNewMountsFixture(t *testing.T) {
	a := newTestApp(t)
	assert.True(t, a.Overview().Loaded())
	assert.Len(t, a.Overview().Tasks(), 6)
}

func TestNewFailsWhenProviderFails(t *testing.T) {
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	_, err := New(context.Background(), testConfig(), log, WithProvider(errProvider{}))
	assert.ErrorContains(t, err, "unavailable")
}

func TestPage(t *testing.T) {
	a := newTestApp(t)
	w := get(t, a, "/?tab=done")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "Task Manager")
	assert.Equal(t, 1, strings.Count(body, `aria-label="Menu"`))
	assert.Contains(t, body, "To Do List for Thursday, March 7th 2024")
	assert.Contains(t, body, "2 of 6 tasks done (33%)")
	assert.Contains(t, body, `data-status="done"`)
	assert.Contains(t, body, "Set up project skeleton")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestStylesheet(t *testing.T) {
	w := get(t, newTestApp(t), "/static/app.css")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
	assert.Contains(t, w.Body.String(), ".app-bar")
}

func TestOverviewJSON(t *testing.T) {
	w := get(t, newTestApp(t), "/api/v1/overview")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.OverviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "To Do List for Thursday, March 7th 2024", resp.Heading)
	assert.True(t, resp.Loaded)
	assert.Equal(t, dto.ProgressResponse{Done: 2, Total: 6, Percent: 33}, resp.Progress)

	require.Len(t, resp.Tabs, 3)
	total := 0
	seen := map[string]bool{}
	for _, tab := range resp.Tabs {
		for _, item := range tab.Items {
			assert.Equal(t, tab.Status, item.Status)
			assert.False(t, seen[item.ID], "duplicate %s", item.ID)
			seen[item.ID] = true
			total++
		}
	}
	assert.Equal(t, 6, total)
	assert.Equal(t, "pending", resp.Tabs[0].Status)
	assert.Equal(t, "In Progress", resp.Tabs[1].Label)
}

func TestListTasks(t *testing.T) {
	a := newTestApp(t)

	w := get(t, a, "/api/v1/tasks")
	require.Equal(t, http.StatusOK, w.Code)
	var all dto.ListTasksResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all.Items, 6)
	assert.Equal(t, "task-1", all.Items[0].ID)

	w = get(t, a, "/api/v1/tasks?status=in-progress")
	require.Equal(t, http.StatusOK, w.Code)
	var inProgress dto.ListTasksResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inProgress))
	require.Len(t, inProgress.Items, 2)
	assert.Equal(t, "task-3", inProgress.Items[0].ID)
}

func TestListTasksBadStatus(t *testing.T) {
	w := get(t, newTestApp(t), "/api/v1/tasks?status=bogus")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown status")
}

func TestCustomProvider(t *testing.T) {
	p, err := repo.NewStaticProvider([]dom.Task{{ID: "x", Title: "Only", Status: dom.StatusDone}})
	require.NoError(t, err)

	w := get(t, newTestApp(t, WithProvider(p)), "/api/v1/overview")
	var resp dto.OverviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ProgressResponse{Done: 1, Total: 1, Percent: 100}, resp.Progress)
}

func TestHealthAndVersion(t *testing.T) {
	a := newTestApp(t)

	w := get(t, a, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"env":"test"}`, w.Body.String())

	w = get(t, a, "/version")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"version":"1.0.0"}`, w.Body.String())
}

func TestMetrics(t *testing.T) {
	a := newTestApp(t)
	get(t, a, "/")
	get(t, a, "/api/v1/overview")

	w := get(t, a, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `taskmanager_overview_renders_total{surface="html"} 1`)
	assert.Contains(t, body, `taskmanager_overview_renders_total{surface="json"} 1`)
	assert.Contains(t, body, `taskmanager_tasks{status="done"} 2`)
}

func TestSwaggerDoc(t *testing.T) {
	w := get(t, newTestApp(t), "/swagger-doc.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/overview")
	assert.Contains(t, w.Body.String(), `"title": "Task Manager API"`)
	assert.Contains(t, w.Body.String(), `"basePath": "/api/v1"`)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = NewLogger(config.LogConfig{Level: "nope"}, &buf)
	assert.Error(t, err)
}
