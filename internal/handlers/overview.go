package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	dom "taskmanager/internal/domain"
	"taskmanager/internal/dto"
	"taskmanager/internal/metrics"
	"taskmanager/internal/middleware"
	"taskmanager/internal/service"
	"taskmanager/internal/view"

	"github.com/gin-gonic/gin"
)

type OverviewHandler struct {
	overview *service.TasksOverview
	metrics  *metrics.Metrics
	log      *slog.Logger
}

func NewOverviewHandler(o *service.TasksOverview, m *metrics.Metrics, log *slog.Logger) *OverviewHandler {
	return &OverviewHandler{overview: o, metrics: m, log: log}
}

// Page renders the HTML page: header bar plus task overview.
// The active tab is chosen with ?tab=<status>.
func (h *OverviewHandler) Page(c *gin.Context) {
	snap := h.overview.Snapshot()
	h.metrics.ObserveRender("html")
	c.HTML(http.StatusOK, view.LayoutTemplate, view.NewPage(snap, c.Query("tab")))
}

// Stylesheet serves the page CSS.
func (h *OverviewHandler) Stylesheet(c *gin.Context) {
	c.Data(http.StatusOK, "text/css; charset=utf-8", view.AppCSS)
}

// Overview godoc
// @Summary      Task overview
// @Description  Date-stamped heading, completion progress and tasks grouped by status.
// @Tags         overview
// @Produce      json
// @Success      200  {object}  dto.OverviewResponse
// @Router       /overview [get]
func (h *OverviewHandler) Overview(c *gin.Context) {
	snap := h.overview.Snapshot()
	h.metrics.ObserveRender("json")

	tabs := make([]dto.TabResponse, len(snap.Tabs))
	for i, tab := range snap.Tabs {
		tabs[i] = dto.TabResponse{
			Status: string(tab.Status),
			Label:  tab.Label,
			Items:  tasksToResponses(tab.Tasks),
		}
	}
	c.JSON(http.StatusOK, dto.OverviewResponse{
		Heading: snap.Heading,
		Loaded:  h.overview.Loaded(),
		Progress: dto.ProgressResponse{
			Done:    snap.Progress.Done,
			Total:   snap.Progress.Total,
			Percent: snap.Progress.Percent(),
		},
		Tabs: tabs,
	})
}

// List godoc
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Param        status  query     string  false  "Filter by status"  Enums(pending, in-progress, done)
// @Success      200     {object}  dto.ListTasksResponse
// @Failure      400     {object}  map[string]string
// @Router       /tasks [get]
func (h *OverviewHandler) List(c *gin.Context) {
	status, ok := c.GetQuery("status")
	if !ok {
		c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(h.overview.Tasks())})
		return
	}
	list, err := h.overview.Filter(dom.Status(status))
	if err != nil {
		if errors.Is(err, service.ErrUnknownStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("filter tasks", "error", err, "request_id", middleware.RequestIDFromContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(list)})
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		DueAt:       t.DueAt,
	}
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}
