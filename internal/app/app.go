package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"taskmanager/internal/config"
	"taskmanager/internal/metrics"
	"taskmanager/internal/repo"
	"taskmanager/internal/service"
	"taskmanager/internal/utils"
	"taskmanager/internal/view"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type App struct {
	log      *slog.Logger
	overview *service.TasksOverview
	metrics  *metrics.Metrics
	router   *gin.Engine
}

type options struct {
	provider repo.TaskProvider
	clock    service.Clock
}

// Option customises New.
type Option func(*options)

// WithProvider replaces the embedded fixture as the task source.
func WithProvider(p repo.TaskProvider) Option {
	return func(o *options) { o.provider = p }
}

// WithClock fixes the time used for the overview heading.
func WithClock(c service.Clock) Option {
	return func(o *options) { o.clock = c }
}

// New builds the overview, runs its one-time load and wires the router.
func New(ctx context.Context, cfg config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.provider == nil {
		fp, err := repo.NewFixtureProvider()
		if err != nil {
			return nil, fmt.Errorf("fixture: %w", err)
		}
		o.provider = fp
	}

	loc, err := utils.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, err
	}

	a := &App{
		log:      log,
		overview: service.NewTasksOverview(o.provider, o.clock, loc),
		metrics:  metrics.New(),
	}

	if err := a.overview.Mount(ctx); err != nil {
		return nil, fmt.Errorf("mount overview: %w", err)
	}
	tasks := a.overview.Tasks()
	a.metrics.SetTasks(tasks)
	log.Info("overview loaded", "tasks", len(tasks), "timezone", loc.String())

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}
	a.router = newRouter(cfg, log, renderer, a.overview, a.metrics)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Overview exposes the loaded overview, e.g. for the text renderer.
func (a *App) Overview() *service.TasksOverview {
	return a.overview
}

func (a *App) Close(context.Context) error {
	a.log.Info("app closed")
	return nil
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func NewLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	}
	return slog.New(slog.NewTextHandler(w, hopts)), nil
}

func newRouter(cfg config.Config, log *slog.Logger, renderer *view.Renderer, o *service.TasksOverview, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.HTTP.CORSOrigins,
		AllowMethods:  []string{"GET", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	r.SetHTMLTemplate(renderer.Template())
	Setup(r, cfg, log, o, m)
	return r
}
