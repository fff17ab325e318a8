// Package sandbox is a local stand-in for the dish storage service. It
// accepts the same JSON the form submits, stores dishes in SQLite and can
// be told to fail so the form's failure paths can be exercised by hand.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	healthgo "github.com/hellofresh/health-go/v5"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"

	"github.com/alexanderramin/dishform/internal/repository"
)

// Options controls failure injection.
type Options struct {
	// FailStatus, when non-zero, answers every POST with this status.
	FailStatus int
	// Plain answers a successful POST with a non-JSON body.
	Plain bool
}

type Server struct {
	echo    *echo.Echo
	repo    repository.DishRepo
	health  *healthgo.Health
	metrics *Metrics
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
}

func NewServer(repo repository.DishRepo, opts Options, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	health, err := healthgo.New(
		healthgo.WithComponent(healthgo.Component{
			Name:    "dishform-sandbox",
			Version: "1.0.0",
		}),
		healthgo.WithChecks(healthgo.Config{
			Name:    "sqlite",
			Timeout: 2 * time.Second,
			Check: func(ctx context.Context) error {
				_, err := repo.Count(ctx)
				return err
			},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating health checker: %w", err)
	}

	metrics := NewMetrics()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAccept, echo.HeaderContentType},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "dishform",
		Subsystem:  "sandbox",
		Registerer: metrics.reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	s := &Server{
		echo:    e,
		repo:    repo,
		health:  health,
		metrics: metrics,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}

	e.GET("/healthz", s.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.POST("/dishes", s.CreateDish)
	e.GET("/dishes", s.ListDishes)
	e.GET("/dishes/:id", s.GetDish)
	pprof.Register(e)

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errChan := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "sandbox listening", slog.String("addr", addr))
		errChan <- s.echo.Start(addr)
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) Health(c echo.Context) error {
	check := s.health.Measure(c.Request().Context())

	statusCode := http.StatusOK
	if check.Status != healthgo.StatusOK {
		s.logger.ErrorContext(c.Request().Context(), "health check failed", slog.Any("failures", check.Failures))
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, check)
}

func (s *Server) CreateDish(c echo.Context) error {
	ctx := c.Request().Context()

	if s.opts.FailStatus != 0 {
		s.metrics.Injected.Inc()
		s.logger.WarnContext(ctx, "injecting failure", slog.Int("status", s.opts.FailStatus))
		return c.JSON(s.opts.FailStatus, ErrorsResponse{Errors: [][]string{{"injected", "failure"}}})
	}

	var req NewDishRequest
	if err := c.Bind(&req); err != nil {
		s.metrics.Rejected.Inc()
		s.logger.ErrorContext(ctx, "failed to bind request", slog.String("error", err.Error()))
		return c.JSON(http.StatusBadRequest, ErrorsResponse{Errors: [][]string{{"invalid", "request", "body"}}})
	}
	if err := c.Validate(&req); err != nil {
		s.metrics.Rejected.Inc()
		return c.JSON(http.StatusUnprocessableEntity, ErrorsResponse{Errors: errorGroups(err)})
	}

	d := req.ToStored()
	d.ID = uuid.NewString()
	d.CreatedAt = s.now().UTC()
	if err := s.repo.Create(ctx, &d); err != nil {
		s.logger.ErrorContext(ctx, "failed to store dish", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, ErrorsResponse{Errors: [][]string{{"storage", "failure"}}})
	}
	s.metrics.Created.WithLabelValues(string(d.Type)).Inc()
	s.logger.InfoContext(ctx, "dish stored", slog.String("id", d.ID), slog.String("type", string(d.Type)))

	if s.opts.Plain {
		return c.String(http.StatusCreated, "stored "+d.ID)
	}
	return c.JSON(http.StatusCreated, d)
}

func (s *Server) ListDishes(c echo.Context) error {
	ctx := c.Request().Context()
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, ErrorsResponse{Errors: [][]string{{"limit", "must", "be", "a", "non-negative", "integer"}}})
		}
		limit = n
	}

	dishes, err := s.repo.List(ctx, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list dishes", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, ErrorsResponse{Errors: [][]string{{"storage", "failure"}}})
	}
	if dishes == nil {
		return c.JSON(http.StatusOK, []any{})
	}
	return c.JSON(http.StatusOK, dishes)
}

func (s *Server) GetDish(c echo.Context) error {
	ctx := c.Request().Context()
	d, err := s.repo.GetByID(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorsResponse{Errors: [][]string{{"dish", "not", "found"}}})
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load dish", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, ErrorsResponse{Errors: [][]string{{"storage", "failure"}}})
	}
	return c.JSON(http.StatusOK, d)
}
