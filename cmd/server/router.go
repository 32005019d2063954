package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"obesity-risk/internal/assessment"
	"obesity-risk/internal/config"
	"obesity-risk/internal/performance"
	"obesity-risk/internal/platform/metrics"
	"obesity-risk/internal/platform/middleware"
	"obesity-risk/internal/platform/respond"
	"obesity-risk/internal/report"
	"obesity-risk/internal/snapshot"
	"obesity-risk/internal/story"
)

type app struct {
	logger      zerolog.Logger
	cfg         *config.Config
	assessment  *assessment.Service
	reports     *report.Service
	performance *performance.Service
	story       *story.Service
	snapshots   *snapshot.Service
	db          *sqlx.DB
	metrics     *metrics.Metrics
}

type healthResponse struct {
	Status   string `json:"status"`
	Model    string `json:"model"`
	Database string `json:"database"`
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(a.logger))
	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.CORS(a.cfg.CORSOrigins))

	r.Get("/healthz", a.health)
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())

	var reports assessment.ReportService
	if a.reports != nil {
		reports = a.reports
	}

	r.Route("/api", func(r chi.Router) {
		assessment.RegisterRoutes(r, assessment.NewHandler(a.assessment, reports, a.logger))
		performance.RegisterRoutes(r, performance.NewHandler(a.performance))
		story.RegisterRoutes(r, story.NewHandler(a.story))
		if a.snapshots != nil {
			snapshot.RegisterRoutes(r, snapshot.NewHandler(a.snapshots, a.cfg.DatasetPath, a.logger))
		}
	})

	return r
}

func (a *app) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Model: "loaded", Database: "disabled"}
	if !a.assessment.Available() {
		resp.Status = "degraded"
		resp.Model = "unavailable"
	}
	if a.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.db.PingContext(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
		} else {
			resp.Database = "ok"
		}
	}
	respond.JSON(w, http.StatusOK, resp)
}
