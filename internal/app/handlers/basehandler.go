package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/learnhub-dev/learnhub/internal/app/metrics"
	"github.com/learnhub-dev/learnhub/internal/app/notifier"
	"github.com/learnhub-dev/learnhub/internal/app/stats"
	"github.com/learnhub-dev/learnhub/internal/app/storage"
)

type BaseHandler struct {
	*chi.Mux
	secretKey string
	repo      storage.Repository
	stats     *stats.Service
	notifier  *notifier.Notifier
	metrics   *metrics.Metrics
}

func NewBaseHandler(repo storage.Repository, n *notifier.Notifier, m *metrics.Metrics, secretKey string) *BaseHandler {
	bh := &BaseHandler{
		Mux:       chi.NewMux(),
		secretKey: secretKey,
		repo:      repo,
		stats:     stats.NewService(repo),
		notifier:  n,
		metrics:   m,
	}

	bh.Use(middleware.RequestID)
	bh.Use(middleware.RealIP)
	bh.Use(middleware.Recoverer)

	bh.Use(middleware.Compress(5))
	bh.Use(gzipHandle)

	bh.Method(http.MethodGet, "/metrics", metrics.Handler())

	bh.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", bh.register())
		r.Post("/auth/login", bh.login())

		r.Group(func(r chi.Router) {
			r.Use(authHandle(bh.secretKey))

			r.Post("/orders", bh.createOrder())
			r.Get("/orders", bh.getOrders())
			r.Get("/orders/{orderID}", bh.getOrder())

			r.Post("/courses", bh.createCourse())
			r.Post("/reviews", bh.createReview())

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)

				r.Patch("/orders/{orderID}", bh.patchOrder())
				r.Post("/orders/{orderID}/complete", bh.completeOrder())

				r.Route("/admin", func(r chi.Router) {
					r.Get("/dashboard/stats", bh.dashboardStats())
					r.Get("/dashboard/enrollments", bh.enrollmentTrends())
					r.Get("/dashboard/revenue", bh.revenueTrends())
					r.Get("/dashboard/course-distribution", bh.courseDistribution())
					r.Get("/dashboard/top-instructors", bh.topInstructors())
					r.Get("/dashboard/course-states", bh.courseStates())
					r.Get("/notices", bh.getNotices())
					r.Patch("/notices/{noticeID}/read", bh.markNoticeRead())
				})
			})
		})
	})

	return bh
}

type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Message: message})
}
