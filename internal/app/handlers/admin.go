package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/learnhub-dev/learnhub/internal/app/logger"
)

// yearFromQuery defaults to the current calendar year; the trends always
// cover one year, January through December.
func yearFromQuery(req *http.Request) (int, error) {
	v := req.URL.Query().Get("year")
	if v == "" {
		return time.Now().UTC().Year(), nil
	}
	year, err := strconv.Atoi(v)
	if err != nil || year < 1970 || year > 9999 {
		return 0, errors.New("invalid year")
	}
	return year, nil
}

func (bh *BaseHandler) dashboardStats() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		dashboard, err := bh.stats.Dashboard(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch dashboard statistics")
			logger.Logger.Err(err).Msg("dashboard stats")
			return
		}

		writeData(w, dashboard)
	}
}

func (bh *BaseHandler) enrollmentTrends() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		year, err := yearFromQuery(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		chart, err := bh.stats.EnrollmentTrends(req.Context(), year)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch enrollment data")
			logger.Logger.Err(err).Int("year", year).Msg("enrollment trends")
			return
		}

		writeData(w, chart)
	}
}

func (bh *BaseHandler) revenueTrends() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		year, err := yearFromQuery(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		chart, err := bh.stats.RevenueTrends(req.Context(), year)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch revenue data")
			logger.Logger.Err(err).Int("year", year).Msg("revenue trends")
			return
		}

		writeData(w, chart)
	}
}

func (bh *BaseHandler) courseDistribution() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		chart, err := bh.stats.CourseDistribution(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch course distribution")
			logger.Logger.Err(err).Msg("course distribution")
			return
		}

		writeData(w, chart)
	}
}

func (bh *BaseHandler) topInstructors() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		instructors, err := bh.stats.TopInstructors(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch top instructors")
			logger.Logger.Err(err).Msg("top instructors")
			return
		}

		writeData(w, instructors)
	}
}

func (bh *BaseHandler) courseStates() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		states, err := bh.stats.CourseStates(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch course states")
			logger.Logger.Err(err).Msg("course states")
			return
		}

		writeData(w, states)
	}
}

func (bh *BaseHandler) getNotices() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		notices, err := bh.repo.GetNotices(req.Context(), 20)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch notices")
			logger.Logger.Err(err).Msg("get notices")
			return
		}

		writeData(w, notices)
	}
}

func (bh *BaseHandler) markNoticeRead() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		noticeID, err := strconv.ParseInt(chi.URLParam(req, "noticeID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid notice id")
			return
		}

		if err := bh.repo.MarkNoticeRead(req.Context(), noticeID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "Notice not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to update notice")
			logger.Logger.Err(err).Int64("noticeID", noticeID).Msg("mark notice read")
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
