package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/dashboard"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DashboardService is the behaviour the API needs from pipeline.Dashboard.
type DashboardService interface {
	sharedobs.ReadinessChecker
	GetDashboardEvents(ctx context.Context, limit int) ([]domain.EnrichedEvent, error)
}

type dashboardQuery struct {
	Limit int `validate:"omitempty,min=1,max=250"`
}

// ParseLimit validates the optional limit query value. An empty value yields
// 0, which the service replaces with its default.
func ParseLimit(raw string) (int, error) {
	var q dashboardQuery
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("limit must be an integer")
		}
		if n == 0 {
			return 0, fmt.Errorf("limit must be between 1 and %d", pipeline.MaxLimit)
		}
		q.Limit = n
	}
	if err := validate.Struct(q); err != nil {
		return 0, fmt.Errorf("limit must be between 1 and %d", pipeline.MaxLimit)
	}
	return q.Limit, nil
}

// StatusFor maps a dashboard error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrCalendarUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type dashboardHandler struct {
	svc    DashboardService
	logger *slog.Logger
}

func (h *dashboardHandler) viewModels(w http.ResponseWriter, r *http.Request) {
	events, ok := h.load(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, dashboard.ToViewModels(events))
}

func (h *dashboardHandler) events(w http.ResponseWriter, r *http.Request) {
	events, ok := h.load(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, events)
}

func (h *dashboardHandler) load(w http.ResponseWriter, r *http.Request) ([]domain.EnrichedEvent, bool) {
	limit, err := ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, false
	}

	events, err := h.svc.GetDashboardEvents(r.Context(), limit)
	if err != nil {
		status := StatusFor(err)
		h.logger.Error("dashboard request failed", "error", err, "status", status)
		sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
		return nil, false
	}
	return events, true
}
