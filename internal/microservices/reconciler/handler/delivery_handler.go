package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/microservices/reconciler/service"
)

type DeliveryHandler struct {
	service ReconcileService
}

func NewDeliveryHandler(svc ReconcileService) *DeliveryHandler {
	return &DeliveryHandler{service: svc}
}

func (h *DeliveryHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := parseDate(q.Get("date"), true)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid_date", err.Error())
		return
	}
	end, err := parseDate(q.Get("end_date"), false)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid_date", err.Error())
		return
	}
	include, err := boolDefault(q.Get("include_processed"), false)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid_parameter", "include_processed: "+err.Error())
		return
	}

	ds, err := h.service.Reconcile(r.Context(), service.Request{Start: start, End: end, IncludeProcessed: include})
	if err != nil {
		code, typ := statusFor(err)
		writeProblem(w, code, typ, err.Error())
		return
	}
	views := make([]domain.DeliveryView, 0, len(ds))
	for _, d := range ds {
		views = append(views, domain.NewDeliveryView(d))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *DeliveryHandler) ListShifts(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.URL.Query().Get("date"), true)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid_date", err.Error())
		return
	}
	shifts, err := h.service.Shifts(r.Context(), date)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	views := make([]domain.ShiftView, 0, len(shifts))
	for _, s := range shifts {
		views = append(views, domain.NewShiftView(s))
	}
	writeJSON(w, http.StatusOK, views)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidRange):
		return http.StatusBadRequest, "invalid_date"
	case domain.IsConfiguration(err):
		return http.StatusInternalServerError, "configuration_error"
	case domain.IsIntegrity(err):
		return http.StatusConflict, "integrity_error"
	case domain.IsTransport(err):
		return http.StatusBadGateway, "upstream_error"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem renders a simplified RFC 7807 problem document.
func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	resp := map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	}
	writeJSON(w, code, resp)
}

func parseDate(s string, required bool) (time.Time, error) {
	if s == "" {
		if required {
			return time.Time{}, errors.New("date is required (YYYY-MM-DD)")
		}
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func boolDefault(s string, d bool) (bool, error) {
	if s == "" {
		return d, nil
	}
	return strconv.ParseBool(s)
}
