package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"wapi/internal/weather"
	"wapi/internal/weatherapi"
)

const (
	defaultDays = 3
	maxDays     = 10
)

type Handler struct {
	service *weather.Service
}

func NewHandler(service *weather.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/weather", h.getWeather)
	mux.HandleFunc("GET /v1/history", h.getHistory)
	mux.HandleFunc("GET /v1/future", h.getFuture)
	mux.HandleFunc("GET /v1/astronomy", h.getAstronomy)
	mux.HandleFunc("GET /v1/marine", h.getMarine)
	mux.HandleFunc("GET /v1/ip", h.getIP)
	mux.HandleFunc("GET /v1/sports", h.getSports)
	mux.HandleFunc("GET /v1/search", h.getSearch)
	mux.HandleFunc("GET /health", h.health)
}

type paramError string

func (e paramError) Error() string { return string(e) }

func queryParam(r *http.Request) (string, error) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		return "", paramError("missing q parameter")
	}
	return q, nil
}

// daysParam reads days in [minDays, maxDays], defaulting to defaultDays.
func daysParam(r *http.Request, minDays int) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return defaultDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < minDays || days > maxDays {
		return 0, paramError("invalid days parameter")
	}
	return days, nil
}

func dateParam(r *http.Request, required bool) (string, error) {
	dt := strings.TrimSpace(r.URL.Query().Get("dt"))
	if dt == "" && required {
		return "", paramError("missing dt parameter")
	}
	return dt, nil
}

func (h *Handler) getWeather(w http.ResponseWriter, r *http.Request) {
	q, err := queryParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	days, err := daysParam(r, 0)
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := h.service.Weather(r.Context(), q, days)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, report)
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	serveDated(w, r, h.service.History)
}

func (h *Handler) getFuture(w http.ResponseWriter, r *http.Request) {
	serveDated(w, r, h.service.Future)
}

func serveDated(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, q, dt string) (*weather.Forecast, error)) {
	q, err := queryParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dt, err := dateParam(r, true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	forecast, err := fetch(r.Context(), q, dt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, forecast)
}

func (h *Handler) getAstronomy(w http.ResponseWriter, r *http.Request) {
	q, err := queryParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dt, _ := dateParam(r, false)
	astro, err := h.service.Astronomy(r.Context(), q, dt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, astro)
}

func (h *Handler) getMarine(w http.ResponseWriter, r *http.Request) {
	q, err := queryParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	days, err := daysParam(r, 1)
	if err != nil {
		writeError(w, r, err)
		return
	}
	marine, err := h.service.Marine(r.Context(), q, days)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, marine)
}

func (h *Handler) getIP(w http.ResponseWriter, r *http.Request) {
	ip := strings.TrimSpace(r.URL.Query().Get("ip"))
	if ip == "" {
		ip = "auto:ip"
	}
	info, err := h.service.IPLookup(r.Context(), ip)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, info)
}

func (h *Handler) getSports(w http.ResponseWriter, r *http.Request) {
	q, err := queryParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sports, err := h.service.Sports(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, sports)
}

func (h *Handler) getSearch(w http.ResponseWriter, r *http.Request) {
	q, err := queryParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	locations, err := h.service.Search(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, locations)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeError maps an error to a status. Bad input is the caller's fault,
// an unknown location is 404, anything else upstream is a bad gateway.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var pe paramError
	switch {
	case errors.As(err, &pe):
		writeJSONError(w, pe.Error(), http.StatusBadRequest)
	case errors.Is(err, weatherapi.ErrInvalidDate):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, weatherapi.ErrNoLocationFound):
		writeJSONError(w, "no matching location found", http.StatusNotFound)
	default:
		slog.Error("weather request failed", "err", err, "path", r.URL.Path, "query", r.URL.RawQuery)
		writeJSONError(w, "upstream weather service error", http.StatusBadGateway)
	}
}

func writeJSONError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
