package http

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/couchcryptid/collision-data-service/internal/domain"
	"github.com/couchcryptid/collision-data-service/internal/session"
)

const (
	defaultStreetLimit  = 5
	defaultVehicleLimit = 10
	defaultRecordLimit  = 1000
)

type sessionHandler func(w http.ResponseWriter, r *http.Request, s *session.Session)

// withSession opens a session for the request. A load failure becomes a 503
// carrying a message the dashboard can show to the user.
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Open(r.Context())
		if err != nil {
			s.logger.Error("open session failed", "path", r.URL.Path, "error", err)
			var loadErr *domain.LoadError
			if errors.As(err, &loadErr) {
				writeError(w, http.StatusServiceUnavailable, "collision data is unavailable: "+loadErr.Error())
				return
			}
			writeError(w, http.StatusServiceUnavailable, "collision data is unavailable")
			return
		}
		next(w, r, sess)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, sess.Summary())
}

func (s *Server) handleInjuries(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	minInjured, err := intParam(r, "min", 0)
	if err != nil || minInjured < 0 {
		writeError(w, http.StatusBadRequest, "min must be a non-negative integer")
		return
	}
	points := sess.InjuryPoints(minInjured)
	writeJSON(w, http.StatusOK, map[string]any{
		"min_injured": minInjured,
		"count":       len(points),
		"points":      points,
	})
}

func (s *Server) handleHour(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	hour, err := strconv.Atoi(r.PathValue("hour"))
	if err != nil {
		writeError(w, http.StatusBadRequest, session.ErrInvalidHour.Error())
		return
	}
	view, err := sess.HourView(hour)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleStreets(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	name := r.URL.Query().Get("category")
	if name == "" {
		name = string(domain.CategoryPedestrians)
	}
	category, err := domain.ParseCategory(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, ok := limitParam(w, r, defaultStreetLimit)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"streets":  nonNil(sess.DangerousStreets(category, limit)),
	})
}

func (s *Server) handleMonthly(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, map[string]any{"months": sess.MonthlyTrend()})
}

// correlationResponse encodes NaN coefficients as null; encoding/json rejects NaN.
type correlationResponse struct {
	Columns []domain.NumericColumn `json:"columns"`
	Values  [][]*float64           `json:"values"`
}

func (s *Server) handleCorrelation(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	m := sess.Correlation()
	resp := correlationResponse{Columns: m.Columns, Values: make([][]*float64, len(m.Values))}
	for i, row := range m.Values {
		resp.Values[i] = make([]*float64, len(row))
		for j, v := range row {
			if !math.IsNaN(v) {
				resp.Values[i][j] = &v
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSeverity(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, map[string]any{"distribution": sess.Severity()})
}

func (s *Server) handleDensity(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, map[string]any{"points": sess.DensityPoints()})
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	limit, ok := limitParam(w, r, defaultVehicleLimit)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicle_types": nonNil(sess.VehicleTypes(limit))})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	limit, ok := limitParam(w, r, defaultRecordLimit)
	if !ok {
		return
	}
	var hour *int
	if r.URL.Query().Has("hour") {
		h, err := intParam(r, "hour", 0)
		if err != nil {
			writeError(w, http.StatusBadRequest, session.ErrInvalidHour.Error())
			return
		}
		hour = &h
	}
	records, err := sess.RawRecords(hour, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(records), "records": nonNil(records)})
}

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return n, nil
}

// limitParam reads a positive "limit" parameter, writing a 400 when invalid.
func limitParam(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	limit, err := intParam(r, "limit", def)
	if err != nil || limit <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return limit, true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
