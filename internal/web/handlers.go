package web

import (
	"encoding/json"
	"net/http"

	"github.com/rohmanhakim/newsguard/internal/render"
	"github.com/rohmanhakim/newsguard/internal/scan"
)

const maxFormBytes = 64 << 10

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, pageData{CacheSize: s.cache.GetCacheSize()})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	rawURL := r.PostFormValue("url")

	res, scanErr := s.scanner.Scan(r.Context(), rawURL)
	if scanErr != nil {
		errView := render.NewErrorView(rawURL, scanErr)
		s.renderPage(w, statusFor(scanErr), pageData{
			// keep the input so the user can fix it
			URL:       rawURL,
			CacheSize: s.cache.GetCacheSize(),
			Error:     &errView,
		})
		return
	}

	view := render.NewCardView(res)
	s.renderPage(w, http.StatusOK, pageData{
		CacheSize: res.CacheSize,
		Result:    &view,
	})
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	s.cache.ClearCache()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleCacheSize(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"size": s.cache.GetCacheSize()})
}

type apiScanRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleAPIScan(w http.ResponseWriter, r *http.Request) {
	var req apiScanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request body must be {\"url\": \"...\"}"})
		return
	}

	res, scanErr := s.scanner.Scan(r.Context(), req.URL)
	w.Header().Set("Content-Type", "application/json")
	renderer := render.NewJSONRenderer()
	if scanErr != nil {
		w.WriteHeader(statusFor(scanErr))
		if err := renderer.Error(w, req.URL, scanErr); err != nil {
			s.logger.Error().Err(err).Msg("render scan error")
		}
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := renderer.Result(w, res); err != nil {
		s.logger.Error().Err(err).Msg("render scan result")
	}
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	if err := s.templates.Render(w, status, "index", data); err != nil {
		s.logger.Error().Err(err).Msg("render page")
	}
}

// statusFor maps a scan failure to the HTTP status of the response.
func statusFor(err *scan.ScanError) int {
	switch err.Cause {
	case scan.ErrCauseValidation:
		return http.StatusBadRequest
	case scan.ErrCauseBusy:
		return http.StatusConflict
	case scan.ErrCauseCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
