package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/export"
	apimw "github.com/hamed0406/sitecheck/internal/httpapi/middleware"
	"github.com/hamed0406/sitecheck/internal/notify"
	"github.com/hamed0406/sitecheck/internal/repo"
)

// Prober runs one probe. *probe.Runner satisfies it.
type Prober interface {
	Probe(ctx context.Context, url string) domain.Report
}

type Server struct {
	Logger   *zap.Logger
	Reports  repo.ReportStore
	Prober   Prober
	Notifier notify.Notifier // optional
	Now      func() time.Time

	notifying sync.WaitGroup
}

// notifyTimeout bounds one background notification.
const notifyTimeout = 15 * time.Second

func NewServer(l *zap.Logger, rs repo.ReportStore, p Prober, n notify.Notifier) *Server {
	return &Server{Logger: l, Reports: rs, Prober: p, Notifier: n, Now: time.Now}
}

// Router wires the API. Every /api route needs a public or admin key;
// clearing reports needs an admin key. allowedOrigins empty allows any origin.
func (s *Server) Router(keys apimw.Keys, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apimw.RequestLogger(s.Logger))
	r.Use(middleware.Recoverer)
	if len(allowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(apimw.RequireAny(keys))
			r.Post("/probes", s.handleProbe)
			r.Get("/reports", s.handleListReports)
			r.Get("/reports/export.csv", s.handleExportCSV)
			r.Get("/reports/export.pdf", s.handleExportPDF)
		})
		r.With(apimw.RequireAdmin(keys)).Delete("/reports", s.handleClearReports)
	})

	return r
}

type probePayload struct {
	URL string `json:"url"`
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	var p probePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.URL == "" {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if !isValidHTTPURL(p.URL) {
		writeError(w, http.StatusBadRequest, "please enter a valid URL starting with http:// or https://")
		return
	}
	target := normalizeHTTPURL(p.URL)

	rep := s.Prober.Probe(r.Context(), target)
	if err := s.Reports.Append(r.Context(), &rep); err != nil {
		s.Logger.Error("report_append_error", zap.String("url", target), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store report")
		return
	}

	if !rep.Healthy() && s.Notifier != nil {
		s.notifyFailed(r.Context(), rep)
	}

	s.Logger.Info("probe_stored",
		zap.String("id", string(rep.ID)),
		zap.String("url", target),
		zap.Bool("healthy", rep.Healthy()),
		zap.Int("http_status", rep.HTTPStatus),
		zap.Float64("latency_ms", rep.LatencyMS),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"report":  rep,
		"summary": rep.Summary(),
	})
}

// notifyFailed sends the alert in the background. It outlives the request
// but not notifyTimeout; Wait blocks until pending alerts are done.
func (s *Server) notifyFailed(ctx context.Context, rep domain.Report) {
	title, text := notify.FailedProbe(&rep)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	s.notifying.Add(1)
	go func() {
		defer s.notifying.Done()
		defer cancel()
		if err := s.Notifier.Send(ctx, title, text); err != nil {
			s.Logger.Warn("notify_error", zap.String("url", rep.URL), zap.Error(err))
		}
	}()
}

// Wait blocks until background notifications have finished.
func (s *Server) Wait() {
	s.notifying.Wait()
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	rs, err := s.Reports.List(r.Context())
	if err != nil {
		s.Logger.Error("report_list_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list error")
		return
	}
	if rs == nil {
		rs = []*domain.Report{}
	}
	writeJSON(w, http.StatusOK, rs)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "text/csv; charset=utf-8", "reports.csv", func(buf *bytes.Buffer, rs []*domain.Report) error {
		return export.WriteCSV(buf, rs)
	})
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "application/pdf", "reports.pdf", func(buf *bytes.Buffer, rs []*domain.Report) error {
		return export.WritePDF(buf, rs, s.now())
	})
}

// export renders into a buffer first so a failure can still produce a 500.
func (s *Server) export(w http.ResponseWriter, r *http.Request, contentType, filename string,
	render func(*bytes.Buffer, []*domain.Report) error) {
	rs, err := s.Reports.List(r.Context())
	if err != nil {
		s.Logger.Error("report_list_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list error")
		return
	}
	var buf bytes.Buffer
	if err := render(&buf, rs); err != nil {
		s.Logger.Error("report_export_error", zap.String("file", filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "export error")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleClearReports(w http.ResponseWriter, r *http.Request) {
	n, err := s.Reports.Clear(r.Context())
	if err != nil {
		s.Logger.Error("report_clear_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not clear reports")
		return
	}
	s.Logger.Info("reports_cleared", zap.Int("deleted", n))
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
