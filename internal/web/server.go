// Package web serves the dashboard page and its JSON API.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/gta-evmap/internal/dashboard"
	"github.com/sells-group/gta-evmap/internal/sales"
	"github.com/sells-group/gta-evmap/internal/session"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// SessionCookie names the cookie carrying the session ID.
const SessionCookie = "evmap_session"

// Renderer runs one render pass.
type Renderer interface {
	Render(ctx context.Context, sel dashboard.Selection, t dashboard.Toggles) (*dashboard.View, error)
}

// Options wires the server's collaborators.
type Options struct {
	Renderer       Renderer
	Catalog        *sales.Catalog
	Sessions       session.Store
	Trend          func(ctx context.Context) ([]byte, error)
	CacheStats     func() sales.CacheStats
	AllowedOrigins []string
}

// Server hosts the dashboard.
type Server struct {
	renderer Renderer
	catalog  *sales.Catalog
	sessions session.Store
	trend    func(ctx context.Context) ([]byte, error)
	stats    func() sales.CacheStats
	router   chi.Router
}

// New creates a Server and registers its routes.
func New(opts Options) *Server {
	s := &Server{
		renderer: opts.Renderer,
		catalog:  opts.Catalog,
		sessions: opts.Sessions,
		trend:    opts.Trend,
		stats:    opts.CacheStats,
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)

	r.Route("/api", func(api chi.Router) {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPut, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		api.Get("/quarters", s.handleQuarters)
		api.Put("/selection", s.handleSelection)
		api.Get("/map", s.handleMap)
		api.Get("/trend.png", s.handleTrend)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// session returns the caller's session ID and selection, starting a new
// session at the first quarter when the cookie is absent or stale.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, dashboard.Selection, error) {
	if c, err := r.Cookie(SessionCookie); err == nil && session.ValidID(c.Value) {
		sel, ok, err := s.sessions.Get(r.Context(), c.Value)
		if err != nil {
			return "", dashboard.Selection{}, err
		}
		if ok {
			return c.Value, sel, nil
		}
	}

	id := session.NewID()
	sel := dashboard.NewSelection()
	if err := s.sessions.Put(r.Context(), id, sel); err != nil {
		return "", dashboard.Selection{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, sel, nil
}

type indexData struct {
	View   *dashboard.View
	Labels []string
	Max    int
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{"status": "ok"}
	if s.stats != nil {
		body["sales_cache"] = s.stats()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, sel, err := s.session(w, r)
	if err != nil {
		s.fail(w, r, "session lookup failed", err)
		return
	}

	view, err := s.renderer.Render(r.Context(), sel, dashboard.DefaultToggles())
	if err != nil {
		s.fail(w, r, "render failed", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, indexData{View: view, Labels: s.catalog.Labels(), Max: s.catalog.Len() - 1}); err != nil {
		zap.L().Error("web: template execution failed", zap.Error(err))
	}
}

func (s *Server) handleQuarters(w http.ResponseWriter, r *http.Request) {
	_, sel, err := s.session(w, r)
	if err != nil {
		s.fail(w, r, "session lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"quarters": s.catalog.Quarters(),
		"selected": sel.Index,
	})
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		writeError(w, http.StatusBadRequest, "index is required")
		return
	}

	id, sel, err := s.session(w, r)
	if err != nil {
		s.fail(w, r, "session lookup failed", err)
		return
	}
	if err := sel.Set(*req.Index, s.catalog.Len()); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.sessions.Put(r.Context(), id, sel); err != nil {
		s.fail(w, r, "session save failed", err)
		return
	}

	q, _ := s.catalog.At(sel.Index)
	writeJSON(w, http.StatusOK, map[string]any{"selected": sel.Index, "quarter": q.Label})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	toggles, err := parseToggles(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, sel, err := s.session(w, r)
	if err != nil {
		s.fail(w, r, "session lookup failed", err)
		return
	}

	view, err := s.renderer.Render(r.Context(), sel, toggles)
	if err != nil {
		s.fail(w, r, "render failed", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	if s.trend == nil {
		writeError(w, http.StatusNotFound, "trend chart disabled")
		return
	}
	png, err := s.trend(r.Context())
	if err != nil {
		s.fail(w, r, "trend chart failed", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=600")
	_, _ = w.Write(png)
}

// parseToggles reads level2, level3, and heatmap; each defaults to true.
func parseToggles(r *http.Request) (dashboard.Toggles, error) {
	t := dashboard.DefaultToggles()
	q := r.URL.Query()
	for name, dst := range map[string]*bool{
		"level2":  &t.Level2,
		"level3":  &t.Level3,
		"heatmap": &t.Heatmap,
	} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return t, eris.Errorf("invalid %s value %q", name, raw)
		}
		*dst = v
	}
	return t, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	zap.L().Error("web: "+msg,
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
