package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gta-evmap/internal/dashboard"
	"github.com/sells-group/gta-evmap/internal/sales"
	"github.com/sells-group/gta-evmap/internal/session"
)

type renderCall struct {
	sel     dashboard.Selection
	toggles dashboard.Toggles
}

type fakeRenderer struct {
	catalog *sales.Catalog
	calls   []renderCall
	err     error
}

func (f *fakeRenderer) Render(_ context.Context, sel dashboard.Selection, t dashboard.Toggles) (*dashboard.View, error) {
	f.calls = append(f.calls, renderCall{sel: sel, toggles: t})
	if f.err != nil {
		return nil, f.err
	}
	q, err := f.catalog.At(sel.Index)
	if err != nil {
		return nil, err
	}
	return &dashboard.View{
		Quarter:     q.Label,
		Index:       sel.Index,
		Title:       dashboard.Title,
		Description: dashboard.Description(q.Label),
		Toggles:     t,
		Canvas:      dashboard.NewCanvas(dashboard.DefaultMapConfig()),
	}, nil
}

func newTestServer(t *testing.T) (*Server, *fakeRenderer) {
	t.Helper()
	catalog := sales.DefaultCatalog("sales")
	fr := &fakeRenderer{catalog: catalog}
	srv := New(Options{
		Renderer: fr,
		Catalog:  catalog,
		Sessions: session.NewMemory(time.Hour),
		Trend: func(context.Context) ([]byte, error) {
			return []byte("\x89PNG fake"), nil
		},
		CacheStats: func() sales.CacheStats {
			return sales.CacheStats{Quarters: 2, Capacity: 10, Hits: 7, Misses: 2}
		},
	})
	return srv, fr
}

func do(t *testing.T, srv *Server, method, target string, body []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", SessionCookie)
	return nil
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	var body struct {
		Status     string           `json:"status"`
		SalesCache sales.CacheStats `json:"sales_cache"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, sales.CacheStats{Quarters: 2, Capacity: 10, Hits: 7, Misses: 2}, body.SalesCache)
}

func TestHealthEndpoint_WithoutCacheStats(t *testing.T) {
	catalog := sales.DefaultCatalog("sales")
	srv := New(Options{Renderer: &fakeRenderer{catalog: catalog}, Catalog: catalog, Sessions: session.NewMemory(0)})

	rr := do(t, srv, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "sales_cache")
}

func TestIndex_RendersPresentation(t *testing.T) {
	srv, fr := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/", nil, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, dashboard.Title)
	assert.Contains(t, body, "an EV sales heatmap for Q1 2022.")
	assert.Contains(t, body, "Show Level 2 Chargers")
	assert.Contains(t, body, "Show Level 3 Chargers")
	assert.Contains(t, body, "Show EV Sales Heatmap")
	assert.Contains(t, body, `max="9"`)
	assert.Contains(t, body, "width: 800px")
	assert.Contains(t, body, "L.AwesomeMarkers.icon")

	require.Len(t, fr.calls, 1)
	assert.Equal(t, dashboard.DefaultToggles(), fr.calls[0].toggles)
	sessionCookie(t, rr)
}

func TestQuarters_NewSessionStartsAtZero(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/api/quarters", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Quarters []sales.Quarter `json:"quarters"`
		Selected int             `json:"selected"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body.Quarters, 10)
	assert.Equal(t, "Q1 2022", body.Quarters[0].Label)
	assert.Equal(t, 0, body.Selected)
}

func TestSelection_PersistsAcrossRequests(t *testing.T) {
	srv, fr := newTestServer(t)

	first := do(t, srv, http.MethodGet, "/api/map", nil, nil)
	require.Equal(t, http.StatusOK, first.Code)
	cookie := sessionCookie(t, first)

	rr := do(t, srv, http.MethodPut, "/api/selection", []byte(`{"index": 6}`), cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var sel map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sel))
	assert.Equal(t, "Q3 2023", sel["quarter"])

	rr = do(t, srv, http.MethodGet, "/api/map", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var view dashboard.View
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, "Q3 2023", view.Quarter)
	assert.Equal(t, 6, fr.calls[len(fr.calls)-1].sel.Index)

	// A different session is unaffected.
	other := do(t, srv, http.MethodGet, "/api/map", nil, nil)
	require.Equal(t, http.StatusOK, other.Code)
	assert.Equal(t, 0, fr.calls[len(fr.calls)-1].sel.Index)
}

func TestSelection_OutOfRange(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodPut, "/api/selection", []byte(`{"index": 10}`), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, srv, http.MethodPut, "/api/selection", []byte(`{"index": -1}`), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSelection_MissingIndex(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodPut, "/api/selection", []byte(`{}`), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, srv, http.MethodPut, "/api/selection", []byte(`not json`), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMap_Toggles(t *testing.T) {
	srv, fr := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/api/map?level2=false&level3=0&heatmap=false", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, dashboard.Toggles{}, fr.calls[0].toggles)

	rr = do(t, srv, http.MethodGet, "/api/map?level3=false", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, dashboard.Toggles{Level2: true, Heatmap: true}, fr.calls[1].toggles)
}

func TestMap_InvalidToggle(t *testing.T) {
	srv, fr := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/api/map?heatmap=maybe", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "heatmap")
	assert.Empty(t, fr.calls)
}

func TestMap_RenderFailure(t *testing.T) {
	srv, fr := newTestServer(t)
	fr.err = errors.New("malformed sales file")

	rr := do(t, srv, http.MethodGet, "/api/map", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "render failed")
}

func TestMap_UnknownCookieStartsNewSession(t *testing.T) {
	srv, fr := newTestServer(t)

	stale := &http.Cookie{Name: SessionCookie, Value: session.NewID()}
	rr := do(t, srv, http.MethodGet, "/api/map", nil, stale)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.NotEqual(t, stale.Value, sessionCookie(t, rr).Value)
	assert.Equal(t, 0, fr.calls[0].sel.Index)
}

func TestTrend(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/api/trend.png", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
}

func TestTrend_Disabled(t *testing.T) {
	catalog := sales.DefaultCatalog("sales")
	srv := New(Options{Renderer: &fakeRenderer{catalog: catalog}, Catalog: catalog, Sessions: session.NewMemory(0)})

	rr := do(t, srv, http.MethodGet, "/api/trend.png", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_CORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/map", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
