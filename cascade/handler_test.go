package cascade

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/cascade/errors"
	"github.com/kbukum/cascade/httpclient"
	"github.com/kbukum/cascade/identity"
	"github.com/kbukum/cascade/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(e *Engine[flush]) *gin.Engine {
	r := gin.New()
	r.POST("/cache/flush", Handler(e))
	return r
}

func TestHandler_CascadingRequest(t *testing.T) {
	tr := &fakeTransport{}
	e := newTestEngine(t, testConfig("http://nodeA:8080", "http://nodeB:8080"), "nodeA", tr)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cache/flush", strings.NewReader(`{"region":"eu"}`))
	newRouter(e).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res Results
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.CoordinatingNode != "nodeA" || len(res.Results) != 2 {
		t.Errorf("unexpected report %+v", res)
	}
	if tr.callCount() != 1 {
		t.Errorf("expected one peer call, got %d", tr.callCount())
	}
	if p, ok := tr.calls[0].payload.(flush); !ok || p.Region != "eu" {
		t.Errorf("payload not forwarded, got %#v", tr.calls[0].payload)
	}
}

func TestHandler_SuppressedRequest(t *testing.T) {
	tr := &fakeTransport{}
	e := newTestEngine(t, testConfig("http://nodeA:8080", "http://nodeB:8080"), "nodeB", tr)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cache/flush?cascade=false", strings.NewReader(`{"region":"us"}`))
	newRouter(e).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var res Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Success || res.Message != `Action success: flush cache: {"region":"us"}` {
		t.Errorf("unexpected local result %+v", res)
	}
	if tr.callCount() != 0 {
		t.Errorf("suppressed request must not cascade, got %d calls", tr.callCount())
	}
}

func TestHandler_EmptyBodyIsZeroPayload(t *testing.T) {
	var got flush
	cfg := testConfig("http://nodeB:8080")
	cfg.LocalAction = func(_ context.Context, p flush) error { got = p; return nil }
	e := newTestEngine(t, cfg, "nodeA", &fakeTransport{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cache/flush?cascade=false", nil)
	newRouter(e).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got != (flush{}) {
		t.Errorf("expected zero payload, got %+v", got)
	}
}

func TestHandler_MalformedBody(t *testing.T) {
	e := newTestEngine(t, testConfig("http://nodeB:8080"), "nodeA", &fakeTransport{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cache/flush", strings.NewReader(`{"region":`))
	newRouter(e).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body apperrors.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != apperrors.ErrCodeInvalidInput {
		t.Errorf("unexpected error code %q", body.Error.Code)
	}
}

func TestSuppressed(t *testing.T) {
	tests := []struct {
		marker string
		query  string
		want   bool
	}{
		{"cascade=false", "cascade=false", true},
		{"cascade=false", "a=1&cascade=false", true},
		{"cascade=false", "cascade=true", false},
		{"cascade=false", "", false},
		{"cascade=false&hop=1", "cascade=false", false},
		{"cascade=false&hop=1", "hop=1&cascade=false", true},
		{"", "cascade=false", false},
	}
	for _, tc := range tests {
		t.Run(tc.marker+"|"+tc.query, func(t *testing.T) {
			marker, _ := url.ParseQuery(tc.marker)
			query, _ := url.ParseQuery(tc.query)
			if got := suppressed(marker, query); got != tc.want {
				t.Errorf("suppressed = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestCascade_OverHTTP wires a coordinating engine to real peers served by
// Handler through the HTTP transport.
func TestCascade_OverHTTP(t *testing.T) {
	var mu sync.Mutex
	var peerQueries []string

	peerCfg := testConfig("http://unused:8080")
	peer := newTestEngine(t, peerCfg, "peer", &fakeTransport{})
	router := gin.New()
	router.Use(func(c *gin.Context) {
		mu.Lock()
		peerQueries = append(peerQueries, c.Request.URL.RawQuery)
		mu.Unlock()
		if c.GetHeader("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %q", c.GetHeader("Content-Type"))
		}
		if c.GetHeader("Accept") != "application/json" {
			t.Errorf("expected JSON accept header, got %q", c.GetHeader("Accept"))
		}
	})
	router.PUT("/cache/flush", Handler(peer))
	good := httptest.NewServer(router)
	defer good.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	goodHost := good.URL
	brokenHost := strings.Replace(broken.URL, "127.0.0.1", "localhost", 1)

	cfg := testConfig(goodHost, brokenHost)
	cfg.Method = MethodPut
	cfg.Timeout = 3 * time.Second
	coordinator, err := New(cfg,
		WithLogger(logger.Nop()),
		WithIdentity(identity.Static("coordinator")),
		WithTransport(NewHTTPTransport(httpclient.Config{Timeout: cfg.Timeout})),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := coordinator.Run(context.Background(), flush{Region: "ap"}, true)

	keys := res.Keys()
	if len(keys) != 3 {
		t.Fatalf("expected 3 entries, got %v", keys)
	}
	peerRes := res.Results["127.0.0.1"]
	if !peerRes.Success || peerRes.Message != `Action success: flush cache: {"region":"ap"}` {
		t.Errorf("unexpected peer result %+v", peerRes)
	}
	if peerRes.RuntimeSeconds == nil {
		t.Error("expected peer runtime")
	}
	if got := res.Results["localhost"].ErrorMessage; got != "server: HTTP 500" {
		t.Errorf("unexpected broken peer result %q", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(peerQueries) != 1 || peerQueries[0] != "cascade=false" {
		t.Errorf("expected peer to receive the cascade marker, got %v", peerQueries)
	}
}
