package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dbmrq/techcat/internal/catalog"
	"github.com/dbmrq/techcat/internal/compare"
	"github.com/dbmrq/techcat/internal/config"
	apperrors "github.com/dbmrq/techcat/internal/errors"
	"github.com/dbmrq/techcat/internal/logging"
	"github.com/dbmrq/techcat/internal/metrics"
	"github.com/dbmrq/techcat/internal/prompt"
)

var testDataPath = filepath.Join("..", "catalog", "testdata", "data.json")

// fakeComparator records the records it was asked to compare.
type fakeComparator struct {
	mu    sync.Mutex
	calls [][2]string
	text  string
	err   error
}

func (f *fakeComparator) Compare(_ context.Context, first, second *catalog.Technology) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, [2]string{first.Name, second.Name})
	return f.text, f.err
}

func (f *fakeComparator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(context.Background(), catalog.Source{Path: testDataPath})
	if err != nil {
		t.Fatalf("catalog.Load() error = %v", err)
	}
	return c
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	if opts.Catalog == nil && opts.CatalogErr == nil {
		opts.Catalog = loadCatalog(t)
	}
	if opts.Comparator == nil {
		opts.Comparator = &fakeComparator{text: "ok"}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNoop()
	}
	if opts.Config.CORSOrigin == "" {
		opts.Config.CORSOrigin = "*"
	}
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return resp, body
}

func postJSON(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := srv.Client().Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp, out
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return v
}

func techNames(records []catalog.Technology) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Options{Catalog: catalog.New(nil)}); err == nil {
		t.Error("New() without comparator should fail")
	}
	if _, err := New(Options{Comparator: &fakeComparator{}}); err == nil {
		t.Error("New() without catalog or catalog error should fail")
	}
}

func TestTechnologies(t *testing.T) {
	srv := newTestServer(t, Options{})

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Assembly", "C", "C++", "Go", "Java", "JavaScript", "Python", "Rust"}},
		{"?q=ja", []string{"Java", "JavaScript"}},
		{"?q=%20C%20", []string{"C", "C++"}},
		{"?q=zzz", []string{}},
		{"?level=intermediate", []string{"C", "C++", "Rust"}},
		{"?q=c&level=low", []string{}},
		{"?group=level", []string{"Go", "Java", "JavaScript", "Python", "C", "C++", "Rust", "Assembly"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := get(t, srv, "/api/technologies"+tt.query)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body %s", resp.StatusCode, body)
			}
			got := techNames(decode[[]catalog.Technology](t, body))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTechnologies_UnknownLevel(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp, _ := get(t, srv, "/api/technologies?level=stratospheric")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestTechnology(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, body := get(t, srv, "/api/technologies/javascript")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	tech := decode[catalog.Technology](t, body)
	if tech.Name != "JavaScript" || tech.Year != 1995 {
		t.Errorf("got %+v", tech)
	}

	resp, body = get(t, srv, "/api/technologies/Cobol")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing technology status = %d, want 404", resp.StatusCode)
	}
	if e := decode[errorResponse](t, body); !strings.Contains(e.Error, "Cobol") {
		t.Errorf("error = %q", e.Error)
	}
}

func TestCurve(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, body := get(t, srv, "/api/technologies/Rust/curve")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got struct {
		Name        string `json:"name"`
		Shape       string `json:"shape"`
		Description string `json:"description"`
		Polyline    string `json:"polyline"`
		Caption     string `json:"caption"`
		Points      []struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"points"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Shape != "steep" {
		t.Errorf("shape = %q, want steep", got.Shape)
	}
	if len(got.Points) != 20 {
		t.Fatalf("points = %d, want 20", len(got.Points))
	}
	for _, p := range got.Points {
		if p.X < 0 || p.X > 100 || p.Y < 0 || p.Y > 100 {
			t.Errorf("point %+v outside the 100x100 box", p)
		}
	}
	if !strings.HasPrefix(got.Polyline, "0,") || got.Caption == "" {
		t.Errorf("polyline %q caption %q", got.Polyline, got.Caption)
	}
}

func TestSuggestions(t *testing.T) {
	srv := newTestServer(t, Options{})

	tests := []struct {
		q    string
		want []string
	}{
		{"", []string{}},
		{"j", []string{"Java", "JavaScript"}},
		{"PY", []string{"Python"}},
		{"x", []string{}},
	}
	for _, tt := range tests {
		_, body := get(t, srv, "/api/suggestions?q="+url.QueryEscape(tt.q))
		if diff := cmp.Diff(tt.want, decode[[]string](t, body)); diff != "" {
			t.Errorf("Suggest(%q) mismatch (-want +got):\n%s", tt.q, diff)
		}
	}
}

func TestTimeline(t *testing.T) {
	srv := newTestServer(t, Options{})

	_, body := get(t, srv, "/api/timeline")
	entries := decode[[]timelineEntry](t, body)
	if len(entries) != 8 {
		t.Fatalf("entries = %d, want 8", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Year < entries[i-1].Year {
			t.Errorf("timeline not ascending at %d: %+v", i, entries)
		}
	}
	if entries[0] != (timelineEntry{Year: 1949, Name: "Assembly"}) {
		t.Errorf("first entry = %+v", entries[0])
	}
}

func TestReferenceEndpoints(t *testing.T) {
	srv := newTestServer(t, Options{})

	_, body := get(t, srv, "/api/execution-types")
	if got := decode[[]catalog.ExecutionInfo](t, body); len(got) != len(catalog.ExecutionTypes) {
		t.Errorf("execution types = %d, want %d", len(got), len(catalog.ExecutionTypes))
	}
	_, body = get(t, srv, "/api/levels")
	if got := decode[[]catalog.LevelInfo](t, body); len(got) != len(catalog.Levels) {
		t.Errorf("levels = %d, want %d", len(got), len(catalog.Levels))
	}
}

func TestRawData(t *testing.T) {
	srv := newTestServer(t, Options{})

	want, err := os.ReadFile(testDataPath)
	if err != nil {
		t.Fatal(err)
	}
	resp, body := get(t, srv, "/data.json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if string(body) != string(want) {
		t.Error("/data.json should serve the dataset bytes unchanged")
	}
}

const compareBody = `{"tech1":{"nome":"Go","ano":2009},"tech2":{"nome":"Rust","ano":2010}}`

func TestCompare(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		cmpErr     error
		wantStatus int
		wantCalls  int
		wantBody   string
	}{
		{"success", compareBody, nil, http.StatusOK, 1, `"comparison":"<b>Go</b> is simpler."`},
		{"missing tech2", `{"tech1":{"nome":"Go"}}`, nil, http.StatusBadRequest, 0, msgIncompleteData},
		{"missing tech1", `{"tech2":{"nome":"Go"}}`, nil, http.StatusBadRequest, 0, msgIncompleteData},
		{"nameless record", `{"tech1":{"nome":"Go"},"tech2":{}}`, nil, http.StatusBadRequest, 0, msgIncompleteData},
		{"malformed body", `{"tech1":`, nil, http.StatusBadRequest, 0, msgIncompleteData},
		{"empty body", ``, nil, http.StatusBadRequest, 0, msgIncompleteData},
		{
			"upstream failure",
			compareBody,
			apperrors.UpstreamFailure("gemini-2.5-flash", errors.New("API key expired: sk-secret")),
			http.StatusInternalServerError, 1, msgComparisonFailed,
		},
		{
			"no text",
			compareBody,
			apperrors.EmptyCompletion("gemini-2.5-flash", "SAFETY").WithCause(compare.ErrNoText),
			http.StatusInternalServerError, 1, msgComparisonFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeComparator{text: "<b>Go</b> is simpler.", err: tt.cmpErr}
			srv := newTestServer(t, Options{Comparator: fake})

			resp, body := postJSON(t, srv, "/api/compare", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", resp.StatusCode, tt.wantStatus, body)
			}
			if fake.callCount() != tt.wantCalls {
				t.Errorf("comparator calls = %d, want %d", fake.callCount(), tt.wantCalls)
			}
			if !strings.Contains(string(body), tt.wantBody) {
				t.Errorf("body %s does not contain %q", body, tt.wantBody)
			}
			if strings.Contains(string(body), "sk-secret") {
				t.Error("upstream detail leaked to the client")
			}
		})
	}
}

// fakeGemini answers generateContent requests with a fixed status and body.
type fakeGemini struct {
	status int
	body   string

	mu     sync.Mutex
	calls  int
	prompt string
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, ":generateContent") {
		http.NotFound(w, r)
		return
	}
	raw, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls++
	f.prompt = string(raw)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = io.WriteString(w, f.body)
}

func (f *fakeGemini) stats() (int, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.prompt
}

func newGeminiService(t *testing.T, upstream *fakeGemini, m *metrics.Metrics) *compare.Service {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	gen, err := compare.NewGemini(context.Background(), compare.GeminiOptions{
		APIKey:     "test-key",
		Model:      config.DefaultModel,
		BaseURL:    srv.URL + "/",
		HTTPClient: srv.Client(),
		Metrics:    m,
	})
	if err != nil {
		t.Fatalf("NewGemini() error = %v", err)
	}
	return compare.NewService(gen, prompt.NewBuilder(prompt.Default(prompt.StyleWeb)), m)
}

func TestCompare_ThroughGemini(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantText   string
	}{
		{
			name:       "first candidate text",
			status:     http.StatusOK,
			body:       `{"candidates":[{"content":{"role":"model","parts":[{"text":"<b>Go</b> for services."}]},"finishReason":"STOP"}]}`,
			wantStatus: http.StatusOK,
			wantText:   "<b>Go</b> for services.",
		},
		{
			name:       "upstream error status",
			status:     http.StatusForbidden,
			body:       `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "no candidates",
			status:     http.StatusOK,
			body:       `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := &fakeGemini{status: tt.status, body: tt.body}
			m := metrics.New()
			srv := newTestServer(t, Options{Comparator: newGeminiService(t, upstream, m), Metrics: m})

			resp, body := postJSON(t, srv, "/api/compare", compareBody)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, tt.wantStatus, body)
			}
			calls, sent := upstream.stats()
			if calls != 1 {
				t.Errorf("upstream calls = %d, want exactly 1", calls)
			}
			if !strings.Contains(sent, "Senior Tech Specialist") {
				t.Error("system instruction not sent upstream")
			}
			if tt.wantStatus == http.StatusOK {
				if got := decode[compareResponse](t, body).Comparison; got != tt.wantText {
					t.Errorf("comparison = %q, want %q", got, tt.wantText)
				}
				return
			}
			if e := decode[errorResponse](t, body); e.Error != msgComparisonFailed {
				t.Errorf("error = %q, want generic message", e.Error)
			}
		})
	}
}

func TestCompare_InvalidNeverReachesGemini(t *testing.T) {
	upstream := &fakeGemini{status: http.StatusOK, body: `{}`}
	srv := newTestServer(t, Options{Comparator: newGeminiService(t, upstream, nil)})

	resp, _ := postJSON(t, srv, "/api/compare", `{"tech1":{"nome":"Go"}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if calls, _ := upstream.stats(); calls != 0 {
		t.Errorf("upstream calls = %d, want 0", calls)
	}
}

func postForm(t *testing.T, srv *httptest.Server, values url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := srv.Client().PostForm(srv.URL+"/compare", values)
	if err != nil {
		t.Fatalf("POST /compare: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestCompareForm(t *testing.T) {
	t.Run("renders the answer", func(t *testing.T) {
		fake := &fakeComparator{text: "<b>Go</b> vs <i>C</i>"}
		srv := newTestServer(t, Options{Comparator: fake})

		resp, body := postForm(t, srv, url.Values{"tech1": {"go"}, "tech2": {"C"}})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if diff := cmp.Diff([][2]string{{"Go", "C"}}, fake.calls); diff != "" {
			t.Errorf("calls mismatch (-want +got):\n%s", diff)
		}
		if !strings.Contains(body, "<b>Go</b> vs &lt;i&gt;C&lt;/i&gt;") {
			t.Error("answer should keep <b> and escape other markup")
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		fake := &fakeComparator{}
		srv := newTestServer(t, Options{Comparator: fake})

		resp, body := postForm(t, srv, url.Values{"tech1": {"Go"}, "tech2": {"Fortran"}})
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
		if fake.callCount() != 0 {
			t.Error("comparator should not be called")
		}
		if !strings.Contains(body, "technology not found: Fortran") {
			t.Error("not-found message missing")
		}
	})

	t.Run("missing name", func(t *testing.T) {
		srv := newTestServer(t, Options{})
		resp, body := postForm(t, srv, url.Values{"tech1": {"Go"}})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
		if !strings.Contains(body, msgIncompleteData) {
			t.Error("incomplete data message missing")
		}
	})
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, body := get(t, srv, "/?q=ja&level=high")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	page := string(body)
	for _, want := range []string{`id="tech-Java"`, `id="tech-JavaScript"`, `<body class="no-scroll">`, `id="modal-nivel"`} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(page, `id="tech-Python"`) {
		t.Error("search should filter out Python")
	}

	resp, _ = get(t, srv, "/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", resp.StatusCode)
	}
}

func TestCatalogUnavailable(t *testing.T) {
	loadErr := apperrors.DatasetUnavailable("data.json", os.ErrNotExist)
	srv := newTestServer(t, Options{CatalogErr: loadErr})

	resp, body := get(t, srv, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("index status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "The catalog could not be loaded.") {
		t.Error("error banner missing")
	}

	for _, path := range []string{"/api/technologies", "/api/suggestions?q=g", "/data.json", "/healthz"} {
		if resp, _ := get(t, srv, path); resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("GET %s status = %d, want 503", path, resp.StatusCode)
		}
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, Options{})
	_, body := get(t, srv, "/healthz")
	if got := decode[healthResponse](t, body); got != (healthResponse{Status: "ok", Technologies: 8}) {
		t.Errorf("health = %+v", got)
	}
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	srv := newTestServer(t, Options{Metrics: m})

	get(t, srv, "/api/suggestions?q=g")
	get(t, srv, "/api/technologies/nope")
	_, body := get(t, srv, "/metrics")

	for _, want := range []string{
		`techcat_http_requests_total{code="200",method="GET",route="GET /api/suggestions"} 1`,
		`techcat_http_requests_total{code="404",method="GET",route="GET /api/technologies/{name}"} 1`,
		`techcat_catalog_technologies 8`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestMetrics_Disabled(t *testing.T) {
	srv := newTestServer(t, Options{})
	if resp, _ := get(t, srv, "/metrics"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without metrics", resp.StatusCode)
	}
}

func TestMiddleware(t *testing.T) {
	srv := newTestServer(t, Options{Config: config.ServerConfig{CORSOrigin: "https://example.com"}})

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/compare", nil)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("allow origin = %q", got)
	}

	resp, _ = get(t, srv, "/healthz")
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Error("response should carry a generated request ID")
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err = srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("request ID = %q, want the caller's", got)
	}
}

func TestServe_Shutdown(t *testing.T) {
	s, err := New(Options{
		Config:     config.ServerConfig{ShutdownTimeout: time.Second},
		Catalog:    loadCatalog(t),
		Comparator: &fakeComparator{},
		Logger:     logging.NewNoop(),
	})
	if err != nil {
		t.Fatal(err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
