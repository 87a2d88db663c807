package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jonathan/brand-compiler/internal/brandprompt"
	"github.com/jonathan/brand-compiler/internal/compiler"
	"github.com/jonathan/brand-compiler/internal/config"
	"github.com/jonathan/brand-compiler/internal/copygen"
	"github.com/jonathan/brand-compiler/internal/db"
	"github.com/jonathan/brand-compiler/internal/registry"
	"github.com/jonathan/brand-compiler/internal/server/middleware"
	"github.com/jonathan/brand-compiler/internal/server/ratelimit"
	"github.com/jonathan/brand-compiler/internal/types"
)

const tempoInputs = `{
	"q1_core_what": "Tempo is a habit tracker for busy parents",
	"q2_audience_who": "Busy parents juggling work and kids",
	"q8_banned_words": "guru, ninja"
}`

// fakeStore is an in-memory Store.
type fakeStore struct {
	mu       sync.Mutex
	sprints  map[string]*db.Sprint
	copies   map[string]*db.CopyRecord
	saveErr  error
	pingErr  error
	saved    int
	copySave int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sprints: make(map[string]*db.Sprint),
		copies:  make(map[string]*db.CopyRecord),
	}
}

func (f *fakeStore) SaveSprint(_ context.Context, in *db.SprintInput) (*db.Sprint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved++
	key := in.UserID.String() + "/" + in.InputHash
	if existing, ok := f.sprints[key]; ok {
		return existing, nil
	}
	sprint := &db.Sprint{
		ID:        uuid.New(),
		UserID:    in.UserID,
		InputHash: in.InputHash,
		Inputs:    in.Inputs,
		Spec:      in.Spec,
		SpecHash:  in.SpecHash,
		Markdown:  in.Markdown,
		Assets:    in.Assets,
	}
	f.sprints[key] = sprint
	return sprint, nil
}

func (f *fakeStore) GetSprint(_ context.Context, userID uuid.UUID, inputHash string) (*db.Sprint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sprints[userID.String()+"/"+inputHash], nil
}

func (f *fakeStore) ListSprints(_ context.Context, userID uuid.UUID, limit int) ([]db.Sprint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Sprint
	for _, s := range f.sprints {
		if s.UserID == userID && len(out) < limit {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) SaveCopy(_ context.Context, specHash string, assets types.BrandAssets, model string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copySave++
	f.copies[specHash] = &db.CopyRecord{SpecHash: specHash, Assets: assets, Model: model}
	return nil
}

func (f *fakeStore) GetCopy(_ context.Context, specHash string) (*db.CopyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copies[specHash], nil
}

func (f *fakeStore) Ping(context.Context) error {
	return f.pingErr
}

// fakeCopier returns the fallback assets with a marked one-liner.
type fakeCopier struct {
	calls int
	err   error
}

func (f *fakeCopier) Generate(_ context.Context, _ types.BrandSpec, _ types.MixedStyleSpec, fallback types.BrandAssets) (*copygen.Copy, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	assets := fallback
	assets.OneLiner = "Tempo keeps family habits on track."
	return &copygen.Copy{Assets: assets, Model: "fake-standard"}, nil
}

type testServer struct {
	*Server
	store  *fakeStore
	copier *fakeCopier
}

func newTestServer(t *testing.T, mutate func(*Options)) *testServer {
	t.Helper()
	reg, err := registry.Embedded()
	require.NoError(t, err)

	store := newFakeStore()
	copier := &fakeCopier{}
	opts := Options{
		Config:   config.ServerConfig{Port: 0, CacheSize: 16, ShutdownTimeout: time.Second},
		Compiler: compiler.New(reg, nil),
		Registry: reg,
		Store:    store,
		Copier:   copier,
	}
	if mutate != nil {
		mutate(&opts)
	}

	s, err := New(opts)
	require.NoError(t, err)
	return &testServer{Server: s, store: store, copier: copier}
}

func (ts *testServer) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNew_RequiresCompiler(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	t.Run("no store", func(t *testing.T) {
		ts := newTestServer(t, func(o *Options) { o.Store = nil; o.Copier = nil })
		rec := ts.do(http.MethodGet, "/health", "", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decode[map[string]string](t, rec)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "disabled", body["database"])
		assert.Equal(t, "disabled", body["copy"])
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("database down", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.store.pingErr = errors.New("connection refused")
		rec := ts.do(http.MethodGet, "/health", "", nil)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decode[map[string]string](t, rec)
		assert.Equal(t, "degraded", body["status"])
		assert.Equal(t, "unavailable", body["database"])
		assert.Equal(t, "enabled", body["copy"])
	})
}

func TestCompile_CachesByInputHash(t *testing.T) {
	ts := newTestServer(t, nil)

	first := ts.do(http.MethodPost, "/v1/compile", tempoInputs, nil)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	firstBody := decode[map[string]any](t, first)
	assert.Equal(t, false, firstBody["cached"])
	assert.NotEmpty(t, firstBody["specHash"])
	assert.Contains(t, firstBody, "brandSpec")
	assert.NotContains(t, firstBody, "sprintId")

	// Key order and whitespace do not change the input hash.
	reordered := `{"q8_banned_words":"guru, ninja","q2_audience_who":"Busy parents juggling work and kids","q1_core_what":"Tempo is a habit tracker for busy parents"}`
	second := ts.do(http.MethodPost, "/v1/compile", reordered, nil)
	require.Equal(t, http.StatusOK, second.Code)
	secondBody := decode[map[string]any](t, second)
	assert.Equal(t, true, secondBody["cached"])
	assert.Equal(t, firstBody["specHash"], secondBody["specHash"])
	assert.Equal(t, 0, ts.store.saved)
}

func TestCompile_PersistsSprintForUser(t *testing.T) {
	ts := newTestServer(t, nil)
	userID := uuid.New().String()
	headers := map[string]string{middleware.UserIDHeader: userID}

	rec := ts.do(http.MethodPost, "/v1/compile", tempoInputs, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	sprintID, _ := body["sprintId"].(string)
	_, err := uuid.Parse(sprintID)
	require.NoError(t, err)

	again := decode[map[string]any](t, ts.do(http.MethodPost, "/v1/compile", tempoInputs, headers))
	assert.Equal(t, sprintID, again["sprintId"])
	assert.Equal(t, 2, ts.store.saved)

	inputHash := body["inputHash"].(string)
	got := ts.do(http.MethodGet, "/v1/sprints/"+inputHash, "", headers)
	require.Equal(t, http.StatusOK, got.Code)
	sprint := decode[db.Sprint](t, got)
	assert.Equal(t, sprintID, sprint.ID.String())
	assert.Equal(t, "Tempo is a habit tracker for busy parents", sprint.Inputs.Description)

	list := ts.do(http.MethodGet, "/v1/sprints?limit=5", "", headers)
	require.Equal(t, http.StatusOK, list.Code)
	listBody := decode[map[string]any](t, list)
	assert.EqualValues(t, 1, listBody["count"])
}

func TestCompile_SaveFailureStillReturnsResult(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.store.saveErr = errors.New("disk full")

	rec := ts.do(http.MethodPost, "/v1/compile", tempoInputs, map[string]string{
		middleware.UserIDHeader: uuid.New().String(),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, decode[map[string]any](t, rec), "sprintId")
}

func TestCompile_BadRequests(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name    string
		body    string
		headers map[string]string
		want    string
	}{
		{name: "empty body", body: "", want: "request body is required"},
		{name: "not an object", body: `["tempo"]`, want: "invalid request body"},
		{name: "bad user id", body: tempoInputs, headers: map[string]string{middleware.UserIDHeader: "nope"}, want: "X-User-ID must be a UUID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodPost, "/v1/compile", tt.body, tt.headers)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestCompile_MissingDescriptionIsAWarning(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/v1/compile", `{"q2_audience_who":"Indie developers"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.NotEmpty(t, body["warnings"])
}

func TestMixTones(t *testing.T) {
	ts := newTestServer(t, nil)

	sage, ok := ts.reg.ToneSheet("sage")
	require.True(t, ok)
	inline, err := json.Marshal(map[string]any{
		"sheets":  []types.ToneStyleSheet{sage},
		"weights": []float64{1},
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "registry ids", body: `{"toneIds":["sage","creator"],"weights":[0.7,0.3]}`, wantStatus: http.StatusOK, wantBody: "banned_lexicon"},
		{name: "inline sheet", body: string(inline), wantStatus: http.StatusOK, wantBody: "instructions"},
		{name: "unknown id", body: `{"toneIds":["pirate"],"weights":[1]}`, wantStatus: http.StatusBadRequest, wantBody: `unknown tone sheet \"pirate\"`},
		{name: "weight count mismatch", body: `{"toneIds":["sage","creator"],"weights":[1]}`, wantStatus: http.StatusBadRequest, wantBody: "tone mix contract error"},
		{name: "negative weight", body: `{"toneIds":["sage"],"weights":[-1]}`, wantStatus: http.StatusBadRequest, wantBody: "weights[0]"},
		{name: "missing weights", body: `{"toneIds":["sage"]}`, wantStatus: http.StatusBadRequest, wantBody: "weights"},
		{name: "no sheets", body: `{"weights":[1]}`, wantStatus: http.StatusBadRequest, wantBody: "at least one tone sheet"},
		{name: "both sources", body: `{"toneIds":["sage"],"sheets":[{}],"weights":[1]}`, wantStatus: http.StatusBadRequest, wantBody: "not both"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodPost, "/v1/tone/mix", tt.body, nil)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestCopy(t *testing.T) {
	t.Run("generates and stores", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec := ts.do(http.MethodPost, "/v1/copy", tempoInputs, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode[CopyResponse](t, rec)
		assert.False(t, body.Cached)
		assert.Equal(t, "fake-standard", body.Model)
		assert.Equal(t, "Tempo keeps family habits on track.", body.Assets.OneLiner)
		assert.Equal(t, 1, ts.store.copySave)

		again := decode[CopyResponse](t, ts.do(http.MethodPost, "/v1/copy", tempoInputs, nil))
		assert.True(t, again.Cached)
		assert.Equal(t, body.SpecHash, again.SpecHash)
		assert.Equal(t, 1, ts.copier.calls)
	})

	t.Run("without store", func(t *testing.T) {
		ts := newTestServer(t, func(o *Options) { o.Store = nil })

		for range 2 {
			rec := ts.do(http.MethodPost, "/v1/copy", tempoInputs, nil)
			require.Equal(t, http.StatusOK, rec.Code)
		}
		assert.Equal(t, 2, ts.copier.calls)
	})

	t.Run("not configured", func(t *testing.T) {
		ts := newTestServer(t, func(o *Options) { o.Copier = nil })

		rec := ts.do(http.MethodPost, "/v1/copy", tempoInputs, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "copy generation is not configured")
	})

	t.Run("model failure", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.copier.err = &copygen.GenerationError{Message: "failed to generate copy", Cause: errors.New("quota")}

		rec := ts.do(http.MethodPost, "/v1/copy", tempoInputs, nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, 0, ts.store.copySave)
	})
}

func TestBrandPrompt(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/v1/brand-prompt", tempoInputs, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[BrandPromptResponse](t, rec)

	assert.True(t, strings.HasPrefix(body.Prompt, "# BRAND PROMPT: "))
	assert.Equal(t, brandprompt.Checksum(body.Prompt), body.Checksum)
	assert.Len(t, body.Checksum, 8)
	assert.NotEmpty(t, body.SpecHash)
}

func TestSprints_Errors(t *testing.T) {
	user := map[string]string{middleware.UserIDHeader: uuid.New().String()}

	t.Run("requires user", func(t *testing.T) {
		ts := newTestServer(t, nil)
		rec := ts.do(http.MethodGet, "/v1/sprints", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad limit", func(t *testing.T) {
		ts := newTestServer(t, nil)
		rec := ts.do(http.MethodGet, "/v1/sprints?limit=500", "", user)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty list", func(t *testing.T) {
		ts := newTestServer(t, nil)
		rec := ts.do(http.MethodGet, "/v1/sprints", "", user)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"sprints":[],"count":0}`, rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		ts := newTestServer(t, nil)
		rec := ts.do(http.MethodGet, "/v1/sprints/deadbeef", "", user)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("no store", func(t *testing.T) {
		ts := newTestServer(t, func(o *Options) { o.Store = nil })
		rec := ts.do(http.MethodGet, "/v1/sprints", "", user)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestCompileBatch_Streams(t *testing.T) {
	ts := newTestServer(t, nil)

	body := `{"items":[` + tempoInputs + `,{"q1_core_what":"Ledgerly is bookkeeping software for freelancers"}]}`
	rec := ts.do(http.MethodPost, "/v1/compile/batch", body, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	var events []string
	scanner := bufio.NewScanner(bytes.NewReader(rec.Body.Bytes()))
	for scanner.Scan() {
		if name, ok := strings.CutPrefix(scanner.Text(), "event: "); ok {
			events = append(events, name)
		}
	}
	assert.Equal(t, []string{"result", "result", "complete"}, events)
	assert.Contains(t, rec.Body.String(), `"total":2`)
	assert.Contains(t, rec.Body.String(), `"failed":0`)
}

func TestCompileBatch_Validation(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/v1/compile/batch", `{"items":[]}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "items")
}

func TestCORS_Preflight(t *testing.T) {
	ts := newTestServer(t, func(o *Options) { o.Config.AllowedOrigin = "https://brand.example" })

	rec := ts.do(http.MethodOptions, "/v1/compile", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://brand.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-User-ID")
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()
	ts := newTestServer(t, func(o *Options) { o.Limiter = limiter })

	for i := range 2 {
		rec := ts.do(http.MethodPost, "/v1/brand-prompt", tempoInputs, nil)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := ts.do(http.MethodPost, "/v1/brand-prompt", tempoInputs, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, rec.Body.String(), "rate_limit_exceeded")

	// Health checks are never limited.
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/health", "", nil).Code)
}

func TestServe_GracefulShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	limiter := ratelimit.NewLimiter(ratelimit.DefaultConfig())
	ts := newTestServer(t, func(o *Options) { o.Limiter = limiter })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ts.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())
	client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
