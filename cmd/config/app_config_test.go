package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"food-reader/domain"
	"food-reader/internal/utils"
	"food-reader/pkg/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	path      string
	requestID string
	body      map[string]any
}

func TestNewAppEndToEnd(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{path: r.URL.Path, requestID: r.Header.Get(domain.HeaderRequestID)}
		if r.Method == http.MethodPost {
			_ = json.NewDecoder(r.Body).Decode(&call.body)
		}
		mu.Lock()
		calls = append(calls, call)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/calculate-intake":
			_, _ = io.WriteString(w, `{"calories":2450.75,"protein_g":150,"fat_g":81.5,"sugar_g":61.25}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/calculate-intake":
			_, _ = io.WriteString(w, `[{"id":1,"calories":2450.75}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	logFile := filepath.Join(t.TempDir(), "logs", "access.log")
	cfg := utils.Config{
		AppAddr:          ":0",
		BackendURL:       srv.URL,
		BackendAPIPrefix: "/api",
		SessionTTL:       "30m",
		IntakeHistory:    true,
		LogFile:          logFile,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := backend.NewBackendService(backend.Options{BaseURL: cfg.BackendURL, APIPrefix: cfg.BackendAPIPrefix})
	app, err := NewApp(ctx, cfg, svc)
	require.NoError(t, err)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/calculate-intake", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var cookie *http.Cookie
	for _, ck := range res.Cookies() {
		if ck.Name == domain.CookieWorkspace {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)

	form := url.Values{"user_id": {"7"}, "age": {"30"}, "height_cm": {"180"}, "weight_kg": {""}, "gender": {"male"}, "activity_level": {"high"}}
	req := httptest.NewRequest(http.MethodPost, "/calculate-intake", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	res, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	postID := res.Header.Get(domain.HeaderRequestID)
	require.NotEmpty(t, postID)

	req = httptest.NewRequest(http.MethodGet, "/calculate-intake", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	res, err = app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `<span id="calories">2450.75</span>`)
	assert.Contains(t, string(body), `<span id="sugar_g">61.25</span>`)
	assert.Contains(t, string(body), `<ul id="intake-history">`)

	mu.Lock()
	defer mu.Unlock()
	var submitted *recordedCall
	for i := range calls {
		if calls[i].body != nil {
			submitted = &calls[i]
		}
	}
	require.NotNil(t, submitted)
	assert.Equal(t, "/api/calculate-intake", submitted.path)
	assert.Equal(t, postID, submitted.requestID)
	assert.Equal(t, float64(7), submitted.body["user_id"])
	assert.Equal(t, float64(180), submitted.body["height_cm"])
	assert.Equal(t, "", submitted.body["weight_kg"])
	assert.Equal(t, "male", submitted.body["gender"])

	logged, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logged), postID)
	assert.Contains(t, string(logged), "/calculate-intake")
}

func TestNewAppRateLimit(t *testing.T) {
	cfg := utils.Config{
		BackendURL:   "http://127.0.0.1:1",
		RateLimitMax: 2,
		SessionTTL:   "30m",
		LogFile:      filepath.Join(t.TempDir(), "access.log"),
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := NewApp(ctx, cfg, backend.NewBackendService(backend.Options{BaseURL: cfg.BackendURL}))
	require.NoError(t, err)

	var codes []int
	for i := 0; i < 3; i++ {
		res, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
		require.NoError(t, err)
		codes = append(codes, res.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestLogOutput(t *testing.T) {
	w, err := logOutput("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, w)

	path := filepath.Join(t.TempDir(), "nested", "dir", "app.log")
	w, err = logOutput(path)
	require.NoError(t, err)
	defer w.(*os.File).Close()
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewAppAcceptsLargeUpload(t *testing.T) {
	var (
		mu       sync.Mutex
		hits     int
		received int64
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile(domain.FieldImageFile)
		if err == nil {
			n, _ := io.Copy(io.Discard, file)
			mu.Lock()
			received = n
			mu.Unlock()
		}
		mu.Lock()
		hits++
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"certainty":0.9,"food_name":"pizza","calories_Kcal":285,"fat_in_g":10,"protein_in_g":12,"sugar_in_g":3}`)
	}))
	defer srv.Close()

	cfg := utils.Config{
		BackendURL: srv.URL,
		SessionTTL: "30m",
		LogFile:    filepath.Join(t.TempDir(), "access.log"),
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := NewApp(ctx, cfg, backend.NewBackendService(backend.Options{BaseURL: cfg.BackendURL, APIPrefix: "/api"}))
	require.NoError(t, err)

	photo := bytes.Repeat([]byte{0xff}, 6<<20)
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(domain.FieldImageFile, "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write(photo)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze-image", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hits)
	assert.Equal(t, int64(len(photo)), received)
}

func TestConnectBackendUsesConfig(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		if r.URL.Path == "/v2/calculate-intake" {
			time.Sleep(200 * time.Millisecond)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"message":"pong"}`)
	}))
	defer srv.Close()

	cfg := utils.Config{
		BackendURL:       srv.URL,
		BackendAPIPrefix: "v2",
		BackendTimeout:   "50ms",
	}
	svc := ConnectBackend(context.Background(), cfg)
	mu.Lock()
	assert.Equal(t, []string{"/v2/ping"}, paths, "startup ping")
	mu.Unlock()

	res, err := svc.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pong", res.Message)

	_, err = svc.CalculateIntake(context.Background(), domain.IntakeRequest{})
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable, "configured timeout applies")
}
