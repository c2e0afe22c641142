// Package integration exercises the HTTP API, orchestrator and Gemini adapter
// together against a fake Gemini endpoint.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/snapchef/internal/api"
	"github.com/socialchef/snapchef/internal/config"
	"github.com/socialchef/snapchef/internal/httpclient"
	"github.com/socialchef/snapchef/internal/secrets"
	"github.com/socialchef/snapchef/internal/services/gemini"
	"github.com/socialchef/snapchef/internal/services/recipe"
)

// ============================================================================
// Fake Gemini upstream
// ============================================================================

type modelReply struct {
	status int
	text   string
}

type fakeGemini struct {
	t       *testing.T
	server  *httptest.Server
	mu      sync.Mutex
	replies map[string]modelReply
	calls   []string
	keys    []string
	prompts []string
}

func newFakeGemini(t *testing.T, replies map[string]modelReply) *fakeGemini {
	t.Helper()
	f := &fakeGemini{t: t, replies: replies}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGemini) handle(w http.ResponseWriter, r *http.Request) {
	model := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	model = strings.TrimSuffix(model, ":generateContent")

	raw, _ := io.ReadAll(r.Body)
	var body struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.calls = append(f.calls, model)
	f.keys = append(f.keys, r.Header.Get("x-goog-api-key"))
	if len(body.Contents) > 0 && len(body.Contents[0].Parts) > 0 {
		f.prompts = append(f.prompts, body.Contents[0].Parts[0].Text)
	}
	reply, ok := f.replies[model]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		reply = modelReply{status: http.StatusNotFound}
	}
	if reply.status != http.StatusOK {
		w.WriteHeader(reply.status)
		fmt.Fprintf(w, `{"error":{"code":%d,"message":"model %s failed","status":"%s"}}`,
			reply.status, model, http.StatusText(reply.status))
		return
	}
	resp := map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": reply.text}},
			},
		}},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeGemini) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// ============================================================================
// Service wiring
// ============================================================================

type testEnv struct {
	cfg     *config.Config
	handler http.Handler
	gemini  *fakeGemini
}

func newTestEnv(t *testing.T, models []string, replies map[string]modelReply, jwtSecret string) *testEnv {
	t.Helper()
	fake := newFakeGemini(t, replies)

	cfg := &config.Config{
		Env:          "test",
		ServiceName:  "snapchef",
		APIJWTSecret: jwtSecret,
		SecretsFile:  filepath.Join(t.TempDir(), "secrets.yaml"),
		Generation: config.GenerationConfig{
			Models:         models,
			RequestTimeout: 5 * time.Second,
			BaseURL:        fake.server.URL + "/",
		},
	}

	factory := gemini.NewFactory(gemini.Options{
		HTTPClient: httpclient.NewInstrumentedClient(cfg.Generation.RequestTimeout),
		BaseURL:    cfg.Generation.BaseURL,
	})
	orchestrator, err := recipe.NewFromConfig(cfg.Generation, secrets.Default(cfg.SecretsFile), factory)
	require.NoError(t, err)

	return &testEnv{
		cfg:     cfg,
		handler: api.NewRouter(api.NewServer(cfg, orchestrator)),
		gemini:  fake,
	}
}

func (e *testEnv) writeSecretsFile(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(e.cfg.SecretsFile, []byte(content), 0o600))
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

// ============================================================================
// Request helpers
// ============================================================================

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil))
	return buf.Bytes()
}

func recipeRequest(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "plate.jpg")
	require.NoError(t, err)
	_, err = fw.Write(jpegBytes(t))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/recipe", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

// ============================================================================
// Test Token Helpers
// ============================================================================

func createTestToken(secret, issuer, userID string, ttl time.Duration) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iss": issuer,
		"exp": time.Now().Add(ttl).Unix(),
	})
	tokenString, _ := token.SignedString([]byte(secret))
	return tokenString
}
