package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/QuickScan/internal/api"
	"github.com/soaringjerry/QuickScan/internal/config"
)

const legacyJSON = `[
  {"name":"Anna","email":"Anna@Example.nl","company":"BV","createdAt":"2024-03-01T10:00:00Z",
   "answers":[{"questionId":1,"value":"fully_implemented"},{"questionId":6,"value":20}]},
  {"name":"Bram","email":"bram@example.nl","created_at":"2024-03-02T10:00:00Z",
   "answers":[{"question_id":1,"value":"no"}]},
  {"name":"Broken","email":"x@example.nl","answers":[{"questionId":999,"value":"a"}]}
]`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "legacy.json")
	require.NoError(t, os.WriteFile(p, []byte(legacyJSON), 0o600))
	return p
}

func TestImportLegacySnapshot(t *testing.T) {
	store := api.NewMemoryStore()
	rt := api.NewRouterWithStore(store, api.Options{})
	n, err := ImportLegacySnapshot(writeSnapshot(t), store, rt.Scans())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, store.CountScans())

	list, err := rt.Scans().List("anna@example.nl")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 8, list[0].Result.TotalScore)
	assert.Equal(t, 2024, list[0].CreatedAt.Year())

	again, err := ImportLegacySnapshot(writeSnapshot(t), store, rt.Scans())
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestImportLegacySnapshotNoop(t *testing.T) {
	store := api.NewMemoryStore()
	rt := api.NewRouterWithStore(store, api.Options{})
	n, err := ImportLegacySnapshot("", store, rt.Scans())
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = ImportLegacySnapshot(filepath.Join(t.TempDir(), "missing.json"), store, rt.Scans())
	require.NoError(t, err)
	assert.Zero(t, n)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = ImportLegacySnapshot(bad, store, rt.Scans())
	assert.Error(t, err)
}

func TestHandlerHealthAndHeaders(t *testing.T) {
	cfg := config.Config{DBDriver: config.DriverMemory, Commit: "abc123"}
	store, closeStore, err := openStore(cfg)
	require.NoError(t, err)
	defer closeStore()
	h := newHandler(cfg, api.NewRouterWithStore(store, api.Options{}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "en", body["locale"])
	assert.Equal(t, "abc123", body["commit"])
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quick-scan/questions", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
	assert.Equal(t, "1.0", rec.Header().Get("X-API-Version"))
}

func TestWireAWSDisabledByDefault(t *testing.T) {
	var opts api.Options
	require.NoError(t, wireAWS(config.Config{}, &opts))
	assert.Nil(t, opts.Archiver)
	assert.Nil(t, opts.Notifier)
}
