package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/inputsignal"
	"github.com/LucasCostaLobato/auditory-system-api/internal/config"
	"github.com/LucasCostaLobato/auditory-system-api/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerStack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Example4DOF.txt"),
		[]byte("1e-6 1e-6 1e-6 1e-6 1000 800 600 500 400 300 200 0.01 0.01 0.01 0.01 1e-5\n"), 0o644))

	cfg, err := config.FromEnv(func(k string) string {
		return map[string]string{
			"PARAMS_DIR":       dir,
			"REFERENCE_FIT":    "Example4DOF",
			"RATE_LIMIT_RPS":   "0.001",
			"RATE_LIMIT_BURST": "1",
		}[k]
	})
	require.NoError(t, err)

	params, err := loadParameters(t.Context(), cfg)
	require.NoError(t, err)
	signals, err := inputsignal.LoadLibrary(t.TempDir())
	require.NoError(t, err)
	h := handler(cfg, server.Deps{Repo: params, Signals: signals})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
