package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/roster-hub/config"
	"github.com/alem-hub/roster-hub/internal/domain/shared"
	"github.com/alem-hub/roster-hub/pkg/logger"
)

func testConfig(t *testing.T, files map[string]string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return &config.Config{
		App: config.AppConfig{Name: "roster-hub", Version: "test", ShutdownTimeout: time.Second},
		Bootstrap: config.BootstrapConfig{
			Source:          config.SourceFile,
			Dir:             dir,
			ProfileDocument: "user.json",
			RosterDocument:  "friends.json",
		},
		HTTP:          config.HTTPConfig{Host: "127.0.0.1", Port: 0, AllowedOrigins: []string{"*"}},
		Observability: config.ObservabilityConfig{LogLevel: "info", LogFormat: "json"},
	}
}

var documents = map[string]string{
	"user.json": `{"name":"Jane","email":"jane@example.com","status":"hi","availability":"Online"}`,
	"friends.json": `[
		{"name":"Bob","email":"bob@example.com","status":"","availability":"Busy"},
		{"name":"Zoe","email":"zoe@example.com","status":"","availability":"Offline"}
	]`,
}

func TestNewApp_ServesLoadedState(t *testing.T) {
	cfg := testConfig(t, documents)

	a, err := newApp(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer a.close()

	assert.Equal(t, 2, a.store.Len())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/invoke/add_friend", strings.NewReader(`{"name":"Ann","email":"ann@example.com"}`))
	a.server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, a.store.Len())

	rec = httptest.NewRecorder()
	a.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/friends", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Less(t, strings.Index(body, "ann@example.com"), strings.Index(body, "bob@example.com"))
}

func TestNewApp_AbortsOnLoadError(t *testing.T) {
	cfg := testConfig(t, map[string]string{"user.json": documents["user.json"]})

	_, err := newApp(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
	assert.True(t, shared.IsLoad(err))
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t, documents)
	a, err := newApp(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestSetupLogger(t *testing.T) {
	cfg := testConfig(t, nil)
	cfg.App.Debug = true
	assert.NotNil(t, setupLogger(cfg))
}
