//go:build !js
// +build !js

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simukka/spawnfield/media"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newTestConfig(t *testing.T) ServerConfig {
	t.Helper()
	static := t.TempDir()
	dir := filepath.Join(static, "assets", "welcome")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := "harbor.png | The harbor | 1998 | Rotterdam\nnight_shift.png\n# note.png\n"
	if err := os.WriteFile(filepath.Join(dir, "manifest.txt"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "harbor.png"), pngHeader, 0o644); err != nil {
		t.Fatal(err)
	}
	return ServerConfig{
		Static:      static,
		Sets:        map[string]string{"welcome": "assets/welcome/", "empty": "assets/none/"},
		CommentSets: []string{"welcome"},
	}
}

// TestHandleManifest tests that assets are parsed and sniffed
func TestHandleManifest(t *testing.T) {
	srv := httptest.NewServer(newMux(newTestConfig(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/manifest?set=welcome")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body media.Manifest
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Set != "welcome" || len(body.Assets) != 2 {
		t.Fatalf("Expected 2 welcome assets, got %+v", body)
	}
	harbor := body.Assets[0]
	if harbor.Path != "assets/welcome/harbor.png" || harbor.Place != "Rotterdam" {
		t.Errorf("Expected the harbor record, got %+v", harbor)
	}
	if harbor.Kind != "image/png" {
		t.Errorf("Expected image/png, got %q", harbor.Kind)
	}
	if body.Assets[1].Caption != "Night Shift" || body.Assets[1].Kind != "" {
		t.Errorf("Expected generated caption and no kind for a missing file, got %+v", body.Assets[1])
	}
}

// TestHandleManifest_Errors tests unknown and missing sets
func TestHandleManifest_Errors(t *testing.T) {
	mux := newMux(newTestConfig(t))
	cases := map[string]int{
		"/api/manifest?set=nope":  http.StatusBadRequest,
		"/api/manifest":           http.StatusBadRequest,
		"/api/manifest?set=empty": http.StatusNotFound,
	}
	for url, want := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
		if rec.Code != want {
			t.Errorf("Expected %d for %s, got %d", want, url, rec.Code)
		}
	}
}

// TestIndexAndHealth tests the embedded page and the health check
func TestIndexAndHealth(t *testing.T) {
	mux := newMux(newTestConfig(t))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "spawnfield.js") {
		t.Errorf("Expected the embedded page, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("Expected healthy status, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/welcome/harbor.png", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected static file, got %d", rec.Code)
	}
}

// TestLoadConfig tests defaults and environment overrides
func TestLoadConfig(t *testing.T) {
	t.Setenv("SPAWNFIELD_PORT", "9090")
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Expected port from env, got %d", cfg.Port)
	}
	if cfg.Sets["movie"] != "assets/visual/welcome/movie/" || !cfg.skipComments("directed") {
		t.Errorf("Expected default sets, got %+v", cfg)
	}

	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("static: /srv/site\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Static != "/srv/site" {
		t.Errorf("Expected static from file, got %s", cfg.Static)
	}
}
