//go:build !js
// +build !js

package main

import (
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"github.com/simukka/spawnfield/media"
)

//go:embed index.html
var indexHTML []byte

// sniffKind reads the header of the file behind an asset path and returns
// its MIME type, or "" when the file is missing or unrecognized.
func sniffKind(static, assetPath string) string {
	kind, err := filetype.MatchFile(filepath.Join(static, filepath.FromSlash(assetPath)))
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}

// handleManifest parses the manifest of the requested set.
func handleManifest(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set := r.URL.Query().Get("set")
		dir, ok := cfg.Sets[set]
		if !ok {
			http.Error(w, "unknown set", http.StatusBadRequest)
			return
		}

		f, err := os.Open(filepath.Join(cfg.Static, filepath.FromSlash(dir), "manifest.txt"))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				http.Error(w, "manifest not found", http.StatusNotFound)
				return
			}
			http.Error(w, "manifest unavailable", http.StatusInternalServerError)
			return
		}
		defer f.Close()

		assets, err := media.ParseManifest(f, dir, cfg.skipComments(set))
		if err != nil {
			log.Printf("Manifest %s: %v", set, err)
			http.Error(w, "manifest unreadable", http.StatusInternalServerError)
			return
		}
		for i := range assets {
			assets[i].Kind = sniffKind(cfg.Static, assets[i].Path)
		}
		if assets == nil {
			assets = []media.Asset{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		json.NewEncoder(w).Encode(media.Manifest{Set: set, Assets: assets})
	}
}

func newMux(cfg ServerConfig) *http.ServeMux {
	mux := http.NewServeMux()

	// Serve embedded index.html at root path
	static := http.FileServer(http.Dir(cfg.Static))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "/index.html" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(indexHTML)
			return
		}
		// Serve other static files from disk
		static.ServeHTTP(w, r)
	})

	mux.HandleFunc("/api/manifest", handleManifest(cfg))

	// Health check
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})
	return mux
}

func main() {
	configPath := flag.String("config", "", "Optional config file (yaml, toml or json)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	staticDir := flag.String("static", "", "Directory to serve static files from (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *staticDir != "" {
		cfg.Static = *staticDir
	}
	for name, dir := range cfg.Sets {
		if !strings.HasSuffix(dir, "/") {
			cfg.Sets[name] = dir + "/"
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Spawnfield server starting on http://localhost%s", addr)
	log.Printf("Serving static files from %s", cfg.Static)
	if err := http.ListenAndServe(addr, newMux(cfg)); err != nil {
		log.Fatal(err)
	}
}
