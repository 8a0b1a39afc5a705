package main

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// shutdownToken returns JOBSEARCH_SHUTDOWN_TOKEN or a fresh token written to
// <dataDir>/shutdown.token for local tooling to read.
func shutdownToken(dataDir string) (string, error) {
	if t := strings.TrimSpace(os.Getenv("JOBSEARCH_SHUTDOWN_TOKEN")); t != "" {
		return t, nil
	}
	t, err := randomToken(16)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dataDir, "shutdown.token"), []byte(t+"\n"), 0o600); err != nil {
		return "", err
	}
	return t, nil
}

func shutdownHandler(token string, srv *http.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		got := r.Header.Get("X-Shutdown-Token")
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Respond first, then shut down asynchronously.
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("shutting down\n"))

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				slog.Warn("engine: shutdown", "err", err)
			}
		}()
	}
}
