// Command bucketd serves a sharded key/value bucket over HTTP.
//
// Every shard is one actor; writes are casts and reads are calls.
//
//	curl -X PUT localhost:8181/kv/a -d '1'
//	curl localhost:8181/kv/a
//	curl localhost:8181/kv
//
// Prometheus metrics are served on METRICS_ADDR (default :2121).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	promadapter "github.com/codewandler/gensrv-go/adapters/prometheus"
	"github.com/codewandler/gensrv-go/core/actor"
	"github.com/codewandler/gensrv-go/core/bucket"
)

// === Config ===

var (
	httpAddr    = getEnv("HTTP_ADDR", ":8181")
	metricsAddr = getEnv("METRICS_ADDR", ":2121")
	numShards   = getEnvInt("SHARDS", 4)
	logLevel    = getEnv("LOG_LEVEL", "info")
)

func getEnv(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, fmt.Sprintf("%d", fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(logLevel)}))
	slog.SetDefault(log)

	if err := run(ctx, log); err != nil {
		log.Error("bucketd failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	metricsReg := prometheus.NewRegistry()
	actorMetrics := promadapter.NewActorMetrics(metricsReg)

	promMux := http.NewServeMux()
	promMux.Handle("/metrics", promhttp.HandlerFor(metricsReg, promhttp.HandlerOpts{}))
	promServer := &http.Server{Addr: metricsAddr, Handler: promMux}
	go func() {
		log.Info("metrics server starting", slog.String("addr", metricsAddr))
		if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", slog.Any("error", err))
		}
	}()
	defer promServer.Shutdown(context.Background())

	srv, err := newServer(log, actorMetrics, httpAddr, numShards)
	if err != nil {
		return err
	}
	go func() {
		log.Info("http server starting", slog.String("addr", httpAddr))
		if err := srv.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", slog.Any("error", err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.shutdown(shutdownCtx)
}

// server owns the bucket actors and the HTTP front-end. The actors do not
// follow the signal context; they are stopped by shutdown once in-flight
// requests have drained.
type server struct {
	registry   *actor.Registry
	group      *bucket.Group
	http       *http.Server
	stopActors context.CancelFunc
}

func newServer(log *slog.Logger, m actor.ActorMetrics, addr string, shards int) (*server, error) {
	actorCtx, stopActors := context.WithCancel(context.Background())

	registry := actor.NewRegistry()
	group, err := bucket.StartGroup(bucket.GroupOptions{
		Context:  actorCtx,
		Logger:   log,
		Metrics:  m,
		Registry: registry,
		Prefix:   "bucket",
		Shards:   shards,
	})
	if err != nil {
		stopActors()
		return nil, fmt.Errorf("start buckets: %w", err)
	}

	return &server{
		registry:   registry,
		group:      group,
		http:       &http.Server{Addr: addr, Handler: newMux(group, registry)},
		stopActors: stopActors,
	}, nil
}

// shutdown drains HTTP first, then stops the actors.
func (s *server) shutdown(ctx context.Context) (err error) {
	defer s.stopActors()
	if httpErr := s.http.Shutdown(ctx); httpErr != nil {
		err = fmt.Errorf("http shutdown: %w", httpErr)
	}
	return multierr.Append(err, s.registry.StopAll(ctx))
}

// =============================================================================
// HTTP Handlers
// =============================================================================

func newMux(group *bucket.Group, registry *actor.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /kv/{key}", handleGet(group))
	mux.HandleFunc("PUT /kv/{key}", handlePut(group))
	mux.HandleFunc("DELETE /kv/{key}", handleDelete(group))
	mux.HandleFunc("GET /kv", handleSnapshot(group))
	mux.HandleFunc("GET /actors", handleActors(registry))
	return mux
}

func handleGet(group *bucket.Group) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")
		v, ok, err := group.Get(r.Context(), key)
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, v)
	}
}

func handlePut(group *bucket.Group) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
			return
		}
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			// plain text bodies are stored as strings
			v = strings.TrimSpace(string(body))
		}
		if err := group.Put(r.Context(), key, v); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func handleDelete(group *bucket.Group) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := group.Delete(r.Context(), r.PathValue("key")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func handleSnapshot(group *bucket.Group) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := group.Snapshot(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, snap)
	}
}

func handleActors(registry *actor.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, registry.Names())
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, actor.ErrMalformedRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, actor.ErrDeadActor):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
