package server

import (
	"log/slog"
	"net/http"
	"time"
)

func New(port string, staticDir string, handlers *Handlers, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/categories", handlers.HandleCategories)
	mux.HandleFunc("/api/joke", handlers.HandleJoke)
	mux.HandleFunc("/api/status", handlers.HandleStatus)
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           requestLogger(logger, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("server_listening", "url", "http://localhost:"+port)
	return srv
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"latency", time.Since(startedAt),
		}
		switch {
		case rec.status >= 500:
			logger.Error("http_request", fields...)
		case rec.status >= 400:
			logger.Warn("http_request", fields...)
		default:
			logger.Debug("http_request", fields...)
		}
	})
}
