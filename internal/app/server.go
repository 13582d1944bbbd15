package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vk/verapi/internal/facade"
)

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Handler returns the introspection routes:
//
//	GET /health
//	GET /versions
//	GET /v/{version}
//	GET /v/{version}/{name}
//
// A numeric code is addressed as an escaped '#', e.g. /v/%2320100.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(a.requestLogger)

	r.Get("/health", a.healthHandler)
	r.Get("/versions", a.versionsHandler)
	r.Get("/v/{version}", a.bundleHandler)
	r.Get("/v/{version}/{name}", a.apiHandler)
	return r
}

func (a *App) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.logger.Debug("Introspection request served.",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"remote_addr", r.RemoteAddr,
		)
	})
}

func (a *App) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) versionsHandler(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusOK, a.Report())
}

func (a *App) bundleHandler(w http.ResponseWriter, r *http.Request) {
	query, err := versionParam(r)
	if err != nil {
		renderError(w, http.StatusBadRequest, err)
		return
	}
	report, err := a.BundleReport(query)
	if err != nil {
		renderError(w, statusFor(err), err)
		return
	}
	renderJSON(w, http.StatusOK, report)
}

func (a *App) apiHandler(w http.ResponseWriter, r *http.Request) {
	query, err := versionParam(r)
	if err != nil {
		renderError(w, http.StatusBadRequest, err)
		return
	}
	report, err := a.APIReport(query, chi.URLParam(r, "name"))
	if err != nil {
		renderError(w, statusFor(err), err)
		return
	}
	renderJSON(w, http.StatusOK, report)
}

func versionParam(r *http.Request) (string, error) {
	v, err := url.PathUnescape(chi.URLParam(r, "version"))
	if err != nil {
		return "", fmt.Errorf("malformed version parameter: %w", err)
	}
	return v, nil
}

func statusFor(err error) int {
	var unknown *facade.UnknownVersionError
	var missing *facade.NameNotFoundError
	switch {
	case errors.As(err, &unknown), errors.As(err, &missing):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func renderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func renderError(w http.ResponseWriter, status int, err error) {
	renderJSON(w, status, errorResponse{Error: http.StatusText(status), Message: err.Error()})
}

// Serve runs the introspection server until ctx is cancelled, then shuts it
// down gracefully. It returns nil when the port is disabled.
func (a *App) Serve(ctx context.Context) error {
	if a.cfg.Port <= 0 {
		a.logger.Warn("Introspection server not started: disabled")
		return nil
	}
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.Port))
	if err != nil {
		return fmt.Errorf("introspection server: %w", err)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (a *App) ServeListener(ctx context.Context, ln net.Listener) error {
	a.httpServer = &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Introspection server starting", "address", fmt.Sprintf("http://%s/versions", ln.Addr()))
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Error("Introspection server failed unexpectedly", "error", err)
		}
		return err
	case <-ctx.Done():
	}
	return a.closeServer()
}

func (a *App) closeServer() error {
	if a.httpServer == nil {
		a.logger.Debug("Introspection server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()

	a.logger.Info("Shutting down introspection server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("Introspection server shutdown failed", "error", err)
		return err
	}
	a.logger.Debug("Introspection server shut down gracefully.")
	return nil
}
