package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/gorilla/csrf"

	"achievebot/internal/backend"
	"achievebot/internal/config"
	"achievebot/internal/controller"
	"achievebot/internal/logger"
	"achievebot/internal/metrics"
	"achievebot/internal/session"
	"achievebot/internal/storage"
	"achievebot/internal/views"
)

func main() {
	cfg := config.MustLoad()

	log := logger.SetupLogger(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	slog.Info("config loaded",
		"env", cfg.Env,
		"addr", cfg.HTTPServer.Address,
		"backend_url", cfg.Backend.BaseURL,
		"session_driver", cfg.Session.Driver,
		"fallback_on_error", cfg.UI.FallbackOnError,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kv, err := storage.Open(ctx, cfg.Session)
	if err != nil {
		slog.Error("failed to open session store", "driver", cfg.Session.Driver, "err", err)
		os.Exit(1)
	}
	defer kv.Close()

	rec := metrics.New()
	api := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithObserver(rec),
		backend.WithHTTPClient(&http.Client{Timeout: cfg.Backend.Timeout}),
	)
	sessions := session.NewManager(kv, cfg.Session, cfg.CSRF.Secure)
	h := controller.New(api, sessions, rec, cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Content-Type", "X-CSRF-Token", "HX-Request", "HX-Target", "HX-Current-URL"},
			ExposedHeaders:   []string{"HX-Redirect", "HX-Trigger"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", rec.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", views.Static()))

	r.Group(func(r chi.Router) {
		if cfg.CSRF.Enabled {
			r.Use(csrfProtect(cfg.CSRF))
		}
		h.Routes(r)
	})

	srv := &http.Server{
		Addr:        cfg.HTTPServer.Address,
		Handler:     r,
		ReadTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout: cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		slog.Info("starting web server", "addr", cfg.HTTPServer.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("web server error", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down web server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("web server shutdown error", "err", err)
	}
}

// csrfProtect guards unsafe methods. Unless csrf.secure is set the site is
// served over plain http, and the origin check has to be told so.
func csrfProtect(cfg config.CSRF) func(http.Handler) http.Handler {
	protect := csrf.Protect([]byte(cfg.Key),
		csrf.Secure(cfg.Secure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailed)),
	)
	if cfg.Secure {
		return protect
	}
	return func(next http.Handler) http.Handler {
		h := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

func csrfFailed(w http.ResponseWriter, r *http.Request) {
	slog.WarnContext(r.Context(), "csrf check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
	render.Status(r, http.StatusForbidden)
	render.PlainText(w, r, "요청이 만료되었습니다. 페이지를 새로고침해 주세요.")
}
