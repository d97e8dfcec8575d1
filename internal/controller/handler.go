// Package controller holds one HTTP handler set per screen. Every handler
// follows the same cycle: check the caller's role, fetch from the backend,
// render the screen, and on failure notify and optionally substitute sample
// data.
package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ajg/form"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"

	"achievebot/internal/backend"
	"achievebot/internal/config"
	"achievebot/internal/metrics"
	"achievebot/internal/session"
	"achievebot/internal/ui"
	"achievebot/internal/views"
)

type Handler struct {
	api       *backend.Client
	sessions  *session.Manager
	metrics   *metrics.Recorder
	ui        config.UI
	publicURL string
	now       func() time.Time
}

func New(api *backend.Client, sessions *session.Manager, rec *metrics.Recorder, cfg *config.Config) *Handler {
	return &Handler{
		api:       api,
		sessions:  sessions,
		metrics:   rec,
		ui:        cfg.UI,
		publicURL: strings.TrimRight(cfg.PublicBackendURL(), "/"),
		now:       time.Now,
	}
}

// Routes registers every screen on r.
func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.sessions.Middleware)
		r.Use(h.withState)

		r.Get("/", h.Root)
		r.Get("/login", h.LoginPage)
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Post("/logout", h.Logout)

		r.Route("/student", func(r chi.Router) {
			r.Use(h.RequireRole(session.RoleStudent))

			r.Get("/", h.ChatPage)
			r.Post("/ask", h.Ask)
			r.Post("/analyze", h.Analyze)
			r.Get("/dashboard", h.Dashboard)
			r.Get("/grading", h.GradingPage)
			r.Post("/grading", h.SubmitGrading)
			r.Get("/grading/{id}", h.GradingDetail)
			r.Get("/portfolio", h.Portfolio)
			r.Post("/portfolio/pdf", h.PortfolioPDF)
		})

		r.Route("/teacher", func(r chi.Router) {
			r.Use(h.RequireRole(session.RoleTeacher))

			r.Get("/", h.TeacherDashboard)
			r.Get("/records", h.Records)
			r.Get("/batch-grading", h.BatchGradingPage)
			r.Post("/batch-grading", h.BatchGrade)
			r.Get("/batch-grading/export", h.ExportBatch)
			r.Get("/class-report", h.ClassReportPage)
			r.Post("/class-report", h.GenerateClassReport)
			r.Get("/class-report/{id}/download", h.DownloadClassReport)
		})
	})
}

func wantsEventStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

// withState gives the request its own UI state, seeded with any toasts
// flashed by the previous redirect. Event streams never render toasts, so the
// flash is left for the next page.
func (h *Handler) withState(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := ui.NewState(h.ui.ToastDuration, h.now)
		if store, ok := session.FromContext(r.Context()); ok && !wantsEventStream(r) {
			if err := st.Toast.Import(store.TakeFlash(r.Context())); err != nil {
				slog.WarnContext(r.Context(), "failed to restore flashed toasts", "err", err)
			}
		}
		next.ServeHTTP(w, r.WithContext(ui.WithState(r.Context(), st)))
	})
}

// RequireRole lets only callers with role through. Anonymous callers are
// sent to the login page; a wrong role gets the forbidden screen.
func (h *Handler) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := h.state(r)
			if session.CheckAuth(w, r, role, st.Toast) {
				next.ServeHTTP(w, r)
				return
			}
			p := h.page(r, st, "권한 없음", "")
			if !p.User.LoggedIn() {
				return
			}
			views.RenderWithLayout(w, r, http.StatusForbidden, views.Forbidden(p, views.ForbiddenView{Home: homeOf(p.User.Role)}))
		})
	}
}

func (h *Handler) state(r *http.Request) *ui.State {
	if st, ok := ui.FromContext(r.Context()); ok {
		return st
	}
	return ui.NewState(h.ui.ToastDuration, h.now)
}

func (h *Handler) page(r *http.Request, st *ui.State, title, active string) views.Page {
	p := views.Page{
		Title:     title,
		Active:    active,
		UI:        st,
		Status:    views.Idle,
		CSRFField: csrf.TemplateField(r),
		CSRFToken: csrf.Token(r),
		Now:       h.now(),
	}
	if store, ok := session.FromContext(r.Context()); ok {
		p.User = store.CurrentUser(r.Context())
	}
	return p
}

func (h *Handler) user(r *http.Request) session.User {
	if store, ok := session.FromContext(r.Context()); ok {
		return store.CurrentUser(r.Context())
	}
	return session.User{}
}

// redirect flashes the pending toasts into the session and navigates.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, st *ui.State, to string) {
	if store, ok := session.FromContext(r.Context()); ok {
		payload, err := st.Toast.Export()
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to export toasts", "err", err)
		} else if payload != "" {
			if err := store.Set(r.Context(), session.KeyFlash, payload); err != nil {
				slog.ErrorContext(r.Context(), "failed to flash toasts", "err", err)
			}
		}
	}
	session.Redirect(w, r, to)
}

// fallback reports whether sample data should stand in after a failed fetch.
func (h *Handler) fallback(screen string, st *ui.State) bool {
	if !h.ui.FallbackOnError {
		return false
	}
	if h.metrics != nil {
		h.metrics.Fallback(screen)
	}
	return true
}

var formDecoder = func() *form.Decoder {
	d := form.NewDecoder(nil)
	d.IgnoreUnknownKeys(true)
	return d
}()

// decodeForm reads the already parsed urlencoded body into dst.
func decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	return formDecoder.DecodeValues(dst, r.PostForm)
}

func homeOf(role string) string {
	if role == session.RoleTeacher {
		return "/teacher"
	}
	return "/student"
}

// pdfURL resolves a backend-relative PDF path against the public backend
// origin.
func (h *Handler) pdfURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return h.publicURL + path
}

// openWindow asks the browser to open url in a new tab. Plain form posts
// are redirected there instead.
func (h *Handler) openWindow(w http.ResponseWriter, r *http.Request, url string) bool {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Trigger", `{"openWindow": "`+strings.ReplaceAll(url, `"`, `\"`)+`"}`)
		return false
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
	return true
}

// rejected reports whether err is the backend answering success:false, as
// opposed to a transport or HTTP status failure.
func rejected(err error) bool {
	var reqErr *backend.RequestError
	return errors.As(err, &reqErr) && reqErr.Kind == backend.KindBackend && reqErr.Status == http.StatusOK
}
