// Package views renders the screens. Each screen has a typed constructor
// returning a Screen, which is a templ.Component for the page body; full
// documents wrap it in the shared layout.
package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"achievebot/internal/session"
	"achievebot/internal/ui"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Status tracks a screen through Idle → Loading → Rendered or
// RenderedWithFallback. Loading is only ever set in the browser, while the
// overlay covers a pending request.
type Status int

const (
	Idle Status = iota
	Loading
	Rendered
	RenderedWithFallback
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Rendered:
		return "rendered"
	case RenderedWithFallback:
		return "rendered-with-fallback"
	default:
		return "idle"
	}
}

// Page is what every template sees. View holds the screen's own model.
type Page struct {
	Title     string
	Active    string
	User      session.User
	UI        *ui.State
	Status    Status
	CSRFField template.HTML
	CSRFToken string
	Now       time.Time
	View      any
}

var (
	shared *template.Template
	pages  = map[string]*template.Template{}
)

var pageNames = []string{
	"login",
	"chat",
	"dashboard",
	"grading",
	"portfolio",
	"teacher_dashboard",
	"records",
	"batch_grading",
	"class_report",
	"forbidden",
}

func init() {
	shared = template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html"))
	for _, name := range pageNames {
		t := template.Must(shared.Clone())
		pages[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
}

// Static serves the embedded stylesheet and script.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

// Screen is a page body (or partial) bound to its data.
type Screen struct {
	page  Page
	tmpl  *template.Template
	entry string
	full  bool
}

func newScreen(name string, p Page, view any) Screen {
	p.View = view
	if p.UI == nil {
		p.UI = ui.NewState(0, nil)
	}
	return Screen{page: p, tmpl: pages[name], entry: "content", full: true}
}

func newPartial(entry string, p Page, view any) Screen {
	p.View = view
	if p.UI == nil {
		p.UI = ui.NewState(0, nil)
	}
	return Screen{page: p, tmpl: shared, entry: entry}
}

// Render writes the body followed by the page's toasts and modals.
func (s Screen) Render(ctx context.Context, w io.Writer) error {
	if s.tmpl == nil {
		return fmt.Errorf("unknown screen %q", s.entry)
	}
	if err := s.tmpl.ExecuteTemplate(w, s.entry, s.page); err != nil {
		return fmt.Errorf("render %s: %w", s.entry, err)
	}
	if err := s.tmpl.ExecuteTemplate(w, "feedback", s.page); err != nil {
		return fmt.Errorf("render feedback: %w", err)
	}
	return nil
}

// Layout wraps the screen in the full document.
func (s Screen) Layout() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var body bytes.Buffer
		if err := s.Render(ctx, &body); err != nil {
			return err
		}
		return s.tmpl.ExecuteTemplate(w, "layout", struct {
			Page
			Body template.HTML
		}{s.page, template.HTML(body.String())})
	})
}

// RenderWithLayout writes the screen with status. htmx requests and partials
// get the body only; everything else gets the full document.
func RenderWithLayout(w http.ResponseWriter, r *http.Request, status int, s Screen) {
	var c templ.Component = s
	if s.full && r.Header.Get("HX-Request") != "true" {
		c = s.Layout()
	}

	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		slog.Error("failed to render screen", "screen", s.entry, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Partial renders a shared template to markup, for modal bodies.
func Partial(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := shared.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render partial %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
