package session

import (
	"log/slog"
	"net/http"
)

const LoginPath = "/login"

// Notifier is the part of the toast service CheckAuth needs.
type Notifier interface {
	Error(message string)
}

// CheckAuth sends anonymous callers to the login page. A logged-in caller
// with the wrong role gets an error notification and false; the caller
// decides what to render.
func CheckAuth(w http.ResponseWriter, r *http.Request, requiredRole string, n Notifier) bool {
	store, ok := FromContext(r.Context())
	if !ok {
		Redirect(w, r, LoginPath)
		return false
	}
	user := store.CurrentUser(r.Context())
	if !user.LoggedIn() {
		Redirect(w, r, LoginPath)
		return false
	}
	if requiredRole != "" && user.Role != requiredRole {
		n.Error("권한이 없습니다")
		return false
	}
	return true
}

// Logout drops the whole session, identity keys included, and navigates to
// the login page.
func Logout(w http.ResponseWriter, r *http.Request) {
	if store, ok := FromContext(r.Context()); ok {
		if err := store.Clear(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "failed to clear session", "err", err)
		}
	}
	Redirect(w, r, LoginPath)
}

// Redirect navigates the browser, using HX-Redirect for htmx requests.
func Redirect(w http.ResponseWriter, r *http.Request, to string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
