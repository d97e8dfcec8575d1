package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"achievebot/internal/backend"
	"achievebot/internal/session"
	"achievebot/internal/validate"
	"achievebot/internal/views"
)

type loginForm struct {
	Username string `form:"username" validate:"notblank" msg:"아이디를 입력해주세요"`
	Password string `form:"password" validate:"notblank" msg:"비밀번호를 입력해주세요"`
}

type registerForm struct {
	Username string `form:"username" validate:"notblank" msg:"아이디를 입력해주세요"`
	Password string `form:"password" validate:"notblank" msg:"비밀번호를 입력해주세요"`
	Role     string `form:"role" validate:"oneof=student teacher" msg:"역할을 선택해주세요"`
}

// Root sends the caller to the home of their role, or to the login page.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	u := h.user(r)
	if !u.LoggedIn() {
		session.Redirect(w, r, session.LoginPath)
		return
	}
	session.Redirect(w, r, homeOf(u.Role))
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	if u := h.user(r); u.LoggedIn() {
		h.redirect(w, r, st, homeOf(u.Role))
		return
	}
	p := h.page(r, st, "로그인", "")
	views.RenderWithLayout(w, r, http.StatusOK, views.Login(p, views.LoginView{}))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	var f loginForm
	if err := decodeForm(r, &f); err != nil {
		slog.ErrorContext(r.Context(), "failed to decode login form", "err", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	f.Username, f.Password = strings.TrimSpace(f.Username), strings.TrimSpace(f.Password)

	fail := func(status int, msg string) {
		st.Toast.Error(msg)
		p := h.page(r, st, "로그인", "")
		views.RenderWithLayout(w, r, status, views.Login(p, views.LoginView{Username: f.Username}))
	}

	if err := validate.Struct(f); err != nil {
		fail(http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	res := h.api.Login(r.Context(), backend.LoginRequest{Username: f.Username, Password: f.Password})
	if !res.OK || !res.Data.Success {
		fail(http.StatusUnauthorized, failureMessage(res.Err, res.Data.Message, "로그인 실패"))
		return
	}

	store, err := h.sessions.Renew(w, r)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to renew session", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	user := session.User{Username: f.Username, Role: res.Data.Role}
	if user.Role == "" {
		user.Role = session.RoleStudent
	}
	if err := store.SetUser(r.Context(), user); err != nil {
		slog.ErrorContext(r.Context(), "failed to store session user", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	ctx := session.WithStore(r.Context(), store)
	h.redirect(w, r.WithContext(ctx), st, homeOf(user.Role))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	var f registerForm
	if err := decodeForm(r, &f); err != nil {
		slog.ErrorContext(r.Context(), "failed to decode register form", "err", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	f.Username, f.Password = strings.TrimSpace(f.Username), strings.TrimSpace(f.Password)
	if f.Role == "" {
		f.Role = session.RoleStudent
	}

	fail := func(status int, msg string) {
		st.Toast.Error(msg)
		p := h.page(r, st, "회원가입", "")
		views.RenderWithLayout(w, r, status, views.Login(p, views.LoginView{Username: f.Username, Role: f.Role}))
	}

	if err := validate.Struct(f); err != nil {
		fail(http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	res := h.api.Register(r.Context(), backend.RegisterRequest{Username: f.Username, Password: f.Password, Role: f.Role})
	if !res.OK || !res.Data.Success {
		fail(http.StatusUnprocessableEntity, failureMessage(res.Err, res.Data.Message, "회원가입 실패"))
		return
	}

	st.Toast.Success("회원가입 완료! 로그인 페이지로 이동합니다.")
	h.redirect(w, r, st, session.LoginPath)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session.Logout(w, r)
}

func validationMessage(err error) string {
	var ve *validate.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

// failureMessage prefers the backend's own wording for a rejected call.
func failureMessage(err error, message, fallback string) string {
	if err != nil {
		return backend.MessageOf(err, fallback)
	}
	if message != "" {
		return message
	}
	return fallback
}
