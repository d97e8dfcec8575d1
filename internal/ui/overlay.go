package ui

import (
	"html/template"

	"github.com/google/uuid"
)

type ModalOptions struct {
	Footer template.HTML
	// CloseOnOverlay defaults to true when nil.
	CloseOnOverlay *bool
}

// Modal is an open dialog. Content and Footer are trusted markup.
type Modal struct {
	ID             string
	Title          string
	Content        template.HTML
	Footer         template.HTML
	CloseOnOverlay bool
	// Confirm dialogs render the Cancel/Confirm pair.
	IsConfirm bool

	owner     *Modals
	onConfirm func()
}

// Close removes the dialog. Closing twice is a no-op.
func (m *Modal) Close() {
	m.owner.remove(m)
}

// Confirm runs the confirm callback and closes the dialog.
func (m *Modal) Confirm() {
	if m.onConfirm != nil {
		m.onConfirm()
	}
	m.Close()
}

type Modals struct {
	open []*Modal
}

func (ms *Modals) Create(title string, content template.HTML, opts ModalOptions) *Modal {
	closeOnOverlay := true
	if opts.CloseOnOverlay != nil {
		closeOnOverlay = *opts.CloseOnOverlay
	}
	m := &Modal{
		ID:             "modal-" + uuid.NewString(),
		Title:          title,
		Content:        content,
		Footer:         opts.Footer,
		CloseOnOverlay: closeOnOverlay,
		owner:          ms,
	}
	ms.open = append(ms.open, m)
	return m
}

func (ms *Modals) Confirm(title, message string, onConfirm func()) *Modal {
	body := template.HTML("<p>" + template.HTMLEscapeString(message) + "</p>")
	m := ms.Create(title, body, ModalOptions{})
	m.IsConfirm = true
	m.onConfirm = onConfirm
	return m
}

// Open lists dialogs in the order they were created.
func (ms *Modals) Open() []*Modal {
	out := make([]*Modal, len(ms.open))
	copy(out, ms.open)
	return out
}

func (ms *Modals) remove(m *Modal) {
	for i, cur := range ms.open {
		if cur == m {
			ms.open = append(ms.open[:i], ms.open[i+1:]...)
			return
		}
	}
}

const DefaultLoadingMessage = "로딩 중..."

// Loading is the full-screen overlay. At most one is shown; a second Show
// leaves the first in place.
type Loading struct {
	visible bool
	message string
}

func (l *Loading) Show(message string) {
	if l.visible {
		return
	}
	if message == "" {
		message = DefaultLoadingMessage
	}
	l.visible = true
	l.message = message
}

func (l *Loading) Hide() {
	l.visible = false
	l.message = ""
}

func (l *Loading) Visible() bool {
	return l.visible
}

func (l *Loading) Message() string {
	return l.message
}

// loadingMessages is what the overlay says while the screen behind a link or
// form loads, keyed by screen.
var loadingMessages = map[string]string{
	"teacher":   "교사 대시보드를 불러오는 중...",
	"records":   "학습 기록을 불러오는 중...",
	"batch":     "학생 답안을 채점하는 중...",
	"report":    "리포트를 생성하는 중...",
	"download":  "다운로드 준비 중...",
	"chat":      DefaultLoadingMessage,
	"analyze":   "🔍 AI가 분석 중입니다...",
	"dashboard": "성취도 분석 중...",
	"grading":   "AI가 채점하는 중...",
	"detail":    "상세 정보를 불러오는 중...",
	"portfolio": "포트폴리오를 불러오는 중...",
	"pdf":       "PDF를 생성하는 중...",
}

// LoadingFor returns the overlay message for screen. Unknown screens get the
// default message.
func LoadingFor(screen string) string {
	if msg, ok := loadingMessages[screen]; ok {
		return msg
	}
	return DefaultLoadingMessage
}

func Bool(v bool) *bool {
	return &v
}
