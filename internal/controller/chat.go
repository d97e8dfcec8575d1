package controller

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"achievebot/internal/backend"
	"achievebot/internal/validate"
	"achievebot/internal/views"
)

func (h *Handler) ChatPage(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	p := h.page(r, st, "학습 도우미", "chat")
	views.RenderWithLayout(w, r, http.StatusOK, views.Chat(p, views.ChatView{Username: p.User.Username}))
}

type askForm struct {
	Message string `form:"message"`
}

// Ask relays the agent chat stream to the browser as server-sent events.
// Every backend token is flushed as soon as it arrives.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var f askForm
	if err := decodeForm(r, &f); err != nil {
		slog.ErrorContext(r.Context(), "failed to decode ask form", "err", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(ev backend.StreamEvent) error {
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	message := strings.TrimSpace(f.Message)
	if message == "" {
		_ = send(backend.StreamEvent{Error: "질문을 입력해주세요!"})
		return
	}

	req := backend.ChatRequest{Message: message, ThreadID: h.user(r).Username}
	err := h.api.Chat(r.Context(), req, func(ev backend.StreamEvent) error {
		if ev.Token != "" && h.metrics != nil {
			h.metrics.StreamToken()
		}
		return send(ev)
	})
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		_ = send(backend.StreamEvent{Error: backend.MessageOf(err, "답변을 받지 못했습니다")})
	}
}

type analyzeForm struct {
	Essay string `form:"essay" validate:"notblank" msg:"답안을 입력해주세요!"`
}

// Analyze grades a free-form essay and returns the result fragment.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	p := h.page(r, st, "학습 도우미", "chat")

	var f analyzeForm
	if err := decodeForm(r, &f); err != nil {
		slog.ErrorContext(r.Context(), "failed to decode analyze form", "err", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(f); err != nil {
		st.Toast.Warning(validationMessage(err))
		views.RenderWithLayout(w, r, http.StatusUnprocessableEntity, views.AnalysisResult(p, views.AnalysisView{}))
		return
	}

	res := h.api.Analyze(r.Context(), backend.AnalyzeRequest{Username: p.User.Username, Essay: f.Essay})
	if !res.OK {
		st.Toast.Error(backend.MessageOf(res.Err, "분석에 실패했습니다"))
		views.RenderWithLayout(w, r, http.StatusOK, views.AnalysisResult(p, views.AnalysisView{Failed: true}))
		return
	}

	p.Status = views.Rendered
	views.RenderWithLayout(w, r, http.StatusOK, views.AnalysisResult(p, views.AnalysisView{Analysis: res.Data}))
}
