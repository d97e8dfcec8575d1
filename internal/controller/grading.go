package controller

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"achievebot/internal/backend"
	"achievebot/internal/format"
	"achievebot/internal/ui"
	"achievebot/internal/validate"
	"achievebot/internal/views"
)

const (
	gradingHistoryLimit = 10
	essayMaxScore       = 100
)

type gradingForm struct {
	Subject       string `form:"subject"`
	Question      string `form:"question" validate:"notblank" msg:"문제를 입력해주세요"`
	ModelAnswer   string `form:"model_answer"`
	StudentAnswer string `form:"student_answer" validate:"notblank" msg:"답안을 작성해주세요"`
}

func (h *Handler) GradingPage(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	p := h.page(r, st, "서술형 채점", "grading")
	h.renderGrading(w, r, p, views.GradingView{Subject: views.Subjects[0]})
}

func (h *Handler) SubmitGrading(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	p := h.page(r, st, "서술형 채점", "grading")

	var f gradingForm
	if err := decodeForm(r, &f); err != nil {
		slog.ErrorContext(r.Context(), "failed to decode grading form", "err", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := views.GradingView{
		Subject:       f.Subject,
		Question:      f.Question,
		ModelAnswer:   f.ModelAnswer,
		StudentAnswer: f.StudentAnswer,
	}

	if err := validate.Struct(f); err != nil {
		st.Toast.Warning(validationMessage(err))
		h.renderGradingStatus(w, r, p, form, http.StatusUnprocessableEntity)
		return
	}

	res := h.api.GradeEssay(r.Context(), backend.EssayRequest{
		Username:      p.User.Username,
		Subject:       f.Subject,
		Question:      strings.TrimSpace(f.Question),
		StudentAnswer: strings.TrimSpace(f.StudentAnswer),
		ModelAnswer:   strings.TrimSpace(f.ModelAnswer),
		MaxScore:      essayMaxScore,
	})

	if !res.OK {
		slog.ErrorContext(r.Context(), "failed to grade essay", "user", p.User.Username, "err", res.Err)
		st.Toast.Error("채점에 실패했습니다")
		h.renderGrading(w, r, p, form)
		return
	}

	body, err := views.GradingResultBody(views.GradingResultView{
		Result:     res.Data,
		Percentage: percentage(res.Data),
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to render grading result", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	st.Modals.Create("📊 채점 결과", body, ui.ModalOptions{CloseOnOverlay: ui.Bool(false)})

	h.renderGrading(w, r, p, views.GradingView{Subject: f.Subject})
}

// percentage prefers the backend's figure and otherwise derives it from the
// score.
func percentage(g backend.GradingResult) string {
	if g.Percentage.Valid && g.Percentage.Value != 0 {
		return format.Number(g.Percentage.Value, 1)
	}
	maxScore := g.MaxScore.Float()
	if maxScore == 0 {
		maxScore = essayMaxScore
	}
	return format.Percent(g.Score.Float(), maxScore)
}

func (h *Handler) GradingDetail(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	p := h.page(r, st, "서술형 채점", "grading")

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		st.Toast.Error("상세 정보를 불러올 수 없습니다")
		h.renderGrading(w, r, p, views.GradingView{Subject: views.Subjects[0]})
		return
	}

	res := h.api.GradingDetail(r.Context(), id)
	if !res.OK {
		slog.ErrorContext(r.Context(), "failed to load grading detail", "id", id, "err", res.Err)
		st.Toast.Error("상세 정보를 불러올 수 없습니다")
	} else {
		body, err := views.GradingDetailBody(views.GradingDetailView{Detail: res.Data})
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to render grading detail", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		st.Modals.Create("📄 채점 상세 정보", body, ui.ModalOptions{})
	}

	h.renderGrading(w, r, p, views.GradingView{Subject: views.Subjects[0]})
}

func (h *Handler) renderGrading(w http.ResponseWriter, r *http.Request, p views.Page, v views.GradingView) {
	h.renderGradingStatus(w, r, p, v, http.StatusOK)
}

func (h *Handler) renderGradingStatus(w http.ResponseWriter, r *http.Request, p views.Page, v views.GradingView, status int) {
	history := h.api.GradingHistory(r.Context(), p.User.Username, gradingHistoryLimit)
	if history.OK {
		v.History = history.Data
	} else {
		slog.ErrorContext(r.Context(), "failed to load grading history", "user", p.User.Username, "err", history.Err)
		v.HistoryFailed = true
	}
	p.Status = views.Rendered
	views.RenderWithLayout(w, r, status, views.Grading(p, v))
}
