package controller

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"achievebot/internal/backend"
	"achievebot/internal/export"
	"achievebot/internal/session"
	"achievebot/internal/validate"
	"achievebot/internal/views"
)

const (
	keyBatchResults      = "batch_results"
	defaultBatchMaxScore = 100
)

type batchStudent struct {
	Name   string `form:"name"`
	Answer string `form:"answer"`
}

type batchForm struct {
	Subject     string         `form:"subject"`
	Question    string         `form:"question"`
	ModelAnswer string         `form:"model_answer"`
	MaxScore    string         `form:"max_score"`
	Students    []batchStudent `form:"students"`
}

type batchInput struct {
	Question string             `validate:"notblank" msg:"문제를 입력해주세요"`
	Students []views.StudentRow `validate:"min=1" msg:"최소 1명의 학생 답안을 입력해주세요"`
}

func (h *Handler) BatchGradingPage(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	p := h.page(r, st, "일괄 채점", "batch")
	view := views.BatchView{
		Subject:  views.Subjects[0],
		MaxScore: defaultBatchMaxScore,
		Students: []views.StudentRow{{}},
		Results:  h.lastBatch(r),
	}
	views.RenderWithLayout(w, r, http.StatusOK, views.BatchGrading(p, view))
}

func (h *Handler) BatchGrade(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	p := h.page(r, st, "일괄 채점", "batch")

	var f batchForm
	if err := decodeForm(r, &f); err != nil {
		slog.ErrorContext(r.Context(), "failed to decode batch form", "err", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	maxScore, err := strconv.Atoi(strings.TrimSpace(f.MaxScore))
	if err != nil || maxScore <= 0 {
		maxScore = defaultBatchMaxScore
	}
	view := views.BatchView{
		Subject:     f.Subject,
		Question:    f.Question,
		ModelAnswer: f.ModelAnswer,
		MaxScore:    maxScore,
		Students:    completeRows(f.Students),
	}

	if err := validate.Struct(batchInput{Question: f.Question, Students: view.Students}); err != nil {
		st.Toast.Warning(validationMessage(err))
		if len(view.Students) == 0 {
			view.Students = []views.StudentRow{{}}
		}
		views.RenderWithLayout(w, r, http.StatusUnprocessableEntity, views.BatchGrading(p, view))
		return
	}

	submissions := make([]backend.BatchSubmission, len(view.Students))
	for i, s := range view.Students {
		submissions[i] = backend.BatchSubmission{Username: s.Name, Answer: s.Answer}
	}

	res := h.api.BatchGrade(r.Context(), backend.BatchRequest{
		TeacherUsername: p.User.Username,
		Subject:         f.Subject,
		Question:        strings.TrimSpace(f.Question),
		ModelAnswer:     strings.TrimSpace(f.ModelAnswer),
		MaxScore:        maxScore,
		Submissions:     submissions,
	})

	p.Status = views.Rendered
	switch {
	case res.OK && len(res.Data.Results) > 0:
		view.Results = batchRows(res.Data.Results)
		st.Toast.Success("채점이 완료되었습니다")
	case res.OK:
		view.Results = placeholderResults(view.Students)
		st.Toast.Success("채점이 완료되었습니다")
	default:
		slog.ErrorContext(r.Context(), "failed to grade batch", "teacher", p.User.Username, "students", len(submissions), "err", res.Err)
		if h.fallback("batch_grading", st) {
			view.Results = sampleBatchResults(view.Students)
			p.Status = views.RenderedWithFallback
			st.Toast.Warning("샘플 채점 결과를 표시합니다")
		} else {
			st.Toast.Error("채점에 실패했습니다")
		}
	}

	if len(view.Results) > 0 {
		h.storeBatch(r, view.Results)
	}
	views.RenderWithLayout(w, r, http.StatusOK, views.BatchGrading(p, view))
}

// completeRows keeps the rows that carry both a name and an answer.
func completeRows(in []batchStudent) []views.StudentRow {
	var out []views.StudentRow
	for _, s := range in {
		name, answer := strings.TrimSpace(s.Name), strings.TrimSpace(s.Answer)
		if name == "" || answer == "" {
			continue
		}
		out = append(out, views.StudentRow{Name: name, Answer: answer})
	}
	return out
}

func batchRows(results []backend.BatchResult) []views.BatchRow {
	rows := make([]views.BatchRow, len(results))
	for i, res := range results {
		rows[i] = views.BatchRow{
			Student:  res.Student,
			Score:    int(res.Score.Float()),
			Reason:   res.Reason,
			Feedback: res.Feedback,
		}
	}
	return rows
}

func (h *Handler) storeBatch(r *http.Request, rows []views.BatchRow) {
	store, ok := session.FromContext(r.Context())
	if !ok {
		return
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to encode batch results", "err", err)
		return
	}
	if err := store.Set(r.Context(), keyBatchResults, string(payload)); err != nil {
		slog.ErrorContext(r.Context(), "failed to store batch results", "err", err)
	}
}

func (h *Handler) lastBatch(r *http.Request) []views.BatchRow {
	store, ok := session.FromContext(r.Context())
	if !ok {
		return nil
	}
	payload, ok := store.Get(r.Context(), keyBatchResults)
	if !ok || payload == "" {
		return nil
	}
	var rows []views.BatchRow
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		slog.WarnContext(r.Context(), "discarding unreadable batch results", "err", err)
		return nil
	}
	return rows
}

// ExportBatch downloads the last batch results as CSV.
func (h *Handler) ExportBatch(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	rows := h.lastBatch(r)
	if len(rows) == 0 {
		st.Toast.Warning("내보낼 결과가 없습니다")
		h.redirect(w, r, st, "/teacher/batch-grading")
		return
	}

	out := make([]export.Row, len(rows))
	for i, row := range rows {
		out[i] = export.Row{
			Student:  row.Student,
			Score:    strconv.Itoa(row.Score) + "점",
			Reason:   row.Reason,
			Feedback: row.Feedback,
		}
	}

	name := export.FileName(h.now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="batch.csv"; filename*=UTF-8''`+url.PathEscape(name))
	if err := export.WriteBatchCSV(w, out); err != nil {
		slog.ErrorContext(r.Context(), "failed to write batch csv", "err", err)
	}
}
