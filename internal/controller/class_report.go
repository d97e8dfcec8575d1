package controller

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"achievebot/internal/backend"
	"achievebot/internal/validate"
	"achievebot/internal/views"
)

type classReportForm struct {
	ClassName   string `form:"class_name"`
	Subject     string `form:"subject"`
	ReportType  string `form:"report_type"`
	StudentList string `form:"student_list"`
}

type classReportInput struct {
	ClassName string   `validate:"notblank" msg:"학급명과 학생 목록을 입력해주세요"`
	Students  []string `validate:"min=1" msg:"학급명과 학생 목록을 입력해주세요"`
}

func (h *Handler) ClassReportPage(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	p := h.page(r, st, "학급 리포트", "report")
	h.renderClassReport(w, r, p, http.StatusOK, views.ClassReportView{
		Subject:    views.Subjects[0],
		ReportType: views.ReportTypes[0],
	})
}

func (h *Handler) GenerateClassReport(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	p := h.page(r, st, "학급 리포트", "report")

	var f classReportForm
	if err := decodeForm(r, &f); err != nil {
		slog.ErrorContext(r.Context(), "failed to decode class report form", "err", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	view := views.ClassReportView{
		ClassName:   f.ClassName,
		Subject:     f.Subject,
		ReportType:  f.ReportType,
		StudentList: f.StudentList,
	}

	students := splitStudents(f.StudentList)
	if err := validate.Struct(classReportInput{ClassName: f.ClassName, Students: students}); err != nil {
		st.Toast.Warning(validationMessage(err))
		h.renderClassReport(w, r, p, http.StatusUnprocessableEntity, view)
		return
	}

	res := h.api.GenerateClassReport(r.Context(), backend.ClassReportRequest{
		TeacherUsername: p.User.Username,
		ClassName:       strings.TrimSpace(f.ClassName),
		Subject:         f.Subject,
		ReportType:      f.ReportType,
		StudentList:     students,
	})

	if !res.OK {
		slog.ErrorContext(r.Context(), "failed to generate class report", "teacher", p.User.Username, "err", res.Err)
		st.Toast.Error("리포트 생성에 실패했습니다")
		h.renderClassReport(w, r, p, http.StatusOK, view)
		return
	}

	st.Toast.Success("리포트가 생성되었습니다")
	h.renderClassReport(w, r, p, http.StatusOK, views.ClassReportView{Subject: f.Subject, ReportType: f.ReportType})
}

// splitStudents turns "김철수, 이영희" into its trimmed, non-empty names.
func splitStudents(list string) []string {
	var out []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func (h *Handler) renderClassReport(w http.ResponseWriter, r *http.Request, p views.Page, status int, v views.ClassReportView) {
	res := h.api.ClassReports(r.Context(), p.User.Username)
	if res.OK {
		v.Reports = res.Data
	} else {
		slog.ErrorContext(r.Context(), "failed to list class reports", "teacher", p.User.Username, "err", res.Err)
		v.Failed = true
	}
	p.Status = views.Rendered
	views.RenderWithLayout(w, r, status, views.ClassReport(p, v))
}

// DownloadClassReport opens the generated PDF of a report.
func (h *Handler) DownloadClassReport(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		st.Toast.Error("다운로드에 실패했습니다")
		h.redirect(w, r, st, "/teacher/class-report")
		return
	}

	res := h.api.DownloadClassReport(r.Context(), id)
	switch {
	case !res.OK && !rejected(res.Err):
		slog.ErrorContext(r.Context(), "failed to download class report", "id", id, "err", res.Err)
		st.Toast.Error("다운로드에 실패했습니다")
	case !res.OK || !res.Data.Success || res.Data.PDFPath == "":
		st.Toast.Error("생성된 PDF 파일을 찾을 수 없습니다")
	default:
		st.Toast.Success("리포트 다운로드가 시작되었습니다")
		if h.openWindow(w, r, h.pdfURL(res.Data.PDFPath)) {
			return
		}
	}
	h.redirect(w, r, st, "/teacher/class-report")
}
