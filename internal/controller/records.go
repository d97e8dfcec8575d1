package controller

import (
	"log/slog"
	"net/http"
	"strconv"

	"achievebot/internal/backend"
	"achievebot/internal/pagination"
	"achievebot/internal/views"
)

const recordsPerPage = 10

func recordsHref(page int) string {
	return "/teacher/records?page=" + strconv.Itoa(page)
}

// Records lists every student record, paginated on this side.
func (h *Handler) Records(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	p := h.page(r, st, "학습 기록", "records")

	requested, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		requested = 1
	}

	res := h.api.TeacherRecords(r.Context())
	if !res.OK {
		slog.ErrorContext(r.Context(), "failed to load student records", "err", res.Err)
		st.Toast.Error(backend.MessageOf(res.Err, "데이터를 불러오지 못했습니다"))
		p.Status = views.Rendered
		views.RenderWithLayout(w, r, http.StatusOK, views.Records(p, views.RecordsView{Failed: true, Current: 1}))
		return
	}

	total := len(res.Data)
	pages := pagination.TotalPages(total, recordsPerPage)
	current := pagination.Clamp(requested, pages)

	view := views.RecordsView{
		Rows:       pagination.Slice(res.Data, recordsPerPage, current),
		Total:      total,
		Current:    current,
		TotalPages: pages,
		Nav:        pagination.Render(pagination.Build(total, recordsPerPage, current), recordsHref),
	}
	p.Status = views.Rendered
	views.RenderWithLayout(w, r, http.StatusOK, views.Records(p, view))
}
