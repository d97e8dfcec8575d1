package controller

import (
	"log/slog"
	"net/http"

	"achievebot/internal/backend"
	"achievebot/internal/chart"
	"achievebot/internal/views"
)

var classChartOptions = chart.Options{
	"plugins": map[string]any{"legend": map[string]any{"display": false}},
	"scales": map[string]any{
		"y": map[string]any{"beginAtZero": true, "max": 100, "grid": map[string]any{"color": "#f0f0f0"}},
		"x": map[string]any{"grid": map[string]any{"display": false}},
	},
}

func (h *Handler) TeacherDashboard(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	p := h.page(r, st, "교사 대시보드", "teacher")

	res := h.api.TeacherStats(r.Context(), p.User.Username)

	var view views.TeacherDashboardView
	switch {
	case !res.OK:
		slog.ErrorContext(r.Context(), "failed to load teacher dashboard", "teacher", p.User.Username, "err", res.Err)
		st.Toast.Error(backend.MessageOf(res.Err, "데이터를 불러오는데 실패했습니다"))
		view.Failed = true
	default:
		view.Questions = res.Data.Questions
		view.Pending = res.Data.Pending
		if c := res.Data.Chart; c != nil && len(c.Labels) > 0 {
			st.Charts.Bar("classChart", chart.Data{Labels: c.Labels, Values: c.Points(), Label: "평균 성취도"}, classChartOptions)
		}
	}

	p.Status = views.Rendered
	views.RenderWithLayout(w, r, http.StatusOK, views.TeacherDashboard(p, view))
}
