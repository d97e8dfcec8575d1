package controller

import (
	"log/slog"
	"math"
	"net/http"
	"slices"

	"achievebot/internal/backend"
	"achievebot/internal/chart"
	"achievebot/internal/views"
)

const recentActivityLimit = 5

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	p := h.page(r, st, "성취도", "dashboard")

	res := h.api.Dashboard(r.Context(), p.User.Username)

	data := res.Data
	p.Status = views.Rendered
	if res.OK {
		st.Toast.Success("대시보드를 불러왔습니다")
	} else {
		slog.ErrorContext(r.Context(), "failed to load dashboard", "user", p.User.Username, "err", res.Err)
		st.Toast.Error("데이터를 불러오는데 실패했습니다")
		if h.fallback("dashboard", st) {
			data = sampleDashboard()
			p.Status = views.RenderedWithFallback
			st.Toast.Warning("샘플 데이터를 표시하고 있습니다")
		}
	}

	view := dashboardView(data)
	subjectChart(st.Charts, data)
	st.Charts.Line("trendChart", chart.Data{Labels: trendLabels, Values: trendValues, Label: "성취도 (%)"}, nil)

	if res.OK {
		history := h.api.GradingHistory(r.Context(), p.User.Username, recentActivityLimit)
		if history.OK {
			for _, item := range history.Data {
				view.Activities = append(view.Activities, views.NewActivityRow(item))
			}
		} else {
			slog.ErrorContext(r.Context(), "failed to load recent activity", "user", p.User.Username, "err", history.Err)
			view.ActivityFailed = true
		}
	}

	views.RenderWithLayout(w, r, http.StatusOK, views.Dashboard(p, view))
}

func dashboardView(d backend.Dashboard) views.DashboardView {
	var sum float64
	var n int
	for _, s := range d.AchievementScores {
		if s.Valid {
			sum += s.Value
			n++
		}
	}
	v := views.DashboardView{
		TotalQuestions: d.TotalQuestions,
		AvgScore:       int(math.Round(d.AverageScore.Float())),
		StudyDays:      d.StudyDays,
		Strong:         d.StrongAreas,
		Weak:           d.WeakPoints,
		Recommended:    d.RecommendedAreas,
	}
	if n > 0 {
		v.TotalScore = int(math.Round(sum / float64(n)))
	}
	return v
}

// subjectChart plots the achievement score of every subject, in subject
// order.
func subjectChart(reg *chart.Registry, d backend.Dashboard) {
	if len(d.AchievementScores) == 0 {
		return
	}
	labels := make([]string, 0, len(d.AchievementScores))
	for k := range d.AchievementScores {
		labels = append(labels, k)
	}
	slices.Sort(labels)
	values := make([]float64, len(labels))
	for i, l := range labels {
		values[i] = d.AchievementScores[l].Float()
	}
	reg.Bar("subjectChart", chart.Data{Labels: labels, Values: values, Label: "성취도 (%)"}, nil)
}
