package controller

import (
	"log/slog"
	"net/http"

	"achievebot/internal/backend"
	"achievebot/internal/chart"
	"achievebot/internal/format"
	"achievebot/internal/views"
)

const (
	portfolioSubject = "국어"
	defaultAreaScore = 70
)

func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	p := h.page(r, st, "포트폴리오", "portfolio")

	res := h.api.PortfolioData(r.Context(), backend.PortfolioRequest{Username: p.User.Username, Subject: portfolioSubject})

	data := res.Data
	p.Status = views.Rendered
	if res.OK {
		st.Toast.Success("포트폴리오를 불러왔습니다")
	} else {
		slog.ErrorContext(r.Context(), "failed to load portfolio", "user", p.User.Username, "err", res.Err)
		if h.fallback("portfolio", st) {
			data = samplePortfolio()
			p.Status = views.RenderedWithFallback
			st.Toast.Warning("샘플 데이터를 표시합니다")
		} else {
			st.Toast.Error(backend.MessageOf(res.Err, "포트폴리오를 불러오지 못했습니다"))
		}
	}

	portfolioCharts(st.Charts, data)
	views.RenderWithLayout(w, r, http.StatusOK, views.Portfolio(p, portfolioView(data)))
}

func portfolioView(d backend.Portfolio) views.PortfolioView {
	records := d.LearningRecords
	if len(records) == 0 {
		records = sampleRecords
	}
	return views.PortfolioView{
		TotalQuestions: d.TotalQuestions,
		AvgScore:       format.Number(d.AverageScore.Float(), 1),
		TotalScore:     views.Num(d.TotalScore.Float()),
		Strong:         d.StrongAreas,
		Weak:           d.WeakAreas,
		Records:        records,
	}
}

func portfolioCharts(reg *chart.Registry, d backend.Portfolio) {
	if d.LearningProgress != nil {
		reg.Line("progressChart", chart.Data{Labels: d.LearningProgress.Labels, Values: d.LearningProgress.Points()}, nil)
	}

	areas := append(append([]backend.Area{}, d.StrongAreas...), d.WeakAreas...)
	if len(areas) == 0 {
		return
	}
	labels := make([]string, len(areas))
	values := make([]float64, len(areas))
	for i, a := range areas {
		labels[i] = a.Name()
		values[i] = defaultAreaScore
		if s := a.Score.Float(); s != 0 {
			values[i] = s
		}
	}
	reg.Radar("areaChart", chart.Data{Labels: labels, Values: values}, nil)
}

// PortfolioPDF asks the backend for a PDF and opens it in a new window.
func (h *Handler) PortfolioPDF(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	user := h.user(r)

	res := h.api.PortfolioPDF(r.Context(), backend.PortfolioRequest{Username: user.Username, Subject: portfolioSubject})
	switch {
	case !res.OK:
		slog.ErrorContext(r.Context(), "failed to generate portfolio pdf", "user", user.Username, "err", res.Err)
		st.Toast.Error("PDF 생성에 실패했습니다")
	case res.Data.PDFPath == "":
		st.Toast.Error("PDF를 생성할 수 없습니다. 잠시 후 다시 시도해 주세요.")
	default:
		st.Toast.Success("PDF가 생성되었습니다")
		if h.openWindow(w, r, h.pdfURL(res.Data.PDFPath)) {
			return
		}
	}
	h.redirect(w, r, st, "/student/portfolio")
}
