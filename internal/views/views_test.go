package views

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"achievebot/internal/backend"
	"achievebot/internal/chart"
	"achievebot/internal/session"
	"achievebot/internal/ui"
)

func testPage(st *ui.State) Page {
	return Page{
		Title: "테스트",
		User:  session.User{Username: "kim", Role: session.RoleStudent},
		UI:    st,
		Now:   time.Date(2024, 3, 5, 12, 0, 0, 0, time.Local),
	}
}

func render(t *testing.T, s Screen, htmx bool) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rr := httptest.NewRecorder()
	RenderWithLayout(rr, req, http.StatusOK, s)
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestRenderWithLayout_FragmentForHTMX(t *testing.T) {
	s := Chat(testPage(ui.NewState(0, nil)), ChatView{Username: "kim"})

	full := render(t, s, false)
	assert.True(t, strings.HasPrefix(full, "<!DOCTYPE html>"))
	assert.Contains(t, full, `<main id="main"`)
	assert.Contains(t, full, "학습 도우미")

	frag := render(t, s, true)
	assert.NotContains(t, frag, "<!DOCTYPE html>")
	assert.Contains(t, frag, `data-page="chat"`)
}

func TestFeedback_ToastContainerIsLazy(t *testing.T) {
	st := ui.NewState(0, nil)
	html := render(t, Forbidden(testPage(st), ForbiddenView{Home: "/student"}), true)
	assert.NotContains(t, html, "toast-container")

	st.Toast.Error("권한이 없습니다")
	st.Toast.Warning("샘플 데이터를 표시하고 있습니다")
	html = render(t, Forbidden(testPage(st), ForbiddenView{Home: "/student"}), true)
	assert.Equal(t, 1, strings.Count(html, "toast-container"))
	assert.Contains(t, html, `class="toast toast-error"`)
	assert.Contains(t, html, `data-duration="3000"`)
}

func TestFeedback_SingleLoadingOverlay(t *testing.T) {
	st := ui.NewState(0, nil)
	st.Loading.Show("AI가 채점하는 중...")
	st.Loading.Show("")

	html := render(t, Forbidden(testPage(st), ForbiddenView{Home: "/"}), false)
	assert.Equal(t, 1, strings.Count(html, `id="loading-indicator"`))
	assert.Contains(t, html, `<div id="loading-indicator" class="loading-overlay">`)
	assert.Contains(t, html, "<p data-loading-message>AI가 채점하는 중...</p>")

	st.Loading.Hide()
	html = render(t, Forbidden(testPage(st), ForbiddenView{Home: "/"}), false)
	assert.Contains(t, html, `<div id="loading-indicator" class="loading-overlay" hidden>`)
	assert.Contains(t, html, "<p data-loading-message>로딩 중...</p>")
}

func TestLayout_NavCarriesLoadingMessages(t *testing.T) {
	html := render(t, Forbidden(testPage(ui.NewState(0, nil)), ForbiddenView{Home: "/student"}), false)
	assert.Contains(t, html, `href="/student/dashboard" class="" data-loading="성취도 분석 중..."`)
	assert.Contains(t, html, `href="/student/portfolio" class="" data-loading="포트폴리오를 불러오는 중..."`)

	html = render(t, Forbidden(testPage(ui.NewState(0, nil)), ForbiddenView{Home: "/student"}), true)
	assert.NotContains(t, html, `id="loading-indicator"`)
}

func TestFeedback_Modals(t *testing.T) {
	st := ui.NewState(0, nil)
	body, err := GradingResultBody(GradingResultView{
		Result:     backend.GradingResult{ID: 7, Score: backend.Num(85), MaxScore: backend.Num(100), Reason: "논리적 **구성**", Feedback: "좋아요"},
		Percentage: "85.0",
	})
	require.NoError(t, err)
	st.Modals.Create("📊 채점 결과", body, ui.ModalOptions{CloseOnOverlay: ui.Bool(false)})
	st.Modals.Confirm("확인", "진행할까요?", nil)

	html := render(t, Forbidden(testPage(st), ForbiddenView{Home: "/"}), true)
	assert.Contains(t, html, `data-close-on-overlay="false"`)
	assert.Contains(t, html, `data-close-on-overlay="true"`)
	assert.Contains(t, html, "text-success")
	assert.Contains(t, html, "<strong>구성</strong>")
	assert.Contains(t, html, `href="/student/grading/7"`)
	assert.Contains(t, html, "취소")
}

func TestGradingDetail_HidesPlaceholderModelAnswer(t *testing.T) {
	body, err := GradingDetailBody(GradingDetailView{Detail: backend.GradingDetail{ModelAnswer: "모범답안 없음", Score: backend.Num(55)}})
	require.NoError(t, err)
	assert.NotContains(t, string(body), "모범 답안")
	assert.Contains(t, string(body), "badge-error")

	body, err = GradingDetailBody(GradingDetailView{Detail: backend.GradingDetail{ModelAnswer: "정답"}})
	require.NoError(t, err)
	assert.Contains(t, string(body), "모범 답안")
}

func TestDashboard_RendersChartsAndDefaults(t *testing.T) {
	st := ui.NewState(0, nil)
	st.Charts.Bar("subjectChart", chart.Data{Labels: []string{"문법"}, Values: []float64{75}}, nil)

	p := testPage(st)
	p.Status = RenderedWithFallback
	html := render(t, Dashboard(p, DashboardView{
		Activities: []ActivityRow{NewActivityRow(backend.HistoryItem{Type: "chat", Title: "질문", Time: "2024-03-05T11:00:00"})},
	}), true)

	assert.Contains(t, html, `data-status="rendered-with-fallback"`)
	assert.Equal(t, 1, strings.Count(html, "<canvas"))
	assert.Contains(t, html, `id="subjectChart"`)
	assert.Contains(t, html, "아직 데이터가 없습니다")
	assert.Contains(t, html, "1시간 전")
	assert.Contains(t, html, "badge-purple")
}

func TestNewActivityRow(t *testing.T) {
	assert.Equal(t, "badge-success", NewActivityRow(backend.HistoryItem{Score: backend.Num(90)}).Badge)
	assert.Equal(t, "badge-warning", NewActivityRow(backend.HistoryItem{Score: backend.Num(65)}).Badge)
	assert.Equal(t, "badge-error", NewActivityRow(backend.HistoryItem{Score: backend.Num(30)}).Badge)
	assert.Equal(t, "분석", NewActivityRow(backend.HistoryItem{Type: "analysis"}).Label)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "success", ScoreClass(80))
	assert.Equal(t, "warning", ScoreClass(60))
	assert.Equal(t, "error", ScoreClass(59.9))
	assert.Equal(t, "단원별", ReportTypeLabel("unit"))
	assert.Equal(t, "custom", ReportTypeLabel("custom"))
	assert.Equal(t, "73.75", Num(73.75))
	assert.NotContains(t, string(Markdown("<script>x</script>")), "<script>")
}

func TestAnalysisView_Offset(t *testing.T) {
	v := AnalysisView{}
	assert.Equal(t, v.Circumference(), v.Offset())
	assert.False(t, v.HasScore())

	score := backend.Num(100)
	v = AnalysisView{Analysis: backend.Analysis{Score: &score}}
	assert.Equal(t, "0.00", v.Offset())
}

func TestScreen_RenderUnknown(t *testing.T) {
	err := Screen{entry: "missing"}.Render(context.Background(), &strings.Builder{})
	assert.Error(t, err)
}
