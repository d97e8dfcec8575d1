package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"achievebot/internal/backend"
	"achievebot/internal/session"
)

func studentEnv(t *testing.T, fallback bool) *env {
	t.Helper()
	e := newEnv(t, fallback)
	e.login(t, "kim", session.RoleStudent)
	return e
}

func TestDashboard_RendersBackendData(t *testing.T) {
	e := studentEnv(t, true)
	e.api.handle("GET /api/dashboard", reply(http.StatusOK, `{
		"achievement_scores": {"문법": 75, "문학": "85", "독서": "n/a"},
		"total_questions": 12, "average_score": 81.6, "study_days": 4,
		"strong_areas": ["문학"], "weak_points": [{"weak_concept": "어휘력"}]
	}`))
	e.api.handle("POST /api/grading/history", reply(http.StatusOK, `{"success": true, "data": [
		{"id": 1, "type": "chat", "title": "비유법 질문", "content": "은유와 직유", "time": "2026-03-02 08:00:00"}
	]}`))

	resp, body := e.get(t, "/student/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `data-status="rendered"`)
	assert.Contains(t, body, "80%")
	assert.Contains(t, body, "82점")
	assert.Contains(t, body, "4일")
	assert.Contains(t, body, `<canvas id="subjectChart"`)
	assert.Contains(t, body, `<canvas id="trendChart"`)
	assert.Contains(t, body, "어휘력")
	assert.Contains(t, body, "비유법 질문")
	assert.Contains(t, body, "badge-purple")
	assert.Contains(t, body, "1시간 전")
	assert.Contains(t, body, "대시보드를 불러왔습니다")
	assert.NotContains(t, body, "샘플 데이터")
}

func TestDashboard_FallsBackToSampleData(t *testing.T) {
	e := studentEnv(t, true)

	_, body := e.get(t, "/student/dashboard")
	assert.Contains(t, body, `data-status="rendered-with-fallback"`)
	assert.Contains(t, body, "데이터를 불러오는데 실패했습니다")
	assert.Contains(t, body, "샘플 데이터를 표시하고 있습니다")
	assert.Contains(t, body, "74%")
	assert.Contains(t, body, "45")
	assert.Contains(t, body, "비문학 독해 연습")
	assert.Zero(t, e.api.count("POST /api/grading/history"))
}

func TestDashboard_NoFallbackWhenDisabled(t *testing.T) {
	e := studentEnv(t, false)

	_, body := e.get(t, "/student/dashboard")
	assert.Contains(t, body, `data-status="rendered"`)
	assert.Contains(t, body, "데이터를 불러오는데 실패했습니다")
	assert.NotContains(t, body, "샘플 데이터")
	assert.Contains(t, body, "0%")
}

func TestDashboard_HTMXGetsFragment(t *testing.T) {
	e := studentEnv(t, true)

	_, body := e.do(t, http.MethodGet, "/student/dashboard", nil, htmx)
	assert.Contains(t, body, `data-page="dashboard"`)
	assert.NotContains(t, body, "<!DOCTYPE html>")
}

func TestStudentScreens_CarryLoadingMessages(t *testing.T) {
	e := studentEnv(t, true)

	_, body := e.get(t, "/student/dashboard")
	assert.Contains(t, body, `href="/student/dashboard" class="active" data-loading="성취도 분석 중..."`)
	assert.Contains(t, body, `href="/student/portfolio" class="" data-loading="포트폴리오를 불러오는 중..."`)
	assert.Contains(t, body, `<div id="loading-indicator" class="loading-overlay" hidden>`)

	_, body = e.get(t, "/student/grading")
	assert.Contains(t, body, `action="/student/grading" data-loading="AI가 채점하는 중..."`)
}

func TestSubmitGrading_OpensResultModal(t *testing.T) {
	e := studentEnv(t, true)
	sent := make(chan backend.EssayRequest, 1)
	e.api.handle("POST /api/grading/essay", func(w http.ResponseWriter, r *http.Request) {
		var req backend.EssayRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		sent <- req
		_, _ = io.WriteString(w, `{"id": 9, "score": 68, "max_score": 80, "reason": "핵심 개념 언급", "feedback": "근거를 **보강**하세요"}`)
	})
	e.api.handle("POST /api/grading/history", reply(http.StatusOK, `[]`))

	resp, body := e.post(t, "/student/grading", url.Values{
		"subject":        {"문학"},
		"question":       {" 비유법을 설명하시오 "},
		"student_answer": {"은유는 ..."},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req := <-sent
	assert.Equal(t, "kim", req.Username)
	assert.Equal(t, "비유법을 설명하시오", req.Question)
	assert.Equal(t, 100, req.MaxScore)
	assert.Empty(t, req.ModelAnswer)

	assert.Contains(t, body, "📊 채점 결과")
	assert.Contains(t, body, `data-close-on-overlay="false"`)
	assert.Contains(t, body, "85.0")
	assert.Contains(t, body, "<strong>보강</strong>")
	assert.Contains(t, body, "아직 채점 이력이 없습니다")
}

func TestSubmitGrading_Validation(t *testing.T) {
	e := studentEnv(t, true)
	e.api.handle("POST /api/grading/history", reply(http.StatusOK, `[]`))

	resp, body := e.post(t, "/student/grading", url.Values{"question": {""}, "student_answer": {"답"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "문제를 입력해주세요")
	assert.Contains(t, body, "toast-warning")

	_, body = e.post(t, "/student/grading", url.Values{"question": {"문제"}, "student_answer": {" "}})
	assert.Contains(t, body, "답안을 작성해주세요")
	assert.Contains(t, body, ">문제</textarea>")
	assert.Zero(t, e.api.count("POST /api/grading/essay"))
}

func TestSubmitGrading_Failure(t *testing.T) {
	e := studentEnv(t, true)
	e.api.handle("POST /api/grading/history", reply(http.StatusOK, `[]`))

	_, body := e.post(t, "/student/grading", url.Values{"question": {"문제"}, "student_answer": {"나의 답"}})
	assert.Contains(t, body, "채점에 실패했습니다")
	assert.Contains(t, body, ">나의 답</textarea>")
	assert.NotContains(t, body, "modal-overlay")
}

func TestGradingDetail(t *testing.T) {
	e := studentEnv(t, true)
	e.api.handle("POST /api/grading/history", reply(http.StatusOK, `{"success": true, "data": [{"id": 7, "subject": "문법", "score": 55, "question": "품사", "created_at": "2026-03-01T10:00:00"}]}`))
	e.api.handle("GET /api/grading/detail/7", reply(http.StatusOK, `{"id": 7, "subject": "문법", "score": 55, "question": "품사란?", "model_answer": "모범답안 없음", "student_answer": "단어의 갈래"}`))

	_, body := e.get(t, "/student/grading/7")
	assert.Contains(t, body, "📄 채점 상세 정보")
	assert.Contains(t, body, "단어의 갈래")
	assert.Contains(t, body, `href="/student/grading/7"`)
	assert.Contains(t, body, "badge-error")

	_, body = e.get(t, "/student/grading/8")
	assert.Contains(t, body, "상세 정보를 불러올 수 없습니다")
	assert.NotContains(t, body, "📄 채점 상세 정보")
}

func TestPortfolio(t *testing.T) {
	t.Run("backend data", func(t *testing.T) {
		e := studentEnv(t, true)
		sent := make(chan backend.PortfolioRequest, 1)
		e.api.handle("POST /api/portfolio/data", func(w http.ResponseWriter, r *http.Request) {
			var req backend.PortfolioRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			sent <- req
			_, _ = io.WriteString(w, `{"success": true, "data": {
				"total_questions": 3, "average_score": 71.26, "total_score": 214,
				"strong_areas": [{"concept": "문학", "score": 90}], "weak_areas": ["어휘"],
				"learning_progress": {"labels": ["1주"], "data": [71]},
				"learning_records": [{"date": "2026-02-27", "subject": "문학", "topic": "현대시", "score": 90}]
			}}`)
		})

		_, body := e.get(t, "/student/portfolio")
		assert.Equal(t, backend.PortfolioRequest{Username: "kim", Subject: "국어"}, <-sent)
		assert.Contains(t, body, "71.3")
		assert.Contains(t, body, "214")
		assert.Contains(t, body, "현대시")
		assert.NotContains(t, body, "주어와 서술어")
		assert.Contains(t, body, `<canvas id="progressChart"`)
		assert.Contains(t, body, `<canvas id="areaChart"`)
		assert.Contains(t, body, "포트폴리오를 불러왔습니다")
	})

	t.Run("sample data", func(t *testing.T) {
		e := studentEnv(t, true)
		_, body := e.get(t, "/student/portfolio")
		assert.Contains(t, body, `data-status="rendered-with-fallback"`)
		assert.Contains(t, body, "샘플 데이터를 표시합니다")
		assert.Contains(t, body, "78.5")
		assert.Contains(t, body, "주어와 서술어")
	})
}

func TestPortfolioPDF(t *testing.T) {
	e := studentEnv(t, true)
	e.api.handle("POST /api/portfolio/generate-pdf", reply(http.StatusOK, `{"success": true, "pdf_path": "static/pdfs/kim.pdf"}`))

	resp, _ := e.post(t, "/student/portfolio/pdf", url.Values{})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, e.backendURL+"/static/pdfs/kim.pdf", resp.Header.Get("Location"))

	resp, _ = e.do(t, http.MethodPost, "/student/portfolio/pdf", url.Values{}, htmx)
	assert.Equal(t, fmt.Sprintf(`{"openWindow": "%s/static/pdfs/kim.pdf"}`, e.backendURL), resp.Header.Get("HX-Trigger"))
	assert.Equal(t, "/student/portfolio", resp.Header.Get("HX-Redirect"))

	e.api.handle("POST /api/portfolio/generate-pdf", reply(http.StatusOK, `{"success": true}`))
	resp, _ = e.post(t, "/student/portfolio/pdf", url.Values{})
	assert.Equal(t, "/student/portfolio", resp.Header.Get("Location"))
	_, body := e.get(t, "/student/portfolio")
	assert.Contains(t, body, "PDF를 생성할 수 없습니다. 잠시 후 다시 시도해 주세요.")
}

func TestAsk_RelaysStream(t *testing.T) {
	e := studentEnv(t, true)
	sent := make(chan backend.ChatRequest, 1)
	e.api.handle("POST /api/agent/chat", func(w http.ResponseWriter, r *http.Request) {
		var req backend.ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		sent <- req
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"token\": \"안\"}\n\ndata: {\"token\": \"녕\"}\n\n")
	})

	resp, body := e.post(t, "/student/ask", url.Values{"message": {"은유가 뭐예요?"}})
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, backend.ChatRequest{Message: "은유가 뭐예요?", ThreadID: "kim"}, <-sent)
	assert.Equal(t, "data: {\"token\":\"안\"}\n\ndata: {\"token\":\"녕\"}\n\n", body)
}

func TestAsk_LeavesFlashForNextPage(t *testing.T) {
	e := studentEnv(t, true)
	e.api.handle("POST /api/portfolio/generate-pdf", reply(http.StatusOK, `{"success": true}`))
	e.api.handle("POST /api/agent/chat", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"token\": \"네\"}\n\n")
	})

	resp, _ := e.post(t, "/student/portfolio/pdf", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	sse := http.Header{"Accept": {"text/event-stream"}}
	_, body := e.do(t, http.MethodPost, "/student/ask", url.Values{"message": {"질문"}}, sse)
	assert.Equal(t, "data: {\"token\":\"네\"}\n\n", body)

	_, body = e.get(t, "/student/portfolio")
	assert.Contains(t, body, "PDF를 생성할 수 없습니다. 잠시 후 다시 시도해 주세요.")
}

func TestAsk_EmptyMessage(t *testing.T) {
	e := studentEnv(t, true)

	_, body := e.post(t, "/student/ask", url.Values{"message": {"   "}})
	assert.Equal(t, "data: {\"error\":\"질문을 입력해주세요!\"}\n\n", body)
	assert.Zero(t, e.api.count("POST /api/agent/chat"))
}

func TestAsk_BackendFailure(t *testing.T) {
	e := studentEnv(t, true)
	e.api.handle("POST /api/agent/chat", reply(http.StatusBadGateway, ``))

	_, body := e.post(t, "/student/ask", url.Values{"message": {"질문"}})
	assert.Contains(t, body, `"error":"서버 응답 오류"`)
}

func TestAnalyze(t *testing.T) {
	e := studentEnv(t, true)
	e.api.handle("POST /api/student/analyze", reply(http.StatusOK, `{
		"related_standard": {"id": "10국01-02", "title": "토론하기"},
		"score": 72, "feedback": "논거가 **명확**합니다", "teacher_tips": "반론도 준비하세요"
	}`))

	_, body := e.do(t, http.MethodPost, "/student/analyze", url.Values{"essay": {"토론 답안"}}, htmx)
	assert.NotContains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, `id="essayResult"`)
	assert.Contains(t, body, "[10국01-02] 토론하기")
	assert.Contains(t, body, "<strong>명확</strong>")
	assert.Contains(t, body, "72%")
	assert.Contains(t, body, "반론도 준비하세요")
	assert.Contains(t, body, `hx-swap-oob="true"`)

	resp, body := e.do(t, http.MethodPost, "/student/analyze", url.Values{"essay": {""}}, htmx)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "답안을 입력해주세요!")
	assert.Equal(t, 1, e.api.count("POST /api/student/analyze"))

	e.api.handle("POST /api/student/analyze", reply(http.StatusInternalServerError, `{"detail": "모델 오류"}`))
	_, body = e.do(t, http.MethodPost, "/student/analyze", url.Values{"essay": {"답안"}}, htmx)
	assert.Contains(t, body, "분석 중 오류가 발생했습니다")
	assert.Contains(t, body, "모델 오류")
}
