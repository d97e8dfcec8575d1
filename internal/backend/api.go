package backend

import (
	"context"
	"net/url"
	"strconv"
)

// Endpoint wrappers for the pages. Each returns a Result so callers can branch
// on OK without inspecting the response shape.

func (c *Client) Login(ctx context.Context, req LoginRequest) Result[AuthResponse] {
	return PostJSON[AuthResponse](ctx, c, "/api/auth/login", req)
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) Result[AuthResponse] {
	return PostJSON[AuthResponse](ctx, c, "/api/auth/register", req)
}

func (c *Client) Dashboard(ctx context.Context, username string) Result[Dashboard] {
	return GetJSON[Dashboard](ctx, c, "/api/dashboard?username="+url.QueryEscape(username))
}

func (c *Client) GradingHistory(ctx context.Context, username string, limit int) Result[[]HistoryItem] {
	return PostJSON[[]HistoryItem](ctx, c, "/api/grading/history", HistoryRequest{Username: username, Limit: limit})
}

func (c *Client) GradeEssay(ctx context.Context, req EssayRequest) Result[GradingResult] {
	return PostJSON[GradingResult](ctx, c, "/api/grading/essay", req)
}

func (c *Client) GradingDetail(ctx context.Context, id int64) Result[GradingDetail] {
	return GetJSON[GradingDetail](ctx, c, "/api/grading/detail/"+strconv.FormatInt(id, 10))
}

func (c *Client) BatchGrade(ctx context.Context, req BatchRequest) Result[BatchResponse] {
	return PostJSON[BatchResponse](ctx, c, "/api/teacher/grading/batch", req)
}

func (c *Client) PortfolioData(ctx context.Context, req PortfolioRequest) Result[Portfolio] {
	return PostJSON[Portfolio](ctx, c, "/api/portfolio/data", req)
}

func (c *Client) PortfolioPDF(ctx context.Context, req PortfolioRequest) Result[PDFResponse] {
	return PostJSON[PDFResponse](ctx, c, "/api/portfolio/generate-pdf", req)
}

func (c *Client) GenerateClassReport(ctx context.Context, req ClassReportRequest) Result[ClassReport] {
	return PostJSON[ClassReport](ctx, c, "/api/teacher/class-report/generate", req)
}

func (c *Client) ClassReports(ctx context.Context, teacher string) Result[[]ClassReport] {
	return GetJSON[[]ClassReport](ctx, c, "/api/teacher/class-report/list?teacher_username="+url.QueryEscape(teacher))
}

func (c *Client) DownloadClassReport(ctx context.Context, id int64) Result[PDFResponse] {
	return GetJSON[PDFResponse](ctx, c, "/api/teacher/class-report/download/"+strconv.FormatInt(id, 10))
}

func (c *Client) TeacherStats(ctx context.Context, teacher string) Result[TeacherStats] {
	return GetJSON[TeacherStats](ctx, c, "/api/teacher/dashboard-stats?teacher_username="+url.QueryEscape(teacher))
}

func (c *Client) TeacherRecords(ctx context.Context) Result[[]StudentRecord] {
	return GetJSON[[]StudentRecord](ctx, c, "/api/teacher/records")
}

func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) Result[Analysis] {
	return PostJSON[Analysis](ctx, c, "/api/student/analyze", req)
}

func (c *Client) Chat(ctx context.Context, req ChatRequest, fn func(StreamEvent) error) error {
	return c.Stream(ctx, "/api/agent/chat", req, fn)
}
