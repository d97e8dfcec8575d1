package views

import (
	"html/template"
	"math"
	"strconv"

	"achievebot/internal/backend"
)

// Subjects offered by the grading forms.
var Subjects = []string{"국어", "문법", "문학", "독서", "화법과 작문"}

// ReportTypes in the order the class report form lists them.
var ReportTypes = []string{"weekly", "monthly", "unit"}

type LoginView struct {
	Username string
	Role     string
}

func Login(p Page, v LoginView) Screen { return newScreen("login", p, v) }

type ChatView struct {
	Username string
}

func Chat(p Page, v ChatView) Screen { return newScreen("chat", p, v) }

const progressRadius = 50

type AnalysisView struct {
	Analysis backend.Analysis
	Failed   bool
}

func (v AnalysisView) Score() float64 {
	if v.Analysis.Score == nil {
		return 0
	}
	return v.Analysis.Score.Float()
}

func (v AnalysisView) HasScore() bool {
	return v.Analysis.Score != nil && v.Analysis.Score.Valid
}

// Circumference and Offset drive the stroke-dashoffset of the score ring.
func (v AnalysisView) Circumference() string {
	return strconv.FormatFloat(2*math.Pi*progressRadius, 'f', 2, 64)
}

func (v AnalysisView) Offset() string {
	c := 2 * math.Pi * progressRadius
	return strconv.FormatFloat(c-(v.Score()/100)*c, 'f', 2, 64)
}

// AnalysisResult is the fragment swapped in after an essay analysis.
func AnalysisResult(p Page, v AnalysisView) Screen { return newPartial("analysis_result", p, v) }

type ActivityRow struct {
	Icon    string
	Badge   string
	Label   string
	Title   string
	Content string
	Time    string
	Score   float64
}

func NewActivityRow(item backend.HistoryItem) ActivityRow {
	row := ActivityRow{
		Icon:    "📝",
		Badge:   "badge-success",
		Label:   "채점",
		Title:   item.Title,
		Content: item.Content,
		Time:    item.Time,
		Score:   item.Score.Float(),
	}
	if row.Time == "" {
		row.Time = item.CreatedAt
	}
	switch item.Type {
	case "chat":
		row.Icon, row.Badge, row.Label = "💬", "badge-purple", "질문"
	case "analysis":
		row.Icon, row.Badge, row.Label = "🔍", "badge-warning", "분석"
	default:
		if row.Score < 80 {
			row.Badge = "badge-" + ScoreClass(row.Score)
		}
	}
	return row
}

type DashboardView struct {
	TotalScore     int
	TotalQuestions int
	AvgScore       int
	StudyDays      int
	Strong         []backend.Area
	Weak           []backend.Area
	Recommended    []backend.Recommendation
	Activities     []ActivityRow
	ActivityFailed bool
}

func Dashboard(p Page, v DashboardView) Screen { return newScreen("dashboard", p, v) }

type GradingView struct {
	Subject       string
	Question      string
	ModelAnswer   string
	StudentAnswer string
	History       []backend.HistoryItem
	HistoryFailed bool
}

func Grading(p Page, v GradingView) Screen { return newScreen("grading", p, v) }

type GradingResultView struct {
	Result     backend.GradingResult
	Percentage string
}

func GradingResultBody(v GradingResultView) (template.HTML, error) {
	return Partial("grading_result", v)
}

type GradingDetailView struct {
	Detail backend.GradingDetail
}

// ShowModelAnswer hides the placeholder the backend stores when no model
// answer was given.
func (v GradingDetailView) ShowModelAnswer() bool {
	return v.Detail.ModelAnswer != "" && v.Detail.ModelAnswer != "모범답안 없음"
}

func GradingDetailBody(v GradingDetailView) (template.HTML, error) {
	return Partial("grading_detail", v)
}

type PortfolioView struct {
	TotalQuestions int
	AvgScore       string
	TotalScore     string
	Strong         []backend.Area
	Weak           []backend.Area
	Records        []backend.LearningRecord
}

func Portfolio(p Page, v PortfolioView) Screen { return newScreen("portfolio", p, v) }

type TeacherDashboardView struct {
	Questions []backend.TeacherQuestion
	Pending   []backend.PendingGrading
	Failed    bool
}

func TeacherDashboard(p Page, v TeacherDashboardView) Screen {
	return newScreen("teacher_dashboard", p, v)
}

type RecordsView struct {
	Rows       []backend.StudentRecord
	Total      int
	Current    int
	TotalPages int
	Nav        template.HTML
	Failed     bool
}

func Records(p Page, v RecordsView) Screen { return newScreen("records", p, v) }

type StudentRow struct {
	Name   string
	Answer string
}

type BatchRow struct {
	Student  string
	Score    int
	Reason   string
	Feedback string
}

type BatchView struct {
	Subject     string
	Question    string
	ModelAnswer string
	MaxScore    int
	Students    []StudentRow
	Results     []BatchRow
}

func BatchGrading(p Page, v BatchView) Screen { return newScreen("batch_grading", p, v) }

type ClassReportView struct {
	ClassName   string
	Subject     string
	ReportType  string
	StudentList string
	Reports     []backend.ClassReport
	Failed      bool
}

func ClassReport(p Page, v ClassReportView) Screen { return newScreen("class_report", p, v) }

type ForbiddenView struct {
	Home string
}

func Forbidden(p Page, v ForbiddenView) Screen { return newScreen("forbidden", p, v) }
