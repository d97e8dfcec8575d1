package backend

import (
	"encoding/json"
	"strconv"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

// Dashboard is the student dashboard aggregate. Scores arrive as numbers or
// numeric strings, so they are kept as Flexible.
type Dashboard struct {
	AchievementScores map[string]Flexible `json:"achievement_scores"`
	TotalQuestions    int                 `json:"total_questions"`
	AverageScore      Flexible            `json:"average_score"`
	StudyDays         int                 `json:"study_days"`
	StrongAreas       []Area              `json:"strong_areas"`
	WeakPoints        []Area              `json:"weak_points"`
	RecommendedAreas  []Recommendation    `json:"recommended_areas"`
}

// Area is a concept with an optional score. The backend sometimes sends a bare
// string instead of an object; UnmarshalJSON accepts both.
type Area struct {
	Concept        string   `json:"concept"`
	WeakConcept    string   `json:"weak_concept"`
	Score          Flexible `json:"score"`
	Recommendation string   `json:"recommendation"`
}

func (a *Area) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*a = Area{Concept: name}
		return nil
	}
	type plain Area
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Area(p)
	return nil
}

func (a Area) Name() string {
	if a.WeakConcept != "" {
		return a.WeakConcept
	}
	return a.Concept
}

type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

type HistoryRequest struct {
	Username string `json:"username"`
	Limit    int    `json:"limit"`
}

// HistoryItem covers both grading records and the mixed recent-activity feed.
type HistoryItem struct {
	ID            int64    `json:"id"`
	Type          string   `json:"type"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Time          string   `json:"time"`
	Subject       string   `json:"subject"`
	Score         Flexible `json:"score"`
	Question      string   `json:"question"`
	StudentAnswer string   `json:"student_answer"`
	CreatedAt     string   `json:"created_at"`
}

type EssayRequest struct {
	Username      string `json:"username"`
	Subject       string `json:"subject"`
	Question      string `json:"question"`
	StudentAnswer string `json:"student_answer"`
	ModelAnswer   string `json:"model_answer,omitempty"`
	MaxScore      int    `json:"max_score"`
}

type GradingResult struct {
	ID            int64    `json:"id"`
	Score         Flexible `json:"score"`
	MaxScore      Flexible `json:"max_score"`
	Percentage    Flexible `json:"percentage"`
	Reason        string   `json:"reason"`
	GradingReason string   `json:"grading_reason"`
	Feedback      string   `json:"feedback"`
}

func (g GradingResult) ReasonText() string {
	if g.Reason != "" {
		return g.Reason
	}
	return g.GradingReason
}

type GradingDetail struct {
	ID            int64    `json:"id"`
	Subject       string   `json:"subject"`
	Score         Flexible `json:"score"`
	Question      string   `json:"question"`
	ModelAnswer   string   `json:"model_answer"`
	StudentAnswer string   `json:"student_answer"`
	GradingReason string   `json:"grading_reason"`
	Feedback      string   `json:"feedback"`
	CreatedAt     string   `json:"created_at"`
}

type BatchSubmission struct {
	Username string `json:"username"`
	Answer   string `json:"answer"`
}

type BatchRequest struct {
	TeacherUsername string            `json:"teacher_username"`
	Subject         string            `json:"subject"`
	Question        string            `json:"question"`
	ModelAnswer     string            `json:"model_answer"`
	MaxScore        int               `json:"max_score"`
	Submissions     []BatchSubmission `json:"submissions"`
}

type BatchResult struct {
	Student  string   `json:"student"`
	Score    Flexible `json:"score"`
	Reason   string   `json:"reason"`
	Feedback string   `json:"feedback"`
}

type BatchResponse struct {
	Results []BatchResult `json:"results"`
}

type PortfolioRequest struct {
	Username string `json:"username"`
	Subject  string `json:"subject"`
}

type Series struct {
	Labels []string   `json:"labels"`
	Values []Flexible `json:"values"`
	Data   []Flexible `json:"data"`
}

// Points returns Values, or Data when only that key was sent.
func (s Series) Points() []float64 {
	src := s.Values
	if len(src) == 0 {
		src = s.Data
	}
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = v.Float()
	}
	return out
}

type LearningRecord struct {
	Date    string   `json:"date"`
	Subject string   `json:"subject"`
	Topic   string   `json:"topic"`
	Score   Flexible `json:"score"`
}

type Portfolio struct {
	TotalQuestions   int              `json:"total_questions"`
	AverageScore     Flexible         `json:"average_score"`
	TotalScore       Flexible         `json:"total_score"`
	StrongAreas      []Area           `json:"strong_areas"`
	WeakAreas        []Area           `json:"weak_areas"`
	LearningProgress *Series          `json:"learning_progress"`
	LearningRecords  []LearningRecord `json:"learning_records"`
}

// PDFResponse is returned by the portfolio and class report PDF endpoints.
type PDFResponse struct {
	Success bool   `json:"success"`
	PDFPath string `json:"pdf_path"`
}

type ClassReportRequest struct {
	TeacherUsername string   `json:"teacher_username"`
	ClassName       string   `json:"class_name"`
	Subject         string   `json:"subject"`
	ReportType      string   `json:"report_type"`
	StudentList     []string `json:"student_list"`
}

type ClassReport struct {
	ID            int64    `json:"id"`
	ClassName     string   `json:"class_name"`
	Subject       string   `json:"subject"`
	ReportType    string   `json:"report_type"`
	TotalStudents int      `json:"total_students"`
	AverageScore  Flexible `json:"average_score"`
	CreatedAt     string   `json:"created_at"`
}

type TeacherQuestion struct {
	Student  string `json:"student"`
	Subject  string `json:"subject"`
	Question string `json:"question"`
	Time     string `json:"time"`
}

type PendingGrading struct {
	Student   string `json:"student"`
	Subject   string `json:"subject"`
	Submitted string `json:"submitted"`
}

type TeacherStats struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Questions []TeacherQuestion `json:"questions"`
	Pending   []PendingGrading  `json:"pending"`
	Chart     *Series           `json:"chart"`
}

type StudentRecord struct {
	StudentName string    `json:"student_name"`
	Subject     string    `json:"subject"`
	Question    string    `json:"question"`
	Score       *Flexible `json:"score"`
	Feedback    string    `json:"feedback"`
	CreatedAt   string    `json:"created_at"`
}

type ChatRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id"`
}

type AnalyzeRequest struct {
	Username string `json:"username"`
	Essay    string `json:"essay"`
}

type Standard struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Analysis struct {
	RelatedStandard *Standard `json:"related_standard"`
	Score           *Flexible `json:"score"`
	Feedback        string    `json:"feedback"`
	TeacherTips     string    `json:"teacher_tips"`
}

// Flexible is a number the backend may encode as a JSON number, a numeric
// string or null. Unparseable values read as zero with Valid false.
type Flexible struct {
	Value float64
	Valid bool
}

func Num(v float64) Flexible {
	return Flexible{Value: v, Valid: true}
}

func (f *Flexible) UnmarshalJSON(data []byte) error {
	*f = Flexible{}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = Num(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			*f = Num(n)
		}
	}
	return nil
}

func (f Flexible) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f Flexible) Float() float64 {
	if !f.Valid {
		return 0
	}
	return f.Value
}
