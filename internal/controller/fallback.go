package controller

import (
	"math/rand"

	"achievebot/internal/backend"
	"achievebot/internal/views"
)

// Sample data shown in place of a failed fetch when ui.fallback_on_error is
// set.

func sampleDashboard() backend.Dashboard {
	return backend.Dashboard{
		AchievementScores: map[string]backend.Flexible{
			"문법":     backend.Num(75),
			"문학":     backend.Num(82),
			"독서":     backend.Num(68),
			"화법과 작문": backend.Num(70),
		},
		TotalQuestions: 45,
		AverageScore:   backend.Num(73.75),
		StudyDays:      12,
		StrongAreas: []backend.Area{
			{Concept: "문학 작품 분석", Score: backend.Num(85)},
			{Concept: "문법 규칙 이해", Score: backend.Num(80)},
		},
		WeakPoints: []backend.Area{
			{WeakConcept: "비문학 독해", Recommendation: "다양한 지문을 읽어보세요"},
			{WeakConcept: "어휘력", Recommendation: "어휘 학습을 강화하세요"},
		},
		RecommendedAreas: []backend.Recommendation{
			{Title: "비문학 독해 연습", Description: "약점 보완을 위한 추천", Code: "reading-01"},
			{Title: "어휘력 향상", Description: "기초 어휘 학습", Code: "vocab-01"},
		},
	}
}

func samplePortfolio() backend.Portfolio {
	return backend.Portfolio{
		TotalQuestions: 45,
		AverageScore:   backend.Num(78.5),
		TotalScore:     backend.Num(3532),
		StrongAreas: []backend.Area{
			{Concept: "문법", Score: backend.Num(85)},
			{Concept: "문학", Score: backend.Num(82)},
		},
		WeakAreas: []backend.Area{
			{Concept: "독서", Score: backend.Num(68), Recommendation: "비문학 독해 연습 필요"},
		},
		LearningProgress: &backend.Series{
			Labels: []string{"1주", "2주", "3주", "4주", "5주"},
			Values: []backend.Flexible{backend.Num(65), backend.Num(70), backend.Num(75), backend.Num(77), backend.Num(78.5)},
		},
	}
}

var sampleRecords = []backend.LearningRecord{
	{Date: "2025-12-01", Subject: "문법", Topic: "주어와 서술어", Score: backend.Num(85)},
	{Date: "2025-12-02", Subject: "문학", Topic: "시의 표현 기법", Score: backend.Num(90)},
	{Date: "2025-12-03", Subject: "독서", Topic: "비문학 독해", Score: backend.Num(75)},
}

// Weekly trend on the dashboard until the backend reports one.
var (
	trendLabels = []string{"1주차", "2주차", "3주차", "4주차", "5주차"}
	trendValues = []float64{65, 70, 68, 75, 80}
)

var randIntn = rand.Intn

// placeholderResults stands in when the backend accepted a batch but sent
// no per-student results.
func placeholderResults(students []views.StudentRow) []views.BatchRow {
	rows := make([]views.BatchRow, 0, len(students))
	for _, s := range students {
		rows = append(rows, views.BatchRow{
			Student:  s.Name,
			Score:    70 + randIntn(30),
			Reason:   "AI 채점 결과입니다.",
			Feedback: "좋은 답안입니다.",
		})
	}
	return rows
}

func sampleBatchResults(students []views.StudentRow) []views.BatchRow {
	rows := make([]views.BatchRow, 0, len(students))
	for _, s := range students {
		rows = append(rows, views.BatchRow{
			Student:  s.Name,
			Score:    60 + randIntn(40),
			Reason:   "내용의 정확성과 논리적 구성이 우수합니다.",
			Feedback: "표현을 더 다듬으면 좋겠습니다.",
		})
	}
	return rows
}
