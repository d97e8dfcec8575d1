package views

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"achievebot/internal/format"
	"achievebot/internal/ui"
)

// Raw HTML in AI feedback stays escaped; WithUnsafe is not set.
var md = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var funcs = template.FuncMap{
	"markdown":    Markdown,
	"scoreClass":  ScoreClass,
	"reportType":  ReportTypeLabel,
	"chart":       chartCanvas,
	"date":        format.Date,
	"dateTime":    format.DateTime,
	"timeAgo":     format.TimeAgo,
	"truncate":    format.Truncate,
	"number":      format.Number,
	"num":         Num,
	"ms":          func(d time.Duration) int64 { return d.Milliseconds() },
	"float":       func(v int) float64 { return float64(v) },
	"runes":       utf8.RuneCountInString,
	"subjects":    func() []string { return Subjects },
	"reportTypes": func() []string { return ReportTypes },
	"loading":     ui.LoadingFor,
}

// Markdown renders AI feedback text to HTML.
func Markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(buf.String())
}

// ScoreClass picks the badge colour for a score out of 100.
func ScoreClass(score float64) string {
	switch {
	case score >= 80:
		return "success"
	case score >= 60:
		return "warning"
	default:
		return "error"
	}
}

var reportTypes = map[string]string{
	"weekly":  "주간",
	"monthly": "월간",
	"unit":    "단원별",
}

// ReportTypeLabel translates a report type code; unknown codes pass through.
func ReportTypeLabel(t string) string {
	if label, ok := reportTypes[t]; ok {
		return label
	}
	return t
}

// Num prints a score the way the backend sent it: no trailing zeros.
func Num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func chartCanvas(st *ui.State, target string) template.HTML {
	if st == nil {
		return ""
	}
	h, ok := st.Charts.Get(target)
	if !ok {
		return ""
	}
	cfg, err := h.Config.JSON()
	if err != nil {
		slog.Error("failed to encode chart", "target", target, "err", err)
		return ""
	}
	return template.HTML(fmt.Sprintf(`<canvas id="%s" data-chart="%s"></canvas>`,
		template.HTMLEscapeString(target), template.HTMLEscapeString(cfg)))
}
