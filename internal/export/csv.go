// Package export writes downloadable files built from page data.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// Row is one graded submission in the batch CSV.
type Row struct {
	Student  string
	Score    string
	Reason   string
	Feedback string
}

const batchHeader = "학생,점수,채점근거,피드백"

// WriteBatchCSV writes the header line and one line per row. Every row field
// is wrapped in double quotes with embedded quotes doubled, so commas and
// newlines inside feedback stay in their cell.
func WriteBatchCSV(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(batchHeader + "\n"); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, r := range rows {
		line := strings.Join([]string{quote(r.Student), quote(r.Score), quote(r.Reason), quote(r.Feedback)}, ",")
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// FileName is the download name for a batch exported on now.
func FileName(now time.Time) string {
	return "채점결과_" + now.Format("2006-01-02") + ".csv"
}
