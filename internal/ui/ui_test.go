package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"achievebot/internal/chart"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestToaster_Lifetime(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	toaster := NewToaster(0, fixedClock(start))

	n := toaster.Show("저장되었습니다", KindSuccess, 2*time.Second)
	toaster.Info("기본")

	assert.Len(t, toaster.Visible(start.Add(2*time.Second+299*time.Millisecond)), 2)

	visible := toaster.Visible(start.Add(2*time.Second + 300*time.Millisecond))
	require.Len(t, visible, 1)
	assert.Equal(t, DefaultToastDuration, visible[0].Duration)
	assert.NotEqual(t, n.ID, visible[0].ID)

	toaster.Prune(start.Add(DefaultToastDuration + 300*time.Millisecond))
	assert.Equal(t, 0, toaster.Len())
}

func TestToaster_KeepsDuplicatesInOrder(t *testing.T) {
	toaster := NewToaster(time.Second, nil)
	toaster.Error("실패")
	toaster.Error("실패")
	toaster.Show("x", Kind("unknown"), 0)

	all := toaster.All()
	require.Len(t, all, 3)
	assert.Equal(t, KindError, all[0].Kind)
	assert.Equal(t, KindInfo, all[2].Kind)
	assert.Equal(t, "ℹ️", all[2].Icon())
}

func TestToaster_ExportImport(t *testing.T) {
	src := NewToaster(0, nil)
	empty, err := src.Export()
	require.NoError(t, err)
	assert.Equal(t, "", empty)

	src.Success("로그인 성공!")
	payload, err := src.Export()
	require.NoError(t, err)

	later := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	dst := NewToaster(0, fixedClock(later))
	require.NoError(t, dst.Import(payload))
	all := dst.All()
	require.Len(t, all, 1)
	assert.Equal(t, "로그인 성공!", all[0].Message)
	assert.Equal(t, later, all[0].ShownAt)

	assert.Error(t, dst.Import("{"))
}

func TestModals(t *testing.T) {
	var ms Modals

	plain := ms.Create("제목", "<p>본문</p>", ModalOptions{})
	assert.True(t, plain.CloseOnOverlay)

	sticky := ms.Create("채점 결과", "", ModalOptions{CloseOnOverlay: Bool(false)})
	assert.False(t, sticky.CloseOnOverlay)

	confirmed := false
	c := ms.Confirm("삭제", "<b>정말</b>?", func() { confirmed = true })
	assert.Equal(t, "<p>&lt;b&gt;정말&lt;/b&gt;?</p>", string(c.Content))
	require.Len(t, ms.Open(), 3)

	c.Confirm()
	assert.True(t, confirmed)
	plain.Close()
	plain.Close()
	require.Len(t, ms.Open(), 1)
	assert.Same(t, sticky, ms.Open()[0])
}

func TestLoadingFor(t *testing.T) {
	assert.Equal(t, "성취도 분석 중...", LoadingFor("dashboard"))
	assert.Equal(t, "PDF를 생성하는 중...", LoadingFor("pdf"))
	assert.Equal(t, DefaultLoadingMessage, LoadingFor("unknown"))
	assert.Equal(t, DefaultLoadingMessage, LoadingFor(""))
}

func TestLoading_SingleInstance(t *testing.T) {
	var l Loading
	l.Show("")
	l.Show("다른 메시지")

	assert.True(t, l.Visible())
	assert.Equal(t, DefaultLoadingMessage, l.Message())

	l.Hide()
	l.Hide()
	assert.False(t, l.Visible())
}

func TestNewState(t *testing.T) {
	s := NewState(0, nil)
	require.NotNil(t, s.Charts)
	s.Charts.Bar("c", chart.Data{}, nil)
	assert.Len(t, s.Charts.Handles(), 1)
}
