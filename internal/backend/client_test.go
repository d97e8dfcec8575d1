package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observed struct {
	method, endpoint, outcome string
}

type fakeObserver struct {
	calls []observed
}

func (f *fakeObserver) BackendRequest(method, endpoint, outcome string, _ time.Duration) {
	f.calls = append(f.calls, observed{method, endpoint, outcome})
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *fakeObserver) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	obs := &fakeObserver{}
	return NewClient(srv.URL+"/", WithObserver(obs)), obs
}

func TestRequest_NotFoundCarriesBackendMessage(t *testing.T) {
	c, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"not found"}`)
	})

	_, err := c.Get(context.Background(), "/api/grading/detail/42")
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, KindBackend, reqErr.Kind)
	assert.Equal(t, http.StatusNotFound, reqErr.Status)
	assert.Equal(t, "not found", reqErr.Message)
	assert.Equal(t, "not found", MessageOf(err, "fallback"))

	require.Len(t, obs.calls, 1)
	assert.Equal(t, observed{"GET", "/api/grading/detail/:id", "backend"}, obs.calls[0])
}

func TestRequest_DetailFieldAndDefaultMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/detail" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"detail":"bad input"}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `<html>boom</html>`)
	})

	_, err := c.Get(context.Background(), "/detail")
	assert.Equal(t, "bad input", MessageOf(err, ""))

	_, err = c.Get(context.Background(), "/html")
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "요청 실패", reqErr.Message)
	assert.Equal(t, "fallback", MessageOf(err, "fallback"))
}

func TestRequest_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url)
	_, err := c.Get(context.Background(), "/api/dashboard")

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, KindNetwork, reqErr.Kind)
	assert.NotNil(t, reqErr.Unwrap())
}

func TestPost_SendsJSON(t *testing.T) {
	var gotContentType string
	var got EssayRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"score": 85, "max_score": 100}`)
	})

	res := c.GradeEssay(context.Background(), EssayRequest{Username: "kim", Question: "q", StudentAnswer: "a", MaxScore: 100})
	require.True(t, res.OK, "%v", res.Err)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "kim", got.Username)
	assert.Equal(t, 85.0, res.Data.Score.Float())
}

func TestPutAndDelete_FixMethod(t *testing.T) {
	var methods []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	raw, err := c.Put(context.Background(), "/x", map[string]string{"a": "b"})
	require.NoError(t, err)
	assert.JSONEq(t, "null", string(raw))
	_, err = c.Delete(context.Background(), "/x")
	require.NoError(t, err)
	assert.Equal(t, []string{http.MethodPut, http.MethodDelete}, methods)
}

func TestFetch_UnwrapsEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success": true, "data": [{"id": 1, "subject": "문학", "score": "82"}]}`)
	})

	res := c.GradingHistory(context.Background(), "kim", 10)
	require.True(t, res.OK, "%v", res.Err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "문학", res.Data[0].Subject)
	assert.Equal(t, 82.0, res.Data[0].Score.Float())
}

func TestFetch_BareBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "kim lee", r.URL.Query().Get("username"))
		_, _ = io.WriteString(w, `{"achievement_scores": {"문법": 75, "독서": "x"}, "strong_areas": ["문학", {"concept": "문법", "score": 80}]}`)
	})

	res := c.Dashboard(context.Background(), "kim lee")
	require.True(t, res.OK, "%v", res.Err)
	assert.Equal(t, 75.0, res.Data.AchievementScores["문법"].Float())
	assert.False(t, res.Data.AchievementScores["독서"].Valid)
	require.Len(t, res.Data.StrongAreas, 2)
	assert.Equal(t, "문학", res.Data.StrongAreas[0].Name())
	assert.Equal(t, 80.0, res.Data.StrongAreas[1].Score.Float())
}

func TestFetch_SuccessFalseIsError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success": false, "message": "비밀번호가 틀렸습니다"}`)
	})

	res := c.Login(context.Background(), LoginRequest{Username: "kim", Password: "x"})
	assert.False(t, res.OK)
	assert.Equal(t, "비밀번호가 틀렸습니다", MessageOf(res.Err, ""))
}

func TestFetch_ShapeMismatch(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"not": "a list"}`)
	})

	res := c.TeacherRecords(context.Background())
	require.False(t, res.OK)
	var reqErr *RequestError
	require.True(t, errors.As(res.Err, &reqErr))
	assert.Equal(t, KindBackend, reqErr.Kind)
}

func TestStream_DeliversEventsInOrder(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "kim", req.ThreadID)

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, tok := range []string{"안녕", "하세요", "!"} {
			fmt.Fprintf(w, "data: {\"token\": %q}\n\n", tok)
			flusher.Flush()
		}
		_, _ = io.WriteString(w, ": keep-alive\n")
		_, _ = io.WriteString(w, "data: {\"error\": \"rate limited\"}\n\n")
	})

	var events []StreamEvent
	err := c.Chat(context.Background(), ChatRequest{Message: "hi", ThreadID: "kim"}, func(ev StreamEvent) error {
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, "안녕", events[0].Token)
	assert.Equal(t, "!", events[2].Token)
	assert.Equal(t, "rate limited", events[3].Error)
}

func TestStream_NonOKStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.Chat(context.Background(), ChatRequest{Message: "hi"}, func(StreamEvent) error { return nil })
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusBadGateway, reqErr.Status)
}

func TestEndpointOf(t *testing.T) {
	assert.Equal(t, "/api/dashboard", endpointOf("/api/dashboard?username=kim"))
	assert.Equal(t, "/api/teacher/class-report/download/:id", endpointOf("/api/teacher/class-report/download/17"))
}
