package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"comment-insights/analyzer"
	"comment-insights/analyzer/youtube"
	"comment-insights/internal/models"
	"comment-insights/shared/config"
	"comment-insights/shared/monitoring"
)

type stubSource struct {
	comments []string
	fetchErr error
	title    string
}

func (s *stubSource) FetchComments(_ context.Context, _ string, _ int64) ([]string, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.comments, nil
}

func (s *stubSource) FetchTitle(_ context.Context, _ string) string { return s.title }

func newTestServer(source analyzer.CommentSource) *Server {
	cfg := &config.Config{
		YouTube: config.YouTubeConfig{APIKey: "test-key", MaxComments: 500},
		AI:      config.AIConfig{Model: "gemini-2.0-flash", BatchSize: 100, BatchConcurrency: 1, RequestsPerMinute: 60},
	}
	monitor := monitoring.NewMonitor()
	return New(analyzer.New(cfg, source, nil, monitor), monitor)
}

func postForm(t *testing.T, srv *Server, youtubeURL string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"youtube_url": {youtubeURL}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(&stubSource{
		comments: []string{"I love this!", "How do I fix the bug?"},
		title:    "Test Video",
	})

	rec := postForm(t, srv, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if result.TotalComments != 2 {
		t.Errorf("total_comments = %d, want 2", result.TotalComments)
	}
	if result.Method != models.MethodLocal {
		t.Errorf("analysis_method = %q, want local", result.Method)
	}
	if result.VideoTitle != "Test Video" {
		t.Errorf("video_title = %q, want Test Video", result.VideoTitle)
	}
	if result.Insights == "" {
		t.Error("overall_insights is empty")
	}
}

func TestAnalyzeEndpointJSONBody(t *testing.T) {
	srv := newTestServer(&stubSource{comments: []string{"great video"}, title: "T"})

	body := `{"youtube_url":"https://youtu.be/dQw4w9WgXcQ"}`
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
}

func TestAnalyzeEndpointInvalidURL(t *testing.T) {
	srv := newTestServer(&stubSource{})

	rec := postForm(t, srv, "https://example.com/nope")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var errResp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("error response is not valid JSON: %v", err)
	}
	if !strings.Contains(errResp.Error, "Invalid YouTube URL") {
		t.Errorf("error = %q, want invalid-URL wording", errResp.Error)
	}
}

func TestAnalyzeEndpointCommentsDisabled(t *testing.T) {
	srv := newTestServer(&stubSource{
		fetchErr: &youtube.FetchError{
			Kind:    youtube.ErrorCommentsDisabled,
			Message: "Comments are disabled for this video by the creator.",
		},
		title: "Muted Video",
	})

	rec := postForm(t, srv, "dQw4w9WgXcQ")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("error response is not valid JSON: %v", err)
	}
	if _, ok := payload["comments_data"]; ok {
		t.Error("error response carries comments_data, want none")
	}
	if payload["video_title"] != "Muted Video" {
		t.Errorf("video_title = %v, want Muted Video", payload["video_title"])
	}
}

func TestAnalyzeEndpointMissingParameter(t *testing.T) {
	srv := newTestServer(&stubSource{})

	rec := postForm(t, srv, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&stubSource{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("fresh /health status = %d, want 200", rec.Code)
	}
}
