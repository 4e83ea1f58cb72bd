package analyzer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"comment-insights/analyzer/youtube"
	"comment-insights/internal/models"
	"comment-insights/shared/config"
	"comment-insights/shared/monitoring"
)

type fakeSource struct {
	comments []string
	fetchErr error
	title    string
}

func (f *fakeSource) FetchComments(_ context.Context, _ string, maxResults int64) ([]string, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if int64(len(f.comments)) > maxResults {
		return f.comments[:maxResults], nil
	}
	return f.comments, nil
}

func (f *fakeSource) FetchTitle(_ context.Context, _ string) string {
	if f.title == "" {
		return youtube.PlaceholderTitle
	}
	return f.title
}

type fakeRemote struct {
	classified []models.ClassifiedComment
}

func (f *fakeRemote) ClassifyAll(_ context.Context, _ []string) []models.ClassifiedComment {
	return f.classified
}

type failingSynth struct{}

func (failingSynth) Synthesize(_ context.Context, _ []models.ClassifiedComment) (string, error) {
	return "", errors.New("model unavailable")
}

func testConfig() *config.Config {
	return &config.Config{
		YouTube: config.YouTubeConfig{APIKey: "test-key", MaxComments: 500},
		AI:      config.AIConfig{Model: "gemini-2.0-flash", BatchSize: 100, BatchConcurrency: 1, RequestsPerMinute: 60},
	}
}

func TestAnalyzeLocalMode(t *testing.T) {
	source := &fakeSource{
		comments: []string{"I love this!", "How do I fix the bug?", "Just watched this today"},
		title:    "Test Video",
	}
	a := New(testConfig(), source, nil, monitoring.NewMonitor())

	result, reqErr := a.Analyze(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if reqErr != nil {
		t.Fatalf("Analyze returned error: %v", reqErr)
	}

	if result.Method != models.MethodLocal {
		t.Errorf("Method = %q, want %q without a Gemini key", result.Method, models.MethodLocal)
	}
	if result.TotalComments != 3 {
		t.Errorf("TotalComments = %d, want 3", result.TotalComments)
	}
	if result.VideoTitle != "Test Video" {
		t.Errorf("VideoTitle = %q, want Test Video", result.VideoTitle)
	}

	wantSentiments := []models.Sentiment{models.SentimentPositive, models.SentimentNeutral, models.SentimentNeutral}
	wantCategories := []string{"Positive", "Help", "Neutral/Other"}
	for i, c := range result.Comments {
		if c.Sentiment != wantSentiments[i] {
			t.Errorf("comment %d sentiment = %s, want %s", i, c.Sentiment, wantSentiments[i])
		}
		if c.Category != wantCategories[i] {
			t.Errorf("comment %d category = %q, want %q", i, c.Category, wantCategories[i])
		}
	}

	wantDistribution := map[string]int{"Positive": 1, "Help": 1, "Neutral/Other": 1}
	for category, count := range wantDistribution {
		if result.CategoryDistribution[category] != count {
			t.Errorf("CategoryDistribution[%q] = %d, want %d", category, result.CategoryDistribution[category], count)
		}
	}

	if result.Insights == "" || strings.Contains(result.Insights, "error") {
		t.Errorf("Insights should be templated text, got %q", result.Insights)
	}
}

func TestAnalyzeInvariants(t *testing.T) {
	comments := make([]string, 0, 37)
	for i := 0; i < 37; i++ {
		comments = append(comments, fmt.Sprintf("comment number %d, great video", i))
	}
	a := New(testConfig(), &fakeSource{comments: comments}, nil, monitoring.NewMonitor())

	result, reqErr := a.Analyze(context.Background(), "dQw4w9WgXcQ")
	if reqErr != nil {
		t.Fatalf("Analyze returned error: %v", reqErr)
	}

	t.Run("CategoryCountsSumToTotal", func(t *testing.T) {
		sum := 0
		for _, count := range result.CategoryDistribution {
			sum += count
		}
		if sum != result.TotalComments || result.TotalComments != len(result.Comments) {
			t.Errorf("category sum %d, total %d, comments %d: want all equal", sum, result.TotalComments, len(result.Comments))
		}
	})

	t.Run("SentimentPercentagesSumTo100", func(t *testing.T) {
		sum := 0.0
		for _, share := range result.SentimentDistribution {
			sum += share
		}
		if math.Abs(sum-100) > 0.1 {
			t.Errorf("sentiment distribution sums to %f, want 100±0.1", sum)
		}
	})

	t.Run("OnlyValidSentimentKeys", func(t *testing.T) {
		for sentiment := range result.SentimentDistribution {
			if !sentiment.Valid() {
				t.Errorf("invalid sentiment key %q in distribution", sentiment)
			}
		}
	})
}

func TestAnalyzeInvalidURL(t *testing.T) {
	a := New(testConfig(), &fakeSource{}, nil, monitoring.NewMonitor())

	_, reqErr := a.Analyze(context.Background(), "https://example.com/not-youtube")
	if reqErr == nil {
		t.Fatal("Analyze succeeded on an invalid URL")
	}
	if !strings.Contains(reqErr.Message, "Invalid YouTube URL") {
		t.Errorf("error message = %q, want invalid-URL wording", reqErr.Message)
	}
}

func TestAnalyzeFetchErrors(t *testing.T) {
	tests := []struct {
		name        string
		fetchErr    error
		wantMessage string
	}{
		{
			name:        "CommentsDisabled",
			fetchErr:    &youtube.FetchError{Kind: youtube.ErrorCommentsDisabled, Message: "Comments are disabled for this video by the creator."},
			wantMessage: "Comments are disabled",
		},
		{
			name:        "QuotaExceeded",
			fetchErr:    &youtube.FetchError{Kind: youtube.ErrorQuotaExceeded, Message: "YouTube API quota exceeded. Please try again later or check your Google Cloud project settings."},
			wantMessage: "quota exceeded",
		},
		{
			name:        "NotFound",
			fetchErr:    &youtube.FetchError{Kind: youtube.ErrorNotFound, Message: "Video not found. Please check the video URL."},
			wantMessage: "Video not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &fakeSource{fetchErr: tt.fetchErr, title: "Some Video"}
			a := New(testConfig(), source, nil, monitoring.NewMonitor())

			result, reqErr := a.Analyze(context.Background(), "dQw4w9WgXcQ")
			if reqErr == nil {
				t.Fatal("Analyze succeeded, want fetch error")
			}
			if result != nil {
				t.Error("Analyze returned a result alongside an error")
			}
			if !strings.Contains(reqErr.Message, tt.wantMessage) {
				t.Errorf("message = %q, want it to contain %q", reqErr.Message, tt.wantMessage)
			}
			if reqErr.VideoTitle != "Some Video" {
				t.Errorf("VideoTitle = %q, want the best-effort title attached", reqErr.VideoTitle)
			}
		})
	}
}

func TestAnalyzeZeroComments(t *testing.T) {
	a := New(testConfig(), &fakeSource{comments: nil, title: "Silent Video"}, nil, monitoring.NewMonitor())

	_, reqErr := a.Analyze(context.Background(), "dQw4w9WgXcQ")
	if reqErr == nil {
		t.Fatal("Analyze succeeded with zero comments, want no-content error")
	}
	if !strings.Contains(reqErr.Message, "No comments found") {
		t.Errorf("message = %q, want no-comments wording", reqErr.Message)
	}
	if reqErr.VideoTitle != "Silent Video" {
		t.Errorf("VideoTitle = %q, want Silent Video", reqErr.VideoTitle)
	}
}

func TestAnalyzeRemoteEmptyFallsBackToLocal(t *testing.T) {
	source := &fakeSource{comments: []string{"I love this!"}}
	a := New(testConfig(), source, nil, monitoring.NewMonitor())
	// Remote configured but every batch dropped: the local path must take
	// over and record itself as the method.
	a.remote = &fakeRemote{classified: nil}
	a.remoteSynth = failingSynth{}

	result, reqErr := a.Analyze(context.Background(), "dQw4w9WgXcQ")
	if reqErr != nil {
		t.Fatalf("Analyze returned error: %v", reqErr)
	}
	if result.Method != models.MethodLocal {
		t.Errorf("Method = %q, want local after remote produced nothing", result.Method)
	}
	if result.Insights == "" {
		t.Error("Insights empty, want templated fallback text")
	}
}

func TestAnalyzeRemoteSynthesisFailureKeepsRemoteMethod(t *testing.T) {
	source := &fakeSource{comments: []string{"I love this!"}}
	a := New(testConfig(), source, nil, monitoring.NewMonitor())
	a.remote = &fakeRemote{classified: []models.ClassifiedComment{
		{Text: "I love this!", Sentiment: models.SentimentPositive, Category: "Positive"},
	}}
	a.remoteSynth = failingSynth{}

	result, reqErr := a.Analyze(context.Background(), "dQw4w9WgXcQ")
	if reqErr != nil {
		t.Fatalf("Analyze returned error: %v", reqErr)
	}
	if result.Method != models.MethodRemote {
		t.Errorf("Method = %q, want remote: synthesis fallback must not change it", result.Method)
	}
	if !strings.Contains(result.Insights, "Fallback Analysis Summary") {
		t.Errorf("Insights = %q, want the templated fallback summary", result.Insights)
	}
}
