package analyzer

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"comment-insights/analyzer/classify"
	"comment-insights/analyzer/insights"
	"comment-insights/analyzer/youtube"
	"comment-insights/internal/models"
	"comment-insights/shared/ai"
	"comment-insights/shared/config"
	"comment-insights/shared/monitoring"
)

// CommentSource provides video comments and titles. Satisfied by
// *youtube.Client; tests inject fakes.
type CommentSource interface {
	FetchComments(ctx context.Context, videoID string, maxResults int64) ([]string, error)
	FetchTitle(ctx context.Context, videoID string) string
}

type remoteClassifier interface {
	ClassifyAll(ctx context.Context, comments []string) []models.ClassifiedComment
}

// RequestError is a terminal, user-facing analysis failure. The video
// title rides along when it was fetched before the failure.
type RequestError struct {
	Message    string
	VideoTitle string
}

func (e *RequestError) Error() string { return e.Message }

// Analyzer runs the full pipeline for one URL: resolve, fetch, classify,
// synthesize, aggregate. Classification and synthesis failures degrade to
// the local strategy; only resolve/fetch failures are terminal.
type Analyzer struct {
	cfg         *config.Config
	source      CommentSource
	remote      remoteClassifier
	remoteSynth insights.Synthesizer
	localSynth  insights.Synthesizer
	local       classify.Local
	monitor     *monitoring.Monitor
}

// New wires the pipeline. gemini may be nil, which disables the remote
// classification and synthesis strategies entirely.
func New(cfg *config.Config, source CommentSource, gemini *ai.Client, monitor *monitoring.Monitor) *Analyzer {
	a := &Analyzer{
		cfg:        cfg,
		source:     source,
		localSynth: insights.Local{},
		monitor:    monitor,
	}
	if gemini != nil {
		a.remote = classify.NewRemote(gemini, &cfg.AI)
		a.remoteSynth = insights.NewRemote(gemini)
	}
	return a
}

// Analyze handles one analysis request. Errors are always *RequestError
// with a message fit for direct display.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*models.AnalysisResult, *RequestError) {
	start := time.Now()

	videoID, err := youtube.ResolveVideoID(rawURL)
	if err != nil {
		reqErr := &RequestError{Message: "Invalid YouTube URL provided. Please check the format."}
		a.monitor.RecordFailure(reqErr, time.Since(start))
		return nil, reqErr
	}

	title := a.source.FetchTitle(ctx, videoID)

	comments, err := a.source.FetchComments(ctx, videoID, a.cfg.YouTube.MaxComments)
	if err != nil {
		message := err.Error()
		if fe, ok := youtube.AsFetchError(err); ok {
			message = fe.Message
		}
		reqErr := &RequestError{Message: message, VideoTitle: title}
		a.monitor.RecordFailure(reqErr, time.Since(start))
		return nil, reqErr
	}
	if len(comments) == 0 {
		reqErr := &RequestError{
			Message:    "No comments found for this video or comments are disabled.",
			VideoTitle: title,
		}
		a.monitor.RecordFailure(reqErr, time.Since(start))
		return nil, reqErr
	}

	classified, method := a.classify(ctx, comments)
	result := &models.AnalysisResult{
		VideoURL:      rawURL,
		VideoTitle:    title,
		TotalComments: len(classified),
		Comments:      classified,
		Insights:      a.synthesize(ctx, classified, method),
		Method:        method,
	}
	result.SentimentDistribution, result.CategoryDistribution = aggregate(classified)

	a.monitor.RecordSuccess(
		fmt.Sprintf("video %s: %d comments classified (%s)", videoID, len(classified), method),
		time.Since(start))
	return result, nil
}

// classify tries the remote strategy first and falls back to the local
// classifier when it is unconfigured or produced nothing. The chosen
// method is recorded on the result and drives synthesis selection too.
func (a *Analyzer) classify(ctx context.Context, comments []string) ([]models.ClassifiedComment, string) {
	if a.remote != nil {
		if classified := a.remote.ClassifyAll(ctx, comments); len(classified) > 0 {
			return classified, models.MethodRemote
		}
		log.Printf("Remote classification produced no results, falling back to local classifier")
	}
	return a.local.ClassifyAll(comments), models.MethodLocal
}

func (a *Analyzer) synthesize(ctx context.Context, classified []models.ClassifiedComment, method string) string {
	if method == models.MethodRemote {
		insightText, err := a.remoteSynth.Synthesize(ctx, classified)
		if err == nil {
			return insightText
		}
		log.Printf("Warning: %v, falling back to templated summary", err)
	}
	insightText, _ := a.localSynth.Synthesize(ctx, classified)
	return insightText
}

// aggregate computes the sentiment percentage distribution (two decimals,
// summing to ~100) and the category counts.
func aggregate(classified []models.ClassifiedComment) (map[models.Sentiment]float64, map[string]int) {
	sentiments := make(map[models.Sentiment]float64)
	categories := make(map[string]int)
	if len(classified) == 0 {
		return sentiments, categories
	}

	counts := make(map[models.Sentiment]int)
	for _, c := range classified {
		counts[c.Sentiment]++
		categories[c.Category]++
	}
	total := float64(len(classified))
	for sentiment, count := range counts {
		sentiments[sentiment] = math.Round(float64(count)/total*10000) / 100
	}
	return sentiments, categories
}
