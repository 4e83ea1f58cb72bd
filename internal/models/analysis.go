package models

// Sentiment is one of the four labels a classifier may assign to a comment.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
	SentimentMixed    Sentiment = "Mixed"
)

// Sentiments lists every valid label in display order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative, SentimentMixed}

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative, SentimentMixed:
		return true
	}
	return false
}

// Analysis method recorded on a result. Remote means the Gemini path
// classified the comments; local means the VADER/rule-based fallback did.
const (
	MethodRemote = "remote"
	MethodLocal  = "local"
)

type ClassifiedComment struct {
	Text      string    `json:"comment"`
	Sentiment Sentiment `json:"sentiment"`
	Category  string    `json:"category"`
}

// AnalysisResult is the full response for one analyzed video. Built fresh
// per request, never persisted.
type AnalysisResult struct {
	VideoURL              string                `json:"youtube_url"`
	VideoTitle            string                `json:"video_title"`
	TotalComments         int                   `json:"total_comments"`
	SentimentDistribution map[Sentiment]float64 `json:"overall_sentiment"`
	CategoryDistribution  map[string]int        `json:"comment_categories"`
	Comments              []ClassifiedComment   `json:"comments_data"`
	Insights              string                `json:"overall_insights"`
	Method                string                `json:"analysis_method"`
}

// ErrorResponse is returned when a request fails before classification.
// The title is included when it was fetched before the failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	VideoTitle string `json:"video_title,omitempty"`
}
