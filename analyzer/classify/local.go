package classify

import (
	"strings"

	"comment-insights/internal/models"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"
)

// CategoryNeutralOther marks comments that matched no category keyword and
// scored neutral on polarity. Distinct from the "Neutral" category so the
// no-keyword path stays visible in the distribution.
const CategoryNeutralOther = "Neutral/Other"

// Polarity thresholds for the three-way sentiment split. The local path
// never produces Mixed; only the remote classifier can assign it.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// categoryRules is checked in order; the first keyword hit wins, so a
// comment containing both a Help keyword and a Positive keyword is Help.
var categoryRules = []struct {
	label    string
	keywords []string
}{
	{"Suggestion", []string{"suggestion", "suggest", "improve", "add", "consider", "feature", "ideas"}},
	{"Help", []string{"help", "trouble", "issue", "fix", "bug", "question", "how to", "problem"}},
	{"Positive", []string{"thank", "awesome", "great", "love", "amazing", "best", "good"}},
	{"Negative", []string{"bad", "hate", "terrible", "worst", "dislike", "cringe"}},
}

// Local is the deterministic no-network classifier, used when the remote
// path is unavailable or produced nothing.
type Local struct{}

// Polarity scores text lexically in [-1, 1].
func (Local) Polarity(text string) float64 {
	parsed := sentitext.Parse(text, lexicon.DefaultLexicon)
	return sentitext.PolarityScore(parsed).Compound
}

// Sentiment maps the polarity score onto a label.
func (l Local) Sentiment(text string) models.Sentiment {
	score := l.Polarity(text)
	switch {
	case score > positiveThreshold:
		return models.SentimentPositive
	case score < negativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// Category resolves the rule-based category for a comment. Keyword rules
// are tried first; without a match the polarity score decides, with the
// fully-neutral case tagged CategoryNeutralOther.
func (l Local) Category(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.label
			}
		}
	}

	switch l.Sentiment(text) {
	case models.SentimentPositive:
		return "Positive"
	case models.SentimentNegative:
		return "Negative"
	default:
		return CategoryNeutralOther
	}
}

// Classify computes sentiment and category for one comment. The two are
// computed independently and may diverge: a bug report with upbeat wording
// is category Help with sentiment Positive. That divergence is intended.
func (l Local) Classify(text string) models.ClassifiedComment {
	return models.ClassifiedComment{
		Text:      text,
		Sentiment: l.Sentiment(text),
		Category:  l.Category(text),
	}
}

// ClassifyAll classifies every comment in order.
func (l Local) ClassifyAll(comments []string) []models.ClassifiedComment {
	classified := make([]models.ClassifiedComment, 0, len(comments))
	for _, text := range comments {
		classified = append(classified, l.Classify(text))
	}
	return classified
}
