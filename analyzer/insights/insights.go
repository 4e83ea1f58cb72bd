package insights

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"comment-insights/internal/models"
	"comment-insights/shared/ai"
)

// exemplarsPerGroup caps how many comments per sentiment group are quoted
// in the remote prompt; the exact group counts are always included even
// when exemplars are truncated.
const exemplarsPerGroup = 5

// Synthesizer turns classified comments into a Markdown insight summary.
// The strategy is chosen once per request and mirrors the classification
// strategy: remote classification gets remote synthesis.
type Synthesizer interface {
	Synthesize(ctx context.Context, comments []models.ClassifiedComment) (string, error)
}

// Remote asks the Gemini API for a narrative summary built from sentiment
// groups and exemplar comments.
type Remote struct {
	client *ai.Client
}

func NewRemote(client *ai.Client) *Remote {
	return &Remote{client: client}
}

func (r *Remote) Synthesize(ctx context.Context, comments []models.ClassifiedComment) (string, error) {
	if len(comments) == 0 {
		return "No comments available to generate insights.", nil
	}
	insights, err := r.client.GenerateText(ctx, BuildInsightPrompt(comments))
	if err != nil {
		return "", fmt.Errorf("insight synthesis failed: %w", err)
	}
	return insights, nil
}

// BuildInsightPrompt groups comments by sentiment and renders the summary
// request. Empty groups get an explicit "No X comments." line rather than
// being omitted.
func BuildInsightPrompt(comments []models.ClassifiedComment) string {
	groups := make(map[models.Sentiment][]string)
	for _, c := range comments {
		groups[c.Sentiment] = append(groups[c.Sentiment], c.Text)
	}

	var b strings.Builder
	b.WriteString("Based on the following categorized YouTube comments, provide an overall summary of the audience sentiment and key insights.\n")
	b.WriteString("Consider the distribution of positive, neutral, negative, and mixed comments. Highlight common themes or recurring feedback within each sentiment category.\n")
	b.WriteString("Focus on providing actionable insights that creators, marketers, or researchers could use.\n\n")
	fmt.Fprintf(&b, "Here's a breakdown of the top %d comments by sentiment (if available):\n\n", exemplarsPerGroup)

	for _, sentiment := range models.Sentiments {
		group := groups[sentiment]
		fmt.Fprintf(&b, "%s Comments (%d comments):\n", sentiment, len(group))
		if len(group) == 0 {
			fmt.Fprintf(&b, "No %s comments.\n\n", strings.ToLower(string(sentiment)))
			continue
		}
		exemplars := group
		if len(exemplars) > exemplarsPerGroup {
			exemplars = exemplars[:exemplarsPerGroup]
		}
		for _, text := range exemplars {
			fmt.Fprintf(&b, "- %s\n", text)
		}
		b.WriteString("\n")
	}

	b.WriteString("Overall Sentiment Distribution:\n")
	for _, sentiment := range models.Sentiments {
		fmt.Fprintf(&b, "%s: %d\n", sentiment, len(groups[sentiment]))
	}

	b.WriteString("\nProvide a concise summary and actionable insights in Markdown format.\n")
	return b.String()
}

// Local renders a fixed-template Markdown report. Deterministic, never
// fails, and used whenever the remote path is unavailable.
type Local struct{}

func (Local) Synthesize(_ context.Context, comments []models.ClassifiedComment) (string, error) {
	if len(comments) == 0 {
		return "No comments available to generate fallback insights.", nil
	}

	total := float64(len(comments))
	sentimentShare := make(map[models.Sentiment]float64)
	categoryCounts := make(map[string]int)
	for _, c := range comments {
		sentimentShare[c.Sentiment] += 100 / total
		categoryCounts[c.Category]++
	}

	var b strings.Builder
	b.WriteString("### Fallback Analysis Summary\n\n")
	b.WriteString("This analysis was performed using a local sentiment model and rule-based categorization.\n\n")

	b.WriteString("**Overall Sentiment Distribution:**\n")
	for _, sentiment := range models.Sentiments {
		if share, ok := sentimentShare[sentiment]; ok {
			fmt.Fprintf(&b, "- %s: %.2f%%\n", sentiment, share)
		} else {
			fmt.Fprintf(&b, "- %s: no comments\n", sentiment)
		}
	}

	b.WriteString("\n**Top Comment Categories:**\n")
	for _, tc := range topCategories(categoryCounts, 5) {
		fmt.Fprintf(&b, "- %s: %d comments\n", tc.name, tc.count)
	}

	b.WriteString("\n**General Observations:**\n")
	switch {
	case sentimentShare[models.SentimentPositive] > 50:
		b.WriteString("- The overall sentiment appears to be largely positive.\n")
	case sentimentShare[models.SentimentNegative] > 30:
		b.WriteString("- There is a notable amount of negative feedback.\n")
	default:
		b.WriteString("- Sentiment is mixed or predominantly neutral.\n")
	}

	if categoryCounts["Suggestion"] > 0 {
		b.WriteString("- Users are actively providing suggestions for improvement.\n")
	}
	if categoryCounts["Help"] > 0 {
		b.WriteString("- Some users are seeking help or reporting issues.\n")
	}

	b.WriteString("\n*For more detailed and nuanced insights, consider setting up your Gemini API key.*")
	return b.String(), nil
}

type categoryCount struct {
	name  string
	count int
}

// topCategories orders categories by count, ties broken by name so the
// rendered report is stable.
func topCategories(counts map[string]int, limit int) []categoryCount {
	ordered := make([]categoryCount, 0, len(counts))
	for name, count := range counts {
		ordered = append(ordered, categoryCount{name, count})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].name < ordered[j].name
	})
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered
}
