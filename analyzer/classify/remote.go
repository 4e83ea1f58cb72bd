package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"comment-insights/internal/models"
	"comment-insights/shared/ai"
	"comment-insights/shared/config"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// sentimentSchema constrains the model's reply to an array of
// {comment, sentiment} objects with the four-label enum.
var sentimentSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"comment": {
				Type:        genai.TypeString,
				Description: "The original comment text.",
			},
			"sentiment": {
				Type:        genai.TypeString,
				Enum:        []string{"Positive", "Neutral", "Negative", "Mixed"},
				Description: "The sentiment of the comment.",
			},
		},
		Required: []string{"comment", "sentiment"},
	},
}

// jsonGenerator is the single call Remote needs from the Gemini wrapper.
// Satisfied by *ai.Client; tests substitute fakes.
type jsonGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) ([]byte, error)
}

// Remote classifies comments in batches through the Gemini API. Every
// failure mode degrades to "this batch produced nothing": ClassifyAll
// never returns an error, and an empty result tells the caller to fall
// back to the local classifier.
type Remote struct {
	client      jsonGenerator
	batchSize   int
	concurrency int
	limiter     *rate.Limiter
}

func NewRemote(client *ai.Client, cfg *config.AIConfig) *Remote {
	rpm := cfg.RequestsPerMinute
	if rpm < 1 {
		rpm = 1
	}
	return &Remote{
		client:      client,
		batchSize:   cfg.BatchSize,
		concurrency: cfg.BatchConcurrency,
		limiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
	}
}

// ClassifyAll partitions comments into fixed-size batches and dispatches
// them with bounded concurrency. Batches are independent: one batch's
// failure never cancels the others, and results come back in original
// comment order (order-preserving within a batch, batch-order-preserving
// across batches).
func (r *Remote) ClassifyAll(ctx context.Context, comments []string) []models.ClassifiedComment {
	if len(comments) == 0 {
		return nil
	}

	batches := partition(comments, r.batchSize)
	results := make([][]models.ClassifiedComment, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, batch := range batches {
		g.Go(func() error {
			classified, err := r.classifyBatch(gctx, batch)
			if err != nil {
				// Partial-batch loss is accepted: log and move on.
				log.Printf("Warning: classification batch %d/%d dropped: %v", i+1, len(batches), err)
				return nil
			}
			results[i] = classified
			return nil
		})
	}
	// Goroutines only ever return nil; Wait is for completion, not errors.
	_ = g.Wait()

	var classified []models.ClassifiedComment
	for _, batch := range results {
		classified = append(classified, batch...)
	}
	return classified
}

func (r *Remote) classifyBatch(ctx context.Context, batch []string) ([]models.ClassifiedComment, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	raw, err := r.client.GenerateJSON(ctx, buildBatchPrompt(batch), sentimentSchema)
	if err != nil {
		return nil, err
	}

	return parseBatchReply(raw)
}

func buildBatchPrompt(batch []string) string {
	var b strings.Builder
	b.WriteString("Analyze the sentiment of the following YouTube comments. ")
	b.WriteString("For each comment, classify its sentiment as 'Positive', 'Neutral', 'Negative', or 'Mixed'. ")
	b.WriteString("Provide the output as a JSON array of objects, where each object has 'comment' (the original comment text) and 'sentiment' fields.\n\nComments:\n")
	for _, comment := range batch {
		fmt.Fprintf(&b, "- %s\n", comment)
	}
	return b.String()
}

type batchItem struct {
	Comment   string `json:"comment"`
	Sentiment string `json:"sentiment"`
}

// parseBatchReply validates the model's structured reply. A single object
// is coerced into a one-element array; anything that is neither is
// malformed and drops the batch. Sentiments outside the enum are coerced
// to Neutral. Category on the remote path is always the sentiment itself.
func parseBatchReply(raw []byte) ([]models.ClassifiedComment, error) {
	var items []batchItem
	if err := json.Unmarshal(raw, &items); err != nil {
		var single batchItem
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("malformed classification reply: %w", err)
		}
		items = []batchItem{single}
	}

	classified := make([]models.ClassifiedComment, 0, len(items))
	for _, item := range items {
		sentiment := models.Sentiment(item.Sentiment)
		if !sentiment.Valid() {
			sentiment = models.SentimentNeutral
		}
		classified = append(classified, models.ClassifiedComment{
			Text:      item.Comment,
			Sentiment: sentiment,
			Category:  string(sentiment),
		})
	}
	return classified, nil
}

// partition splits comments into ordered batches of at most size elements.
func partition(comments []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(comments); start += size {
		end := start + size
		if end > len(comments) {
			end = len(comments)
		}
		batches = append(batches, comments[start:end])
	}
	return batches
}
