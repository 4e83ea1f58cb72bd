package youtube

import (
	"context"
	"fmt"
	"log"

	"comment-insights/shared/config"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// maxPageSize is the API's hard cap on commentThreads.list page size.
const maxPageSize = 100

// PlaceholderTitle is returned when the video title cannot be fetched.
// Title absence never blocks comment analysis.
const PlaceholderTitle = "Video Title Not Found"

type Client struct {
	service *youtube.Service
}

func NewClient(ctx context.Context, cfg *config.YouTubeConfig) (*Client, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

// FetchComments retrieves up to maxResults top-level comment texts for a
// video, in API arrival order. Pages are requested sequentially because
// each continuation token comes from the previous page. The final page's
// excess is trimmed so the cap is respected exactly. Failures are mapped
// to a *FetchError and are not retried here.
func (c *Client) FetchComments(ctx context.Context, videoID string, maxResults int64) ([]string, error) {
	var comments []string
	pageToken := ""

	log.Printf("Fetching comments for video %s (cap %d)", videoID, maxResults)

	for int64(len(comments)) < maxResults {
		pageSize := maxResults - int64(len(comments))
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}

		call := c.service.CommentThreads.List([]string{"snippet"}).
			VideoId(videoID).
			TextFormat("plainText").
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, classifyAPIError(err)
		}

		comments = appendThreads(comments, response.Items, maxResults)

		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
		log.Printf("Fetched %d comments so far for video %s, fetching next page", len(comments), videoID)
	}

	log.Printf("Fetched %d comments for video %s", len(comments), videoID)
	return comments, nil
}

// appendThreads accumulates top-level comment texts from one page,
// stopping exactly at the result cap.
func appendThreads(comments []string, items []*youtube.CommentThread, maxResults int64) []string {
	for _, item := range items {
		if int64(len(comments)) >= maxResults {
			break
		}
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		comments = append(comments, item.Snippet.TopLevelComment.Snippet.TextDisplay)
	}
	return comments
}

// FetchTitle returns the video's title, or a placeholder on any failure.
// Best effort only: it never returns an error.
func (c *Client) FetchTitle(ctx context.Context, videoID string) string {
	response, err := c.service.Videos.List([]string{"snippet"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		log.Printf("Warning: failed to fetch title for video %s: %v", videoID, err)
		return PlaceholderTitle
	}
	if len(response.Items) == 0 || response.Items[0].Snippet == nil {
		return "Video Details Unavailable"
	}
	return response.Items[0].Snippet.Title
}
