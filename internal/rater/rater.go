// Package rater calls a vision-capable Gemini model to rate uploaded test
// images against the aesthetic rubric and to derive a profile DNA summary.
package rater

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/solefield/profile-tester/internal/models"
)

// maxBatchSize caps the number of tests per rating call to keep the
// request payload within model limits.
const maxBatchSize = 15

// ErrNothingToRate is returned when every supplied test already has a rating.
var ErrNothingToRate = errors.New("rater: nothing to rate")

type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(4096)

	return &Client{client: client, model: model}, nil
}

func (c *Client) Close() {
	c.client.Close()
}

// BatchItem pairs a test prompt with the thumbnail of its uploaded image.
type BatchItem struct {
	Test  models.TestPrompt
	Image []byte // JPEG bytes
}

// selectUnrated drops items whose title already has a rating and caps the
// result at maxBatchSize, keeping input order.
func selectUnrated(items []BatchItem, existing map[string]models.Rating) []BatchItem {
	var unrated []BatchItem
	for _, item := range items {
		if _, ok := existing[item.Test.Title]; !ok {
			unrated = append(unrated, item)
		}
	}
	if len(unrated) > maxBatchSize {
		unrated = unrated[:maxBatchSize]
	}
	return unrated
}

// BatchRate sends up to maxBatchSize unrated tests with their images in a
// single call and returns the ratings keyed by test title. Tests already
// present in existing are skipped. A failed call is simply reported; the
// caller re-triggers the batch manually.
func (c *Client) BatchRate(ctx context.Context, profileID string, items []BatchItem, existing map[string]models.Rating) (map[string]models.Rating, error) {
	unrated := selectUnrated(items, existing)
	if len(unrated) == 0 {
		return nil, ErrNothingToRate
	}

	parts := []genai.Part{genai.Text(ratingRubric(profileID))}
	for i, item := range unrated {
		parts = append(parts, genai.Text(testContext(i+1, item.Test)))
		parts = append(parts, genai.ImageData("jpeg", item.Image))
	}
	parts = append(parts, genai.Text(outputFormat(unrated[0].Test.Title)))

	text, err := c.generate(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("rate batch: %w", err)
	}

	var result struct {
		Ratings map[string]models.Rating `json:"ratings"`
	}
	if err := unmarshalResponse(text, &result); err != nil {
		return nil, fmt.Errorf("parse rating response: %w", err)
	}

	titles := make([]string, len(unrated))
	for i, item := range unrated {
		titles[i] = item.Test.Title
	}
	return normalizeRatingKeys(result.Ratings, titles), nil
}

// Summarize regenerates the profile label and DNA from all completed
// ratings with a second, text-only call.
func (c *Client) Summarize(ctx context.Context, profileID string, ratings map[string]models.Rating) (string, []string, error) {
	if len(ratings) == 0 {
		return "", nil, errors.New("rater: no ratings to summarize")
	}

	titles := make([]string, 0, len(ratings))
	for title := range ratings {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	var lines []string
	for _, title := range titles {
		r := ratings[title]
		lines = append(lines, fmt.Sprintf("- %s: %s (score: %d/10)", title, r.Affinity, r.Score))
	}

	text, err := c.generate(ctx, genai.Text(summaryPrompt(profileID, strings.Join(lines, "\n"), len(lines))))
	if err != nil {
		return "", nil, fmt.Errorf("summarize profile: %w", err)
	}

	var result struct {
		ProfileLabel string   `json:"profile_label"`
		ProfileDNA   []string `json:"profile_dna"`
	}
	if err := unmarshalResponse(text, &result); err != nil {
		return "", nil, fmt.Errorf("parse summary response: %w", err)
	}
	return result.ProfileLabel, result.ProfileDNA, nil
}

// generate runs one completion and concatenates the text parts of the
// first candidate.
func (c *Client) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
