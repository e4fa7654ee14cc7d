package rater

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/solefield/profile-tester/internal/models"
)

// unmarshalResponse parses a model response that may wrap its JSON in
// markdown code fences.
func unmarshalResponse(text string, v interface{}) error {
	return json.Unmarshal([]byte(extractJSON(text)), v)
}

func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "```json"); i >= 0 {
		text = text[i+len("```json"):]
		if j := strings.Index(text, "```"); j >= 0 {
			text = text[:j]
		}
	} else if i := strings.Index(text, "```"); i >= 0 {
		text = text[i+len("```"):]
		if j := strings.Index(text, "```"); j >= 0 {
			text = text[:j]
		}
	}
	return strings.TrimSpace(text)
}

var (
	testNumTitleRe = regexp.MustCompile(`^Test (\d+): (.+)$`)
	testNumRe      = regexp.MustCompile(`^Test (\d+)$`)
)

// normalizeRatingKeys maps keys the model sometimes emits ("Test 3" or
// "Test 3: Alpine Stream") back to real test titles using batch order.
func normalizeRatingKeys(ratings map[string]models.Rating, batchTitles []string) map[string]models.Rating {
	fixed := make(map[string]models.Rating, len(ratings))
	for key, rating := range ratings {
		title := key
		if m := testNumTitleRe.FindStringSubmatch(key); m != nil {
			title = m[2]
		} else if m := testNumRe.FindStringSubmatch(key); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= len(batchTitles) {
				title = batchTitles[n-1]
			}
		}
		fixed[title] = rating
	}
	return fixed
}
