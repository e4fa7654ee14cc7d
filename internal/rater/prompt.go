package rater

import (
	"fmt"

	"github.com/solefield/profile-tester/internal/models"
)

func ratingRubric(profileID string) string {
	return fmt.Sprintf(`You are an expert at analyzing artistic and photographic styles. Be CRITICAL and DISCERNING.

You are analyzing test images generated by MidJourney profile ID '%s'.

**Your Task**: For each test, evaluate how well the image ACHIEVES THE AESTHETIC DESCRIBED IN THE TEST PROMPT.

**Rating Criteria** - Be strict about medium, mood, technique, and subject accuracy:
- Does the image use the CORRECT MEDIUM/TECHNIQUE? (e.g., "flat vector" must be flat, not 3D; "watercolor" must show washes, not oil texture)
- Does the MOOD/ATMOSPHERE match? (e.g., "noir" must be dark/moody, not bright; "candid street" must feel unposed, not cinematic)
- Is the SUBJECT/COMPOSITION correct? (e.g., "cat drinking tea" must show the cat drinking, not just a garden)
- Does it avoid STYLE DRIFT? (e.g., requested "minimalist" becomes cluttered, "surreal" becomes merely whimsical)

**Provide for each test**:
- **affinity**: One of ["native_fit", "workable", "resistant"] - how well the prompt's aesthetic was executed
- **score**: Integer 1-10 rating how well the prompt was fulfilled
- **confidence**: Float 0.0-1.0 indicating your confidence in the rating
- **commentary**: 3-4 sentences explaining (1) how well the image achieves the prompt's requested aesthetic (medium accuracy, mood match, subject correctness), AND (2) the profile's unique aesthetic signature in this image
- **color-palette**: 1-2 sentences describing the colors in the image

**Test Images:**`, profileID)
}

func testContext(num int, test models.TestPrompt) string {
	return fmt.Sprintf("\n\n**Test %d: %s**\nSection: %s\nPrompt: %s", num, test.Title, test.Section, test.Prompt)
}

func outputFormat(exampleTitle string) string {
	return fmt.Sprintf(`

**Output Format (JSON):**
IMPORTANT: Use the actual test names (e.g., "%s") as the keys in the "ratings" object, NOT "Test 1", "Test 2", etc.

`+"```json"+`
{
  "ratings": {
    "%s": {
      "affinity": "native_fit|workable|resistant",
      "score": 8,
      "confidence": 0.9,
      "commentary": "Commentary here...",
      "color-palette": "Color palette description here..."
    }
  }
}
`+"```"+`

Respond with ONLY the JSON, no other text.`, exampleTitle, exampleTitle)
}

func summaryPrompt(profileID, ratingLines string, count int) string {
	return fmt.Sprintf(`You are an expert at analyzing artistic profiles and identifying aesthetic patterns.

Based on these %d test results for MidJourney profile '%s', provide:

1. **Profile Label**: A concise 2-4 word aesthetic label (e.g., "Moody Urban Explorer", "Vibrant Nature Maximalist")

2. **Profile DNA**: 5-10 distinctive traits that define this profile's aesthetic strengths, weaknesses, and tendencies. Include color palette preferences if evident (e.g., "Prefers warm/moody tones", "Strong with vibrant/saturated colors", "Excels at muted/desaturated palettes").

Test Results:
%s

Return as JSON:
`+"```json"+`
{
  "profile_label": "Your Label Here",
  "profile_dna": ["trait1", "trait2"]
}
`+"```", count, profileID, ratingLines)
}
