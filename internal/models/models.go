package models

import "strings"

// Affinity labels a profile-test pair by how naturally the profile
// produces the aesthetic the test asks for.
const (
	AffinityNativeFit = "native_fit"
	AffinityWorkable  = "workable"
	AffinityResistant = "resistant"
)

// ValidAffinity reports whether s is one of the three affinity labels.
func ValidAffinity(s string) bool {
	switch s {
	case AffinityNativeFit, AffinityWorkable, AffinityResistant:
		return true
	}
	return false
}

// Test lifecycle statuses. Archiving is a soft delete.
const (
	StatusCurrent  = "current"
	StatusArchived = "archived"
)

// TestPrompt is a single MidJourney test prompt.
type TestPrompt struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Prompt      string `json:"prompt"`
	Section     string `json:"section"`
	Params      string `json:"params"`
	Status      string `json:"status"`
	Version     string `json:"version"`
	CreatedDate string `json:"created_date"`
}

// Rating is the rubric result for one profile-test pair. Produced by
// manual input or by the batch vision call; overwritten on re-rating.
type Rating struct {
	Affinity     string  `json:"affinity"`
	Score        int     `json:"score"`
	Confidence   float64 `json:"confidence"`
	Commentary   string  `json:"commentary"`
	ColorPalette string  `json:"color-palette,omitempty"`
}

// AffinitySummary groups rated test titles by affinity label.
type AffinitySummary struct {
	NativeFit []string `json:"native_fit"`
	Workable  []string `json:"workable"`
	Resistant []string `json:"resistant"`
}

// Analysis is the per-profile document persisted under
// profile_analyses/<id>_analysis.json.
type Analysis struct {
	ProfileID       string            `json:"profile_id"`
	ProfileLabel    string            `json:"profile_label"`
	ProfileDNA      []string          `json:"profile_dna"`
	Ratings         map[string]Rating `json:"ratings"`
	AffinitySummary AffinitySummary   `json:"affinity_summary"`
	AnalysisVersion string            `json:"analysis_version,omitempty"`
}

// NewAnalysis returns an empty analysis document for a profile.
func NewAnalysis(profileID string) *Analysis {
	return &Analysis{
		ProfileID:  profileID,
		ProfileDNA: []string{},
		Ratings:    map[string]Rating{},
		AffinitySummary: AffinitySummary{
			NativeFit: []string{},
			Workable:  []string{},
			Resistant: []string{},
		},
	}
}

// RebuildAffinitySummary recomputes the summary from the ratings map.
func (a *Analysis) RebuildAffinitySummary() {
	summary := AffinitySummary{
		NativeFit: []string{},
		Workable:  []string{},
		Resistant: []string{},
	}
	for title, rating := range a.Ratings {
		switch rating.Affinity {
		case AffinityNativeFit:
			summary.NativeFit = append(summary.NativeFit, title)
		case AffinityWorkable:
			summary.Workable = append(summary.Workable, title)
		case AffinityResistant:
			summary.Resistant = append(summary.Resistant, title)
		}
	}
	a.AffinitySummary = summary
}

// SafeName converts a title into a filesystem- and key-safe name.
func SafeName(title string) string {
	return strings.NewReplacer(" ", "_", "/", "_").Replace(title)
}
