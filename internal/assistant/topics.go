package assistant

import "fmt"

// TopicContext narrows the suggested conversation starters.
type TopicContext struct {
	CropType string
	HasIssue bool
}

var baseTopics = []string{
	"What's the best irrigation schedule?",
	"How to prevent common pests?",
	"Soil health tips",
	"Fertilizer recommendations",
	"Weather-based farming advice",
}

var issueTopics = []string{
	"Identify plant disease",
	"Pest control methods",
	"Soil problem solutions",
	"Water management help",
}

// SuggestTopics returns conversation starters for the chat screen. Pure and
// offline: crop-specific prompts are prepended when a crop is known, issue
// prompts when an active problem is flagged, otherwise the baseline list.
func SuggestTopics(tctx *TopicContext) []string {
	if tctx != nil && tctx.CropType != "" {
		topics := []string{
			fmt.Sprintf("Best practices for %s", tctx.CropType),
			fmt.Sprintf("%s pest management", tctx.CropType),
			fmt.Sprintf("Seasonal care for %s", tctx.CropType),
		}
		return append(topics, baseTopics...)
	}

	if tctx != nil && tctx.HasIssue {
		return append(append([]string{}, issueTopics...), baseTopics...)
	}

	return append([]string{}, baseTopics...)
}
