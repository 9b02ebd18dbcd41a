package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestTopicsDefault(t *testing.T) {
	topics := SuggestTopics(nil)

	assert.Equal(t, baseTopics, topics)

	topics[0] = "mutated"
	assert.NotEqual(t, "mutated", baseTopics[0], "callers must not alias the base list")
}

func TestSuggestTopicsWithCrop(t *testing.T) {
	topics := SuggestTopics(&TopicContext{CropType: "Cotton"})

	require.Len(t, topics, len(baseTopics)+3)
	for i := 0; i < 3; i++ {
		assert.True(t, strings.Contains(topics[i], "Cotton"), "topic %q should mention the crop", topics[i])
	}
	assert.Equal(t, baseTopics, topics[3:])
}

func TestSuggestTopicsWithIssue(t *testing.T) {
	topics := SuggestTopics(&TopicContext{HasIssue: true})

	require.Len(t, topics, len(issueTopics)+len(baseTopics))
	assert.Equal(t, issueTopics, topics[:len(issueTopics)])
	assert.Equal(t, baseTopics, topics[len(issueTopics):])
}

func TestSuggestTopicsCropTrumpsIssue(t *testing.T) {
	topics := SuggestTopics(&TopicContext{CropType: "Rice", HasIssue: true})

	assert.Contains(t, topics[0], "Rice")
	assert.NotContains(t, topics, issueTopics[0])
}
