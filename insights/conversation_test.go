package insights_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-insights-be/insights"
	"finance-insights-be/models"
)

func TestAssembleConversationEmptyHistory(t *testing.T) {
	contents := insights.AssembleConversation(nil, "No transactions found.", "How am I doing?")

	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
	require.Len(t, contents[0].Parts, 1)
	assert.Equal(t,
		"Context: No transactions found.\nUser Question: How am I doing?\nAnswer concisely.",
		contents[0].Parts[0].Text)
}

func TestAssembleConversationPreservesOrder(t *testing.T) {
	history := []models.ConversationTurn{
		{Role: "user", Text: "first question"},
		{Role: "model", Text: "first answer"},
		{Role: "user", Text: "second question"},
		{Role: "model", Text: "second answer"},
	}

	contents := insights.AssembleConversation(history, "digest", "third question")

	require.Len(t, contents, 5)
	for i, turn := range history {
		assert.Equal(t, turn.Role, contents[i].Role)
		require.Len(t, contents[i].Parts, 1)
		assert.Equal(t, turn.Text, contents[i].Parts[0].Text)
	}

	last := contents[4]
	assert.Equal(t, "user", last.Role)
	assert.Contains(t, last.Parts[0].Text, "User Question: third question")
}

func TestAssembleConversationNormalizesRoles(t *testing.T) {
	history := []models.ConversationTurn{
		{Role: "assistant", Text: "legacy role"},
		{Role: "system", Text: "another legacy role"},
		{Role: "user", Text: "kept as is"},
		{Role: "", Text: "blank role"},
	}

	contents := insights.AssembleConversation(history, "digest", "q")

	require.Len(t, contents, 5)
	assert.Equal(t, "model", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "user", contents[2].Role)
	assert.Equal(t, "model", contents[3].Role)

	for _, content := range contents {
		assert.Contains(t, []string{"user", "model"}, content.Role)
	}
}

func TestAssembleConversationEmbedsDigestVerbatim(t *testing.T) {
	digest := "FINANCIAL SUMMARY:\nTotal Income: $350.00"
	contents := insights.AssembleConversation(nil, digest, "what changed?")

	require.Len(t, contents, 1)
	assert.Equal(t,
		"Context: "+digest+"\nUser Question: what changed?\nAnswer concisely.",
		contents[0].Parts[0].Text)
}
