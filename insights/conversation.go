package insights

import (
	"fmt"

	"google.golang.org/genai"

	"finance-insights-be/models"
)

// AssembleConversation threads prior turns, the context digest and the new
// question into the provider's multi-turn request. History order is
// preserved as given (oldest first); any stored role other than "user" is
// normalized to "model" since those are the only roles the provider
// accepts. Exactly one synthetic user turn is appended at the end.
func AssembleConversation(history []models.ConversationTurn, digest, query string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := models.RoleModel
		if turn.Role == models.RoleUser {
			role = models.RoleUser
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}

	prompt := fmt.Sprintf("Context: %s\nUser Question: %s\nAnswer concisely.", digest, query)
	contents = append(contents, &genai.Content{
		Role:  models.RoleUser,
		Parts: []*genai.Part{{Text: prompt}},
	})
	return contents
}
