package chatlog

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"finance-insights-be/models"
)

const (
	// DefaultChatTurns is how much history a chat request threads back in.
	DefaultChatTurns = 6
	// MaxHistoryTurns bounds the history display endpoint.
	MaxHistoryTurns = 50
	// snapshotPreviewLimit bounds the digest preview persisted for audit.
	snapshotPreviewLimit = 500
)

// Store persists and reconstructs conversation history in the insights
// database. Reads degrade to empty history and writes are best-effort:
// a broken log store must never break a chat response.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FetchHistory returns up to limit conversation turns for the user,
// oldest first. Each persisted chat log row expands into a user turn and
// a model turn, so limit/2 rows are read newest-first and then reversed.
func (s *Store) FetchHistory(ctx context.Context, userID uuid.UUID, limit int) []models.ConversationTurn {
	if limit <= 0 {
		limit = DefaultChatTurns
	}
	rows := limit / 2
	if rows < 1 {
		rows = 1
	}

	var logs []models.ChatLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(rows).
		Find(&logs).Error
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to fetch chat history")
		return []models.ConversationTurn{}
	}

	turns := make([]models.ConversationTurn, 0, len(logs)*2)
	for i := len(logs) - 1; i >= 0; i-- {
		turns = append(turns,
			models.ConversationTurn{Role: models.RoleUser, Text: logs[i].UserQuery},
			models.ConversationTurn{Role: models.RoleModel, Text: logs[i].AIResponse},
		)
	}
	return turns
}

// SaveTurn persists one exchange together with a truncated snapshot of
// the digest that was used as context. Returns false on failure; the
// caller treats the write as fire-and-forget.
func (s *Store) SaveTurn(ctx context.Context, userID uuid.UUID, query, answer, contextText string) bool {
	snapshot, err := json.Marshal(map[string]string{
		"preview": previewOf(contextText, snapshotPreviewLimit),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to serialize context snapshot")
		return false
	}

	entry := models.ChatLog{
		UserID:          userID,
		UserQuery:       query,
		AIResponse:      answer,
		ContextSnapshot: string(snapshot),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to save chat log")
		return false
	}

	log.Info().Str("user_id", userID.String()).Msg("Saved chat log")
	return true
}

func previewOf(s string, limit int) string {
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
