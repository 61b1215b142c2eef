package mapper

import (
	"github.com/AashishKarn828/rag-mlops/internal/dto"
	"github.com/AashishKarn828/rag-mlops/pkg/store"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToInfoResponse(s store.Snapshot) *dto.SessionInfoResponse {
	messages := make([]dto.SessionMessageDTO, len(s.Messages))
	for i, msg := range s.Messages {
		messages[i] = dto.SessionMessageDTO{
			Role:      string(msg.Role),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
	}

	return &dto.SessionInfoResponse{
		Id:           s.ID,
		Messages:     messages,
		CreatedAt:    s.CreatedAt,
		LastAccess:   s.LastAccess,
		MessageCount: s.MessageCount,
	}
}
