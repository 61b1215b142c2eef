package service

import (
	"context"
	"errors"

	"github.com/AashishKarn828/rag-mlops/internal/dto"
	"github.com/AashishKarn828/rag-mlops/internal/mapper"
	"github.com/AashishKarn828/rag-mlops/pkg/rag/session"
)

type ISessionService interface {
	ClearSession(ctx context.Context, id string) error
	GetSession(ctx context.Context, id string) (*dto.SessionInfoResponse, error)
	Stats(ctx context.Context) *dto.SessionStatsResponse
}

type sessionService struct {
	manager *session.Manager
	mapper  *mapper.SessionMapper
}

func NewSessionService(manager *session.Manager) ISessionService {
	return &sessionService{
		manager: manager,
		mapper:  mapper.NewSessionMapper(),
	}
}

// ClearSession empties the session history. Unknown ids are not an error.
func (s *sessionService) ClearSession(_ context.Context, id string) error {
	if err := s.manager.Clear(id); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		return err
	}
	return nil
}

func (s *sessionService) GetSession(_ context.Context, id string) (*dto.SessionInfoResponse, error) {
	snap, err := s.manager.Info(id)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToInfoResponse(snap), nil
}

func (s *sessionService) Stats(_ context.Context) *dto.SessionStatsResponse {
	return &dto.SessionStatsResponse{
		ActiveSessions: s.manager.ActiveCount(),
		Timestamp:      s.manager.Now().UTC(),
	}
}
