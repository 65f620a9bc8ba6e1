package service

import (
	"context"
	"errors"
	"sort"

	"vaulta-banking-be/internal/dto"
	"vaulta-banking-be/internal/pkg/logger"
	"vaulta-banking-be/pkg/store"
)

const moduleAdmin = "ADMIN"

var ErrSessionNotFound = errors.New("session not found")

type ISessionAdminService interface {
	ListSessions(ctx context.Context) ([]dto.SessionView, error)
	GetSession(ctx context.Context, id string) (*dto.SessionView, error)
	ResetSession(ctx context.Context, id string) error
	ResetAllSessions(ctx context.Context) (*dto.ResetAllResponse, error)
	GetLogs(req dto.LogListRequest) ([]dto.LogListResponse, error)
	GetLogById(id string) (*dto.LogDetailResponse, error)
}

type sessionAdminService struct {
	sessions store.SessionStore
	locks    *store.KeyedMutex
	logger   logger.ILogger
}

func NewSessionAdminService(sessions store.SessionStore, locks *store.KeyedMutex, log logger.ILogger) ISessionAdminService {
	return &sessionAdminService{sessions: sessions, locks: locks, logger: log}
}

// ToSessionView is the only way a session leaves the process through the
// admin API.
func ToSessionView(s store.ConversationSession) dto.SessionView {
	v := dto.SessionView{
		SessionID:      s.ID,
		Channel:        string(s.Channel),
		Verified:       s.Verified,
		CustomerRef:    s.CustomerRef,
		Attempts:       s.Attempts,
		Locked:         s.Locked,
		ActiveFlow:     string(s.ActiveFlow),
		Escalate:       s.Escalate,
		OriginalIntent: string(s.OriginalIntent),
		Turns:          s.Turns,
		CreatedAt:      s.CreatedAt,
		LastActivity:   s.LastActivity,
	}
	if s.Pending != nil {
		v.PendingAction = string(s.Pending.Kind)
	}
	return v
}

func (s *sessionAdminService) ListSessions(ctx context.Context) ([]dto.SessionView, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastActivity.After(sessions[j].LastActivity)
	})
	views := make([]dto.SessionView, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, ToSessionView(sess))
	}
	return views, nil
}

// GetSession reports ErrSessionNotFound for IDs that have never completed a
// turn, since the store hands back a fresh session for those.
func (s *sessionAdminService) GetSession(ctx context.Context, id string) (*dto.SessionView, error) {
	sess, err := s.sessions.Load(ctx, id, store.ChannelWebChat)
	if err != nil {
		return nil, err
	}
	if sess.Turns == 0 {
		return nil, ErrSessionNotFound
	}
	v := ToSessionView(sess)
	return &v, nil
}

func (s *sessionAdminService) ResetSession(ctx context.Context, id string) error {
	unlock, err := s.locks.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.sessions.Reset(ctx, id); err != nil {
		return err
	}
	s.logger.Info(moduleAdmin, "Session reset", map[string]interface{}{"session_id": id})
	return nil
}

func (s *sessionAdminService) ResetAllSessions(ctx context.Context) (*dto.ResetAllResponse, error) {
	n, err := s.sessions.ResetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info(moduleAdmin, "All sessions reset", map[string]interface{}{"cleared": n})
	return &dto.ResetAllResponse{Cleared: n}, nil
}

func (s *sessionAdminService) GetLogs(req dto.LogListRequest) ([]dto.LogListResponse, error) {
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 50
	}
	entries, err := s.logger.GetLogs(req.Level, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LogListResponse{
			Id:        e.Id,
			Timestamp: e.Timestamp,
			Level:     e.Level,
			Module:    e.Module,
			Message:   e.Message,
		})
	}
	return out, nil
}

func (s *sessionAdminService) GetLogById(id string) (*dto.LogDetailResponse, error) {
	e, err := s.logger.GetLogById(id)
	if err != nil {
		return nil, err
	}
	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        e.Id,
			Timestamp: e.Timestamp,
			Level:     e.Level,
			Module:    e.Module,
			Message:   e.Message,
		},
		Details: e.Details,
	}, nil
}
