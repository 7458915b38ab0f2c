package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nadimtuhin/url-campaign-analytics/internal/models"
	"github.com/nadimtuhin/url-campaign-analytics/internal/repository"
)

// AuditService keeps a best-effort trail of mutating operations. Writes run
// on a background worker; a full queue drops the entry.
type AuditService struct {
	store   repository.Store
	logger  *slog.Logger
	channel chan models.AuditLog
}

func NewAuditService(store repository.Store, logger *slog.Logger) *AuditService {
	return &AuditService{
		store:   store,
		logger:  logger,
		channel: make(chan models.AuditLog, 100),
	}
}

func (s *AuditService) Start(ctx context.Context) {
	s.logger.Info("Audit worker starting")
	for {
		select {
		case entry := <-s.channel:
			if err := s.store.CreateAuditLog(&entry); err != nil {
				s.logger.Error("Failed to write audit log", "action", entry.Action, "error", err)
			}
		case <-ctx.Done():
			s.logger.Info("Audit worker stopping")
			return
		}
	}
}

func (s *AuditService) LogAction(action, entityID string, details interface{}, ip string) {
	detailBytes, _ := json.Marshal(details)

	entry := models.AuditLog{
		Action:    action,
		EntityID:  entityID,
		Details:   string(detailBytes),
		IPAddress: ip,
		Timestamp: time.Now(),
	}

	select {
	case s.channel <- entry:
	default:
		s.logger.Warn("Audit channel full, dropping log", "action", action)
	}
}
