package service

import (
	"context"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
)

const logStreamBufferSize = 16

// LogEntry captures the details required to persist an audit entry.
type LogEntry struct {
	Level    string
	Message  string
	ActorID  *uint
	Action   string
	IP       string
	Metadata map[string]interface{}
}

// AuditRecorder defines behaviour for appending audit entries. Recording is
// best-effort for callers: they log failures and carry on.
type AuditRecorder interface {
	Record(ctx context.Context, entry LogEntry) error
}

// SystemLogService exposes the append-only audit trail plus a live stream
// for the admin console.
type SystemLogService interface {
	AuditRecorder
	List(ctx context.Context, req dto.SystemLogListRequest) (dto.SystemLogListResponse, error)
	Subscribe() (<-chan dto.SystemLogResponse, func())
}

type systemLogService struct {
	repo      repository.SystemLogRepository
	logger    zerolog.Logger
	sanitizer *bluemonday.Policy

	mu          sync.RWMutex
	subscribers map[chan dto.SystemLogResponse]struct{}
}

// NewSystemLogService constructs the system log service.
func NewSystemLogService(repo repository.SystemLogRepository, logger zerolog.Logger) SystemLogService {
	return &systemLogService{
		repo:        repo,
		logger:      logger.With().Str("component", "system_log_service").Logger(),
		sanitizer:   bluemonday.StrictPolicy(),
		subscribers: make(map[chan dto.SystemLogResponse]struct{}),
	}
}

func (s *systemLogService) Record(ctx context.Context, entry LogEntry) error {
	level := strings.ToLower(strings.TrimSpace(entry.Level))
	switch level {
	case models.LogLevelInfo, models.LogLevelWarning, models.LogLevelError:
	default:
		level = models.LogLevelInfo
	}

	message := strings.TrimSpace(s.sanitizer.Sanitize(entry.Message))
	if message == "" {
		message = entry.Action
	}

	model := models.SystemLog{
		Level:     level,
		Message:   message,
		ActorID:   entry.ActorID,
		Action:    strings.ToLower(strings.TrimSpace(entry.Action)),
		IPAddress: strings.TrimSpace(entry.IP),
		Metadata:  sanitizeMetadata(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", model.Action).Msg("failed to persist system log")
		return err
	}

	s.broadcast(dto.NewSystemLogResponse(model))
	return nil
}

func (s *systemLogService) List(ctx context.Context, req dto.SystemLogListRequest) (dto.SystemLogListResponse, error) {
	filter := repository.SystemLogFilter{
		Level:    strings.ToLower(strings.TrimSpace(req.Level)),
		Action:   strings.ToLower(strings.TrimSpace(req.Action)),
		Page:     maxInt(req.Page, 1),
		PageSize: clampPageSize(req.PageSize),
	}
	if req.ActorID > 0 {
		filter.ActorID = &req.ActorID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.SystemLogListResponse{}, err
	}

	responses := make([]dto.SystemLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewSystemLogResponse(entry))
	}

	return dto.SystemLogListResponse{
		Items:      responses,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

// Subscribe registers a live consumer of new audit entries. The returned
// cancel function must be called when the consumer goes away.
func (s *systemLogService) Subscribe() (<-chan dto.SystemLogResponse, func()) {
	ch := make(chan dto.SystemLogResponse, logStreamBufferSize)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}

	return ch, cancel
}

// broadcast fans an entry out to live subscribers, dropping it for any
// subscriber whose buffer is full.
func (s *systemLogService) broadcast(entry dto.SystemLogResponse) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.subscribers {
		select {
		case ch <- entry:
		default:
		}
	}
}
