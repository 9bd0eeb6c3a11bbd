package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
)

// SettingsService exposes the single site-wide settings document.
type SettingsService interface {
	Get(ctx context.Context) (dto.SettingsResponse, error)
	Update(ctx context.Context, payload dto.SettingsUpdateRequest, actor Actor) (dto.SettingsResponse, error)
}

type settingsService struct {
	repo      repository.SettingsRepository
	audit     AuditRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewSettingsService constructs the settings service.
func NewSettingsService(repo repository.SettingsRepository, audit AuditRecorder, validate *validator.Validate, logger zerolog.Logger) SettingsService {
	return &settingsService{
		repo:      repo,
		audit:     audit,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "settings_service").Logger(),
	}
}

func (s *settingsService) Get(ctx context.Context) (dto.SettingsResponse, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return dto.SettingsResponse{}, err
	}

	return assembleSettings(rows), nil
}

func (s *settingsService) Update(ctx context.Context, payload dto.SettingsUpdateRequest, actor Actor) (dto.SettingsResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SettingsResponse{}, err
	}

	actorID := actor.ID
	changed := make([]string, 0, len(payload.Settings))
	for key, value := range payload.Settings {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		if text, ok := value.(string); ok {
			value = s.sanitizer.Sanitize(text)
		}

		raw, err := json.Marshal(value)
		if err != nil {
			return dto.SettingsResponse{}, err
		}

		if err := s.repo.Upsert(ctx, models.Setting{
			Key:       key,
			Value:     datatypes.JSON(raw),
			UpdatedBy: &actorID,
		}); err != nil {
			return dto.SettingsResponse{}, err
		}
		changed = append(changed, key)
	}

	if s.audit != nil && len(changed) > 0 {
		if err := s.audit.Record(ctx, LogEntry{
			Level:    models.LogLevelInfo,
			Message:  "site settings updated",
			ActorID:  &actorID,
			Action:   "settings_updated",
			IP:       actor.IP,
			Metadata: map[string]interface{}{"keys": strings.Join(changed, ",")},
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record settings audit entry")
		}
	}

	return s.Get(ctx)
}

func assembleSettings(rows []models.Setting) dto.SettingsResponse {
	document := make(map[string]interface{}, len(rows))
	var updatedAt time.Time
	for _, row := range rows {
		var value interface{}
		if err := json.Unmarshal(row.Value, &value); err != nil {
			value = string(row.Value)
		}
		document[row.Key] = value
		if row.UpdatedAt.After(updatedAt) {
			updatedAt = row.UpdatedAt
		}
	}

	return dto.SettingsResponse{Settings: document, UpdatedAt: updatedAt}
}
