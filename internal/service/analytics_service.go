package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/observability"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
)

const (
	defaultAnalyticsDays = 30
	maxAnalyticsDays     = 90
)

// AnalyticsService aggregates the dashboard summary: daily uploads, new
// users, views and downloads over a requested range, with
// comparison-period deltas. Day boundaries are timezone-adjusted.
type AnalyticsService interface {
	Summary(ctx context.Context, req dto.AnalyticsSummaryRequest) (dto.AnalyticsSummaryResponse, error)
}

type analyticsService struct {
	repo     repository.AnalyticsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	location *time.Location
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAnalyticsService constructs the analytics service.
func NewAnalyticsService(repo repository.AnalyticsRepository, cache *redis.Client, ttl time.Duration, location *time.Location, logger zerolog.Logger) AnalyticsService {
	if location == nil {
		location = time.UTC
	}
	return &analyticsService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		location: location,
		logger:   logger.With().Str("component", "analytics_service").Logger(),
		now:      time.Now,
	}
}

func (s *analyticsService) Summary(ctx context.Context, req dto.AnalyticsSummaryRequest) (dto.AnalyticsSummaryResponse, error) {
	days := req.Days
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	if days > maxAnalyticsDays {
		days = maxAnalyticsDays
	}

	location := s.location
	if req.Timezone != "" {
		if loc, err := time.LoadLocation(req.Timezone); err == nil {
			location = loc
		}
	}

	cacheKey := fmt.Sprintf("analytics:summary:%d:%s", days, location.String())
	tracer := otel.Tracer("github.com/hothanhtai16998/PhotoCloud-sub000/internal/service")
	ctx, span := tracer.Start(ctx, "analytics.summary")
	span.SetAttributes(
		attribute.Int("analytics.range_days", days),
		attribute.String("analytics.timezone", location.String()),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		observability.AnalyticsLatency().Observe(time.Since(start).Seconds())
	}()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.AnalyticsSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read analytics cache")
			span.RecordError(err)
		}
	}

	// Day boundaries are taken in the reporting timezone; the current
	// window covers `days` days ending today, the comparison window the
	// `days` days before that.
	today := startOfDay(s.now(), location)
	windowStart := today.AddDate(0, 0, -(days - 1))
	previousStart := windowStart.AddDate(0, 0, -days)

	imageTimes, err := s.repo.ListImageCreationTimes(ctx, previousStart)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_image_times_failed")
		return dto.AnalyticsSummaryResponse{}, err
	}
	userTimes, err := s.repo.ListUserCreationTimes(ctx, previousStart)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_user_times_failed")
		return dto.AnalyticsSummaryResponse{}, err
	}
	views, err := s.repo.ListActivitySince(ctx, models.ActivityView, previousStart.Format(activityDateLayout))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_views_failed")
		return dto.AnalyticsSummaryResponse{}, err
	}
	downloads, err := s.repo.ListActivitySince(ctx, models.ActivityDownload, previousStart.Format(activityDateLayout))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_downloads_failed")
		return dto.AnalyticsSummaryResponse{}, err
	}

	summary := dto.AnalyticsSummaryResponse{
		Uploads:     buildSeriesFromTimes(imageTimes, windowStart, previousStart, days, location),
		NewUsers:    buildSeriesFromTimes(userTimes, windowStart, previousStart, days, location),
		Views:       buildSeriesFromActivity(views, windowStart, previousStart, days, location),
		Downloads:   buildSeriesFromActivity(downloads, windowStart, previousStart, days, location),
		RangeDays:   days,
		Timezone:    location.String(),
		GeneratedAt: s.now().UTC(),
	}

	if s.cache != nil {
		if payload, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store analytics cache")
				span.RecordError(err)
			}
		}
	}

	return summary, nil
}

func buildSeriesFromTimes(times []time.Time, windowStart, previousStart time.Time, days int, location *time.Location) dto.AnalyticsSeries {
	counts := make(map[string]int64)
	var previousTotal int64
	for _, t := range times {
		local := t.In(location)
		if local.Before(previousStart) {
			continue
		}
		if local.Before(windowStart) {
			previousTotal++
			continue
		}
		counts[local.Format(activityDateLayout)]++
	}
	return assembleSeries(counts, previousTotal, windowStart, days)
}

func buildSeriesFromActivity(activities []models.UserActivity, windowStart, previousStart time.Time, days int, location *time.Location) dto.AnalyticsSeries {
	windowStartDate := windowStart.Format(activityDateLayout)
	previousStartDate := previousStart.Format(activityDateLayout)

	counts := make(map[string]int64)
	var previousTotal int64
	for _, activity := range activities {
		if activity.Date < previousStartDate {
			continue
		}
		if activity.Date < windowStartDate {
			previousTotal += activity.Count
			continue
		}
		counts[activity.Date] += activity.Count
	}
	return assembleSeries(counts, previousTotal, windowStart, days)
}

func assembleSeries(counts map[string]int64, previousTotal int64, windowStart time.Time, days int) dto.AnalyticsSeries {
	daily := make([]dto.DailyCountPoint, 0, days)
	var total int64
	for i := 0; i < days; i++ {
		date := windowStart.AddDate(0, 0, i).Format(activityDateLayout)
		count := counts[date]
		total += count
		daily = append(daily, dto.DailyCountPoint{Date: date, Count: count})
	}

	return dto.AnalyticsSeries{
		Total:         total,
		PreviousTotal: previousTotal,
		DeltaPercent:  deltaPercent(total, previousTotal),
		Daily:         daily,
	}
}

func deltaPercent(current, previous int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (float64(current-previous) / float64(previous)) * 100
}

func startOfDay(t time.Time, location *time.Location) time.Time {
	local := t.In(location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
}
