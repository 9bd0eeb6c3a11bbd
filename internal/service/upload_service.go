package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/observability"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
)

var (
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadNotImage indicates the sniffed MIME type is not an image.
	ErrUploadNotImage = errors.New("only image uploads are allowed")
)

// StoredImage is the storage layer's receipt for an uploaded image.
type StoredImage struct {
	PublicID string
	URL      string
}

// ImageStorage abstracts the image hosting backend.
type ImageStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (StoredImage, error)
	Destroy(ctx context.Context, publicID string) error
}

// UploadService validates and stores image uploads. New images enter the
// moderation queue in the pending state.
type UploadService interface {
	Upload(ctx context.Context, file *multipart.FileHeader, payload dto.UploadRequest, userID uint) (dto.ImageResponse, error)
}

type uploadService struct {
	storage   ImageStorage
	images    repository.ImageRepository
	users     repository.UserRepository
	activity  ActivityService
	validator *validator.Validate
	logger    zerolog.Logger
	maxSize   int64
	tracer    trace.Tracer
}

// NewUploadService constructs an upload service.
func NewUploadService(storage ImageStorage, images repository.ImageRepository, users repository.UserRepository, activity ActivityService, validate *validator.Validate, maxSizeMB int, logger zerolog.Logger) UploadService {
	if maxSizeMB <= 0 {
		maxSizeMB = 20
	}
	return &uploadService{
		storage:   storage,
		images:    images,
		users:     users,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "upload_service").Logger(),
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
		tracer:    otel.Tracer("github.com/hothanhtai16998/PhotoCloud-sub000/internal/service"),
	}
}

func (s *uploadService) Upload(ctx context.Context, file *multipart.FileHeader, payload dto.UploadRequest, userID uint) (dto.ImageResponse, error) {
	ctx, span := s.tracer.Start(ctx, "upload.store")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.ImageResponse{}, err
	}

	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.ImageResponse{}, err
	}

	span.SetAttributes(
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.ImageResponse{}, ErrUploadTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.ImageResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.ImageResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.ImageResponse{}, ErrUploadTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("upload.detected_mime", mime.String()))
	if !strings.HasPrefix(mime.String(), "image/") {
		observability.UploadRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrUploadNotImage)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.ImageResponse{}, ErrUploadNotImage
	}

	checksum := sha256.Sum256(buf.Bytes())
	name := sanitizeFileName(file.Filename)

	stored, err := s.storage.Upload(ctx, name, bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.UploadRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.ImageResponse{}, err
	}

	image := models.Image{
		UserID:    userID,
		Title:     strings.TrimSpace(payload.Title),
		Caption:   strings.TrimSpace(payload.Caption),
		StorageID: stored.PublicID,
		URL:       stored.URL,
		MimeType:  mime.String(),
		SizeBytes: int64(buf.Len()),
		Checksum:  hex.EncodeToString(checksum[:]),
		Status:    models.ImageStatusPending,
	}

	if err := s.images.Create(ctx, &image); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.ImageResponse{}, err
	}

	// Counter bump and activity bucket are best-effort side effects.
	if err := s.users.IncrementUploadCount(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to bump upload count")
	}
	if s.activity != nil {
		if err := s.activity.Track(ctx, userID, image.ID, models.ActivityUpload); err != nil {
			s.logger.Warn().Err(err).Uint("image_id", image.ID).Msg("failed to record upload activity")
		}
	}

	observability.UploadRequests().Inc()
	span.SetStatus(codes.Ok, "stored")

	return dto.NewImageResponse(image), nil
}

func sanitizeFileName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ToLower(base)
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, base)
	base = strings.Trim(base, "-")
	if base == "" {
		base = fmt.Sprintf("upload-%d", time.Now().Unix())
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = ".jpg"
	}
	return base + ext
}
