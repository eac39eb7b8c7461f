package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/literacy-go-api/internal/dto"
	"github.com/noah-isme/literacy-go-api/internal/models"
	"github.com/noah-isme/literacy-go-api/internal/observability"
	"github.com/noah-isme/literacy-go-api/internal/repository"
)

// SessionRecordedSubject is the NATS subject announcing newly recorded sessions.
const SessionRecordedSubject = "reading.session.recorded"

// AudioStorage stores session recordings under a key and returns their public URL.
type AudioStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader) (string, error)
}

// EventPublisher publishes raw event payloads. *nats.Conn satisfies it.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

// SessionRecordedEvent is published after a session has been stored.
type SessionRecordedEvent struct {
	SessionID    uint      `json:"session_id"`
	StudentID    uint      `json:"student_id"`
	PassageID    uint      `json:"passage_id"`
	AssessmentID *uint     `json:"assessment_id,omitempty"`
	AudioURL     string    `json:"audio_url,omitempty"`
	RecordedBy   uint      `json:"recorded_by"`
	RecordedAt   time.Time `json:"recorded_at"`
	RequestID    string    `json:"request_id,omitempty"`
}

// ReadingSessionConfig tunes audio handling.
type ReadingSessionConfig struct {
	AudioNamespace string
	MaxAudioSizeMB int
}

// ReadingSessionService records oral reading sessions and serves their aggregate view.
type ReadingSessionService interface {
	Create(ctx context.Context, principal Principal, req dto.ReadingSessionCreateRequest, audio *multipart.FileHeader) (dto.ReadingSessionResponse, error)
	ListByStudent(ctx context.Context, principal Principal, studentID uint) ([]dto.ReadingSessionResponse, error)
	GetAggregate(ctx context.Context, principal Principal, id uint) (dto.ReadingSessionAggregateResponse, error)
}

type readingSessionService struct {
	sessions    repository.ReadingSessionRepository
	students    repository.StudentRepository
	passages    repository.PassageRepository
	assessments repository.AssessmentRepository
	storage     AudioStorage
	events      EventPublisher
	validator   *validator.Validate
	namespace   string
	maxSize     int64
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewReadingSessionService constructs a ReadingSessionService. storage and events may be nil;
// audio uploads then fail and events are skipped.
func NewReadingSessionService(
	sessions repository.ReadingSessionRepository,
	students repository.StudentRepository,
	passages repository.PassageRepository,
	assessments repository.AssessmentRepository,
	storage AudioStorage,
	events EventPublisher,
	validate *validator.Validate,
	cfg ReadingSessionConfig,
	logger zerolog.Logger,
) ReadingSessionService {
	namespace := strings.Trim(cfg.AudioNamespace, "/")
	if namespace == "" {
		namespace = "fluency-reading"
	}
	maxSizeMB := cfg.MaxAudioSizeMB
	if maxSizeMB <= 0 {
		maxSizeMB = 25
	}

	return &readingSessionService{
		sessions:    sessions,
		students:    students,
		passages:    passages,
		assessments: assessments,
		storage:     storage,
		events:      events,
		validator:   validate,
		namespace:   namespace,
		maxSize:     int64(maxSizeMB) * 1024 * 1024,
		logger:      logger.With().Str("component", "reading_session_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/literacy-go-api/internal/service/reading_session"),
		now:         time.Now,
	}
}

func (s *readingSessionService) Create(ctx context.Context, principal Principal, req dto.ReadingSessionCreateRequest, audio *multipart.FileHeader) (dto.ReadingSessionResponse, error) {
	if err := RequireRole(principal, models.RoleTeacher); err != nil {
		return dto.ReadingSessionResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.ReadingSessionResponse{}, validationError(err)
	}

	scope := repository.OwnedBy(principal.UserID)
	if _, err := s.students.Get(ctx, req.StudentID, scope); err != nil {
		return dto.ReadingSessionResponse{}, persistenceError(s.logger, "student", err)
	}
	if _, err := s.passages.GetByID(ctx, req.PassageID); err != nil {
		return dto.ReadingSessionResponse{}, persistenceError(s.logger, "passage", err)
	}
	if req.AssessmentID != nil {
		assessment, err := s.assessments.Get(ctx, *req.AssessmentID, scope)
		if err != nil {
			return dto.ReadingSessionResponse{}, persistenceError(s.logger, "assessment", err)
		}
		if assessment.StudentID != req.StudentID {
			return dto.ReadingSessionResponse{}, invalid("assessment_id", "assessment belongs to another student")
		}
	}

	recordedAt := s.now()
	session := models.OralReadingSession{
		StudentID:    req.StudentID,
		PassageID:    req.PassageID,
		AssessmentID: req.AssessmentID,
	}

	if audio != nil {
		url, err := s.storeAudio(ctx, req, audio, recordedAt)
		if err != nil {
			return dto.ReadingSessionResponse{}, err
		}
		session.AudioURL = url
	}

	if err := s.sessions.Create(ctx, &session); err != nil {
		return dto.ReadingSessionResponse{}, persistenceError(s.logger, "reading session", err)
	}

	observability.SessionsRecorded().WithLabelValues(fmt.Sprintf("%t", session.AudioURL != "")).Inc()
	s.publishRecorded(ctx, session, principal, recordedAt)

	logger := observability.LoggerFrom(ctx, s.logger)
	logger.Info().
		Uint("session_id", session.ID).
		Uint("student_id", session.StudentID).
		Uint("passage_id", session.PassageID).
		Msg("reading session recorded")

	return dto.NewReadingSessionResponse(session), nil
}

func (s *readingSessionService) ListByStudent(ctx context.Context, principal Principal, studentID uint) ([]dto.ReadingSessionResponse, error) {
	if err := requireAnyRole(principal, models.RoleTeacher, models.RoleAdmin); err != nil {
		return nil, err
	}

	scope := readScope(principal)
	if _, err := s.students.Get(ctx, studentID, scope); err != nil {
		return nil, persistenceError(s.logger, "student", err)
	}

	sessions, err := s.sessions.ListByStudent(ctx, studentID, scope)
	if err != nil {
		return nil, persistenceError(s.logger, "reading session", err)
	}

	return dto.NewReadingSessionResponseSlice(sessions), nil
}

func (s *readingSessionService) GetAggregate(ctx context.Context, principal Principal, id uint) (dto.ReadingSessionAggregateResponse, error) {
	if err := requireAnyRole(principal, models.RoleTeacher, models.RoleAdmin); err != nil {
		return dto.ReadingSessionAggregateResponse{}, err
	}

	session, err := s.sessions.GetAggregate(ctx, id, readScope(principal))
	if err != nil {
		return dto.ReadingSessionAggregateResponse{}, persistenceError(s.logger, "session", err)
	}

	return dto.NewReadingSessionAggregateResponse(session), nil
}

// AudioKey builds the storage key "<namespace>/<studentId>-<passageId>-<timestamp>.<ext>".
func AudioKey(namespace string, studentID, passageID uint, at time.Time, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%d-%d-%d.%s", strings.Trim(namespace, "/"), studentID, passageID, at.UnixMilli(), ext)
}

func (s *readingSessionService) storeAudio(ctx context.Context, req dto.ReadingSessionCreateRequest, audio *multipart.FileHeader, at time.Time) (string, error) {
	ctx, span := s.tracer.Start(ctx, "reading_session.audio_upload")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("audio.request_size", audio.Size),
		attribute.Int64("audio.max_bytes", s.maxSize),
	)

	if audio.Size > s.maxSize {
		span.SetStatus(codes.Error, "payload too large")
		return "", invalid("audio", fmt.Sprintf("must be at most %d bytes", s.maxSize))
	}

	handle, err := audio.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return "", persistenceError(s.logger, "audio", err)
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return "", persistenceError(s.logger, "audio", err)
	}
	if int64(buf.Len()) > s.maxSize {
		span.SetStatus(codes.Error, "payload too large")
		return "", invalid("audio", fmt.Sprintf("must be at most %d bytes", s.maxSize))
	}
	if buf.Len() == 0 {
		span.SetStatus(codes.Error, "empty payload")
		return "", invalid("audio", "must not be empty")
	}

	detected := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("audio.detected_mime", detected.String()))
	if !isAudioMime(detected.String()) {
		span.SetStatus(codes.Error, "type not allowed")
		return "", invalid("audio", "must be an audio recording")
	}

	if s.storage == nil {
		span.SetStatus(codes.Error, "storage unavailable")
		s.logger.Error().Msg("audio upload attempted without configured storage")
		return "", &Error{Code: CodeInternal, Message: "internal server error"}
	}

	key := AudioKey(s.namespace, req.StudentID, req.PassageID, at, detected.Extension())
	span.SetAttributes(attribute.String("audio.key", key))

	start := time.Now()
	url, err := s.storage.Upload(ctx, key, bytes.NewReader(buf.Bytes()))
	observability.AudioUploadLatency().Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return "", persistenceError(s.logger, "audio", err)
	}

	span.SetStatus(codes.Ok, "stored")
	return url, nil
}

func (s *readingSessionService) publishRecorded(ctx context.Context, session models.OralReadingSession, principal Principal, at time.Time) {
	if s.events == nil {
		return
	}

	payload, err := json.Marshal(SessionRecordedEvent{
		SessionID:    session.ID,
		StudentID:    session.StudentID,
		PassageID:    session.PassageID,
		AssessmentID: session.AssessmentID,
		AudioURL:     session.AudioURL,
		RecordedBy:   principal.UserID,
		RecordedAt:   at.UTC(),
		RequestID:    observability.CorrelationID(ctx),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode session event")
		return
	}

	if err := s.events.Publish(SessionRecordedSubject, payload); err != nil {
		logger := observability.LoggerFrom(ctx, s.logger)
		logger.Warn().Err(err).Uint("session_id", session.ID).Msg("failed to publish session event")
	}
}

func isAudioMime(value string) bool {
	lower := strings.ToLower(value)
	if idx := strings.Index(lower, ";"); idx >= 0 {
		lower = lower[:idx]
	}
	if strings.HasPrefix(lower, "audio/") {
		return true
	}
	switch lower {
	case "video/webm", "video/ogg", "video/mp4", "application/ogg":
		return true
	default:
		return false
	}
}
