package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/literacy-go-api/internal/dto"
	"github.com/noah-isme/literacy-go-api/internal/models"
	"github.com/noah-isme/literacy-go-api/internal/observability"
	"github.com/noah-isme/literacy-go-api/internal/repository"
)

const passageCacheVersionKey = "passages:version"

// PassageService manages reading passages. Writes are admin-only; any signed-in user may read.
type PassageService interface {
	Create(ctx context.Context, principal Principal, req dto.PassageCreateRequest) (dto.PassageResponse, error)
	List(ctx context.Context, principal Principal, filter dto.PassageFilter) (dto.PassageListResponse, error)
	Get(ctx context.Context, principal Principal, id uint) (dto.PassageResponse, error)
	Update(ctx context.Context, principal Principal, id uint, req dto.PassageUpdateRequest) (dto.PassageResponse, error)
	Delete(ctx context.Context, principal Principal, id uint) error
}

type passageService struct {
	repo      repository.PassageRepository
	cache     *redis.Client
	ttl       time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPassageService constructs a PassageService. A nil cache disables list caching.
func NewPassageService(repo repository.PassageRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) PassageService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &passageService{
		repo:      repo,
		cache:     cache,
		ttl:       ttl,
		validator: validate,
		logger:    logger.With().Str("component", "passage_service").Logger(),
	}
}

// isBlank reports whether text has no visible characters. Text is otherwise stored as submitted.
func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

func (s *passageService) Create(ctx context.Context, principal Principal, req dto.PassageCreateRequest) (dto.PassageResponse, error) {
	if err := RequireRole(principal, models.RoleAdmin); err != nil {
		return dto.PassageResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.PassageResponse{}, validationError(err)
	}

	passage := models.Passage{
		Title:    req.Title,
		Content:  req.Content,
		Language: strings.TrimSpace(req.Language),
		Level:    req.Level,
		Tags:     models.ComprehensionTag(req.Tags),
		TestType: models.TestType(req.TestType),
	}
	if isBlank(passage.Title) {
		return dto.PassageResponse{}, invalid("title", "is required")
	}
	if isBlank(passage.Content) {
		return dto.PassageResponse{}, invalid("content", "is required")
	}

	if err := s.repo.Create(ctx, &passage); err != nil {
		return dto.PassageResponse{}, persistenceError(s.logger, "passage", err)
	}

	s.invalidate(ctx)
	return dto.NewPassageResponse(passage), nil
}

func (s *passageService) List(ctx context.Context, principal Principal, filter dto.PassageFilter) (dto.PassageListResponse, error) {
	if err := RequireAuth(principal); err != nil {
		return dto.PassageListResponse{}, err
	}
	if err := s.validator.Struct(filter); err != nil {
		return dto.PassageListResponse{}, validationError(err)
	}

	filter.Page = maxInt(filter.Page, 1)
	filter.PageSize = clampPageSize(filter.PageSize)

	cacheKey := s.cacheKey(ctx, filter)
	if cacheKey != "" {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var response dto.PassageListResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				response.CacheHit = true
				observability.PassageCacheRequests().WithLabelValues("hit").Inc()
				return response, nil
			}
		}
	}

	items, total, err := s.repo.List(ctx, repository.PassageFilter{
		Language: filter.Language,
		Level:    filter.Level,
		Tags:     filter.Tags,
		TestType: filter.TestType,
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
	if err != nil {
		observability.PassageCacheRequests().WithLabelValues("error").Inc()
		return dto.PassageListResponse{}, persistenceError(s.logger, "passage", err)
	}

	responses := make([]dto.PassageResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.NewPassageResponse(item))
	}
	response := dto.PassageListResponse{
		Items:      responses,
		Pagination: dto.NewPaginationMeta(filter.Page, filter.PageSize, total),
	}

	if cacheKey != "" {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache passages")
			}
		}
	}

	observability.PassageCacheRequests().WithLabelValues("miss").Inc()
	return response, nil
}

func (s *passageService) Get(ctx context.Context, principal Principal, id uint) (dto.PassageResponse, error) {
	if err := RequireAuth(principal); err != nil {
		return dto.PassageResponse{}, err
	}

	passage, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.PassageResponse{}, persistenceError(s.logger, "passage", err)
	}

	return dto.NewPassageResponse(passage), nil
}

func (s *passageService) Update(ctx context.Context, principal Principal, id uint, req dto.PassageUpdateRequest) (dto.PassageResponse, error) {
	if err := RequireRole(principal, models.RoleAdmin); err != nil {
		return dto.PassageResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.PassageResponse{}, validationError(err)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if isBlank(*req.Title) {
			return dto.PassageResponse{}, invalid("title", "is required")
		}
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		if isBlank(*req.Content) {
			return dto.PassageResponse{}, invalid("content", "is required")
		}
		updates["content"] = *req.Content
	}
	if req.Language != nil {
		updates["language"] = strings.TrimSpace(*req.Language)
	}
	if req.Level != nil {
		updates["level"] = *req.Level
	}
	if req.Tags != nil {
		updates["tags"] = *req.Tags
	}
	if req.TestType != nil {
		updates["test_type"] = *req.TestType
	}

	passage, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return dto.PassageResponse{}, persistenceError(s.logger, "passage", err)
	}

	if len(updates) > 0 {
		s.invalidate(ctx)
	}
	return dto.NewPassageResponse(passage), nil
}

func (s *passageService) Delete(ctx context.Context, principal Principal, id uint) error {
	if err := RequireRole(principal, models.RoleAdmin); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPassageInUse) {
			return conflict("passage has recorded reading sessions")
		}
		return persistenceError(s.logger, "passage", err)
	}

	s.invalidate(ctx)
	return nil
}

// cacheKey embeds the current cache generation so a single INCR invalidates every page.
func (s *passageService) cacheKey(ctx context.Context, filter dto.PassageFilter) string {
	if s.cache == nil {
		return ""
	}

	version, err := s.cache.Get(ctx, passageCacheVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn().Err(err).Msg("passage cache unavailable")
		return ""
	}

	level := "any"
	if filter.Level != nil {
		level = fmt.Sprintf("%d", *filter.Level)
	}

	return fmt.Sprintf("passages:list:v%d:%s:%s:%s:%s:%s:%d:%d",
		version,
		strings.ToLower(strings.TrimSpace(filter.Language)),
		level,
		filter.Tags,
		filter.TestType,
		strings.ToLower(strings.TrimSpace(filter.Search)),
		filter.Page,
		filter.PageSize,
	)
}

func (s *passageService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, passageCacheVersionKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate passage cache")
	}
}
