package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/literacy-go-api/internal/dto"
	"github.com/noah-isme/literacy-go-api/internal/models"
	"github.com/noah-isme/literacy-go-api/internal/repository"
	"github.com/noah-isme/literacy-go-api/pkg/mail"
	"github.com/noah-isme/literacy-go-api/pkg/token"
)

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

// AuthConfig holds token and signup settings.
type AuthConfig struct {
	AppName         string
	JWTSecret       string
	AccessTTL       time.Duration
	VerificationTTL time.Duration
	AdminSignupCode string
	VerificationURL string
	BcryptCost      int
}

// AuthService manages accounts, credentials and tokens.
type AuthService interface {
	SignupAdmin(ctx context.Context, req dto.AdminSignupRequest) (dto.UserResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (dto.UserResponse, error)
	VerifyEmail(ctx context.Context, req dto.VerifyEmailRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	Me(ctx context.Context, principal Principal) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, principal Principal, req dto.ProfileUpdateRequest) (dto.UserResponse, error)
	ListUsers(ctx context.Context, principal Principal, role string) ([]dto.UserResponse, error)
	DeleteUser(ctx context.Context, principal Principal, id uint) error
}

type authService struct {
	users     repository.UserRepository
	mailer    Mailer
	validator *validator.Validate
	cfg       AuthConfig
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repository.UserRepository, mailer Mailer, validate *validator.Validate, cfg AuthConfig, logger zerolog.Logger) AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 12 * time.Hour
	}
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.AppName == "" {
		cfg.AppName = "Literacy"
	}
	return &authService{
		users:     users,
		mailer:    mailer,
		validator: validate,
		cfg:       cfg,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) SignupAdmin(ctx context.Context, req dto.AdminSignupRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, validationError(err)
	}

	expected := s.cfg.AdminSignupCode
	if expected == "" {
		return dto.UserResponse{}, forbidden("admin signup is disabled")
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(req.SignupCode)) != 1 {
		return dto.UserResponse{}, forbidden("invalid signup code")
	}

	verifiedAt := s.now()
	user, err := s.createUser(ctx, req.Name, req.Email, req.Password, models.RoleAdmin, &verifiedAt)
	if err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("admin account created")
	return dto.NewUserResponse(user), nil
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, validationError(err)
	}

	user, err := s.createUser(ctx, req.Name, req.Email, req.Password, models.RoleTeacher, nil)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if err := s.sendVerification(ctx, user); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to send verification email")
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) createUser(ctx context.Context, name, email, password string, role models.Role, verifiedAt *time.Time) (models.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, invalid("name", "is required")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return models.User{}, conflict("an account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, persistenceError(s.logger, "user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return models.User{}, persistenceError(s.logger, "user", err)
	}

	user := models.User{
		Name:            name,
		Email:           email,
		PasswordHash:    string(hash),
		Role:            role,
		EmailVerifiedAt: verifiedAt,
	}
	// A concurrent register can pass the lookup above; the unique index then fails the insert,
	// which gorm reports as ErrDuplicatedKey only when the DB is opened with TranslateError.
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, conflict("an account with this email already exists")
		}
		return models.User{}, persistenceError(s.logger, "user", err)
	}

	return user, nil
}

func (s *authService) sendVerification(ctx context.Context, user models.User) error {
	if s.mailer == nil {
		return fmt.Errorf("mailer not configured")
	}

	signed, _, err := token.Issue(s.cfg.JWTSecret, user.ID, "", token.PurposeEmailVerification, s.now(), s.cfg.VerificationTTL)
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("token", signed)
	query.Set("userId", strconv.FormatUint(uint64(user.ID), 10))
	link := s.cfg.VerificationURL + "?" + query.Encode()

	return s.mailer.Send(ctx, mail.Message{
		ToName:      user.Name,
		ToAddress:   user.Email,
		Subject:     "Verify your email address",
		TextContent: fmt.Sprintf("Hello %s,\n\nConfirm your %s account by opening this link:\n%s\n", user.Name, s.cfg.AppName, link),
		HTMLContent: fmt.Sprintf(`<p>Hello %s,</p><p>Confirm your %s account by opening <a href="%s">this link</a>.</p>`, user.Name, s.cfg.AppName, link),
	})
}

func (s *authService) VerifyEmail(ctx context.Context, req dto.VerifyEmailRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err)
	}

	claims, err := token.Parse(s.cfg.JWTSecret, req.Token, token.PurposeEmailVerification, s.now())
	if err != nil {
		return invalid("token", "verification link is invalid or expired")
	}
	subject, err := claims.UserID()
	if err != nil || subject != req.UserID {
		return invalid("token", "verification link is invalid or expired")
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return persistenceError(s.logger, "user", err)
	}
	if err := s.users.MarkVerified(ctx, req.UserID, s.now()); err != nil {
		return persistenceError(s.logger, "user", err)
	}

	s.logger.Info().Uint("user_id", req.UserID).Msg("email verified")
	return nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, validationError(err)
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, unauthorized("invalid email or password")
		}
		return dto.LoginResponse{}, persistenceError(s.logger, "user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return dto.LoginResponse{}, unauthorized("invalid email or password")
	}
	if user.Role == models.RoleTeacher && !user.IsVerified() {
		return dto.LoginResponse{}, forbidden("email address has not been verified")
	}

	signed, expiresAt, err := token.Issue(s.cfg.JWTSecret, user.ID, string(user.Role), token.PurposeAccess, s.now(), s.cfg.AccessTTL)
	if err != nil {
		return dto.LoginResponse{}, persistenceError(s.logger, "token", err)
	}

	return dto.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      dto.NewUserResponse(user),
	}, nil
}

func (s *authService) Me(ctx context.Context, principal Principal) (dto.UserResponse, error) {
	if err := RequireAuth(principal); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		return dto.UserResponse{}, persistenceError(s.logger, "user", err)
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) UpdateProfile(ctx context.Context, principal Principal, req dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	if err := RequireAuth(principal); err != nil {
		return dto.UserResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, validationError(err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return dto.UserResponse{}, invalid("name", "is required")
		}
		updates["name"] = name
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.cfg.BcryptCost)
		if err != nil {
			return dto.UserResponse{}, persistenceError(s.logger, "user", err)
		}
		updates["password_hash"] = string(hash)
	}

	user, err := s.users.Update(ctx, principal.UserID, updates)
	if err != nil {
		return dto.UserResponse{}, persistenceError(s.logger, "user", err)
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) ListUsers(ctx context.Context, principal Principal, role string) ([]dto.UserResponse, error) {
	if err := RequireRole(principal, models.RoleAdmin); err != nil {
		return nil, err
	}

	var filter *models.Role
	if strings.TrimSpace(role) != "" {
		parsed, ok := models.ParseRole(role)
		if !ok {
			return nil, invalid("role", "must be one of: ADMIN TEACHER")
		}
		filter = &parsed
	}

	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, persistenceError(s.logger, "user", err)
	}

	return dto.NewUserResponseSlice(users), nil
}

func (s *authService) DeleteUser(ctx context.Context, principal Principal, id uint) error {
	if err := RequireRole(principal, models.RoleAdmin); err != nil {
		return err
	}
	if id == principal.UserID {
		return conflict("administrators cannot delete their own account")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserOwnsClasses) {
			return conflict("user still owns classes")
		}
		return persistenceError(s.logger, "user", err)
	}

	s.logger.Info().Uint("user_id", id).Uint("deleted_by", principal.UserID).Msg("user deleted")
	return nil
}
