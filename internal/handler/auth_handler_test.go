package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/literacy-go-api/internal/dto"
	"github.com/noah-isme/literacy-go-api/internal/handler"
	"github.com/noah-isme/literacy-go-api/internal/service"
)

type authServiceStub struct {
	verifyErr   error
	loginErr    error
	lastVerify  dto.VerifyEmailRequest
	verifyCalls int
}

func (s *authServiceStub) SignupAdmin(_ context.Context, req dto.AdminSignupRequest) (dto.UserResponse, error) {
	return dto.UserResponse{ID: 1, Email: req.Email, Role: "ADMIN", EmailVerified: true}, nil
}

func (s *authServiceStub) Register(_ context.Context, req dto.RegisterRequest) (dto.UserResponse, error) {
	return dto.UserResponse{ID: 2, Email: req.Email, Role: "TEACHER"}, nil
}

func (s *authServiceStub) VerifyEmail(_ context.Context, req dto.VerifyEmailRequest) error {
	s.verifyCalls++
	s.lastVerify = req
	return s.verifyErr
}

func (s *authServiceStub) Login(_ context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if s.loginErr != nil {
		return dto.LoginResponse{}, s.loginErr
	}
	return dto.LoginResponse{Token: "signed", ExpiresAt: time.Now().Add(time.Hour), User: dto.UserResponse{Email: req.Email}}, nil
}

func (s *authServiceStub) Me(_ context.Context, principal service.Principal) (dto.UserResponse, error) {
	if err := service.RequireAuth(principal); err != nil {
		return dto.UserResponse{}, err
	}
	return dto.UserResponse{ID: principal.UserID}, nil
}

func (s *authServiceStub) UpdateProfile(_ context.Context, principal service.Principal, _ dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	return dto.UserResponse{ID: principal.UserID}, nil
}

func (s *authServiceStub) ListUsers(context.Context, service.Principal, string) ([]dto.UserResponse, error) {
	return []dto.UserResponse{}, nil
}

func (s *authServiceStub) DeleteUser(context.Context, service.Principal, uint) error {
	return nil
}

func authApp(svc service.AuthService) *fiber.App {
	app := newApp(0, "")
	h := handler.NewAuthHandler(svc, testValidator(), "https://app.example.com/login", testLogger())
	h.RegisterPublic(app.Group("/api/v1/auth"))
	h.RegisterProfile(app.Group("/api/v1/me"))
	return app
}

func TestAuthHandlerVerifyRedirects(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		err      error
		location string
		calls    int
	}{
		{name: "verified", query: "?token=abc&userId=7", location: "https://app.example.com/login?verified=true", calls: 1},
		{name: "bad token", query: "?token=abc&userId=7", err: &service.Error{Code: service.CodeValidation}, location: "https://app.example.com/login?error=invalid_link", calls: 1},
		{name: "unknown user", query: "?token=abc&userId=7", err: service.ErrNotFound, location: "https://app.example.com/login?error=unknown_user", calls: 1},
		{name: "server error", query: "?token=abc&userId=7", err: service.ErrInternal, location: "https://app.example.com/login?error=server_error", calls: 1},
		{name: "malformed user id", query: "?token=abc&userId=seven", location: "https://app.example.com/login?error=invalid_link"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &authServiceStub{verifyErr: tc.err}
			app := authApp(svc)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/auth/verify"+tc.query, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusFound, resp.StatusCode)
			require.Equal(t, tc.location, resp.Header.Get("Location"))
			require.Equal(t, tc.calls, svc.verifyCalls)
			if tc.calls > 0 {
				require.Equal(t, dto.VerifyEmailRequest{Token: "abc", UserID: 7}, svc.lastVerify)
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	app := authApp(&authServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"t@example.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body envelope
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Contains(t, string(body.Data), `"token":"signed"`)

	locked := authApp(&authServiceStub{loginErr: &service.Error{Code: service.CodeForbidden, Message: "email address has not been verified"}})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"t@example.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = locked.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"name":"T","email":"nope","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAuthHandlerMeWithoutIdentity(t *testing.T) {
	app := authApp(&authServiceStub{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
