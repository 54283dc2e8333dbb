package api

import (
	"context"
	"net/http"

	"github.com/mamadbah2/farmdesk/internal/domain/models"
)

// AuthService wraps the authentication endpoints. Auth paths never carry a
// bearer header and a 401 from them does not trigger the session-expiry hook.
type AuthService struct {
	client *Client
}

// NewAuthService builds the auth endpoint wrapper.
func NewAuthService(client *Client) *AuthService {
	return &AuthService{client: client}
}

// LoginRequest is the credential payload for Login. EmailOrUsername accepts
// either identifier.
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// SignupRequest registers a new account.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName,omitempty"`
}

// Login exchanges credentials for a session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (models.Session, error) {
	raw, err := s.client.call(ctx, http.MethodPost, "/auth/login", nil, req)
	if err != nil {
		return models.Session{}, err
	}
	return decode[models.Session](raw)
}

// Signup creates an account and returns the fresh session.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (models.Session, error) {
	raw, err := s.client.call(ctx, http.MethodPost, "/auth/signup", nil, req)
	if err != nil {
		return models.Session{}, err
	}
	return decode[models.Session](raw)
}

// ForgotPassword triggers a reset email for the given address.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	_, err := s.client.call(ctx, http.MethodPost, "/auth/forgot-password", nil, map[string]string{"email": email})
	return err
}

// ResetPassword completes a password reset using the emailed token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	payload := map[string]string{"token": token, "password": newPassword}
	_, err := s.client.call(ctx, http.MethodPost, "/auth/reset-password", nil, payload)
	return err
}
