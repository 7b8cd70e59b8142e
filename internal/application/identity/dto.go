package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/identity"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/auth"
)

// RegisterInput contains the input for account registration
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	Tokens TokenResult
	User   UserInfo
}

// TokenResult carries an access/refresh token pair
type TokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// UserInfo contains the public view of a user
type UserInfo struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	Status      string
	LastLoginAt *time.Time
	CreatedAt   time.Time
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID uuid.UUID
	// AccessJTI and AccessTTL identify the access token presented with the request
	AccessJTI string
	AccessTTL time.Duration
	// RefreshToken is revoked too when supplied
	RefreshToken string
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.NameOrEmail(),
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func toTokenResult(p *auth.TokenPair) TokenResult {
	return TokenResult{
		AccessToken:           p.AccessToken,
		RefreshToken:          p.RefreshToken,
		AccessTokenExpiresAt:  p.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: p.RefreshTokenExpiresAt,
		TokenType:             p.TokenType,
	}
}
