package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
	SessionToken TokenType = "session"
)

const (
	RoleAdmin = "admin"
	RoleGuest = "guest"
)

// guest cart sessions outlive admin access tokens
const sessionExpiry = 30 * 24 * time.Hour

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidTokenType = errors.New("invalid token type")
)

type JWTManager struct {
	secretKey         string
	accessExpiryHours int
	refreshExpiryDays int
	now               func() time.Time
}

// Claims identifies either an admin (UserID set) or a guest cart session
// (SessionID set).
type Claims struct {
	UserID    string    `json:"user_id,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Role      string    `json:"role"`
	Email     string    `json:"email,omitempty"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func NewJWTManager(secretKey string, accessExpiryHours, refreshExpiryDays int) *JWTManager {
	return &JWTManager{
		secretKey:         secretKey,
		accessExpiryHours: accessExpiryHours,
		refreshExpiryDays: refreshExpiryDays,
		now:               time.Now,
	}
}

func (j *JWTManager) expiry(tokenType TokenType) time.Duration {
	switch tokenType {
	case AccessToken:
		return time.Hour * time.Duration(j.accessExpiryHours)
	case RefreshToken:
		return time.Hour * 24 * time.Duration(j.refreshExpiryDays)
	default:
		return sessionExpiry
	}
}

// AccessExpiry is the lifetime of an admin access token.
func (j *JWTManager) AccessExpiry() time.Duration {
	return j.expiry(AccessToken)
}

func (j *JWTManager) RefreshExpiry() time.Duration {
	return j.expiry(RefreshToken)
}

func (j *JWTManager) sign(claims *Claims) (string, error) {
	now := j.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(j.expiry(claims.TokenType))),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *JWTManager) generateToken(userID, role, email string, tokenType TokenType) (string, error) {
	return j.sign(&Claims{
		UserID:    userID,
		Role:      role,
		Email:     email,
		TokenType: tokenType,
	})
}

func (j *JWTManager) GenerateToken(userID, role, email string) (string, error) {
	return j.generateToken(userID, role, email, AccessToken)
}

func (j *JWTManager) GenerateTokenPair(userID, role, email string) (*TokenPair, error) {
	accessToken, err := j.generateToken(userID, role, email, AccessToken)
	if err != nil {
		return nil, err
	}

	refreshToken, err := j.generateToken(userID, role, email, RefreshToken)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GenerateSessionToken issues a guest token carrying a cart session id.
func (j *JWTManager) GenerateSessionToken(sessionID string) (string, error) {
	return j.sign(&Claims{
		SessionID: sessionID,
		Role:      RoleGuest,
		TokenType: SessionToken,
	})
}

func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func (j *JWTManager) RefreshAccessToken(refreshTokenString string) (string, error) {
	claims, err := j.ValidateToken(refreshTokenString)
	if err != nil {
		return "", err
	}

	// Ensure this is a refresh token
	if claims.TokenType != RefreshToken {
		return "", ErrInvalidTokenType
	}

	return j.generateToken(claims.UserID, claims.Role, claims.Email, AccessToken)
}
