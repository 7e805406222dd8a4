package services

import (
	"storefront-backend/pkg/auth"

	"github.com/google/uuid"
)

// SessionService issues guest cart sessions. A session is only a signed id;
// the cart behind it is created lazily on first use.
type SessionService struct {
	jwtManager *auth.JWTManager
}

func NewSessionService(jwtManager *auth.JWTManager) *SessionService {
	return &SessionService{jwtManager: jwtManager}
}

type SessionResponse struct {
	SessionID    string `json:"session_id"`
	SessionToken string `json:"session_token"`
	TokenType    string `json:"token_type"`
}

func (s *SessionService) StartSession() (*SessionResponse, error) {
	sessionID := uuid.NewString()
	token, err := s.jwtManager.GenerateSessionToken(sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{
		SessionID:    sessionID,
		SessionToken: token,
		TokenType:    "Bearer",
	}, nil
}
