package response

import (
	"time"

	"phone-auth/internal/data/entity"
)

type AuthResponse struct {
	UserID    string    `json:"user_id"`
	Number    string    `json:"number"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func AuthToResponse(user *entity.User, session *entity.Session) *AuthResponse {
	resp := &AuthResponse{
		UserID: user.ID.String(),
		Number: user.Number,
	}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}
