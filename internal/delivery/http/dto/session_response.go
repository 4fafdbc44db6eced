package dto

import "skill-compass/internal/usecase/auth"

// SessionResponse is the sign-in payload: the identity plus the token pair.
type SessionResponse struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func SessionResponseFromUsecase(s auth.Session) SessionResponse {
	return SessionResponse{
		UserID:       s.UserID.String(),
		Name:         s.Name,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
}
