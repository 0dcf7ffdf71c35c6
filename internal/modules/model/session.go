package model

import "github.com/google/uuid"

// Session is the authenticated caller, resolved once per request.
type Session struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	FullName string    `json:"full_name"`
	IsPro    bool      `json:"is_pro"`

	// AccessToken is the caller's bearer token, forwarded to BaaS functions.
	AccessToken string `json:"-"`
}
