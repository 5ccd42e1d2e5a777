// models/user.go
package models

import "strings"

// User is the backend's account record as returned by GET /auth/me.
type User struct {
	ID             int       `json:"id"`
	Email          string    `json:"email"`
	DisplayName    *string   `json:"display_name"`
	ProfilePicture *string   `json:"profile_picture"`
	TotalExp       int       `json:"total_exp"`
	CreatedAt      Timestamp `json:"created_at"`
	UpdatedAt      Timestamp `json:"updated_at"`
}

// Name returns the display name, or "" when none is set.
func (u *User) Name() string {
	if u == nil || u.DisplayName == nil {
		return ""
	}
	return strings.TrimSpace(*u.DisplayName)
}

// Avatar returns the profile picture URL, or "".
func (u *User) Avatar() string {
	if u == nil || u.ProfilePicture == nil {
		return ""
	}
	return *u.ProfilePicture
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UpdateUserRequest struct {
	DisplayName string `json:"display_name"`
}
