package models

import "time"

// User is the account identity returned by the sync server.
type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Profile holds the optional user details editable from the client.
type Profile struct {
	Bio       string `json:"bio"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}

// UserProfile is the combined body of GET /api/profile.
type UserProfile struct {
	User    User    `json:"user"`
	Profile Profile `json:"profile"`
}

// AuthResult is returned by successful register and login calls.
type AuthResult struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Token   string `json:"token"`
}
