package models

import "time"

// Profile holds the optional account details, one row per user.
type Profile struct {
	ID        int64      `json:"id,omitempty"`
	UserID    int64      `json:"user_id,omitempty"`
	Bio       string     `json:"bio"`
	Company   string     `json:"company"`
	Position  string     `json:"position"`
	Phone     string     `json:"phone"`
	AvatarURL string     `json:"avatar_url"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ProfileFields is the editable part of a profile.
type ProfileFields struct {
	Bio       string `json:"bio"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}
