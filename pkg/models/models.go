package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primary_key" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	AvatarPath   *string   `json:"avatar_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Video struct {
	ID            uint      `gorm:"primary_key" json:"id"`
	UserID        uint      `gorm:"not null" json:"user_id"`
	Filename      string    `gorm:"not null" json:"filename"`
	OriginalName  string    `gorm:"not null" json:"original_name"`
	FilePath      string    `gorm:"not null" json:"file_path"`
	ThumbnailPath *string   `json:"thumbnail_path,omitempty"`
	Duration      *int64    `json:"duration,omitempty"`
	FileSize      int64     `json:"file_size"`
	CreatedAt     time.Time `json:"created_at"`
}

type StreamStatus string

const (
	StatusPending StreamStatus = "pending"
	StatusActive  StreamStatus = "active"
	StatusStopped StreamStatus = "stopped"
)

// Valid reports whether s is one of the recognised statuses. Any recognised
// status may follow any other.
func (s StreamStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusStopped:
		return true
	}
	return false
}

type Platform string

const (
	PlatformYouTube   Platform = "YouTube"
	PlatformFacebook  Platform = "Facebook"
	PlatformTwitch    Platform = "Twitch"
	PlatformTikTok    Platform = "TikTok"
	PlatformInstagram Platform = "Instagram"
)

// Platforms is the fixed set offered when creating a stream, in display order.
var Platforms = []Platform{
	PlatformYouTube,
	PlatformFacebook,
	PlatformTwitch,
	PlatformTikTok,
	PlatformInstagram,
}

func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

type Stream struct {
	ID            uint         `gorm:"primary_key" json:"id"`
	UserID        uint         `gorm:"not null" json:"user_id"`
	Title         string       `gorm:"not null" json:"title"`
	Platform      Platform     `gorm:"not null" json:"platform"`
	StreamKey     string       `gorm:"not null" json:"-"`
	VideoID       *uint        `json:"video_id,omitempty"`
	Status        StreamStatus `gorm:"default:'pending'" json:"status"`
	ScheduledTime *time.Time   `json:"scheduled_time,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}
