package store

import (
	"fmt"
	"github.com/jinzhu/gorm"
	"streamflow/pkg/models"
	"strings"
	"time"
)

type Streams struct {
	db *gorm.DB
}

func NewStreams(db *gorm.DB) *Streams {
	return &Streams{db: db}
}

type NewStream struct {
	Title         string
	Platform      models.Platform
	StreamKey     string
	VideoID       *uint
	ScheduledTime *time.Time
}

// Create records a stream in the pending state. A referenced video must
// belong to the same user.
func (s *Streams) Create(userID uint, in NewStream) (*models.Stream, error) {
	if strings.TrimSpace(in.Title) == "" || in.Platform == "" || in.StreamKey == "" {
		return nil, ErrMissingFields
	}
	if !in.Platform.Valid() {
		return nil, ErrInvalidPlatform
	}

	if in.VideoID != nil {
		var n int
		err := s.db.Model(&models.Video{}).Where("id = ? AND user_id = ?", *in.VideoID, userID).Count(&n).Error
		if err != nil {
			return nil, fmt.Errorf("check video: %w", err)
		}
		if n == 0 {
			return nil, ErrNotFound
		}
	}

	stream := models.Stream{
		UserID:        userID,
		Title:         in.Title,
		Platform:      in.Platform,
		StreamKey:     in.StreamKey,
		VideoID:       in.VideoID,
		Status:        models.StatusPending,
		ScheduledTime: in.ScheduledTime,
	}
	if err := s.db.Create(&stream).Error; err != nil {
		return nil, fmt.Errorf("create stream: %w", err)
	}
	return &stream, nil
}

// ListForUser returns the user's streams, newest first.
func (s *Streams) ListForUser(userID uint) ([]models.Stream, error) {
	return s.recent(userID, 0)
}

// RecentForUser returns at most limit streams, newest first.
func (s *Streams) RecentForUser(userID uint, limit int) ([]models.Stream, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.recent(userID, limit)
}

func (s *Streams) recent(userID uint, limit int) ([]models.Stream, error) {
	q := s.db.Where("user_id = ?", userID).Order("created_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var streams []models.Stream
	if err := q.Find(&streams).Error; err != nil {
		return nil, fmt.Errorf("list streams: %w", err)
	}
	return streams, nil
}

func (s *Streams) Get(userID, streamID uint) (*models.Stream, error) {
	var stream models.Stream
	if err := s.db.Where("id = ? AND user_id = ?", streamID, userID).First(&stream).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find stream: %w", err)
	}
	return &stream, nil
}

// UpdateStatus overwrites the status of one of the user's streams. Every
// recognised status may follow every other one, including itself; only the
// status column changes.
func (s *Streams) UpdateStatus(userID, streamID uint, status models.StreamStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	res := s.db.Model(&models.Stream{}).
		Where("id = ? AND user_id = ?", streamID, userID).
		UpdateColumn("status", status)
	if res.Error != nil {
		return fmt.Errorf("update stream status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Streams) Delete(userID, streamID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", streamID, userID).Delete(&models.Stream{})
	if res.Error != nil {
		return fmt.Errorf("delete stream: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Streams) CountForUser(userID uint) (int, error) {
	return s.count(s.db.Where("user_id = ?", userID))
}

func (s *Streams) CountActiveForUser(userID uint) (int, error) {
	return s.count(s.db.Where("user_id = ? AND status = ?", userID, models.StatusActive))
}

func (s *Streams) count(q *gorm.DB) (int, error) {
	var n int
	if err := q.Model(&models.Stream{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count streams: %w", err)
	}
	return n, nil
}
