package store

import (
	"fmt"
	"github.com/jinzhu/gorm"
	"go.uber.org/zap"
	"io"
	"path/filepath"
	"streamflow/pkg/models"
	"streamflow/pkg/storage"
)

type Videos struct {
	db    *gorm.DB
	files storage.Backend
	log   *zap.Logger
}

func NewVideos(db *gorm.DB, files storage.Backend, log *zap.Logger) *Videos {
	return &Videos{db: db, files: files, log: log}
}

// Upload stores the bytes under originalName and then records them.
//
// The two phases are not atomic. If the insert fails the stored file is left
// behind. Uploads sharing a name overwrite the same file, while each upload
// still gets its own row.
func (s *Videos) Upload(userID uint, originalName string, r io.Reader) (*models.Video, error) {
	location, err := s.files.Save(originalName, r)
	if err != nil {
		return nil, fmt.Errorf("save video: %w", err)
	}

	size, err := s.files.Size(location)
	if err != nil {
		return nil, fmt.Errorf("stat video: %w", err)
	}

	video := models.Video{
		UserID:       userID,
		Filename:     filepath.Base(location),
		OriginalName: originalName,
		FilePath:     location,
		FileSize:     size,
	}
	if err := s.db.Create(&video).Error; err != nil {
		s.log.Warn("video row insert failed, stored file left in place",
			zap.Uint("user_id", userID),
			zap.String("file_path", location),
			zap.Error(err))
		return nil, fmt.Errorf("create video: %w", err)
	}
	return &video, nil
}

// ListForUser returns the user's videos, newest first.
func (s *Videos) ListForUser(userID uint) ([]models.Video, error) {
	var videos []models.Video
	err := s.db.Where("user_id = ?", userID).Order("created_at desc, id desc").Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

func (s *Videos) CountForUser(userID uint) (int, error) {
	var n int
	if err := s.db.Model(&models.Video{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return n, nil
}

func (s *Videos) Get(userID, videoID uint) (*models.Video, error) {
	var video models.Video
	if err := s.db.Where("id = ? AND user_id = ?", videoID, userID).First(&video).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find video: %w", err)
	}
	return &video, nil
}

// Delete removes the stored file, if it still exists, and then the row.
// Streams that referenced the video keep existing with no video.
func (s *Videos) Delete(userID, videoID uint) error {
	video, err := s.Get(userID, videoID)
	if err != nil {
		return err
	}

	if err := s.files.Remove(video.FilePath); err != nil {
		return fmt.Errorf("remove video file: %w", err)
	}

	if err := s.db.Where("id = ? AND user_id = ?", videoID, userID).Delete(&models.Video{}).Error; err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return nil
}
