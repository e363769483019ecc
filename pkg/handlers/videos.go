package handlers

import (
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"net/http"
	"sort"
	"streamflow/pkg/session"
	"strings"
)

func (h *Handler) UploadVideo(c *gin.Context) {
	s, user := signedIn(c)
	if user == nil {
		return
	}
	s.Navigate(session.PageGallery)

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	file, err := c.FormFile("video")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.SetFlash(session.FlashError, fmt.Sprintf("Video is larger than the %d MB limit", h.maxUploadBytes>>20))
		} else {
			s.SetFlash(session.FlashError, "Please choose a video file")
		}
		redirectHome(c)
		return
	}
	if !h.allowedExtension(file.Filename) {
		s.SetFlash(session.FlashError, "Unsupported file type, allowed: "+h.extensionList())
		redirectHome(c)
		return
	}

	src, err := file.Open()
	if err != nil {
		h.log.Error("open uploaded file", zap.Error(err))
		s.SetFlash(session.FlashError, "Failed to read the uploaded file")
		redirectHome(c)
		return
	}
	defer src.Close()

	video, err := h.videos.Upload(user.ID, file.Filename, src)
	if err != nil {
		h.fail(c, s, err, "save the video")
		return
	}

	h.log.Info("video uploaded",
		zap.Uint("user_id", user.ID),
		zap.Uint("video_id", video.ID),
		zap.Int64("size", video.FileSize))
	s.SetFlash(session.FlashSuccess, fmt.Sprintf("Video '%s' uploaded successfully!", video.OriginalName))
	redirectHome(c)
}

func (h *Handler) DeleteVideo(c *gin.Context) {
	s, user := signedIn(c)
	if user == nil {
		return
	}
	s.Navigate(session.PageGallery)

	id, ok := paramID(c)
	if !ok {
		s.SetFlash(session.FlashError, "That item no longer exists")
		redirectHome(c)
		return
	}

	if err := h.videos.Delete(user.ID, id); err != nil {
		h.fail(c, s, err, "delete the video")
		return
	}
	s.SetFlash(session.FlashSuccess, "Video deleted")
	redirectHome(c)
}

func (h *Handler) extensionList() string {
	exts := make([]string, 0, len(h.allowedExtensions))
	for ext := range h.allowedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}

// acceptAttr is the value for the upload input's accept attribute.
func (h *Handler) acceptAttr() string {
	if len(h.allowedExtensions) == 0 {
		return "video/*"
	}
	exts := make([]string, 0, len(h.allowedExtensions))
	for ext := range h.allowedExtensions {
		exts = append(exts, "."+ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ",")
}
