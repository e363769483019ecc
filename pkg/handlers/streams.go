package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"strconv"
	"streamflow/pkg/models"
	"streamflow/pkg/session"
	"streamflow/pkg/store"
	"strings"
	"time"
)

// scheduleLayout matches the value of an <input type="datetime-local">.
const scheduleLayout = "2006-01-02T15:04"

func (h *Handler) CreateStream(c *gin.Context) {
	s, user := signedIn(c)
	if user == nil {
		return
	}
	s.Navigate(session.PageStreams)

	in := store.NewStream{
		Title:     strings.TrimSpace(c.PostForm("title")),
		Platform:  models.Platform(c.PostForm("platform")),
		StreamKey: c.PostForm("stream_key"),
	}
	if in.Title == "" || in.Platform == "" || in.StreamKey == "" {
		s.SetFlash(session.FlashError, "Please fill in all required fields")
		redirectHome(c)
		return
	}

	if raw := c.PostForm("video_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			s.SetFlash(session.FlashError, "Please choose one of your videos")
			redirectHome(c)
			return
		}
		videoID := uint(id)
		in.VideoID = &videoID
	}

	if raw := strings.TrimSpace(c.PostForm("scheduled_time")); raw != "" {
		when, err := time.ParseInLocation(scheduleLayout, raw, time.Local)
		if err != nil {
			s.SetFlash(session.FlashError, "Schedule time must look like 2006-01-02T15:04")
			redirectHome(c)
			return
		}
		in.ScheduledTime = &when
	}

	stream, err := h.streams.Create(user.ID, in)
	if err != nil {
		h.fail(c, s, err, "create the stream")
		return
	}

	h.log.Info("stream created",
		zap.Uint("user_id", user.ID),
		zap.Uint("stream_id", stream.ID),
		zap.String("platform", string(stream.Platform)))
	s.SetFlash(session.FlashSuccess, "Stream created successfully!")
	redirectHome(c)
}

func (h *Handler) StartStream(c *gin.Context) {
	h.setStatus(c, models.StatusActive, "Stream started!")
}

func (h *Handler) StopStream(c *gin.Context) {
	h.setStatus(c, models.StatusStopped, "Stream stopped!")
}

func (h *Handler) setStatus(c *gin.Context, status models.StreamStatus, done string) {
	s, user := signedIn(c)
	if user == nil {
		return
	}
	s.Navigate(session.PageStreams)

	id, ok := paramID(c)
	if !ok {
		s.SetFlash(session.FlashError, "That item no longer exists")
		redirectHome(c)
		return
	}

	if err := h.streams.UpdateStatus(user.ID, id, status); err != nil {
		h.fail(c, s, err, "update the stream")
		return
	}
	s.SetFlash(session.FlashSuccess, done)
	redirectHome(c)
}

func (h *Handler) DeleteStream(c *gin.Context) {
	s, user := signedIn(c)
	if user == nil {
		return
	}
	s.Navigate(session.PageStreams)

	id, ok := paramID(c)
	if !ok {
		s.SetFlash(session.FlashError, "That item no longer exists")
		redirectHome(c)
		return
	}

	if err := h.streams.Delete(user.ID, id); err != nil {
		h.fail(c, s, err, "delete the stream")
		return
	}
	s.SetFlash(session.FlashSuccess, "Stream deleted!")
	redirectHome(c)
}
