package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"net/http"
	"streamflow/pkg/models"
	"streamflow/pkg/session"
)

const recentStreams = 5

// Index renders whichever page the session is on.
func (h *Handler) Index(c *gin.Context) {
	s := current(c)
	page, user := s.Page(), s.User()
	if user == nil || page.Public() {
		if page != session.PageRegister {
			page = session.PageLogin
		}
		h.render(c, s, page, nil, gin.H{})
		return
	}

	switch page {
	case session.PageGallery:
		h.gallery(c, s, user)
	case session.PageStreams:
		h.streamsPage(c, s, user)
	case session.PageSettings:
		h.settings(c, s, user)
	default:
		h.dashboard(c, s, user)
	}
}

// Navigate switches the session to another page.
func (h *Handler) Navigate(c *gin.Context) {
	s := current(c)
	page, ok := session.ParsePage(c.Param("page"))
	if !ok {
		s.SetFlash(session.FlashError, "Unknown page")
		redirectHome(c)
		return
	}
	s.Navigate(page)
	redirectHome(c)
}

func (h *Handler) render(c *gin.Context, s *session.Session, page session.Page, user *session.Identity, data gin.H) {
	data["Page"] = string(page)
	data["User"] = user
	data["Flash"] = s.TakeFlash()
	c.HTML(http.StatusOK, string(page), data)
}

// renderError shows the page with an error banner instead of its data.
func (h *Handler) renderError(c *gin.Context, s *session.Session, page session.Page, user *session.Identity, err error) {
	h.log.Error("render "+string(page), zap.Error(err))
	s.SetFlash(session.FlashError, "Something went wrong loading this page")
	h.render(c, s, page, user, gin.H{"Broken": true})
}

func (h *Handler) dashboard(c *gin.Context, s *session.Session, user *session.Identity) {
	videoCount, err := h.videos.CountForUser(user.ID)
	if err != nil {
		h.renderError(c, s, session.PageDashboard, user, err)
		return
	}
	active, err := h.streams.CountActiveForUser(user.ID)
	if err != nil {
		h.renderError(c, s, session.PageDashboard, user, err)
		return
	}
	total, err := h.streams.CountForUser(user.ID)
	if err != nil {
		h.renderError(c, s, session.PageDashboard, user, err)
		return
	}
	recent, err := h.streams.RecentForUser(user.ID, recentStreams)
	if err != nil {
		h.renderError(c, s, session.PageDashboard, user, err)
		return
	}

	h.render(c, s, session.PageDashboard, user, gin.H{
		"VideoCount":    videoCount,
		"ActiveStreams": active,
		"TotalStreams":  total,
		"Recent":        recent,
	})
}

func (h *Handler) gallery(c *gin.Context, s *session.Session, user *session.Identity) {
	videos, err := h.videos.ListForUser(user.ID)
	if err != nil {
		h.renderError(c, s, session.PageGallery, user, err)
		return
	}
	h.render(c, s, session.PageGallery, user, gin.H{
		"Videos": videos,
		"Accept": h.acceptAttr(),
	})
}

func (h *Handler) streamsPage(c *gin.Context, s *session.Session, user *session.Identity) {
	streams, err := h.streams.ListForUser(user.ID)
	if err != nil {
		h.renderError(c, s, session.PageStreams, user, err)
		return
	}
	videos, err := h.videos.ListForUser(user.ID)
	if err != nil {
		h.renderError(c, s, session.PageStreams, user, err)
		return
	}

	names := make(map[uint]string, len(videos))
	for _, v := range videos {
		names[v.ID] = v.OriginalName
	}

	h.render(c, s, session.PageStreams, user, gin.H{
		"Streams":    streams,
		"Videos":     videos,
		"VideoNames": names,
		"Platforms":  models.Platforms,
	})
}

func (h *Handler) settings(c *gin.Context, s *session.Session, user *session.Identity) {
	account, err := h.users.Get(user.ID)
	if err != nil {
		h.renderError(c, s, session.PageSettings, user, err)
		return
	}
	h.render(c, s, session.PageSettings, user, gin.H{"Account": account})
}
