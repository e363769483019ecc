package handlers

import (
	"errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"net/http"
	"path/filepath"
	"strconv"
	"streamflow/pkg/auth"
	"streamflow/pkg/session"
	"streamflow/pkg/store"
	"strings"
)

// Handler serves the dashboard pages and the form posts behind them.
type Handler struct {
	users    *store.Users
	videos   *store.Videos
	streams  *store.Streams
	sessions *session.Manager
	tokens   *auth.TokenManager
	log      *zap.Logger

	maxUploadBytes    int64
	allowedExtensions map[string]bool
}

type Options struct {
	MaxUploadBytes    int64
	AllowedExtensions []string
}

func New(users *store.Users, videos *store.Videos, streams *store.Streams,
	sessions *session.Manager, tokens *auth.TokenManager, log *zap.Logger, opts Options) *Handler {
	exts := make(map[string]bool, len(opts.AllowedExtensions))
	for _, ext := range opts.AllowedExtensions {
		exts[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &Handler{
		users:             users,
		videos:            videos,
		streams:           streams,
		sessions:          sessions,
		tokens:            tokens,
		log:               log,
		maxUploadBytes:    opts.MaxUploadBytes,
		allowedExtensions: exts,
	}
}

// current returns the request's session, which the session middleware
// always installs.
func current(c *gin.Context) *session.Session {
	s, ok := session.FromContext(c.Request.Context())
	if !ok {
		panic("handlers: session middleware not installed")
	}
	return s
}

// signedIn returns the session and its user, or redirects to the login page
// and returns a nil user.
func signedIn(c *gin.Context) (*session.Session, *session.Identity) {
	s := current(c)
	user := s.User()
	if user == nil {
		s.SetFlash(session.FlashError, "Please log in first")
		redirectHome(c)
	}
	return s, user
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) allowedExtension(name string) bool {
	if len(h.allowedExtensions) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return h.allowedExtensions[ext]
}

// fail turns a store error into a flash message. Errors the user can act on
// are shown as is; anything else is logged and reported generically.
func (h *Handler) fail(c *gin.Context, s *session.Session, err error, action string) {
	msg := ""
	switch {
	case errors.Is(err, store.ErrTaken):
		msg = "Username or email already exists"
	case errors.Is(err, store.ErrInvalidCredentials):
		msg = "Invalid username or password"
	case errors.Is(err, store.ErrIncorrectPassword):
		msg = "Current password is incorrect"
	case errors.Is(err, store.ErrMissingFields):
		msg = "Please fill in all required fields"
	case errors.Is(err, store.ErrInvalidPlatform):
		msg = "Please choose a supported platform"
	case errors.Is(err, store.ErrInvalidStatus):
		msg = "Unknown stream status"
	case errors.Is(err, store.ErrNotFound):
		msg = "That item no longer exists"
	default:
		h.log.Error(action+" failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		msg = "Could not " + action + ", please try again"
	}
	s.SetFlash(session.FlashError, msg)
	redirectHome(c)
}
