package handlers

import (
	"github.com/gin-gonic/gin"
	"streamflow/pkg/models"
	"streamflow/pkg/session"
	"strings"
)

func identity(u *models.User) session.Identity {
	return session.Identity{ID: u.ID, Username: u.Username, Email: u.Email}
}

func (h *Handler) Login(c *gin.Context) {
	s := current(c)
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if username == "" || password == "" {
		s.SetFlash(session.FlashError, "Please enter both username and password")
		redirectHome(c)
		return
	}

	user, err := h.users.Authenticate(username, password)
	if err != nil {
		h.fail(c, s, err, "log in")
		return
	}

	s.Login(identity(user))
	redirectHome(c)
}

func (h *Handler) Register(c *gin.Context) {
	s := current(c)
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	confirm := c.PostForm("confirm_password")

	s.Navigate(session.PageRegister)
	if username == "" || email == "" || password == "" || confirm == "" {
		s.SetFlash(session.FlashError, "Please fill in all fields")
		redirectHome(c)
		return
	}
	if password != confirm {
		s.SetFlash(session.FlashError, "Passwords do not match")
		redirectHome(c)
		return
	}

	if _, err := h.users.Register(username, email, password); err != nil {
		h.fail(c, s, err, "create the account")
		return
	}

	s.Navigate(session.PageLogin)
	s.SetFlash(session.FlashSuccess, "Account created successfully! Please login.")
	redirectHome(c)
}

func (h *Handler) Logout(c *gin.Context) {
	current(c).Logout()
	redirectHome(c)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	s, user := signedIn(c)
	if user == nil {
		return
	}
	s.Navigate(session.PageSettings)

	currentPassword := c.PostForm("current_password")
	newPassword := c.PostForm("new_password")
	confirm := c.PostForm("confirm_password")

	if currentPassword == "" || newPassword == "" || confirm == "" {
		s.SetFlash(session.FlashError, "Please fill in all fields")
		redirectHome(c)
		return
	}
	if newPassword != confirm {
		s.SetFlash(session.FlashError, "New passwords do not match")
		redirectHome(c)
		return
	}

	if err := h.users.ChangePassword(user.ID, currentPassword, newPassword); err != nil {
		h.fail(c, s, err, "update the password")
		return
	}

	s.SetFlash(session.FlashSuccess, "Password updated successfully!")
	redirectHome(c)
}
