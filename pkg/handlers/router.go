package handlers

import (
	"embed"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"html/template"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"bytes": func(n int64) string {
		if n < 0 {
			n = 0
		}
		return humanize.Bytes(uint64(n))
	},
	"ago": func(t time.Time) string {
		return humanize.Time(t)
	},
	"when": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
	"stamp": func(t time.Time) string {
		return t.Format("2006-01-02 15:04:05")
	},
	"deref": func(id *uint) uint {
		if id == nil {
			return 0
		}
		return *id
	},
}

func loadTemplates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
}

// NewRouter wires the dashboard routes. limiter may be nil to disable
// throttling of the login and register forms.
func NewRouter(h *Handler, limiter *IPRateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(h.log), Recovery(h.log))
	r.SetHTMLTemplate(loadTemplates())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	pages := r.Group("/", h.Sessions())

	throttled := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		if limiter == nil {
			return []gin.HandlerFunc{handler}
		}
		return []gin.HandlerFunc{limiter.Handler(), handler}
	}

	pages.GET("/", h.Index)
	pages.POST("/nav/:page", h.Navigate)
	pages.POST("/login", throttled(h.Login)...)
	pages.POST("/register", throttled(h.Register)...)
	pages.POST("/logout", h.Logout)

	pages.POST("/videos", h.UploadVideo)
	pages.POST("/videos/:id/delete", h.DeleteVideo)

	pages.POST("/streams", h.CreateStream)
	pages.POST("/streams/:id/start", h.StartStream)
	pages.POST("/streams/:id/stop", h.StopStream)
	pages.POST("/streams/:id/delete", h.DeleteStream)

	pages.POST("/settings/password", h.ChangePassword)

	return r
}
