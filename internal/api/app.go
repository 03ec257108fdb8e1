package api

import (
	"github.com/glucolog/glucolog/internal/domain"
	"github.com/gin-gonic/gin"
)

// App bundles the services the handlers depend on.
type App interface {
	Users() domain.UserService
	Entries() domain.EntryService
	Rules() domain.RuleService
	Presets() domain.PresetService
	Suggestions() domain.SuggestionService
}

// NewRouter wires the full HTTP surface under /api/v1.
func NewRouter(app App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(Auth(app.Users()))

	v1.POST("/entries", PostEntry(app))
	v1.GET("/entries", GetEntries(app))
	v1.PUT("/entries/:id", PutEntry(app))
	v1.DELETE("/entries/:id", DeleteEntry(app))

	v1.POST("/rules", PostRule(app))
	v1.GET("/rules", GetRules(app))
	v1.PUT("/rules/:id", PutRule(app))
	v1.DELETE("/rules/:id", DeleteRule(app))

	v1.POST("/presets", PostPreset(app))
	v1.GET("/presets", GetPresets(app))
	v1.PUT("/presets/:id", PutPreset(app))
	v1.DELETE("/presets/:id", DeletePreset(app))

	v1.GET("/basal", GetBasal(app))
	v1.PUT("/basal", PutBasal(app))

	v1.POST("/suggest", PostSuggest(app))
	v1.POST("/explain", PostExplain(app))

	return r
}
