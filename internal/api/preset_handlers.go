package api

import (
	"net/http"

	"github.com/glucolog/glucolog/internal/domain"
	apperrors "github.com/glucolog/glucolog/internal/errors"
	"github.com/gin-gonic/gin"
)

type presetRequest struct {
	Name      string   `json:"name" binding:"required"`
	SortOrder int      `json:"sortOrder"`
	Morning   *float64 `json:"morning"`
	Noon      *float64 `json:"noon"`
	Evening   *float64 `json:"evening"`
	Bedtime   *float64 `json:"bedtime"`
}

func (r presetRequest) toInput() domain.PresetInput {
	return domain.PresetInput{
		Name:      r.Name,
		SortOrder: r.SortOrder,
		Morning:   r.Morning,
		Noon:      r.Noon,
		Evening:   r.Evening,
		Bedtime:   r.Bedtime,
	}
}

func PostPreset(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		var body presetRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, apperrors.NewValidationError("invalid JSON body"))
			return
		}
		preset, err := app.Presets().Create(c.Request.Context(), user.ID, body.toInput())
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, preset, nil)
	}
}

func GetPresets(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		presets, err := app.Presets().List(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, presets, map[string]any{"count": len(presets)})
	}
}

func PutPreset(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id, err := pathID(c)
		if err != nil {
			respondError(c, err)
			return
		}
		var body presetRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, apperrors.NewValidationError("invalid JSON body"))
			return
		}
		preset, err := app.Presets().Update(c.Request.Context(), user.ID, id, body.toInput())
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, preset, nil)
	}
}

func DeletePreset(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id, err := pathID(c)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := app.Presets().Delete(c.Request.Context(), user.ID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type basalRequest struct {
	Morning float64 `json:"morning"`
	Noon    float64 `json:"noon"`
	Evening float64 `json:"evening"`
	Bedtime float64 `json:"bedtime"`
}

func GetBasal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		cfg, err := app.Presets().GetBasal(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, cfg, nil)
	}
}

func PutBasal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		var body basalRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, apperrors.NewValidationError("invalid JSON body"))
			return
		}
		cfg, err := app.Presets().PutBasal(c.Request.Context(), user.ID, domain.BasalConfig{
			Morning: body.Morning,
			Noon:    body.Noon,
			Evening: body.Evening,
			Bedtime: body.Bedtime,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, cfg, nil)
	}
}
