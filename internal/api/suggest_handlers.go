package api

import (
	"net/http"

	"github.com/glucolog/glucolog/internal/domain"
	apperrors "github.com/glucolog/glucolog/internal/errors"
	"github.com/gin-gonic/gin"
)

type suggestRequest struct {
	Date         string `json:"date" binding:"required"`
	TimeSlot     string `json:"timeSlot" binding:"required"`
	GlucoseLevel int    `json:"glucoseLevel" binding:"required"`
}

func (r suggestRequest) parse() (domain.Date, domain.MeasurementSlot, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.Date{}, "", apperrors.NewFieldValidationError("date", err.Error())
	}
	slot, err := domain.ParseMeasurementSlot(r.TimeSlot)
	if err != nil {
		return domain.Date{}, "", apperrors.NewFieldValidationError("timeSlot", err.Error())
	}
	return date, slot, nil
}

// PostSuggest runs the engine for a glucose value the user is entering
// or editing. Clients re-run this on every change of the glucose field;
// results are never patched incrementally.
func PostSuggest(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		var body suggestRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, apperrors.NewValidationError("invalid JSON body"))
			return
		}
		date, slot, err := body.parse()
		if err != nil {
			respondError(c, err)
			return
		}
		suggestion, err := app.Suggestions().Suggest(c.Request.Context(), user.ID, date, slot, body.GlucoseLevel)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, suggestion, nil)
	}
}

// PostExplain lists the rules that fired, for the "why this dose" view.
func PostExplain(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		var body suggestRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, apperrors.NewValidationError("invalid JSON body"))
			return
		}
		date, slot, err := body.parse()
		if err != nil {
			respondError(c, err)
			return
		}
		fired, err := app.Suggestions().Explain(c.Request.Context(), user.ID, date, slot, body.GlucoseLevel)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, fired, map[string]any{"count": len(fired)})
	}
}
