package api

import (
	"net/http"
	"strconv"

	"github.com/glucolog/glucolog/internal/domain"
	apperrors "github.com/glucolog/glucolog/internal/errors"
	"github.com/gin-gonic/gin"
)

type entryRequest struct {
	Date         string   `json:"date" binding:"required"`
	TimeSlot     string   `json:"timeSlot" binding:"required"`
	GlucoseLevel int      `json:"glucoseLevel" binding:"required"`
	Note         string   `json:"note"`
	InsulinTaken *float64 `json:"insulinTaken"`
}

func (r entryRequest) toInput() (domain.EntryInput, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.EntryInput{}, apperrors.NewFieldValidationError("date", err.Error())
	}
	slot, err := domain.ParseMeasurementSlot(r.TimeSlot)
	if err != nil {
		return domain.EntryInput{}, apperrors.NewFieldValidationError("timeSlot", err.Error())
	}
	return domain.EntryInput{
		Date:         date,
		Slot:         slot,
		GlucoseLevel: r.GlucoseLevel,
		Note:         r.Note,
		InsulinTaken: r.InsulinTaken,
	}, nil
}

func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperrors.NewFieldValidationError("id", "invalid id")
	}
	return uint(id), nil
}

// PostEntry records a glucose reading. The response carries the entry
// plus the engine's dose suggestion so the client can pre-fill the
// insulin field.
func PostEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		var body entryRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, apperrors.NewValidationError("invalid JSON body"))
			return
		}
		in, err := body.toInput()
		if err != nil {
			respondError(c, err)
			return
		}
		entry, suggestion, err := app.Entries().Add(c.Request.Context(), user.ID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, gin.H{
			"entry":      entry,
			"suggestion": suggestion,
		}, nil)
	}
}

func GetEntries(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		var from, to domain.Date
		if v := c.Query("from"); v != "" {
			parsed, err := domain.ParseDate(v)
			if err != nil {
				respondError(c, apperrors.NewFieldValidationError("from", err.Error()))
				return
			}
			from = parsed
		}
		if v := c.Query("to"); v != "" {
			parsed, err := domain.ParseDate(v)
			if err != nil {
				respondError(c, apperrors.NewFieldValidationError("to", err.Error()))
				return
			}
			to = parsed
		}
		entries, err := app.Entries().List(c.Request.Context(), user.ID, from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, entries, map[string]any{"count": len(entries)})
	}
}

func PutEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id, err := pathID(c)
		if err != nil {
			respondError(c, err)
			return
		}
		var body entryRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, apperrors.NewValidationError("invalid JSON body"))
			return
		}
		in, err := body.toInput()
		if err != nil {
			respondError(c, err)
			return
		}
		entry, err := app.Entries().Update(c.Request.Context(), user.ID, id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, entry, nil)
	}
}

func DeleteEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id, err := pathID(c)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := app.Entries().Delete(c.Request.Context(), user.ID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
