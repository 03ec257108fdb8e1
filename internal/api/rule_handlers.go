package api

import (
	"net/http"

	"github.com/glucolog/glucolog/internal/domain"
	apperrors "github.com/glucolog/glucolog/internal/errors"
	"github.com/gin-gonic/gin"
)

type ruleRequest struct {
	Name             string `json:"name"`
	TimeSlot         string `json:"timeSlot" binding:"required"`
	ConditionType    string `json:"conditionType" binding:"required"`
	Threshold        int    `json:"threshold"`
	Comparison       string `json:"comparison" binding:"required"`
	AdjustmentAmount int    `json:"adjustmentAmount"`
	TargetTimeSlot   string `json:"targetTimeSlot" binding:"required"`
	PresetID         *uint  `json:"presetId"`
}

func (r ruleRequest) toInput() domain.RuleInput {
	return domain.RuleInput{
		Name:       r.Name,
		TimeSlot:   r.TimeSlot,
		Condition:  r.ConditionType,
		Threshold:  r.Threshold,
		Comparison: r.Comparison,
		Amount:     r.AdjustmentAmount,
		Target:     r.TargetTimeSlot,
		PresetID:   r.PresetID,
	}
}

func PostRule(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		var body ruleRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, apperrors.NewValidationError("invalid JSON body"))
			return
		}
		rule, err := app.Rules().Create(c.Request.Context(), user.ID, body.toInput())
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, rule, nil)
	}
}

func GetRules(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		rules, err := app.Rules().List(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, rules, map[string]any{"count": len(rules)})
	}
}

func PutRule(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id, err := pathID(c)
		if err != nil {
			respondError(c, err)
			return
		}
		var body ruleRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, apperrors.NewValidationError("invalid JSON body"))
			return
		}
		rule, err := app.Rules().Update(c.Request.Context(), user.ID, id, body.toInput())
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, rule, nil)
	}
}

func DeleteRule(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id, err := pathID(c)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := app.Rules().Delete(c.Request.Context(), user.ID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
