package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// patchProfile updates only the provided profile fields of the caller's account.
// PATCH /api/auth/profile. Uses pointer fields in the request body to
// distinguish "not provided" from zero. Returns the recomputed profile.
func (h *Handler) patchProfile(c *gin.Context) {
	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, bindingError(err))
		return
	}

	// An unknown activity level would otherwise pin daily_calories to the
	// sedentary multiplier.
	if body.GoalType != nil && !body.GoalType.valid() {
		h.respondError(c, enumError("goal_type", "weight_loss", "muscle_gain", "maintenance", "endurance"))
		return
	}
	if body.ActivityLevel != nil && !body.ActivityLevel.valid() {
		h.respondError(c, enumError("activity_level",
			"sedentary", "lightly_active", "moderately_active", "very_active", "extremely_active"))
		return
	}
	if body.empty() {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	a, err := h.store.updateAccount(c, userID(c), body, h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.log.Debug().Str("user_id", a.ID).Msg("profile updated")

	c.JSON(http.StatusOK, buildProfile(&a))
}
