package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// createGoal records a new goal for the caller. Progress starts at 0 and the
// goal starts unachieved.
// POST /api/goals.
func (h *Handler) createGoal(c *gin.Context) {
	var body createGoalRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, bindingError(err))
		return
	}
	if !body.GoalType.valid() {
		h.respondError(c, enumError("goal_type", "weight_loss", "muscle_gain", "maintenance", "endurance"))
		return
	}

	now := h.now()
	g := goal{
		ID:           uuid.New().String(),
		UserID:       userID(c),
		GoalType:     body.GoalType,
		TargetWeight: body.TargetWeight,
		TargetDate:   body.TargetDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.store.createGoal(c, &g); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, g)
}

// listGoals returns the caller's goals, oldest first.
// GET /api/goals.
func (h *Handler) listGoals(c *gin.Context) {
	goals, err := h.store.listGoals(c, userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}
