package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// createExercise adds an exercise to the shared catalog.
// POST /api/exercises.
func (h *Handler) createExercise(c *gin.Context) {
	var body createExerciseRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, bindingError(err))
		return
	}
	if !body.Type.valid() {
		h.respondError(c, enumError("type", "cardio", "strength", "flexibility", "sports"))
		return
	}

	ex := exercise{
		ID:                uuid.New().String(),
		Name:              body.Name,
		Type:              body.Type,
		MuscleGroups:      body.MuscleGroups,
		Description:       body.Description,
		Instructions:      body.Instructions,
		CaloriesPerMinute: *body.CaloriesPerMinute,
		CreatedAt:         h.now(),
	}
	// Empty arrays (not null) in storage and JSON
	if ex.MuscleGroups == nil {
		ex.MuscleGroups = []string{}
	}
	if ex.Instructions == nil {
		ex.Instructions = []string{}
	}
	if err := h.store.createExercise(c, &ex); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ex)
}

// listExercises returns the exercise catalog, optionally filtered by type.
// GET /api/exercises?exercise_type=cardio|strength|flexibility|sports.
func (h *Handler) listExercises(c *gin.Context) {
	var filter *exerciseType
	if raw := c.Query("exercise_type"); raw != "" {
		t := exerciseType(raw)
		if !t.valid() {
			h.respondError(c, enumError("exercise_type", "cardio", "strength", "flexibility", "sports"))
			return
		}
		filter = &t
	}

	exercises, err := h.store.listExercises(c, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// logWorkout records a completed exercise session for the caller. Calories
// burned are derived from the exercise's per-minute rate and stored.
// POST /api/workouts/log.
func (h *Handler) logWorkout(c *gin.Context) {
	var body logWorkoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, bindingError(err))
		return
	}

	ex, err := h.store.exerciseByID(c, body.ExerciseID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entry := workoutEntry{
		ID:             uuid.New().String(),
		UserID:         userID(c),
		ExerciseID:     ex.ID,
		ExerciseName:   ex.Name,
		Duration:       body.Duration,
		CaloriesBurned: calorieBurn(ex.CaloriesPerMinute, body.Duration),
		Sets:           body.Sets,
		Reps:           body.Reps,
		Weight:         body.Weight,
		Notes:          body.Notes,
		CompletedAt:    h.now(),
	}
	if err := h.store.createWorkoutEntry(c, &entry); err != nil {
		h.respondError(c, err)
		return
	}
	workoutsLoggedTotal.WithLabelValues(string(ex.Type)).Inc()

	c.JSON(http.StatusCreated, entry)
}

// getWorkoutLog returns the caller's workout entries for one day.
// GET /api/workouts/log?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getWorkoutLog(c *gin.Context) {
	w, ok := h.windowFromQuery(c)
	if !ok {
		return
	}
	entries, err := h.store.workoutEntries(c, userID(c), w)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
