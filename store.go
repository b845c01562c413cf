package main

import (
	"context"
	"time"
)

// store is the catalog and log persistence the handlers depend on. Lookups of
// a single record return an error wrapping errNotFound when nothing matches;
// createAccount returns errConflict when the username or email is taken.
type store interface {
	ping(ctx context.Context) error

	createAccount(ctx context.Context, a *account) error
	accountByID(ctx context.Context, id string) (account, error)
	accountByUsername(ctx context.Context, username string) (account, error)
	accountExists(ctx context.Context, username, email string) (bool, error)
	updateAccount(ctx context.Context, id string, p patchProfileRequest, updatedAt time.Time) (account, error)

	createFoodItem(ctx context.Context, f *foodItem) error
	foodItemByID(ctx context.Context, id string) (foodItem, error)
	listFoodItems(ctx context.Context) ([]foodItem, error)
	countFoodItems(ctx context.Context) (int, error)

	createMealEntry(ctx context.Context, m *mealEntry) error
	mealEntries(ctx context.Context, userID string, w dayWindow) ([]mealEntry, error)
	nutritionTotals(ctx context.Context, userID string, w dayWindow) (nutritionSummary, error)

	createExercise(ctx context.Context, e *exercise) error
	exerciseByID(ctx context.Context, id string) (exercise, error)
	// listExercises returns the whole catalog when typ is nil.
	listExercises(ctx context.Context, typ *exerciseType) ([]exercise, error)
	countExercises(ctx context.Context) (int, error)

	createWorkoutEntry(ctx context.Context, w *workoutEntry) error
	workoutEntries(ctx context.Context, userID string, w dayWindow) ([]workoutEntry, error)
	workoutTotals(ctx context.Context, userID string, w dayWindow) (workoutSummary, error)

	createGoal(ctx context.Context, g *goal) error
	listGoals(ctx context.Context, userID string) ([]goal, error)
	countActiveGoals(ctx context.Context, userID string) (int, error)
}
