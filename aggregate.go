package main

import (
	"context"
	"fmt"
	"time"
)

// aggregateNutrition sums the derived nutrition of userID's meal entries
// logged inside w. No entries is not an error: the totals are all zero.
func aggregateNutrition(ctx context.Context, s store, userID string, w dayWindow) (nutritionSummary, error) {
	sum, err := s.nutritionTotals(ctx, userID, w)
	if err != nil {
		return nutritionSummary{}, fmt.Errorf("aggregate nutrition: %w", err)
	}
	// Entries are stored at two decimals; rounding the sums drops float noise.
	sum.TotalCalories = round2(sum.TotalCalories)
	sum.TotalProtein = round2(sum.TotalProtein)
	sum.TotalCarbs = round2(sum.TotalCarbs)
	sum.TotalFat = round2(sum.TotalFat)
	return sum, nil
}

// aggregateWorkouts sums duration and calories burned of userID's workout
// entries completed inside w.
func aggregateWorkouts(ctx context.Context, s store, userID string, w dayWindow) (workoutSummary, error) {
	sum, err := s.workoutTotals(ctx, userID, w)
	if err != nil {
		return workoutSummary{}, fmt.Errorf("aggregate workouts: %w", err)
	}
	sum.TotalCaloriesBurned = round2(sum.TotalCaloriesBurned)
	return sum, nil
}

// buildDashboard composes today's nutrition and workout totals with the
// number of goals not yet achieved. "Today" is the same window GET /food/log
// uses without a date.
func buildDashboard(ctx context.Context, s store, userID string, now time.Time) (dashboardStats, error) {
	today, err := dayWindowFor("", now)
	if err != nil {
		return dashboardStats{}, err
	}
	nutrition, err := aggregateNutrition(ctx, s, userID, today)
	if err != nil {
		return dashboardStats{}, err
	}
	workouts, err := aggregateWorkouts(ctx, s, userID, today)
	if err != nil {
		return dashboardStats{}, err
	}
	active, err := s.countActiveGoals(ctx, userID)
	if err != nil {
		return dashboardStats{}, fmt.Errorf("count active goals: %w", err)
	}
	return dashboardStats{
		Nutrition:        nutrition,
		Workouts:         workouts,
		ActiveGoalsCount: active,
	}, nil
}
