package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var seedFoods = []foodItem{
	{Name: "Chicken Breast", CaloriesPer100g: 165, ProteinPer100g: 31, CarbsPer100g: 0, FatPer100g: 3.6},
	{Name: "Brown Rice", CaloriesPer100g: 111, ProteinPer100g: 2.6, CarbsPer100g: 23, FatPer100g: 0.9},
	{Name: "Banana", CaloriesPer100g: 89, ProteinPer100g: 1.1, CarbsPer100g: 23, FatPer100g: 0.3},
	{Name: "Oatmeal", CaloriesPer100g: 68, ProteinPer100g: 2.4, CarbsPer100g: 12, FatPer100g: 1.4},
	{Name: "Salmon", CaloriesPer100g: 208, ProteinPer100g: 20, CarbsPer100g: 0, FatPer100g: 12},
	{Name: "Sweet Potato", CaloriesPer100g: 86, ProteinPer100g: 1.6, CarbsPer100g: 20, FatPer100g: 0.1},
	{Name: "Greek Yogurt", CaloriesPer100g: 59, ProteinPer100g: 10, CarbsPer100g: 3.6, FatPer100g: 0.4},
	{Name: "Almonds", CaloriesPer100g: 579, ProteinPer100g: 21, CarbsPer100g: 22, FatPer100g: 50},
}

var seedExercises = []exercise{
	{
		Name: "Push-ups", Type: exerciseStrength,
		MuscleGroups:      []string{"chest", "triceps", "shoulders"},
		Description:       "Classic bodyweight exercise",
		Instructions:      []string{"Start in plank position", "Lower body to ground", "Push back up"},
		CaloriesPerMinute: 8,
	},
	{
		Name: "Running", Type: exerciseCardio,
		MuscleGroups:      []string{"legs", "glutes", "core"},
		Description:       "Cardiovascular running exercise",
		Instructions:      []string{"Maintain steady pace", "Keep proper form", "Breathe rhythmically"},
		CaloriesPerMinute: 12,
	},
	{
		Name: "Squats", Type: exerciseStrength,
		MuscleGroups:      []string{"legs", "glutes", "core"},
		Description:       "Lower body strength exercise",
		Instructions:      []string{"Stand with feet shoulder-width apart", "Lower hips back and down", "Return to standing"},
		CaloriesPerMinute: 6,
	},
	{
		Name: "Plank", Type: exerciseStrength,
		MuscleGroups:      []string{"core", "shoulders"},
		Description:       "Core strengthening exercise",
		Instructions:      []string{"Hold plank position", "Keep body straight", "Engage core muscles"},
		CaloriesPerMinute: 4,
	},
	{
		Name: "Cycling", Type: exerciseCardio,
		MuscleGroups:      []string{"legs", "glutes"},
		Description:       "Low-impact cardio exercise",
		Instructions:      []string{"Maintain steady cadence", "Keep proper posture", "Adjust resistance as needed"},
		CaloriesPerMinute: 10,
	},
}

// seedCatalog fills the food and exercise catalogs with starter data. Each
// catalog is only seeded while it is empty, so running this twice is a no-op.
func seedCatalog(ctx context.Context, s store, now time.Time, log zerolog.Logger) error {
	foods, err := s.countFoodItems(ctx)
	if err != nil {
		return fmt.Errorf("count food items: %w", err)
	}
	if foods == 0 {
		for _, f := range seedFoods {
			f.ID = uuid.New().String()
			f.CreatedAt = now
			if err := s.createFoodItem(ctx, &f); err != nil {
				return fmt.Errorf("seed food %q: %w", f.Name, err)
			}
		}
		log.Info().Int("count", len(seedFoods)).Msg("seeded food catalog")
	}

	exercises, err := s.countExercises(ctx)
	if err != nil {
		return fmt.Errorf("count exercises: %w", err)
	}
	if exercises == 0 {
		for _, e := range seedExercises {
			e.ID = uuid.New().String()
			e.CreatedAt = now
			if err := s.createExercise(ctx, &e); err != nil {
				return fmt.Errorf("seed exercise %q: %w", e.Name, err)
			}
		}
		log.Info().Int("count", len(seedExercises)).Msg("seeded exercise catalog")
	}
	return nil
}
