package main

import (
	"time"
)

/* ─── Enumerations ───────────────────────────────────────────────────── */

// goalType is the closed set of fitness goals an account or goal row can carry.
type goalType string

const (
	goalWeightLoss  goalType = "weight_loss"
	goalMuscleGain  goalType = "muscle_gain"
	goalMaintenance goalType = "maintenance"
	goalEndurance   goalType = "endurance"
)

func (g goalType) valid() bool {
	switch g {
	case goalWeightLoss, goalMuscleGain, goalMaintenance, goalEndurance:
		return true
	}
	return false
}

// activityLevel drives the TDEE multiplier in dailyCalories.
type activityLevel string

const (
	activitySedentary        activityLevel = "sedentary"
	activityLightlyActive    activityLevel = "lightly_active"
	activityModeratelyActive activityLevel = "moderately_active"
	activityVeryActive       activityLevel = "very_active"
	activityExtremelyActive  activityLevel = "extremely_active"
)

func (a activityLevel) valid() bool {
	switch a {
	case activitySedentary, activityLightlyActive, activityModeratelyActive,
		activityVeryActive, activityExtremelyActive:
		return true
	}
	return false
}

type exerciseType string

const (
	exerciseCardio      exerciseType = "cardio"
	exerciseStrength    exerciseType = "strength"
	exerciseFlexibility exerciseType = "flexibility"
	exerciseSports      exerciseType = "sports"
)

func (e exerciseType) valid() bool {
	switch e {
	case exerciseCardio, exerciseStrength, exerciseFlexibility, exerciseSports:
		return true
	}
	return false
}

type mealType string

const (
	mealBreakfast mealType = "breakfast"
	mealLunch     mealType = "lunch"
	mealDinner    mealType = "dinner"
	mealSnack     mealType = "snack"
)

func (m mealType) valid() bool {
	switch m {
	case mealBreakfast, mealLunch, mealDinner, mealSnack:
		return true
	}
	return false
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// account maps to the accounts table. PasswordHash is hidden from JSON responses.
// Height is in centimetres, weight in kilograms.
type account struct {
	ID            string        `json:"id"             db:"id"`
	Username      string        `json:"username"       db:"username"`
	Email         string        `json:"email"          db:"email"`
	PasswordHash  string        `json:"-"              db:"password_hash"`
	FullName      string        `json:"full_name"      db:"full_name"`
	Age           int           `json:"age"            db:"age"`
	Height        float64       `json:"height"         db:"height"`
	Weight        float64       `json:"weight"         db:"weight"`
	GoalType      goalType      `json:"goal_type"      db:"goal_type"`
	ActivityLevel activityLevel `json:"activity_level" db:"activity_level"`
	CreatedAt     time.Time     `json:"created_at"     db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"     db:"updated_at"`
}

// profile is the account as returned to its owner, with the derived BMI and
// daily calorie estimate. BMI is null when the stored height cannot produce one.
type profile struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	Email         string        `json:"email"`
	FullName      string        `json:"full_name"`
	Age           int           `json:"age"`
	Height        float64       `json:"height"`
	Weight        float64       `json:"weight"`
	GoalType      goalType      `json:"goal_type"`
	ActivityLevel activityLevel `json:"activity_level"`
	BMI           *float64      `json:"bmi"`
	DailyCalories int           `json:"daily_calories"`
}

// foodItem is shared catalog data. Densities are per 100 g.
type foodItem struct {
	ID              string    `json:"id"                db:"id"`
	Name            string    `json:"name"              db:"name"`
	CaloriesPer100g float64   `json:"calories_per_100g" db:"calories_per_100g"`
	ProteinPer100g  float64   `json:"protein_per_100g"  db:"protein_per_100g"`
	CarbsPer100g    float64   `json:"carbs_per_100g"    db:"carbs_per_100g"`
	FatPer100g      float64   `json:"fat_per_100g"      db:"fat_per_100g"`
	FiberPer100g    float64   `json:"fiber_per_100g"    db:"fiber_per_100g"`
	CreatedAt       time.Time `json:"created_at"        db:"created_at"`
}

// mealEntry is one logged portion of a food item. FoodName and the nutrition
// fields are snapshots taken at log time and never recomputed.
type mealEntry struct {
	ID         string    `json:"id"           db:"id"`
	UserID     string    `json:"user_id"      db:"user_id"`
	FoodItemID string    `json:"food_item_id" db:"food_item_id"`
	FoodName   string    `json:"food_name"    db:"food_name"`
	Quantity   float64   `json:"quantity"     db:"quantity"`
	Calories   float64   `json:"calories"     db:"calories"`
	Protein    float64   `json:"protein"      db:"protein"`
	Carbs      float64   `json:"carbs"        db:"carbs"`
	Fat        float64   `json:"fat"          db:"fat"`
	MealType   mealType  `json:"meal_type"    db:"meal_type"`
	LoggedAt   time.Time `json:"logged_at"    db:"logged_at"`
}

// exercise is shared catalog data.
type exercise struct {
	ID                string       `json:"id"                  db:"id"`
	Name              string       `json:"name"                db:"name"`
	Type              exerciseType `json:"type"                db:"type"`
	MuscleGroups      []string     `json:"muscle_groups"       db:"muscle_groups"`
	Description       string       `json:"description"         db:"description"`
	Instructions      []string     `json:"instructions"        db:"instructions"`
	CaloriesPerMinute float64      `json:"calories_per_minute" db:"calories_per_minute"`
	CreatedAt         time.Time    `json:"created_at"          db:"created_at"`
}

// workoutEntry is one completed exercise session. Optional strength fields use
// pointers so pgx can scan NULLs and JSON renders them as null.
type workoutEntry struct {
	ID             string    `json:"id"              db:"id"`
	UserID         string    `json:"user_id"         db:"user_id"`
	ExerciseID     string    `json:"exercise_id"     db:"exercise_id"`
	ExerciseName   string    `json:"exercise_name"   db:"exercise_name"`
	Duration       int       `json:"duration"        db:"duration"`
	CaloriesBurned float64   `json:"calories_burned" db:"calories_burned"`
	Sets           *int      `json:"sets"            db:"sets"`
	Reps           *int      `json:"reps"            db:"reps"`
	Weight         *float64  `json:"weight"          db:"weight"`
	Notes          *string   `json:"notes"           db:"notes"`
	CompletedAt    time.Time `json:"completed_at"    db:"completed_at"`
}

// goal maps to the goals table. CurrentProgress and IsAchieved are stored but
// no route updates them yet.
type goal struct {
	ID              string     `json:"id"               db:"id"`
	UserID          string     `json:"user_id"          db:"user_id"`
	GoalType        goalType   `json:"goal_type"        db:"goal_type"`
	TargetWeight    *float64   `json:"target_weight"    db:"target_weight"`
	TargetDate      *time.Time `json:"target_date"      db:"target_date"`
	CurrentProgress float64    `json:"current_progress" db:"current_progress"`
	IsAchieved      bool       `json:"is_achieved"      db:"is_achieved"`
	CreatedAt       time.Time  `json:"created_at"       db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"       db:"updated_at"`
}

/* ─── Aggregates ─────────────────────────────────────────────────────── */

// nutritionSummary is the response shape for GET /food/log/summary and the
// nutrition block of the dashboard. Also scanned directly from the SUM query.
type nutritionSummary struct {
	TotalCalories float64 `json:"total_calories" db:"total_calories"`
	TotalProtein  float64 `json:"total_protein"  db:"total_protein"`
	TotalCarbs    float64 `json:"total_carbs"    db:"total_carbs"`
	TotalFat      float64 `json:"total_fat"      db:"total_fat"`
	MealCount     int     `json:"meal_count"     db:"meal_count"`
}

type workoutSummary struct {
	TotalCaloriesBurned float64 `json:"total_calories_burned" db:"total_calories_burned"`
	TotalWorkoutTime    int     `json:"total_workout_time"    db:"total_workout_time"`
	WorkoutCount        int     `json:"workout_count"         db:"workout_count"`
}

// dashboardStats is the response shape for GET /dashboard/stats.
type dashboardStats struct {
	Nutrition        nutritionSummary `json:"nutrition"`
	Workouts         workoutSummary   `json:"workouts"`
	ActiveGoalsCount int              `json:"active_goals_count"`
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// registerRequest is the request body for POST /api/auth/register. Numeric
// profile fields are pointers so "required" distinguishes absent from zero.
type registerRequest struct {
	Username      string        `json:"username"       binding:"required,min=3,max=50"`
	Email         string        `json:"email"          binding:"required,email"`
	Password      string        `json:"password"       binding:"required,max=72"`
	FullName      string        `json:"full_name"      binding:"required,max=200"`
	Age           *int          `json:"age"            binding:"required,gte=0,lte=150"`
	Height        *float64      `json:"height"         binding:"required,gt=0"`
	Weight        *float64      `json:"weight"         binding:"required,gte=0"`
	GoalType      goalType      `json:"goal_type"      binding:"required"`
	ActivityLevel activityLevel `json:"activity_level" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// patchProfileRequest is the request body for PATCH /api/auth/profile.
// All fields are pointers; only non-nil fields get written to the database.
type patchProfileRequest struct {
	FullName      *string        `json:"full_name"      binding:"omitempty,min=1,max=200"`
	Age           *int           `json:"age"            binding:"omitempty,gte=0,lte=150"`
	Height        *float64       `json:"height"         binding:"omitempty,gt=0"`
	Weight        *float64       `json:"weight"         binding:"omitempty,gte=0"`
	GoalType      *goalType      `json:"goal_type"`
	ActivityLevel *activityLevel `json:"activity_level"`
}

func (p patchProfileRequest) empty() bool {
	return p.FullName == nil && p.Age == nil && p.Height == nil &&
		p.Weight == nil && p.GoalType == nil && p.ActivityLevel == nil
}

type createFoodItemRequest struct {
	Name            string   `json:"name"              binding:"required,max=200"`
	CaloriesPer100g *float64 `json:"calories_per_100g" binding:"required,gte=0"`
	ProteinPer100g  *float64 `json:"protein_per_100g"  binding:"required,gte=0"`
	CarbsPer100g    *float64 `json:"carbs_per_100g"    binding:"required,gte=0"`
	FatPer100g      *float64 `json:"fat_per_100g"      binding:"required,gte=0"`
	FiberPer100g    *float64 `json:"fiber_per_100g"    binding:"omitempty,gte=0"`
}

type logMealRequest struct {
	FoodItemID string   `json:"food_item_id" binding:"required"`
	Quantity   float64  `json:"quantity"     binding:"required,gt=0"`
	MealType   mealType `json:"meal_type"    binding:"required"`
}

type createExerciseRequest struct {
	Name              string       `json:"name"                binding:"required,max=200"`
	Type              exerciseType `json:"type"                binding:"required"`
	MuscleGroups      []string     `json:"muscle_groups"`
	Description       string       `json:"description"`
	Instructions      []string     `json:"instructions"`
	CaloriesPerMinute *float64     `json:"calories_per_minute" binding:"required,gte=0"`
}

type logWorkoutRequest struct {
	ExerciseID string   `json:"exercise_id" binding:"required"`
	Duration   int      `json:"duration"    binding:"required,gt=0"`
	Sets       *int     `json:"sets"        binding:"omitempty,gte=0"`
	Reps       *int     `json:"reps"        binding:"omitempty,gte=0"`
	Weight     *float64 `json:"weight"      binding:"omitempty,gte=0"`
	Notes      *string  `json:"notes"       binding:"omitempty,max=2000"`
}

type createGoalRequest struct {
	GoalType     goalType   `json:"goal_type"     binding:"required"`
	TargetWeight *float64   `json:"target_weight" binding:"omitempty,gt=0"`
	TargetDate   *time.Time `json:"target_date"`
}
