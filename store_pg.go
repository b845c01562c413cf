package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// pgStore implements store on a Postgres connection pool.
type pgStore struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// newPGStore creates a connection pool. We use a pool (not a single conn) because
// serverless Postgres closes idle connections after a few minutes.
func newPGStore(ctx context.Context, dbURL string, log zerolog.Logger) (*pgStore, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	// Simple protocol avoids "cached plan must not change result type" errors
	// from server-side prepared statement caches after migrations.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return &pgStore{pool: pool, log: log}, nil
}

func (s *pgStore) close() {
	s.pool.Close()
}

/* ─── Query helpers ──────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](ctx context.Context, s *pgStore, op, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := s.pool.Query(ctx, sql, args)
	if err != nil {
		s.logQueryError(op, err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		s.logQueryError(op, err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
// The result is never nil so JSON renders an empty array.
func queryMany[T any](ctx context.Context, s *pgStore, op, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := s.pool.Query(ctx, sql, args)
	if err != nil {
		s.logQueryError(op, err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		s.logQueryError(op, err)
		return nil, err
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

func (s *pgStore) count(ctx context.Context, op, sql string, args pgx.NamedArgs) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, sql, args).Scan(&n); err != nil {
		s.logQueryError(op, err)
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s *pgStore) logQueryError(op string, err error) {
	if isUniqueViolation(err) {
		return
	}
	s.log.Error().Err(err).Str("op", op).Msg("query failed")
}

// isUniqueViolation reports whether err is a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// notFound wraps pgx.ErrNoRows as errNotFound, naming the missing record.
func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %w", what, errNotFound)
	}
	return err
}

func windowArgs(userID string, w dayWindow) pgx.NamedArgs {
	return pgx.NamedArgs{"userID": userID, "start": w.Start, "end": w.End}
}

func (s *pgStore) ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

/* ─── Accounts ───────────────────────────────────────────────────────── */

func (s *pgStore) createAccount(ctx context.Context, a *account) error {
	created, err := queryOne[account](ctx, s, "createAccount",
		`INSERT INTO accounts (id, username, email, password_hash, full_name, age, height, weight,
		                       goal_type, activity_level, created_at, updated_at)
		 VALUES (@id, @username, @email, @passwordHash, @fullName, @age, @height, @weight,
		         @goalType, @activityLevel, @createdAt, @updatedAt)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": a.ID, "username": a.Username, "email": a.Email,
			"passwordHash": a.PasswordHash, "fullName": a.FullName,
			"age": a.Age, "height": a.Height, "weight": a.Weight,
			"goalType": string(a.GoalType), "activityLevel": string(a.ActivityLevel),
			"createdAt": a.CreatedAt, "updatedAt": a.UpdatedAt,
		})
	if err != nil {
		if isUniqueViolation(err) {
			return errConflict
		}
		return fmt.Errorf("create account: %w", err)
	}
	*a = created
	return nil
}

func (s *pgStore) accountByID(ctx context.Context, id string) (account, error) {
	a, err := queryOne[account](ctx, s, "accountByID",
		"SELECT * FROM accounts WHERE id = @id",
		pgx.NamedArgs{"id": id})
	return a, notFound(err, "user")
}

func (s *pgStore) accountByUsername(ctx context.Context, username string) (account, error) {
	a, err := queryOne[account](ctx, s, "accountByUsername",
		"SELECT * FROM accounts WHERE username = @username",
		pgx.NamedArgs{"username": username})
	return a, notFound(err, "user")
}

func (s *pgStore) accountExists(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM accounts WHERE username = @username OR email = @email)",
		pgx.NamedArgs{"username": username, "email": email}).Scan(&exists)
	if err != nil {
		s.logQueryError("accountExists", err)
		return false, fmt.Errorf("check account exists: %w", err)
	}
	return exists, nil
}

// updateAccount writes only the non-nil fields of p. The SET clause is built
// dynamically so an omitted field keeps its stored value.
func (s *pgStore) updateAccount(ctx context.Context, id string, p patchProfileRequest, updatedAt time.Time) (account, error) {
	setClauses := []string{"updated_at = @updatedAt"}
	args := pgx.NamedArgs{"id": id, "updatedAt": updatedAt}

	if p.FullName != nil {
		setClauses = append(setClauses, "full_name = @fullName")
		args["fullName"] = *p.FullName
	}
	if p.Age != nil {
		setClauses = append(setClauses, "age = @age")
		args["age"] = *p.Age
	}
	if p.Height != nil {
		setClauses = append(setClauses, "height = @height")
		args["height"] = *p.Height
	}
	if p.Weight != nil {
		setClauses = append(setClauses, "weight = @weight")
		args["weight"] = *p.Weight
	}
	if p.GoalType != nil {
		setClauses = append(setClauses, "goal_type = @goalType")
		args["goalType"] = string(*p.GoalType)
	}
	if p.ActivityLevel != nil {
		setClauses = append(setClauses, "activity_level = @activityLevel")
		args["activityLevel"] = string(*p.ActivityLevel)
	}

	query := "UPDATE accounts SET " + strings.Join(setClauses, ", ") +
		" WHERE id = @id RETURNING *"
	a, err := queryOne[account](ctx, s, "updateAccount", query, args)
	return a, notFound(err, "user")
}

/* ─── Food catalog and meal log ──────────────────────────────────────── */

func (s *pgStore) createFoodItem(ctx context.Context, f *foodItem) error {
	created, err := queryOne[foodItem](ctx, s, "createFoodItem",
		`INSERT INTO food_items (id, name, calories_per_100g, protein_per_100g, carbs_per_100g,
		                         fat_per_100g, fiber_per_100g, created_at)
		 VALUES (@id, @name, @calories, @protein, @carbs, @fat, @fiber, @createdAt)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": f.ID, "name": f.Name, "calories": f.CaloriesPer100g,
			"protein": f.ProteinPer100g, "carbs": f.CarbsPer100g, "fat": f.FatPer100g,
			"fiber": f.FiberPer100g, "createdAt": f.CreatedAt,
		})
	if err != nil {
		return fmt.Errorf("create food item: %w", err)
	}
	*f = created
	return nil
}

func (s *pgStore) foodItemByID(ctx context.Context, id string) (foodItem, error) {
	f, err := queryOne[foodItem](ctx, s, "foodItemByID",
		"SELECT * FROM food_items WHERE id = @id",
		pgx.NamedArgs{"id": id})
	return f, notFound(err, "food item")
}

func (s *pgStore) listFoodItems(ctx context.Context) ([]foodItem, error) {
	return queryMany[foodItem](ctx, s, "listFoodItems",
		"SELECT * FROM food_items ORDER BY name, id", nil)
}

func (s *pgStore) countFoodItems(ctx context.Context) (int, error) {
	return s.count(ctx, "countFoodItems", "SELECT COUNT(*) FROM food_items", nil)
}

func (s *pgStore) createMealEntry(ctx context.Context, m *mealEntry) error {
	created, err := queryOne[mealEntry](ctx, s, "createMealEntry",
		`INSERT INTO meal_entries (id, user_id, food_item_id, food_name, quantity,
		                           calories, protein, carbs, fat, meal_type, logged_at)
		 VALUES (@id, @userID, @foodItemID, @foodName, @quantity,
		         @calories, @protein, @carbs, @fat, @mealType, @loggedAt)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": m.ID, "userID": m.UserID, "foodItemID": m.FoodItemID,
			"foodName": m.FoodName, "quantity": m.Quantity,
			"calories": m.Calories, "protein": m.Protein, "carbs": m.Carbs, "fat": m.Fat,
			"mealType": string(m.MealType), "loggedAt": m.LoggedAt,
		})
	if err != nil {
		return fmt.Errorf("create meal entry: %w", err)
	}
	*m = created
	return nil
}

func (s *pgStore) mealEntries(ctx context.Context, userID string, w dayWindow) ([]mealEntry, error) {
	return queryMany[mealEntry](ctx, s, "mealEntries",
		`SELECT * FROM meal_entries
		 WHERE user_id = @userID AND logged_at >= @start AND logged_at < @end
		 ORDER BY logged_at`, windowArgs(userID, w))
}

// nutritionTotals sums the derived nutrition columns in one aggregate row.
// With no matching rows the COALESCEs produce zeros and COUNT(*) is 0.
func (s *pgStore) nutritionTotals(ctx context.Context, userID string, w dayWindow) (nutritionSummary, error) {
	return queryOne[nutritionSummary](ctx, s, "nutritionTotals",
		`SELECT
			COALESCE(SUM(calories), 0) AS total_calories,
			COALESCE(SUM(protein),  0) AS total_protein,
			COALESCE(SUM(carbs),    0) AS total_carbs,
			COALESCE(SUM(fat),      0) AS total_fat,
			COUNT(*)                   AS meal_count
		 FROM meal_entries
		 WHERE user_id = @userID AND logged_at >= @start AND logged_at < @end`,
		windowArgs(userID, w))
}

/* ─── Exercise catalog and workout log ───────────────────────────────── */

func (s *pgStore) createExercise(ctx context.Context, e *exercise) error {
	created, err := queryOne[exercise](ctx, s, "createExercise",
		`INSERT INTO exercises (id, name, type, muscle_groups, description, instructions,
		                        calories_per_minute, created_at)
		 VALUES (@id, @name, @type, @muscleGroups, @description, @instructions, @rate, @createdAt)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": e.ID, "name": e.Name, "type": string(e.Type),
			"muscleGroups": e.MuscleGroups, "description": e.Description,
			"instructions": e.Instructions, "rate": e.CaloriesPerMinute,
			"createdAt": e.CreatedAt,
		})
	if err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}
	*e = created
	return nil
}

func (s *pgStore) exerciseByID(ctx context.Context, id string) (exercise, error) {
	e, err := queryOne[exercise](ctx, s, "exerciseByID",
		"SELECT * FROM exercises WHERE id = @id",
		pgx.NamedArgs{"id": id})
	return e, notFound(err, "exercise")
}

func (s *pgStore) listExercises(ctx context.Context, typ *exerciseType) ([]exercise, error) {
	if typ == nil {
		return queryMany[exercise](ctx, s, "listExercises",
			"SELECT * FROM exercises ORDER BY name, id", nil)
	}
	return queryMany[exercise](ctx, s, "listExercises",
		"SELECT * FROM exercises WHERE type = @type ORDER BY name, id",
		pgx.NamedArgs{"type": string(*typ)})
}

func (s *pgStore) countExercises(ctx context.Context) (int, error) {
	return s.count(ctx, "countExercises", "SELECT COUNT(*) FROM exercises", nil)
}

func (s *pgStore) createWorkoutEntry(ctx context.Context, w *workoutEntry) error {
	created, err := queryOne[workoutEntry](ctx, s, "createWorkoutEntry",
		`INSERT INTO workout_entries (id, user_id, exercise_id, exercise_name, duration,
		                              calories_burned, sets, reps, weight, notes, completed_at)
		 VALUES (@id, @userID, @exerciseID, @exerciseName, @duration,
		         @caloriesBurned, @sets, @reps, @weight, @notes, @completedAt)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": w.ID, "userID": w.UserID, "exerciseID": w.ExerciseID,
			"exerciseName": w.ExerciseName, "duration": w.Duration,
			"caloriesBurned": w.CaloriesBurned, "sets": w.Sets, "reps": w.Reps,
			"weight": w.Weight, "notes": w.Notes, "completedAt": w.CompletedAt,
		})
	if err != nil {
		return fmt.Errorf("create workout entry: %w", err)
	}
	*w = created
	return nil
}

func (s *pgStore) workoutEntries(ctx context.Context, userID string, w dayWindow) ([]workoutEntry, error) {
	return queryMany[workoutEntry](ctx, s, "workoutEntries",
		`SELECT * FROM workout_entries
		 WHERE user_id = @userID AND completed_at >= @start AND completed_at < @end
		 ORDER BY completed_at`, windowArgs(userID, w))
}

func (s *pgStore) workoutTotals(ctx context.Context, userID string, w dayWindow) (workoutSummary, error) {
	return queryOne[workoutSummary](ctx, s, "workoutTotals",
		`SELECT
			COALESCE(SUM(calories_burned), 0) AS total_calories_burned,
			COALESCE(SUM(duration),        0) AS total_workout_time,
			COUNT(*)                          AS workout_count
		 FROM workout_entries
		 WHERE user_id = @userID AND completed_at >= @start AND completed_at < @end`,
		windowArgs(userID, w))
}

/* ─── Goals ──────────────────────────────────────────────────────────── */

func (s *pgStore) createGoal(ctx context.Context, g *goal) error {
	created, err := queryOne[goal](ctx, s, "createGoal",
		`INSERT INTO goals (id, user_id, goal_type, target_weight, target_date,
		                    current_progress, is_achieved, created_at, updated_at)
		 VALUES (@id, @userID, @goalType, @targetWeight, @targetDate,
		         @progress, @achieved, @createdAt, @updatedAt)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": g.ID, "userID": g.UserID, "goalType": string(g.GoalType),
			"targetWeight": g.TargetWeight, "targetDate": g.TargetDate,
			"progress": g.CurrentProgress, "achieved": g.IsAchieved,
			"createdAt": g.CreatedAt, "updatedAt": g.UpdatedAt,
		})
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	*g = created
	return nil
}

func (s *pgStore) listGoals(ctx context.Context, userID string) ([]goal, error) {
	return queryMany[goal](ctx, s, "listGoals",
		"SELECT * FROM goals WHERE user_id = @userID ORDER BY created_at, id",
		pgx.NamedArgs{"userID": userID})
}

func (s *pgStore) countActiveGoals(ctx context.Context, userID string) (int, error) {
	return s.count(ctx, "countActiveGoals",
		"SELECT COUNT(*) FROM goals WHERE user_id = @userID AND is_achieved = FALSE",
		pgx.NamedArgs{"userID": userID})
}
