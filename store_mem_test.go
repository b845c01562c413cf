package main

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory store for handler tests. It mirrors pgStore's
// error contract: errNotFound for missing records, errConflict for duplicate
// usernames or emails.
type memStore struct {
	mu        sync.Mutex
	accounts  map[string]account
	foods     map[string]foodItem
	meals     []mealEntry
	exercises map[string]exercise
	workouts  []workoutEntry
	goals     []goal
	pingErr   error
}

var _ store = (*memStore)(nil)

// contains matches the SQL filter: start <= t < end.
func (w dayWindow) contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func newMemStore() *memStore {
	return &memStore{
		accounts:  make(map[string]account),
		foods:     make(map[string]foodItem),
		exercises: make(map[string]exercise),
	}
}

func (m *memStore) ping(context.Context) error { return m.pingErr }

func (m *memStore) createAccount(_ context.Context, a *account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Username == a.Username || existing.Email == a.Email {
			return errConflict
		}
	}
	m.accounts[a.ID] = *a
	return nil
}

func (m *memStore) accountByID(_ context.Context, id string) (account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return account{}, fmt.Errorf("user %w", errNotFound)
	}
	return a, nil
}

func (m *memStore) accountByUsername(_ context.Context, username string) (account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return account{}, fmt.Errorf("user %w", errNotFound)
}

func (m *memStore) accountExists(_ context.Context, username, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Username == username || a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) updateAccount(_ context.Context, id string, p patchProfileRequest, updatedAt time.Time) (account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return account{}, fmt.Errorf("user %w", errNotFound)
	}
	if p.FullName != nil {
		a.FullName = *p.FullName
	}
	if p.Age != nil {
		a.Age = *p.Age
	}
	if p.Height != nil {
		a.Height = *p.Height
	}
	if p.Weight != nil {
		a.Weight = *p.Weight
	}
	if p.GoalType != nil {
		a.GoalType = *p.GoalType
	}
	if p.ActivityLevel != nil {
		a.ActivityLevel = *p.ActivityLevel
	}
	a.UpdatedAt = updatedAt
	m.accounts[id] = a
	return a, nil
}

func (m *memStore) createFoodItem(_ context.Context, f *foodItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.foods[f.ID] = *f
	return nil
}

func (m *memStore) foodItemByID(_ context.Context, id string) (foodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.foods[id]
	if !ok {
		return foodItem{}, fmt.Errorf("food item %w", errNotFound)
	}
	return f, nil
}

func (m *memStore) listFoodItems(context.Context) ([]foodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]foodItem, 0, len(m.foods))
	for _, f := range m.foods {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) countFoodItems(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.foods), nil
}

func (m *memStore) createMealEntry(_ context.Context, e *mealEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meals = append(m.meals, *e)
	return nil
}

func (m *memStore) mealEntries(_ context.Context, userID string, w dayWindow) ([]mealEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []mealEntry{}
	for _, e := range m.meals {
		if e.UserID == userID && w.contains(e.LoggedAt) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) nutritionTotals(ctx context.Context, userID string, w dayWindow) (nutritionSummary, error) {
	entries, _ := m.mealEntries(ctx, userID, w)
	var sum nutritionSummary
	for _, e := range entries {
		sum.TotalCalories += e.Calories
		sum.TotalProtein += e.Protein
		sum.TotalCarbs += e.Carbs
		sum.TotalFat += e.Fat
		sum.MealCount++
	}
	return sum, nil
}

func (m *memStore) createExercise(_ context.Context, e *exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exercises[e.ID] = *e
	return nil
}

func (m *memStore) exerciseByID(_ context.Context, id string) (exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exercises[id]
	if !ok {
		return exercise{}, fmt.Errorf("exercise %w", errNotFound)
	}
	return e, nil
}

func (m *memStore) listExercises(_ context.Context, typ *exerciseType) ([]exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []exercise{}
	for _, e := range m.exercises {
		if typ == nil || e.Type == *typ {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) countExercises(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.exercises), nil
}

func (m *memStore) createWorkoutEntry(_ context.Context, e *workoutEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workouts = append(m.workouts, *e)
	return nil
}

func (m *memStore) workoutEntries(_ context.Context, userID string, w dayWindow) ([]workoutEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []workoutEntry{}
	for _, e := range m.workouts {
		if e.UserID == userID && w.contains(e.CompletedAt) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) workoutTotals(ctx context.Context, userID string, w dayWindow) (workoutSummary, error) {
	entries, _ := m.workoutEntries(ctx, userID, w)
	var sum workoutSummary
	for _, e := range entries {
		sum.TotalCaloriesBurned += e.CaloriesBurned
		sum.TotalWorkoutTime += e.Duration
		sum.WorkoutCount++
	}
	return sum, nil
}

func (m *memStore) createGoal(_ context.Context, g *goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals = append(m.goals, *g)
	return nil
}

func (m *memStore) listGoals(_ context.Context, userID string) ([]goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []goal{}
	for _, g := range m.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memStore) countActiveGoals(ctx context.Context, userID string) (int, error) {
	goals, _ := m.listGoals(ctx, userID)
	n := 0
	for _, g := range goals {
		if !g.IsAchieved {
			n++
		}
	}
	return n, nil
}
