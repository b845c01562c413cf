package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// testClock is "now" for every handler test: midday so today's window is
// unambiguous.
var testClock = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type testAPI struct {
	t      *testing.T
	store  *memStore
	h      *Handler
	router *gin.Engine
}

// setupAPI builds the full router over an in-memory store. No DB needed.
func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := newMemStore()
	h := newHandler(s, newTokenIssuer(testSecret, 0), zerolog.Nop())
	h.now = func() time.Time { return testClock }
	return &testAPI{t: t, store: s, h: h, router: newRouter(h, nil)}
}

// do sends a request with an optional JSON body and bearer token.
func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type authResponse struct {
	Token string  `json:"token"`
	User  profile `json:"user"`
}

type errorResponse struct {
	Error   string       `json:"error"`
	Details []fieldError `json:"details"`
}

func registerBody(username, email string) map[string]any {
	return map[string]any{
		"username":       username,
		"email":          email,
		"password":       "correct-horse",
		"full_name":      "Test User",
		"age":            25,
		"height":         175,
		"weight":         70,
		"goal_type":      "maintenance",
		"activity_level": "moderately_active",
	}
}

// register creates an account and returns its token.
func (a *testAPI) register(username string) string {
	a.t.Helper()
	w := a.do("POST", "/api/auth/register", "", registerBody(username, username+"@example.com"))
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode[authResponse](a.t, w).Token
}

func (a *testAPI) createFood(token string, caloriesPer100g float64) foodItem {
	a.t.Helper()
	w := a.do("POST", "/api/food/items", token, map[string]any{
		"name": "Test Food", "calories_per_100g": caloriesPer100g,
		"protein_per_100g": 10, "carbs_per_100g": 20, "fat_per_100g": 5,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[foodItem](a.t, w)
}

func (a *testAPI) createExercise(token, name string, typ exerciseType, rate float64) exercise {
	a.t.Helper()
	w := a.do("POST", "/api/exercises", token, map[string]any{
		"name": name, "type": typ, "calories_per_minute": rate,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[exercise](a.t, w)
}

/* ─── Auth ───────────────────────────────────────────────────────────── */

func TestRegister(t *testing.T) {
	api := setupAPI(t)
	w := api.do("POST", "/api/auth/register", "", registerBody("alice", "alice@example.com"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[authResponse](t, w)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "Test User", resp.User.FullName)
	require.NotNil(t, resp.User.BMI)
	assert.Equal(t, 22.86, *resp.User.BMI)
	assert.Equal(t, 2594, resp.User.DailyCalories)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegisterDuplicate(t *testing.T) {
	api := setupAPI(t)
	api.register("alice")

	sameName := api.do("POST", "/api/auth/register", "", registerBody("alice", "other@example.com"))
	assert.Equal(t, http.StatusBadRequest, sameName.Code)
	assert.Equal(t, "username or email already exists", decode[errorResponse](t, sameName).Error)

	sameEmail := api.do("POST", "/api/auth/register", "", registerBody("bob", "alice@example.com"))
	assert.Equal(t, http.StatusBadRequest, sameEmail.Code)
}

func TestRegisterValidation(t *testing.T) {
	api := setupAPI(t)
	cases := []struct {
		name  string
		mutFn func(b map[string]any)
		field string
	}{
		{"missing age", func(b map[string]any) { delete(b, "age") }, "age"},
		{"zero height", func(b map[string]any) { b["height"] = 0 }, "height"},
		{"bad email", func(b map[string]any) { b["email"] = "not-an-email" }, "email"},
		{"short username", func(b map[string]any) { b["username"] = "al" }, "username"},
		{"unknown goal", func(b map[string]any) { b["goal_type"] = "get_huge" }, "goal_type"},
		{"unknown activity", func(b map[string]any) { b["activity_level"] = "couch" }, "activity_level"},
		{"age wrong type", func(b map[string]any) { b["age"] = "old" }, "age"},
		{"password over 72 bytes", func(b map[string]any) { b["password"] = strings.Repeat("é", 40) }, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := registerBody("alice", "alice@example.com")
			tc.mutFn(body)
			w := api.do("POST", "/api/auth/register", "", body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			resp := decode[errorResponse](t, w)
			assert.Equal(t, "validation failed", resp.Error)
			require.NotEmpty(t, resp.Details)
			assert.Equal(t, tc.field, resp.Details[0].Field)
		})
	}
}

func TestLogin(t *testing.T) {
	api := setupAPI(t)
	api.register("alice")

	ok := api.do("POST", "/api/auth/login", "", map[string]string{"username": "alice", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())
	resp := decode[authResponse](t, ok)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)

	wrong := api.do("POST", "/api/auth/login", "", map[string]string{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)

	unknown := api.do("POST", "/api/auth/login", "", map[string]string{"username": "mallory", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, decode[errorResponse](t, wrong).Error, decode[errorResponse](t, unknown).Error)
}

func TestAuthRequired(t *testing.T) {
	api := setupAPI(t)

	missing := api.do("GET", "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, missing.Code)

	garbage := api.do("GET", "/api/auth/profile", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, garbage.Code)
	assert.Equal(t, "invalid token", decode[errorResponse](t, garbage).Error)
}

func TestExpiredToken(t *testing.T) {
	api := setupAPI(t)
	api.register("alice")
	a, err := api.store.accountByUsername(t.Context(), "alice")
	require.NoError(t, err)

	old := newTokenIssuer(testSecret, 0)
	old.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }
	token, err := old.issue(a.ID)
	require.NoError(t, err)

	w := api.do("GET", "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token expired", decode[errorResponse](t, w).Error)
}

func TestGetProfile(t *testing.T) {
	api := setupAPI(t)
	token := api.register("alice")

	w := api.do("GET", "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p := decode[profile](t, w)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, 2594, p.DailyCalories)
}

// A valid token whose account no longer exists gets 404, not 401.
func TestGetProfileVanishedAccount(t *testing.T) {
	api := setupAPI(t)
	token, err := api.h.tokens.issue("ghost-id")
	require.NoError(t, err)

	w := api.do("GET", "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user not found", decode[errorResponse](t, w).Error)
}

func TestPatchProfile(t *testing.T) {
	api := setupAPI(t)
	token := api.register("alice")

	w := api.do("PATCH", "/api/auth/profile", token, map[string]any{"weight": 80, "activity_level": "sedentary"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p := decode[profile](t, w)
	assert.Equal(t, 80.0, p.Weight)
	assert.Equal(t, 175.0, p.Height)
	// (10*80 + 6.25*175 - 5*25 + 5) * 1.2 = 1773.75 * 1.2 = 2128.5
	assert.Equal(t, 2128, p.DailyCalories)

	empty := api.do("PATCH", "/api/auth/profile", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, empty.Code)

	badEnum := api.do("PATCH", "/api/auth/profile", token, map[string]any{"goal_type": "nap"})
	assert.Equal(t, http.StatusBadRequest, badEnum.Code)
}

/* ─── Food and meals ─────────────────────────────────────────────────── */

func TestMealLogFlow(t *testing.T) {
	api := setupAPI(t)
	token := api.register("alice")
	food := api.createFood(token, 100)

	w := api.do("POST", "/api/food/log", token, map[string]any{
		"food_item_id": food.ID, "quantity": 100, "meal_type": "lunch",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	entry := decode[mealEntry](t, w)
	assert.Equal(t, 100.0, entry.Calories)
	assert.Equal(t, 10.0, entry.Protein)
	assert.Equal(t, "Test Food", entry.FoodName)

	list := api.do("GET", "/api/food/log", token, nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Len(t, decode[[]mealEntry](t, list), 1)

	sum := api.do("GET", "/api/food/log/summary", token, nil)
	require.Equal(t, http.StatusOK, sum.Code)
	s := decode[nutritionSummary](t, sum)
	assert.Equal(t, 100.0, s.TotalCalories)
	assert.Equal(t, 1, s.MealCount)

	// The same summary by explicit date, and nothing on the day before.
	byDate := decode[nutritionSummary](t, api.do("GET", "/api/food/log/summary?date=2024-03-15", token, nil))
	assert.Equal(t, s, byDate)
	dayBefore := decode[nutritionSummary](t, api.do("GET", "/api/food/log/summary?date=2024-03-14", token, nil))
	assert.Equal(t, nutritionSummary{}, dayBefore)
}

func TestMealLogErrors(t *testing.T) {
	api := setupAPI(t)
	token := api.register("alice")
	food := api.createFood(token, 100)

	unknown := api.do("POST", "/api/food/log", token, map[string]any{
		"food_item_id": "missing", "quantity": 100, "meal_type": "lunch",
	})
	assert.Equal(t, http.StatusNotFound, unknown.Code)
	assert.Equal(t, "food item not found", decode[errorResponse](t, unknown).Error)

	zeroQty := api.do("POST", "/api/food/log", token, map[string]any{
		"food_item_id": food.ID, "quantity": 0, "meal_type": "lunch",
	})
	assert.Equal(t, http.StatusBadRequest, zeroQty.Code)

	badMeal := api.do("POST", "/api/food/log", token, map[string]any{
		"food_item_id": food.ID, "quantity": 50, "meal_type": "brunch",
	})
	assert.Equal(t, http.StatusBadRequest, badMeal.Code)

	badDate := api.do("GET", "/api/food/log?date=15-03-2024", token, nil)
	assert.Equal(t, http.StatusBadRequest, badDate.Code)

	malformed := api.do("POST", "/api/food/log", token, "{not json")
	assert.Equal(t, http.StatusBadRequest, malformed.Code)
}

func TestEmptySummary(t *testing.T) {
	api := setupAPI(t)
	token := api.register("alice")

	w := api.do("GET", "/api/food/log/summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"total_calories":0,"total_protein":0,"total_carbs":0,"total_fat":0,"meal_count":0}`,
		w.Body.String())

	list := api.do("GET", "/api/food/log", token, nil)
	assert.JSONEq(t, `[]`, list.Body.String())
}

func TestMealLogIsPerUser(t *testing.T) {
	api := setupAPI(t)
	alice := api.register("alice")
	bob := api.register("bobby")
	food := api.createFood(alice, 100)

	w := api.do("POST", "/api/food/log", alice, map[string]any{
		"food_item_id": food.ID, "quantity": 200, "meal_type": "dinner",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	s := decode[nutritionSummary](t, api.do("GET", "/api/food/log/summary", bob, nil))
	assert.Equal(t, 0, s.MealCount)
}

func TestCreateFoodItemValidation(t *testing.T) {
	api := setupAPI(t)
	token := api.register("alice")

	w := api.do("POST", "/api/food/items", token, map[string]any{
		"name": "Bad", "calories_per_100g": -1, "protein_per_100g": 0, "carbs_per_100g": 0, "fat_per_100g": 0,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "calories_per_100g", decode[errorResponse](t, w).Details[0].Field)

	items := decode[[]foodItem](t, api.do("GET", "/api/food/items", token, nil))
	assert.Empty(t, items)
}

/* ─── Exercises and workouts ─────────────────────────────────────────── */

func TestWorkoutFlow(t *testing.T) {
	api := setupAPI(t)
	token := api.register("alice")
	ex := api.createExercise(token, "Push-ups", exerciseStrength, 8)
	assert.Equal(t, []string{}, ex.MuscleGroups)

	w := api.do("POST", "/api/workouts/log", token, map[string]any{
		"exercise_id": ex.ID, "duration": 30, "sets": 3, "reps": 12,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	entry := decode[workoutEntry](t, w)
	assert.Equal(t, 240.0, entry.CaloriesBurned)
	assert.Equal(t, "Push-ups", entry.ExerciseName)
	require.NotNil(t, entry.Sets)
	assert.Equal(t, 3, *entry.Sets)
	assert.Nil(t, entry.Weight)

	list := decode[[]workoutEntry](t, api.do("GET", "/api/workouts/log", token, nil))
	assert.Len(t, list, 1)

	unknown := api.do("POST", "/api/workouts/log", token, map[string]any{"exercise_id": "missing", "duration": 10})
	assert.Equal(t, http.StatusNotFound, unknown.Code)
	assert.Equal(t, "exercise not found", decode[errorResponse](t, unknown).Error)

	zero := api.do("POST", "/api/workouts/log", token, map[string]any{"exercise_id": ex.ID, "duration": 0})
	assert.Equal(t, http.StatusBadRequest, zero.Code)
}

func TestListExercisesFilter(t *testing.T) {
	api := setupAPI(t)
	token := api.register("alice")
	api.createExercise(token, "Running", exerciseCardio, 12)
	api.createExercise(token, "Squats", exerciseStrength, 6)
	api.createExercise(token, "Cycling", exerciseCardio, 10)

	all := decode[[]exercise](t, api.do("GET", "/api/exercises", token, nil))
	assert.Len(t, all, 3)

	cardio := decode[[]exercise](t, api.do("GET", "/api/exercises?exercise_type=cardio", token, nil))
	require.Len(t, cardio, 2)
	for _, e := range cardio {
		assert.Equal(t, exerciseCardio, e.Type)
	}

	bad := api.do("GET", "/api/exercises?exercise_type=yoga", token, nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	badType := api.do("POST", "/api/exercises", token, map[string]any{
		"name": "Yoga", "type": "yoga", "calories_per_minute": 3,
	})
	assert.Equal(t, http.StatusBadRequest, badType.Code)
}

/* ─── Goals and dashboard ────────────────────────────────────────────── */

func TestGoals(t *testing.T) {
	api := setupAPI(t)
	token := api.register("alice")

	w := api.do("POST", "/api/goals", token, map[string]any{
		"goal_type": "weight_loss", "target_weight": 65, "target_date": "2024-06-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	g := decode[goal](t, w)
	assert.Equal(t, 0.0, g.CurrentProgress)
	assert.False(t, g.IsAchieved)
	require.NotNil(t, g.TargetWeight)
	assert.Equal(t, 65.0, *g.TargetWeight)

	bad := api.do("POST", "/api/goals", token, map[string]any{"goal_type": "fly"})
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	goals := decode[[]goal](t, api.do("GET", "/api/goals", token, nil))
	assert.Len(t, goals, 1)
}

func TestDashboardStats(t *testing.T) {
	api := setupAPI(t)
	token := api.register("alice")

	empty := api.do("GET", "/api/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, empty.Code)
	assert.Equal(t, dashboardStats{}, decode[dashboardStats](t, empty))

	food := api.createFood(token, 165)
	ex := api.createExercise(token, "Running", exerciseCardio, 12)
	api.do("POST", "/api/food/log", token, map[string]any{"food_item_id": food.ID, "quantity": 150, "meal_type": "lunch"})
	api.do("POST", "/api/food/log", token, map[string]any{"food_item_id": food.ID, "quantity": 50, "meal_type": "snack"})
	api.do("POST", "/api/workouts/log", token, map[string]any{"exercise_id": ex.ID, "duration": 20})
	api.do("POST", "/api/goals", token, map[string]any{"goal_type": "endurance"})

	stats := decode[dashboardStats](t, api.do("GET", "/api/dashboard/stats", token, nil))
	assert.Equal(t, 330.0, stats.Nutrition.TotalCalories)
	assert.Equal(t, 2, stats.Nutrition.MealCount)
	assert.Equal(t, 240.0, stats.Workouts.TotalCaloriesBurned)
	assert.Equal(t, 20, stats.Workouts.TotalWorkoutTime)
	assert.Equal(t, 1, stats.Workouts.WorkoutCount)
	assert.Equal(t, 1, stats.ActiveGoalsCount)
}

/* ─── Health and metrics ─────────────────────────────────────────────── */

func TestHealth(t *testing.T) {
	api := setupAPI(t)
	assert.Equal(t, http.StatusOK, api.do("GET", "/api/health", "", nil).Code)

	api.store.pingErr = errors.New("connection refused")
	assert.Equal(t, http.StatusServiceUnavailable, api.do("GET", "/api/health", "", nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	api := setupAPI(t)
	api.register("alice")

	w := api.do("GET", "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fitrack_registrations_total")
	assert.Contains(t, w.Body.String(), "fitrack_http_requests_total")
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newHandler(newMemStore(), newTokenIssuer(testSecret, 0), zerolog.Nop())
	router := newRouter(h, []string{"https://app.example.com"})

	req := httptest.NewRequest("OPTIONS", "/api/auth/login", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
