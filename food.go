package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// createFoodItem adds a food to the shared catalog.
// POST /api/food/items. Densities are per 100 g; fiber defaults to 0.
func (h *Handler) createFoodItem(c *gin.Context) {
	var body createFoodItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, bindingError(err))
		return
	}

	item := foodItem{
		ID:              uuid.New().String(),
		Name:            body.Name,
		CaloriesPer100g: *body.CaloriesPer100g,
		ProteinPer100g:  *body.ProteinPer100g,
		CarbsPer100g:    *body.CarbsPer100g,
		FatPer100g:      *body.FatPer100g,
		CreatedAt:       h.now(),
	}
	if body.FiberPer100g != nil {
		item.FiberPer100g = *body.FiberPer100g
	}
	if err := h.store.createFoodItem(c, &item); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// listFoodItems returns the whole food catalog.
// GET /api/food/items.
func (h *Handler) listFoodItems(c *gin.Context) {
	items, err := h.store.listFoodItems(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// logMeal records a portion of a catalog food for the caller. Nutrition is
// derived from the food's densities now and stored with the entry.
// POST /api/food/log.
func (h *Handler) logMeal(c *gin.Context) {
	var body logMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, bindingError(err))
		return
	}
	if !body.MealType.valid() {
		h.respondError(c, enumError("meal_type", "breakfast", "lunch", "dinner", "snack"))
		return
	}

	food, err := h.store.foodItemByID(c, body.FoodItemID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	n := scaleNutrition(&food, body.Quantity)
	entry := mealEntry{
		ID:         uuid.New().String(),
		UserID:     userID(c),
		FoodItemID: food.ID,
		FoodName:   food.Name,
		Quantity:   body.Quantity,
		Calories:   n.Calories,
		Protein:    n.Protein,
		Carbs:      n.Carbs,
		Fat:        n.Fat,
		MealType:   body.MealType,
		LoggedAt:   h.now(),
	}
	if err := h.store.createMealEntry(c, &entry); err != nil {
		h.respondError(c, err)
		return
	}
	mealsLoggedTotal.WithLabelValues(string(entry.MealType)).Inc()

	c.JSON(http.StatusCreated, entry)
}

// getMealLog returns the caller's meal entries for one day.
// GET /api/food/log?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getMealLog(c *gin.Context) {
	w, ok := h.windowFromQuery(c)
	if !ok {
		return
	}
	entries, err := h.store.mealEntries(c, userID(c), w)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// getNutritionSummary returns the caller's nutrition totals for one day.
// GET /api/food/log/summary?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getNutritionSummary(c *gin.Context) {
	w, ok := h.windowFromQuery(c)
	if !ok {
		return
	}
	summary, err := aggregateNutrition(c, h.store, userID(c), w)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
