package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler holds shared dependencies (store, token issuer, clock) for all route handlers.
type Handler struct {
	store  store
	tokens *tokenIssuer
	now    func() time.Time // overridable for tests
	log    zerolog.Logger
}

func newHandler(s store, tokens *tokenIssuer, log zerolog.Logger) *Handler {
	return &Handler{store: s, tokens: tokens, now: time.Now, log: log}
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// newRouter builds the gin engine: recovery, request logging, metrics, CORS
// and every route. An empty corsOrigins disables CORS handling.
func newRouter(h *Handler, corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.SetTrustedProxies(nil)
	router.Use(gin.Recovery(), requestLogger(h.log), metricsMiddleware())
	if len(corsOrigins) > 0 {
		router.Use(cors.New(corsConfig(corsOrigins)))
	}
	h.registerRoutes(router)
	return router
}

// corsConfig allows any origin for "*", otherwise exactly the listed origins
// with credentials.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(metricsHandler()))

	// Public routes
	api := router.Group("/api")
	api.GET("/health", h.health)
	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)

	// Authenticated routes
	authed := api.Group("", h.authMiddleware())
	authed.GET("/auth/profile", h.getProfile)
	authed.PATCH("/auth/profile", h.patchProfile)
	authed.POST("/food/items", h.createFoodItem)
	authed.GET("/food/items", h.listFoodItems)
	authed.POST("/food/log", h.logMeal)
	authed.GET("/food/log", h.getMealLog)
	authed.GET("/food/log/summary", h.getNutritionSummary)
	authed.POST("/exercises", h.createExercise)
	authed.GET("/exercises", h.listExercises)
	authed.POST("/workouts/log", h.logWorkout)
	authed.GET("/workouts/log", h.getWorkoutLog)
	authed.POST("/goals", h.createGoal)
	authed.GET("/goals", h.listGoals)
	authed.GET("/dashboard/stats", h.getDashboardStats)
}

// health reports whether the store is reachable.
// GET /api/health (public).
func (h *Handler) health(c *gin.Context) {
	if err := h.store.ping(c); err != nil {
		h.log.Warn().Err(err).Msg("health check failed")
		apiError(c, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// windowFromQuery resolves the optional ?date=YYYY-MM-DD parameter into a
// day window, writing a 400 and returning ok=false when it is malformed.
func (h *Handler) windowFromQuery(c *gin.Context) (dayWindow, bool) {
	w, err := dayWindowFor(c.Query("date"), h.now())
	if err != nil {
		h.respondError(c, err)
		return dayWindow{}, false
	}
	return w, true
}

// userID returns the authenticated account id set by authMiddleware.
func userID(c *gin.Context) string {
	return c.GetString("user_id")
}
