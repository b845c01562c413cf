package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a pre-computed bcrypt hash used when a login username isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based username enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// register creates an account and returns a session token with the profile.
// POST /api/auth/register (public, no auth required).
func (h *Handler) register(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, bindingError(err))
		return
	}
	if len(body.Password) > maxPasswordBytes {
		h.respondError(c, newValidationError("password", "must be at most 72 bytes"))
		return
	}
	if !body.GoalType.valid() {
		h.respondError(c, enumError("goal_type", "weight_loss", "muscle_gain", "maintenance", "endurance"))
		return
	}
	if !body.ActivityLevel.valid() {
		h.respondError(c, enumError("activity_level",
			"sedentary", "lightly_active", "moderately_active", "very_active", "extremely_active"))
		return
	}

	// Concurrent duplicates that slip past this check are rejected by the
	// unique constraints in createAccount.
	exists, err := h.store.accountExists(c, body.Username, body.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if exists {
		h.respondError(c, errConflict)
		return
	}

	hash, err := hashPassword(body.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	now := h.now()
	a := account{
		ID:            uuid.New().String(),
		Username:      body.Username,
		Email:         body.Email,
		PasswordHash:  hash,
		FullName:      body.FullName,
		Age:           *body.Age,
		Height:        *body.Height,
		Weight:        *body.Weight,
		GoalType:      body.GoalType,
		ActivityLevel: body.ActivityLevel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.store.createAccount(c, &a); err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.tokens.issue(a.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	registrationsTotal.Inc()
	h.log.Info().Str("user_id", a.ID).Str("username", a.Username).Msg("account registered")

	c.JSON(http.StatusOK, gin.H{"token": token, "user": buildProfile(&a)})
}

// login verifies username/password and returns a fresh session token.
// POST /api/auth/login (public, no auth required).
func (h *Handler) login(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, bindingError(err))
		return
	}

	u, lookupErr := h.store.accountByUsername(c, body.Username)
	if lookupErr != nil && !errors.Is(lookupErr, errNotFound) {
		h.respondError(c, lookupErr)
		return
	}

	// Always run bcrypt to keep response time constant regardless of whether the
	// username was found, so usernames cannot be enumerated by timing.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.PasswordHash
	}
	passwordOK := checkPassword(body.Password, hashToCheck)

	if lookupErr != nil || !passwordOK {
		h.respondError(c, errBadCredentials)
		return
	}

	token, err := h.tokens.issue(u.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": buildProfile(&u)})
}

// getProfile returns the authenticated account with BMI and daily calories.
// GET /api/auth/profile.
func (h *Handler) getProfile(c *gin.Context) {
	a, err := h.store.accountByID(c, userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildProfile(&a))
}

// authMiddleware validates the Bearer token and sets user_id on the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		id, err := h.tokens.verify(token)
		if err != nil {
			apiError(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}

		c.Set("user_id", id)
		c.Next()
	}
}
