// handlers/gamification_routes.go
package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"finance-gamification/errs"
	"finance-gamification/middleware"
	"finance-gamification/models"
	"finance-gamification/services"
)

func SetupGamificationRoutes(app *fiber.App, svc *services.GamificationService) {
	// Secured routes require user context forwarded by the Gateway.
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	// The sole write entry point: the finance app reports one qualifying
	// activity and gets back the events to dispatch as notifications.
	securedGroup.Post("/user/activity", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			Type               models.ActivityType  `json:"type"`
			Amount             float64              `json:"amount"`
			Category           string               `json:"category"`
			OccurredAt         *time.Time           `json:"occurred_at"`
			Timezone           string               `json:"timezone"`
			Stats              models.ActivityStats `json:"stats"`
			PersonalizedQuests []models.QuestSpec   `json:"personalized_quests"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		act := &models.Activity{
			UserID:             userID,
			Type:               req.Type,
			Amount:             req.Amount,
			Category:           req.Category,
			Timezone:           req.Timezone,
			Stats:              req.Stats,
			PersonalizedQuests: req.PersonalizedQuests,
		}
		if req.OccurredAt != nil {
			act.OccurredAt = *req.OccurredAt
		}

		outcome, err := svc.RecordActivity(c.Context(), act)
		if err != nil {
			return errorResponse(c, err, "failed to record activity")
		}
		return c.JSON(outcome)
	})

	securedGroup.Get("/user/gamification", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		status, err := svc.Status(c.Context(), userID)
		if err != nil {
			return errorResponse(c, err, "failed to get gamification status")
		}
		return c.JSON(status)
	})

	securedGroup.Get("/user/gamification/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		unlocked, err := svc.UnlockedAchievements(c.Context(), userID)
		if err != nil {
			return errorResponse(c, err, "failed to get achievements")
		}
		return c.JSON(unlocked)
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware())

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserID string `json:"user_id"`
			XP     int    `json:"xp"`
			Reason string `json:"reason"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		outcome, err := svc.GrantXP(c.Context(), req.UserID, req.XP, req.Reason)
		if err != nil {
			return errorResponse(c, err, "XP grant failed")
		}
		return c.JSON(outcome)
	})

	adminGroup.Post("/quests/templates", func(c *fiber.Ctx) error {
		var tmpl models.DailyQuestTemplate
		if err := c.BodyParser(&tmpl); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if tmpl.Title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "title is required",
			})
		}
		tmpl.IsActive = true
		if err := svc.CreateQuestTemplate(c.Context(), &tmpl); err != nil {
			return errorResponse(c, err, "failed to create quest template")
		}
		return c.Status(fiber.StatusCreated).JSON(tmpl)
	})
}

// errorResponse maps engine errors to HTTP statuses, keeping the stable error
// code in the payload for the gateway.
func errorResponse(c *fiber.Ctx, err error, fallback string) error {
	var def errs.Definition
	if errors.As(err, &def) {
		status := fiber.StatusInternalServerError
		switch def.Code {
		case errs.InvalidAmount.Code, errs.InvalidActivityType.Code:
			status = fiber.StatusBadRequest
		case errs.ProfileNotFound.Code:
			status = fiber.StatusNotFound
		case errs.ConcurrencyConflict.Code:
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error": def.Message,
			"code":  def.Code,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fallback,
		"cause": err.Error(),
	})
}
