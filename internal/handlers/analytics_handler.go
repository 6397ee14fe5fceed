package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"careerpath/career-advisor/internal/logger"
	"careerpath/career-advisor/internal/models"
	"careerpath/career-advisor/internal/repositories"
	"careerpath/career-advisor/internal/services"
)

const maxAnalyticsLimit = 1000

type AnalyticsHandler struct {
	trackerRepo repositories.TrackerRepository
	publisher   services.EventPublisher
	worker      services.Worker
}

func NewAnalyticsHandler(
	trackerRepo repositories.TrackerRepository,
	publisher services.EventPublisher,
	worker services.Worker,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		trackerRepo: trackerRepo,
		publisher:   publisher,
		worker:      worker,
	}
}

// HandleSearches handles GET /analytics/searches
func (h *AnalyticsHandler) HandleSearches(c *fiber.Ctx) error {
	limit := queryLimit(c, "limit", repositories.DefaultSearchLimit, maxAnalyticsLimit)

	searches, err := h.trackerRepo.FindAllSearches(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"searches": searches})
}

// HandlePopularRoles handles GET /analytics/popular-roles
func (h *AnalyticsHandler) HandlePopularRoles(c *fiber.Ctx) error {
	limit := queryLimit(c, "limit", repositories.DefaultPopularRoleLimit, maxAnalyticsLimit)

	roles, err := h.trackerRepo.PopularRoles(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"popular_roles": roles})
}

// HandleSummary handles GET /analytics/summary
func (h *AnalyticsHandler) HandleSummary(c *fiber.Ctx) error {
	summary, err := h.trackerRepo.Summary()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// HandleUserSearches handles GET /user/:user_id/searches
func (h *AnalyticsHandler) HandleUserSearches(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Params("user_id"))
	if userID == "" {
		return badRequest(c, "user_id is required")
	}

	limit := queryLimit(c, "limit", repositories.DefaultUserSearchLimit, maxAnalyticsLimit)
	searches, err := h.trackerRepo.FindSearchesByUser(userID, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"searches": searches})
}

// HandleActivity handles POST /activity. A failed write is logged and reported as
// success=false rather than an error status.
func (h *AnalyticsHandler) HandleActivity(c *fiber.Ctx) error {
	var req models.ActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if strings.TrimSpace(req.UserID) == "" {
		return badRequest(c, "user_id is required")
	}
	if strings.TrimSpace(req.ActivityType) == "" {
		return badRequest(c, "activity_type is required")
	}

	activity := &models.ActivityLog{
		UserID:       req.UserID,
		UserEmail:    req.UserEmail,
		ActivityType: req.ActivityType,
		Details:      req.Details,
		ActivityAt:   time.Now().UTC(),
	}
	if err := h.trackerRepo.LogActivity(activity); err != nil {
		logger.Warn().Err(err).Str("user_id", req.UserID).Msg("⚠️ Failed to log activity")
		return c.JSON(fiber.Map{"success": false})
	}

	event := services.Event{
		Type:       services.EventActivityLogged,
		UserID:     req.UserID,
		OccurredAt: activity.ActivityAt,
		Data: map[string]interface{}{
			"activity_type": req.ActivityType,
		},
	}
	publishLater(h.worker, h.publisher, event)

	return c.JSON(fiber.Map{"success": true, "id": activity.ID})
}
