package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"careerpath/career-advisor/internal/models"
	"careerpath/career-advisor/internal/repositories"
)

type HistoryHandler struct {
	historyRepo repositories.HistoryRepository
}

func NewHistoryHandler(historyRepo repositories.HistoryRepository) *HistoryHandler {
	return &HistoryHandler{
		historyRepo: historyRepo,
	}
}

// HandleGetHistory handles GET /history/:user_id
func (h *HistoryHandler) HandleGetHistory(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Params("user_id"))
	if userID == "" {
		return badRequest(c, "user_id is required")
	}

	includeArchived := c.QueryBool("include_archived", false)

	histories, err := h.historyRepo.FindByUser(userID, includeArchived)
	if err != nil {
		return respondError(c, err)
	}

	items := make([]models.HistoryItem, 0, len(histories))
	for i := range histories {
		items = append(items, histories[i].ToItem())
	}

	return c.JSON(fiber.Map{
		"user_id": userID,
		"history": items,
		"count":   len(items),
	})
}

// HandleBulkDelete handles POST /history/bulk-delete. Ids that fail are reported per id and do
// not fail the request.
func (h *HistoryHandler) HandleBulkDelete(c *fiber.Ctx) error {
	var req models.BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if msg := validateBulk(req.IDs, req.UserID, "delete"); msg != "" {
		return badRequest(c, msg)
	}

	result, err := h.historyRepo.BulkDelete(req.IDs, req.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(bulkResponse(result, fmt.Sprintf("Deleted %d item(s)", result.Updated)))
}

// HandleBulkArchive handles POST /history/bulk-archive
func (h *HistoryHandler) HandleBulkArchive(c *fiber.Ctx) error {
	var req models.BulkArchiveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if msg := validateBulk(req.IDs, req.UserID, "archive"); msg != "" {
		return badRequest(c, msg)
	}

	result, err := h.historyRepo.BulkArchive(req.IDs, req.UserID, req.IsArchived)
	if err != nil {
		return respondError(c, err)
	}

	action := "Archived"
	if !req.IsArchived {
		action = "Unarchived"
	}
	return c.JSON(bulkResponse(result, fmt.Sprintf("%s %d item(s)", action, result.Updated)))
}

func validateBulk(ids []string, userID, verb string) string {
	switch {
	case len(ids) == 0:
		return "No IDs provided"
	case len(ids) > repositories.MaxBulkItems:
		return fmt.Sprintf("Cannot %s more than %d items at once", verb, repositories.MaxBulkItems)
	case strings.TrimSpace(userID) == "":
		return "user_id is required"
	}
	return ""
}

func bulkResponse(result *repositories.BulkResult, message string) models.BulkResponse {
	if result.Failed > 0 {
		message = fmt.Sprintf("%s, %d failed", message, result.Failed)
	}
	return models.BulkResponse{
		Success:   true,
		Updated:   result.Updated,
		Failed:    result.Failed,
		FailedIDs: nonNil(result.FailedIDs),
		Failures:  nonNilFailures(result.Failures),
		Message:   message,
	}
}

func nonNilFailures(f []models.BulkFailure) []models.BulkFailure {
	if f == nil {
		return []models.BulkFailure{}
	}
	return f
}
