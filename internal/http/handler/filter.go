package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"gsa/internal/gmp/command"
	"gsa/internal/service"
)

// ParseFilter normalizes a filter term and derives its paging filters.
//
// @Summary Parse filter
// @Tags filters
// @Security BearerAuth
// @Produce json
// @Param filter query string false "filter term"
// @Param filtered query int false "number of matching entities, enables the last page"
// @Success 200 {object} service.FilterView
// @Failure 400 {object} errorPayload
// @Router /api/v1/filters/parse [get]
func ParseFilter(svc service.FilterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filtered, err := strconv.Atoi(c.Query("filtered", "0"))
		if err != nil || filtered < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FILTERED", "invalid filtered")
		}
		return c.JSON(svc.Parse(c.Query("filter"), filtered))
	}
}

// CreateFilter saves a filter.
//
// @Summary Create filter
// @Tags filters
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body command.FilterParams true "filter"
// @Success 201 {object} idResponse
// @Failure 422 {object} errorPayload
// @Router /api/v1/filters [post]
func CreateFilter(svc service.FilterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p command.FilterParams
		if err := c.BodyParser(&p); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		id, err := svc.Create(c.UserContext(), p)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(idResponse{ID: id})
	}
}

// SaveFilter changes a saved filter.
//
// @Summary Modify filter
// @Tags filters
// @Security BearerAuth
// @Accept json
// @Param id path string true "filter id"
// @Param body body command.FilterParams true "filter"
// @Success 204
// @Failure 422 {object} errorPayload
// @Router /api/v1/filters/{id} [put]
func SaveFilter(svc service.FilterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p command.FilterParams
		if err := c.BodyParser(&p); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := svc.Save(c.UserContext(), c.Params("id"), p); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
