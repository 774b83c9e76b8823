package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gsa/internal/http/middleware"
	"gsa/internal/service"
)

func owner(c *fiber.Ctx) string {
	if claims := middleware.ClaimsFrom(c); claims != nil {
		return claims.Subject
	}
	return ""
}

// ArchiveReport renders a report and keeps it in object storage.
//
// @Summary Archive report
// @Tags archives
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "report id"
// @Param body body service.ArchiveRequest false "format and filter"
// @Success 201 {object} model.ReportArchive
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /api/v1/reports/{id}/archive [post]
func ArchiveReport(svc service.ArchiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.ArchiveRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
			}
		}

		a, err := svc.Archive(c.UserContext(), owner(c), c.Params("id"), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// ListArchives lists the archived reports of the session user.
//
// @Summary List archives
// @Tags archives
// @Security BearerAuth
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "offset" default(0)
// @Param report_id query string false "only archives of this report"
// @Success 200 {object} service.ArchiveListResult
// @Failure 400 {object} errorPayload
// @Router /api/v1/archives [get]
func ListArchives(svc service.ArchiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), owner(c), c.Query("report_id"), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetArchive returns an archive with a presigned download URL.
//
// @Summary Get archive
// @Tags archives
// @Security BearerAuth
// @Produce json
// @Param id path string true "archive id"
// @Success 200 {object} model.ReportArchive
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/v1/archives/{id} [get]
func GetArchive(svc service.ArchiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		a, err := svc.Get(c.UserContext(), owner(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(a)
	}
}

// DeleteArchive removes an archive and its stored object.
//
// @Summary Delete archive
// @Tags archives
// @Security BearerAuth
// @Param id path string true "archive id"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/v1/archives/{id} [delete]
func DeleteArchive(svc service.ArchiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), owner(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
