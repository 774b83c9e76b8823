package handler

import (
	"github.com/gofiber/fiber/v2"

	"gsa/internal/gmp/command"
	"gsa/internal/service"
)

type reportIDResponse struct {
	ReportID string `json:"report_id"`
}

// StartTask starts a scan.
//
// @Summary Start task
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param id path string true "task id"
// @Success 202 {object} reportIDResponse
// @Failure 400 {object} errorPayload
// @Router /api/v1/tasks/{id}/start [post]
func StartTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reportID, err := svc.Start(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(reportIDResponse{ReportID: reportID})
	}
}

// StopTask stops a running scan.
//
// @Summary Stop task
// @Tags tasks
// @Security BearerAuth
// @Param id path string true "task id"
// @Success 204
// @Router /api/v1/tasks/{id}/stop [post]
func StopTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Stop(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ResumeTask continues a stopped scan.
//
// @Summary Resume task
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param id path string true "task id"
// @Success 202 {object} reportIDResponse
// @Router /api/v1/tasks/{id}/resume [post]
func ResumeTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reportID, err := svc.Resume(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(reportIDResponse{ReportID: reportID})
	}
}

// CreateTask creates a scan task.
//
// @Summary Create task
// @Tags tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body command.TaskParams true "task"
// @Success 201 {object} idResponse
// @Failure 422 {object} errorPayload
// @Router /api/v1/tasks [post]
func CreateTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p command.TaskParams
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

// SaveTask changes a scan task.
//
// @Summary Modify task
// @Tags tasks
// @Security BearerAuth
// @Accept json
// @Param id path string true "task id"
// @Param body body command.TaskParams true "task"
// @Success 204
// @Failure 422 {object} errorPayload
// @Router /api/v1/tasks/{id} [put]
func SaveTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p command.TaskParams
		if err := c.BodyParser(&p); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := svc.Save(c.UserContext(), c.Params("id"), p); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
