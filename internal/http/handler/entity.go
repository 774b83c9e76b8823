package handler

import (
	"mime"

	"github.com/gofiber/fiber/v2"

	"gsa/internal/service"
)

// ListEntities returns one page of entities of a type.
//
// @Summary List entities
// @Description The filter query parameter takes the GMP filter language, e.g. "severity>5 rows=20 sort-reverse=severity".
// @Tags entities
// @Security BearerAuth
// @Produce json
// @Param type path string true "entity type, e.g. task, host, nvt"
// @Param filter query string false "filter term"
// @Success 200 {object} service.EntityList
// @Failure 404 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /api/v1/{type} [get]
func ListEntities(svc service.EntityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.List(c.UserContext(), c.Params("type"), c.Query("filter"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(list)
	}
}

// ListTypes returns the supported entity types.
//
// @Summary Entity types
// @Tags entities
// @Security BearerAuth
// @Produce json
// @Success 200 {array} string
// @Router /api/v1/types [get]
func ListTypes(svc service.EntityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Types())
	}
}

// GetEntity returns one entity.
//
// @Summary Get entity
// @Tags entities
// @Security BearerAuth
// @Produce json
// @Param type path string true "entity type"
// @Param id path string true "entity id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} errorPayload
// @Router /api/v1/{type}/{id} [get]
func GetEntity(svc service.EntityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		e, err := svc.Get(c.UserContext(), c.Params("type"), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(e)
	}
}

// DeleteEntity moves an entity into the trashcan.
//
// @Summary Delete entity
// @Tags entities
// @Security BearerAuth
// @Param type path string true "entity type"
// @Param id path string true "entity id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /api/v1/{type}/{id} [delete]
func DeleteEntity(svc service.EntityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("type"), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// CloneEntity copies an entity.
//
// @Summary Clone entity
// @Tags entities
// @Security BearerAuth
// @Produce json
// @Param type path string true "entity type"
// @Param id path string true "entity id"
// @Success 201 {object} idResponse
// @Failure 404 {object} errorPayload
// @Router /api/v1/{type}/{id}/clone [post]
func CloneEntity(svc service.EntityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := svc.Clone(c.UserContext(), c.Params("type"), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(idResponse{ID: id})
	}
}

// BulkDelete deletes the entities selected by ids or filter.
//
// @Summary Bulk delete
// @Tags entities
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param type path string true "entity type"
// @Param body body service.BulkRequest true "selection"
// @Success 200 {object} idsResponse
// @Failure 400 {object} errorPayload
// @Router /api/v1/{type}/bulk-delete [post]
func BulkDelete(svc service.EntityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.BulkRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		ids, err := svc.BulkDelete(c.UserContext(), c.Params("type"), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(idsResponse{IDs: ids})
	}
}

// ExportEntities streams the XML export of the selected entities.
//
// @Summary Export entities
// @Tags entities
// @Security BearerAuth
// @Accept json
// @Produce xml
// @Param type path string true "entity type"
// @Param body body service.BulkRequest true "selection"
// @Success 200 {file} file
// @Failure 400 {object} errorPayload
// @Router /api/v1/{type}/export [post]
func ExportEntities(svc service.EntityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.BulkRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		typ := c.Params("type")
		dl, err := svc.Export(c.UserContext(), typ, req)
		if err != nil {
			return writeServiceError(c, err)
		}

		filename := dl.Filename
		if filename == "" {
			filename = typ + "-export.xml"
		}
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
		c.Set(fiber.HeaderContentType, orDefault(dl.ContentType, fiber.MIMEApplicationXMLCharsetUTF8))
		size := -1
		if dl.ContentLength > 0 {
			size = int(dl.ContentLength)
		}
		return c.SendStream(dl.Body, size)
	}
}

type idResponse struct {
	ID string `json:"id"`
}

type idsResponse struct {
	IDs []string `json:"ids"`
}
