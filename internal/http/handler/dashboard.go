package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"gsa/internal/service"
)

// Dashboard returns the counters of several entity types.
//
// @Summary Dashboard counts
// @Tags dashboard
// @Security BearerAuth
// @Produce json
// @Param types query string false "comma separated entity types"
// @Param filter query string false "filter term applied to every type"
// @Success 200 {object} map[string]collection.Counts
// @Failure 404 {object} errorPayload
// @Router /api/v1/dashboard [get]
func Dashboard(svc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var types []string
		for _, t := range strings.Split(c.Query("types"), ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}

		counts, err := svc.Counts(c.UserContext(), types, c.Query("filter"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(counts)
	}
}
