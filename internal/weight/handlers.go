package weight

import (
	"backend-packshare/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/:id/weight", func(c *fiber.Ctx) error {
		report, err := svc.Report(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(report)
	})

	r.Post("/:id/weight/redistribute", authMiddleware, func(c *fiber.Ctx) error {
		result, err := svc.Redistribute(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(result)
	})
}
