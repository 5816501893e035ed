package meal

import (
	"backend-packshare/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/:id/meals", authMiddleware, func(c *fiber.Ctx) error {
		var req Product
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		req.TripID = c.Params("id")
		product, err := svc.AddProduct(c.Context(), req)
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(product)
	})

	r.Get("/:id/meals", func(c *fiber.Ctx) error {
		products, err := svc.Products(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(products)
	})

	r.Get("/:id/nutrition", func(c *fiber.Ctx) error {
		summary, err := svc.Nutrition(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(summary)
	})
}
