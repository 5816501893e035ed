package equipment

import (
	"backend-packshare/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

// RegisterCatalogRoutes mounts the shared equipment catalog.
func RegisterCatalogRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req CatalogItem
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		item, err := svc.CreateItem(c.Context(), req)
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		items, err := svc.ListItems(c.Context())
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(items)
	})
}

// RegisterTripRoutes mounts per-trip assignment routes under a /trips group.
func RegisterTripRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/:id/equipment", authMiddleware, func(c *fiber.Ctx) error {
		var req AddItemInput
		if err := c.BodyParser(&req); err != nil || req.EquipmentID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "equipment_id required")
		}
		a, err := svc.AddItem(c.Context(), c.Params("id"), req)
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	})

	r.Post("/:id/equipment/generate", authMiddleware, func(c *fiber.Ctx) error {
		created, err := svc.GenerateFromCatalog(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/:id/equipment", func(c *fiber.Ctx) error {
		list, err := svc.Assignments(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(list)
	})

	r.Put("/:id/equipment/:assignmentId/assign", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			ParticipantID string `json:"participant_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.ParticipantID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "participant_id required")
		}
		a, err := svc.Assign(c.Context(), c.Params("id"), c.Params("assignmentId"), body.ParticipantID)
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(a)
	})

	r.Delete("/:id/equipment/:assignmentId/assign", authMiddleware, func(c *fiber.Ctx) error {
		a, err := svc.Release(c.Context(), c.Params("id"), c.Params("assignmentId"))
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(a)
	})

	r.Patch("/:id/equipment/:assignmentId", authMiddleware, func(c *fiber.Ctx) error {
		var patch Patch
		if err := c.BodyParser(&patch); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		a, err := svc.Update(c.Context(), c.Params("id"), c.Params("assignmentId"), patch)
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(a)
	})

	r.Delete("/:id/equipment/:assignmentId", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Remove(c.Context(), c.Params("id"), c.Params("assignmentId")); err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
