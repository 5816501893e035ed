package trip

import (
	"time"

	"backend-packshare/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

type memberRequest struct {
	UserID       string   `json:"user_id"`
	Name         string   `json:"name"`
	BodyWeightKg *float64 `json:"body_weight_kg"`
	Gender       *string  `json:"gender"`
	BirthDate    string   `json:"birth_date"`
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Trip
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Name == "" || req.CreatedBy == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and created_by required")
		}
		trip, err := svc.CreateTrip(c.Context(), req)
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(trip)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		trip, err := svc.GetTrip(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(trip)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Trip
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		trip, err := svc.UpdateTrip(c.Context(), c.Params("id"), req)
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(trip)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeleteTrip(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/members", authMiddleware, func(c *fiber.Ctx) error {
		var body memberRequest
		if err := c.BodyParser(&body); err != nil || body.UserID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "user_id required")
		}
		member := TripMember{
			TripID:       c.Params("id"),
			UserID:       body.UserID,
			Name:         body.Name,
			BodyWeightKg: body.BodyWeightKg,
			Gender:       body.Gender,
		}
		if body.BirthDate != "" {
			birth, err := time.Parse(time.DateOnly, body.BirthDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "birth_date must be YYYY-MM-DD")
			}
			member.BirthDate = &birth
		}
		member, err := svc.AddMember(c.Context(), member)
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(member)
	})

	r.Get("/:id/members", func(c *fiber.Ctx) error {
		members, err := svc.Members(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(members)
	})
}
