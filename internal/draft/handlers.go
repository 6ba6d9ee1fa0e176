package draft

import (
	"errors"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/auth"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/shared/geo"

	"github.com/gofiber/fiber/v2"
)

type pointsRequest struct {
	Points []geo.Point `json:"points"`
}

func RegisterRoutes(r fiber.Router, svc *Service, ownerMiddleware fiber.Handler) {
	r.Post("/", ownerMiddleware, func(c *fiber.Ctx) error {
		var req pointsRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
		d, err := svc.Create(c.Context(), auth.OwnerID(c), req.Points)
		if err != nil {
			return draftError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(d)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		d, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return draftError(err)
		}
		return c.JSON(d)
	})

	r.Get("/:id/summary", func(c *fiber.Ctx) error {
		sum, err := svc.Summary(c.Context(), c.Params("id"))
		if err != nil {
			return draftError(err)
		}
		return c.JSON(sum)
	})

	r.Put("/:id/points", func(c *fiber.Ctx) error {
		var req pointsRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		d, err := svc.ReplacePoints(c.Context(), c.Params("id"), req.Points)
		if err != nil {
			return draftError(err)
		}
		return c.JSON(d)
	})

	r.Post("/:id/points", func(c *fiber.Ctx) error {
		var p geo.Point
		if err := c.BodyParser(&p); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		d, err := svc.AppendPoint(c.Context(), c.Params("id"), p)
		if err != nil {
			return draftError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(d)
	})

	r.Delete("/:id", func(c *fiber.Ctx) error {
		if err := svc.Clear(c.Context(), c.Params("id")); err != nil {
			return draftError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func draftError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "draft not found")
	case errors.Is(err, ErrInvalidPoint):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
